package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenerateHistoryID returns a time-ordered id with a random suffix.
func GenerateHistoryID(now time.Time) string {
	return fmt.Sprintf("%d-%d", now.UnixMilli(), uuid.New().ID())
}

func GenerateRoundID() string {
	return fmt.Sprintf("crash_%s_%d",
		time.Now().Format("20060102"),
		uuid.New().ID())
}

func GenerateSessionID() string {
	return uuid.NewString()
}

func IntPtr(v int) *int {
	return &v
}

func FormatMultiplier(m float64) string {
	return fmt.Sprintf("%.2fx", m)
}
