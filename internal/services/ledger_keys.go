package services

import "fmt"

const (
	KeyUserData    = "%s_user_data"
	KeyGameHistory = "%s_game_history"
	KeySettings    = "%s_settings"

	DefaultNamespace = "vela"
)

type ledgerKeys struct {
	account  string
	history  string
	settings string
}

func newLedgerKeys(namespace string) ledgerKeys {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return ledgerKeys{
		account:  fmt.Sprintf(KeyUserData, namespace),
		history:  fmt.Sprintf(KeyGameHistory, namespace),
		settings: fmt.Sprintf(KeySettings, namespace),
	}
}
