package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"vela-casino/internal/models"
	"vela-casino/internal/storage"

	"go.uber.org/zap"
)

// LedgerStore owns the three persisted records: account, game history and settings.
// Every read-modify-write runs under one lock, so a read always observes the last write.
type LedgerStore struct {
	mu      sync.Mutex
	backend storage.Backend
	keys    ledgerKeys
	logger  *zap.Logger
	now     func() time.Time
}

func NewLedgerStore(backend storage.Backend, namespace string, logger *zap.Logger) *LedgerStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerStore{
		backend: backend,
		keys:    newLedgerKeys(namespace),
		logger:  logger,
		now:     time.Now,
	}
}

// SetClock replaces the time source used for timestamps.
func (s *LedgerStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *LedgerStore) Close() error {
	return s.backend.Close()
}

// GetAccount returns ErrAccountNotFound when no account is stored or the stored record is unreadable.
func (s *LedgerStore) GetAccount(ctx context.Context) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadAccount(ctx)
}

// CreateAccount seeds a fresh account, replacing any existing one.
func (s *LedgerStore) CreateAccount(ctx context.Context, username string) (*models.Account, error) {
	name, err := models.NormalizeUsername(username)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account := models.NewAccount(name, s.now())
	entry, err := encode(s.keys.account, account)
	if err != nil {
		return nil, err
	}
	if err := s.backend.Commit(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}
	return account, nil
}

func (s *LedgerStore) UpdateAccount(ctx context.Context, u models.AccountUpdate) (*models.Account, error) {
	if u.Username != nil {
		name, err := models.NormalizeUsername(*u.Username)
		if err != nil {
			return nil, err
		}
		u.Username = &name
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.loadAccount(ctx)
	if err != nil {
		return nil, err
	}
	account.Apply(u, s.now())

	entry, err := encode(s.keys.account, account)
	if err != nil {
		return nil, err
	}
	if err := s.backend.Commit(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}
	return account, nil
}

// AdjustBalance adds delta to the balance and returns the result.
// It fails with ErrAccountNotFound when there is no account and with
// ErrInsufficientBalance when the balance would drop below zero.
func (s *LedgerStore) AdjustBalance(ctx context.Context, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.loadAccount(ctx)
	if err != nil {
		return 0, err
	}
	balance := account.Balance + delta
	if balance < 0 {
		return account.Balance, fmt.Errorf("%w: balance %d, debit %d", models.ErrInsufficientBalance, account.Balance, -delta)
	}
	account.Apply(models.AccountUpdate{Balance: &balance}, s.now())

	entry, err := encode(s.keys.account, account)
	if err != nil {
		return 0, err
	}
	if err := s.backend.Commit(ctx, entry); err != nil {
		return 0, fmt.Errorf("failed to save account: %w", err)
	}
	return account.Balance, nil
}

// GetHistory returns the stored rounds, most recent first. Missing or unreadable history is empty.
func (s *LedgerStore) GetHistory(ctx context.Context) ([]models.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadHistory(ctx)
}

func (s *LedgerStore) HistoryStats(ctx context.Context) (models.HistoryStats, error) {
	history, err := s.GetHistory(ctx)
	if err != nil {
		return models.HistoryStats{}, err
	}
	return models.ComputeHistoryStats(history), nil
}

// AppendHistory records a finished round and updates the account statistics in one commit.
func (s *LedgerStore) AppendHistory(ctx context.Context, e models.NewHistoryEntry) (models.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, entry, err := s.settle(ctx, e, false)
	return entry, err
}

// SettleRound credits the payout of a won round, records it in the history and updates the
// account statistics. All three writes are committed together.
func (s *LedgerStore) SettleRound(ctx context.Context, e models.NewHistoryEntry) (*models.Account, models.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.settle(ctx, e, true)
}

func (s *LedgerStore) settle(ctx context.Context, e models.NewHistoryEntry, credit bool) (*models.Account, models.HistoryEntry, error) {
	if e.Result != models.ResultWin {
		e.Payout = 0
	}

	account, err := s.loadAccount(ctx)
	if err != nil {
		return nil, models.HistoryEntry{}, err
	}
	history, err := s.loadHistory(ctx)
	if err != nil {
		return nil, models.HistoryEntry{}, err
	}

	now := s.now()
	entry := models.HistoryEntry{
		ID:        models.GenerateHistoryID(now),
		Game:      e.Game,
		Bet:       e.Bet,
		Result:    e.Result,
		Payout:    e.Payout,
		Timestamp: now,
	}

	history = append([]models.HistoryEntry{entry}, history...)
	if len(history) > models.HistoryCap {
		history = history[:models.HistoryCap]
	}

	update := models.AccountUpdate{}
	played := account.GamesPlayed + 1
	update.GamesPlayed = &played
	if e.Result == models.ResultWin {
		winnings := account.TotalWinnings + e.Payout
		update.TotalWinnings = &winnings
		if credit {
			balance := account.Balance + e.Payout
			update.Balance = &balance
		}
	} else {
		losses := account.TotalLosses + e.Bet
		update.TotalLosses = &losses
	}
	account.Apply(update, now)

	historyEntry, err := encode(s.keys.history, history)
	if err != nil {
		return nil, models.HistoryEntry{}, err
	}
	accountEntry, err := encode(s.keys.account, account)
	if err != nil {
		return nil, models.HistoryEntry{}, err
	}
	if err := s.backend.Commit(ctx, historyEntry, accountEntry); err != nil {
		return nil, models.HistoryEntry{}, fmt.Errorf("failed to commit round: %w", err)
	}

	s.logger.Info("round recorded",
		zap.String("game", entry.Game),
		zap.Int64("bet", entry.Bet),
		zap.String("result", string(entry.Result)),
		zap.Int64("payout", entry.Payout),
		zap.Int64("balance", account.Balance),
	)
	return account, entry, nil
}

// GetSettings returns the stored settings, or the defaults when none are stored.
func (s *LedgerStore) GetSettings(ctx context.Context) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadSettings(ctx)
}

func (s *LedgerStore) UpdateSettings(ctx context.Context, u models.SettingsUpdate) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadSettings(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	merged, err := current.Merge(u)
	if err != nil {
		return models.Settings{}, err
	}

	entry, err := encode(s.keys.settings, merged)
	if err != nil {
		return models.Settings{}, err
	}
	if err := s.backend.Commit(ctx, entry); err != nil {
		return models.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	return merged, nil
}

// ResetAll removes the account, the history and the settings.
func (s *LedgerStore) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(ctx, s.keys.account, s.keys.history, s.keys.settings); err != nil {
		return fmt.Errorf("failed to reset ledger: %w", err)
	}
	s.logger.Info("ledger reset")
	return nil
}

func (s *LedgerStore) loadAccount(ctx context.Context) (*models.Account, error) {
	data, err := s.backend.Get(ctx, s.keys.account)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	var account *models.Account
	if err := json.Unmarshal(data, &account); err != nil {
		s.logger.Warn("stored account is corrupt, treating as absent", zap.Error(err))
		return nil, models.ErrAccountNotFound
	}
	if account == nil || account.Username == "" {
		s.logger.Warn("stored account has no username, treating as absent")
		return nil, models.ErrAccountNotFound
	}
	return account, nil
}

func (s *LedgerStore) loadHistory(ctx context.Context) ([]models.HistoryEntry, error) {
	data, err := s.backend.Get(ctx, s.keys.history)
	if errors.Is(err, storage.ErrNotFound) {
		return []models.HistoryEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	var history []models.HistoryEntry
	if err := json.Unmarshal(data, &history); err != nil {
		s.logger.Warn("stored history is corrupt, treating as empty", zap.Error(err))
		return []models.HistoryEntry{}, nil
	}
	if history == nil {
		history = []models.HistoryEntry{}
	}
	return history, nil
}

func (s *LedgerStore) loadSettings(ctx context.Context) (models.Settings, error) {
	data, err := s.backend.Get(ctx, s.keys.settings)
	if errors.Is(err, storage.ErrNotFound) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	// Unmarshal over the defaults so fields missing from an older record keep their default.
	settings := models.DefaultSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		s.logger.Warn("stored settings are corrupt, using defaults", zap.Error(err))
		return models.DefaultSettings(), nil
	}
	if !settings.Theme.Valid() {
		settings.Theme = models.ThemeDark
	}
	return settings, nil
}

func encode(key string, v any) (storage.Entry, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return storage.Entry{}, fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return storage.Entry{Key: key, Value: data}, nil
}
