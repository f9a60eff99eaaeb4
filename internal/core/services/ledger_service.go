package services

import (
	"context"
	"fmt"
	"log/slog"

	"cardcabinet/internal/apperrors"
	"cardcabinet/internal/core/domain"
	"cardcabinet/internal/core/ports"
	"cardcabinet/internal/utils/mapping"
)

// LedgerService holds the single user's accounts in memory and keeps them
// synchronized with the card repository on every mutation. The cache mirrors
// the store write-through; card numbers are always read back from the store
// so externally added cards are still visible to transfers and logins.
type LedgerService struct {
	repo     ports.CardRepository
	accounts map[string]*domain.Account
	logger   *slog.Logger
}

// NewLedgerService loads every persisted card record into memory once.
func NewLedgerService(ctx context.Context, repo ports.CardRepository, logger *slog.Logger) (*LedgerService, error) {
	records, err := repo.ListCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	accounts := make(map[string]*domain.Account, len(records))
	for _, rec := range records {
		accounts[rec.Number] = mapping.ToAccount(rec)
	}
	logger.Info("accounts loaded", slog.Int("count", len(accounts)))
	return &LedgerService{repo: repo, accounts: accounts, logger: logger}, nil
}

// CardNumbers returns the set of card numbers currently in the store.
func (s *LedgerService) CardNumbers(ctx context.Context) (map[string]struct{}, error) {
	numbers, err := s.repo.ListCardNumbers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list card numbers: %w", err)
	}
	set := make(map[string]struct{}, len(numbers))
	for _, n := range numbers {
		set[n] = struct{}{}
	}
	return set, nil
}

// Account returns the cached account for a card number, if it exists.
func (s *LedgerService) Account(number string) (*domain.Account, bool) {
	acc, ok := s.accounts[number]
	return acc, ok
}

// AddAccount inserts the account into the cache and persists a new card
// record. The record id is the cache size after insertion; after deletions
// that id can repeat, matching how the store has always numbered cards.
func (s *LedgerService) AddAccount(ctx context.Context, account *domain.Account) error {
	s.accounts[account.CardNumber] = account
	id := int64(len(s.accounts))
	if err := s.repo.SaveCard(ctx, mapping.ToCardRecord(account, id)); err != nil {
		delete(s.accounts, account.CardNumber)
		return fmt.Errorf("failed to add account: %w", err)
	}
	s.logger.Info("account added", slog.String("card_number", account.CardNumber), slog.Int64("id", id))
	return nil
}

// DeleteAccount removes the account from the cache and the store. An account
// missing from the cache is reported as ErrNotFound, not a crash.
func (s *LedgerService) DeleteAccount(ctx context.Context, account *domain.Account) error {
	if _, ok := s.accounts[account.CardNumber]; !ok {
		return fmt.Errorf("account %s not cached: %w", account.CardNumber, apperrors.ErrNotFound)
	}
	delete(s.accounts, account.CardNumber)
	if err := s.repo.DeleteCard(ctx, account.CardNumber); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	s.logger.Info("account deleted", slog.String("card_number", account.CardNumber))
	return nil
}

// Fund adds amount to the account balance and persists the result. When the
// write fails the cached balance is restored so cache and store stay in sync.
func (s *LedgerService) Fund(ctx context.Context, account *domain.Account, amount int64) error {
	account.Balance += amount
	if err := s.repo.UpdateBalance(ctx, account.CardNumber, account.Balance); err != nil {
		account.Balance -= amount
		return fmt.Errorf("failed to fund account: %w", err)
	}
	s.logger.Info("account funded", slog.String("card_number", account.CardNumber), slog.Int64("amount", amount))
	return nil
}

// Transfer moves amount from the account to the destination card. The
// destination balance is read fresh from the store, and both new balances
// are written in one transaction, so a storage failure leaves neither side
// changed.
func (s *LedgerService) Transfer(ctx context.Context, account *domain.Account, destNumber string, amount int64) error {
	dest, err := s.repo.FindCardByNumber(ctx, destNumber)
	if err != nil {
		return fmt.Errorf("failed to read destination card: %w", err)
	}

	newFrom := account.Balance - amount
	newTo := dest.Balance + amount
	if err := s.repo.TransferBalance(ctx, account.CardNumber, destNumber, newFrom, newTo); err != nil {
		return fmt.Errorf("failed to transfer: %w", err)
	}

	account.Balance = newFrom
	if cached, ok := s.accounts[destNumber]; ok {
		cached.Balance = newTo
	}
	s.logger.Info("transfer completed",
		slog.String("from", account.CardNumber),
		slog.String("to", destNumber),
		slog.Int64("amount", amount),
	)
	return nil
}
