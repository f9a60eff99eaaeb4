package ports

import (
	"context"

	"cardcabinet/internal/models"
)

// CardRepository is the durable account store, keyed by card number.
// Implementations return apperrors.ErrNotFound for absent records.
type CardRepository interface {
	// SaveCard inserts a new card record.
	SaveCard(ctx context.Context, card models.CardRecord) error
	// UpdateBalance persists a new balance for the given card number.
	UpdateBalance(ctx context.Context, number string, balance int64) error
	// DeleteCard removes the record with the given card number.
	DeleteCard(ctx context.Context, number string) error
	// FindCardByNumber retrieves a single card record.
	FindCardByNumber(ctx context.Context, number string) (*models.CardRecord, error)
	// ListCards retrieves every persisted card record.
	ListCards(ctx context.Context) ([]models.CardRecord, error)
	// ListCardNumbers retrieves every persisted card number.
	ListCardNumbers(ctx context.Context) ([]string, error)
	// TransferBalance persists both sides of a transfer in a single
	// transaction; on failure neither balance changes.
	TransferBalance(ctx context.Context, fromNumber, toNumber string, fromBalance, toBalance int64) error
}
