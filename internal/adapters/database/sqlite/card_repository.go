package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cardcabinet/internal/apperrors"
	"cardcabinet/internal/core/ports"
	"cardcabinet/internal/models"
)

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a repository for card records backed by the
// local sqlite file.
func NewCardRepository(db *sql.DB) ports.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) SaveCard(ctx context.Context, card models.CardRecord) error {
	query := `
		INSERT INTO card (id, number, pin, balance)
		VALUES (?, ?, ?, ?);
	`
	_, err := r.db.ExecContext(ctx, query, card.ID, card.Number, card.PIN, card.Balance)
	if err != nil {
		return fmt.Errorf("failed to save card %s: %w", card.Number, err)
	}
	return nil
}

func (r *cardRepository) UpdateBalance(ctx context.Context, number string, balance int64) error {
	query := `
		UPDATE card SET balance = ?
		WHERE number = ?;
	`
	res, err := r.db.ExecContext(ctx, query, balance, number)
	if err != nil {
		return fmt.Errorf("failed to update balance for card %s: %w", number, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *cardRepository) DeleteCard(ctx context.Context, number string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM card WHERE number = ?;`, number)
	if err != nil {
		return fmt.Errorf("failed to delete card %s: %w", number, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *cardRepository) FindCardByNumber(ctx context.Context, number string) (*models.CardRecord, error) {
	query := `
		SELECT id, number, pin, balance FROM card
		WHERE number = ?;
	`
	var rec models.CardRecord
	err := r.db.QueryRowContext(ctx, query, number).Scan(&rec.ID, &rec.Number, &rec.PIN, &rec.Balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find card %s: %w", number, err)
	}
	return &rec, nil
}

func (r *cardRepository) ListCards(ctx context.Context) ([]models.CardRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, number, pin, balance FROM card;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var cards []models.CardRecord
	for rows.Next() {
		var rec models.CardRecord
		if err := rows.Scan(&rec.ID, &rec.Number, &rec.PIN, &rec.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		cards = append(cards, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate card rows: %w", err)
	}
	return cards, nil
}

func (r *cardRepository) ListCardNumbers(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT number FROM card;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list card numbers: %w", err)
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			return nil, fmt.Errorf("failed to scan card number: %w", err)
		}
		numbers = append(numbers, number)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate card numbers: %w", err)
	}
	return numbers, nil
}

// TransferBalance writes both sides of a transfer in one transaction so a
// failure never leaves a debited source with an un-credited destination.
func (r *cardRepository) TransferBalance(ctx context.Context, fromNumber, toNumber string, fromBalance, toBalance int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transfer transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, side := range []struct {
		number  string
		balance int64
	}{
		{fromNumber, fromBalance},
		{toNumber, toBalance},
	} {
		res, err := tx.ExecContext(ctx, `UPDATE card SET balance = ? WHERE number = ?;`, side.balance, side.number)
		if err != nil {
			return fmt.Errorf("failed to update balance for card %s: %w", side.number, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return apperrors.ErrNotFound
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transfer transaction: %w", err)
	}
	return nil
}
