// Package inmem provides a map-backed CardRepository. It is used by tests
// and works as a stand-in store when no durable file is wanted.
package inmem

import (
	"context"

	"cardcabinet/internal/apperrors"
	"cardcabinet/internal/core/ports"
	"cardcabinet/internal/models"
)

type cardRepository struct {
	cards map[string]models.CardRecord
	order []string
}

// NewCardRepository returns an empty in-memory card repository.
func NewCardRepository() ports.CardRepository {
	return &cardRepository{cards: make(map[string]models.CardRecord)}
}

func (r *cardRepository) SaveCard(_ context.Context, card models.CardRecord) error {
	if _, ok := r.cards[card.Number]; ok {
		return apperrors.ErrDuplicate
	}
	r.cards[card.Number] = card
	r.order = append(r.order, card.Number)
	return nil
}

func (r *cardRepository) UpdateBalance(_ context.Context, number string, balance int64) error {
	rec, ok := r.cards[number]
	if !ok {
		return apperrors.ErrNotFound
	}
	rec.Balance = balance
	r.cards[number] = rec
	return nil
}

func (r *cardRepository) DeleteCard(_ context.Context, number string) error {
	if _, ok := r.cards[number]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.cards, number)
	for i, n := range r.order {
		if n == number {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *cardRepository) FindCardByNumber(_ context.Context, number string) (*models.CardRecord, error) {
	rec, ok := r.cards[number]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &rec, nil
}

func (r *cardRepository) ListCards(_ context.Context) ([]models.CardRecord, error) {
	cards := make([]models.CardRecord, 0, len(r.cards))
	for _, number := range r.order {
		cards = append(cards, r.cards[number])
	}
	return cards, nil
}

func (r *cardRepository) ListCardNumbers(_ context.Context) ([]string, error) {
	numbers := make([]string, len(r.order))
	copy(numbers, r.order)
	return numbers, nil
}

func (r *cardRepository) TransferBalance(_ context.Context, fromNumber, toNumber string, fromBalance, toBalance int64) error {
	from, ok := r.cards[fromNumber]
	if !ok {
		return apperrors.ErrNotFound
	}
	to, ok := r.cards[toNumber]
	if !ok {
		return apperrors.ErrNotFound
	}
	from.Balance = fromBalance
	to.Balance = toBalance
	r.cards[fromNumber] = from
	r.cards[toNumber] = to
	return nil
}
