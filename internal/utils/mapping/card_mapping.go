package mapping

import (
	"cardcabinet/internal/core/domain"
	"cardcabinet/internal/models"
)

// ToCardRecord converts an in-memory account to its persisted form,
// assigning the given sequence id.
func ToCardRecord(a *domain.Account, id int64) models.CardRecord {
	return models.CardRecord{
		ID:      id,
		Number:  a.CardNumber,
		PIN:     a.PIN,
		Balance: a.Balance,
	}
}

// ToAccount converts a persisted card record to its in-memory form.
func ToAccount(r models.CardRecord) *domain.Account {
	return &domain.Account{
		CardNumber: r.Number,
		PIN:        r.PIN,
		Balance:    r.Balance,
	}
}
