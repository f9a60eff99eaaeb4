package domain

// Account is the in-memory form of a bank card held by the user ledger:
// the public card number, its PIN and the current balance in whole units.
type Account struct {
	CardNumber string
	PIN        string
	Balance    int64
}
