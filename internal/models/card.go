package models

// CardRecord is the persisted form of an account in the card table.
// The ID is a sequence number assigned at creation time.
type CardRecord struct {
	ID      int64
	Number  string
	PIN     string
	Balance int64
}
