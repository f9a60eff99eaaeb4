package apperrors

import "errors"

// ErrNotFound indicates that a requested card record could not be found.
var ErrNotFound = errors.New("card not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a card that already exists.
var ErrDuplicate = errors.New("card already exists")

// ErrInsufficientFunds indicates that a debit would exceed the account balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrSameAccount indicates a transfer whose source and destination are the same card.
var ErrSameAccount = errors.New("source and destination are the same card")
