package dto

// Terminal input is free text; these request types carry the parsed values
// through validation before any ledger operation runs.

// IncomeRequest is the parsed input of the add-income command.
type IncomeRequest struct {
	Amount int64 `validate:"required,gt=0"`
}

// TransferRequest is the parsed input of the do-transfer command.
type TransferRequest struct {
	Destination string `validate:"required,len=16,numeric"`
	Amount      int64  `validate:"required,gt=0"`
}
