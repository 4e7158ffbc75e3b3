package transactions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ishantswami13-crypto/ledger-api/internal/money"
)

// Transaction is one ledger row. Amount is already signed: credits are
// positive, debits negative.
type Transaction struct {
	ID        uuid.UUID       `json:"id"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	SessionID string          `json:"session_id"`
	CreatedAt time.Time       `json:"created_at"`
}

type createTxnRequest struct {
	Title  string        `json:"title" validate:"required"`
	Amount *money.Amount `json:"amount" validate:"required"`
	Type   string        `json:"type" validate:"required,oneof=credit debit"`
}

type getTxnParams struct {
	ID string `params:"id" validate:"required,uuid_rfc4122"`
}

// Summary is the running balance of a session.
type Summary struct {
	Balance decimal.Decimal `json:"balance"`
}

type ListResponse struct {
	Transactions []Transaction `json:"transactions"`
}

type GetResponse struct {
	Transaction *Transaction `json:"transaction,omitempty"`
}

type SummaryResponse struct {
	Summary []Summary `json:"summary"`
}
