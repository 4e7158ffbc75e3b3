package transactions

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ishantswami13-crypto/ledger-api/internal/money"
)

var (
	ErrMissingSession = errors.New("session id required")
	ErrEmptyTitle     = errors.New("title required")
)

type CreateInput struct {
	Title  string
	Amount decimal.Decimal
	Type   money.Kind
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create signs the amount according to its type and stores a new row under
// sessionID.
func (s *Service) Create(ctx context.Context, sessionID string, in CreateInput) (Transaction, error) {
	if sessionID == "" {
		return Transaction{}, ErrMissingSession
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Transaction{}, ErrEmptyTitle
	}
	kind, err := money.ParseKind(string(in.Type))
	if err != nil {
		return Transaction{}, err
	}

	t := Transaction{
		ID:        uuid.New(),
		Title:     title,
		Amount:    money.Signed(in.Amount, kind),
		SessionID: sessionID,
	}
	if err := s.store.Insert(ctx, &t); err != nil {
		return Transaction{}, err
	}
	return t, nil
}

func (s *Service) List(ctx context.Context, sessionID string) ([]Transaction, error) {
	if sessionID == "" {
		return nil, ErrMissingSession
	}
	items, err := s.store.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Transaction{}
	}
	return items, nil
}

// Get returns nil without error when the session has no such row.
func (s *Service) Get(ctx context.Context, sessionID string, id uuid.UUID) (*Transaction, error) {
	if sessionID == "" {
		return nil, ErrMissingSession
	}
	return s.store.GetBySession(ctx, sessionID, id)
}

func (s *Service) Summary(ctx context.Context, sessionID string) (Summary, error) {
	if sessionID == "" {
		return Summary{}, ErrMissingSession
	}
	sum, err := s.store.SumBySession(ctx, sessionID)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Balance: sum}, nil
}

// Statement loads the rows of a session and totals them in memory so the
// document and its balance come from the same read.
func (s *Service) Statement(ctx context.Context, sessionID string) (Statement, error) {
	items, err := s.List(ctx, sessionID)
	if err != nil {
		return Statement{}, err
	}

	st := Statement{SessionID: sessionID, Items: items}
	for _, it := range items {
		if it.Amount.IsNegative() {
			st.Debits = st.Debits.Add(it.Amount.Neg())
		} else {
			st.Credits = st.Credits.Add(it.Amount)
		}
		st.Balance = st.Balance.Add(it.Amount)
	}
	return st, nil
}
