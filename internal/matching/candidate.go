// internal/matching/candidate.go
package matching

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CandidateMatch is one provisional ledger-entry match from the provider.
type CandidateMatch struct {
	Type        int             `json:"type"`
	TypeNo      int             `json:"type_no"`
	Score       int             `json:"score"`
	IsInvoice   bool            `json:"is_invoice"`
	Account     string          `json:"account"`
	AccountName string          `json:"account_name"`
	Amount      decimal.Decimal `json:"amount"`
}

// Query describes the imported transaction a provider searches matches for.
type Query struct {
	Amount       decimal.Decimal
	Date         time.Time
	WindowDays   int
	Counterparty string
	Debit        bool
}

// CandidateProvider returns candidates pre-sorted by descending relevance.
// Implementations live outside this module.
type CandidateProvider interface {
	FindCandidates(ctx context.Context, q Query) ([]CandidateMatch, error)
}

// ProviderFunc adapts a function to CandidateProvider.
type ProviderFunc func(ctx context.Context, q Query) ([]CandidateMatch, error)

func (f ProviderFunc) FindCandidates(ctx context.Context, q Query) ([]CandidateMatch, error) {
	return f(ctx, q)
}
