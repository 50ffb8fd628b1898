// internal/matching/classifier.go
package matching

import (
	"context"
	"fmt"

	"bankimport-workers/internal/links"
)

// DefaultMinScore is the lowest top-candidate score that yields an outcome.
const DefaultMinScore = 50

// MaxCandidates is the largest candidate set Classify considers unambiguous.
const MaxCandidates = 2

// Partner type codes suggested by the classifier.
const (
	PartnerSupplier   = "SP"
	PartnerQuickEntry = "QE"
	PartnerMatched    = "ZZ"
)

// Operation labels shown next to the suggested partner type.
const (
	LabelInvoiceMatch    = "INVOICE MATCH"
	LabelQuickEntryMatch = "Quick Entry MATCH"
	LabelMatch           = "MATCH"
)

// Prefill field names.
const (
	PrefillType   = "type"
	PrefillTypeNo = "type_no"
)

// Outcome is the suggested counterparty category for a transaction.
type Outcome struct {
	PartnerTypeCode string                 `json:"partnerType"`
	OperationLabel  string                 `json:"operationLabel"`
	PrefillFields   map[string]interface{} `json:"prefill"`
}

// Classifier turns candidate matches into an optional Outcome.
type Classifier struct {
	minScore int
}

// NewClassifier returns a Classifier with the given score threshold;
// a non-positive value selects DefaultMinScore.
func NewClassifier(minScore int) *Classifier {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	return &Classifier{minScore: minScore}
}

// MinScore reports the active threshold.
func (c *Classifier) MinScore() int {
	return c.minScore
}

// Classify inspects candidates[0], which the provider guarantees is the most
// relevant. Three or more candidates are ambiguous and yield nil.
func (c *Classifier) Classify(candidates []CandidateMatch) *Outcome {
	if c == nil {
		c = NewClassifier(DefaultMinScore)
	}
	// TODO: pick among 3+ candidates once a tie-break rule is agreed with product.
	if len(candidates) == 0 || len(candidates) > MaxCandidates {
		return nil
	}

	top := candidates[0]
	if top.Score < c.minScore {
		return nil
	}

	prefill := map[string]interface{}{
		PrefillType:   top.Type,
		PrefillTypeNo: top.TypeNo,
	}

	switch {
	case top.IsInvoice:
		return &Outcome{PartnerTypeCode: PartnerSupplier, OperationLabel: LabelInvoiceMatch, PrefillFields: prefill}
	case top.Type == links.TransBankPayment || top.Type == links.TransBankDeposit:
		return &Outcome{PartnerTypeCode: PartnerQuickEntry, OperationLabel: LabelQuickEntryMatch, PrefillFields: prefill}
	default:
		return &Outcome{PartnerTypeCode: PartnerMatched, OperationLabel: LabelMatch, PrefillFields: prefill}
	}
}

// ClassifyFrom fetches candidates for q from provider and classifies them.
func (c *Classifier) ClassifyFrom(ctx context.Context, provider CandidateProvider, q Query) (*Outcome, error) {
	candidates, err := provider.FindCandidates(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}
	return c.Classify(candidates), nil
}

// ImpliedKind maps an outcome to the link kind a caller may prefer next.
func ImpliedKind(o *Outcome) string {
	if o == nil {
		return ""
	}
	switch o.PartnerTypeCode {
	case PartnerSupplier:
		return links.KindInvoice
	case PartnerQuickEntry:
		return links.KindPayment
	default:
		return links.KindEntry
	}
}
