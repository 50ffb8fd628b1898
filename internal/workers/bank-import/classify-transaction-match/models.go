// internal/workers/bank-import/classify-transaction-match/models.go
package classifytransactionmatch

import (
	"encoding/json"
	"fmt"
	"strings"

	"bankimport-workers/internal/links"
	"bankimport-workers/internal/matching"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

type Input struct {
	Candidates []CandidateInput `json:"candidates"`
}

// CandidateInput is a candidate as callers send it: numbers may arrive as
// strings and flags as 0/1.
type CandidateInput struct {
	Type        interface{} `json:"type"`
	TypeNo      interface{} `json:"type_no"`
	Score       interface{} `json:"score"`
	IsInvoice   interface{} `json:"is_invoice,omitempty"`
	Account     interface{} `json:"account,omitempty"`
	AccountName string      `json:"account_name,omitempty"`
	Amount      interface{} `json:"amount,omitempty"`
}

type Output struct {
	Matched        bool                   `json:"matched"`
	PartnerType    string                 `json:"partnerType,omitempty"`
	OperationLabel string                 `json:"operationLabel,omitempty"`
	Prefill        map[string]interface{} `json:"prefill,omitempty"`
	ImpliedKind    string                 `json:"impliedKind,omitempty"`
}

func (c CandidateInput) toCandidate(index int) (matching.CandidateMatch, error) {
	var out matching.CandidateMatch
	var ok bool

	if out.Type, ok = links.CoerceInt(c.Type); !ok {
		return out, fmt.Errorf("candidates[%d].type: not an integer: %v", index, c.Type)
	}
	if out.TypeNo, ok = links.CoerceInt(c.TypeNo); !ok {
		return out, fmt.Errorf("candidates[%d].type_no: not an integer: %v", index, c.TypeNo)
	}
	if out.Score, ok = links.CoerceInt(c.Score); !ok {
		return out, fmt.Errorf("candidates[%d].score: not an integer: %v", index, c.Score)
	}

	if c.IsInvoice != nil {
		flag := c.IsInvoice
		if n, isNumber := flag.(json.Number); isNumber {
			flag = n.String()
		}
		b, err := cast.ToBoolE(flag)
		if err != nil {
			return out, fmt.Errorf("candidates[%d].is_invoice: %w", index, err)
		}
		out.IsInvoice = b
	}

	if c.Account != nil {
		account, err := cast.ToStringE(c.Account)
		if err != nil {
			return out, fmt.Errorf("candidates[%d].account: %w", index, err)
		}
		out.Account = account
	}
	out.AccountName = c.AccountName

	amount, err := parseAmount(c.Amount)
	if err != nil {
		return out, fmt.Errorf("candidates[%d].amount: %w", index, err)
	}
	out.Amount = amount
	return out, nil
}

func parseAmount(v interface{}) (decimal.Decimal, error) {
	switch val := v.(type) {
	case nil:
		return decimal.Zero, nil
	case json.Number:
		return decimal.NewFromString(val.String())
	case string:
		if strings.TrimSpace(val) == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(strings.TrimSpace(val))
	case float64:
		return decimal.NewFromFloat(val), nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(f), nil
}

func newOutput(o *matching.Outcome) *Output {
	if o == nil {
		return &Output{Matched: false}
	}
	return &Output{
		Matched:        true,
		PartnerType:    o.PartnerTypeCode,
		OperationLabel: o.OperationLabel,
		Prefill:        o.PrefillFields,
		ImpliedKind:    matching.ImpliedKind(o),
	}
}
