// internal/workers/bank-import/resolve-transaction-links/models.go
package resolvetransactionlinks

import (
	"strings"

	"bankimport-workers/internal/links"
)

type Input struct {
	TransactionResult links.Payload      `json:"transactionResult"`
	TransType         interface{}        `json:"transType,omitempty"`
	RouteContext      *RouteContextInput `json:"routeContext,omitempty"`
	OutputMode        string             `json:"outputMode,omitempty"`
	DeriveLinks       *bool              `json:"deriveLinks,omitempty"`
}

type RouteContextInput struct {
	Context            string   `json:"context,omitempty"`
	LinkPreferredKinds []string `json:"link_preferred_kinds,omitempty"`
	PartnerType        string   `json:"partner_type,omitempty"`
}

type Output struct {
	Links      []links.Link `json:"links"`
	HTML       string       `json:"html"`
	LinkCount  int          `json:"linkCount"`
	OutputMode string       `json:"outputMode"`
}

// toRouteContext falls back to the lowercased partner type when no context
// name is given.
func (r *RouteContextInput) toRouteContext() links.RouteContext {
	if r == nil {
		return links.RouteContext{}
	}
	name := strings.TrimSpace(r.Context)
	if name == "" {
		name = strings.ToLower(strings.TrimSpace(r.PartnerType))
	}
	return links.RouteContext{
		ExplicitPreferredKinds: r.LinkPreferredKinds,
		ContextName:            name,
	}
}

// explicitTransType returns nil when the variable is absent or not an integer.
func (in *Input) explicitTransType() *int {
	if in.TransType == nil {
		return nil
	}
	t, ok := links.CoerceInt(in.TransType)
	if !ok {
		return nil
	}
	return &t
}
