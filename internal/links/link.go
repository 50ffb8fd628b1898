// internal/links/link.go
package links

import "strings"

// Kinds of navigation links.
const (
	KindReceipt    = "receipt"
	KindEntry      = "entry"
	KindPayment    = "payment"
	KindInvoice    = "invoice"
	KindEdit       = "edit"
	KindAttachment = "attachment"
	KindAllocate   = "allocate"
)

// Tier identifies the source a Link was produced by.
type Tier string

const (
	TierExplicit Tier = "explicit"
	TierKeyed    Tier = "keyed"
	TierDerived  Tier = "derived"
)

// Link is one outbound navigation link for a transaction result.
type Link struct {
	Key   string `json:"key"`
	URL   string `json:"url"`
	Label string `json:"label"`
	Kind  string `json:"kind,omitempty"`
}

// kindHints is checked in order against the link key when Kind is empty.
var kindHints = []struct {
	fragment string
	kind     string
}{
	{"receipt", KindReceipt},
	{"invoice", KindInvoice},
	{"payment", KindPayment},
	{"edit", KindEdit},
	{"attach", KindAttachment},
	{"alloc", KindAllocate},
}

// ResolvedKind returns the link kind, inferring it from the key when unset.
func (l Link) ResolvedKind() string {
	if kind := normalizeKind(l.Kind); kind != "" {
		return kind
	}
	return InferKind(l.Key)
}

// InferKind maps a payload key to a kind by substring, defaulting to entry.
func InferKind(key string) string {
	key = strings.ToLower(key)
	for _, hint := range kindHints {
		if strings.Contains(key, hint.fragment) {
			return hint.kind
		}
	}
	return KindEntry
}

// NormalizeURL is the comparison form used for cross-tier deduplication.
func NormalizeURL(url string) string {
	return strings.ToLower(strings.TrimSpace(url))
}

func normalizeKind(kind string) string {
	return strings.ToLower(strings.TrimSpace(kind))
}
