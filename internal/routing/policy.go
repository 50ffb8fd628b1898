// internal/routing/policy.go
package routing

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"bankimport-workers/internal/links"
)

// Unranked sorts after every explicitly ranked kind.
const Unranked = math.MaxInt

// Source names which rank table won for a call.
type Source string

const (
	SourceNone      Source = "none"
	SourceExplicit  Source = "explicit"
	SourceContext   Source = "context"
	SourceTransType Source = "trans_type"
)

// Config holds the preferred-kind tables. All are optional.
// PolicyByTransType is keyed by the string form of the type code, as it
// arrives from YAML; PolicyByTransTypeCode is keyed natively and wins when
// both hold the same code.
type Config struct {
	PolicyByContext       map[string][]string
	PolicyByTransType     map[string][]string
	PolicyByTransTypeCode map[int][]string
}

// Policy orders links by preferred kind. It is immutable after construction
// and safe to share between goroutines.
type Policy struct {
	byContext   map[string][]string
	byTransType map[string][]string
}

var _ links.Prioritizer = (*Policy)(nil)

// NewPolicy normalizes the configured tables into a Policy.
func NewPolicy(cfg Config) *Policy {
	p := &Policy{
		byContext:   make(map[string][]string, len(cfg.PolicyByContext)),
		byTransType: make(map[string][]string, len(cfg.PolicyByTransType)),
	}
	for name, kinds := range cfg.PolicyByContext {
		p.byContext[normalize(name)] = copyKinds(kinds)
	}
	for code, kinds := range cfg.PolicyByTransType {
		p.byTransType[strings.TrimSpace(code)] = copyKinds(kinds)
	}
	for code, kinds := range cfg.PolicyByTransTypeCode {
		p.byTransType[strconv.Itoa(code)] = copyKinds(kinds)
	}
	return p
}

// Prioritize stably reorders links by rank, ties broken by original index.
// It never adds or removes links.
func (p *Policy) Prioritize(in []links.Link, transType *int, rc links.RouteContext) []links.Link {
	out := make([]links.Link, len(in))
	copy(out, in)

	ranks, _ := p.Ranks(transType, rc)
	if ranks == nil {
		return out
	}

	type ranked struct {
		link  links.Link
		rank  int
		index int
	}
	items := make([]ranked, len(in))
	for i, l := range in {
		r, ok := ranks[l.ResolvedKind()]
		if !ok {
			r = Unranked
		}
		items[i] = ranked{link: l, rank: r, index: i}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].rank != items[j].rank {
			return items[i].rank < items[j].rank
		}
		return items[i].index < items[j].index
	})
	for i, it := range items {
		out[i] = it.link
	}
	return out
}

// Ranks resolves the kind→rank map for a call: explicit kinds, then the
// context table, then the trans-type table. A nil map means no ordering.
func (p *Policy) Ranks(transType *int, rc links.RouteContext) (map[string]int, Source) {
	if ranks := rankMap(rc.ExplicitPreferredKinds); ranks != nil {
		return ranks, SourceExplicit
	}
	if p == nil {
		return nil, SourceNone
	}
	if name := normalize(rc.ContextName); name != "" {
		if ranks := rankMap(p.byContext[name]); ranks != nil {
			return ranks, SourceContext
		}
	}
	if transType != nil {
		if ranks := rankMap(p.byTransType[strconv.Itoa(*transType)]); ranks != nil {
			return ranks, SourceTransType
		}
	}
	return nil, SourceNone
}

// rankMap assigns each kind its list index; the first occurrence wins.
func rankMap(kinds []string) map[string]int {
	var ranks map[string]int
	for i, k := range kinds {
		k = normalize(k)
		if k == "" {
			continue
		}
		if ranks == nil {
			ranks = make(map[string]int, len(kinds))
		}
		if _, exists := ranks[k]; !exists {
			ranks[k] = i
		}
	}
	return ranks
}

func copyKinds(kinds []string) []string {
	out := make([]string, len(kinds))
	copy(out, kinds)
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
