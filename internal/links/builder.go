// internal/links/builder.go
package links

// RouteContext carries the per-call ordering hints.
type RouteContext struct {
	ExplicitPreferredKinds []string
	ContextName            string
}

// Prioritizer reorders an already deduplicated link list.
type Prioritizer interface {
	Prioritize(links []Link, transType *int, rc RouteContext) []Link
}

// BuildResult is the ordered output plus per-tier bookkeeping.
type BuildResult struct {
	Links      []Link
	TransType  *int
	Admitted   map[Tier]int
	Duplicates int
}

// Builder aggregates explicit, keyed and derived links in that precedence,
// admitting each normalized URL once.
type Builder struct {
	table       *DefinitionTable
	deriver     *Deriver
	deriveLinks bool
	policy      Prioritizer
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithDefinitions sets the definition table used by the keyed tier.
func WithDefinitions(table *DefinitionTable) BuilderOption {
	return func(b *Builder) {
		if table != nil {
			b.table = table
		}
	}
}

// WithDeriver sets the deriver used by the derived tier.
func WithDeriver(d *Deriver) BuilderOption {
	return func(b *Builder) {
		if d != nil {
			b.deriver = d
		}
	}
}

// WithDeriveLinks toggles the derived tier.
func WithDeriveLinks(enabled bool) BuilderOption {
	return func(b *Builder) {
		b.deriveLinks = enabled
	}
}

// WithPrioritizer sets the ordering policy applied after deduplication.
func WithPrioritizer(p Prioritizer) BuilderOption {
	return func(b *Builder) {
		b.policy = p
	}
}

// NewBuilder creates a Builder with the default definitions and deriver.
// Derivation is off unless WithDeriveLinks(true) is given.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		table:   DefaultDefinitionTable(),
		deriver: NewDeriver(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// DeriveLinks reports whether the derived tier is enabled by default.
func (b *Builder) DeriveLinks() bool {
	return b.deriveLinks
}

// Build returns the deduplicated, policy-ordered links for the payload.
func (b *Builder) Build(p Payload, explicitTransType *int, rc RouteContext) []Link {
	return b.BuildWithStats(p, explicitTransType, rc, b.deriveLinks).Links
}

// BuildWithStats is Build with an explicit derive flag and tier counts.
func (b *Builder) BuildWithStats(p Payload, explicitTransType *int, rc RouteContext, derive bool) BuildResult {
	transType := explicitTransType
	if transType == nil {
		if t, ok := p.TransType(); ok {
			transType = &t
		}
	}

	result := BuildResult{
		TransType: transType,
		Admitted:  map[Tier]int{TierExplicit: 0, TierKeyed: 0, TierDerived: 0},
	}

	seen := make(map[string]struct{})
	var admitted []Link
	admit := func(tier Tier, candidates []Link) {
		for _, l := range candidates {
			norm := NormalizeURL(l.URL)
			if norm == "" {
				continue
			}
			if _, dup := seen[norm]; dup {
				result.Duplicates++
				continue
			}
			seen[norm] = struct{}{}
			admitted = append(admitted, l)
			result.Admitted[tier]++
		}
	}

	admit(TierExplicit, ExtractExplicit(p))
	admit(TierKeyed, ResolveKeyed(p, b.table))
	if derive && transType != nil {
		if transNo, ok := p.TransNo(); ok && transNo > 0 {
			admit(TierDerived, b.deriver.Derive(*transType, transNo))
		}
	}

	if b.policy != nil && len(admitted) > 1 {
		admitted = b.policy.Prioritize(admitted, transType, rc)
	}
	result.Links = admitted
	return result
}
