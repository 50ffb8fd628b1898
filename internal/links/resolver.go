// internal/links/resolver.go
package links

// ResolveKeyed produces at most one Link per definition, in table order.
// For each definition the first candidate key holding a non-blank string wins.
func ResolveKeyed(p Payload, table *DefinitionTable) []Link {
	if table == nil || len(p) == 0 {
		return nil
	}

	var out []Link
	for _, def := range table.defs {
		for _, key := range def.CandidateKeys {
			url, ok := p.String(key)
			if !ok {
				continue
			}
			out = append(out, Link{
				Key:   key,
				URL:   url,
				Label: def.Label,
				Kind:  def.Kind,
			})
			break
		}
	}
	return out
}
