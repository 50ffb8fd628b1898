// internal/links/definitions.go
package links

// Definition maps a link kind to the payload fields probed for its URL.
type Definition struct {
	Kind          string
	CandidateKeys []string
	Label         string
}

// DefinitionTable is an ordered, read-only set of definitions.
type DefinitionTable struct {
	defs []Definition
}

// NewDefinitionTable copies defs so later edits by the caller cannot leak in.
func NewDefinitionTable(defs ...Definition) *DefinitionTable {
	copied := make([]Definition, 0, len(defs))
	for _, d := range defs {
		keys := make([]string, len(d.CandidateKeys))
		copy(keys, d.CandidateKeys)
		copied = append(copied, Definition{Kind: normalizeKind(d.Kind), CandidateKeys: keys, Label: d.Label})
	}
	return &DefinitionTable{defs: copied}
}

// DefaultDefinitionTable returns the seven standard link definitions.
func DefaultDefinitionTable() *DefinitionTable {
	return NewDefinitionTable(
		Definition{Kind: KindReceipt, CandidateKeys: []string{"receipt_link", "view_receipt_link"}, Label: "View Receipt"},
		Definition{Kind: KindEntry, CandidateKeys: []string{"view_gl_link", "gl_link", "entry_link", "view_entry_link"}, Label: "View Entry"},
		Definition{Kind: KindPayment, CandidateKeys: []string{"payment_link", "view_payment_link"}, Label: "View Payment"},
		Definition{Kind: KindInvoice, CandidateKeys: []string{"invoice_link", "view_invoice_link"}, Label: "View Invoice"},
		Definition{Kind: KindEdit, CandidateKeys: []string{"edit_link", "edit_entry_link"}, Label: "Edit Entry"},
		Definition{Kind: KindAttachment, CandidateKeys: []string{"attach_document_link", "attachment_link"}, Label: "Attach Document"},
		Definition{Kind: KindAllocate, CandidateKeys: []string{"allocate_link", "allocation_link"}, Label: "Allocate"},
	)
}

// Definitions returns a copy of the table in declared order.
func (t *DefinitionTable) Definitions() []Definition {
	if t == nil {
		return nil
	}
	out := make([]Definition, len(t.defs))
	for i, d := range t.defs {
		out[i] = d
		out[i].CandidateKeys = append([]string(nil), d.CandidateKeys...)
	}
	return out
}

// Len reports the number of definitions.
func (t *DefinitionTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.defs)
}
