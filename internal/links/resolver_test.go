package links

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveKeyed_FirstCandidateWins(t *testing.T) {
	p := Payload{
		"gl_link":      "http://x/gl-second",
		"view_gl_link": "  ",
		"entry_link":   "http://x/entry",
		"payment_link": "http://x/pay",
		"receipt_link": 42,
	}

	got := ResolveKeyed(p, DefaultDefinitionTable())

	require.Len(t, got, 2)
	assert.Equal(t, Link{Key: "gl_link", URL: "http://x/gl-second", Label: "View Entry", Kind: KindEntry}, got[0])
	assert.Equal(t, Link{Key: "payment_link", URL: "http://x/pay", Label: "View Payment", Kind: KindPayment}, got[1])
}

func TestResolveKeyed_TableOrder(t *testing.T) {
	p := Payload{
		"allocate_link":        "http://x/alloc",
		"attach_document_link": "http://x/attach",
		"edit_link":            "http://x/edit",
		"invoice_link":         "http://x/inv",
		"view_receipt_link":    "http://x/rcpt",
	}

	got := ResolveKeyed(p, DefaultDefinitionTable())

	kinds := make([]string, len(got))
	for i, l := range got {
		kinds[i] = l.Kind
	}
	assert.Equal(t, []string{KindReceipt, KindInvoice, KindEdit, KindAttachment, KindAllocate}, kinds)
}

func TestResolveKeyed_CustomTable(t *testing.T) {
	defs := []Definition{{Kind: " Statement ", CandidateKeys: []string{"stmt"}, Label: "View Statement"}}
	table := NewDefinitionTable(defs...)
	defs[0].CandidateKeys[0] = "mutated"

	got := ResolveKeyed(Payload{"stmt": "http://x/s"}, table)
	require.Len(t, got, 1)
	assert.Equal(t, "statement", got[0].Kind)
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, "stmt", table.Definitions()[0].CandidateKeys[0])
}

func TestDefinitionTable_DefinitionsIsDeepCopy(t *testing.T) {
	table := DefaultDefinitionTable()
	defs := table.Definitions()
	defs[1].CandidateKeys[0] = "mutated"
	defs[1].Label = "Changed"

	got := ResolveKeyed(Payload{"view_gl_link": "http://x/gl"}, table)
	require.Len(t, got, 1)
	assert.Equal(t, "View Entry", got[0].Label)
	assert.Equal(t, "view_gl_link", table.Definitions()[1].CandidateKeys[0])
}

func TestResolveKeyed_NilTableOrPayload(t *testing.T) {
	assert.Empty(t, ResolveKeyed(Payload{"gl_link": "http://x"}, nil))
	assert.Empty(t, ResolveKeyed(nil, DefaultDefinitionTable()))
}

func TestDefaultDefinitionTable_HasSevenKinds(t *testing.T) {
	table := DefaultDefinitionTable()
	require.Equal(t, 7, table.Len())
	kinds := map[string]bool{}
	for _, d := range table.Definitions() {
		kinds[d.Kind] = true
	}
	for _, k := range []string{KindReceipt, KindEntry, KindPayment, KindInvoice, KindEdit, KindAttachment, KindAllocate} {
		assert.True(t, kinds[k], k)
	}
}
