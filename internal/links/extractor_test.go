package links

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodePayload(t *testing.T, raw string) Payload {
	t.Helper()
	var p Payload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return p
}

func TestExtractExplicit(t *testing.T) {
	p := decodePayload(t, `{
		"links": [
			{"key": "custom", "url": "  http://x/a  ", "label": "Open A", "kind": " Payment "},
			"not a record",
			{"url": "   "},
			{"label": "no url"},
			{"url": "http://x/b"},
			{"url": "http://x/a", "label": "Dup A"}
		]
	}`)

	got := ExtractExplicit(p)

	require.Len(t, got, 3)
	assert.Equal(t, Link{Key: "custom", URL: "http://x/a", Label: "Open A", Kind: "payment"}, got[0])
	assert.Equal(t, Link{Key: "links_4", URL: "http://x/b", Label: DefaultExplicitLabel}, got[1])
	assert.Equal(t, "links_5", got[2].Key)
	assert.Equal(t, "Dup A", got[2].Label)
}

func TestExtractExplicit_NonListOrMissing(t *testing.T) {
	assert.Empty(t, ExtractExplicit(Payload{}))
	assert.Empty(t, ExtractExplicit(Payload{FieldLinks: "http://x"}))
	assert.Empty(t, ExtractExplicit(Payload{FieldLinks: map[string]interface{}{"url": "http://x"}}))
	assert.Empty(t, ExtractExplicit(nil))
}

func TestExtractExplicit_ProgrammaticLists(t *testing.T) {
	maps := Payload{FieldLinks: []map[string]interface{}{{"url": "http://x/1"}}}
	payloads := Payload{FieldLinks: []Payload{{"url": "http://x/2"}}}
	mixed := Payload{FieldLinks: []interface{}{Payload{"url": "http://x/3"}}}

	assert.Equal(t, "http://x/1", ExtractExplicit(maps)[0].URL)
	assert.Equal(t, "http://x/2", ExtractExplicit(payloads)[0].URL)
	assert.Equal(t, "http://x/3", ExtractExplicit(mixed)[0].URL)
}

func TestExtractExplicit_NonStringURLIsSkipped(t *testing.T) {
	p := decodePayload(t, `{"links": [{"url": 12}, {"url": "http://x/ok", "label": 5}]}`)
	got := ExtractExplicit(p)
	require.Len(t, got, 1)
	assert.Equal(t, DefaultExplicitLabel, got[0].Label)
	assert.Equal(t, "links_1", got[0].Key)
}

func TestInferKind(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"view_receipt_link", KindReceipt},
		{"supplier_invoice_url", KindInvoice},
		{"payment_link", KindPayment},
		{"EDIT_LINK", KindEdit},
		{"attach_document_link", KindAttachment},
		{"allocation_link", KindAllocate},
		{"gl_link", KindEntry},
		{"", KindEntry},
		// receipt is checked before payment.
		{"receipt_payment", KindReceipt},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, InferKind(tt.key))
		})
	}
}

func TestLink_ResolvedKind(t *testing.T) {
	assert.Equal(t, KindInvoice, Link{Key: "gl_link", Kind: " Invoice "}.ResolvedKind())
	assert.Equal(t, KindPayment, Link{Key: "links_0_payment"}.ResolvedKind())
	assert.Equal(t, KindEntry, Link{Key: "links_0"}.ResolvedKind())
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name   string
		in     interface{}
		want   int
		wantOK bool
	}{
		{"int", 22, 22, true},
		{"float64 from json", float64(12), 12, true},
		{"json number", json.Number("4"), 4, true},
		{"integral json float", json.Number("80.0"), 80, true},
		{"fractional json float", json.Number("80.5"), 0, false},
		{"fractional float64", 42.5, 0, false},
		{"integral float32", float32(7), 7, true},
		{"fractional float32", float32(1.5), 0, false},
		{"exponent json number", json.Number("1e3"), 1000, true},
		{"huge json number", json.Number("1e30"), 0, false},
		{"huge json integer", json.Number("99999999999999999999"), 0, false},
		{"huge float64", 1e30, 0, false},
		{"negative huge float64", -1e30, 0, false},
		{"NaN", math.NaN(), 0, false},
		{"infinity", math.Inf(1), 0, false},
		{"numeric string", " 20 ", 20, true},
		{"leading zeros", "08", 8, true},
		{"all zeros", "000", 0, true},
		{"blank", "  ", 0, false},
		{"word", "abc", 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
		{"map", map[string]interface{}{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoerceInt(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
