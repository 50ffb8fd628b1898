// internal/links/deriver.go
package links

import (
	"fmt"
	"strings"
)

// Transaction type codes understood by the deriver.
const (
	TransJournal             = 0
	TransBankPayment         = 1
	TransBankDeposit         = 2
	TransBankTransfer        = 4
	TransSalesInvoice        = 10
	TransCustomerCredit      = 11
	TransCustomerPayment     = 12
	TransCustomerDelivery    = 13
	TransLocationTransfer    = 16
	TransInventoryAdjustment = 17
	TransPurchaseOrder       = 18
	TransSupplierInvoice     = 20
	TransSupplierCredit      = 21
	TransSupplierPayment     = 22
	TransSupplierReceive     = 25
	TransWorkOrder           = 26
	TransManufactureIssue    = 28
	TransManufactureReceive  = 29
	TransSalesOrder          = 30
	TransSalesQuote          = 32
	TransCostUpdate          = 35
	TransDimension           = 40
)

// Derived link keys.
const (
	DerivedKeyGLView  = "derived_gl_view"
	DerivedKeyView    = "derived_type_view"
	DerivedKeyReceipt = "derived_receipt"
)

// GLViewTemplate is the general-ledger view, parameterized by type and number.
const GLViewTemplate = "gl/view/gl_trans_view.php?type_id=%d&trans_no=%d"

// ReceiptViewTemplate is the customer receipt view, parameterized by number.
const ReceiptViewTemplate = "sales/view/view_receipt.php?trans_no=%d&trans_type=12"

// TypeLabel is the label and kind used for a transaction type's primary link.
type TypeLabel struct {
	Label string
	Kind  string
}

// TypeView is an additional type-specific screen. Template takes trans_no.
type TypeView struct {
	Label    string
	Kind     string
	Template string
}

// DefaultTypeLabels holds the primary link label per transaction type.
var DefaultTypeLabels = map[int]TypeLabel{
	TransJournal:             {"View Journal Entry", KindEntry},
	TransBankPayment:         {"View Bank Payment", KindPayment},
	TransBankDeposit:         {"View Bank Deposit", KindReceipt},
	TransBankTransfer:        {"View Bank Transfer", KindEntry},
	TransSalesInvoice:        {"View Sales Invoice", KindInvoice},
	TransCustomerCredit:      {"View Customer Credit Note", KindInvoice},
	TransCustomerPayment:     {"View Customer Payment", KindReceipt},
	TransCustomerDelivery:    {"View Delivery Note", KindEntry},
	TransLocationTransfer:    {"View Location Transfer", KindEntry},
	TransInventoryAdjustment: {"View Inventory Adjustment", KindEntry},
	TransPurchaseOrder:       {"View Purchase Order", KindEntry},
	TransSupplierInvoice:     {"View Supplier Invoice", KindInvoice},
	TransSupplierCredit:      {"View Supplier Credit Note", KindInvoice},
	TransSupplierPayment:     {"View Supplier Payment Entry", KindPayment},
	TransSupplierReceive:     {"View Goods Received", KindEntry},
	TransWorkOrder:           {"View Work Order", KindEntry},
	TransManufactureIssue:    {"View Work Order Issue", KindEntry},
	TransManufactureReceive:  {"View Work Order Production", KindEntry},
	TransSalesOrder:          {"View Sales Order", KindEntry},
	TransSalesQuote:          {"View Sales Quotation", KindEntry},
	TransCostUpdate:          {"View Cost Update", KindEntry},
	TransDimension:           {"View Dimension", KindEntry},
}

// DefaultTypeViews holds the extra per-type screens.
var DefaultTypeViews = map[int]TypeView{
	TransSupplierPayment: {"View Supplier Payment", KindPayment, "purchasing/view/view_supp_payment.php?trans_no=%d"},
	TransBankDeposit:     {"View Deposit", KindReceipt, "gl/view/gl_deposit_view.php?trans_no=%d"},
	TransBankPayment:     {"View Payment", KindPayment, "gl/view/gl_payment_view.php?trans_no=%d"},
	TransBankTransfer:    {"View Transfer", KindEntry, "gl/view/bank_transfer_view.php?trans_no=%d"},
}

// UnknownTypeLabel is used when a type code has no entry in the label table.
var UnknownTypeLabel = TypeLabel{Label: "View Transaction", Kind: KindEntry}

// Deriver synthesizes fallback links from a type code and sequence number.
type Deriver struct {
	baseURL string
	labels  map[int]TypeLabel
	views   map[int]TypeView
}

// DeriverOption configures a Deriver.
type DeriverOption func(*Deriver)

// WithBaseURL prefixes every derived URL.
func WithBaseURL(base string) DeriverOption {
	return func(d *Deriver) {
		d.baseURL = strings.TrimSpace(base)
	}
}

// WithTypeLabels replaces the primary label table.
func WithTypeLabels(labels map[int]TypeLabel) DeriverOption {
	return func(d *Deriver) {
		if labels != nil {
			d.labels = copyMap(labels)
		}
	}
}

// WithTypeViews replaces the type-specific view table.
func WithTypeViews(views map[int]TypeView) DeriverOption {
	return func(d *Deriver) {
		if views != nil {
			d.views = copyMap(views)
		}
	}
}

// NewDeriver builds a Deriver over the default tables.
func NewDeriver(opts ...DeriverOption) *Deriver {
	d := &Deriver{
		labels: copyMap(DefaultTypeLabels),
		views:  copyMap(DefaultTypeViews),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Derive returns one to three links for the transaction. A non-positive
// transNo yields nothing.
func (d *Deriver) Derive(transType, transNo int) []Link {
	if d == nil || transNo <= 0 {
		return nil
	}

	primary, ok := d.labels[transType]
	if !ok {
		primary = UnknownTypeLabel
	}
	out := []Link{{
		Key:   DerivedKeyGLView,
		URL:   d.url(fmt.Sprintf(GLViewTemplate, transType, transNo)),
		Label: primary.Label,
		Kind:  primary.Kind,
	}}

	if view, ok := d.views[transType]; ok && view.Template != "" {
		out = append(out, Link{
			Key:   DerivedKeyView,
			URL:   d.url(fmt.Sprintf(view.Template, transNo)),
			Label: view.Label,
			Kind:  normalizeKind(view.Kind),
		})
	}

	if transType == TransCustomerPayment {
		out = append(out, Link{
			Key:   DerivedKeyReceipt,
			URL:   d.url(fmt.Sprintf(ReceiptViewTemplate, transNo)),
			Label: "View Receipt",
			Kind:  KindReceipt,
		})
	}
	return out
}

func (d *Deriver) url(path string) string {
	if d.baseURL == "" {
		return path
	}
	return strings.TrimRight(d.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
