package models

import "time"

// Address is a raw order address as read from the order source.
type Address struct {
	FirstName   string
	LastName    string
	Street      string
	PostalCode  string
	City        string
	CountryCode string
	Email       string
	Telephone   string
}

// IsZero reports whether the address carries no data at all.
func (a Address) IsZero() bool {
	return a == Address{}
}

// AdditionalInfo carries the checkout fields collected alongside the
// payment method selection.
type AdditionalInfo struct {
	CustomerGender       string
	CustomerDoB          string
	IdentificationNumber string
	Telephone            string
	TermsAccepted        bool
}

// NormalizeDoB converts a dd/mm/yyyy birth date to yyyy-mm-dd. Dates that
// fail to parse pass through unchanged; the gateway receives them raw.
func (i AdditionalInfo) NormalizeDoB() string {
	if i.CustomerDoB == "" {
		return ""
	}
	t, err := time.Parse("02/01/2006", i.CustomerDoB)
	if err != nil {
		return i.CustomerDoB
	}
	return t.Format("2006-01-02")
}

// Payment holds the gateway references recorded against the order's payment.
type Payment struct {
	OriginalTransactionKey string
	ParentTransactionID    string
}

// Order is a read-only snapshot of the order aggregate used for one
// assembly attempt. Never shared across concurrent builds.
type Order struct {
	ID              string
	IncrementID     string
	QuoteID         string
	BillingAddress  *Address
	ShippingAddress *Address
	ShippingMethod  string
	// ShippingAmount is the shipping cost including tax.
	ShippingAmount float64
	// DiscountAmount is the summed order-level discount; negative when a
	// discount applies.
	DiscountAmount float64
	// ServicePointID is the service-point selected at checkout, when the
	// shipping method is a service-point carrier.
	ServicePointID string
	AdditionalInfo AdditionalInfo
	Payment        Payment
}

// CartItem is one cart row as exposed by the cart source, in catalog order.
type CartItem struct {
	Name            string
	SKU             string
	Qty             float64
	RowTotalInclTax float64
	RowTotal        float64
	TaxPercent      float64
	HasTaxPercent   bool
	// HasParent marks child rows of bundled or configurable products;
	// those are priced through their parent and never encoded directly.
	HasParent bool
}

// CreditMemo is the refunded subset of an order used for refund assembly.
type CreditMemo struct {
	ID                 string
	OrderID            string
	InvoiceIncrementID string
	Items              []CartItem
	ShippingAmount     float64
}
