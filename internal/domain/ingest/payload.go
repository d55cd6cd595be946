package ingest

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

// ExternalID is a storefront identifier on the wire. Providers emit ids
// as JSON numbers or strings depending on payload and API version, so it
// coerces both to a string. Null and absent both decode to the empty
// string; the normalizer treats that as missing.
type ExternalID string

// UnmarshalJSON implements tolerant decoding of string and numeric ids
func (id *ExternalID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ExternalID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	// Integer ids are the norm; keep them free of exponent notation
	if i, err := n.Int64(); err == nil {
		*id = ExternalID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = ExternalID(n.String())
	return nil
}

// String returns the coerced id
func (id ExternalID) String() string {
	return string(id)
}

// IsZero returns true when the id was absent or null
func (id ExternalID) IsZero() bool {
	return id == ""
}

// CustomerPayload is the wire shape of a customer webhook or pull record
type CustomerPayload struct {
	ID          ExternalID       `json:"id"`
	Email       *string          `json:"email"`
	FirstName   *string          `json:"first_name"`
	LastName    *string          `json:"last_name"`
	Phone       *string          `json:"phone"`
	OrdersCount *int             `json:"orders_count"`
	TotalSpent  *decimal.Decimal `json:"total_spent"`
	State       *string          `json:"state"`
	Tags        *string          `json:"tags"`
}

// VariantPayload is a product variant on the wire
type VariantPayload struct {
	ID                ExternalID       `json:"id"`
	Title             *string          `json:"title"`
	Price             *decimal.Decimal `json:"price"`
	InventoryQuantity *int             `json:"inventory_quantity"`
}

// ImagePayload is a product image on the wire
type ImagePayload struct {
	Src string `json:"src"`
}

// ProductPayload is the wire shape of a product webhook or pull record
type ProductPayload struct {
	ID          ExternalID       `json:"id"`
	Title       *string          `json:"title"`
	BodyHTML    *string          `json:"body_html"`
	Vendor      *string          `json:"vendor"`
	ProductType *string          `json:"product_type"`
	Status      *string          `json:"status"`
	Variants    []VariantPayload `json:"variants"`
	Images      []ImagePayload   `json:"images"`
}

// LineItemPayload is an order, cart, or checkout line item on the wire
type LineItemPayload struct {
	ProductID     ExternalID       `json:"product_id"`
	Title         *string          `json:"title"`
	VariantTitle  *string          `json:"variant_title"`
	Quantity      *int             `json:"quantity"`
	Price         *decimal.Decimal `json:"price"`
	TotalDiscount *decimal.Decimal `json:"total_discount"`
}

// OrderPayload is the wire shape of an order webhook or pull record
type OrderPayload struct {
	ID                ExternalID        `json:"id"`
	OrderNumber       ExternalID        `json:"order_number"`
	Customer          *CustomerPayload  `json:"customer"`
	CreatedAt         *string           `json:"created_at"`
	TotalPrice        *decimal.Decimal  `json:"total_price"`
	SubtotalPrice     *decimal.Decimal  `json:"subtotal_price"`
	TotalTax          *decimal.Decimal  `json:"total_tax"`
	TotalDiscounts    *decimal.Decimal  `json:"total_discounts"`
	FinancialStatus   *string           `json:"financial_status"`
	FulfillmentStatus *string           `json:"fulfillment_status"`
	Currency          *string           `json:"currency"`
	LineItems         []LineItemPayload `json:"line_items"`
}

// CartPayload is the wire shape of a cart webhook
type CartPayload struct {
	ID        ExternalID        `json:"id"`
	Token     string            `json:"token"`
	Customer  *CustomerPayload  `json:"customer"`
	Email     *string           `json:"email"`
	CreatedAt *string           `json:"created_at"`
	LineItems []LineItemPayload `json:"line_items"`
}

// CheckoutPayload is the wire shape of a checkout webhook. OrderID is
// set on checkout updates once the checkout converted into an order.
type CheckoutPayload struct {
	ID          ExternalID        `json:"id"`
	Token       string            `json:"token"`
	Customer    *CustomerPayload  `json:"customer"`
	Email       *string           `json:"email"`
	OrderID     ExternalID        `json:"order_id"`
	TotalPrice  *decimal.Decimal  `json:"total_price"`
	CompletedAt *string           `json:"completed_at"`
	LineItems   []LineItemPayload `json:"line_items"`
}
