package ingest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storepulse/backend/internal/domain/commerce"
)

// Normalizer converts raw provider payloads into canonical patches.
// The same normalization runs for webhook deliveries and bulk pull
// records; a payload is rejected only when its external identifier is
// missing or the document cannot be decoded. Everything else defaults.
type Normalizer struct {
	now func() time.Time
}

// NewNormalizer creates a normalizer using wall-clock time
func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now}
}

// NewNormalizerWithClock creates a normalizer with an injected clock
func NewNormalizerWithClock(now func() time.Time) *Normalizer {
	return &Normalizer{now: now}
}

// NormalizedOrder is the outcome of order normalization. The customer
// reference travels out-of-band so the caller can resolve it to a local
// row, which may not exist yet.
type NormalizedOrder struct {
	ExternalID         string
	CustomerExternalID string
	OrderDate          time.Time
	Patch              commerce.OrderPatch
}

// NormalizedCart is the outcome of cart normalization
type NormalizedCart struct {
	Token string
	Patch commerce.CartEventPatch
}

// NormalizedCheckout is the outcome of checkout normalization
type NormalizedCheckout struct {
	Token           string
	ExternalOrderID string
	CompletedAt     time.Time
	Patch           commerce.CheckoutEventPatch
}

// Customer normalizes a customer payload
func (n *Normalizer) Customer(raw []byte) (string, commerce.CustomerPatch, error) {
	var p CustomerPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return "", commerce.CustomerPatch{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if p.ID.IsZero() {
		return "", commerce.CustomerPatch{}, fmt.Errorf("%w: missing customer id", ErrMalformedPayload)
	}

	return p.ID.String(), commerce.CustomerPatch{
		Email:       p.Email,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Phone:       p.Phone,
		OrdersCount: p.OrdersCount,
		TotalSpent:  p.TotalSpent,
		State:       p.State,
		Tags:        p.Tags,
	}, nil
}

// Product normalizes a product payload. Price and inventory come from
// the first variant; the image from the first image.
func (n *Normalizer) Product(raw []byte) (string, commerce.ProductPatch, error) {
	var p ProductPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return "", commerce.ProductPatch{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if p.ID.IsZero() {
		return "", commerce.ProductPatch{}, fmt.Errorf("%w: missing product id", ErrMalformedPayload)
	}

	patch := commerce.ProductPatch{
		Title:       p.Title,
		Description: p.BodyHTML,
		Vendor:      p.Vendor,
		ProductType: p.ProductType,
		Status:      p.Status,
	}
	if len(p.Variants) > 0 {
		patch.Price = p.Variants[0].Price
		patch.InventoryQuantity = p.Variants[0].InventoryQuantity
	}
	if len(p.Images) > 0 && p.Images[0].Src != "" {
		src := p.Images[0].Src
		patch.ImageURL = &src
	}

	return p.ID.String(), patch, nil
}

// Order normalizes an order payload
func (n *Normalizer) Order(raw []byte) (*NormalizedOrder, error) {
	var p OrderPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if p.ID.IsZero() {
		return nil, fmt.Errorf("%w: missing order id", ErrMalformedPayload)
	}

	orderDate := n.parseTime(p.CreatedAt)
	patch := commerce.OrderPatch{
		OrderDate:         &orderDate,
		TotalPrice:        p.TotalPrice,
		SubtotalPrice:     p.SubtotalPrice,
		TotalTax:          p.TotalTax,
		TotalDiscounts:    p.TotalDiscounts,
		FinancialStatus:   p.FinancialStatus,
		FulfillmentStatus: p.FulfillmentStatus,
		Currency:          p.Currency,
	}
	if !p.OrderNumber.IsZero() {
		num := p.OrderNumber.String()
		patch.OrderNumber = &num
	}
	if p.LineItems != nil {
		items := make([]commerce.OrderItem, 0, len(p.LineItems))
		for _, li := range p.LineItems {
			items = append(items, normalizeLineItem(li))
		}
		patch.Items = items
	}

	out := &NormalizedOrder{
		ExternalID: p.ID.String(),
		OrderDate:  orderDate,
		Patch:      patch,
	}
	if p.Customer != nil && !p.Customer.ID.IsZero() {
		out.CustomerExternalID = p.Customer.ID.String()
	}
	return out, nil
}

// Cart normalizes a cart payload. Cart value is the decimal sum of
// price times quantity across line items; item count is the number of
// line items.
func (n *Normalizer) Cart(raw []byte) (*NormalizedCart, error) {
	var p CartPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	token := p.Token
	if token == "" {
		token = p.ID.String()
	}
	if token == "" {
		return nil, fmt.Errorf("%w: missing cart token", ErrMalformedPayload)
	}

	value := sumLineItems(p.LineItems)
	count := len(p.LineItems)
	patch := commerce.CartEventPatch{
		CartValue: &value,
		ItemCount: &count,
	}
	applyFunnelCustomer(p.Customer, p.Email, &patch.CustomerExternalID, &patch.CustomerEmail)

	return &NormalizedCart{Token: token, Patch: patch}, nil
}

// Checkout normalizes a checkout payload. The wire total is preferred
// when present; otherwise the value is summed from line items.
func (n *Normalizer) Checkout(raw []byte) (*NormalizedCheckout, error) {
	var p CheckoutPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	token := p.Token
	if token == "" {
		token = p.ID.String()
	}
	if token == "" {
		return nil, fmt.Errorf("%w: missing checkout token", ErrMalformedPayload)
	}

	value := sumLineItems(p.LineItems)
	if p.TotalPrice != nil {
		value = *p.TotalPrice
	}
	count := len(p.LineItems)
	patch := commerce.CheckoutEventPatch{
		CheckoutValue: &value,
		ItemCount:     &count,
	}
	applyFunnelCustomer(p.Customer, p.Email, &patch.CustomerExternalID, &patch.CustomerEmail)

	out := &NormalizedCheckout{Token: token, Patch: patch}
	if !p.OrderID.IsZero() {
		out.ExternalOrderID = p.OrderID.String()
		out.CompletedAt = n.parseTime(p.CompletedAt)
	}
	return out, nil
}

// parseTime parses an offset-aware timestamp, falling back to the
// current time when the value is absent or unparseable
func (n *Normalizer) parseTime(s *string) time.Time {
	if s == nil || *s == "" {
		return n.now()
	}
	if t, err := time.Parse(time.RFC3339, *s); err == nil {
		return t
	}
	return n.now()
}

func normalizeLineItem(li LineItemPayload) commerce.OrderItem {
	item := commerce.OrderItem{
		ExternalProductID: li.ProductID.String(),
		Quantity:          1,
		UnitPrice:         decimal.Zero,
		TotalDiscount:     decimal.Zero,
	}
	if li.Title != nil {
		item.Title = *li.Title
	}
	if li.VariantTitle != nil {
		item.VariantTitle = *li.VariantTitle
	}
	if li.Quantity != nil && *li.Quantity >= 1 {
		item.Quantity = *li.Quantity
	}
	if li.Price != nil {
		item.UnitPrice = *li.Price
	}
	if li.TotalDiscount != nil {
		item.TotalDiscount = *li.TotalDiscount
	}
	return item
}

func sumLineItems(items []LineItemPayload) decimal.Decimal {
	total := decimal.Zero
	for _, li := range items {
		if li.Price == nil {
			continue
		}
		qty := int64(1)
		if li.Quantity != nil && *li.Quantity >= 1 {
			qty = int64(*li.Quantity)
		}
		total = total.Add(li.Price.Mul(decimal.NewFromInt(qty)))
	}
	return total
}

func applyFunnelCustomer(c *CustomerPayload, email *string, extID, custEmail **string) {
	if c != nil && !c.ID.IsZero() {
		id := c.ID.String()
		*extID = &id
	}
	switch {
	case email != nil:
		*custEmail = email
	case c != nil && c.Email != nil:
		*custEmail = c.Email
	}
}
