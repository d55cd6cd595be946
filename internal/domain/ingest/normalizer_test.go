package ingest

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func testNormalizer() *Normalizer {
	return NewNormalizerWithClock(func() time.Time { return fixedNow })
}

func TestNormalizer_Customer(t *testing.T) {
	n := testNormalizer()

	id, patch, err := n.Customer([]byte(`{"id":1001,"email":"jo@example.com","first_name":"Jo","total_spent":"249.90"}`))
	require.NoError(t, err)

	assert.Equal(t, "1001", id)
	require.NotNil(t, patch.Email)
	assert.Equal(t, "jo@example.com", *patch.Email)
	require.NotNil(t, patch.TotalSpent)
	assert.Equal(t, "249.90", patch.TotalSpent.StringFixed(2))
	assert.Nil(t, patch.Phone, "absent field must stay nil")
}

func TestNormalizer_Customer_MissingID(t *testing.T) {
	n := testNormalizer()

	_, _, err := n.Customer([]byte(`{"email":"jo@example.com"}`))
	assert.ErrorIs(t, err, ErrMalformedPayload)

	_, _, err = n.Customer([]byte(`{"id":null}`))
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestNormalizer_Customer_Undecodable(t *testing.T) {
	n := testNormalizer()
	_, _, err := n.Customer([]byte(`{"id":`))
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestNormalizer_Product_FirstVariantWins(t *testing.T) {
	n := testNormalizer()
	raw := `{
		"id": 2002,
		"title": "Trail Shoe",
		"variants": [
			{"id": 1, "price": "89.00", "inventory_quantity": 12},
			{"id": 2, "price": "99.00", "inventory_quantity": 3}
		],
		"images": [{"src": "https://cdn.example.com/shoe.png"}]
	}`

	id, patch, err := n.Product([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "2002", id)
	require.NotNil(t, patch.Price)
	assert.Equal(t, "89.00", patch.Price.StringFixed(2))
	require.NotNil(t, patch.InventoryQuantity)
	assert.Equal(t, 12, *patch.InventoryQuantity)
	require.NotNil(t, patch.ImageURL)
	assert.Equal(t, "https://cdn.example.com/shoe.png", *patch.ImageURL)
}

func TestNormalizer_Product_NoVariants(t *testing.T) {
	n := testNormalizer()

	_, patch, err := n.Product([]byte(`{"id":2002,"title":"Gift Card"}`))
	require.NoError(t, err)

	assert.Nil(t, patch.Price, "inventory and price stay unknown without variants")
	assert.Nil(t, patch.InventoryQuantity)
}

func TestNormalizer_Order(t *testing.T) {
	n := testNormalizer()
	raw := `{
		"id": 9001,
		"order_number": 1042,
		"created_at": "2026-03-30T08:15:00+02:00",
		"total_price": "199.95",
		"currency": "EUR",
		"financial_status": "paid",
		"customer": {"id": 1001},
		"line_items": [
			{"product_id": 55, "title": "Trail Shoe", "price": "89.00", "quantity": 2},
			{"product_id": 56, "title": "Socks", "price": "21.95", "quantity": 1}
		]
	}`

	out, err := n.Order([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "9001", out.ExternalID)
	assert.Equal(t, "1001", out.CustomerExternalID)
	require.NotNil(t, out.Patch.OrderNumber)
	assert.Equal(t, "1042", *out.Patch.OrderNumber)

	want := time.Date(2026, 3, 30, 8, 15, 0, 0, time.FixedZone("", 2*3600))
	assert.True(t, out.OrderDate.Equal(want))

	require.Len(t, out.Patch.Items, 2)
	assert.Equal(t, "55", out.Patch.Items[0].ExternalProductID)
	assert.Equal(t, 2, out.Patch.Items[0].Quantity)
	assert.Equal(t, "89.00", out.Patch.Items[0].UnitPrice.StringFixed(2))
}

func TestNormalizer_Order_TimestampFallsBackToNow(t *testing.T) {
	n := testNormalizer()

	out, err := n.Order([]byte(`{"id":9001,"created_at":"last tuesday"}`))
	require.NoError(t, err)
	assert.True(t, out.OrderDate.Equal(fixedNow))

	out, err = n.Order([]byte(`{"id":9002}`))
	require.NoError(t, err)
	assert.True(t, out.OrderDate.Equal(fixedNow))
}

func TestNormalizer_Order_NoCustomerLink(t *testing.T) {
	n := testNormalizer()

	out, err := n.Order([]byte(`{"id":9001}`))
	require.NoError(t, err)
	assert.Empty(t, out.CustomerExternalID)
	assert.Nil(t, out.Patch.Items, "missing line items must not replace stored ones")
}

func TestNormalizer_Cart_SumsLineItems(t *testing.T) {
	n := testNormalizer()
	raw := `{
		"token": "cart-abc",
		"email": "jo@example.com",
		"customer": {"id": 1001},
		"line_items": [
			{"product_id": 55, "price": "10.00", "quantity": 3},
			{"product_id": 56, "price": "10.00", "quantity": 3}
		]
	}`

	out, err := n.Cart([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "cart-abc", out.Token)
	require.NotNil(t, out.Patch.CartValue)
	assert.Equal(t, "60.00", out.Patch.CartValue.StringFixed(2))
	require.NotNil(t, out.Patch.ItemCount)
	assert.Equal(t, 2, *out.Patch.ItemCount)
	require.NotNil(t, out.Patch.CustomerExternalID)
	assert.Equal(t, "1001", *out.Patch.CustomerExternalID)
	require.NotNil(t, out.Patch.CustomerEmail)
	assert.Equal(t, "jo@example.com", *out.Patch.CustomerEmail)
}

func TestNormalizer_Cart_TokenFallsBackToID(t *testing.T) {
	n := testNormalizer()

	out, err := n.Cart([]byte(`{"id":777}`))
	require.NoError(t, err)
	assert.Equal(t, "777", out.Token)

	_, err = n.Cart([]byte(`{}`))
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestNormalizer_Checkout_PrefersWireTotal(t *testing.T) {
	n := testNormalizer()
	raw := `{
		"token": "chk-1",
		"total_price": "120.00",
		"line_items": [{"product_id": 55, "price": "10.00", "quantity": 3}]
	}`

	out, err := n.Checkout([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "120.00", out.Patch.CheckoutValue.StringFixed(2))
	assert.Empty(t, out.ExternalOrderID)
}

func TestNormalizer_Checkout_CompletionReference(t *testing.T) {
	n := testNormalizer()
	raw := `{"token":"chk-1","order_id":900001,"completed_at":"2026-03-30T10:00:00Z"}`

	out, err := n.Checkout([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "900001", out.ExternalOrderID)
	assert.True(t, out.CompletedAt.Equal(time.Date(2026, 3, 30, 10, 0, 0, 0, time.UTC)))
}

func TestNormalizer_Checkout_CompletionTimeFallsBack(t *testing.T) {
	n := testNormalizer()

	out, err := n.Checkout([]byte(`{"token":"chk-1","order_id":900001}`))
	require.NoError(t, err)
	assert.True(t, out.CompletedAt.Equal(fixedNow))
}

func TestNormalizer_ErrorsUnwrap(t *testing.T) {
	n := testNormalizer()
	_, _, err := n.Product([]byte(`not json`))
	assert.True(t, errors.Is(err, ErrMalformedPayload))
}
