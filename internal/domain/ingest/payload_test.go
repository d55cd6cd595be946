package ingest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExternalID_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ExternalID
	}{
		{"number", `{"id":7654321}`, "7654321"},
		{"large number", `{"id":632910392192382}`, "632910392192382"},
		{"string", `{"id":"ABC-1001"}`, "ABC-1001"},
		{"null", `{"id":null}`, ""},
		{"absent", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc struct {
				ID ExternalID `json:"id"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.in), &doc))
			assert.Equal(t, tt.want, doc.ID)
			assert.Equal(t, tt.want == "", doc.ID.IsZero())
		})
	}
}

func TestExternalID_UnmarshalRejectsObjects(t *testing.T) {
	var doc struct {
		ID ExternalID `json:"id"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"id":{"nested":1}}`), &doc))
}

func TestCustomerPayload_AbsentFieldsStayNil(t *testing.T) {
	var p CustomerPayload
	require.NoError(t, json.Unmarshal([]byte(`{"id":1001,"email":"jo@example.com"}`), &p))

	assert.Equal(t, "1001", p.ID.String())
	require.NotNil(t, p.Email)
	assert.Equal(t, "jo@example.com", *p.Email)
	assert.Nil(t, p.Phone)
	assert.Nil(t, p.TotalSpent)
	assert.Nil(t, p.OrdersCount)
}

func TestOrderPayload_DecodesPricesFromStrings(t *testing.T) {
	raw := `{"id":9001,"total_price":"199.95","line_items":[{"product_id":55,"price":"19.99","quantity":2}]}`
	var p OrderPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	require.NotNil(t, p.TotalPrice)
	assert.Equal(t, "199.95", p.TotalPrice.StringFixed(2))
	require.Len(t, p.LineItems, 1)
	assert.Equal(t, "55", p.LineItems[0].ProductID.String())
	assert.Equal(t, "19.99", p.LineItems[0].Price.StringFixed(2))
}
