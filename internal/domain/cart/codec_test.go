package cart

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/gurukul-storefront/internal/pkg/api"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	items := []Item{
		{ID: "C", Name: "Chocolate Truffle", Price: 550, Image: "truffle.jpg", Quantity: 1},
		{ID: "A", Name: "Bun", Price: 20, Image: "x", Quantity: 5},
		{ID: "17", Name: "Plum Cake", Price: 12.75, Image: "", Quantity: 3},
	}

	data, err := Encode(items)
	require.NoError(t, err)

	if diff := cmp.Diff(items, Decode(data)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_EmptyIsArray(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestDecode_CorruptYieldsEmpty(t *testing.T) {
	tests := map[string]string{
		"garbage":        `{{{`,
		"object":         `{"id":"A","name":"Bun"}`,
		"null":           `null`,
		"empty input":    ``,
		"missing id":     `[{"name":"Bun","price":20,"quantity":1}]`,
		"zero quantity":  `[{"id":"A","name":"Bun","price":20,"quantity":0}]`,
		"negative price": `[{"id":"A","name":"Bun","price":-1,"quantity":1}]`,
		"duplicate id":   `[{"id":"A","name":"Bun","price":20,"quantity":1},{"id":"A","name":"Bun","price":20,"quantity":2}]`,
		"wrong types":    `[{"id":"A","name":"Bun","price":"20","quantity":1}]`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			got := Decode([]byte(raw))
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestFlatten(t *testing.T) {
	lines := []api.CartLine{
		{ID: "9", Quantity: 2, Product: api.CartProduct{ID: "p-1", Name: "Bun", Price: 20, ImageURL: "bun.jpg"}},
		{ID: "12", Quantity: 1, Product: api.CartProduct{ID: "p-2", Name: "Donut", Price: 45, ImageURL: "donut.jpg"}},
	}

	want := []Item{
		{ID: "9", Name: "Bun", Price: 20, Image: "bun.jpg", Quantity: 2},
		{ID: "12", Name: "Donut", Price: 45, Image: "donut.jpg", Quantity: 1},
	}
	if diff := cmp.Diff(want, Flatten(lines)); diff != "" {
		t.Errorf("Flatten mismatch (-want +got):\n%s", diff)
	}

	snap := NewSnapshot(Flatten(lines))
	assert.Equal(t, 3, snap.TotalQuantity)
	assert.Equal(t, 85.0, snap.Subtotal)
}
