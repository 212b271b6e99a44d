package cart

import (
	"encoding/json"
	"fmt"
)

// Encode serializes the item list as a JSON array, preserving order.
func Encode(items []Item) ([]byte, error) {
	if items == nil {
		items = []Item{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cart: %w", err)
	}
	return data, nil
}

// Decode parses a stored cart. Anything that is not a well-formed list of
// valid, distinct items decodes to an empty cart.
func Decode(data []byte) []Item {
	items, err := decode(data)
	if err != nil {
		return []Item{}
	}
	return items
}

func decode(data []byte) ([]Item, error) {
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	if items == nil {
		return nil, fmt.Errorf("stored cart is not a list")
	}
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.ID == "" || it.Quantity < 1 || it.Price < 0 {
			return nil, fmt.Errorf("stored cart has an invalid item %q", it.ID)
		}
		if _, dup := seen[it.ID]; dup {
			return nil, fmt.Errorf("stored cart repeats item %q", it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	return items, nil
}
