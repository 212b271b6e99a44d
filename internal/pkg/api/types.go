package api

import (
	"encoding/json"
	"fmt"
)

// ID is an identifier the backend may send either as a JSON string or number.
type ID string

// UnmarshalJSON accepts "42", 42 and null.
func (id *ID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// CartLine is one row of the server-side cart: the line id is assigned by the
// backend and differs from the product id.
type CartLine struct {
	ID       ID          `json:"id"`
	Quantity int         `json:"quantity"`
	Product  CartProduct `json:"product"`
}

// CartProduct is the product summary nested in a cart line
type CartProduct struct {
	ID       ID      `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl"`
}

// Product is a catalog entry
type Product struct {
	ID          ID       `json:"id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	ImageURL    string   `json:"imageUrl"`
	Type        string   `json:"type,omitempty"`
	Flavor      string   `json:"flavor,omitempty"`
	Quantity    *int     `json:"quantity,omitempty"`
	Layers      *int     `json:"layers,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	Filling     string   `json:"filling,omitempty"`
}

// ProductGroups is the catalog grouped by product type, as returned by /product/all
type ProductGroups struct {
	DeliciousCakes []Product `json:"deliciousCakes"`
	DryCakes       []Product `json:"dryCakes"`
	CupCakes       []Product `json:"cupCakes"`
	Puddings       []Product `json:"puddings"`
	Pastries       []Product `json:"pastries"`
	Donuts         []Product `json:"donuts"`
}

// All flattens the groups in display order
func (g ProductGroups) All() []Product {
	var all []Product
	for _, group := range [][]Product{g.DeliciousCakes, g.DryCakes, g.CupCakes, g.Puddings, g.Pastries, g.Donuts} {
		all = append(all, group...)
	}
	return all
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type paymentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		PaymentURL string `json:"paymentUrl"`
	} `json:"data"`
}

type envelope[T any] struct {
	Data T `json:"data"`
}
