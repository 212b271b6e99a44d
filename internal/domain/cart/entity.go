// internal/domain/cart/entity.go
package cart

import (
	"errors"

	"github.com/your-org/gurukul-storefront/internal/pkg/api"
)

// DefaultQuantity is the quantity added when the caller does not choose one
const DefaultQuantity = 1

var (
	ErrInvalidItem      = errors.New("cart item needs an id, a name and a non-negative price")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrNotAuthenticated = errors.New("login required to use the server cart")
	ErrMutationInFlight = errors.New("another change to this cart line is still in progress")
)

// Item is one cart line: at most one per ID
type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

// ItemInput is what callers pass to AddItem; quantity is given separately
type ItemInput struct {
	ID    string  `json:"id" binding:"required"`
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price" binding:"min=0"`
	Image string  `json:"image"`
}

func (in ItemInput) valid() bool {
	return in.ID != "" && in.Name != "" && in.Price >= 0
}

// Snapshot is the cart with its derived totals
type Snapshot struct {
	Items         []Item  `json:"items"`
	TotalQuantity int     `json:"total_quantity"`
	Subtotal      float64 `json:"subtotal"`
}

// NewSnapshot computes totals for items
func NewSnapshot(items []Item) Snapshot {
	if items == nil {
		items = []Item{}
	}
	return Snapshot{
		Items:         items,
		TotalQuantity: totalQuantity(items),
		Subtotal:      subtotal(items),
	}
}

func totalQuantity(items []Item) int {
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	return total
}

func subtotal(items []Item) float64 {
	total := 0.0
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// Flatten maps server cart lines to flat items. The item ID is the server line
// id, not the product id.
func Flatten(lines []api.CartLine) []Item {
	items := make([]Item, 0, len(lines))
	for _, l := range lines {
		items = append(items, Item{
			ID:       l.ID.String(),
			Name:     l.Product.Name,
			Price:    l.Product.Price,
			Image:    l.Product.ImageURL,
			Quantity: l.Quantity,
		})
	}
	return items
}
