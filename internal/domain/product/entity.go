// internal/domain/product/entity.go
package product

import (
	"github.com/your-org/gurukul-storefront/internal/domain/cart"
	"github.com/your-org/gurukul-storefront/internal/pkg/api"
)

// Product is a catalog entry as served by the backend
type Product = api.Product

// Product types, matching the backend's route segments
const (
	TypeDeliciousCake = "deliciousCake"
	TypeDryCake       = "dryCake"
	TypeCupCake       = "cupCake"
	TypePudding       = "pudding"
	TypePastry        = "pastry"
	TypeDonut         = "donut"
)

// Types lists every product type in display order
var Types = []string{TypeDeliciousCake, TypeDryCake, TypeCupCake, TypePudding, TypePastry, TypeDonut}

// IsValidType reports whether t is a known product type
func IsValidType(t string) bool {
	for _, known := range Types {
		if known == t {
			return true
		}
	}
	return false
}

// supportsLayers reports whether the type carries a layer count
func supportsLayers(t string) bool {
	return t == TypeDeliciousCake || t == TypeDryCake || t == TypeCupCake
}

// supportsWeight reports whether the type is sold by weight
func supportsWeight(t string) bool {
	return t == TypeDeliciousCake || t == TypeDryCake
}

// ToCartItem maps a catalog entry to cart input
func ToCartItem(p Product) cart.ItemInput {
	return cart.ItemInput{
		ID:    p.ID.String(),
		Name:  p.Name,
		Price: p.Price,
		Image: p.ImageURL,
	}
}
