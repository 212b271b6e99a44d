// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/gurukul-storefront/internal/pkg/api"
	"github.com/your-org/gurukul-storefront/internal/pkg/validate"
)

var (
	ErrForbidden   = errors.New("admin access required")
	ErrUnknownType = errors.New("unknown product type")
)

// CatalogAPI is the backend catalog surface
type CatalogAPI interface {
	AllProducts(ctx context.Context) (api.ProductGroups, error)
	Products(ctx context.Context, productType string) ([]api.Product, error)
	CreateProduct(ctx context.Context, token, productType string, p api.Product) (api.Product, error)
	UpdateProduct(ctx context.Context, token, productType, id string, p api.Product) (api.Product, error)
	DeleteProduct(ctx context.Context, token, productType, id string) error
}

// Sessions tells whether the caller may manage products
type Sessions interface {
	Token(ctx context.Context) (string, bool)
	IsAdmin(ctx context.Context) bool
}

// Service handles catalog browsing and admin product management
type Service struct {
	api      CatalogAPI
	sessions Sessions
	logger   *logrus.Logger
}

// NewService creates a new product service
func NewService(catalog CatalogAPI, sessions Sessions, logger *logrus.Logger) *Service {
	return &Service{api: catalog, sessions: sessions, logger: logger}
}

// ProductRequest represents product create/update data
type ProductRequest struct {
	Type        string   `json:"type" validate:"required,oneof=deliciousCake dryCake cupCake pudding pastry donut"`
	Name        string   `json:"name" validate:"required,notblank"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl"`
	Price       float64  `json:"price" validate:"min=0"`
	Quantity    *int     `json:"quantity" validate:"omitempty,min=0"`
	Flavor      string   `json:"flavor"`
	Layers      *int     `json:"layers" validate:"omitempty,min=1"`
	Weight      *float64 `json:"weight" validate:"omitempty,gt=0"`
	Filling     string   `json:"filling"`
}

func (r *ProductRequest) payload() api.Product {
	p := api.Product{
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Price:       r.Price,
		Quantity:    r.Quantity,
		Flavor:      r.Flavor,
		Filling:     r.Filling,
	}
	if supportsLayers(r.Type) {
		p.Layers = r.Layers
	}
	if supportsWeight(r.Type) {
		p.Weight = r.Weight
	}
	return p
}

// ListAll returns the whole catalog in display order
func (s *Service) ListAll(ctx context.Context) ([]Product, error) {
	groups, err := s.api.AllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	all := groups.All()
	if all == nil {
		all = []Product{}
	}
	return all, nil
}

// List returns the products of one type
func (s *Service) List(ctx context.Context, productType string) ([]Product, error) {
	if !IsValidType(productType) {
		return nil, ErrUnknownType
	}
	products, err := s.api.Products(ctx, productType)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve %s products: %w", productType, err)
	}
	for i := range products {
		if products[i].Type == "" {
			products[i].Type = productType
		}
	}
	return products, nil
}

// Create adds a product
func (s *Service) Create(ctx context.Context, req *ProductRequest) (*Product, error) {
	token, err := s.adminToken(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	created, err := s.api.CreateProduct(ctx, token, req.Type, req.payload())
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	if created.Type == "" {
		created.Type = req.Type
	}

	s.logger.WithFields(logrus.Fields{"id": created.ID.String(), "type": req.Type}).Info("Product created")
	return &created, nil
}

// Update replaces the editable fields of a product
func (s *Service) Update(ctx context.Context, id string, req *ProductRequest) (*Product, error) {
	token, err := s.adminToken(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, validate.Required("id")
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	updated, err := s.api.UpdateProduct(ctx, token, req.Type, id, req.payload())
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if updated.Type == "" {
		updated.Type = req.Type
	}

	s.logger.WithFields(logrus.Fields{"id": id, "type": req.Type}).Info("Product updated")
	return &updated, nil
}

// Delete removes a product
func (s *Service) Delete(ctx context.Context, productType, id string) error {
	token, err := s.adminToken(ctx)
	if err != nil {
		return err
	}
	if !IsValidType(productType) {
		return ErrUnknownType
	}
	if id == "" {
		return validate.Required("id")
	}

	if err := s.api.DeleteProduct(ctx, token, productType, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"id": id, "type": productType}).Info("Product deleted")
	return nil
}

func (s *Service) adminToken(ctx context.Context) (string, error) {
	if !s.sessions.IsAdmin(ctx) {
		return "", ErrForbidden
	}
	token, ok := s.sessions.Token(ctx)
	if !ok {
		return "", ErrForbidden
	}
	return token, nil
}
