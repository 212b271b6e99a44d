// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/gurukul-storefront/internal/config"
	"github.com/your-org/gurukul-storefront/internal/domain/cart"
	"github.com/your-org/gurukul-storefront/internal/pkg/validate"
)

// OrderSheet is the spreadsheet resource orders are appended to
const OrderSheet = "sheet1"

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNotAuthenticated = cart.ErrNotAuthenticated
)

// SheetClient appends rows to a spreadsheet endpoint
type SheetClient interface {
	AppendRow(ctx context.Context, endpoint, sheet string, row any) error
}

// PaymentAPI is the backend payment surface
type PaymentAPI interface {
	InitiatePayment(ctx context.Context, token, deliveryAddress, phoneNo string) (string, error)
	ClearCart(ctx context.Context, token string) error
}

// TokenSource supplies the bearer token of the current session
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// Service handles checkout business logic
type Service struct {
	cart     cart.Manager
	sheets   SheetClient
	payments PaymentAPI
	tokens   TokenSource
	config   config.CheckoutConfig
	logger   *logrus.Logger
	now      func() time.Time
}

// NewService creates a new checkout service
func NewService(cartManager cart.Manager, sheets SheetClient, payments PaymentAPI, tokens TokenSource, cfg config.CheckoutConfig, logger *logrus.Logger) *Service {
	return &Service{
		cart:     cartManager,
		sheets:   sheets,
		payments: payments,
		tokens:   tokens,
		config:   cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Quote represents the cart priced for delivery
type Quote struct {
	cart.Snapshot
	DeliveryFee float64 `json:"delivery_fee"`
	Total       float64 `json:"total"`
}

// DeliveryDetails represents the order form
type DeliveryDetails struct {
	Name            string `json:"name" validate:"required,notblank"`
	PhoneNo         string `json:"phone_no" validate:"required,notblank"`
	CompleteAddress string `json:"complete_address" validate:"required,notblank"`
	Landmark        string `json:"landmark"`
	City            string `json:"city" validate:"required,notblank"`
	State           string `json:"state" validate:"required,notblank"`
	Pincode         string `json:"pincode" validate:"required,notblank"`
}

// Address formats the details as one delivery line
func (d *DeliveryDetails) Address() string {
	parts := []string{strings.TrimSpace(d.CompleteAddress)}
	if lm := strings.TrimSpace(d.Landmark); lm != "" {
		parts = append(parts, lm)
	}
	parts = append(parts, strings.TrimSpace(d.City))
	return fmt.Sprintf("%s, %s - %s", strings.Join(parts, ", "), strings.TrimSpace(d.State), strings.TrimSpace(d.Pincode))
}

// OrderRow is the row appended to the order sheet
type OrderRow struct {
	Name        string  `json:"name"`
	Items       string  `json:"items"`
	Quantity    int     `json:"quantity"`
	SubTotal    float64 `json:"subTotal"`
	PhoneNo     string  `json:"phoneNo"`
	Address     string  `json:"address"`
	SubmittedAt string  `json:"submittedAt"`
}

// Receipt represents a placed order
type Receipt struct {
	Reference   string      `json:"reference"`
	Items       []cart.Item `json:"items"`
	Quantity    int         `json:"quantity"`
	Subtotal    float64     `json:"subtotal"`
	DeliveryFee float64     `json:"delivery_fee"`
	Total       float64     `json:"total"`
	Address     string      `json:"address"`
	SubmittedAt string      `json:"submitted_at"`
}

// PaymentRequest represents a hosted payment request
type PaymentRequest struct {
	DeliveryAddress string `json:"delivery_address" validate:"required,notblank"`
	PhoneNo         string `json:"phone_no" validate:"required,notblank"`
}

// Quote prices the current cart
func (s *Service) Quote(ctx context.Context) (*Quote, error) {
	snap, err := s.cart.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	return &Quote{
		Snapshot:    snap,
		DeliveryFee: s.config.DeliveryFee,
		Total:       snap.Subtotal + s.config.DeliveryFee,
	}, nil
}

// PlaceOrder submits the cart to the order sheet and empties the cart. The
// cart is left untouched when submission fails.
func (s *Service) PlaceOrder(ctx context.Context, details *DeliveryDetails) (*Receipt, error) {
	if err := validate.Struct(details); err != nil {
		return nil, err
	}

	quote, err := s.Quote(ctx)
	if err != nil {
		return nil, err
	}
	if len(quote.Items) == 0 {
		return nil, ErrEmptyCart
	}

	row := OrderRow{
		Name:        strings.TrimSpace(details.Name),
		Items:       describeItems(quote.Items),
		Quantity:    quote.TotalQuantity,
		SubTotal:    quote.Subtotal,
		PhoneNo:     strings.TrimSpace(details.PhoneNo),
		Address:     details.Address(),
		SubmittedAt: s.now().Format("02/01/2006 15:04"),
	}
	if err := s.sheets.AppendRow(ctx, s.config.OrderSheetURL, OrderSheet, row); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	receipt := &Receipt{
		Reference:   uuid.New().String(),
		Items:       quote.Items,
		Quantity:    quote.TotalQuantity,
		Subtotal:    quote.Subtotal,
		DeliveryFee: quote.DeliveryFee,
		Total:       quote.Total,
		Address:     row.Address,
		SubmittedAt: row.SubmittedAt,
	}

	if err := s.cart.Clear(ctx); err != nil {
		s.logger.WithError(err).WithField("reference", receipt.Reference).Warn("Order placed but cart was not cleared")
	}

	s.logger.WithFields(logrus.Fields{
		"reference": receipt.Reference,
		"quantity":  receipt.Quantity,
		"subtotal":  receipt.Subtotal,
	}).Info("Order placed")

	return receipt, nil
}

// InitiatePayment starts a hosted payment and returns the redirect URL
func (s *Service) InitiatePayment(ctx context.Context, req *PaymentRequest) (string, error) {
	if err := validate.Struct(req); err != nil {
		return "", err
	}
	token, ok := s.tokens.Token(ctx)
	if !ok {
		return "", ErrNotAuthenticated
	}

	paymentURL, err := s.payments.InitiatePayment(ctx, token, strings.TrimSpace(req.DeliveryAddress), strings.TrimSpace(req.PhoneNo))
	if err != nil {
		return "", fmt.Errorf("failed to initiate payment: %w", err)
	}
	return paymentURL, nil
}

// CompletePayment clears the server cart after the payment provider
// redirected back, then brings the local cart in line.
func (s *Service) CompletePayment(ctx context.Context) error {
	token, ok := s.tokens.Token(ctx)
	if !ok {
		return ErrNotAuthenticated
	}
	if err := s.payments.ClearCart(ctx, token); err != nil {
		return fmt.Errorf("payment succeeded but the cart could not be cleared: %w", err)
	}

	// the server cart only needs a refetch, a local cart is emptied
	if r, ok := s.cart.(interface{ Refresh(context.Context) error }); ok {
		return r.Refresh(ctx)
	}
	return s.cart.Clear(ctx)
}

func describeItems(items []cart.Item) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s x%d", it.Name, it.Quantity)
	}
	return strings.Join(parts, ", ")
}
