package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/gurukul-storefront/internal/config"
	"github.com/your-org/gurukul-storefront/internal/domain/cart"
	"github.com/your-org/gurukul-storefront/internal/infrastructure/storage"
	"github.com/your-org/gurukul-storefront/internal/pkg/logger"
	"github.com/your-org/gurukul-storefront/internal/pkg/sheety"
	"github.com/your-org/gurukul-storefront/internal/pkg/validate"
)

type fakePayments struct {
	mu      sync.Mutex
	url     string
	err     error
	cleared int
	token   string
}

func (f *fakePayments) InitiatePayment(_ context.Context, token, _, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
	return f.url, f.err
}

func (f *fakePayments) ClearCart(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
	if f.err != nil {
		return f.err
	}
	f.cleared++
	return nil
}

type staticToken string

func (s staticToken) Token(context.Context) (string, bool) {
	return string(s), s != ""
}

type sheetServer struct {
	mu     sync.Mutex
	rows   []map[string]OrderRow
	status int
}

func (s *sheetServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != 0 {
		http.Error(w, "sheet unavailable", s.status)
		return
	}
	var body map[string]OrderRow
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.rows = append(s.rows, body)
	w.WriteHeader(http.StatusOK)
}

func (s *sheetServer) received() []map[string]OrderRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]OrderRow(nil), s.rows...)
}

func (s *sheetServer) fail(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

var details = &DeliveryDetails{
	Name:            "Asha Rao",
	PhoneNo:         "9876543210",
	CompleteAddress: "12 MG Road",
	Landmark:        "Near Temple",
	City:            "Pune",
	State:           "MH",
	Pincode:         "411001",
}

func newTestService(t *testing.T, token string) (*Service, *cart.Store, *sheetServer, *fakePayments) {
	t.Helper()
	ctx := context.Background()
	store := cart.NewStore(ctx, storage.NewMemory(), logger.Discard())

	sheet := &sheetServer{}
	srv := httptest.NewServer(sheet)
	t.Cleanup(srv.Close)

	payments := &fakePayments{url: "https://pay.example/redirect/1"}
	cfg := config.CheckoutConfig{OrderSheetURL: srv.URL, DeliveryFee: 50}
	svc := NewService(store, sheety.NewClient(time.Second), payments, staticToken(token), cfg, logger.Discard())
	svc.now = func() time.Time { return time.Date(2026, 3, 7, 9, 5, 0, 0, time.Local) }
	return svc, store, sheet, payments
}

func fillCart(t *testing.T, store *cart.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.AddItem(ctx, cart.ItemInput{ID: "A", Name: "Bun", Price: 20}, 2))
	require.NoError(t, store.AddItem(ctx, cart.ItemInput{ID: "B", Name: "Black Forest", Price: 450}, 1))
}

func TestQuote(t *testing.T) {
	svc, store, _, _ := newTestService(t, "")
	fillCart(t, store)

	q, err := svc.Quote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, q.TotalQuantity)
	assert.Equal(t, 490.0, q.Subtotal)
	assert.Equal(t, 50.0, q.DeliveryFee)
	assert.Equal(t, 540.0, q.Total)
}

func TestPlaceOrder(t *testing.T) {
	svc, store, sheet, _ := newTestService(t, "")
	fillCart(t, store)

	receipt, err := svc.PlaceOrder(context.Background(), details)
	require.NoError(t, err)

	_, err = uuid.Parse(receipt.Reference)
	assert.NoError(t, err)
	assert.Equal(t, 540.0, receipt.Total)
	assert.Empty(t, store.Items())

	rows := sheet.received()
	require.Len(t, rows, 1)
	assert.Equal(t, OrderRow{
		Name:        "Asha Rao",
		Items:       "Bun x2, Black Forest x1",
		Quantity:    3,
		SubTotal:    490,
		PhoneNo:     "9876543210",
		Address:     "12 MG Road, Near Temple, Pune, MH - 411001",
		SubmittedAt: "07/03/2026 09:05",
	}, rows[0][OrderSheet])
}

func TestPlaceOrder_SheetFailureKeepsCart(t *testing.T) {
	svc, store, sheet, _ := newTestService(t, "")
	fillCart(t, store)
	sheet.fail(http.StatusInternalServerError)

	_, err := svc.PlaceOrder(context.Background(), details)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sheet unavailable")
	assert.Len(t, store.Items(), 2)
}

func TestPlaceOrder_Validation(t *testing.T) {
	svc, store, sheet, _ := newTestService(t, "")
	fillCart(t, store)

	incomplete := *details
	incomplete.Pincode = "  "
	_, err := svc.PlaceOrder(context.Background(), &incomplete)

	var verr *validate.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "pincode", verr.Fields[0].Field)
	assert.Empty(t, sheet.received())
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	svc, _, sheet, _ := newTestService(t, "")

	_, err := svc.PlaceOrder(context.Background(), details)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, sheet.received())
}

func TestAddressWithoutLandmark(t *testing.T) {
	d := *details
	d.Landmark = ""
	assert.Equal(t, "12 MG Road, Pune, MH - 411001", d.Address())
}

func TestInitiatePayment(t *testing.T) {
	svc, _, _, payments := newTestService(t, "tok")

	u, err := svc.InitiatePayment(context.Background(), &PaymentRequest{DeliveryAddress: "12 MG Road", PhoneNo: "9876543210"})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/redirect/1", u)
	assert.Equal(t, "tok", payments.token)
}

func TestInitiatePayment_RequiresSession(t *testing.T) {
	svc, _, _, _ := newTestService(t, "")

	_, err := svc.InitiatePayment(context.Background(), &PaymentRequest{DeliveryAddress: "12 MG Road", PhoneNo: "9876543210"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestCompletePayment(t *testing.T) {
	svc, store, _, payments := newTestService(t, "tok")
	fillCart(t, store)

	require.NoError(t, svc.CompletePayment(context.Background()))
	assert.Equal(t, 1, payments.cleared)
	assert.Empty(t, store.Items())
}

func TestCompletePayment_BackendFailureKeepsCart(t *testing.T) {
	svc, store, _, payments := newTestService(t, "tok")
	fillCart(t, store)
	payments.err = errors.New("gateway timeout")

	assert.Error(t, svc.CompletePayment(context.Background()))
	assert.Len(t, store.Items(), 2)
}
