package course

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/gurukul-storefront/internal/config"
	"github.com/your-org/gurukul-storefront/internal/pkg/logger"
	"github.com/your-org/gurukul-storefront/internal/pkg/sheety"
	"github.com/your-org/gurukul-storefront/internal/pkg/validate"
)

type inquirySheet struct {
	mu   sync.Mutex
	rows []map[string]InquiryRow
}

func (s *inquirySheet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var body map[string]InquiryRow
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.rows = append(s.rows, body)
	w.WriteHeader(http.StatusOK)
}

func (s *inquirySheet) received() []map[string]InquiryRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]InquiryRow(nil), s.rows...)
}

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc := NewService(sheety.NewClient(time.Second), config.CoursesConfig{InquirySheetURL: srv.URL}, logger.Discard())
	svc.now = func() time.Time { return time.Date(2025, time.March, 7, 9, 5, 0, 0, time.Local) }
	return svc
}

func validInquiry() *InquiryRequest {
	return &InquiryRequest{
		Name:    " Meera ",
		PhoneNo: "9876543210",
		Email:   "meera@example.com",
		Age:     24,
		Message: "Is the eggless course on weekends?",
	}
}

func TestSubmitInquiry(t *testing.T) {
	sheet := &inquirySheet{}
	svc := newTestService(t, sheet)

	row, err := svc.SubmitInquiry(context.Background(), validInquiry())
	require.NoError(t, err)
	assert.Equal(t, "07/03/2025 09:05", row.SubmittedAt)

	rows := sheet.received()
	require.Len(t, rows, 1)
	got := rows[0][InquirySheet]
	assert.Equal(t, "Meera", got.Name)
	assert.Equal(t, "9876543210", got.PhoneNo)
	assert.Equal(t, "meera@example.com", got.Email)
	assert.Equal(t, 24, got.Age)
	assert.Equal(t, "07/03/2025 09:05", got.SubmittedAt)
}

func TestSubmitInquiry_ValidatesBeforeSending(t *testing.T) {
	sheet := &inquirySheet{}
	svc := newTestService(t, sheet)

	req := validInquiry()
	req.Email = "not-an-email"
	req.Age = 0
	req.Message = "  "

	_, err := svc.SubmitInquiry(context.Background(), req)
	var verr *validate.Error
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
	assert.Empty(t, sheet.received())
}

func TestSubmitInquiry_SurfacesSheetMessage(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"message":"Monthly request limit reached"}`))
	}))

	_, err := svc.SubmitInquiry(context.Background(), validInquiry())
	var sheetErr *sheety.Error
	require.ErrorAs(t, err, &sheetErr)
	assert.Equal(t, "Monthly request limit reached", sheetErr.Message)
}
