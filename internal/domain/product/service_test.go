package product

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/gurukul-storefront/internal/pkg/api"
	"github.com/your-org/gurukul-storefront/internal/pkg/logger"
	"github.com/your-org/gurukul-storefront/internal/pkg/validate"
)

type fakeSessions struct {
	token string
	admin bool
}

func (f fakeSessions) Token(context.Context) (string, bool) { return f.token, f.token != "" }
func (f fakeSessions) IsAdmin(context.Context) bool         { return f.admin }

type recorded struct {
	method, path, auth string
	body               map[string]any
}

func newTestService(t *testing.T, sessions Sessions, reply string) (*Service, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization")}
		if r.Body != nil && r.ContentLength > 0 {
			_ = json.NewDecoder(r.Body).Decode(&rec.body)
		}
		calls = append(calls, rec)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, time.Second, logger.Discard())
	return NewService(client, sessions, logger.Discard()), &calls
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestListAll(t *testing.T) {
	svc, _ := newTestService(t, fakeSessions{}, `{"data":{"cupCakes":[{"id":1,"name":"Vanilla Cup","price":60}],"deliciousCakes":[{"id":2,"name":"Red Velvet","price":700}]}}`)

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Red Velvet", all[0].Name)
	assert.Equal(t, "Vanilla Cup", all[1].Name)
}

func TestList_UnknownType(t *testing.T) {
	svc, calls := newTestService(t, fakeSessions{}, `{"data":[]}`)

	_, err := svc.List(context.Background(), "bread")
	assert.ErrorIs(t, err, ErrUnknownType)
	assert.Empty(t, *calls)
}

func TestList_FillsType(t *testing.T) {
	svc, calls := newTestService(t, fakeSessions{}, `{"data":[{"id":"d1","name":"Glazed","price":45}]}`)

	products, err := svc.List(context.Background(), TypeDonut)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, TypeDonut, products[0].Type)
	assert.Equal(t, "/product/donut", (*calls)[0].path)
}

func TestCreate_RequiresAdmin(t *testing.T) {
	svc, calls := newTestService(t, fakeSessions{token: "tok", admin: false}, `{}`)

	_, err := svc.Create(context.Background(), &ProductRequest{Type: TypeDonut, Name: "Glazed", Price: 45})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.Delete(context.Background(), TypeDonut, "d1"), ErrForbidden)
	assert.Empty(t, *calls)
}

func TestCreate(t *testing.T) {
	svc, calls := newTestService(t, fakeSessions{token: "tok", admin: true}, `{"data":{"id":9,"name":"Choco Truffle","price":650}}`)

	req := &ProductRequest{
		Type:     TypeDeliciousCake,
		Name:     "Choco Truffle",
		Price:    650,
		Quantity: intPtr(4),
		Flavor:   "chocolate",
		Layers:   intPtr(2),
		Weight:   floatPtr(1.5),
	}
	p, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, api.ID("9"), p.ID)
	assert.Equal(t, TypeDeliciousCake, p.Type)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "/product/deliciousCake", call.path)
	assert.Equal(t, "Bearer tok", call.auth)
	assert.Equal(t, 2.0, call.body["layers"])
	assert.Equal(t, 1.5, call.body["weight"])
	assert.NotContains(t, call.body, "type")
}

func TestUpdate_DropsFieldsTheTypeDoesNotHave(t *testing.T) {
	svc, calls := newTestService(t, fakeSessions{token: "tok", admin: true}, `{"data":{"id":"d1","name":"Jam Donut","price":50}}`)

	req := &ProductRequest{Type: TypeDonut, Name: "Jam Donut", Price: 50, Layers: intPtr(3), Weight: floatPtr(1), Filling: "jam"}
	_, err := svc.Update(context.Background(), "d1", req)
	require.NoError(t, err)

	call := (*calls)[0]
	assert.Equal(t, http.MethodPatch, call.method)
	assert.Equal(t, "/product/donut/d1", call.path)
	assert.Equal(t, "jam", call.body["filling"])
	assert.NotContains(t, call.body, "layers")
	assert.NotContains(t, call.body, "weight")
}

func TestCreate_Validation(t *testing.T) {
	svc, calls := newTestService(t, fakeSessions{token: "tok", admin: true}, `{}`)

	_, err := svc.Create(context.Background(), &ProductRequest{Type: "bread", Name: "", Price: -1})
	var verr *validate.Error
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
	assert.Empty(t, *calls)
}

func TestDelete(t *testing.T) {
	svc, calls := newTestService(t, fakeSessions{token: "tok", admin: true}, `{}`)

	require.NoError(t, svc.Delete(context.Background(), TypePastry, "p7"))
	assert.Equal(t, "DELETE /product/pastry/p7", (*calls)[0].method+" "+(*calls)[0].path)
}

func TestToCartItem(t *testing.T) {
	in := ToCartItem(Product{ID: "12", Name: "Plum Cake", Price: 320, ImageURL: "plum.jpg"})
	assert.Equal(t, "12", in.ID)
	assert.Equal(t, "plum.jpg", in.Image)
	assert.Equal(t, 320.0, in.Price)
}
