package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"delivery-market/internal/app/controller/http/offers"
	"delivery-market/internal/app/controller/http/orders"
	"delivery-market/internal/app/controller/http/ratings"
	"delivery-market/internal/app/controller/http/stores"
	"delivery-market/internal/app/entity"
	"delivery-market/internal/app/model"
	storagemodel "delivery-market/internal/app/storage/api/model"
	"delivery-market/internal/app/storage/memory"
	"delivery-market/internal/app/usecase/token"
)

const testSecret = "c2VjcmV0LXNpZ25pbmcta2V5LWZvci10ZXN0cw=="

type testServer struct {
	mux     http.Handler
	decoder *token.Decoder
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	decoder, err := token.NewDecoder(testSecret, "")
	require.NoError(t, err)

	storage := memory.NewMemoryStorage(storagemodel.Limits{
		UserAcceptedOrders:  4,
		StoreAcceptedOrders: 10,
		OffersPerOrder:      7,
		DefaultRadiusKm:     1,
	})

	mux := createMux(decoder,
		orders.New(storage),
		offers.New(storage),
		ratings.New(storage),
		stores.New(storage, 1))

	return &testServer{
		mux:     mux,
		decoder: decoder,
	}
}

func (s *testServer) do(t *testing.T, method, target string, body io.Reader, caller *entity.Caller) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(method, target, body)
	if caller != nil {
		header, err := s.decoder.BuildAuthHeader(*caller)
		require.NoError(t, err)
		request.Header.Set(token.AuthHeader, header)
	}

	writer := httptest.NewRecorder()
	s.mux.ServeHTTP(writer, request)

	return writer
}

func decodeError(t *testing.T, body io.Reader) string {
	t.Helper()

	var resp model.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))

	return resp.Error
}

var (
	customer = entity.Caller{ID: "cust-1", Role: entity.RoleCustomer}
	operator = entity.Caller{ID: "op-1", Role: entity.RoleStoreOperator}
)

const orderBody = `{
	"place": "Cra 7 # 12-34",
	"geoplace": {"lat": 4.60971, "lon": -74.08175},
	"items": [{"amount": 2, "name": "empanada"}]
}`

const storeBody = `{
	"name": "La Esquina",
	"place": "Cra 7 # 11-10",
	"geoplace": {"lat": 4.60971, "lon": -74.08175},
	"radius": 2
}`

func TestIdentityRoute(t *testing.T) {
	server := newTestServer(t)

	t.Run("authenticated caller echoed", func(t *testing.T) {
		writer := server.do(t, http.MethodGet, "/", nil, &customer)
		require.Equal(t, http.StatusOK, writer.Code)

		var resp model.CallerResponse
		require.NoError(t, json.NewDecoder(writer.Body).Decode(&resp))
		assert.Equal(t, "cust-1", resp.UserID)
		assert.Equal(t, "customer", resp.Role)
	})

	t.Run("missing token", func(t *testing.T) {
		writer := server.do(t, http.MethodGet, "/", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, writer.Code)
		assert.Equal(t, "unauthorized", decodeError(t, writer.Body))
	})
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	server := newTestServer(t)

	// operator registers a store
	writer := server.do(t, http.MethodPost, "/store", strings.NewReader(storeBody), &operator)
	require.Equal(t, http.StatusCreated, writer.Code)
	var store model.StoreResponse
	require.NoError(t, json.NewDecoder(writer.Body).Decode(&store))

	// duplicate registration conflicts
	writer = server.do(t, http.MethodPost, "/store", strings.NewReader(storeBody), &operator)
	assert.Equal(t, http.StatusConflict, writer.Code)
	assert.Equal(t, "conflict resource", decodeError(t, writer.Body))

	// customer opens an order
	writer = server.do(t, http.MethodPost, "/order", strings.NewReader(orderBody), &customer)
	require.Equal(t, http.StatusCreated, writer.Code)
	var order model.OrderResponse
	require.NoError(t, json.NewDecoder(writer.Body).Decode(&order))
	assert.Equal(t, "Made", order.Status)

	// a second open order is over quota
	writer = server.do(t, http.MethodPost, "/order", strings.NewReader(orderBody), &customer)
	assert.Equal(t, http.StatusBadRequest, writer.Code)
	assert.Equal(t, "limit exceeded", decodeError(t, writer.Body))

	// the store finds it nearby
	target := fmt.Sprintf("/store/%d/order/nearme", store.ID)
	writer = server.do(t, http.MethodGet, target, nil, &operator)
	require.Equal(t, http.StatusOK, writer.Code)
	var nearby model.OrdersResponse
	require.NoError(t, json.NewDecoder(writer.Body).Decode(&nearby))
	require.Len(t, nearby.Orders, 1)

	// and bids on it
	offerBody := fmt.Sprintf(`{"price": "15000", "time": "25 min", "order_id": %d, "store_id": %d}`, order.ID, store.ID)
	writer = server.do(t, http.MethodPost, "/offer", strings.NewReader(offerBody), &operator)
	require.Equal(t, http.StatusCreated, writer.Code)
	var offer model.OfferResponse
	require.NoError(t, json.NewDecoder(writer.Body).Decode(&offer))

	// customer accepts the offer
	acceptBody := fmt.Sprintf(`{"offer_id": %d}`, offer.ID)
	writer = server.do(t, http.MethodPut, fmt.Sprintf("/order/%d", order.ID), strings.NewReader(acceptBody), &customer)
	require.Equal(t, http.StatusOK, writer.Code)
	var accepted model.OrderResponse
	require.NoError(t, json.NewDecoder(writer.Body).Decode(&accepted))
	assert.Equal(t, "Accepted", accepted.Status)
	assert.Equal(t, "15000", accepted.Price)

	// the store sees it in its accepted listing
	writer = server.do(t, http.MethodGet, "/order/accepted", nil, &operator)
	require.Equal(t, http.StatusOK, writer.Code)
	var storeOrders model.OrdersResponse
	require.NoError(t, json.NewDecoder(writer.Body).Decode(&storeOrders))
	assert.Len(t, storeOrders.Orders, 1)

	// customer rates, which finishes the order
	ratingBody := fmt.Sprintf(`{"stars": 7, "comment": "rico", "order_id": %d}`, order.ID)
	writer = server.do(t, http.MethodPost, "/rating", strings.NewReader(ratingBody), &customer)
	require.Equal(t, http.StatusCreated, writer.Code)

	writer = server.do(t, http.MethodGet, "/order/finished", nil, &customer)
	require.Equal(t, http.StatusOK, writer.Code)
	var finished model.OrdersResponse
	require.NoError(t, json.NewDecoder(writer.Body).Decode(&finished))
	require.Len(t, finished.Orders, 1)
	require.NotNil(t, finished.Orders[0].Rating)
	assert.Equal(t, 7, finished.Orders[0].Rating.Stars)

	// the store's rating is visible on its profile
	writer = server.do(t, http.MethodGet, fmt.Sprintf("/store/%d", store.ID), nil, &operator)
	require.Equal(t, http.StatusOK, writer.Code)
	var rated model.StoreResponse
	require.NoError(t, json.NewDecoder(writer.Body).Decode(&rated))
	assert.Equal(t, 7, rated.Stars)

	// finished orders can't be cancelled
	writer = server.do(t, http.MethodDelete, fmt.Sprintf("/order/%d", order.ID), nil, &customer)
	assert.Equal(t, http.StatusBadRequest, writer.Code)
	assert.Equal(t, "bad request", decodeError(t, writer.Body))
}

func TestRoleGates(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		caller entity.Caller

		wantCode int
	}{
		{
			name:   "customer can't register a store",
			method: http.MethodPost,
			target: "/store",
			body:   storeBody,
			caller: customer,

			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "operator can't open an order",
			method: http.MethodPost,
			target: "/order",
			body:   orderBody,
			caller: operator,

			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "customer can't bid",
			method: http.MethodPost,
			target: "/offer",
			body:   `{"price": "1", "time": "1 min", "order_id": 1, "store_id": 1}`,
			caller: customer,

			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "operator can't rate",
			method: http.MethodPost,
			target: "/rating",
			body:   `{"stars": 7, "order_id": 1}`,
			caller: operator,

			wantCode: http.StatusUnauthorized,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			writer := server.do(t, test.method, test.target, strings.NewReader(test.body), &test.caller)
			assert.Equal(t, test.wantCode, writer.Code)
			assert.Equal(t, "unauthorized", decodeError(t, writer.Body))
		})
	}
}

func TestMuxErrorShapes(t *testing.T) {
	server := newTestServer(t)

	t.Run("unknown route answers json 404", func(t *testing.T) {
		writer := server.do(t, http.MethodGet, "/nope", nil, &customer)
		assert.Equal(t, http.StatusNotFound, writer.Code)
		assert.Equal(t, "not found", decodeError(t, writer.Body))
	})

	t.Run("wrong method answers json 405", func(t *testing.T) {
		writer := server.do(t, http.MethodPatch, "/order", nil, &customer)
		assert.Equal(t, http.StatusMethodNotAllowed, writer.Code)
		assert.Equal(t, "method not allowed", decodeError(t, writer.Body))
	})

	t.Run("malformed auth header answers 400", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set(token.AuthHeader, "Basic abc")
		writer := httptest.NewRecorder()
		server.mux.ServeHTTP(writer, request)

		assert.Equal(t, http.StatusBadRequest, writer.Code)
		assert.Equal(t, "bad request", decodeError(t, writer.Body))
	})
}
