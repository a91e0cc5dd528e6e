package shopify_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/shopify"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

const testToken = "storefront-token"

type recordedRequest struct {
	Operation string
	Variables map[string]any
	Token     string
}

type reply struct {
	status int
	body   string
}

// fakeStorefront answers GraphQL operations with queued replies per operation name.
type fakeStorefront struct {
	t *testing.T

	mu       sync.Mutex
	requests []recordedRequest
	replies  map[string][]reply
}

func newFakeStorefront(t *testing.T) (*fakeStorefront, *httptest.Server) {
	t.Helper()

	f := &fakeStorefront{t: t, replies: map[string][]reply{}}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)

	return f, srv
}

func (f *fakeStorefront) reply(operation string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[operation] = append(f.replies[operation], reply{status: status, body: body})
}

func (f *fakeStorefront) serve(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	op := operationName(req.Query)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Operation: op,
		Variables: req.Variables,
		Token:     r.Header.Get("X-Shopify-Storefront-Access-Token"),
	})
	queue := f.replies[op]
	var next reply
	if len(queue) > 0 {
		next = queue[0]
		if len(queue) > 1 {
			f.replies[op] = queue[1:]
		}
	}
	f.mu.Unlock()

	if next.status == 0 {
		http.Error(w, "no reply for "+op, http.StatusNotImplemented)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(next.status)
	_, _ = io.WriteString(w, next.body)
}

func (f *fakeStorefront) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func operationName(query string) string {
	fields := strings.Fields(strings.TrimSpace(query))
	if len(fields) < 2 {
		return ""
	}
	return strings.SplitN(fields[1], "(", 2)[0]
}

func newClient(t *testing.T, srv *httptest.Server, readRetries uint) *shopify.Client {
	t.Helper()

	client, err := shopify.New(shopify.Config{
		StoreDomain:   srv.URL,
		AccessToken:   testToken,
		APIVersion:    "2024-01",
		ReadRetries:   readRetries,
		RetryInterval: time.Millisecond,
		HTTPClient:    srv.Client(),
	})
	require.NoError(t, err)

	return client
}

func readFixture(t *testing.T, name string) string {
	t.Helper()

	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)

	return string(data)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name         string
		cfg          shopify.Config
		wantEndpoint string
		wantError    string
	}{
		{
			name:         "bare domain gets https: ok",
			cfg:          shopify.Config{StoreDomain: "acme.myshopify.com"},
			wantEndpoint: "https://acme.myshopify.com/api/2024-01/graphql.json",
		},
		{
			name:         "explicit version and trailing slash: ok",
			cfg:          shopify.Config{StoreDomain: "http://localhost:9000/", APIVersion: "2025-04"},
			wantEndpoint: "http://localhost:9000/api/2025-04/graphql.json",
		},
		{
			name:      "empty domain: error",
			cfg:       shopify.Config{StoreDomain: "  "},
			wantError: "store domain is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := shopify.New(tt.cfg)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantEndpoint, client.Endpoint())
		})
	}
}

func TestGetCart_ReshapesCart(t *testing.T) {
	fake, srv := newFakeStorefront(t)
	fake.reply("getCart", http.StatusOK, readFixture(t, "cart_response.json"))

	client := newClient(t, srv, 0)

	cart, err := client.GetCart(t.Context(), "c1?key=k1")
	require.NoError(t, err)
	require.NotNil(t, cart)

	g := goldie.New(t)
	g.AssertJson(t, "reshaped_cart", cart)

	requests := fake.recorded()
	require.Len(t, requests, 1)
	assert.Equal(t, testToken, requests[0].Token)
	assert.Equal(t, "gid://shopify/Cart/c1?key=k1", requests[0].Variables["cartId"])

	assert.Equal(t, "USD", cart.Cost.TotalTaxAmount.CurrencyCode())
	assert.True(t, cart.Cost.TotalTaxAmount.IsZero())
}

func TestGetCart_NotFound(t *testing.T) {
	fake, srv := newFakeStorefront(t)
	fake.reply("getCart", http.StatusOK, `{"data":{"cart":null}}`)

	client := newClient(t, srv, 0)

	cart, err := client.GetCart(t.Context(), "gid://shopify/Cart/gone")
	require.NoError(t, err)
	assert.Nil(t, cart)
}

func TestGetCart_EmptyID(t *testing.T) {
	_, srv := newFakeStorefront(t)
	client := newClient(t, srv, 0)

	_, err := client.GetCart(t.Context(), "")
	require.EqualError(t, err, "cartID is empty")
}

func TestCreateCart(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantID    string
		wantError error
	}{
		{
			name:   "create cart: ok",
			body:   `{"data":{"cartCreate":{"cart":{"id":"gid://shopify/Cart/new","checkoutUrl":"https://shop/c","cost":{"subtotalAmount":{"amount":"0.0","currencyCode":"EUR"},"totalAmount":{"amount":"0.0","currencyCode":"EUR"}},"lines":{"edges":[]},"totalQuantity":0},"userErrors":[]}}}`,
			wantID: "gid://shopify/Cart/new",
		},
		{
			name:      "create cart without id: error",
			body:      `{"data":{"cartCreate":{"cart":{"id":"","checkoutUrl":"","cost":{"subtotalAmount":{"amount":"0.0","currencyCode":"EUR"},"totalAmount":{"amount":"0.0","currencyCode":"EUR"}},"lines":{"edges":[]},"totalQuantity":0},"userErrors":[]}}}`,
			wantError: shopify.ErrNoCartID,
		},
		{
			name:      "create cart with null cart: error",
			body:      `{"data":{"cartCreate":{"cart":null,"userErrors":[]}}}`,
			wantError: shopify.ErrNoCartID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake, srv := newFakeStorefront(t)
			fake.reply("createCart", http.StatusOK, tt.body)

			cart, err := newClient(t, srv, 0).CreateCart(t.Context())
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.wantID, cart.ID)
			assert.Empty(t, cart.Lines)
			assert.Equal(t, "EUR", cart.Cost.TotalTaxAmount.CurrencyCode())
		})
	}
}

func TestAddToCart_SendsLines(t *testing.T) {
	fake, srv := newFakeStorefront(t)
	fake.reply("addToCart", http.StatusOK, `{"data":{"cartLinesAdd":`+payloadFromFixture(t)+`}}`)

	cart, err := newClient(t, srv, 0).AddToCart(t.Context(), "gid://shopify/Cart/c1?key=k1", []domain.LineInput{
		{MerchandiseID: "gid://shopify/ProductVariant/101", Quantity: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, cart.TotalQuantity)

	requests := fake.recorded()
	require.Len(t, requests, 1)
	assert.Equal(t, "addToCart", requests[0].Operation)
	assert.Equal(t, []any{
		map[string]any{"merchandiseId": "gid://shopify/ProductVariant/101", "quantity": float64(2)},
	}, requests[0].Variables["lines"])
}

func TestRemoveFromCart_SendsLineIDs(t *testing.T) {
	fake, srv := newFakeStorefront(t)
	fake.reply("removeFromCart", http.StatusOK, `{"data":{"cartLinesRemove":`+payloadFromFixture(t)+`}}`)

	_, err := newClient(t, srv, 0).RemoveFromCart(t.Context(), "gid://shopify/Cart/c1?key=k1", []string{"gid://shopify/CartLine/9"})
	require.NoError(t, err)

	requests := fake.recorded()
	require.Len(t, requests, 1)
	assert.Equal(t, []any{"gid://shopify/CartLine/9"}, requests[0].Variables["lineIds"])
}

func TestUpdateCart_SendsLines(t *testing.T) {
	fake, srv := newFakeStorefront(t)
	fake.reply("editCartItems", http.StatusOK, `{"data":{"cartLinesUpdate":`+payloadFromFixture(t)+`}}`)

	_, err := newClient(t, srv, 0).UpdateCart(t.Context(), "gid://shopify/Cart/c1?key=k1", []domain.LineUpdate{
		{ID: "gid://shopify/CartLine/1", MerchandiseID: "gid://shopify/ProductVariant/101", Quantity: 5},
	})
	require.NoError(t, err)

	requests := fake.recorded()
	require.Len(t, requests, 1)
	assert.Equal(t, []any{
		map[string]any{"id": "gid://shopify/CartLine/1", "merchandiseId": "gid://shopify/ProductVariant/101", "quantity": float64(5)},
	}, requests[0].Variables["lines"])
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantStatus  int
	}{
		{
			name:        "graphql errors: joined messages",
			status:      http.StatusOK,
			body:        `{"errors":[{"message":"Variable $cartId is invalid"},{"message":"Throttled"}]}`,
			wantMessage: "Variable $cartId is invalid; Throttled",
			wantStatus:  http.StatusOK,
		},
		{
			name:        "user errors: message text",
			status:      http.StatusOK,
			body:        `{"data":{"cartLinesAdd":{"cart":null,"userErrors":[{"field":["lines"],"message":"The merchandise with id 1 does not exist."}]}}}`,
			wantMessage: "The merchandise with id 1 does not exist.",
			wantStatus:  http.StatusOK,
		},
		{
			name:        "non-2xx plain body",
			status:      http.StatusUnauthorized,
			body:        `Unauthorized`,
			wantMessage: "Unauthorized",
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name:        "non-2xx graphql body",
			status:      http.StatusBadRequest,
			body:        `{"errors":[{"message":"Parse error on \"}\""}]}`,
			wantMessage: `Parse error on "}"`,
			wantStatus:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake, srv := newFakeStorefront(t)
			fake.reply("addToCart", tt.status, tt.body)

			_, err := newClient(t, srv, 3).AddToCart(t.Context(), "gid://shopify/Cart/c1", []domain.LineInput{
				{MerchandiseID: "gid://shopify/ProductVariant/1", Quantity: 1},
			})
			require.Error(t, err)

			var shopifyErr *shopify.Error
			require.ErrorAs(t, err, &shopifyErr)
			assert.Equal(t, tt.wantMessage, shopifyErr.Error())
			assert.Equal(t, tt.wantStatus, shopifyErr.StatusCode)

			// writes are never retried
			assert.Len(t, fake.recorded(), 1)
		})
	}
}

func TestGetCart_Retry(t *testing.T) {
	tests := []struct {
		name         string
		readRetries  uint
		replies      []reply
		wantRequests int
		wantError    bool
	}{
		{
			name:        "no retry by default",
			readRetries: 0,
			replies: []reply{
				{status: http.StatusServiceUnavailable, body: "unavailable"},
				{status: http.StatusOK, body: `{"data":{"cart":null}}`},
			},
			wantRequests: 1,
			wantError:    true,
		},
		{
			name:        "transient failure retried",
			readRetries: 2,
			replies: []reply{
				{status: http.StatusServiceUnavailable, body: "unavailable"},
				{status: http.StatusOK, body: `{"data":{"cart":null}}`},
			},
			wantRequests: 2,
		},
		{
			name:        "graphql error is permanent",
			readRetries: 2,
			replies: []reply{
				{status: http.StatusOK, body: `{"errors":[{"message":"invalid id"}]}`},
				{status: http.StatusOK, body: `{"data":{"cart":null}}`},
			},
			wantRequests: 1,
			wantError:    true,
		},
		{
			name:        "retries exhausted",
			readRetries: 1,
			replies: []reply{
				{status: http.StatusBadGateway, body: "bad gateway"},
				{status: http.StatusBadGateway, body: "bad gateway"},
				{status: http.StatusOK, body: `{"data":{"cart":null}}`},
			},
			wantRequests: 2,
			wantError:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake, srv := newFakeStorefront(t)
			for _, r := range tt.replies {
				fake.reply("getCart", r.status, r.body)
			}

			_, err := newClient(t, srv, tt.readRetries).GetCart(t.Context(), "gid://shopify/Cart/c1")
			if tt.wantError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Len(t, fake.recorded(), tt.wantRequests)
		})
	}
}

// payloadFromFixture wraps the fixture cart into a mutation payload.
func payloadFromFixture(t *testing.T) string {
	t.Helper()

	var resp struct {
		Data struct {
			Cart json.RawMessage `json:"cart"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(readFixture(t, "cart_response.json")), &resp))

	return `{"cart":` + string(resp.Data.Cart) + `,"userErrors":[]}`
}
