package invoicing_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/stirlingv/honey-biz/internal/entities"
	"github.com/stirlingv/honey-biz/internal/invoicing"
)

var session = invoicing.Session{AccessToken: "access", RealmID: "123"}

// fakeProvider serves the subset of the accounting API the client uses.
type fakeProvider struct {
	customers   string
	items       string
	accounts    string
	invoice     string
	invoiceCode int

	created []string
	queries []string
	posted  map[string]json.RawMessage
}

func (f *fakeProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer access" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/v3/company/123")

	switch {
	case path == "/query":
		q := r.URL.Query().Get("query")
		f.queries = append(f.queries, q)
		switch {
		case strings.Contains(q, "from Customer"):
			writeRaw(w, `{"QueryResponse":{`+f.customers+`}}`)
		case strings.Contains(q, "from Item"):
			writeRaw(w, `{"QueryResponse":{`+f.items+`}}`)
		case strings.Contains(q, "from Account"):
			writeRaw(w, `{"QueryResponse":{`+f.accounts+`}}`)
		}
	case r.Method == http.MethodPost:
		var body json.RawMessage
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.posted[path] = body
		f.created = append(f.created, path)
		switch path {
		case "/customer":
			writeRaw(w, `{"Customer":{"Id":"58","DisplayName":"Jane Doe"}}`)
		case "/item":
			writeRaw(w, `{"Item":{"Id":"7","Name":"Wildflower Honey"}}`)
		case "/invoice":
			if f.invoiceCode != 0 {
				w.WriteHeader(f.invoiceCode)
				writeRaw(w, `{"Fault":{"Error":[{"Message":"Business Validation Error","Detail":"bad line"}]}}`)
				return
			}
			writeRaw(w, `{"Invoice":{"Id":"130","DocNumber":"1037","TotalAmt":36.00}}`)
		}
	case strings.HasPrefix(path, "/invoice/"):
		if f.invoiceCode != 0 {
			w.WriteHeader(f.invoiceCode)
			return
		}
		writeRaw(w, f.invoice)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeRaw(w http.ResponseWriter, s string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(s))
}

func newClient(t *testing.T, h http.Handler) *invoicing.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := invoicing.New(invoicing.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost/callback",
		Environment:  invoicing.EnvSandbox,
	},
		invoicing.WithBaseURL(srv.URL),
		invoicing.WithEndpoint(oauth2.Endpoint{
			AuthURL:   srv.URL + "/connect/oauth2",
			TokenURL:  srv.URL + "/oauth2/v1/tokens/bearer",
			AuthStyle: oauth2.AuthStyleInHeader,
		}),
	)
	require.NoError(t, err)
	return c
}

func testOrder() (entities.Order, entities.Product) {
	product := entities.Product{
		ID:          3,
		Name:        "Wildflower Honey",
		Description: "Raw local honey",
		Price:       decimal.RequireFromString("12.00"),
		Size:        "16 oz",
	}
	order := entities.Order{
		ID: 42,
		Customer: entities.Customer{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@example.com",
			Phone:     "555-0100",
		},
		Quantity: 3,
	}
	order.Price(product)
	return order, product
}

func TestNew(t *testing.T) {
	_, err := invoicing.New(invoicing.Config{ClientSecret: "secret"})
	var cfgErr *invoicing.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)

	_, err = invoicing.New(invoicing.Config{ClientID: "id"})
	require.ErrorAs(t, err, &cfgErr)
}

func TestClient_AuthorizationURL(t *testing.T) {
	c, err := invoicing.New(invoicing.Config{ClientID: "id", ClientSecret: "secret", RedirectURL: "http://localhost/cb"})
	require.NoError(t, err)

	u := c.AuthorizationURL("state-1")

	assert.True(t, strings.HasPrefix(u, invoicing.Endpoint.AuthURL))
	assert.Contains(t, u, "state=state-1")
	assert.Contains(t, u, "com.intuit.quickbooks.accounting")
	assert.Contains(t, u, "com.intuit.quickbooks.payment")
}

func TestClient_CreateInvoice(t *testing.T) {
	testCases := []struct {
		name        string
		provider    *fakeProvider
		wantCreated []string
		wantErr     bool
	}{
		{
			name: "existing customer and item",
			provider: &fakeProvider{
				customers: `"Customer":[{"Id":"58","DisplayName":"Jane Doe"}]`,
				items:     `"Item":[{"Id":"7","Name":"Wildflower Honey"}]`,
			},
			wantCreated: []string{"/invoice"},
		},
		{
			name: "creates customer and item",
			provider: &fakeProvider{
				accounts: `"Account":[{"Id":"79","Name":"Sales","AccountType":"Income"}]`,
			},
			wantCreated: []string{"/customer", "/item", "/invoice"},
		},
		{
			name:        "no income account",
			provider:    &fakeProvider{customers: `"Customer":[{"Id":"58"}]`},
			wantCreated: nil,
			wantErr:     true,
		},
		{
			name: "provider rejects invoice",
			provider: &fakeProvider{
				customers:   `"Customer":[{"Id":"58"}]`,
				items:       `"Item":[{"Id":"7"}]`,
				invoiceCode: http.StatusBadRequest,
			},
			wantCreated: []string{"/invoice"},
			wantErr:     true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.provider.posted = map[string]json.RawMessage{}
			c := newClient(t, tc.provider)
			order, product := testOrder()

			inv, err := c.CreateInvoice(context.Background(), order, product, session)

			assert.Equal(t, tc.wantCreated, tc.provider.created)
			if tc.wantErr {
				var invErr *invoicing.InvoiceError
				require.ErrorAs(t, err, &invErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "130", inv.ID)
			assert.Equal(t, "1037", inv.DocNumber)
			assert.True(t, inv.Total.Equal(decimal.RequireFromString("36")))

			var body struct {
				BillEmail   struct{ Address string }
				EmailStatus string
				Line        []struct {
					Amount              json.Number
					SalesItemLineDetail struct {
						Qty       int
						UnitPrice json.Number
					}
				}
			}
			require.NoError(t, json.Unmarshal(tc.provider.posted["/invoice"], &body))
			assert.Equal(t, "jane@example.com", body.BillEmail.Address)
			assert.Equal(t, "NeedToSend", body.EmailStatus)
			require.Len(t, body.Line, 1)
			assert.Equal(t, json.Number("36"), body.Line[0].Amount)
			assert.Equal(t, 3, body.Line[0].SalesItemLineDetail.Qty)
			assert.Equal(t, json.Number("12"), body.Line[0].SalesItemLineDetail.UnitPrice)
		})
	}
}

func TestClient_CreateInvoice_ProviderFault(t *testing.T) {
	c := newClient(t, &fakeProvider{
		customers:   `"Customer":[{"Id":"58"}]`,
		items:       `"Item":[{"Id":"7"}]`,
		invoiceCode: http.StatusBadRequest,
		posted:      map[string]json.RawMessage{},
	})
	order, product := testOrder()

	_, err := c.CreateInvoice(context.Background(), order, product, session)

	var apiErr *invoicing.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Business Validation Error bad line", apiErr.Message)
}

func TestClient_CreateInvoice_TruncatesItemName(t *testing.T) {
	p := &fakeProvider{
		customers: `"Customer":[{"Id":"58"}]`,
		accounts:  `"Account":[{"Id":"79","AccountType":"Income"}]`,
		posted:    map[string]json.RawMessage{},
	}
	c := newClient(t, p)
	order, product := testOrder()
	product.Name = strings.Repeat("h", 150)

	_, err := c.CreateInvoice(context.Background(), order, product, session)
	require.NoError(t, err)

	var item struct{ Name, Type string }
	require.NoError(t, json.Unmarshal(p.posted["/item"], &item))
	assert.Len(t, item.Name, 100)
	assert.Equal(t, "Service", item.Type)
}

func TestClient_CreateInvoice_EscapesQueryLiterals(t *testing.T) {
	p := &fakeProvider{
		customers: `"Customer":[{"Id":"58"}]`,
		items:     `"Item":[{"Id":"7"}]`,
		posted:    map[string]json.RawMessage{},
	}
	c := newClient(t, p)
	order, product := testOrder()
	order.Customer.Email = `o'hara\@example.com`
	product.Name = `Bee's Knees \ Clover`

	_, err := c.CreateInvoice(context.Background(), order, product, session)
	require.NoError(t, err)

	assert.Equal(t, []string{
		`select * from Customer where PrimaryEmailAddr = 'o\'hara\\@example.com'`,
		`select * from Item where Name = 'Bee\'s Knees \\ Clover'`,
	}, p.queries)
}

func TestClient_PaymentLink(t *testing.T) {
	testCases := []struct {
		name     string
		provider *fakeProvider
		want     string
		wantErr  bool
	}{
		{
			name:     "link present",
			provider: &fakeProvider{invoice: `{"Invoice":{"Id":"130","InvoiceLink":"https://pay.example.com/abc"}}`},
			want:     "https://pay.example.com/abc",
		},
		{
			name:     "link absent",
			provider: &fakeProvider{invoice: `{"Invoice":{"Id":"130"}}`},
			want:     "",
		},
		{
			name:     "lookup fails",
			provider: &fakeProvider{invoiceCode: http.StatusInternalServerError},
			wantErr:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := newClient(t, tc.provider)

			link, err := c.PaymentLink(context.Background(), "130", session)

			if tc.wantErr {
				var qErr *invoicing.QueryError
				require.ErrorAs(t, err, &qErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, link)
		})
	}
}

func TestClient_CheckPaymentStatus(t *testing.T) {
	c := newClient(t, &fakeProvider{invoice: `{"Invoice":{"Id":"130","TotalAmt":50.00,"Balance":0}}`})

	st, err := c.CheckPaymentStatus(context.Background(), "130", session)

	require.NoError(t, err)
	assert.Equal(t, invoicing.StatusPaid, st.Status)
	assert.True(t, st.PaidAmount.Equal(decimal.NewFromInt(50)))
}

func TestClient_CheckPaymentStatus_EmptySession(t *testing.T) {
	c := newClient(t, &fakeProvider{})

	_, err := c.CheckPaymentStatus(context.Background(), "130", invoicing.Session{})

	var qErr *invoicing.QueryError
	require.ErrorAs(t, err, &qErr)
}

func TestNewPaymentStatus(t *testing.T) {
	testCases := []struct {
		name       string
		balance    string
		total      string
		wantStatus invoicing.Status
		wantPaid   string
	}{
		{name: "paid", balance: "0", total: "50", wantStatus: invoicing.StatusPaid, wantPaid: "50"},
		{name: "partial", balance: "20", total: "50", wantStatus: invoicing.StatusPartial, wantPaid: "30"},
		{name: "unpaid", balance: "50", total: "50", wantStatus: invoicing.StatusUnpaid, wantPaid: "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			st := invoicing.NewPaymentStatus(decimal.RequireFromString(tc.balance), decimal.RequireFromString(tc.total))

			assert.Equal(t, tc.wantStatus, st.Status)
			assert.True(t, st.PaidAmount.Equal(decimal.RequireFromString(tc.wantPaid)))
		})
	}
}

func tokenServer(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth2/v1/tokens/bearer" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if user, pass, ok := r.BasicAuth(); !ok || user != "id" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func TestClient_ExchangeCode(t *testing.T) {
	c := newClient(t, tokenServer(http.StatusOK,
		`{"access_token":"a1","refresh_token":"r1","token_type":"bearer","expires_in":3600}`))

	tok, err := c.ExchangeCode(context.Background(), "code", "123")

	require.NoError(t, err)
	assert.Equal(t, "a1", tok.AccessToken)
	assert.Equal(t, "r1", tok.RefreshToken)
	assert.Equal(t, "123", tok.RealmID)
	assert.False(t, tok.ExpiresAt.IsZero())
}

func TestClient_TokenErrors(t *testing.T) {
	c := newClient(t, tokenServer(http.StatusBadRequest, `{"error":"invalid_grant"}`))

	_, err := c.ExchangeCode(context.Background(), "code", "123")
	var authErr *invoicing.AuthError
	require.ErrorAs(t, err, &authErr)

	_, err = c.Refresh(context.Background(), "stale")
	require.ErrorAs(t, err, &authErr)

	var retrieveErr *oauth2.RetrieveError
	assert.True(t, errors.As(err, &retrieveErr))
}
