package invoicing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"

	"github.com/stirlingv/honey-biz/internal/entities"
)

const (
	EnvSandbox    = "sandbox"
	EnvProduction = "production"

	sandboxBaseURL    = "https://sandbox-quickbooks.api.intuit.com"
	productionBaseURL = "https://quickbooks.api.intuit.com"

	minorVersion       = "65"
	maxItemName        = 100
	maxItemDescription = 4000
)

var Endpoint = oauth2.Endpoint{
	AuthURL:   "https://appcenter.intuit.com/connect/oauth2",
	TokenURL:  "https://oauth.platform.intuit.com/oauth2/v1/tokens/bearer",
	AuthStyle: oauth2.AuthStyleInHeader,
}

var Scopes = []string{
	"com.intuit.quickbooks.accounting",
	"com.intuit.quickbooks.payment",
}

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Environment  string
}

type Option func(*Client)

// WithBaseURL points API calls at a different host.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithEndpoint(e oauth2.Endpoint) Option {
	return func(c *Client) { c.oauth.Endpoint = e }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// Client talks to the QuickBooks Online accounting API. It keeps no session
// state: credentials are passed to each call.
type Client struct {
	oauth   *oauth2.Config
	baseURL string
	http    *http.Client
	tracer  trace.Tracer
}

func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, &ConfigurationError{Field: "client id"}
	}
	if cfg.ClientSecret == "" {
		return nil, &ConfigurationError{Field: "client secret"}
	}

	baseURL := sandboxBaseURL
	if cfg.Environment == EnvProduction {
		baseURL = productionBaseURL
	}

	c := &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     Endpoint,
			Scopes:       Scopes,
		},
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		tracer:  otel.Tracer("invoicing"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// AuthorizationURL returns the consent page URL carrying state.
func (c *Client) AuthorizationURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

func (c *Client) ExchangeCode(ctx context.Context, code, realmID string) (Token, error) {
	ctx, call := c.begin(ctx, "exchange_code")

	t, err := c.oauth.Exchange(c.oauthContext(ctx), code)
	call.end(err)
	if err != nil {
		return Token{}, &AuthError{Op: "exchange code", Err: err}
	}
	return toToken(t, realmID), nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (Token, error) {
	ctx, call := c.begin(ctx, "refresh")

	src := c.oauth.TokenSource(c.oauthContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	t, err := src.Token()
	call.end(err)
	if err != nil {
		return Token{}, &AuthError{Op: "refresh token", Err: err}
	}
	return toToken(t, ""), nil
}

func (c *Client) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.http)
}

func toToken(t *oauth2.Token, realmID string) Token {
	token := Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    t.Expiry,
		RealmID:      realmID,
	}
	if realmID == "" {
		if v, ok := t.Extra("realmId").(string); ok {
			token.RealmID = v
		}
	}
	return token
}

// CreateInvoice bills the order's customer for one sales line and asks the
// provider to email the invoice. It is not idempotent.
func (c *Client) CreateInvoice(ctx context.Context, order entities.Order, product entities.Product, s Session) (Invoice, error) {
	ctx, call := c.begin(ctx, "create_invoice", attribute.Int64("order.id", order.ID))

	inv, err := c.createInvoice(ctx, order, product, s)
	call.end(err)
	if err != nil {
		return Invoice{}, &InvoiceError{Op: fmt.Sprintf("create invoice for order %d", order.ID), Err: err}
	}
	return inv, nil
}

func (c *Client) createInvoice(ctx context.Context, order entities.Order, product entities.Product, s Session) (Invoice, error) {
	cust, err := c.findOrCreateCustomer(ctx, order.Customer, s)
	if err != nil {
		return Invoice{}, err
	}
	it, err := c.findOrCreateItem(ctx, product, s)
	if err != nil {
		return Invoice{}, err
	}

	req := invoice{
		CustomerRef: ref{Value: cust.ID, Name: cust.DisplayName},
		Line: []line{{
			Amount:      amount(entities.OrderTotal(product.Price, order.Quantity)),
			Description: product.Label(),
			DetailType:  "SalesItemLineDetail",
			SalesItemLineDetail: salesItemLineDetail{
				ItemRef:   ref{Value: it.ID, Name: it.Name},
				Qty:       order.Quantity,
				UnitPrice: amount(product.Price),
			},
		}},
		BillEmail:   &emailAddr{Address: order.Customer.Email},
		EmailStatus: "NeedToSend",
	}

	var resp struct {
		Invoice invoice `json:"Invoice"`
	}
	if err := c.do(ctx, s, http.MethodPost, "/invoice", nil, req, &resp); err != nil {
		return Invoice{}, err
	}
	if resp.Invoice.ID == "" {
		return Invoice{}, errors.New("provider returned an invoice without id")
	}

	return Invoice{
		ID:        resp.Invoice.ID,
		DocNumber: resp.Invoice.DocNumber,
		Total:     resp.Invoice.TotalAmt.value(),
	}, nil
}

func (c *Client) findOrCreateCustomer(ctx context.Context, cu entities.Customer, s Session) (customer, error) {
	var found queryResponse
	q := fmt.Sprintf("select * from Customer where PrimaryEmailAddr = '%s'", escape(cu.Email))
	if err := c.query(ctx, s, q, &found); err != nil {
		return customer{}, fmt.Errorf("failed to find customer: %w", err)
	}
	if len(found.QueryResponse.Customer) > 0 {
		return found.QueryResponse.Customer[0], nil
	}

	req := customer{
		DisplayName:      cu.FullName(),
		GivenName:        cu.FirstName,
		FamilyName:       cu.LastName,
		PrimaryEmailAddr: &emailAddr{Address: cu.Email},
		PrimaryPhone:     &phoneNumber{FreeFormNumber: cu.Phone},
		BillAddr: &physicalAddr{
			Line1:                  cu.Address.Street,
			City:                   cu.Address.City,
			CountrySubDivisionCode: cu.Address.State,
			PostalCode:             cu.Address.ZIP,
		},
	}
	var resp struct {
		Customer customer `json:"Customer"`
	}
	if err := c.do(ctx, s, http.MethodPost, "/customer", nil, req, &resp); err != nil {
		return customer{}, fmt.Errorf("failed to create customer: %w", err)
	}
	return resp.Customer, nil
}

func (c *Client) findOrCreateItem(ctx context.Context, p entities.Product, s Session) (item, error) {
	name := truncate(p.Name, maxItemName)

	var found queryResponse
	if err := c.query(ctx, s, fmt.Sprintf("select * from Item where Name = '%s'", escape(name)), &found); err != nil {
		return item{}, fmt.Errorf("failed to find item: %w", err)
	}
	if len(found.QueryResponse.Item) > 0 {
		return found.QueryResponse.Item[0], nil
	}

	var accounts queryResponse
	if err := c.query(ctx, s, "select * from Account where AccountType = 'Income'", &accounts); err != nil {
		return item{}, fmt.Errorf("failed to find income account: %w", err)
	}
	if len(accounts.QueryResponse.Account) == 0 {
		return item{}, errors.New("no income account found")
	}
	income := accounts.QueryResponse.Account[0]

	req := item{
		Name:             name,
		Description:      truncate(p.Description, maxItemDescription),
		Type:             "Service",
		UnitPrice:        amount(p.Price),
		IncomeAccountRef: &ref{Value: income.ID, Name: income.Name},
	}
	var resp struct {
		Item item `json:"Item"`
	}
	if err := c.do(ctx, s, http.MethodPost, "/item", nil, req, &resp); err != nil {
		return item{}, fmt.Errorf("failed to create item: %w", err)
	}
	return resp.Item, nil
}

// PaymentLink returns the customer-facing payment URL of an invoice, or an
// empty string when the invoice has none.
func (c *Client) PaymentLink(ctx context.Context, invoiceID string, s Session) (string, error) {
	ctx, call := c.begin(ctx, "payment_link", attribute.String("invoice.id", invoiceID))

	inv, err := c.getInvoice(ctx, invoiceID, s, url.Values{"include": {"invoiceLink"}})
	call.end(err)
	if err != nil {
		return "", &QueryError{Op: "payment link for invoice " + invoiceID, Err: err}
	}
	if inv.InvoiceLink == nil {
		return "", nil
	}
	return *inv.InvoiceLink, nil
}

func (c *Client) CheckPaymentStatus(ctx context.Context, invoiceID string, s Session) (PaymentStatus, error) {
	ctx, call := c.begin(ctx, "check_payment_status", attribute.String("invoice.id", invoiceID))

	inv, err := c.getInvoice(ctx, invoiceID, s, nil)
	call.end(err)
	if err != nil {
		return PaymentStatus{}, &QueryError{Op: "payment status for invoice " + invoiceID, Err: err}
	}
	if inv.TotalAmt == nil || inv.Balance == nil {
		return PaymentStatus{}, &QueryError{Op: "payment status for invoice " + invoiceID, Err: errors.New("missing balance")}
	}
	return NewPaymentStatus(inv.Balance.value(), inv.TotalAmt.value()), nil
}

func (c *Client) getInvoice(ctx context.Context, invoiceID string, s Session, params url.Values) (invoice, error) {
	var resp struct {
		Invoice invoice `json:"Invoice"`
	}
	if err := c.do(ctx, s, http.MethodGet, "/invoice/"+url.PathEscape(invoiceID), params, nil, &resp); err != nil {
		return invoice{}, err
	}
	return resp.Invoice, nil
}

func (c *Client) query(ctx context.Context, s Session, q string, out *queryResponse) error {
	return c.do(ctx, s, http.MethodGet, "/query", url.Values{"query": {q}}, nil, out)
}

func (c *Client) do(ctx context.Context, s Session, method, path string, params url.Values, body, out any) error {
	if s.AccessToken == "" || s.RealmID == "" {
		return errors.New("empty session")
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("minorversion", minorVersion)
	u := fmt.Sprintf("%s/v3/company/%s%s?%s", c.baseURL, url.PathEscape(s.RealmID), path, params.Encode())

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeFault(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeFault(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var f fault
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(b, &f) == nil && len(f.Fault.Error) > 0 {
		e := f.Fault.Error[0]
		apiErr.Message = strings.TrimSpace(e.Message + " " + e.Detail)
	}
	return apiErr
}

type apiCall struct {
	op    string
	span  trace.Span
	began time.Time
}

func (c *Client) begin(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, *apiCall) {
	ctx, span := c.tracer.Start(ctx, "invoicing."+op,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	return ctx, &apiCall{op: op, span: span, began: time.Now()}
}

func (cl *apiCall) end(err error) {
	result := "ok"
	if err != nil {
		result = "error"
		cl.span.RecordError(err)
		cl.span.SetStatus(codes.Error, err.Error())
	}
	callDuration.WithLabelValues(cl.op, result).Observe(time.Since(cl.began).Seconds())
	cl.span.End()
}

func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", `\'`)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
