package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/stirlingv/honey-biz/internal/invoicing"
	"github.com/stirlingv/honey-biz/internal/oauthstate"
	"github.com/stirlingv/honey-biz/pkg/utils"
)

type StateStore interface {
	Issue(ctx context.Context, owner string) (string, error)
	Consume(ctx context.Context, state, owner string) error
}

type Authorizer interface {
	AuthorizationURL(state string) string
	ExchangeCode(ctx context.Context, code, realmID string) (invoicing.Token, error)
}

type TokenStore interface {
	Save(ctx context.Context, t invoicing.Token) error
	Disconnect(ctx context.Context) error
}

// Staff holds the basic auth credentials of the connect endpoints.
type Staff struct {
	Username string
	Password string
}

type IntegrationHandler struct {
	logger *slog.Logger
	staff  Staff
	states StateStore
	auth   Authorizer
	tokens TokenStore
}

func NewIntegrationHandler(logger *slog.Logger, staff Staff, states StateStore, auth Authorizer, tokens TokenStore) *IntegrationHandler {
	return &IntegrationHandler{
		logger: logger.With(slog.String("handler", "integration")),
		staff:  staff,
		states: states,
		auth:   auth,
		tokens: tokens,
	}
}

func (h *IntegrationHandler) Init(r chi.Router) {
	r.Route("/integrations/quickbooks", func(r chi.Router) {
		r.Use(chimw.BasicAuth("staff", map[string]string{h.staff.Username: h.staff.Password}))
		r.Get("/connect", h.Connect)
		r.Get("/callback", h.Callback)
		r.Post("/disconnect", h.Disconnect)
	})
}

func home(notice string) string {
	return "/?" + url.Values{"notice": {notice}}.Encode()
}

func (h *IntegrationHandler) owner(r *http.Request) string {
	user, _, _ := r.BasicAuth()
	return user
}

// Connect starts the OAuth consent flow.
// @Summary      Connect invoicing
// @Tags         integrations
// @Security     BasicAuth
// @Success      302  "Provider consent page"
// @Failure      401  "Staff credentials required"
// @Failure      500  {object}  utils.ErrorResponse
// @Router       /integrations/quickbooks/connect [get]
func (h *IntegrationHandler) Connect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	state, err := h.states.Issue(ctx, h.owner(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue oauth state", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, h.auth.AuthorizationURL(state), http.StatusFound)
}

// Callback completes the OAuth consent flow and stores the tokens.
// @Summary      Invoicing OAuth callback
// @Tags         integrations
// @Security     BasicAuth
// @Param        code     query  string  false  "Authorization code"
// @Param        state    query  string  false  "CSRF state"
// @Param        realmId  query  string  false  "Company ID"
// @Param        error    query  string  false  "Provider error"
// @Success      302  "Home page with a notice"
// @Failure      401  "Staff credentials required"
// @Router       /integrations/quickbooks/callback [get]
func (h *IntegrationHandler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	if providerErr := q.Get("error"); providerErr != "" {
		h.logger.WarnContext(ctx, "provider rejected authorization", slog.String("error", providerErr))
		integrationEvents.WithLabelValues("connect", "rejected").Inc()
		http.Redirect(w, r, home("QuickBooks authorization failed: "+providerErr), http.StatusFound)
		return
	}

	if err := h.states.Consume(ctx, q.Get("state"), h.owner(r)); err != nil {
		if !errors.Is(err, oauthstate.ErrInvalidState) {
			h.logger.ErrorContext(ctx, "failed to verify oauth state", slog.Any("error", err))
		}
		integrationEvents.WithLabelValues("connect", "invalid_state").Inc()
		http.Redirect(w, r, home("Invalid OAuth state. Please try connecting again."), http.StatusFound)
		return
	}

	code, realmID := q.Get("code"), q.Get("realmId")
	if code == "" || realmID == "" {
		integrationEvents.WithLabelValues("connect", "failed").Inc()
		http.Redirect(w, r, home("QuickBooks did not return an authorization code."), http.StatusFound)
		return
	}

	token, err := h.auth.ExchangeCode(ctx, code, realmID)
	if err == nil {
		err = h.tokens.Save(ctx, token)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to complete oauth flow", slog.Any("error", err), slog.String("realm_id", realmID))
		integrationEvents.WithLabelValues("connect", "failed").Inc()
		http.Redirect(w, r, home("Failed to connect QuickBooks. Please try again."), http.StatusFound)
		return
	}

	integrationEvents.WithLabelValues("connect", "success").Inc()
	http.Redirect(w, r, home("Successfully connected to QuickBooks!"), http.StatusFound)
}

// Disconnect removes the stored tokens.
// @Summary      Disconnect invoicing
// @Tags         integrations
// @Security     BasicAuth
// @Success      204
// @Failure      401  "Staff credentials required"
// @Failure      500  {object}  utils.ErrorResponse
// @Router       /integrations/quickbooks/disconnect [post]
func (h *IntegrationHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.tokens.Disconnect(ctx); err != nil {
		h.logger.ErrorContext(ctx, "failed to disconnect invoicing", slog.Any("error", err))
		integrationEvents.WithLabelValues("disconnect", "failed").Inc()
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	integrationEvents.WithLabelValues("disconnect", "success").Inc()
	w.WriteHeader(http.StatusNoContent)
}
