package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stirlingv/honey-biz/internal/entities"
	"github.com/stirlingv/honey-biz/internal/service"
	"github.com/stirlingv/honey-biz/pkg/utils"
)

type CheckoutService interface {
	Review(ctx context.Context, orderID int64) (entities.Order, error)
	Process(ctx context.Context, orderID int64) (service.CheckoutResult, error)
}

type CheckoutHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      CheckoutService
}

func NewCheckoutHandler(logger *slog.Logger, svc CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		logger:   logger.With(slog.String("handler", "checkout")),
		validate: validator.New(),
		svc:      svc,
	}
}

func (h *CheckoutHandler) Init(r chi.Router) {
	r.Route("/checkout/{order_id}", func(r chi.Router) {
		r.Get("/review", h.Review)
		r.Post("/process", h.Process)
	})
}

func statusURL(id int64) string {
	return "/orders/" + strconv.FormatInt(id, 10) + "/status"
}

// Review shows an order before payment. Orders that are no longer open are
// redirected to their status page.
// @Summary      Review order before payment
// @Tags         checkout
// @Param        order_id  path      int  true  "Order ID"
// @Success      200       {object}  Order
// @Success      303       "Order already processed"
// @Failure      400       {object}  utils.ValidationErrorResponse
// @Failure      404       {object}  utils.ErrorResponse
// @Failure      500       {object}  utils.ErrorResponse
// @Router       /checkout/{order_id}/review [get]
func (h *CheckoutHandler) Review(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(h.validate, chi.URLParam(r, "order_id"))
	if err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	order, err := h.svc.Review(ctx, id)
	if errors.Is(err, entities.ErrOrderNotFound) {
		utils.WriteError(w, "order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load order for review", slog.Any("error", err), slog.Int64("order_id", id))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if !order.Payment.Status.Open() {
		http.Redirect(w, r, statusURL(id), http.StatusSeeOther)
		return
	}
	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

// Process confirms the order and starts payment.
// @Summary      Process checkout
// @Description  Redirects to the hosted payment page when one is available, otherwise reports how payment will be collected.
// @Tags         checkout
// @Param        order_id  path      int  true  "Order ID"
// @Success      200       {object}  CheckoutResponse
// @Success      303       "Payment page or order status"
// @Failure      400       {object}  utils.ValidationErrorResponse
// @Failure      404       {object}  utils.ErrorResponse
// @Failure      500       {object}  utils.ErrorResponse
// @Router       /checkout/{order_id}/process [post]
func (h *CheckoutHandler) Process(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	checkoutRequestsInProgress.Inc()
	defer checkoutRequestsInProgress.Dec()

	id, err := parseID(h.validate, chi.URLParam(r, "order_id"))
	if err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	res, err := h.svc.Process(ctx, id)
	if errors.Is(err, entities.ErrOrderNotFound) {
		utils.WriteError(w, "order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to process checkout", slog.Any("error", err), slog.Int64("order_id", id))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	switch res.Outcome {
	case service.OutcomeRedirect:
		http.Redirect(w, r, res.PaymentURL, http.StatusSeeOther)
	case service.OutcomeAlreadyProcessed:
		http.Redirect(w, r, statusURL(id), http.StatusSeeOther)
	default:
		utils.WriteJSON(w, CheckoutResponse{
			Outcome: string(res.Outcome),
			Message: res.Outcome.Message(),
			Order:   OrderEntityToJSON(res.Order),
		}, http.StatusOK)
	}
}
