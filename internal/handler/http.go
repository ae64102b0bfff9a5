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
	"github.com/stirlingv/honey-biz/pkg/utils"
)

type ShopService interface {
	ListProducts(ctx context.Context) ([]entities.Product, error)
	GetProduct(ctx context.Context, id int64) (entities.Product, error)
	CreateOrder(ctx context.Context, order entities.Order) (entities.Order, error)
	GetOrder(ctx context.Context, id int64) (entities.Order, error)
}

type RequestService interface {
	CreateNucRequest(ctx context.Context, r entities.NucRequest) (entities.NucRequest, error)
	CreatePollinationRequest(ctx context.Context, r entities.PollinationRequest) (entities.PollinationRequest, error)
	CreateBeeRemovalRequest(ctx context.Context, r entities.BeeRemovalRequest) (entities.BeeRemovalRequest, error)
	CreateCallbackRequest(ctx context.Context, r entities.CallbackRequest) (entities.CallbackRequest, error)
}

type HTTPHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	shop     ShopService
	requests RequestService
}

func NewHTTPHandler(logger *slog.Logger, shop ShopService, requests RequestService) *HTTPHandler {
	return &HTTPHandler{
		logger:   logger.With(slog.String("handler", "http")),
		validate: newValidator(),
		shop:     shop,
		requests: requests,
	}
}

func (h *HTTPHandler) Init(r chi.Router) {
	r.Get("/products", h.ListProducts)
	r.Get("/products/{id}", h.GetProduct)

	r.Post("/orders", h.CreateOrder)
	r.Get("/orders/{id}/status", h.GetOrderStatus)

	r.Route("/requests", func(r chi.Router) {
		r.Post("/nuc", h.CreateNucRequest)
		r.Post("/pollination", h.CreatePollinationRequest)
		r.Post("/removal", h.CreateBeeRemovalRequest)
		r.Post("/callback", h.CreateCallbackRequest)
	})
}

// ListProducts returns the products that can be ordered.
// @Summary      List products
// @Tags         shop
// @Success      200  {array}   Product
// @Failure      500  {object}  utils.ErrorResponse
// @Router       /products [get]
func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := h.shop.ListProducts(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list products", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	res := make([]Product, 0, len(products))
	for _, p := range products {
		res = append(res, ProductEntityToJSON(p))
	}
	utils.WriteJSON(w, res, http.StatusOK)
}

// GetProduct returns a single product.
// @Summary      Get product
// @Tags         shop
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  Product
// @Failure      400  {object}  utils.ValidationErrorResponse
// @Failure      404  {object}  utils.ErrorResponse
// @Failure      500  {object}  utils.ErrorResponse
// @Router       /products/{id} [get]
func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := h.pathID(r, "id")
	if err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	product, err := h.shop.GetProduct(ctx, id)
	if errors.Is(err, entities.ErrProductNotFound) {
		utils.WriteError(w, "product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get product", slog.Any("error", err), slog.Int64("product_id", id))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, ProductEntityToJSON(product), http.StatusOK)
}

// CreateOrder places a honey order. The client continues with checkout review.
// @Summary      Place order
// @Tags         shop
// @Accept       json
// @Param        order  body      CreateOrderRequest  true  "Order"
// @Success      201    {object}  Order
// @Failure      400    {object}  utils.ValidationErrorResponse
// @Failure      404    {object}  utils.ErrorResponse "Product not found"
// @Failure      409    {object}  utils.ErrorResponse "Product out of stock"
// @Failure      500    {object}  utils.ErrorResponse
// @Router       /orders [post]
func (h *HTTPHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateOrderRequest
	if !h.decode(w, r, &req) {
		return
	}

	order, err := h.shop.CreateOrder(ctx, req.toEntity())
	switch {
	case errors.Is(err, entities.ErrProductNotFound):
		utils.WriteError(w, "product not found", http.StatusNotFound)
		return
	case errors.Is(err, entities.ErrProductOutOfStock):
		utils.WriteError(w, "product is out of stock", http.StatusConflict)
		return
	case errors.Is(err, entities.ErrOrderTotalTooLarge):
		utils.WriteError(w, "order total is too large", http.StatusBadRequest)
		return
	case err != nil:
		h.logger.ErrorContext(ctx, "failed to create order", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	submissionsTotal.WithLabelValues(string(entities.KindOrder)).Inc()
	w.Header().Set("Location", "/checkout/"+strconv.FormatInt(order.ID, 10)+"/review")
	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusCreated)
}

// GetOrderStatus returns the payment state of an order.
// @Summary      Order status
// @Tags         shop
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  OrderStatus
// @Failure      400  {object}  utils.ValidationErrorResponse
// @Failure      404  {object}  utils.ErrorResponse
// @Failure      500  {object}  utils.ErrorResponse
// @Router       /orders/{id}/status [get]
func (h *HTTPHandler) GetOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := h.pathID(r, "id")
	if err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	order, err := h.shop.GetOrder(ctx, id)
	if errors.Is(err, entities.ErrOrderNotFound) {
		utils.WriteError(w, "order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get order", slog.Any("error", err), slog.Int64("order_id", id))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, OrderStatusToJSON(order), http.StatusOK)
}

// CreateNucRequest stores a nuc reservation.
// @Summary      Reserve nucs
// @Tags         requests
// @Accept       json
// @Param        request  body      NucRequest  true  "Nuc request"
// @Success      201      {object}  Created
// @Failure      400      {object}  utils.ValidationErrorResponse
// @Failure      500      {object}  utils.ErrorResponse
// @Router       /requests/nuc [post]
func (h *HTTPHandler) CreateNucRequest(w http.ResponseWriter, r *http.Request) {
	var req NucRequest
	if !h.decode(w, r, &req) {
		return
	}
	saved, err := h.requests.CreateNucRequest(r.Context(), req.toEntity())
	h.created(w, r, entities.KindNuc, saved.ID, err,
		"Thank you! Your nuc reservation has been submitted. We'll contact you soon.")
}

// CreatePollinationRequest stores a pollination service inquiry.
// @Summary      Request pollination
// @Tags         requests
// @Accept       json
// @Param        request  body      PollinationRequest  true  "Pollination request"
// @Success      201      {object}  Created
// @Failure      400      {object}  utils.ValidationErrorResponse
// @Failure      500      {object}  utils.ErrorResponse
// @Router       /requests/pollination [post]
func (h *HTTPHandler) CreatePollinationRequest(w http.ResponseWriter, r *http.Request) {
	var req PollinationRequest
	if !h.decode(w, r, &req) {
		return
	}
	saved, err := h.requests.CreatePollinationRequest(r.Context(), req.toEntity())
	h.created(w, r, entities.KindPollination, saved.ID, err,
		"Thank you! Your pollination service request has been submitted. We'll contact you to discuss details.")
}

// CreateBeeRemovalRequest stores a swarm or colony removal request.
// @Summary      Request bee removal
// @Tags         requests
// @Accept       json
// @Param        request  body      BeeRemovalRequest  true  "Removal request"
// @Success      201      {object}  Created
// @Failure      400      {object}  utils.ValidationErrorResponse
// @Failure      500      {object}  utils.ErrorResponse
// @Router       /requests/removal [post]
func (h *HTTPHandler) CreateBeeRemovalRequest(w http.ResponseWriter, r *http.Request) {
	var req BeeRemovalRequest
	if !h.decode(w, r, &req) {
		return
	}
	saved, err := h.requests.CreateBeeRemovalRequest(r.Context(), req.toEntity())
	msg := "Thank you! Your bee removal request has been submitted. We'll contact you soon."
	if saved.Urgency.Urgent() {
		msg = "Thank you! Your urgent bee removal request has been submitted. We'll contact you as soon as possible."
	}
	h.created(w, r, entities.KindBeeRemoval, saved.ID, err, msg)
}

// CreateCallbackRequest stores a request to be called back.
// @Summary      Request callback
// @Tags         requests
// @Accept       json
// @Param        request  body      CallbackRequest  true  "Callback request"
// @Success      201      {object}  Created
// @Failure      400      {object}  utils.ValidationErrorResponse
// @Failure      500      {object}  utils.ErrorResponse
// @Router       /requests/callback [post]
func (h *HTTPHandler) CreateCallbackRequest(w http.ResponseWriter, r *http.Request) {
	var req CallbackRequest
	if !h.decode(w, r, &req) {
		return
	}
	saved, err := h.requests.CreateCallbackRequest(r.Context(), req.toEntity())
	h.created(w, r, entities.KindCallback, saved.ID, err,
		"Thank you! We'll call you back soon.")
}

func (h *HTTPHandler) created(w http.ResponseWriter, r *http.Request, kind entities.Kind, id int64, err error, msg string) {
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to save request", slog.Any("error", err), slog.String("kind", string(kind)))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	submissionsTotal.WithLabelValues(string(kind)).Inc()
	utils.WriteJSON(w, Created{ID: id, Message: msg}, http.StatusCreated)
}

// decode reads and validates a JSON body, writing the 400 response itself.
func (h *HTTPHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := utils.DecodeBody(w, r, v); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		utils.WriteValidationError(w, err)
		return false
	}
	return true
}

func (h *HTTPHandler) pathID(r *http.Request, name string) (int64, error) {
	return parseID(h.validate, chi.URLParam(r, name))
}

func parseID(v *validator.Validate, raw string) (int64, error) {
	if err := v.Var(raw, "required,number"); err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if err := v.Var(id, "gt=0"); err != nil {
		return 0, err
	}
	return id, nil
}
