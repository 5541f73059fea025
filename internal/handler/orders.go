package handler

import (
	"net/http"

	"aquadesk/internal/apierror"
	"aquadesk/internal/dto"
	"aquadesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler { return &OrdersHandler{svc: svc} }

// Create godoc
// @Summary      Create an order
// @Description  Creates an order with an immutable snapshot of the customer balance. The customer ledger is untouched until settlement.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateOrderRequest true "Order details"
// @Success      201  {object} dto.OrderResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/orders [post]
func (h *OrdersHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary      Get one order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order UUID"
// @Success      200 {object} dto.OrderResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/orders/{id} [get]
func (h *OrdersHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid order id"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List orders
// @Description  Returns a paginated list for one business date, filtered by status, type and rider.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        date     query string false "Date YYYY-MM-DD (default: today)"
// @Param        status   query string false "created | assigned | in_progress | delivered | cancelled | all"
// @Param        type     query string false "delivery | walkin | clearbill | all"
// @Param        rider_id query string false "Rider UUID"
// @Param        page     query int    false "Page (default 1)"
// @Param        limit    query int    false "Records per page (default 50)"
// @Success      200 {object} dto.OrderListResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/orders [get]
func (h *OrdersHandler) List(c *gin.Context) {
	var filter dto.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AssignRider godoc
// @Summary      Assign or reassign a rider
// @Description  Delivery orders only. Allowed from created or assigned; assigning moves the order to assigned.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "Order UUID"
// @Param        body body dto.AssignRiderRequest true "Rider"
// @Success      200  {object} dto.OrderResponse
// @Failure      422  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/orders/{id}/assign [post]
func (h *OrdersHandler) AssignRider(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid order id"))
		return
	}
	var req dto.AssignRiderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	riderID, err := uuid.Parse(req.RiderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid rider id"))
		return
	}
	resp, err := h.svc.AssignRider(c.Request.Context(), id, riderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StartDelivery godoc
// @Summary      Mark an assigned order as out for delivery
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order UUID"
// @Success      200 {object} dto.OrderResponse
// @Failure      422 {object} apierror.APIError
// @Router       /v1/orders/{id}/start [post]
func (h *OrdersHandler) StartDelivery(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid order id"))
		return
	}
	resp, err := h.svc.StartDelivery(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Deliver godoc
// @Summary      Deliver an order and record payment
// @Description  Settles a delivery order: records the payment, derives the payment status and applies the ledger delta in one transaction.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "Order UUID"
// @Param        body body dto.SettleOrderRequest true "Payment"
// @Success      200  {object} dto.OrderResponse
// @Failure      422  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/orders/{id}/deliver [post]
func (h *OrdersHandler) Deliver(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid order id"))
		return
	}
	var req dto.SettleOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Deliver(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Complete godoc
// @Summary      Complete a walk-in or clear-bill order
// @Description  Settles a counter order directly from created: no rider involved.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "Order UUID"
// @Param        body body dto.SettleOrderRequest true "Payment"
// @Success      200  {object} dto.OrderResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/orders/{id}/complete [post]
func (h *OrdersHandler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid order id"))
		return
	}
	var req dto.SettleOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Complete(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel godoc
// @Summary      Cancel an order
// @Description  Cancels any non-terminal order and restores the customer balance to its at-creation snapshot.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order UUID"
// @Success      200 {object} dto.OrderResponse
// @Failure      422 {object} apierror.APIError
// @Router       /v1/orders/{id}/cancel [post]
func (h *OrdersHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid order id"))
		return
	}
	resp, err := h.svc.Cancel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
