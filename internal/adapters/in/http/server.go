// Package http exposes the order lifecycle over a REST API. Handlers do
// boundary work only. They bind and validate input, build a guarded command
// or query, and translate the outcome to a status code; every business rule
// stays behind the application layer.
package http

import (
	"net/http"
	"strconv"

	"returns/internal/core/application/usecases/commands"
	"returns/internal/core/application/usecases/queries"
	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/order"
	"returns/internal/core/domain/model/promo"
	"returns/internal/core/ports"

	"github.com/labstack/echo/v4"
)

// Handlers bundles the application handlers the server dispatches to.
type Handlers struct {
	CreateOrder    commands.CreateOrderCommandHandler
	AcceptOrder    commands.AcceptOrderCommandHandler
	UnassignOrder  commands.UnassignOrderCommandHandler
	ProgressOrder  commands.ProgressOrderCommandHandler
	CancelOrder    commands.CancelOrderCommandHandler
	CompleteOrder  commands.CompleteOrderCommandHandler
	RequestRefund  commands.RequestRefundCommandHandler
	ResolveRefund  commands.ResolveRefundCommandHandler
	BulkTransition commands.BulkTransitionCommandHandler
	BulkRefund     commands.BulkRefundCommandHandler
	CreatePromo    commands.CreatePromoCommandHandler

	GetAvailableOrders queries.GetAvailableOrdersQueryHandler
	GetOrder           queries.GetOrderQueryHandler
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers   Handlers
	authorizer ports.Authorizer
}

// NewServer creates a new HTTP server dispatching to the given handlers.
func NewServer(handlers Handlers, authorizer ports.Authorizer) *Server {
	return &Server{
		handlers:   handlers,
		authorizer: authorizer,
	}
}

// RegisterRoutes binds all API routes on the given echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	v1 := e.Group("/api/v1")

	v1.POST("/orders", s.CreateOrder, s.requireAction(actionOrderCreate))
	v1.GET("/orders/available", s.GetAvailableOrders, s.requireAction(actionOrderPool))
	v1.GET("/orders/:orderID", s.GetOrder, s.requireAction(actionOrderView))
	v1.POST("/orders/:orderID/accept", s.AcceptOrder, s.requireAction(actionOrderAccept))
	v1.POST("/orders/:orderID/unassign", s.UnassignOrder, s.requireAction(actionOrderUnassign))
	v1.POST("/orders/:orderID/status", s.ProgressOrder, s.requireAction(actionOrderProgress))
	v1.POST("/orders/:orderID/cancel", s.CancelOrder, s.requireAction(actionOrderCancel))
	v1.POST("/orders/:orderID/complete", s.CompleteOrder, s.requireAction(actionOrderComplete))
	v1.POST("/orders/:orderID/refund", s.RequestRefund, s.requireAction(actionRefundRequest))
	v1.POST("/orders/bulk-status", s.BulkTransition, s.requireAction(actionOrderBulk))
	v1.POST("/orders/bulk-refund", s.BulkRefund, s.requireAction(actionRefundBulk))
	v1.POST("/promos", s.CreatePromo, s.requireAction(actionPromoCreate))

	// The processor authenticates with a webhook secret, not an actor role.
	v1.POST("/webhooks/refunds", s.RefundWebhook)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateOrder handles POST /api/v1/orders - books a new return pickup for
// the acting customer.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req createOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	customerID, err := actorID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	boxes := make([]order.BoxSize, 0, len(req.Boxes))
	for _, raw := range req.Boxes {
		size, sizeErr := order.BoxSizeFromString(raw)
		if sizeErr != nil {
			return badRequest(ctx, sizeErr.Error())
		}
		boxes = append(boxes, size)
	}

	tip := kernel.ZeroMoney()
	if req.Tip != "" {
		if tip, err = kernel.MoneyFromString(req.Tip); err != nil {
			return badRequest(ctx, err.Error())
		}
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID, customerID, req.PickupAddress, req.Retailer,
		boxes, req.Rush, req.PromoCode, tip)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err := s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, createOrderResponse{ID: orderID.String()})
}

// GetAvailableOrders handles GET /api/v1/orders/available - lists assignable
// orders around the driver's position.
func (s *Server) GetAvailableOrders(ctx echo.Context) error {
	lat, err := strconv.ParseFloat(ctx.QueryParam("lat"), 64)
	if err != nil {
		return badRequest(ctx, "lat must be a number")
	}
	lon, err := strconv.ParseFloat(ctx.QueryParam("lon"), 64)
	if err != nil {
		return badRequest(ctx, "lon must be a number")
	}

	radius := 0.0
	if raw := ctx.QueryParam("radius"); raw != "" {
		if radius, err = strconv.ParseFloat(raw, 64); err != nil {
			return badRequest(ctx, "radius must be a number")
		}
	}

	location, err := kernel.NewGeoPoint(lat, lon)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	query, err := queries.NewGetAvailableOrdersQuery(location, radius)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	available, err := s.handlers.GetAvailableOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]availableOrderResponse, len(available))
	for i, item := range available {
		response[i] = toAvailableOrderResponse(item)
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/:orderID - the full tracking view.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := pathOrderID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	view, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(view))
}

// AcceptOrder handles POST /api/v1/orders/:orderID/accept - the acting
// driver claims the order. Exactly one of several concurrent drivers wins;
// the rest receive 409.
func (s *Server) AcceptOrder(ctx echo.Context) error {
	orderID, err := pathOrderID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	driverID, err := actorID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewAcceptOrderCommand(orderID, driverID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err := s.handlers.AcceptOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UnassignOrder handles POST /api/v1/orders/:orderID/unassign - releases the
// order back to the available pool.
func (s *Server) UnassignOrder(ctx echo.Context) error {
	orderID, err := pathOrderID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewUnassignOrderCommand(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err := s.handlers.UnassignOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ProgressOrder handles POST /api/v1/orders/:orderID/status - advances the
// order one fulfillment step (schedule pickup, picked up, in transit,
// delivered, return refused).
func (s *Server) ProgressOrder(ctx echo.Context) error {
	orderID, err := pathOrderID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var req progressOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	target, err := order.StatusFromString(req.Target)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewProgressOrderCommand(orderID, target, req.PickupAt)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err := s.handlers.ProgressOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/:orderID/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := pathOrderID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewCancelOrderCommand(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err := s.handlers.CancelOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CompleteOrder handles POST /api/v1/orders/:orderID/complete - settles a
// delivered order, freezing the driver earning and platform fee.
func (s *Server) CompleteOrder(ctx echo.Context) error {
	orderID, err := pathOrderID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewCompleteOrderCommand(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err := s.handlers.CompleteOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RequestRefund handles POST /api/v1/orders/:orderID/refund.
func (s *Server) RequestRefund(ctx echo.Context) error {
	orderID, err := pathOrderID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var req requestRefundRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	amount, err := kernel.MoneyFromString(req.Amount)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewRequestRefundCommand(orderID, amount, req.Reason)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err := s.handlers.RequestRefund.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusAccepted)
}

// RefundWebhook handles POST /api/v1/webhooks/refunds - the processor's
// notification that a submitted refund reached a terminal state.
func (s *Server) RefundWebhook(ctx echo.Context) error {
	var req refundWebhookRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	var succeeded bool
	switch req.Status {
	case "succeeded":
		succeeded = true
	case "failed", "canceled":
		succeeded = false
	default:
		return badRequest(ctx, "status must be succeeded, failed, or canceled")
	}

	cmd, err := commands.NewResolveRefundCommand(req.RefundID, succeeded)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err := s.handlers.ResolveRefund.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// BulkTransition handles POST /api/v1/orders/bulk-status - applies one
// status transition to many orders, reporting per-order outcomes.
func (s *Server) BulkTransition(ctx echo.Context) error {
	var req bulkTransitionRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	orderIDs := make([]kernel.UUID, 0, len(req.OrderIDs))
	for _, raw := range req.OrderIDs {
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			return badRequest(ctx, err.Error())
		}
		orderIDs = append(orderIDs, id)
	}

	target, err := order.StatusFromString(req.Target)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewBulkTransitionCommand(orderIDs, target)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.handlers.BulkTransition.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toBulkResultResponse(result))
}

// BulkRefund handles POST /api/v1/orders/bulk-refund - refunds many orders
// with a shared reason, reporting per-order outcomes.
func (s *Server) BulkRefund(ctx echo.Context) error {
	var req bulkRefundRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	items := make([]commands.BulkRefundItem, 0, len(req.Items))
	for _, raw := range req.Items {
		id, err := kernel.UUIDFromString(raw.OrderID)
		if err != nil {
			return badRequest(ctx, err.Error())
		}
		amount, err := kernel.MoneyFromString(raw.Amount)
		if err != nil {
			return badRequest(ctx, err.Error())
		}
		items = append(items, commands.BulkRefundItem{OrderID: id, Amount: amount})
	}

	cmd, err := commands.NewBulkRefundCommand(items, req.Reason)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.handlers.BulkRefund.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toBulkResultResponse(result))
}

// CreatePromo handles POST /api/v1/promos - registers a promo code.
func (s *Server) CreatePromo(ctx echo.Context) error {
	var req createPromoRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	kind, err := promo.KindFromString(req.Kind)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	value, err := kernel.MoneyFromString(req.Value)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	promoID := kernel.NewUUID()
	cmd, err := commands.NewCreatePromoCommand(
		promoID, req.Code, kind, value, req.ExpiresAt, req.UsageLimit)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err := s.handlers.CreatePromo.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, createPromoResponse{ID: promoID.String()})
}

func pathOrderID(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param("orderID"))
}
