package service

import (
	"context"
	"errors"
	"time"

	"aquadesk/internal/apierror"
	"aquadesk/internal/dto"
	"aquadesk/internal/events"
	"aquadesk/internal/model"
	"aquadesk/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderService interface {
	Create(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	AssignRider(ctx context.Context, orderID, riderID uuid.UUID) (*dto.OrderResponse, error)
	StartDelivery(ctx context.Context, orderID uuid.UUID) (*dto.OrderResponse, error)
	Deliver(ctx context.Context, orderID uuid.UUID, req dto.SettleOrderRequest) (*dto.OrderResponse, error)
	Complete(ctx context.Context, orderID uuid.UUID, req dto.SettleOrderRequest) (*dto.OrderResponse, error)
	Cancel(ctx context.Context, orderID uuid.UUID) (*dto.OrderResponse, error)
}

type orderService struct {
	repo      repository.OrderRepository
	ledger    LedgerService
	customers repository.CustomerRepository
	riders    repository.RiderRepository
	publisher events.Publisher
	loc       *time.Location
}

func NewOrderService(
	repo repository.OrderRepository,
	ledger LedgerService,
	customers repository.CustomerRepository,
	riders repository.RiderRepository,
	publisher events.Publisher,
	loc *time.Location,
) OrderService {
	return &orderService{
		repo:      repo,
		ledger:    ledger,
		customers: customers,
		riders:    riders,
		publisher: publisher,
		loc:       loc,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Create ────────────────────────────────────────────────────────────────────
// Captures the customer balance snapshot and the immutable totalAmount.
// The ledger is NOT adjusted here — the order's effect is deferred until
// settlement or cancellation, so an order sitting unassigned does not distort
// the customer's displayed balance twice.

func (s *orderService) Create(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	orderType := model.OrderType(req.OrderType)
	if req.NumberOfBottles < 0 {
		return nil, apierror.InvalidAmount("number_of_bottles cannot be negative")
	}

	var customerID *uuid.UUID
	snapshot := decimal.Zero
	if req.CustomerID != nil {
		cid, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, apierror.NotFound("customer not found")
		}
		customer, err := s.customers.FindByID(ctx, cid)
		if err != nil {
			return nil, apierror.NotFound("customer not found")
		}
		customerID = &customer.ID
		snapshot = customer.CurrentBalance
	} else if orderType != model.OrderTypeWalkIn {
		// Only a pure walk-in may omit the customer.
		return nil, apierror.NotFound("customer_id is required for " + req.OrderType + " orders")
	}

	order := &model.Order{
		CustomerID:         customerID,
		OrderType:          orderType,
		Status:             model.StatusCreated,
		NumberOfBottles:    req.NumberOfBottles,
		CurrentOrderAmount: req.CurrentOrderAmount,
		BalanceAtCreation:  snapshot,
		TotalAmount:        req.CurrentOrderAmount.Add(snapshot),
		PaidAmount:         decimal.Zero,
		Notes:              req.Notes,
		Version:            1,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.publishOrder(ctx, order)
	return s.respond(ctx, order.ID)
}

// ── Assign / Reassign ─────────────────────────────────────────────────────────
// No ledger effect. Reassignment is a self-loop on ASSIGNED with a different
// rider; selecting the currently assigned rider is rejected.

func (s *orderService) AssignRider(ctx context.Context, orderID, riderID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.OrderType != model.OrderTypeDelivery {
		return nil, apierror.InvalidTransition("only delivery orders take a rider")
	}
	if order.Status != model.StatusCreated && order.Status != model.StatusAssigned {
		return nil, apierror.InvalidTransition("cannot assign a rider while order is " + string(order.Status))
	}

	rider, err := s.riders.FindByID(ctx, riderID)
	if err != nil {
		return nil, apierror.NotFound("rider not found")
	}
	if !rider.IsActive {
		return nil, apierror.MissingRider("rider " + rider.Name + " is inactive")
	}
	if order.RiderID != nil && *order.RiderID == rider.ID {
		return nil, apierror.InvalidTransition("rider is already assigned to this order")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.UpdateGuardedTx(tx, order.ID, order.Version, map[string]interface{}{
			"rider_id": rider.ID,
			"status":   model.StatusAssigned,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	order.Status = model.StatusAssigned
	s.publishOrder(ctx, order)
	return s.respond(ctx, order.ID)
}

// ── StartDelivery ─────────────────────────────────────────────────────────────

func (s *orderService) StartDelivery(ctx context.Context, orderID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.OrderType != model.OrderTypeDelivery {
		return nil, apierror.InvalidTransition("only delivery orders can be started")
	}
	if order.Status != model.StatusAssigned {
		return nil, apierror.InvalidTransition("cannot start delivery while order is " + string(order.Status))
	}
	if order.RiderID == nil {
		return nil, apierror.MissingRider("order has no rider assigned")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.UpdateGuardedTx(tx, order.ID, order.Version, map[string]interface{}{
			"status": model.StatusInProgress,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	order.Status = model.StatusInProgress
	s.publishOrder(ctx, order)
	return s.respond(ctx, order.ID)
}

// ── Deliver ───────────────────────────────────────────────────────────────────
// Legal only from ASSIGNED/IN_PROGRESS and only with a rider on board.

func (s *orderService) Deliver(ctx context.Context, orderID uuid.UUID, req dto.SettleOrderRequest) (*dto.OrderResponse, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.OrderType != model.OrderTypeDelivery {
		return nil, apierror.InvalidTransition("walk-in and clear-bill orders are completed, not delivered")
	}
	if order.Status != model.StatusAssigned && order.Status != model.StatusInProgress {
		return nil, apierror.InvalidTransition("cannot deliver while order is " + string(order.Status))
	}
	if order.RiderID == nil {
		return nil, apierror.MissingRider("order has no rider assigned")
	}
	return s.settle(ctx, order, req)
}

// ── Complete ──────────────────────────────────────────────────────────────────
// Walk-in and clear-bill orders skip assignment entirely: CREATED → DELIVERED.

func (s *orderService) Complete(ctx context.Context, orderID uuid.UUID, req dto.SettleOrderRequest) (*dto.OrderResponse, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.OrderType == model.OrderTypeDelivery {
		return nil, apierror.InvalidTransition("delivery orders must be delivered by their rider")
	}
	if order.Status != model.StatusCreated {
		return nil, apierror.InvalidTransition("cannot complete while order is " + string(order.Status))
	}
	return s.settle(ctx, order, req)
}

// settle applies the shared delivery/completion effect:
//
//	paymentStatus = derive(totalAmount, paidAmount)
//	newBalance    = totalAmount − paidAmount
//	ledger delta  = newBalance − balanceAtCreation
//
// The delta REPLACES the snapshot contribution rather than stacking on it,
// because totalAmount already folded the snapshot in at creation time.
// Order write and ledger write share one transaction.
func (s *orderService) settle(ctx context.Context, order *model.Order, req dto.SettleOrderRequest) (*dto.OrderResponse, error) {
	method := model.PaymentMethod(req.PaymentMethod)
	paid := req.PaymentAmount
	status := model.DerivePaymentStatus(order.TotalAmount, paid)
	newBalance := order.TotalAmount.Sub(paid)
	delta := newBalance.Sub(order.BalanceAtCreation)
	now := time.Now()

	fields := map[string]interface{}{
		"status":         model.StatusDelivered,
		"paid_amount":    paid,
		"payment_status": status,
		"payment_method": method,
		"delivered_at":   now,
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateGuardedTx(tx, order.ID, order.Version, fields); err != nil {
			return err
		}
		if order.CustomerID != nil {
			return s.ledger.ApplyDeltaTx(tx, *order.CustomerID, delta)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	order.Status = model.StatusDelivered
	s.publishOrder(ctx, order)
	if order.CustomerID != nil {
		s.publisher.Publish(ctx, events.Event{
			Type:       events.LedgerChanged,
			CustomerID: order.CustomerID.String(),
		})
	}
	return s.respond(ctx, order.ID)
}

// ── Cancel ────────────────────────────────────────────────────────────────────
// Terminal. Reverts the customer's balance to exactly the value snapshotted at
// creation, regardless of the order's current totalAmount — a point
// restoration guards against double-application bugs.

func (s *orderService) Cancel(ctx context.Context, orderID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, apierror.InvalidTransition("order is already " + string(order.Status))
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateGuardedTx(tx, order.ID, order.Version, map[string]interface{}{
			"status": model.StatusCancelled,
		}); err != nil {
			return err
		}
		if order.CustomerID != nil {
			return s.ledger.RestoreTx(tx, *order.CustomerID, order.BalanceAtCreation)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	order.Status = model.StatusCancelled
	s.publishOrder(ctx, order)
	if order.CustomerID != nil {
		s.publisher.Publish(ctx, events.Event{
			Type:       events.LedgerChanged,
			CustomerID: order.CustomerID.String(),
		})
	}
	return s.respond(ctx, order.ID)
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	return s.respond(ctx, id)
}

// List returns a page of orders for one business day, newest first.
func (s *orderService) List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}

	day := time.Now().In(s.loc)
	if filter.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", filter.Date, s.loc)
		if err != nil {
			return nil, apierror.InvalidAmount("date must be YYYY-MM-DD")
		}
		day = parsed
	}
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 0, 1)

	orders, total, err := s.repo.List(ctx, filter, from, to)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *orderToResponse(&orders[i]))
	}
	return &dto.OrderListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *orderService) findOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("order not found")
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) respond(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return orderToResponse(order), nil
}

func (s *orderService) publishOrder(ctx context.Context, o *model.Order) {
	ev := events.Event{
		Type:    events.OrderChanged,
		OrderID: o.ID.String(),
		Status:  string(o.Status),
	}
	if o.CustomerID != nil {
		ev.CustomerID = o.CustomerID.String()
	}
	s.publisher.Publish(ctx, ev)
}

func orderToResponse(o *model.Order) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:                 o.ID.String(),
		OrderType:          string(o.OrderType),
		Status:             string(o.Status),
		NumberOfBottles:    o.NumberOfBottles,
		CurrentOrderAmount: o.CurrentOrderAmount,
		BalanceAtCreation:  o.BalanceAtCreation,
		TotalAmount:        o.TotalAmount,
		PaidAmount:         o.PaidAmount,
		Notes:              o.Notes,
		CreatedAt:          o.CreatedAt.UTC().Format(time.RFC3339),
	}
	if o.CustomerID != nil {
		id := o.CustomerID.String()
		resp.CustomerID = &id
	}
	if o.Customer != nil {
		resp.CustomerName = &o.Customer.Name
	}
	if o.RiderID != nil {
		id := o.RiderID.String()
		resp.RiderID = &id
	}
	if o.Rider != nil {
		resp.RiderName = &o.Rider.Name
	}
	if o.PaymentStatus != nil {
		ps := string(*o.PaymentStatus)
		resp.PaymentStatus = &ps
	}
	if o.PaymentMethod != nil {
		pm := string(*o.PaymentMethod)
		resp.PaymentMethod = &pm
	}
	if o.DeliveredAt != nil {
		t := o.DeliveredAt.UTC().Format(time.RFC3339)
		resp.DeliveredAt = &t
	}
	return resp
}
