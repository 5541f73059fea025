package service_test

import (
	"context"
	"testing"
	"time"

	"aquadesk/internal/apierror"
	"aquadesk/internal/dto"
	"aquadesk/internal/events"
	"aquadesk/internal/model"
	"aquadesk/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pkt = time.FixedZone("PKT", 5*60*60)

func buildOrderSvc() (service.OrderService, *stubOrderRepo, *stubCustomerRepo, *stubRiderRepo) {
	customerRepo := newStubCustomerRepo()
	riderRepo := newStubRiderRepo()
	orderRepo := newStubOrderRepo()
	ledger := service.NewLedgerService(customerRepo)

	svc := service.NewOrderService(orderRepo, ledger, customerRepo, riderRepo, events.Nop{}, pkt)
	return svc, orderRepo, customerRepo, riderRepo
}

func seedCustomer(repo *stubCustomerRepo, name string, balance float64) *model.Customer {
	c := &model.Customer{
		Name:           name,
		Phone:          "03001234567",
		CurrentBalance: decimal.NewFromFloat(balance),
		IsActive:       true,
	}
	_ = repo.Create(context.Background(), c)
	return c
}

func seedRider(repo *stubRiderRepo, name string, active bool) *model.Rider {
	r := &model.Rider{Name: name, Phone: "03111234567", IsActive: active}
	_ = repo.Create(context.Background(), r)
	return r
}

func strptr(s string) *string { return &s }

// ── Create ────────────────────────────────────────────────────────────────────

func TestCreate_SnapshotsBalanceIntoTotal(t *testing.T) {
	svc, orderRepo, customerRepo, _ := buildOrderSvc()
	c := seedCustomer(customerRepo, "Hamid", 500)

	resp, err := svc.Create(context.Background(), dto.CreateOrderRequest{
		CustomerID:         strptr(c.ID.String()),
		OrderType:          "delivery",
		NumberOfBottles:    5,
		CurrentOrderAmount: decimal.NewFromFloat(300),
	})
	require.NoError(t, err)

	assert.Equal(t, "created", resp.Status)
	assert.Equal(t, "500", resp.BalanceAtCreation.String())
	assert.Equal(t, "800", resp.TotalAmount.String())

	// Creation must not touch the ledger.
	assert.Equal(t, "500", c.CurrentBalance.String())

	stored, err := orderRepo.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Version)
}

func TestCreate_AnonymousWalkIn(t *testing.T) {
	svc, _, _, _ := buildOrderSvc()

	resp, err := svc.Create(context.Background(), dto.CreateOrderRequest{
		OrderType:          "walkin",
		NumberOfBottles:    2,
		CurrentOrderAmount: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)
	assert.Nil(t, resp.CustomerID)
	assert.Equal(t, "100", resp.TotalAmount.String())
}

func TestCreate_DeliveryRequiresCustomer(t *testing.T) {
	svc, _, _, _ := buildOrderSvc()

	_, err := svc.Create(context.Background(), dto.CreateOrderRequest{
		OrderType:          "delivery",
		CurrentOrderAmount: decimal.NewFromFloat(100),
	})
	assert.True(t, apierror.IsCode(err, apierror.CodeNotFound))
}

func TestCreate_UnknownCustomer(t *testing.T) {
	svc, _, _, _ := buildOrderSvc()

	_, err := svc.Create(context.Background(), dto.CreateOrderRequest{
		CustomerID:         strptr(uuid.NewString()),
		OrderType:          "delivery",
		CurrentOrderAmount: decimal.NewFromFloat(100),
	})
	assert.True(t, apierror.IsCode(err, apierror.CodeNotFound))
}

// ── Assign ────────────────────────────────────────────────────────────────────

func TestAssignRider_HappyPathAndReassign(t *testing.T) {
	svc, _, customerRepo, riderRepo := buildOrderSvc()
	c := seedCustomer(customerRepo, "Hamid", 0)
	r1 := seedRider(riderRepo, "Bilal", true)
	r2 := seedRider(riderRepo, "Imran", true)

	created, err := svc.Create(context.Background(), dto.CreateOrderRequest{
		CustomerID:         strptr(c.ID.String()),
		OrderType:          "delivery",
		CurrentOrderAmount: decimal.NewFromFloat(200),
	})
	require.NoError(t, err)
	orderID := uuid.MustParse(created.ID)

	resp, err := svc.AssignRider(context.Background(), orderID, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, "assigned", resp.Status)
	assert.Equal(t, r1.ID.String(), *resp.RiderID)

	// Reassignment from assigned is a legal self-loop with a new rider.
	resp, err = svc.AssignRider(context.Background(), orderID, r2.ID)
	require.NoError(t, err)
	assert.Equal(t, "assigned", resp.Status)
	assert.Equal(t, r2.ID.String(), *resp.RiderID)
}

func TestAssignRider_SameRiderRejected(t *testing.T) {
	svc, _, customerRepo, riderRepo := buildOrderSvc()
	c := seedCustomer(customerRepo, "Hamid", 0)
	r := seedRider(riderRepo, "Bilal", true)

	created, _ := svc.Create(context.Background(), dto.CreateOrderRequest{
		CustomerID:         strptr(c.ID.String()),
		OrderType:          "delivery",
		CurrentOrderAmount: decimal.NewFromFloat(200),
	})
	orderID := uuid.MustParse(created.ID)

	_, err := svc.AssignRider(context.Background(), orderID, r.ID)
	require.NoError(t, err)

	_, err = svc.AssignRider(context.Background(), orderID, r.ID)
	assert.True(t, apierror.IsCode(err, apierror.CodeInvalidTransition))
}

func TestAssignRider_InactiveRider(t *testing.T) {
	svc, _, customerRepo, riderRepo := buildOrderSvc()
	c := seedCustomer(customerRepo, "Hamid", 0)
	r := seedRider(riderRepo, "Bilal", false)

	created, _ := svc.Create(context.Background(), dto.CreateOrderRequest{
		CustomerID:         strptr(c.ID.String()),
		OrderType:          "delivery",
		CurrentOrderAmount: decimal.NewFromFloat(200),
	})

	_, err := svc.AssignRider(context.Background(), uuid.MustParse(created.ID), r.ID)
	assert.True(t, apierror.IsCode(err, apierror.CodeMissingRider))
}

func TestAssignRider_WalkInRejected(t *testing.T) {
	svc, _, _, riderRepo := buildOrderSvc()
	r := seedRider(riderRepo, "Bilal", true)

	created, _ := svc.Create(context.Background(), dto.CreateOrderRequest{
		OrderType:          "walkin",
		CurrentOrderAmount: decimal.NewFromFloat(100),
	})

	_, err := svc.AssignRider(context.Background(), uuid.MustParse(created.ID), r.ID)
	assert.True(t, apierror.IsCode(err, apierror.CodeInvalidTransition))
}

// ── Deliver ───────────────────────────────────────────────────────────────────

func TestDeliver_PartialPaymentShiftsBalance(t *testing.T) {
	svc, _, customerRepo, riderRepo := buildOrderSvc()
	c := seedCustomer(customerRepo, "Hamid", 200)
	r := seedRider(riderRepo, "Bilal", true)

	created, _ := svc.Create(context.Background(), dto.CreateOrderRequest{
		CustomerID:         strptr(c.ID.String()),
		OrderType:          "delivery",
		NumberOfBottles:    10,
		CurrentOrderAmount: decimal.NewFromFloat(500),
	})
	orderID := uuid.MustParse(created.ID)
	_, err := svc.AssignRider(context.Background(), orderID, r.ID)
	require.NoError(t, err)

	// total = 500 + 200 = 700; pays 300 → 400 remains receivable
	resp, err := svc.Deliver(context.Background(), orderID, dto.SettleOrderRequest{
		PaymentAmount: decimal.NewFromFloat(300),
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, "delivered", resp.Status)
	assert.Equal(t, "partial", *resp.PaymentStatus)
	require.NotNil(t, resp.DeliveredAt)
	assert.Equal(t, "400", c.CurrentBalance.String())
}

func TestDeliver_FullPaymentClearsBalance(t *testing.T) {
	svc, _, customerRepo, riderRepo := buildOrderSvc()
	c := seedCustomer(customerRepo, "Hamid", 200)
	r := seedRider(riderRepo, "Bilal", true)

	created, _ := svc.Create(context.Background(), dto.CreateOrderRequest{
		CustomerID:         strptr(c.ID.String()),
		OrderType:          "delivery",
		CurrentOrderAmount: decimal.NewFromFloat(500),
	})
	orderID := uuid.MustParse(created.ID)
	_, _ = svc.AssignRider(context.Background(), orderID, r.ID)

	resp, err := svc.Deliver(context.Background(), orderID, dto.SettleOrderRequest{
		PaymentAmount: decimal.NewFromFloat(700),
		PaymentMethod: "jazzcash",
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", *resp.PaymentStatus)
	assert.True(t, c.CurrentBalance.IsZero())
}

func TestDeliver_OverpaymentGoesPayable(t *testing.T) {
	svc, _, customerRepo, riderRepo := buildOrderSvc()
	c := seedCustomer(customerRepo, "Hamid", 0)
	r := seedRider(riderRepo, "Bilal", true)

	created, _ := svc.Create(context.Background(), dto.CreateOrderRequest{
		CustomerID:         strptr(c.ID.String()),
		OrderType:          "delivery",
		CurrentOrderAmount: decimal.NewFromFloat(500),
	})
	orderID := uuid.MustParse(created.ID)
	_, _ = svc.AssignRider(context.Background(), orderID, r.ID)

	resp, err := svc.Deliver(context.Background(), orderID, dto.SettleOrderRequest{
		PaymentAmount: decimal.NewFromFloat(600),
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, "overpaid", *resp.PaymentStatus)
	assert.Equal(t, "-100", c.CurrentBalance.String())
	assert.Equal(t, model.BalancePayable, model.LabelForBalance(c.CurrentBalance))
}

func TestDeliver_FromCreatedRejected(t *testing.T) {
	svc, _, customerRepo, _ := buildOrderSvc()
	c := seedCustomer(customerRepo, "Hamid", 0)

	created, _ := svc.Create(context.Background(), dto.CreateOrderRequest{
		CustomerID:         strptr(c.ID.String()),
		OrderType:          "delivery",
		CurrentOrderAmount: decimal.NewFromFloat(500),
	})

	_, err := svc.Deliver(context.Background(), uuid.MustParse(created.ID), dto.SettleOrderRequest{
		PaymentAmount: decimal.NewFromFloat(500),
		PaymentMethod: "cash",
	})
	assert.True(t, apierror.IsCode(err, apierror.CodeInvalidTransition))
}

func TestDeliver_TwiceRejected(t *testing.T) {
	svc, _, customerRepo, riderRepo := buildOrderSvc()
	c := seedCustomer(customerRepo, "Hamid", 0)
	r := seedRider(riderRepo, "Bilal", true)

	created, _ := svc.Create(context.Background(), dto.CreateOrderRequest{
		CustomerID:         strptr(c.ID.String()),
		OrderType:          "delivery",
		CurrentOrderAmount: decimal.NewFromFloat(500),
	})
	orderID := uuid.MustParse(created.ID)
	_, _ = svc.AssignRider(context.Background(), orderID, r.ID)

	pay := dto.SettleOrderRequest{PaymentAmount: decimal.NewFromFloat(500), PaymentMethod: "cash"}
	_, err := svc.Deliver(context.Background(), orderID, pay)
	require.NoError(t, err)

	_, err = svc.Deliver(context.Background(), orderID, pay)
	assert.True(t, apierror.IsCode(err, apierror.CodeInvalidTransition))
	// Ledger applied exactly once.
	assert.True(t, c.CurrentBalance.IsZero())
}

// ── StartDelivery ─────────────────────────────────────────────────────────────

func TestStartDelivery_Lifecycle(t *testing.T) {
	svc, _, customerRepo, riderRepo := buildOrderSvc()
	c := seedCustomer(customerRepo, "Hamid", 0)
	r := seedRider(riderRepo, "Bilal", true)

	created, _ := svc.Create(context.Background(), dto.CreateOrderRequest{
		CustomerID:         strptr(c.ID.String()),
		OrderType:          "delivery",
		CurrentOrderAmount: decimal.NewFromFloat(500),
	})
	orderID := uuid.MustParse(created.ID)

	// Cannot start before a rider is on board.
	_, err := svc.StartDelivery(context.Background(), orderID)
	assert.True(t, apierror.IsCode(err, apierror.CodeInvalidTransition))

	_, _ = svc.AssignRider(context.Background(), orderID, r.ID)
	resp, err := svc.StartDelivery(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", resp.Status)

	// Deliver is still legal from in_progress.
	resp, err = svc.Deliver(context.Background(), orderID, dto.SettleOrderRequest{
		PaymentAmount: decimal.NewFromFloat(500),
		PaymentMethod: "easypaisa",
	})
	require.NoError(t, err)
	assert.Equal(t, "delivered", resp.Status)
}

// ── Complete ──────────────────────────────────────────────────────────────────

func TestComplete_ClearBillRecoversDebt(t *testing.T) {
	svc, _, customerRepo, _ := buildOrderSvc()
	c := seedCustomer(customerRepo, "Hamid", 1500)

	// Clear-bill: no product, total = 0 + 1500
	created, err := svc.Create(context.Background(), dto.CreateOrderRequest{
		CustomerID:         strptr(c.ID.String()),
		OrderType:          "clearbill",
		CurrentOrderAmount: decimal.Zero,
	})
	require.NoError(t, err)
	assert.Equal(t, "1500", created.TotalAmount.String())

	resp, err := svc.Complete(context.Background(), uuid.MustParse(created.ID), dto.SettleOrderRequest{
		PaymentAmount: decimal.NewFromFloat(1000),
		PaymentMethod: "bank_transfer",
	})
	require.NoError(t, err)
	assert.Equal(t, "partial", *resp.PaymentStatus)
	assert.Equal(t, "500", c.CurrentBalance.String())
}

func TestComplete_DeliveryRejected(t *testing.T) {
	svc, _, customerRepo, _ := buildOrderSvc()
	c := seedCustomer(customerRepo, "Hamid", 0)

	created, _ := svc.Create(context.Background(), dto.CreateOrderRequest{
		CustomerID:         strptr(c.ID.String()),
		OrderType:          "delivery",
		CurrentOrderAmount: decimal.NewFromFloat(500),
	})

	_, err := svc.Complete(context.Background(), uuid.MustParse(created.ID), dto.SettleOrderRequest{
		PaymentAmount: decimal.NewFromFloat(500),
		PaymentMethod: "cash",
	})
	assert.True(t, apierror.IsCode(err, apierror.CodeInvalidTransition))
}

// ── Cancel ────────────────────────────────────────────────────────────────────

func TestCancel_RestoresSnapshot(t *testing.T) {
	svc, _, customerRepo, riderRepo := buildOrderSvc()
	c := seedCustomer(customerRepo, "Hamid", 350)
	r := seedRider(riderRepo, "Bilal", true)

	created, _ := svc.Create(context.Background(), dto.CreateOrderRequest{
		CustomerID:         strptr(c.ID.String()),
		OrderType:          "delivery",
		CurrentOrderAmount: decimal.NewFromFloat(500),
	})
	orderID := uuid.MustParse(created.ID)
	_, _ = svc.AssignRider(context.Background(), orderID, r.ID)

	resp, err := svc.Cancel(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, "350", c.CurrentBalance.String())
}

func TestCancel_TerminalRejected(t *testing.T) {
	svc, _, customerRepo, riderRepo := buildOrderSvc()
	c := seedCustomer(customerRepo, "Hamid", 0)
	r := seedRider(riderRepo, "Bilal", true)

	created, _ := svc.Create(context.Background(), dto.CreateOrderRequest{
		CustomerID:         strptr(c.ID.String()),
		OrderType:          "delivery",
		CurrentOrderAmount: decimal.NewFromFloat(500),
	})
	orderID := uuid.MustParse(created.ID)
	_, _ = svc.AssignRider(context.Background(), orderID, r.ID)
	_, err := svc.Deliver(context.Background(), orderID, dto.SettleOrderRequest{
		PaymentAmount: decimal.NewFromFloat(500),
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), orderID)
	assert.True(t, apierror.IsCode(err, apierror.CodeInvalidTransition))
	assert.True(t, c.CurrentBalance.IsZero())
}

// ── Optimistic lock ───────────────────────────────────────────────────────────

func TestConcurrentWrite_Conflicts(t *testing.T) {
	svc, orderRepo, customerRepo, _ := buildOrderSvc()
	c := seedCustomer(customerRepo, "Hamid", 0)

	created, _ := svc.Create(context.Background(), dto.CreateOrderRequest{
		CustomerID:         strptr(c.ID.String()),
		OrderType:          "delivery",
		CurrentOrderAmount: decimal.NewFromFloat(500),
	})
	orderID := uuid.MustParse(created.ID)

	// Another writer bumps the version between our read and our write.
	orderRepo.orders[orderID].Version = 2

	_, err := svc.Cancel(context.Background(), orderID)
	assert.True(t, apierror.IsCode(err, apierror.CodeConflict))
	// The losing write must not have touched the ledger.
	assert.True(t, c.CurrentBalance.IsZero())
}
