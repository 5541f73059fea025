package service_test

import (
	"context"
	"testing"

	"aquadesk/internal/apierror"
	"aquadesk/internal/dto"
	"aquadesk/internal/events"
	"aquadesk/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closingFixture struct {
	closings  service.ClosingService
	orders    service.OrderService
	orderRepo *stubOrderRepo
	custRepo  *stubCustomerRepo
	riderRepo *stubRiderRepo
	closRepo  *stubClosingRepo
}

func buildClosingFixture() *closingFixture {
	customerRepo := newStubCustomerRepo()
	riderRepo := newStubRiderRepo()
	orderRepo := newStubOrderRepo()
	closingRepo := newStubClosingRepo()
	ledger := service.NewLedgerService(customerRepo)

	return &closingFixture{
		closings:  service.NewClosingService(orderRepo, closingRepo, riderRepo, ledger, events.Nop{}, nil, pkt),
		orders:    service.NewOrderService(orderRepo, ledger, customerRepo, riderRepo, events.Nop{}, pkt),
		orderRepo: orderRepo,
		custRepo:  customerRepo,
		riderRepo: riderRepo,
		closRepo:  closingRepo,
	}
}

// runDay drives a realistic day: two delivered delivery orders on one rider,
// a walk-in, and a clear-bill recovery.
func (f *closingFixture) runDay(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	hamid := seedCustomer(f.custRepo, "Hamid", 200)
	sana := seedCustomer(f.custRepo, "Sana", 1000)
	bilal := seedRider(f.riderRepo, "Bilal", true)

	// Delivery 1: total 700, pays 300 cash → partial
	o1, err := f.orders.Create(ctx, dto.CreateOrderRequest{
		CustomerID:         strptr(hamid.ID.String()),
		OrderType:          "delivery",
		NumberOfBottles:    10,
		CurrentOrderAmount: decimal.NewFromFloat(500),
	})
	require.NoError(t, err)
	_, err = f.orders.AssignRider(ctx, uuid.MustParse(o1.ID), bilal.ID)
	require.NoError(t, err)
	_, err = f.orders.Deliver(ctx, uuid.MustParse(o1.ID), dto.SettleOrderRequest{
		PaymentAmount: decimal.NewFromFloat(300),
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	// Delivery 2: fresh walk-in customer order delivered, pays in full via jazzcash
	o2, err := f.orders.Create(ctx, dto.CreateOrderRequest{
		CustomerID:         strptr(sana.ID.String()),
		OrderType:          "delivery",
		NumberOfBottles:    4,
		CurrentOrderAmount: decimal.NewFromFloat(200),
	})
	require.NoError(t, err)
	_, err = f.orders.AssignRider(ctx, uuid.MustParse(o2.ID), bilal.ID)
	require.NoError(t, err)
	_, err = f.orders.Deliver(ctx, uuid.MustParse(o2.ID), dto.SettleOrderRequest{
		PaymentAmount: decimal.NewFromFloat(1200),
		PaymentMethod: "jazzcash",
	})
	require.NoError(t, err)

	// Walk-in: anonymous, 150 cash
	o3, err := f.orders.Create(ctx, dto.CreateOrderRequest{
		OrderType:          "walkin",
		NumberOfBottles:    3,
		CurrentOrderAmount: decimal.NewFromFloat(150),
	})
	require.NoError(t, err)
	_, err = f.orders.Complete(ctx, uuid.MustParse(o3.ID), dto.SettleOrderRequest{
		PaymentAmount: decimal.NewFromFloat(150),
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
}

func TestSummary_Aggregates(t *testing.T) {
	f := buildClosingFixture()
	f.runDay(t)

	sum, err := f.closings.Summary(context.Background(), "")
	require.NoError(t, err)

	assert.True(t, sum.CanClose)
	assert.Zero(t, sum.OpenOrders)
	assert.False(t, sum.AlreadyExists)

	assert.Equal(t, 3, sum.TotalOrders)
	assert.Equal(t, 17, sum.TotalBottles)
	assert.Equal(t, "850", sum.TotalCurrentOrderAmount.String())
	// 300 + 1200 + 150
	assert.Equal(t, "1650", sum.TotalPaidAmount.String())
	// 850 − 1650 = −800: old debt recovered
	assert.Equal(t, "-800", sum.BalanceClearedToday.String())
	assert.Equal(t, "recovery", sum.Movement)

	assert.Equal(t, "150", sum.WalkInAmount.String())
	assert.True(t, sum.ClearBillAmount.IsZero())

	// Hamid still owes 400; Sana ended at 0.
	assert.Equal(t, "400", sum.CustomerReceivable.String())
	assert.True(t, sum.CustomerPayable.IsZero())

	require.Len(t, sum.RiderCollections, 1)
	assert.Equal(t, "Bilal", sum.RiderCollections[0].RiderName)
	// Rider collections cover delivery orders only: 300 + 1200.
	assert.Equal(t, "1500", sum.RiderCollections[0].Collected.String())
	assert.Equal(t, 2, sum.RiderCollections[0].OrderCount)

	require.Len(t, sum.PaymentMethods, 2)
	assert.Equal(t, "cash", sum.PaymentMethods[0].Method)
	assert.Equal(t, "450", sum.PaymentMethods[0].Collected.String())
	assert.Equal(t, "jazzcash", sum.PaymentMethods[1].Method)
	assert.Equal(t, "1200", sum.PaymentMethods[1].Collected.String())
}

func TestSummary_UdhaarDay(t *testing.T) {
	f := buildClosingFixture()
	ctx := context.Background()
	hamid := seedCustomer(f.custRepo, "Hamid", 0)

	// Delivered with nothing paid: new debt.
	o, err := f.orders.Create(ctx, dto.CreateOrderRequest{
		CustomerID:         strptr(hamid.ID.String()),
		OrderType:          "delivery",
		NumberOfBottles:    5,
		CurrentOrderAmount: decimal.NewFromFloat(250),
	})
	require.NoError(t, err)
	bilal := seedRider(f.riderRepo, "Bilal", true)
	_, err = f.orders.AssignRider(ctx, uuid.MustParse(o.ID), bilal.ID)
	require.NoError(t, err)
	_, err = f.orders.Deliver(ctx, uuid.MustParse(o.ID), dto.SettleOrderRequest{
		PaymentAmount: decimal.Zero,
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	sum, err := f.closings.Summary(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "250", sum.BalanceClearedToday.String())
	assert.Equal(t, "udhaar", sum.Movement)
	assert.Equal(t, "250", sum.CustomerReceivable.String())
}

func TestSummary_CancelledOrdersDoNotBlock(t *testing.T) {
	f := buildClosingFixture()
	ctx := context.Background()
	hamid := seedCustomer(f.custRepo, "Hamid", 0)

	o, err := f.orders.Create(ctx, dto.CreateOrderRequest{
		CustomerID:         strptr(hamid.ID.String()),
		OrderType:          "delivery",
		CurrentOrderAmount: decimal.NewFromFloat(500),
	})
	require.NoError(t, err)
	_, err = f.orders.Cancel(ctx, uuid.MustParse(o.ID))
	require.NoError(t, err)

	sum, err := f.closings.Summary(ctx, "")
	require.NoError(t, err)
	assert.True(t, sum.CanClose)
	assert.Equal(t, 1, sum.TotalOrders)
	// Cancelled orders contribute nothing to the money columns.
	assert.True(t, sum.TotalPaidAmount.IsZero())
}

func TestSave_RejectedWhileOrdersOpen(t *testing.T) {
	f := buildClosingFixture()
	ctx := context.Background()
	hamid := seedCustomer(f.custRepo, "Hamid", 0)

	_, err := f.orders.Create(ctx, dto.CreateOrderRequest{
		CustomerID:         strptr(hamid.ID.String()),
		OrderType:          "delivery",
		CurrentOrderAmount: decimal.NewFromFloat(500),
	})
	require.NoError(t, err)

	sum, err := f.closings.Summary(ctx, "")
	require.NoError(t, err)
	assert.False(t, sum.CanClose)
	assert.Equal(t, 1, sum.OpenOrders)

	_, err = f.closings.Save(ctx, "")
	assert.True(t, apierror.IsCode(err, apierror.CodeClosingPrecondition))
}

func TestSave_IdempotentPerDate(t *testing.T) {
	f := buildClosingFixture()
	f.runDay(t)
	ctx := context.Background()

	first, err := f.closings.Save(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "1650", first.TotalPaidAmount.String())

	sum, err := f.closings.Summary(ctx, "")
	require.NoError(t, err)
	assert.True(t, sum.AlreadyExists)

	// Re-closing the same date overwrites in place: same ID, still one record.
	second, err := f.closings.Save(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	all, err := f.closings.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSave_InvalidDate(t *testing.T) {
	f := buildClosingFixture()
	_, err := f.closings.Save(context.Background(), "31-12-2026")
	assert.True(t, apierror.IsCode(err, apierror.CodeInvalidAmount))
}
