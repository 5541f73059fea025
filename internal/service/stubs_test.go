package service_test

import (
	"context"
	"sort"
	"time"

	"aquadesk/internal/apierror"
	"aquadesk/internal/dto"
	"aquadesk/internal/model"
	"aquadesk/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repositories. DB() returns nil so services run their transaction
// bodies directly against these maps.

type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCustomerRepo) List(_ context.Context, includeInactive bool) ([]model.Customer, error) {
	var out []model.Customer
	for _, c := range r.customers {
		if includeInactive || c.IsActive {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	c, ok := r.customers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.IsActive = active
	return nil
}

func (r *stubCustomerRepo) AddBalanceTx(_ *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	c, ok := r.customers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.CurrentBalance = c.CurrentBalance.Add(delta)
	return nil
}

func (r *stubCustomerRepo) SetBalanceTx(_ *gorm.DB, id uuid.UUID, balance decimal.Decimal) error {
	c, ok := r.customers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.CurrentBalance = balance
	return nil
}

func (r *stubCustomerRepo) SumBalances(_ context.Context) (decimal.Decimal, decimal.Decimal, error) {
	receivable, payable := decimal.Zero, decimal.Zero
	for _, c := range r.customers {
		switch c.CurrentBalance.Sign() {
		case 1:
			receivable = receivable.Add(c.CurrentBalance)
		case -1:
			payable = payable.Add(c.CurrentBalance.Neg())
		}
	}
	return receivable, payable, nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

type stubRiderRepo struct {
	riders map[uuid.UUID]*model.Rider
}

func newStubRiderRepo() *stubRiderRepo {
	return &stubRiderRepo{riders: make(map[uuid.UUID]*model.Rider)}
}

func (r *stubRiderRepo) Create(_ context.Context, rd *model.Rider) error {
	if rd.ID == uuid.Nil {
		rd.ID = uuid.New()
	}
	r.riders[rd.ID] = rd
	return nil
}

func (r *stubRiderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Rider, error) {
	rd, ok := r.riders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return rd, nil
}

func (r *stubRiderRepo) List(_ context.Context, includeInactive bool) ([]model.Rider, error) {
	var out []model.Rider
	for _, rd := range r.riders {
		if includeInactive || rd.IsActive {
			out = append(out, *rd)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubRiderRepo) Update(_ context.Context, rd *model.Rider) error {
	r.riders[rd.ID] = rd
	return nil
}

func (r *stubRiderRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	rd, ok := r.riders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	rd.IsActive = active
	return nil
}

var _ repository.RiderRepository = (*stubRiderRepo)(nil)

type stubOrderRepo struct {
	orders map[uuid.UUID]*model.Order
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

func (r *stubOrderRepo) Create(_ context.Context, o *model.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	r.orders[o.ID] = o
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

// UpdateGuardedTx mirrors the SQL optimistic lock: no write unless the stored
// version still matches.
func (r *stubOrderRepo) UpdateGuardedTx(_ *gorm.DB, id uuid.UUID, expectedVersion int, fields map[string]interface{}) error {
	o, ok := r.orders[id]
	if !ok || o.Version != expectedVersion {
		return apierror.Conflict("order was modified concurrently; re-fetch and retry")
	}
	for k, v := range fields {
		switch k {
		case "status":
			o.Status = v.(model.OrderStatus)
		case "rider_id":
			rid := v.(uuid.UUID)
			o.RiderID = &rid
		case "paid_amount":
			o.PaidAmount = v.(decimal.Decimal)
		case "payment_status":
			ps := v.(model.PaymentStatus)
			o.PaymentStatus = &ps
		case "payment_method":
			pm := v.(model.PaymentMethod)
			o.PaymentMethod = &pm
		case "delivered_at":
			at := v.(time.Time)
			o.DeliveredAt = &at
		case "notes":
			n := v.(string)
			o.Notes = &n
		}
	}
	o.Version = expectedVersion + 1
	return nil
}

func (r *stubOrderRepo) List(_ context.Context, filter dto.OrderFilter, from, to time.Time) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range r.orders {
		if o.CreatedAt.Before(from) || !o.CreatedAt.Before(to) {
			continue
		}
		if filter.Status != "" && filter.Status != "all" && string(o.Status) != filter.Status {
			continue
		}
		if filter.Type != "" && filter.Type != "all" && string(o.OrderType) != filter.Type {
			continue
		}
		if filter.RiderID != "" && (o.RiderID == nil || o.RiderID.String() != filter.RiderID) {
			continue
		}
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) ListByCreatedRange(_ context.Context, from, to time.Time) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.orders {
		if !o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *stubOrderRepo) CountOpenInRange(_ context.Context, from, to time.Time) (int64, error) {
	var n int64
	for _, o := range r.orders {
		if !o.CreatedAt.Before(from) && o.CreatedAt.Before(to) && o.Status.Open() {
			n++
		}
	}
	return n, nil
}

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

type stubClosingRepo struct {
	byDate map[string]*model.DailyClosing
}

func newStubClosingRepo() *stubClosingRepo {
	return &stubClosingRepo{byDate: make(map[string]*model.DailyClosing)}
}

func (r *stubClosingRepo) FindByDate(_ context.Context, date time.Time) (*model.DailyClosing, error) {
	c, ok := r.byDate[date.Format("2006-01-02")]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubClosingRepo) FindByDateString(_ context.Context, date string) (*model.DailyClosing, error) {
	c, ok := r.byDate[date]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubClosingRepo) Upsert(_ context.Context, c *model.DailyClosing) error {
	key := c.ClosingDate.Format("2006-01-02")
	if prev, ok := r.byDate[key]; ok {
		c.ID = prev.ID
		c.CreatedAt = prev.CreatedAt
	} else if c.ID == uuid.Nil {
		c.ID = uuid.New()
		c.CreatedAt = time.Now()
	}
	c.UpdatedAt = time.Now()
	r.byDate[key] = c
	return nil
}

func (r *stubClosingRepo) List(_ context.Context) ([]model.DailyClosing, error) {
	var out []model.DailyClosing
	for _, c := range r.byDate {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClosingDate.After(out[j].ClosingDate) })
	return out, nil
}

var _ repository.ClosingRepository = (*stubClosingRepo)(nil)
