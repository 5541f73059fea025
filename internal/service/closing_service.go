package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"aquadesk/internal/apierror"
	"aquadesk/internal/dto"
	"aquadesk/internal/events"
	"aquadesk/internal/model"
	"aquadesk/internal/repository"
	"aquadesk/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ClosingService produces and persists the end-of-day reconciliation snapshot.
// The business day runs midnight to midnight in the configured timezone and is
// always an explicit parameter — there is no ambient "today".
type ClosingService interface {
	// Summary computes the read-only aggregate for one calendar date.
	// date == "" means today in business time.
	Summary(ctx context.Context, date string) (*dto.ClosingSummaryResponse, error)
	// Save re-checks the closing precondition and upserts the snapshot —
	// one record per date, overwritten on re-close, never duplicated.
	Save(ctx context.Context, date string) (*dto.ClosingResponse, error)
	List(ctx context.Context) ([]dto.ClosingResponse, error)
}

type closingService struct {
	orders     repository.OrderRepository
	closings   repository.ClosingRepository
	riders     repository.RiderRepository
	ledger     LedgerService
	publisher  events.Publisher
	dispatcher *worker.Dispatcher
	loc        *time.Location
}

func NewClosingService(
	orders repository.OrderRepository,
	closings repository.ClosingRepository,
	riders repository.RiderRepository,
	ledger LedgerService,
	publisher events.Publisher,
	dispatcher *worker.Dispatcher,
	loc *time.Location,
) ClosingService {
	return &closingService{
		orders:     orders,
		closings:   closings,
		riders:     riders,
		ledger:     ledger,
		publisher:  publisher,
		dispatcher: dispatcher,
		loc:        loc,
	}
}

// dayBounds resolves a YYYY-MM-DD string (or "" = today) to the half-open
// interval [00:00, 24:00) in business time.
func (s *closingService) dayBounds(date string) (time.Time, time.Time, time.Time, error) {
	day := time.Now().In(s.loc)
	if date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", date, s.loc)
		if err != nil {
			return time.Time{}, time.Time{}, time.Time{}, apierror.InvalidAmount("date must be YYYY-MM-DD")
		}
		day = parsed
	}
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.loc)
	return from, from.AddDate(0, 0, 1), from, nil
}

func (s *closingService) Summary(ctx context.Context, date string) (*dto.ClosingSummaryResponse, error) {
	from, to, day, err := s.dayBounds(date)
	if err != nil {
		return nil, err
	}
	closing, openOrders, err := s.aggregate(ctx, from, to, day)
	if err != nil {
		return nil, err
	}

	alreadyExists := true
	if _, err := s.closings.FindByDate(ctx, day); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		alreadyExists = false
	}

	return summaryToResponse(closing, day, openOrders, alreadyExists), nil
}

func (s *closingService) Save(ctx context.Context, date string) (*dto.ClosingResponse, error) {
	from, to, day, err := s.dayBounds(date)
	if err != nil {
		return nil, err
	}

	// Precondition is re-checked here, never reused from a stale summary read.
	closing, openOrders, err := s.aggregate(ctx, from, to, day)
	if err != nil {
		return nil, err
	}
	if openOrders > 0 {
		return nil, apierror.ClosingPrecondition("cannot close the counter: orders are still in progress for this date")
	}

	if err := s.closings.Upsert(ctx, closing); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.Event{
		Type: events.ClosingSaved,
		Date: day.Format("2006-01-02"),
	})

	saved, err := s.closings.FindByDate(ctx, day)
	if err != nil {
		return nil, err
	}

	// Report rendering and mail are best-effort — fire and forget.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueClosingReport(ctx, worker.ClosingReportPayload{
			ClosingID: saved.ID.String(),
			Date:      day.Format("2006-01-02"),
		})
	}

	return closingToResponse(saved), nil
}

func (s *closingService) List(ctx context.Context) ([]dto.ClosingResponse, error) {
	closings, err := s.closings.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClosingResponse, 0, len(closings))
	for i := range closings {
		out = append(out, *closingToResponse(&closings[i]))
	}
	return out, nil
}

// aggregate scans one day's orders without mutating them and returns the
// snapshot plus the count of orders still blocking the close.
func (s *closingService) aggregate(ctx context.Context, from, to, day time.Time) (*model.DailyClosing, int, error) {
	orders, err := s.orders.ListByCreatedRange(ctx, from, to)
	if err != nil {
		return nil, 0, err
	}

	riderNames := make(map[uuid.UUID]string)
	riders, err := s.riders.List(ctx, true)
	if err != nil {
		return nil, 0, err
	}
	for _, r := range riders {
		riderNames[r.ID] = r.Name
	}

	closing := &model.DailyClosing{
		ClosingDate:             day,
		TotalCurrentOrderAmount: decimal.Zero,
		TotalPaidAmount:         decimal.Zero,
		WalkInAmount:            decimal.Zero,
		ClearBillAmount:         decimal.Zero,
	}

	openOrders := 0
	riderTotals := make(map[uuid.UUID]*model.ClosingRiderCollection)
	methodTotals := make(map[model.PaymentMethod]*model.ClosingMethodTotal)

	for i := range orders {
		o := &orders[i]
		closing.TotalOrders++
		closing.TotalBottles += o.NumberOfBottles
		closing.TotalCurrentOrderAmount = closing.TotalCurrentOrderAmount.Add(o.CurrentOrderAmount)

		if o.Status.Open() {
			openOrders++
		}
		if o.Status != model.StatusDelivered {
			continue
		}

		closing.TotalPaidAmount = closing.TotalPaidAmount.Add(o.PaidAmount)

		switch o.OrderType {
		case model.OrderTypeWalkIn:
			closing.WalkInAmount = closing.WalkInAmount.Add(o.PaidAmount)
		case model.OrderTypeClearBill:
			closing.ClearBillAmount = closing.ClearBillAmount.Add(o.PaidAmount)
		case model.OrderTypeDelivery:
			if o.RiderID != nil {
				rc, ok := riderTotals[*o.RiderID]
				if !ok {
					rc = &model.ClosingRiderCollection{
						RiderID:   *o.RiderID,
						RiderName: riderNames[*o.RiderID],
						Collected: decimal.Zero,
					}
					riderTotals[*o.RiderID] = rc
				}
				rc.Collected = rc.Collected.Add(o.PaidAmount)
				rc.OrderCount++
			}
		}

		if o.PaymentMethod != nil {
			mt, ok := methodTotals[*o.PaymentMethod]
			if !ok {
				mt = &model.ClosingMethodTotal{Method: *o.PaymentMethod, Collected: decimal.Zero}
				methodTotals[*o.PaymentMethod] = mt
			}
			mt.Collected = mt.Collected.Add(o.PaidAmount)
			mt.OrderCount++
		}
	}

	closing.BalanceClearedToday = closing.TotalCurrentOrderAmount.Sub(closing.TotalPaidAmount)

	receivable, payable, err := s.ledger.Snapshot(ctx)
	if err != nil {
		return nil, 0, err
	}
	closing.CustomerReceivable = receivable
	closing.CustomerPayable = payable

	for _, rc := range riderTotals {
		closing.RiderCollections = append(closing.RiderCollections, *rc)
	}
	sort.Slice(closing.RiderCollections, func(i, j int) bool {
		return closing.RiderCollections[i].RiderName < closing.RiderCollections[j].RiderName
	})
	for _, mt := range methodTotals {
		closing.PaymentMethods = append(closing.PaymentMethods, *mt)
	}
	sort.Slice(closing.PaymentMethods, func(i, j int) bool {
		return closing.PaymentMethods[i].Method < closing.PaymentMethods[j].Method
	})

	return closing, openOrders, nil
}

// movementLabel names the sign of balanceClearedToday: positive means new
// debt accrued ("udhaar"), negative means debt was recovered.
func movementLabel(cleared decimal.Decimal) string {
	switch cleared.Sign() {
	case 1:
		return "udhaar"
	case -1:
		return "recovery"
	default:
		return "even"
	}
}

func summaryToResponse(c *model.DailyClosing, day time.Time, openOrders int, alreadyExists bool) *dto.ClosingSummaryResponse {
	return &dto.ClosingSummaryResponse{
		Date:                    day.Format("2006-01-02"),
		CanClose:                openOrders == 0,
		OpenOrders:              openOrders,
		AlreadyExists:           alreadyExists,
		TotalOrders:             c.TotalOrders,
		TotalBottles:            c.TotalBottles,
		TotalCurrentOrderAmount: c.TotalCurrentOrderAmount,
		TotalPaidAmount:         c.TotalPaidAmount,
		BalanceClearedToday:     c.BalanceClearedToday,
		Movement:                movementLabel(c.BalanceClearedToday),
		WalkInAmount:            c.WalkInAmount,
		ClearBillAmount:         c.ClearBillAmount,
		CustomerReceivable:      c.CustomerReceivable,
		CustomerPayable:         c.CustomerPayable,
		RiderCollections:        riderCollectionsToResponse(c.RiderCollections),
		PaymentMethods:          methodTotalsToResponse(c.PaymentMethods),
	}
}

func closingToResponse(c *model.DailyClosing) *dto.ClosingResponse {
	return &dto.ClosingResponse{
		ID:                      c.ID.String(),
		Date:                    c.ClosingDate.Format("2006-01-02"),
		CustomerReceivable:      c.CustomerReceivable,
		CustomerPayable:         c.CustomerPayable,
		TotalOrders:             c.TotalOrders,
		TotalBottles:            c.TotalBottles,
		TotalCurrentOrderAmount: c.TotalCurrentOrderAmount,
		TotalPaidAmount:         c.TotalPaidAmount,
		BalanceClearedToday:     c.BalanceClearedToday,
		Movement:                movementLabel(c.BalanceClearedToday),
		WalkInAmount:            c.WalkInAmount,
		ClearBillAmount:         c.ClearBillAmount,
		RiderCollections:        riderCollectionsToResponse(c.RiderCollections),
		PaymentMethods:          methodTotalsToResponse(c.PaymentMethods),
		CreatedAt:               c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:               c.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func riderCollectionsToResponse(in []model.ClosingRiderCollection) []dto.RiderCollectionResponse {
	out := make([]dto.RiderCollectionResponse, 0, len(in))
	for _, rc := range in {
		out = append(out, dto.RiderCollectionResponse{
			RiderID:    rc.RiderID.String(),
			RiderName:  rc.RiderName,
			Collected:  rc.Collected,
			OrderCount: rc.OrderCount,
		})
	}
	return out
}

func methodTotalsToResponse(in []model.ClosingMethodTotal) []dto.MethodTotalResponse {
	out := make([]dto.MethodTotalResponse, 0, len(in))
	for _, mt := range in {
		out = append(out, dto.MethodTotalResponse{
			Method:     string(mt.Method),
			Collected:  mt.Collected,
			OrderCount: mt.OrderCount,
		})
	}
	return out
}
