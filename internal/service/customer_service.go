package service

import (
	"context"
	"errors"
	"time"

	"aquadesk/internal/apierror"
	"aquadesk/internal/dto"
	"aquadesk/internal/model"
	"aquadesk/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerService interface {
	Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	List(ctx context.Context, includeInactive bool) ([]dto.CustomerResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
	Balance(ctx context.Context, id uuid.UUID) (*dto.BalanceResponse, error)
}

type customerService struct {
	repo   repository.CustomerRepository
	ledger LedgerService
}

func NewCustomerService(repo repository.CustomerRepository, ledger LedgerService) CustomerService {
	return &customerService{repo: repo, ledger: ledger}
}

func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	c := &model.Customer{
		Name:     req.Name,
		Phone:    req.Phone,
		Whatsapp: req.Whatsapp,
		Address:  req.Address,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return customerToResponse(c), nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	c, err := s.findCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	return customerToResponse(c), nil
}

func (s *customerService) List(ctx context.Context, includeInactive bool) ([]dto.CustomerResponse, error) {
	customers, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CustomerResponse, len(customers))
	for i := range customers {
		resp[i] = *customerToResponse(&customers[i])
	}
	return resp, nil
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := s.findCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = req.Name
	c.Phone = req.Phone
	c.Whatsapp = req.Whatsapp
	c.Address = req.Address
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return customerToResponse(c), nil
}

// Deactivate hides the customer from new orders. The balance is kept:
// a deactivated customer with outstanding udhaar still shows in the ledger.
func (s *customerService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findCustomer(ctx, id); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, id, false)
}

func (s *customerService) Reactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findCustomer(ctx, id); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, id, true)
}

func (s *customerService) Balance(ctx context.Context, id uuid.UUID) (*dto.BalanceResponse, error) {
	balance, label, err := s.ledger.GetBalance(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceResponse{
		CustomerID:   id.String(),
		Balance:      balance,
		BalanceLabel: string(label),
	}, nil
}

func (s *customerService) findCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("customer not found")
		}
		return nil, err
	}
	return c, nil
}

func customerToResponse(c *model.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:             c.ID.String(),
		Name:           c.Name,
		Phone:          c.Phone,
		Whatsapp:       c.Whatsapp,
		Address:        c.Address,
		CurrentBalance: c.CurrentBalance,
		BalanceLabel:   string(model.LabelForBalance(c.CurrentBalance)),
		IsActive:       c.IsActive,
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
	}
}
