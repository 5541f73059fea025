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

type RiderService interface {
	Create(ctx context.Context, req dto.CreateRiderRequest) (*dto.RiderResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.RiderResponse, error)
	List(ctx context.Context, includeInactive bool) ([]dto.RiderResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateRiderRequest) (*dto.RiderResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
}

type riderService struct {
	repo repository.RiderRepository
}

func NewRiderService(repo repository.RiderRepository) RiderService {
	return &riderService{repo: repo}
}

func (s *riderService) Create(ctx context.Context, req dto.CreateRiderRequest) (*dto.RiderResponse, error) {
	rd := &model.Rider{
		Name:     req.Name,
		Phone:    req.Phone,
		Whatsapp: req.Whatsapp,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, rd); err != nil {
		return nil, err
	}
	return riderToResponse(rd), nil
}

func (s *riderService) Get(ctx context.Context, id uuid.UUID) (*dto.RiderResponse, error) {
	rd, err := s.findRider(ctx, id)
	if err != nil {
		return nil, err
	}
	return riderToResponse(rd), nil
}

func (s *riderService) List(ctx context.Context, includeInactive bool) ([]dto.RiderResponse, error) {
	riders, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.RiderResponse, len(riders))
	for i := range riders {
		resp[i] = *riderToResponse(&riders[i])
	}
	return resp, nil
}

func (s *riderService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateRiderRequest) (*dto.RiderResponse, error) {
	rd, err := s.findRider(ctx, id)
	if err != nil {
		return nil, err
	}
	rd.Name = req.Name
	rd.Phone = req.Phone
	rd.Whatsapp = req.Whatsapp
	if err := s.repo.Update(ctx, rd); err != nil {
		return nil, err
	}
	return riderToResponse(rd), nil
}

// Deactivate blocks future assignments. Orders already assigned to the rider
// stay assigned; deactivation is not a reassignment.
func (s *riderService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findRider(ctx, id); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, id, false)
}

func (s *riderService) Reactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findRider(ctx, id); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, id, true)
}

func (s *riderService) findRider(ctx context.Context, id uuid.UUID) (*model.Rider, error) {
	rd, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("rider not found")
		}
		return nil, err
	}
	return rd, nil
}

func riderToResponse(rd *model.Rider) *dto.RiderResponse {
	return &dto.RiderResponse{
		ID:        rd.ID.String(),
		Name:      rd.Name,
		Phone:     rd.Phone,
		Whatsapp:  rd.Whatsapp,
		IsActive:  rd.IsActive,
		CreatedAt: rd.CreatedAt.Format(time.RFC3339),
	}
}
