package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/vietanh2810/exhibition-api/internal/domain"
	"github.com/vietanh2810/exhibition-api/internal/repository/dao"
)

var (
	ErrRegistrationNotFound  = dao.ErrRegistrationNotFound
	ErrDuplicateRegistration = dao.ErrDuplicateRegistration
	ErrInvalidToken          = dao.ErrInvalidToken
	ErrAlreadyCheckedIn      = dao.ErrAlreadyCheckedIn
)

type RegistrationDAO interface {
	Insert(ctx context.Context, registration dao.Registration) (dao.Registration, error)
	CheckIn(ctx context.Context, token string, at time.Time) (dao.Registration, error)
	ToggleCheckIn(ctx context.Context, id uint, at time.Time) (dao.Registration, error)
	Delete(ctx context.Context, id uint, allow func(dao.Registration) error) (dao.Registration, error)
	FindByID(ctx context.Context, id uint) (dao.Registration, error)
	FindByVisitor(ctx context.Context, visitorID uint) ([]dao.Registration, error)
	FindByExhibition(ctx context.Context, exhibitionID uint) ([]dao.Registration, error)
}

type RegistrationRepository struct {
	dao RegistrationDAO
}

func NewRegistrationRepository(dao RegistrationDAO) *RegistrationRepository {
	return &RegistrationRepository{
		dao: dao,
	}
}

func (r *RegistrationRepository) Create(ctx context.Context, registration domain.Registration) (domain.Registration, error) {
	created, err := r.dao.Insert(ctx, dao.Registration{
		VisitorID:    registration.VisitorID,
		ExhibitionID: registration.ExhibitionID,
		Token:        registration.Token,
	})
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *RegistrationRepository) CheckIn(ctx context.Context, token string, at time.Time) (domain.Registration, error) {
	checked, err := r.dao.CheckIn(ctx, token, at)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.CheckIn -> %w", err)
	}

	return r.daoToDomain(checked), nil
}

func (r *RegistrationRepository) ToggleCheckIn(ctx context.Context, id uint, at time.Time) (domain.Registration, error) {
	toggled, err := r.dao.ToggleCheckIn(ctx, id, at)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.ToggleCheckIn -> %w", err)
	}

	return r.daoToDomain(toggled), nil
}

// Cancel deletes the registration when allow accepts it and releases its
// visitor slot.
func (r *RegistrationRepository) Cancel(ctx context.Context, id uint, allow func(domain.Registration) error) (domain.Registration, error) {
	deleted, err := r.dao.Delete(ctx, id, func(current dao.Registration) error {
		return allow(r.daoToDomain(current))
	})
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return r.daoToDomain(deleted), nil
}

func (r *RegistrationRepository) FindByID(ctx context.Context, id uint) (domain.Registration, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *RegistrationRepository) FindByVisitor(ctx context.Context, visitorID uint) ([]domain.Registration, error) {
	found, err := r.dao.FindByVisitor(ctx, visitorID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByVisitor -> %w", err)
	}

	return r.listToDomain(found), nil
}

func (r *RegistrationRepository) FindByExhibition(ctx context.Context, exhibitionID uint) ([]domain.Registration, error) {
	found, err := r.dao.FindByExhibition(ctx, exhibitionID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByExhibition -> %w", err)
	}

	return r.listToDomain(found), nil
}

func (r *RegistrationRepository) listToDomain(list []dao.Registration) []domain.Registration {
	registrations := make([]domain.Registration, len(list))
	for i, reg := range list {
		registrations[i] = r.daoToDomain(reg)
	}
	return registrations
}

func (r *RegistrationRepository) daoToDomain(reg dao.Registration) domain.Registration {
	return domain.Registration{
		ID:           reg.ID,
		VisitorID:    reg.VisitorID,
		ExhibitionID: reg.ExhibitionID,
		Token:        reg.Token,
		IsCheckedIn:  reg.IsCheckedIn,
		CheckedInAt:  reg.CheckedInAt,
		CreatedAt:    reg.CreatedAt,
		UpdatedAt:    reg.UpdatedAt,
	}
}
