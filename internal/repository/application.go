package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/vietanh2810/exhibition-api/internal/domain"
	"github.com/vietanh2810/exhibition-api/internal/repository/dao"
)

var (
	ErrApplicationNotFound  = dao.ErrApplicationNotFound
	ErrDuplicateApplication = dao.ErrDuplicateApplication
	ErrBoothTaken           = dao.ErrBoothTaken
	ErrInvalidTransition    = domain.ErrInvalidTransition
)

type ApplicationDAO interface {
	Insert(ctx context.Context, application dao.Application) (dao.Application, error)
	Transition(ctx context.Context, id uint, reserveBooth bool, decide func(dao.Application) (dao.Application, error)) (dao.Application, error)
	FindByID(ctx context.Context, id uint) (dao.Application, error)
	FindViewByID(ctx context.Context, id uint) (dao.ApplicationView, error)
	FindViewsByExhibitor(ctx context.Context, exhibitorID uint) ([]dao.ApplicationView, error)
	FindViewsByExhibition(ctx context.Context, exhibitionID uint, status string) ([]dao.ApplicationView, error)
}

type ApplicationRepository struct {
	dao ApplicationDAO
}

func NewApplicationRepository(dao ApplicationDAO) *ApplicationRepository {
	return &ApplicationRepository{
		dao: dao,
	}
}

func (r *ApplicationRepository) Create(ctx context.Context, application domain.Application) (domain.Application, error) {
	created, err := r.dao.Insert(ctx, dao.Application{
		ExhibitorID:   application.ExhibitorID,
		ExhibitionID:  application.ExhibitionID,
		Status:        string(domain.ApplicationPending),
		AttachmentRef: application.AttachmentRef,
	})
	if err != nil {
		return domain.Application{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

// Approve runs the PENDING -> APPROVED transition and takes one booth from the
// exhibition in the same transaction.
func (r *ApplicationRepository) Approve(ctx context.Context, id uint, boothNumber, badgeRef string, at time.Time) (domain.Application, error) {
	approved, err := r.dao.Transition(ctx, id, true, func(current dao.Application) (dao.Application, error) {
		application := r.daoToDomain(current)
		if err := application.Approve(boothNumber, badgeRef, at); err != nil {
			return dao.Application{}, err
		}
		return r.domainToDao(application), nil
	})
	if err != nil {
		return domain.Application{}, fmt.Errorf("r.dao.Transition -> %w", err)
	}

	return r.daoToDomain(approved), nil
}

func (r *ApplicationRepository) Reject(ctx context.Context, id uint, at time.Time) (domain.Application, error) {
	rejected, err := r.dao.Transition(ctx, id, false, func(current dao.Application) (dao.Application, error) {
		application := r.daoToDomain(current)
		if err := application.Reject(at); err != nil {
			return dao.Application{}, err
		}
		return r.domainToDao(application), nil
	})
	if err != nil {
		return domain.Application{}, fmt.Errorf("r.dao.Transition -> %w", err)
	}

	return r.daoToDomain(rejected), nil
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id uint) (domain.Application, error) {
	view, err := r.dao.FindViewByID(ctx, id)
	if err != nil {
		return domain.Application{}, fmt.Errorf("r.dao.FindViewByID -> %w", err)
	}

	return r.viewToDomain(view), nil
}

func (r *ApplicationRepository) FindByExhibitor(ctx context.Context, exhibitorID uint) ([]domain.Application, error) {
	views, err := r.dao.FindViewsByExhibitor(ctx, exhibitorID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindViewsByExhibitor -> %w", err)
	}

	return r.viewsToDomain(views), nil
}

func (r *ApplicationRepository) FindByExhibition(ctx context.Context, exhibitionID uint, status domain.ApplicationStatus) ([]domain.Application, error) {
	views, err := r.dao.FindViewsByExhibition(ctx, exhibitionID, string(status))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindViewsByExhibition -> %w", err)
	}

	return r.viewsToDomain(views), nil
}

func (r *ApplicationRepository) viewsToDomain(views []dao.ApplicationView) []domain.Application {
	applications := make([]domain.Application, len(views))
	for i, v := range views {
		applications[i] = r.viewToDomain(v)
	}
	return applications
}

func (r *ApplicationRepository) viewToDomain(v dao.ApplicationView) domain.Application {
	application := r.daoToDomain(v.Application)
	application.ExhibitorEmail = v.ExhibitorEmail
	application.ExhibitorName = v.ExhibitorName
	application.ExhibitionName = v.ExhibitionName
	return application
}

func (r *ApplicationRepository) domainToDao(a domain.Application) dao.Application {
	var booth *string
	if a.BoothNumber != "" {
		b := a.BoothNumber
		booth = &b
	}

	return dao.Application{
		ID:            a.ID,
		ExhibitorID:   a.ExhibitorID,
		ExhibitionID:  a.ExhibitionID,
		Status:        string(a.Status),
		BoothNumber:   booth,
		AttachmentRef: a.AttachmentRef,
		BadgeRef:      a.BadgeRef,
		DecidedAt:     a.DecidedAt,
	}
}

func (r *ApplicationRepository) daoToDomain(a dao.Application) domain.Application {
	var booth string
	if a.BoothNumber != nil {
		booth = *a.BoothNumber
	}

	return domain.Application{
		ID:            a.ID,
		ExhibitorID:   a.ExhibitorID,
		ExhibitionID:  a.ExhibitionID,
		Status:        domain.ApplicationStatus(a.Status),
		BoothNumber:   booth,
		AttachmentRef: a.AttachmentRef,
		BadgeRef:      a.BadgeRef,
		DecidedAt:     a.DecidedAt,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}
