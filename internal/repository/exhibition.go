package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/vietanh2810/exhibition-api/internal/domain"
	"github.com/vietanh2810/exhibition-api/internal/repository/dao"
)

var (
	ErrExhibitionNotFound = dao.ErrExhibitionNotFound
	ErrExhibitionInactive = dao.ErrExhibitionInactive
	ErrCapacityExhausted  = dao.ErrCapacityExhausted
	ErrInvalidCapacity    = dao.ErrInvalidCapacity
)

type ExhibitionDAO interface {
	Insert(ctx context.Context, exhibition dao.Exhibition) (dao.Exhibition, error)
	FindByID(ctx context.Context, id uint) (dao.Exhibition, error)
	FindActive(ctx context.Context) ([]dao.Exhibition, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) (dao.Exhibition, error)
	Delete(ctx context.Context, id uint) error
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

type LedgerDAO interface {
	Resize(ctx context.Context, exhibitionID uint, r dao.Resource, newCapacity int) (dao.Exhibition, error)
}

type ExhibitionRepository struct {
	dao    ExhibitionDAO
	ledger LedgerDAO
}

func NewExhibitionRepository(dao ExhibitionDAO, ledger LedgerDAO) *ExhibitionRepository {
	return &ExhibitionRepository{
		dao:    dao,
		ledger: ledger,
	}
}

func (r *ExhibitionRepository) Create(ctx context.Context, exhibition domain.Exhibition) (domain.Exhibition, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(exhibition))
	if err != nil {
		return domain.Exhibition{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ExhibitionRepository) FindByID(ctx context.Context, id uint) (domain.Exhibition, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Exhibition{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ExhibitionRepository) FindActive(ctx context.Context) ([]domain.Exhibition, error) {
	found, err := r.dao.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindActive -> %w", err)
	}

	exhibitions := make([]domain.Exhibition, len(found))
	for i, e := range found {
		exhibitions[i] = r.daoToDomain(e)
	}

	return exhibitions, nil
}

func (r *ExhibitionRepository) UpdateDetails(ctx context.Context, id uint, details domain.ExhibitionDetails) (domain.Exhibition, error) {
	updated, err := r.dao.Update(ctx, id, r.detailsToUpdates(details))
	if err != nil {
		return domain.Exhibition{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *ExhibitionRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *ExhibitionRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	n, err := r.dao.DeactivateExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("r.dao.DeactivateExpired -> %w", err)
	}

	return n, nil
}

func (r *ExhibitionRepository) Resize(ctx context.Context, exhibitionID uint, res domain.Resource, newCapacity int) (domain.Exhibition, error) {
	resized, err := r.ledger.Resize(ctx, exhibitionID, dao.Resource(res), newCapacity)
	if err != nil {
		return domain.Exhibition{}, fmt.Errorf("r.ledger.Resize -> %w", err)
	}

	return r.daoToDomain(resized), nil
}

func (r *ExhibitionRepository) detailsToUpdates(d domain.ExhibitionDetails) map[string]interface{} {
	updates := map[string]interface{}{}
	if d.Name != nil {
		updates["name"] = *d.Name
	}
	if d.Description != nil {
		updates["description"] = *d.Description
	}
	if d.Venue != nil {
		updates["venue"] = *d.Venue
	}
	if d.City != nil {
		updates["city"] = *d.City
	}
	if d.State != nil {
		updates["state"] = *d.State
	}
	if d.Country != nil {
		updates["country"] = *d.Country
	}
	if d.StartDate != nil {
		updates["start_date"] = *d.StartDate
	}
	if d.EndDate != nil {
		updates["end_date"] = *d.EndDate
	}
	if d.IsActive != nil {
		updates["is_active"] = *d.IsActive
	}
	return updates
}

func (r *ExhibitionRepository) domainToDao(e domain.Exhibition) dao.Exhibition {
	return dao.Exhibition{
		ID:                e.ID,
		Name:              e.Name,
		Description:       e.Description,
		Venue:             e.Venue,
		City:              e.City,
		State:             e.State,
		Country:           e.Country,
		StartDate:         e.StartDate,
		EndDate:           e.EndDate,
		BoothCapacity:     e.BoothCapacity,
		VisitorCapacity:   e.VisitorCapacity,
		AvailableBooths:   e.AvailableBooths,
		AvailableVisitors: e.AvailableVisitors,
		IsActive:          e.IsActive,
		CreatedByID:       e.CreatedByID,
	}
}

func (r *ExhibitionRepository) daoToDomain(e dao.Exhibition) domain.Exhibition {
	return domain.Exhibition{
		ID:                e.ID,
		Name:              e.Name,
		Description:       e.Description,
		Venue:             e.Venue,
		City:              e.City,
		State:             e.State,
		Country:           e.Country,
		StartDate:         e.StartDate,
		EndDate:           e.EndDate,
		BoothCapacity:     e.BoothCapacity,
		VisitorCapacity:   e.VisitorCapacity,
		AvailableBooths:   e.AvailableBooths,
		AvailableVisitors: e.AvailableVisitors,
		IsActive:          e.IsActive,
		CreatedByID:       e.CreatedByID,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}
