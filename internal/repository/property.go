package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/exhibition-api/internal/domain"
	"github.com/vietanh2810/exhibition-api/internal/repository/dao"
)

var ErrPropertyNotFound = dao.ErrPropertyNotFound

type PropertyDAO interface {
	Insert(ctx context.Context, property dao.Property) (dao.Property, error)
	FindByID(ctx context.Context, id uint) (dao.Property, error)
	FindByOwner(ctx context.Context, ownerID uint) ([]dao.Property, error)
	FindAll(ctx context.Context) ([]dao.Property, error)
	Delete(ctx context.Context, id uint) error
}

type PropertyRepository struct {
	dao PropertyDAO
}

func NewPropertyRepository(dao PropertyDAO) *PropertyRepository {
	return &PropertyRepository{
		dao: dao,
	}
}

func (r *PropertyRepository) Create(ctx context.Context, property domain.Property) (domain.Property, error) {
	created, err := r.dao.Insert(ctx, dao.Property{
		OwnerID:      property.OwnerID,
		Title:        property.Title,
		PropertyType: property.PropertyType,
		Location:     property.Location,
		Price:        property.Price,
		Description:  property.Description,
	})
	if err != nil {
		return domain.Property{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *PropertyRepository) FindByID(ctx context.Context, id uint) (domain.Property, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Property{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *PropertyRepository) FindByOwner(ctx context.Context, ownerID uint) ([]domain.Property, error) {
	found, err := r.dao.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByOwner -> %w", err)
	}

	return r.listToDomain(found), nil
}

func (r *PropertyRepository) FindAll(ctx context.Context) ([]domain.Property, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.listToDomain(found), nil
}

func (r *PropertyRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *PropertyRepository) listToDomain(list []dao.Property) []domain.Property {
	properties := make([]domain.Property, len(list))
	for i, p := range list {
		properties[i] = r.daoToDomain(p)
	}
	return properties
}

func (r *PropertyRepository) daoToDomain(p dao.Property) domain.Property {
	return domain.Property{
		ID:           p.ID,
		OwnerID:      p.OwnerID,
		Title:        p.Title,
		PropertyType: p.PropertyType,
		Location:     p.Location,
		Price:        p.Price,
		Description:  p.Description,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
