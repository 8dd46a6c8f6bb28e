package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vietanh2810/exhibition-api/internal/domain"
	"github.com/vietanh2810/exhibition-api/internal/repository"
)

var (
	ErrPropertyNotFound = repository.ErrPropertyNotFound
	ErrInvalidPrice     = errors.New("price must not be negative")
)

type PropertyRepository interface {
	Create(ctx context.Context, property domain.Property) (domain.Property, error)
	FindByID(ctx context.Context, id uint) (domain.Property, error)
	FindByOwner(ctx context.Context, ownerID uint) ([]domain.Property, error)
	FindAll(ctx context.Context) ([]domain.Property, error)
	Delete(ctx context.Context, id uint) error
}

type PropertyService struct {
	repo  PropertyRepository
	users UserRepository
}

func NewPropertyService(repo PropertyRepository, users UserRepository) *PropertyService {
	return &PropertyService{
		repo:  repo,
		users: users,
	}
}

func (s *PropertyService) Create(ctx context.Context, actor domain.Actor, property domain.Property) (domain.Property, error) {
	if err := requireEligible(actor, domain.RoleExhibitor); err != nil {
		return domain.Property{}, err
	}
	if property.Price < 0 {
		return domain.Property{}, ErrInvalidPrice
	}

	if _, err := s.users.Upsert(ctx, actor.User()); err != nil {
		return domain.Property{}, fmt.Errorf("s.users.Upsert -> %w", err)
	}

	property.OwnerID = actor.UserID
	created, err := s.repo.Create(ctx, property)
	if err != nil {
		return domain.Property{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *PropertyService) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Property, error) {
	if err := requireEligible(actor, domain.RoleExhibitor); err != nil {
		return nil, err
	}

	properties, err := s.repo.FindByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByOwner -> %w", err)
	}

	return properties, nil
}

func (s *PropertyService) ListAll(ctx context.Context) ([]domain.Property, error) {
	properties, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return properties, nil
}

// Delete removes a property. Only its owner may delete it.
func (s *PropertyService) Delete(ctx context.Context, actor domain.Actor, id uint) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}

	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if property.OwnerID != actor.UserID {
		return ErrForbidden
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
