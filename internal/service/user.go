package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vietanh2810/exhibition-api/internal/domain"
	"github.com/vietanh2810/exhibition-api/internal/repository"
)

var (
	ErrUserNotFound    = repository.ErrUserNotFound
	ErrUserEmailExists = repository.ErrUserEmailExists
	ErrProfileExists   = repository.ErrProfileExists
	ErrProfileNotFound = repository.ErrProfileNotFound
)

type UserRepository interface {
	Upsert(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindEmailsByRoles(ctx context.Context, roles ...domain.Role) ([]string, error)
	CreateProfile(ctx context.Context, user domain.User, profile domain.ExhibitorProfile) (domain.ExhibitorProfile, error)
	FindProfileByUserID(ctx context.Context, userID uint) (domain.ExhibitorProfile, error)
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

// Enroll records the caller in the user directory, refreshing email, name and
// granted roles from its token.
func (s *UserService) Enroll(ctx context.Context, actor domain.Actor) (domain.User, error) {
	if !actor.Authenticated() {
		return domain.User{}, ErrUnauthenticated
	}

	user, err := s.repo.Upsert(ctx, actor.User())
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Upsert -> %w", err)
	}

	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, actor domain.Actor, id uint) (domain.User, error) {
	if err := AuthorizeOwner(actor, id); err != nil {
		return domain.User{}, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) CreateExhibitorProfile(ctx context.Context, actor domain.Actor, profile domain.ExhibitorProfile) (domain.ExhibitorProfile, error) {
	if err := requireEligible(actor, domain.RoleExhibitor); err != nil {
		return domain.ExhibitorProfile{}, err
	}

	profile.UserID = actor.UserID
	created, err := s.repo.CreateProfile(ctx, actor.User(), profile)
	if err != nil {
		return domain.ExhibitorProfile{}, fmt.Errorf("s.repo.CreateProfile -> %w", err)
	}

	return created, nil
}

// HasExhibitorProfile reports whether the calling exhibitor already filled in
// a profile.
func (s *UserService) HasExhibitorProfile(ctx context.Context, actor domain.Actor) (bool, error) {
	if err := requireEligible(actor, domain.RoleExhibitor); err != nil {
		return false, err
	}

	_, err := s.repo.FindProfileByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("s.repo.FindProfileByUserID -> %w", err)
	}

	return true, nil
}
