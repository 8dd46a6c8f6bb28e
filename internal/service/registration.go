package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vietanh2810/exhibition-api/internal/domain"
	"github.com/vietanh2810/exhibition-api/internal/repository"
)

var (
	ErrRegistrationNotFound  = repository.ErrRegistrationNotFound
	ErrDuplicateRegistration = repository.ErrDuplicateRegistration
	ErrInvalidToken          = repository.ErrInvalidToken
	ErrAlreadyCheckedIn      = repository.ErrAlreadyCheckedIn
)

type RegistrationRepository interface {
	Create(ctx context.Context, registration domain.Registration) (domain.Registration, error)
	CheckIn(ctx context.Context, token string, at time.Time) (domain.Registration, error)
	ToggleCheckIn(ctx context.Context, id uint, at time.Time) (domain.Registration, error)
	Cancel(ctx context.Context, id uint, allow func(domain.Registration) error) (domain.Registration, error)
	FindByID(ctx context.Context, id uint) (domain.Registration, error)
	FindByVisitor(ctx context.Context, visitorID uint) ([]domain.Registration, error)
	FindByExhibition(ctx context.Context, exhibitionID uint) ([]domain.Registration, error)
}

// PassEncoder renders the QR credential of a registration as an image.
type PassEncoder interface {
	Encode(payload string) ([]byte, error)
}

type RegistrationService struct {
	repo        RegistrationRepository
	exhibitions ExhibitionRepository
	users       UserRepository
	passes      PassEncoder
	feed        GateFeed
	now         func() time.Time
	newToken    func() string
}

func NewRegistrationService(repo RegistrationRepository, exhibitions ExhibitionRepository, users UserRepository, passes PassEncoder, feed GateFeed) *RegistrationService {
	return &RegistrationService{
		repo:        repo,
		exhibitions: exhibitions,
		users:       users,
		passes:      passes,
		feed:        feed,
		now:         time.Now,
		newToken:    uuid.NewString,
	}
}

// Register takes one visitor slot of the exhibition right away and issues a
// fresh random QR token.
func (s *RegistrationService) Register(ctx context.Context, actor domain.Actor, exhibitionID uint) (domain.Registration, error) {
	if err := requireEligible(actor, domain.RoleVisitor); err != nil {
		return domain.Registration{}, err
	}

	if _, err := s.users.Upsert(ctx, actor.User()); err != nil {
		return domain.Registration{}, fmt.Errorf("s.users.Upsert -> %w", err)
	}

	registration, err := s.repo.Create(ctx, domain.Registration{
		VisitorID:    actor.UserID,
		ExhibitionID: exhibitionID,
		Token:        s.newToken(),
	})
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	zap.L().Info("visitor registered",
		zap.Uint("registration_id", registration.ID),
		zap.Uint("exhibition_id", exhibitionID),
		zap.Uint("visitor_id", actor.UserID))

	return registration, nil
}

// CheckIn admits the holder of token. Each token is admitted once; later scans
// fail with ErrAlreadyCheckedIn.
func (s *RegistrationService) CheckIn(ctx context.Context, actor domain.Actor, token string) (domain.Registration, error) {
	if err := Authorize(actor, domain.RoleAdmin); err != nil {
		return domain.Registration{}, err
	}

	parsed, err := uuid.Parse(token)
	if err != nil {
		return domain.Registration{}, ErrInvalidToken
	}

	registration, err := s.repo.CheckIn(ctx, parsed.String(), s.now())
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.CheckIn -> %w", err)
	}

	zap.L().Info("visitor checked in",
		zap.Uint("registration_id", registration.ID),
		zap.Uint("exhibition_id", registration.ExhibitionID))
	s.publish(domain.GateEventScan, registration)

	return registration, nil
}

// ToggleCheckIn flips the check-in flag of a registration either way. It is an
// operator correction and does not follow the one-time scan rule.
func (s *RegistrationService) ToggleCheckIn(ctx context.Context, actor domain.Actor, id uint) (domain.Registration, error) {
	if err := Authorize(actor, domain.RoleAdmin); err != nil {
		return domain.Registration{}, err
	}

	registration, err := s.repo.ToggleCheckIn(ctx, id, s.now())
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.ToggleCheckIn -> %w", err)
	}

	zap.L().Info("check-in toggled",
		zap.Uint("registration_id", registration.ID),
		zap.Bool("is_checked_in", registration.IsCheckedIn),
		zap.Uint("admin_id", actor.UserID))
	s.publish(domain.GateEventToggle, registration)

	return registration, nil
}

func (s *RegistrationService) publish(eventType string, registration domain.Registration) {
	if s.feed == nil {
		return
	}

	s.feed.Publish(domain.GateEvent{
		Type:           eventType,
		RegistrationID: registration.ID,
		VisitorID:      registration.VisitorID,
		ExhibitionID:   registration.ExhibitionID,
		IsCheckedIn:    registration.IsCheckedIn,
		At:             s.now(),
	})
}

// Cancel lets a visitor drop a registration that was not used yet. The
// visitor slot goes back to the exhibition.
func (s *RegistrationService) Cancel(ctx context.Context, actor domain.Actor, id uint) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}

	_, err := s.repo.Cancel(ctx, id, func(registration domain.Registration) error {
		if registration.VisitorID != actor.UserID {
			return ErrForbidden
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("s.repo.Cancel -> %w", err)
	}

	zap.L().Info("registration cancelled", zap.Uint("registration_id", id))

	return nil
}

func (s *RegistrationService) GetRegistration(ctx context.Context, actor domain.Actor, id uint) (domain.Registration, error) {
	if !actor.Authenticated() {
		return domain.Registration{}, ErrUnauthenticated
	}

	registration, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if err = AuthorizeOwner(actor, registration.VisitorID); err != nil {
		return domain.Registration{}, err
	}

	return registration, nil
}

// Pass renders the QR pass of a registration as a PNG image.
func (s *RegistrationService) Pass(ctx context.Context, actor domain.Actor, id uint) ([]byte, error) {
	registration, err := s.GetRegistration(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	png, err := s.passes.Encode(registration.Token)
	if err != nil {
		return nil, fmt.Errorf("s.passes.Encode -> %w", err)
	}

	return png, nil
}

func (s *RegistrationService) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Registration, error) {
	if err := requireEligible(actor, domain.RoleVisitor); err != nil {
		return nil, err
	}

	registrations, err := s.repo.FindByVisitor(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByVisitor -> %w", err)
	}

	return registrations, nil
}

func (s *RegistrationService) ListByExhibition(ctx context.Context, actor domain.Actor, exhibitionID uint) ([]domain.Registration, error) {
	if err := Authorize(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}

	if _, err := s.exhibitions.FindByID(ctx, exhibitionID); err != nil {
		return nil, fmt.Errorf("s.exhibitions.FindByID -> %w", err)
	}

	registrations, err := s.repo.FindByExhibition(ctx, exhibitionID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByExhibition -> %w", err)
	}

	return registrations, nil
}
