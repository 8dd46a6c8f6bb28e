package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vietanh2810/exhibition-api/internal/domain"
	"github.com/vietanh2810/exhibition-api/internal/repository"
)

var (
	ErrExhibitionNotFound = repository.ErrExhibitionNotFound
	ErrExhibitionInactive = repository.ErrExhibitionInactive
	ErrCapacityExhausted  = repository.ErrCapacityExhausted
	ErrInvalidCapacity    = repository.ErrInvalidCapacity
	ErrInvalidDates       = errors.New("exhibition must not end before it starts")
)

type ExhibitionRepository interface {
	Create(ctx context.Context, exhibition domain.Exhibition) (domain.Exhibition, error)
	FindByID(ctx context.Context, id uint) (domain.Exhibition, error)
	FindActive(ctx context.Context) ([]domain.Exhibition, error)
	UpdateDetails(ctx context.Context, id uint, details domain.ExhibitionDetails) (domain.Exhibition, error)
	Delete(ctx context.Context, id uint) error
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
	Resize(ctx context.Context, exhibitionID uint, r domain.Resource, newCapacity int) (domain.Exhibition, error)
}

type ExhibitionService struct {
	repo     ExhibitionRepository
	users    UserRepository
	notifier Notifier
	now      func() time.Time
}

func NewExhibitionService(repo ExhibitionRepository, users UserRepository, notifier Notifier) *ExhibitionService {
	return &ExhibitionService{
		repo:     repo,
		users:    users,
		notifier: notifier,
		now:      time.Now,
	}
}

// Create publishes a new exhibition with every booth and visitor slot open.
// Exhibitors and visitors of the directory are told about it when it is
// created active.
func (s *ExhibitionService) Create(ctx context.Context, actor domain.Actor, exhibition domain.Exhibition) (domain.Exhibition, error) {
	if err := Authorize(actor, domain.RoleAdmin); err != nil {
		return domain.Exhibition{}, err
	}
	if exhibition.BoothCapacity < 0 || exhibition.VisitorCapacity < 0 {
		return domain.Exhibition{}, ErrInvalidCapacity
	}
	if exhibition.EndDate.Before(exhibition.StartDate) {
		return domain.Exhibition{}, ErrInvalidDates
	}

	if _, err := s.users.Upsert(ctx, actor.User()); err != nil {
		return domain.Exhibition{}, fmt.Errorf("s.users.Upsert -> %w", err)
	}

	exhibition.CreatedByID = actor.UserID
	created, err := s.repo.Create(ctx, exhibition)
	if err != nil {
		return domain.Exhibition{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	zap.L().Info("exhibition created",
		zap.Uint("exhibition_id", created.ID),
		zap.Int("booth_capacity", created.BoothCapacity),
		zap.Int("visitor_capacity", created.VisitorCapacity))

	if created.IsActive {
		s.notifyPublished(ctx, created)
	}

	return created, nil
}

func (s *ExhibitionService) notifyPublished(ctx context.Context, exhibition domain.Exhibition) {
	ctx, cancel := detachNotify(ctx)
	defer cancel()

	recipients, err := s.users.FindEmailsByRoles(ctx, domain.RoleExhibitor, domain.RoleVisitor)
	if err != nil {
		zap.L().Error("failed to load publication recipients", zap.Uint("exhibition_id", exhibition.ID), zap.Error(err))
		return
	}
	if len(recipients) == 0 {
		return
	}

	if err = s.notifier.NotifyExhibitionPublished(ctx, recipients, exhibition.Summary()); err != nil {
		zap.L().Error("failed to notify exhibition publication", zap.Uint("exhibition_id", exhibition.ID), zap.Error(err))
	}
}

func (s *ExhibitionService) GetExhibition(ctx context.Context, id uint) (domain.Exhibition, error) {
	exhibition, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Exhibition{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return exhibition, nil
}

func (s *ExhibitionService) ListActive(ctx context.Context) ([]domain.Exhibition, error) {
	exhibitions, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindActive -> %w", err)
	}

	return exhibitions, nil
}

func (s *ExhibitionService) UpdateDetails(ctx context.Context, actor domain.Actor, id uint, details domain.ExhibitionDetails) (domain.Exhibition, error) {
	if err := Authorize(actor, domain.RoleAdmin); err != nil {
		return domain.Exhibition{}, err
	}

	if details.StartDate != nil || details.EndDate != nil {
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return domain.Exhibition{}, fmt.Errorf("s.repo.FindByID -> %w", err)
		}
		start, end := current.StartDate, current.EndDate
		if details.StartDate != nil {
			start = *details.StartDate
		}
		if details.EndDate != nil {
			end = *details.EndDate
		}
		if end.Before(start) {
			return domain.Exhibition{}, ErrInvalidDates
		}
	}

	updated, err := s.repo.UpdateDetails(ctx, id, details)
	if err != nil {
		return domain.Exhibition{}, fmt.Errorf("s.repo.UpdateDetails -> %w", err)
	}

	return updated, nil
}

// Resize changes the capacity of one resource. The available counter follows
// the delta and is clamped to [0, newCapacity].
func (s *ExhibitionService) Resize(ctx context.Context, actor domain.Actor, id uint, r domain.Resource, newCapacity int) (domain.Exhibition, error) {
	if err := Authorize(actor, domain.RoleAdmin); err != nil {
		return domain.Exhibition{}, err
	}
	if newCapacity < 0 {
		return domain.Exhibition{}, ErrInvalidCapacity
	}

	resized, err := s.repo.Resize(ctx, id, r, newCapacity)
	if err != nil {
		return domain.Exhibition{}, fmt.Errorf("s.repo.Resize -> %w", err)
	}

	zap.L().Info("exhibition resized",
		zap.Uint("exhibition_id", id),
		zap.String("resource", string(r)),
		zap.Int("capacity", resized.Capacity(r)),
		zap.Int("available", resized.Available(r)))

	return resized, nil
}

func (s *ExhibitionService) Delete(ctx context.Context, actor domain.Actor, id uint) error {
	if err := Authorize(actor, domain.RoleAdmin); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	zap.L().Info("exhibition deleted", zap.Uint("exhibition_id", id))

	return nil
}

func (s *ExhibitionService) DeactivateExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.DeactivateExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("s.repo.DeactivateExpired -> %w", err)
	}

	return n, nil
}

// RunExpirySweep deactivates past-due exhibitions every interval until ctx is
// done. A non-positive interval disables the sweep.
func (s *ExhibitionService) RunExpirySweep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		zap.L().Warn("exhibition expiry sweep disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.DeactivateExpired(ctx)
			if err != nil {
				zap.L().Error("expiry sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				zap.L().Info("deactivated expired exhibitions", zap.Int64("count", n))
			}
		}
	}
}
