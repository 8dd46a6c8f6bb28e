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
	ErrApplicationNotFound  = repository.ErrApplicationNotFound
	ErrDuplicateApplication = repository.ErrDuplicateApplication
	ErrBoothTaken           = repository.ErrBoothTaken
	ErrInvalidTransition    = repository.ErrInvalidTransition
	ErrInvalidStatus        = errors.New("unknown application status")
	ErrBoothNumberRequired  = errors.New("booth number is required to approve an application")
)

type ApplicationRepository interface {
	Create(ctx context.Context, application domain.Application) (domain.Application, error)
	Approve(ctx context.Context, id uint, boothNumber, badgeRef string, at time.Time) (domain.Application, error)
	Reject(ctx context.Context, id uint, at time.Time) (domain.Application, error)
	FindByID(ctx context.Context, id uint) (domain.Application, error)
	FindByExhibitor(ctx context.Context, exhibitorID uint) ([]domain.Application, error)
	FindByExhibition(ctx context.Context, exhibitionID uint, status domain.ApplicationStatus) ([]domain.Application, error)
}

type ApplicationService struct {
	repo           ApplicationRepository
	exhibitions    ExhibitionRepository
	users          UserRepository
	notifier       Notifier
	notifyOnReject bool
	now            func() time.Time
}

func NewApplicationService(repo ApplicationRepository, exhibitions ExhibitionRepository, users UserRepository, notifier Notifier, notifyOnReject bool) *ApplicationService {
	return &ApplicationService{
		repo:           repo,
		exhibitions:    exhibitions,
		users:          users,
		notifier:       notifier,
		notifyOnReject: notifyOnReject,
		now:            time.Now,
	}
}

// Submit files a PENDING booth application. Booth capacity is checked here but
// only taken on approval, so several applications can wait on the last booth.
func (s *ApplicationService) Submit(ctx context.Context, actor domain.Actor, exhibitionID uint, attachmentRef string) (domain.Application, error) {
	if err := requireEligible(actor, domain.RoleExhibitor); err != nil {
		return domain.Application{}, err
	}

	if _, err := s.users.FindProfileByUserID(ctx, actor.UserID); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return domain.Application{}, ErrProfileRequired
		}
		return domain.Application{}, fmt.Errorf("s.users.FindProfileByUserID -> %w", err)
	}

	application, err := s.repo.Create(ctx, domain.Application{
		ExhibitorID:   actor.UserID,
		ExhibitionID:  exhibitionID,
		AttachmentRef: attachmentRef,
	})
	if err != nil {
		return domain.Application{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	zap.L().Info("application submitted",
		zap.Uint("application_id", application.ID),
		zap.Uint("exhibition_id", exhibitionID),
		zap.Uint("exhibitor_id", actor.UserID))

	return application, nil
}

// Approve assigns boothNumber to a PENDING application and takes one booth
// from its exhibition. The exhibitor is notified once the change is committed.
func (s *ApplicationService) Approve(ctx context.Context, actor domain.Actor, id uint, boothNumber, badgeRef string) (domain.Application, error) {
	if err := Authorize(actor, domain.RoleAdmin); err != nil {
		return domain.Application{}, err
	}
	if boothNumber == "" {
		return domain.Application{}, ErrBoothNumberRequired
	}

	approved, err := s.repo.Approve(ctx, id, boothNumber, badgeRef, s.now())
	if err != nil {
		return domain.Application{}, fmt.Errorf("s.repo.Approve -> %w", err)
	}

	zap.L().Info("application approved",
		zap.Uint("application_id", approved.ID),
		zap.Uint("exhibition_id", approved.ExhibitionID),
		zap.String("booth_number", approved.BoothNumber))

	return s.notifyDecision(ctx, approved), nil
}

func (s *ApplicationService) Reject(ctx context.Context, actor domain.Actor, id uint) (domain.Application, error) {
	if err := Authorize(actor, domain.RoleAdmin); err != nil {
		return domain.Application{}, err
	}

	rejected, err := s.repo.Reject(ctx, id, s.now())
	if err != nil {
		return domain.Application{}, fmt.Errorf("s.repo.Reject -> %w", err)
	}

	zap.L().Info("application rejected",
		zap.Uint("application_id", rejected.ID),
		zap.Uint("exhibition_id", rejected.ExhibitionID))

	if !s.notifyOnReject {
		return rejected, nil
	}

	return s.notifyDecision(ctx, rejected), nil
}

// notifyDecision reloads the application with its exhibitor and exhibition
// names and hands the decision to the notifier. It returns the richest view
// of the application it could load.
func (s *ApplicationService) notifyDecision(ctx context.Context, application domain.Application) domain.Application {
	ctx, cancel := detachNotify(ctx)
	defer cancel()

	view, err := s.repo.FindByID(ctx, application.ID)
	if err != nil {
		zap.L().Error("failed to load application for notification", zap.Uint("application_id", application.ID), zap.Error(err))
		return application
	}

	if err = s.notifier.NotifyApplicationDecision(ctx, view.Decision()); err != nil {
		zap.L().Error("failed to notify application decision", zap.Uint("application_id", application.ID), zap.Error(err))
	}

	return view
}

func (s *ApplicationService) GetApplication(ctx context.Context, actor domain.Actor, id uint) (domain.Application, error) {
	if !actor.Authenticated() {
		return domain.Application{}, ErrUnauthenticated
	}

	application, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Application{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if err = AuthorizeOwner(actor, application.ExhibitorID); err != nil {
		return domain.Application{}, err
	}

	return application, nil
}

func (s *ApplicationService) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Application, error) {
	if err := requireEligible(actor, domain.RoleExhibitor); err != nil {
		return nil, err
	}

	applications, err := s.repo.FindByExhibitor(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByExhibitor -> %w", err)
	}

	return applications, nil
}

// ListByExhibition lists the applications of an exhibition. An empty status
// lists all of them.
func (s *ApplicationService) ListByExhibition(ctx context.Context, actor domain.Actor, exhibitionID uint, status domain.ApplicationStatus) ([]domain.Application, error) {
	if err := Authorize(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if status != "" && !status.Valid() {
		return nil, ErrInvalidStatus
	}

	if _, err := s.exhibitions.FindByID(ctx, exhibitionID); err != nil {
		return nil, fmt.Errorf("s.exhibitions.FindByID -> %w", err)
	}

	applications, err := s.repo.FindByExhibition(ctx, exhibitionID, status)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByExhibition -> %w", err)
	}

	return applications, nil
}
