package v1

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vietanh2810/exhibition-api/internal/domain"
)

type mockExhibitionService struct{ mock.Mock }

func (m *mockExhibitionService) Create(ctx context.Context, actor domain.Actor, exhibition domain.Exhibition) (domain.Exhibition, error) {
	args := m.Called(ctx, actor, exhibition)
	return args.Get(0).(domain.Exhibition), args.Error(1)
}

func (m *mockExhibitionService) GetExhibition(ctx context.Context, id uint) (domain.Exhibition, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Exhibition), args.Error(1)
}

func (m *mockExhibitionService) ListActive(ctx context.Context) ([]domain.Exhibition, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Exhibition), args.Error(1)
}

func (m *mockExhibitionService) UpdateDetails(ctx context.Context, actor domain.Actor, id uint, details domain.ExhibitionDetails) (domain.Exhibition, error) {
	args := m.Called(ctx, actor, id, details)
	return args.Get(0).(domain.Exhibition), args.Error(1)
}

func (m *mockExhibitionService) Resize(ctx context.Context, actor domain.Actor, id uint, r domain.Resource, newCapacity int) (domain.Exhibition, error) {
	args := m.Called(ctx, actor, id, r, newCapacity)
	return args.Get(0).(domain.Exhibition), args.Error(1)
}

func (m *mockExhibitionService) Delete(ctx context.Context, actor domain.Actor, id uint) error {
	return m.Called(ctx, actor, id).Error(0)
}

type mockApplicationService struct{ mock.Mock }

func (m *mockApplicationService) Submit(ctx context.Context, actor domain.Actor, exhibitionID uint, attachmentRef string) (domain.Application, error) {
	args := m.Called(ctx, actor, exhibitionID, attachmentRef)
	return args.Get(0).(domain.Application), args.Error(1)
}

func (m *mockApplicationService) Approve(ctx context.Context, actor domain.Actor, id uint, boothNumber, badgeRef string) (domain.Application, error) {
	args := m.Called(ctx, actor, id, boothNumber, badgeRef)
	return args.Get(0).(domain.Application), args.Error(1)
}

func (m *mockApplicationService) Reject(ctx context.Context, actor domain.Actor, id uint) (domain.Application, error) {
	args := m.Called(ctx, actor, id)
	return args.Get(0).(domain.Application), args.Error(1)
}

func (m *mockApplicationService) GetApplication(ctx context.Context, actor domain.Actor, id uint) (domain.Application, error) {
	args := m.Called(ctx, actor, id)
	return args.Get(0).(domain.Application), args.Error(1)
}

func (m *mockApplicationService) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Application, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *mockApplicationService) ListByExhibition(ctx context.Context, actor domain.Actor, exhibitionID uint, status domain.ApplicationStatus) ([]domain.Application, error) {
	args := m.Called(ctx, actor, exhibitionID, status)
	return args.Get(0).([]domain.Application), args.Error(1)
}

type mockRegistrationService struct{ mock.Mock }

func (m *mockRegistrationService) Register(ctx context.Context, actor domain.Actor, exhibitionID uint) (domain.Registration, error) {
	args := m.Called(ctx, actor, exhibitionID)
	return args.Get(0).(domain.Registration), args.Error(1)
}

func (m *mockRegistrationService) CheckIn(ctx context.Context, actor domain.Actor, token string) (domain.Registration, error) {
	args := m.Called(ctx, actor, token)
	return args.Get(0).(domain.Registration), args.Error(1)
}

func (m *mockRegistrationService) ToggleCheckIn(ctx context.Context, actor domain.Actor, id uint) (domain.Registration, error) {
	args := m.Called(ctx, actor, id)
	return args.Get(0).(domain.Registration), args.Error(1)
}

func (m *mockRegistrationService) Cancel(ctx context.Context, actor domain.Actor, id uint) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *mockRegistrationService) GetRegistration(ctx context.Context, actor domain.Actor, id uint) (domain.Registration, error) {
	args := m.Called(ctx, actor, id)
	return args.Get(0).(domain.Registration), args.Error(1)
}

func (m *mockRegistrationService) Pass(ctx context.Context, actor domain.Actor, id uint) ([]byte, error) {
	args := m.Called(ctx, actor, id)
	png, _ := args.Get(0).([]byte)
	return png, args.Error(1)
}

func (m *mockRegistrationService) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Registration, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.Registration), args.Error(1)
}

func (m *mockRegistrationService) ListByExhibition(ctx context.Context, actor domain.Actor, exhibitionID uint) ([]domain.Registration, error) {
	args := m.Called(ctx, actor, exhibitionID)
	return args.Get(0).([]domain.Registration), args.Error(1)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) Enroll(ctx context.Context, actor domain.Actor) (domain.User, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockUserService) GetUser(ctx context.Context, actor domain.Actor, id uint) (domain.User, error) {
	args := m.Called(ctx, actor, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockUserService) CreateExhibitorProfile(ctx context.Context, actor domain.Actor, profile domain.ExhibitorProfile) (domain.ExhibitorProfile, error) {
	args := m.Called(ctx, actor, profile)
	return args.Get(0).(domain.ExhibitorProfile), args.Error(1)
}

func (m *mockUserService) HasExhibitorProfile(ctx context.Context, actor domain.Actor) (bool, error) {
	args := m.Called(ctx, actor)
	return args.Bool(0), args.Error(1)
}

type mockPropertyService struct{ mock.Mock }

func (m *mockPropertyService) Create(ctx context.Context, actor domain.Actor, property domain.Property) (domain.Property, error) {
	args := m.Called(ctx, actor, property)
	return args.Get(0).(domain.Property), args.Error(1)
}

func (m *mockPropertyService) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Property, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.Property), args.Error(1)
}

func (m *mockPropertyService) ListAll(ctx context.Context) ([]domain.Property, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Property), args.Error(1)
}

func (m *mockPropertyService) Delete(ctx context.Context, actor domain.Actor, id uint) error {
	return m.Called(ctx, actor, id).Error(0)
}
