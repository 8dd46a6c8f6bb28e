package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/exhibition-api/internal/domain"
	"github.com/vietanh2810/exhibition-api/internal/repository/dao"
)

var (
	ErrUserEmailExists = dao.ErrUserEmailExists
	ErrUserNotFound    = dao.ErrUserNotFound
	ErrProfileExists   = dao.ErrProfileExists
	ErrProfileNotFound = dao.ErrProfileNotFound
)

type UserDAO interface {
	Upsert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindEmailsByRoles(ctx context.Context, roles []string) ([]string, error)
	InsertProfile(ctx context.Context, user dao.User, profile dao.ExhibitorProfile) (dao.ExhibitorProfile, error)
	FindProfileByUserID(ctx context.Context, userID uint) (dao.ExhibitorProfile, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Upsert(ctx context.Context, user domain.User) (domain.User, error) {
	saved, err := r.dao.Upsert(ctx, r.domainToDao(user))
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Upsert -> %w", err)
	}

	return r.daoToDomain(saved), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindEmailsByRoles(ctx context.Context, roles ...domain.Role) ([]string, error) {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}

	emails, err := r.dao.FindEmailsByRoles(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindEmailsByRoles -> %w", err)
	}

	return emails, nil
}

func (r *UserRepository) CreateProfile(ctx context.Context, user domain.User, profile domain.ExhibitorProfile) (domain.ExhibitorProfile, error) {
	created, err := r.dao.InsertProfile(ctx, r.domainToDao(user), dao.ExhibitorProfile{
		UserID:        user.ID,
		CompanyName:   profile.CompanyName,
		CouncilArea:   profile.CouncilArea,
		BusinessType:  string(profile.BusinessType),
		ContactNumber: profile.ContactNumber,
	})
	if err != nil {
		return domain.ExhibitorProfile{}, fmt.Errorf("r.dao.InsertProfile -> %w", err)
	}

	return r.profileDaoToDomain(created), nil
}

func (r *UserRepository) FindProfileByUserID(ctx context.Context, userID uint) (domain.ExhibitorProfile, error) {
	found, err := r.dao.FindProfileByUserID(ctx, userID)
	if err != nil {
		return domain.ExhibitorProfile{}, fmt.Errorf("r.dao.FindProfileByUserID -> %w", err)
	}

	return r.profileDaoToDomain(found), nil
}

func (r *UserRepository) domainToDao(u domain.User) dao.User {
	roles := make([]dao.UserRole, len(u.Roles))
	for i, role := range u.Roles {
		roles[i] = dao.UserRole{UserID: u.ID, Role: string(role)}
	}

	return dao.User{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Roles: roles,
	}
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	roles := make([]domain.Role, len(u.Roles))
	for i, role := range u.Roles {
		roles[i] = domain.Role(role.Role)
	}

	return domain.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Roles:     roles,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (r *UserRepository) profileDaoToDomain(p dao.ExhibitorProfile) domain.ExhibitorProfile {
	return domain.ExhibitorProfile{
		ID:            p.ID,
		UserID:        p.UserID,
		CompanyName:   p.CompanyName,
		CouncilArea:   p.CouncilArea,
		BusinessType:  domain.BusinessType(p.BusinessType),
		ContactNumber: p.ContactNumber,
		CreatedAt:     p.CreatedAt,
	}
}
