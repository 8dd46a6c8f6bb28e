package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUserEmailExists = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileExists   = errors.New("exhibitor profile already exists")
	ErrProfileNotFound = errors.New("exhibitor profile not found")
)

const (
	constraintUserEmail   = "uni_users_email"
	constraintProfileUser = "idx_exhibitor_profiles_user"
)

// User mirrors the identity provider: the primary key is the token subject,
// not a sequence.
type User struct {
	ID uint `gorm:"primaryKey;autoIncrement:false"`

	Email string `gorm:"unique;not null"`
	Name  string `gorm:"not null"`

	Roles         []UserRole        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Profile       *ExhibitorProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Applications  []Application     `gorm:"foreignKey:ExhibitorID;constraint:OnDelete:CASCADE"`
	Registrations []Registration    `gorm:"foreignKey:VisitorID;constraint:OnDelete:CASCADE"`
	Properties    []Property        `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserRole struct {
	UserID uint   `gorm:"primaryKey"`
	Role   string `gorm:"primaryKey;size:20"`
}

type ExhibitorProfile struct {
	ID            uint   `gorm:"primaryKey"`
	UserID        uint   `gorm:"not null;uniqueIndex:idx_exhibitor_profiles_user"`
	CompanyName   string `gorm:"not null"`
	CouncilArea   string `gorm:"not null"`
	BusinessType  string `gorm:"not null;size:20"` // "DEVELOPER", "BROKER" or "LOAN"
	ContactNumber string `gorm:"not null;size:15"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

// Upsert stores the user and replaces its granted roles.
func (d *UserDAO) Upsert(ctx context.Context, user User) (User, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return upsertUser(tx, user)
	})
	if err != nil {
		return User{}, err
	}

	return d.FindByID(ctx, user.ID)
}

func upsertUser(tx *gorm.DB, user User) error {
	roles := user.Roles
	user.Roles = nil
	user.Profile = nil

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "updated_at"}),
	}).Create(&user).Error
	if err != nil {
		if isUniqueViolation(err, constraintUserEmail) {
			return ErrUserEmailExists
		}
		return err
	}

	if err = tx.Where("user_id = ?", user.ID).Delete(&UserRole{}).Error; err != nil {
		return err
	}
	if len(roles) == 0 {
		return nil
	}
	for i := range roles {
		roles[i].UserID = user.ID
	}

	return tx.Create(&roles).Error
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).Preload("Roles").Preload("Profile").First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

// FindEmailsByRoles returns the distinct emails of users holding any of roles.
func (d *UserDAO) FindEmailsByRoles(ctx context.Context, roles []string) ([]string, error) {
	var emails []string

	result := d.db.WithContext(ctx).
		Model(&User{}).
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Where("user_roles.role IN ?", roles).
		Distinct().
		Order("users.email").
		Pluck("users.email", &emails)
	if result.Error != nil {
		return nil, result.Error
	}

	return emails, nil
}

// InsertProfile upserts the owning user and creates its exhibitor profile.
func (d *UserDAO) InsertProfile(ctx context.Context, user User, profile ExhibitorProfile) (ExhibitorProfile, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertUser(tx, user); err != nil {
			return err
		}

		profile.UserID = user.ID
		if err := tx.Create(&profile).Error; err != nil {
			if isUniqueViolation(err, constraintProfileUser) {
				return ErrProfileExists
			}
			return err
		}

		return nil
	})
	if err != nil {
		return ExhibitorProfile{}, err
	}

	return profile, nil
}

func (d *UserDAO) FindProfileByUserID(ctx context.Context, userID uint) (ExhibitorProfile, error) {
	var profile ExhibitorProfile

	result := d.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ExhibitorProfile{}, ErrProfileNotFound
		}

		return ExhibitorProfile{}, result.Error
	}

	return profile, nil
}
