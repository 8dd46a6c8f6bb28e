package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrDuplicateRegistration = errors.New("visitor already registered for this exhibition")
	ErrInvalidToken          = errors.New("no registration matches this token")
	ErrAlreadyCheckedIn      = errors.New("registration already checked in")
)

const constraintRegistrationPair = "idx_registrations_visitor_exhibition"

type Registration struct {
	ID           uint   `gorm:"primaryKey"`
	VisitorID    uint   `gorm:"not null;uniqueIndex:idx_registrations_visitor_exhibition,priority:1"`
	ExhibitionID uint   `gorm:"not null;uniqueIndex:idx_registrations_visitor_exhibition,priority:2"`
	Token        string `gorm:"type:uuid;not null;uniqueIndex:idx_registrations_token"`
	IsCheckedIn  bool   `gorm:"not null;default:false"`
	CheckedInAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type RegistrationDAO struct {
	db *gorm.DB
}

func NewRegistrationDAO(db *gorm.DB) *RegistrationDAO {
	return &RegistrationDAO{
		db: db,
	}
}

// Insert reserves one visitor slot and creates the registration in one
// transaction. A duplicate rolls the reservation back.
func (d *RegistrationDAO) Insert(ctx context.Context, registration Registration) (Registration, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := requireActiveExhibition(tx, registration.ExhibitionID); err != nil {
			return err
		}

		if err := reserve(tx, registration.ExhibitionID, ResourceVisitor); err != nil {
			return err
		}

		var count int64
		err := tx.Model(&Registration{}).
			Where("visitor_id = ? AND exhibition_id = ?", registration.VisitorID, registration.ExhibitionID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateRegistration
		}

		if err = tx.Create(&registration).Error; err != nil {
			if isUniqueViolation(err, constraintRegistrationPair) {
				return ErrDuplicateRegistration
			}
			if isForeignKeyViolation(err) {
				return ErrUserNotFound
			}
			return err
		}

		return nil
	})
	if err != nil {
		return Registration{}, err
	}

	return registration, nil
}

// CheckIn flips is_checked_in from false to true for token. The conditional
// update makes concurrent scans of the same token succeed exactly once.
func (d *RegistrationDAO) CheckIn(ctx context.Context, token string, at time.Time) (Registration, error) {
	var registration Registration
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Registration{}).
			Where("token = ? AND is_checked_in = ?", token, false).
			Updates(map[string]interface{}{"is_checked_in": true, "checked_in_at": at})
		if result.Error != nil {
			return result.Error
		}

		found := tx.Where("token = ?", token).First(&registration)
		if found.Error != nil {
			if errors.Is(found.Error, gorm.ErrRecordNotFound) {
				return ErrInvalidToken
			}
			return found.Error
		}

		if result.RowsAffected == 0 {
			return ErrAlreadyCheckedIn
		}
		return nil
	})
	if err != nil {
		return Registration{}, err
	}

	return registration, nil
}

// ToggleCheckIn unconditionally flips is_checked_in. It bypasses the
// one-way check-in rule and is reserved for operator corrections.
func (d *RegistrationDAO) ToggleCheckIn(ctx context.Context, id uint, at time.Time) (Registration, error) {
	var registration Registration
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if registration, err = lockRegistration(tx, id); err != nil {
			return err
		}

		registration.IsCheckedIn = !registration.IsCheckedIn
		registration.CheckedInAt = nil
		if registration.IsCheckedIn {
			registration.CheckedInAt = &at
		}

		return tx.Model(&Registration{ID: id}).
			Select("is_checked_in", "checked_in_at", "updated_at").
			Updates(&registration).Error
	})
	if err != nil {
		return Registration{}, err
	}

	return registration, nil
}

// Delete removes the registration after allow accepts it and gives its
// visitor slot back to the exhibition. Checked-in registrations are kept.
func (d *RegistrationDAO) Delete(ctx context.Context, id uint, allow func(Registration) error) (Registration, error) {
	var registration Registration
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if registration, err = lockRegistration(tx, id); err != nil {
			return err
		}
		if err = allow(registration); err != nil {
			return err
		}
		if registration.IsCheckedIn {
			return ErrAlreadyCheckedIn
		}

		if err = tx.Delete(&Registration{}, id).Error; err != nil {
			return err
		}

		return release(tx, registration.ExhibitionID, ResourceVisitor)
	})
	if err != nil {
		return Registration{}, err
	}

	return registration, nil
}

func lockRegistration(tx *gorm.DB, id uint) (Registration, error) {
	var registration Registration

	result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&registration, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Registration{}, ErrRegistrationNotFound
		}
		return Registration{}, result.Error
	}

	return registration, nil
}

func (d *RegistrationDAO) FindByID(ctx context.Context, id uint) (Registration, error) {
	var registration Registration

	result := d.db.WithContext(ctx).First(&registration, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Registration{}, ErrRegistrationNotFound
		}

		return Registration{}, result.Error
	}

	return registration, nil
}

func (d *RegistrationDAO) FindByVisitor(ctx context.Context, visitorID uint) ([]Registration, error) {
	var registrations []Registration

	result := d.db.WithContext(ctx).Where("visitor_id = ?", visitorID).Order("created_at DESC").Find(&registrations)
	if result.Error != nil {
		return nil, result.Error
	}

	return registrations, nil
}

func (d *RegistrationDAO) FindByExhibition(ctx context.Context, exhibitionID uint) ([]Registration, error) {
	var registrations []Registration

	result := d.db.WithContext(ctx).Where("exhibition_id = ?", exhibitionID).Order("created_at ASC").Find(&registrations)
	if result.Error != nil {
		return nil, result.Error
	}

	return registrations, nil
}
