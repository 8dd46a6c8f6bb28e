package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrExhibitionNotFound = errors.New("exhibition not found")
	ErrExhibitionInactive = errors.New("exhibition is not active")
)

type Exhibition struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description string
	Venue       string    `gorm:"not null"`
	City        string    `gorm:"not null"`
	State       string    `gorm:"not null"`
	Country     string    `gorm:"not null"`
	StartDate   time.Time `gorm:"not null"`
	EndDate     time.Time `gorm:"not null;index"`

	BoothCapacity     int `gorm:"not null;check:booth_capacity >= 0"`
	VisitorCapacity   int `gorm:"not null;check:visitor_capacity >= 0"`
	AvailableBooths   int `gorm:"not null;check:available_booths >= 0"`
	AvailableVisitors int `gorm:"not null;check:available_visitors >= 0"`

	IsActive    bool `gorm:"not null;index"`
	CreatedByID uint `gorm:"not null"`

	Applications  []Application  `gorm:"foreignKey:ExhibitionID;constraint:OnDelete:CASCADE"`
	Registrations []Registration `gorm:"foreignKey:ExhibitionID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ExhibitionDAO struct {
	db *gorm.DB
}

func NewExhibitionDAO(db *gorm.DB) *ExhibitionDAO {
	return &ExhibitionDAO{
		db: db,
	}
}

// Insert opens every booth and visitor slot of the new exhibition.
func (d *ExhibitionDAO) Insert(ctx context.Context, exhibition Exhibition) (Exhibition, error) {
	exhibition.AvailableBooths = exhibition.BoothCapacity
	exhibition.AvailableVisitors = exhibition.VisitorCapacity

	if err := d.db.WithContext(ctx).Create(&exhibition).Error; err != nil {
		return Exhibition{}, err
	}

	return exhibition, nil
}

func (d *ExhibitionDAO) FindByID(ctx context.Context, id uint) (Exhibition, error) {
	return findExhibition(d.db.WithContext(ctx), id)
}

func findExhibition(tx *gorm.DB, id uint) (Exhibition, error) {
	var exhibition Exhibition

	result := tx.First(&exhibition, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Exhibition{}, ErrExhibitionNotFound
		}

		return Exhibition{}, result.Error
	}

	return exhibition, nil
}

func (d *ExhibitionDAO) FindActive(ctx context.Context) ([]Exhibition, error) {
	var exhibitions []Exhibition

	result := d.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("start_date ASC").
		Find(&exhibitions)
	if result.Error != nil {
		return nil, result.Error
	}

	return exhibitions, nil
}

// Update applies the non-capacity columns in updates. Capacity columns are
// owned by the CapacityLedger.
func (d *ExhibitionDAO) Update(ctx context.Context, id uint, updates map[string]interface{}) (Exhibition, error) {
	for _, col := range []string{"booth_capacity", "visitor_capacity", "available_booths", "available_visitors"} {
		delete(updates, col)
	}

	db := d.db.WithContext(ctx)
	if len(updates) > 0 {
		result := db.Model(&Exhibition{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return Exhibition{}, result.Error
		}
		if result.RowsAffected == 0 {
			return Exhibition{}, ErrExhibitionNotFound
		}
	}

	return findExhibition(db, id)
}

// Delete removes the exhibition; applications and registrations cascade.
func (d *ExhibitionDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Exhibition{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrExhibitionNotFound
	}

	return nil
}

// DeactivateExpired closes every active exhibition whose last day is before
// the day of now. End dates are stored as midnight UTC of the last day, so an
// exhibition stays open for the whole of that day.
func (d *ExhibitionDAO) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	result := d.db.WithContext(ctx).
		Model(&Exhibition{}).
		Where("is_active = ? AND end_date < ?", true, today).
		Update("is_active", false)
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

func requireActiveExhibition(tx *gorm.DB, id uint) (Exhibition, error) {
	exhibition, err := findExhibition(tx, id)
	if err != nil {
		return Exhibition{}, err
	}
	if !exhibition.IsActive {
		return Exhibition{}, ErrExhibitionInactive
	}

	return exhibition, nil
}
