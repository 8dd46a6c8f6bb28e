package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrPropertyNotFound = errors.New("property not found")

type Property struct {
	ID           uint   `gorm:"primaryKey"`
	OwnerID      uint   `gorm:"not null;index"`
	Title        string `gorm:"not null"`
	PropertyType string `gorm:"not null;size:30"`
	Location     string `gorm:"not null"`
	Price        int64  `gorm:"not null;check:price >= 0"`
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type PropertyDAO struct {
	db *gorm.DB
}

func NewPropertyDAO(db *gorm.DB) *PropertyDAO {
	return &PropertyDAO{
		db: db,
	}
}

func (d *PropertyDAO) Insert(ctx context.Context, property Property) (Property, error) {
	if err := d.db.WithContext(ctx).Create(&property).Error; err != nil {
		if isForeignKeyViolation(err) {
			return Property{}, ErrUserNotFound
		}
		return Property{}, err
	}

	return property, nil
}

func (d *PropertyDAO) FindByID(ctx context.Context, id uint) (Property, error) {
	var property Property

	result := d.db.WithContext(ctx).First(&property, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Property{}, ErrPropertyNotFound
		}

		return Property{}, result.Error
	}

	return property, nil
}

func (d *PropertyDAO) FindByOwner(ctx context.Context, ownerID uint) ([]Property, error) {
	var properties []Property

	result := d.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&properties)
	if result.Error != nil {
		return nil, result.Error
	}

	return properties, nil
}

func (d *PropertyDAO) FindAll(ctx context.Context) ([]Property, error) {
	var properties []Property

	result := d.db.WithContext(ctx).Order("created_at DESC").Find(&properties)
	if result.Error != nil {
		return nil, result.Error
	}

	return properties, nil
}

func (d *PropertyDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Property{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPropertyNotFound
	}

	return nil
}
