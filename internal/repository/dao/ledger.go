package dao

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCapacityExhausted = errors.New("capacity exhausted")
	ErrInvalidCapacity   = errors.New("capacity must not be negative")
	ErrUnknownResource   = errors.New("unknown resource")
)

type Resource string

const (
	ResourceBooth   Resource = "booth"
	ResourceVisitor Resource = "visitor"
)

func (r Resource) columns() (available, capacity string, err error) {
	switch r {
	case ResourceBooth:
		return "available_booths", "booth_capacity", nil
	case ResourceVisitor:
		return "available_visitors", "visitor_capacity", nil
	}
	return "", "", fmt.Errorf("%w: %q", ErrUnknownResource, r)
}

// CapacityLedger owns the available_* counters of the exhibitions table. Every
// mutation is a single conditional UPDATE on the exhibition row, so concurrent
// callers serialise on the Postgres row lock and the counter can never go
// below zero or above its capacity.
type CapacityLedger struct {
	db *gorm.DB
}

func NewCapacityLedger(db *gorm.DB) *CapacityLedger {
	return &CapacityLedger{
		db: db,
	}
}

func (l *CapacityLedger) Reserve(ctx context.Context, exhibitionID uint, r Resource) error {
	return reserve(l.db.WithContext(ctx), exhibitionID, r)
}

func (l *CapacityLedger) Release(ctx context.Context, exhibitionID uint, r Resource) error {
	return release(l.db.WithContext(ctx), exhibitionID, r)
}

func (l *CapacityLedger) Available(ctx context.Context, exhibitionID uint, r Resource) (int, error) {
	available, _, err := r.columns()
	if err != nil {
		return 0, err
	}

	var counts []int
	result := l.db.WithContext(ctx).Model(&Exhibition{}).Where("id = ?", exhibitionID).Pluck(available, &counts)
	if result.Error != nil {
		return 0, result.Error
	}
	if len(counts) == 0 {
		return 0, ErrExhibitionNotFound
	}

	return counts[0], nil
}

// Resize sets a new capacity and shifts the available counter by the same
// delta, clamped to [0, newCapacity].
func (l *CapacityLedger) Resize(ctx context.Context, exhibitionID uint, r Resource, newCapacity int) (Exhibition, error) {
	if newCapacity < 0 {
		return Exhibition{}, ErrInvalidCapacity
	}
	available, capacity, err := r.columns()
	if err != nil {
		return Exhibition{}, err
	}

	var resized Exhibition
	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exhibition, err := findExhibition(tx.Clauses(clause.Locking{Strength: "UPDATE"}), exhibitionID)
		if err != nil {
			return err
		}

		oldCapacity, oldAvailable := exhibition.BoothCapacity, exhibition.AvailableBooths
		if r == ResourceVisitor {
			oldCapacity, oldAvailable = exhibition.VisitorCapacity, exhibition.AvailableVisitors
		}

		err = tx.Model(&Exhibition{}).Where("id = ?", exhibitionID).UpdateColumns(map[string]interface{}{
			capacity:  newCapacity,
			available: ClampAvailable(oldAvailable, oldCapacity, newCapacity),
		}).Error
		if err != nil {
			return err
		}

		resized, err = findExhibition(tx, exhibitionID)
		return err
	})
	if err != nil {
		return Exhibition{}, err
	}

	return resized, nil
}

// ClampAvailable returns available shifted by the capacity delta and bounded to [0, newCapacity].
func ClampAvailable(available, oldCapacity, newCapacity int) int {
	next := available + newCapacity - oldCapacity
	if next < 0 {
		return 0
	}
	if next > newCapacity {
		return newCapacity
	}
	return next
}

func reserve(tx *gorm.DB, exhibitionID uint, r Resource) error {
	available, _, err := r.columns()
	if err != nil {
		return err
	}

	result := tx.Model(&Exhibition{}).
		Where("id = ? AND "+available+" > 0", exhibitionID).
		UpdateColumn(available, gorm.Expr(available+" - 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := findExhibition(tx, exhibitionID); err != nil {
			return err
		}
		return ErrCapacityExhausted
	}

	return nil
}

// release gives one unit back. Releasing into a full counter is a no-op.
func release(tx *gorm.DB, exhibitionID uint, r Resource) error {
	available, capacity, err := r.columns()
	if err != nil {
		return err
	}

	result := tx.Model(&Exhibition{}).
		Where("id = ? AND "+available+" < "+capacity, exhibitionID).
		UpdateColumn(available, gorm.Expr(available+" + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		_, err := findExhibition(tx, exhibitionID)
		return err
	}

	return nil
}
