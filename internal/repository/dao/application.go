package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrApplicationNotFound  = errors.New("application not found")
	ErrDuplicateApplication = errors.New("exhibitor already applied to this exhibition")
	ErrBoothTaken           = errors.New("booth number already assigned in this exhibition")
)

const (
	constraintApplicationPair  = "idx_applications_exhibitor_exhibition"
	constraintApplicationBooth = "idx_applications_exhibition_booth"
)

type Application struct {
	ID            uint    `gorm:"primaryKey"`
	ExhibitorID   uint    `gorm:"not null;uniqueIndex:idx_applications_exhibitor_exhibition,priority:1"`
	ExhibitionID  uint    `gorm:"not null;uniqueIndex:idx_applications_exhibitor_exhibition,priority:2;uniqueIndex:idx_applications_exhibition_booth,priority:1"`
	Status        string  `gorm:"not null;size:10;index"` // "PENDING", "APPROVED" or "REJECTED"
	BoothNumber   *string `gorm:"size:20;uniqueIndex:idx_applications_exhibition_booth,priority:2"`
	AttachmentRef string
	BadgeRef      string
	DecidedAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ApplicationView is an application joined with the names and email the
// decision notification needs.
type ApplicationView struct {
	Application    `gorm:"embedded"`
	ExhibitorEmail string
	ExhibitorName  string
	ExhibitionName string
}

type ApplicationDAO struct {
	db *gorm.DB
}

func NewApplicationDAO(db *gorm.DB) *ApplicationDAO {
	return &ApplicationDAO{
		db: db,
	}
}

// Insert creates a pending application. Booth capacity is checked but not
// reserved: the booth is only taken when the application is approved.
func (d *ApplicationDAO) Insert(ctx context.Context, application Application) (Application, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exhibition, err := requireActiveExhibition(tx, application.ExhibitionID)
		if err != nil {
			return err
		}
		if exhibition.AvailableBooths <= 0 {
			return ErrCapacityExhausted
		}

		var count int64
		err = tx.Model(&Application{}).
			Where("exhibitor_id = ? AND exhibition_id = ?", application.ExhibitorID, application.ExhibitionID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateApplication
		}

		if err = tx.Create(&application).Error; err != nil {
			if isUniqueViolation(err, constraintApplicationPair) {
				return ErrDuplicateApplication
			}
			if isForeignKeyViolation(err) {
				return ErrUserNotFound
			}
			return err
		}

		return nil
	})
	if err != nil {
		return Application{}, err
	}

	return application, nil
}

// Transition locks the application row, lets decide compute the next state
// and persists it in the same transaction. When reserveBooth is set, one booth
// of the exhibition is reserved after decide succeeds; an exhausted ledger
// rolls the whole transition back.
func (d *ApplicationDAO) Transition(ctx context.Context, id uint, reserveBooth bool, decide func(Application) (Application, error)) (Application, error) {
	var next Application
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current Application
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&current, id)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			return result.Error
		}

		var err error
		if next, err = decide(current); err != nil {
			return err
		}
		next.ID = current.ID
		next.ExhibitionID = current.ExhibitionID
		next.ExhibitorID = current.ExhibitorID

		if reserveBooth {
			if err = reserve(tx, current.ExhibitionID, ResourceBooth); err != nil {
				return err
			}
		}

		err = tx.Model(&Application{ID: current.ID}).
			Select("status", "booth_number", "badge_ref", "decided_at", "updated_at").
			Updates(&next).Error
		if err != nil {
			if isUniqueViolation(err, constraintApplicationBooth) {
				return ErrBoothTaken
			}
			return err
		}

		return tx.First(&next, current.ID).Error
	})
	if err != nil {
		return Application{}, err
	}

	return next, nil
}

func (d *ApplicationDAO) FindByID(ctx context.Context, id uint) (Application, error) {
	var application Application

	result := d.db.WithContext(ctx).First(&application, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Application{}, ErrApplicationNotFound
		}

		return Application{}, result.Error
	}

	return application, nil
}

func (d *ApplicationDAO) viewQuery(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx).
		Table("applications").
		Select(`applications.*,
			users.email AS exhibitor_email,
			COALESCE(NULLIF(exhibitor_profiles.company_name, ''), users.name) AS exhibitor_name,
			exhibitions.name AS exhibition_name`).
		Joins("JOIN users ON users.id = applications.exhibitor_id").
		Joins("LEFT JOIN exhibitor_profiles ON exhibitor_profiles.user_id = applications.exhibitor_id").
		Joins("JOIN exhibitions ON exhibitions.id = applications.exhibition_id")
}

func (d *ApplicationDAO) FindViewByID(ctx context.Context, id uint) (ApplicationView, error) {
	var views []ApplicationView

	result := d.viewQuery(ctx).Where("applications.id = ?", id).Limit(1).Scan(&views)
	if result.Error != nil {
		return ApplicationView{}, result.Error
	}
	if len(views) == 0 {
		return ApplicationView{}, ErrApplicationNotFound
	}

	return views[0], nil
}

func (d *ApplicationDAO) FindViewsByExhibitor(ctx context.Context, exhibitorID uint) ([]ApplicationView, error) {
	var views []ApplicationView

	result := d.viewQuery(ctx).
		Where("applications.exhibitor_id = ?", exhibitorID).
		Order("applications.created_at DESC").
		Scan(&views)
	if result.Error != nil {
		return nil, result.Error
	}

	return views, nil
}

// FindViewsByExhibition lists the applications of an exhibition, optionally
// filtered by status when status is not empty.
func (d *ApplicationDAO) FindViewsByExhibition(ctx context.Context, exhibitionID uint, status string) ([]ApplicationView, error) {
	var views []ApplicationView

	query := d.viewQuery(ctx).Where("applications.exhibition_id = ?", exhibitionID)
	if status != "" {
		query = query.Where("applications.status = ?", status)
	}

	result := query.Order("applications.created_at ASC").Scan(&views)
	if result.Error != nil {
		return nil, result.Error
	}

	return views, nil
}
