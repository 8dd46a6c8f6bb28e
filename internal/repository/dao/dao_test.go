package dao

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		log.Printf("docker not available, integration tests are skipped: %v", err)
		os.Exit(m.Run())
	}

	resource, err := pool.Run("postgres", "16-alpine", []string{
		"POSTGRES_USER=exhibition",
		"POSTGRES_PASSWORD=secret",
		"POSTGRES_DB=exhibition_test",
	})
	if err != nil {
		log.Fatalf("pool.Run -> %v", err)
	}
	_ = resource.Expire(120)

	dsn := fmt.Sprintf("host=localhost port=%s user=exhibition password=secret dbname=exhibition_test sslmode=disable",
		resource.GetPort("5432/tcp"))
	err = pool.Retry(func() error {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err = sqlDB.Ping(); err != nil {
			return err
		}
		testDB = db
		return nil
	})
	if err != nil {
		_ = pool.Purge(resource)
		log.Fatalf("pool.Retry -> %v", err)
	}

	code := m.Run()

	_ = pool.Purge(resource)
	os.Exit(code)
}

// freshDB returns the shared database with an empty schema.
func freshDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testDB == nil {
		t.Skip("postgres container not available")
	}

	require.NoError(t, DropTables(testDB))
	require.NoError(t, InitTables(testDB))

	return testDB
}

func seedUser(t *testing.T, db *gorm.DB, id uint, roles ...string) User {
	t.Helper()

	user := User{ID: id, Email: fmt.Sprintf("user%d@example.com", id), Name: fmt.Sprintf("User %d", id)}
	for _, role := range roles {
		user.Roles = append(user.Roles, UserRole{Role: role})
	}

	stored, err := NewUserDAO(db).Upsert(context.Background(), user)
	require.NoError(t, err)

	return stored
}

func seedExhibition(t *testing.T, db *gorm.DB, booths, visitors int) Exhibition {
	t.Helper()

	start := time.Now().Add(24 * time.Hour).Truncate(24 * time.Hour)
	exhibition, err := NewExhibitionDAO(db).Insert(context.Background(), Exhibition{
		Name:            "Property Expo",
		Venue:           "Convention Centre",
		City:            "Melbourne",
		State:           "VIC",
		Country:         "Australia",
		StartDate:       start,
		EndDate:         start.Add(48 * time.Hour),
		BoothCapacity:   booths,
		VisitorCapacity: visitors,
		IsActive:        true,
		CreatedByID:     1,
	})
	require.NoError(t, err)

	return exhibition
}

func approveWithBooth(booth string) func(Application) (Application, error) {
	return func(current Application) (Application, error) {
		now := time.Now()
		current.Status = "APPROVED"
		current.BoothNumber = &booth
		current.DecidedAt = &now
		return current, nil
	}
}

func TestClampAvailable(t *testing.T) {
	tests := []struct {
		name                           string
		available, oldCap, newCap, out int
	}{
		{"grow keeps reservations", 3, 10, 15, 8},
		{"shrink within free slots", 8, 10, 5, 3},
		{"shrink below reservations", 2, 10, 5, 0},
		{"shrink to zero", 10, 10, 0, 0},
		{"never above capacity", 10, 10, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.out, ClampAvailable(tt.available, tt.oldCap, tt.newCap))
		})
	}
}

func TestCapacityLedger(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	ledger := NewCapacityLedger(db)

	t.Run("concurrent reservations never go below zero", func(t *testing.T) {
		exhibition := seedExhibition(t, db, 0, 5)

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
			exhausted int
		)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := ledger.Reserve(ctx, exhibition.ID, ResourceVisitor)

				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					succeeded++
				case errors.Is(err, ErrCapacityExhausted):
					exhausted++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 5, succeeded)
		assert.Equal(t, 15, exhausted)

		available, err := ledger.Available(ctx, exhibition.ID, ResourceVisitor)
		require.NoError(t, err)
		assert.Zero(t, available)
	})

	t.Run("release into a full counter is a no-op", func(t *testing.T) {
		exhibition := seedExhibition(t, db, 2, 0)

		require.NoError(t, ledger.Release(ctx, exhibition.ID, ResourceBooth))

		available, err := ledger.Available(ctx, exhibition.ID, ResourceBooth)
		require.NoError(t, err)
		assert.Equal(t, 2, available)
	})

	t.Run("resize shifts and clamps the available counter", func(t *testing.T) {
		exhibition := seedExhibition(t, db, 4, 0)
		require.NoError(t, ledger.Reserve(ctx, exhibition.ID, ResourceBooth))
		require.NoError(t, ledger.Reserve(ctx, exhibition.ID, ResourceBooth))
		require.NoError(t, ledger.Reserve(ctx, exhibition.ID, ResourceBooth))

		grown, err := ledger.Resize(ctx, exhibition.ID, ResourceBooth, 6)
		require.NoError(t, err)
		assert.Equal(t, 6, grown.BoothCapacity)
		assert.Equal(t, 3, grown.AvailableBooths)

		shrunk, err := ledger.Resize(ctx, exhibition.ID, ResourceBooth, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, shrunk.BoothCapacity)
		assert.Zero(t, shrunk.AvailableBooths)

		_, err = ledger.Resize(ctx, exhibition.ID, ResourceBooth, -1)
		assert.ErrorIs(t, err, ErrInvalidCapacity)
	})

	t.Run("unknown exhibition and resource", func(t *testing.T) {
		assert.ErrorIs(t, ledger.Reserve(ctx, 9999, ResourceBooth), ErrExhibitionNotFound)
		assert.ErrorIs(t, ledger.Reserve(ctx, 9999, Resource("parking")), ErrUnknownResource)
	})
}

func TestApplicationDAO(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	applications := NewApplicationDAO(db)
	ledger := NewCapacityLedger(db)

	seedUser(t, db, 10, "EXHIBITOR")
	seedUser(t, db, 11, "EXHIBITOR")

	t.Run("duplicate application", func(t *testing.T) {
		exhibition := seedExhibition(t, db, 3, 0)

		_, err := applications.Insert(ctx, Application{ExhibitorID: 10, ExhibitionID: exhibition.ID, Status: "PENDING"})
		require.NoError(t, err)

		_, err = applications.Insert(ctx, Application{ExhibitorID: 10, ExhibitionID: exhibition.ID, Status: "PENDING"})
		assert.ErrorIs(t, err, ErrDuplicateApplication)

		available, err := ledger.Available(ctx, exhibition.ID, ResourceBooth)
		require.NoError(t, err)
		assert.Equal(t, 3, available, "applying does not reserve a booth")
	})

	t.Run("inactive exhibition and unknown exhibitor", func(t *testing.T) {
		exhibition := seedExhibition(t, db, 3, 0)

		_, err := applications.Insert(ctx, Application{ExhibitorID: 404, ExhibitionID: exhibition.ID, Status: "PENDING"})
		assert.ErrorIs(t, err, ErrUserNotFound)

		_, err = NewExhibitionDAO(db).Update(ctx, exhibition.ID, map[string]interface{}{"is_active": false})
		require.NoError(t, err)

		_, err = applications.Insert(ctx, Application{ExhibitorID: 10, ExhibitionID: exhibition.ID, Status: "PENDING"})
		assert.ErrorIs(t, err, ErrExhibitionInactive)
	})

	t.Run("concurrent approvals reserve the last booth once", func(t *testing.T) {
		exhibition := seedExhibition(t, db, 1, 0)

		first, err := applications.Insert(ctx, Application{ExhibitorID: 10, ExhibitionID: exhibition.ID, Status: "PENDING"})
		require.NoError(t, err)
		second, err := applications.Insert(ctx, Application{ExhibitorID: 11, ExhibitionID: exhibition.ID, Status: "PENDING"})
		require.NoError(t, err)

		errs := make([]error, 2)
		var wg sync.WaitGroup
		for i, id := range []uint{first.ID, second.ID} {
			wg.Add(1)
			go func(i int, id uint) {
				defer wg.Done()
				_, errs[i] = applications.Transition(ctx, id, true, approveWithBooth(fmt.Sprintf("B-%d", i+1)))
			}(i, id)
		}
		wg.Wait()

		var approved, exhausted int
		for _, err := range errs {
			switch {
			case err == nil:
				approved++
			case errors.Is(err, ErrCapacityExhausted):
				exhausted++
			}
		}
		assert.Equal(t, 1, approved)
		assert.Equal(t, 1, exhausted)

		available, err := ledger.Available(ctx, exhibition.ID, ResourceBooth)
		require.NoError(t, err)
		assert.Zero(t, available)
	})

	t.Run("booth number is unique per exhibition", func(t *testing.T) {
		exhibition := seedExhibition(t, db, 5, 0)

		first, err := applications.Insert(ctx, Application{ExhibitorID: 10, ExhibitionID: exhibition.ID, Status: "PENDING"})
		require.NoError(t, err)
		second, err := applications.Insert(ctx, Application{ExhibitorID: 11, ExhibitionID: exhibition.ID, Status: "PENDING"})
		require.NoError(t, err)

		approved, err := applications.Transition(ctx, first.ID, true, approveWithBooth("A-01"))
		require.NoError(t, err)
		require.NotNil(t, approved.BoothNumber)
		assert.Equal(t, "A-01", *approved.BoothNumber)

		_, err = applications.Transition(ctx, second.ID, true, approveWithBooth("A-01"))
		assert.ErrorIs(t, err, ErrBoothTaken)

		available, err := ledger.Available(ctx, exhibition.ID, ResourceBooth)
		require.NoError(t, err)
		assert.Equal(t, 4, available, "a failed approval rolls its reservation back")
	})

	t.Run("rejected decision leaves the ledger alone", func(t *testing.T) {
		exhibition := seedExhibition(t, db, 2, 0)

		application, err := applications.Insert(ctx, Application{ExhibitorID: 10, ExhibitionID: exhibition.ID, Status: "PENDING"})
		require.NoError(t, err)

		refused := errors.New("not pending")
		_, err = applications.Transition(ctx, application.ID, false, func(Application) (Application, error) {
			return Application{}, refused
		})
		assert.ErrorIs(t, err, refused)

		_, err = applications.Transition(ctx, 9999, false, approveWithBooth("X-1"))
		assert.ErrorIs(t, err, ErrApplicationNotFound)
	})

	t.Run("views filter by status", func(t *testing.T) {
		exhibition := seedExhibition(t, db, 2, 0)

		application, err := applications.Insert(ctx, Application{ExhibitorID: 11, ExhibitionID: exhibition.ID, Status: "PENDING"})
		require.NoError(t, err)

		view, err := applications.FindViewByID(ctx, application.ID)
		require.NoError(t, err)
		assert.Equal(t, "user11@example.com", view.ExhibitorEmail)
		assert.Equal(t, "Property Expo", view.ExhibitionName)

		pending, err := applications.FindViewsByExhibition(ctx, exhibition.ID, "PENDING")
		require.NoError(t, err)
		assert.Len(t, pending, 1)

		approved, err := applications.FindViewsByExhibition(ctx, exhibition.ID, "APPROVED")
		require.NoError(t, err)
		assert.Empty(t, approved)
	})
}

func TestRegistrationDAO(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	registrations := NewRegistrationDAO(db)
	ledger := NewCapacityLedger(db)

	seedUser(t, db, 20, "VISITOR")
	seedUser(t, db, 21, "VISITOR")

	register := func(t *testing.T, visitorID, exhibitionID uint) Registration {
		t.Helper()
		registration, err := registrations.Insert(ctx, Registration{
			VisitorID:    visitorID,
			ExhibitionID: exhibitionID,
			Token:        uuid.NewString(),
		})
		require.NoError(t, err)
		return registration
	}

	t.Run("duplicate registration releases its slot", func(t *testing.T) {
		exhibition := seedExhibition(t, db, 0, 3)
		register(t, 20, exhibition.ID)

		_, err := registrations.Insert(ctx, Registration{VisitorID: 20, ExhibitionID: exhibition.ID, Token: uuid.NewString()})
		assert.ErrorIs(t, err, ErrDuplicateRegistration)

		available, err := ledger.Available(ctx, exhibition.ID, ResourceVisitor)
		require.NoError(t, err)
		assert.Equal(t, 2, available)
	})

	t.Run("full exhibition", func(t *testing.T) {
		exhibition := seedExhibition(t, db, 0, 1)
		register(t, 20, exhibition.ID)

		_, err := registrations.Insert(ctx, Registration{VisitorID: 21, ExhibitionID: exhibition.ID, Token: uuid.NewString()})
		assert.ErrorIs(t, err, ErrCapacityExhausted)
	})

	t.Run("concurrent scans check in once", func(t *testing.T) {
		exhibition := seedExhibition(t, db, 0, 3)
		registration := register(t, 20, exhibition.ID)

		const scans = 8
		errs := make([]error, scans)
		var wg sync.WaitGroup
		for i := 0; i < scans; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = registrations.CheckIn(ctx, registration.Token, time.Now())
			}(i)
		}
		wg.Wait()

		var ok, already int
		for _, err := range errs {
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrAlreadyCheckedIn):
				already++
			}
		}
		assert.Equal(t, 1, ok)
		assert.Equal(t, scans-1, already)

		stored, err := registrations.FindByID(ctx, registration.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsCheckedIn)
		assert.NotNil(t, stored.CheckedInAt)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := registrations.CheckIn(ctx, uuid.NewString(), time.Now())
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("toggle round trip", func(t *testing.T) {
		exhibition := seedExhibition(t, db, 0, 3)
		registration := register(t, 21, exhibition.ID)

		on, err := registrations.ToggleCheckIn(ctx, registration.ID, time.Now())
		require.NoError(t, err)
		assert.True(t, on.IsCheckedIn)
		assert.NotNil(t, on.CheckedInAt)

		off, err := registrations.ToggleCheckIn(ctx, registration.ID, time.Now())
		require.NoError(t, err)
		assert.False(t, off.IsCheckedIn)
		assert.Nil(t, off.CheckedInAt)

		_, err = registrations.ToggleCheckIn(ctx, 9999, time.Now())
		assert.ErrorIs(t, err, ErrRegistrationNotFound)
	})

	t.Run("cancel releases the slot unless checked in", func(t *testing.T) {
		exhibition := seedExhibition(t, db, 0, 2)
		kept := register(t, 20, exhibition.ID)
		cancelled := register(t, 21, exhibition.ID)

		allowAll := func(Registration) error { return nil }

		_, err := registrations.Delete(ctx, cancelled.ID, allowAll)
		require.NoError(t, err)

		available, err := ledger.Available(ctx, exhibition.ID, ResourceVisitor)
		require.NoError(t, err)
		assert.Equal(t, 1, available)

		_, err = registrations.CheckIn(ctx, kept.Token, time.Now())
		require.NoError(t, err)

		_, err = registrations.Delete(ctx, kept.ID, allowAll)
		assert.ErrorIs(t, err, ErrAlreadyCheckedIn)

		denied := errors.New("not yours")
		_, err = registrations.Delete(ctx, kept.ID, func(Registration) error { return denied })
		assert.ErrorIs(t, err, denied)
	})
}

func TestExhibitionDAO(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	exhibitions := NewExhibitionDAO(db)

	seedUser(t, db, 30, "EXHIBITOR")
	seedUser(t, db, 31, "VISITOR")

	t.Run("update ignores capacity columns", func(t *testing.T) {
		exhibition := seedExhibition(t, db, 4, 4)

		updated, err := exhibitions.Update(ctx, exhibition.ID, map[string]interface{}{
			"name":             "Home Show",
			"booth_capacity":   100,
			"available_booths": 100,
		})
		require.NoError(t, err)
		assert.Equal(t, "Home Show", updated.Name)
		assert.Equal(t, 4, updated.BoothCapacity)
		assert.Equal(t, 4, updated.AvailableBooths)

		_, err = exhibitions.Update(ctx, 9999, map[string]interface{}{"name": "x"})
		assert.ErrorIs(t, err, ErrExhibitionNotFound)
	})

	t.Run("delete cascades", func(t *testing.T) {
		exhibition := seedExhibition(t, db, 2, 2)

		application, err := NewApplicationDAO(db).Insert(ctx, Application{ExhibitorID: 30, ExhibitionID: exhibition.ID, Status: "PENDING"})
		require.NoError(t, err)
		registration, err := NewRegistrationDAO(db).Insert(ctx, Registration{VisitorID: 31, ExhibitionID: exhibition.ID, Token: uuid.NewString()})
		require.NoError(t, err)

		require.NoError(t, exhibitions.Delete(ctx, exhibition.ID))

		_, err = NewApplicationDAO(db).FindByID(ctx, application.ID)
		assert.ErrorIs(t, err, ErrApplicationNotFound)
		_, err = NewRegistrationDAO(db).FindByID(ctx, registration.ID)
		assert.ErrorIs(t, err, ErrRegistrationNotFound)

		assert.ErrorIs(t, exhibitions.Delete(ctx, exhibition.ID), ErrExhibitionNotFound)
	})

	t.Run("expired exhibitions are deactivated", func(t *testing.T) {
		past, err := exhibitions.Insert(ctx, Exhibition{
			Name:        "Last Year",
			Venue:       "Hall",
			City:        "Sydney",
			State:       "NSW",
			Country:     "Australia",
			StartDate:   time.Now().AddDate(-1, 0, 0),
			EndDate:     time.Now().AddDate(-1, 0, 2),
			IsActive:    true,
			CreatedByID: 1,
		})
		require.NoError(t, err)
		current := seedExhibition(t, db, 1, 1)

		n, err := exhibitions.DeactivateExpired(ctx, time.Now())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(1))

		stale, err := exhibitions.FindByID(ctx, past.ID)
		require.NoError(t, err)
		assert.False(t, stale.IsActive)

		active, err := exhibitions.FindActive(ctx)
		require.NoError(t, err)
		ids := make([]uint, 0, len(active))
		for _, e := range active {
			ids = append(ids, e.ID)
		}
		assert.Contains(t, ids, current.ID)
		assert.NotContains(t, ids, past.ID)
	})

	t.Run("exhibition stays open on its last day", func(t *testing.T) {
		lastDay, err := exhibitions.Insert(ctx, Exhibition{
			Name:        "Closing Today",
			Venue:       "Hall",
			City:        "Perth",
			State:       "WA",
			Country:     "Australia",
			StartDate:   time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
			IsActive:    true,
			CreatedByID: 1,
		})
		require.NoError(t, err)

		_, err = exhibitions.DeactivateExpired(ctx, time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC))
		require.NoError(t, err)
		open, err := exhibitions.FindByID(ctx, lastDay.ID)
		require.NoError(t, err)
		assert.True(t, open.IsActive)

		_, err = exhibitions.DeactivateExpired(ctx, time.Date(2026, 10, 19, 0, 0, 1, 0, time.UTC))
		require.NoError(t, err)
		closed, err := exhibitions.FindByID(ctx, lastDay.ID)
		require.NoError(t, err)
		assert.False(t, closed.IsActive)
	})
}

func TestUserDAO(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	users := NewUserDAO(db)

	t.Run("upsert replaces roles", func(t *testing.T) {
		seedUser(t, db, 40, "VISITOR")

		updated := seedUser(t, db, 40, "EXHIBITOR", "ADMIN")
		require.Len(t, updated.Roles, 2)

		emails, err := users.FindEmailsByRoles(ctx, []string{"VISITOR"})
		require.NoError(t, err)
		assert.NotContains(t, emails, "user40@example.com")
	})

	t.Run("email taken by another user", func(t *testing.T) {
		seedUser(t, db, 41)

		_, err := users.Upsert(ctx, User{ID: 42, Email: "user41@example.com", Name: "Someone"})
		assert.ErrorIs(t, err, ErrUserEmailExists)
	})

	t.Run("emails by roles are distinct", func(t *testing.T) {
		seedUser(t, db, 43, "VISITOR", "EXHIBITOR")
		seedUser(t, db, 44, "VISITOR")

		emails, err := users.FindEmailsByRoles(ctx, []string{"VISITOR", "EXHIBITOR"})
		require.NoError(t, err)
		assert.Contains(t, emails, "user43@example.com")
		assert.Contains(t, emails, "user44@example.com")

		seen := map[string]int{}
		for _, email := range emails {
			seen[email]++
		}
		assert.Equal(t, 1, seen["user43@example.com"])
	})

	t.Run("profile is created once", func(t *testing.T) {
		user := User{ID: 45, Email: "user45@example.com", Name: "Acme", Roles: []UserRole{{Role: "EXHIBITOR"}}}
		profile := ExhibitorProfile{CompanyName: "Acme Homes", CouncilArea: "Yarra", BusinessType: "DEVELOPER", ContactNumber: "0412345678"}

		created, err := users.InsertProfile(ctx, user, profile)
		require.NoError(t, err)
		assert.Equal(t, uint(45), created.UserID)

		_, err = users.InsertProfile(ctx, user, profile)
		assert.ErrorIs(t, err, ErrProfileExists)

		found, err := users.FindByID(ctx, 45)
		require.NoError(t, err)
		require.NotNil(t, found.Profile)
		assert.Equal(t, "Acme Homes", found.Profile.CompanyName)

		_, err = users.FindProfileByUserID(ctx, 44)
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})
}

func TestPropertyDAO(t *testing.T) {
	db := freshDB(t)
	ctx := context.Background()
	properties := NewPropertyDAO(db)

	seedUser(t, db, 50, "EXHIBITOR")

	_, err := properties.Insert(ctx, Property{OwnerID: 404, Title: "Loft", PropertyType: "APARTMENT", Location: "Carlton", Price: 1})
	assert.ErrorIs(t, err, ErrUserNotFound)

	property, err := properties.Insert(ctx, Property{OwnerID: 50, Title: "Loft", PropertyType: "APARTMENT", Location: "Carlton", Price: 650000})
	require.NoError(t, err)

	owned, err := properties.FindByOwner(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, owned, 1)

	require.NoError(t, properties.Delete(ctx, property.ID))
	_, err = properties.FindByID(ctx, property.ID)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}
