package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/vietanh2810/exhibition-api/internal/domain"
	"github.com/vietanh2810/exhibition-api/internal/repository/dao"
)

// memStore is an in-memory stand-in for Postgres. One mutex plays the role of
// the row locks and conditional updates of the dao layer.
type memStore struct {
	mu sync.Mutex

	nextID        uint
	users         map[uint]domain.User
	profiles      map[uint]domain.ExhibitorProfile
	exhibitions   map[uint]domain.Exhibition
	applications  map[uint]domain.Application
	registrations map[uint]domain.Registration
	properties    map[uint]domain.Property
}

func newMemStore() *memStore {
	return &memStore{
		users:         map[uint]domain.User{},
		profiles:      map[uint]domain.ExhibitorProfile{},
		exhibitions:   map[uint]domain.Exhibition{},
		applications:  map[uint]domain.Application{},
		registrations: map[uint]domain.Registration{},
		properties:    map[uint]domain.Property{},
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memStore) activeExhibition(id uint) (domain.Exhibition, error) {
	e, ok := m.exhibitions[id]
	if !ok {
		return domain.Exhibition{}, ErrExhibitionNotFound
	}
	if !e.IsActive {
		return domain.Exhibition{}, ErrExhibitionInactive
	}
	return e, nil
}

type fakeUsers struct{ *memStore }

func (f fakeUsers) Upsert(_ context.Context, user domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.users[user.ID] = user
	return user, nil
}

func (f fakeUsers) FindByID(_ context.Context, id uint) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return u, nil
}

func (f fakeUsers) FindEmailsByRoles(_ context.Context, roles ...domain.Role) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var emails []string
	for _, u := range f.users {
		for _, r := range roles {
			if u.HasRole(r) {
				emails = append(emails, u.Email)
				break
			}
		}
	}
	return emails, nil
}

func (f fakeUsers) CreateProfile(_ context.Context, user domain.User, profile domain.ExhibitorProfile) (domain.ExhibitorProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.users[user.ID] = user
	if _, ok := f.profiles[user.ID]; ok {
		return domain.ExhibitorProfile{}, ErrProfileExists
	}
	profile.ID = f.id()
	profile.UserID = user.ID
	f.profiles[user.ID] = profile
	return profile, nil
}

func (f fakeUsers) FindProfileByUserID(_ context.Context, userID uint) (domain.ExhibitorProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[userID]
	if !ok {
		return domain.ExhibitorProfile{}, ErrProfileNotFound
	}
	return p, nil
}

type fakeExhibitions struct{ *memStore }

func (f fakeExhibitions) Create(_ context.Context, e domain.Exhibition) (domain.Exhibition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e.ID = f.id()
	e.AvailableBooths = e.BoothCapacity
	e.AvailableVisitors = e.VisitorCapacity
	f.exhibitions[e.ID] = e
	return e, nil
}

func (f fakeExhibitions) FindByID(_ context.Context, id uint) (domain.Exhibition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.exhibitions[id]
	if !ok {
		return domain.Exhibition{}, ErrExhibitionNotFound
	}
	return e, nil
}

func (f fakeExhibitions) FindActive(_ context.Context) ([]domain.Exhibition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var list []domain.Exhibition
	for _, e := range f.exhibitions {
		if e.IsActive {
			list = append(list, e)
		}
	}
	return list, nil
}

func (f fakeExhibitions) UpdateDetails(_ context.Context, id uint, d domain.ExhibitionDetails) (domain.Exhibition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.exhibitions[id]
	if !ok {
		return domain.Exhibition{}, ErrExhibitionNotFound
	}
	if d.Name != nil {
		e.Name = *d.Name
	}
	if d.StartDate != nil {
		e.StartDate = *d.StartDate
	}
	if d.EndDate != nil {
		e.EndDate = *d.EndDate
	}
	if d.IsActive != nil {
		e.IsActive = *d.IsActive
	}
	f.exhibitions[id] = e
	return e, nil
}

func (f fakeExhibitions) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.exhibitions[id]; !ok {
		return ErrExhibitionNotFound
	}
	delete(f.exhibitions, id)
	return nil
}

func (f fakeExhibitions) DeactivateExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for id, e := range f.exhibitions {
		if e.IsActive && e.Ended(now) {
			e.IsActive = false
			f.exhibitions[id] = e
			n++
		}
	}
	return n, nil
}

func (f fakeExhibitions) Resize(_ context.Context, id uint, r domain.Resource, newCapacity int) (domain.Exhibition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.exhibitions[id]
	if !ok {
		return domain.Exhibition{}, ErrExhibitionNotFound
	}
	if r == domain.ResourceBooth {
		e.AvailableBooths = dao.ClampAvailable(e.AvailableBooths, e.BoothCapacity, newCapacity)
		e.BoothCapacity = newCapacity
	} else {
		e.AvailableVisitors = dao.ClampAvailable(e.AvailableVisitors, e.VisitorCapacity, newCapacity)
		e.VisitorCapacity = newCapacity
	}
	f.exhibitions[id] = e
	return e, nil
}

type fakeApplications struct{ *memStore }

func (f fakeApplications) Create(_ context.Context, a domain.Application) (domain.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, err := f.activeExhibition(a.ExhibitionID)
	if err != nil {
		return domain.Application{}, err
	}
	if e.AvailableBooths <= 0 {
		return domain.Application{}, ErrCapacityExhausted
	}
	for _, existing := range f.applications {
		if existing.ExhibitorID == a.ExhibitorID && existing.ExhibitionID == a.ExhibitionID {
			return domain.Application{}, ErrDuplicateApplication
		}
	}

	a.ID = f.id()
	a.Status = domain.ApplicationPending
	f.applications[a.ID] = a
	return a, nil
}

func (f fakeApplications) Approve(_ context.Context, id uint, booth, badge string, at time.Time) (domain.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.applications[id]
	if !ok {
		return domain.Application{}, ErrApplicationNotFound
	}
	if err := a.Approve(booth, badge, at); err != nil {
		return domain.Application{}, err
	}
	e := f.exhibitions[a.ExhibitionID]
	if e.AvailableBooths <= 0 {
		return domain.Application{}, ErrCapacityExhausted
	}
	for _, other := range f.applications {
		if other.ExhibitionID == a.ExhibitionID && other.BoothNumber == booth {
			return domain.Application{}, ErrBoothTaken
		}
	}

	e.AvailableBooths--
	f.exhibitions[e.ID] = e
	f.applications[id] = a
	return a, nil
}

func (f fakeApplications) Reject(_ context.Context, id uint, at time.Time) (domain.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.applications[id]
	if !ok {
		return domain.Application{}, ErrApplicationNotFound
	}
	if err := a.Reject(at); err != nil {
		return domain.Application{}, err
	}
	f.applications[id] = a
	return a, nil
}

func (f fakeApplications) view(a domain.Application) domain.Application {
	u := f.users[a.ExhibitorID]
	a.ExhibitorEmail = u.Email
	a.ExhibitorName = u.Name
	if p, ok := f.profiles[a.ExhibitorID]; ok && p.CompanyName != "" {
		a.ExhibitorName = p.CompanyName
	}
	a.ExhibitionName = f.exhibitions[a.ExhibitionID].Name
	return a
}

func (f fakeApplications) FindByID(_ context.Context, id uint) (domain.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.applications[id]
	if !ok {
		return domain.Application{}, ErrApplicationNotFound
	}
	return f.view(a), nil
}

func (f fakeApplications) FindByExhibitor(_ context.Context, exhibitorID uint) ([]domain.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var list []domain.Application
	for _, a := range f.applications {
		if a.ExhibitorID == exhibitorID {
			list = append(list, f.view(a))
		}
	}
	return list, nil
}

func (f fakeApplications) FindByExhibition(_ context.Context, exhibitionID uint, status domain.ApplicationStatus) ([]domain.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var list []domain.Application
	for _, a := range f.applications {
		if a.ExhibitionID == exhibitionID && (status == "" || a.Status == status) {
			list = append(list, f.view(a))
		}
	}
	return list, nil
}

type fakeRegistrations struct{ *memStore }

func (f fakeRegistrations) Create(_ context.Context, r domain.Registration) (domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, err := f.activeExhibition(r.ExhibitionID)
	if err != nil {
		return domain.Registration{}, err
	}
	if e.AvailableVisitors <= 0 {
		return domain.Registration{}, ErrCapacityExhausted
	}
	for _, existing := range f.registrations {
		if existing.VisitorID == r.VisitorID && existing.ExhibitionID == r.ExhibitionID {
			return domain.Registration{}, ErrDuplicateRegistration
		}
	}

	e.AvailableVisitors--
	f.exhibitions[e.ID] = e
	r.ID = f.id()
	f.registrations[r.ID] = r
	return r, nil
}

func (f fakeRegistrations) CheckIn(_ context.Context, token string, at time.Time) (domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, r := range f.registrations {
		if r.Token != token {
			continue
		}
		if r.IsCheckedIn {
			return domain.Registration{}, ErrAlreadyCheckedIn
		}
		r.IsCheckedIn = true
		r.CheckedInAt = &at
		f.registrations[id] = r
		return r, nil
	}
	return domain.Registration{}, ErrInvalidToken
}

func (f fakeRegistrations) ToggleCheckIn(_ context.Context, id uint, at time.Time) (domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.registrations[id]
	if !ok {
		return domain.Registration{}, ErrRegistrationNotFound
	}
	r.IsCheckedIn = !r.IsCheckedIn
	r.CheckedInAt = nil
	if r.IsCheckedIn {
		r.CheckedInAt = &at
	}
	f.registrations[id] = r
	return r, nil
}

func (f fakeRegistrations) Cancel(_ context.Context, id uint, allow func(domain.Registration) error) (domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.registrations[id]
	if !ok {
		return domain.Registration{}, ErrRegistrationNotFound
	}
	if err := allow(r); err != nil {
		return domain.Registration{}, err
	}
	if r.IsCheckedIn {
		return domain.Registration{}, ErrAlreadyCheckedIn
	}

	delete(f.registrations, id)
	e := f.exhibitions[r.ExhibitionID]
	if e.AvailableVisitors < e.VisitorCapacity {
		e.AvailableVisitors++
		f.exhibitions[e.ID] = e
	}
	return r, nil
}

func (f fakeRegistrations) FindByID(_ context.Context, id uint) (domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.registrations[id]
	if !ok {
		return domain.Registration{}, ErrRegistrationNotFound
	}
	return r, nil
}

func (f fakeRegistrations) FindByVisitor(_ context.Context, visitorID uint) ([]domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var list []domain.Registration
	for _, r := range f.registrations {
		if r.VisitorID == visitorID {
			list = append(list, r)
		}
	}
	return list, nil
}

func (f fakeRegistrations) FindByExhibition(_ context.Context, exhibitionID uint) ([]domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var list []domain.Registration
	for _, r := range f.registrations {
		if r.ExhibitionID == exhibitionID {
			list = append(list, r)
		}
	}
	return list, nil
}

type fakeProperties struct{ *memStore }

func (f fakeProperties) Create(_ context.Context, p domain.Property) (domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p.ID = f.id()
	f.properties[p.ID] = p
	return p, nil
}

func (f fakeProperties) FindByID(_ context.Context, id uint) (domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.properties[id]
	if !ok {
		return domain.Property{}, ErrPropertyNotFound
	}
	return p, nil
}

func (f fakeProperties) FindByOwner(_ context.Context, ownerID uint) ([]domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var list []domain.Property
	for _, p := range f.properties {
		if p.OwnerID == ownerID {
			list = append(list, p)
		}
	}
	return list, nil
}

func (f fakeProperties) FindAll(_ context.Context) ([]domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var list []domain.Property
	for _, p := range f.properties {
		list = append(list, p)
	}
	return list, nil
}

func (f fakeProperties) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.properties[id]; !ok {
		return ErrPropertyNotFound
	}
	delete(f.properties, id)
	return nil
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyApplicationDecision(ctx context.Context, decision domain.ApplicationDecision) error {
	args := m.Called(ctx, decision)
	return args.Error(0)
}

func (m *mockNotifier) NotifyExhibitionPublished(ctx context.Context, recipients []string, exhibition domain.ExhibitionSummary) error {
	args := m.Called(ctx, recipients, exhibition)
	return args.Error(0)
}

type recordingFeed struct {
	mu     sync.Mutex
	events []domain.GateEvent
}

func (f *recordingFeed) Publish(event domain.GateEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *recordingFeed) Events() []domain.GateEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.GateEvent(nil), f.events...)
}

type stubPasses struct{}

func (stubPasses) Encode(payload string) ([]byte, error) {
	return []byte("png:" + payload), nil
}

func actorAs(id uint, role domain.Role) domain.Actor {
	return domain.Actor{
		UserID: id,
		Email:  fmt.Sprintf("user%d@example.com", id),
		Name:   fmt.Sprintf("User %d", id),
		Role:   role,
		Roles:  []domain.Role{role},
	}
}

var admin = actorAs(1, domain.RoleAdmin)

func seedExhibition(t *testing.T, store *memStore, booths, visitors int) domain.Exhibition {
	t.Helper()

	e, err := fakeExhibitions{store}.Create(context.Background(), domain.Exhibition{
		Name:            "Property Expo",
		StartDate:       time.Now(),
		EndDate:         time.Now().Add(72 * time.Hour),
		BoothCapacity:   booths,
		VisitorCapacity: visitors,
		IsActive:        true,
	})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func seedExhibitor(store *memStore, id uint, company string) domain.Actor {
	actor := actorAs(id, domain.RoleExhibitor)
	_, _ = fakeUsers{store}.CreateProfile(context.Background(), actor.User(), domain.ExhibitorProfile{
		CompanyName:  company,
		BusinessType: domain.BusinessDeveloper,
	})
	return actor
}
