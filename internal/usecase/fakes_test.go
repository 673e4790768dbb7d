package usecase

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/NasaVasa/railtrack/internal/domain"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[int64]bool
}

func newFakeUsers(ids ...int64) *fakeUsers {
	f := &fakeUsers{users: map[int64]bool{}}
	for _, id := range ids {
		f.users[id] = true
	}
	return f
}

func (f *fakeUsers) Ensure(_ context.Context, chatID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[chatID] = true
	return nil
}

func (f *fakeUsers) Exists(_ context.Context, chatID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[chatID], nil
}

func (f *fakeUsers) Delete(_ context.Context, chatID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, chatID)
	return nil
}

type fakeRoutes struct {
	mu     sync.Mutex
	routes map[string]*domain.Route
	trains map[string][]domain.Train
	nextID uint
	before string
}

func newFakeRoutes() *fakeRoutes {
	return &fakeRoutes{routes: map[string]*domain.Route{}, trains: map[string][]domain.Train{}}
}

func (f *fakeRoutes) Ensure(_ context.Context, route *domain.Route) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if stored, ok := f.routes[route.URL]; ok {
		*route = *stored
		return nil
	}
	f.nextID++
	route.ID = f.nextID
	stored := *route
	f.routes[route.URL] = &stored
	return nil
}

func (f *fakeRoutes) FindRoute(_ context.Context, routeURL string) (*domain.Route, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	route, ok := f.routes[routeURL]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *route
	return &copied, nil
}

func (f *fakeRoutes) AddTrains(_ context.Context, routeID uint, trains []domain.Train) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for url, route := range f.routes {
		if route.ID != routeID {
			continue
		}
		for _, train := range trains {
			exists := slices.ContainsFunc(f.trains[url], func(t domain.Train) bool {
				return t.Number == train.Number && t.TimeDepart == train.TimeDepart && t.TimeArrive == train.TimeArrive
			})
			if exists {
				continue
			}
			f.nextID++
			train.ID = f.nextID
			train.RouteID = routeID
			f.trains[url] = append(f.trains[url], train)
		}
		return nil
	}
	return domain.ErrNotFound
}

func (f *fakeRoutes) ListTrains(_ context.Context, routeURL string) ([]domain.Train, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	trains := slices.Clone(f.trains[routeURL])
	sort.Slice(trains, func(i, j int) bool { return trains[i].TimeDepart < trains[j].TimeDepart })
	return trains, nil
}

func (f *fakeRoutes) FindTrain(_ context.Context, routeURL string, trainID uint) (*domain.Train, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, train := range f.trains[routeURL] {
		if train.ID == trainID {
			copied := train
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

// trainID returns the id of the first stored train with number, or 0.
func (f *fakeRoutes) trainID(routeURL, number string) uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, train := range f.trains[routeURL] {
		if train.Number == number {
			return train.ID
		}
	}
	return 0
}

func (f *fakeRoutes) DeleteBefore(_ context.Context, date string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.before = date
	var deleted int64
	for url, route := range f.routes {
		if route.Date < date {
			delete(f.routes, url)
			delete(f.trains, url)
			deleted++
		}
	}
	return deleted, nil
}

type fakeTrackings struct {
	mu          sync.Mutex
	entries     map[uint]*domain.DueTracking
	nextID      uint
	snapWrites  int
	reschedules int
	claimErr    error
	beforeWrite func(id uint)
}

func newFakeTrackings() *fakeTrackings {
	return &fakeTrackings{entries: map[uint]*domain.DueTracking{}}
}

func (f *fakeTrackings) add(entry domain.DueTracking) uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	entry.ID = f.nextID
	f.entries[entry.ID] = &entry
	return entry.ID
}

func (f *fakeTrackings) get(id uint) (domain.DueTracking, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[id]
	if !ok {
		return domain.DueTracking{}, false
	}
	return *entry, true
}

func (f *fakeTrackings) Create(_ context.Context, tracking *domain.Tracking) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, entry := range f.entries {
		if entry.ChatID == tracking.ChatID && entry.TrainID == tracking.TrainID {
			return false, nil
		}
	}
	f.nextID++
	tracking.ID = f.nextID
	f.entries[tracking.ID] = &domain.DueTracking{Tracking: *tracking}
	return true, nil
}

func (f *fakeTrackings) CreateCapped(_ context.Context, tracking *domain.Tracking, limit int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, entry := range f.entries {
		if entry.ChatID != tracking.ChatID {
			continue
		}
		if entry.TrainID == tracking.TrainID {
			return domain.ErrTrackingExists
		}
		count++
	}
	if count >= limit {
		return domain.ErrTrackingLimit
	}
	f.nextID++
	tracking.ID = f.nextID
	f.entries[tracking.ID] = &domain.DueTracking{Tracking: *tracking}
	return nil
}

func (f *fakeTrackings) Exists(_ context.Context, chatID int64, trainID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, entry := range f.entries {
		if entry.ChatID == chatID && entry.TrainID == trainID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTrackings) CountForUser(_ context.Context, chatID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, entry := range f.entries {
		if entry.ChatID == chatID {
			count++
		}
	}
	return count, nil
}

func (f *fakeTrackings) ListForUser(_ context.Context, chatID int64) ([]domain.TrackingView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var views []domain.TrackingView
	for _, entry := range f.entries {
		if entry.ChatID == chatID {
			views = append(views, domain.TrackingView{
				ID:          entry.ID,
				TrainNumber: entry.TrainNumber,
				RouteDate:   entry.RouteDate,
				TimeDepart:  entry.TimeDepart,
				Snapshot:    entry.Snapshot,
				NextCheckAt: entry.NextCheckAt,
			})
		}
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })
	return views, nil
}

func (f *fakeTrackings) ClaimDue(_ context.Context, now time.Time, limit int, lease time.Duration) ([]domain.DueTracking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.claimErr != nil {
		return nil, f.claimErr
	}
	var due []domain.DueTracking
	for _, entry := range f.entries {
		if len(due) == limit {
			break
		}
		if !entry.NextCheckAt.After(now) {
			due = append(due, *entry)
			entry.NextCheckAt = now.Add(lease)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ID < due[j].ID })
	return due, nil
}

func (f *fakeTrackings) UpdateSnapshot(_ context.Context, id uint, snapshot domain.Snapshot, nextCheckAt time.Time) error {
	if f.beforeWrite != nil {
		f.beforeWrite(id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[id]
	if !ok {
		return domain.ErrNotFound
	}
	f.snapWrites++
	entry.Snapshot = snapshot
	entry.NextCheckAt = nextCheckAt
	return nil
}

func (f *fakeTrackings) Reschedule(_ context.Context, id uint, nextCheckAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[id]
	if !ok {
		return domain.ErrNotFound
	}
	f.reschedules++
	entry.NextCheckAt = nextCheckAt
	return nil
}

func (f *fakeTrackings) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.entries, id)
	return nil
}

func (f *fakeTrackings) DeleteForUser(_ context.Context, chatID int64, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[id]
	if !ok || entry.ChatID != chatID {
		return domain.ErrNotFound
	}
	delete(f.entries, id)
	return nil
}

func (f *fakeTrackings) DeleteAllForUser(_ context.Context, chatID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for id, entry := range f.entries {
		if entry.ChatID == chatID {
			delete(f.entries, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeSessions struct {
	mu       sync.Mutex
	sessions map[int64]domain.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: map[int64]domain.Session{}}
}

func (f *fakeSessions) Get(_ context.Context, chatID int64) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[chatID]
	if !ok {
		return &domain.Session{ChatID: chatID, Step: domain.StepIdle}, nil
	}
	return &session, nil
}

func (f *fakeSessions) Save(_ context.Context, session *domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.ChatID] = *session
	return nil
}

func (f *fakeSessions) Delete(_ context.Context, chatID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, chatID)
	return nil
}

// fakeFetcher serves snapshots per train number; a train without an entry
// yields the fetch error snapshot.
type fakeFetcher struct {
	mu          sync.Mutex
	snapshots   map[string]domain.Snapshot
	trains      []domain.Train
	trainsErr   error
	inspections map[string]domain.TrainInspection
	calls       int
	panicOn     string
}

func (f *fakeFetcher) RouteURL(cityFrom, cityTo, date string) string {
	return "https://rw.test/route?date=" + date + "&from=" + cityFrom + "&to=" + cityTo
}

func (f *fakeFetcher) FetchTrains(_ context.Context, _ string) ([]domain.Train, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.trainsErr != nil {
		return nil, f.trainsErr
	}
	return slices.Clone(f.trains), nil
}

func (f *fakeFetcher) FetchSnapshot(_ context.Context, _ string, trainNumber string) domain.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if trainNumber == f.panicOn {
		panic("parser exploded")
	}
	snapshot, ok := f.snapshots[trainNumber]
	if !ok {
		return domain.FetchError()
	}
	return snapshot
}

func (f *fakeFetcher) InspectTrain(_ context.Context, _ string, trainNumber string) (*domain.TrainInspection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	inspection, ok := f.inspections[trainNumber]
	if !ok {
		return nil, errors.New("site down")
	}
	return &inspection, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type sentNotification struct {
	chatID       int64
	notification domain.Notification
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (f *fakeNotifier) Notify(chatID int64, notification domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentNotification{chatID: chatID, notification: notification})
	return f.err
}

func (f *fakeNotifier) all() []sentNotification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.sent)
}
