package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NasaVasa/railtrack/internal/domain"
	"github.com/NasaVasa/railtrack/internal/infra/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap/zaptest"
)

var testNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

type schedulerFixture struct {
	scheduler *Scheduler
	trackings *fakeTrackings
	fetcher   *fakeFetcher
	notifier  *fakeNotifier
	metrics   *metrics.Metrics
	clock     *time.Time
}

func newSchedulerFixture(t *testing.T) *schedulerFixture {
	t.Helper()
	f := &schedulerFixture{
		trackings: newFakeTrackings(),
		fetcher:   &fakeFetcher{snapshots: map[string]domain.Snapshot{}},
		notifier:  &fakeNotifier{},
		metrics:   metrics.New("test", prometheus.NewRegistry()),
	}
	clock := testNow
	f.clock = &clock
	f.scheduler = NewScheduler(SchedulerConfig{
		IdleInterval: 10 * time.Millisecond,
		BatchSize:    50,
		Workers:      3,
		ErrorBackoff: 15 * time.Minute,
		FetchTimeout: time.Second,
		Location:     time.UTC,
	}, f.trackings, f.fetcher, f.notifier, f.metrics, zaptest.NewLogger(t))
	f.scheduler.now = func() time.Time { return *f.clock }
	f.scheduler.jitter = newJitter(7)
	return f
}

func dueEntry(chatID int64, number string, departsIn time.Duration, snapshot domain.Snapshot) domain.DueTracking {
	departure := testNow.Add(departsIn)
	return domain.DueTracking{
		Tracking: domain.Tracking{
			ChatID:      chatID,
			TrainID:     1,
			Snapshot:    snapshot,
			NextCheckAt: testNow.Add(-time.Minute),
		},
		TrainNumber: number,
		TimeDepart:  departure.Format("15:04"),
		RouteDate:   departure.Format(domain.DateLayout),
		URL:         "https://rw.test/route",
	}
}

func (f *schedulerFixture) runOnce(t *testing.T) int {
	t.Helper()
	processed, err := f.scheduler.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	return processed
}

func TestDelayRange(t *testing.T) {
	tests := []struct {
		name     string
		until    time.Duration
		min, max time.Duration
		departed bool
	}{
		{name: "days out", until: 72 * time.Hour, min: 40 * time.Minute, max: 60 * time.Minute},
		{name: "exactly 36h", until: 36 * time.Hour, min: 40 * time.Minute, max: 60 * time.Minute},
		{name: "30h", until: 30 * time.Hour, min: 20 * time.Minute, max: 40 * time.Minute},
		{name: "exactly 24h", until: 24 * time.Hour, min: 20 * time.Minute, max: 40 * time.Minute},
		{name: "10h", until: 10 * time.Hour, min: 10 * time.Minute, max: 20 * time.Minute},
		{name: "exactly 4h", until: 4 * time.Hour, min: 10 * time.Minute, max: 20 * time.Minute},
		{name: "2h", until: 2 * time.Hour, min: 5 * time.Minute, max: 10 * time.Minute},
		{name: "departing now", until: 0, min: 5 * time.Minute, max: 10 * time.Minute},
		{name: "departed", until: -time.Second, departed: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			low, high, ok := delayRange(tt.until)
			if ok == tt.departed {
				t.Fatalf("expected departed=%v, got ok=%v", tt.departed, ok)
			}
			if low != tt.min || high != tt.max {
				t.Errorf("expected [%v, %v], got [%v, %v]", tt.min, tt.max, low, high)
			}
		})
	}
}

func TestNextCheckDelayStaysInBand(t *testing.T) {
	j := newJitter(42)
	for _, tt := range []struct {
		until    time.Duration
		min, max time.Duration
	}{
		{until: 30 * time.Hour, min: 20 * time.Minute, max: 40 * time.Minute},
		{until: 2 * time.Hour, min: 5 * time.Minute, max: 10 * time.Minute},
	} {
		seenMin, seenMax := false, false
		for i := 0; i < 2000; i++ {
			delay, ok := nextCheckDelay(tt.until, j.IntN)
			if !ok {
				t.Fatalf("unexpected departed for %v", tt.until)
			}
			if delay < tt.min || delay > tt.max {
				t.Fatalf("delay %v outside [%v, %v] for %v", delay, tt.min, tt.max, tt.until)
			}
			if delay%time.Minute != 0 {
				t.Fatalf("expected whole minutes, got %v", delay)
			}
			seenMin = seenMin || delay == tt.min
			seenMax = seenMax || delay == tt.max
		}
		if !seenMin || !seenMax {
			t.Errorf("expected both range ends to be drawn for %v", tt.until)
		}
	}
	if _, ok := nextCheckDelay(-time.Minute, j.IntN); ok {
		t.Error("expected no delay for a departed train")
	}
}

func TestErrorDelayBound(t *testing.T) {
	j := newJitter(3)
	for i := 0; i < 2000; i++ {
		delay := errorDelay(15*time.Minute, j.IntN)
		if delay < 15*time.Minute || delay > 18*time.Minute {
			t.Fatalf("error delay %v outside [15m, 18m]", delay)
		}
	}
}

func TestSchedulerReportsChange(t *testing.T) {
	f := newSchedulerFixture(t)
	id := f.trackings.add(dueEntry(42, "703Б", 30*time.Hour, domain.SeatsSnapshot(map[string]int{"Сидячий": 3})))
	fresh := domain.SeatsSnapshot(map[string]int{"Сидячий": 5})
	f.fetcher.snapshots["703Б"] = fresh

	if processed := f.runOnce(t); processed != 1 {
		t.Fatalf("expected 1 processed entry, got %d", processed)
	}

	sent := f.notifier.all()
	if len(sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(sent))
	}
	if sent[0].chatID != 42 || sent[0].notification.Kind != domain.NotificationChanged {
		t.Errorf("unexpected notification %+v", sent[0])
	}
	if sent[0].notification.URL != "https://rw.test/route" {
		t.Errorf("expected route link, got %q", sent[0].notification.URL)
	}
	stored, _ := f.trackings.get(id)
	if !stored.Snapshot.Equal(fresh) {
		t.Errorf("expected stored snapshot %+v, got %+v", fresh, stored.Snapshot)
	}
	if f.trackings.snapWrites != 1 {
		t.Errorf("expected 1 snapshot write, got %d", f.trackings.snapWrites)
	}
	delay := stored.NextCheckAt.Sub(testNow)
	if delay < 20*time.Minute || delay > 40*time.Minute {
		t.Errorf("expected next check in [20m, 40m], got %v", delay)
	}
	if got := testutil.ToFloat64(f.metrics.Checks.WithLabelValues(checkChanged)); got != 1 {
		t.Errorf("expected changed check metric 1, got %v", got)
	}
}

func TestSchedulerSilentWhenUnchanged(t *testing.T) {
	f := newSchedulerFixture(t)
	snapshot := domain.SeatsSnapshot(map[string]int{"Сидячий": 3})
	id := f.trackings.add(dueEntry(42, "703Б", 2*time.Hour, snapshot))
	f.fetcher.snapshots["703Б"] = domain.SeatsSnapshot(map[string]int{"Сидячий": 3})

	f.runOnce(t)

	if sent := f.notifier.all(); len(sent) != 0 {
		t.Fatalf("expected no notifications, got %d", len(sent))
	}
	if f.trackings.snapWrites != 0 {
		t.Errorf("expected no snapshot writes, got %d", f.trackings.snapWrites)
	}
	stored, _ := f.trackings.get(id)
	delay := stored.NextCheckAt.Sub(testNow)
	if delay < 5*time.Minute || delay > 10*time.Minute {
		t.Errorf("expected next check in [5m, 10m], got %v", delay)
	}
}

func TestSchedulerScenarioSeatsMoveBetweenClasses(t *testing.T) {
	f := newSchedulerFixture(t)
	id := f.trackings.add(dueEntry(7, "687Б", 50*time.Hour, domain.SeatsSnapshot(map[string]int{"Плацкартный": 2})))
	f.fetcher.snapshots["687Б"] = domain.SeatsSnapshot(map[string]int{"Плацкартный": 0, "Купейный": 1})

	f.runOnce(t)

	sent := f.notifier.all()
	if len(sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(sent))
	}
	classes := sent[0].notification.Snapshot.Classes()
	if len(classes) != 2 || classes[0] != (domain.SeatCount{Class: "Плацкартный", Count: 0}) || classes[1] != (domain.SeatCount{Class: "Купейный", Count: 1}) {
		t.Errorf("expected both classes in the notification, got %+v", classes)
	}
	stored, _ := f.trackings.get(id)
	if !stored.Snapshot.Equal(domain.SeatsSnapshot(map[string]int{"Плацкартный": 0, "Купейный": 1})) {
		t.Errorf("expected stored snapshot updated, got %+v", stored.Snapshot)
	}
}

func TestSchedulerRetiresDepartedTrain(t *testing.T) {
	f := newSchedulerFixture(t)
	id := f.trackings.add(dueEntry(42, "703Б", -10*time.Minute, domain.NoSeats()))
	f.fetcher.snapshots["703Б"] = domain.SeatsSnapshot(map[string]int{"Сидячий": 9})

	f.runOnce(t)

	if _, ok := f.trackings.get(id); ok {
		t.Fatal("expected departed entry to be deleted")
	}
	sent := f.notifier.all()
	if len(sent) != 1 || sent[0].notification.Kind != domain.NotificationEnded {
		t.Fatalf("expected one ended notification, got %+v", sent)
	}
	if calls := f.fetcher.callCount(); calls != 0 {
		t.Errorf("expected no fetch for a departed train, got %d", calls)
	}

	*f.clock = f.clock.Add(time.Hour)
	f.runOnce(t)
	if sent := f.notifier.all(); len(sent) != 1 {
		t.Errorf("expected ended notification only once, got %d", len(sent))
	}
}

func TestSchedulerBacksOffOnFetchErrors(t *testing.T) {
	f := newSchedulerFixture(t)
	original := domain.SeatsSnapshot(map[string]int{"Купейный": 4})
	id := f.trackings.add(dueEntry(42, "703Б", 48*time.Hour, original))

	for pass := 0; pass < 6; pass++ {
		now := *f.clock
		if processed := f.runOnce(t); processed != 1 {
			t.Fatalf("pass %d: expected 1 processed entry, got %d", pass, processed)
		}
		stored, ok := f.trackings.get(id)
		if !ok {
			t.Fatalf("pass %d: entry deleted on fetch error", pass)
		}
		advance := stored.NextCheckAt.Sub(now)
		if advance <= 0 || advance > 30*time.Minute {
			t.Fatalf("pass %d: next check advanced by %v", pass, advance)
		}
		if !stored.Snapshot.Equal(original) {
			t.Fatalf("pass %d: stored snapshot overwritten with %+v", pass, stored.Snapshot)
		}
		*f.clock = stored.NextCheckAt
	}
	if sent := f.notifier.all(); len(sent) != 0 {
		t.Errorf("expected no notifications on fetch errors, got %d", len(sent))
	}
	if f.trackings.snapWrites != 0 {
		t.Errorf("expected no snapshot writes, got %d", f.trackings.snapWrites)
	}
}

func TestSchedulerIsolatesPanickingEntry(t *testing.T) {
	f := newSchedulerFixture(t)
	bad := f.trackings.add(dueEntry(1, "666", 10*time.Hour, domain.NoSeats()))
	good := f.trackings.add(dueEntry(2, "703Б", 10*time.Hour, domain.NoSeats()))
	f.fetcher.panicOn = "666"
	f.fetcher.snapshots["703Б"] = domain.SalesClosed()

	if processed := f.runOnce(t); processed != 2 {
		t.Fatalf("expected 2 processed entries, got %d", processed)
	}

	stored, ok := f.trackings.get(bad)
	if !ok {
		t.Fatal("expected panicking entry to survive")
	}
	if delay := stored.NextCheckAt.Sub(testNow); delay < 15*time.Minute || delay > 18*time.Minute {
		t.Errorf("expected panicking entry rescheduled with backoff, got %v", delay)
	}
	if stored, _ := f.trackings.get(good); stored.Snapshot.Kind != domain.SnapshotSalesClosed {
		t.Errorf("expected healthy entry processed, got %+v", stored.Snapshot)
	}
	if sent := f.notifier.all(); len(sent) != 1 || sent[0].chatID != 2 {
		t.Errorf("expected one notification for the healthy entry, got %+v", sent)
	}
}

func TestSchedulerDeletedMidCheckIsNoop(t *testing.T) {
	f := newSchedulerFixture(t)
	id := f.trackings.add(dueEntry(42, "703Б", 30*time.Hour, domain.NoSeats()))
	f.fetcher.snapshots["703Б"] = domain.SeatsSnapshot(map[string]int{"Сидячий": 1})
	f.trackings.beforeWrite = func(id uint) {
		_ = f.trackings.Delete(context.Background(), id)
	}

	f.runOnce(t)

	if _, ok := f.trackings.get(id); ok {
		t.Fatal("expected deleted entry not to be recreated")
	}
	if sent := f.notifier.all(); len(sent) != 0 {
		t.Errorf("expected no notification for a deleted entry, got %d", len(sent))
	}
}

func TestSchedulerSurvivesNotifierFailure(t *testing.T) {
	f := newSchedulerFixture(t)
	id := f.trackings.add(dueEntry(42, "703Б", 30*time.Hour, domain.NoSeats()))
	f.fetcher.snapshots["703Б"] = domain.SeatsSnapshot(map[string]int{"Сидячий": 1})
	f.notifier.err = errors.New("bot was blocked by the user")

	f.runOnce(t)

	stored, _ := f.trackings.get(id)
	if stored.Snapshot.Kind != domain.SnapshotSeats {
		t.Errorf("expected snapshot persisted despite notifier failure, got %+v", stored.Snapshot)
	}
	if !stored.NextCheckAt.After(testNow) {
		t.Errorf("expected next check after now, got %v", stored.NextCheckAt)
	}
}

func TestSchedulerNextCheckIsAlwaysAhead(t *testing.T) {
	f := newSchedulerFixture(t)
	ids := []uint{
		f.trackings.add(dueEntry(1, "A", 100*time.Hour, domain.NoSeats())),
		f.trackings.add(dueEntry(2, "B", 25*time.Hour, domain.NoSeats())),
		f.trackings.add(dueEntry(3, "C", 5*time.Hour, domain.NoSeats())),
		f.trackings.add(dueEntry(4, "D", 30*time.Minute, domain.NoSeats())),
		f.trackings.add(dueEntry(5, "E", 3*time.Hour, domain.NoSeats())),
	}
	f.fetcher.snapshots["A"] = domain.NoSeats()
	f.fetcher.snapshots["B"] = domain.SalesClosed()
	f.fetcher.snapshots["C"] = domain.SeatsSnapshot(map[string]int{"СВ": 1})
	f.fetcher.snapshots["D"] = domain.NoSeats()

	f.runOnce(t)

	for _, id := range ids {
		stored, ok := f.trackings.get(id)
		if !ok {
			t.Fatalf("entry %d unexpectedly deleted", id)
		}
		if !stored.NextCheckAt.After(testNow) {
			t.Errorf("entry %d: next check %v not after %v", id, stored.NextCheckAt, testNow)
		}
	}
	if processed := f.runOnce(t); processed != 0 {
		t.Errorf("expected nothing due right after a pass, got %d", processed)
	}
}

func TestSchedulerRunStopsOnCancel(t *testing.T) {
	f := newSchedulerFixture(t)
	f.trackings.claimErr = errors.New("database is down")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.scheduler.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean stop, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}

	if _, err := f.scheduler.RunOnce(context.Background()); err == nil {
		t.Error("expected claim error to surface from RunOnce")
	}
}
