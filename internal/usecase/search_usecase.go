package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NasaVasa/railtrack/internal/domain"
	"github.com/NasaVasa/railtrack/internal/stations"
	"go.uber.org/zap"
)

const maxSuggestions = 10

var (
	ErrUnknownStation  = errors.New("unknown station")
	ErrSameStation     = errors.New("origin equals destination")
	ErrNoTrains        = errors.New("no trains on route")
	ErrSiteUnavailable = errors.New("ticket site unavailable")
	ErrUnexpectedStep  = errors.New("unexpected search step")
)

// UnknownStationError carries close matches for a station name that is not
// in the directory.
type UnknownStationError struct {
	Input       string
	Suggestions []string
}

func (e *UnknownStationError) Error() string {
	return fmt.Sprintf("unknown station %q", e.Input)
}

func (e *UnknownStationError) Is(target error) bool { return target == ErrUnknownStation }

// TrainDetails is a train of the current route with its live seat state.
type TrainDetails struct {
	Train     domain.Train
	CityFrom  string
	CityTo    string
	Date      string
	URL       string
	Snapshot  domain.Snapshot
	Trackable bool
}

// SearchUsecase drives the conversational search: origin, destination,
// date, then train selection and tracking from the resulting route.
type SearchUsecase struct {
	sessions domain.SessionRepository
	routes   domain.RouteRepository
	fetcher  domain.RouteFetcher
	tracking *TrackingUsecase
	stations *stations.Directory
	logger   *zap.Logger
	loc      *time.Location
	now      func() time.Time
}

func NewSearchUsecase(sessions domain.SessionRepository, routes domain.RouteRepository, fetcher domain.RouteFetcher, tracking *TrackingUsecase, directory *stations.Directory, loc *time.Location, logger *zap.Logger) *SearchUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &SearchUsecase{
		sessions: sessions,
		routes:   routes,
		fetcher:  fetcher,
		tracking: tracking,
		stations: directory,
		logger:   logger,
		loc:      loc,
		now:      time.Now,
	}
}

func (u *SearchUsecase) Today() time.Time {
	return u.now().In(u.loc)
}

func (u *SearchUsecase) Session(ctx context.Context, chatID int64) (*domain.Session, error) {
	return u.sessions.Get(ctx, chatID)
}

// BeginSearch starts a new route search, keeping the last route URL so the
// previous train list stays reachable until a new one is found.
func (u *SearchUsecase) BeginSearch(ctx context.Context, chatID int64) error {
	session, err := u.sessions.Get(ctx, chatID)
	if err != nil {
		return err
	}
	session.Step = domain.StepOrigin
	session.CityFrom = ""
	session.CityTo = ""
	session.Date = ""
	return u.sessions.Save(ctx, session)
}

// CancelStep drops a pending free-text step.
func (u *SearchUsecase) CancelStep(ctx context.Context, chatID int64) error {
	session, err := u.sessions.Get(ctx, chatID)
	if err != nil {
		return err
	}
	if session.Step == domain.StepIdle {
		return nil
	}
	session.Step = domain.StepIdle
	return u.sessions.Save(ctx, session)
}

func (u *SearchUsecase) SetOrigin(ctx context.Context, chatID int64, text string) (string, error) {
	session, err := u.sessionAt(ctx, chatID, domain.StepOrigin)
	if err != nil {
		return "", err
	}
	name, err := u.resolveStation(text)
	if err != nil {
		return "", err
	}
	session.CityFrom = name
	session.Step = domain.StepDestination
	if err := u.sessions.Save(ctx, session); err != nil {
		return "", err
	}
	return name, nil
}

func (u *SearchUsecase) SetDestination(ctx context.Context, chatID int64, text string) (string, error) {
	session, err := u.sessionAt(ctx, chatID, domain.StepDestination)
	if err != nil {
		return "", err
	}
	name, err := u.resolveStation(text)
	if err != nil {
		return "", err
	}
	if name == session.CityFrom {
		return "", ErrSameStation
	}
	session.CityTo = name
	session.Step = domain.StepDate
	if err := u.sessions.Save(ctx, session); err != nil {
		return "", err
	}
	return name, nil
}

// SetDate accepts typed date input, fetches the route's trains and stores
// the route as the chat's current one.
func (u *SearchUsecase) SetDate(ctx context.Context, chatID int64, text string) ([]domain.Train, error) {
	session, err := u.sessionAt(ctx, chatID, domain.StepDate)
	if err != nil {
		return nil, err
	}
	date, err := NormalizeDate(text, u.Today())
	if err != nil {
		return nil, err
	}
	return u.searchRoute(ctx, session, date)
}

// PickDate is SetDate for a date chosen on the calendar keyboard.
func (u *SearchUsecase) PickDate(ctx context.Context, chatID int64, date string) ([]domain.Train, error) {
	session, err := u.sessionAt(ctx, chatID, domain.StepDate)
	if err != nil {
		return nil, err
	}
	parsed, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if err := CheckDateWindow(parsed, u.Today()); err != nil {
		return nil, err
	}
	return u.searchRoute(ctx, session, date)
}

func (u *SearchUsecase) searchRoute(ctx context.Context, session *domain.Session, date string) ([]domain.Train, error) {
	routeURL := u.fetcher.RouteURL(session.CityFrom, session.CityTo, date)
	trains, err := u.fetcher.FetchTrains(ctx, routeURL)
	if err != nil {
		u.logger.Warn("route search failed", zap.Int64("chat_id", session.ChatID), zap.String("url", routeURL), zap.Error(err))
		return nil, ErrSiteUnavailable
	}

	route := &domain.Route{CityFrom: session.CityFrom, CityTo: session.CityTo, Date: date, URL: routeURL}
	if err := u.routes.Ensure(ctx, route); err != nil {
		return nil, err
	}
	if err := u.routes.AddTrains(ctx, route.ID, trains); err != nil {
		return nil, err
	}

	session.Date = date
	session.URL = routeURL
	session.Step = domain.StepIdle
	if err := u.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	u.logger.Info("route searched",
		zap.Int64("chat_id", session.ChatID),
		zap.String("from", session.CityFrom),
		zap.String("to", session.CityTo),
		zap.String("date", date),
		zap.Int("trains", len(trains)),
	)

	if len(trains) == 0 {
		return nil, ErrNoTrains
	}
	return u.routes.ListTrains(ctx, routeURL)
}

// ListTrains returns the chat's last searched route and its trains.
func (u *SearchUsecase) ListTrains(ctx context.Context, chatID int64) (*domain.Route, []domain.Train, error) {
	route, err := u.currentRoute(ctx, chatID)
	if err != nil {
		return nil, nil, err
	}
	trains, err := u.routes.ListTrains(ctx, route.URL)
	if err != nil {
		return nil, nil, err
	}
	if len(trains) == 0 {
		return nil, nil, ErrRouteLost
	}
	return route, trains, nil
}

// SelectTrain reads the live seat state of a train of the current route. A
// train whose departure countdown ran out, or which sells unnumbered
// seats, cannot be tracked.
func (u *SearchUsecase) SelectTrain(ctx context.Context, chatID int64, trainID uint) (*TrainDetails, error) {
	route, err := u.currentRoute(ctx, chatID)
	if err != nil {
		return nil, err
	}
	train, err := u.routes.FindTrain(ctx, route.URL, trainID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrRouteLost
		}
		return nil, err
	}
	inspection, err := u.fetcher.InspectTrain(ctx, route.URL, train.Number)
	if err != nil {
		u.logger.Warn("train inspection failed", zap.Int64("chat_id", chatID), zap.String("train", train.Number), zap.Error(err))
		return nil, ErrSiteUnavailable
	}

	trackable := inspection.Listed &&
		inspection.SecondsUntilDeparture > 0 &&
		!inspection.Snapshot.IsFetchError() &&
		!inspection.Snapshot.HasUnnumbered()
	return &TrainDetails{
		Train:     *train,
		CityFrom:  route.CityFrom,
		CityTo:    route.CityTo,
		Date:      route.Date,
		URL:       route.URL,
		Snapshot:  inspection.Snapshot,
		Trackable: trackable,
	}, nil
}

// StartTracking admits a train of the chat's current route and returns the
// train it resolved to.
func (u *SearchUsecase) StartTracking(ctx context.Context, chatID int64, trainID uint) (*domain.Train, Outcome, error) {
	route, err := u.currentRoute(ctx, chatID)
	if err != nil {
		return nil, "", err
	}
	train, err := u.routes.FindTrain(ctx, route.URL, trainID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrRouteLost
		}
		return nil, "", err
	}
	outcome, err := u.tracking.StartTracking(ctx, chatID, route.URL, train.ID)
	if err != nil {
		return nil, "", err
	}
	return train, outcome, nil
}

func (u *SearchUsecase) currentRoute(ctx context.Context, chatID int64) (*domain.Route, error) {
	session, err := u.sessions.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if session.URL == "" {
		return nil, ErrRouteLost
	}
	route, err := u.routes.FindRoute(ctx, session.URL)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrRouteLost
		}
		return nil, err
	}
	return route, nil
}

func (u *SearchUsecase) sessionAt(ctx context.Context, chatID int64, step domain.SessionStep) (*domain.Session, error) {
	session, err := u.sessions.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if session.Step != step {
		return nil, ErrUnexpectedStep
	}
	return session, nil
}

func (u *SearchUsecase) resolveStation(text string) (string, error) {
	name, known := u.stations.Lookup(text)
	if known {
		return name, nil
	}
	return "", &UnknownStationError{
		Input:       strings.TrimSpace(text),
		Suggestions: u.stations.Suggest(text, maxSuggestions),
	}
}
