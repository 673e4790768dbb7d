package rwby

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NasaVasa/railtrack/internal/domain"
	"github.com/NasaVasa/railtrack/internal/infra/metrics"
	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const DefaultBaseURL = "https://pass.rw.by/ru/route/"

var ErrUnavailable = errors.New("ticket site unavailable")

type ClientConfig struct {
	BaseURL       string
	Timeout       time.Duration
	Retries       int
	RetryInterval time.Duration
}

// Client scrapes route pages of the railway ticket site.
type Client struct {
	cfg     ClientConfig
	client  *http.Client
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewClient(cfg ClientConfig, m *metrics.Metrics, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = time.Second
	}
	return &Client{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		metrics: m,
		logger:  logger,
	}
}

// RouteURL builds the canonical query URL of a route; it is the route's
// identity in storage.
func (c *Client) RouteURL(cityFrom, cityTo, date string) string {
	query := url.Values{}
	query.Set("from", cityFrom)
	query.Set("to", cityTo)
	query.Set("date", date)
	return c.cfg.BaseURL + "?" + query.Encode()
}

func (c *Client) FetchTrains(ctx context.Context, routeURL string) ([]domain.Train, error) {
	doc, err := c.fetch(ctx, routeURL)
	if err != nil {
		return nil, err
	}
	return parseTrains(doc), nil
}

// FetchSnapshot never fails: transport and status problems come back as the
// fetch error snapshot.
func (c *Client) FetchSnapshot(ctx context.Context, routeURL, trainNumber string) domain.Snapshot {
	doc, err := c.fetch(ctx, routeURL)
	if err != nil {
		return domain.FetchError()
	}
	return parseSnapshot(doc, trainNumber)
}

func (c *Client) InspectTrain(ctx context.Context, routeURL, trainNumber string) (*domain.TrainInspection, error) {
	doc, err := c.fetch(ctx, routeURL)
	if err != nil {
		return nil, err
	}
	row := findRow(doc, trainNumber)
	if row == nil {
		return &domain.TrainInspection{Snapshot: domain.SalesClosed()}, nil
	}
	return &domain.TrainInspection{
		Listed:                true,
		Snapshot:              rowSnapshot(row),
		SecondsUntilDeparture: secondsUntilDeparture(row),
	}, nil
}

func (c *Client) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.cfg.RetryInterval
	policy.RandomizationFactor = 0.2
	policy.MaxElapsedTime = c.cfg.Timeout

	retries := c.cfg.Retries
	if retries < 0 {
		retries = 0
	}

	start := time.Now()
	attempt := 0
	doc, err := backoff.RetryNotifyWithData(
		func() (*goquery.Document, error) {
			attempt++
			return c.get(ctx, pageURL)
		},
		backoff.WithContext(backoff.WithMaxRetries(policy, uint64(retries)), ctx),
		func(err error, wait time.Duration) {
			c.logger.Warn("site request retry",
				zap.String("url", pageURL),
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(err),
			)
		},
	)
	c.metrics.FetchDone(err, time.Since(start))
	if err != nil {
		c.logger.Error("site request failed",
			zap.String("url", pageURL),
			zap.Int("attempts", attempt),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	c.logger.Debug("site request complete",
		zap.String("url", pageURL),
		zap.Int("attempts", attempt),
		zap.Duration("duration", time.Since(start)),
	)
	return doc, nil
}

func (c *Client) get(ctx context.Context, pageURL string) (*goquery.Document, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	setBrowserHeaders(request.Header, pageURL)

	response, err := c.client.Do(request)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode >= 500 || response.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("site error: status %d", response.StatusCode)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, backoff.Permanent(fmt.Errorf("site error: status %d", response.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(response.Body)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(doc.Text()) == "" {
		return nil, errors.New("site error: empty page")
	}
	return doc, nil
}
