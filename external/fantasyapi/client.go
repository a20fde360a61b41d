package fantasyapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/gvfl/standings-api/internal/platform/logging"
	"github.com/gvfl/standings-api/internal/platform/resilience"
	"github.com/gvfl/standings-api/internal/usecase"
)

const defaultBaseURL = "https://www.hltv.org/fantasy/api"

var errFantasyTransient = crerr.New("fantasy api transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads fantasy game state and league standings from the provider's
// JSON API. Transient failures are retried with backoff behind a circuit
// breaker.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

var _ usecase.FantasyClient = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
	}
}

type gameEnvelope struct {
	Name  string `json:"name"`
	State struct {
		Started  bool `json:"started"`
		Finished bool `json:"finished"`
	} `json:"state"`
}

type leagueRankingEnvelope struct {
	Teams []struct {
		Rank     int    `json:"rank"`
		Username string `json:"username"`
		TeamName string `json:"teamName"`
		Points   int    `json:"points"`
	} `json:"teams"`
}

func (c *Client) GameStatus(ctx context.Context, fantasyID string) (usecase.FantasyGameStatus, error) {
	fantasyID = strings.TrimSpace(fantasyID)
	if fantasyID == "" {
		return usecase.FantasyGameStatus{}, crerr.New("fantasy id is required")
	}

	var envelope gameEnvelope
	path := fmt.Sprintf("/fantasy/%s/overview", fantasyID)
	if err := c.doJSON(ctx, path, &envelope); err != nil {
		return usecase.FantasyGameStatus{}, fmt.Errorf("fetch game status fantasy_id=%s: %w", fantasyID, err)
	}
	return usecase.FantasyGameStatus{
		EventName: envelope.Name,
		Started:   envelope.State.Started,
		Finished:  envelope.State.Finished,
	}, nil
}

func (c *Client) LeagueStandings(ctx context.Context, fantasyID, leagueID string) ([]usecase.FantasyStandingRow, error) {
	fantasyID = strings.TrimSpace(fantasyID)
	leagueID = strings.TrimSpace(leagueID)
	if fantasyID == "" || leagueID == "" {
		return nil, crerr.New("fantasy id and league id are required")
	}

	var envelope leagueRankingEnvelope
	path := fmt.Sprintf("/fantasy/%s/league/%s/ranking", fantasyID, leagueID)
	if err := c.doJSON(ctx, path, &envelope); err != nil {
		return nil, fmt.Errorf("fetch league standings fantasy_id=%s league_id=%s: %w", fantasyID, leagueID, err)
	}

	out := make([]usecase.FantasyStandingRow, 0, len(envelope.Teams))
	for _, team := range envelope.Teams {
		out = append(out, usecase.FantasyStandingRow{
			Rank:     team.Rank,
			Username: team.Username,
			TeamName: team.TeamName,
			Points:   team.Points,
		})
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "fantasy api circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("fantasy api is temporarily unavailable: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		body, err := c.fetch(ctx, path)
		if err != nil {
			lastErr = err
			if stderrors.Is(err, errFantasyTransient) {
				c.logger.WarnContext(ctx, "fantasy api request failed",
					"path", path,
					"attempt", attempt+1,
					"error", err.Error(),
				)
				continue
			}
			break
		}

		if err := sonic.Unmarshal(body, target); err != nil {
			return crerr.Wrap(err, "decode fantasy api response")
		}
		if c.circuitEnabled {
			c.breaker.RecordSuccess()
		}
		return nil
	}

	if c.circuitEnabled {
		c.breaker.RecordFailure()
	}
	return lastErr
}

func (c *Client) fetch(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build fantasy api request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, crerr.WrapWithDepth(1, errFantasyTransient, err.Error())
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, crerr.Wrap(errFantasyTransient, err.Error())
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, crerr.Wrapf(errFantasyTransient, "fantasy api status=%d", resp.StatusCode)
	default:
		return nil, crerr.Newf("fantasy api status=%d body=%s", resp.StatusCode, truncate(string(body), 256))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
