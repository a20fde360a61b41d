package whatsapp

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/gvfl/standings-api/internal/platform/logging"
	"github.com/gvfl/standings-api/internal/platform/resilience"
	"github.com/gvfl/standings-api/internal/usecase"
)

type ClientConfig struct {
	BaseURL        string
	AuthToken      string
	ChatID         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client relays standings updates to the league chat through a WhatsApp HTTP
// bridge. Delivery is best effort: the caller logs failures and moves on.
type Client struct {
	client         *fasthttp.Client
	baseURL        string
	authToken      string
	chatID         string
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

var _ usecase.Notifier = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		client: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		authToken:      strings.TrimSpace(cfg.AuthToken),
		chatID:         strings.TrimSpace(cfg.ChatID),
		timeout:        timeout,
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
	}
}

type sendMessageRequest struct {
	ChatID  string `json:"chat_id"`
	Message string `json:"message"`
}

func (c *Client) Notify(ctx context.Context, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil
	}
	if c.baseURL == "" {
		return crerr.New("whatsapp base url is not configured")
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "whatsapp circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("whatsapp relay is temporarily unavailable: %w", err)
		}
	}

	payload, err := sonic.Marshal(sendMessageRequest{ChatID: c.chatID, Message: message})
	if err != nil {
		return crerr.Wrap(err, "marshal whatsapp message")
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 300 * time.Millisecond):
			}
		}

		lastErr = c.send(payload)
		if lastErr == nil {
			if c.circuitEnabled {
				c.breaker.RecordSuccess()
			}
			return nil
		}
		c.logger.WarnContext(ctx, "whatsapp send failed",
			"attempt", attempt+1,
			"error", lastErr.Error(),
		)
	}

	if c.circuitEnabled {
		c.breaker.RecordFailure()
	}
	return lastErr
}

func (c *Client) send(payload []byte) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "/send-whatsapp")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = buf.Write(payload)
	req.SetBody(buf.B)

	if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
		return crerr.Wrap(err, "post whatsapp message")
	}
	if status := resp.StatusCode(); status < 200 || status > 299 {
		return crerr.Newf("whatsapp relay status=%d body=%s", status, truncate(string(resp.Body()), 256))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
