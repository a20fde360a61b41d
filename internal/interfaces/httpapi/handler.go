package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/gvfl/standings-api/internal/platform/logging"
	"github.com/gvfl/standings-api/internal/usecase"
)

const defaultActor = "api"

type Handler struct {
	identityService    *usecase.IdentityService
	standingsService   *usecase.StandingsService
	leaderboardService *usecase.LeaderboardService
	seasonService      *usecase.SeasonService
	ingestionService   *usecase.IngestionService
	projectorService   *usecase.ProjectorService
	pollService        *usecase.PollService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	identityService *usecase.IdentityService,
	standingsService *usecase.StandingsService,
	leaderboardService *usecase.LeaderboardService,
	seasonService *usecase.SeasonService,
	ingestionService *usecase.IngestionService,
	projectorService *usecase.ProjectorService,
	pollService *usecase.PollService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		identityService:    identityService,
		standingsService:   standingsService,
		leaderboardService: leaderboardService,
		seasonService:      seasonService,
		ingestionService:   ingestionService,
		projectorService:   projectorService,
		pollService:        pollService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeAndValidate decodes the request body into target and runs struct
// validation. Failures map to ErrInvalidInput.
func (h *Handler) decodeAndValidate(r *http.Request, target any) error {
	if err := h.decode(r, target); err != nil {
		return err
	}
	return h.validate(target)
}

func (h *Handler) decode(r *http.Request, target any) error {
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) validate(target any) error {
	if err := h.validator.Struct(target); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// actorFrom identifies who performed a mutation, for the audit trail.
func actorFrom(r *http.Request) string {
	if actor := strings.TrimSpace(r.Header.Get("X-Actor")); actor != "" {
		return actor
	}
	return defaultActor
}
