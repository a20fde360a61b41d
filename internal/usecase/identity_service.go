package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gvfl/standings-api/internal/domain/participant"
)

// IdentityService resolves raw names to canonical identities and manages the
// participant registry.
type IdentityService struct {
	registry participant.Repository
	now      func() time.Time
}

func NewIdentityService(registry participant.Repository) *IdentityService {
	return &IdentityService{
		registry: registry,
		now:      time.Now,
	}
}

// Resolve maps a raw name to its canonical identity. Lookup order: preferred
// name, then registered alias, then the raw name itself. Total (never fails
// for unknown names) and idempotent: resolving an already-canonical name
// returns the same identity.
func (s *IdentityService) Resolve(ctx context.Context, rawName string) (participant.Identity, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IdentityService.Resolve")
	defer span.End()

	rawName = strings.TrimSpace(rawName)
	if rawName == "" {
		return participant.Identity{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	if p, ok, err := s.registry.GetByPreferredName(ctx, rawName); err != nil {
		return participant.Identity{}, fmt.Errorf("get participant by preferred name: %w", err)
	} else if ok {
		return participant.IdentityFor(p.PreferredName), nil
	}

	if p, ok, err := s.registry.GetByAlias(ctx, rawName); err != nil {
		return participant.Identity{}, fmt.Errorf("get participant by alias: %w", err)
	} else if ok {
		return participant.IdentityFor(p.PreferredName), nil
	}

	return participant.IdentityFor(rawName), nil
}

func (s *IdentityService) List(ctx context.Context) ([]participant.Participant, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IdentityService.List")
	defer span.End()

	items, err := s.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return items, nil
}

func (s *IdentityService) Register(ctx context.Context, p participant.Participant) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.IdentityService.Register")
	defer span.End()

	p.PreferredName = strings.TrimSpace(p.PreferredName)
	p.FantasyName = strings.TrimSpace(p.FantasyName)
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, ok, err := s.registry.GetByPreferredName(ctx, p.PreferredName); err != nil {
		return fmt.Errorf("get participant: %w", err)
	} else if ok {
		return fmt.Errorf("%w: participant %q already exists", ErrInvalidInput, p.PreferredName)
	}

	p.CreatedAt = s.now().UTC()
	if err := s.registry.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert participant: %w", err)
	}
	return nil
}

// UpdateAliases edits the alias fields of an existing participant. Empty
// fields are left untouched.
func (s *IdentityService) UpdateAliases(ctx context.Context, preferredName, fantasyName, discordID, discordName string) (participant.Participant, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IdentityService.UpdateAliases")
	defer span.End()

	preferredName = strings.TrimSpace(preferredName)
	if preferredName == "" {
		return participant.Participant{}, fmt.Errorf("%w: preferred name is required", ErrInvalidInput)
	}

	p, ok, err := s.registry.GetByPreferredName(ctx, preferredName)
	if err != nil {
		return participant.Participant{}, fmt.Errorf("get participant: %w", err)
	}
	if !ok {
		return participant.Participant{}, fmt.Errorf("%w: participant=%s", ErrNotFound, preferredName)
	}

	if v := strings.TrimSpace(fantasyName); v != "" {
		p.FantasyName = v
	}
	if v := strings.TrimSpace(discordID); v != "" {
		p.DiscordID = v
	}
	if v := strings.TrimSpace(discordName); v != "" {
		p.DiscordName = v
	}

	if err := s.registry.Upsert(ctx, p); err != nil {
		return participant.Participant{}, fmt.Errorf("upsert participant: %w", err)
	}
	return p, nil
}

func (s *IdentityService) Delete(ctx context.Context, preferredName string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.IdentityService.Delete")
	defer span.End()

	preferredName = strings.TrimSpace(preferredName)
	if preferredName == "" {
		return fmt.Errorf("%w: preferred name is required", ErrInvalidInput)
	}

	if _, ok, err := s.registry.GetByPreferredName(ctx, preferredName); err != nil {
		return fmt.Errorf("get participant: %w", err)
	} else if !ok {
		return fmt.Errorf("%w: participant=%s", ErrNotFound, preferredName)
	}

	if err := s.registry.Delete(ctx, preferredName); err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	return nil
}
