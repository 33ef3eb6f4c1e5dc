package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wellsync-backend/pkg/logger"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit entries.
//
// It MUST be append-only. List returns newest entries first.
type Repository interface {
	Append(ctx context.Context, e Entry) error
	List(ctx context.Context, limit int) ([]Entry, error)
}

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 100

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var (
	ErrInvalidEntry     = errors.New("audit: invalid entry")
	errRepoUnconfigured = errors.New("audit: repository not configured")
)

func (s *Service) Append(ctx context.Context, e Entry) error {
	if s.repo == nil {
		return errRepoUnconfigured
	}
	if e.Action == "" || e.Actor == "" {
		return ErrInvalidEntry
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.clock().UTC()
	}
	if err := s.repo.Append(ctx, e); err != nil {
		return err
	}
	logger.From(ctx).Debug("audit entry appended", "id", e.ID, "action", e.Action, "actor", e.Actor, "target", e.Target)
	return nil
}

func (s *Service) List(ctx context.Context, limit int) ([]Entry, error) {
	if s.repo == nil {
		return nil, errRepoUnconfigured
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.repo.List(ctx, limit)
}

// LogTokenIssued records a dev-token issuance. actor is the requesting client.
func (s *Service) LogTokenIssued(ctx context.Context, actor, subject, role string, lifetime time.Duration) error {
	if actor == "" {
		actor = "anonymous"
	}
	return s.Append(ctx, Entry{
		Actor:  actor,
		Action: ActionTokenIssued,
		Target: subject,
		Notes:  fmt.Sprintf("role=%q lifetime=%s", role, lifetime),
	})
}

// LogAccessDenied records a role-guard rejection on route.
func (s *Service) LogAccessDenied(ctx context.Context, subject, role, route, required string) error {
	if subject == "" {
		subject = "anonymous"
	}
	return s.Append(ctx, Entry{
		Actor:  subject,
		Action: ActionAccessDenied,
		Target: route,
		Notes:  fmt.Sprintf("role=%q required=%q", role, required),
	})
}
