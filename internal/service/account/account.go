// Package account manages the family account that owns profiles.
package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	applog "github.com/janisto/filif-api/internal/platform/logging"
	"github.com/janisto/filif-api/internal/platform/sanitize"
	"github.com/janisto/filif-api/internal/platform/timeutil"
)

// Service errors
var (
	ErrNotFound      = errors.New("account not found")
	ErrAlreadyExists = errors.New("account already exists")
	ErrInvalidTheme  = errors.New("theme must be light or dark")
)

// Theme is the UI theme chosen for the account.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Account is keyed by the authenticated user id.
type Account struct {
	ID        string
	Email     string
	FullName  string
	Premium   bool
	Theme     Theme
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store persists accounts.
type Store interface {
	Get(ctx context.Context, id string) (*Account, error)
	Create(ctx context.Context, a *Account) error
	Update(ctx context.Context, a *Account) error
}

// UpdateParams holds optional changes; nil fields are left alone.
type UpdateParams struct {
	FullName *string
	Theme    *Theme
}

// Service creates accounts on first use and applies updates.
type Service struct {
	store Store
	clock timeutil.Clock
}

// NewService creates an account service. A nil clock reads the system clock.
func NewService(store Store, clock timeutil.Clock) *Service {
	if clock == nil {
		clock = timeutil.UTCClock{}
	}
	return &Service{store: store, clock: clock}
}

// Ensure returns the account for id, creating it on first access.
func (s *Service) Ensure(ctx context.Context, id, email string) (*Account, error) {
	a, err := s.store.Get(ctx, id)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := s.clock.Now().UTC()
	a = &Account{ID: id, Email: email, Theme: ThemeLight, CreatedAt: now, UpdatedAt: now}
	err = s.store.Create(ctx, a)
	if errors.Is(err, ErrAlreadyExists) {
		// Lost a race with a concurrent first request.
		return s.store.Get(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	applog.LogAudit(ctx, applog.AuditEvent{
		Action: "create", ActorID: id, ResourceType: "account", ResourceID: id, Result: applog.AuditSuccess,
	})
	return a, nil
}

// Update applies params to an existing account.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Account, error) {
	if params.Theme != nil && *params.Theme != ThemeLight && *params.Theme != ThemeDark {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTheme, *params.Theme)
	}
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.FullName != nil {
		a.FullName = sanitize.Text(*params.FullName)
	}
	if params.Theme != nil {
		a.Theme = *params.Theme
	}
	a.UpdatedAt = s.clock.Now().UTC()
	event := applog.AuditEvent{Action: "update", ActorID: id, ResourceType: "account", ResourceID: id}
	if err := s.store.Update(ctx, a); err != nil {
		event.Result = applog.AuditFailure
		event.Details = map[string]any{"reason": err.Error()}
		applog.LogAudit(ctx, event)
		return nil, err
	}
	event.Result = applog.AuditSuccess
	applog.LogAudit(ctx, event)
	return a, nil
}
