// Package activity runs every profile operation end to end: it loads the profile
// through the session resolver, checks ownership, applies the progression engine
// with today's date, saves the result and writes an audit event.
package activity

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	applog "github.com/janisto/filif-api/internal/platform/logging"
	"github.com/janisto/filif-api/internal/platform/timeutil"
	"github.com/janisto/filif-api/internal/service/content"
	"github.com/janisto/filif-api/internal/service/profile"
	"github.com/janisto/filif-api/internal/service/progression"
	"github.com/janisto/filif-api/internal/service/session"
	"github.com/janisto/filif-api/internal/service/shop"
)

// Service errors
var (
	ErrForbidden    = errors.New("admin access required")
	ErrBlocked      = errors.New("profile is blocked")
	ErrLocked       = errors.New("item not unlocked")
	ErrProfileLimit = errors.New("profile limit reached")
	ErrWrongAnswer  = errors.New("wrong answer")
	ErrInvalidInput = errors.New("invalid input")
)

// DefaultMaxProfiles is the family size limit when none is configured.
const DefaultMaxProfiles = 4

// Caller identifies who is acting. AccountID owns profiles; Admin reflects the token claim.
type Caller struct {
	AccountID string
	Email     string
	Admin     bool
}

// Result is the state after a profile operation.
type Result struct {
	Profile *profile.Profile
	Outcome progression.Outcome
	Source  session.Source
}

// Service coordinates stores, catalog and content for profile operations.
type Service struct {
	resolver    *session.Resolver
	catalog     *shop.Catalog
	content     content.Generator
	clock       timeutil.Clock
	maxProfiles int
	newID       func() string
	locks       keyedMutex
}

// Option configures a Service.
type Option func(*Service)

// WithMaxProfiles sets the per-account profile limit.
func WithMaxProfiles(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxProfiles = n
		}
	}
}

// WithClock replaces the system clock.
func WithClock(c timeutil.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithIDGenerator replaces the random id source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewService creates an activity service.
func NewService(
	resolver *session.Resolver, catalog *shop.Catalog, generator content.Generator, opts ...Option,
) *Service {
	s := &Service{
		resolver:    resolver,
		catalog:     catalog,
		content:     generator,
		clock:       timeutil.UTCClock{},
		maxProfiles: DefaultMaxProfiles,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) today() timeutil.Date {
	return timeutil.Today(s.clock)
}

// load resolves a profile the caller owns. Profiles of other accounts look missing.
func (s *Service) load(ctx context.Context, caller Caller, id string) (session.Resolution[*profile.Profile], error) {
	res, err := s.resolver.ResolveProfile(ctx, id)
	if err != nil {
		return res, err
	}
	if res.Value.AccountID != caller.AccountID {
		return session.Resolution[*profile.Profile]{Source: res.Source}, profile.ErrNotFound
	}
	return res, nil
}

// mutation describes a read-modify-write on one profile.
type mutation struct {
	action string
	// earns marks operations that move coins or points; blocked profiles may not run them.
	earns bool
	// admin skips the ownership check; the caller must already be authorized.
	admin bool
	apply func(p *profile.Profile, today timeutil.Date) error
}

// mutate runs m under the profile's lock and persists the result. A failing apply
// leaves the stored profile untouched.
func (s *Service) mutate(ctx context.Context, caller Caller, id string, m mutation) (*profile.Profile, session.Source, error) {
	unlock := s.locks.Lock(id)
	defer unlock()
	ctx = applog.WithFields(ctx, zap.String("profileId", id))

	var (
		res session.Resolution[*profile.Profile]
		err error
	)
	if m.admin {
		res, err = s.resolver.ResolveProfile(ctx, id)
	} else {
		res, err = s.load(ctx, caller, id)
	}
	if err != nil {
		s.audit(ctx, caller, m.action, id, err)
		return nil, res.Source, err
	}
	p := res.Value
	if m.earns && p.Blocked {
		s.audit(ctx, caller, m.action, id, ErrBlocked)
		return nil, res.Source, ErrBlocked
	}

	if err := m.apply(p, s.today()); err != nil {
		s.audit(ctx, caller, m.action, id, err)
		return nil, res.Source, err
	}
	p.UpdatedAt = s.clock.Now().UTC()

	source, err := s.resolver.SaveProfile(ctx, p)
	if err != nil {
		s.audit(ctx, caller, m.action, id, err)
		return nil, source, err
	}
	s.audit(ctx, caller, m.action, id, nil)
	return p, source, nil
}

func (s *Service) audit(ctx context.Context, caller Caller, action, profileID string, err error) {
	event := applog.AuditEvent{
		Action:       action,
		ActorID:      caller.AccountID,
		ResourceType: "profile",
		ResourceID:   profileID,
		Result:       applog.AuditSuccess,
	}
	if err != nil {
		event.Result = applog.AuditFailure
		event.Details = map[string]any{"reason": categorizeError(err)}
	}
	applog.LogAudit(ctx, event)
}

// categorizeError returns a safe category string for audit logs.
func categorizeError(err error) string {
	switch {
	case errors.Is(err, profile.ErrNotFound):
		return "not_found"
	case errors.Is(err, profile.ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, progression.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrBlocked):
		return "blocked"
	case errors.Is(err, ErrLocked):
		return "locked"
	case errors.Is(err, ErrProfileLimit):
		return "profile_limit"
	case errors.Is(err, ErrWrongAnswer):
		return "wrong_answer"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, shop.ErrUnknownItem):
		return "unknown_item"
	case errors.Is(err, shop.ErrInvalidPrice):
		return "invalid_price"
	case errors.Is(err, context.Canceled):
		return "context_canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "internal_error"
	}
}

// keyedMutex serializes work per key within this process.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// Lock blocks until key is free and returns its unlock function.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
