package activity

import (
	"context"
	"fmt"
	"unicode/utf8"

	applog "github.com/janisto/filif-api/internal/platform/logging"
	"github.com/janisto/filif-api/internal/platform/sanitize"
	"github.com/janisto/filif-api/internal/platform/timeutil"
	"github.com/janisto/filif-api/internal/service/profile"
	"github.com/janisto/filif-api/internal/service/progression"
	"github.com/janisto/filif-api/internal/service/session"
)

const (
	maxNameLength = 40
	maxBioLength  = 280
)

// CreateParams describes a new family profile.
type CreateParams struct {
	Name   string
	Avatar string
	Bio    string
	Type   profile.Type
}

// UpdateParams holds the editable profile fields; nil fields are left alone.
type UpdateParams struct {
	Name   *string
	Avatar *string
	Bio    *string
}

// Progress summarizes a profile's standing and today's gates.
type Progress struct {
	Profile            *profile.Profile
	Level              progression.LevelInfo
	ChallengeDoneToday bool
	ArtDoneToday       bool
	VideoDoneToday     bool
}

func cleanName(name string) (string, error) {
	name = sanitize.Text(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", fmt.Errorf("%w: name longer than %d characters", ErrInvalidInput, maxNameLength)
	}
	return name, nil
}

func cleanBio(bio string) (string, error) {
	bio = sanitize.Text(bio)
	if utf8.RuneCountInString(bio) > maxBioLength {
		return "", fmt.Errorf("%w: bio longer than %d characters", ErrInvalidInput, maxBioLength)
	}
	return bio, nil
}

// CreateProfile adds a profile to the caller's family.
func (s *Service) CreateProfile(ctx context.Context, caller Caller, params CreateParams) (Result, error) {
	if !params.Type.Valid() {
		return Result{}, fmt.Errorf("%w: unknown profile type %q", ErrInvalidInput, params.Type)
	}
	name, err := cleanName(params.Name)
	if err != nil {
		return Result{}, err
	}
	bio, err := cleanBio(params.Bio)
	if err != nil {
		return Result{}, err
	}

	unlock := s.locks.Lock("account:" + caller.AccountID)
	defer unlock()

	family, err := s.resolver.ResolveFamily(ctx, caller.AccountID)
	if err != nil {
		return Result{Source: family.Source}, err
	}
	if len(family.Value) >= s.maxProfiles {
		applog.LogAudit(ctx, applog.AuditEvent{
			Action:       "create",
			ActorID:      caller.AccountID,
			ResourceType: "profile",
			Result:       applog.AuditFailure,
			Details:      map[string]any{"reason": categorizeError(ErrProfileLimit)},
		})
		return Result{Source: family.Source}, ErrProfileLimit
	}

	p := profile.New(s.newID(), profile.NewParams{
		AccountID: caller.AccountID,
		Name:      name,
		Avatar:    params.Avatar,
		Bio:       bio,
		Type:      params.Type,
	}, s.clock.Now())

	source, err := s.resolver.CreateProfile(ctx, p)
	if err != nil {
		s.audit(ctx, caller, "create", p.ID, err)
		return Result{Source: source}, err
	}
	s.audit(ctx, caller, "create", p.ID, nil)
	return Result{Profile: p, Source: source}, nil
}

// ListProfiles returns the caller's profiles, oldest first.
func (s *Service) ListProfiles(ctx context.Context, caller Caller) (session.Resolution[[]*profile.Profile], error) {
	return s.resolver.ResolveFamily(ctx, caller.AccountID)
}

// GetProfile returns one of the caller's profiles.
func (s *Service) GetProfile(ctx context.Context, caller Caller, id string) (session.Resolution[*profile.Profile], error) {
	return s.load(ctx, caller, id)
}

// UpdateProfile edits name, avatar and bio.
func (s *Service) UpdateProfile(ctx context.Context, caller Caller, id string, params UpdateParams) (Result, error) {
	var name, bio string
	var err error
	if params.Name != nil {
		if name, err = cleanName(*params.Name); err != nil {
			return Result{}, err
		}
	}
	if params.Bio != nil {
		if bio, err = cleanBio(*params.Bio); err != nil {
			return Result{}, err
		}
	}

	p, source, err := s.mutate(ctx, caller, id, mutation{
		action: "update",
		apply: func(p *profile.Profile, _ timeutil.Date) error {
			if params.Name != nil {
				p.Name = name
			}
			if params.Avatar != nil {
				p.Avatar = *params.Avatar
			}
			if params.Bio != nil {
				p.Bio = bio
			}
			return nil
		},
	})
	return Result{Profile: p, Source: source}, err
}

// DeleteProfile removes one of the caller's profiles.
func (s *Service) DeleteProfile(ctx context.Context, caller Caller, id string) (session.Source, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	if res, err := s.load(ctx, caller, id); err != nil {
		s.audit(ctx, caller, "delete", id, err)
		return res.Source, err
	}
	source, err := s.resolver.DeleteProfile(ctx, id)
	s.audit(ctx, caller, "delete", id, err)
	return source, err
}

// Progress returns level and daily gate information for a profile.
func (s *Service) Progress(ctx context.Context, caller Caller, id string) (Progress, session.Source, error) {
	res, err := s.load(ctx, caller, id)
	if err != nil {
		return Progress{}, res.Source, err
	}
	p := res.Value
	today := s.today()
	return Progress{
		Profile:            p,
		Level:              progression.LevelFor(p.Points),
		ChallengeDoneToday: progression.IsDoneToday(p.LastChallengeDate, today),
		ArtDoneToday:       progression.IsDoneToday(p.LastArtDate, today),
		VideoDoneToday:     progression.IsDoneToday(p.LastVideoDate, today),
	}, res.Source, nil
}

// Ranking orders the caller's family by points.
func (s *Service) Ranking(ctx context.Context, caller Caller) ([]progression.RankEntry, session.Source, error) {
	family, err := s.resolver.ResolveFamily(ctx, caller.AccountID)
	if err != nil {
		return nil, family.Source, err
	}
	return progression.Rank(family.Value), family.Source, nil
}
