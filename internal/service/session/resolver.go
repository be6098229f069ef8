// Package session decides where profile data comes from on each request: the
// remote store when it answers, the local cache otherwise. Every result says which.
package session

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"go.uber.org/zap"

	applog "github.com/janisto/filif-api/internal/platform/logging"
	"github.com/janisto/filif-api/internal/service/profile"
)

// Source tells callers which store served a result.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// Resolution is a value tagged with the store that produced it.
type Resolution[T any] struct {
	Value  T
	Source Source
}

// Resolver reads and writes through the remote store and mirrors into the local cache.
// When the remote store fails, or none is configured, the local cache serves the call.
// Profiles the remote store has never seen, because they were created during an
// outage, are pushed to it the next time they are read.
type Resolver struct {
	remote profile.Store
	local  profile.Cache
}

// NewResolver creates a resolver. remote may be nil for local-only operation.
func NewResolver(remote profile.Store, local profile.Cache) *Resolver {
	return &Resolver{remote: remote, local: local}
}

// unavailable reports whether err means the remote store could not answer,
// as opposed to answering with a domain error.
func unavailable(err error) bool {
	return err != nil &&
		!errors.Is(err, profile.ErrNotFound) &&
		!errors.Is(err, profile.ErrAlreadyExists)
}

func (r *Resolver) mirror(ctx context.Context, p *profile.Profile) {
	if err := r.local.Put(ctx, p); err != nil {
		applog.LogWarn(ctx, "local profile mirror failed", zap.String("profileId", p.ID), zap.Error(err))
	}
}

func (r *Resolver) fallback(ctx context.Context, op string, err error) {
	applog.LogWarn(ctx, "remote profile store unavailable, using local cache",
		zap.String("operation", op), zap.Error(err))
}

// promote copies a profile that only exists in the local cache to the remote store.
// A concurrent promotion by another request counts as success.
func (r *Resolver) promote(ctx context.Context, p *profile.Profile) bool {
	err := r.remote.Create(ctx, p)
	if err == nil || errors.Is(err, profile.ErrAlreadyExists) {
		applog.LogInfo(ctx, "local profile pushed to remote store", zap.String("profileId", p.ID))
		return true
	}
	r.fallback(ctx, "promote", err)
	return false
}

// ResolveProfile loads one profile.
func (r *Resolver) ResolveProfile(ctx context.Context, id string) (Resolution[*profile.Profile], error) {
	if r.remote != nil {
		p, err := r.remote.Get(ctx, id)
		if err == nil {
			r.mirror(ctx, p)
			return Resolution[*profile.Profile]{Value: p, Source: SourceRemote}, nil
		}
		if errors.Is(err, profile.ErrNotFound) {
			local, lerr := r.local.Get(ctx, id)
			if lerr != nil {
				return Resolution[*profile.Profile]{Source: SourceRemote}, err
			}
			if r.promote(ctx, local) {
				return Resolution[*profile.Profile]{Value: local, Source: SourceRemote}, nil
			}
			return Resolution[*profile.Profile]{Value: local, Source: SourceFallback}, nil
		}
		if !unavailable(err) {
			return Resolution[*profile.Profile]{Source: SourceRemote}, err
		}
		r.fallback(ctx, "get", err)
	}
	p, err := r.local.Get(ctx, id)
	return Resolution[*profile.Profile]{Value: p, Source: SourceFallback}, err
}

// ResolveFamily loads an account's profiles. Profiles cached locally but missing
// remotely are merged in and pushed to the remote store; if a push fails the merged
// list is tagged fallback.
func (r *Resolver) ResolveFamily(ctx context.Context, accountID string) (Resolution[[]*profile.Profile], error) {
	if r.remote != nil {
		list, err := r.remote.ListByAccount(ctx, accountID)
		if err == nil {
			return r.mergeFamily(ctx, accountID, list)
		}
		r.fallback(ctx, "list", err)
	}
	list, err := r.local.ListByAccount(ctx, accountID)
	return Resolution[[]*profile.Profile]{Value: list, Source: SourceFallback}, err
}

func (r *Resolver) mergeFamily(ctx context.Context, accountID string, remote []*profile.Profile) (Resolution[[]*profile.Profile], error) {
	res := Resolution[[]*profile.Profile]{Value: remote, Source: SourceRemote}
	seen := make(map[string]bool, len(remote))
	for _, p := range remote {
		seen[p.ID] = true
		r.mirror(ctx, p)
	}

	cached, err := r.local.ListByAccount(ctx, accountID)
	if err != nil {
		applog.LogWarn(ctx, "local profile list failed", zap.Error(err))
		return res, nil
	}
	merged := false
	for _, p := range cached {
		if seen[p.ID] {
			continue
		}
		if !r.promote(ctx, p) {
			res.Source = SourceFallback
		}
		res.Value = append(res.Value, p)
		merged = true
	}
	if merged {
		slices.SortFunc(res.Value, func(a, b *profile.Profile) int {
			return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
		})
	}
	return res, nil
}

// ResolveAll loads every profile for the admin panel.
func (r *Resolver) ResolveAll(ctx context.Context) (Resolution[[]*profile.Profile], error) {
	if r.remote != nil {
		list, err := r.remote.ListAll(ctx)
		if err == nil {
			return Resolution[[]*profile.Profile]{Value: list, Source: SourceRemote}, nil
		}
		r.fallback(ctx, "list_all", err)
	}
	list, err := r.local.ListAll(ctx)
	return Resolution[[]*profile.Profile]{Value: list, Source: SourceFallback}, err
}

// CreateProfile stores a new profile remotely, or locally when the remote store is down.
func (r *Resolver) CreateProfile(ctx context.Context, p *profile.Profile) (Source, error) {
	if r.remote != nil {
		err := r.remote.Create(ctx, p)
		if err == nil {
			r.mirror(ctx, p)
			return SourceRemote, nil
		}
		if !unavailable(err) {
			return SourceRemote, err
		}
		r.fallback(ctx, "create", err)
	}
	return SourceFallback, r.local.Create(ctx, p)
}

// SaveProfile overwrites a profile. A profile the remote store does not know yet is
// pushed to it; when the remote store is down the save lands locally.
func (r *Resolver) SaveProfile(ctx context.Context, p *profile.Profile) (Source, error) {
	if r.remote != nil {
		err := r.remote.Save(ctx, p)
		if errors.Is(err, profile.ErrNotFound) && r.promote(ctx, p) {
			err = nil
		}
		if err == nil {
			r.mirror(ctx, p)
			return SourceRemote, nil
		}
		if unavailable(err) {
			r.fallback(ctx, "save", err)
		}
	}
	return SourceFallback, r.local.Save(ctx, p)
}

// DeleteProfile removes the profile from both stores. It returns ErrNotFound only when
// neither store had it.
func (r *Resolver) DeleteProfile(ctx context.Context, id string) (Source, error) {
	source := SourceFallback
	found := false
	if r.remote != nil {
		err := r.remote.Delete(ctx, id)
		switch {
		case err == nil:
			source = SourceRemote
			found = true
		case errors.Is(err, profile.ErrNotFound):
			source = SourceRemote
		default:
			r.fallback(ctx, "delete", err)
		}
	}

	err := r.local.Delete(ctx, id)
	switch {
	case err == nil:
		found = true
	case !errors.Is(err, profile.ErrNotFound):
		return source, err
	}
	if !found {
		return source, profile.ErrNotFound
	}
	return source, nil
}
