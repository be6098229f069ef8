package activity

import (
	"context"
	"fmt"
	"slices"

	applog "github.com/janisto/filif-api/internal/platform/logging"
	"github.com/janisto/filif-api/internal/platform/timeutil"
	"github.com/janisto/filif-api/internal/service/profile"
	"github.com/janisto/filif-api/internal/service/progression"
	"github.com/janisto/filif-api/internal/service/session"
)

// AdminUpdateParams holds the fields an administrator may change; nil fields are left alone.
type AdminUpdateParams struct {
	Name    *string
	Bio     *string
	Points  *int
	Blocked *bool
	Admin   *bool
}

// IsAdmin reports whether the caller may use the admin panel: either through the
// token claim or because one of the account's profiles is flagged admin.
func (s *Service) IsAdmin(ctx context.Context, caller Caller) (bool, error) {
	if caller.Admin {
		return true, nil
	}
	family, err := s.resolver.ResolveFamily(ctx, caller.AccountID)
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(family.Value, func(p *profile.Profile) bool { return p.Admin }), nil
}

func (s *Service) requireAdmin(ctx context.Context, caller Caller, action string) error {
	ok, err := s.IsAdmin(ctx, caller)
	if err != nil {
		return err
	}
	if !ok {
		applog.LogAudit(ctx, applog.AuditEvent{
			Action:       action,
			ActorID:      caller.AccountID,
			ResourceType: "admin",
			Result:       applog.AuditFailure,
			Details:      map[string]any{"reason": categorizeError(ErrForbidden)},
		})
		return ErrForbidden
	}
	return nil
}

// AdminListProfiles returns every profile, newest first.
func (s *Service) AdminListProfiles(ctx context.Context, caller Caller) (session.Resolution[[]*profile.Profile], error) {
	if err := s.requireAdmin(ctx, caller, "admin_list"); err != nil {
		return session.Resolution[[]*profile.Profile]{}, err
	}
	return s.resolver.ResolveAll(ctx)
}

// AdminUpdateProfile edits any profile, including points and the blocked and admin flags.
func (s *Service) AdminUpdateProfile(ctx context.Context, caller Caller, id string, params AdminUpdateParams) (Result, error) {
	if err := s.requireAdmin(ctx, caller, "admin_update"); err != nil {
		return Result{}, err
	}
	if params.Points != nil && *params.Points < 0 {
		return Result{}, fmt.Errorf("%w: points must not be negative", ErrInvalidInput)
	}
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
		action: "admin_update",
		admin:  true,
		apply: func(p *profile.Profile, _ timeutil.Date) error {
			if params.Name != nil {
				p.Name = name
			}
			if params.Bio != nil {
				p.Bio = bio
			}
			if params.Points != nil {
				p.Points = *params.Points
			}
			if params.Blocked != nil {
				p.Blocked = *params.Blocked
			}
			if params.Admin != nil {
				p.Admin = *params.Admin
			}
			return nil
		},
	})
	return Result{Profile: p, Source: source}, err
}

// AdminAdjustCoins adds amount (possibly negative) to a profile's coins. The balance
// may not go below zero.
func (s *Service) AdminAdjustCoins(ctx context.Context, caller Caller, id string, amount int) (Result, error) {
	if err := s.requireAdmin(ctx, caller, "admin_adjust_coins"); err != nil {
		return Result{}, err
	}
	p, source, err := s.mutate(ctx, caller, id, mutation{
		action: "admin_adjust_coins",
		admin:  true,
		apply: func(p *profile.Profile, _ timeutil.Date) error {
			return progression.AdjustCoins(p, amount)
		},
	})
	return Result{Profile: p, Outcome: progression.Outcome{Granted: err == nil, Coins: amount}, Source: source}, err
}

// AdminDeleteProfile removes any profile.
func (s *Service) AdminDeleteProfile(ctx context.Context, caller Caller, id string) (session.Source, error) {
	if err := s.requireAdmin(ctx, caller, "admin_delete"); err != nil {
		return "", err
	}
	unlock := s.locks.Lock(id)
	defer unlock()

	source, err := s.resolver.DeleteProfile(ctx, id)
	s.audit(ctx, caller, "admin_delete", id, err)
	return source, err
}

// AdminPrices returns the effective price of every catalog item.
func (s *Service) AdminPrices(ctx context.Context, caller Caller) (map[string]int, error) {
	if err := s.requireAdmin(ctx, caller, "admin_list_prices"); err != nil {
		return nil, err
	}
	return s.catalog.Prices(ctx), nil
}

// AdminSetPrice overrides the price of a catalog item.
func (s *Service) AdminSetPrice(ctx context.Context, caller Caller, itemID string, price int) error {
	if err := s.requireAdmin(ctx, caller, "admin_set_price"); err != nil {
		return err
	}
	event := applog.AuditEvent{
		Action:       "admin_set_price",
		ActorID:      caller.AccountID,
		ResourceType: "shop_item",
		ResourceID:   itemID,
	}
	err := s.catalog.SetPrice(ctx, itemID, price)
	if err != nil {
		event.Result = applog.AuditFailure
		event.Details = map[string]any{"reason": categorizeError(err)}
		applog.LogAudit(ctx, event)
		return err
	}
	event.Result = applog.AuditSuccess
	event.Details = map[string]any{"price": price}
	applog.LogAudit(ctx, event)
	return nil
}
