package content

import (
	"context"

	"go.uber.org/zap"

	applog "github.com/janisto/filif-api/internal/platform/logging"
	"github.com/janisto/filif-api/internal/platform/timeutil"
	"github.com/janisto/filif-api/internal/service/profile"
)

// Fallback serves Secondary whenever Primary fails, so callers always get content.
type Fallback struct {
	Primary   Generator
	Secondary Generator
}

var _ Generator = Fallback{}

func (f Fallback) warn(ctx context.Context, kind string, err error) {
	applog.LogWarn(ctx, "content generation failed, using fallback",
		zap.String("kind", kind), zap.Error(err))
}

func (f Fallback) Devotional(ctx context.Context, t profile.Type) (*Devotional, error) {
	d, err := f.Primary.Devotional(ctx, t)
	if err == nil {
		return d, nil
	}
	f.warn(ctx, "devotional", err)
	return f.Secondary.Devotional(ctx, t)
}

func (f Fallback) ArtTheme(ctx context.Context, t profile.Type, day timeutil.Date) (*ArtTheme, error) {
	a, err := f.Primary.ArtTheme(ctx, t, day)
	if err == nil {
		return a, nil
	}
	f.warn(ctx, "art_theme", err)
	return f.Secondary.ArtTheme(ctx, t, day)
}

func (f Fallback) VerseChallenge(ctx context.Context, t profile.Type, day timeutil.Date) (*VerseChallenge, error) {
	v, err := f.Primary.VerseChallenge(ctx, t, day)
	if err == nil {
		return v, nil
	}
	f.warn(ctx, "verse_challenge", err)
	return f.Secondary.VerseChallenge(ctx, t, day)
}

func (f Fallback) Quiz(ctx context.Context, t profile.Type) ([]QuizQuestion, error) {
	q, err := f.Primary.Quiz(ctx, t)
	if err == nil {
		return q, nil
	}
	f.warn(ctx, "quiz", err)
	return f.Secondary.Quiz(ctx, t)
}
