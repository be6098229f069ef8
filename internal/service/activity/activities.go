package activity

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	applog "github.com/janisto/filif-api/internal/platform/logging"
	"github.com/janisto/filif-api/internal/platform/timeutil"
	"github.com/janisto/filif-api/internal/service/content"
	"github.com/janisto/filif-api/internal/service/profile"
	"github.com/janisto/filif-api/internal/service/progression"
	"github.com/janisto/filif-api/internal/service/session"
)

// PaintingMode selects the painting tool. Each mode needs its own unlock.
type PaintingMode string

const (
	PaintingFree  PaintingMode = "free"
	PaintingPixel PaintingMode = "pixel"
)

// paintingUnlocks maps each mode to the item that enables it.
var paintingUnlocks = map[PaintingMode]string{
	PaintingFree:  "coloring_book",
	PaintingPixel: "pixel_free",
}

// Challenge is today's verse challenge together with its gate state.
type Challenge struct {
	Challenge *profile.DailyChallenge
	DoneToday bool
	Source    session.Source
}

// Theme is today's art mission theme together with its gate state.
type Theme struct {
	Theme     *profile.ArtTheme
	DoneToday bool
	Source    session.Source
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	return nil
}

// VerseChallenge returns today's challenge, generating and caching it on the profile
// the first time it is asked for on a new day.
func (s *Service) VerseChallenge(ctx context.Context, caller Caller, id string) (Challenge, error) {
	res, err := s.load(ctx, caller, id)
	if err != nil {
		return Challenge{Source: res.Source}, err
	}
	today := s.today()
	p := res.Value
	if p.VerseChallenge != nil && p.VerseChallenge.Date == today {
		return Challenge{
			Challenge: p.VerseChallenge,
			DoneToday: progression.IsDoneToday(p.LastChallengeDate, today),
			Source:    res.Source,
		}, nil
	}

	generated, err := s.content.VerseChallenge(ctx, p.Type, today)
	if err != nil {
		return Challenge{Source: res.Source}, err
	}
	p, source, err := s.mutate(ctx, caller, id, mutation{
		action: "refresh_verse_challenge",
		apply: func(p *profile.Profile, today timeutil.Date) error {
			// A concurrent request may have stored today's challenge already.
			if p.VerseChallenge == nil || p.VerseChallenge.Date != today {
				p.VerseChallenge = &profile.DailyChallenge{
					Ref:          generated.Ref,
					Text:         generated.Text,
					Hint:         generated.Hint,
					Question:     generated.Question,
					Options:      slices.Clone(generated.Options),
					CorrectIndex: generated.CorrectIndex,
					Date:         today,
				}
			}
			return nil
		},
	})
	if err != nil {
		return Challenge{Source: source}, err
	}
	return Challenge{
		Challenge: p.VerseChallenge,
		DoneToday: progression.IsDoneToday(p.LastChallengeDate, today),
		Source:    source,
	}, nil
}

// AnswerVerseChallenge checks answerIndex against today's challenge and grants the
// daily reward on a correct answer. Once today's reward is granted any further answer,
// right or wrong, is not an error and grants nothing.
func (s *Service) AnswerVerseChallenge(ctx context.Context, caller Caller, id string, answerIndex int) (Result, error) {
	if _, err := s.VerseChallenge(ctx, caller, id); err != nil {
		return Result{}, err
	}
	var outcome progression.Outcome
	p, source, err := s.mutate(ctx, caller, id, mutation{
		action: "complete_verse_challenge",
		earns:  true,
		apply: func(p *profile.Profile, today timeutil.Date) error {
			if progression.IsDoneToday(p.LastChallengeDate, today) {
				return nil
			}
			ch := p.VerseChallenge
			if ch == nil || ch.Date != today {
				return fmt.Errorf("%w: no challenge for today", ErrInvalidInput)
			}
			if answerIndex < 0 || answerIndex >= len(ch.Options) {
				return fmt.Errorf("%w: answer index %d out of range", ErrInvalidInput, answerIndex)
			}
			if answerIndex != ch.CorrectIndex {
				return ErrWrongAnswer
			}
			outcome = progression.CompleteVerseChallenge(p, today)
			return nil
		},
	})
	return Result{Profile: p, Outcome: outcome, Source: source}, err
}

// ArtTheme returns today's art mission theme, generating and caching it on the profile
// on the first request of a new day.
func (s *Service) ArtTheme(ctx context.Context, caller Caller, id string) (Theme, error) {
	res, err := s.load(ctx, caller, id)
	if err != nil {
		return Theme{Source: res.Source}, err
	}
	today := s.today()
	p := res.Value
	if p.ArtMissionTheme != nil && p.ArtMissionTheme.Date == today {
		return Theme{
			Theme:     p.ArtMissionTheme,
			DoneToday: progression.IsDoneToday(p.LastArtDate, today),
			Source:    res.Source,
		}, nil
	}

	generated, err := s.content.ArtTheme(ctx, p.Type, today)
	if err != nil {
		return Theme{Source: res.Source}, err
	}
	p, source, err := s.mutate(ctx, caller, id, mutation{
		action: "refresh_art_theme",
		apply: func(p *profile.Profile, today timeutil.Date) error {
			if p.ArtMissionTheme == nil || p.ArtMissionTheme.Date != today {
				p.ArtMissionTheme = &profile.ArtTheme{
					Title:       generated.Title,
					Instruction: generated.Instruction,
					Icon:        generated.Icon,
					Date:        today,
				}
			}
			return nil
		},
	})
	if err != nil {
		return Theme{Source: source}, err
	}
	return Theme{
		Theme:     p.ArtMissionTheme,
		DoneToday: progression.IsDoneToday(p.LastArtDate, today),
		Source:    source,
	}, nil
}

// SubmitArt adds an artwork to the gallery. A physical drawing earns the daily art reward.
func (s *Service) SubmitArt(ctx context.Context, caller Caller, id, imageRef string, physical bool) (Result, error) {
	if err := required("imageRef", imageRef); err != nil {
		return Result{}, err
	}
	var outcome progression.Outcome
	p, source, err := s.mutate(ctx, caller, id, mutation{
		action: "complete_art_mission",
		earns:  true,
		apply: func(p *profile.Profile, today timeutil.Date) error {
			outcome = progression.CompleteArtMission(p, today, imageRef, physical)
			return nil
		},
	})
	return Result{Profile: p, Outcome: outcome, Source: source}, err
}

// RecordGameWin credits a won game.
func (s *Service) RecordGameWin(ctx context.Context, caller Caller, id, game string, rewardCoins int) (Result, error) {
	var outcome progression.Outcome
	p, source, err := s.mutate(ctx, caller, id, mutation{
		action: "complete_game",
		earns:  true,
		apply: func(p *profile.Profile, _ timeutil.Date) error {
			outcome = progression.CompleteGame(p, rewardCoins)
			return nil
		},
	})
	if err == nil {
		applog.LogInfo(ctx, "game won",
			zap.String("profileId", id), zap.String("game", game), zap.Int("coins", outcome.Coins))
	}
	return Result{Profile: p, Outcome: outcome, Source: source}, err
}

// SaveRecording stores a verse recitation.
func (s *Service) SaveRecording(
	ctx context.Context, caller Caller, id, audioRef, verseRef string,
) (Result, profile.Recording, error) {
	if err := required("audioRef", audioRef); err != nil {
		return Result{}, profile.Recording{}, err
	}
	if err := required("verseRef", verseRef); err != nil {
		return Result{}, profile.Recording{}, err
	}
	recordingID := s.newID()
	var outcome progression.Outcome
	p, source, err := s.mutate(ctx, caller, id, mutation{
		action: "save_recording",
		earns:  true,
		apply: func(p *profile.Profile, today timeutil.Date) error {
			outcome = progression.SaveRecording(p, recordingID, audioRef, verseRef, today)
			return nil
		},
	})
	if err != nil {
		return Result{Source: source}, profile.Recording{}, err
	}
	return Result{Profile: p, Outcome: outcome, Source: source}, p.Recordings[len(p.Recordings)-1], nil
}

// SavePainting stores a painting made with an unlocked tool. Paintings carry no reward.
func (s *Service) SavePainting(ctx context.Context, caller Caller, id, imageRef string, mode PaintingMode) (Result, error) {
	if err := required("imageRef", imageRef); err != nil {
		return Result{}, err
	}
	item, ok := paintingUnlocks[mode]
	if !ok {
		return Result{}, fmt.Errorf("%w: unknown painting mode %q", ErrInvalidInput, mode)
	}
	p, source, err := s.mutate(ctx, caller, id, mutation{
		action: "save_painting",
		apply: func(p *profile.Profile, _ timeutil.Date) error {
			if !progression.HasUnlocked(p, item) {
				return fmt.Errorf("%w: %s", ErrLocked, item)
			}
			p.Paintings = append(p.Paintings, imageRef)
			return nil
		},
	})
	return Result{Profile: p, Source: source}, err
}

// MarkVideoWatched closes today's video gate. It reports whether this was the first
// video of the day.
func (s *Service) MarkVideoWatched(ctx context.Context, caller Caller, id, videoID string) (Result, bool, error) {
	if err := required("videoId", videoID); err != nil {
		return Result{}, false, err
	}
	var first bool
	p, source, err := s.mutate(ctx, caller, id, mutation{
		action: "watch_video",
		apply: func(p *profile.Profile, today timeutil.Date) error {
			first = progression.MarkVideoWatched(p, today)
			return nil
		},
	})
	return Result{Profile: p, Source: source}, first, err
}

// SetFavorite adds or removes a favorite reference idempotently.
func (s *Service) SetFavorite(ctx context.Context, caller Caller, id, ref string, favorite bool) (Result, error) {
	if err := required("ref", ref); err != nil {
		return Result{}, err
	}
	action := "add_favorite"
	if !favorite {
		action = "remove_favorite"
	}
	p, source, err := s.mutate(ctx, caller, id, mutation{
		action: action,
		apply: func(p *profile.Profile, _ timeutil.Date) error {
			progression.SetFavorite(p, ref, favorite)
			return nil
		},
	})
	return Result{Profile: p, Source: source}, err
}

// Devotional returns a devotional for the profile type. It does not touch any profile.
func (s *Service) Devotional(ctx context.Context, t profile.Type) (*content.Devotional, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown profile type %q", ErrInvalidInput, t)
	}
	return s.content.Devotional(ctx, t)
}

// Quiz returns practice questions for the profile type. Quizzes carry no reward.
func (s *Service) Quiz(ctx context.Context, t profile.Type) ([]content.QuizQuestion, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown profile type %q", ErrInvalidInput, t)
	}
	return s.content.Quiz(ctx, t)
}
