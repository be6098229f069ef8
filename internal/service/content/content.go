// Package content produces the daily study material shown to a profile: devotionals,
// art mission themes, verse challenges and quizzes. Generated content never touches
// the coin or point economy.
package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/janisto/filif-api/internal/platform/timeutil"
	"github.com/janisto/filif-api/internal/service/profile"
)

// Service errors
var (
	ErrInvalidContent = errors.New("generated content is invalid")
	ErrUnavailable    = errors.New("content generator unavailable")
)

// Devotional is a short daily reading with a practical challenge.
type Devotional struct {
	VerseRef   string `json:"verseRef"`
	VerseText  string `json:"verseText"`
	Reflection string `json:"reflection"`
	Challenge  string `json:"challenge"`
}

// ArtTheme is the drawing prompt of an art mission.
type ArtTheme struct {
	Title       string `json:"title"`
	Instruction string `json:"instruction"`
	Icon        string `json:"icon"`
}

// VerseChallenge is a verse followed by a multiple choice question about it.
type VerseChallenge struct {
	Ref          string   `json:"ref"`
	Text         string   `json:"text"`
	Hint         string   `json:"hint"`
	Question     string   `json:"verificationQuestion"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

// QuizQuestion is one multiple choice question.
type QuizQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

// Generator produces content for a profile type. Implementations must be safe for
// concurrent use.
type Generator interface {
	Devotional(ctx context.Context, t profile.Type) (*Devotional, error)
	ArtTheme(ctx context.Context, t profile.Type, day timeutil.Date) (*ArtTheme, error)
	VerseChallenge(ctx context.Context, t profile.Type, day timeutil.Date) (*VerseChallenge, error)
	Quiz(ctx context.Context, t profile.Type) ([]QuizQuestion, error)
}

func (d *Devotional) validate() error {
	if blank(d.VerseRef, d.VerseText, d.Reflection, d.Challenge) {
		return fmt.Errorf("%w: devotional has empty fields", ErrInvalidContent)
	}
	return nil
}

func (a *ArtTheme) validate() error {
	if blank(a.Title, a.Instruction) {
		return fmt.Errorf("%w: art theme has empty fields", ErrInvalidContent)
	}
	return nil
}

func (v *VerseChallenge) validate() error {
	if blank(v.Ref, v.Text, v.Question) {
		return fmt.Errorf("%w: verse challenge has empty fields", ErrInvalidContent)
	}
	return validateChoice(v.Options, v.CorrectIndex)
}

func (q *QuizQuestion) validate() error {
	if blank(q.Question) {
		return fmt.Errorf("%w: quiz question is empty", ErrInvalidContent)
	}
	return validateChoice(q.Options, q.CorrectIndex)
}

func validateChoice(options []string, correct int) error {
	if len(options) < 2 {
		return fmt.Errorf("%w: need at least 2 options, got %d", ErrInvalidContent, len(options))
	}
	if correct < 0 || correct >= len(options) {
		return fmt.Errorf("%w: correct index %d out of range", ErrInvalidContent, correct)
	}
	return nil
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
