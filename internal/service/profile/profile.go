package profile

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/janisto/filif-api/internal/platform/timeutil"
)

// Store errors
var (
	ErrNotFound      = errors.New("profile not found")
	ErrAlreadyExists = errors.New("profile already exists")
)

// Type is the age bracket chosen for a profile. It selects content difficulty only.
type Type string

const (
	TypeKids   Type = "KIDS"
	TypeTeens  Type = "TEENS"
	TypeYouth  Type = "YOUTH"
	TypeAdults Type = "ADULTS"
)

// Valid reports whether t is one of the known profile types.
func (t Type) Valid() bool {
	switch t {
	case TypeKids, TypeTeens, TypeYouth, TypeAdults:
		return true
	}
	return false
}

// StarterItems are unlocked for every new profile.
var StarterItems = []string{"coloring_book", "pixel_free"}

// Recording is a saved audio recitation of a verse.
type Recording struct {
	ID    string
	Audio string
	Ref   string
	Date  timeutil.Date
}

// ArtTheme is the art mission prompt of a given day.
type ArtTheme struct {
	Title       string
	Instruction string
	Icon        string
	Date        timeutil.Date
}

// DailyChallenge is the verse challenge of a given day. CorrectIndex never leaves the server.
type DailyChallenge struct {
	Ref          string
	Text         string
	Hint         string
	Question     string
	Options      []string
	CorrectIndex int
	Date         timeutil.Date
}

// Profile is one family member's study and play state.
type Profile struct {
	ID        string
	AccountID string
	Name      string
	Avatar    string
	Bio       string
	Type      Type

	Points int
	Coins  int
	Streak int

	LastChallengeDate timeutil.Date
	LastArtDate       timeutil.Date
	LastVideoDate     timeutil.Date

	UnlockedItems []string
	Favorites     []string
	Gallery       []string
	Paintings     []string
	Recordings    []Recording

	ArtMissionTheme *ArtTheme
	VerseChallenge  *DailyChallenge

	Admin   bool
	Blocked bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewParams describes a profile to be created.
type NewParams struct {
	AccountID string
	Name      string
	Avatar    string
	Bio       string
	Type      Type
}

// New returns a fresh profile with the starting balance: no points, no coins,
// streak 1 and the starter unlocks.
func New(id string, params NewParams, now time.Time) *Profile {
	now = now.UTC()
	return &Profile{
		ID:            id,
		AccountID:     params.AccountID,
		Name:          params.Name,
		Avatar:        params.Avatar,
		Bio:           params.Bio,
		Type:          params.Type,
		Streak:        1,
		UnlockedItems: slices.Clone(StarterItems),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Clone returns a deep copy of p.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.UnlockedItems = slices.Clone(p.UnlockedItems)
	c.Favorites = slices.Clone(p.Favorites)
	c.Gallery = slices.Clone(p.Gallery)
	c.Paintings = slices.Clone(p.Paintings)
	c.Recordings = slices.Clone(p.Recordings)
	if p.ArtMissionTheme != nil {
		theme := *p.ArtMissionTheme
		c.ArtMissionTheme = &theme
	}
	if p.VerseChallenge != nil {
		ch := *p.VerseChallenge
		ch.Options = slices.Clone(p.VerseChallenge.Options)
		c.VerseChallenge = &ch
	}
	return &c
}

// Store persists profiles. Save overwrites the whole record: the last writer wins.
type Store interface {
	Create(ctx context.Context, p *Profile) error
	Get(ctx context.Context, id string) (*Profile, error)
	// ListByAccount returns the account's profiles, oldest first.
	ListByAccount(ctx context.Context, accountID string) ([]*Profile, error)
	// ListAll returns every profile, newest first.
	ListAll(ctx context.Context) ([]*Profile, error)
	Save(ctx context.Context, p *Profile) error
	Delete(ctx context.Context, id string) error
}

// Cache is a Store that can also upsert, used for the local mirror of remote data.
type Cache interface {
	Store
	Put(ctx context.Context, p *Profile) error
}
