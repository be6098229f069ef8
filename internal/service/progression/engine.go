// Package progression applies rewards and purchases to a single profile.
//
// Every function here is pure: it mutates only the *profile.Profile it is
// handed and takes "today" from the caller, so callers decide the clock and
// when to persist. Daily-gated rewards are idempotent within a calendar day.
package progression

import (
	"errors"
	"slices"

	"github.com/janisto/filif-api/internal/platform/timeutil"
	"github.com/janisto/filif-api/internal/service/profile"
)

// Reward amounts.
const (
	VerseChallengeCoins  = 1
	VerseChallengePoints = 100
	ArtMissionCoins      = 1
	ArtMissionPoints     = 100
	GamePointsPerCoin    = 20
	RecordingPoints      = 20
)

// ErrInsufficientFunds is returned when a purchase costs more than the profile's coins.
var ErrInsufficientFunds = errors.New("insufficient coins")

// Outcome reports what an operation granted.
type Outcome struct {
	// Granted is false when a daily-gated reward was already claimed today.
	Granted bool
	Coins   int
	Points  int
}

// Item is the part of a catalog entry the engine needs.
type Item struct {
	ID    string
	Price int
}

// PurchaseResult distinguishes a completed purchase from a repeat. The zero value
// means nothing was bought.
type PurchaseResult int

const (
	PurchaseRejected PurchaseResult = iota
	PurchaseCompleted
	PurchaseAlreadyOwned
)

func (r PurchaseResult) String() string {
	switch r {
	case PurchaseCompleted:
		return "completed"
	case PurchaseAlreadyOwned:
		return "already_owned"
	default:
		return "rejected"
	}
}

// IsDoneToday reports whether a gate last set on last is closed for today.
// A never-set gate is open.
func IsDoneToday(last, today timeutil.Date) bool {
	return !last.IsZero() && last == today
}

// HasUnlocked reports whether the profile owns itemID.
func HasUnlocked(p *profile.Profile, itemID string) bool {
	return slices.Contains(p.UnlockedItems, itemID)
}

// CompleteVerseChallenge grants the daily verse reward once per day.
func CompleteVerseChallenge(p *profile.Profile, today timeutil.Date) Outcome {
	if IsDoneToday(p.LastChallengeDate, today) {
		return Outcome{}
	}
	p.LastChallengeDate = today
	return grant(p, VerseChallengeCoins, VerseChallengePoints)
}

// CompleteArtMission adds the artwork to the gallery. Only the first physical
// submission of the day earns the reward; digital submissions never do.
func CompleteArtMission(p *profile.Profile, today timeutil.Date, imageRef string, physical bool) Outcome {
	p.Gallery = append(p.Gallery, imageRef)
	if !physical || IsDoneToday(p.LastArtDate, today) {
		return Outcome{}
	}
	p.LastArtDate = today
	return grant(p, ArtMissionCoins, ArtMissionPoints)
}

// CompleteGame credits a game win. The reward is trusted; negative values are treated
// as zero so a win can never take coins away.
func CompleteGame(p *profile.Profile, rewardCoins int) Outcome {
	rewardCoins = max(rewardCoins, 0)
	return grant(p, rewardCoins, rewardCoins*GamePointsPerCoin)
}

// SaveRecording appends a recitation and awards points. Recordings are not gated.
func SaveRecording(p *profile.Profile, id, audioRef, verseRef string, today timeutil.Date) Outcome {
	p.Recordings = append(p.Recordings, profile.Recording{
		ID:    id,
		Audio: audioRef,
		Ref:   verseRef,
		Date:  today,
	})
	return grant(p, 0, RecordingPoints)
}

// MarkVideoWatched closes the daily video gate. Videos carry no reward.
func MarkVideoWatched(p *profile.Profile, today timeutil.Date) bool {
	if IsDoneToday(p.LastVideoDate, today) {
		return false
	}
	p.LastVideoDate = today
	return true
}

// PurchaseItem unlocks item in exchange for its price. Owning the item already is
// not an error and charges nothing. On ErrInsufficientFunds the profile is untouched.
func PurchaseItem(p *profile.Profile, item Item) (PurchaseResult, error) {
	if HasUnlocked(p, item.ID) {
		return PurchaseAlreadyOwned, nil
	}
	if p.Coins < item.Price {
		return PurchaseRejected, ErrInsufficientFunds
	}
	p.Coins -= max(item.Price, 0)
	p.UnlockedItems = append(p.UnlockedItems, item.ID)
	return PurchaseCompleted, nil
}

// AdjustCoins applies an administrative coin correction. The balance may not go negative.
func AdjustCoins(p *profile.Profile, delta int) error {
	if p.Coins+delta < 0 {
		return ErrInsufficientFunds
	}
	p.Coins += delta
	return nil
}

// ToggleFavorite adds ref to favorites, or removes it when present. It reports
// whether ref is a favorite afterwards.
func ToggleFavorite(p *profile.Profile, ref string) bool {
	if i := slices.Index(p.Favorites, ref); i >= 0 {
		p.Favorites = slices.Delete(p.Favorites, i, i+1)
		return false
	}
	p.Favorites = append(p.Favorites, ref)
	return true
}

// SetFavorite makes ref a favorite or not, idempotently.
func SetFavorite(p *profile.Profile, ref string, favorite bool) {
	if slices.Contains(p.Favorites, ref) != favorite {
		ToggleFavorite(p, ref)
	}
}

func grant(p *profile.Profile, coins, points int) Outcome {
	p.Coins += coins
	p.Points += points
	return Outcome{Granted: true, Coins: coins, Points: points}
}
