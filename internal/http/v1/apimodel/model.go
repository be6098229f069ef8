// Package apimodel holds the response models and error mapping shared by the v1 handlers.
package apimodel

import (
	"github.com/janisto/filif-api/internal/platform/timeutil"
	"github.com/janisto/filif-api/internal/service/profile"
	"github.com/janisto/filif-api/internal/service/progression"
)

// BearerAuth is the security requirement of every authenticated operation.
var BearerAuth = []map[string][]string{
	{"bearerAuth": {}},
}

// Profile is the API view of a family profile. Gallery and recordings are listed
// through their own paginated endpoints.
type Profile struct {
	ID                string        `json:"id"                          doc:"Profile ID"                    example:"7f6c2c1e-4c1a-4d8e-9a51-0f1b2c3d4e5f"`
	Name              string        `json:"name"                        doc:"Display name"                  example:"Ana"`
	Avatar            string        `json:"avatar"                      doc:"Avatar identifier or emoji"    example:"👧"`
	Bio               string        `json:"bio"                         doc:"Short biography"`
	Type              profile.Type  `json:"type"                        doc:"Age bracket"                   example:"KIDS" enum:"KIDS,TEENS,YOUTH,ADULTS"`
	Points            int           `json:"points"                      doc:"Lifetime points"               example:"300"`
	Coins             int           `json:"coins"                       doc:"Spendable coins"               example:"4"`
	Streak            int           `json:"streak"                      doc:"Daily streak"                  example:"1"`
	LastChallengeDate string        `json:"lastChallengeDate,omitempty" doc:"Day of the last verse challenge" example:"2025-03-01"`
	LastArtDate       string        `json:"lastArtDate,omitempty"       doc:"Day of the last art reward"    example:"2025-03-01"`
	LastVideoDate     string        `json:"lastVideoDate,omitempty"     doc:"Day of the last watched video" example:"2025-03-01"`
	UnlockedItems     []string      `json:"unlockedItems"               doc:"Owned shop items"`
	Favorites         []string      `json:"favorites"                   doc:"Favorite verse references"`
	Paintings         []string      `json:"paintings"                   doc:"Saved painting references"`
	GalleryCount      int           `json:"galleryCount"                doc:"Number of submitted artworks"`
	RecordingCount    int           `json:"recordingCount"              doc:"Number of saved recordings"`
	Level             LevelInfo     `json:"level"                       doc:"Level reached with the current points"`
	Admin             bool          `json:"admin"                       doc:"Profile grants admin access"`
	Blocked           bool          `json:"blocked"                     doc:"Profile cannot earn or spend"`
	CreatedAt         timeutil.Time `json:"createdAt"                   doc:"Creation time"                 example:"2025-03-01T10:30:00.000Z"`
	UpdatedAt         timeutil.Time `json:"updatedAt"                   doc:"Last update time"              example:"2025-03-01T10:30:00.000Z"`
}

// Level is one rank of the level ladder.
type Level struct {
	Number    int    `json:"number"    doc:"Level number"            example:"2"`
	Title     string `json:"title"     doc:"Level title"             example:"Buscador da Verdade"`
	MinPoints int    `json:"minPoints" doc:"Points needed to reach it" example:"500"`
}

// LevelInfo places a profile on the level ladder.
type LevelInfo struct {
	Current  Level  `json:"current"`
	Next     *Level `json:"next,omitempty" doc:"Absent at the top level"`
	Progress int    `json:"progress"       doc:"Percent of the way to the next level" example:"40"`
}

// Outcome reports what an operation granted.
type Outcome struct {
	Granted bool `json:"granted" doc:"False when the daily reward was already claimed"`
	Coins   int  `json:"coins"   doc:"Coins granted"  example:"1"`
	Points  int  `json:"points"  doc:"Points granted" example:"100"`
}

// ProfileResult is the body of every operation that changes a profile.
type ProfileResult struct {
	Profile Profile `json:"profile"`
	Outcome Outcome `json:"outcome"`
}

// NewProfile converts a service profile.
func NewProfile(p *profile.Profile) Profile {
	return Profile{
		ID:                p.ID,
		Name:              p.Name,
		Avatar:            p.Avatar,
		Bio:               p.Bio,
		Type:              p.Type,
		Points:            p.Points,
		Coins:             p.Coins,
		Streak:            p.Streak,
		LastChallengeDate: p.LastChallengeDate.String(),
		LastArtDate:       p.LastArtDate.String(),
		LastVideoDate:     p.LastVideoDate.String(),
		UnlockedItems:     nonNil(p.UnlockedItems),
		Favorites:         nonNil(p.Favorites),
		Paintings:         nonNil(p.Paintings),
		GalleryCount:      len(p.Gallery),
		RecordingCount:    len(p.Recordings),
		Level:             NewLevelInfo(progression.LevelFor(p.Points)),
		Admin:             p.Admin,
		Blocked:           p.Blocked,
		CreatedAt:         timeutil.NewTime(p.CreatedAt),
		UpdatedAt:         timeutil.NewTime(p.UpdatedAt),
	}
}

// NewProfiles converts a list of service profiles.
func NewProfiles(ps []*profile.Profile) []Profile {
	out := make([]Profile, len(ps))
	for i, p := range ps {
		out[i] = NewProfile(p)
	}
	return out
}

// NewLevelInfo converts level information.
func NewLevelInfo(info progression.LevelInfo) LevelInfo {
	out := LevelInfo{Current: newLevel(info.Current), Progress: info.Progress}
	if info.Next != nil {
		next := newLevel(*info.Next)
		out.Next = &next
	}
	return out
}

func newLevel(l progression.Level) Level {
	return Level{Number: l.Number, Title: l.Title, MinPoints: l.MinPoints}
}

// NewOutcome converts an engine outcome.
func NewOutcome(o progression.Outcome) Outcome {
	return Outcome{Granted: o.Granted, Coins: o.Coins, Points: o.Points}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
