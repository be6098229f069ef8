package progression

import (
	"cmp"
	"slices"

	"github.com/janisto/filif-api/internal/service/profile"
)

// Level is a named rank reached at MinPoints.
type Level struct {
	Number    int
	Title     string
	MinPoints int
}

// Levels are ordered by MinPoints.
var Levels = []Level{
	{Number: 1, Title: "Iniciante na Fé", MinPoints: 0},
	{Number: 2, Title: "Buscador da Verdade", MinPoints: 500},
	{Number: 3, Title: "Pequeno Discípulo", MinPoints: 1500},
	{Number: 4, Title: "Guerreiro da Palavra", MinPoints: 3000},
	{Number: 5, Title: "Mestre do Saber", MinPoints: 6000},
	{Number: 6, Title: "Luz do Mundo", MinPoints: 10000},
}

// LevelInfo places a point total on the level ladder.
type LevelInfo struct {
	Current Level
	// Next is nil at the top level.
	Next *Level
	// Progress is the percentage (0-100) of the way from Current to Next.
	Progress int
}

// LevelFor returns the highest level whose threshold is at most points.
func LevelFor(points int) LevelInfo {
	idx := 0
	for i, l := range Levels {
		if points >= l.MinPoints {
			idx = i
		}
	}
	info := LevelInfo{Current: Levels[idx], Progress: 100}
	if idx+1 < len(Levels) {
		next := Levels[idx+1]
		info.Next = &next
		span := next.MinPoints - info.Current.MinPoints
		info.Progress = min(max((points-info.Current.MinPoints)*100/span, 0), 100)
	}
	return info
}

// RankEntry is one row of a family ranking.
type RankEntry struct {
	Position int
	Profile  *profile.Profile
	Level    LevelInfo
}

// Rank orders profiles by points, highest first. Ties keep the older profile first.
// The input slice is not modified.
func Rank(profiles []*profile.Profile) []RankEntry {
	sorted := slices.Clone(profiles)
	slices.SortStableFunc(sorted, func(a, b *profile.Profile) int {
		return cmp.Or(cmp.Compare(b.Points, a.Points), a.CreatedAt.Compare(b.CreatedAt))
	})
	out := make([]RankEntry, len(sorted))
	for i, p := range sorted {
		out[i] = RankEntry{Position: i + 1, Profile: p, Level: LevelFor(p.Points)}
	}
	return out
}
