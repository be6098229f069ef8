package progression

import (
	"testing"
	"time"

	"github.com/janisto/filif-api/internal/service/profile"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		points       int
		wantLevel    int
		wantNext     int
		wantProgress int
	}{
		{0, 1, 2, 0},
		{250, 1, 2, 50},
		{499, 1, 2, 99},
		{500, 2, 3, 0},
		{1000, 2, 3, 50},
		{2999, 3, 4, 99},
		{6000, 5, 6, 0},
		{10000, 6, 0, 100},
		{25000, 6, 0, 100},
	}
	for _, tt := range tests {
		info := LevelFor(tt.points)
		if info.Current.Number != tt.wantLevel {
			t.Errorf("LevelFor(%d).Current = %d, want %d", tt.points, info.Current.Number, tt.wantLevel)
		}
		if tt.wantNext == 0 {
			if info.Next != nil {
				t.Errorf("LevelFor(%d).Next = %d, want nil", tt.points, info.Next.Number)
			}
		} else if info.Next == nil || info.Next.Number != tt.wantNext {
			t.Errorf("LevelFor(%d).Next = %v, want %d", tt.points, info.Next, tt.wantNext)
		}
		if info.Progress != tt.wantProgress {
			t.Errorf("LevelFor(%d).Progress = %d, want %d", tt.points, info.Progress, tt.wantProgress)
		}
	}
}

func TestRankOrdersByPointsThenAge(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mk := func(id string, points int, age time.Duration) *profile.Profile {
		p := profile.New(id, profile.NewParams{AccountID: "acct", Name: id, Type: profile.TypeKids}, base.Add(age))
		p.Points = points
		return p
	}
	in := []*profile.Profile{
		mk("mom", 300, 0),
		mk("kid", 1600, time.Hour),
		mk("dad", 300, -time.Hour),
	}

	ranked := Rank(in)

	want := []string{"kid", "dad", "mom"}
	for i, e := range ranked {
		if e.Profile.ID != want[i] || e.Position != i+1 {
			t.Fatalf("position %d: got %s (%d), want %s", i+1, e.Profile.ID, e.Position, want[i])
		}
	}
	if ranked[0].Level.Current.Number != 3 {
		t.Fatalf("expected level 3 for 1600 points, got %d", ranked[0].Level.Current.Number)
	}
	if in[0].ID != "mom" {
		t.Fatal("Rank must not reorder its input")
	}
}
