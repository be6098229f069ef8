package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/janisto/filif-api/internal/platform/timeutil"
)

// profileRow maps to the profiles table. Collections are stored as JSON text so the
// same schema works on SQLite and Postgres.
type profileRow struct {
	ID                string    `db:"id"`
	AccountID         string    `db:"account_id"`
	Name              string    `db:"name"`
	Avatar            string    `db:"avatar"`
	Bio               string    `db:"bio"`
	Type              string    `db:"type"`
	Points            int       `db:"points"`
	Coins             int       `db:"coins"`
	Streak            int       `db:"streak"`
	LastChallengeDate string    `db:"last_challenge_date"`
	LastArtDate       string    `db:"last_art_date"`
	LastVideoDate     string    `db:"last_video_date"`
	UnlockedItems     string    `db:"unlocked_items"`
	Favorites         string    `db:"favorites"`
	Gallery           string    `db:"gallery"`
	Paintings         string    `db:"paintings"`
	Recordings        string    `db:"recordings"`
	ArtMissionTheme   string    `db:"art_mission_theme"`
	VerseChallenge    string    `db:"verse_challenge"`
	Admin             bool      `db:"is_admin"`
	Blocked           bool      `db:"is_blocked"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

type jsonRecording struct {
	ID    string `json:"id"`
	Audio string `json:"audio"`
	Ref   string `json:"ref"`
	Date  string `json:"date"`
}

type jsonArtTheme struct {
	Title       string `json:"title"`
	Instruction string `json:"instruction"`
	Icon        string `json:"icon"`
	Date        string `json:"date"`
}

type jsonChallenge struct {
	Ref          string   `json:"ref"`
	Text         string   `json:"text"`
	Hint         string   `json:"hint"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Date         string   `json:"date"`
}

const profileColumns = `id, account_id, name, avatar, bio, type, points, coins, streak,
	last_challenge_date, last_art_date, last_video_date, unlocked_items, favorites, gallery,
	paintings, recordings, art_mission_theme, verse_challenge, is_admin, is_blocked,
	created_at, updated_at`

const profileValues = `:id, :account_id, :name, :avatar, :bio, :type, :points, :coins, :streak,
	:last_challenge_date, :last_art_date, :last_video_date, :unlocked_items, :favorites, :gallery,
	:paintings, :recordings, :art_mission_theme, :verse_challenge, :is_admin, :is_blocked,
	:created_at, :updated_at`

const profileAssignments = `account_id = :account_id, name = :name, avatar = :avatar, bio = :bio,
	type = :type, points = :points, coins = :coins, streak = :streak,
	last_challenge_date = :last_challenge_date, last_art_date = :last_art_date,
	last_video_date = :last_video_date, unlocked_items = :unlocked_items, favorites = :favorites,
	gallery = :gallery, paintings = :paintings, recordings = :recordings,
	art_mission_theme = :art_mission_theme, verse_challenge = :verse_challenge,
	is_admin = :is_admin, is_blocked = :is_blocked, created_at = :created_at,
	updated_at = :updated_at`

// SQLStore implements Store on SQLite or Postgres through sqlx.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore wraps an open database. The schema must already be migrated.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Create(ctx context.Context, p *Profile) error {
	row, err := toRow(p)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.GetContext(ctx, &n, tx.Rebind(`SELECT COUNT(*) FROM profiles WHERE id = ?`), p.ID); err != nil {
		return err
	}
	if n > 0 {
		return ErrAlreadyExists
	}
	if _, err := tx.NamedExecContext(ctx,
		`INSERT INTO profiles (`+profileColumns+`) VALUES (`+profileValues+`)`, row); err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return tx.Commit()
}

func (s *SQLStore) Get(ctx context.Context, id string) (*Profile, error) {
	var row profileRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(`SELECT `+profileColumns+` FROM profiles WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toProfile()
}

func (s *SQLStore) ListByAccount(ctx context.Context, accountID string) ([]*Profile, error) {
	return s.list(ctx,
		s.db.Rebind(`SELECT `+profileColumns+` FROM profiles WHERE account_id = ? ORDER BY created_at ASC, id ASC`),
		accountID)
}

func (s *SQLStore) ListAll(ctx context.Context) ([]*Profile, error) {
	return s.list(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC, id ASC`)
}

func (s *SQLStore) list(ctx context.Context, query string, args ...any) ([]*Profile, error) {
	var rows []profileRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	out := make([]*Profile, 0, len(rows))
	for _, row := range rows {
		p, err := row.toProfile()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *SQLStore) Save(ctx context.Context, p *Profile) error {
	row, err := toRow(p)
	if err != nil {
		return err
	}
	res, err := s.db.NamedExecContext(ctx, `UPDATE profiles SET `+profileAssignments+` WHERE id = :id`, row)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Put inserts or overwrites p.
func (s *SQLStore) Put(ctx context.Context, p *Profile) error {
	row, err := toRow(p)
	if err != nil {
		return err
	}
	_, err = s.db.NamedExecContext(ctx,
		`INSERT INTO profiles (`+profileColumns+`) VALUES (`+profileValues+`)
		ON CONFLICT (id) DO UPDATE SET `+profileAssignments, row)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM profiles WHERE id = ?`), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func toRow(p *Profile) (profileRow, error) {
	row := profileRow{
		ID:                p.ID,
		AccountID:         p.AccountID,
		Name:              p.Name,
		Avatar:            p.Avatar,
		Bio:               p.Bio,
		Type:              string(p.Type),
		Points:            p.Points,
		Coins:             p.Coins,
		Streak:            p.Streak,
		LastChallengeDate: string(p.LastChallengeDate),
		LastArtDate:       string(p.LastArtDate),
		LastVideoDate:     string(p.LastVideoDate),
		Admin:             p.Admin,
		Blocked:           p.Blocked,
		CreatedAt:         p.CreatedAt.UTC(),
		UpdatedAt:         p.UpdatedAt.UTC(),
	}

	recordings := make([]jsonRecording, 0, len(p.Recordings))
	for _, r := range p.Recordings {
		recordings = append(recordings, jsonRecording{ID: r.ID, Audio: r.Audio, Ref: r.Ref, Date: string(r.Date)})
	}

	var err error
	fields := []struct {
		dst *string
		v   any
	}{
		{&row.UnlockedItems, nonNil(p.UnlockedItems)},
		{&row.Favorites, nonNil(p.Favorites)},
		{&row.Gallery, nonNil(p.Gallery)},
		{&row.Paintings, nonNil(p.Paintings)},
		{&row.Recordings, recordings},
	}
	for _, f := range fields {
		if *f.dst, err = encodeJSON(f.v); err != nil {
			return profileRow{}, err
		}
	}

	if t := p.ArtMissionTheme; t != nil {
		row.ArtMissionTheme, err = encodeJSON(jsonArtTheme{Title: t.Title, Instruction: t.Instruction, Icon: t.Icon, Date: string(t.Date)})
		if err != nil {
			return profileRow{}, err
		}
	}
	if c := p.VerseChallenge; c != nil {
		row.VerseChallenge, err = encodeJSON(jsonChallenge{
			Ref:          c.Ref,
			Text:         c.Text,
			Hint:         c.Hint,
			Question:     c.Question,
			Options:      c.Options,
			CorrectIndex: c.CorrectIndex,
			Date:         string(c.Date),
		})
		if err != nil {
			return profileRow{}, err
		}
	}
	return row, nil
}

func (row profileRow) toProfile() (*Profile, error) {
	p := &Profile{
		ID:                row.ID,
		AccountID:         row.AccountID,
		Name:              row.Name,
		Avatar:            row.Avatar,
		Bio:               row.Bio,
		Type:              Type(row.Type),
		Points:            row.Points,
		Coins:             row.Coins,
		Streak:            row.Streak,
		LastChallengeDate: timeutil.Date(row.LastChallengeDate),
		LastArtDate:       timeutil.Date(row.LastArtDate),
		LastVideoDate:     timeutil.Date(row.LastVideoDate),
		Admin:             row.Admin,
		Blocked:           row.Blocked,
		CreatedAt:         row.CreatedAt.UTC(),
		UpdatedAt:         row.UpdatedAt.UTC(),
	}

	var recordings []jsonRecording
	fields := []struct {
		src string
		dst any
	}{
		{row.UnlockedItems, &p.UnlockedItems},
		{row.Favorites, &p.Favorites},
		{row.Gallery, &p.Gallery},
		{row.Paintings, &p.Paintings},
		{row.Recordings, &recordings},
	}
	for _, f := range fields {
		if err := decodeJSON(f.src, f.dst); err != nil {
			return nil, fmt.Errorf("profile %s: %w", row.ID, err)
		}
	}
	for _, r := range recordings {
		p.Recordings = append(p.Recordings, Recording{ID: r.ID, Audio: r.Audio, Ref: r.Ref, Date: timeutil.Date(r.Date)})
	}

	if row.ArtMissionTheme != "" {
		var t jsonArtTheme
		if err := decodeJSON(row.ArtMissionTheme, &t); err != nil {
			return nil, fmt.Errorf("profile %s: %w", row.ID, err)
		}
		p.ArtMissionTheme = &ArtTheme{Title: t.Title, Instruction: t.Instruction, Icon: t.Icon, Date: timeutil.Date(t.Date)}
	}
	if row.VerseChallenge != "" {
		var c jsonChallenge
		if err := decodeJSON(row.VerseChallenge, &c); err != nil {
			return nil, fmt.Errorf("profile %s: %w", row.ID, err)
		}
		p.VerseChallenge = &DailyChallenge{
			Ref:          c.Ref,
			Text:         c.Text,
			Hint:         c.Hint,
			Question:     c.Question,
			Options:      c.Options,
			CorrectIndex: c.CorrectIndex,
			Date:         timeutil.Date(c.Date),
		}
	}
	return p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeJSON(s string, dst any) error {
	if s == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), dst)
}

// Compile-time interface check
var _ Cache = (*SQLStore)(nil)
