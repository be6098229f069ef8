package profile

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/janisto/filif-api/internal/platform/timeutil"
)

const profilesCollection = "profiles"

// firestoreRecording maps to an element of the recordings array.
type firestoreRecording struct {
	ID    string `firestore:"id"`
	Audio string `firestore:"audio"`
	Ref   string `firestore:"ref"`
	Date  string `firestore:"date"`
}

type firestoreArtTheme struct {
	Title       string `firestore:"title"`
	Instruction string `firestore:"instruction"`
	Icon        string `firestore:"icon"`
	Date        string `firestore:"date"`
}

type firestoreChallenge struct {
	Ref          string   `firestore:"ref"`
	Text         string   `firestore:"text"`
	Hint         string   `firestore:"hint"`
	Question     string   `firestore:"question"`
	Options      []string `firestore:"options"`
	CorrectIndex int      `firestore:"correct_index"`
	Date         string   `firestore:"date"`
}

// firestoreProfile maps to Firestore document structure.
type firestoreProfile struct {
	AccountID         string               `firestore:"account_id"`
	Name              string               `firestore:"name"`
	Avatar            string               `firestore:"avatar"`
	Bio               string               `firestore:"bio"`
	Type              string               `firestore:"type"`
	Points            int                  `firestore:"points"`
	Coins             int                  `firestore:"coins"`
	Streak            int                  `firestore:"streak"`
	LastChallengeDate string               `firestore:"last_challenge_date"`
	LastArtDate       string               `firestore:"last_art_date"`
	LastVideoDate     string               `firestore:"last_video_date"`
	UnlockedItems     []string             `firestore:"unlocked_items"`
	Favorites         []string             `firestore:"favorites"`
	Gallery           []string             `firestore:"gallery"`
	Paintings         []string             `firestore:"paintings"`
	Recordings        []firestoreRecording `firestore:"recordings"`
	ArtMissionTheme   *firestoreArtTheme   `firestore:"art_mission_theme"`
	VerseChallenge    *firestoreChallenge  `firestore:"verse_challenge"`
	Admin             bool                 `firestore:"is_admin"`
	Blocked           bool                 `firestore:"is_blocked"`
	CreatedAt         time.Time            `firestore:"created_at"`
	UpdatedAt         time.Time            `firestore:"updated_at"`
}

func toFirestore(p *Profile) firestoreProfile {
	fp := firestoreProfile{
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
		UnlockedItems:     p.UnlockedItems,
		Favorites:         p.Favorites,
		Gallery:           p.Gallery,
		Paintings:         p.Paintings,
		Admin:             p.Admin,
		Blocked:           p.Blocked,
		CreatedAt:         p.CreatedAt.UTC(),
		UpdatedAt:         p.UpdatedAt.UTC(),
	}
	for _, r := range p.Recordings {
		fp.Recordings = append(fp.Recordings, firestoreRecording{ID: r.ID, Audio: r.Audio, Ref: r.Ref, Date: string(r.Date)})
	}
	if t := p.ArtMissionTheme; t != nil {
		fp.ArtMissionTheme = &firestoreArtTheme{Title: t.Title, Instruction: t.Instruction, Icon: t.Icon, Date: string(t.Date)}
	}
	if c := p.VerseChallenge; c != nil {
		fp.VerseChallenge = &firestoreChallenge{
			Ref:          c.Ref,
			Text:         c.Text,
			Hint:         c.Hint,
			Question:     c.Question,
			Options:      c.Options,
			CorrectIndex: c.CorrectIndex,
			Date:         string(c.Date),
		}
	}
	return fp
}

func (fp firestoreProfile) toProfile(id string) *Profile {
	p := &Profile{
		ID:                id,
		AccountID:         fp.AccountID,
		Name:              fp.Name,
		Avatar:            fp.Avatar,
		Bio:               fp.Bio,
		Type:              Type(fp.Type),
		Points:            fp.Points,
		Coins:             fp.Coins,
		Streak:            fp.Streak,
		LastChallengeDate: timeutil.Date(fp.LastChallengeDate),
		LastArtDate:       timeutil.Date(fp.LastArtDate),
		LastVideoDate:     timeutil.Date(fp.LastVideoDate),
		UnlockedItems:     fp.UnlockedItems,
		Favorites:         fp.Favorites,
		Gallery:           fp.Gallery,
		Paintings:         fp.Paintings,
		Admin:             fp.Admin,
		Blocked:           fp.Blocked,
		CreatedAt:         fp.CreatedAt,
		UpdatedAt:         fp.UpdatedAt,
	}
	for _, r := range fp.Recordings {
		p.Recordings = append(p.Recordings, Recording{ID: r.ID, Audio: r.Audio, Ref: r.Ref, Date: timeutil.Date(r.Date)})
	}
	if t := fp.ArtMissionTheme; t != nil {
		p.ArtMissionTheme = &ArtTheme{Title: t.Title, Instruction: t.Instruction, Icon: t.Icon, Date: timeutil.Date(t.Date)}
	}
	if c := fp.VerseChallenge; c != nil {
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
	return p
}

// FirestoreStore implements Store using Firestore with transactions.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// Create stores a new profile using a transaction to prevent duplicates.
func (s *FirestoreStore) Create(ctx context.Context, p *Profile) error {
	docRef := s.client.Collection(profilesCollection).Doc(p.ID)

	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err == nil && doc.Exists() {
			return ErrAlreadyExists
		}
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
		return tx.Set(docRef, toFirestore(p))
	})
}

// Get retrieves a profile by ID.
func (s *FirestoreStore) Get(ctx context.Context, id string) (*Profile, error) {
	doc, err := s.client.Collection(profilesCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var fp firestoreProfile
	if err := doc.DataTo(&fp); err != nil {
		return nil, err
	}
	return fp.toProfile(doc.Ref.ID), nil
}

// ListByAccount queries by account_id and sorts in memory so no composite index is needed.
func (s *FirestoreStore) ListByAccount(ctx context.Context, accountID string) ([]*Profile, error) {
	iter := s.client.Collection(profilesCollection).Where("account_id", "==", accountID).Documents(ctx)
	out, err := collect(iter)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b *Profile) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

// ListAll returns every profile ordered by creation time, newest first.
func (s *FirestoreStore) ListAll(ctx context.Context) ([]*Profile, error) {
	iter := s.client.Collection(profilesCollection).OrderBy("created_at", firestore.Desc).Documents(ctx)
	return collect(iter)
}

func collect(iter *firestore.DocumentIterator) ([]*Profile, error) {
	defer iter.Stop()
	var out []*Profile
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		var fp firestoreProfile
		if err := doc.DataTo(&fp); err != nil {
			return nil, err
		}
		out = append(out, fp.toProfile(doc.Ref.ID))
	}
}

// Save overwrites an existing profile. The read inside the transaction only
// guards existence; concurrent writers still resolve as last-writer-wins.
func (s *FirestoreStore) Save(ctx context.Context, p *Profile) error {
	docRef := s.client.Collection(profilesCollection).Doc(p.ID)

	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(docRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}
		return tx.Set(docRef, toFirestore(p))
	})
}

// Delete removes a profile using a transaction to ensure it exists.
func (s *FirestoreStore) Delete(ctx context.Context, id string) error {
	docRef := s.client.Collection(profilesCollection).Doc(id)

	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(docRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}
		return tx.Delete(docRef)
	})
}

// Compile-time interface check
var _ Store = (*FirestoreStore)(nil)
