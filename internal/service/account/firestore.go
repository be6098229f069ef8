package account

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const accountsCollection = "accounts"

type firestoreAccount struct {
	Email     string    `firestore:"email"`
	FullName  string    `firestore:"full_name"`
	Premium   bool      `firestore:"is_premium"`
	Theme     string    `firestore:"theme"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

// FirestoreStore stores one document per account.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a Firestore-backed account store.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

var _ Store = (*FirestoreStore)(nil)

func (s *FirestoreStore) doc(id string) *firestore.DocumentRef {
	return s.client.Collection(accountsCollection).Doc(id)
}

func (s *FirestoreStore) Get(ctx context.Context, id string) (*Account, error) {
	snap, err := s.doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting account: %w", err)
	}
	var fa firestoreAccount
	if err := snap.DataTo(&fa); err != nil {
		return nil, fmt.Errorf("decoding account: %w", err)
	}
	return &Account{
		ID:        id,
		Email:     fa.Email,
		FullName:  fa.FullName,
		Premium:   fa.Premium,
		Theme:     Theme(fa.Theme),
		CreatedAt: fa.CreatedAt.UTC(),
		UpdatedAt: fa.UpdatedAt.UTC(),
	}, nil
}

func toFirestore(a *Account) firestoreAccount {
	return firestoreAccount{
		Email:     a.Email,
		FullName:  a.FullName,
		Premium:   a.Premium,
		Theme:     string(a.Theme),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (s *FirestoreStore) Create(ctx context.Context, a *Account) error {
	_, err := s.doc(a.ID).Create(ctx, toFirestore(a))
	if status.Code(err) == codes.AlreadyExists {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("creating account: %w", err)
	}
	return nil
}

func (s *FirestoreStore) Update(ctx context.Context, a *Account) error {
	ref := s.doc(a.ID)
	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return fmt.Errorf("getting account: %w", err)
		}
		return tx.Set(ref, toFirestore(a))
	})
}
