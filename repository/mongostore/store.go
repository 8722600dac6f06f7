// Package mongostore implements the identity stores on MongoDB. Profiles are
// documents keyed by the identity subject id.
package mongostore

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-identity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	profileCollection = "profiles"
	accountCollection = "accounts"
)

// Connect opens a client for uri and returns the named database.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, client.Database(database), nil
}

// ProfileStore implements identity.ProfileStore.
type ProfileStore struct {
	collection *mongo.Collection
}

// NewProfileStore returns a store over the profiles collection.
func NewProfileStore(db *mongo.Database) *ProfileStore {
	return &ProfileStore{collection: db.Collection(profileCollection)}
}

// Get implements identity.ProfileStore.
func (s *ProfileStore) Get(ctx context.Context, id string) (*identity.Profile, error) {
	result := s.collection.FindOne(ctx, bson.M{"_id": id})
	if err := result.Err(); err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, identity.ErrProfileNotFound
		}
		return nil, err
	}

	var profile identity.Profile
	if err := result.Decode(&profile); err != nil {
		return nil, err
	}
	if profile.Tags == nil {
		profile.Tags = []string{}
	}
	return &profile, nil
}

// Create implements identity.ProfileStore. The _id unique index turns a
// concurrent create into identity.ErrProfileExists.
func (s *ProfileStore) Create(ctx context.Context, profile *identity.Profile) error {
	if _, err := s.collection.InsertOne(ctx, profileDocument(profile)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return identity.ErrProfileExists
		}
		return err
	}
	return nil
}

// Set implements identity.ProfileStore.
func (s *ProfileStore) Set(ctx context.Context, profile *identity.Profile) error {
	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"_id": profile.ID},
		profileDocument(profile),
		options.Replace().SetUpsert(true),
	)
	return err
}

// Update implements identity.ProfileStore with a $set of the given fields.
func (s *ProfileStore) Update(ctx context.Context, id string, update identity.ProfileUpdate) error {
	doc := updateDocument(update)
	if len(doc) == 0 {
		return nil
	}

	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": doc})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return identity.ErrProfileNotFound
	}
	return nil
}

// profileDocument builds the stored document. Phone is omitted when unset.
func profileDocument(p *identity.Profile) bson.D {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	doc := bson.D{
		{Key: "_id", Value: p.ID},
		{Key: "name", Value: p.Name},
		{Key: "age", Value: p.Age},
		{Key: "email", Value: p.Email},
		{Key: "image", Value: p.Image},
		{Key: "tags", Value: tags},
	}
	if p.Phone != nil {
		doc = append(doc, bson.E{Key: "phone", Value: *p.Phone})
	}
	return doc
}

func updateDocument(u identity.ProfileUpdate) bson.M {
	doc := bson.M{}
	if u.Name != nil {
		doc["name"] = *u.Name
	}
	if u.Image != nil {
		doc["image"] = *u.Image
	}
	if u.Phone != nil {
		doc["phone"] = *u.Phone
	}
	return doc
}

// AccountStore implements identity.AccountStore.
type AccountStore struct {
	collection *mongo.Collection
}

type accountDocument struct {
	UID           string    `bson:"_id"`
	Email         string    `bson:"email"`
	DisplayName   string    `bson:"display_name"`
	PhotoURL      *string   `bson:"photo_url,omitempty"`
	PasswordHash  string    `bson:"password_hash"`
	EmailVerified bool      `bson:"email_verified"`
	CreatedAt     time.Time `bson:"created_at"`
}

// NewAccountStore returns a store over the accounts collection and ensures the
// unique email index.
func NewAccountStore(ctx context.Context, db *mongo.Database) (*AccountStore, error) {
	collection := db.Collection(accountCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("create account indexes: %w", err)
	}

	return &AccountStore{collection: collection}, nil
}

// Create implements identity.AccountStore.
func (s *AccountStore) Create(ctx context.Context, account *identity.Account) error {
	doc := accountDocument{
		UID:           account.UID,
		Email:         strings.ToLower(account.Email),
		DisplayName:   account.DisplayName,
		PhotoURL:      account.PhotoURL,
		PasswordHash:  account.PasswordHash,
		EmailVerified: account.EmailVerified,
		CreatedAt:     account.CreatedAt,
	}
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return identity.ErrEmailAlreadyRegistered
		}
		return err
	}
	return nil
}

// GetByEmail implements identity.AccountStore.
func (s *AccountStore) GetByEmail(ctx context.Context, email string) (*identity.Account, error) {
	result := s.collection.FindOne(ctx, bson.M{"email": strings.ToLower(email)})
	if err := result.Err(); err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, identity.ErrAccountNotFound
		}
		return nil, err
	}

	var doc accountDocument
	if err := result.Decode(&doc); err != nil {
		return nil, err
	}

	return &identity.Account{
		UID:           doc.UID,
		Email:         doc.Email,
		DisplayName:   doc.DisplayName,
		PhotoURL:      doc.PhotoURL,
		PasswordHash:  doc.PasswordHash,
		EmailVerified: doc.EmailVerified,
		CreatedAt:     doc.CreatedAt,
	}, nil
}
