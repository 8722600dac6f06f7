package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/goliatone/go-identity"
	"github.com/uptrace/bun"
)

// ProfileModel is the Bun model for profiles.
type ProfileModel struct {
	bun.BaseModel `bun:"table:profiles"`

	ID        string    `bun:"id,pk"`
	Name      string    `bun:"name,notnull"`
	Age       int       `bun:"age,notnull,default:0"`
	Email     string    `bun:"email"`
	Phone     *string   `bun:"phone"`
	Image     *string   `bun:"image"`
	Tags      []string  `bun:"tags,type:text"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// ProfileRepository implements identity.ProfileStore using Bun.
type ProfileRepository struct {
	db bun.IDB
}

// NewProfileRepository creates a new repository.
func NewProfileRepository(db bun.IDB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get implements identity.ProfileStore.
func (r *ProfileRepository) Get(ctx context.Context, id string) (*identity.Profile, error) {
	var model ProfileModel
	err := r.db.NewSelect().
		Model(&model).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, identity.ErrProfileNotFound
		}
		return nil, fmt.Errorf("profiles: get %s: %w", id, err)
	}
	return toProfile(&model), nil
}

// Create implements identity.ProfileStore. It never overwrites an existing row.
func (r *ProfileRepository) Create(ctx context.Context, profile *identity.Profile) error {
	model := fromProfile(profile)
	now := time.Now().UTC()
	model.CreatedAt = now
	model.UpdatedAt = now

	res, err := r.db.NewInsert().
		Model(model).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("profiles: create %s: %w", profile.ID, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return identity.ErrProfileExists
	}
	return nil
}

// Set implements identity.ProfileStore.
func (r *ProfileRepository) Set(ctx context.Context, profile *identity.Profile) error {
	model := fromProfile(profile)
	model.UpdatedAt = time.Now().UTC()
	model.CreatedAt = model.UpdatedAt

	_, err := r.db.NewInsert().
		Model(model).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("age = EXCLUDED.age").
		Set("email = EXCLUDED.email").
		Set("phone = EXCLUDED.phone").
		Set("image = EXCLUDED.image").
		Set("tags = EXCLUDED.tags").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("profiles: set %s: %w", profile.ID, err)
	}
	return nil
}

// Update implements identity.ProfileStore. Only the set fields are written.
func (r *ProfileRepository) Update(ctx context.Context, id string, update identity.ProfileUpdate) error {
	if update.IsEmpty() {
		return nil
	}

	q := r.db.NewUpdate().
		Model((*ProfileModel)(nil)).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id)

	if update.Name != nil {
		q = q.Set("name = ?", *update.Name)
	}
	if update.Image != nil {
		q = q.Set("image = ?", *update.Image)
	}
	if update.Phone != nil {
		q = q.Set("phone = ?", *update.Phone)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("profiles: update %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return identity.ErrProfileNotFound
	}
	return nil
}

func toProfile(m *ProfileModel) *identity.Profile {
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	return &identity.Profile{
		ID:    m.ID,
		Name:  m.Name,
		Age:   m.Age,
		Email: m.Email,
		Phone: m.Phone,
		Image: m.Image,
		Tags:  tags,
	}
}

func fromProfile(p *identity.Profile) *ProfileModel {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return &ProfileModel{
		ID:    p.ID,
		Name:  p.Name,
		Age:   p.Age,
		Email: p.Email,
		Phone: p.Phone,
		Image: p.Image,
		Tags:  tags,
	}
}
