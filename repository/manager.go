package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// models are the tables owned by this package.
var models = []any{
	(*ProfileModel)(nil),
	(*AccountModel)(nil),
}

func init() {
	for _, model := range models {
		persistence.RegisterModel(model)
	}
}

// PersistenceConfig configures the persistence client for a SQLite database.
type PersistenceConfig struct {
	DSN         string
	Debug       bool
	PingTimeout time.Duration
}

func (c PersistenceConfig) GetDebug() bool {
	return c.Debug
}

func (c PersistenceConfig) GetDriver() string {
	return sqliteshim.ShimName
}

func (c PersistenceConfig) GetServer() string {
	return c.DSN
}

func (c PersistenceConfig) GetDSN() string {
	return c.DSN
}

func (c PersistenceConfig) GetPingTimeout() time.Duration {
	if c.PingTimeout <= 0 {
		return 5 * time.Second
	}
	return c.PingTimeout
}

func (c PersistenceConfig) GetOtelIdentifier() string {
	return ""
}

// Manager groups the Bun backed stores over one database.
type Manager struct {
	db       *bun.DB
	profiles *ProfileRepository
	accounts *AccountRepository
}

// NewManager wraps db.
func NewManager(db *bun.DB) *Manager {
	return &Manager{
		db:       db,
		profiles: NewProfileRepository(db),
		accounts: NewAccountRepository(db),
	}
}

// OpenSQLite opens a SQLite database through sqliteshim, builds the
// persistence client with the registered models and creates the schema.
func OpenSQLite(ctx context.Context, cfg PersistenceConfig) (*Manager, error) {
	sqldb, err := sql.Open(cfg.GetDriver(), cfg.GetServer())
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqldb.SetMaxOpenConns(1)

	client, err := persistence.New(cfg, sqldb, sqlitedialect.New())
	if err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("persistence client: %w", err)
	}

	m := NewManager(client.DB())
	if err := m.Migrate(ctx); err != nil {
		_ = m.Close()
		return nil, err
	}
	return m, nil
}

// Migrate creates the registered tables when missing.
func (m *Manager) Migrate(ctx context.Context) error {
	for _, model := range models {
		if _, err := m.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

func (m *Manager) Validate() error {
	if m.profiles == nil {
		return errors.New("repository profiles should be initialized")
	}

	if m.accounts == nil {
		return errors.New("repository accounts should be initialized")
	}

	return nil
}

func (m *Manager) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

// RunInTx runs f in a transaction unless ctx is already done.
func (m *Manager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m *Manager) Profiles() *ProfileRepository {
	return m.profiles
}

func (m *Manager) Accounts() *AccountRepository {
	return m.accounts
}

// Close closes the underlying database.
func (m *Manager) Close() error {
	return m.db.Close()
}
