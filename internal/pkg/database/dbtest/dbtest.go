// Package dbtest gives repository tests a migrated PostgreSQL database.
//
// A single postgres:16 container is started per test binary and every test
// gets its own freshly migrated database on it. Set TEST_DATABASE_URL to run
// against an existing server instead. Tests are skipped under -short or when
// no container runtime is reachable.
package dbtest

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// EnvDatabaseURL points the tests at an existing server
const EnvDatabaseURL = "TEST_DATABASE_URL"

var (
	serverOnce sync.Once
	serverDSN  string
	serverErr  error
)

// New returns a connection to an empty database with all migrations applied.
// The database is dropped when the test finishes.
func New(t *testing.T) *sqlx.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping PostgreSQL test in short mode")
	}

	base := os.Getenv(EnvDatabaseURL)
	if base == "" {
		testcontainers.SkipIfProviderIsNotHealthy(t)
		serverOnce.Do(func() { serverDSN, serverErr = startServer() })
		if serverErr != nil {
			t.Fatalf("start postgres container: %v", serverErr)
		}
		base = serverDSN
	}

	admin, err := sqlx.Connect("postgres", base)
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	defer admin.Close()

	name := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if _, err := admin.Exec(`CREATE DATABASE ` + name); err != nil {
		t.Fatalf("create database: %v", err)
	}

	dsn, err := withDatabase(base, name)
	if err != nil {
		t.Fatalf("build dsn: %v", err)
	}
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Fatalf("connect test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
		if admin, err := sqlx.Connect("postgres", base); err == nil {
			admin.Exec(`DROP DATABASE IF EXISTS ` + name)
			admin.Close()
		}
	})

	if err := migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// The container is reaped by testcontainers once the test binary exits.
func startServer() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pgC, err := postgres.Run(ctx,
		"postgres:16",
		postgres.WithDatabase("researchhub"),
		postgres.WithUsername("researchhub"),
		postgres.WithPassword("researchhub"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return "", err
	}

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgC.Terminate(context.Background())
		return "", err
	}
	return dsn, nil
}

func withDatabase(dsn, name string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", err
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("%s must be a postgres:// URL", EnvDatabaseURL)
	}
	u.Path = "/" + name
	return u.String(), nil
}

func migrate(db *sqlx.DB) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir(), "*.up.sql"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no migrations found in %s", migrationsDir())
	}
	sort.Strings(files)

	for _, f := range files {
		stmt, err := os.ReadFile(f)
		if err != nil {
			return err
		}
		if _, err := db.Exec(string(stmt)); err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(f), err)
		}
	}
	return nil
}

func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations")
}

// CreateUser inserts a user with role and returns its id
func CreateUser(t *testing.T, db *sqlx.DB, role string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.Exec(`INSERT INTO users (id, display_name, role) VALUES ($1, $2, $3)`,
		id, "user-"+id.String()[:8], role)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return id
}

// CreatePost inserts a post by authorID in approvalStatus and returns its id
func CreatePost(t *testing.T, db *sqlx.DB, authorID uuid.UUID, approvalStatus string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.Exec(`INSERT INTO posts (id, author_id, title, kind, approval_status) VALUES ($1, $2, $3, $4, $5)`,
		id, authorID, "Post "+id.String()[:8], "article", approvalStatus)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return id
}
