package helper

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// DatabaseConfiguration holds the connection parameters for PostgreSQL
type DatabaseConfiguration struct {
	Host     string
	Port     string
	Database string
	Username string
	Password string
	Schema   string
	SSLMode  string
}

// NewDatabaseConfiguration creates a configuration from environment variables.
// It returns an error if any required variable is missing.
func NewDatabaseConfiguration() (*DatabaseConfiguration, error) {
	config := &DatabaseConfiguration{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		Database: os.Getenv("DB_DATABASE"),
		Username: os.Getenv("DB_USERNAME"),
		Password: os.Getenv("DB_PASSWORD"),
		Schema:   os.Getenv("DB_SCHEMA"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}

	if config.Host == "" || config.Port == "" || config.Database == "" || config.Username == "" {
		return nil, NewError("database configuration", fmt.Errorf("missing required environment variables (DB_HOST, DB_PORT, DB_DATABASE, DB_USERNAME)"))
	}

	if config.Schema == "" {
		config.Schema = "public"
	}
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}

	return config, nil
}

// ConnectionString returns the lib/pq connection string for the configuration
func (c *DatabaseConfiguration) ConnectionString() string {
	return fmt.Sprintf(
		"host=%v port=%v dbname=%v user=%v password=%v search_path=%v sslmode=%v",
		c.Host, c.Port, c.Database, c.Username, c.Password, c.Schema, c.SSLMode,
	)
}

// Database wraps a sql.DB instance with a name and logger
type Database struct {
	Name     string
	Instance *sql.DB
	Logger   *slog.Logger
}

// NewDatabase opens a connection to PostgreSQL and verifies it with a ping.
// It panics if the connection cannot be established, as nothing can run without it.
func NewDatabase(name string, config *DatabaseConfiguration, logger *slog.Logger) *Database {
	db, err := sql.Open("postgres", config.ConnectionString())
	if err != nil {
		log.Panicf("error opening database connection: %#v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Panicf("error pinging database: %#v", err)
	}

	logger.Info("Connected to database", slog.String("name", name), slog.String("host", config.Host))

	return &Database{
		Name:     name,
		Instance: db,
		Logger:   logger,
	}
}

// NewTestDatabase opens a database connection with a quiet logger for tests
func NewTestDatabase(config *DatabaseConfiguration) *Database {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewDatabase("test", config, logger)
}

// MustStartPostgresContainer starts a pgvector-enabled PostgreSQL container for
// tests and examples. It returns a teardown function and the mapped port.
func MustStartPostgresContainer() (func(ctx context.Context, opts ...testcontainers.TerminateOption) error, string, error) {
	var (
		dbName     = "database"
		dbPassword = "password"
		dbUsername = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"pgvector/pgvector:pg17",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUsername),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", err
	}

	mappedPort, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, "", err
	}

	return dbContainer.Terminate, mappedPort.Port(), nil
}

// SetTestDatabaseConfigEnvs sets the database environment variables matching
// the container started by MustStartPostgresContainer.
func SetTestDatabaseConfigEnvs(t *testing.T, port string) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", port)
	t.Setenv("DB_DATABASE", "database")
	t.Setenv("DB_USERNAME", "user")
	t.Setenv("DB_PASSWORD", "password")
	t.Setenv("DB_SCHEMA", "public")
	t.Setenv("DB_SSLMODE", "disable")
}
