// pkg/config/database.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/snowflakedb/gosnowflake"
)

// SnowflakeConfig holds Snowflake connection parameters
type SnowflakeConfig struct {
	User          string
	Password      string
	Account       string
	Warehouse     string
	Database      string
	Schema        string
	Role          string
	Authenticator gosnowflake.AuthType

	LoginTimeout time.Duration
	// Query timeout
	QueryTimeout time.Duration
}

// PostgresConfig holds PostgreSQL connection parameters
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	Driver   string

	ConnectTimeout time.Duration
	// Statement timeout
	StatementTimeout time.Duration
}

// NewPostgresConfig combines retrieved credentials with the load settings
func NewPostgresConfig(creds Credentials, cfg *Config) (*PostgresConfig, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	port, err := creds.PortNumber()
	if err != nil {
		return nil, err
	}

	return &PostgresConfig{
		Host:             creds.Host,
		Port:             port,
		User:             creds.User,
		Password:         creds.Pass,
		Database:         creds.Database,
		SSLMode:          cfg.PostgresSSLMode,
		Driver:           cfg.PostgresDriver,
		ConnectTimeout:   cfg.ConnectTimeout,
		StatementTimeout: cfg.StatementTimeout,
	}, nil
}

// NewSnowflakeConfig combines retrieved credentials with the load settings.
// The credential host is used as the Snowflake account identifier.
func NewSnowflakeConfig(creds Credentials, cfg *Config) (*SnowflakeConfig, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	return &SnowflakeConfig{
		User:          creds.User,
		Password:      creds.Pass,
		Account:       creds.Host,
		Warehouse:     cfg.SnowflakeWarehouse,
		Database:      creds.Database,
		Schema:        cfg.SnowflakeSchema,
		Role:          cfg.SnowflakeRole,
		Authenticator: gosnowflake.AuthTypeSnowflake,
		LoginTimeout:  cfg.ConnectTimeout,
		QueryTimeout:  cfg.StatementTimeout,
	}, nil
}

// DriverConfig returns the gosnowflake configuration for this connection
func (c *SnowflakeConfig) DriverConfig() *gosnowflake.Config {
	return &gosnowflake.Config{
		Account:       c.Account,
		User:          c.User,
		Password:      c.Password,
		Database:      c.Database,
		Schema:        c.Schema,
		Warehouse:     c.Warehouse,
		Role:          c.Role,
		Authenticator: c.Authenticator,
		LoginTimeout:  c.LoginTimeout,
	}
}

// ConnectionString returns a formatted Snowflake DSN
func (c *SnowflakeConfig) ConnectionString() (string, error) {
	return gosnowflake.DSN(c.DriverConfig())
}

// ConnectionString returns a formatted PostgreSQL connection string
func (c *PostgresConfig) ConnectionString() string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		quoteDSNValue(c.Host),
		c.Port,
		quoteDSNValue(c.User),
		quoteDSNValue(c.Password),
		quoteDSNValue(c.Database),
		quoteDSNValue(c.SSLMode),
	)

	if seconds := int(c.ConnectTimeout.Seconds()); seconds > 0 {
		dsn += fmt.Sprintf(" connect_timeout=%d", seconds)
	}

	return dsn
}

// Redacted returns the connection string with the password masked
func (c *PostgresConfig) Redacted() string {
	masked := *c
	masked.Password = "xxxxx"
	return masked.ConnectionString()
}

// quoteDSNValue quotes a keyword/value connection string value when needed
func quoteDSNValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
