// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Destination names
const (
	DestinationPostgres  = "postgres"
	DestinationSnowflake = "snowflake"
)

// PostgreSQL database/sql driver names
const (
	DriverPgx = "pgx"
	DriverPQ  = "postgres"
)

// Config represents the application configuration
type Config struct {
	// Input
	CSVPath      string
	CSVDelimiter rune
	NATokens     []string
	MappingFile  string

	// Destination
	Destination      string
	TableName        string
	PostgresDriver   string
	PostgresSSLMode  string
	SecretsFile      string
	ConnectTimeout   time.Duration
	StatementTimeout time.Duration

	// Snowflake session settings; host from the credentials is the account
	SnowflakeWarehouse string
	SnowflakeRole      string
	SnowflakeSchema    string

	// Load settings
	CommitFraction float64
	Parameterized  bool
	Verify         bool

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	delimiter, err := getEnvAsRune("CSV_DELIMITER", ',')
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		CSVPath:      getEnv("CSV_PATH", "data.csv"),
		CSVDelimiter: delimiter,
		NATokens:     getEnvAsStringSlice("NA_TOKENS", nil),
		MappingFile:  getEnv("MAPPING_FILE", ""),

		Destination:      strings.ToLower(getEnv("DESTINATION", DestinationPostgres)),
		TableName:        getEnv("TABLE_NAME", "fraudclass"),
		PostgresDriver:   getEnv("PG_DRIVER", DriverPgx),
		PostgresSSLMode:  getEnv("PG_SSLMODE", "disable"),
		SecretsFile:      getEnv("SECRETS_FILE", ""),
		ConnectTimeout:   time.Duration(getEnvAsInt("CONNECT_TIMEOUT_SECONDS", 3)) * time.Second,
		StatementTimeout: time.Duration(getEnvAsInt("STATEMENT_TIMEOUT_SECONDS", 0)) * time.Second,

		SnowflakeWarehouse: getEnv("SNOWFLAKE_WAREHOUSE", ""),
		SnowflakeRole:      getEnv("SNOWFLAKE_ROLE", ""),
		SnowflakeSchema:    getEnv("SNOWFLAKE_SCHEMA", ""),

		CommitFraction: getEnvAsFloat("COMMIT_FRACTION", 0.005),
		Parameterized:  getEnvAsBool("PARAMETERIZED", false),
		Verify:         getEnvAsBool("VERIFY", false),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if c.CSVPath == "" {
		return errors.New("csv path is required")
	}

	if c.TableName == "" {
		return errors.New("table name is required")
	}

	switch c.Destination {
	case DestinationPostgres, DestinationSnowflake:
	default:
		return fmt.Errorf("unsupported destination %q", c.Destination)
	}

	switch c.PostgresDriver {
	case DriverPgx, DriverPQ:
	default:
		return fmt.Errorf("unsupported postgres driver %q", c.PostgresDriver)
	}

	if c.CommitFraction <= 0 || c.CommitFraction > 1 {
		return errors.New("commit fraction must be in (0, 1]")
	}

	if c.ConnectTimeout <= 0 {
		return errors.New("connect timeout must be positive")
	}

	if c.StatementTimeout < 0 {
		return errors.New("statement timeout cannot be negative")
	}

	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsRune(key string, defaultValue rune) (rune, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue, nil
	}
	if valueStr == `\t` {
		return '\t', nil
	}

	runes := []rune(valueStr)
	if len(runes) != 1 {
		return 0, fmt.Errorf("%s must be a single character, got %q", key, valueStr)
	}
	return runes[0], nil
}

// Helper function to parse a comma-separated list from environment
func getEnvAsStringSlice(key string, defaultValue []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}

	result := make([]string, 0)
	for _, v := range strings.Split(value, ",") {
		result = append(result, strings.TrimSpace(v))
	}
	return result
}
