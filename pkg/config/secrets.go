package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingCredential is returned when a credential key has no value
var ErrMissingCredential = errors.New("missing credential")

// Credentials are the secrets needed to open a destination session
type Credentials struct {
	Host     string
	Port     string
	Database string
	User     string
	Pass     string
}

// Validate checks that every key but pass has a value. An empty password
// is allowed for trust authentication.
func (c Credentials) Validate() error {
	fields := []struct {
		key   string
		value string
	}{
		{"host", c.Host},
		{"port", c.Port},
		{"database", c.Database},
		{"user", c.User},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingCredential, f.key)
		}
	}
	return nil
}

// PortNumber parses the port
func (c Credentials) PortNumber() (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("invalid port %q", c.Port)
	}
	return port, nil
}

// SecretProvider retrieves destination credentials
type SecretProvider interface {
	GetCredentials(ctx context.Context) (Credentials, error)
}

// credentialKeys lists, per credential, the variable names tried in order
var credentialKeys = struct {
	host, port, database, user, pass []string
}{
	host:     []string{"DB_HOST", "POSTGRES_HOST"},
	port:     []string{"DB_PORT", "POSTGRES_PORT"},
	database: []string{"DB_NAME", "POSTGRES_DB"},
	user:     []string{"DB_USER", "POSTGRES_USER"},
	pass:     []string{"DB_PASS", "POSTGRES_PASSWORD"},
}

func credentialsFromLookup(lookup func(string) string) Credentials {
	first := func(keys []string) string {
		for _, k := range keys {
			if v := lookup(k); v != "" {
				return v
			}
		}
		return ""
	}
	return Credentials{
		Host:     first(credentialKeys.host),
		Port:     first(credentialKeys.port),
		Database: first(credentialKeys.database),
		User:     first(credentialKeys.user),
		Pass:     first(credentialKeys.pass),
	}
}

// EnvSecretProvider reads credentials from environment variables
type EnvSecretProvider struct{}

// NewEnvSecretProvider creates an EnvSecretProvider
func NewEnvSecretProvider() *EnvSecretProvider {
	return &EnvSecretProvider{}
}

// GetCredentials implements SecretProvider
func (p *EnvSecretProvider) GetCredentials(ctx context.Context) (Credentials, error) {
	if err := ctx.Err(); err != nil {
		return Credentials{}, err
	}

	creds := credentialsFromLookup(os.Getenv)
	if err := creds.Validate(); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// FileSecretProvider reads credentials from a .env or YAML file
type FileSecretProvider struct {
	path string
}

// NewFileSecretProvider creates a FileSecretProvider for path
func NewFileSecretProvider(path string) *FileSecretProvider {
	return &FileSecretProvider{path: path}
}

// GetCredentials implements SecretProvider
func (p *FileSecretProvider) GetCredentials(ctx context.Context) (Credentials, error) {
	if err := ctx.Err(); err != nil {
		return Credentials{}, err
	}

	var (
		creds Credentials
		err   error
	)
	switch strings.ToLower(filepath.Ext(p.path)) {
	case ".yaml", ".yml":
		creds, err = p.readYAML()
	default:
		creds, err = p.readDotenv()
	}
	if err != nil {
		return Credentials{}, err
	}

	if err := creds.Validate(); err != nil {
		return Credentials{}, fmt.Errorf("%s: %w", p.path, err)
	}
	return creds, nil
}

func (p *FileSecretProvider) readDotenv() (Credentials, error) {
	values, err := godotenv.Read(p.path)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to read secrets file %s: %w", p.path, err)
	}
	return credentialsFromLookup(func(key string) string { return values[key] }), nil
}

func (p *FileSecretProvider) readYAML() (Credentials, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to read secrets file %s: %w", p.path, err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Credentials{}, fmt.Errorf("failed to parse secrets file %s: %w", p.path, err)
	}

	get := func(key string) string {
		v, ok := raw[key]
		if !ok || v == nil {
			return ""
		}
		return fmt.Sprint(v)
	}
	return Credentials{
		Host:     get("host"),
		Port:     get("port"),
		Database: get("database"),
		User:     get("user"),
		Pass:     get("pass"),
	}, nil
}

// NewSecretProvider returns a file provider when path is set, otherwise the
// environment provider
func NewSecretProvider(path string) SecretProvider {
	if path != "" {
		return NewFileSecretProvider(path)
	}
	return NewEnvSecretProvider()
}
