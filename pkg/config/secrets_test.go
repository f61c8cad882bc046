package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var credentialEnvKeys = []string{
	"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASS",
	"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_DB", "POSTGRES_USER", "POSTGRES_PASSWORD",
}

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	for _, key := range credentialEnvKeys {
		t.Setenv(key, "")
	}
}

func TestEnvSecretProvider(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "fraud")
	t.Setenv("DB_USER", "loader")
	t.Setenv("POSTGRES_PASSWORD", "pw")

	creds, err := NewEnvSecretProvider().GetCredentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Credentials{Host: "localhost", Port: "5433", Database: "fraud", User: "loader", Pass: "pw"}, creds)
}

func TestEnvSecretProviderMissing(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("DB_HOST", "localhost")

	_, err := NewEnvSecretProvider().GetCredentials(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Contains(t, err.Error(), "port")
}

func TestEnvSecretProviderEmptyPassword(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_NAME", "fraud")
	t.Setenv("DB_USER", "loader")

	creds, err := NewEnvSecretProvider().GetCredentials(context.Background())
	require.NoError(t, err)
	assert.Empty(t, creds.Pass)
}

func TestCredentialsValidate(t *testing.T) {
	full := Credentials{Host: "db", Port: "5432", Database: "fraud", User: "loader", Pass: "pw"}
	assert.NoError(t, full.Validate())

	trust := full
	trust.Pass = ""
	assert.NoError(t, trust.Validate())

	noUser := full
	noUser.User = " "
	err := noUser.Validate()
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Contains(t, err.Error(), "user")
}

func TestFileSecretProviderDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.env")
	content := "DB_HOST=db\nDB_PORT=5432\nDB_NAME=fraud\nDB_USER=loader\nDB_PASS=\"p w\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	creds, err := NewFileSecretProvider(path).GetCredentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "p w", creds.Pass)
	assert.Equal(t, "db", creds.Host)
}

func TestFileSecretProviderYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.yaml")
	content := "host: db\nport: 5432\ndatabase: fraud\nuser: loader\npass: pw\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	creds, err := NewFileSecretProvider(path).GetCredentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Credentials{Host: "db", Port: "5432", Database: "fraud", User: "loader", Pass: "pw"}, creds)
}

func TestFileSecretProviderYAMLMissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.yml")
	require.NoError(t, os.WriteFile(path, []byte("host: db\nport: 5432\n"), 0o600))

	_, err := NewFileSecretProvider(path).GetCredentials(context.Background())
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestFileSecretProviderMissingFile(t *testing.T) {
	_, err := NewFileSecretProvider(filepath.Join(t.TempDir(), "nope.env")).GetCredentials(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewSecretProvider(t *testing.T) {
	assert.IsType(t, &EnvSecretProvider{}, NewSecretProvider(""))
	assert.IsType(t, &FileSecretProvider{}, NewSecretProvider("x.env"))
}
