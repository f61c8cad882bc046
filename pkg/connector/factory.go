// pkg/connector/factory.go
package connector

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/David-Botos/csv-ingress/pkg/config"
)

// ConnectorFactory creates database connectors
type ConnectorFactory struct {
	cfg     *config.Config
	secrets config.SecretProvider
	logger  *zap.Logger
}

// NewConnectorFactory creates a new connector factory
func NewConnectorFactory(cfg *config.Config, secrets config.SecretProvider, logger *zap.Logger) *ConnectorFactory {
	return &ConnectorFactory{
		cfg:     cfg,
		secrets: secrets,
		logger:  logger,
	}
}

// Connect retrieves credentials and opens the configured destination
func (f *ConnectorFactory) Connect(ctx context.Context) (DatabaseConnector, error) {
	creds, err := f.secrets.GetCredentials(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve credentials: %w", err)
	}

	switch f.cfg.Destination {
	case config.DestinationSnowflake:
		return f.CreateSnowflakeConnector(ctx, creds)
	default:
		return f.CreatePostgresConnector(ctx, creds)
	}
}

// CreateSnowflakeConnector creates a new Snowflake connector
func (f *ConnectorFactory) CreateSnowflakeConnector(ctx context.Context, creds config.Credentials) (*SnowflakeConnector, error) {
	f.logger.Info("Creating Snowflake connector")

	sfConfig, err := config.NewSnowflakeConfig(creds, f.cfg)
	if err != nil {
		return nil, err
	}

	connector, err := NewSnowflakeConnector(ctx, sfConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Snowflake connector: %w", err)
	}

	return connector, nil
}

// CreatePostgresConnector creates a new PostgreSQL connector
func (f *ConnectorFactory) CreatePostgresConnector(ctx context.Context, creds config.Credentials) (*PostgresConnector, error) {
	f.logger.Info("Creating PostgreSQL connector")

	pgConfig, err := config.NewPostgresConfig(creds, f.cfg)
	if err != nil {
		return nil, err
	}

	connector, err := NewPostgresConnector(ctx, pgConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL connector: %w", err)
	}

	return connector, nil
}
