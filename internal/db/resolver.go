package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vvka-141/popstat/internal/config"
	"github.com/vvka-141/popstat/pkg/popstat"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-h, -p, -U, -d).
//
// Note: Password is NOT included as a CLI flag for security reasons.
// Use one of these methods instead:
//  1. $PGPASSWORD environment variable
//  2. .pgpass file (PostgreSQL standard)
//  3. Connection string with embedded password
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty returns true if no connection-related granular flags were
// provided. The database flag is excluded because it can override the
// database named in a connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// CloudAuthFlags represents cloud IAM authentication CLI flags. At most
// one provider may be selected; all are empty for standard auth.
type CloudAuthFlags struct {
	Azure          bool   // Azure Entra ID (DefaultAzureCredential or Service Principal)
	AzureTenantID  string // Overrides AZURE_TENANT_ID
	AzureClientID  string // Overrides AZURE_CLIENT_ID
	AWSRegion      string // AWS RDS IAM auth; overrides AWS_REGION
	GoogleInstance string // Cloud SQL instance (project:region:instance)
}

// IsEmpty returns true if no cloud auth flags were provided.
func (c *CloudAuthFlags) IsEmpty() bool {
	return c == nil || (!c.Azure && c.AzureTenantID == "" && c.AzureClientID == "" &&
		c.AWSRegion == "" && c.GoogleInstance == "")
}

// EnvVars represents PostgreSQL standard environment variables plus the
// cloud provider variables the connectors understand.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	PGHOST       string
	PGPORT       string
	PGUSER       string
	PGPASSWORD   string
	PGDATABASE   string
	PGSSLMODE    string
	DATABASE_URL string // Full connection string (Heroku/Rails convention)

	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string
	AWS_REGION          string
}

// LoadFromEnvironment loads PostgreSQL and cloud provider environment
// variables, following standard client behavior.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:              os.Getenv("PGHOST"),
		PGPORT:              os.Getenv("PGPORT"),
		PGUSER:              os.Getenv("PGUSER"),
		PGPASSWORD:          os.Getenv("PGPASSWORD"),
		PGDATABASE:          os.Getenv("PGDATABASE"),
		PGSSLMODE:           os.Getenv("PGSSLMODE"),
		DATABASE_URL:        os.Getenv("DATABASE_URL"),
		AZURE_TENANT_ID:     os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:     os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET: os.Getenv("AZURE_CLIENT_SECRET"),
		AWS_REGION:          os.Getenv("AWS_REGION"),
	}
}

// ResolveConnectionParams resolves connection parameters using
// PostgreSQL-standard precedence:
//
//  1. Connection string flag (--connection) - parsed and used directly
//  2. Granular flags (-h, -p, -U, -d) - build config from flags
//  3. Environment variables (PGHOST, PGPORT, ...) - fallback
//  4. DATABASE_URL environment variable - fallback if no granular params
//  5. popstat.yaml project config
//  6. Defaults (localhost:5432, prefer SSL)
//
// Returns an error if BOTH --connection and granular flags are provided,
// to keep user intent unambiguous.
func ResolveConnectionParams(
	connStringFlag string,
	granularFlags *GranularConnFlags,
	cloudFlags *CloudAuthFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*popstat.ConnectionConfig, error) {
	if granularFlags == nil {
		granularFlags = &GranularConnFlags{}
	}
	if cloudFlags == nil {
		cloudFlags = &CloudAuthFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}

	// Check for conflicts: connection string XOR granular flags
	if connStringFlag != "" && !granularFlags.IsEmpty() {
		return nil, fmt.Errorf(
			"cannot specify both --connection and granular flags (-h, -p, -U)\n" +
				"Choose one approach:\n" +
				"  1. Connection string: --connection \"postgresql://user@localhost:5432/census\"\n" +
				"  2. Granular flags: -h localhost -p 5432 -U myuser -d census\n" +
				"  3. Environment variables: export PGHOST=localhost PGPORT=5432 PGUSER=myuser",
		)
	}

	var cfg *popstat.ConnectionConfig
	var err error

	switch {
	case connStringFlag != "":
		cfg, err = resolveFromConnectionString(connStringFlag, granularFlags, envVars)
	case granularFlags.IsEmpty() && envVars.DATABASE_URL != "":
		cfg, err = resolveFromConnectionString(envVars.DATABASE_URL, granularFlags, envVars)
	default:
		cfg, err = resolveFromGranularParams(granularFlags, envVars, projectConfig)
	}
	if err != nil {
		return nil, err
	}

	applyCloudAuth(cfg, cloudFlags, envVars, projectConfig)

	return cfg, nil
}

// resolveFromConnectionString parses a connection string, applying
// environment fallbacks for parameters it does not specify.
func resolveFromConnectionString(connStr string, flags *GranularConnFlags, envVars *EnvVars) (*popstat.ConnectionConfig, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}

	// -d can override the database named in the connection string
	if flags.Database != "" {
		cfg.Database = flags.Database
	}

	if cfg.SSLMode == "" && envVars.PGSSLMODE != "" {
		cfg.SSLMode = envVars.PGSSLMODE
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "prefer"
	}

	return cfg, nil
}

// resolveFromGranularParams builds a ConnectionConfig from granular
// flags, environment variables and the project config.
//
// Precedence per parameter: flag > environment variable > popstat.yaml > default.
func resolveFromGranularParams(
	flags *GranularConnFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*popstat.ConnectionConfig, error) {
	cfg := &popstat.ConnectionConfig{
		AuthMethod:       popstat.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	cfg.Host = firstNonEmpty(flags.Host, envVars.PGHOST, pc.Host, "localhost")

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case envVars.PGPORT != "":
		port, err := strconv.Atoi(envVars.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value %q: must be an integer", envVars.PGPORT)
		}
		cfg.Port = port
	case pc.Port != 0:
		cfg.Port = pc.Port
	default:
		cfg.Port = 5432
	}

	cfg.Username = firstNonEmpty(flags.Username, envVars.PGUSER, pc.Username,
		os.Getenv("USER"), os.Getenv("USERNAME"))
	cfg.Password = envVars.PGPASSWORD
	cfg.Database = firstNonEmpty(flags.Database, envVars.PGDATABASE, pc.Database)
	cfg.SSLMode = firstNonEmpty(flags.SSLMode, envVars.PGSSLMODE, pc.SSLMode, "prefer")

	if cfg.Database == "" {
		return nil, fmt.Errorf("no target database specified (use -d, $PGDATABASE or popstat.yaml): %w",
			popstat.ErrInvalidConfig)
	}

	return cfg, nil
}

// applyCloudAuth switches the config to a cloud IAM auth method if the
// flags, environment or project config ask for one. CLI flags take
// precedence over environment variables, which take precedence over the
// project file.
func applyCloudAuth(cfg *popstat.ConnectionConfig, flags *CloudAuthFlags, env *EnvVars, projectConfig *config.ProjectConfig) {
	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	googleInstance := firstNonEmpty(flags.GoogleInstance, pc.GoogleInstance)
	if googleInstance != "" || pc.AuthMethod == "google-iam" {
		cfg.AuthMethod = popstat.AuthMethodGoogleIAM
		cfg.GoogleInstance = googleInstance
		return
	}

	awsRegion := firstNonEmpty(flags.AWSRegion, env.AWS_REGION, pc.AWSRegion)
	if flags.AWSRegion != "" || pc.AuthMethod == "aws-iam" {
		cfg.AuthMethod = popstat.AuthMethodAWSIAM
		cfg.AWSRegion = awsRegion
		return
	}

	tenantID := firstNonEmpty(flags.AzureTenantID, env.AZURE_TENANT_ID, pc.AzureTenantID)
	clientID := firstNonEmpty(flags.AzureClientID, env.AZURE_CLIENT_ID, pc.AzureClientID)
	if flags.Azure || tenantID != "" || clientID != "" || pc.AuthMethod == "azure" {
		cfg.AuthMethod = popstat.AuthMethodAzureEntraID
		cfg.AzureTenantID = tenantID
		cfg.AzureClientID = clientID
		cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
