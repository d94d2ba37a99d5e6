package popstat

import (
	"errors"
	"fmt"
	"time"
)

// PlaceKey is the natural composite key identifying a place before a
// store identifier exists in the caller's context. County may be empty
// (stored as NULL); City and Country are required.
type PlaceKey struct {
	City    string
	County  string
	Country string
}

// String returns the key in "city, county, country" form for logging.
func (k PlaceKey) String() string {
	if k.County == "" {
		return fmt.Sprintf("%s, %s", k.City, k.Country)
	}
	return fmt.Sprintf("%s, %s, %s", k.City, k.County, k.Country)
}

// IsZero returns true if no key fields are set. A person record with a
// zero birthplace key carries no birthplace reference at all.
func (k PlaceKey) IsZero() bool {
	return k.City == "" && k.County == "" && k.Country == ""
}

// Summary maps country name to the count of people whose resolved
// birthplace's country equals that name. Recomputed fresh on every
// aggregation; never persisted.
type Summary map[string]int64

// Total returns the sum of all per-country counts.
func (s Summary) Total() int64 {
	var total int64
	for _, n := range s {
		total += n
	}
	return total
}

// LoadStats reports what a load run did. Unresolved birthplaces and
// skipped rows are expected variance, not errors; they are surfaced here
// so operators can judge the run.
type LoadStats struct {
	PlacesInserted int64
	PeopleInserted int64
	SkippedRecords int64
	UnresolvedRefs int64
}

// LoadConfig contains all parameters needed for a load stage run.
type LoadConfig struct {
	// ConnectionString is the PostgreSQL connection string for the target store.
	ConnectionString string

	// PlacesPath is the places CSV location. Empty skips the place stage;
	// birthplace references are then resolved against the store directly.
	PlacesPath string

	// PeoplePath is the people CSV location. Empty skips the person stage.
	PeoplePath string

	// SkipMalformed switches the malformed-record policy from fail-fast
	// (the default) to skip-with-warning.
	SkipMalformed bool

	// Reset truncates both tables before loading. Destructive; requires
	// interactive approval unless Force is set.
	Reset bool

	// Force bypasses interactive approval when used with Reset.
	Force bool

	// Timeout is the global wall-clock bound for the whole stage.
	Timeout time.Duration

	// Verbose enables detailed logging.
	Verbose bool

	// AuthMethod indicates the authentication mechanism to use.
	AuthMethod AuthMethod

	// Azure Entra ID authentication parameters (AuthMethodAzureEntraID).
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is required for AuthMethodAWSIAM.
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name
	// (project:region:instance) for AuthMethodGoogleIAM.
	GoogleInstance string
}

// Validate checks if the LoadConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *LoadConfig) Validate() error {
	var errs []error

	if c.ConnectionString == "" {
		errs = append(errs, fmt.Errorf("ConnectionString is required: %w", ErrInvalidConfig))
	}

	if c.PlacesPath == "" && c.PeoplePath == "" {
		errs = append(errs, fmt.Errorf("at least one of PlacesPath or PeoplePath is required: %w", ErrInvalidConfig))
	}

	// Force requires Reset to be set
	if c.Force && !c.Reset {
		errs = append(errs, fmt.Errorf("force flag requires reset to be enabled: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ComputeConfig contains all parameters needed for a compute stage run.
type ComputeConfig struct {
	// ConnectionString is the PostgreSQL connection string for the target store.
	ConnectionString string

	// OutputPath is the destination for the summary JSON document.
	OutputPath string

	// Pretty also renders the summary as a table on stderr.
	Pretty bool

	// Timeout is the global wall-clock bound for the whole stage.
	Timeout time.Duration

	// Verbose enables detailed logging.
	Verbose bool

	// AuthMethod indicates the authentication mechanism to use.
	AuthMethod AuthMethod

	// Azure Entra ID authentication parameters (AuthMethodAzureEntraID).
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is required for AuthMethodAWSIAM.
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name for
	// AuthMethodGoogleIAM.
	GoogleInstance string
}

// Validate checks if the ComputeConfig has all required fields and valid values.
func (c *ComputeConfig) Validate() error {
	var errs []error

	if c.ConnectionString == "" {
		errs = append(errs, fmt.Errorf("ConnectionString is required: %w", ErrInvalidConfig))
	}

	if c.OutputPath == "" {
		errs = append(errs, fmt.Errorf("OutputPath is required: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// Azure Entra ID authentication parameters (AuthMethodAzureEntraID).
	// If all three are provided, Service Principal authentication is used.
	// If none are provided, the DefaultAzureCredential chain is used.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is the region of the RDS endpoint (AuthMethodAWSIAM).
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name (AuthMethodGoogleIAM).
	GoogleInstance string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}
