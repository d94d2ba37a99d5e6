package popstat_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vvka-141/popstat/pkg/popstat"
)

func validLoadConfig() popstat.LoadConfig {
	return popstat.LoadConfig{
		ConnectionString: "postgresql://user@localhost:5432/census",
		PlacesPath:       "/data/places.csv",
		PeoplePath:       "/data/people.csv",
		Timeout:          popstat.DefaultStageTimeout,
	}
}

func TestLoadConfig_Validate_Valid(t *testing.T) {
	cfg := validLoadConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestLoadConfig_Validate_MissingConnectionString(t *testing.T) {
	cfg := validLoadConfig()
	cfg.ConnectionString = ""

	err := cfg.Validate()
	if !errors.Is(err, popstat.ErrInvalidConfig) {
		t.Fatalf("Expected ErrInvalidConfig, got: %v", err)
	}
}

func TestLoadConfig_Validate_NoSources(t *testing.T) {
	cfg := validLoadConfig()
	cfg.PlacesPath = ""
	cfg.PeoplePath = ""

	err := cfg.Validate()
	if !errors.Is(err, popstat.ErrInvalidConfig) {
		t.Fatalf("Expected ErrInvalidConfig, got: %v", err)
	}
	if !strings.Contains(err.Error(), "at least one") {
		t.Errorf("Expected error about missing sources, got: %v", err)
	}
}

func TestLoadConfig_Validate_SingleSourceIsEnough(t *testing.T) {
	cfg := validLoadConfig()
	cfg.PlacesPath = ""

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestLoadConfig_Validate_ForceRequiresReset(t *testing.T) {
	cfg := validLoadConfig()
	cfg.Force = true

	err := cfg.Validate()
	if !errors.Is(err, popstat.ErrInvalidConfig) {
		t.Fatalf("Expected ErrInvalidConfig, got: %v", err)
	}

	cfg.Reset = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Unexpected error with reset enabled: %v", err)
	}
}

func TestLoadConfig_Validate_NegativeTimeout(t *testing.T) {
	cfg := validLoadConfig()
	cfg.Timeout = -1 * time.Second

	if err := cfg.Validate(); !errors.Is(err, popstat.ErrInvalidConfig) {
		t.Fatalf("Expected ErrInvalidConfig, got: %v", err)
	}
}

func TestLoadConfig_Validate_CollectsAllFailures(t *testing.T) {
	cfg := popstat.LoadConfig{Force: true, Timeout: -1}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected error")
	}
	for _, want := range []string{"ConnectionString", "at least one", "force", "timeout"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected joined error to mention %q, got: %v", want, err)
		}
	}
}

func TestComputeConfig_Validate(t *testing.T) {
	cfg := popstat.ComputeConfig{
		ConnectionString: "postgresql://user@localhost:5432/census",
		OutputPath:       "summary.json",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	cfg.OutputPath = ""
	if err := cfg.Validate(); !errors.Is(err, popstat.ErrInvalidConfig) {
		t.Fatalf("Expected ErrInvalidConfig for missing output, got: %v", err)
	}

	cfg = popstat.ComputeConfig{OutputPath: "summary.json"}
	if err := cfg.Validate(); !errors.Is(err, popstat.ErrInvalidConfig) {
		t.Fatalf("Expected ErrInvalidConfig for missing connection, got: %v", err)
	}
}

func TestPlaceKey_String(t *testing.T) {
	withCounty := popstat.PlaceKey{City: "Springfield", County: "Greene", Country: "United States"}
	if got := withCounty.String(); got != "Springfield, Greene, United States" {
		t.Errorf("Unexpected String(): %q", got)
	}

	withoutCounty := popstat.PlaceKey{City: "Reykjavik", Country: "Iceland"}
	if got := withoutCounty.String(); got != "Reykjavik, Iceland" {
		t.Errorf("Unexpected String(): %q", got)
	}
}

func TestPlaceKey_IsZero(t *testing.T) {
	if !(popstat.PlaceKey{}).IsZero() {
		t.Error("Expected zero key to report IsZero")
	}
	if (popstat.PlaceKey{County: "Greene"}).IsZero() {
		t.Error("Expected partially set key to not be zero")
	}
}

func TestSummary_Total(t *testing.T) {
	summary := popstat.Summary{"Iceland": 1, "Japan": 3}
	if got := summary.Total(); got != 4 {
		t.Errorf("Expected total 4, got %d", got)
	}

	var empty popstat.Summary
	if got := empty.Total(); got != 0 {
		t.Errorf("Expected total 0 for nil summary, got %d", got)
	}
}

func TestAuthMethod_String(t *testing.T) {
	tests := []struct {
		method popstat.AuthMethod
		want   string
	}{
		{popstat.AuthMethodStandard, "Standard"},
		{popstat.AuthMethodAWSIAM, "AWS IAM"},
		{popstat.AuthMethodGoogleIAM, "Google IAM"},
		{popstat.AuthMethodAzureEntraID, "Azure Entra ID"},
		{popstat.AuthMethod(99), "Unknown(99)"},
	}

	for _, tt := range tests {
		if got := tt.method.String(); got != tt.want {
			t.Errorf("AuthMethod(%d).String() = %q, want %q", tt.method, got, tt.want)
		}
	}
}

func TestAuthMethod_IsValid(t *testing.T) {
	if !popstat.AuthMethodAzureEntraID.IsValid() {
		t.Error("Expected AzureEntraID to be valid")
	}
	if popstat.AuthMethod(99).IsValid() {
		t.Error("Expected out-of-range method to be invalid")
	}
	if popstat.AuthMethod(-1).IsValid() {
		t.Error("Expected negative method to be invalid")
	}
}
