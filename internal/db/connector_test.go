package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/popstat/internal/logging"
	"github.com/vvka-141/popstat/pkg/popstat"
)

func TestNewConnector_StandardAuth(t *testing.T) {
	config := &popstat.ConnectionConfig{
		Host:       "localhost",
		Port:       5432,
		Database:   "census",
		AuthMethod: popstat.AuthMethodStandard,
	}

	connector, err := NewConnector(config, logging.NewNullLogger())
	require.NoError(t, err)
	assert.IsType(t, &StandardConnector{}, connector)
}

func TestNewConnector_AWSIAMRequiresUsername(t *testing.T) {
	config := &popstat.ConnectionConfig{
		Host:       "mydb.cluster.eu-west-1.rds.amazonaws.com",
		Port:       5432,
		AuthMethod: popstat.AuthMethodAWSIAM,
		AWSRegion:  "eu-west-1",
	}

	_, err := NewConnector(config, logging.NewNullLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username")
}

func TestNewConnector_AWSIAMRequiresRegion(t *testing.T) {
	config := &popstat.ConnectionConfig{
		Host:       "mydb.cluster.eu-west-1.rds.amazonaws.com",
		Port:       5432,
		Username:   "iam_user",
		AuthMethod: popstat.AuthMethodAWSIAM,
	}

	_, err := NewConnector(config, logging.NewNullLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "region")
}

func TestNewConnector_AWSIAM(t *testing.T) {
	config := &popstat.ConnectionConfig{
		Host:       "mydb.cluster.eu-west-1.rds.amazonaws.com",
		Port:       5432,
		Username:   "iam_user",
		Database:   "census",
		AuthMethod: popstat.AuthMethodAWSIAM,
		AWSRegion:  "eu-west-1",
	}

	connector, err := NewConnector(config, logging.NewNullLogger())
	require.NoError(t, err)
	assert.IsType(t, &TokenBasedConnector{}, connector)
}

func TestNewConnector_GoogleIAMRequiresInstance(t *testing.T) {
	config := &popstat.ConnectionConfig{
		Host:       "localhost",
		Port:       5432,
		Username:   "svc@project.iam",
		AuthMethod: popstat.AuthMethodGoogleIAM,
	}

	_, err := NewConnector(config, logging.NewNullLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "google-instance")
}

func TestNewConnector_GoogleIAMRequiresUsername(t *testing.T) {
	config := &popstat.ConnectionConfig{
		AuthMethod:     popstat.AuthMethodGoogleIAM,
		GoogleInstance: "project:region:instance",
	}

	_, err := NewConnector(config, logging.NewNullLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username")
}

func TestNewConnector_GoogleIAM(t *testing.T) {
	config := &popstat.ConnectionConfig{
		Username:       "svc@project.iam",
		Database:       "census",
		AuthMethod:     popstat.AuthMethodGoogleIAM,
		GoogleInstance: "project:region:instance",
	}

	connector, err := NewConnector(config, logging.NewNullLogger())
	require.NoError(t, err)
	assert.IsType(t, &GoogleCloudSQLConnector{}, connector)
}

func TestNewConnector_UnsupportedMethod(t *testing.T) {
	config := &popstat.ConnectionConfig{AuthMethod: popstat.AuthMethod(42)}

	_, err := NewConnector(config, logging.NewNullLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, popstat.ErrUnsupportedAuthMethod)
}

func TestWrapConnectionError_Guidance(t *testing.T) {
	tests := []struct {
		name     string
		cause    string
		contains string
	}{
		{"refused", "dial tcp 127.0.0.1:5432: connection refused", "pg_isready"},
		{"no such host", "lookup dbhost: no such host", "cannot resolve host"},
		{"bad password", "FATAL: password authentication failed for user", "PGPASSWORD"},
		{"missing database", `FATAL: database "census" does not exist`, "provisioned externally"},
		{"timeout", "dial tcp 10.0.0.1:5432: i/o timeout", "timed out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cause := errors.New(tt.cause)
			err := wrapConnectionError(cause, "dbhost", 5432, "census")

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
			assert.True(t, errors.Is(err, cause), "original error must stay unwrappable")
		})
	}
}

func TestWrapConnectionError_UnknownFallsThrough(t *testing.T) {
	cause := fmt.Errorf("some obscure failure")
	err := wrapConnectionError(cause, "dbhost", 5432, "census")

	assert.Contains(t, err.Error(), "failed to connect to database")
	assert.True(t, errors.Is(err, cause))
}
