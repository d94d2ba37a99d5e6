package db

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/vvka-141/popstat/pkg/popstat"
)

// ParseConnectionString parses a PostgreSQL URI connection string and
// returns a ConnectionConfig.
//
// Format: postgresql://[user[:password]@][host][:port][/dbname][?param=value&...]
func ParseConnectionString(connStr string) (*popstat.ConnectionConfig, error) {
	if connStr == "" {
		return nil, fmt.Errorf("connection string is empty")
	}

	if !strings.HasPrefix(connStr, "postgresql://") && !strings.HasPrefix(connStr, "postgres://") {
		return nil, fmt.Errorf("unrecognized connection string format (expected postgresql:// URI)")
	}

	u, err := url.Parse(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PostgreSQL URI: %w", err)
	}

	config := &popstat.ConnectionConfig{
		Host:             "localhost",
		Port:             5432,
		Database:         "postgres",
		SSLMode:          "prefer",
		AuthMethod:       popstat.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	if u.Hostname() != "" {
		config.Host = u.Hostname()
	}
	if u.Port() != "" {
		port, err := strconv.Atoi(u.Port())
		if err != nil {
			return nil, fmt.Errorf("invalid port %q: %w", u.Port(), err)
		}
		config.Port = port
	}

	if u.User != nil {
		config.Username = u.User.Username()
		if password, ok := u.User.Password(); ok {
			config.Password = password
		}
	}

	if dbName := strings.TrimPrefix(u.Path, "/"); dbName != "" {
		config.Database = dbName
	}

	for key, values := range u.Query() {
		if len(values) == 0 {
			continue
		}
		value := values[0]
		switch key {
		case "sslmode":
			config.SSLMode = value
		case "application_name":
			config.AppName = value
		default:
			config.AdditionalParams[key] = value
		}
	}

	return config, nil
}

// BuildConnectionString renders a ConnectionConfig back into a
// PostgreSQL URI suitable for pgxpool.ParseConfig.
func BuildConnectionString(config *popstat.ConnectionConfig) string {
	u := &url.URL{
		Scheme: "postgresql",
		Host:   fmt.Sprintf("%s:%d", config.Host, config.Port),
		Path:   "/" + config.Database,
	}

	if config.Username != "" {
		if config.Password != "" {
			u.User = url.UserPassword(config.Username, config.Password)
		} else {
			u.User = url.User(config.Username)
		}
	}

	query := url.Values{}
	if config.SSLMode != "" {
		query.Set("sslmode", config.SSLMode)
	}
	if config.AppName != "" {
		query.Set("application_name", config.AppName)
	}
	if config.ConnectTimeout > 0 {
		query.Set("connect_timeout", strconv.Itoa(int(config.ConnectTimeout.Seconds())))
	}

	for key, value := range config.AdditionalParams {
		query.Set(key, value)
	}

	u.RawQuery = query.Encode()
	return u.String()
}
