package config

import (
	"fmt"
	"os"
	"regexp"
)

// identPattern limits schema/table names, the only identifiers ever spliced
// into SQL text, to plain unquoted DB2 identifiers.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config holds application configuration
type Config struct {
	Port       string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSchema   string
	DBTable    string
	LogLevel   string
	Env        string
	HealthCron string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:       getEnv("PORT", "8080"),
		DBHost:     getEnv("DB2_HOST", "localhost"),
		DBPort:     getEnv("DB2_PORT", "50000"),
		DBName:     getEnv("DB2_DATABASE", "BLUDB"),
		DBUser:     getEnv("DB2_USER", "db2inst1"),
		DBPassword: getEnv("DB2_PASSWORD", ""),
		DBSchema:   getEnv("DB2_SCHEMA", "CREDIT"),
		DBTable:    getEnv("DB2_TABLE", "CREDIT_APPLICATIONS"),
		LogLevel:   getEnv("LOG_LEVEL", "INFO"),
		Env:        getEnv("ENV", "production"),
		HealthCron: getEnv("HEALTH_CRON", ""),
	}

	if cfg.DBPassword == "" {
		return nil, fmt.Errorf("DB2_PASSWORD is required")
	}
	if !identPattern.MatchString(cfg.DBSchema) {
		return nil, fmt.Errorf("DB2_SCHEMA %q is not a valid identifier", cfg.DBSchema)
	}
	if !identPattern.MatchString(cfg.DBTable) {
		return nil, fmt.Errorf("DB2_TABLE %q is not a valid identifier", cfg.DBTable)
	}

	return cfg, nil
}

// DSN builds the go_ibm_db connection string. Never log or echo this value:
// it carries credentials.
func (c *Config) DSN() string {
	return fmt.Sprintf("HOSTNAME=%s;DATABASE=%s;PORT=%s;UID=%s;PWD=%s",
		c.DBHost, c.DBName, c.DBPort, c.DBUser, c.DBPassword)
}

// QualifiedTable returns the schema-qualified table name.
func (c *Config) QualifiedTable() string {
	return c.DBSchema + "." + c.DBTable
}

// Target returns a credential-free description of the store target, safe to
// report to callers.
func (c *Config) Target() string {
	return fmt.Sprintf("%s:%s/%s", c.DBHost, c.DBPort, c.DBName)
}

// IsDevelopment reports whether diagnostic detail may be included in
// error responses.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
