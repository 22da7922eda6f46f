package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
)

// Config holds the core runtime configuration. Each field corresponds
// to an environment variable. Persistence settings live here; the
// telemetry settings have their own loader in events.go.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	LogLevel     string // logrus level name ("debug", "info", ...)
	StoreBackend string // snapshot backend: "file" or "mysql"
	SnapshotPath string // snapshot file path for the file backend
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
}

// Load reads configuration from environment variables. The database
// variables are only required when the MySQL backend is selected;
// a missing required variable exits with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:          getenv("APP_ENV", "dev"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		StoreBackend: getenv("STORE_BACKEND", "file"),
		SnapshotPath: getenv("SNAPSHOT_PATH", "data/smartstay.json"),
		DBPass:       os.Getenv("DB_PASS"), // empty allowed
	}
	if cfg.StoreBackend == "mysql" {
		cfg.DBUser = must("DB_USER")
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	}
	return cfg
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenv returns the variable's value or a default when unset or
// empty.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	return v == "true" || v == "1"
}
