package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strings" // strings builds per-store variable names
)

// StoreConfig holds the connection settings of one logical database
// store.  The service runs against exactly four of them: the central
// reference store and one filial store per branch city.
type StoreConfig struct {
    User string // database username
    Pass string // database password (optional)
    Host string // database host address
    Port string // database port number
    Name string // database name
}

// Config holds all runtime configuration values.  Each field corresponds
// to one or more environment variables; store settings are grouped under
// a DB_<STORE>_ prefix (e.g. DB_CENTRAL_HOST, DB_FILIAL1_HOST).
type Config struct {
    Env    string                 // application environment (e.g. "dev", "prod")
    Port   string                 // HTTP port to listen on
    Stores map[string]StoreConfig // per-store connection settings, keyed by logical name
}

// Load reads configuration values from environment variables and returns
// a Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  storeNames lists
// the logical stores to load settings for.
func Load(storeNames []string) Config {
    stores := make(map[string]StoreConfig, len(storeNames))
    for _, name := range storeNames {
        prefix := "DB_" + strings.ToUpper(name) + "_"
        stores[name] = StoreConfig{
            User: must(prefix + "USER"),
            Pass: os.Getenv(prefix + "PASS"), // empty allowed
            Host: must(prefix + "HOST"),
            Port: must(prefix + "PORT"),
            Name: must(prefix + "NAME"),
        }
    }
    return Config{
        Env:    must("APP_ENV"),  // environment (dev/test/prod)
        Port:   must("APP_PORT"), // port to bind the HTTP server
        Stores: stores,
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}
