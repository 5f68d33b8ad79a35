package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time expresses the draft session TTL
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and endpoints, durations for TTLs.
type Config struct {
	Env         string        // application environment (e.g. "dev", "prod")
	Port        string        // HTTP port to listen on
	RegisterURL string        // external registration endpoint the payload is dispatched to
	JWTSecret   string        // HS256 secret shared with the backend, used to validate returned tokens
	DraftTTL    time.Duration // how long an idle draft session survives before it is discarded
	ExportDir   string        // directory acceptance documents are exported into
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:         must("APP_ENV"),      // environment (dev/test/prod)
		Port:        must("APP_PORT"),     // port to bind the HTTP server
		RegisterURL: must("REGISTER_URL"), // where submissions are dispatched
		JWTSecret:   must("JWT_SECRET"),   // secret for validating backend tokens
		DraftTTL:    time.Duration(mustInt("DRAFT_TTL_MIN")) * time.Minute,
		ExportDir:   envStr("EXPORT_DIR", "exports"), // defaults next to the binary
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

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
