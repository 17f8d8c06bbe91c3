package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Everything here is resolved once at
// startup and treated as read-only afterwards; components receive the
// values they need through constructor arguments, never by re-reading
// the environment.
type Config struct {
    Env            string // application environment (e.g. "dev", "prod")
    Port           string // HTTP port to listen on
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    JWTSecret      string // secret used to sign session tokens
    SessionTTLHrs  int    // session token time-to-live in hours
    BcryptCost     int    // bcrypt cost for password hashing
    OTPTTLMin      int    // validity window for OTP passcodes in minutes
    GoogleClientID string // OAuth client id; expected audience of Google ID tokens
    SMTPHost       string // outgoing mail host
    SMTPPort       int    // outgoing mail port (465 implicit TLS, otherwise STARTTLS)
    SMTPUser       string // mail account username
    SMTPPass       string // mail account password
    SMTPFrom       string // From header for OTP mail
}

// Load reads configuration values from environment variables and returns
// a Config.  Required variables are enforced by must() and missing
// values cause the program to exit with a fatal log message.  Tunables
// with safe defaults (token lifetimes, bcrypt cost) fall back instead of
// failing.
func Load() Config {
    return Config{
        Env:            must("APP_ENV"),
        Port:           must("APP_PORT"),
        DBUser:         must("DB_USER"),
        DBPass:         os.Getenv("DB_PASS"), // empty allowed
        DBHost:         must("DB_HOST"),
        DBPort:         must("DB_PORT"),
        DBName:         must("DB_NAME"),
        JWTSecret:      must("JWT_SECRET"),
        SessionTTLHrs:  envInt("SESSION_TTL_HOURS", 5),
        BcryptCost:     envInt("BCRYPT_COST", 10),
        OTPTTLMin:      envInt("OTP_TTL_MIN", 10),
        GoogleClientID: must("GOOGLE_CLIENT_ID"),
        SMTPHost:       must("SMTP_HOST"),
        SMTPPort:       envInt("SMTP_PORT", 587),
        SMTPUser:       must("SMTP_USER"),
        SMTPPass:       must("SMTP_PASS"),
        SMTPFrom:       envStr("SMTP_FROM", os.Getenv("SMTP_USER")),
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

func envStr(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func envInt(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, v)
    }
    return n
}
