package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName    = "Scaffold API"
	defaultAppVersion = "0.1.0"
	defaultEnvFile    = ".env"
)

// NullOrigin is the Origin browsers send from file:// pages and sandboxed frames.
const NullOrigin = "null"

// DefaultCORSOrigins are the local development origins allowed to call the API from a browser.
var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:8000",
	"http://127.0.0.1:5173",
	"http://0.0.0.0:3000",
	"http://0.0.0.0:8000",
	"http://frontend:3000",
	"http://backend:8000",
	NullOrigin,
}

// LogConfig holds the process-wide logging backend settings.
type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// RateLimitConfig holds token bucket settings. RPS of 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// Settings is the centralized configuration for the application.
// It is populated once from the environment and a dotenv file and must not be mutated afterwards.
type Settings struct {
	AppName         string
	AppVersion      string
	Host            string
	Port            int
	APIPrefix       string
	PublicURL       *url.URL
	CORSOrigins     []string
	MetricsEnabled  bool
	ShutdownTimeout time.Duration
	Log             LogConfig
	RateLimit       RateLimitConfig
	// OTelEnv holds OTEL_* variables found only in the dotenv file. The OpenTelemetry SDK
	// reads its settings from the process environment, so they are exported before tracing starts.
	OTelEnv map[string]string
}

// Addr returns the listen address in host:port form.
func (s *Settings) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

// FieldError reports a malformed environment value for a typed settings field.
type FieldError struct {
	Field string
	Env   string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("config: invalid value %q for %s (%s): %v", e.Value, e.Field, e.Env, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Option customizes how Load resolves its sources.
type Option func(*loader)

// WithEnvFile sets the dotenv file read before the process environment. An empty path disables it.
func WithEnvFile(path string) Option {
	return func(l *loader) { l.envFile = path }
}

// WithEnviron replaces os.Environ as the source of KEY=VALUE pairs.
func WithEnviron(environ func() []string) Option {
	return func(l *loader) { l.environ = environ }
}

type loader struct {
	envFile string
	environ func() []string
}

// Load reads configuration from a dotenv file (if present) and environment variables.
// Real environment variables take precedence over the dotenv file; names match case-insensitively.
// Every malformed field is reported, each as a *FieldError.
func Load(opts ...Option) (*Settings, error) {
	l := &loader{envFile: defaultEnvFile, environ: os.Environ}
	for _, opt := range opts {
		opt(l)
	}

	vars, fileOnly, err := l.variables()
	if err != nil {
		return nil, err
	}
	src := &source{vars: vars}

	s := &Settings{
		AppName:         src.getEnv("APP_NAME", defaultAppName),
		AppVersion:      src.getEnv("APP_VERSION", defaultAppVersion),
		Host:            src.getEnv("APP_HOST", "0.0.0.0"),
		Port:            src.getEnvPort("port", "PORT", 8000),
		APIPrefix:       src.getEnvPrefix("api_prefix", "API_PREFIX", "/api"),
		PublicURL:       src.getEnvURL("public_url", "PUBLIC_URL", "http://localhost:8000"),
		CORSOrigins:     src.getEnvOrigins("cors_origins", "CORS_ORIGINS", DefaultCORSOrigins),
		MetricsEnabled:  src.getEnvBool("metrics_enabled", "METRICS_ENABLED", true),
		ShutdownTimeout: src.getEnvDuration("shutdown_timeout", "SHUTDOWN_TIMEOUT", 10*time.Second),
		Log: LogConfig{
			Level:      src.getEnvLevel("log_level", "LOG_LEVEL", "debug"),
			File:       src.getEnvAllowEmpty("LOG_FILE", "logs/app.log"),
			MaxSizeMB:  src.getEnvIntMin("log_max_size_mb", "LOG_MAX_SIZE_MB", 1, 1),
			MaxBackups: src.getEnvIntMin("log_max_backups", "LOG_MAX_BACKUPS", 5, 0),
		},
		RateLimit: RateLimitConfig{
			RPS:   src.getEnvFloat("rate_limit_rps", "RATE_LIMIT_RPS", 0),
			Burst: src.getEnvIntMin("rate_limit_burst", "RATE_LIMIT_BURST", 20, 0),
		},
		OTelEnv: make(map[string]string),
	}
	for k, v := range fileOnly {
		if strings.HasPrefix(k, otelPrefix) {
			s.OTelEnv[k] = v
		}
	}

	if len(src.errs) > 0 {
		return nil, errors.Join(src.errs...)
	}
	return s, nil
}

const otelPrefix = "OTEL_"

// variables merges the dotenv file and the environment into a map keyed by upper-case name.
// fileOnly lists the dotenv entries the environment does not override.
func (l *loader) variables() (vars, fileOnly map[string]string, err error) {
	vars = make(map[string]string)
	fileOnly = make(map[string]string)

	if l.envFile != "" {
		fileVars, err := godotenv.Read(l.envFile)
		switch {
		case err == nil:
			for k, v := range fileVars {
				vars[strings.ToUpper(k)] = v
				fileOnly[strings.ToUpper(k)] = v
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, nil, fmt.Errorf("config: read %s: %w", l.envFile, err)
		}
	}

	for _, kv := range l.environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		vars[strings.ToUpper(k)] = v
		delete(fileOnly, strings.ToUpper(k))
	}
	return vars, fileOnly, nil
}

type source struct {
	vars map[string]string
	errs []error
}

func (s *source) lookup(key string) (string, bool) {
	v, ok := s.vars[key]
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (s *source) fail(field, key, value string, err error) {
	s.errs = append(s.errs, &FieldError{Field: field, Env: key, Value: value, Err: err})
}

func (s *source) getEnv(key, def string) string {
	if v, ok := s.lookup(key); ok {
		return v
	}
	return def
}

// getEnvAllowEmpty treats a variable that is set to the empty string as an explicit value.
func (s *source) getEnvAllowEmpty(key, def string) string {
	if v, ok := s.vars[key]; ok {
		return strings.TrimSpace(v)
	}
	return def
}

func (s *source) getEnvBool(field, key string, def bool) bool {
	v, ok := s.lookup(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		s.fail(field, key, v, errors.New("expected a boolean"))
		return def
	}
	return b
}

func (s *source) getEnvIntMin(field, key string, def, floor int) int {
	v, ok := s.lookup(key)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		s.fail(field, key, v, errors.New("expected an integer"))
		return def
	}
	if i < floor {
		s.fail(field, key, v, fmt.Errorf("must be >= %d", floor))
		return def
	}
	return i
}

func (s *source) getEnvPort(field, key string, def int) int {
	p := s.getEnvIntMin(field, key, def, 1)
	if p > 65535 {
		s.fail(field, key, strconv.Itoa(p), errors.New("must be <= 65535"))
		return def
	}
	return p
}

func (s *source) getEnvFloat(field, key string, def float64) float64 {
	v, ok := s.lookup(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		s.fail(field, key, v, errors.New("expected a number"))
		return def
	}
	if f < 0 {
		s.fail(field, key, v, errors.New("must be >= 0"))
		return def
	}
	return f
}

func (s *source) getEnvDuration(field, key string, def time.Duration) time.Duration {
	v, ok := s.lookup(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		s.fail(field, key, v, errors.New("expected a positive duration such as 10s"))
		return def
	}
	return d
}

func (s *source) getEnvURL(field, key, def string) *url.URL {
	raw := s.getEnv(key, def)
	u, err := url.Parse(raw)
	if err == nil && (u.Scheme == "" || u.Host == "") {
		err = errors.New("expected an absolute URL")
	}
	if err != nil {
		s.fail(field, key, raw, err)
		u, _ = url.Parse(def)
	}
	return u
}

func (s *source) getEnvList(field, key string, def []string) []string {
	v, ok := s.lookup(key)
	if !ok {
		return append([]string(nil), def...)
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		s.fail(field, key, v, errors.New("expected a comma-separated list"))
		return append([]string(nil), def...)
	}
	return out
}

// getEnvOrigins accepts scheme://host[:port] origins and "null". Wildcards are rejected
// because credentials are always allowed.
func (s *source) getEnvOrigins(field, key string, def []string) []string {
	origins := s.getEnvList(field, key, def)
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		normalized, err := normalizeOrigin(o)
		if err != nil {
			s.fail(field, key, o, err)
			return append([]string(nil), def...)
		}
		out = append(out, normalized)
	}
	return out
}

func normalizeOrigin(origin string) (string, error) {
	if strings.EqualFold(origin, NullOrigin) {
		return NullOrigin, nil
	}
	if strings.Contains(origin, "*") {
		return "", errors.New("wildcard origins are not allowed with credentials")
	}
	u, err := url.Parse(origin)
	if err != nil {
		return "", err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" || u.User != nil ||
		(u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" {
		return "", errors.New("expected an origin such as http://localhost:3000")
	}
	return strings.ToLower(u.Scheme + "://" + u.Host), nil
}

func (s *source) getEnvPrefix(field, key, def string) string {
	v := s.getEnv(key, def)
	if !strings.HasPrefix(v, "/") {
		s.fail(field, key, v, errors.New("must start with /"))
		return def
	}
	return strings.TrimRight(v, "/")
}

func (s *source) getEnvLevel(field, key, def string) string {
	v := strings.ToLower(s.getEnv(key, def))
	switch v {
	case "debug", "info", "warn", "warning", "error":
		return v
	}
	s.fail(field, key, v, errors.New("expected one of debug, info, warn, error"))
	return def
}
