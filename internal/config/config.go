package config

import (
	"NYCU-SDC/survey-analytics-backend/internal"
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const DefaultSecret = "default-secret"

var (
	ErrDatabaseURLRequired = errors.New("database_url is required")
	ErrDefaultSecret       = errors.New("secret must be changed outside debug mode")
)

type Config struct {
	Debug              bool     `yaml:"debug"`
	Dev                bool     `yaml:"dev"`
	Host               string   `yaml:"host"`
	Port               string   `yaml:"port"`
	Secret             string   `yaml:"secret"`
	DatabaseURL        string   `yaml:"database_url"`
	MigrationSource    string   `yaml:"migration_source"`
	OtelCollectorUrl   string   `yaml:"otel_collector_url"`
	AllowOrigins       []string `yaml:"allow_origins"`
	DefaultLanguage    string   `yaml:"default_language"`
	SupportedLanguages []string `yaml:"supported_languages"`
	MinReportResponses int      `yaml:"min_report_responses"`
}

type logEntry struct {
	msg  string
	err  error
	meta map[string]string
}

// LogBuffer keeps messages produced while loading the configuration, before
// a logger exists.
type LogBuffer struct {
	buffer []logEntry
}

func NewConfigLogger() *LogBuffer {
	return &LogBuffer{}
}

func (cl *LogBuffer) Warn(msg string, err error, meta map[string]string) {
	cl.buffer = append(cl.buffer, logEntry{msg: msg, err: err, meta: meta})
}

func (cl *LogBuffer) FlushToZap(logger *zap.Logger) {
	for _, e := range cl.buffer {
		fields := make([]zap.Field, 0, len(e.meta)+1)
		if e.err != nil {
			fields = append(fields, zap.Error(e.err))
		}
		for k, v := range e.meta {
			fields = append(fields, zap.String(k, v))
		}
		logger.Warn(e.msg, fields...)
	}
	cl.buffer = nil
}

func defaults() Config {
	return Config{
		Debug:              false,
		Dev:                false,
		Host:               "localhost",
		Port:               "8080",
		Secret:             DefaultSecret,
		MigrationSource:    "file://internal/database/migrations",
		AllowOrigins:       []string{"*"},
		DefaultLanguage:    "en",
		SupportedLanguages: []string{"en"},
		MinReportResponses: 5,
	}
}

// Load builds the configuration from defaults, the YAML file named by
// CONFIG_FILE (config.yaml when unset), a .env file, environment variables
// and command line flags, each overriding the previous source.
func Load() (Config, *LogBuffer) {
	logger := NewConfigLogger()

	config := defaults()

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	err := FromFile(path, &config)
	if err != nil {
		logger.Warn("Failed to load config from file", err, map[string]string{"path": path})
	}

	err = godotenv.Load()
	if err != nil {
		logger.Warn("Failed to load .env file", err, map[string]string{"path": ".env"})
	}

	err = FromEnv(&config)
	if err != nil {
		logger.Warn("Failed to load config from env", err, nil)
	}

	err = FromFlags(&config, os.Args[1:])
	if err != nil {
		logger.Warn("Failed to load config from flags", err, nil)
	}

	return config, logger
}

func FromFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, config)
}

// FromEnv overrides every field whose variable is set, even to an empty value
// for strings.
func FromEnv(config *Config) error {
	var errs []error

	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setBool := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	setList := func(key string, dst *[]string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = splitList(v)
		}
	}

	setBool("DEBUG", &config.Debug)
	setBool("DEV", &config.Dev)
	setString("HOST", &config.Host)
	setString("PORT", &config.Port)
	setString("SECRET", &config.Secret)
	setString("DATABASE_URL", &config.DatabaseURL)
	setString("MIGRATION_SOURCE", &config.MigrationSource)
	setString("OTEL_COLLECTOR_URL", &config.OtelCollectorUrl)
	setList("ALLOW_ORIGINS", &config.AllowOrigins)
	setString("DEFAULT_LANGUAGE", &config.DefaultLanguage)
	setList("SUPPORTED_LANGUAGES", &config.SupportedLanguages)

	if v, ok := os.LookupEnv("MIN_REPORT_RESPONSES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("MIN_REPORT_RESPONSES: %w", err))
		} else {
			config.MinReportResponses = n
		}
	}

	return errors.Join(errs...)
}

// FromFlags applies flags explicitly present in args.
func FromFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("backend", flag.ContinueOnError)

	debug := fs.Bool("debug", config.Debug, "debug mode")
	dev := fs.Bool("dev", config.Dev, "development mode")
	host := fs.String("host", config.Host, "host")
	port := fs.String("port", config.Port, "port")
	secret := fs.String("secret", config.Secret, "token signing secret")
	databaseURL := fs.String("database_url", config.DatabaseURL, "database url")
	migrationSource := fs.String("migration_source", config.MigrationSource, "migration source")
	otelCollectorUrl := fs.String("otel_collector_url", config.OtelCollectorUrl, "OpenTelemetry collector url")
	allowOrigins := fs.String("allow_origins", strings.Join(config.AllowOrigins, ","), "comma separated allowed origins")
	defaultLanguage := fs.String("default_language", config.DefaultLanguage, "default language")
	supportedLanguages := fs.String("supported_languages", strings.Join(config.SupportedLanguages, ","), "comma separated supported languages")
	minReportResponses := fs.Int("min_report_responses", config.MinReportResponses, "responses required before reports are generated")

	err := fs.Parse(args)
	if err != nil {
		return err
	}

	config.Debug = *debug
	config.Dev = *dev
	config.Host = *host
	config.Port = *port
	config.Secret = *secret
	config.DatabaseURL = *databaseURL
	config.MigrationSource = *migrationSource
	config.OtelCollectorUrl = *otelCollectorUrl
	config.AllowOrigins = splitList(*allowOrigins)
	config.DefaultLanguage = *defaultLanguage
	config.SupportedLanguages = splitList(*supportedLanguages)
	config.MinReportResponses = *minReportResponses

	return nil
}

func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrDatabaseURLRequired
	}

	if c.Secret == DefaultSecret && !c.Debug {
		return ErrDefaultSecret
	}

	for _, lang := range c.SupportedLanguages {
		_, err := language.Parse(lang)
		if err != nil {
			return fmt.Errorf("%w: supported language %q: %w", internal.ErrInvalidLanguage, lang, err)
		}
	}
	if !slices.Contains(c.SupportedLanguages, c.DefaultLanguage) {
		return fmt.Errorf("%w: default language %q is not supported", internal.ErrInvalidLanguage, c.DefaultLanguage)
	}

	if c.MinReportResponses < 1 {
		return fmt.Errorf("min_report_responses must be positive, got %d", c.MinReportResponses)
	}

	return nil
}

// Languages returns the supported languages with the default one first, the
// order the locale matcher uses as preference.
func (c Config) Languages() []string {
	languages := make([]string, 0, len(c.SupportedLanguages)+1)
	languages = append(languages, c.DefaultLanguage)
	for _, lang := range c.SupportedLanguages {
		if lang != c.DefaultLanguage {
			languages = append(languages, lang)
		}
	}
	return languages
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
