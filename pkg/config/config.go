// Package config reads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// New returns the configuration found in the environment. Only SESSION_SECRET is required. Every
// optional integration (the bot, Discord login, redis and PostgreSQL) is disabled when its
// variables are missing.
func New() (Config, error) {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	sessionSecret, err := requireEnv("SESSION_SECRET")
	collect(err)
	port, err := envAsInt("PORT", 5000)
	collect(err)
	sessionExpiration, err := envAsInt("SESSION_EXPIRATION_SECONDS", 604800)
	collect(err)
	cookieSecure, err := envAsBool("COOKIE_SECURE", false)
	collect(err)
	logPretty, err := envAsBool("LOG_PRETTY", false)
	collect(err)
	logLevel, err := envAsLogLevel("LOG_LEVEL", slog.LevelInfo)
	collect(err)

	storeDriver := env("STORE_DRIVER", StoreMemory)
	if storeDriver != StoreMemory && storeDriver != StorePostgres {
		collect(fmt.Errorf("invalid STORE_DRIVER %q, expected %q or %q", storeDriver, StoreMemory, StorePostgres))
	}

	var postgresql Postgresql
	if storeDriver == StorePostgres {
		postgresql, err = newPostgresql()
		collect(err)
	}

	var redis *Redis
	if host, ok := os.LookupEnv("REDIS_HOST"); ok && host != "" {
		redisPort, err := envAsInt("REDIS_PORT", 6379)
		collect(err)
		redisDB, err := envAsInt("REDIS_DB", 0)
		collect(err)
		redis = &Redis{Host: host, Port: redisPort, Password: env("REDIS_PASSWORD", ""), DB: redisDB}
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}

	return Config{
		BasePath:          env("BASE_PATH", ""),
		Port:              port,
		StaticDir:         env("STATIC_DIR", ""),
		SessionSecret:     sessionSecret,
		SessionExpiration: time.Duration(sessionExpiration) * time.Second,
		CookieSecure:      cookieSecure,
		Log: Log{
			Level:  logLevel,
			Pretty: logPretty,
		},
		StoreDriver: storeDriver,
		Postgresql:  postgresql,
		Redis:       redis,
		Tracing: Tracing{
			JaegerEndpoint: env("JAEGER_ENDPOINT", ""),
		},
		Discord: Discord{
			BotToken:     env("DISCORD_BOT_TOKEN", ""),
			ClientID:     env("DISCORD_CLIENT_ID", ""),
			ClientSecret: env("DISCORD_CLIENT_SECRET", ""),
			CallbackURL:  env("DISCORD_CALLBACK_URL", fmt.Sprintf("http://localhost:%d/auth/discord/callback", port)),
		},
	}, nil
}

type Config struct {
	BasePath          string
	Port              int
	StaticDir         string
	SessionSecret     string
	SessionExpiration time.Duration
	CookieSecure      bool
	Log               Log
	StoreDriver       string
	Postgresql        Postgresql
	// Redis is nil if no redis is configured
	Redis   *Redis
	Tracing Tracing
	Discord Discord
}

type Log struct {
	Level  slog.Level
	Pretty bool
}

type Postgresql struct {
	Host         string
	Port         int
	Username     string
	Password     string
	DatabaseName string
}

type Redis struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Tracing is disabled unless a Jaeger collector endpoint is set.
type Tracing struct {
	JaegerEndpoint string
}

type Discord struct {
	BotToken     string
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// BotEnabled reports whether the Discord bot should connect to the gateway.
func (d Discord) BotEnabled() bool {
	return d.BotToken != ""
}

// LoginEnabled reports whether dashboard users can sign in with Discord.
func (d Discord) LoginEnabled() bool {
	return d.ClientID != "" && d.ClientSecret != ""
}

func newPostgresql() (Postgresql, error) {
	host, hostErr := requireEnv("DATABASE_HOST")
	port, portErr := requireEnvAsInt("DATABASE_PORT")
	username, usernameErr := requireEnv("DATABASE_USERNAME")
	password, passwordErr := requireEnv("DATABASE_PASSWORD")
	name, nameErr := requireEnv("DATABASE_NAME")
	if err := errors.Join(hostErr, portErr, usernameErr, passwordErr, nameErr); err != nil {
		return Postgresql{}, err
	}

	return Postgresql{
		Host:         host,
		Port:         port,
		Username:     username,
		Password:     password,
		DatabaseName: name,
	}, nil
}

func env(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}

func requireEnv(key string) (string, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return "", fmt.Errorf("required environment variable %q not set", key)
	}
	return value, nil
}

func requireEnvAsInt(key string) (int, error) {
	valueStr, err := requireEnv(key)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("failed to parse environment variable %q as int: %v", key, err)
	}
	return value, nil
}

func envAsInt(key string, fallback int) (int, error) {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("failed to parse environment variable %q as int: %v", key, err)
	}
	return value, nil
}

func envAsBool(key string, fallback bool) (bool, error) {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return false, fmt.Errorf("failed to parse environment variable %q as bool: %v", key, err)
	}
	return value, nil
}

func envAsLogLevel(key string, fallback slog.Level) (slog.Level, error) {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return fallback, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(valueStr))); err != nil {
		return fallback, fmt.Errorf("failed to parse environment variable %q as log level: %v", key, err)
	}
	return level, nil
}
