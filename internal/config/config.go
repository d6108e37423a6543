package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	AMQPURL         string
	AuthSecret      string
	AdminSecret     string
	CourierTick     time.Duration
	CourierStep     int
	WorkerPoolSize  int
	PollBatchSize   int
	ShutdownTimeout time.Duration
}

const (
	defaultRunAddress      = ":8080"
	defaultAuthSecret      = "change-me-in-production"
	defaultCourierTick     = 2 * time.Second
	defaultCourierStep     = 10
	defaultWorkerPoolSize  = 4
	defaultPollBatchSize   = 32
	defaultShutdownTimeout = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		AMQPURL:         getString(lookup, "AMQP_URL", ""),
		AuthSecret:      getString(lookup, "AUTH_SECRET", defaultAuthSecret),
		AdminSecret:     getString(lookup, "ADMIN_SECRET", ""),
		CourierTick:     getDuration(lookup, "COURIER_TICK", defaultCourierTick),
		CourierStep:     getInt(lookup, "COURIER_STEP", defaultCourierStep),
		WorkerPoolSize:  getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		PollBatchSize:   getInt(lookup, "POLL_BATCH_SIZE", defaultPollBatchSize),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("chowline", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		courierTickStr     = cfg.CourierTick.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.AMQPURL, "q", cfg.AMQPURL, "RabbitMQ connection URL")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "Secret for signing customer auth tokens")
	fs.StringVar(&cfg.AdminSecret, "admin-secret", cfg.AdminSecret, "Shared secret for operator endpoints")
	fs.StringVar(&courierTickStr, "courier-tick", courierTickStr, "Interval between courier simulation ticks")
	fs.IntVar(&cfg.CourierStep, "courier-step", cfg.CourierStep, "Progress percent added per courier tick")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent courier workers")
	fs.IntVar(&cfg.PollBatchSize, "poll-batch", cfg.PollBatchSize, "Maximum assignments per courier batch")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.CourierTick, err = time.ParseDuration(courierTickStr); err != nil {
		return nil, fmt.Errorf("invalid courier tick: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("AUTH_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read auth secret file: %w", err)
		}
		cfg.AuthSecret = string(content)
	}

	if cfg.CourierStep <= 0 || cfg.CourierStep > 100 {
		cfg.CourierStep = defaultCourierStep
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.PollBatchSize <= 0 {
		cfg.PollBatchSize = defaultPollBatchSize
	}

	if cfg.CourierTick <= 0 {
		cfg.CourierTick = defaultCourierTick
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.AMQPURL == "" {
		return nil, fmt.Errorf("AMQP URL must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
