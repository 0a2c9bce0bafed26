package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by HELIOS_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("HELIOS_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8000
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// SimulationMode reports whether completions are simulated instead of sent to the provider.
// Defaults to true; only an explicit false value turns it off.
func SimulationMode() bool {
	on, err := strconv.ParseBool(os.Getenv("SIMULATION_MODE"))
	if err != nil {
		return true
	}
	return on
}

// CompletionProvider returns the configured completion provider.
// Defaults to "openai" if not set.
// Valid values: openai, anthropic, mock
func CompletionProvider() string {
	p := os.Getenv("COMPLETION_PROVIDER")
	if p == "" {
		return "openai"
	}
	return p
}

// CompletionURL returns the provider endpoint. Empty means the provider's public endpoint.
func CompletionURL() string {
	return os.Getenv("COMPLETION_URL")
}

func CompletionAPIKey() string {
	return os.Getenv("COMPLETION_API_KEY")
}

func CompletionModel() string {
	m := os.Getenv("COMPLETION_MODEL")
	if m == "" {
		return "claude-3-sonnet"
	}
	return m
}

func CompletionTimeout() time.Duration {
	return duration("COMPLETION_TIMEOUT", 30*time.Second)
}

// MemoryURL returns the remote memory base URL. Empty keeps memory local only.
func MemoryURL() string {
	return os.Getenv("MEMORY_URL")
}

func MemoryAPIKey() string {
	return os.Getenv("MEMORY_API_KEY")
}

func MemoryTimeout() time.Duration {
	return duration("MEMORY_TIMEOUT", 10*time.Second)
}

// DatabaseURL enables the Postgres belief store when set.
func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// APIKey is the bearer key required by the HTTP API. Empty disables authentication.
func APIKey() string {
	return os.Getenv("API_KEY")
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// duration accepts Go duration strings ("15s") or a plain number of seconds.
func duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil && secs > 0 {
		return time.Duration(secs * float64(time.Second))
	}
	return def
}
