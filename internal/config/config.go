package config

import (
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by DEEPFAKE_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("DEEPFAKE_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Missing files are fine, the process env still applies
	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

// ServerHost returns the interface to bind. Empty means all interfaces.
func ServerHost() string {
	return os.Getenv("SERVER_HOST")
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil || port <= 0 {
		return 8000
	}
	return port
}

func ServerAddr() string {
	return net.JoinHostPort(ServerHost(), strconv.Itoa(ServerPort()))
}

// UploadDir returns the directory holding in-flight uploads.
// Defaults to "uploads" relative to the working directory.
func UploadDir() string {
	d := os.Getenv("UPLOAD_DIR")
	if d == "" {
		return "uploads"
	}
	return d
}

// MaxUploadBytes returns the request body limit for /analyze.
// Configured in megabytes via MAX_UPLOAD_MB, defaults to 512MB.
func MaxUploadBytes() int64 {
	mb, err := strconv.ParseInt(os.Getenv("MAX_UPLOAD_MB"), 10, 64)
	if err != nil || mb <= 0 {
		mb = 512
	}
	return mb << 20
}

// CORSAllowedOrigins returns the comma separated CORS_ALLOWED_ORIGINS list.
// Defaults to every origin.
func CORSAllowedOrigins() []string {
	raw := os.Getenv("CORS_ALLOWED_ORIGINS")
	if strings.TrimSpace(raw) == "" {
		return []string{"*"}
	}

	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
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
