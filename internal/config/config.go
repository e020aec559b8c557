package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/docchat/internal/chunker"
	"github.com/dgallion1/docchat/internal/session"
	"github.com/dgallion1/docchat/internal/tagger"
	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Auth
	DocchatAPIKey string

	// Gemini
	GoogleAPIKey string
	GeminiModel  string
	LLMTimeout   time.Duration

	// Upload and fetch limits
	MaxUploadBytes  int64
	FetchTimeout    time.Duration
	FetchRatePerSec float64

	// Chunking and tagging
	ChunkSize          int
	ChunkBoundary      chunker.Boundary
	TagMode            tagger.Mode
	ExposeFirstChunk   bool
	DocumentVisibility session.Policy
	HiddenSentinel     string
	SentinelCompat     bool

	// Session state
	SessionTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

// LoadDotEnv reads variables from the given files (".env" when none are
// named) without overriding the environment. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		DocchatAPIKey: os.Getenv("DOCCHAT_API_KEY"),

		GoogleAPIKey: os.Getenv("GOOGLE_API_KEY"),
		GeminiModel:  envOr("GEMINI_MODEL", "gemini-2.0-flash"),
		LLMTimeout:   envDuration("LLM_TIMEOUT", 120*time.Second),

		MaxUploadBytes:  envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB
		FetchTimeout:    envDuration("FETCH_TIMEOUT", 30*time.Second),
		FetchRatePerSec: envFloat("FETCH_RATE_PER_SEC", 2),

		ChunkSize:          envInt("CHUNK_SIZE", chunker.DefaultSize),
		ChunkBoundary:      chunker.Boundary(envOr("CHUNK_BOUNDARY", string(chunker.BoundaryNone))),
		TagMode:            tagger.Mode(envOr("TAG_MODE", string(tagger.ModePrefixChunks))),
		ExposeFirstChunk:   envBool("EXPOSE_FIRST_CHUNK", false),
		DocumentVisibility: session.Policy(envOr("DOCUMENT_VISIBILITY", string(session.PolicyHidden))),
		HiddenSentinel:     envOr("HIDDEN_SENTINEL", tagger.DefaultSentinel),
		SentinelCompat:     envBool("SENTINEL_COMPAT", true),

		SessionTTL: envDuration("SESSION_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = chunker.DefaultSize
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 1 * time.Hour
	}
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = 120 * time.Second
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}

	return cfg
}

// Validate reports missing credentials and normalises the enumerated
// settings in place.
func (c *Config) Validate() error {
	if c.GoogleAPIKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY is required")
	}

	b, err := chunker.ParseBoundary(string(c.ChunkBoundary))
	if err != nil {
		return fmt.Errorf("CHUNK_BOUNDARY: %w", err)
	}
	c.ChunkBoundary = b

	m, err := tagger.ParseMode(string(c.TagMode))
	if err != nil {
		return fmt.Errorf("TAG_MODE: %w", err)
	}
	c.TagMode = m

	p, err := session.ParsePolicy(string(c.DocumentVisibility))
	if err != nil {
		return fmt.Errorf("DOCUMENT_VISIBILITY: %w", err)
	}
	c.DocumentVisibility = p

	if c.HiddenSentinel == "" {
		return fmt.Errorf("HIDDEN_SENTINEL must not be empty")
	}
	return nil
}

// Chunking returns the chunker settings.
func (c Config) Chunking() chunker.Config {
	return chunker.Config{Size: c.ChunkSize, Boundary: c.ChunkBoundary}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
