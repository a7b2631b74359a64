package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds application configuration.
type Config struct {
	// MaxAudioBytes is the maximum decoded audio payload accepted by the
	// transcription proxy. Larger uploads are rejected with 413.
	MaxAudioBytes int `json:"max_audio_bytes"`

	// STTTimeoutMS bounds the upstream transcription request. A deadline hit
	// is reported as UPSTREAM_TIMEOUT, distinct from an upstream rejection.
	STTTimeoutMS int `json:"stt_timeout_ms"`

	// STTModel is the upstream speech-to-text model name.
	STTModel string `json:"stt_model"`

	// STTEndpoint is the upstream transcription URL.
	STTEndpoint string `json:"stt_endpoint"`

	// AllowedOrigins is the CORS allow-list for the transcription proxy.
	AllowedOrigins []string `json:"allowed_origins,omitempty"`

	// FlushDebounceMS is the persistence write debounce window. Rapid
	// successive mutations within the window coalesce into one snapshot write.
	FlushDebounceMS int `json:"flush_debounce_ms,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxAudioBytes: 8 * 1024 * 1024,
		STTTimeoutMS:  25000,
		STTModel:      "whisper-large-v3-turbo",
		STTEndpoint:   "https://api.groq.com/openai/v1/audio/transcriptions",
		AllowedOrigins: []string{
			"http://localhost:3000",
			"https://foxer.app",
			"https://www.foxer.app",
		},
		FlushDebounceMS: 250,
	}
}

// APIKey returns the upstream STT API key from the environment.
// The key never lives in the config file.
func APIKey() string {
	return os.Getenv("GROQ_API_KEY")
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.foxer.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return Merge(DefaultConfig(), cfg), nil
}

// Merge overlays non-zero scalar fields of over onto base; list fields are
// replaced wholesale when set. Neither argument is mutated.
func Merge(base, over *Config) *Config {
	out := *base
	if over == nil {
		return &out
	}
	if over.MaxAudioBytes > 0 {
		out.MaxAudioBytes = over.MaxAudioBytes
	}
	if over.STTTimeoutMS > 0 {
		out.STTTimeoutMS = over.STTTimeoutMS
	}
	if over.STTModel != "" {
		out.STTModel = over.STTModel
	}
	if over.STTEndpoint != "" {
		out.STTEndpoint = over.STTEndpoint
	}
	if over.AllowedOrigins != nil {
		out.AllowedOrigins = over.AllowedOrigins
	}
	if over.FlushDebounceMS > 0 {
		out.FlushDebounceMS = over.FlushDebounceMS
	}
	if over.DBMaxOpenConns > 0 {
		out.DBMaxOpenConns = over.DBMaxOpenConns
	}
	if over.DBMaxIdleConns > 0 {
		out.DBMaxIdleConns = over.DBMaxIdleConns
	}
	if over.DisabledTools != nil {
		out.DisabledTools = over.DisabledTools
	}
	return &out
}

// OriginAllowed reports whether the given request origin is on the allow-list.
// An empty origin (same-origin or non-browser caller) is always allowed.
func (c *Config) OriginAllowed(origin string) bool {
	if origin == "" {
		return true
	}
	for _, allowed := range c.AllowedOrigins {
		if allowed == origin {
			return true
		}
	}
	return false
}
