package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"facilitator/internal/llmtool"
)

type Config struct {
	Port     string
	Env      string
	APIKey   string
	LLM      LLMConfig
	Audio    AudioConfig
	Trace    TraceConfig
	Interval IntervalConfig
}

type LLMConfig struct {
	Fake        bool
	Backend     string
	APIKey      string
	Project     string
	Location    string
	Model       string
	Temperature float32
	MaxRetries  int
	BackoffUnit time.Duration
	RPS         float64
	Burst       int
	LogPrompts  bool
}

type AudioConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URIScheme string
	FFmpeg    string
	Bitrate   string
}

type TraceConfig struct {
	DSN       string
	CacheSize int
}

type IntervalConfig struct {
	Mode    string
	Timeout time.Duration
}

// Load reads .env, the process environment and command-line flags.
func Load() (*Config, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs is Load with explicit arguments.
func LoadArgs(args []string) (*Config, error) {
	return load(args, true)
}

// LoadTool is Load for the CLI and MCP surfaces, which serve no HTTP and
// so need no API key.
func LoadTool() (*Config, error) {
	return load(nil, false)
}

func load(args []string, server bool) (*Config, error) {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("gateway", flag.ContinueOnError)
	port := fs.String("port", ":8080", "server port")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if envPort := strings.TrimSpace(os.Getenv("PORT")); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := firstNonEmpty(strings.TrimSpace(os.Getenv("APP_ENV")), "production")
	cfg := &Config{
		Port:   *port,
		Env:    env,
		APIKey: strings.TrimSpace(os.Getenv("API_KEY")),
	}
	var err error
	if cfg.LLM, err = loadLLMConfig(env); err != nil {
		return nil, err
	}
	cfg.Audio = loadAudioConfig(env)
	if cfg.Trace, err = loadTraceConfig(env); err != nil {
		return nil, err
	}
	if cfg.Interval, err = loadIntervalConfig(); err != nil {
		return nil, err
	}
	if server && !isLocal(env) && cfg.APIKey == "" {
		return nil, fmt.Errorf("config: API_KEY is required outside local env")
	}
	return cfg, nil
}

func loadLLMConfig(env string) (LLMConfig, error) {
	c := LLMConfig{
		Backend:  firstNonEmpty(strings.TrimSpace(os.Getenv("GEMINI_BACKEND")), "vertex"),
		APIKey:   strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		Project:  strings.TrimSpace(os.Getenv("PROJECT_ID")),
		Location: firstNonEmpty(strings.TrimSpace(os.Getenv("LOCATION")), "us-central1"),
		Model:    firstNonEmpty(strings.TrimSpace(os.Getenv("GEMINI_MODEL")), "gemini-2.0-flash-001"),
	}
	var err error
	if c.Fake, err = envBool("LLM_FAKE", isLocal(env) && c.Project == "" && c.APIKey == ""); err != nil {
		return c, err
	}
	if c.LogPrompts, err = envBool("LLM_LOG_PROMPTS", false); err != nil {
		return c, err
	}
	temp, err := envFloat("GEMINI_TEMPERATURE", 0.5)
	if err != nil {
		return c, err
	}
	c.Temperature = float32(temp)
	if c.MaxRetries, err = envInt("LLM_MAX_RETRIES", 5); err != nil {
		return c, err
	}
	if c.MaxRetries < 0 || c.MaxRetries > llmtool.MaxRetriesLimit {
		return c, fmt.Errorf("config: LLM_MAX_RETRIES must be between 0 and %d, got %d", llmtool.MaxRetriesLimit, c.MaxRetries)
	}
	if c.BackoffUnit, err = envDuration("LLM_BACKOFF_UNIT", time.Second); err != nil {
		return c, err
	}
	if c.RPS, err = envFloat("LLM_RPS", 0); err != nil {
		return c, err
	}
	if c.Burst, err = envInt("LLM_BURST", 0); err != nil {
		return c, err
	}
	return c, nil
}

func loadAudioConfig(env string) AudioConfig {
	if isLocal(env) {
		return localAudioConfig()
	}
	endpoint := firstNonEmpty(strings.TrimSpace(os.Getenv("AUDIO_S3_ENDPOINT")), "storage.googleapis.com")
	return AudioConfig{
		Enabled:   strings.TrimSpace(os.Getenv("BUCKET_NAME")) != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("AUDIO_S3_REGION")), "auto"),
		AccessKey: strings.TrimSpace(os.Getenv("AUDIO_S3_ACCESS_KEY")),
		SecretKey: strings.TrimSpace(os.Getenv("AUDIO_S3_SECRET_KEY")),
		Bucket:    strings.TrimSpace(os.Getenv("BUCKET_NAME")),
		UseSSL:    resolveUseSSL(),
		URIScheme: firstNonEmpty(strings.TrimSpace(os.Getenv("AUDIO_URI_SCHEME")), "gs"),
		FFmpeg:    firstNonEmpty(strings.TrimSpace(os.Getenv("FFMPEG_PATH")), "ffmpeg"),
		Bitrate:   firstNonEmpty(strings.TrimSpace(os.Getenv("AUDIO_BITRATE")), "192k"),
	}
}

func loadTraceConfig(env string) (TraceConfig, error) {
	size, err := envInt("TRACE_CACHE_SIZE", 256)
	if err != nil {
		return TraceConfig{}, err
	}
	dsn := strings.TrimSpace(os.Getenv("TRACE_STORE_DSN"))
	if dsn == "" && isLocal(env) {
		dsn = "sqlite:facilitator.db"
	}
	return TraceConfig{DSN: dsn, CacheSize: size}, nil
}

func loadIntervalConfig() (IntervalConfig, error) {
	timeout, err := envDuration("INTERVAL_TIMEOUT", 0)
	if err != nil {
		return IntervalConfig{}, err
	}
	return IntervalConfig{
		Mode:    firstNonEmpty(strings.TrimSpace(os.Getenv("AGENDA_UPDATE_MODE")), "parallel"),
		Timeout: timeout,
	}, nil
}

func resolveUseSSL() bool {
	raw := strings.TrimSpace(os.Getenv("AUDIO_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func isLocal(env string) bool { return strings.EqualFold(strings.TrimSpace(env), "local") }

func envBool(key string, def bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def, fmt.Errorf("config: %s: %w", key, err)
	}
	return v, nil
}

func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def, fmt.Errorf("config: %s: %w", key, err)
	}
	return v, nil
}

func envFloat(key string, def float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def, fmt.Errorf("config: %s: %w", key, err)
	}
	return v, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return def, fmt.Errorf("config: %s: %w", key, err)
	}
	return v, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Summary describes the effective setup for the startup log. Secrets and
// DSN credentials are left out.
func (c *Config) Summary() string {
	llm := "gemini " + c.LLM.Backend + "/" + c.LLM.Model
	if c.LLM.Fake {
		llm = "fake"
	}
	audio := "disabled"
	if c.Audio.Enabled {
		audio = c.Audio.URIScheme + "://" + c.Audio.Bucket
	}
	timeout := "none"
	if c.Interval.Timeout > 0 {
		timeout = c.Interval.Timeout.String()
	}
	return fmt.Sprintf("env=%s port=%s llm=%s retries=%d mode=%s interval_timeout=%s audio=%s traces=%s auth=%t",
		c.Env, c.Port, llm, c.LLM.MaxRetries, firstNonEmpty(c.Interval.Mode, "parallel"), timeout, audio,
		traceBackend(c.Trace.DSN), c.APIKey != "")
}

func traceBackend(dsn string) string {
	switch {
	case dsn == "" || dsn == "memory":
		return "memory"
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(dsn, "sqlite:"):
		return "sqlite"
	}
	return "unknown"
}
