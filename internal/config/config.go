package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Chunker and picker implementations selectable through configuration.
const (
	ChunkerLLM      = "llm"
	ChunkerMarkdown = "markdown"

	PickerFzf = "fzf"
	PickerTUI = "tui"
)

// Config holds all configuration for the application.
type Config struct {
	OpenAIKey        string
	OpenAIBaseURL    string
	EmbeddingModel   string
	ChatModel        string
	LLMTimeout       time.Duration
	DBPath           string
	NotesPath        string
	Chunker          string
	EmbedConcurrency int
	Picker           string
	QdrantURL        string
	QdrantCollection string
	QdrantVectorSize int
	APIPort          string
	IngestSchedule   string
	LogLevel         slog.Level
	LogFormat        string
}

// fileConfig is the optional YAML file named by NOTES_CONFIG. Its values are
// used where the environment leaves a variable unset.
type fileConfig struct {
	OpenAIBaseURL    string `yaml:"openai_base_url"`
	EmbeddingModel   string `yaml:"embedding_model"`
	ChatModel        string `yaml:"chat_model"`
	LLMTimeout       string `yaml:"llm_timeout"`
	DBLocation       string `yaml:"db_location"`
	NotesLocation    string `yaml:"notes_location"`
	Chunker          string `yaml:"chunker"`
	EmbedConcurrency int    `yaml:"embed_concurrency"`
	Picker           string `yaml:"picker"`
	Qdrant           struct {
		URL        string `yaml:"url"`
		Collection string `yaml:"collection"`
		VectorSize int    `yaml:"vector_size"`
	} `yaml:"qdrant"`
	APIPort        string `yaml:"api_port"`
	IngestSchedule string `yaml:"ingest_schedule"`
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
}

// values maps the file's settings to the environment variables they stand in for.
func (f *fileConfig) values() map[string]string {
	v := map[string]string{
		"OPEN_AI_BASE_URL":  f.OpenAIBaseURL,
		"EMBEDDING_MODEL":   f.EmbeddingModel,
		"CHAT_MODEL":        f.ChatModel,
		"LLM_TIMEOUT":       f.LLMTimeout,
		"DB_LOCATION":       f.DBLocation,
		"NOTES_LOCATION":    f.NotesLocation,
		"CHUNKER":           f.Chunker,
		"PICKER":            f.Picker,
		"QDRANT_URL":        f.Qdrant.URL,
		"QDRANT_COLLECTION": f.Qdrant.Collection,
		"API_PORT":          f.APIPort,
		"INGEST_SCHEDULE":   f.IngestSchedule,
		"LOG_LEVEL":         f.LogLevel,
		"LOG_FORMAT":        f.LogFormat,
	}
	if f.EmbedConcurrency != 0 {
		v["EMBED_CONCURRENCY"] = strconv.Itoa(f.EmbedConcurrency)
	}
	if f.Qdrant.VectorSize != 0 {
		v["QDRANT_VECTOR_SIZE"] = strconv.Itoa(f.Qdrant.VectorSize)
	}
	return v
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or a parent, it is loaded
// first; variables already set take precedence over .env values. When
// NOTES_CONFIG names a YAML file, its values fill in unset variables.
func Load() (*Config, error) {
	loadDotEnv()

	file, err := loadFile(os.Getenv("NOTES_CONFIG"))
	if err != nil {
		return nil, err
	}
	get := func(key, defaultValue string) string {
		if value := os.Getenv(key); value != "" {
			return value
		}
		if value := file[key]; value != "" {
			return value
		}
		return defaultValue
	}

	cfg := &Config{
		OpenAIKey:        os.Getenv("OPEN_AI_KEY"),
		OpenAIBaseURL:    get("OPEN_AI_BASE_URL", ""),
		EmbeddingModel:   get("EMBEDDING_MODEL", "text-embedding-3-small"),
		ChatModel:        get("CHAT_MODEL", "gpt-4o-mini"),
		DBPath:           expandHome(get("DB_LOCATION", "./data/notes.db")),
		NotesPath:        expandHome(get("NOTES_LOCATION", "")),
		Chunker:          get("CHUNKER", ChunkerLLM),
		Picker:           get("PICKER", PickerFzf),
		QdrantURL:        get("QDRANT_URL", ""),
		QdrantCollection: get("QDRANT_COLLECTION", "notes"),
		APIPort:          get("API_PORT", "9000"),
		IngestSchedule:   get("INGEST_SCHEDULE", ""),
		LogFormat:        get("LOG_FORMAT", "text"),
	}

	if cfg.LLMTimeout, err = time.ParseDuration(get("LLM_TIMEOUT", "60s")); err != nil {
		return nil, fmt.Errorf("LLM_TIMEOUT must be a valid duration: %w", err)
	}
	if cfg.EmbedConcurrency, err = positiveInt("EMBED_CONCURRENCY", get("EMBED_CONCURRENCY", "4")); err != nil {
		return nil, err
	}
	if cfg.QdrantVectorSize, err = positiveInt("QDRANT_VECTOR_SIZE", get("QDRANT_VECTOR_SIZE", "1536")); err != nil {
		return nil, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error: %w", err)
	}

	// Note identities are paths under NotesPath, so they must not depend on
	// the working directory.
	if cfg.NotesPath != "" {
		if cfg.NotesPath, err = filepath.Abs(cfg.NotesPath); err != nil {
			return nil, fmt.Errorf("NOTES_LOCATION cannot be resolved: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Create the database directory if it doesn't exist
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.OpenAIKey == "" {
		return errors.New("OPEN_AI_KEY is required")
	}
	if c.NotesPath == "" {
		return errors.New("NOTES_LOCATION is required")
	}
	info, err := os.Stat(c.NotesPath)
	if err != nil {
		return fmt.Errorf("NOTES_LOCATION is not readable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("NOTES_LOCATION %s is not a directory", c.NotesPath)
	}
	if c.Chunker != ChunkerLLM && c.Chunker != ChunkerMarkdown {
		return fmt.Errorf("CHUNKER must be %q or %q, got %q", ChunkerLLM, ChunkerMarkdown, c.Chunker)
	}
	if c.Picker != PickerFzf && c.Picker != PickerTUI {
		return fmt.Errorf("PICKER must be %q or %q, got %q", PickerFzf, PickerTUI, c.Picker)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if c.IngestSchedule != "" {
		if _, err := cron.ParseStandard(c.IngestSchedule); err != nil {
			return fmt.Errorf("INGEST_SCHEDULE is not a valid cron expression: %w", err)
		}
	}
	return nil
}

// loadDotEnv loads the first .env found in the working directory or up to
// four of its parents.
func loadDotEnv() {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// loadFile reads the optional YAML config. An empty path yields no values.
func loadFile(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read NOTES_CONFIG: %w", err)
	}
	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse NOTES_CONFIG %s: %w", path, err)
	}
	return f.values(), nil
}

func positiveInt(key, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return n, nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
