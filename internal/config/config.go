// Package config loads the backend configuration from an optional YAML file
// overlaid with environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"

	// GroqBaseURL is used when only GROQ_API_KEY is supplied.
	GroqBaseURL  = "https://api.groq.com/openai/v1"
	GroqModel    = "llama-3.3-70b-versatile"
	DefaultModel = "gpt-4o-mini"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	LLM      LLMConfig      `yaml:"llm"`
	Vector   VectorConfig   `yaml:"vector"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port        string   `yaml:"port" validate:"required,numeric"`
	CORSOrigins []string `yaml:"cors_origins" validate:"dive,required"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port" validate:"min=1,max=65535"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode" validate:"oneof=disable require verify-ca verify-full prefer allow"`
	Table    string `yaml:"table"`
}

type LLMConfig struct {
	Provider       string        `yaml:"provider" validate:"oneof=openai ollama"`
	APIKey         string        `yaml:"api_key"`
	BaseURL        string        `yaml:"base_url" validate:"omitempty,url"`
	Model          string        `yaml:"model"`
	OllamaBaseURL  string        `yaml:"ollama_base_url" validate:"omitempty,url"`
	OllamaModel    string        `yaml:"ollama_model"`
	EmbeddingModel string        `yaml:"embedding_model"`
	Timeout        time.Duration `yaml:"timeout"`
}

type VectorConfig struct {
	URL   string `yaml:"url" validate:"omitempty,url"`
	Class string `yaml:"class"`
	TopK  int    `yaml:"top_k" validate:"min=1,max=50"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8000",
			CORSOrigins: []string{"http://localhost:5173"},
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			Name:    "argo_db",
			SSLMode: "disable",
			Table:   "argo_data",
		},
		LLM: LLMConfig{
			Provider:       ProviderOpenAI,
			OllamaBaseURL:  "http://localhost:11434",
			OllamaModel:    "qwen3-vl:2b",
			EmbeddingModel: "text-embedding-3-small",
			Timeout:        60 * time.Second,
		},
		Vector: VectorConfig{
			Class: "ArgoFloatSummary",
			TopK:  3,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads path (when non-empty), applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyProviderDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	setString(&c.Server.Port, "PORT")
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.Server.CORSOrigins = splitList(origins)
	}

	setString(&c.Database.Host, "DB_HOST")
	setInt(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")
	setString(&c.Database.Table, "DB_TABLE")

	setString(&c.LLM.Provider, "LLM_PROVIDER")
	setString(&c.LLM.BaseURL, "LLM_BASE_URL")
	setString(&c.LLM.Model, "LLM_MODEL")
	setString(&c.LLM.OllamaBaseURL, "OLLAMA_BASE_URL")
	setString(&c.LLM.OllamaModel, "OLLAMA_MODEL")
	setString(&c.LLM.EmbeddingModel, "EMBEDDING_MODEL")
	if c.LLM.APIKey == "" {
		for _, key := range []string{"LLM_API_KEY", "OPENAI_API_KEY"} {
			if v := os.Getenv(key); v != "" {
				c.LLM.APIKey = v
				break
			}
		}
	}
	if c.LLM.APIKey == "" {
		if v := os.Getenv("GROQ_API_KEY"); v != "" {
			c.LLM.APIKey = v
			if c.LLM.BaseURL == "" {
				c.LLM.BaseURL = GroqBaseURL
			}
		}
	}
	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.LLM.Timeout = d
		}
	}

	setString(&c.Vector.URL, "WEAVIATE_URL")
	setString(&c.Vector.Class, "WEAVIATE_CLASS")
	setInt(&c.Vector.TopK, "RAG_TOP_K")

	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	c.Vector.URL = strings.Trim(c.Vector.URL, "\"' ")
	c.Log.Level = strings.ToLower(c.Log.Level)
}

func (c *Config) applyProviderDefaults() {
	if c.LLM.Model != "" {
		return
	}
	if c.LLM.BaseURL == GroqBaseURL {
		c.LLM.Model = GroqModel
	} else {
		c.LLM.Model = DefaultModel
	}
}

var dsnEscaper = strings.NewReplacer(`'`, `\'`, `\`, `\\`)

// DSN returns the lib/pq keyword connection string. Values are single-quoted
// and empty ones omitted, the same form pq.ParseURL produces for URL().
func (d DatabaseConfig) DSN() string {
	params := [][2]string{
		{"dbname", d.Name},
		{"host", d.Host},
		{"password", d.Password},
		{"port", strconv.Itoa(d.Port)},
		{"sslmode", d.SSLMode},
		{"user", d.User},
	}
	kvs := make([]string, 0, len(params))
	for _, p := range params {
		if p[1] == "" {
			continue
		}
		kvs = append(kvs, p[0]+"='"+dsnEscaper.Replace(p[1])+"'")
	}
	return strings.Join(kvs, " ")
}

// URL returns the connection string in URL form, as accepted by pgx.
func (d DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

// MaskedKey hides all but the last four characters of the API key.
func (l LLMConfig) MaskedKey() string {
	if l.APIKey == "" {
		return ""
	}
	if len(l.APIKey) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 8) + l.APIKey[len(l.APIKey)-4:]
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
