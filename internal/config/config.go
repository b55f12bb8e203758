package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

type ServerConfig struct {
	Port  string `toml:"port"`
	Debug bool   `toml:"debug"`
}

type LLMConfig struct {
	Provider    string  `toml:"provider"`
	Model       string  `toml:"model"`
	APIKey      string  `toml:"api_key"`
	BaseURL     string  `toml:"base_url"`
	Temperature float64 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
}

type StoreConfig struct {
	Backend         string `toml:"backend"` // "firestore" or "redis"
	CredentialsFile string `toml:"credentials_file"`
	ProjectID       string `toml:"project_id"`
	RedisAddr       string `toml:"redis_addr"`
	RedisPassword   string `toml:"redis_password"`
	RedisDB         int    `toml:"redis_db"`
}

type ChatConfig struct {
	HistoryLimit int    `toml:"history_limit"`
	FilterWindow int    `toml:"filter_window"`
	Redirect     string `toml:"redirect"`
	TestUser     string `toml:"test_user"`
}

type QueueConfig struct {
	Capacity int `toml:"capacity"`
}

// PromptsConfig holds the instruction templates sent to the LLM. Placeholders
// are fmt.Sprintf verbs; see each component for the argument order.
type PromptsConfig struct {
	Persona  string `toml:"persona"`
	Classify string `toml:"classify"`
	Topic    string `toml:"topic"`
	Events   string `toml:"events"`
	Crisis   string `toml:"crisis"`
	Suggest  string `toml:"suggest"`
	Summary  string `toml:"summary"`
	Notify   string `toml:"notify"`
	Greeting string `toml:"greeting"`
}

type Config struct {
	Server  ServerConfig  `toml:"server"`
	LLM     LLMConfig     `toml:"llm"`
	Store   StoreConfig   `toml:"store"`
	Chat    ChatConfig    `toml:"chat"`
	Queue   QueueConfig   `toml:"queue"`
	Prompts PromptsConfig `toml:"prompts"`
}

// Default returns the compiled-in configuration. A config file and
// environment variables are merged over it in Load.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080"},
		LLM: LLMConfig{
			Provider:    "gemini",
			Model:       "gemini-2.5-flash",
			Temperature: 0.7,
			MaxTokens:   1000,
		},
		Store: StoreConfig{
			Backend:   "firestore",
			RedisAddr: "localhost:6379",
		},
		Chat: ChatConfig{
			HistoryLimit: 20,
			FilterWindow: 3,
			Redirect:     "Sorry but i can not answer to that question!!!.",
			TestUser:     "test.sorea@gmail.com",
		},
		Queue:   QueueConfig{Capacity: 256},
		Prompts: defaultPrompts(),
	}
}

// Load reads the TOML file at path over the compiled defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML '%s': %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Server.Port, "PORT")
	setString(&c.LLM.Provider, "LLM_PROVIDER")
	setString(&c.LLM.Model, "LLM_MODEL")
	setString(&c.LLM.APIKey, "LLM_API_KEY")
	setString(&c.LLM.APIKey, "GEMINI_API_KEY")
	setString(&c.LLM.BaseURL, "LLM_BASE_URL")
	setString(&c.Store.Backend, "STORE_BACKEND")
	setString(&c.Store.CredentialsFile, "FIREBASE_CREDENTIALS_FILE")
	setString(&c.Store.ProjectID, "FIREBASE_PROJECT_ID")
	setString(&c.Store.RedisAddr, "REDIS_ADDR")
	setString(&c.Store.RedisPassword, "REDIS_PASSWORD")
	setInt(&c.Queue.Capacity, "WRITE_QUEUE_CAPACITY")
	if v := os.Getenv("DEBUG"); v == "1" || v == "true" {
		c.Server.Debug = true
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
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
