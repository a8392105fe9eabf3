package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr   string            `yaml:"listen_addr"`
	DBPath       string            `yaml:"db_path"`
	LogLevel     string            `yaml:"log_level"`
	LogFile      string            `yaml:"log_file"`
	SDSPath      string            `yaml:"sds_path"`
	LabelBackend string            `yaml:"label_backend"`
	ClaudeAPIKey string            `yaml:"claude_api_key"`
	ClaudeModel  string            `yaml:"claude_model"`
	OllamaHost   string            `yaml:"ollama_host"`
	OllamaModel  string            `yaml:"ollama_model"`
	SessionTTL   time.Duration     `yaml:"session_ttl"`
	Users        map[string]string `yaml:"users"`
}

// Load builds configuration from environment variables, then overlays the
// YAML file named by CONFIG_FILE when set. File values win over env values.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:   getEnv("LISTEN_ADDR", ":8080"),
		DBPath:       getEnv("DB_PATH", "/data/solventory.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFile:      getEnv("LOG_FILE", ""),
		SDSPath:      getEnv("SDS_PATH", "/data/sds"),
		LabelBackend: getEnv("LABEL_BACKEND", "off"),
		ClaudeAPIKey: getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:  getEnv("CLAUDE_MODEL", "claude-3-5-haiku-latest"),
		OllamaHost:   getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:  getEnv("OLLAMA_MODEL", "moondream"),
		SessionTTL:   12 * time.Hour,
		Users:        parseUsers(os.Getenv("USERS")),
	}

	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL %q: %w", ttl, err)
		}
		cfg.SessionTTL = d
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	return cfg, nil
}

// parseUsers parses "name:password,name2:password2" into a credential map.
func parseUsers(s string) map[string]string {
	users := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		name, pass, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || name == "" {
			continue
		}
		users[name] = pass
	}
	return users
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
