package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Prompts are fmt templates. Cypher receives the rendered schema and the
// question; Answer receives the question and the result rows as JSON.
type Prompts struct {
	Cypher string `toml:"cypher"`
	Answer string `toml:"answer"`
}

type LLMConfig struct {
	Provider    string  `toml:"provider"`
	Model       string  `toml:"model"`
	APIKey      string  `toml:"api_key"`
	BaseURL     string  `toml:"base_url"`
	Temperature float32 `toml:"temperature"`
}

type Neo4jConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
}

type ServerConfig struct {
	Port           string   `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

type Config struct {
	LLM     LLMConfig    `toml:"llm"`
	Neo4j   Neo4jConfig  `toml:"neo4j"`
	Prompts Prompts      `toml:"prompts"`
	Server  ServerConfig `toml:"server"`
	Log     LogConfig    `toml:"log"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads the file at path when it exists, otherwise starts from an
// empty config. Environment overrides and defaults are applied either way.
func LoadOrDefault(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); err == nil {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyEnv overrides file values with environment variables when set.
func (c *Config) ApplyEnv() {
	override := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	override(&c.Neo4j.URI, "NEO4J_URI")
	override(&c.Neo4j.User, "NEO4J_USER")
	override(&c.Neo4j.Password, "NEO4J_PASSWORD")
	override(&c.Neo4j.Database, "NEO4J_DATABASE")

	override(&c.LLM.Provider, "LLM_PROVIDER")
	override(&c.LLM.Model, "LLM_MODEL")
	override(&c.LLM.APIKey, "LLM_API_KEY")
	override(&c.LLM.BaseURL, "LLM_BASE_URL")

	override(&c.Server.Port, "PORT")
	override(&c.Log.Level, "LOG_LEVEL")

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.AllowedOrigins = origins
	}
}

func (c *Config) ApplyDefaults() {
	if c.Neo4j.URI == "" {
		c.Neo4j.URI = "neo4j://localhost:7687"
	}

	// Default to a local Ollama model when no provider is configured.
	if c.LLM.Provider == "" {
		c.LLM.Provider = "ollama"
		if c.LLM.Model == "" {
			c.LLM.Model = "mistral"
		}
		if c.LLM.BaseURL == "" {
			c.LLM.BaseURL = "http://localhost:11434"
		}
	}

	if c.Prompts.Cypher == "" {
		c.Prompts.Cypher = DefaultCypherPrompt
	}
	if c.Prompts.Answer == "" {
		c.Prompts.Answer = DefaultAnswerPrompt
	}

	if c.Server.Port == "" {
		c.Server.Port = "5050"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) Validate() error {
	if err := checkPrompt("cypher", c.Prompts.Cypher, "schema, question"); err != nil {
		return err
	}
	if err := checkPrompt("answer", c.Prompts.Answer, "question, rows"); err != nil {
		return err
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm model is required for provider %s", c.LLM.Provider)
	}
	return nil
}

// checkPrompt requires exactly two %s verbs and no other verb. A literal
// percent sign must be written as %%.
func checkPrompt(name, prompt, args string) error {
	rest := strings.ReplaceAll(prompt, "%%", "")
	if strings.Count(rest, "%s") != 2 {
		return fmt.Errorf("%s prompt must contain exactly two %%s placeholders (%s)", name, args)
	}
	if strings.Count(rest, "%") != 2 {
		return fmt.Errorf("%s prompt has a stray %% sign; write a literal percent as %%%%", name)
	}
	return nil
}
