package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"taskdigest/internal/policy"
)

const (
	defaultTimezone   = "UTC"
	configPathEnv     = "TASKDIGEST_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	ollamaURLEnv      = "OLLAMA_URL"
	ollamaModelEnv    = "OLLAMA_MODEL"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Input         InputConfig        `yaml:"input"`
	Output        OutputConfig       `yaml:"output"`
	Chunking      ChunkingConfig     `yaml:"chunking"`
	Notes         NotesConfig        `yaml:"notes"`
	LLM           LLMConfig          `yaml:"llm"`
	Policy        policy.Keywords    `yaml:"policy"`
	Database      DatabaseConfig     `yaml:"database"`
	Notifications NotificationConfig `yaml:"notifications"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
}

// LoggingConfig controls console log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// InputConfig points at the directory tree to ingest.
type InputConfig struct {
	Dir string `yaml:"dir"`
}

// OutputConfig points at the artifact directory.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// ChunkingConfig bounds the slices handed to the enrichment collaborator.
type ChunkingConfig struct {
	MaxChars int `yaml:"maxChars"`
	Overlap  int `yaml:"overlap"`
}

// NotesConfig caps enrichment notes folded into one event item.
type NotesConfig struct {
	Standup int `yaml:"standup"`
	Slack   int `yaml:"slack"`
	Email   int `yaml:"email"`
}

// LLMConfig defines how to contact the local Ollama daemon.
type LLMConfig struct {
	Mode                  string `yaml:"mode"` // none | ollama
	BaseURL               string `yaml:"baseUrl"`
	Model                 string `yaml:"model"`
	TimeoutSeconds        int    `yaml:"timeoutSeconds"`
	ExtractTimeoutSeconds int    `yaml:"extractTimeoutSeconds"`
	SkipExtract           bool   `yaml:"skipExtract"`
}

// Timeout resolves the summarize timeout.
func (l LLMConfig) Timeout() time.Duration {
	return time.Duration(l.TimeoutSeconds) * time.Second
}

// ExtractTimeout resolves the per-chunk extraction timeout.
func (l LLMConfig) ExtractTimeout() time.Duration {
	return time.Duration(l.ExtractTimeoutSeconds) * time.Second
}

// DatabaseConfig describes the optional Postgres audit store.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to push the digest.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// SchedulerConfig defines the optional recurring run.
type SchedulerConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(ollamaURLEnv); v != "" {
		c.LLM.BaseURL = v
	}

	if v := os.Getenv(ollamaModelEnv); v != "" {
		c.LLM.Model = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Input.Dir != "" {
		base.Input = override.Input
	}
	if override.Output.Dir != "" {
		base.Output = override.Output
	}

	if override.Chunking.MaxChars > 0 {
		base.Chunking.MaxChars = override.Chunking.MaxChars
	}
	if override.Chunking.Overlap > 0 {
		base.Chunking.Overlap = override.Chunking.Overlap
	}

	if override.Notes.Standup > 0 {
		base.Notes.Standup = override.Notes.Standup
	}
	if override.Notes.Slack > 0 {
		base.Notes.Slack = override.Notes.Slack
	}
	if override.Notes.Email > 0 {
		base.Notes.Email = override.Notes.Email
	}

	if override.LLM.Mode != "" {
		base.LLM.Mode = override.LLM.Mode
	}
	if override.LLM.BaseURL != "" {
		base.LLM.BaseURL = override.LLM.BaseURL
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.TimeoutSeconds > 0 {
		base.LLM.TimeoutSeconds = override.LLM.TimeoutSeconds
	}
	if override.LLM.ExtractTimeoutSeconds > 0 {
		base.LLM.ExtractTimeoutSeconds = override.LLM.ExtractTimeoutSeconds
	}
	if override.LLM.SkipExtract {
		base.LLM.SkipExtract = true
	}

	base.Policy = mergeKeywords(base.Policy, override.Policy)

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Scheduler.Enabled {
		base.Scheduler.Enabled = true
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	return base
}

func mergeKeywords(base, override policy.Keywords) policy.Keywords {
	pick := func(v, def []string) []string {
		if len(v) > 0 {
			return v
		}
		return def
	}
	return policy.Keywords{
		Financial:      pick(override.Financial, base.Financial),
		Mismatch:       pick(override.Mismatch, base.Mismatch),
		PaymentsCore:   pick(override.PaymentsCore, base.PaymentsCore),
		UrgentWords:    pick(override.UrgentWords, base.UrgentWords),
		UrgentPhrases:  pick(override.UrgentPhrases, base.UrgentPhrases),
		Fraud:          pick(override.Fraud, base.Fraud),
		SLA:            pick(override.SLA, base.SLA),
		NoAccess:       pick(override.NoAccess, base.NoAccess),
		Planning:       pick(override.Planning, base.Planning),
		RequiresAction: pick(override.RequiresAction, base.RequiresAction),
	}
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:  LoggingConfig{Level: "info"},
		Input:    InputConfig{Dir: "inputs"},
		Output:   OutputConfig{Dir: "outputs"},
		Chunking: ChunkingConfig{MaxChars: 1200, Overlap: 120},
		Notes:    NotesConfig{Standup: 3, Slack: 4, Email: 5},
		LLM: LLMConfig{
			Mode:                  "none",
			BaseURL:               "http://localhost:11434",
			Model:                 "phi3:mini",
			TimeoutSeconds:        120,
			ExtractTimeoutSeconds: 45,
		},
		Policy:    policy.DefaultKeywords(),
		Database:  DatabaseConfig{DSN: ""},
		Scheduler: SchedulerConfig{Timezone: defaultTimezone, location: tz},
	}
}
