package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	DryRun   bool   `yaml:"dry_run"`
}

// PipelineConfig — настройки движка прогрессии: по ним реестр один раз
// классифицирует этапы, а коммит распознаёт «выигрышный» этап.
type PipelineConfig struct {
	DemoKeywords     []string `yaml:"demo_keywords"`
	ProposalKeywords []string `yaml:"proposal_keywords"`
	AmountStages     []string `yaml:"amount_stages"`
	WonStage         string   `yaml:"won_stage"`
	CelebrateSeconds int      `yaml:"celebrate_seconds"`
}

type Config struct {
	Server struct {
		Port    int    `yaml:"port"`
		BaseURL string `yaml:"base_url"` // для ссылок на лида в письмах
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Telegram TelegramConfig `yaml:"telegram"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

func LoadConfig() *Config {
	f, err := os.Open("config/config.yaml")
	if err != nil {
		panic("Failed to open config.yaml: " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse config.yaml: " + err.Error())
	}

	applyPipelineDefaults(&cfg.Pipeline)
	return &cfg
}

func applyPipelineDefaults(p *PipelineConfig) {
	if len(p.DemoKeywords) == 0 {
		p.DemoKeywords = []string{"demo", "session"}
	}
	if len(p.ProposalKeywords) == 0 {
		p.ProposalKeywords = []string{"proposal"}
	}
	if p.WonStage == "" {
		p.WonStage = "won"
	}
	if p.CelebrateSeconds <= 0 {
		p.CelebrateSeconds = 8
	}
}
