package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/tsuuchin/internal/config"
)

type envConfig struct {
	Env                   string `env:"ENV" envDefault:"production"`
	DatabaseURL           string `env:"DATABASE_URL,required"`
	DiscordToken          string `env:"DISCORD_TOKEN,required"`
	DiscordCommandGuildID string `env:"DISCORD_COMMAND_GUILD_ID"`
	DiscordCountOtherBots bool   `env:"DISCORD_COUNT_OTHER_BOTS_AS_PARTICIPANTS" envDefault:"false"`
	StartGraceSeconds     int    `env:"START_GRACE_SECONDS" envDefault:"10"`
	EndGraceSeconds       int    `env:"END_GRACE_SECONDS" envDefault:"1"`
	SessionWebhookURL     string `env:"SESSION_WEBHOOK_URL"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                   raw.Env,
		DatabaseURL:           raw.DatabaseURL,
		DiscordToken:          raw.DiscordToken,
		DiscordCommandGuildID: raw.DiscordCommandGuildID,
		DiscordCountOtherBots: raw.DiscordCountOtherBots,
		StartGraceSeconds:     raw.StartGraceSeconds,
		EndGraceSeconds:       raw.EndGraceSeconds,
		SessionWebhookURL:     raw.SessionWebhookURL,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
