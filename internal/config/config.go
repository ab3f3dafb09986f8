package config

import "fmt"

type Config struct {
	Env                   string
	DatabaseURL           string
	DiscordToken          string
	DiscordCommandGuildID string
	DiscordCountOtherBots bool
	StartGraceSeconds     int
	EndGraceSeconds       int
	SessionWebhookURL     string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.StartGraceSeconds < 0 {
		return fmt.Errorf("START_GRACE_SECONDS must not be negative, got %d", c.StartGraceSeconds)
	}
	if c.EndGraceSeconds < 0 {
		return fmt.Errorf("END_GRACE_SECONDS must not be negative, got %d", c.EndGraceSeconds)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "DATABASE_URL", value: c.DatabaseURL},
		{name: "DISCORD_TOKEN", value: c.DiscordToken},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
