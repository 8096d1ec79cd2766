package notifier

import (
	"stockalert/internal/components/telemetry"
)

type DiscordConfig struct {
	WebhookURL string `json:"webhook_url"`
}

type Config struct {
	Discord DiscordConfig `json:"discord"`
	Smtp    SmtpConfig    `json:"smtp"`
}

// FromConfig builds a notifier for every configured destination.
func FromConfig(config Config, tel telemetry.API) (Notifier, error) {
	var out Multi
	if config.Discord.WebhookURL != "" {
		out = append(out, NewDiscord(config.Discord.WebhookURL, tel))
	}
	if config.Smtp.configured() {
		out = append(out, NewEmail(config.Smtp))
	}

	switch len(out) {
	case 0:
		return nil, ErrConfigurationMissing
	case 1:
		return out[0], nil
	}
	return out, nil
}
