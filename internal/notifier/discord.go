package notifier

import (
	"context"
	"fmt"
	"stockalert/internal/components/assert"
	"stockalert/internal/components/telemetry"
	libtelemetry "stockalert/lib/telemetry"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("notifier")

const embedColor = 5763719

type discordEmbed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Color       int    `json:"color"`
}

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

// Discord posts messages as embeds to a discord webhook.
type Discord struct {
	webhook string
	client  *resty.Client
}

func NewDiscord(webhook string, tel telemetry.API) Discord {
	assert.NotEmptyStr(webhook)
	assert.NotNil(tel)

	client := resty.New()
	client.SetTimeout(time.Second * 30)
	client.SetHeader("content-type", "application/json")
	telemetry.InstrumentResty(client, telemetry.NewScopedAPI("notifier.discord", tel))
	libtelemetry.InstrumentResty(client, "notifier")

	return Discord{webhook: webhook, client: client}
}

func (d Discord) Send(ctx context.Context, message Message) error {
	ctx, span := tracer.Start(ctx, "discord")
	defer span.End()

	res, err := d.client.R().
		SetContext(ctx).
		SetBody(discordPayload{
			Embeds: []discordEmbed{{
				Title:       "Stock Alert!",
				Description: message.Body,
				URL:         message.URL,
				Color:       embedColor,
			}},
		}).
		Post(d.webhook)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to post webhook")
		return wrap("discord", err)
	}
	if res.IsError() {
		err = fmt.Errorf("webhook responded with %s", res.Status())
		span.RecordError(err)
		span.SetStatus(codes.Error, "webhook rejected message")
		return wrap("discord", err)
	}
	return nil
}
