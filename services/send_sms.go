package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

const maxSMSBytes = 1500

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// messageCreator is the part of the Twilio REST client used to send SMS.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSNotifier texts the site owner through Twilio.
type SMSNotifier struct {
	api  messageCreator
	from string
	to   []string
}

// NewSMSNotifier returns nil when credentials or phone numbers are missing.
func NewSMSNotifier(accountSID, authToken, from string, to []string) *SMSNotifier {
	if accountSID == "" || authToken == "" || from == "" || len(to) == 0 {
		return nil
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &SMSNotifier{api: client.Api, from: from, to: to}
}

func (n *SMSNotifier) Name() string { return "sms" }

// Notify sends msg.Text to every number. The Twilio client does not take a context.
func (n *SMSNotifier) Notify(ctx context.Context, msg Notification) error {
	body := truncateUTF8(msg.Text, maxSMSBytes)

	for _, to := range n.to {
		if err := ctx.Err(); err != nil {
			return err
		}
		params := &twilioApi.CreateMessageParams{}
		params.SetTo(to)
		params.SetFrom(n.from)
		params.SetBody(body)

		resp, err := n.api.CreateMessage(params)
		if err != nil {
			return fmt.Errorf("twilio send to %s: %w", to, err)
		}
		if resp != nil && resp.Sid != nil {
			log.Info().Str("messageSid", *resp.Sid).Msg("Successfully sent SMS via Twilio")
		}
	}
	return nil
}
