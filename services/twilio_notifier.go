package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioNotifier sends staff notifications as SMS, or WhatsApp when the recipient is prefixed "whatsapp:".
type TwilioNotifier struct {
	client *twilio.RestClient
	from   string
	to     string
}

func NewTwilioNotifier(accountSid, authToken, from, to string) *TwilioNotifier {
	return &TwilioNotifier{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: from,
		to:   to,
	}
}

func (n *TwilioNotifier) Notify(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	from := n.from
	if strings.HasPrefix(n.to, "whatsapp:") && !strings.HasPrefix(from, "whatsapp:") {
		from = "whatsapp:" + from
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(n.to)
	params.SetFrom(from)
	params.SetBody(text)

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}
	if resp.Sid != nil {
		log.Printf("Message sent to %s, SID: %s", n.to, *resp.Sid)
	}
	return nil
}
