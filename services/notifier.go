package services

import (
	"fmt"
	"strings"

	"tintpro-backend/models"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// Handoff describes a visitor leaving for the external booking page.
type Handoff struct {
	SessionID  string
	Vehicle    models.VehicleCategory
	Mode       models.ServiceMode
	Items      []models.CartItem
	Total      float64
	BookingURL string
}

// Notifier is told about booking handoffs. Implementations must not block
// for long; failures are theirs to log.
type Notifier interface {
	NotifyHandoff(h Handoff)
}

type NopNotifier struct{}

func (NopNotifier) NotifyHandoff(Handoff) {}

// TwilioNotifier texts the shop when a visitor proceeds to booking.
type TwilioNotifier struct {
	client *twilio.RestClient
	from   string
	to     string
	logger *zap.Logger
}

func NewTwilioNotifier(accountSid, authToken, from, to string, logger *zap.Logger) *TwilioNotifier {
	return &TwilioNotifier{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from:   from,
		to:     to,
		logger: logger,
	}
}

func (n *TwilioNotifier) NotifyHandoff(h Handoff) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(n.to)
	params.SetFrom(n.from)
	params.SetBody(HandoffMessage(h))

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		n.logger.Error("Failed to send handoff alert",
			zap.String("session", h.SessionID), zap.Error(err))
		return
	}
	if resp.Sid != nil {
		n.logger.Info("Handoff alert sent",
			zap.String("session", h.SessionID), zap.String("sid", *resp.Sid))
	}
}

// HandoffMessage renders the SMS body for a handoff.
func HandoffMessage(h Handoff) string {
	names := make([]string, 0, len(h.Items))
	for _, item := range h.Items {
		names = append(names, item.Name)
	}
	return fmt.Sprintf("New tint booking started: %s, %s service. %s. Est. total $%.2f",
		h.Vehicle, h.Mode, strings.Join(names, ", "), h.Total)
}
