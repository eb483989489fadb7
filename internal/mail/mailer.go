// Package mail sends the outbound notification emails. Delivery is best
// effort: failures are logged, never surfaced to the caller.
package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"property-match-go/internal/config"
	landlorddomain "property-match-go/internal/domain/landlord"
	"property-match-go/pkg/logger"
)

type Mailer struct {
	cfg config.SMTPConfig
	log logger.Logger
}

func New(cfg config.SMTPConfig, log logger.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

// LandlordRegistered notifies the support inbox that a landlord registered
// and needs charter review.
func (m *Mailer) LandlordRegistered(_ context.Context, landlord *landlorddomain.Landlord) {
	if !m.cfg.Enabled {
		m.log.Debug("mail: smtp disabled, skipping registration notification", "landlord_id", landlord.ID)
		return
	}

	subject := "New landlord registration"
	body := fmt.Sprintf(
		"%s %s %s has registered as a landlord.\r\n\r\nEmail: %s\r\nType: %s\r\n\r\nThe record is awaiting charter approval.",
		landlord.Title, landlord.FirstName, landlord.LastName,
		landlord.Email, landlord.LandlordType,
	)

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.From, m.cfg.FromName)
	msg.SetHeader("To", m.cfg.From)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		m.log.Warn("mail: registration notification failed", "landlord_id", landlord.ID, "err", err)
		return
	}
	m.log.Info("mail: registration notification sent", "landlord_id", landlord.ID)
}
