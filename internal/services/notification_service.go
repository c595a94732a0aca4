package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/hotelsuite/pms-backend/internal/booking"
	"github.com/hotelsuite/pms-backend/internal/config"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/hotelsuite/pms-backend/pkg/sms"
	"github.com/hotelsuite/pms-backend/pkg/validator"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

const notifyTimeout = 15 * time.Second

// Notifier tells a guest their reservation is confirmed
type Notifier interface {
	ReservationConfirmed(ctx context.Context, res models.Reservation)
}

// Mailer sends prepared messages. *gomail.Dialer satisfies it.
type Mailer interface {
	DialAndSend(m ...*gomail.Message) error
}

// NotificationService sends confirmations over SMS and email.
// Delivery is best effort: failures are logged and never reach the caller.
type NotificationService struct {
	sms      sms.Gateway
	mailer   Mailer
	from     string
	hotel    string
	phone    *validator.PhoneValidator
	logger   *logrus.Logger
	dispatch func(func())
}

// NewNotificationService creates a notification service. mailer may be nil
// when SMTP is not configured.
func NewNotificationService(gateway sms.Gateway, mailer Mailer, from, hotelName string, logger *logrus.Logger) *NotificationService {
	return &NotificationService{
		sms:      gateway,
		mailer:   mailer,
		from:     from,
		hotel:    hotelName,
		phone:    validator.NewPhoneValidator(),
		logger:   logger,
		dispatch: func(f func()) { go f() },
	}
}

// NewMailer builds a gomail dialer from the SMTP settings, or nil when SMTP is disabled
func NewMailer(cfg config.MailConfig) Mailer {
	if !cfg.Enabled() {
		return nil
	}
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	return d
}

// ReservationConfirmed queues the SMS and email for res and returns immediately
func (s *NotificationService) ReservationConfirmed(ctx context.Context, res models.Reservation) {
	ctx = context.WithoutCancel(ctx)
	s.dispatch(func() {
		s.sendSMS(ctx, res)
		s.sendEmail(res)
	})
}

func (s *NotificationService) sendSMS(ctx context.Context, res models.Reservation) {
	if s.sms == nil || res.GuestPhone == "" {
		return
	}
	log := s.logger.WithFields(logrus.Fields{"reservation_id": res.ID, "gateway": s.sms.Name()})

	to, err := s.phone.E164(res.GuestPhone)
	if err != nil {
		log.WithError(err).Warn("Skipping confirmation SMS: invalid phone")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := s.sms.Send(ctx, to, ConfirmationSMS(s.hotel, res)); err != nil {
		log.WithError(err).Warn("Failed to send confirmation SMS")
		return
	}
	log.Info("Confirmation SMS sent")
}

func (s *NotificationService) sendEmail(res models.Reservation) {
	if s.mailer == nil || res.GuestEmail == "" {
		return
	}
	log := s.logger.WithField("reservation_id", res.ID)
	if err := s.mailer.DialAndSend(s.ConfirmationEmail(res)); err != nil {
		log.WithError(err).Warn("Failed to send confirmation email")
		return
	}
	log.Info("Confirmation email sent")
}

// ConfirmationSMS renders the short confirmation text
func ConfirmationSMS(hotel string, res models.Reservation) string {
	return fmt.Sprintf("%s: booking confirmed for %s, room %s, %s to %s. Total Rs %.2f, advance Rs %.2f. Ref %s",
		hotel, res.GuestName, res.RoomNumber,
		booking.FormatDate(res.CheckIn), booking.FormatDate(res.CheckOut),
		res.TotalAmount, res.AdvanceAmount, shortRef(res))
}

// ConfirmationEmail builds the HTML confirmation message
func (s *NotificationService) ConfirmationEmail(res models.Reservation) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", res.GuestEmail)
	m.SetHeader("Subject", fmt.Sprintf("%s booking confirmation %s", s.hotel, shortRef(res)))

	body := fmt.Sprintf(`
    <h1>Your stay at %s is confirmed</h1>
    <p>Dear %s,</p>
    <table>
      <tr><td>Room</td><td>%s</td></tr>
      <tr><td>Check-in</td><td>%s</td></tr>
      <tr><td>Check-out</td><td>%s</td></tr>
      <tr><td>Nights</td><td>%d</td></tr>
      <tr><td>Total</td><td>Rs %.2f</td></tr>
      <tr><td>Advance due</td><td>Rs %.2f</td></tr>
    </table>
    <p>Booking reference: %s</p>
    `, s.hotel, res.GuestName, res.RoomNumber,
		booking.FormatDate(res.CheckIn), booking.FormatDate(res.CheckOut),
		booking.Nights(res.CheckIn, res.CheckOut), res.TotalAmount, res.AdvanceAmount, shortRef(res))

	m.SetBody("text/html", body)
	return m
}

func shortRef(res models.Reservation) string {
	return strings.ToUpper(res.ID.String()[:8])
}
