package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"github.com/polkiloo/weddingmart/internal/domain/model"
)

// Notifier informs customers about booking lifecycle events.
type Notifier interface {
	BookingConfirmed(ctx context.Context, details model.BookingDetails) error
	BookingCancelled(ctx context.Context, details model.BookingDetails) error
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends booking e-mails over SMTP.
type Mailer struct {
	from   string
	sender sender
	logger *slog.Logger
}

// NewMailer creates SMTP backed notifier.
func NewMailer(host string, port int, user, password, from string, logger *slog.Logger) *Mailer {
	dialer := gomail.NewDialer(host, port, user, password)
	dialer.TLSConfig = &tls.Config{ServerName: host}
	return &Mailer{from: from, sender: dialer, logger: logger}
}

var (
	confirmedTemplate = template.Must(template.New("confirmed").Parse(`<p>Hello {{.Name}},</p>
<p>Your payment was received and booking <b>{{.BookingID}}</b> is confirmed.</p>
<ul>{{range .Services}}<li>{{.}}</li>{{end}}</ul>
<p>Total paid: &#8377;{{.Total}}</p>{{if .EventDate}}
<p>Event date: {{.EventDate}}</p>{{end}}`))

	cancelledTemplate = template.Must(template.New("cancelled").Parse(`<p>Hello {{.Name}},</p>
<p>Booking <b>{{.BookingID}}</b> was cancelled because payment was not completed in time.</p>
<p>You can place a new booking at any moment.</p>`))
)

type mailData struct {
	Name      string
	BookingID string
	Services  []string
	Total     string
	EventDate string
}

func newMailData(details model.BookingDetails) mailData {
	data := mailData{
		Name:      details.User.Name,
		BookingID: details.Booking.ID,
		Total:     details.Booking.TotalAmount.String(),
	}
	for _, s := range details.Services {
		data.Services = append(data.Services, s.Name)
	}
	if d := details.Booking.Event.Date; d != nil {
		data.EventDate = d.Format("02 Jan 2006")
	}
	return data
}

func (m *Mailer) BookingConfirmed(ctx context.Context, details model.BookingDetails) error {
	return m.send(ctx, details, "Your booking is confirmed", confirmedTemplate)
}

func (m *Mailer) BookingCancelled(ctx context.Context, details model.BookingDetails) error {
	return m.send(ctx, details, "Your booking was cancelled", cancelledTemplate)
}

func (m *Mailer) send(ctx context.Context, details model.BookingDetails, subject string, tpl *template.Template) error {
	if details.User == nil || details.Booking == nil || strings.TrimSpace(details.User.Email) == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := tpl.Execute(&body, newMailData(details)); err != nil {
		return fmt.Errorf("render %s mail: %w", tpl.Name(), err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", details.User.Email)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body.String())

	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("send %s mail: %w", tpl.Name(), err)
	}
	m.logger.Info("booking mail sent",
		slog.String("template", tpl.Name()),
		slog.String("booking_id", details.Booking.ID),
	)
	return nil
}

// Nop discards notifications. Used when SMTP is not configured.
type Nop struct{}

func (Nop) BookingConfirmed(context.Context, model.BookingDetails) error { return nil }
func (Nop) BookingCancelled(context.Context, model.BookingDetails) error { return nil }
