// Package mailer renders booking confirmations and hands them to the relay for delivery.
package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"slotbook/config"
	"slotbook/infras/otel"
	"slotbook/infras/s3"
	"slotbook/internal/domains/booking/gateway"
	"slotbook/internal/domains/booking/model"
	"slotbook/shared"
	"slotbook/shared/constant"
	"slotbook/shared/timezone"
	"slotbook/shared/validator"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	inviteDirectory  = "invites"
	inviteExtension  = ".ics"
	statusPending    = "pending"
	missingReference = "N/A"
	messageIDPrefix  = "email_"
)

//go:embed templates/confirmation.html
var templates embed.FS

var confirmation = template.Must(template.ParseFS(templates, "templates/confirmation.html"))

// TemplateData is what the confirmation template renders and what the relay receives.
type TemplateData struct {
	ClientName       string   `json:"clientName"`
	BusinessName     string   `json:"businessName"`
	Date             string   `json:"date"`
	Time             string   `json:"time"`
	Services         string   `json:"services"`
	ServiceLines     []string `json:"-"`
	TotalPrice       string   `json:"totalPrice"`
	CalendarLink     string   `json:"calendarLink"`
	BookingReference string   `json:"bookingReference"`
}

// EmailSent is the payload of the email_sent notification.
type EmailSent struct {
	MessageID    string       `json:"messageId"`
	Recipient    string       `json:"recipient"`
	From         string       `json:"from"`
	ReplyTo      string       `json:"replyTo"`
	Subject      string       `json:"subject"`
	Timestamp    string       `json:"timestamp"`
	Status       string       `json:"status"`
	HTML         string       `json:"html"`
	TemplateData TemplateData `json:"templateData"`
}

type mailerImpl struct {
	from          string
	businessName  string
	businessEmail string
	ready         bool
	notifier      gateway.Notifier
	storage       s3.S3
	otel          otel.Otel
}

// New is ready when a sender, a business name and a valid business email are configured.
// Invites are uploaded only when storage is ready.
func New(cfg *config.Config, notifier gateway.Notifier, storage s3.S3, ot otel.Otel) gateway.Mailer {
	email := cfg.External.Email

	ready := email.From != "" && email.BusinessName != ""
	if ready {
		if err := validator.ValidateVar(email.BusinessEmail, "required,email"); err != nil {
			log.Warn().Err(err).Msg("Business email invalid, confirmations disabled")

			ready = false
		}
	}

	if !ready {
		log.Warn().Msg("Email not configured, check EXTERNAL_EMAIL_FROM, EXTERNAL_EMAIL_BUSINESS_NAME and EXTERNAL_EMAIL_BUSINESS_EMAIL")
	}

	return &mailerImpl{
		from:          email.From,
		businessName:  email.BusinessName,
		businessEmail: email.BusinessEmail,
		ready:         ready,
		notifier:      notifier,
		storage:       storage,
		otel:          ot,
	}
}

func (m *mailerImpl) IsReady() bool {
	return m.ready
}

func (m *mailerImpl) SendConfirmation(ctx context.Context, record model.BookingRecord, calendarLink string) (messageID string, err error) {
	ctx, scope := m.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".mailer.SendConfirmation")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !m.ready {
		return "", fmt.Errorf("%w: email is not configured", model.ErrEmail)
	}

	if calendarLink == "" {
		calendarLink = m.uploadInvite(ctx, record)
	}

	data := m.templateData(record, calendarLink)

	var html bytes.Buffer
	if err = confirmation.Execute(&html, data); err != nil {
		return "", fmt.Errorf("%w: render confirmation: %w", model.ErrEmail, err)
	}

	messageID = messageIDPrefix + uuid.NewString()

	result, err := m.notifier.Notify(ctx, gateway.EventEmailSent, EmailSent{
		MessageID:    messageID,
		Recipient:    record.Email,
		From:         m.from,
		ReplyTo:      m.businessEmail,
		Subject:      m.subject(),
		Timestamp:    timezone.Now().Format(constant.DateFormat),
		Status:       statusPending,
		HTML:         html.String(),
		TemplateData: data,
	})
	if err != nil {
		return "", fmt.Errorf("%w: hand off confirmation: %w", model.ErrEmail, err)
	}

	if !result.Accepted {
		log.Warn().Str("messageId", messageID).Msg("confirmation hand-off not accepted")
	}

	scope.SetAttributes(map[string]any{"message.id": messageID, "hand_off.accepted": result.Accepted})

	return messageID, nil
}

func (m *mailerImpl) subject() string {
	return "Booking Confirmation - " + m.businessName
}

func (m *mailerImpl) templateData(record model.BookingRecord, calendarLink string) TemplateData {
	lines := make([]string, len(record.Services))
	for i, svc := range record.Services {
		lines[i] = fmt.Sprintf("%s (%d min, %s €)", svc.Name, svc.DurationMinutes, price(svc.Price))
	}

	return TemplateData{
		ClientName:       record.Name,
		BusinessName:     m.businessName,
		Date:             record.Date,
		Time:             record.Time,
		Services:         strings.Join(lines, "\n"),
		ServiceLines:     lines,
		TotalPrice:       price(record.TotalPrice),
		CalendarLink:     calendarLink,
		BookingReference: shared.FirstNonEmpty(record.BookingID, record.EventID, missingReference),
	}
}

// uploadInvite stores an .ics for bookings that have no calendar event. Failure leaves the
// confirmation without a link.
func (m *mailerImpl) uploadInvite(ctx context.Context, record model.BookingRecord) string {
	if m.storage == nil || !m.storage.Ready() {
		return ""
	}

	uid := shared.FirstNonEmpty(record.BookingID, uuid.NewString())

	ics := invite{
		UID:            uid + "@slotbook",
		Start:          record.Slot.Start,
		End:            record.Slot.End,
		Stamp:          timezone.Now(),
		Summary:        "Appointment: " + m.businessName,
		Description:    strings.Join(record.ServiceNames, ", "),
		OrganizerName:  m.businessName,
		OrganizerEmail: m.businessEmail,
		AttendeeName:   record.Name,
		AttendeeEmail:  record.Email,
	}

	url, err := m.storage.UploadFileBytes(ctx, inviteDirectory, uid+inviteExtension, constant.ContentTypeCalendar, ics.Bytes())
	if err != nil {
		log.Warn().Err(err).Str("bookingId", record.BookingID).Msg("failed to upload calendar invite")

		return ""
	}

	return url
}

func price(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
