package mailer_test

import (
	"context"
	"errors"
	"slotbook/config"
	"slotbook/infras/otel/mocks"
	s3Mocks "slotbook/infras/s3/mocks"
	"slotbook/internal/domains/booking/gateway"
	bookingMocks "slotbook/internal/domains/booking/mocks"
	"slotbook/internal/domains/booking/model"
	"slotbook/internal/integrations/mailer"
	"slotbook/shared/constant"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func mailConfig() *config.Config {
	cfg := &config.Config{}
	cfg.External.Email.From = "bookings@example.com"
	cfg.External.Email.BusinessName = "Studio Anna"
	cfg.External.Email.BusinessEmail = "hello@example.com"

	return cfg
}

func confirmedRecord() model.BookingRecord {
	start := time.Date(2030, 5, 1, 10, 0, 0, 0, time.UTC)

	return model.BookingRecord{
		BookingRequest: model.BookingRequest{
			Name:         "Anna Schmidt",
			Email:        "anna@example.com",
			Date:         "2030-05-01",
			Time:         "10:00",
			ServiceNames: []string{"Massage", "Maniküre"},
		},
		Slot:                 model.TimeInterval{Start: start, End: start.Add(90 * time.Minute)},
		Services:             []model.Service{{Name: "Massage", DurationMinutes: 60, Price: 80}, {Name: "Maniküre", DurationMinutes: 30, Price: 40.5}},
		TotalDurationMinutes: 90,
		TotalPrice:           120.5,
		BookingID:            "BK-ANNASC-123456",
	}
}

func TestIsReady(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(cfg *config.Config)
		expected bool
	}{
		{name: "fully configured", mutate: func(*config.Config) {}, expected: true},
		{name: "missing sender", mutate: func(cfg *config.Config) { cfg.External.Email.From = "" }},
		{name: "missing business name", mutate: func(cfg *config.Config) { cfg.External.Email.BusinessName = "" }},
		{name: "missing business email", mutate: func(cfg *config.Config) { cfg.External.Email.BusinessEmail = "" }},
		{name: "invalid business email", mutate: func(cfg *config.Config) { cfg.External.Email.BusinessEmail = "studio" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := mailConfig()
			tt.mutate(cfg)

			assert.Equal(t, tt.expected, mailer.New(cfg, nil, nil, mocks.NewOtel()).IsReady())
		})
	}
}

func TestSendConfirmationWithCalendarLink(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := bookingMocks.NewMockNotifier(ctrl)
	storage := s3Mocks.NewMockS3(ctrl)

	storage.EXPECT().UploadFileBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	notifier.EXPECT().Notify(gomock.Any(), gateway.EventEmailSent, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gateway.EventType, payload any) (gateway.NotifyResult, error) {
			sent, ok := payload.(mailer.EmailSent)
			require.True(t, ok)

			assert.Equal(t, "anna@example.com", sent.Recipient)
			assert.Equal(t, "bookings@example.com", sent.From)
			assert.Equal(t, "hello@example.com", sent.ReplyTo)
			assert.Equal(t, "Booking Confirmation - Studio Anna", sent.Subject)
			assert.Equal(t, "pending", sent.Status)
			assert.True(t, strings.HasPrefix(sent.MessageID, "email_"))

			data := sent.TemplateData
			assert.Equal(t, "Anna Schmidt", data.ClientName)
			assert.Equal(t, "Massage (60 min, 80 €)\nManiküre (30 min, 40.5 €)", data.Services)
			assert.Equal(t, "120.5", data.TotalPrice)
			assert.Equal(t, "https://calendar/evt-1", data.CalendarLink)
			assert.Equal(t, "BK-ANNASC-123456", data.BookingReference)

			assert.Contains(t, sent.HTML, "Hello Anna Schmidt,")
			assert.Contains(t, sent.HTML, `href="https://calendar/evt-1"`)
			assert.Contains(t, sent.HTML, "<li>Maniküre (30 min, 40.5 €)</li>")

			return gateway.NotifyResult{Accepted: true}, nil
		})

	messageID, err := mailer.New(mailConfig(), notifier, storage, mocks.NewOtel()).
		SendConfirmation(context.Background(), confirmedRecord(), "https://calendar/evt-1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(messageID, "email_"))
}

func TestSendConfirmationUploadsInviteWithoutCalendarLink(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := bookingMocks.NewMockNotifier(ctrl)
	storage := s3Mocks.NewMockS3(ctrl)

	storage.EXPECT().Ready().Return(true)
	storage.EXPECT().UploadFileBytes(gomock.Any(), "invites", "BK-ANNASC-123456.ics", constant.ContentTypeCalendar, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, _ string, data []byte) (string, error) {
			ics := string(data)

			assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n"))
			assert.Contains(t, ics, "UID:BK-ANNASC-123456@slotbook\r\n")
			assert.Contains(t, ics, "DTSTART:20300501T100000Z\r\n")
			assert.Contains(t, ics, "DTEND:20300501T113000Z\r\n")
			assert.Contains(t, ics, `DESCRIPTION:Massage\, Maniküre`)
			assert.Contains(t, ics, "mailto:anna@example.com")
			assert.True(t, strings.HasSuffix(ics, "END:VCALENDAR\r\n"))

			for _, line := range strings.Split(strings.TrimSuffix(ics, "\r\n"), "\r\n") {
				assert.LessOrEqual(t, len(line), 75)
			}

			return "https://cdn.example.com/invites/BK-ANNASC-123456.ics", nil
		})
	notifier.EXPECT().Notify(gomock.Any(), gateway.EventEmailSent, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gateway.EventType, payload any) (gateway.NotifyResult, error) {
			sent, ok := payload.(mailer.EmailSent)
			require.True(t, ok)
			assert.Equal(t, "https://cdn.example.com/invites/BK-ANNASC-123456.ics", sent.TemplateData.CalendarLink)

			return gateway.NotifyResult{Accepted: false}, nil
		})

	_, err := mailer.New(mailConfig(), notifier, storage, mocks.NewOtel()).
		SendConfirmation(context.Background(), confirmedRecord(), "")
	require.NoError(t, err)
}

func TestSendConfirmationInviteFailureKeepsGoing(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := bookingMocks.NewMockNotifier(ctrl)
	storage := s3Mocks.NewMockS3(ctrl)

	storage.EXPECT().Ready().Return(true)
	storage.EXPECT().UploadFileBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.New("access denied"))
	notifier.EXPECT().Notify(gomock.Any(), gateway.EventEmailSent, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gateway.EventType, payload any) (gateway.NotifyResult, error) {
			sent, ok := payload.(mailer.EmailSent)
			require.True(t, ok)
			assert.Empty(t, sent.TemplateData.CalendarLink)
			assert.NotContains(t, sent.HTML, "Add to Calendar")

			return gateway.NotifyResult{Accepted: true}, nil
		})

	_, err := mailer.New(mailConfig(), notifier, storage, mocks.NewOtel()).
		SendConfirmation(context.Background(), confirmedRecord(), "")
	require.NoError(t, err)
}

func TestSendConfirmationHandOffFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := bookingMocks.NewMockNotifier(ctrl)

	notifier.EXPECT().Notify(gomock.Any(), gateway.EventEmailSent, gomock.Any()).
		Return(gateway.NotifyResult{}, errors.New("relay down"))

	messageID, err := mailer.New(mailConfig(), notifier, nil, mocks.NewOtel()).
		SendConfirmation(context.Background(), confirmedRecord(), "")
	require.ErrorIs(t, err, model.ErrEmail)
	assert.Empty(t, messageID)
}

func TestSendConfirmationNotConfigured(t *testing.T) {
	_, err := mailer.New(&config.Config{}, nil, nil, mocks.NewOtel()).
		SendConfirmation(context.Background(), confirmedRecord(), "")
	assert.ErrorIs(t, err, model.ErrEmail)
}
