package dto

import (
	"slotbook/internal/domains/booking/model"
)

const DefaultDurationMinutes = 60

type AvailabilityRequest struct {
	Date            string `example:"2030-05-01" json:"date"            validate:"required,datetime=2006-01-02"`
	DurationMinutes int    `example:"60"         json:"durationMinutes" validate:"gte=0,lte=480"`
}

// Duration falls back to one hour when the client omits the duration.
func (r AvailabilityRequest) Duration() int {
	if r.DurationMinutes == 0 {
		return DefaultDurationMinutes
	}

	return r.DurationMinutes
}

type SlotResponse struct {
	StartTime string `example:"09:00" json:"startTime"`
	EndTime   string `example:"10:00" json:"endTime"`
}

type AvailabilityResponse struct {
	Success        bool           `json:"success"`
	AvailableSlots []SlotResponse `json:"availableSlots"`
}

func (r *AvailabilityResponse) FromModels(slots []model.Slot) {
	r.Success = true
	r.AvailableSlots = make([]SlotResponse, len(slots))

	for i, slot := range slots {
		r.AvailableSlots[i] = SlotResponse{
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		}
	}
}

type BookingRequest struct {
	Name          string   `example:"Anna Schmidt"      json:"name"          validate:"required,min=2,max=100"`
	Email         string   `example:"anna@example.com"  json:"email"         validate:"required,email,max=254"`
	Phone         string   `example:"+49 30 1234567"    json:"phone"         validate:"required,min=5,max=32"`
	Date          string   `example:"2030-05-01"        json:"date"          validate:"required,datetime=2006-01-02"`
	Time          string   `example:"10:00"             json:"time"          validate:"required,clock"`
	Services      []string `example:"Massage"           json:"services"      validate:"min=1,dive,required"`
	Notes         string   `example:"First visit"       json:"notes"         validate:"omitempty,max=1000"`
	AgreedToTerms bool     `example:"true"              json:"agreedToTerms" validate:"eq=true"`
}

func (r BookingRequest) ToModel() model.BookingRequest {
	return model.BookingRequest{
		Name:          r.Name,
		Email:         r.Email,
		Phone:         r.Phone,
		Date:          r.Date,
		Time:          r.Time,
		ServiceNames:  r.Services,
		Notes:         r.Notes,
		AgreedToTerms: r.AgreedToTerms,
	}
}

type BookingResponse struct {
	Success   bool   `json:"success"`
	Message   string `example:"Booking created successfully" json:"message"`
	BookingID string `example:"BK-ANNASC-123456"             json:"bookingId,omitempty"`
	EventID   string `example:"abc123"                       json:"eventId,omitempty"`
}

func (r *BookingResponse) FromModel(record model.BookingRecord) {
	r.Success = true
	r.Message = "Booking created successfully"
	r.BookingID = record.BookingID
	r.EventID = record.EventID
}

type ServiceResponse struct {
	Name            string  `example:"Massage" json:"name"`
	DurationMinutes int     `example:"60"      json:"duration"`
	Price           float64 `example:"80"      json:"price"`
}

type ServicesResponse struct {
	Success  bool              `json:"success"`
	Services []ServiceResponse `json:"services"`
}

func (r *ServicesResponse) FromModels(services []model.Service) {
	r.Success = true
	r.Services = make([]ServiceResponse, len(services))

	for i, svc := range services {
		r.Services[i] = ServiceResponse{
			Name:            svc.Name,
			DurationMinutes: svc.DurationMinutes,
			Price:           svc.Price,
		}
	}
}
