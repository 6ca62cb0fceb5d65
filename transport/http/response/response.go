package response

import (
	"encoding/json"
	"net/http"
	"slotbook/shared/constant"
	"slotbook/shared/failure"
	"slotbook/shared/logger"
)

// Error is the body of every non-2xx response.
type Error struct {
	Success bool   `json:"success"`
	Error   string `example:"The selected time slot is not available. Please choose another time." json:"error"`
}

// WithJSON sends payload as is. Success payloads carry their own success flag.
func WithJSON(writer http.ResponseWriter, code int, payload any) {
	response(writer, code, payload)
}

// WithError sends the failure message with its status code; anything else is a 500.
func WithError(writer http.ResponseWriter, err error) {
	WithErrorMessage(writer, failure.GetCode(err), err.Error())
}

func WithErrorMessage(writer http.ResponseWriter, code int, message string) {
	response(writer, code, Error{Success: false, Error: message})
}

// WithRequestLimitExceeded sends a default response for when the request limit is exceeded
func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithErrorMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

// WithPreparingShutdown sends a default response for when the server is preparing to shut down
func WithPreparingShutdown(writer http.ResponseWriter) {
	WithErrorMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

// WithUnhealthy sends a default response for when the server is unhealthy
func WithUnhealthy(writer http.ResponseWriter) {
	WithErrorMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func response(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)
		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
