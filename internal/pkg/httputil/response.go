// Package httputil provides HTTP response helper functions.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the uniform body of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
	Error   *string     `json:"error,omitempty"`
}

// JSON writes a raw JSON response without envelope.
// Use Success for {"success": true, ...} wrapped responses.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// Text writes a plain text response.
func Text(w http.ResponseWriter, statusCode int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	if _, err := w.Write([]byte(text)); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// Success writes a successful envelope. Empty message and nil data are omitted.
func Success(w http.ResponseWriter, status int, message string, data interface{}) {
	JSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// List writes a successful envelope carrying a collection and its size.
func List(w http.ResponseWriter, count int, data interface{}) {
	JSON(w, http.StatusOK, Envelope{Success: true, Count: &count, Data: data})
}

// Error writes a failed envelope with a message.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Success: false, Message: message})
}

// ValidationError writes a 400 response listing every violated constraint.
func ValidationError(w http.ResponseWriter, messages []string) {
	if messages == nil {
		messages = []string{}
	}
	JSON(w, http.StatusBadRequest, Envelope{
		Success: false,
		Message: "Validation error",
		Errors:  messages,
	})
}

// ServerError writes a 500 response. The error detail is included only when
// exposeDetails is set.
func ServerError(w http.ResponseWriter, message string, err error, exposeDetails bool) {
	body := Envelope{Success: false, Message: message}
	if exposeDetails && err != nil {
		detail := err.Error()
		body.Error = &detail
	}
	JSON(w, http.StatusInternalServerError, body)
}
