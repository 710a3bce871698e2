package response

import (
	"encoding/json"
	"log"
	"net/http"

	apperrors "enrollment-module/errors"
)

// StandardResponse represents the standard API response structure
type StandardResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a success response with given status code, message, and data
func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	SendJSON(w, statusCode, StandardResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// Error sends an error response with given status code and error message
func Error(w http.ResponseWriter, statusCode int, errorMsg string) {
	SendJSON(w, statusCode, StandardResponse{
		Status: "error",
		Error:  errorMsg,
	})
}

// FromError maps an application error to its transport status and message.
// Internal details are never leaked; the client sees the kind's message.
func FromError(w http.ResponseWriter, err error) {
	Error(w, apperrors.HTTPStatus(err), apperrors.MessageOf(err))
}

// SendJSON encodes and sends a JSON response
func SendJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}
