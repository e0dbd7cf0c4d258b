package response

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error sends an error response carrying err's message
func Error(w http.ResponseWriter, status int, err error) {
	Message(w, status, err.Error())
}

// Message sends an error response with an explicit message
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorResponse{
		Error:   errorType(status),
		Message: msg,
	})
}

func errorType(status int) string {
	switch status {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusConflict:
		return "conflict"
	case http.StatusInternalServerError:
		return "internal_server_error"
	default:
		return "error"
	}
}
