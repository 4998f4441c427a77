package utils

import (
	"encoding/json"
	"net/http"
	"time"
)

type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func SuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{Success: true, Message: message, Data: data, Timestamp: time.Now().UTC()}
}

func ErrorResponse(message string, err error) APIResponse {
	resp := APIResponse{Success: false, Message: message, Timestamp: time.Now().UTC()}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

// WriteJSON encodes body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
