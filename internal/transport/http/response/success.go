package response

import (
	"encoding/json"
	"net/http"
)

type MessageBody struct {
	Message string `json:"message"`
}

// WriteJSON writes v as JSON with the given status code.
// It sets Content-Type to application/json; charset=utf-8 if not already set.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func OK(w http.ResponseWriter, v any) {
	WriteJSON(w, http.StatusOK, v)
}

func Created(w http.ResponseWriter, v any) {
	WriteJSON(w, http.StatusCreated, v)
}

// Message writes {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, MessageBody{Message: msg})
}
