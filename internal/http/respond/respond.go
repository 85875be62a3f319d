// Package respond writes the JSON bodies shared by all handlers: payloads
// as-is, errors as {"error": "..."}, notices as {"message": "..."}.
package respond

import (
	"encoding/json"
	"log"
	"net/http"
)

// JSON writes the payload verbatim with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	write(w, status, payload)
}

// Message writes a {"message": ...} notice.
func Message(w http.ResponseWriter, status int, message string) {
	write(w, status, map[string]string{"message": message})
}

// Error writes an {"error": ...} rejection.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, map[string]string{"error": message})
}

func write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("respond: encode payload failed: %v", err)
	}
}
