package web

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
)

// maxControlBody bounds order payloads. Orders are tiny JSON objects.
const maxControlBody = 4096

type controlResponse struct {
	Result string `json:"result"`
}

// handleControl acknowledges remote orders. The controller runs fully
// autonomously, so orders are validated, logged and counted but not
// applied to the relays.
func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxControlBody))
	if err != nil {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	if !json.Valid(body) {
		http.Error(w, "malformed JSON", http.StatusBadRequest)
		return
	}

	log.Printf("web: control order received: %s", body)
	s.tracker.AddControlRequest()
	s.metrics.ControlRequest()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(controlResponse{Result: "ok"})
}
