package handler

import (
	"net/http"

	"github.com/dtroode/storefront-server/internal/api/http/response"
)

// Health answers liveness probes.
func Health(w http.ResponseWriter, _ *http.Request) {
	response.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
