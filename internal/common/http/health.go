package http

import (
	"net/http"

	"github.com/AlibekovAA/qa-llm/backend/internal/common/logger"
)

const serviceDisplayName = "Q&A API"

func HealthHandler(log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			WriteErrorEnvelope(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed", nil, "")
			return
		}
		log.Debugf("health check request")
		WriteJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": serviceDisplayName,
		})
	}
}
