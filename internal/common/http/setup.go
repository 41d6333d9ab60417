package http

import (
	"net/http"

	"github.com/AlibekovAA/qa-llm/backend/internal/common/constants"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/httpmetrics"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/logger"
)

func BuildBaseHandler(log *logger.Logger, corsOrigins []string, handler http.Handler) http.Handler {
	metrics := httpmetrics.New("/metrics")
	recovery := RecoveryMiddleware(log)
	traceID := TraceIDMiddleware
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	securityHeaders := SecurityHeadersMiddleware
	csp := ContentSecurityPolicyMiddleware("")
	cors := CORSMiddleware(corsOrigins)

	return securityHeaders(csp(cors(traceID(recovery(maxRequestSize(metrics.Wrap(handler)))))))
}
