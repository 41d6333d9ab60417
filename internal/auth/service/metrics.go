package service

import (
	"github.com/AlibekovAA/qa-llm/backend/internal/observability/metrics"
)

func incrementAccessTokensIssued() {
	metrics.AccessTokensIssued.Inc()
}

func incrementUsersRegistered() {
	metrics.UsersRegistered.Inc()
}

func recordLogin(outcome string) {
	metrics.LoginsTotal.WithLabelValues(outcome).Inc()
}
