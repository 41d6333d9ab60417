package service

import (
	"context"
	"strings"

	"github.com/AlibekovAA/qa-llm/backend/internal/common/clock"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/constants"
	commonerrors "github.com/AlibekovAA/qa-llm/backend/internal/common/errors"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/logger"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/validation"
	historydomain "github.com/AlibekovAA/qa-llm/backend/internal/history/domain"
	historyrepo "github.com/AlibekovAA/qa-llm/backend/internal/history/repository"
	"github.com/AlibekovAA/qa-llm/backend/internal/llm"
	"github.com/AlibekovAA/qa-llm/backend/internal/observability/metrics"
	userdomain "github.com/AlibekovAA/qa-llm/backend/internal/user/domain"
)

type Service struct {
	gateway llm.Gateway
	history historyrepo.Repository
	clock   clock.Clock
	log     *logger.Logger
}

func NewService(gateway llm.Gateway, history historyrepo.Repository, clk clock.Clock, log *logger.Logger) *Service {
	return &Service{gateway: gateway, history: history, clock: clk, log: log}
}

type AskInput struct {
	Question string `json:"question" validate:"notblank,max=2000"`
	Context  string `json:"context"`
}

type AskResult struct {
	Answer   string
	Metadata map[string]any
	Entry    historydomain.Entry
}

// Ask forwards the question once and stores the exchange for user only when the gateway succeeds.
// The gateway call is detached from ctx cancellation: a client disconnect does not abort it.
func (s *Service) Ask(ctx context.Context, user userdomain.User, input AskInput) (AskResult, error) {
	// Length is checked on the question as sent; surrounding whitespace still counts.
	if err := validation.Struct(input); err != nil {
		return AskResult{}, err
	}
	input.Question = strings.TrimSpace(input.Question)

	s.log.WithFields(ctx, logger.Fields{
		"user_id":         string(user.ID),
		"question_length": len(input.Question),
		"has_context":     input.Context != "",
		"action":          "ask_attempt",
	}).Info("ask attempt")

	start := s.clock.Now()
	answer, err := s.gateway.Ask(context.WithoutCancel(ctx), input.Question, input.Context)
	metrics.LLMRequestDurationSeconds.Observe(s.clock.Since(start).Seconds())
	if err == nil && strings.TrimSpace(answer.Text) == "" {
		err = llm.ErrEmptyAnswer
	}
	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues("error").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "ask_upstream_failed",
		}).Errorf("answer gateway failed: %v", err)
		return AskResult{}, commonerrors.ErrUpstream.WithCause(err)
	}
	metrics.LLMRequestsTotal.WithLabelValues("success").Inc()

	// Stored even when the client has already disconnected.
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.DBQueryTimeout)
	defer cancel()

	entry, err := s.history.Append(storeCtx, user.ID, input.Question, answer.Text)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "ask_history_append_failed",
		}).Errorf("failed to persist history entry: %v", err)
		return AskResult{}, commonerrors.ErrDatabaseError.WithCause(err)
	}
	metrics.HistoryEntriesAppended.Inc()

	s.log.WithFields(ctx, logger.Fields{
		"user_id":  string(user.ID),
		"entry_id": string(entry.ID),
		"action":   "ask_success",
	}).Info("ask success")

	return AskResult{Answer: answer.Text, Metadata: answer.Metadata, Entry: entry}, nil
}

// History returns the user's entries newest first together with the user's total count.
func (s *Service) History(ctx context.Context, user userdomain.User, limit, offset int) (historydomain.Page, error) {
	page, err := s.history.List(ctx, user.ID, limit, offset)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "history_list_failed",
		}).Errorf("failed to list history: %v", err)
		return historydomain.Page{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	metrics.HistoryPageSize.Observe(float64(len(page.Items)))
	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"limit":   limit,
		"offset":  offset,
		"count":   page.Total,
		"action":  "history_list",
	}).Debug("history listed")

	return page, nil
}
