package http

import (
	"net/http"
	"time"

	"github.com/AlibekovAA/qa-llm/backend/internal/common/constants"
	commonerrors "github.com/AlibekovAA/qa-llm/backend/internal/common/errors"
	commonhttp "github.com/AlibekovAA/qa-llm/backend/internal/common/http"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/jwtverify"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/logger"
	"github.com/AlibekovAA/qa-llm/backend/internal/qa/service"
)

type askRequest struct {
	Question string  `json:"question"`
	Context  *string `json:"context"`
}

type askResponse struct {
	Answer    string         `json:"answer"`
	Success   bool           `json:"success"`
	RequestID string         `json:"request_id"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type historyItem struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

type historyResponse struct {
	Items []historyItem `json:"items"`
	Count int           `json:"count"`
}

type Handler struct {
	qa  *service.Service
	log *logger.Logger
}

// Register mounts /ask and /history under prefix, both behind requireAuth.
func Register(mux *http.ServeMux, prefix string, qa *service.Service, requireAuth func(http.Handler) http.Handler, timeout time.Duration, log *logger.Logger) {
	h := &Handler{qa: qa, log: log}

	mux.Handle(prefix+"/ask", requireAuth(commonhttp.RequireMethod(http.MethodPost)(h.ask)))
	mux.Handle(prefix+"/history", requireAuth(commonhttp.RequireMethod(http.MethodGet)(commonhttp.WithTimeout(timeout)(h.history))))
}

func (h *Handler) ask(w http.ResponseWriter, r *http.Request) {
	user, ok := jwtverify.UserFromContext(r.Context())
	if !ok {
		commonhttp.HandleError(w, r, commonerrors.ErrUnauthorized, h.log)
		return
	}

	var req askRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	input := service.AskInput{Question: req.Question}
	if req.Context != nil {
		input.Context = *req.Context
	}

	// No deadline here: the gateway call is bounded only by its transport.
	result, err := h.qa.Ask(r.Context(), user, input)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, askResponse{
		Answer:    result.Answer,
		Success:   true,
		RequestID: commonhttp.TraceIDFromContext(r.Context()),
		Metadata:  result.Metadata,
	})
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	user, ok := jwtverify.UserFromContext(r.Context())
	if !ok {
		commonhttp.HandleError(w, r, commonerrors.ErrUnauthorized, h.log)
		return
	}

	limit, err := commonhttp.QueryInt(r, "limit", constants.HistoryDefaultLimit, constants.HistoryMinLimit, constants.HistoryMaxLimit)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	skip, err := commonhttp.QueryInt(r, "skip", 0, 0, -1)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	page, err := h.qa.History(r.Context(), user, limit, skip)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	items := make([]historyItem, 0, len(page.Items))
	for _, e := range page.Items {
		items = append(items, historyItem{
			ID:        string(e.ID),
			Question:  e.Question,
			Answer:    e.Answer,
			Timestamp: e.CreatedAt,
		})
	}

	commonhttp.WriteJSON(w, http.StatusOK, historyResponse{Items: items, Count: page.Total})
}
