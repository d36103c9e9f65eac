// Package httptransport is the thin HTTP layer. Handlers decode, delegate to
// the domain services, and translate domain errors; business rules live below.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"reclaim/internal/compliance"
	"reclaim/internal/lead"
	"reclaim/internal/ops"
	"reclaim/internal/outreach"
	"reclaim/internal/skiptrace"
	dErrors "reclaim/pkg/domain-errors"
	"reclaim/pkg/platform/httputil"
	pstrings "reclaim/pkg/platform/strings"
)

const (
	bulkTraceTimeout  = 90 * time.Second
	defaultReportDays = 30
)

// Reporter is the slice of the compliance oracle the report endpoint needs.
type Reporter interface {
	GenerateReport(ctx context.Context, days int) (*compliance.Report, error)
}

// Handler wires the public endpoints to the subsystems.
type Handler struct {
	leads      lead.Store
	cascade    *skiptrace.Cascade
	orch       *outreach.Orchestrator
	reporter   Reporter
	dispatcher *ops.Dispatcher
	logger     *slog.Logger
	checks     map[string]func(context.Context) error
}

type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithHealthCheck registers a named dependency probe for /healthz.
func WithHealthCheck(name string, probe func(context.Context) error) Option {
	return func(h *Handler) {
		if probe != nil {
			h.checks[name] = probe
		}
	}
}

func New(leads lead.Store, cascade *skiptrace.Cascade, orch *outreach.Orchestrator, reporter Reporter, dispatcher *ops.Dispatcher, opts ...Option) (*Handler, error) {
	if leads == nil || cascade == nil || orch == nil || reporter == nil || dispatcher == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "all handler dependencies are required")
	}
	h := &Handler{
		leads:      leads,
		cascade:    cascade,
		orch:       orch,
		reporter:   reporter,
		dispatcher: dispatcher,
		logger:     slog.New(slog.DiscardHandler),
		checks:     map[string]func(context.Context) error{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Register mounts all application endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/leads", h.handleCreateLead)
	r.Get("/leads/{leadID}", h.handleGetLead)

	r.Post("/skiptrace/cascade", h.handleCascade)
	r.Post("/skiptrace/bulk", h.handleBulk)

	r.Post("/outreach/send", h.handleSend)
	r.Post("/outreach/campaign", h.handleCampaign)

	r.Post("/ops/execute", h.handleExecute)

	r.Get("/compliance/report", h.handleReport)
	r.Get("/healthz", h.handleHealth)
}

type createLeadRequest struct {
	Name           string  `json:"name"`
	Phone          string  `json:"phone"`
	Email          string  `json:"email"`
	MailingAddress string  `json:"mailing_address"`
	ClaimAmount    float64 `json:"claim_amount"`
	State          string  `json:"state"`
	County         string  `json:"county"`
}

func (h *Handler) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[createLeadRequest](w, r, h.logger)
	if !ok {
		return
	}
	if req.Name == "" || req.State == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalid, "name and state are required"))
		return
	}

	now := time.Now().UTC()
	ld := &lead.Lead{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		MailingAddress: req.MailingAddress,
		ClaimAmount:    req.ClaimAmount,
		State:          req.State,
		County:         req.County,
		Status:         lead.StatusNew,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := h.leads.Put(r.Context(), ld); err != nil {
		h.logger.ErrorContext(r.Context(), "lead create failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, ld)
}

func (h *Handler) handleGetLead(w http.ResponseWriter, r *http.Request) {
	ld, err := h.leads.Get(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ld)
}

type traceRequest struct {
	LeadID string `json:"lead_id"`
}

type traceResponse struct {
	Enriched bool       `json:"enriched"`
	Lead     *lead.Lead `json:"lead,omitempty"`
}

func (h *Handler) handleCascade(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[traceRequest](w, r, h.logger)
	if !ok {
		return
	}
	if req.LeadID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalid, "lead_id is required"))
		return
	}

	ld, err := h.cascade.Trace(r.Context(), req.LeadID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "skip trace failed", "lead_id", req.LeadID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, traceResponse{Enriched: ld != nil, Lead: ld})
}

type bulkTraceRequest struct {
	LeadIDs []string `json:"lead_ids"`
}

type bulkTraceResponse struct {
	Requested int          `json:"requested"`
	Enriched  int          `json:"enriched"`
	Leads     []*lead.Lead `json:"leads"`
}

func (h *Handler) handleBulk(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[bulkTraceRequest](w, r, h.logger)
	if !ok {
		return
	}
	leadIDs := pstrings.DedupeAndTrim(req.LeadIDs)
	if len(leadIDs) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalid, "lead_ids is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bulkTraceTimeout)
	defer cancel()

	enriched, err := h.cascade.TraceBulk(ctx, leadIDs)
	if err != nil {
		h.logger.ErrorContext(ctx, "bulk skip trace failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, bulkTraceResponse{
		Requested: len(leadIDs),
		Enriched:  len(enriched),
		Leads:     enriched,
	})
}

type sendRequest struct {
	LeadID  string `json:"lead_id"`
	Channel string `json:"channel"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Phone   string `json:"phone"`
}

func (r sendRequest) draft() (outreach.Draft, error) {
	ch := lead.Channel(r.Channel)
	if !ch.Valid() {
		return outreach.Draft{}, dErrors.Newf(dErrors.CodeInvalid, "unknown channel %q", r.Channel)
	}
	if r.LeadID == "" {
		return outreach.Draft{}, dErrors.New(dErrors.CodeInvalid, "lead_id is required")
	}
	return outreach.Draft{
		LeadID:  r.LeadID,
		Channel: ch,
		Subject: r.Subject,
		Body:    r.Body,
		Phone:   r.Phone,
	}, nil
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[sendRequest](w, r, h.logger)
	if !ok {
		return
	}
	draft, err := req.draft()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.orch.Send(r.Context(), draft)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "send failed", "lead_id", draft.LeadID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

type campaignRequest struct {
	LeadIDs     []string `json:"lead_ids"`
	Channel     string   `json:"channel"`
	Subject     string   `json:"subject"`
	Body        string   `json:"body"`
	SendDelayMS int      `json:"send_delay_ms"`
}

func (h *Handler) handleCampaign(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[campaignRequest](w, r, h.logger)
	if !ok {
		return
	}
	leadIDs := pstrings.DedupeAndTrim(req.LeadIDs)
	if len(leadIDs) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalid, "lead_ids is required"))
		return
	}
	ch := lead.Channel(req.Channel)
	if !ch.Valid() {
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeInvalid, "unknown channel %q", req.Channel))
		return
	}

	result, err := h.orch.RunCampaign(r.Context(), outreach.Campaign{
		LeadIDs:   leadIDs,
		Draft:     outreach.Draft{Channel: ch, Subject: req.Subject, Body: req.Body},
		SendDelay: time.Duration(req.SendDelayMS) * time.Millisecond,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "campaign failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleExecute(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[ops.Request](w, r, h.logger)
	if !ok {
		return
	}
	if _, err := ops.ParseKind(string(req.Kind)); err != nil {
		httputil.WriteError(w, err)
		return
	}

	resp, err := h.dispatcher.Execute(r.Context(), req)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "operation failed", "kind", req.Kind, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	days := defaultReportDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalid, "days must be a positive integer"))
			return
		}
		days = parsed
	}

	report, err := h.reporter.GenerateReport(r.Context(), days)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "report generation failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

type healthResponse struct {
	Status string            `json:"status"`
	Deps   map[string]string `json:"deps,omitempty"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	status := http.StatusOK
	if len(h.checks) > 0 {
		resp.Deps = make(map[string]string, len(h.checks))
	}
	for name, probe := range h.checks {
		if err := probe(r.Context()); err != nil {
			resp.Deps[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Deps[name] = "ok"
	}
	httputil.WriteJSON(w, status, resp)
}
