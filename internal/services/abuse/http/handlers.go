// Package http provides http transport for abuse flag review
package http

import (
	stdhttp "net/http"

	"kudos/internal/modkit/httpkit"
	"kudos/internal/services/abuse/domain"
	svc "kudos/internal/services/abuse/service"
)

// Register mounts the flag review routes
func Register(r httpkit.Router, s *svc.Svc) {
	h := &handlers{svc: s}

	httpkit.PostJSON[domain.ReportInput](r, "/report", h.report)
	httpkit.PostJSON[domain.ListInput](r, "/list", h.list)
	httpkit.PostJSON[domain.StartReviewInput](r, "/start-review", h.startReview)
	httpkit.PostJSON[domain.ResolveInput](r, "/resolve", h.resolve)
	httpkit.PostJSON[domain.DismissInput](r, "/dismiss", h.dismiss)
}

type handlers struct{ svc *svc.Svc }

// swagger:route POST /flags/report Abuse abuseReport
// @Summary Raise a flag against an existing recognition
// @Tags Abuse
// @Accept json
// @Produce json
// @Param payload body domain.ReportInput true "Report"
// @Success 200 {object} domain.Flag "ok"
// @Failure 404 {object} httpkit.Envelope "unknown recognition"
// @Router /flags/report [post]
func (h *handlers) report(r *stdhttp.Request, in domain.ReportInput) (any, error) {
	reporter, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Report(r.Context(), reporter, in)
}

// swagger:route POST /flags/list Abuse abuseListFlags
// @Summary List abuse flags by status
// @Tags Abuse
// @Accept json
// @Produce json
// @Param payload body domain.ListInput true "Query"
// @Success 200 {array} domain.Flag "ok"
// @Router /flags/list [post]
func (h *handlers) list(r *stdhttp.Request, in domain.ListInput) (any, error) {
	return h.svc.ListByStatus(r.Context(), in.Status, in.Limit)
}

// swagger:route POST /flags/start-review Abuse abuseStartReview
// @Summary Take a pending flag under review
// @Tags Abuse
// @Accept json
// @Produce json
// @Param payload body domain.StartReviewInput true "Request"
// @Success 200 {object} domain.Flag "ok"
// @Failure 409 {object} httpkit.Envelope "not pending"
// @Router /flags/start-review [post]
func (h *handlers) startReview(r *stdhttp.Request, in domain.StartReviewInput) (any, error) {
	reviewer, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.svc.StartReview(r.Context(), in.FlagID, reviewer)
}

// swagger:route POST /flags/resolve Abuse abuseResolve
// @Summary Resolve a flag, optionally rewriting the recognition weight
// @Tags Abuse
// @Accept json
// @Produce json
// @Param payload body domain.ResolveInput true "Request"
// @Success 200 {object} domain.Flag "ok"
// @Failure 409 {object} httpkit.Envelope "not under review"
// @Router /flags/resolve [post]
func (h *handlers) resolve(r *stdhttp.Request, in domain.ResolveInput) (any, error) {
	reviewer, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Resolve(r.Context(), in.FlagID, reviewer, in.AdjustedWeight)
}

// swagger:route POST /flags/dismiss Abuse abuseDismiss
// @Summary Dismiss a flag as a false positive
// @Tags Abuse
// @Accept json
// @Produce json
// @Param payload body domain.DismissInput true "Request"
// @Success 200 {object} domain.Flag "ok"
// @Failure 409 {object} httpkit.Envelope "not under review"
// @Router /flags/dismiss [post]
func (h *handlers) dismiss(r *stdhttp.Request, in domain.DismissInput) (any, error) {
	reviewer, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Dismiss(r.Context(), in.FlagID, reviewer)
}
