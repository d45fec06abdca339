// Package http provides http transport for quota administration
package http

import (
	stdhttp "net/http"

	"kudos/internal/modkit/httpkit"
	"kudos/internal/services/quota/domain"
	svc "kudos/internal/services/quota/service"
)

// Register mounts the quota routes
func Register(r httpkit.Router, s *svc.Svc) {
	h := &handlers{svc: s}

	httpkit.PostJSON[domain.StatusInput](r, "/status", h.status)
	httpkit.PostJSON[domain.IncreaseInput](r, "/increases", h.requestIncrease)
	httpkit.PostJSON[domain.ReviewInput](r, "/increases/review", h.review)
	httpkit.PostJSON[domain.ApplyInput](r, "/increases/apply", h.apply)
	httpkit.PostJSON[domain.GetIncreaseInput](r, "/increases/get", h.get)
}

type handlers struct{ svc *svc.Svc }

// swagger:route POST /quotas/status Quota quotaStatus
// @Summary Current quota budget for an org and action type
// @Tags Quota
// @Accept json
// @Produce json
// @Param payload body domain.StatusInput true "Query"
// @Success 200 {object} domain.StatusResponse "ok"
// @Router /quotas/status [post]
func (h *handlers) status(r *stdhttp.Request, in domain.StatusInput) (any, error) {
	d, err := h.svc.Check(r.Context(), in.OrgID, in.ActionType)
	if err != nil {
		return nil, err
	}
	return domain.StatusResponse{Allowed: d.Allowed, Remaining: d.Remaining, ResetAt: d.ResetAt}, nil
}

// swagger:route POST /quotas/increases Quota quotaRequestIncrease
// @Summary Request a ceiling increase
// @Tags Quota
// @Accept json
// @Produce json
// @Param payload body domain.IncreaseInput true "Request"
// @Success 200 {object} domain.IncreaseRequest "ok"
// @Router /quotas/increases [post]
func (h *handlers) requestIncrease(r *stdhttp.Request, in domain.IncreaseInput) (any, error) {
	requestedBy, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.svc.RequestIncrease(r.Context(), in.OrgID, in.ActionType, requestedBy, in.RequestedMax, in.Justification)
}

// swagger:route POST /quotas/increases/review Quota quotaReviewIncrease
// @Summary Approve or reject a pending increase request
// @Tags Quota
// @Accept json
// @Produce json
// @Param payload body domain.ReviewInput true "Decision"
// @Success 200 {object} domain.IncreaseRequest "ok"
// @Failure 409 {object} httpkit.Envelope "not pending"
// @Router /quotas/increases/review [post]
func (h *handlers) review(r *stdhttp.Request, in domain.ReviewInput) (any, error) {
	reviewer, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.svc.ReviewIncrease(r.Context(), in.RequestID, reviewer, in.Approve)
}

// swagger:route POST /quotas/increases/apply Quota quotaApplyIncrease
// @Summary Apply an approved increase to the org's ceiling
// @Tags Quota
// @Accept json
// @Produce json
// @Param payload body domain.ApplyInput true "Request"
// @Success 200 {object} domain.Quota "ok"
// @Failure 409 {object} httpkit.Envelope "not approved or already applied"
// @Router /quotas/increases/apply [post]
func (h *handlers) apply(r *stdhttp.Request, in domain.ApplyInput) (any, error) {
	return h.svc.ApplyApprovedCeiling(r.Context(), in.RequestID)
}

// swagger:route POST /quotas/increases/get Quota quotaGetIncrease
// @Summary Fetch one increase request
// @Tags Quota
// @Accept json
// @Produce json
// @Param payload body domain.GetIncreaseInput true "Query"
// @Success 200 {object} domain.IncreaseRequest "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /quotas/increases/get [post]
func (h *handlers) get(r *stdhttp.Request, in domain.GetIncreaseInput) (any, error) {
	return h.svc.GetIncrease(r.Context(), in.RequestID)
}
