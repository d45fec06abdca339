// Package http provides http transport for job inspection
package http

import (
	stdhttp "net/http"

	"kudos/internal/modkit/httpkit"
	"kudos/internal/services/jobs/domain"
	svc "kudos/internal/services/jobs/service"
)

// Register mounts the job inspection routes
func Register(r httpkit.Router, s *svc.Svc) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.GetInput](r, "/get", h.get)
	httpkit.PostJSON[domain.DeadLetterInput](r, "/dead-letter", h.deadLetter)
}

type handlers struct{ svc *svc.Svc }

// swagger:route POST /jobs/get Jobs jobsGet
// @Summary Fetch one job by id
// @Tags Jobs
// @Accept json
// @Produce json
// @Param payload body domain.GetInput true "Query"
// @Success 200 {object} domain.Job "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /jobs/get [post]
func (h *handlers) get(r *stdhttp.Request, in domain.GetInput) (any, error) {
	return h.svc.Get(r.Context(), in.JobID)
}

// swagger:route POST /jobs/dead-letter Jobs jobsDeadLetter
// @Summary Recent dead-lettered jobs
// @Tags Jobs
// @Accept json
// @Produce json
// @Param payload body domain.DeadLetterInput true "Query"
// @Success 200 {array} domain.Job "ok"
// @Router /jobs/dead-letter [post]
func (h *handlers) deadLetter(r *stdhttp.Request, in domain.DeadLetterInput) (any, error) {
	return h.svc.ListDeadLetter(r.Context(), in.Limit)
}
