// Package http provides http transport for the recognition write path
package http

import (
	stdhttp "net/http"

	"kudos/internal/modkit/httpkit"
	"kudos/internal/services/recognition/domain"
	svc "kudos/internal/services/recognition/service"
)

// Register mounts the recognition routes
func Register(r httpkit.Router, s *svc.Svc) {
	h := &handlers{svc: s}

	httpkit.PostJSON[domain.CreateInput](r, "/", h.create)
	httpkit.PostJSON[domain.GetInput](r, "/get", h.get)
}

type handlers struct{ svc *svc.Svc }

// swagger:route POST /recognitions Recognition recognitionCreate
// @Summary Grant a recognition to a peer
// @Description Runs the full admission pipeline. Supply an Idempotency-Key
// @Description header to make retries safe; replays return the original response.
// @Tags Recognition
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Client retry token"
// @Param payload body domain.CreateInput true "Recognition"
// @Success 200 {object} domain.CreateResult "ok"
// @Failure 403 {object} httpkit.Envelope "blocked by abuse policy"
// @Failure 409 {object} httpkit.Envelope "same token still in flight"
// @Failure 429 {object} httpkit.Envelope "rate limit or quota exhausted"
// @Router /recognitions [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	orgID, err := httpkit.Org(r)
	if err != nil {
		return nil, err
	}
	giverID, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	token := r.Header.Get("Idempotency-Key")
	return h.svc.Create(r.Context(), orgID, giverID, token, in)
}

// swagger:route POST /recognitions/get Recognition recognitionGet
// @Summary Fetch one recognition
// @Tags Recognition
// @Accept json
// @Produce json
// @Param payload body domain.GetInput true "Query"
// @Success 200 {object} domain.Recognition "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /recognitions/get [post]
func (h *handlers) get(r *stdhttp.Request, in domain.GetInput) (any, error) {
	orgID, err := httpkit.Org(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Get(r.Context(), orgID, in.ID)
}
