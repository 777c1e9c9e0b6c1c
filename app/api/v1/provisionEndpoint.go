package v1

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Strum355/log"
	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/pvetools/mcpdeploy/app/api/models"
	"github.com/pvetools/mcpdeploy/app/models/provision"
	host "github.com/pvetools/mcpdeploy/app/repositories/containerHost"
	"github.com/pvetools/mcpdeploy/app/services"
)

// Provisioner is what the endpoint needs from the service layer.
type Provisioner interface {
	Provision(ctx context.Context, def provision.Definition) error
}

type ProvisionEndpoint struct {
	service Provisioner
}

type provisionRequest struct {
	ID       int    `json:"id,omitempty"`
	Hostname string `json:"hostname,omitempty"`
}

type provisionResult struct {
	JobID    string `json:"job_id"`
	ID       int    `json:"id"`
	Hostname string `json:"hostname"`
}

func NewProvisionEndpoint() (*ProvisionEndpoint, error) {
	service, err := services.NewProvisionService()
	if err != nil {
		return nil, err
	}
	return &ProvisionEndpoint{service: service}, nil
}

func (p *ProvisionEndpoint) Mount(r chi.Router) {
	r.Post("/provision", p.provision)
}

func (p *ProvisionEndpoint) provision(w http.ResponseWriter, r *http.Request) {
	def := provision.FromConfig()

	if r.Body != nil && r.ContentLength != 0 {
		var req provisionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.Render(w, r, &models.APIResponse{
				Status:  http.StatusBadRequest,
				Content: map[string]string{"error": "malformed request body"},
			})
			return
		}
		if req.ID != 0 {
			def.ID = req.ID
		}
		if req.Hostname != "" {
			def.Hostname = req.Hostname
		}
	}

	jobID := uuid.New().String()
	log.WithFields(log.Fields{
		"jobID":       jobID,
		"containerID": def.ID,
		"hostname":    def.Hostname,
	}).Info("provision request")

	// Provisioning runs are exclusive; the request blocks until done.
	if err := p.service.Provision(r.Context(), def); err != nil {
		log.WithError(err).Error("provisioning failed")
		render.Render(w, r, &models.APIResponse{
			Status:  statusFor(err),
			Content: map[string]string{"job_id": jobID, "error": err.Error()},
		})
		return
	}

	render.Render(w, r, &models.APIResponse{
		Status: http.StatusCreated,
		Content: provisionResult{
			JobID:    jobID,
			ID:       def.ID,
			Hostname: def.Hostname,
		},
	})
}

func statusFor(err error) int {
	var hostErr host.Error
	if errors.As(err, &hostErr) {
		return hostErr.StatusCode
	}
	if errors.Is(err, services.ErrNotRoot) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
