package handler

import (
	"github.com/cntpdlab/leadrelay/internal/server"
	"github.com/cntpdlab/leadrelay/internal/service"
)

// Handlers is a container that groups all HTTP handlers, so router
// setup passes one object around instead of many.
type Handlers struct {
	Lead   *LeadHandler   // Lead serves the contact-form intake endpoint.
	Probe  *ProbeHandler  // Probe serves the delivery diagnostic endpoint.
	Health *HealthHandler // Health serves the service health endpoint.
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Lead:   NewLeadHandler(s, services),
		Probe:  NewProbeHandler(s, services),
		Health: NewHealthHandler(s),
	}
}
