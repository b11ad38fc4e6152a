package public

import (
	"github.com/partnerdesk/partnerdesk/internal/provider"
)

// Handler serves the partner-facing API surface.
type Handler struct {
	*provider.Container
}

func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
