package form

import (
	"context"
	"errors"
	"strings"

	"github.com/ikkim/franchise-portal/pkg/portalclient"
)

// Guard checks whether an application already exists for an email. The
// result only disables the form; the server enforces uniqueness itself.
type Guard struct {
	backend Backend
}

// NewGuard creates a guard backed by the portal API.
func NewGuard(backend Backend) *Guard {
	return &Guard{backend: backend}
}

// AlreadySubmitted issues one lookup for email. A missing email or a
// not-found answer means nothing was submitted yet.
func (g *Guard) AlreadySubmitted(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, nil
	}
	app, err := g.backend.GetApplicationByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, portalclient.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return app != nil && app.Email != "", nil
}
