package refreshtokens

import (
	"context"

	"github.com/dmitrijs2005/coursehub/internal/server/models"
)

// Repository defines operations for storing, looking up and revoking refresh
// tokens. Tokens are revoked by soft deletion and never removed.
type Repository interface {
	// Create stores token for userID.
	Create(ctx context.Context, userID int64, token string) error

	// FindActive looks up a non-deleted token by its literal string, together
	// with its owner's username. Missing or deleted tokens yield
	// common.ErrorNotFound.
	FindActive(ctx context.Context, token string) (*models.RefreshToken, error)

	// Trash marks token deleted if it is live and owned by userID, otherwise
	// it returns common.ErrorNotFound.
	Trash(ctx context.Context, token string, userID int64) error
}
