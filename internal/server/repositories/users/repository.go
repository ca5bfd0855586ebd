// Package users declares the server-side repository contract for user
// accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/coursehub/internal/server/models"
)

// ListFilter narrows List. Zero fields match every user.
type ListFilter struct {
	// Search matches username or full name by substring, ignoring case.
	Search string
	Gender models.Gender
}

// Repository defines persistence operations for user accounts. Lookups only
// see users that have not been soft-deleted unless stated otherwise.
type Repository interface {
	// Create inserts user and fills its ID. A taken username yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// FindByUsername returns the live user with the exact username or
	// common.ErrorNotFound.
	FindByUsername(ctx context.Context, userName string) (*models.User, error)

	// ExistsByUsername reports whether the username is taken, including by a
	// deleted account.
	ExistsByUsername(ctx context.Context, userName string) (bool, error)

	FindByID(ctx context.Context, id int64) (*models.User, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// ExistsByUsernameExcept reports whether a user other than exceptID holds
	// the username.
	ExistsByUsernameExcept(ctx context.Context, userName string, exceptID int64) (bool, error)

	// Update stores the full name and username of a live user.
	Update(ctx context.Context, user *models.User) error

	// List returns one page of live users matching f, plus the total number
	// of matches.
	List(ctx context.Context, f ListFilter, limit, offset int) ([]*models.User, int64, error)

	// AddBalance adds amount to the user's balance and returns the new value.
	AddBalance(ctx context.Context, id int64, amount int64) (int64, error)

	// ReduceBalance takes amount off the balance and returns the new value.
	// It returns common.ErrorNotFound when there is no live user with enough
	// balance.
	ReduceBalance(ctx context.Context, id int64, amount int64) (int64, error)

	Trash(ctx context.Context, id int64) error
}
