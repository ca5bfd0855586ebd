package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/coursehub/internal/dbx"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/courses"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/payments"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Courses(db dbx.DBTX) courses.Repository
	Payments(db dbx.DBTX) payments.Repository
}
