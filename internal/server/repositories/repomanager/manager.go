// Package repomanager groups repository construction behind one interface,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dkarklins/jobfolio/internal/dbx"
	"github.com/dkarklins/jobfolio/internal/server/repositories/links"
	"github.com/dkarklins/jobfolio/internal/server/repositories/profiles"
	"github.com/dkarklins/jobfolio/internal/server/repositories/refreshtokens"
	"github.com/dkarklins/jobfolio/internal/server/repositories/resettokens"
	"github.com/dkarklins/jobfolio/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	ResetTokens(db dbx.DBTX) resettokens.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Links(db dbx.DBTX) links.Repository
}
