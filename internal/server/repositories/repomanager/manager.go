package repomanager

import (
	"context"
	"database/sql"

	"github.com/winelog/winelog/internal/dbx"
	"github.com/winelog/winelog/internal/server/repositories/diaries"
	"github.com/winelog/winelog/internal/server/repositories/refreshtokens"
	"github.com/winelog/winelog/internal/server/repositories/users"
	"github.com/winelog/winelog/internal/server/repositories/wines"
)

// RepositoryManager hands out repositories bound to a DBTX, so the same
// repository code runs against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Wines(db dbx.DBTX) wines.Repository
	Diaries(db dbx.DBTX) diaries.Repository
}
