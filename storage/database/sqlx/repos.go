// Package sqlxrepos implements the core repositories on PostgreSQL via sqlx.
package sqlxrepos

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// trapNoRowsErr maps sql.ErrNoRows to the domain's own not-found error so
// callers never see database internals.
func trapNoRowsErr(err, notFound error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return err
}

func newPK() string { return uuid.New().String() }

// idArray adapts a variadic id list for "= ANY($1)" clauses.
func idArray(ids []string) interface{} { return pq.Array(ids) }
