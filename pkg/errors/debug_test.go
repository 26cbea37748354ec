package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpExtractsPostgresDetails(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "vendors_slug_key",
		TableName:      "vendors",
		Message:        "duplicate key value violates unique constraint",
	}
	err := Wrap(CodeConflict, fmt.Errorf("update vendor: %w", pgErr), "slug taken")

	dump := Dump(err)
	assert.Equal(t, CodeConflict, dump.Code)
	assert.Equal(t, "23505", dump.PGCode)
	assert.Equal(t, "vendors_slug_key", dump.PGConstraint)
	require.Len(t, dump.Chain, 3)

	fields := dump.Fields()
	assert.Equal(t, "vendors", fields["pg_table"])
	_, hasDetail := fields["pg_detail"]
	assert.False(t, hasDetail, "empty postgres attributes are omitted")
}

func TestDumpNil(t *testing.T) {
	assert.Equal(t, ErrorDump{}, Dump(nil))
}
