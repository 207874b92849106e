package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestUniqueViolationConstraint(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: constraintAccountsEmail})

	name, ok := uniqueViolationConstraint(wrapped)
	assert.True(t, ok)
	assert.Equal(t, constraintAccountsEmail, name)

	_, ok = uniqueViolationConstraint(&pgconn.PgError{Code: "23503"})
	assert.False(t, ok)

	_, ok = uniqueViolationConstraint(errors.New("plain"))
	assert.False(t, ok)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, defaultListLimit, clampLimit(0))
	assert.Equal(t, defaultListLimit, clampLimit(-5))
	assert.Equal(t, 20, clampLimit(20))
	assert.Equal(t, maxListLimit, clampLimit(maxListLimit+1))
}

func TestSchemaDeclaresEveryVerifiedTable(t *testing.T) {
	for _, table := range schemaTables {
		assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
	assert.Contains(t, schemaSQL, "CONSTRAINT "+constraintAccountsUsername+" UNIQUE")
	assert.Contains(t, schemaSQL, "CONSTRAINT "+constraintAccountsEmail+" UNIQUE")
}
