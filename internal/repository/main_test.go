package repository

import (
	"fmt"
	"testing"

	"github.com/Sudip2708/poustovnik-english/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dbSeq int

// newTestDB opens a fresh in-memory SQLite database per test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbSeq++
	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", dbSeq)
	db, err := database.ConnectSQLite(dsn)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}
