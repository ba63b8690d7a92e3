package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildImportLogsQuery(t *testing.T) {
	sql, args, err := buildImportLogsQuery(7, 0)
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM import_logs WHERE user_id = $1")
	assert.Contains(t, sql, "ORDER BY created_at DESC, id DESC")
	assert.Contains(t, sql, "LIMIT 50")
	assert.Equal(t, []any{7}, args)

	sql, _, err = buildImportLogsQuery(7, 5)
	require.NoError(t, err)
	assert.Contains(t, sql, "LIMIT 5")
}

func TestImportLogOutcomeLeavesOwnerAlone(t *testing.T) {
	cols := ImportLog{UserID: 3, Source: "hevy_csv", Status: ImportSuccess, RowsReceived: 4}.outcome()
	assert.NotContains(t, cols, "user_id")
	assert.NotContains(t, cols, "source")
	assert.Equal(t, ImportSuccess, cols["status"])
	assert.Equal(t, 4, cols["rows_received"])

	sql, args, err := psql.Update("import_logs").SetMap(cols).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "status = $")
	assert.Len(t, args, len(cols))
}
