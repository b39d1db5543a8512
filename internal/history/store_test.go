package history

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestStore_RecordAndList(t *testing.T) {
	store, err := Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Record(ctx, &RunRecord{
		InstanceName: "panels",
		Complete:     true,
		MaterialCost: 120,
		RunTimeMS:    450,
		NThreads:     4,
	}))
	require.NoError(t, store.Record(ctx, &RunRecord{
		InstanceName: "panels-2",
		Complete:     false,
		MaterialCost: 80,
	}))

	recs, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "panels-2", recs[0].InstanceName) // newest first

	got, err := store.Get(ctx, recs[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "panels", got.InstanceName)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "dsn")
	assert.Error(t, err)
}

// TestStore_Record_EmitsInsert exercises Record against a sqlmock-backed
// connection, asserting on the generated statement rather than a real
// database, the way the repository layer this store superseded tested its
// MySQL path.
func TestStore_Record_EmitsInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dialector := mysql.New(mysql.Config{Conn: db, SkipInitializeWithVersion: true})
	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	store := &Store{db: gdb}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `solver_runs`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = store.Record(context.Background(), &RunRecord{
		InstanceName: "panels",
		Complete:     true,
		MaterialCost: 120,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
