package store_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/condobill/internal/database"
	"github.com/MrJamesThe3rd/condobill/internal/tenantconfig"
	"github.com/MrJamesThe3rd/condobill/internal/tenantconfig/store"
)

var columns = []string{"customer_id", "config_key", "value", "data_type", "metadata", "update_date", "update_by"}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *store.Store) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return db, mock, store.New(db)
}

func TestStore_Get(t *testing.T) {
	db, mock, s := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`FROM app_customer_config WHERE customer_id = \$1 AND config_key = \$2 AND status != 2`).
		WithArgs("c1", tenantconfig.KeyResendInterval).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("c1", tenantconfig.KeyResendInterval, "15", "number", []byte(`{"unit":"minute"}`), nil, nil))

	e, err := s.Get(context.Background(), "c1", tenantconfig.KeyResendInterval)
	require.NoError(t, err)
	assert.Equal(t, tenantconfig.Value{Kind: tenantconfig.TypeNumber, Raw: "15"}, e.Value)
	assert.JSONEq(t, `{"unit":"minute"}`, string(e.Metadata))
	assert.Nil(t, e.UpdateDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetGlobalMissing(t *testing.T) {
	db, mock, s := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`FROM app_config WHERE config_key = \$1 AND status != 2`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := s.GetGlobal(context.Background(), "nope")
	assert.ErrorIs(t, err, tenantconfig.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ListSkipsDeleted(t *testing.T) {
	db, mock, s := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`FROM app_customer_config WHERE customer_id = \$1 AND status != 2 ORDER BY config_key`).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("c1", "a", "30", "number", nil, nil, nil))
	mock.ExpectQuery(`FROM app_config WHERE status != 2 ORDER BY config_key`).
		WillReturnRows(sqlmock.NewRows(columns))

	entries, err := s.List(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].Key)

	global, err := s.ListGlobal(context.Background())
	require.NoError(t, err)
	assert.Empty(t, global)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_InsertIgnore(t *testing.T) {
	db, mock, s := setupMockDB(t)
	defer db.Close()

	entries := []*tenantconfig.Entry{
		{CustomerID: "c1", Key: "a", Value: tenantconfig.Value{Kind: tenantconfig.TypeNumber, Raw: "30"}},
		{CustomerID: "c1", Key: "b", Value: tenantconfig.Value{Kind: tenantconfig.TypeJSON, Raw: `["app"]`}},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1)")).
		WithArgs(database.LockKey("config", "c1")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("VALUES ($1, $2, $3, $4, $5), ($6, $7, $8, $9, $10)")+`\s+ON CONFLICT \(customer_id, config_key\) DO UPDATE .* WHERE app_customer_config.status = 2`).
		WithArgs("c1", "a", "30", "number", nil, "c1", "b", `["app"]`, "json", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := s.InsertIgnore(context.Background(), entries)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Upsert(t *testing.T) {
	db, mock, s := setupMockDB(t)
	defer db.Close()

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO app_customer_config .* ON CONFLICT \(customer_id, config_key\) DO UPDATE`).
		WithArgs("c1", "a", "true", "boolean", nil, "u1").
		WillReturnRows(sqlmock.NewRows([]string{"update_date", "update_by"}).AddRow(now, "u1"))

	e := &tenantconfig.Entry{CustomerID: "c1", Key: "a", Value: tenantconfig.Value{Kind: tenantconfig.TypeBoolean, Raw: "true"}}
	require.NoError(t, s.Upsert(context.Background(), e, "u1"))
	require.NotNil(t, e.UpdateBy)
	assert.Equal(t, "u1", *e.UpdateBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}
