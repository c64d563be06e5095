package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/condobill/internal/database"
	"github.com/MrJamesThe3rd/condobill/internal/tenantconfig"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: customer_id, config_key, value, data_type, metadata, update_date, update_by
func scanEntry(s scanner) (*tenantconfig.Entry, error) {
	var (
		e        tenantconfig.Entry
		dataType string
		meta     []byte
	)

	if err := s.Scan(&e.CustomerID, &e.Key, &e.Value.Raw, &dataType, &meta, &e.UpdateDate, &e.UpdateBy); err != nil {
		return nil, err
	}

	e.Value.Kind = tenantconfig.DataType(dataType)

	if len(meta) > 0 {
		e.Metadata = json.RawMessage(meta)
	}

	return &e, nil
}

const selectTenantColumns = `customer_id, config_key, value, data_type, metadata, update_date, update_by`

const selectGlobalColumns = `'' AS customer_id, config_key, value, data_type, metadata, update_date, NULL::text AS update_by`

func (s *Store) Get(ctx context.Context, customerID, key string) (*tenantconfig.Entry, error) {
	query := `SELECT ` + selectTenantColumns + ` FROM app_customer_config WHERE customer_id = $1 AND config_key = $2 AND status != 2`

	return s.getOne(ctx, query, customerID, key)
}

func (s *Store) GetGlobal(ctx context.Context, key string) (*tenantconfig.Entry, error) {
	query := `SELECT ` + selectGlobalColumns + ` FROM app_config WHERE config_key = $1 AND status != 2`

	return s.getOne(ctx, query, key)
}

func (s *Store) getOne(ctx context.Context, query string, args ...any) (*tenantconfig.Entry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tenantconfig.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("getting config: %w", err)
	}

	return e, nil
}

func (s *Store) ListGlobal(ctx context.Context) ([]*tenantconfig.Entry, error) {
	return s.list(ctx, `SELECT `+selectGlobalColumns+` FROM app_config WHERE status != 2 ORDER BY config_key`)
}

func (s *Store) List(ctx context.Context, customerID string) ([]*tenantconfig.Entry, error) {
	return s.list(ctx, `SELECT `+selectTenantColumns+` FROM app_customer_config WHERE customer_id = $1 AND status != 2 ORDER BY config_key`, customerID)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]*tenantconfig.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing config: %w", err)
	}
	defer rows.Close()

	var entries []*tenantconfig.Entry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning config: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating config rows: %w", err)
	}

	return entries, nil
}

func nullableJSON(m json.RawMessage) any {
	if len(m) == 0 {
		return nil
	}

	return string(m)
}

// InsertIgnore seeds one tenant's rows under a per-tenant advisory lock so concurrent seeds
// report disjoint counts. A soft-deleted key counts as absent and is brought back with the
// seeded value.
func (s *Store) InsertIgnore(ctx context.Context, entries []*tenantconfig.Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	var (
		q      database.Query
		tuples = make([]string, len(entries))
	)

	for i, e := range entries {
		tuples[i] = "(" + strings.Join([]string{
			q.Bind(e.CustomerID), q.Bind(e.Key), q.Bind(e.Value.Raw), q.Bind(string(e.Value.Kind)), q.Bind(nullableJSON(e.Metadata)),
		}, ", ") + ")"
	}

	query := `INSERT INTO app_customer_config (customer_id, config_key, value, data_type, metadata)
		VALUES ` + strings.Join(tuples, ", ") + `
		ON CONFLICT (customer_id, config_key) DO UPDATE
		SET value = EXCLUDED.value,
			data_type = EXCLUDED.data_type,
			metadata = EXCLUDED.metadata,
			status = 0,
			update_date = NULL,
			update_by = NULL
		WHERE app_customer_config.status = 2`

	var n int64

	err := database.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := database.XactLock(ctx, tx, database.LockKey("config", entries[0].CustomerID)); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, query, q.Args()...)
		if err != nil {
			return fmt.Errorf("inserting config: %w", err)
		}

		if n, err = res.RowsAffected(); err != nil {
			return fmt.Errorf("counting inserted config: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return int(n), nil
}

func (s *Store) Upsert(ctx context.Context, e *tenantconfig.Entry, actor string) error {
	query := `
		INSERT INTO app_customer_config (customer_id, config_key, value, data_type, metadata, update_date, update_by)
		VALUES ($1, $2, $3, $4, $5, NOW(), $6)
		ON CONFLICT (customer_id, config_key) DO UPDATE
		SET value = EXCLUDED.value,
			data_type = EXCLUDED.data_type,
			metadata = COALESCE(EXCLUDED.metadata, app_customer_config.metadata),
			status = 0,
			update_date = NOW(),
			update_by = EXCLUDED.update_by
		RETURNING update_date, update_by
	`

	err := s.db.QueryRowContext(ctx, query,
		e.CustomerID, e.Key, e.Value.Raw, string(e.Value.Kind), nullableJSON(e.Metadata), actor,
	).Scan(&e.UpdateDate, &e.UpdateBy)
	if err != nil {
		return fmt.Errorf("upserting config: %w", err)
	}

	return nil
}
