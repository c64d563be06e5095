package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/condobill/internal/database"
	"github.com/MrJamesThe3rd/condobill/internal/notification"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type resendTx struct {
	tx *sql.Tx
}

func (s *Store) BeginResend(ctx context.Context, table string, rowsID int64, customerID string) (notification.ResendTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning resend tx: %w", err)
	}

	key := database.LockKey("notify", table, customerID, strconv.FormatInt(rowsID, 10))
	if err := database.XactLock(ctx, dbTx, key); err != nil {
		dbTx.Rollback()
		return nil, err
	}

	return &resendTx{tx: dbTx}, nil
}

func (r *resendTx) Commit() error   { return r.tx.Commit() }
func (r *resendTx) Rollback() error { return r.tx.Rollback() }

func (r *resendTx) RowExists(ctx context.Context, table string, rowsID int64, customerID string) (bool, error) {
	if table != notification.TableBillRoom {
		return false, nil
	}

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM bill_room_information r
			JOIN bill_information b ON b.id = r.bill_id
			WHERE r.id = $1 AND r.customer_id = $2 AND r.status != 2 AND b.status != 2
		)
	`

	var ok bool
	if err := r.tx.QueryRowContext(ctx, query, rowsID, customerID).Scan(&ok); err != nil {
		return false, fmt.Errorf("checking unit charge: %w", err)
	}

	return ok, nil
}

func (r *resendTx) Latest(ctx context.Context, table string, rowsID int64, customerID string) (*time.Time, error) {
	query := `
		SELECT create_date
		FROM notification_audit_information
		WHERE table_name = $1 AND rows_id = $2 AND customer_id = $3
		ORDER BY create_date DESC
		LIMIT 1
	`

	var last time.Time

	err := r.tx.QueryRowContext(ctx, query, table, rowsID, customerID).Scan(&last)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading latest notification: %w", err)
	}

	return &last, nil
}

func (r *resendTx) Append(ctx context.Context, a *notification.Audit) error {
	return insertOne(ctx, r.tx, a)
}

func insertOne(ctx context.Context, db execer, a *notification.Audit) error {
	query := `
		INSERT INTO notification_audit_information (table_name, rows_id, customer_id, remark, create_by, create_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := db.QueryRowContext(ctx, query,
		a.TableName, a.RowsID, a.CustomerID, a.Remark, a.CreateBy, a.CreateDate,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("inserting notification audit: %w", err)
	}

	return nil
}

// AppendMany writes all audits in a single multi-row INSERT.
func (s *Store) AppendMany(ctx context.Context, audits []*notification.Audit) error {
	if len(audits) == 0 {
		return nil
	}

	var (
		q      database.Query
		tuples = make([]string, len(audits))
	)

	for i, a := range audits {
		tuples[i] = "(" + strings.Join([]string{
			q.Bind(a.TableName), q.Bind(a.RowsID), q.Bind(a.CustomerID),
			q.Bind(a.Remark), q.Bind(a.CreateBy), q.Bind(a.CreateDate),
		}, ", ") + ")"
	}

	query := `INSERT INTO notification_audit_information (table_name, rows_id, customer_id, remark, create_by, create_date)
		VALUES ` + strings.Join(tuples, ", ")

	if _, err := s.db.ExecContext(ctx, query, q.Args()...); err != nil {
		return fmt.Errorf("inserting notification audits: %w", err)
	}

	return nil
}

func (s *Store) ActiveRoomIDs(ctx context.Context, billID int64, customerID string) ([]int64, error) {
	query := `
		SELECT id
		FROM bill_room_information
		WHERE bill_id = $1 AND customer_id = $2 AND status != 2
		ORDER BY create_date ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, billID, customerID)
	if err != nil {
		return nil, fmt.Errorf("listing unit charges: %w", err)
	}
	defer rows.Close()

	var ids []int64

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning unit charge id: %w", err)
		}

		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating unit charge ids: %w", err)
	}

	return ids, nil
}

func (s *Store) LatestSent(ctx context.Context, table, customerID string, ids []int64) (map[int64]time.Time, error) {
	out := make(map[int64]time.Time, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var q database.Query
	q.Where("table_name = ?", table).Where("customer_id = ?", customerID)

	inIDs := database.In(&q, ids)
	q.Where("rows_id IN " + inIDs)

	query := `SELECT rows_id, MAX(create_date) FROM notification_audit_information` + q.Clause() + ` GROUP BY rows_id`

	rows, err := s.db.QueryContext(ctx, query, q.Args()...)
	if err != nil {
		return nil, fmt.Errorf("listing latest notifications: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   int64
			last time.Time
		)

		if err := rows.Scan(&id, &last); err != nil {
			return nil, fmt.Errorf("scanning latest notification: %w", err)
		}

		out[id] = last
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating latest notifications: %w", err)
	}

	return out, nil
}
