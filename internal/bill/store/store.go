package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/condobill/internal/bill"
	"github.com/MrJamesThe3rd/condobill/internal/database"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectBillColumns = `
	b.id, b.bill_no, b.customer_id, COALESCE(b.upload_key, ''), b.title, COALESCE(b.bill_type_id, 0),
	b.detail, b.expire_date, b.send_date, b.remark, b.status,
	b.create_date, b.create_by, b.update_date, b.update_by
`

// scanBill reads the columns of selectBillColumns, followed by any extra destinations.
func scanBill(s scanner, extra ...any) (*bill.Bill, error) {
	var (
		b      bill.Bill
		status int
	)

	dest := append([]any{
		&b.ID, &b.BillNo, &b.CustomerID, &b.UploadKey, &b.Title, &b.TypeID,
		&b.Detail, &b.ExpireDate, &b.SendDate, &b.Remark, &status,
		&b.CreateDate, &b.CreateBy, &b.UpdateDate, &b.UpdateBy,
	}, extra...)

	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	b.Status = bill.Status(status)

	return &b, nil
}

func (s *Store) LatestAttachment(ctx context.Context, uploadKey string) (*bill.Attachment, error) {
	query := `
		SELECT upload_key, file_name, file_path, file_ext, file_size
		FROM bill_attachment
		WHERE upload_key = $1 AND status != 2
		ORDER BY create_date DESC, id DESC
		LIMIT 1
	`

	var a bill.Attachment

	err := s.db.QueryRowContext(ctx, query, uploadKey).Scan(&a.UploadKey, &a.FileName, &a.FilePath, &a.FileExt, &a.FileSize)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, bill.ErrAttachmentMissing.With("upload_key", uploadKey)
	}

	if err != nil {
		return nil, fmt.Errorf("getting attachment: %w", err)
	}

	return &a, nil
}

type tx struct {
	tx *sql.Tx
}

func (s *Store) Begin(ctx context.Context) (bill.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning bill tx: %w", err)
	}

	return &tx{tx: dbTx}, nil
}

func (t *tx) Commit() error   { return t.tx.Commit() }
func (t *tx) Rollback() error { return t.tx.Rollback() }

// seriesTable is where identifiers of a series live. Unit charges keep their invoice number in bill_no.
func seriesTable(p bill.Prefix) string {
	if p == bill.PrefixInvoice {
		return "bill_room_information"
	}

	return "bill_information"
}

// NextNumbers serializes minting per (prefix, tenant, day) on an advisory lock, then reads the
// highest issued identifier FOR UPDATE and continues after it. A batch that would reuse a number
// still held by a live row is refused.
func (t *tx) NextNumbers(ctx context.Context, p bill.Prefix, customerID, day string, k int) ([]string, error) {
	if k <= 0 {
		return nil, nil
	}

	if err := database.XactLock(ctx, t.tx, database.LockKey("mint", string(p), customerID, day)); err != nil {
		return nil, err
	}

	table := seriesTable(p)

	latestQuery := `SELECT bill_no FROM ` + table + `
		WHERE customer_id = $1 AND bill_no LIKE $2
		ORDER BY bill_no DESC
		LIMIT 1
		FOR UPDATE`

	var latest string

	err := t.tx.QueryRowContext(ctx, latestQuery, customerID, bill.SeriesPattern(p, day)).Scan(&latest)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reading latest %s number: %w", p, err)
	}

	nos, err := bill.Sequence(p, day, latest, k)
	if err != nil {
		return nil, err
	}

	var q database.Query
	q.Where("customer_id = ?", customerID).Where("status != 2")

	inNos := database.In(&q, nos)
	q.Where("bill_no IN " + inNos)

	var taken string

	err = t.tx.QueryRowContext(ctx, `SELECT bill_no FROM `+table+q.Clause()+` LIMIT 1`, q.Args()...).Scan(&taken)
	if err == nil {
		return nil, bill.ErrIdentifierExhausted.With("collision", taken)
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("checking %s collisions: %w", p, err)
	}

	return nos, nil
}

func (t *tx) InsertBill(ctx context.Context, b *bill.Bill) error {
	query := `
		INSERT INTO bill_information (
			bill_no, customer_id, upload_key, title, bill_type_id, detail,
			expire_date, send_date, remark, status, create_date, create_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`

	err := t.tx.QueryRowContext(ctx, query,
		b.BillNo, b.CustomerID, nullString(b.UploadKey), b.Title, nullID(b.TypeID), b.Detail,
		b.ExpireDate, b.SendDate, b.Remark, int(b.Status), b.CreateDate, b.CreateBy,
	).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("inserting bill: %w", err)
	}

	return nil
}

// InsertRooms writes all unit charges in one multi-row INSERT and assigns their ids in input order.
func (t *tx) InsertRooms(ctx context.Context, rooms []*bill.Room) error {
	if len(rooms) == 0 {
		return nil
	}

	var (
		q      database.Query
		tuples = make([]string, len(rooms))
	)

	for i, r := range rooms {
		tuples[i] = "(" + strings.Join([]string{
			q.Bind(r.BillID), q.Bind(r.InvoiceNo), q.Bind(r.CustomerID), q.Bind(r.HouseNo),
			q.Bind(r.MemberName), q.Bind(r.TotalPrice), q.Bind(r.Remark), q.Bind(int(r.Status)),
			q.Bind(r.CreateDate), q.Bind(r.CreateBy),
		}, ", ") + ")"
	}

	query := `INSERT INTO bill_room_information
		(bill_id, bill_no, customer_id, house_no, member_name, total_price, remark, status, create_date, create_by)
		VALUES ` + strings.Join(tuples, ", ") + ` RETURNING id`

	rows, err := t.tx.QueryContext(ctx, query, q.Args()...)
	if err != nil {
		return fmt.Errorf("inserting unit charges: %w", err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		if i >= len(rooms) {
			return fmt.Errorf("inserting unit charges: more ids than rows")
		}

		if err := rows.Scan(&rooms[i].ID); err != nil {
			return fmt.Errorf("scanning unit charge id: %w", err)
		}

		i++
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating unit charge ids: %w", err)
	}

	if i != len(rooms) {
		return fmt.Errorf("inserting unit charges: got %d ids for %d rows", i, len(rooms))
	}

	return nil
}

func (t *tx) AppendAudit(ctx context.Context, billID int64, status bill.Status, actor string) error {
	query := `
		INSERT INTO bill_audit_information (bill_id, status, create_by, create_date)
		VALUES ($1, $2, $3, NOW())
	`

	if _, err := t.tx.ExecContext(ctx, query, billID, int(status), actor); err != nil {
		return fmt.Errorf("inserting bill audit: %w", err)
	}

	return nil
}

func (t *tx) LockBill(ctx context.Context, id int64) (*bill.Bill, error) {
	query := `SELECT ` + selectBillColumns + `
		FROM bill_information b
		WHERE b.id = $1 AND b.status != 2
		FOR UPDATE`

	b, err := scanBill(t.tx.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, bill.ErrNotFound.With("id", id)
	}

	if err != nil {
		return nil, fmt.Errorf("locking bill: %w", err)
	}

	return b, nil
}

func (t *tx) UpdateBill(ctx context.Context, b *bill.Bill, actor string) error {
	query := `
		UPDATE bill_information
		SET title = $1, bill_type_id = $2, detail = $3, expire_date = $4, send_date = $5,
			remark = $6, status = $7, update_date = NOW(), update_by = $8
		WHERE id = $9 AND status != 2
		RETURNING update_date, update_by
	`

	err := t.tx.QueryRowContext(ctx, query,
		b.Title, nullID(b.TypeID), b.Detail, b.ExpireDate, b.SendDate,
		b.Remark, int(b.Status), actor, b.ID,
	).Scan(&b.UpdateDate, &b.UpdateBy)
	if errors.Is(err, sql.ErrNoRows) {
		return bill.ErrNotFound.With("id", b.ID)
	}

	if err != nil {
		return fmt.Errorf("updating bill: %w", err)
	}

	return nil
}

func (t *tx) ListRoomIDs(ctx context.Context, billID int64) ([]int64, error) {
	query := `
		SELECT id
		FROM bill_room_information
		WHERE bill_id = $1 AND status != 2
		ORDER BY create_date ASC, id ASC
	`

	rows, err := t.tx.QueryContext(ctx, query, billID)
	if err != nil {
		return nil, fmt.Errorf("listing unit charge ids: %w", err)
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

func (t *tx) DeleteRooms(ctx context.Context, ids []int64, actor string) error {
	if len(ids) == 0 {
		return nil
	}

	var q database.Query

	setBy := q.Bind(actor)
	inIDs := database.In(&q, ids)
	q.Where("id IN " + inIDs).Where("status != 2")

	query := `UPDATE bill_room_information SET status = 2, delete_date = NOW(), delete_by = ` + setBy + q.Clause()

	if _, err := t.tx.ExecContext(ctx, query, q.Args()...); err != nil {
		return fmt.Errorf("deleting unit charges: %w", err)
	}

	return nil
}

func (t *tx) DeleteBill(ctx context.Context, id int64, actor string) error {
	rooms := `
		UPDATE bill_room_information
		SET status = 2, delete_date = NOW(), delete_by = $1
		WHERE bill_id = $2 AND status != 2
	`

	if _, err := t.tx.ExecContext(ctx, rooms, actor, id); err != nil {
		return fmt.Errorf("deleting unit charges of bill: %w", err)
	}

	query := `
		UPDATE bill_information
		SET status = 2, delete_date = NOW(), delete_by = $1
		WHERE id = $2 AND status != 2
	`

	res, err := t.tx.ExecContext(ctx, query, actor, id)
	if err != nil {
		return fmt.Errorf("deleting bill: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted bill: %w", err)
	}

	if n == 0 {
		return bill.ErrNotFound.With("id", id)
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id > 0}
}
