package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/condobill/internal/bill"
	"github.com/MrJamesThe3rd/condobill/internal/database"
)

// billListFrom joins the type name and the live unit-charge aggregates in one pass.
const billListFrom = `
	FROM bill_information b
	LEFT JOIN bill_type_information t ON t.id = b.bill_type_id
	LEFT JOIN (
		SELECT bill_id,
			COUNT(*) AS room_count,
			COALESCE(SUM(total_price), 0) AS total_price,
			COUNT(*) FILTER (WHERE status = 1) AS paid_count
		FROM bill_room_information
		WHERE status != 2
		GROUP BY bill_id
	) agg ON agg.bill_id = b.id
`

const selectBillAggColumns = selectBillColumns + `,
	COALESCE(t.name, ''), COALESCE(agg.room_count, 0), COALESCE(agg.total_price, 0), COALESCE(agg.paid_count, 0)
`

func scanBillAgg(s scanner) (*bill.Bill, error) {
	var (
		typeName  string
		roomCount int
		total     decimal.Decimal
		paid      int
	)

	b, err := scanBill(s, &typeName, &roomCount, &total, &paid)
	if err != nil {
		return nil, err
	}

	b.TypeName = typeName
	b.RoomCount = roomCount
	b.TotalPrice = total
	b.PaidCount = paid

	return b, nil
}

func (s *Store) GetBill(ctx context.Context, id int64, customerID string) (*bill.Bill, error) {
	var q database.Query
	q.Where("b.id = ?", id).Where("b.status != 2").WhereIf(customerID != "", "b.customer_id = ?", customerID)

	query := `SELECT ` + selectBillAggColumns + billListFrom + q.Clause()

	b, err := scanBillAgg(s.db.QueryRowContext(ctx, query, q.Args()...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, bill.ErrNotFound.With("id", id)
	}

	if err != nil {
		return nil, fmt.Errorf("getting bill: %w", err)
	}

	return b, nil
}

func (s *Store) ListBills(ctx context.Context, f bill.ListFilter) ([]*bill.Bill, int64, error) {
	var q database.Query
	q.Where("b.customer_id = ?", f.CustomerID).Where("b.status != 2")

	if f.Keyword != "" {
		kw := "%" + f.Keyword + "%"
		q.Where("(b.bill_no ILIKE ? OR b.title ILIKE ?)", kw, kw)
	}

	if f.Status != nil {
		q.Where("b.status = ?", int(*f.Status))
	}

	if f.TypeID != nil {
		q.Where("b.bill_type_id = ?", *f.TypeID)
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bill_information b`+q.Clause(), q.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting bills: %w", err)
	}

	query := `SELECT ` + selectBillAggColumns + billListFrom + q.Clause() +
		` ORDER BY b.create_date DESC, b.id DESC` + q.Page(f.Page.Limit, f.Page.Offset())

	rows, err := s.db.QueryContext(ctx, query, q.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing bills: %w", err)
	}
	defer rows.Close()

	var bills []*bill.Bill

	for rows.Next() {
		b, err := scanBillAgg(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning bill: %w", err)
		}

		bills = append(bills, b)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating bills: %w", err)
	}

	return bills, total, nil
}

const roomFrom = `
	FROM bill_room_information r
	JOIN bill_information b ON b.id = r.bill_id
	LEFT JOIN (
		SELECT bill_room_id, SUM(transaction_amount) AS paid_sum
		FROM bill_transaction_information
		WHERE status != 2
		GROUP BY bill_room_id
	) p ON p.bill_room_id = r.id
`

const selectRoomColumns = `
	r.id, r.bill_id, r.bill_no, r.customer_id, r.house_no, r.member_name, r.total_price, r.remark,
	r.status, r.create_date, r.create_by, COALESCE(p.paid_sum, 0),
	b.bill_no, b.title, b.expire_date, b.send_date, b.status
`

// virtualStatus mirrors bill.Project in SQL; its single '?' is the observation time.
const virtualStatus = `(CASE
	WHEN r.status = 0 AND COALESCE(p.paid_sum, 0) > 0 AND COALESCE(p.paid_sum, 0) < r.total_price THEN 4
	WHEN r.status = 0 AND b.expire_date < ? THEN 3
	ELSE r.status
END)`

func scanRoom(s scanner) (*bill.Room, error) {
	var (
		r            bill.Room
		parent       bill.Bill
		status       int
		parentStatus int
	)

	if err := s.Scan(
		&r.ID, &r.BillID, &r.InvoiceNo, &r.CustomerID, &r.HouseNo, &r.MemberName, &r.TotalPrice, &r.Remark,
		&status, &r.CreateDate, &r.CreateBy, &r.PaidSum,
		&parent.BillNo, &parent.Title, &parent.ExpireDate, &parent.SendDate, &parentStatus,
	); err != nil {
		return nil, err
	}

	r.Status = bill.RoomStatus(status)
	parent.ID = r.BillID
	parent.CustomerID = r.CustomerID
	parent.Status = bill.Status(parentStatus)
	r.Bill = &parent

	return &r, nil
}

// roomWhere builds the shared filter of unit-charge reads. Live rows of live bills only.
func roomWhere(q *database.Query, customerID string, billID *int64, sentOnly bool) {
	q.Where("r.customer_id = ?", customerID).Where("r.status != 2").Where("b.status != 2")

	if billID != nil {
		q.Where("r.bill_id = ?", *billID)
	}

	q.WhereIf(sentOnly, "b.status = 1")
}

func (s *Store) ListRooms(ctx context.Context, f bill.RoomFilter) ([]*bill.Room, int64, error) {
	var q database.Query
	roomWhere(&q, f.CustomerID, f.BillID, f.SentOnly)

	q.WhereIf(f.HouseNo != "", "r.house_no = ?", f.HouseNo)

	if f.Keyword != "" {
		kw := "%" + f.Keyword + "%"
		q.Where("(r.house_no ILIKE ? OR r.member_name ILIKE ? OR r.bill_no ILIKE ?)", kw, kw, kw)
	}

	if len(f.Statuses) > 0 {
		statuses := make([]int, len(f.Statuses))
		for i, st := range f.Statuses {
			statuses[i] = int(st)
		}

		inStatuses := database.In(&q, statuses)
		q.Where(virtualStatus+" IN "+inStatuses, f.Now)
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*)`+roomFrom+q.Clause(), q.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting unit charges: %w", err)
	}

	order := ` ORDER BY r.create_date ASC, r.id ASC`
	if f.NewestFirst {
		order = ` ORDER BY r.create_date DESC, r.id DESC`
	}

	query := `SELECT ` + selectRoomColumns + roomFrom + q.Clause() + order + q.Page(f.Page.Limit, f.Page.Offset())

	rows, err := s.db.QueryContext(ctx, query, q.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing unit charges: %w", err)
	}
	defer rows.Close()

	var rooms []*bill.Room

	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning unit charge: %w", err)
		}

		rooms = append(rooms, r)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating unit charges: %w", err)
	}

	return rooms, total, nil
}

func (s *Store) CountRoomStatus(ctx context.Context, customerID string, billID *int64, now time.Time) (*bill.StatusCounts, error) {
	var q database.Query

	vs := strings.Replace(virtualStatus, "?", q.Bind(now), 1)

	roomWhere(&q, customerID, billID, false)

	query := `SELECT
			COUNT(*) FILTER (WHERE vs = 0),
			COUNT(*) FILTER (WHERE vs = 1),
			COUNT(*) FILTER (WHERE vs = 3),
			COUNT(*) FILTER (WHERE vs = 4),
			COUNT(*)
		FROM (SELECT ` + vs + ` AS vs` + roomFrom + q.Clause() + `) s`

	var c bill.StatusCounts
	if err := s.db.QueryRowContext(ctx, query, q.Args()...).Scan(&c.Pending, &c.Paid, &c.Overdue, &c.Partial, &c.Total); err != nil {
		return nil, fmt.Errorf("counting unit charge status: %w", err)
	}

	return &c, nil
}

// Summary measures "this month" on the database clock.
func (s *Store) Summary(ctx context.Context, customerID string) (*bill.Summary, error) {
	query := `
		WITH m AS (
			SELECT date_trunc('month', NOW()) AS first_day,
				date_trunc('month', NOW()) + INTERVAL '1 month' - INTERVAL '1 second' AS last_second
		)
		SELECT
			bs.total, bs.new, bs.sent_total, bs.sent_new,
			rs.pending_total, rs.pending_new, rs.paid_total, rs.paid_new, rs.house_total, rs.house_new
		FROM m
		CROSS JOIN LATERAL (
			SELECT
				COUNT(*) AS total,
				COUNT(*) FILTER (WHERE b.create_date BETWEEN m.first_day AND m.last_second) AS new,
				COUNT(*) FILTER (WHERE b.status = 1) AS sent_total,
				COUNT(*) FILTER (WHERE b.status = 1 AND b.create_date BETWEEN m.first_day AND m.last_second) AS sent_new
			FROM bill_information b
			WHERE b.customer_id = $1 AND b.status != 2
		) bs
		CROSS JOIN LATERAL (
			SELECT
				COUNT(*) FILTER (WHERE r.status = 0) AS pending_total,
				COUNT(*) FILTER (WHERE r.status = 0 AND r.create_date BETWEEN m.first_day AND m.last_second) AS pending_new,
				COUNT(*) FILTER (WHERE r.status = 1) AS paid_total,
				COUNT(*) FILTER (WHERE r.status = 1 AND r.create_date BETWEEN m.first_day AND m.last_second) AS paid_new,
				COUNT(DISTINCT r.house_no) AS house_total,
				COUNT(DISTINCT r.house_no) FILTER (WHERE r.create_date BETWEEN m.first_day AND m.last_second) AS house_new
			FROM bill_room_information r
			JOIN bill_information b ON b.id = r.bill_id
			WHERE r.customer_id = $1 AND r.status != 2 AND b.status != 2
		) rs
	`

	var sum bill.Summary

	err := s.db.QueryRowContext(ctx, query, customerID).Scan(
		&sum.Bills.Total, &sum.Bills.New, &sum.SentBills.Total, &sum.SentBills.New,
		&sum.PendingRooms.Total, &sum.PendingRooms.New, &sum.PaidRooms.Total, &sum.PaidRooms.New,
		&sum.Rooms.Total, &sum.Rooms.New,
	)
	if err != nil {
		return nil, fmt.Errorf("reading summary: %w", err)
	}

	return &sum, nil
}
