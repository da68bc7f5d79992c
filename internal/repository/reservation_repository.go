package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/flight-reservation/internal/model"
)

// ReservationRepo provides access to the `reservations` table and the
// single-row `reservation_ids` counter. RID allocation relies on the
// store's serializable isolation: the counter read, counter advance and
// reservation insert must all happen inside one transaction so that
// concurrent bookers are serialized and no RID is issued twice.
type ReservationRepo struct{ DB *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

// CountForDayTx returns how many reservations the user already holds for
// the given day of month.
func (r *ReservationRepo) CountForDayTx(ctx context.Context, tx *sql.Tx, username string, day int) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reservations WHERE username = ? AND day = ?",
		username, day).Scan(&n)
	return n, err
}

// NextIDTx reads the next RID to assign from the counter row.
func (r *ReservationRepo) NextIDTx(ctx context.Context, tx *sql.Tx) (int64, error) {
	var rid int64
	err := tx.QueryRowContext(ctx, "SELECT next_rid FROM reservation_ids").Scan(&rid)
	return rid, err
}

// AdvanceIDTx persists the new counter value. The counter only ever moves
// forward; canceled RIDs are never returned to it.
func (r *ReservationRepo) AdvanceIDTx(ctx context.Context, tx *sql.Tx, next int64) error {
	_, err := tx.ExecContext(ctx, "UPDATE reservation_ids SET next_rid = ?", next)
	return err
}

// CreateTx inserts a reservation row. FID2 is stored as NULL for direct
// itineraries.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res model.Reservation) error {
	var fid2 sql.NullInt64
	if res.FID2 != nil {
		fid2 = sql.NullInt64{Int64: *res.FID2, Valid: true}
	}
	_, err := tx.ExecContext(ctx,
		"INSERT INTO reservations (rid, username, fid1, fid2, day, price, paid) VALUES (?, ?, ?, ?, ?, ?, ?)",
		res.RID, res.Username, res.FID1, fid2, res.Day, res.Price, res.Paid)
	return err
}

// UnpaidPriceTx returns the price of an unpaid reservation owned by the
// user. Returns sql.ErrNoRows when no such reservation exists, which
// covers both absent and already-paid reservations.
func (r *ReservationRepo) UnpaidPriceTx(ctx context.Context, tx *sql.Tx, rid int64, username string) (int64, error) {
	var price int64
	err := tx.QueryRowContext(ctx,
		"SELECT price FROM reservations WHERE rid = ? AND username = ? AND paid = 0",
		rid, username).Scan(&price)
	return price, err
}

// MarkPaidTx flags a reservation as paid.
func (r *ReservationRepo) MarkPaidTx(ctx context.Context, tx *sql.Tx, rid int64, username string) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE reservations SET paid = 1 WHERE rid = ? AND username = ?",
		rid, username)
	return err
}

// FindTx returns the price and paid flag of a reservation owned by the
// user, regardless of payment state. Returns sql.ErrNoRows when absent.
func (r *ReservationRepo) FindTx(ctx context.Context, tx *sql.Tx, rid int64, username string) (price int64, paid bool, err error) {
	err = tx.QueryRowContext(ctx,
		"SELECT price, paid FROM reservations WHERE rid = ? AND username = ?",
		rid, username).Scan(&price, &paid)
	return price, paid, err
}

// DeleteTx removes a reservation row. The RID it consumed stays retired.
func (r *ReservationRepo) DeleteTx(ctx context.Context, tx *sql.Tx, rid int64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM reservations WHERE rid = ?", rid)
	return err
}

// ListByUserTx returns all reservations held by the user in store order.
func (r *ReservationRepo) ListByUserTx(ctx context.Context, tx *sql.Tx, username string) ([]model.Reservation, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT rid, fid1, fid2, day, price, paid FROM reservations WHERE username = ?",
		username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Reservation
	for rows.Next() {
		res := model.Reservation{Username: username}
		var fid2 sql.NullInt64
		if err := rows.Scan(&res.RID, &res.FID1, &fid2, &res.Day, &res.Price, &res.Paid); err != nil {
			return nil, err
		}
		if fid2.Valid {
			v := fid2.Int64
			res.FID2 = &v
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
