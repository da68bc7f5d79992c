// Package booking implements the session-scoped transaction engine:
// login, customer creation, itinerary search, booking, payment,
// reservation listing and cancellation against the shared relational
// store. Every multi-statement operation runs as one serializable
// transaction; on abort all writes roll back and the operation reports a
// failure without leaving partial state.
package booking

import (
	"context"
	"database/sql"

	"github.com/iliyamo/flight-reservation/internal/credential"
	"github.com/iliyamo/flight-reservation/internal/model"
	"github.com/iliyamo/flight-reservation/internal/repository"
)

// Deps bundles the collaborators a Session operates on. All fields except
// OnBooked must be non-nil.
type Deps struct {
	DB           *sql.DB
	Users        *repository.UserRepo
	Flights      *repository.FlightRepo
	Reservations *repository.ReservationRepo
	Verifier     credential.Verifier
	// OnBooked, when set, is invoked after a booking transaction commits.
	// Failures in the callback never affect the booking result.
	OnBooked func(ctx context.Context, rid int64, username string, it model.Itinerary)
}

// Session holds the identity of at most one logged-in user and the most
// recent search result. A session is used by at most one caller at a
// time; many sessions may operate concurrently against the shared store,
// which is why every operation relies on the store's serializable
// isolation rather than in-process locks.
type Session struct {
	deps        Deps
	user        string
	itineraries []model.Itinerary
}

// NewSession returns an anonymous session over the given collaborators.
func NewSession(deps Deps) *Session { return &Session{deps: deps} }

// User returns the logged-in username, or "" for an anonymous session.
func (s *Session) User() string { return s.user }

// Itinerary returns the itinerary at the given position in the current
// search result, if any.
func (s *Session) Itinerary(index int) (model.Itinerary, bool) {
	if index < 0 || index >= len(s.itineraries) {
		return model.Itinerary{}, false
	}
	return s.itineraries[index], true
}

// begin opens a serializable transaction. Search and listing pass
// readOnly so the store can avoid write locks on their snapshots.
func (s *Session) begin(ctx context.Context, readOnly bool) (*sql.Tx, error) {
	return s.deps.DB.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
		ReadOnly:  readOnly,
	})
}

// Login binds a user to the session after verifying their credentials.
// A session that already has a user fails immediately without touching
// the store. Unknown usernames and secret mismatches both surface as
// ErrLoginFailed.
func (s *Session) Login(ctx context.Context, username, password string) error {
	if s.user != "" {
		return ErrAlreadyLoggedIn
	}
	salt, hash, err := s.deps.Users.Credentials(ctx, username)
	if err != nil {
		return ErrLoginFailed
	}
	if !credential.Match(s.deps.Verifier, hash, password, salt) {
		return ErrLoginFailed
	}
	s.user = username
	return nil
}

// CreateCustomer registers a new user with the given starting balance.
// It fails on negative balances and taken usernames; on any store error
// the transaction is rolled back so no partial user is ever visible.
func (s *Session) CreateCustomer(ctx context.Context, username, password string, initialBalance int64) error {
	if initialBalance < 0 {
		return ErrCreateUserFailed
	}
	salt, err := s.deps.Verifier.NewSalt()
	if err != nil {
		return ErrCreateUserFailed
	}
	hash := s.deps.Verifier.Derive(password, salt)

	tx, err := s.begin(ctx, false)
	if err != nil {
		return ErrCreateUserFailed
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	taken, err := s.deps.Users.ExistsTx(ctx, tx, username)
	if err != nil || taken {
		return ErrCreateUserFailed
	}
	if err := s.deps.Users.CreateTx(ctx, tx, username, salt, hash, initialBalance); err != nil {
		return ErrCreateUserFailed
	}
	if err := tx.Commit(); err != nil {
		return ErrCreateUserFailed
	}
	committed = true
	return nil
}

// Search finds up to maxResults itineraries from origin to dest on the
// given day and replaces the session's current itinerary list with the
// result in canonical order. When directOnly is false and the direct
// query fills less than the quota, one-connection itineraries top it up.
// A store error retries the whole search once before surfacing
// ErrSearchFailed; an empty result surfaces ErrNoMatches.
func (s *Session) Search(ctx context.Context, origin, dest string, directOnly bool, day, maxResults int) ([]model.Itinerary, error) {
	if maxResults < 0 {
		return nil, ErrSearchFailed
	}
	var its []model.Itinerary
	var err error
	// One bounded retry: transient serialization aborts on the read
	// snapshot resolve themselves on re-issue.
	for attempt := 0; attempt < 2; attempt++ {
		its, err = s.searchOnce(ctx, origin, dest, directOnly, day, maxResults)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, ErrSearchFailed
	}
	if len(its) == 0 {
		return nil, ErrNoMatches
	}
	model.SortItineraries(its)
	s.itineraries = its
	return its, nil
}

func (s *Session) searchOnce(ctx context.Context, origin, dest string, directOnly bool, day, maxResults int) ([]model.Itinerary, error) {
	tx, err := s.begin(ctx, true)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	its, err := s.deps.Flights.DirectTx(ctx, tx, origin, dest, day, maxResults)
	if err != nil {
		return nil, err
	}
	if !directOnly {
		if remaining := maxResults - len(its); remaining > 0 {
			hops, err := s.deps.Flights.OneHopTx(ctx, tx, origin, dest, day, remaining)
			if err != nil {
				return nil, err
			}
			its = append(its, hops...)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return its, nil
}

// Book reserves the itinerary at the given position in the session's
// current search result and returns the newly minted RID. The same-day
// check, the counter read-modify-write and the reservation insert share
// one serializable transaction; a serialization conflict aborts the whole
// operation as ErrBookingFailed and is never retried automatically, since
// blindly re-running a booking could double-book.
func (s *Session) Book(ctx context.Context, index int) (int64, error) {
	if s.user == "" {
		return 0, ErrNotLoggedIn
	}
	it, ok := s.Itinerary(index)
	if !ok {
		return 0, &NoSuchItineraryError{Index: index}
	}
	tx, err := s.begin(ctx, false)
	if err != nil {
		return 0, ErrBookingFailed
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	held, err := s.deps.Reservations.CountForDayTx(ctx, tx, s.user, it.Day())
	if err != nil {
		return 0, ErrBookingFailed
	}
	if held != 0 {
		return 0, ErrSameDayConflict
	}
	rid, err := s.deps.Reservations.NextIDTx(ctx, tx)
	if err != nil {
		return 0, ErrBookingFailed
	}
	if err := s.deps.Reservations.AdvanceIDTx(ctx, tx, rid+1); err != nil {
		return 0, ErrBookingFailed
	}
	res := model.Reservation{
		RID:      rid,
		Username: s.user,
		FID1:     it.First.FID,
		Day:      it.Day(),
		Price:    it.Price(),
	}
	if it.Second != nil {
		fid2 := it.Second.FID
		res.FID2 = &fid2
	}
	if err := s.deps.Reservations.CreateTx(ctx, tx, res); err != nil {
		return 0, ErrBookingFailed
	}
	if err := tx.Commit(); err != nil {
		return 0, ErrBookingFailed
	}
	committed = true
	if s.deps.OnBooked != nil {
		s.deps.OnBooked(ctx, rid, s.user, it)
	}
	return rid, nil
}

// Pay settles an unpaid reservation owned by the logged-in user and
// returns the remaining balance. The paid flag and the balance deduction
// commit together; an insufficient balance fails before any mutation.
func (s *Session) Pay(ctx context.Context, rid int64) (int64, error) {
	if s.user == "" {
		return 0, ErrNotLoggedIn
	}
	tx, err := s.begin(ctx, false)
	if err != nil {
		return 0, &PaymentFailedError{RID: rid}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	price, err := s.deps.Reservations.UnpaidPriceTx(ctx, tx, rid, s.user)
	if err == sql.ErrNoRows {
		return 0, &UnpaidReservationError{RID: rid, Username: s.user}
	}
	if err != nil {
		return 0, &PaymentFailedError{RID: rid}
	}
	balance, err := s.deps.Users.BalanceTx(ctx, tx, s.user)
	if err != nil {
		return 0, &PaymentFailedError{RID: rid}
	}
	if balance < price {
		return 0, &InsufficientBalanceError{Balance: balance, Cost: price}
	}
	if err := s.deps.Reservations.MarkPaidTx(ctx, tx, rid, s.user); err != nil {
		return 0, &PaymentFailedError{RID: rid}
	}
	remaining := balance - price
	if err := s.deps.Users.UpdateBalanceTx(ctx, tx, s.user, remaining); err != nil {
		return 0, &PaymentFailedError{RID: rid}
	}
	if err := tx.Commit(); err != nil {
		return 0, &PaymentFailedError{RID: rid}
	}
	committed = true
	return remaining, nil
}

// ReservationView pairs a reservation with its resolved flights for
// presentation.
type ReservationView struct {
	RID     int64
	Paid    bool
	Flights []model.Flight
}

// ListReservations returns every reservation held by the logged-in user
// with its flights resolved. A store error retries the whole listing once
// before surfacing ErrListFailed; a user with zero reservations gets
// ErrNoReservations.
func (s *Session) ListReservations(ctx context.Context) ([]ReservationView, error) {
	if s.user == "" {
		return nil, ErrNotLoggedIn
	}
	var views []ReservationView
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		views, err = s.listOnce(ctx)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, ErrListFailed
	}
	if len(views) == 0 {
		return nil, ErrNoReservations
	}
	return views, nil
}

func (s *Session) listOnce(ctx context.Context) ([]ReservationView, error) {
	tx, err := s.begin(ctx, true)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	reservations, err := s.deps.Reservations.ListByUserTx(ctx, tx, s.user)
	if err != nil {
		return nil, err
	}
	views := make([]ReservationView, 0, len(reservations))
	for _, res := range reservations {
		v := ReservationView{RID: res.RID, Paid: res.Paid}
		f1, err := s.deps.Flights.ByIDTx(ctx, tx, res.FID1)
		if err != nil {
			return nil, err
		}
		v.Flights = append(v.Flights, f1)
		if res.FID2 != nil {
			f2, err := s.deps.Flights.ByIDTx(ctx, tx, *res.FID2)
			if err != nil {
				return nil, err
			}
			v.Flights = append(v.Flights, f2)
		}
		views = append(views, v)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return views, nil
}

// Cancel deletes a reservation owned by the logged-in user, refunding its
// price when it had been paid. Every failure, including the reservation
// not existing, surfaces as the same CancelFailedError. The RID consumed
// by the reservation is never reissued.
func (s *Session) Cancel(ctx context.Context, rid int64) error {
	if s.user == "" {
		return ErrNotLoggedIn
	}
	tx, err := s.begin(ctx, false)
	if err != nil {
		return &CancelFailedError{RID: rid}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	price, paid, err := s.deps.Reservations.FindTx(ctx, tx, rid, s.user)
	if err != nil {
		return &CancelFailedError{RID: rid}
	}
	if err := s.deps.Reservations.DeleteTx(ctx, tx, rid); err != nil {
		return &CancelFailedError{RID: rid}
	}
	if paid {
		balance, err := s.deps.Users.BalanceTx(ctx, tx, s.user)
		if err != nil {
			return &CancelFailedError{RID: rid}
		}
		if err := s.deps.Users.UpdateBalanceTx(ctx, tx, s.user, balance+price); err != nil {
			return &CancelFailedError{RID: rid}
		}
	}
	if err := tx.Commit(); err != nil {
		return &CancelFailedError{RID: rid}
	}
	committed = true
	return nil
}
