package inventory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nebeng/nebeng-api/internal/model"
)

// MemoryStore is a map-based Store used by tests and for local
// development without a database.  Exclusive ride access is provided
// by one mutex per ride, held from GetRideForUpdate until the
// enclosing WithTx returns, so concurrent transactions on the same
// ride serialize while unrelated rides proceed in parallel.
//
// Writes apply immediately, but each mutation records its inverse in
// the transaction's undo journal; when the transaction function
// returns an error (a failed validation, a cancelled context) the
// journal is replayed in reverse, so a failed transaction leaves no
// partial effect.
type MemoryStore struct {
	mu        sync.RWMutex
	rides     map[string]model.Ride
	bookings  map[string]model.Booking
	rideLocks map[string]*sync.Mutex
	seq       int64
	rideSeq   map[string]int64
	bookSeq   map[string]int64
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rides:     make(map[string]model.Ride),
		bookings:  make(map[string]model.Booking),
		rideLocks: make(map[string]*sync.Mutex),
		rideSeq:   make(map[string]int64),
		bookSeq:   make(map[string]int64),
	}
}

// CreateRide inserts a new ride with a fresh id and creation
// timestamp.  SeatsAvailable starts equal to SeatsTotal and the
// status defaults to active.  Mirrors repository.RideRepo.Create so
// the two stores are interchangeable for ride creation.
func (s *MemoryStore) CreateRide(ctx context.Context, r *model.Ride) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.ID = uuid.NewString()
	r.SeatsAvailable = r.SeatsTotal
	if r.Status == "" {
		r.Status = model.RideStatusActive
	}
	r.CreatedAt = time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.rides[r.ID] = *r
	s.rideSeq[r.ID] = s.seq
	return nil
}

// UpdateRideStatus sets a ride's status, reporting whether the ride
// exists.
func (s *MemoryStore) UpdateRideStatus(ctx context.Context, rideID, status string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rides[rideID]
	if !ok {
		return false, nil
	}
	r.Status = status
	s.rides[rideID] = r
	return true, nil
}

// DeleteRide removes a ride row entirely.  Used by tests to exercise
// the release path against a vanished ride.
func (s *MemoryStore) DeleteRide(ctx context.Context, rideID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rides[rideID]; !ok {
		return false, nil
	}
	delete(s.rides, rideID)
	delete(s.rideSeq, rideID)
	return true, nil
}

// lockRide returns the mutex dedicated to one ride, creating it on
// first use.
func (s *MemoryStore) lockRide(rideID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.rideLocks[rideID]
	if !ok {
		m = &sync.Mutex{}
		s.rideLocks[rideID] = m
	}
	return m
}

// memTx is the in-memory Tx.  It records which ride locks it holds
// so WithTx can release them when the transaction ends, and an undo
// journal so a failed transaction can be rolled back.
type memTx struct {
	s      *MemoryStore
	locked map[string]*sync.Mutex
	undo   []func()
}

// rollback replays the undo journal in reverse under the store lock.
// Ride locks held by the transaction are still held here, so no other
// transaction can observe the intermediate state being undone.
func (t *memTx) rollback() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

// WithTx runs fn with an in-memory transaction.  When fn fails, every
// mutation it made through the Tx is undone before the error is
// returned.  Ride locks taken by GetRideForUpdate are released when
// fn returns, successful or not.
func (s *MemoryStore) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &memTx{s: s, locked: make(map[string]*sync.Mutex)}
	defer func() {
		for _, m := range tx.locked {
			m.Unlock()
		}
	}()
	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

func (t *memTx) GetRideForUpdate(ctx context.Context, rideID string) (*model.Ride, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, held := t.locked[rideID]; !held {
		m := t.s.lockRide(rideID)
		m.Lock()
		t.locked[rideID] = m
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	r, ok := t.s.rides[rideID]
	if !ok {
		return nil, ErrRideNotFound
	}
	cp := r
	return &cp, nil
}

func (t *memTx) SetRideSeats(ctx context.Context, rideID string, seatsAvailable int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	r, ok := t.s.rides[rideID]
	if !ok {
		return ErrRideNotFound
	}
	prev := r.SeatsAvailable
	t.undo = append(t.undo, func() {
		if r, ok := t.s.rides[rideID]; ok {
			r.SeatsAvailable = prev
			t.s.rides[rideID] = r
		}
	})
	r.SeatsAvailable = seatsAvailable
	t.s.rides[rideID] = r
	return nil
}

func (t *memTx) InsertBooking(ctx context.Context, rideID, passengerID string, seatsRequested int) (*model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := model.Booking{
		ID:             uuid.NewString(),
		RideID:         rideID,
		PassengerID:    passengerID,
		SeatsRequested: seatsRequested,
		CreatedAt:      time.Now().UTC(),
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.s.seq++
	t.s.bookings[b.ID] = b
	t.s.bookSeq[b.ID] = t.s.seq
	t.undo = append(t.undo, func() {
		delete(t.s.bookings, b.ID)
		delete(t.s.bookSeq, b.ID)
	})
	return &b, nil
}

func (t *memTx) GetBooking(ctx context.Context, bookingID string) (*model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	b, ok := t.s.bookings[bookingID]
	if !ok {
		return nil, ErrBookingNotFound
	}
	cp := b
	return &cp, nil
}

func (t *memTx) DeleteBooking(ctx context.Context, bookingID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	b, ok := t.s.bookings[bookingID]
	if !ok {
		return false, nil
	}
	seq := t.s.bookSeq[bookingID]
	t.undo = append(t.undo, func() {
		t.s.bookings[bookingID] = b
		t.s.bookSeq[bookingID] = seq
	})
	delete(t.s.bookings, bookingID)
	delete(t.s.bookSeq, bookingID)
	return true, nil
}

func (s *MemoryStore) GetRide(ctx context.Context, rideID string) (*model.Ride, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rides[rideID]
	if !ok {
		return nil, ErrRideNotFound
	}
	cp := r
	return &cp, nil
}

func (s *MemoryStore) GetBooking(ctx context.Context, bookingID string) (*model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, ErrBookingNotFound
	}
	cp := b
	return &cp, nil
}

// ListRides returns rides matching the filter, newest first.
func (s *MemoryStore) ListRides(ctx context.Context, f RideFilter) ([]model.Ride, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Ride, 0)
	for _, r := range s.rides {
		if f.ActiveOnly && r.Status != model.RideStatusActive {
			continue
		}
		if f.MassID != "" && r.MassID != f.MassID {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return s.rideSeq[out[i].ID] > s.rideSeq[out[j].ID]
	})
	return out, nil
}

// ListBookingsByPassenger returns a passenger's bookings, newest
// first.
func (s *MemoryStore) ListBookingsByPassenger(ctx context.Context, passengerID string) ([]model.Booking, error) {
	return s.listBookings(ctx, func(b model.Booking) bool { return b.PassengerID == passengerID })
}

// ListBookingsByRide returns the bookings on one ride, newest first.
func (s *MemoryStore) ListBookingsByRide(ctx context.Context, rideID string) ([]model.Booking, error) {
	return s.listBookings(ctx, func(b model.Booking) bool { return b.RideID == rideID })
}

func (s *MemoryStore) listBookings(ctx context.Context, keep func(model.Booking) bool) ([]model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Booking, 0)
	for _, b := range s.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return s.bookSeq[out[i].ID] > s.bookSeq[out[j].ID]
	})
	return out, nil
}
