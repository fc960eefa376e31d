package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nebeng/nebeng-api/internal/model"
)

func newTestRide(t *testing.T, store *MemoryStore, seats int) *model.Ride {
	t.Helper()
	ride := &model.Ride{
		DriverID:   "driver-1",
		MassID:     "mass-1",
		SeatsTotal: seats,
	}
	if err := store.CreateRide(context.Background(), ride); err != nil {
		t.Fatalf("create ride: %v", err)
	}
	return ride
}

func seatsAvailable(t *testing.T, store *MemoryStore, rideID string) int {
	t.Helper()
	ride, err := store.GetRide(context.Background(), rideID)
	if err != nil {
		t.Fatalf("get ride: %v", err)
	}
	return ride.SeatsAvailable
}

func TestReserveDecrementsSeats(t *testing.T) {
	store := NewMemoryStore()
	eng := NewEngine(store)
	ride := newTestRide(t, store, 4)

	booking, err := eng.Reserve(context.Background(), ride.ID, "passenger-1", 3)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if booking.SeatsRequested != 3 {
		t.Errorf("expected 3 seats on booking, got %d", booking.SeatsRequested)
	}
	if booking.RideID != ride.ID || booking.PassengerID != "passenger-1" {
		t.Errorf("booking references wrong ride/passenger: %+v", booking)
	}
	if got := seatsAvailable(t, store, ride.ID); got != 1 {
		t.Errorf("expected 1 seat available, got %d", got)
	}
}

func TestReserveReleaseRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	eng := NewEngine(store)
	ride := newTestRide(t, store, 5)

	booking, err := eng.Reserve(context.Background(), ride.ID, "passenger-1", 2)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if got := seatsAvailable(t, store, ride.ID); got != 3 {
		t.Fatalf("expected 3 seats after reserve, got %d", got)
	}
	if err := eng.Release(context.Background(), booking.ID, "passenger-1"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if got := seatsAvailable(t, store, ride.ID); got != 5 {
		t.Errorf("expected 5 seats after release, got %d", got)
	}
	if _, err := eng.GetBooking(context.Background(), booking.ID); !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("expected booking gone, got err=%v", err)
	}
}

func TestReserveToZeroThenFail(t *testing.T) {
	store := NewMemoryStore()
	eng := NewEngine(store)
	ride := newTestRide(t, store, 2)

	if _, err := eng.Reserve(context.Background(), ride.ID, "p1", 2); err != nil {
		t.Fatalf("reserve to zero: %v", err)
	}
	if got := seatsAvailable(t, store, ride.ID); got != 0 {
		t.Fatalf("expected 0 seats, got %d", got)
	}
	if _, err := eng.Reserve(context.Background(), ride.ID, "p2", 1); !errors.Is(err, ErrInsufficientSeats) {
		t.Errorf("expected ErrInsufficientSeats, got %v", err)
	}
	if got := seatsAvailable(t, store, ride.ID); got != 0 {
		t.Errorf("failed reserve must not change the counter, got %d", got)
	}
}

func TestReserveRejectsInvalidSeatCount(t *testing.T) {
	store := NewMemoryStore()
	eng := NewEngine(store)
	ride := newTestRide(t, store, 3)

	for _, n := range []int{0, -1, -100} {
		if _, err := eng.Reserve(context.Background(), ride.ID, "p1", n); !errors.Is(err, ErrInvalidSeatCount) {
			t.Errorf("seats=%d: expected ErrInvalidSeatCount, got %v", n, err)
		}
	}
	if got := seatsAvailable(t, store, ride.ID); got != 3 {
		t.Errorf("counter changed on invalid request: %d", got)
	}
}

func TestReserveMoreThanAvailableLeavesCounter(t *testing.T) {
	store := NewMemoryStore()
	eng := NewEngine(store)
	ride := newTestRide(t, store, 3)

	if _, err := eng.Reserve(context.Background(), ride.ID, "p1", 4); !errors.Is(err, ErrInsufficientSeats) {
		t.Fatalf("expected ErrInsufficientSeats, got %v", err)
	}
	if got := seatsAvailable(t, store, ride.ID); got != 3 {
		t.Errorf("expected 3 seats untouched, got %d", got)
	}
	bookings, err := eng.ListBookingsForRide(context.Background(), ride.ID)
	if err != nil {
		t.Fatalf("list bookings: %v", err)
	}
	if len(bookings) != 0 {
		t.Errorf("failed reserve must not create a booking, got %d", len(bookings))
	}
}

func TestReserveInactiveRide(t *testing.T) {
	store := NewMemoryStore()
	eng := NewEngine(store)
	ride := newTestRide(t, store, 3)

	if _, err := store.UpdateRideStatus(context.Background(), ride.ID, model.RideStatusInactive); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := eng.Reserve(context.Background(), ride.ID, "p1", 1); !errors.Is(err, ErrRideUnavailable) {
		t.Errorf("expected ErrRideUnavailable, got %v", err)
	}
}

func TestReserveUnknownRide(t *testing.T) {
	eng := NewEngine(NewMemoryStore())
	if _, err := eng.Reserve(context.Background(), "nope", "p1", 1); !errors.Is(err, ErrRideUnavailable) {
		t.Errorf("expected ErrRideUnavailable for unknown ride, got %v", err)
	}
}

func TestReleaseWrongPassenger(t *testing.T) {
	store := NewMemoryStore()
	eng := NewEngine(store)
	ride := newTestRide(t, store, 4)

	booking, err := eng.Reserve(context.Background(), ride.ID, "owner", 2)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := eng.Release(context.Background(), booking.ID, "intruder"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	// The booking and the counter must survive the rejected release.
	if got := seatsAvailable(t, store, ride.ID); got != 2 {
		t.Errorf("counter changed on forbidden release: %d", got)
	}
	if _, err := eng.GetBooking(context.Background(), booking.ID); err != nil {
		t.Errorf("booking should still exist: %v", err)
	}
}

func TestReleaseTwice(t *testing.T) {
	store := NewMemoryStore()
	eng := NewEngine(store)
	ride := newTestRide(t, store, 4)

	booking, err := eng.Reserve(context.Background(), ride.ID, "p1", 1)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := eng.Release(context.Background(), booking.ID, "p1"); err != nil {
		t.Fatalf("first release: %v", err)
	}
	if err := eng.Release(context.Background(), booking.ID, "p1"); !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("expected ErrBookingNotFound on second release, got %v", err)
	}
	if got := seatsAvailable(t, store, ride.ID); got != 4 {
		t.Errorf("seats restored more than once: %d", got)
	}
}

func TestReleaseAfterRideVanished(t *testing.T) {
	store := NewMemoryStore()
	eng := NewEngine(store)
	ride := newTestRide(t, store, 4)

	booking, err := eng.Reserve(context.Background(), ride.ID, "p1", 2)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if _, err := store.DeleteRide(context.Background(), ride.ID); err != nil {
		t.Fatalf("delete ride: %v", err)
	}
	// The cancellation still succeeds; there is nowhere to restore the
	// seats to.
	if err := eng.Release(context.Background(), booking.ID, "p1"); err != nil {
		t.Fatalf("release after ride deletion: %v", err)
	}
	if _, err := eng.GetBooking(context.Background(), booking.ID); !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("booking should be deleted, got err=%v", err)
	}
}

func TestReleaseOnInactiveRideStillRestores(t *testing.T) {
	store := NewMemoryStore()
	eng := NewEngine(store)
	ride := newTestRide(t, store, 4)

	booking, err := eng.Reserve(context.Background(), ride.ID, "p1", 3)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if _, err := store.UpdateRideStatus(context.Background(), ride.ID, model.RideStatusInactive); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if err := eng.Release(context.Background(), booking.ID, "p1"); err != nil {
		t.Fatalf("release on inactive ride: %v", err)
	}
	if got := seatsAvailable(t, store, ride.ID); got != 4 {
		t.Errorf("expected seats restored on inactive ride, got %d", got)
	}
}

// Concurrent single-seat reservations against a ride with k seats:
// exactly min(N, k) must succeed, the rest must fail with
// ErrInsufficientSeats, and the counter must land exactly on
// k - successes.
func TestConcurrentReservations(t *testing.T) {
	const (
		goroutines = 32
		seats      = 10
	)
	store := NewMemoryStore()
	eng := NewEngine(store)
	ride := newTestRide(t, store, seats)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		failures  []error
	)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := eng.Reserve(context.Background(), ride.ID, "p", 1)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else {
				failures = append(failures, err)
			}
		}()
	}
	wg.Wait()

	if succeeded != seats {
		t.Fatalf("expected exactly %d successful reservations, got %d", seats, succeeded)
	}
	for _, err := range failures {
		if !errors.Is(err, ErrInsufficientSeats) {
			t.Errorf("unexpected failure: %v", err)
		}
	}
	if got := seatsAvailable(t, store, ride.ID); got != 0 {
		t.Errorf("expected 0 seats left, got %d", got)
	}
	bookings, err := eng.ListBookingsForRide(context.Background(), ride.ID)
	if err != nil {
		t.Fatalf("list bookings: %v", err)
	}
	if len(bookings) != seats {
		t.Errorf("expected %d bookings, got %d", seats, len(bookings))
	}
}

// Interleaved reserves and releases must keep the counter within
// [0, total] and finish with every seat returned.
func TestConcurrentReserveRelease(t *testing.T) {
	const (
		goroutines = 16
		seats      = 5
		rounds     = 20
	)
	store := NewMemoryStore()
	eng := NewEngine(store)
	ride := newTestRide(t, store, seats)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(passenger int) {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				booking, err := eng.Reserve(context.Background(), ride.ID, "p", 1)
				if err != nil {
					if !errors.Is(err, ErrInsufficientSeats) {
						t.Errorf("reserve: %v", err)
					}
					continue
				}
				if err := eng.Release(context.Background(), booking.ID, "p"); err != nil {
					t.Errorf("release: %v", err)
				}
			}
		}(i)
	}
	wg.Wait()

	if got := seatsAvailable(t, store, ride.ID); got != seats {
		t.Errorf("expected all %d seats returned, got %d", seats, got)
	}
}

func TestMultiSeatScenario(t *testing.T) {
	store := NewMemoryStore()
	eng := NewEngine(store)
	ride := newTestRide(t, store, 3)

	first, err := eng.Reserve(context.Background(), ride.ID, "p1", 2)
	if err != nil {
		t.Fatalf("reserve 2: %v", err)
	}
	if _, err := eng.Reserve(context.Background(), ride.ID, "p2", 2); !errors.Is(err, ErrInsufficientSeats) {
		t.Fatalf("expected ErrInsufficientSeats for second pair, got %v", err)
	}
	if _, err := eng.Reserve(context.Background(), ride.ID, "p2", 1); err != nil {
		t.Fatalf("reserve last seat: %v", err)
	}
	if got := seatsAvailable(t, store, ride.ID); got != 0 {
		t.Fatalf("expected 0 seats, got %d", got)
	}
	if err := eng.Release(context.Background(), first.ID, "p1"); err != nil {
		t.Fatalf("release pair: %v", err)
	}
	if got := seatsAvailable(t, store, ride.ID); got != 2 {
		t.Errorf("expected 2 seats back, got %d", got)
	}
}

func TestListActiveRidesFiltersByMassAndStatus(t *testing.T) {
	store := NewMemoryStore()
	eng := NewEngine(store)
	ctx := context.Background()

	a := &model.Ride{DriverID: "d1", MassID: "mass-a", SeatsTotal: 2}
	b := &model.Ride{DriverID: "d1", MassID: "mass-b", SeatsTotal: 2}
	c := &model.Ride{DriverID: "d2", MassID: "mass-a", SeatsTotal: 2}
	for _, r := range []*model.Ride{a, b, c} {
		if err := store.CreateRide(ctx, r); err != nil {
			t.Fatalf("create ride: %v", err)
		}
	}
	if _, err := store.UpdateRideStatus(ctx, c.ID, model.RideStatusInactive); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	rides, err := eng.ListActiveRides(ctx, "mass-a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rides) != 1 || rides[0].ID != a.ID {
		t.Errorf("expected only the active mass-a ride, got %+v", rides)
	}

	all, err := eng.ListActiveRides(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 active rides, got %d", len(all))
	}
	// Newest first.
	if len(all) == 2 && all[0].ID != b.ID {
		t.Errorf("expected newest ride first, got %+v", all)
	}
}

func TestListBookingsForPassengerNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	eng := NewEngine(store)
	ride := newTestRide(t, store, 5)
	ctx := context.Background()

	first, err := eng.Reserve(ctx, ride.ID, "p1", 1)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	second, err := eng.Reserve(ctx, ride.ID, "p1", 1)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if _, err := eng.Reserve(ctx, ride.ID, "p2", 1); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	got, err := eng.ListBookingsForPassenger(ctx, "p1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(got))
	}
	if got[0].ID != second.ID || got[1].ID != first.ID {
		t.Errorf("expected newest-first order, got %+v", got)
	}
}
