package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/beerescue/service-storefront/internal/domain/address"
	"github.com/beerescue/service-storefront/internal/domain/booking"
	"github.com/beerescue/service-storefront/internal/domain/review"
	"github.com/beerescue/service-storefront/internal/metrics"
)

// Screen is the state one signed-in user's screens share between requests.
type Screen struct {
	sessionID uuid.UUID
	userID    int64

	Bookings  *RemoteList[int64, *booking.Booking]
	Addresses *RemoteList[int64, address.Address]

	// mu guards gate, forms and lastSeen.
	mu       sync.Mutex
	gate     *review.Gate
	forms    map[int64]*booking.ReservationForm
	lastSeen time.Time
}

func newScreen(sessionID uuid.UUID, userID int64) *Screen {
	return &Screen{
		sessionID: sessionID,
		userID:    userID,
		Bookings:  NewRemoteList(func(b *booking.Booking) int64 { return b.ID() }),
		Addresses: NewRemoteList(func(a address.Address) int64 { return a.ID }),
		forms:     make(map[int64]*booking.ReservationForm),
		lastSeen:  time.Now(),
	}
}

func (s *Screen) SessionID() uuid.UUID { return s.sessionID }
func (s *Screen) UserID() int64        { return s.userID }

// WithGate runs fn with the gate held under the screen lock. gate may be nil.
func (s *Screen) WithGate(fn func(gate *review.Gate) *review.Gate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate = fn(s.gate)
}

// WithForm runs fn on the reservation form of serviceID, creating it if needed.
func (s *Screen) WithForm(serviceID int64, fn func(f *booking.ReservationForm) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.forms[serviceID]
	if !ok {
		f = booking.NewReservationForm(serviceID, "")
		s.forms[serviceID] = f
	}
	return fn(f)
}

// HasForm reports whether a reservation form for serviceID exists.
func (s *Screen) HasForm(serviceID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.forms[serviceID]
	return ok
}

// Invalidate drops fetched booking data and the gate so the next listing starts fresh.
func (s *Screen) Invalidate() {
	s.Bookings.Reset()
	s.mu.Lock()
	s.gate = nil
	s.mu.Unlock()
}

func (s *Screen) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Screen) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// ScreenStore keeps one Screen per session in memory and evicts idle ones.
type ScreenStore struct {
	mu      sync.Mutex
	screens map[uuid.UUID]*Screen
	ttl     time.Duration
	logger  *zap.Logger
}

// NewScreenStore creates a store evicting screens idle for longer than ttl.
func NewScreenStore(ttl time.Duration, logger *zap.Logger) *ScreenStore {
	return &ScreenStore{
		screens: make(map[uuid.UUID]*Screen),
		ttl:     ttl,
		logger:  logger,
	}
}

// Get returns the screen of sessionID, creating it on first use.
func (st *ScreenStore) Get(sessionID uuid.UUID, userID int64) *Screen {
	st.mu.Lock()
	sc, ok := st.screens[sessionID]
	if !ok {
		sc = newScreen(sessionID, userID)
		st.screens[sessionID] = sc
		metrics.SetActiveScreens(len(st.screens))
	}
	st.mu.Unlock()

	sc.touch(time.Now())
	return sc
}

// Drop forgets the screen of sessionID.
func (st *ScreenStore) Drop(sessionID uuid.UUID) {
	st.mu.Lock()
	delete(st.screens, sessionID)
	metrics.SetActiveScreens(len(st.screens))
	st.mu.Unlock()
}

// InvalidateUser invalidates every screen of userID and returns how many there were.
func (st *ScreenStore) InvalidateUser(userID int64) int {
	st.mu.Lock()
	var hit []*Screen
	for _, sc := range st.screens {
		if sc.userID == userID {
			hit = append(hit, sc)
		}
	}
	st.mu.Unlock()

	for _, sc := range hit {
		sc.Invalidate()
	}
	return len(hit)
}

// Evict removes screens idle since before now minus the TTL.
func (st *ScreenStore) Evict(now time.Time) int {
	cutoff := now.Add(-st.ttl)

	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for id, sc := range st.screens {
		if sc.idleSince().Before(cutoff) {
			delete(st.screens, id)
			n++
		}
	}
	metrics.SetActiveScreens(len(st.screens))
	return n
}

// Len returns the number of screens held.
func (st *ScreenStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.screens)
}

// Run evicts idle screens every interval until ctx is done.
func (st *ScreenStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := st.Evict(now); n > 0 {
				st.logger.Debug("evicted idle screens", zap.Int("count", n))
			}
		}
	}
}
