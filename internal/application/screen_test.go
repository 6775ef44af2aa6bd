package application

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bookingDomain "github.com/beerescue/service-storefront/internal/domain/booking"
	"github.com/beerescue/service-storefront/internal/domain/review"
)

func TestScreenStore_GetReusesScreen(t *testing.T) {
	st := NewScreenStore(time.Minute, zap.NewNop())
	id := uuid.New()

	a := st.Get(id, 7)
	b := st.Get(id, 7)
	assert.Same(t, a, b)
	assert.Equal(t, 1, st.Len())
}

func TestScreenStore_InvalidateUser(t *testing.T) {
	st := NewScreenStore(time.Minute, zap.NewNop())
	mine1 := st.Get(uuid.New(), 7)
	mine2 := st.Get(uuid.New(), 7)
	other := st.Get(uuid.New(), 8)

	for _, sc := range []*Screen{mine1, mine2, other} {
		sc.Bookings.Replace([]*bookingDomain.Booking{testBooking(1, "completed")})
		sc.WithGate(func(*review.Gate) *review.Gate { return review.NewGate(nil) })
	}

	assert.Equal(t, 2, st.InvalidateUser(7))
	assert.False(t, mine1.Bookings.Loaded())
	assert.False(t, mine2.Bookings.Loaded())
	assert.True(t, other.Bookings.Loaded())

	var gate *review.Gate
	mine1.WithGate(func(g *review.Gate) *review.Gate { gate = g; return g })
	assert.Nil(t, gate)
}

func TestScreenStore_Evict(t *testing.T) {
	st := NewScreenStore(time.Minute, zap.NewNop())
	st.Get(uuid.New(), 7)

	assert.Equal(t, 0, st.Evict(time.Now()))
	assert.Equal(t, 1, st.Evict(time.Now().Add(2*time.Minute)))
	assert.Equal(t, 0, st.Len())
}

func TestScreen_WithFormCreatesOnce(t *testing.T) {
	sc := newScreen(uuid.New(), 7)
	assert.False(t, sc.HasForm(3))

	require.NoError(t, sc.WithForm(3, func(f *bookingDomain.ReservationForm) error {
		f.SetServiceTitle("Plumbing")
		return nil
	}))
	assert.True(t, sc.HasForm(3))

	var title string
	_ = sc.WithForm(3, func(f *bookingDomain.ReservationForm) error {
		title = f.ServiceTitle()
		return nil
	})
	assert.Equal(t, "Plumbing", title)
}
