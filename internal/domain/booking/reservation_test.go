package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beerescue/service-storefront/internal/common/domain"
)

func TestReservationForm_SelectDateClearsTime(t *testing.T) {
	f := NewReservationForm(3, "Deep Cleaning")
	require.NoError(t, f.SelectDate("2026-10-20"))
	f.LoadSlots([]TimeSlot{{Time: "10:00 AM", Available: true}})
	require.NoError(t, f.SelectTime("10:00 AM"))

	require.NoError(t, f.SelectDate("2026-10-21"))
	assert.Empty(t, f.SelectedTime())
	assert.Empty(t, f.Slots())

	assert.Error(t, f.SelectDate("20/10/2026"))
}

func TestReservationForm_EmptySlotsFallBack(t *testing.T) {
	f := NewReservationForm(3, "")
	require.NoError(t, f.SelectDate("2026-10-20"))
	f.LoadSlots(nil)

	assert.True(t, f.Fallback())
	assert.Equal(t, DefaultTimeSlots(), f.Slots())
}

func TestReservationForm_UnavailableSlotNotSelectable(t *testing.T) {
	f := NewReservationForm(3, "")
	require.NoError(t, f.SelectDate("2026-10-20"))
	f.LoadSlots([]TimeSlot{{Time: "10:00 AM", Available: true}, {Time: "11:00 AM", Available: false}})

	err := f.SelectTime("11:00 AM")
	assert.True(t, domain.IsKind(err, domain.KindValidation))
	assert.Error(t, f.SelectTime("03:00 PM"))
	assert.Empty(t, f.SelectedTime())
}

func TestReservationForm_SubmitLifecycle(t *testing.T) {
	f := NewReservationForm(3, "Deep Cleaning")
	require.NoError(t, f.SelectDate("2026-10-20"))
	f.LoadSlots([]TimeSlot{{Time: "06:00 PM", Available: true}})
	require.NoError(t, f.SelectTime("06:00 PM"))

	req, err := f.BeginSubmit(7, "")
	require.NoError(t, err)
	assert.Equal(t, ReservationRequest{UserID: 7, ServiceID: 3, Date: "2026-10-20", Time: "18:00", Notes: "Booking for Deep Cleaning"}, req)
	assert.True(t, f.Submitting())

	_, err = f.BeginSubmit(7, "")
	assert.True(t, domain.IsKind(err, domain.KindConflict))

	f.OnConflict()
	assert.False(t, f.Submitting())
	assert.Empty(t, f.SelectedTime())
	assert.Equal(t, "2026-10-20", f.Date())
	assert.Equal(t, ConflictMessage, f.LastError())
}

func TestReservationForm_FailureAndSuccess(t *testing.T) {
	f := NewReservationForm(3, "")
	require.NoError(t, f.SelectDate("2026-10-20"))
	f.LoadSlots(nil)
	require.NoError(t, f.SelectTime("09:00 AM"))

	_, err := f.BeginSubmit(7, "please ring")
	require.NoError(t, err)
	f.OnFailure("upstream down")
	assert.Equal(t, "upstream down", f.LastError())
	assert.Empty(t, f.SelectedTime())

	_, err = f.BeginSubmit(7, "")
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	require.NoError(t, f.SelectTime("09:00 AM"))
	_, err = f.BeginSubmit(7, "")
	require.NoError(t, err)
	f.OnSuccess()
	assert.Empty(t, f.Date())
	assert.False(t, f.Submitting())
	assert.Equal(t, int64(3), f.ServiceID())
}
