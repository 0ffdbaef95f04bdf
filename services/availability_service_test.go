package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/o-vuong/doggo-hotel/errors"
	"github.com/o-vuong/doggo-hotel/models"
)

func TestCheckAvailability(t *testing.T) {
	f := newFixture(t)
	existing := f.seedReservation(t, f.kennel, models.ReservationStatusConfirmed, day(10), day(13), models.PaymentStatusPaid)

	tests := []struct {
		name    string
		start   int
		end     int
		exclude string
		free    bool
	}{
		{name: "overlapping tail", start: 12, end: 15, free: false},
		{name: "contained", start: 11, end: 12, free: false},
		{name: "covering", start: 9, end: 14, free: false},
		{name: "adjacent after", start: 13, end: 15, free: true},
		{name: "adjacent before", start: 8, end: 10, free: true},
		{name: "excluding itself", start: 12, end: 15, exclude: existing.ID, free: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.availability.CheckAvailability(f.ctx, f.kennel.ID, day(tt.start), day(tt.end), tt.exclude)
			if tt.free {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeConflict))
		})
	}
}

func TestCheckAvailabilityListsEveryConflict(t *testing.T) {
	f := newFixture(t)
	first := f.seedReservation(t, f.kennel, models.ReservationStatusConfirmed, day(10), day(12), models.PaymentStatusPaid)
	second := f.seedReservation(t, f.kennel, models.ReservationStatusPending, day(14), day(16), models.PaymentStatusPending)

	err := f.availability.CheckAvailability(f.ctx, f.kennel.ID, day(11), day(15), "")
	require.Error(t, err)

	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	conflicts, ok := appErr.Details.([]models.ReservationConflict)
	require.True(t, ok)
	require.Len(t, conflicts, 2)
	assert.Equal(t, first.ID, conflicts[0].ReservationID)
	assert.Equal(t, second.ID, conflicts[1].ReservationID)
	assert.Equal(t, "Bun", conflicts[0].PetName)
	assert.Equal(t, f.ownerUser.ID, conflicts[0].OwnerID)
}

func TestCheckAvailabilityIgnoresInactiveReservations(t *testing.T) {
	f := newFixture(t)
	f.seedReservation(t, f.kennel, models.ReservationStatusCheckedOut, day(10), day(13), models.PaymentStatusPaid)
	cancelled := f.seedReservation(t, f.kennel, models.ReservationStatusPending, day(10), day(13), models.PaymentStatusPending)
	_, err := f.reservations.Cancel(f.ctx, f.owner, cancelled.ID)
	require.NoError(t, err)

	assert.NoError(t, f.availability.CheckAvailability(f.ctx, f.kennel.ID, day(11), day(12), ""))
}

func TestCheckAvailabilityRejectsInvalidRange(t *testing.T) {
	f := newFixture(t)

	err := f.availability.CheckAvailability(f.ctx, f.kennel.ID, day(12), day(12), "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))

	err = f.availability.CheckAvailability(f.ctx, f.kennel.ID, day(15), day(12), "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestListAvailableKennels(t *testing.T) {
	f := newFixture(t)
	// K-01 AVAILABLE nhưng đã có lịch trùng thì không đặt được
	f.seedReservation(t, f.kennel, models.ReservationStatusConfirmed, day(12), day(14), models.PaymentStatusPaid)
	occupiedFree := f.addKennel(t, "K-02", models.KennelSizeSmall, models.KennelStatusOccupied, 40)
	occupiedBusy := f.addKennel(t, "K-03", models.KennelSizeSmall, models.KennelStatusOccupied, 40)
	f.seedReservation(t, occupiedBusy, models.ReservationStatusCheckedIn, day(9), day(13), models.PaymentStatusPaid)
	large := f.addKennel(t, "K-04", models.KennelSizeLarge, models.KennelStatusAvailable, 70)
	f.addKennel(t, "K-05", models.KennelSizeSmall, models.KennelStatusMaintenance, 40)

	kennels, err := f.availability.ListAvailableKennels(f.ctx, f.facility.ID, day(12), day(15), "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{occupiedFree.ID, large.ID}, kennelIDs(kennels))

	kennels, err = f.availability.ListAvailableKennels(f.ctx, f.facility.ID, day(14), day(15), "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{f.kennel.ID, occupiedFree.ID, occupiedBusy.ID, large.ID}, kennelIDs(kennels))

	kennels, err = f.availability.ListAvailableKennels(f.ctx, f.facility.ID, day(12), day(15), models.KennelSizeLarge)
	require.NoError(t, err)
	assert.Equal(t, []string{large.ID}, kennelIDs(kennels))

	_, err = f.availability.ListAvailableKennels(f.ctx, f.facility.ID, day(12), day(15), "HUGE")
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestListedKennelsCanBeBooked(t *testing.T) {
	f := newFixture(t)
	f.seedReservation(t, f.kennel, models.ReservationStatusConfirmed, day(12), day(14), models.PaymentStatusPaid)
	f.addKennel(t, "K-02", models.KennelSizeSmall, models.KennelStatusAvailable, 40)
	f.addKennel(t, "K-03", models.KennelSizeSmall, models.KennelStatusMaintenance, 40)

	kennels, err := f.availability.ListAvailableKennels(f.ctx, f.facility.ID, day(12), day(15), "")
	require.NoError(t, err)
	require.NotEmpty(t, kennels)
	for _, k := range kennels {
		assert.NoError(t, f.availability.CheckAvailability(f.ctx, k.ID, day(12), day(15), ""), k.Name)

		input := f.bookingInput(day(12), day(15))
		input.KennelID = k.ID
		_, err := f.reservations.Create(f.ctx, f.owner, input)
		assert.NoError(t, err, k.Name)
	}
}

func kennelIDs(kennels []models.Kennel) []string {
	ids := make([]string, len(kennels))
	for i, k := range kennels {
		ids[i] = k.ID
	}
	return ids
}
