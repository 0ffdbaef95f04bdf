package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/o-vuong/doggo-hotel/errors"
	"github.com/o-vuong/doggo-hotel/models"
	"github.com/o-vuong/doggo-hotel/types"
)

func TestCreatePet(t *testing.T) {
	f := newFixture(t)

	pet, err := f.pets.Create(f.ctx, f.owner, CreatePetInput{Name: "  Mochi ", Species: "dog", Weight: 8.5})
	require.NoError(t, err)
	assert.Equal(t, "Mochi", pet.Name)
	assert.Equal(t, f.ownerUser.ID, pet.OwnerID)

	stored, err := f.repo.GetPet(f.ctx, pet.ID)
	require.NoError(t, err)
	assert.Equal(t, 8.5, stored.Weight)
}

func TestCreatePetValidation(t *testing.T) {
	tests := []struct {
		name      string
		principal func(f *fixture) types.Principal
		input     func(f *fixture) CreatePetInput
		code      errors.ErrorCode
	}{
		{
			name:      "missing name",
			principal: func(f *fixture) types.Principal { return f.owner },
			input:     func(f *fixture) CreatePetInput { return CreatePetInput{Name: "   "} },
			code:      errors.ErrCodeValidation,
		},
		{
			name:      "negative weight",
			principal: func(f *fixture) types.Principal { return f.owner },
			input:     func(f *fixture) CreatePetInput { return CreatePetInput{Name: "Mochi", Weight: -1} },
			code:      errors.ErrCodeValidation,
		},
		{
			name:      "name too long",
			principal: func(f *fixture) types.Principal { return f.owner },
			input:     func(f *fixture) CreatePetInput { return CreatePetInput{Name: strings.Repeat("a", 101)} },
			code:      errors.ErrCodeValidation,
		},
		{
			name:      "owner registering for someone else",
			principal: func(f *fixture) types.Principal { return f.owner },
			input:     func(f *fixture) CreatePetInput { return CreatePetInput{OwnerID: f.stranger.UserID, Name: "Miu"} },
			code:      errors.ErrCodeForbidden,
		},
		{
			name:      "unknown owner",
			principal: func(f *fixture) types.Principal { return f.staff },
			input:     func(f *fixture) CreatePetInput { return CreatePetInput{OwnerID: "00000000-0000-0000-0000-000000000000", Name: "Miu"} },
			code:      errors.ErrCodeNotFound,
		},
		{
			name:      "anonymous",
			principal: func(f *fixture) types.Principal { return types.Principal{} },
			input:     func(f *fixture) CreatePetInput { return CreatePetInput{Name: "Miu"} },
			code:      errors.ErrCodeUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.pets.Create(f.ctx, tt.principal(f), tt.input(f))
			assert.True(t, errors.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestStaffRegistersPetForOwner(t *testing.T) {
	f := newFixture(t)
	pet, err := f.pets.Create(f.ctx, f.staff, CreatePetInput{OwnerID: f.stranger.UserID, Name: "Miu", Species: "cat"})
	require.NoError(t, err)
	assert.Equal(t, f.stranger.UserID, pet.OwnerID)
}

func TestListPetsScopesOwners(t *testing.T) {
	f := newFixture(t)
	_, err := f.pets.Create(f.ctx, f.stranger, CreatePetInput{Name: "Miu"})
	require.NoError(t, err)

	mine, err := f.pets.List(f.ctx, f.owner, f.stranger.UserID)
	require.NoError(t, err)
	require.Len(t, mine, 1, "owners only ever see their own pets")
	assert.Equal(t, f.pet.ID, mine[0].ID)

	all, err := f.pets.List(f.ctx, f.staff, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := f.pets.List(f.ctx, f.staff, f.stranger.UserID)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Miu", filtered[0].Name)

	_, err = f.pets.List(f.ctx, types.Principal{}, "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnauthorized))
}

func TestGetPetRequiresOwnership(t *testing.T) {
	f := newFixture(t)

	_, err := f.pets.Get(f.ctx, f.stranger, f.pet.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeForbidden))

	got, err := f.pets.Get(f.ctx, f.staff, f.pet.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bun", got.Name)
}

func TestUpdatePet(t *testing.T) {
	f := newFixture(t)
	name := "Bun Bun"
	contact := "  +84900000001 "

	updated, err := f.pets.Update(f.ctx, f.owner, f.pet.ID, UpdatePetInput{Name: &name, EmergencyContact: &contact})
	require.NoError(t, err)
	assert.Equal(t, "Bun Bun", updated.Name)
	assert.Equal(t, "+84900000001", updated.EmergencyContact)
	assert.Equal(t, "dog", updated.Species, "fields left nil are kept")

	_, err = f.pets.Update(f.ctx, f.stranger, f.pet.ID, UpdatePetInput{Name: &name})
	assert.True(t, errors.IsCode(err, errors.ErrCodeForbidden))

	blank := " "
	_, err = f.pets.Update(f.ctx, f.owner, f.pet.ID, UpdatePetInput{Name: &blank})
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
	assert.Equal(t, "Bun Bun", f.storedPet(t).Name)
}

func TestDeletePet(t *testing.T) {
	f := newFixture(t)
	spare, err := f.pets.Create(f.ctx, f.owner, CreatePetInput{Name: "Mochi"})
	require.NoError(t, err)

	err = f.pets.Delete(f.ctx, f.staff, spare.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeForbidden), "staff cannot delete pet records")

	require.NoError(t, f.pets.Delete(f.ctx, f.owner, spare.ID))
	_, err = f.repo.GetPet(f.ctx, spare.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))

	f.seedReservation(t, f.kennel, models.ReservationStatusCheckedOut, day(1), day(3), models.PaymentStatusPaid)
	err = f.pets.Delete(f.ctx, f.manager, f.pet.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConflict))
	assert.Equal(t, "Bun", f.storedPet(t).Name)
}

func TestUploadPetPhoto(t *testing.T) {
	f := newFixture(t)

	updated, err := f.pets.UploadPhoto(f.ctx, f.owner, f.pet.ID, strings.NewReader("jpeg bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/doggo/image/upload/pets/"+f.pet.ID+".jpg", updated.PhotoURL)
	assert.Equal(t, []string{"pets/" + f.pet.ID}, f.uploader.uploads)
	assert.Equal(t, updated.PhotoURL, f.storedPet(t).PhotoURL)

	_, err = f.pets.UploadPhoto(f.ctx, f.stranger, f.pet.ID, strings.NewReader("jpeg bytes"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeForbidden))
	assert.Len(t, f.uploader.uploads, 1)
}

func TestUploadPetPhotoFailures(t *testing.T) {
	f := newFixture(t)
	f.uploader.err = fmt.Errorf("cloudinary unavailable")

	_, err := f.pets.UploadPhoto(f.ctx, f.owner, f.pet.ID, strings.NewReader("jpeg bytes"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeExternalService))
	assert.Empty(t, f.storedPet(t).PhotoURL)

	disabled := NewPetService(PetServiceOptions{Repo: f.repo})
	_, err = disabled.UploadPhoto(f.ctx, f.owner, f.pet.ID, strings.NewReader("jpeg bytes"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeExternalService))
}

func TestFacilities(t *testing.T) {
	f := newFixture(t)

	_, err := f.facilities.Create(f.ctx, f.staff, "Lakeside", "District 7")
	assert.True(t, errors.IsCode(err, errors.ErrCodeForbidden))

	_, err = f.facilities.Create(f.ctx, f.manager, "  ", "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))

	created, err := f.facilities.Create(f.ctx, f.manager, " Lakeside ", "District 7")
	require.NoError(t, err)
	assert.Equal(t, "Lakeside", created.Name)

	list, err := f.facilities.List(f.ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Lakeside", list[0].Name)
	assert.Equal(t, "Riverside", list[1].Name)

	got, err := f.facilities.Get(f.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "District 7", got.Location)
}
