package models

import (
	"time"

	"github.com/o-vuong/doggo-hotel/errors"
)

// ReservationState định nghĩa interface cho các trạng thái reservation
type ReservationState interface {
	Confirm(r *Reservation, payment *Payment) error
	CheckIn(r *Reservation, at time.Time) error
	CheckOut(r *Reservation, at time.Time) error
	Cancel(r *Reservation, at time.Time) error
}

func invalidTransition(from, to ReservationStatus) error {
	return errors.Validation("cannot move reservation from %s to %s", from, to)
}

// PendingState trạng thái chờ thanh toán
type PendingState struct{}

func (s *PendingState) Confirm(r *Reservation, payment *Payment) error {
	if payment == nil || payment.Status != PaymentStatusPaid {
		return errors.Validation("reservation %s cannot be confirmed before its payment is PAID", r.ID)
	}
	r.Status = ReservationStatusConfirmed
	return nil
}

func (s *PendingState) CheckIn(r *Reservation, at time.Time) error {
	return invalidTransition(r.Status, ReservationStatusCheckedIn)
}

func (s *PendingState) CheckOut(r *Reservation, at time.Time) error {
	return invalidTransition(r.Status, ReservationStatusCheckedOut)
}

func (s *PendingState) Cancel(r *Reservation, at time.Time) error {
	cancel(r, at)
	return nil
}

// ConfirmedState trạng thái đã xác nhận
type ConfirmedState struct{}

func (s *ConfirmedState) Confirm(r *Reservation, payment *Payment) error {
	return invalidTransition(r.Status, ReservationStatusConfirmed)
}

func (s *ConfirmedState) CheckIn(r *Reservation, at time.Time) error {
	r.Status = ReservationStatusCheckedIn
	r.ActualCheckIn = &at
	return nil
}

func (s *ConfirmedState) CheckOut(r *Reservation, at time.Time) error {
	return invalidTransition(r.Status, ReservationStatusCheckedOut)
}

func (s *ConfirmedState) Cancel(r *Reservation, at time.Time) error {
	cancel(r, at)
	return nil
}

// CheckedInState thú cưng đang ở kennel, không thể hủy
type CheckedInState struct{}

func (s *CheckedInState) Confirm(r *Reservation, payment *Payment) error {
	return invalidTransition(r.Status, ReservationStatusConfirmed)
}

func (s *CheckedInState) CheckIn(r *Reservation, at time.Time) error {
	return invalidTransition(r.Status, ReservationStatusCheckedIn)
}

func (s *CheckedInState) CheckOut(r *Reservation, at time.Time) error {
	r.Status = ReservationStatusCheckedOut
	r.ActualCheckOut = &at
	return nil
}

func (s *CheckedInState) Cancel(r *Reservation, at time.Time) error {
	return errors.Validation("reservation %s is checked in and can no longer be cancelled", r.ID)
}

// terminalState dùng cho CHECKED_OUT và CANCELLED
type terminalState struct{}

func (s *terminalState) Confirm(r *Reservation, payment *Payment) error {
	return invalidTransition(r.Status, ReservationStatusConfirmed)
}

func (s *terminalState) CheckIn(r *Reservation, at time.Time) error {
	return invalidTransition(r.Status, ReservationStatusCheckedIn)
}

func (s *terminalState) CheckOut(r *Reservation, at time.Time) error {
	return invalidTransition(r.Status, ReservationStatusCheckedOut)
}

func (s *terminalState) Cancel(r *Reservation, at time.Time) error {
	return invalidTransition(r.Status, ReservationStatusCancelled)
}

func cancel(r *Reservation, at time.Time) {
	r.Status = ReservationStatusCancelled
	r.DeletedAt = &at
}

// GetReservationState trả về state tương ứng với trạng thái reservation
func GetReservationState(status ReservationStatus) ReservationState {
	switch status {
	case ReservationStatusPending:
		return &PendingState{}
	case ReservationStatusConfirmed:
		return &ConfirmedState{}
	case ReservationStatusCheckedIn:
		return &CheckedInState{}
	default:
		return &terminalState{}
	}
}

// ApplyTransition chuyển reservation sang trạng thái target
func ApplyTransition(r *Reservation, target ReservationStatus, payment *Payment, at time.Time) error {
	state := GetReservationState(r.Status)
	switch target {
	case ReservationStatusConfirmed:
		return state.Confirm(r, payment)
	case ReservationStatusCheckedIn:
		return state.CheckIn(r, at)
	case ReservationStatusCheckedOut:
		return state.CheckOut(r, at)
	case ReservationStatusCancelled:
		return state.Cancel(r, at)
	default:
		return invalidTransition(r.Status, target)
	}
}
