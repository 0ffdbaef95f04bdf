package builders

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/o-vuong/doggo-hotel/models"
)

// ReservationBuilder giúp tạo reservation theo từng bước
type ReservationBuilder struct {
	reservation *models.Reservation
}

// NewReservationBuilder tạo builder với id mới và trạng thái PENDING
func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		reservation: &models.Reservation{
			ID:     uuid.NewString(),
			Status: models.ReservationStatusPending,
		},
	}
}

func (b *ReservationBuilder) WithID(id string) *ReservationBuilder {
	b.reservation.ID = id
	return b
}

// WithPet gán thú cưng và chủ sở hữu của nó
func (b *ReservationBuilder) WithPet(pet *models.Pet) *ReservationBuilder {
	b.reservation.PetID = pet.ID
	b.reservation.UserID = pet.OwnerID
	return b
}

// WithKennel gán kennel và facility chứa nó
func (b *ReservationBuilder) WithKennel(kennel *models.Kennel) *ReservationBuilder {
	b.reservation.KennelID = kennel.ID
	b.reservation.FacilityID = kennel.FacilityID
	return b
}

func (b *ReservationBuilder) WithDates(start, end time.Time) *ReservationBuilder {
	b.reservation.StartDate = start
	b.reservation.EndDate = end
	return b
}

func (b *ReservationBuilder) WithStatus(status models.ReservationStatus) *ReservationBuilder {
	b.reservation.Status = status
	return b
}

func (b *ReservationBuilder) WithAddOns(ids []string) *ReservationBuilder {
	b.reservation.AddOnServiceIDs = pq.StringArray(ids)
	return b
}

func (b *ReservationBuilder) WithSpecialRequests(text string) *ReservationBuilder {
	b.reservation.SpecialRequests = text
	return b
}

func (b *ReservationBuilder) WithPayment(paymentID string) *ReservationBuilder {
	b.reservation.PaymentID = paymentID
	return b
}

// WithTotalPrice thêm tổng giá
func (b *ReservationBuilder) WithTotalPrice(totalPrice float64) *ReservationBuilder {
	b.reservation.TotalPrice = totalPrice
	return b
}

// Build tạo reservation hoàn chỉnh
func (b *ReservationBuilder) Build() *models.Reservation {
	return b.reservation
}
