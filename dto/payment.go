package dto

// CreatePaymentRequest là body của POST /payments
type CreatePaymentRequest struct {
	ReservationID string  `json:"reservationId" binding:"required,uuid"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Deferred      bool    `json:"deferred"`
	MethodRef     string  `json:"methodRef" binding:"max=255"`
}

type RefundRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}
