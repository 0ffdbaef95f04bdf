package constants

import "time"

// Overstay
const (
	OverstayGracePeriod      = 24 * time.Hour
	OverstayDailyFee         = 50.0
	OverstayContactInterval  = 12 * time.Hour
	EmergencyContactAttempts = 3
	LegalEscalationAttempts  = 5
)

// Payment
const (
	PaymentRetryInterval  = 24 * time.Hour
	DefaultMaxRetries     = 3
	DeferredPaymentWindow = 7 * 24 * time.Hour
	PaymentReminderWindow = 24 * time.Hour
	PaymentClaimLease     = 2 * time.Minute
	DefaultCurrency       = "usd"
	// PaymentVoidedReason đánh dấu payment bị hủy theo reservation
	PaymentVoidedReason   = "reservation cancelled"
)

// Pet photos
const (
	PetPhotoFolder  = "pets"
	MaxPetPhotoSize = 5 << 20
)

// Dashboard
const (
	DashboardCacheKey   = "dashboard:metrics"
	DashboardCacheTTL   = time.Minute
	BookingSeriesDays   = 30
	RecentActivityLimit = 5
)

// Cron
const (
	OverstaySweepSpec   = "0 * * * *"
	PaymentRetrySpec    = "*/15 * * * *"
	PaymentReminderSpec = "0 9 * * *"
)
