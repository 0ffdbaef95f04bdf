package repository

import (
	"context"
	"time"

	"github.com/o-vuong/doggo-hotel/models"
)

// OverlapQuery là vị từ giao nhau [Start, End) trên một kennel
type OverlapQuery struct {
	KennelID             string
	Start                time.Time
	End                  time.Time
	ExcludeReservationID string
}

// Matches áp dụng cùng vị từ với câu SQL
func (q OverlapQuery) Matches(r *models.Reservation) bool {
	if r.KennelID != q.KennelID || r.ID == q.ExcludeReservationID {
		return false
	}
	return r.IsActive() && r.Overlaps(q.Start, q.End)
}

type KennelFilter struct {
	FacilityID string
	Size       models.KennelSize
	Statuses   []models.KennelStatus
}

type ReservationFilter struct {
	UserID     string
	KennelID   string
	FacilityID string
	Statuses   []models.ReservationStatus
	// ActiveAt lọc reservation có StartDate <= t < EndDate
	ActiveAt       *time.Time
	StartFrom      *time.Time
	StartTo        *time.Time
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	IncludeDeleted bool
	// RecentFirst sắp xếp theo updated_at giảm dần
	RecentFirst bool
	Limit       int
}

type PaymentFilter struct {
	ReservationID string
	UserID        string
	Kind          models.PaymentKind
	Statuses      []models.PaymentStatus
	OverstayDays  int
	RetryDueBy    *time.Time
	DueFrom       *time.Time
	DueTo         *time.Time
	DeferredOnly  bool
}

// Repository là hợp đồng lưu trữ giao dịch của core
type Repository interface {
	// WithTx chạy fn trong một transaction; lỗi trả về sẽ rollback toàn bộ
	WithTx(ctx context.Context, fn func(repo Repository) error) error

	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)

	CreateFacility(ctx context.Context, facility *models.Facility) error
	GetFacility(ctx context.Context, id string) (*models.Facility, error)
	ListFacilities(ctx context.Context) ([]models.Facility, error)

	CreateKennel(ctx context.Context, kennel *models.Kennel) error
	GetKennel(ctx context.Context, id string) (*models.Kennel, error)
	// LockKennel đọc kennel và giữ khóa ghi đến hết transaction
	LockKennel(ctx context.Context, id string) (*models.Kennel, error)
	ListKennels(ctx context.Context, filter KennelFilter) ([]models.Kennel, error)
	UpdateKennelStatus(ctx context.Context, id string, status models.KennelStatus) error
	DeleteKennel(ctx context.Context, id string) error
	CountKennels(ctx context.Context, filter KennelFilter) (int64, error)

	CreatePet(ctx context.Context, pet *models.Pet) error
	GetPet(ctx context.Context, id string) (*models.Pet, error)
	// ListPets trả về pet của ownerID, ownerID rỗng nghĩa là tất cả
	ListPets(ctx context.Context, ownerID string) ([]models.Pet, error)
	UpdatePet(ctx context.Context, pet *models.Pet) error
	// DeletePet trả về Conflict khi pet vẫn còn reservation tham chiếu
	DeletePet(ctx context.Context, id string) error

	CreateAddOnService(ctx context.Context, svc *models.AddOnService) error
	ListAddOnServices(ctx context.Context, ids []string) ([]models.AddOnService, error)

	CreateReservation(ctx context.Context, reservation *models.Reservation) error
	GetReservation(ctx context.Context, id string) (*models.Reservation, error)
	// LockReservation đọc reservation và giữ khóa ghi đến hết transaction
	LockReservation(ctx context.Context, id string) (*models.Reservation, error)
	UpdateReservation(ctx context.Context, reservation *models.Reservation) error
	ListReservations(ctx context.Context, filter ReservationFilter) ([]models.Reservation, error)
	CountReservations(ctx context.Context, filter ReservationFilter) (int64, error)
	FindOverlapping(ctx context.Context, q OverlapQuery) ([]models.Reservation, error)
	// ListOverdue trả về reservation CHECKED_IN có EndDate < cutoff và chưa check-out
	ListOverdue(ctx context.Context, cutoff time.Time) ([]models.Reservation, error)
	// UpdateOverstay chỉ ghi các cột overstay khi reservation vẫn CHECKED_IN;
	// trả về false nếu không có dòng nào được cập nhật
	UpdateOverstay(ctx context.Context, id string, update models.OverstayUpdate) (bool, error)

	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPayment(ctx context.Context, id string) (*models.Payment, error)
	UpdatePayment(ctx context.Context, payment *models.Payment) error
	ListPayments(ctx context.Context, filter PaymentFilter) ([]models.Payment, error)
	// ClaimPayment đặt lease xử lý cho payment PENDING chưa bị giữ;
	// false nghĩa là payment đã được xử lý hoặc đang bị giữ
	ClaimPayment(ctx context.Context, id string, now, until time.Time) (bool, error)
	SumPaidPayments(ctx context.Context, from, to time.Time) (float64, error)

	AppendAuditLog(ctx context.Context, entry *models.AuditLog) error
	LastAuditLog(ctx context.Context) (*models.AuditLog, error)
}
