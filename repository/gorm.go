package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/o-vuong/doggo-hotel/models"
)

// GormRepository lưu trữ trên Postgres qua GORM
type GormRepository struct {
	db   *gorm.DB
	inTx bool
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) conn(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *GormRepository) WithTx(ctx context.Context, fn func(repo Repository) error) error {
	if r.inTx {
		return fn(r)
	}
	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx, inTx: true})
	})
	return translate(err, "transaction", "")
}

// Users

func (r *GormRepository) CreateUser(ctx context.Context, user *models.User) error {
	return translate(r.conn(ctx).Create(user).Error, "user", user.ID)
}

func (r *GormRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.conn(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, "user", id)
	}
	return &user, nil
}

// Facilities

func (r *GormRepository) CreateFacility(ctx context.Context, facility *models.Facility) error {
	return translate(r.conn(ctx).Create(facility).Error, "facility", facility.ID)
}

func (r *GormRepository) GetFacility(ctx context.Context, id string) (*models.Facility, error) {
	var facility models.Facility
	if err := r.conn(ctx).First(&facility, "id = ?", id).Error; err != nil {
		return nil, translate(err, "facility", id)
	}
	return &facility, nil
}

func (r *GormRepository) ListFacilities(ctx context.Context) ([]models.Facility, error) {
	var facilities []models.Facility
	if err := r.conn(ctx).Order("name").Order("id").Find(&facilities).Error; err != nil {
		return nil, translate(err, "facility", "")
	}
	return facilities, nil
}

// Kennels

func (r *GormRepository) CreateKennel(ctx context.Context, kennel *models.Kennel) error {
	return translate(r.conn(ctx).Create(kennel).Error, "kennel", kennel.ID)
}

func (r *GormRepository) GetKennel(ctx context.Context, id string) (*models.Kennel, error) {
	var kennel models.Kennel
	if err := r.conn(ctx).First(&kennel, "id = ?", id).Error; err != nil {
		return nil, translate(err, "kennel", id)
	}
	return &kennel, nil
}

func (r *GormRepository) LockKennel(ctx context.Context, id string) (*models.Kennel, error) {
	var kennel models.Kennel
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&kennel, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "kennel", id)
	}
	return &kennel, nil
}

func (r *GormRepository) kennelQuery(ctx context.Context, filter KennelFilter) *gorm.DB {
	tx := r.conn(ctx).Model(&models.Kennel{})
	if filter.FacilityID != "" {
		tx = tx.Where("facility_id = ?", filter.FacilityID)
	}
	if filter.Size != "" {
		tx = tx.Where("size = ?", string(filter.Size))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		tx = tx.Where("status IN ?", statuses)
	}
	return tx
}

func (r *GormRepository) ListKennels(ctx context.Context, filter KennelFilter) ([]models.Kennel, error) {
	var kennels []models.Kennel
	if err := r.kennelQuery(ctx, filter).Order("name").Find(&kennels).Error; err != nil {
		return nil, translate(err, "kennel", "")
	}
	return kennels, nil
}

func (r *GormRepository) CountKennels(ctx context.Context, filter KennelFilter) (int64, error) {
	var n int64
	if err := r.kennelQuery(ctx, filter).Count(&n).Error; err != nil {
		return 0, translate(err, "kennel", "")
	}
	return n, nil
}

func (r *GormRepository) UpdateKennelStatus(ctx context.Context, id string, status models.KennelStatus) error {
	res := r.conn(ctx).Model(&models.Kennel{}).Where("id = ?", id).Update("status", string(status))
	if res.Error != nil {
		return translate(res.Error, "kennel", id)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "kennel", id)
	}
	return nil
}

func (r *GormRepository) DeleteKennel(ctx context.Context, id string) error {
	res := r.conn(ctx).Delete(&models.Kennel{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "kennel", id)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "kennel", id)
	}
	return nil
}

// Pets & add-ons

func (r *GormRepository) CreatePet(ctx context.Context, pet *models.Pet) error {
	return translate(r.conn(ctx).Create(pet).Error, "pet", pet.ID)
}

func (r *GormRepository) GetPet(ctx context.Context, id string) (*models.Pet, error) {
	var pet models.Pet
	if err := r.conn(ctx).First(&pet, "id = ?", id).Error; err != nil {
		return nil, translate(err, "pet", id)
	}
	return &pet, nil
}

func (r *GormRepository) ListPets(ctx context.Context, ownerID string) ([]models.Pet, error) {
	tx := r.conn(ctx).Model(&models.Pet{})
	if ownerID != "" {
		tx = tx.Where("owner_id = ?", ownerID)
	}
	var pets []models.Pet
	if err := tx.Order("name").Order("id").Find(&pets).Error; err != nil {
		return nil, translate(err, "pet", "")
	}
	return pets, nil
}

func (r *GormRepository) UpdatePet(ctx context.Context, pet *models.Pet) error {
	res := r.conn(ctx).Model(pet).Select("name", "species", "breed", "weight", "emergency_contact", "photo_url", "updated_at").Updates(pet)
	if res.Error != nil {
		return translate(res.Error, "pet", pet.ID)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "pet", pet.ID)
	}
	return nil
}

func (r *GormRepository) DeletePet(ctx context.Context, id string) error {
	res := r.conn(ctx).Delete(&models.Pet{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "pet", id)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "pet", id)
	}
	return nil
}

func (r *GormRepository) CreateAddOnService(ctx context.Context, svc *models.AddOnService) error {
	return translate(r.conn(ctx).Create(svc).Error, "add-on service", svc.ID)
}

func (r *GormRepository) ListAddOnServices(ctx context.Context, ids []string) ([]models.AddOnService, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var services []models.AddOnService
	if err := r.conn(ctx).Where("id IN ?", ids).Find(&services).Error; err != nil {
		return nil, translate(err, "add-on service", "")
	}
	return services, nil
}

// Reservations

func (r *GormRepository) withRelations(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Pet").Preload("Kennel").Preload("User")
}

func (r *GormRepository) CreateReservation(ctx context.Context, reservation *models.Reservation) error {
	err := r.conn(ctx).Omit(clause.Associations).Create(reservation).Error
	return translate(err, "reservation", reservation.ID)
}

func (r *GormRepository) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := r.withRelations(r.conn(ctx)).First(&reservation, "id = ?", id).Error; err != nil {
		return nil, translate(err, "reservation", id)
	}
	return &reservation, nil
}

func (r *GormRepository) LockReservation(ctx context.Context, id string) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.withRelations(r.conn(ctx)).
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: clause.CurrentTable}}).
		First(&reservation, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "reservation", id)
	}
	return &reservation, nil
}

func (r *GormRepository) UpdateReservation(ctx context.Context, reservation *models.Reservation) error {
	err := r.conn(ctx).Omit(clause.Associations).Save(reservation).Error
	return translate(err, "reservation", reservation.ID)
}

func (r *GormRepository) reservationQuery(ctx context.Context, filter ReservationFilter) *gorm.DB {
	tx := r.conn(ctx).Model(&models.Reservation{})
	if filter.UserID != "" {
		tx = tx.Where("user_id = ?", filter.UserID)
	}
	if filter.KennelID != "" {
		tx = tx.Where("kennel_id = ?", filter.KennelID)
	}
	if filter.FacilityID != "" {
		tx = tx.Where("facility_id = ?", filter.FacilityID)
	}
	if len(filter.Statuses) > 0 {
		tx = tx.Where("status IN ?", reservationStatuses(filter.Statuses))
	}
	if filter.ActiveAt != nil {
		tx = tx.Where("start_date <= ? AND end_date > ?", *filter.ActiveAt, *filter.ActiveAt)
	}
	if filter.StartFrom != nil {
		tx = tx.Where("start_date >= ?", *filter.StartFrom)
	}
	if filter.StartTo != nil {
		tx = tx.Where("start_date < ?", *filter.StartTo)
	}
	if filter.CreatedFrom != nil {
		tx = tx.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		tx = tx.Where("created_at < ?", *filter.CreatedTo)
	}
	if !filter.IncludeDeleted {
		tx = tx.Where("deleted_at IS NULL")
	}
	return tx
}

func (r *GormRepository) ListReservations(ctx context.Context, filter ReservationFilter) ([]models.Reservation, error) {
	tx := r.withRelations(r.reservationQuery(ctx, filter))
	if filter.RecentFirst {
		tx = tx.Order("updated_at DESC")
	} else {
		tx = tx.Order("start_date")
	}
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}
	var reservations []models.Reservation
	if err := tx.Find(&reservations).Error; err != nil {
		return nil, translate(err, "reservation", "")
	}
	return reservations, nil
}

func (r *GormRepository) CountReservations(ctx context.Context, filter ReservationFilter) (int64, error) {
	var n int64
	if err := r.reservationQuery(ctx, filter).Count(&n).Error; err != nil {
		return 0, translate(err, "reservation", "")
	}
	return n, nil
}

func (r *GormRepository) FindOverlapping(ctx context.Context, q OverlapQuery) ([]models.Reservation, error) {
	tx := r.conn(ctx).Preload("Pet").
		Where("kennel_id = ?", q.KennelID).
		Where("status IN ?", reservationStatuses(models.ActiveReservationStatuses)).
		Where("deleted_at IS NULL").
		Where("start_date < ? AND end_date > ?", q.End, q.Start)
	if q.ExcludeReservationID != "" {
		tx = tx.Where("id <> ?", q.ExcludeReservationID)
	}
	var reservations []models.Reservation
	if err := tx.Order("start_date").Find(&reservations).Error; err != nil {
		return nil, translate(err, "reservation", "")
	}
	return reservations, nil
}

func (r *GormRepository) ListOverdue(ctx context.Context, cutoff time.Time) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.conn(ctx).Preload("Pet").Preload("User").
		Where("status = ?", string(models.ReservationStatusCheckedIn)).
		Where("end_date < ?", cutoff).
		Where("actual_check_out IS NULL AND deleted_at IS NULL").
		Order("end_date").
		Find(&reservations).Error
	if err != nil {
		return nil, translate(err, "reservation", "")
	}
	return reservations, nil
}

func (r *GormRepository) UpdateOverstay(ctx context.Context, id string, u models.OverstayUpdate) (bool, error) {
	res := r.conn(ctx).Model(&models.Reservation{}).
		Where("id = ? AND status = ? AND actual_check_out IS NULL", id, string(models.ReservationStatusCheckedIn)).
		Updates(map[string]interface{}{
			"is_overstay":                true,
			"overstay_days":              u.OverstayDays,
			"overstay_fee":               u.OverstayFee,
			"contact_attempts":           u.ContactAttempts,
			"last_contact_attempt":       u.LastContactAttempt,
			"emergency_contact_notified": u.EmergencyContactNotified,
			"legal_escalation_started":   u.LegalEscalationStarted,
		})
	if res.Error != nil {
		return false, translate(res.Error, "reservation", id)
	}
	return res.RowsAffected > 0, nil
}

// Payments

func (r *GormRepository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return translate(r.conn(ctx).Create(payment).Error, "payment", payment.ID)
}

func (r *GormRepository) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.conn(ctx).First(&payment, "id = ?", id).Error; err != nil {
		return nil, translate(err, "payment", id)
	}
	return &payment, nil
}

func (r *GormRepository) UpdatePayment(ctx context.Context, payment *models.Payment) error {
	return translate(r.conn(ctx).Save(payment).Error, "payment", payment.ID)
}

func (r *GormRepository) ListPayments(ctx context.Context, filter PaymentFilter) ([]models.Payment, error) {
	tx := r.conn(ctx).Model(&models.Payment{})
	if filter.ReservationID != "" {
		tx = tx.Where("reservation_id = ?", filter.ReservationID)
	}
	if filter.UserID != "" {
		tx = tx.Where("user_id = ?", filter.UserID)
	}
	if filter.Kind != "" {
		tx = tx.Where("kind = ?", string(filter.Kind))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		tx = tx.Where("status IN ?", statuses)
	}
	if filter.OverstayDays > 0 {
		tx = tx.Where("overstay_days = ?", filter.OverstayDays)
	}
	if filter.RetryDueBy != nil {
		tx = tx.Where("next_retry_at IS NOT NULL AND next_retry_at <= ?", *filter.RetryDueBy)
	}
	if filter.DeferredOnly {
		tx = tx.Where("is_deferred = ?", true)
	}
	if filter.DueFrom != nil {
		tx = tx.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		tx = tx.Where("due_date <= ?", *filter.DueTo)
	}
	var payments []models.Payment
	if err := tx.Order("created_at").Find(&payments).Error; err != nil {
		return nil, translate(err, "payment", "")
	}
	return payments, nil
}

func (r *GormRepository) ClaimPayment(ctx context.Context, id string, now, until time.Time) (bool, error) {
	res := r.conn(ctx).Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, string(models.PaymentStatusPending)).
		Where("(claimed_until IS NULL OR claimed_until < ?)", now).
		Update("claimed_until", until)
	if res.Error != nil {
		return false, translate(res.Error, "payment", id)
	}
	return res.RowsAffected == 1, nil
}

func (r *GormRepository) SumPaidPayments(ctx context.Context, from, to time.Time) (float64, error) {
	var total float64
	err := r.conn(ctx).Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ? AND paid_at >= ? AND paid_at < ?", string(models.PaymentStatusPaid), from, to).
		Scan(&total).Error
	if err != nil {
		return 0, translate(err, "payment", "")
	}
	return total, nil
}

// Audit

func (r *GormRepository) AppendAuditLog(ctx context.Context, entry *models.AuditLog) error {
	return translate(r.conn(ctx).Create(entry).Error, "audit log", entry.ID)
}

func (r *GormRepository) LastAuditLog(ctx context.Context) (*models.AuditLog, error) {
	var entries []models.AuditLog
	if err := r.conn(ctx).Order("timestamp DESC").Limit(1).Find(&entries).Error; err != nil {
		return nil, translate(err, "audit log", "")
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

func reservationStatuses(statuses []models.ReservationStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
