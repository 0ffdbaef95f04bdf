package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/o-vuong/doggo-hotel/errors"
	"github.com/o-vuong/doggo-hotel/models"
)

type memoryData struct {
	users        map[string]models.User
	facilities   map[string]models.Facility
	kennels      map[string]models.Kennel
	pets         map[string]models.Pet
	addOns       map[string]models.AddOnService
	reservations map[string]models.Reservation
	payments     map[string]models.Payment
	audit        []models.AuditLog
}

func newMemoryData() *memoryData {
	return &memoryData{
		users:        make(map[string]models.User),
		facilities:   make(map[string]models.Facility),
		kennels:      make(map[string]models.Kennel),
		pets:         make(map[string]models.Pet),
		addOns:       make(map[string]models.AddOnService),
		reservations: make(map[string]models.Reservation),
		payments:     make(map[string]models.Payment),
	}
}

func (d *memoryData) clone() *memoryData {
	c := newMemoryData()
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.facilities {
		c.facilities[k] = v
	}
	for k, v := range d.kennels {
		c.kennels[k] = v
	}
	for k, v := range d.pets {
		c.pets[k] = v
	}
	for k, v := range d.addOns {
		c.addOns[k] = v
	}
	for k, v := range d.reservations {
		c.reservations[k] = v
	}
	for k, v := range d.payments {
		c.payments[k] = v
	}
	c.audit = append([]models.AuditLog(nil), d.audit...)
	return c
}

// MemoryRepository giữ dữ liệu trong RAM; transaction được tuần tự hóa
// bằng một mutex và chỉ ghi đè snapshot khi fn thành công.
// Các ràng buộc unique và exclusion của Postgres được mô phỏng lại.
type MemoryRepository struct {
	mu   *sync.Mutex
	data *memoryData
	inTx bool
	now  func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		mu:   &sync.Mutex{},
		data: newMemoryData(),
		now:  time.Now,
	}
}

// SetClock đổi nguồn thời gian dùng cho CreatedAt/UpdatedAt
func (m *MemoryRepository) SetClock(now func() time.Time) {
	m.now = now
}

func (m *MemoryRepository) lock() func() {
	if m.inTx {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

func (m *MemoryRepository) WithTx(ctx context.Context, fn func(repo Repository) error) error {
	if m.inTx {
		return fn(m)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &MemoryRepository{mu: m.mu, data: m.data.clone(), inTx: true, now: m.now}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errors.Database("transaction aborted", err)
	}
	m.data = tx.data
	return nil
}

func (m *MemoryRepository) stamp(created, updated *time.Time) {
	now := m.now()
	if created != nil && created.IsZero() {
		*created = now
	}
	*updated = now
}

// Users

func (m *MemoryRepository) CreateUser(ctx context.Context, user *models.User) error {
	defer m.lock()()
	if _, ok := m.data.users[user.ID]; ok {
		return errors.Conflict("user already exists", nil)
	}
	for _, u := range m.data.users {
		if user.Email != "" && u.Email == user.Email {
			return errors.Conflict("user already exists", nil)
		}
	}
	m.stamp(&user.CreatedAt, &user.UpdatedAt)
	m.data.users[user.ID] = *user
	return nil
}

func (m *MemoryRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	defer m.lock()()
	u, ok := m.data.users[id]
	if !ok {
		return nil, errors.NotFound("user", id)
	}
	return &u, nil
}

// Facilities

func (m *MemoryRepository) CreateFacility(ctx context.Context, facility *models.Facility) error {
	defer m.lock()()
	if _, ok := m.data.facilities[facility.ID]; ok {
		return errors.Conflict("facility already exists", nil)
	}
	m.stamp(&facility.CreatedAt, &facility.UpdatedAt)
	m.data.facilities[facility.ID] = *facility
	return nil
}

func (m *MemoryRepository) GetFacility(ctx context.Context, id string) (*models.Facility, error) {
	defer m.lock()()
	f, ok := m.data.facilities[id]
	if !ok {
		return nil, errors.NotFound("facility", id)
	}
	return &f, nil
}

func (m *MemoryRepository) ListFacilities(ctx context.Context) ([]models.Facility, error) {
	defer m.lock()()
	out := make([]models.Facility, 0, len(m.data.facilities))
	for _, f := range m.data.facilities {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Kennels

func (m *MemoryRepository) CreateKennel(ctx context.Context, kennel *models.Kennel) error {
	defer m.lock()()
	if _, ok := m.data.kennels[kennel.ID]; ok {
		return errors.Conflict("kennel already exists", nil)
	}
	if kennel.Status == "" {
		kennel.Status = models.KennelStatusAvailable
	}
	m.stamp(&kennel.CreatedAt, &kennel.UpdatedAt)
	m.data.kennels[kennel.ID] = *kennel
	return nil
}

func (m *MemoryRepository) GetKennel(ctx context.Context, id string) (*models.Kennel, error) {
	defer m.lock()()
	k, ok := m.data.kennels[id]
	if !ok {
		return nil, errors.NotFound("kennel", id)
	}
	return &k, nil
}

func (m *MemoryRepository) LockKennel(ctx context.Context, id string) (*models.Kennel, error) {
	return m.GetKennel(ctx, id)
}

func matchKennel(k models.Kennel, f KennelFilter) bool {
	if f.FacilityID != "" && k.FacilityID != f.FacilityID {
		return false
	}
	if f.Size != "" && k.Size != f.Size {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if k.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (m *MemoryRepository) ListKennels(ctx context.Context, filter KennelFilter) ([]models.Kennel, error) {
	defer m.lock()()
	var out []models.Kennel
	for _, k := range m.data.kennels {
		if matchKennel(k, filter) {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *MemoryRepository) CountKennels(ctx context.Context, filter KennelFilter) (int64, error) {
	kennels, err := m.ListKennels(ctx, filter)
	return int64(len(kennels)), err
}

func (m *MemoryRepository) UpdateKennelStatus(ctx context.Context, id string, status models.KennelStatus) error {
	defer m.lock()()
	k, ok := m.data.kennels[id]
	if !ok {
		return errors.NotFound("kennel", id)
	}
	k.Status = status
	k.UpdatedAt = m.now()
	m.data.kennels[id] = k
	return nil
}

func (m *MemoryRepository) DeleteKennel(ctx context.Context, id string) error {
	defer m.lock()()
	if _, ok := m.data.kennels[id]; !ok {
		return errors.NotFound("kennel", id)
	}
	delete(m.data.kennels, id)
	return nil
}

// Pets & add-ons

func (m *MemoryRepository) CreatePet(ctx context.Context, pet *models.Pet) error {
	defer m.lock()()
	if _, ok := m.data.pets[pet.ID]; ok {
		return errors.Conflict("pet already exists", nil)
	}
	m.stamp(&pet.CreatedAt, &pet.UpdatedAt)
	m.data.pets[pet.ID] = *pet
	return nil
}

func (m *MemoryRepository) GetPet(ctx context.Context, id string) (*models.Pet, error) {
	defer m.lock()()
	p, ok := m.data.pets[id]
	if !ok {
		return nil, errors.NotFound("pet", id)
	}
	return &p, nil
}

func (m *MemoryRepository) ListPets(ctx context.Context, ownerID string) ([]models.Pet, error) {
	defer m.lock()()
	var out []models.Pet
	for _, p := range m.data.pets {
		if ownerID == "" || p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryRepository) UpdatePet(ctx context.Context, pet *models.Pet) error {
	defer m.lock()()
	if _, ok := m.data.pets[pet.ID]; !ok {
		return errors.NotFound("pet", pet.ID)
	}
	m.stamp(nil, &pet.UpdatedAt)
	m.data.pets[pet.ID] = *pet
	return nil
}

// DeletePet mô phỏng khóa ngoại reservations.pet_id
func (m *MemoryRepository) DeletePet(ctx context.Context, id string) error {
	defer m.lock()()
	if _, ok := m.data.pets[id]; !ok {
		return errors.NotFound("pet", id)
	}
	for _, r := range m.data.reservations {
		if r.PetID == id {
			return errors.Conflict("pet is still referenced by other records", nil)
		}
	}
	delete(m.data.pets, id)
	return nil
}

func (m *MemoryRepository) CreateAddOnService(ctx context.Context, svc *models.AddOnService) error {
	defer m.lock()()
	if _, ok := m.data.addOns[svc.ID]; ok {
		return errors.Conflict("add-on service already exists", nil)
	}
	if svc.CreatedAt.IsZero() {
		svc.CreatedAt = m.now()
	}
	m.data.addOns[svc.ID] = *svc
	return nil
}

func (m *MemoryRepository) ListAddOnServices(ctx context.Context, ids []string) ([]models.AddOnService, error) {
	defer m.lock()()
	var out []models.AddOnService
	for _, id := range ids {
		if svc, ok := m.data.addOns[id]; ok {
			out = append(out, svc)
		}
	}
	return out, nil
}

// Reservations

func (m *MemoryRepository) hydrate(r models.Reservation) models.Reservation {
	if p, ok := m.data.pets[r.PetID]; ok {
		r.Pet = &p
	}
	if k, ok := m.data.kennels[r.KennelID]; ok {
		r.Kennel = &k
	}
	if u, ok := m.data.users[r.UserID]; ok {
		r.User = &u
	}
	return r
}

func strip(r models.Reservation) models.Reservation {
	r.Pet, r.Kennel, r.User = nil, nil, nil
	return r
}

// checkExclusion mô phỏng exclusion constraint trên (kennel_id, [start, end))
func (m *MemoryRepository) checkExclusion(r *models.Reservation) error {
	if !r.IsActive() {
		return nil
	}
	q := OverlapQuery{KennelID: r.KennelID, Start: r.StartDate, End: r.EndDate, ExcludeReservationID: r.ID}
	for _, other := range m.data.reservations {
		other := other
		if q.Matches(&other) {
			return errors.Conflict("kennel is already booked for an overlapping period", nil)
		}
	}
	return nil
}

func (m *MemoryRepository) CreateReservation(ctx context.Context, reservation *models.Reservation) error {
	defer m.lock()()
	if _, ok := m.data.reservations[reservation.ID]; ok {
		return errors.Conflict("reservation already exists", nil)
	}
	if err := m.checkExclusion(reservation); err != nil {
		return err
	}
	m.stamp(&reservation.CreatedAt, &reservation.UpdatedAt)
	m.data.reservations[reservation.ID] = strip(*reservation)
	return nil
}

func (m *MemoryRepository) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	defer m.lock()()
	r, ok := m.data.reservations[id]
	if !ok {
		return nil, errors.NotFound("reservation", id)
	}
	r = m.hydrate(r)
	return &r, nil
}

func (m *MemoryRepository) LockReservation(ctx context.Context, id string) (*models.Reservation, error) {
	return m.GetReservation(ctx, id)
}

func (m *MemoryRepository) UpdateReservation(ctx context.Context, reservation *models.Reservation) error {
	defer m.lock()()
	if _, ok := m.data.reservations[reservation.ID]; !ok {
		return errors.NotFound("reservation", reservation.ID)
	}
	if err := m.checkExclusion(reservation); err != nil {
		return err
	}
	m.stamp(nil, &reservation.UpdatedAt)
	m.data.reservations[reservation.ID] = strip(*reservation)
	return nil
}

func within(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}

func matchReservation(r models.Reservation, f ReservationFilter) bool {
	if f.UserID != "" && r.UserID != f.UserID {
		return false
	}
	if f.KennelID != "" && r.KennelID != f.KennelID {
		return false
	}
	if f.FacilityID != "" && r.FacilityID != f.FacilityID {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if r.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.ActiveAt != nil && (r.StartDate.After(*f.ActiveAt) || !r.EndDate.After(*f.ActiveAt)) {
		return false
	}
	if !within(r.StartDate, f.StartFrom, f.StartTo) || !within(r.CreatedAt, f.CreatedFrom, f.CreatedTo) {
		return false
	}
	if !f.IncludeDeleted && r.DeletedAt != nil {
		return false
	}
	return true
}

func (m *MemoryRepository) ListReservations(ctx context.Context, filter ReservationFilter) ([]models.Reservation, error) {
	defer m.lock()()
	var out []models.Reservation
	for _, r := range m.data.reservations {
		if matchReservation(r, filter) {
			out = append(out, m.hydrate(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if filter.RecentFirst {
			if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
				return out[i].UpdatedAt.After(out[j].UpdatedAt)
			}
		} else if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *MemoryRepository) CountReservations(ctx context.Context, filter ReservationFilter) (int64, error) {
	filter.Limit = 0
	out, err := m.ListReservations(ctx, filter)
	return int64(len(out)), err
}

func (m *MemoryRepository) FindOverlapping(ctx context.Context, q OverlapQuery) ([]models.Reservation, error) {
	defer m.lock()()
	var out []models.Reservation
	for _, r := range m.data.reservations {
		r := r
		if q.Matches(&r) {
			out = append(out, m.hydrate(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (m *MemoryRepository) ListOverdue(ctx context.Context, cutoff time.Time) ([]models.Reservation, error) {
	defer m.lock()()
	var out []models.Reservation
	for _, r := range m.data.reservations {
		if r.Status == models.ReservationStatusCheckedIn && r.EndDate.Before(cutoff) &&
			r.ActualCheckOut == nil && r.DeletedAt == nil {
			out = append(out, m.hydrate(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndDate.Before(out[j].EndDate) })
	return out, nil
}

func (m *MemoryRepository) UpdateOverstay(ctx context.Context, id string, u models.OverstayUpdate) (bool, error) {
	defer m.lock()()
	r, ok := m.data.reservations[id]
	if !ok || r.Status != models.ReservationStatusCheckedIn || r.ActualCheckOut != nil {
		return false, nil
	}
	r.IsOverstay = true
	r.OverstayDays = u.OverstayDays
	r.OverstayFee = u.OverstayFee
	r.ContactAttempts = u.ContactAttempts
	r.LastContactAttempt = u.LastContactAttempt
	r.EmergencyContactNotified = u.EmergencyContactNotified
	r.LegalEscalationStarted = u.LegalEscalationStarted
	r.UpdatedAt = m.now()
	m.data.reservations[id] = r
	return true, nil
}

// Payments

func (m *MemoryRepository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	defer m.lock()()
	if _, ok := m.data.payments[payment.ID]; ok {
		return errors.Conflict("payment already exists", nil)
	}
	if payment.Kind == models.PaymentKindOverstay {
		for _, p := range m.data.payments {
			if p.Kind == models.PaymentKindOverstay && p.ReservationID == payment.ReservationID &&
				p.OverstayDays == payment.OverstayDays {
				return errors.Conflict("payment already exists", nil)
			}
		}
	}
	m.stamp(&payment.CreatedAt, &payment.UpdatedAt)
	m.data.payments[payment.ID] = *payment
	return nil
}

func (m *MemoryRepository) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	defer m.lock()()
	p, ok := m.data.payments[id]
	if !ok {
		return nil, errors.NotFound("payment", id)
	}
	return &p, nil
}

func (m *MemoryRepository) UpdatePayment(ctx context.Context, payment *models.Payment) error {
	defer m.lock()()
	if _, ok := m.data.payments[payment.ID]; !ok {
		return errors.NotFound("payment", payment.ID)
	}
	m.stamp(nil, &payment.UpdatedAt)
	m.data.payments[payment.ID] = *payment
	return nil
}

func matchPayment(p models.Payment, f PaymentFilter) bool {
	if f.ReservationID != "" && p.ReservationID != f.ReservationID {
		return false
	}
	if f.UserID != "" && p.UserID != f.UserID {
		return false
	}
	if f.Kind != "" && p.Kind != f.Kind {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if p.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.OverstayDays > 0 && p.OverstayDays != f.OverstayDays {
		return false
	}
	if f.RetryDueBy != nil && (p.NextRetryAt == nil || p.NextRetryAt.After(*f.RetryDueBy)) {
		return false
	}
	if f.DeferredOnly && !p.IsDeferred {
		return false
	}
	if f.DueFrom != nil || f.DueTo != nil {
		if p.DueDate == nil {
			return false
		}
		if f.DueFrom != nil && p.DueDate.Before(*f.DueFrom) {
			return false
		}
		if f.DueTo != nil && p.DueDate.After(*f.DueTo) {
			return false
		}
	}
	return true
}

func (m *MemoryRepository) ListPayments(ctx context.Context, filter PaymentFilter) ([]models.Payment, error) {
	defer m.lock()()
	var out []models.Payment
	for _, p := range m.data.payments {
		if matchPayment(p, filter) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryRepository) ClaimPayment(ctx context.Context, id string, now, until time.Time) (bool, error) {
	defer m.lock()()
	p, ok := m.data.payments[id]
	if !ok || p.Status != models.PaymentStatusPending {
		return false, nil
	}
	if p.ClaimedUntil != nil && !p.ClaimedUntil.Before(now) {
		return false, nil
	}
	p.ClaimedUntil = &until
	m.data.payments[id] = p
	return true, nil
}

func (m *MemoryRepository) SumPaidPayments(ctx context.Context, from, to time.Time) (float64, error) {
	defer m.lock()()
	var total float64
	for _, p := range m.data.payments {
		if p.Status == models.PaymentStatusPaid && p.PaidAt != nil && within(*p.PaidAt, &from, &to) {
			total += p.Amount
		}
	}
	return total, nil
}

// Audit

func (m *MemoryRepository) AppendAuditLog(ctx context.Context, entry *models.AuditLog) error {
	defer m.lock()()
	for _, e := range m.data.audit {
		if e.PrevHash == entry.PrevHash || e.Hash == entry.Hash {
			return errors.Conflict("audit log already exists", nil)
		}
	}
	m.data.audit = append(m.data.audit, *entry)
	return nil
}

func (m *MemoryRepository) LastAuditLog(ctx context.Context) (*models.AuditLog, error) {
	defer m.lock()()
	if len(m.data.audit) == 0 {
		return nil, nil
	}
	last := m.data.audit[len(m.data.audit)-1]
	return &last, nil
}

// AuditTrail trả về bản sao nhật ký theo thứ tự ghi
func (m *MemoryRepository) AuditTrail() []models.AuditLog {
	defer m.lock()()
	return append([]models.AuditLog(nil), m.data.audit...)
}

var (
	_ Repository = (*GormRepository)(nil)
	_ Repository = (*MemoryRepository)(nil)
)
