package services

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/o-vuong/doggo-hotel/builders"
	"github.com/o-vuong/doggo-hotel/models"
	"github.com/o-vuong/doggo-hotel/repository"
	"github.com/o-vuong/doggo-hotel/services/processor"
	"github.com/o-vuong/doggo-hotel/types"
)

var baseTime = time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fakeProcessor struct {
	mu        sync.Mutex
	charges   []processor.ChargeRequest
	refunds   []string
	chargeErr error
	refundErr error
}

func (p *fakeProcessor) Charge(ctx context.Context, req processor.ChargeRequest) (*processor.ChargeResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.charges = append(p.charges, req)
	if p.chargeErr != nil {
		return nil, p.chargeErr
	}
	return &processor.ChargeResult{
		ExternalRef: "ch_" + req.IdempotencyKey,
		Raw:         []byte(`{"status":"succeeded"}`),
	}, nil
}

func (p *fakeProcessor) Refund(ctx context.Context, externalRef, idempotencyKey string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refunds = append(p.refunds, idempotencyKey)
	if p.refundErr != nil {
		return "", p.refundErr
	}
	return "re_" + externalRef, nil
}

func (p *fakeProcessor) setChargeErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.chargeErr = err
}

func (p *fakeProcessor) chargeKeys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, len(p.charges))
	for i, c := range p.charges {
		keys[i] = c.IdempotencyKey
	}
	return keys
}

// stalledProcessor không bao giờ trả lời, chỉ dừng khi ctx hết hạn
type stalledProcessor struct{}

func (stalledProcessor) Charge(ctx context.Context, req processor.ChargeRequest) (*processor.ChargeResult, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (stalledProcessor) Refund(ctx context.Context, externalRef, idempotencyKey string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

// lostResponseProcessor thu tiền thành công nhưng làm mất phản hồi của lần gọi đầu tiên
type lostResponseProcessor struct {
	*processor.Sandbox
	mu    sync.Mutex
	lost  bool
	calls []string
	refs  map[string]bool
}

func (p *lostResponseProcessor) Charge(ctx context.Context, req processor.ChargeRequest) (*processor.ChargeResult, error) {
	res, err := p.Sandbox.Charge(ctx, req)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if p.refs == nil {
		p.refs = map[string]bool{}
	}
	p.refs[res.ExternalRef] = true
	if !p.lost {
		p.lost = true
		return nil, context.DeadlineExceeded
	}
	return res, nil
}

type sentMessage struct {
	Recipient string
	Subject   string
}

type fakeNotifier struct {
	mu      sync.Mutex
	sent    []sentMessage
	failFor map[string]bool
}

func (n *fakeNotifier) Notify(ctx context.Context, recipient, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failFor[recipient] {
		return fmt.Errorf("mailbox unavailable")
	}
	n.sent = append(n.sent, sentMessage{Recipient: recipient, Subject: subject})
	return nil
}

func (n *fakeNotifier) sentTo(recipient string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, m := range n.sent {
		if m.Recipient == recipient {
			count++
		}
	}
	return count
}

// stalledNotifier treo với các địa chỉ trong block cho tới khi ctx hết hạn
type stalledNotifier struct {
	*fakeNotifier
	block map[string]bool
}

func (n *stalledNotifier) Notify(ctx context.Context, recipient, subject, body string) error {
	if n.block[recipient] {
		<-ctx.Done()
		return ctx.Err()
	}
	return n.fakeNotifier.Notify(ctx, recipient, subject, body)
}

type fakeUploader struct {
	mu      sync.Mutex
	uploads []string
	err     error
}

func (u *fakeUploader) UploadImage(ctx context.Context, src io.Reader, folder, publicID string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.err != nil {
		return "", u.err
	}
	if _, err := io.ReadAll(src); err != nil {
		return "", err
	}
	u.uploads = append(u.uploads, folder+"/"+publicID)
	return "https://res.cloudinary.com/doggo/image/upload/" + folder + "/" + publicID + ".jpg", nil
}

type fakeOperator struct {
	mu       sync.Mutex
	messages []string
}

func (o *fakeOperator) SendMessage(message string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, message)
	return nil
}

func (o *fakeOperator) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.messages)
}

type fixture struct {
	ctx       context.Context
	repo      *repository.MemoryRepository
	clock     *testClock
	processor *fakeProcessor
	notifier  *fakeNotifier
	operator  *fakeOperator

	audit        *AuditService
	availability *AvailabilityService
	payments     *PaymentService
	reservations *ReservationService
	overstay     *OverstayService
	dashboard    *DashboardService
	kennels      *KennelService
	reminders    *ReminderService
	pets         *PetService
	facilities   *FacilityService
	uploader     *fakeUploader

	owner    types.Principal
	stranger types.Principal
	staff    types.Principal
	manager  types.Principal

	ownerUser models.User
	facility  models.Facility
	kennel    models.Kennel
	pet       models.Pet
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:       context.Background(),
		repo:      repository.NewMemoryRepository(),
		clock:     &testClock{t: baseTime},
		processor: &fakeProcessor{},
		notifier:  &fakeNotifier{failFor: map[string]bool{}},
		operator:  &fakeOperator{},
		uploader:  &fakeUploader{},
	}
	f.repo.SetClock(f.clock.Now)

	f.audit = NewAuditService(f.repo, nil, f.clock.Now)
	f.availability = NewAvailabilityService(f.repo)
	f.payments = NewPaymentService(PaymentServiceOptions{
		Repo:      f.repo,
		Processor: f.processor,
		Operator:  f.operator,
		Audit:     f.audit,
		Now:       f.clock.Now,
		Timeout:   time.Second,
	})
	f.reservations = NewReservationService(f.repo, f.payments, f.audit, nil, f.clock.Now)
	f.overstay = NewOverstayService(OverstayServiceOptions{
		Repo:     f.repo,
		Payments: f.payments,
		Notifier: f.notifier,
		Operator: f.operator,
		Audit:    f.audit,
		Now:      f.clock.Now,
		Timeout:  time.Second,
	})
	f.dashboard = NewDashboardService(f.repo, nil, nil, f.clock.Now)
	f.kennels = NewKennelService(f.repo, nil)
	f.reminders = NewReminderService(f.repo, f.notifier, nil, f.clock.Now, time.Second)
	f.pets = NewPetService(PetServiceOptions{Repo: f.repo, Uploader: f.uploader, Timeout: time.Second})
	f.facilities = NewFacilityService(f.repo, nil)

	f.ownerUser = f.addUser(t, "Mai", "mai@example.com", models.RolePetOwner)
	f.owner = types.Principal{UserID: f.ownerUser.ID, Role: models.RolePetOwner}
	other := f.addUser(t, "Khoa", "khoa@example.com", models.RolePetOwner)
	f.stranger = types.Principal{UserID: other.ID, Role: models.RolePetOwner}
	staff := f.addUser(t, "Linh", "linh@example.com", models.RoleStaff)
	f.staff = types.Principal{UserID: staff.ID, Role: models.RoleStaff}
	manager := f.addUser(t, "Tuan", "tuan@example.com", models.RoleManager)
	f.manager = types.Principal{UserID: manager.ID, Role: models.RoleManager}

	f.facility = models.Facility{ID: uuid.NewString(), Name: "Riverside", Location: "District 2"}
	require.NoError(t, f.repo.CreateFacility(f.ctx, &f.facility))
	f.kennel = f.addKennel(t, "K-01", models.KennelSizeSmall, models.KennelStatusAvailable, 40)

	f.pet = models.Pet{
		ID:               uuid.NewString(),
		OwnerID:          f.ownerUser.ID,
		Name:             "Bun",
		Species:          "dog",
		EmergencyContact: "+84901234567",
	}
	require.NoError(t, f.repo.CreatePet(f.ctx, &f.pet))
	return f
}

func (f *fixture) addUser(t *testing.T, name, email string, role models.Role) models.User {
	t.Helper()
	u := models.User{ID: uuid.NewString(), Name: name, Email: email, Role: role}
	require.NoError(t, f.repo.CreateUser(f.ctx, &u))
	return u
}

func (f *fixture) addKennel(t *testing.T, name string, size models.KennelSize, status models.KennelStatus, rate float64) models.Kennel {
	t.Helper()
	k := models.Kennel{
		ID:         uuid.NewString(),
		FacilityID: f.facility.ID,
		Name:       name,
		Size:       size,
		Status:     status,
		DailyRate:  rate,
	}
	require.NoError(t, f.repo.CreateKennel(f.ctx, &k))
	return k
}

// seedReservation ghi thẳng reservation và payment vào repo, bỏ qua luồng đặt chỗ
func (f *fixture) seedReservation(t *testing.T, kennel models.Kennel, status models.ReservationStatus, start, end time.Time, paymentStatus models.PaymentStatus) *models.Reservation {
	t.Helper()
	return f.seedReservationFor(t, f.pet, kennel, status, start, end, paymentStatus)
}

func (f *fixture) seedReservationFor(t *testing.T, pet models.Pet, kennel models.Kennel, status models.ReservationStatus, start, end time.Time, paymentStatus models.PaymentStatus) *models.Reservation {
	t.Helper()
	r := builders.NewReservationBuilder().
		WithPet(&pet).
		WithKennel(&kennel).
		WithDates(start, end).
		WithStatus(status).
		WithTotalPrice(100).
		Build()
	p := &models.Payment{
		ID:            uuid.NewString(),
		ReservationID: r.ID,
		UserID:        r.UserID,
		Kind:          models.PaymentKindReservation,
		Amount:        100,
		Currency:      "usd",
		Status:        paymentStatus,
		MaxRetries:    3,
	}
	if paymentStatus == models.PaymentStatusPaid {
		paidAt := f.clock.Now()
		p.PaidAt = &paidAt
		p.ExternalRef = "ch_seed_" + p.ID
	}
	r.PaymentID = p.ID
	require.NoError(t, f.repo.CreatePayment(f.ctx, p))
	require.NoError(t, f.repo.CreateReservation(f.ctx, r))
	return r
}

func (f *fixture) reload(t *testing.T, id string) *models.Reservation {
	t.Helper()
	r, err := f.repo.GetReservation(f.ctx, id)
	require.NoError(t, err)
	return r
}

func (f *fixture) payment(t *testing.T, id string) *models.Payment {
	t.Helper()
	p, err := f.repo.GetPayment(f.ctx, id)
	require.NoError(t, err)
	return p
}

// storedPet đọc lại pet mặc định từ repo
func (f *fixture) storedPet(t *testing.T) *models.Pet {
	t.Helper()
	p, err := f.repo.GetPet(f.ctx, f.pet.ID)
	require.NoError(t, err)
	return p
}
