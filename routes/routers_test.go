package routes

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/olahol/melody"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/o-vuong/doggo-hotel/controllers"
	"github.com/o-vuong/doggo-hotel/middleware"
	"github.com/o-vuong/doggo-hotel/models"
	"github.com/o-vuong/doggo-hotel/repository"
	"github.com/o-vuong/doggo-hotel/services"
	"github.com/o-vuong/doggo-hotel/services/logger"
	"github.com/o-vuong/doggo-hotel/services/notification"
	"github.com/o-vuong/doggo-hotel/services/processor"
	"github.com/o-vuong/doggo-hotel/types"
	"github.com/o-vuong/doggo-hotel/validator"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validator.Register(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type envelope struct {
	Code    int             `json:"code"`
	Mess    string          `json:"mess"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details"`
}

type photoStore struct {
	bytes int
}

func (p *photoStore) UploadImage(ctx context.Context, src io.Reader, folder, publicID string) (string, error) {
	raw, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	p.bytes += len(raw)
	return "https://res.cloudinary.com/doggo/image/upload/" + folder + "/" + publicID + ".png", nil
}

type server struct {
	router   *gin.Engine
	repo     *repository.MemoryRepository
	verifier *services.TokenVerifier
	photos   *photoStore

	owner    models.User
	stranger models.User
	staff    models.User
	manager  models.User
	facility models.Facility
	kennel   models.Kennel
	pet      models.Pet
}

func newServer(t *testing.T) *server {
	t.Helper()
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	log := logger.NewNopLogger()
	operator := &notification.LogService{Logger: log}
	notifier := &notification.LogNotifier{Logger: log}

	audit := services.NewAuditService(repo, log, nil)
	payments := services.NewPaymentService(services.PaymentServiceOptions{
		Repo:      repo,
		Processor: processor.NewSandbox(),
		Operator:  operator,
		Audit:     audit,
		Logger:    log,
	})
	overstay := services.NewOverstayService(services.OverstayServiceOptions{
		Repo:     repo,
		Payments: payments,
		Notifier: notifier,
		Operator: operator,
		Audit:    audit,
		Logger:   log,
	})

	s := &server{repo: repo, verifier: services.NewTokenVerifier("test-secret"), photos: &photoStore{}}
	router := gin.New()
	SetupRoutes(router, Deps{
		Verifier:     s.verifier,
		Logger:       log,
		RateLimiter:  middleware.NewRateLimiter(1000, 1000),
		Repo:         repo,
		Notifier:     notifier,
		Operator:     operator,
		Reservations: services.NewReservationService(repo, payments, audit, log, nil),
		Payments:     payments,
		Availability: services.NewAvailabilityService(repo),
		Kennels:      services.NewKennelService(repo, log),
		Pets:         services.NewPetService(services.PetServiceOptions{Repo: repo, Uploader: s.photos, Logger: log}),
		Facilities:   services.NewFacilityService(repo, log),
		Melody:       melody.New(),
		Overstay:     overstay,
		Dashboard:    services.NewDashboardService(repo, nil, log, nil),
		Reminders:    services.NewReminderService(repo, notifier, log, nil, time.Second),
		Health: map[string]controllers.Pinger{
			"database": func(ctx context.Context) error { return nil },
		},
	})
	s.router = router

	addUser := func(name, email string, role models.Role) models.User {
		u := models.User{ID: uuid.NewString(), Name: name, Email: email, Role: role}
		require.NoError(t, repo.CreateUser(ctx, &u))
		return u
	}
	s.owner = addUser("Mai", "mai@example.com", models.RolePetOwner)
	s.stranger = addUser("Khoa", "khoa@example.com", models.RolePetOwner)
	s.staff = addUser("Linh", "linh@example.com", models.RoleStaff)
	s.manager = addUser("Tuan", "tuan@example.com", models.RoleManager)

	s.facility = models.Facility{ID: uuid.NewString(), Name: "Riverside"}
	require.NoError(t, repo.CreateFacility(ctx, &s.facility))
	s.kennel = models.Kennel{
		ID:         uuid.NewString(),
		FacilityID: s.facility.ID,
		Name:       "K-01",
		Size:       models.KennelSizeSmall,
		Status:     models.KennelStatusAvailable,
		DailyRate:  40,
	}
	require.NoError(t, repo.CreateKennel(ctx, &s.kennel))
	s.pet = models.Pet{ID: uuid.NewString(), OwnerID: s.owner.ID, Name: "Bun", Species: "dog"}
	require.NoError(t, repo.CreatePet(ctx, &s.pet))
	return s
}

func (s *server) token(t *testing.T, u models.User) string {
	t.Helper()
	token, err := s.verifier.IssueToken(types.Principal{UserID: u.ID, Role: u.Role}, time.Hour)
	require.NoError(t, err)
	return token
}

func (s *server) do(t *testing.T, method, path string, as *models.User, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+s.token(t, *as))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

// stay trả về khoảng [start, end) cách hôm nay offset ngày
func stay(offset, nights int) (time.Time, time.Time) {
	start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, offset)
	return start, start.AddDate(0, 0, nights)
}

func (s *server) book(t *testing.T, offset, nights int, extra map[string]interface{}) (*httptest.ResponseRecorder, envelope) {
	start, end := stay(offset, nights)
	body := map[string]interface{}{
		"petId":     s.pet.ID,
		"kennelId":  s.kennel.ID,
		"startDate": start,
		"endDate":   end,
	}
	for k, v := range extra {
		body[k] = v
	}
	return s.do(t, http.MethodPost, "/api/v1/reservations", &s.owner, body)
}

func TestCreateReservationThenConfirm(t *testing.T) {
	s := newServer(t)

	w, env := s.book(t, 10, 3, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Reservation
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, models.ReservationStatusPending, created.Status)
	assert.Equal(t, 120.0, created.TotalPrice)
	assert.NotEmpty(t, created.PaymentID)

	w, env = s.do(t, http.MethodGet, "/api/v1/payments/"+created.PaymentID, &s.owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var payment models.Payment
	require.NoError(t, json.Unmarshal(env.Data, &payment))
	assert.Equal(t, models.PaymentStatusPaid, payment.Status)

	w, env = s.do(t, http.MethodPut, "/api/v1/reservations/"+created.ID+"/status", &s.staff,
		map[string]string{"status": "CONFIRMED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var confirmed models.Reservation
	require.NoError(t, json.Unmarshal(env.Data, &confirmed))
	assert.Equal(t, models.ReservationStatusConfirmed, confirmed.Status)
}

func TestCreateReservationConflictReturnsDetails(t *testing.T) {
	s := newServer(t)

	w, env := s.book(t, 10, 3, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var first models.Reservation
	require.NoError(t, json.Unmarshal(env.Data, &first))

	w, env = s.book(t, 11, 3, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", env.Error)

	var conflicts []models.ReservationConflict
	require.NoError(t, json.Unmarshal(env.Details, &conflicts))
	require.Len(t, conflicts, 1)
	assert.Equal(t, first.ID, conflicts[0].ReservationID)

	// ngày trả phòng là nửa mở, đặt ngay sau đó vẫn được
	w, _ = s.book(t, 13, 2, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateReservationWithDeclinedPaymentIsAccepted(t *testing.T) {
	s := newServer(t)

	w, env := s.book(t, 5, 2, map[string]interface{}{"paymentMethod": "decline_card"})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.Equal(t, "EXTERNAL_SERVICE_ERROR", env.Error)

	var r models.Reservation
	require.NoError(t, json.Unmarshal(env.Data, &r))
	assert.Equal(t, models.ReservationStatusPending, r.Status)
}

func TestCreateReservationRequestValidation(t *testing.T) {
	s := newServer(t)

	tests := []struct {
		name string
		as   *models.User
		body map[string]interface{}
		want int
	}{
		{"no token", nil, map[string]interface{}{}, http.StatusUnauthorized},
		{"missing pet", &s.owner, map[string]interface{}{"kennelId": s.kennel.ID}, http.StatusBadRequest},
		{"pet id not a uuid", &s.owner, map[string]interface{}{
			"petId": "bun", "kennelId": s.kennel.ID, "startDate": time.Now(), "endDate": time.Now().Add(48 * time.Hour),
		}, http.StatusBadRequest},
		{"end before start", &s.owner, map[string]interface{}{
			"petId": s.pet.ID, "kennelId": s.kennel.ID, "startDate": time.Now().Add(48 * time.Hour), "endDate": time.Now(),
		}, http.StatusBadRequest},
		{"someone else's pet", &s.stranger, map[string]interface{}{
			"petId": s.pet.ID, "kennelId": s.kennel.ID, "startDate": time.Now(), "endDate": time.Now().Add(48 * time.Hour),
		}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := s.do(t, http.MethodPost, "/api/v1/reservations", tt.as, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestCheckAvailability(t *testing.T) {
	s := newServer(t)
	w, env := s.book(t, 10, 3, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var booked models.Reservation
	require.NoError(t, json.Unmarshal(env.Data, &booked))

	start, end := stay(11, 1)
	base := "/api/v1/kennels/" + s.kennel.ID + "/availability?start=" + start.Format("2006-01-02") + "&end=" + end.Format("2006-01-02")

	w, env = s.do(t, http.MethodGet, base, nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var busy struct {
		Available bool                         `json:"available"`
		Conflicts []models.ReservationConflict `json:"conflicts"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &busy))
	assert.False(t, busy.Available)
	require.Len(t, busy.Conflicts, 1)
	assert.Equal(t, booked.ID, busy.Conflicts[0].ReservationID)

	w, env = s.do(t, http.MethodGet, base+"&excludeReservationId="+booked.ID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var free struct {
		Available bool `json:"available"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &free))
	assert.True(t, free.Available)

	w, _ = s.do(t, http.MethodGet, "/api/v1/kennels/"+uuid.NewString()+"/availability?start=2030-01-01&end=2030-01-02", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/kennels/"+s.kennel.ID+"/availability?start=tomorrow&end=2030-01-02", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListAvailableKennels(t *testing.T) {
	s := newServer(t)
	start, end := stay(3, 2)
	path := "/api/v1/facilities/" + s.facility.ID + "/available-kennels?start=" + start.Format(time.RFC3339) +
		"&end=" + end.Format(time.RFC3339)

	w, env := s.do(t, http.MethodGet, path+"&size=SMALL", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var kennels []models.Kennel
	require.NoError(t, json.Unmarshal(env.Data, &kennels))
	require.Len(t, kennels, 1)
	assert.Equal(t, s.kennel.ID, kennels[0].ID)

	w, _ = s.do(t, http.MethodGet, path+"&size=TINY", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestKennelManagementRequiresStaff(t *testing.T) {
	s := newServer(t)
	body := map[string]interface{}{
		"facilityId": s.facility.ID,
		"name":       "K-02",
		"size":       "LARGE",
		"dailyRate":  60,
	}

	w, _ := s.do(t, http.MethodPost, "/api/v1/kennels", &s.owner, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := s.do(t, http.MethodPost, "/api/v1/kennels", &s.staff, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var kennel models.Kennel
	require.NoError(t, json.Unmarshal(env.Data, &kennel))
	assert.Equal(t, models.KennelStatusAvailable, kennel.Status)

	body["size"] = "HUGE"
	w, env = s.do(t, http.MethodPost, "/api/v1/kennels", &s.staff, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Mess, "size must be one of")

	w, _ = s.do(t, http.MethodPut, "/api/v1/kennels/"+kennel.ID+"/status", &s.staff, map[string]string{"status": "MAINTENANCE"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodDelete, "/api/v1/kennels/"+kennel.ID, &s.staff, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteKennelWithActiveReservationConflicts(t *testing.T) {
	s := newServer(t)
	w, _ := s.book(t, 10, 3, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := s.do(t, http.MethodDelete, "/api/v1/kennels/"+s.kennel.ID, &s.staff, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", env.Error)
}

func TestListReservationsScopesOwners(t *testing.T) {
	s := newServer(t)
	w, _ := s.book(t, 10, 3, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	count := func(as models.User) int {
		w, env := s.do(t, http.MethodGet, "/api/v1/reservations?status=PENDING", &as, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var list []models.Reservation
		require.NoError(t, json.Unmarshal(env.Data, &list))
		return len(list)
	}
	assert.Equal(t, 1, count(s.owner))
	assert.Equal(t, 0, count(s.stranger))
	assert.Equal(t, 1, count(s.staff))

	w, _ = s.do(t, http.MethodGet, "/api/v1/reservations?status=LOST", &s.staff, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelReservation(t *testing.T) {
	s := newServer(t)
	w, env := s.book(t, 10, 3, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var r models.Reservation
	require.NoError(t, json.Unmarshal(env.Data, &r))

	w, _ = s.do(t, http.MethodDelete, "/api/v1/reservations/"+r.ID, &s.stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = s.do(t, http.MethodDelete, "/api/v1/reservations/"+r.ID, &s.owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cancelled models.Reservation
	require.NoError(t, json.Unmarshal(env.Data, &cancelled))
	assert.Equal(t, models.ReservationStatusCancelled, cancelled.Status)

	// kennel đã trống lại
	w, _ = s.book(t, 10, 3, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRefundFlow(t *testing.T) {
	s := newServer(t)
	w, env := s.book(t, 10, 3, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var r models.Reservation
	require.NoError(t, json.Unmarshal(env.Data, &r))
	paymentPath := "/api/v1/payments/" + r.PaymentID

	w, _ = s.do(t, http.MethodPost, paymentPath+"/refund-request", &s.owner, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodPost, paymentPath+"/refund-request", &s.owner, map[string]string{"reason": "trip cancelled"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = s.do(t, http.MethodPost, paymentPath+"/refund-approve", &s.staff, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = s.do(t, http.MethodPost, paymentPath+"/refund-approve", &s.manager, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var refunded models.Payment
	require.NoError(t, json.Unmarshal(env.Data, &refunded))
	assert.Equal(t, models.PaymentStatusRefunded, refunded.Status)
	assert.NotEmpty(t, refunded.RefundRef)
}

func TestCreateAndProcessDeferredPayment(t *testing.T) {
	s := newServer(t)
	w, env := s.book(t, 10, 3, map[string]interface{}{"deferPayment": true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var r models.Reservation
	require.NoError(t, json.Unmarshal(env.Data, &r))

	w, env = s.do(t, http.MethodPost, "/api/v1/payments", &s.owner, map[string]interface{}{
		"reservationId": r.ID,
		"amount":        15.5,
		"deferred":      true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var extra models.Payment
	require.NoError(t, json.Unmarshal(env.Data, &extra))
	assert.Equal(t, models.PaymentStatusPending, extra.Status)
	assert.True(t, extra.IsDeferred)

	w, _ = s.do(t, http.MethodPost, "/api/v1/payments/"+extra.ID+"/process", &s.stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	for i := 0; i < 2; i++ {
		w, env = s.do(t, http.MethodPost, "/api/v1/payments/"+extra.ID+"/process", &s.owner, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var paid models.Payment
		require.NoError(t, json.Unmarshal(env.Data, &paid))
		assert.Equal(t, models.PaymentStatusPaid, paid.Status)
	}
}

func TestStaffOnlyEndpoints(t *testing.T) {
	s := newServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		as     models.User
		want   int
	}{
		{"dashboard as owner", http.MethodGet, "/api/v1/dashboard/metrics", s.owner, http.StatusForbidden},
		{"dashboard as staff", http.MethodGet, "/api/v1/dashboard/metrics", s.staff, http.StatusOK},
		{"sweep as staff", http.MethodPost, "/api/v1/admin/sweeps/overstay", s.staff, http.StatusForbidden},
		{"sweep as manager", http.MethodPost, "/api/v1/admin/sweeps/overstay", s.manager, http.StatusOK},
		{"payment scan as manager", http.MethodPost, "/api/v1/admin/sweeps/payments", s.manager, http.StatusOK},
		{"reminders as manager", http.MethodPost, "/api/v1/admin/sweeps/reminders", s.manager, http.StatusOK},
		{"overstay charge on unknown reservation", http.MethodPost, "/api/v1/reservations/" + uuid.NewString() + "/overstay-payment", s.staff, http.StatusNotFound},
		{"operations socket as owner", http.MethodGet, "/ws", s.owner, http.StatusForbidden},
		{"broadcast as owner", http.MethodPost, "/api/v1/notifications", s.owner, http.StatusForbidden},
		{"refund approval as staff", http.MethodPost, "/api/v1/payments/" + uuid.NewString() + "/refund-approve", s.staff, http.StatusForbidden},
		{"facility as staff", http.MethodPost, "/api/v1/facilities", s.staff, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			as := tt.as
			w, _ := s.do(t, tt.method, tt.path, &as, nil)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestNotifyUser(t *testing.T) {
	s := newServer(t)

	w, _ := s.do(t, http.MethodPost, "/api/v1/notifications/users/"+s.owner.ID, &s.owner, map[string]string{"message": "hi"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := s.do(t, http.MethodPost, "/api/v1/notifications/users/"+s.owner.ID, &s.staff, map[string]string{"message": "Bun is ready"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), "mai@example.com")

	w, _ = s.do(t, http.MethodPost, "/api/v1/notifications", &s.staff, map[string]string{"message": "kennel K-01 cleaned"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInfrastructureRoutes(t *testing.T) {
	s := newServer(t)

	w, _ := s.do(t, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"ok"`)

	w, _ = s.do(t, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "doggo_hotel_http_requests_total")

	w, _ = s.do(t, http.MethodGet, "/ping", nil, nil)
	assert.Equal(t, "pong", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestPetRoutes(t *testing.T) {
	s := newServer(t)

	w, env := s.do(t, http.MethodPost, "/api/v1/pets", &s.owner, map[string]interface{}{"name": "Mochi", "species": "dog", "weight": 7})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Pet
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, s.owner.ID, created.OwnerID)

	w, _ = s.do(t, http.MethodPost, "/api/v1/pets", &s.owner, map[string]interface{}{"name": "Miu", "ownerId": s.stranger.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/pets", &s.owner, map[string]interface{}{"weight": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = s.do(t, http.MethodGet, "/api/v1/pets", &s.owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []models.Pet
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	assert.Len(t, mine, 2)

	w, env = s.do(t, http.MethodGet, "/api/v1/pets", &s.stranger, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var none []models.Pet
	require.NoError(t, json.Unmarshal(env.Data, &none))
	assert.Empty(t, none)

	w, _ = s.do(t, http.MethodGet, "/api/v1/pets/"+created.ID, &s.stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = s.do(t, http.MethodPut, "/api/v1/pets/"+created.ID, &s.owner, map[string]interface{}{"breed": "Shiba"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Pet
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Shiba", updated.Breed)
	assert.Equal(t, "Mochi", updated.Name)

	w, _ = s.do(t, http.MethodDelete, "/api/v1/pets/"+created.ID, &s.staff, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = s.do(t, http.MethodDelete, "/api/v1/pets/"+created.ID, &s.owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodGet, "/api/v1/pets/"+created.ID, &s.owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (s *server) upload(t *testing.T, path string, as models.User, field string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, "bun.png")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token(t, as))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestUploadPetPhoto(t *testing.T) {
	s := newServer(t)
	path := "/api/v1/pets/" + s.pet.ID + "/photo"

	w := s.upload(t, path, s.owner, "file", []byte("png bytes"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "pets/"+s.pet.ID+".png")
	assert.Equal(t, len("png bytes"), s.photos.bytes)

	stored, err := s.repo.GetPet(context.Background(), s.pet.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/doggo/image/upload/pets/"+s.pet.ID+".png", stored.PhotoURL)

	w = s.upload(t, path, s.stranger, "file", []byte("png bytes"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.upload(t, path, s.owner, "image", []byte("png bytes"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFacilityRoutes(t *testing.T) {
	s := newServer(t)

	w, env := s.do(t, http.MethodPost, "/api/v1/facilities", &s.manager, map[string]string{"name": "Lakeside", "location": "District 7"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Facility
	require.NoError(t, json.Unmarshal(env.Data, &created))

	w, env = s.do(t, http.MethodGet, "/api/v1/facilities", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Facility
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Lakeside", list[0].Name)

	w, _ = s.do(t, http.MethodGet, "/api/v1/facilities/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
