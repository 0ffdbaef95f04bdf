package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/o-vuong/doggo-hotel/config"
	"github.com/o-vuong/doggo-hotel/controllers"
	_ "github.com/o-vuong/doggo-hotel/docs"
	"github.com/o-vuong/doggo-hotel/metrics"
	middlewares "github.com/o-vuong/doggo-hotel/middleware"
	"github.com/o-vuong/doggo-hotel/models"
	"github.com/o-vuong/doggo-hotel/repository"
	"github.com/o-vuong/doggo-hotel/services"
	"github.com/o-vuong/doggo-hotel/services/logger"
	"github.com/o-vuong/doggo-hotel/services/notification"
)

// Deps gom các service đã khởi tạo để gắn vào router
type Deps struct {
	Verifier    middlewares.PrincipalVerifier
	Logger      logger.Logger
	RateLimiter *middlewares.RateLimiter
	Melody      *melody.Melody

	Repo     repository.Repository
	Notifier notification.Notifier
	Operator notification.Service

	Reservations *services.ReservationService
	Payments     *services.PaymentService
	Availability *services.AvailabilityService
	Kennels      *services.KennelService
	Pets         *services.PetService
	Facilities   *services.FacilityService
	Overstay     *services.OverstayService
	Dashboard    *services.DashboardService
	Reminders    *services.ReminderService

	Health map[string]controllers.Pinger
}

// can gắn kiểm tra quyền theo action cho từng route
func can(action models.Action) gin.HandlerFunc {
	return middlewares.CapabilityMiddleware(action)
}

func SetupRoutes(router *gin.Engine, d Deps) {
	router.Use(
		middlewares.RequestIDMiddleware(),
		middlewares.LoggerMiddleware(d.Logger),
		middlewares.MetricsMiddleware(),
		middlewares.ErrorHandler(),
	)

	reservationController := controllers.NewReservationController(d.Reservations, d.Overstay)
	kennelController := controllers.NewKennelController(d.Kennels, d.Availability)
	petController := controllers.NewPetController(d.Pets)
	facilityController := controllers.NewFacilityController(d.Facilities)
	paymentController := controllers.NewPaymentController(d.Payments, d.Reservations)
	dashboardController := controllers.NewDashboardController(d.Dashboard)
	adminController := controllers.NewAdminController(d.Overstay, d.Payments, d.Reminders)
	healthController := controllers.NewHealthController(d.Health)
	notificationController := controllers.NewNotificationController(controllers.NotificationControllerOptions{
		Repo:     d.Repo,
		Notifier: d.Notifier,
		Operator: d.Operator,
		Logger:   d.Logger,
	})

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	router.GET("/healthz", healthController.Healthz)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if d.Melody != nil {
		ws := router.Group("", middlewares.AuthMiddleware(d.Verifier), can(models.ActionSubscribeOperations))
		config.InitWebSocket(ws, d.Melody, d.Logger)
	}

	v1 := router.Group("/api/v1")

	public := v1.Group("", d.RateLimiter.Middleware())
	public.GET("/kennels", kennelController.GetKennels)
	public.GET("/kennels/:id", kennelController.GetKennelDetail)
	public.GET("/kennels/:id/availability", kennelController.CheckAvailability)
	public.GET("/facilities", facilityController.ListFacilities)
	public.GET("/facilities/:id", facilityController.GetFacility)
	public.GET("/facilities/:id/available-kennels", kennelController.GetAvailableKennels)

	authed := v1.Group("", middlewares.AuthMiddleware(d.Verifier), d.RateLimiter.Middleware())
	authed.POST("/reservations", reservationController.CreateReservation)
	authed.GET("/reservations", reservationController.ListReservations)
	authed.GET("/reservations/:id", reservationController.GetReservation)
	authed.PUT("/reservations/:id/status", reservationController.UpdateReservationStatus)
	authed.DELETE("/reservations/:id", reservationController.CancelReservation)

	authed.POST("/payments", paymentController.CreatePayment)
	authed.GET("/payments/:id", paymentController.GetPayment)
	authed.POST("/payments/:id/process", paymentController.ProcessPayment)
	authed.POST("/payments/:id/refund-request", paymentController.RequestRefund)

	authed.POST("/pets", can(models.ActionCreatePet), petController.CreatePet)
	authed.GET("/pets", petController.ListPets)
	authed.GET("/pets/:id", petController.GetPet)
	authed.PUT("/pets/:id", petController.UpdatePet)
	authed.DELETE("/pets/:id", petController.DeletePet)
	authed.POST("/pets/:id/photo", petController.UploadPetPhoto)

	authed.POST("/facilities", can(models.ActionManageFacilities), facilityController.CreateFacility)

	authed.POST("/kennels", can(models.ActionManageKennels), kennelController.CreateKennel)
	authed.PUT("/kennels/:id/status", can(models.ActionManageKennels), kennelController.ChangeKennelStatus)
	authed.DELETE("/kennels/:id", can(models.ActionManageKennels), kennelController.DeleteKennel)
	authed.POST("/reservations/:id/overstay-payment", can(models.ActionChargeOverstay), reservationController.ProcessOverstayPayment)
	authed.GET("/dashboard/metrics", can(models.ActionViewDashboard), dashboardController.GetDashboardMetrics)
	authed.POST("/notifications", can(models.ActionNotifyUsers), notificationController.NotifyAll)
	authed.POST("/notifications/users/:userID", can(models.ActionNotifyUsers), notificationController.NotifyUser)

	authed.POST("/payments/:id/refund-approve", can(models.ActionApproveRefund), paymentController.ApproveRefund)

	sweeps := authed.Group("/admin/sweeps", can(models.ActionRunSweeps))
	sweeps.POST("/overstay", adminController.RunOverstaySweep)
	sweeps.POST("/payments", adminController.RunPaymentRetry)
	sweeps.POST("/reminders", adminController.RunPaymentReminders)
}
