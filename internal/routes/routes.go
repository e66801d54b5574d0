package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/config"
	"github.com/gardenpro/landscape-api/internal/domain/appointment"
	"github.com/gardenpro/landscape-api/internal/domain/media"
	"github.com/gardenpro/landscape-api/internal/domain/notification"
	"github.com/gardenpro/landscape-api/internal/domain/payment"
	"github.com/gardenpro/landscape-api/internal/handlers"
	"github.com/gardenpro/landscape-api/internal/infra/imaging"
	"github.com/gardenpro/landscape-api/internal/infra/payments"
	infraRepo "github.com/gardenpro/landscape-api/internal/infra/repository"
	"github.com/gardenpro/landscape-api/internal/middleware"
	"github.com/gardenpro/landscape-api/internal/models"
	ucAppointment "github.com/gardenpro/landscape-api/internal/usecase/appointment"
	ucCrew "github.com/gardenpro/landscape-api/internal/usecase/crew"
	ucEstimate "github.com/gardenpro/landscape-api/internal/usecase/estimate"
	ucPayment "github.com/gardenpro/landscape-api/internal/usecase/payment"
)

// Deps are the singletons built in main.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Slots    appointment.SlotCache
	Store    media.Store
	Gateway  payment.Gateway
	Notifier notification.Notifier
	Audit    *audit.Dispatcher
	Limiter  *middleware.RateLimiter
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	db, cfg := d.DB, d.Config

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware(cfg.FrontendURL))
	r.Use(middleware.Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	crewRepo := infraRepo.NewCrewGormRepository(db)
	estimateRepo := infraRepo.NewEstimateGormRepository(db)
	paymentRepo := infraRepo.NewPaymentGormRepository(db)

	normalizer := imaging.WebP{}

	// ======================================================
	// USE CASES
	// ======================================================
	appointments := handlers.AppointmentUseCases{
		Availability: ucAppointment.NewGetAvailability(appointmentRepo, d.Slots),
		Calendar:     ucAppointment.NewCalendar(appointmentRepo),
		Create:       ucAppointment.NewCreateAppointment(appointmentRepo, d.Slots, d.Notifier, d.Audit),
		Get:          ucAppointment.NewGetAppointment(appointmentRepo),
		Update:       ucAppointment.NewUpdateAppointment(appointmentRepo, d.Slots, d.Notifier, d.Audit),
		Delete:       ucAppointment.NewDeleteAppointment(appointmentRepo, d.Slots, d.Store, d.Audit),
		Reschedule:   ucAppointment.NewRequestReschedule(appointmentRepo, d.Notifier, d.Audit, cfg.AdminEmail),
		Photos:       ucAppointment.NewUploadPhotos(appointmentRepo, d.Store, normalizer, d.Audit),
	}

	estimates := handlers.EstimateUseCases{
		Create:  ucEstimate.NewCreateEstimate(estimateRepo, d.Notifier, d.Audit, cfg.AdminEmail),
		Update:  ucEstimate.NewUpdateEstimate(estimateRepo, d.Audit),
		Delete:  ucEstimate.NewDeleteEstimate(estimateRepo, d.Store, d.Audit),
		Get:     ucEstimate.NewGetEstimate(estimateRepo),
		Mine:    ucEstimate.NewListMyEstimates(estimateRepo),
		Approve: ucEstimate.NewApproveEstimate(estimateRepo, d.Notifier, d.Audit, cfg.AdminEmail),
		Decline: ucEstimate.NewDeclineEstimate(estimateRepo, d.Audit),
		Photos:  ucEstimate.NewUploadPhotos(estimateRepo, d.Store, normalizer, d.Audit),
	}

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	serviceHandler := handlers.NewServiceHandler(db, d.Audit)
	settingsHandler := handlers.NewSettingsHandler(db, d.Audit)
	customerHandler := handlers.NewCustomerHandler(db, d.Store, d.Audit)
	propertyImageHandler := handlers.NewPropertyImageHandler(db, d.Store, normalizer, d.Audit, cfg.MaxFileUpload)
	userHandler := handlers.NewUserHandler(db, d.Audit)
	professionalHandler := handlers.NewProfessionalHandler(db, d.Audit)

	appointmentHandler := handlers.NewAppointmentHandler(db, appointments, cfg.MaxFileUpload)
	estimateHandler := handlers.NewEstimateHandler(db, estimates, cfg.MaxFileUpload)

	crewHandler := handlers.NewCrewHandler(
		ucCrew.NewAssign(crewRepo, d.Audit),
		ucCrew.NewAddMember(crewRepo, d.Audit),
		ucCrew.NewSetLead(crewRepo, d.Audit),
		ucCrew.NewRemoveMember(crewRepo, d.Audit),
		ucCrew.NewMyAssignments(crewRepo),
		ucCrew.NewAvailableProfessionals(crewRepo),
		ucCrew.NewWorkload(crewRepo),
	)

	paymentHandler := handlers.NewPaymentHandler(
		db,
		ucPayment.NewProcessPayment(paymentRepo, d.Gateway, payments.GatewayName, d.Notifier, d.Audit),
		ucPayment.NewRecordManualPayment(paymentRepo, d.Audit),
		ucPayment.NewRefundPayment(paymentRepo, d.Gateway, d.Notifier, d.Audit),
		ucPayment.NewGetPayment(paymentRepo),
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)
	dashboardHandler := handlers.NewDashboardHandler(db)
	reportHandler := handlers.NewReportHandler(db)

	galleryHandler := handlers.NewGalleryHandler(db, d.Store, normalizer, d.Audit, cfg.MaxFileUpload)
	portfolioHandler := handlers.NewPortfolioHandler(db, d.Store, normalizer, d.Audit, cfg.MaxFileUpload)
	heroHandler := handlers.NewHeroHandler(db, d.Store, normalizer, d.Audit, cfg.MaxFileUpload)

	announcementHandler := handlers.NewAnnouncementHandler(db, d.Audit)
	messageHandler := handlers.NewMessageHandler(db)
	contactHandler := handlers.NewContactHandler(db, d.Notifier, d.Audit, cfg.AdminEmail)

	// ======================================================
	// API
	// ======================================================
	limited := d.Limiter.Middleware()
	auth := middleware.AuthMiddleware(cfg)
	optionalAuth := middleware.OptionalAuth(cfg)

	admin := middleware.Authorize(models.RoleAdmin)
	staff := middleware.Authorize(models.RoleAdmin, models.RoleProfessional)
	customer := middleware.Authorize(models.RoleCustomer)
	professional := middleware.Authorize(models.RoleProfessional)

	api := r.Group("/api/v1")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.POST("/auth/register", limited, authHandler.Register)
		api.POST("/auth/login", limited, authHandler.Login)

		api.GET("/services", serviceHandler.List)
		api.GET("/services/:id", serviceHandler.Get)
		api.GET("/settings", settingsHandler.Get)
		api.GET("/appointments/availability", limited, appointmentHandler.Availability)

		api.GET("/gallery", optionalAuth, galleryHandler.List)
		api.GET("/gallery/:id", optionalAuth, galleryHandler.Get)
		api.GET("/portfolio", optionalAuth, portfolioHandler.List)
		api.GET("/portfolio/:id", optionalAuth, portfolioHandler.Get)
		api.GET("/hero-image", heroHandler.Get)
		api.GET("/announcements/active", optionalAuth, announcementHandler.Active)
		api.POST("/contact", limited, contactHandler.Submit)

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(auth)
		{
			secured.GET("/auth/me", authHandler.Me)

			secured.POST("/services", admin, serviceHandler.Create)
			secured.PUT("/services/:id", admin, serviceHandler.Update)
			secured.DELETE("/services/:id", admin, serviceHandler.Delete)

			secured.PUT("/settings", admin, settingsHandler.Update)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/appointments/calendar", appointmentHandler.Calendar)
			secured.GET("/appointments", appointmentHandler.List)
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PUT("/appointments/:id", appointmentHandler.Update)
			secured.DELETE("/appointments/:id", admin, appointmentHandler.Delete)
			secured.PUT("/appointments/:id/reschedule-request", customer, appointmentHandler.RequestReschedule)
			secured.POST("/appointments/:id/photos", staff, appointmentHandler.UploadPhotos)
			secured.POST("/appointments/:id/crew", admin, crewHandler.AddMember)
			secured.DELETE("/appointments/:id/crew/:userId", admin, crewHandler.RemoveMember)
			secured.PUT("/appointments/:id/lead", admin, crewHandler.SetLead)

			// ------------------------------
			// PROFESSIONALS
			// ------------------------------
			secured.GET("/professionals", professionalHandler.List)
			secured.GET("/professionals/available", staff, crewHandler.Available)
			secured.GET("/professionals/me/assignments", professional, crewHandler.MyAssignments)
			secured.GET("/professionals/:id", professionalHandler.Get)
			secured.GET("/professionals/:id/workload", staff, crewHandler.Workload)
			secured.POST("/professionals", admin, professionalHandler.Create)
			secured.PUT("/professionals/:id", admin, professionalHandler.Update)
			secured.DELETE("/professionals/:id", admin, professionalHandler.Delete)
			secured.PUT("/professionals/:id/assign/:appointmentId", admin, crewHandler.Assign)

			// ------------------------------
			// CUSTOMERS AND USERS
			// ------------------------------
			secured.GET("/customers", admin, customerHandler.List)
			secured.POST("/customers", admin, customerHandler.Create)
			secured.GET("/customers/me", customer, customerHandler.GetMe)
			secured.PUT("/customers/me", customer, customerHandler.UpdateMe)
			secured.GET("/customers/:id", admin, customerHandler.Get)
			secured.PUT("/customers/:id", admin, customerHandler.Update)
			secured.DELETE("/customers/:id", admin, customerHandler.Delete)

			secured.GET("/customers/me/property-images", customer, propertyImageHandler.List)
			secured.POST("/customers/me/property-images", customer, propertyImageHandler.Upload)
			secured.PUT("/customers/me/property-images/:imageId", customer, propertyImageHandler.Update)
			secured.DELETE("/customers/me/property-images/:imageId", customer, propertyImageHandler.Delete)
			secured.GET("/customers/:id/property-images", admin, propertyImageHandler.List)
			secured.POST("/customers/:id/property-images", admin, propertyImageHandler.Upload)
			secured.PUT("/customers/:id/property-images/:imageId", admin, propertyImageHandler.Update)
			secured.DELETE("/customers/:id/property-images/:imageId", admin, propertyImageHandler.Delete)

			secured.GET("/users", admin, userHandler.List)
			secured.POST("/users", admin, userHandler.Create)
			secured.PUT("/users/:id", admin, userHandler.Update)

			// ------------------------------
			// ESTIMATES
			// ------------------------------
			secured.GET("/estimates", admin, estimateHandler.List)
			secured.POST("/estimates", admin, estimateHandler.Create)
			secured.POST("/estimates/request", customer, estimateHandler.Create)
			secured.GET("/estimates/me", customer, estimateHandler.Mine)
			secured.GET("/estimates/:id", estimateHandler.Get)
			secured.PUT("/estimates/:id", admin, estimateHandler.Update)
			secured.DELETE("/estimates/:id", admin, estimateHandler.Delete)
			secured.PUT("/estimates/:id/approve", customer, estimateHandler.Approve)
			secured.PUT("/estimates/:id/decline", customer, estimateHandler.Decline)
			secured.POST("/estimates/:id/photos", estimateHandler.UploadPhotos)

			// ------------------------------
			// PAYMENTS
			// ------------------------------
			secured.POST("/payments/process", paymentHandler.Process)
			secured.POST("/payments/manual", admin, paymentHandler.Manual)
			secured.GET("/payments", admin, paymentHandler.List)
			secured.GET("/payments/me", customer, paymentHandler.Mine)
			secured.GET("/payments/report", admin, paymentHandler.Report)
			secured.GET("/payments/:id", paymentHandler.Get)
			secured.POST("/payments/:id/refund", admin, paymentHandler.Refund)

			secured.GET("/audit-logs", admin, auditLogsHandler.List)

			// ------------------------------
			// DASHBOARD AND REPORTS
			// ------------------------------
			secured.GET("/dashboard", admin, dashboardHandler.Stats)
			secured.GET("/dashboard/appointments", admin, dashboardHandler.Appointments)
			secured.GET("/dashboard/revenue", admin, dashboardHandler.Revenue)
			secured.GET("/dashboard/customers", admin, dashboardHandler.Customers)

			secured.GET("/reports/appointments", admin, reportHandler.Appointments)
			secured.GET("/reports/customers", admin, reportHandler.Customers)
			secured.GET("/reports/revenue", admin, paymentHandler.Report)

			// ------------------------------
			// CONTENT
			// ------------------------------
			secured.POST("/gallery", admin, galleryHandler.Create)
			secured.PUT("/gallery/:id", admin, galleryHandler.Update)
			secured.DELETE("/gallery/:id", admin, galleryHandler.Delete)
			secured.DELETE("/gallery/:id/images/:imageId", admin, galleryHandler.DeleteImage)

			secured.POST("/portfolio", admin, portfolioHandler.Create)
			secured.PUT("/portfolio/:id", admin, portfolioHandler.Update)
			secured.DELETE("/portfolio/:id", admin, portfolioHandler.Delete)
			secured.DELETE("/portfolio/:id/images/:imageId", admin, portfolioHandler.DeleteImage)

			secured.PUT("/hero-image", admin, heroHandler.Update)
			secured.DELETE("/hero-image", admin, heroHandler.Delete)

			// ------------------------------
			// COMMUNICATION
			// ------------------------------
			secured.GET("/announcements", admin, announcementHandler.List)
			secured.POST("/announcements", admin, announcementHandler.Create)
			secured.GET("/announcements/:id", admin, announcementHandler.Get)
			secured.PUT("/announcements/:id", admin, announcementHandler.Update)
			secured.DELETE("/announcements/:id", admin, announcementHandler.Delete)

			secured.POST("/messages", messageHandler.Create)
			secured.GET("/messages", messageHandler.List)
			secured.GET("/messages/:id", messageHandler.Get)
			secured.PUT("/messages/:id", messageHandler.Update)
			secured.PUT("/messages/:id/read", messageHandler.MarkRead)
			secured.DELETE("/messages/:id", messageHandler.Delete)

			secured.GET("/contact", admin, contactHandler.List)
			secured.GET("/contact/:id", admin, contactHandler.Get)
			secured.PUT("/contact/:id", admin, contactHandler.Update)
			secured.DELETE("/contact/:id", admin, contactHandler.Delete)
		}
	}
}
