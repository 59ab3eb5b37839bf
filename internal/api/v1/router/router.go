package router

import (
	"net/http"
	"os"

	"mx70/internal/api/v1/handler"
	"mx70/internal/config"
	"mx70/internal/middleware"
	"mx70/internal/service"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// New builds the backend twin: the marketplace HTTP surface served from svc.
// reset is called by POST /admin/reset.
func New(cfg *config.Config, svc *service.Services, reset func(), logger zerolog.Logger) http.Handler {
	logger.Info().Msg("Router initialized")

	// 1. Initialize handlers
	userHandler := handler.NewUserHandler(svc.Auth, logger)
	gigHandler := handler.NewGigHandler(svc.Auth, svc.Gigs, logger)
	lessonHandler := handler.NewLessonHandler(svc.Auth, svc.Lessons, logger)
	dashboardHandler := handler.NewDashboardHandler(svc.Auth, svc.Dashboard, svc.Promo, logger)
	paymentHandler := handler.NewPaymentHandler(svc.Auth, svc.Payments, logger)
	uploadHandler := handler.NewUploadHandler(svc.Uploads, cfg.MaxUploadBytes, logger)
	adminHandler := handler.NewAdminHandler(reset, logger)

	// 2. Create Chi router with middleware
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(middleware.TokenMiddleware(logger))

	// 3. Configure Huma with OpenAPI 3.1
	version := os.Getenv("GIT_COMMIT_SHA")
	if version == "" {
		version = "development"
	}
	humaConfig := huma.DefaultConfig("mx70 API", version)
	humaConfig.Info.Description = "Marketplace backend twin for businesses and clippers"
	humaConfig.Servers = []*huma.Server{{URL: cfg.APIBaseURL}}
	api := humachi.New(r, humaConfig)

	// 4. Mount raw handlers (form-encoded and multipart bodies)
	r.Post("/token", userHandler.Token)
	r.Post("/gigs/upload-raw-footage", uploadHandler.RawFootage)
	r.Post("/files/upload", uploadHandler.File)
	r.Post("/admin/reset", adminHandler.Reset)

	// 5. Register Huma operations
	RegisterRoutes(api, userHandler, gigHandler, lessonHandler, dashboardHandler, paymentHandler, logger)

	// 6. Apply CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Allow all origins for development
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

// RegisterRoutes registers all Huma operations
func RegisterRoutes(
	api huma.API,
	userHandler *handler.UserHandler,
	gigHandler *handler.GigHandler,
	lessonHandler *handler.LessonHandler,
	dashboardHandler *handler.DashboardHandler,
	paymentHandler *handler.PaymentHandler,
	logger zerolog.Logger,
) {
	// ========== USER OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID: "signup",
		Method:      http.MethodPost,
		Path:        "/signup",
		Summary:     "Create account",
		Description: "Registers a business or clipper account",
		Tags:        []string{"users"},
	}, userHandler.Signup)

	huma.Register(api, huma.Operation{
		OperationID: "getUser",
		Method:      http.MethodGet,
		Path:        "/users/me",
		Summary:     "Get current user",
		Description: "Resolves the account the bearer token belongs to",
		Tags:        []string{"users"},
	}, userHandler.GetUser)

	// ========== GIG OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID: "postGig",
		Method:      http.MethodPost,
		Path:        "/gigs/post-gig",
		Summary:     "Post a gig",
		Description: "Creates a pending gig owned by the calling business",
		Tags:        []string{"gigs"},
	}, gigHandler.CreateGig)

	huma.Register(api, huma.Operation{
		OperationID: "listAvailableGigs",
		Method:      http.MethodGet,
		Path:        "/gigs/available",
		Summary:     "List available gigs",
		Description: "Lists gigs that are still pending",
		Tags:        []string{"gigs"},
	}, gigHandler.ListAvailable)

	huma.Register(api, huma.Operation{
		OperationID: "listMyGigs",
		Method:      http.MethodGet,
		Path:        "/gigs/my-gigs",
		Summary:     "List my gigs",
		Description: "Lists a business's posted gigs or a clipper's claimed gigs",
		Tags:        []string{"gigs"},
	}, gigHandler.ListMine)

	huma.Register(api, huma.Operation{
		OperationID: "claimGig",
		Method:      http.MethodPost,
		Path:        "/gigs/{gigId}/claim",
		Summary:     "Claim a gig",
		Description: "Reserves a pending gig for the calling clipper",
		Tags:        []string{"gigs"},
	}, gigHandler.ClaimGig)

	huma.Register(api, huma.Operation{
		OperationID: "submitVideo",
		Method:      http.MethodPost,
		Path:        "/gigs/{gigId}/submit",
		Summary:     "Submit work",
		Description: "Delivers the edited video and completes the gig",
		Tags:        []string{"gigs"},
	}, gigHandler.SubmitVideo)

	huma.Register(api, huma.Operation{
		OperationID: "recordMetrics",
		Method:      http.MethodPut,
		Path:        "/gigs/submissions/{submissionId}/metrics",
		Summary:     "Record submission metrics",
		Description: "Updates views, likes and outcomes and recomputes the bonus",
		Tags:        []string{"gigs"},
	}, gigHandler.RecordMetrics)

	// ========== LESSON OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID: "listLessons",
		Method:      http.MethodGet,
		Path:        "/lessons/",
		Summary:     "List lessons",
		Description: "Lists training lessons without their answer keys",
		Tags:        []string{"lessons"},
	}, lessonHandler.ListLessons)

	huma.Register(api, huma.Operation{
		OperationID: "listCertifications",
		Method:      http.MethodGet,
		Path:        "/lessons/certifications/my",
		Summary:     "List my certifications",
		Description: "Lists certifications earned by the caller",
		Tags:        []string{"lessons"},
	}, lessonHandler.ListCertifications)

	huma.Register(api, huma.Operation{
		OperationID: "checkEligibility",
		Method:      http.MethodGet,
		Path:        "/lessons/certifications/check-eligibility",
		Summary:     "Check gig eligibility",
		Description: "Reports whether the clipper holds the basic certification",
		Tags:        []string{"lessons"},
	}, lessonHandler.CheckEligibility)

	huma.Register(api, huma.Operation{
		OperationID: "getLesson",
		Method:      http.MethodGet,
		Path:        "/lessons/{lessonId}",
		Summary:     "Get a lesson",
		Description: "Retrieves a lesson and its quiz",
		Tags:        []string{"lessons"},
	}, lessonHandler.GetLesson)

	huma.Register(api, huma.Operation{
		OperationID: "completeQuiz",
		Method:      http.MethodPost,
		Path:        "/lessons/{lessonId}/complete-quiz",
		Summary:     "Complete a quiz",
		Description: "Grades quiz answers; 70% passes",
		Tags:        []string{"lessons"},
	}, lessonHandler.CompleteQuiz)

	// ========== DASHBOARD OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID: "getDashboard",
		Method:      http.MethodGet,
		Path:        "/dashboard/",
		Summary:     "Get dashboard",
		Description: "Returns the role dependent dashboard aggregate",
		Tags:        []string{"dashboard"},
	}, dashboardHandler.GetDashboard)

	huma.Register(api, huma.Operation{
		OperationID: "getAnalytics",
		Method:      http.MethodGet,
		Path:        "/dashboard/analytics",
		Summary:     "Get analytics",
		Description: "Returns daily views, earnings and engagement",
		Tags:        []string{"dashboard"},
	}, dashboardHandler.GetAnalytics)

	huma.Register(api, huma.Operation{
		OperationID: "submitSelfPromo",
		Method:      http.MethodPost,
		Path:        "/dashboard/self-promo",
		Summary:     "Submit self-promotion",
		Description: "Awards credit for an organic post with at least 300 views and 30 likes",
		Tags:        []string{"dashboard"},
	}, dashboardHandler.SelfPromo)

	// ========== PAYMENT OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID: "approveSubmission",
		Method:      http.MethodPost,
		Path:        "/payments/approve-submission/{submissionId}",
		Summary:     "Approve a submission",
		Description: "Marks a submission on one of the caller's gigs ready for payout",
		Tags:        []string{"payments"},
	}, paymentHandler.ApproveSubmission)

	huma.Register(api, huma.Operation{
		OperationID: "payout",
		Method:      http.MethodPost,
		Path:        "/payments/payout/{submissionId}",
		Summary:     "Pay out a submission",
		Description: "Transfers base pay plus bonus, less the 12% platform fee, to the clipper",
		Tags:        []string{"payments"},
	}, paymentHandler.Payout)

	huma.Register(api, huma.Operation{
		OperationID: "getBalance",
		Method:      http.MethodGet,
		Path:        "/payments/balance",
		Summary:     "Get balance",
		Description: "Returns credits and spend for a business, earnings for a clipper",
		Tags:        []string{"payments"},
	}, paymentHandler.GetBalance)

	logger.Info().Int("total_operations", 19).Msg("All operations registered successfully")
}
