// Package service implements the marketplace rules on top of the repositories.
// Both the in-process simulation and the HTTP twin run these services.
package service

import (
	"time"

	"mx70/internal/apperr"
	"mx70/internal/auth"
	"mx70/internal/model"
	"mx70/internal/payments"
	"mx70/internal/pubsub"
	"mx70/internal/repository"
	"mx70/internal/storage"
	"mx70/internal/upload"
	"mx70/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Deps are the collaborators every service is built from.
type Deps struct {
	Store  *repository.Store
	Tokens *auth.TokenManager
	Blobs  storage.BlobStore
	Policy upload.Policy
	// Payer sends payouts; defaults to payments.Mock.
	Payer payments.Payer
	// Events receives gig and credit events; nil publishes nothing.
	Events pubsub.Publisher
	Logger zerolog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Services groups the services sharing one store.
type Services struct {
	Auth      AuthService
	Gigs      GigService
	Lessons   LessonService
	Dashboard DashboardService
	Promo     PromoService
	Uploads   UploadService
	Payments  PaymentService
}

func New(d Deps) *Services {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Blobs == nil {
		d.Blobs = storage.NewMemory("")
	}
	if d.Payer == nil {
		d.Payer = payments.NewMock(d.Now)
	}
	validate := validation.New()
	store := d.Store

	return &Services{
		Auth:      NewAuthService(store.Users(), d.Tokens, validate, d.Now, d.Logger),
		Gigs:      NewGigService(store.Gigs(), store.Submissions(), d.Events, validate, d.Now, d.Logger),
		Lessons:   NewLessonService(store.Lessons(), store.Certifications(), d.Now, d.Logger),
		Dashboard: NewDashboardService(store.Gigs(), store.Submissions(), store.Credits(), store.Certifications(), d.Now),
		Promo:     NewPromoService(store.Credits(), d.Events, validate, d.Now, d.Logger),
		Uploads:   NewUploadService(d.Blobs, d.Policy, d.Logger),
		Payments:  NewPaymentService(store, d.Payer, d.Events, d.Now, d.Logger),
	}
}

func requireRole(caller *model.User, role model.Role, action string) error {
	if caller == nil {
		return apperr.New(apperr.ErrUnauthenticated, "Not authenticated")
	}
	if caller.Role != role {
		return apperr.Forbidden("Only %s accounts can %s", role.Label(), action)
	}
	return nil
}

func invalid(validate *validator.Validate, v any) error {
	if err := validate.Struct(v); err != nil {
		return apperr.Validation("%s", validation.Describe(err))
	}
	return nil
}
