package client

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"mx70/internal/api/v1/router"
	"mx70/internal/apperr"
	"mx70/internal/auth"
	"mx70/internal/config"
	"mx70/internal/model"
	"mx70/internal/repository"
	"mx70/internal/service"
	"mx70/internal/storage"
	"mx70/internal/upload"

	"github.com/rs/zerolog"
)

const mp4Header = "\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom"

func newServices(t *testing.T) (*service.Services, *repository.Store) {
	t.Helper()
	store, err := repository.NewDefaultStore()
	if err != nil {
		t.Fatal(err)
	}
	return service.New(service.Deps{
		Store:  store,
		Tokens: auth.NewTokenManager("test-secret", time.Hour, nil),
		Blobs:  storage.NewMemory(storage.MockBaseURL),
		Policy: upload.DefaultPolicy(),
		Logger: zerolog.Nop(),
	}), store
}

func newSimulated(t *testing.T) API {
	svc, _ := newServices(t)
	return NewSimulated(svc, SimOptions{Policy: upload.DefaultPolicy()})
}

func newTwin(t *testing.T, opts ...HTTPOption) *HTTP {
	t.Helper()
	svc, store := newServices(t)
	cfg := &config.Config{APIBaseURL: "http://localhost:8005", MaxUploadBytes: upload.DefaultMaxBytes}
	srv := httptest.NewServer(router.New(cfg, svc, store.Reset, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return NewHTTP(srv.URL, 5*time.Second, zerolog.Nop(), append([]HTTPOption{WithHTTPClient(srv.Client())}, opts...)...)
}

// forEach runs fn against both implementations backed by fresh fixtures.
func forEach(t *testing.T, fn func(t *testing.T, api API)) {
	t.Run("simulated", func(t *testing.T) { fn(t, newSimulated(t)) })
	t.Run("http", func(t *testing.T) { fn(t, newTwin(t)) })
}

func loginAs(t *testing.T, api API, email string) Caller {
	t.Helper()
	res, err := api.Authenticate(context.Background(), email, "password123")
	if err != nil {
		t.Fatalf("Authenticate(%s): %v", email, err)
	}
	return Caller{Token: res.AccessToken}
}

func assertKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("err = %v (kind %v), want %v", err, apperr.KindOf(err), kind)
	}
}

func TestAuthenticate(t *testing.T) {
	forEach(t, func(t *testing.T, api API) {
		ctx := context.Background()
		res, err := api.Authenticate(ctx, "business@example.com", "password123")
		if err != nil {
			t.Fatal(err)
		}
		if res.AccessToken == "" || res.User == nil || res.User.Role != model.RoleBusiness {
			t.Fatalf("unexpected result %+v", res)
		}
		u, err := api.CurrentUser(ctx, Caller{Token: res.AccessToken})
		if err != nil {
			t.Fatal(err)
		}
		if u.ID != res.User.ID || u.Email != "business@example.com" {
			t.Errorf("CurrentUser = %+v", u)
		}

		_, err = api.Authenticate(ctx, "nobody@example.com", "password123")
		assertKind(t, err, apperr.ErrInvalidCredentials)
		_, err = api.Authenticate(ctx, "business@example.com", "wrong-password")
		assertKind(t, err, apperr.ErrInvalidCredentials)
	})
}

func TestRegister(t *testing.T) {
	forEach(t, func(t *testing.T, api API) {
		ctx := context.Background()
		u, err := api.Register(ctx, model.Registration{Email: "fresh@example.com", Password: "secret1", Role: model.RoleClipper})
		if err != nil {
			t.Fatal(err)
		}
		if u.Role != model.RoleClipper || !u.IsActive {
			t.Errorf("Register = %+v", u)
		}

		_, err = api.Register(ctx, model.Registration{Email: "fresh@example.com", Password: "secret1", Role: model.RoleClipper})
		assertKind(t, err, apperr.ErrAlreadyRegistered)

		_, err = api.Register(ctx, model.Registration{Email: "short@example.com", Password: "abc", Role: model.RoleClipper})
		assertKind(t, err, apperr.ErrValidation)
	})
}

func TestBadTokenIsUnauthenticated(t *testing.T) {
	forEach(t, func(t *testing.T, api API) {
		ctx := context.Background()
		bad := Caller{Token: "not-a-token"}
		_, err := api.CurrentUser(ctx, bad)
		assertKind(t, err, apperr.ErrUnauthenticated)
		_, err = api.ListAvailableGigs(ctx, bad)
		assertKind(t, err, apperr.ErrUnauthenticated)
		_, err = api.Dashboard(ctx, Caller{})
		assertKind(t, err, apperr.ErrUnauthenticated)
	})
}

func TestGigLifecycle(t *testing.T) {
	forEach(t, func(t *testing.T, api API) {
		ctx := context.Background()
		business := loginAs(t, api, "business@example.com")
		clipper := loginAs(t, api, "clipper@example.com")

		_, err := api.CreateGig(ctx, business, model.GigInput{Budget: 49, Goals: "1k views", StoryType: "morning rush"})
		assertKind(t, err, apperr.ErrValidation)
		_, err = api.CreateGig(ctx, clipper, model.GigInput{Budget: 100, Goals: "1k views", StoryType: "morning rush"})
		assertKind(t, err, apperr.ErrForbidden)

		gig, err := api.CreateGig(ctx, business, model.GigInput{Budget: 120, Goals: "Drive foot traffic", StoryType: "product showcase"})
		if err != nil {
			t.Fatal(err)
		}
		if gig.Status != model.GigPending {
			t.Fatalf("new gig status = %s", gig.Status)
		}

		available, err := api.ListAvailableGigs(ctx, Caller{})
		if err != nil {
			t.Fatal(err)
		}
		if len(available) != 2 {
			t.Fatalf("available = %d gigs, want 2", len(available))
		}

		claimed, err := api.ClaimGig(ctx, clipper, gig.ID)
		if err != nil {
			t.Fatal(err)
		}
		if claimed.Status != model.GigClaimed {
			t.Fatalf("claimed status = %s", claimed.Status)
		}
		_, err = api.ClaimGig(ctx, clipper, gig.ID)
		assertKind(t, err, apperr.ErrConflict)
		_, err = api.ClaimGig(ctx, clipper, 999)
		assertKind(t, err, apperr.ErrNotFound)

		mine, err := api.ListMyGigs(ctx, clipper)
		if err != nil {
			t.Fatal(err)
		}
		found := false
		for _, g := range mine {
			found = found || g.ID == gig.ID
		}
		if !found {
			t.Errorf("claimed gig %d missing from my gigs", gig.ID)
		}

		sub, err := api.SubmitVideo(ctx, clipper, gig.ID, model.SubmissionInput{
			EditedVideoURL: "https://example.com/edit.mp4",
			SocialPostLink: "https://instagram.com/p/new",
		})
		if err != nil {
			t.Fatal(err)
		}
		if sub.GigID != gig.ID || sub.Approved {
			t.Errorf("submission = %+v", sub)
		}
		_, err = api.SubmitVideo(ctx, clipper, gig.ID, model.SubmissionInput{
			EditedVideoURL: "https://example.com/edit.mp4",
			SocialPostLink: "https://instagram.com/p/new",
		})
		assertKind(t, err, apperr.ErrConflict)

		updated, err := api.RecordMetrics(ctx, business, sub.ID, model.MetricsInput{Views: 1000, Likes: 100, Outcomes: 0})
		if err != nil {
			t.Fatal(err)
		}
		if updated.Bonus != 15 {
			t.Errorf("bonus = %v, want 15", updated.Bonus)
		}
	})
}

func TestLessonsAndQuiz(t *testing.T) {
	forEach(t, func(t *testing.T, api API) {
		ctx := context.Background()
		clipper := loginAs(t, api, "clipper@example.com")

		lessons, err := api.ListLessons(ctx, Caller{})
		if err != nil {
			t.Fatal(err)
		}
		if len(lessons) != 2 {
			t.Fatalf("lessons = %d, want 2", len(lessons))
		}
		for _, l := range lessons {
			for _, q := range l.Quiz.Questions {
				if q.Correct != nil {
					t.Fatalf("lesson %d exposes the answer key", l.ID)
				}
			}
		}

		_, err = api.GetLesson(ctx, Caller{}, 42)
		assertKind(t, err, apperr.ErrNotFound)

		_, err = api.CompleteQuiz(ctx, clipper, 1, []int{1})
		assertKind(t, err, apperr.ErrValidation)

		failed, err := api.CompleteQuiz(ctx, clipper, 1, []int{0, 0, 2})
		if err != nil {
			t.Fatal(err)
		}
		if failed.Passed || failed.CorrectAnswers != 1 {
			t.Errorf("failed attempt = %+v", failed)
		}

		passed, err := api.CompleteQuiz(ctx, clipper, 1, []int{1, 1, 2})
		if err != nil {
			t.Fatal(err)
		}
		if !passed.Passed || passed.Score != 100 || !passed.CertificationEarned {
			t.Errorf("passing attempt = %+v", passed)
		}

		certs, err := api.ListCertifications(ctx, clipper)
		if err != nil {
			t.Fatal(err)
		}
		if len(certs) != 1 || certs[0].Level != model.CertificationBasic {
			t.Errorf("certifications = %+v", certs)
		}
	})
}

func TestDashboardAndSelfPromo(t *testing.T) {
	forEach(t, func(t *testing.T, api API) {
		ctx := context.Background()
		business := loginAs(t, api, "business@example.com")
		clipper := loginAs(t, api, "clipper@example.com")

		d, err := api.Dashboard(ctx, business)
		if err != nil {
			t.Fatal(err)
		}
		if d.BusinessStats == nil || d.ClipperStats != nil {
			t.Fatalf("business dashboard = %+v", d)
		}
		if d.BusinessStats.TotalGigs != 2 || d.BusinessStats.TotalViews != 1500 {
			t.Errorf("business stats = %+v", d.BusinessStats)
		}
		if d.TotalCredits != 0 {
			t.Errorf("expired seed credit counted: %v", d.TotalCredits)
		}

		d, err = api.Dashboard(ctx, clipper)
		if err != nil {
			t.Fatal(err)
		}
		if d.ClipperStats == nil || d.ClipperStats.CompletedGigs != 1 || d.ClipperStats.TotalBonuses != 45.5 {
			t.Errorf("clipper stats = %+v", d.ClipperStats)
		}

		res, err := api.SubmitSelfPromo(ctx, business, model.SelfPromoInput{PostLink: "https://instagram.com/p/mine", Views: 299, Likes: 30})
		if err != nil {
			t.Fatal(err)
		}
		if res.CreditEarned != 0 {
			t.Errorf("299 views earned %v", res.CreditEarned)
		}
		res, err = api.SubmitSelfPromo(ctx, business, model.SelfPromoInput{PostLink: "https://instagram.com/p/mine", Views: 300, Likes: 30})
		if err != nil {
			t.Fatal(err)
		}
		if res.CreditEarned != model.SelfPromoCredit || res.Expiry == nil {
			t.Errorf("qualifying post = %+v", res)
		}

		d, err = api.Dashboard(ctx, business)
		if err != nil {
			t.Fatal(err)
		}
		if d.TotalCredits != model.SelfPromoCredit {
			t.Errorf("total credits = %v", d.TotalCredits)
		}

		a, err := api.Analytics(ctx, clipper, "7d")
		if err != nil {
			t.Fatal(err)
		}
		if a.Timeframe != "7d" || len(a.Views) != 7 {
			t.Errorf("analytics = %s with %d points", a.Timeframe, len(a.Views))
		}
	})
}

func TestUploadFile(t *testing.T) {
	forEach(t, func(t *testing.T, api API) {
		ctx := context.Background()

		_, err := api.UploadFile(ctx, Caller{}, model.UploadVideo, model.UploadFile{Name: "huge.mp4", Size: 60 << 20})
		assertKind(t, err, apperr.ErrPayloadTooLarge)

		_, err = api.UploadFile(ctx, Caller{}, model.UploadVideo, model.UploadFile{Name: "notes.txt", Size: 4, Content: bytes.NewReader([]byte("text"))})
		assertKind(t, err, apperr.ErrValidation)

		body := []byte(mp4Header + "rest of the clip")
		res, err := api.UploadFile(ctx, Caller{}, model.UploadRawFootage, model.UploadFile{
			Name:    "clip.mp4",
			Size:    int64(len(body)),
			Content: bytes.NewReader(body),
		})
		if err != nil {
			t.Fatal(err)
		}
		if res.URL == "" {
			t.Error("upload returned no URL")
		}
	})
}

func TestSimulatedHonoursCancellation(t *testing.T) {
	svc, _ := newServices(t)
	api := NewSimulated(svc, SimOptions{Latency: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := api.ListLessons(ctx, Caller{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestUnauthorizedHook(t *testing.T) {
	var fired atomic.Int32
	api := newTwin(t, WithUnauthorizedHook(func() { fired.Add(1) }))
	ctx := context.Background()

	_, err := api.Dashboard(ctx, Caller{Token: "expired"})
	assertKind(t, err, apperr.ErrUnauthenticated)
	if fired.Load() != 1 {
		t.Errorf("hook fired %d times, want 1", fired.Load())
	}

	// A failed login is not a rejected session.
	_, err = api.Authenticate(ctx, "business@example.com", "nope")
	assertKind(t, err, apperr.ErrInvalidCredentials)
	if fired.Load() != 1 {
		t.Errorf("hook fired on login failure")
	}
}

func TestNewSelectsImplementation(t *testing.T) {
	cfg := &config.Config{APIMode: config.ModeMock, JWTSecret: "s", TokenTTL: time.Minute, MaxUploadBytes: upload.DefaultMaxBytes}
	api, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := api.(*Simulated); !ok {
		t.Errorf("mock mode built %T", api)
	}

	cfg.APIMode = config.ModeHTTP
	cfg.APIBaseURL = "http://localhost:1"
	api, err = New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := api.(UnauthorizedNotifier); !ok {
		t.Errorf("http mode built %T", api)
	}

	cfg.APIMode = "grpc"
	if _, err := New(cfg, zerolog.Nop()); err == nil {
		t.Error("unknown mode accepted")
	}
}

func TestUploadPath(t *testing.T) {
	if got := UploadPath(model.UploadRawFootage); got != "/gigs/upload-raw-footage" {
		t.Errorf("raw footage path = %s", got)
	}
	if got := UploadPath(model.UploadVideo); got != "/files/upload" {
		t.Errorf("video path = %s", got)
	}
}

func TestPaymentsAndEligibility(t *testing.T) {
	forEach(t, func(t *testing.T, api API) {
		ctx := context.Background()
		business := loginAs(t, api, "business@example.com")
		clipper := loginAs(t, api, "clipper@example.com")

		e, err := api.CheckEligibility(ctx, clipper)
		if err != nil {
			t.Fatal(err)
		}
		if e.Eligible || e.CertificationRequired != "basic" {
			t.Errorf("eligibility = %+v", e)
		}
		_, err = api.CheckEligibility(ctx, business)
		assertKind(t, err, apperr.ErrForbidden)

		// Seeded submission 1 is approved and unpaid.
		_, err = api.Payout(ctx, clipper, 1)
		assertKind(t, err, apperr.ErrForbidden)
		p, err := api.Payout(ctx, business, 1)
		if err != nil {
			t.Fatal(err)
		}
		if p.Amount != 128.04 || p.BasePay != 100 || p.Bonus != 45.5 || p.ID == "" {
			t.Errorf("payout = %+v", p)
		}
		_, err = api.Payout(ctx, business, 1)
		assertKind(t, err, apperr.ErrConflict)
		_, err = api.ApproveSubmission(ctx, business, 42)
		assertKind(t, err, apperr.ErrNotFound)

		a, err := api.ApproveSubmission(ctx, business, 1)
		if err != nil {
			t.Fatal(err)
		}
		if a.SubmissionID != 1 || a.ReadyForPayout {
			t.Errorf("approval of a paid submission = %+v", a)
		}

		b, err := api.Balance(ctx, clipper)
		if err != nil {
			t.Fatal(err)
		}
		if b.Role != model.RoleClipper || b.TotalEarnings != 128.04 || b.CompletedGigs != 1 {
			t.Errorf("balance = %+v", b)
		}

		an, err := api.Analytics(ctx, clipper, "7d")
		if err != nil {
			t.Fatal(err)
		}
		if an.Summary.TotalEarnings != 128.04 || len(an.Certifications) != 0 {
			t.Errorf("analytics summary = %+v certs = %+v", an.Summary, an.Certifications)
		}
	})
}
