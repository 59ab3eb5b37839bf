package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"mx70/internal/apperr"
	"mx70/internal/auth"
	"mx70/internal/client"
	"mx70/internal/model"
	"mx70/internal/repository"
	"mx70/internal/service"
	"mx70/internal/session"
	"mx70/internal/upload"

	"github.com/rs/zerolog"
)

// countingAPI records how many calls reach the facade.
type countingAPI struct {
	client.API
	mu    sync.Mutex
	calls map[string]int
	// failCreate makes the next CreateGig calls fail.
	failCreate int
}

func (c *countingAPI) count(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[name]++
}

func (c *countingAPI) n(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[name]
}

func (c *countingAPI) CreateGig(ctx context.Context, caller client.Caller, in model.GigInput) (*model.Gig, error) {
	c.count("CreateGig")
	c.mu.Lock()
	fail := c.failCreate > 0
	if fail {
		c.failCreate--
	}
	c.mu.Unlock()
	if fail {
		return nil, apperr.New(apperr.ErrUnknown, "backend unavailable")
	}
	return c.API.CreateGig(ctx, caller, in)
}

func (c *countingAPI) UploadFile(ctx context.Context, caller client.Caller, kind model.UploadKind, f model.UploadFile) (*model.UploadResult, error) {
	c.count("UploadFile")
	return c.API.UploadFile(ctx, caller, kind, f)
}

func (c *countingAPI) SubmitSelfPromo(ctx context.Context, caller client.Caller, in model.SelfPromoInput) (*model.SelfPromoResult, error) {
	c.count("SubmitSelfPromo")
	return c.API.SubmitSelfPromo(ctx, caller, in)
}

func newEnv(t *testing.T, latency time.Duration) (*countingAPI, *session.Store) {
	t.Helper()
	store, err := repository.NewDefaultStore()
	if err != nil {
		t.Fatal(err)
	}
	svc := service.New(service.Deps{
		Store:  store,
		Tokens: auth.NewTokenManager("test-secret", time.Hour, nil),
		Logger: zerolog.Nop(),
	})
	api := &countingAPI{
		API:   client.NewSimulated(svc, client.SimOptions{Latency: latency, Policy: upload.DefaultPolicy()}),
		calls: map[string]int{},
	}
	return api, session.NewStore(session.NewMemoryBackend(""), zerolog.Nop())
}

func signIn(t *testing.T, api client.API, sess *session.Store, email string) {
	t.Helper()
	f := &LoginForm{Email: email, Password: "password123"}
	if _, err := f.Submit(context.Background(), api, sess); err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
}

func TestLoginFormValidatesAndResets(t *testing.T) {
	api, sess := newEnv(t, 0)
	ctx := context.Background()

	bad := &LoginForm{Email: "not-an-email", Password: "x"}
	_, err := bad.Submit(ctx, api, sess)
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("err = %v", err)
	}

	f := &LoginForm{Email: "business@example.com", Password: "password123"}
	u, err := f.Submit(ctx, api, sess)
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != model.RoleBusiness || !sess.Authenticated() {
		t.Errorf("user %+v", u)
	}
	if f.Email != "" || f.Password != "" {
		t.Error("form not reset after login")
	}
}

func TestSignupFormChecks(t *testing.T) {
	api, sess := newEnv(t, 0)
	ctx := context.Background()

	cases := []SignupForm{
		{Email: "a@example.com", Password: "12345", Confirm: "12345", Role: "clipper"},
		{Email: "a@example.com", Password: "123456", Confirm: "654321", Role: "clipper"},
		{Email: "a@example.com", Password: "123456", Confirm: "123456", Role: ""},
		{Email: "a@example.com", Password: "123456", Confirm: "123456", Role: "admin"},
	}
	for i := range cases {
		if _, err := cases[i].Submit(ctx, api, sess); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("case %d: err = %v, want validation", i, err)
		}
	}

	f := &SignupForm{Email: "a@example.com", Password: "123456", Confirm: "123456", Role: "business"}
	u, err := f.Submit(ctx, api, sess)
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != model.RoleBusiness || !sess.Authenticated() {
		t.Errorf("user %+v", u)
	}
}

func TestGigFormRejectsLowBudgetWithoutCalling(t *testing.T) {
	api, sess := newEnv(t, 0)
	signIn(t, api, sess, "business@example.com")

	f := &GigForm{Budget: 49.99, Goal: model.GoalOptions[0], StoryType: model.StoryTypes[0]}
	_, err := f.Submit(context.Background(), api, sess.Caller())
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("err = %v", err)
	}
	if api.n("CreateGig") != 0 {
		t.Error("facade called for invalid budget")
	}

	f.Goal = "go viral"
	f.Budget = 60
	if _, err := f.Submit(context.Background(), api, sess.Caller()); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("unknown goal err = %v", err)
	}
}

func TestGigFormUploadsFootageFirst(t *testing.T) {
	api, sess := newEnv(t, 0)
	signIn(t, api, sess, "business@example.com")
	ctx := context.Background()

	huge := &GigForm{
		Budget: 80, Goal: model.GoalOptions[1], StoryType: model.StoryTypes[1],
		RawFootage: &model.UploadFile{Name: "raw.mp4", Size: 60 << 20},
	}
	if _, err := huge.Submit(ctx, api, sess.Caller()); !errors.Is(err, apperr.ErrPayloadTooLarge) {
		t.Fatalf("err = %v", err)
	}
	if api.n("UploadFile") != 0 || api.n("CreateGig") != 0 {
		t.Error("facade called for oversize footage")
	}

	body := []byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom")
	f := &GigForm{
		Budget: 80, Goal: model.GoalOptions[1], StoryType: model.StoryTypes[1],
		RawFootage: &model.UploadFile{Name: "raw.mp4", Size: int64(len(body)), Content: bytes.NewReader(body)},
	}
	gig, err := f.Submit(ctx, api, sess.Caller())
	if err != nil {
		t.Fatal(err)
	}
	if gig.RawFootageURL == nil || !strings.HasPrefix(*gig.RawFootageURL, "http") {
		t.Errorf("raw footage url = %v", gig.RawFootageURL)
	}
	if f.Budget != 0 || f.RawFootage != nil {
		t.Error("form not reset after success")
	}
}

func TestGigFormRetryReusesUploadedFootage(t *testing.T) {
	api, sess := newEnv(t, 0)
	signIn(t, api, sess, "business@example.com")
	ctx := context.Background()
	api.failCreate = 1

	body := []byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom")
	f := &GigForm{
		Budget: 80, Goal: model.GoalOptions[1], StoryType: model.StoryTypes[1],
		RawFootage: &model.UploadFile{Name: "raw.mp4", Size: int64(len(body)), Content: bytes.NewReader(body)},
	}
	if _, err := f.Submit(ctx, api, sess.Caller()); !errors.Is(err, apperr.ErrUnknown) {
		t.Fatalf("first attempt err = %v", err)
	}
	if f.RawFootage == nil {
		t.Fatal("input dropped after a failed attempt")
	}

	gig, err := f.Submit(ctx, api, sess.Caller())
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if got := api.n("UploadFile"); got != 1 {
		t.Errorf("uploads = %d, want 1", got)
	}
	if gig.RawFootageURL == nil || !strings.HasPrefix(*gig.RawFootageURL, "http") {
		t.Errorf("raw footage url = %v", gig.RawFootageURL)
	}
}

func TestBusyGuardBlocksDoubleSubmit(t *testing.T) {
	api, sess := newEnv(t, 50*time.Millisecond)
	signIn(t, api, sess, "business@example.com")

	f := &SelfPromoForm{PostLink: "https://instagram.com/p/1", Views: "100", Likes: "10"}
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		_, err := f.Submit(context.Background(), api, sess.Caller())
		done <- err
	}()
	<-started
	deadline := time.Now().Add(time.Second)
	for !f.Busy() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if _, err := f.Submit(context.Background(), api, sess.Caller()); !errors.Is(err, ErrBusy) {
		t.Errorf("second submit err = %v, want ErrBusy", err)
	}
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if api.n("SubmitSelfPromo") != 1 {
		t.Errorf("facade called %d times", api.n("SubmitSelfPromo"))
	}
}

func TestSelfPromoForm(t *testing.T) {
	api, sess := newEnv(t, 0)
	signIn(t, api, sess, "business@example.com")
	ctx := context.Background()

	for _, f := range []*SelfPromoForm{
		{PostLink: "instagram", Views: "300", Likes: "30"},
		{PostLink: "https://instagram.com/p/1", Views: "-1", Likes: "30"},
		{PostLink: "https://instagram.com/p/1", Views: "lots", Likes: "30"},
	} {
		if _, err := f.Submit(ctx, api, sess.Caller()); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("%+v: err = %v", f, err)
		}
	}
	if api.n("SubmitSelfPromo") != 0 {
		t.Error("facade called for invalid input")
	}

	f := &SelfPromoForm{PostLink: "https://instagram.com/p/1", Views: "299", Likes: "30"}
	res, err := f.Submit(ctx, api, sess.Caller())
	if err != nil {
		t.Fatal(err)
	}
	if res.CreditEarned != 0 || f.PostLink == "" {
		t.Errorf("no-credit result %+v, form %+v", res, f)
	}

	f.Views = "300"
	res, err = f.Submit(ctx, api, sess.Caller())
	if err != nil {
		t.Fatal(err)
	}
	if res.CreditEarned != 10 || f.PostLink != "" {
		t.Errorf("credit result %+v, form %+v", res, f)
	}
}

func TestQuizForm(t *testing.T) {
	api, sess := newEnv(t, 0)
	signIn(t, api, sess, "clipper@example.com")
	ctx := context.Background()

	lesson, err := api.GetLesson(ctx, sess.Caller(), 1)
	if err != nil {
		t.Fatal(err)
	}
	f := NewQuizForm(*lesson)

	if _, err := f.Submit(ctx, api, sess.Caller()); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("unanswered submit err = %v", err)
	}
	if err := f.Select(0, 9); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("out of range option err = %v", err)
	}
	for q, a := range []int{1, 1, 2} {
		if err := f.Select(q, a); err != nil {
			t.Fatal(err)
		}
	}
	res, err := f.Submit(ctx, api, sess.Caller())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Passed || res.Score != 100 {
		t.Errorf("result %+v", res)
	}

	f.Retake()
	for _, a := range f.Answers() {
		if a != -1 {
			t.Fatalf("answers after retake = %v", f.Answers())
		}
	}
}

func TestSubmissionFormValidatesURLs(t *testing.T) {
	api, sess := newEnv(t, 0)
	signIn(t, api, sess, "clipper@example.com")

	f := &SubmissionForm{GigID: 1, EditedVideoURL: "video.mp4", SocialPostLink: "https://instagram.com/p/1"}
	if _, err := f.Submit(context.Background(), api, sess.Caller()); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("err = %v", err)
	}
}

func TestReport(t *testing.T) {
	sess := session.NewStore(session.NewMemoryBackend("token"), zerolog.Nop())
	var buf bytes.Buffer

	if Report(&buf, nil, sess) || buf.Len() != 0 {
		t.Fatal("nil error printed")
	}

	Report(&buf, apperr.Forbidden("only businesses can post gigs"), sess)
	if got := buf.String(); strings.Contains(got, "businesses") || !strings.Contains(got, "Something went wrong") {
		t.Errorf("forbidden rendered as %q", got)
	}
	if !sess.Authenticated() {
		t.Error("forbidden cleared the session")
	}

	buf.Reset()
	Report(&buf, apperr.New(apperr.ErrUnauthenticated, "token expired"), sess)
	if !strings.Contains(buf.String(), LoginHint) {
		t.Errorf("unauthenticated rendered as %q", buf.String())
	}
	if sess.Authenticated() {
		t.Error("unauthenticated kept the session")
	}

	buf.Reset()
	Report(&buf, apperr.Validation("budget must be at least 50"), nil)
	if got := strings.TrimSpace(buf.String()); got != "! budget must be at least 50" {
		t.Errorf("validation rendered as %q", got)
	}
}

func TestGuardRecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	Guard(&buf, nil, func() error { panic("boom") })
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("panic rendered as %q", buf.String())
	}
}

func TestViews(t *testing.T) {
	var buf bytes.Buffer
	raw := "https://example.com/raw.mp4"
	Marketplace(&buf, []model.Gig{{ID: 7, Budget: 150, Goals: "1k views", StoryType: "demo", Status: model.GigPending, RawFootageURL: &raw}})
	if out := buf.String(); !strings.Contains(out, "$150.00") || !strings.Contains(out, raw) {
		t.Errorf("marketplace:\n%s", out)
	}

	buf.Reset()
	Dashboard(&buf, &model.Dashboard{
		User:         model.User{Email: "c@example.com", Role: model.RoleClipper},
		ClipperStats: &model.ClipperStats{},
	})
	if out := buf.String(); !strings.Contains(out, "Completed gigs") || !strings.Contains(out, "No submissions yet.") {
		t.Errorf("empty clipper dashboard:\n%s", out)
	}

	buf.Reset()
	QuizResult(&buf, &model.QuizResult{Score: 66.7, CorrectAnswers: 2, TotalQuestions: 3})
	if out := buf.String(); !strings.Contains(out, "66.7%") || !strings.Contains(out, "Not passed") {
		t.Errorf("quiz result: %s", out)
	}

	buf.Reset()
	Nav(&buf, &model.User{Email: "b@example.com", Role: model.RoleBusiness})
	if out := buf.String(); !strings.Contains(out, "post-gig") || strings.Contains(out, "claim") {
		t.Errorf("business nav: %s", out)
	}
	if out := buf.String(); !strings.Contains(out, "payout <submission id>") || strings.Contains(out, "eligibility") {
		t.Errorf("business nav: %s", out)
	}

	buf.Reset()
	Analytics(&buf, &model.Analytics{
		Timeframe: "7d",
		Summary:   model.AnalyticsSummary{TotalGigs: 2, ActiveGigs: 1, CompletedGigs: 1, TotalSpent: 350, ROIPercentage: 14.29},
	}, model.RoleBusiness)
	if out := buf.String(); !strings.Contains(out, "$350.00") || !strings.Contains(out, "14.3%") || strings.Contains(out, "certified") {
		t.Errorf("business analytics:\n%s", out)
	}

	buf.Reset()
	Analytics(&buf, &model.Analytics{
		Timeframe:      "7d",
		Summary:        model.AnalyticsSummary{TotalEarnings: 128.04},
		Certifications: []model.Certification{{Level: "basic", Completed: true}},
	}, model.RoleClipper)
	if out := buf.String(); !strings.Contains(out, "You're certified and eligible to claim gigs!") || !strings.Contains(out, "$128.04") {
		t.Errorf("clipper analytics:\n%s", out)
	}
}
