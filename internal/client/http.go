package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"mx70/internal/apperr"
	"mx70/internal/model"
	"mx70/internal/upload"

	"github.com/rs/zerolog"
)

// HTTP calls the marketplace backend. Every authenticated request carries
// the caller's bearer token; a 401 fires the unauthorized hook.
type HTTP struct {
	baseURL        string
	client         *http.Client
	policy         upload.Policy
	onUnauthorized func()
	logger         zerolog.Logger
}

var _ API = (*HTTP)(nil)

type HTTPOption func(*HTTP)

// WithHTTPClient replaces the default client, e.g. with an httptest server's.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTP) { h.client = c }
}

// WithUnauthorizedHook is called whenever the backend answers 401 to a token.
func WithUnauthorizedHook(fn func()) HTTPOption {
	return func(h *HTTP) { h.onUnauthorized = fn }
}

func WithUploadPolicy(p upload.Policy) HTTPOption {
	return func(h *HTTP) { h.policy = p }
}

func NewHTTP(baseURL string, timeout time.Duration, logger zerolog.Logger, opts ...HTTPOption) *HTTP {
	h := &HTTP{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		policy:  upload.DefaultPolicy(),
		logger:  logger.With().Str("service", "HTTPClient").Logger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SetUnauthorizedHook installs the hook after construction.
func (h *HTTP) SetUnauthorizedHook(fn func()) {
	h.onUnauthorized = fn
}

type request struct {
	method string
	path   string
	query  url.Values
	body   io.Reader
	ctype  string
	caller Caller
}

func jsonBody(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return bytes.NewReader(b), nil
}

func (h *HTTP) do(ctx context.Context, r request, out any) error {
	u := h.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u, r.body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.ctype != "" {
		req.Header.Set("Content-Type", r.ctype)
	}
	if r.caller.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.caller.Token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return apperr.New(apperr.ErrUnknown, "network error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := readDetail(resp.Body)
		h.logger.Debug().Str("method", r.method).Str("path", r.path).Int("status", resp.StatusCode).Str("detail", detail).Msg("Request failed")

		if resp.StatusCode == http.StatusUnauthorized && r.caller.Token != "" && h.onUnauthorized != nil {
			h.onUnauthorized()
		}
		return apperr.FromStatus(resp.StatusCode, detail)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.New(apperr.ErrUnknown, "failed to decode %s response: %v", r.path, err)
	}
	return nil
}

// readDetail understands both problem+json bodies and {"detail": ...} bodies,
// where detail is a string or a list of field errors.
func readDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var p struct {
		Detail json.RawMessage `json:"detail"`
		Errors []struct {
			Message  string `json:"message"`
			Location string `json:"location"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return strings.TrimSpace(string(raw))
	}

	var parts []string
	var s string
	var list []struct {
		Msg string `json:"msg"`
	}
	switch {
	case json.Unmarshal(p.Detail, &s) == nil:
		parts = append(parts, s)
	case json.Unmarshal(p.Detail, &list) == nil:
		for _, e := range list {
			parts = append(parts, e.Msg)
		}
	}
	for _, e := range p.Errors {
		if e.Location != "" {
			parts = append(parts, e.Location+": "+e.Message)
		} else {
			parts = append(parts, e.Message)
		}
	}
	return strings.Join(parts, "; ")
}

func (h *HTTP) Authenticate(ctx context.Context, email, password string) (*model.AuthResult, error) {
	form := url.Values{"username": {email}, "password": {password}}
	var res model.AuthResult
	err := h.do(ctx, request{
		method: http.MethodPost,
		path:   "/token",
		body:   strings.NewReader(form.Encode()),
		ctype:  "application/x-www-form-urlencoded",
	}, &res)
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthenticated) {
			return nil, apperr.New(apperr.ErrInvalidCredentials, "%s", apperr.Message(err))
		}
		return nil, err
	}
	if res.User == nil {
		u, err := h.CurrentUser(ctx, Caller{Token: res.AccessToken})
		if err != nil {
			return nil, err
		}
		res.User = u
	}
	return &res, nil
}

func (h *HTTP) Register(ctx context.Context, reg model.Registration) (*model.User, error) {
	body, err := jsonBody(reg)
	if err != nil {
		return nil, err
	}
	var u model.User
	if err := h.do(ctx, request{method: http.MethodPost, path: "/signup", body: body, ctype: "application/json"}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (h *HTTP) CurrentUser(ctx context.Context, c Caller) (*model.User, error) {
	var u model.User
	if err := h.do(ctx, request{method: http.MethodGet, path: "/users/me", caller: c}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (h *HTTP) CreateGig(ctx context.Context, c Caller, in model.GigInput) (*model.Gig, error) {
	body, err := jsonBody(in)
	if err != nil {
		return nil, err
	}
	var g model.Gig
	if err := h.do(ctx, request{method: http.MethodPost, path: "/gigs/post-gig", body: body, ctype: "application/json", caller: c}, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (h *HTTP) ListAvailableGigs(ctx context.Context, c Caller) ([]model.Gig, error) {
	gigs := []model.Gig{}
	if err := h.do(ctx, request{method: http.MethodGet, path: "/gigs/available", caller: c}, &gigs); err != nil {
		return nil, err
	}
	return gigs, nil
}

func (h *HTTP) ListMyGigs(ctx context.Context, c Caller) ([]model.Gig, error) {
	gigs := []model.Gig{}
	if err := h.do(ctx, request{method: http.MethodGet, path: "/gigs/my-gigs", caller: c}, &gigs); err != nil {
		return nil, err
	}
	return gigs, nil
}

func (h *HTTP) ClaimGig(ctx context.Context, c Caller, gigID int64) (*model.Gig, error) {
	var g model.Gig
	path := "/gigs/" + strconv.FormatInt(gigID, 10) + "/claim"
	if err := h.do(ctx, request{method: http.MethodPost, path: path, caller: c}, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (h *HTTP) SubmitVideo(ctx context.Context, c Caller, gigID int64, in model.SubmissionInput) (*model.Submission, error) {
	body, err := jsonBody(in)
	if err != nil {
		return nil, err
	}
	var s model.Submission
	path := "/gigs/" + strconv.FormatInt(gigID, 10) + "/submit"
	if err := h.do(ctx, request{method: http.MethodPost, path: path, body: body, ctype: "application/json", caller: c}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (h *HTTP) RecordMetrics(ctx context.Context, c Caller, submissionID int64, in model.MetricsInput) (*model.Submission, error) {
	body, err := jsonBody(in)
	if err != nil {
		return nil, err
	}
	var s model.Submission
	path := "/gigs/submissions/" + strconv.FormatInt(submissionID, 10) + "/metrics"
	if err := h.do(ctx, request{method: http.MethodPut, path: path, body: body, ctype: "application/json", caller: c}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (h *HTTP) ListLessons(ctx context.Context, c Caller) ([]model.Lesson, error) {
	lessons := []model.Lesson{}
	if err := h.do(ctx, request{method: http.MethodGet, path: "/lessons/", caller: c}, &lessons); err != nil {
		return nil, err
	}
	for i := range lessons {
		lessons[i] = lessons[i].Redacted()
	}
	return lessons, nil
}

func (h *HTTP) GetLesson(ctx context.Context, c Caller, lessonID int64) (*model.Lesson, error) {
	var l model.Lesson
	if err := h.do(ctx, request{method: http.MethodGet, path: "/lessons/" + strconv.FormatInt(lessonID, 10), caller: c}, &l); err != nil {
		return nil, err
	}
	redacted := l.Redacted()
	return &redacted, nil
}

func (h *HTTP) CompleteQuiz(ctx context.Context, c Caller, lessonID int64, answers []int) (*model.QuizResult, error) {
	body, err := jsonBody(map[string][]int{"answers": answers})
	if err != nil {
		return nil, err
	}
	var res model.QuizResult
	path := "/lessons/" + strconv.FormatInt(lessonID, 10) + "/complete-quiz"
	if err := h.do(ctx, request{method: http.MethodPost, path: path, body: body, ctype: "application/json", caller: c}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (h *HTTP) ListCertifications(ctx context.Context, c Caller) ([]model.Certification, error) {
	certs := []model.Certification{}
	if err := h.do(ctx, request{method: http.MethodGet, path: "/lessons/certifications/my", caller: c}, &certs); err != nil {
		return nil, err
	}
	return certs, nil
}

func (h *HTTP) CheckEligibility(ctx context.Context, c Caller) (*model.Eligibility, error) {
	var e model.Eligibility
	if err := h.do(ctx, request{method: http.MethodGet, path: "/lessons/certifications/check-eligibility", caller: c}, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (h *HTTP) Dashboard(ctx context.Context, c Caller) (*model.Dashboard, error) {
	var d model.Dashboard
	if err := h.do(ctx, request{method: http.MethodGet, path: "/dashboard/", caller: c}, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (h *HTTP) Analytics(ctx context.Context, c Caller, timeframe string) (*model.Analytics, error) {
	var q url.Values
	if timeframe != "" {
		q = url.Values{"timeframe": {timeframe}}
	}
	var a model.Analytics
	if err := h.do(ctx, request{method: http.MethodGet, path: "/dashboard/analytics", query: q, caller: c}, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (h *HTTP) SubmitSelfPromo(ctx context.Context, c Caller, in model.SelfPromoInput) (*model.SelfPromoResult, error) {
	body, err := jsonBody(in)
	if err != nil {
		return nil, err
	}
	var res model.SelfPromoResult
	if err := h.do(ctx, request{method: http.MethodPost, path: "/dashboard/self-promo", body: body, ctype: "application/json", caller: c}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (h *HTTP) ApproveSubmission(ctx context.Context, c Caller, submissionID int64) (*model.Approval, error) {
	var a model.Approval
	path := "/payments/approve-submission/" + strconv.FormatInt(submissionID, 10)
	if err := h.do(ctx, request{method: http.MethodPost, path: path, caller: c}, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (h *HTTP) Payout(ctx context.Context, c Caller, submissionID int64) (*model.Payout, error) {
	var p model.Payout
	path := "/payments/payout/" + strconv.FormatInt(submissionID, 10)
	if err := h.do(ctx, request{method: http.MethodPost, path: path, caller: c}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (h *HTTP) Balance(ctx context.Context, c Caller) (*model.Balance, error) {
	var b model.Balance
	if err := h.do(ctx, request{method: http.MethodGet, path: "/payments/balance", caller: c}, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// UploadPath is the endpoint an upload kind is posted to.
func UploadPath(kind model.UploadKind) string {
	if kind == model.UploadRawFootage {
		return "/gigs/upload-raw-footage"
	}
	return "/files/upload"
}

// UploadFile streams the file as multipart form data. Oversize files fail before the request starts.
func (h *HTTP) UploadFile(ctx context.Context, c Caller, kind model.UploadKind, f model.UploadFile) (*model.UploadResult, error) {
	if err := h.policy.CheckSize(f.Size); err != nil {
		return nil, err
	}
	if err := h.policy.CheckName(kind, f.Name); err != nil {
		return nil, err
	}
	if f.Content == nil {
		return nil, apperr.Validation("file %s has no content", f.Name)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		err := func() error {
			if err := mw.WriteField("type", string(kind)); err != nil {
				return err
			}
			part, err := mw.CreateFormFile("file", f.Name)
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, f.Content); err != nil {
				return err
			}
			return mw.Close()
		}()
		pw.CloseWithError(err)
	}()

	var res model.UploadResult
	err := h.do(ctx, request{
		method: http.MethodPost,
		path:   UploadPath(kind),
		body:   pr,
		ctype:  mw.FormDataContentType(),
		caller: c,
	}, &res)
	pr.CloseWithError(io.ErrClosedPipe)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
