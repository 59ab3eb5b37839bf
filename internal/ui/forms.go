// Package ui holds the presentation components: forms that validate input
// before calling the API, text views, and the error boundary.
package ui

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"

	"mx70/internal/apperr"
	"mx70/internal/client"
	"mx70/internal/model"
	"mx70/internal/session"
	"mx70/internal/upload"
	"mx70/internal/validation"

	"github.com/go-playground/validator/v10"
)

// ErrBusy is returned when a form is submitted while its previous submission is still running.
var ErrBusy = errors.New("already submitting")

var validate = validation.New()

// busy guards a form against double submission.
type busy struct {
	flag atomic.Bool
}

func (b *busy) run(fn func() error) error {
	if !b.flag.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer b.flag.Store(false)
	return fn()
}

// Busy reports whether a submission is in flight.
func (b *busy) Busy() bool { return b.flag.Load() }

func check(v *validator.Validate, s any) error {
	if err := v.Struct(s); err != nil {
		return apperr.Validation("%s", validation.Describe(err))
	}
	return nil
}

// LoginForm signs an existing account in.
type LoginForm struct {
	busy
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (f *LoginForm) Submit(ctx context.Context, api client.API, sess *session.Store) (*model.User, error) {
	var u *model.User
	err := f.run(func() error {
		if err := check(validate, f); err != nil {
			return err
		}
		var err error
		u, err = sess.Login(ctx, api, strings.TrimSpace(f.Email), f.Password)
		return err
	})
	if err != nil {
		return nil, err
	}
	f.Email, f.Password = "", ""
	return u, nil
}

// SignupForm creates an account and signs it in.
type SignupForm struct {
	busy
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Confirm  string `json:"confirm_password" validate:"eqfield=Password"`
	Role     string `json:"role" validate:"required"`
}

func (f *SignupForm) Submit(ctx context.Context, api client.API, sess *session.Store) (*model.User, error) {
	var u *model.User
	err := f.run(func() error {
		if err := check(validate, f); err != nil {
			return err
		}
		role, ok := model.ParseRole(f.Role)
		if !ok {
			return apperr.Validation("role must be business or clipper")
		}
		var err error
		u, err = sess.Signup(ctx, api, model.Registration{
			Email:    strings.TrimSpace(f.Email),
			Password: f.Password,
			Role:     role,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	*f = SignupForm{}
	return u, nil
}

// GigForm posts a gig. RawFootage, when set, is checked locally and uploaded before the gig is created.
type GigForm struct {
	busy
	Budget     float64 `json:"budget" validate:"gte=50"`
	Goal       string  `json:"goal" validate:"required"`
	StoryType  string  `json:"story_type" validate:"required"`
	RawFootage *model.UploadFile `json:"-" validate:"-"`
	Policy     upload.Policy     `json:"-" validate:"-"`

	// uploaded is the footage already stored by an earlier attempt, at footageURL.
	uploaded   *model.UploadFile
	footageURL string
}

func (f *GigForm) checkInput() error {
	if err := check(validate, f); err != nil {
		return err
	}
	if !slices.Contains(model.GoalOptions, f.Goal) {
		return apperr.Validation("goal must be one of: %s", strings.Join(model.GoalOptions, ", "))
	}
	if !slices.Contains(model.StoryTypes, f.StoryType) {
		return apperr.Validation("story type must be one of: %s", strings.Join(model.StoryTypes, ", "))
	}
	if f.RawFootage != nil {
		if err := f.Policy.CheckSize(f.RawFootage.Size); err != nil {
			return err
		}
		if err := f.Policy.CheckName(model.UploadRawFootage, f.RawFootage.Name); err != nil {
			return err
		}
	}
	return nil
}

func (f *GigForm) Submit(ctx context.Context, api client.API, c client.Caller) (*model.Gig, error) {
	var gig *model.Gig
	err := f.run(func() error {
		// 1. Check everything locally, no call is made for bad input
		if err := f.checkInput(); err != nil {
			return err
		}

		// 2. Upload the footage first so the gig can reference it. A retry reuses the stored copy.
		in := model.GigInput{Budget: f.Budget, Goals: f.Goal, StoryType: f.StoryType}
		if f.RawFootage != nil {
			if f.uploaded != f.RawFootage {
				res, err := api.UploadFile(ctx, c, model.UploadRawFootage, *f.RawFootage)
				if err != nil {
					return err
				}
				f.uploaded, f.footageURL = f.RawFootage, res.URL
			}
			url := f.footageURL
			in.RawFootageURL = &url
		}

		// 3. Create the gig
		var err error
		gig, err = api.CreateGig(ctx, c, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	f.Budget, f.Goal, f.StoryType, f.RawFootage = 0, "", "", nil
	f.uploaded, f.footageURL = nil, ""
	return gig, nil
}

// SubmissionForm delivers the edited video for a claimed gig.
type SubmissionForm struct {
	busy
	GigID          int64  `json:"gig_id" validate:"gt=0"`
	EditedVideoURL string `json:"video_url" validate:"required,http_url"`
	SocialPostLink string `json:"post_link" validate:"required,http_url"`
}

func (f *SubmissionForm) Submit(ctx context.Context, api client.API, c client.Caller) (*model.Submission, error) {
	var sub *model.Submission
	err := f.run(func() error {
		if err := check(validate, f); err != nil {
			return err
		}
		var err error
		sub, err = api.SubmitVideo(ctx, c, f.GigID, model.SubmissionInput{
			EditedVideoURL: strings.TrimSpace(f.EditedVideoURL),
			SocialPostLink: strings.TrimSpace(f.SocialPostLink),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	*f = SubmissionForm{}
	return sub, nil
}

// QuizForm collects one answer per question of a lesson.
type QuizForm struct {
	busy
	lesson  model.Lesson
	answers []int
}

// NewQuizForm starts an attempt with every question unanswered.
func NewQuizForm(lesson model.Lesson) *QuizForm {
	f := &QuizForm{lesson: lesson}
	f.Retake()
	return f
}

// Select records option as the answer to question q. Both are zero based.
func (f *QuizForm) Select(q, option int) error {
	if q < 0 || q >= len(f.answers) {
		return apperr.Validation("question %d does not exist", q+1)
	}
	if option < 0 || option >= len(f.lesson.Quiz.Questions[q].Options) {
		return apperr.Validation("question %d has no option %d", q+1, option+1)
	}
	f.answers[q] = option
	return nil
}

// Answers returns the current selections; -1 marks an unanswered question.
func (f *QuizForm) Answers() []int {
	return slices.Clone(f.answers)
}

// Retake clears every answer.
func (f *QuizForm) Retake() {
	f.answers = make([]int, len(f.lesson.Quiz.Questions))
	for i := range f.answers {
		f.answers[i] = -1
	}
}

func (f *QuizForm) Submit(ctx context.Context, api client.API, c client.Caller) (*model.QuizResult, error) {
	var res *model.QuizResult
	err := f.run(func() error {
		for i, a := range f.answers {
			if a < 0 {
				return apperr.Validation("answer question %d before submitting", i+1)
			}
		}
		var err error
		res, err = api.CompleteQuiz(ctx, c, f.lesson.ID, f.Answers())
		return err
	})
	return res, err
}

// SelfPromoForm reports an organic post. Views and Likes hold the raw text typed by the user.
type SelfPromoForm struct {
	busy
	PostLink string `json:"post_link" validate:"required,http_url"`
	Views    string `json:"views" validate:"required"`
	Likes    string `json:"likes" validate:"required"`
}

func parseCount(field, s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0, apperr.Validation("%s must be a whole number of at least 0", field)
	}
	return n, nil
}

func (f *SelfPromoForm) Submit(ctx context.Context, api client.API, c client.Caller) (*model.SelfPromoResult, error) {
	var res *model.SelfPromoResult
	err := f.run(func() error {
		if err := check(validate, f); err != nil {
			return err
		}
		views, err := parseCount("views", f.Views)
		if err != nil {
			return err
		}
		likes, err := parseCount("likes", f.Likes)
		if err != nil {
			return err
		}
		res, err = api.SubmitSelfPromo(ctx, c, model.SelfPromoInput{
			PostLink: strings.TrimSpace(f.PostLink),
			Views:    views,
			Likes:    likes,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	if res.CreditEarned > 0 {
		f.PostLink, f.Views, f.Likes = "", "", ""
	}
	return res, nil
}
