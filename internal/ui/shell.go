package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"mx70/internal/apperr"
	"mx70/internal/client"
	"mx70/internal/model"
	"mx70/internal/session"
	"mx70/internal/upload"
)

// Shell hosts the components as text commands. One Shell serves a whole
// interactive session or a single one-shot command.
type Shell struct {
	API     client.API
	Session *session.Store
	Policy  upload.Policy
	in      *bufio.Reader
	out     io.Writer
}

func NewShell(api client.API, sess *session.Store, policy upload.Policy, in io.Reader, out io.Writer) *Shell {
	return &Shell{API: api, Session: sess, Policy: policy, in: bufio.NewReader(in), out: out}
}

// ask prints label and reads one trimmed line. io.EOF ends the shell.
func (s *Shell) ask(label string) (string, error) {
	fmt.Fprintf(s.out, "%s: ", label)
	line, err := s.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Run reads commands until quit or end of input.
func (s *Shell) Run(ctx context.Context) error {
	Nav(s.out, s.Session.Restore(ctx, s.API))
	for {
		fmt.Fprint(s.out, "mx70> ")
		line, err := s.in.ReadString('\n')
		if err != nil && (err != io.EOF || strings.TrimSpace(line) == "") {
			if err == io.EOF {
				fmt.Fprintln(s.out)
				return nil
			}
			return err
		}
		if quit := s.Exec(ctx, line); quit {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Exec runs one command line and reports whether the shell should exit.
func (s *Shell) Exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := fields[0], fields[1:]
	if cmd == "quit" || cmd == "exit" {
		return true
	}
	Guard(s.out, s.Session, func() error { return s.dispatch(ctx, cmd, args) })
	return false
}

func (s *Shell) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		Nav(s.out, s.Session.User())
		return nil
	case "login":
		return s.login(ctx)
	case "signup":
		return s.signup(ctx)
	case "logout":
		s.Session.Logout()
		fmt.Fprintln(s.out, "Signed out.")
		return nil
	case "whoami":
		u, err := s.API.CurrentUser(ctx, s.Session.Caller())
		if err != nil {
			return err
		}
		Nav(s.out, u)
		return nil
	case "gigs":
		gigs, err := s.API.ListAvailableGigs(ctx, s.Session.Caller())
		if err != nil {
			return err
		}
		Marketplace(s.out, gigs)
		return nil
	case "my-gigs":
		gigs, err := s.API.ListMyGigs(ctx, s.Session.Caller())
		if err != nil {
			return err
		}
		Marketplace(s.out, gigs)
		return nil
	case "post-gig":
		return s.postGig(ctx)
	case "claim":
		id, err := idArg(args, "gig id")
		if err != nil {
			return err
		}
		gig, err := s.API.ClaimGig(ctx, s.Session.Caller(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Claimed gig %d. Submit your edit with `submit %d`.\n", gig.ID, gig.ID)
		return nil
	case "submit":
		id, err := idArg(args, "gig id")
		if err != nil {
			return err
		}
		return s.submit(ctx, id)
	case "metrics":
		id, err := idArg(args, "submission id")
		if err != nil {
			return err
		}
		return s.metrics(ctx, id)
	case "lessons":
		lessons, err := s.API.ListLessons(ctx, s.Session.Caller())
		if err != nil {
			return err
		}
		Lessons(s.out, lessons)
		return nil
	case "lesson":
		id, err := idArg(args, "lesson id")
		if err != nil {
			return err
		}
		l, err := s.API.GetLesson(ctx, s.Session.Caller(), id)
		if err != nil {
			return err
		}
		Lesson(s.out, l)
		return nil
	case "quiz":
		id, err := idArg(args, "lesson id")
		if err != nil {
			return err
		}
		return s.quiz(ctx, id)
	case "certifications":
		certs, err := s.API.ListCertifications(ctx, s.Session.Caller())
		if err != nil {
			return err
		}
		Certifications(s.out, certs)
		return nil
	case "dashboard":
		d, err := s.API.Dashboard(ctx, s.Session.Caller())
		if err != nil {
			return err
		}
		Dashboard(s.out, d)
		return nil
	case "analytics":
		tf := model.DefaultTimeframe
		if len(args) > 0 {
			tf = args[0]
		}
		a, err := s.API.Analytics(ctx, s.Session.Caller(), tf)
		if err != nil {
			return err
		}
		var role model.Role
		if u := s.Session.User(); u != nil {
			role = u.Role
		}
		Analytics(s.out, a, role)
		return nil
	case "eligibility":
		e, err := s.API.CheckEligibility(ctx, s.Session.Caller())
		if err != nil {
			return err
		}
		Eligibility(s.out, e)
		return nil
	case "balance":
		b, err := s.API.Balance(ctx, s.Session.Caller())
		if err != nil {
			return err
		}
		Balance(s.out, b)
		return nil
	case "approve":
		id, err := idArg(args, "submission id")
		if err != nil {
			return err
		}
		a, err := s.API.ApproveSubmission(ctx, s.Session.Caller(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Approved submission %d.", a.SubmissionID)
		if a.ReadyForPayout {
			fmt.Fprintf(s.out, " Pay it with `payout %d`.", a.SubmissionID)
		}
		fmt.Fprintln(s.out)
		return nil
	case "payout":
		id, err := idArg(args, "submission id")
		if err != nil {
			return err
		}
		p, err := s.API.Payout(ctx, s.Session.Caller(), id)
		if err != nil {
			return err
		}
		Payout(s.out, p)
		return nil
	case "self-promo":
		return s.selfPromo(ctx)
	case "upload":
		if len(args) != 2 {
			return apperr.Validation("usage: upload <video|raw-footage> <path>")
		}
		kind, err := upload.ParseKind(args[0])
		if err != nil {
			return err
		}
		f, closeFile, err := s.openFile(args[1])
		if err != nil {
			return err
		}
		defer closeFile()
		res, err := s.API.UploadFile(ctx, s.Session.Caller(), kind, *f)
		if err != nil {
			return err
		}
		Upload(s.out, f.Name, f.Size, res)
		return nil
	}
	return apperr.Validation("unknown command %q, try `help`", cmd)
}

func idArg(args []string, name string) (int64, error) {
	if len(args) == 0 {
		return 0, apperr.Validation("%s is required", name)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("%s must be a positive number", name)
	}
	return id, nil
}

// openFile stats path without reading it so the size check runs before any transfer.
func (s *Shell) openFile(path string) (*model.UploadFile, func(), error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, apperr.Validation("cannot read %s", path)
	}
	if err := s.Policy.CheckSize(info.Size()); err != nil {
		return nil, nil, err
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, nil, apperr.Validation("cannot open %s", path)
	}
	return &model.UploadFile{Name: filepath.Base(path), Size: info.Size(), Content: fh}, func() { fh.Close() }, nil
}

func (s *Shell) login(ctx context.Context) error {
	var f LoginForm
	var err error
	if f.Email, err = s.ask("Email"); err != nil {
		return err
	}
	if f.Password, err = s.ask("Password"); err != nil {
		return err
	}
	u, err := f.Submit(ctx, s.API, s.Session)
	if err != nil {
		return err
	}
	Nav(s.out, u)
	return nil
}

func (s *Shell) signup(ctx context.Context) error {
	var f SignupForm
	var err error
	if f.Email, err = s.ask("Email"); err != nil {
		return err
	}
	if f.Password, err = s.ask("Password (6+ characters)"); err != nil {
		return err
	}
	if f.Confirm, err = s.ask("Confirm password"); err != nil {
		return err
	}
	if f.Role, err = s.ask("Role (business or clipper)"); err != nil {
		return err
	}
	u, err := f.Submit(ctx, s.API, s.Session)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Account created.")
	Nav(s.out, u)
	return nil
}

// choose offers a numbered list and accepts either the number or the text.
func (s *Shell) choose(label string, options []string) (string, error) {
	for i, o := range options {
		fmt.Fprintf(s.out, "  %d) %s\n", i+1, o)
	}
	answer, err := s.ask(label)
	if err != nil {
		return "", err
	}
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
		return options[n-1], nil
	}
	return answer, nil
}

func (s *Shell) postGig(ctx context.Context) error {
	f := GigForm{Policy: s.Policy}
	budget, err := s.ask("Budget (USD, at least 50)")
	if err != nil {
		return err
	}
	if f.Budget, err = strconv.ParseFloat(budget, 64); err != nil {
		return apperr.Validation("budget must be a number")
	}
	if f.Goal, err = s.choose("Goal", model.GoalOptions); err != nil {
		return err
	}
	if f.StoryType, err = s.choose("Story type", model.StoryTypes); err != nil {
		return err
	}
	path, err := s.ask("Raw footage file (optional)")
	if err != nil {
		return err
	}
	if path != "" {
		file, closeFile, err := s.openFile(path)
		if err != nil {
			return err
		}
		defer closeFile()
		f.RawFootage = file
	}

	gig, err := f.Submit(ctx, s.API, s.Session.Caller())
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Posted gig %d with a budget of %s.\n", gig.ID, money(gig.Budget))
	return nil
}

func (s *Shell) submit(ctx context.Context, gigID int64) error {
	f := SubmissionForm{GigID: gigID}
	var err error
	if f.EditedVideoURL, err = s.ask("Edited video URL"); err != nil {
		return err
	}
	if f.SocialPostLink, err = s.ask("Social post link"); err != nil {
		return err
	}
	sub, err := f.Submit(ctx, s.API, s.Session.Caller())
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Submission %d received, gig %d is completed.\n", sub.ID, sub.GigID)
	return nil
}

func (s *Shell) metrics(ctx context.Context, submissionID int64) error {
	var in model.MetricsInput
	for _, field := range []struct {
		label string
		dst   *int64
	}{{"Views", &in.Views}, {"Likes", &in.Likes}, {"Outcomes", &in.Outcomes}} {
		raw, err := s.ask(field.label)
		if err != nil {
			return err
		}
		n, err := parseCount(strings.ToLower(field.label), raw)
		if err != nil {
			return err
		}
		*field.dst = n
	}
	sub, err := s.API.RecordMetrics(ctx, s.Session.Caller(), submissionID, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Metrics saved. Bonus is now %s.\n", money(sub.Bonus))
	return nil
}

func (s *Shell) quiz(ctx context.Context, lessonID int64) error {
	lesson, err := s.API.GetLesson(ctx, s.Session.Caller(), lessonID)
	if err != nil {
		return err
	}
	f := NewQuizForm(*lesson)
	for {
		for i, q := range lesson.Quiz.Questions {
			fmt.Fprintf(s.out, "%d. %s\n", i+1, q.Prompt)
			for j, opt := range q.Options {
				fmt.Fprintf(s.out, "   %c) %s\n", 'a'+j, opt)
			}
			answer, err := s.ask("Answer")
			if err != nil {
				return err
			}
			if err := f.Select(i, optionIndex(answer)); err != nil {
				return err
			}
		}
		res, err := f.Submit(ctx, s.API, s.Session.Caller())
		if err != nil {
			return err
		}
		QuizResult(s.out, res)
		if res.Passed {
			return nil
		}
		again, err := s.ask("Retake? (y/n)")
		if err != nil || !strings.HasPrefix(strings.ToLower(again), "y") {
			return err
		}
		f.Retake()
	}
}

// optionIndex accepts "b", "B" or "2" for the second option.
func optionIndex(answer string) int {
	answer = strings.ToLower(strings.TrimSpace(answer))
	if n, err := strconv.Atoi(answer); err == nil {
		return n - 1
	}
	if len(answer) == 1 && answer[0] >= 'a' && answer[0] <= 'z' {
		return int(answer[0] - 'a')
	}
	return -1
}

func (s *Shell) selfPromo(ctx context.Context) error {
	fmt.Fprintf(s.out, "Posts with at least %d views and %d likes earn %s credit, %s monthly cap from self-promotion.\n",
		model.SelfPromoMinViews, model.SelfPromoMinLikes, money(model.SelfPromoCredit), money(model.SelfPromoMonthlyCap))
	var f SelfPromoForm
	var err error
	if f.PostLink, err = s.ask("Post link"); err != nil {
		return err
	}
	if f.Views, err = s.ask("Views"); err != nil {
		return err
	}
	if f.Likes, err = s.ask("Likes"); err != nil {
		return err
	}
	res, err := f.Submit(ctx, s.API, s.Session.Caller())
	if err != nil {
		return err
	}
	SelfPromoResult(s.out, res)
	return nil
}
