package ui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"mx70/internal/apperr"
	"mx70/internal/session"
)

// LoginHint is shown whenever the session has to be re-established.
const LoginHint = "Your session has expired. Run `login` to sign in again."

// Report is the error boundary: it renders err as a single dismissible line
// and never panics. Unauthenticated errors also clear the session.
// It reports whether anything was printed.
func Report(w io.Writer, err error, sess *session.Store) bool {
	if err == nil {
		return false
	}
	fmt.Fprintln(w, "! "+Message(err))
	if errors.Is(err, apperr.ErrUnauthenticated) && sess != nil {
		sess.ClearToken()
	}
	return true
}

// Message is the user facing text for err.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrBusy):
		return "Please wait, the previous request is still running."
	case errors.Is(err, context.Canceled):
		return "Cancelled."
	case errors.Is(err, context.DeadlineExceeded):
		return "The request timed out."
	case errors.Is(err, apperr.ErrUnauthenticated):
		return LoginHint
	case errors.Is(err, apperr.ErrForbidden):
		return "Something went wrong. This action is not available for your account."
	case apperr.KindOf(err) == apperr.ErrUnknown:
		if msg := apperr.Message(err); msg != "" {
			return "Something went wrong: " + msg
		}
		return "Something went wrong."
	}
	return apperr.Message(err)
}

// Guard runs fn and turns a panic into a reported error so one broken view
// cannot take the shell down.
func Guard(w io.Writer, sess *session.Store, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			Report(w, apperr.New(apperr.ErrUnknown, "%v", r), sess)
		}
	}()
	Report(w, fn(), sess)
}
