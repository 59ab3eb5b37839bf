package ui

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mx70/internal/upload"
)

func runShell(t *testing.T, input string) (string, *Shell) {
	t.Helper()
	api, sess := newEnv(t, 0)
	var out bytes.Buffer
	sh := NewShell(api, sess, upload.DefaultPolicy(), strings.NewReader(input), &out)
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String(), sh
}

func TestShellLoginAndDashboard(t *testing.T) {
	out, sh := runShell(t, "login\nbusiness@example.com\npassword123\ndashboard\nquit\n")
	if !strings.Contains(out, "Signed in as business@example.com (Business)") {
		t.Errorf("missing sign-in banner:\n%s", out)
	}
	if !strings.Contains(out, "Gigs posted") {
		t.Errorf("missing dashboard:\n%s", out)
	}
	if !sh.Session.Authenticated() {
		t.Error("session not kept")
	}
}

func TestShellReportsErrorsInline(t *testing.T) {
	out, _ := runShell(t, "dashboard\nclaim abc\nfrobnicate\n")
	for _, want := range []string{LoginHint, "gig id must be a positive number", `unknown command "frobnicate"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShellClaimAndQuiz(t *testing.T) {
	input := strings.Join([]string{
		"login", "clipper@example.com", "password123",
		"claim 1",
		"claim 1",
		"quiz 1", "a", "b", "c", "y", "b", "b", "c",
		"certifications",
	}, "\n") + "\n"
	out, _ := runShell(t, input)

	if !strings.Contains(out, "Claimed gig 1.") {
		t.Errorf("claim not confirmed:\n%s", out)
	}
	if !strings.Contains(out, "Gig is not available for claiming") {
		t.Errorf("second claim not rejected:\n%s", out)
	}
	if !strings.Contains(out, "Not passed") || !strings.Contains(out, "Score 100.0%") {
		t.Errorf("quiz attempts not rendered:\n%s", out)
	}
	if !strings.Contains(out, "basic") {
		t.Errorf("certification missing:\n%s", out)
	}
}

func TestShellPostGigWithFootage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.mp4")
	if err := os.WriteFile(path, []byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom"), 0o600); err != nil {
		t.Fatal(err)
	}
	input := strings.Join([]string{
		"login", "business@example.com", "password123",
		"post-gig", "75", "1", "2", path,
		"post-gig", "20", "1", "2", "",
	}, "\n") + "\n"
	out, _ := runShell(t, input)

	if !strings.Contains(out, "Posted gig 3 with a budget of $75.00.") {
		t.Errorf("gig not posted:\n%s", out)
	}
	if !strings.Contains(out, "budget must be at least 50") {
		t.Errorf("low budget not rejected:\n%s", out)
	}
}

func TestOptionIndex(t *testing.T) {
	cases := map[string]int{"a": 0, "B": 1, "3": 2, "": -1, "zz": -1}
	for in, want := range cases {
		if got := optionIndex(in); got != want {
			t.Errorf("optionIndex(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestShellPayoutAndBalance(t *testing.T) {
	input := strings.Join([]string{
		"login", "business@example.com", "password123",
		"payout 1",
		"payout 1",
		"balance",
		"logout",
		"login", "clipper@example.com", "password123",
		"eligibility",
		"balance",
		"analytics",
	}, "\n") + "\n"
	out, _ := runShell(t, input)

	for _, want := range []string{
		"Paid $128.04 for submission 1",
		"Base $100.00 + bonus $45.50 - platform fee $17.46",
		"Submission has already been paid out",
		"Active gigs",
		"Not eligible yet: Complete lesson quizzes to earn basic certification",
		"Total earnings",
		"$128.04",
		"Complete lessons to get certified.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShellSelfPromoShowsMonthlyCap(t *testing.T) {
	input := strings.Join([]string{
		"login", "business@example.com", "password123",
		"self-promo", "", "", "",
	}, "\n") + "\n"
	out, _ := runShell(t, input)
	if !strings.Contains(out, "$15.00 monthly cap from self-promotion.") {
		t.Errorf("monthly cap not shown:\n%s", out)
	}
}
