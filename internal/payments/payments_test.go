package payments

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mx70/internal/apperr"

	"github.com/rs/zerolog"
)

func TestMockRecordsTransfers(t *testing.T) {
	m := NewMock(func() time.Time { return time.Unix(1700000000, 0) })
	id, err := m.Pay(context.Background(), Transfer{SubmissionID: 1, AmountCents: 12804, Currency: "usd"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(id, "po_mock_1700000000") {
		t.Errorf("id = %q", id)
	}
	if got := m.Transfers(); len(got) != 1 || got[0].AmountCents != 12804 {
		t.Errorf("transfers = %+v", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Pay(ctx, Transfer{}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want canceled", err)
	}
}

func TestStripeCreatesTransfer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/transfers" {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.Form.Get("amount") != "12804" || r.Form.Get("destination") != "acct_1" || r.Form.Get("metadata[submission_id]") != "7" {
			t.Errorf("form = %v", r.Form)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_123" {
			t.Errorf("authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"tr_123","object":"transfer","amount":12804,"currency":"usd","destination":"acct_1"}`))
	}))
	defer srv.Close()

	p := NewStripe("sk_test_123", srv.URL, zerolog.Nop())
	id, err := p.Pay(context.Background(), Transfer{SubmissionID: 7, ClipperID: 2, Destination: "acct_1", AmountCents: 12804, Currency: "usd"})
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if id != "tr_123" {
		t.Errorf("id = %q", id)
	}
}

func TestStripeErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","code":"resource_missing","message":"No such account: 'acct_x'"}}`))
	}))
	defer srv.Close()

	p := NewStripe("sk_test_123", srv.URL, zerolog.Nop())
	if _, err := p.Pay(context.Background(), Transfer{Destination: "acct_x", AmountCents: 1, Currency: "usd"}); err == nil {
		t.Error("expected an error for a rejected transfer")
	}
	if _, err := p.Pay(context.Background(), Transfer{AmountCents: 1, Currency: "usd"}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("missing destination err = %v", err)
	}
}
