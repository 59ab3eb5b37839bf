package payments

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"mx70/internal/apperr"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/transfer"
)

// Stripe pays clippers with Connect transfers.
type Stripe struct {
	transfers transfer.Client
	logger    zerolog.Logger
}

// NewStripe builds a payer for the given secret key. A non-empty apiURL points
// the client at another Stripe-compatible host, such as a local twin.
func NewStripe(secretKey, apiURL string, logger zerolog.Logger) *Stripe {
	cfg := &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	}
	if apiURL != "" {
		cfg.URL = stripe.String(apiURL)
	}
	return &Stripe{
		transfers: transfer.Client{B: stripe.GetBackendWithConfig(stripe.APIBackend, cfg), Key: secretKey},
		logger:    logger.With().Str("service", "StripePayer").Logger(),
	}
}

func (s *Stripe) Pay(ctx context.Context, t Transfer) (string, error) {
	if t.Destination == "" {
		return "", apperr.Validation("Clipper has no payout account")
	}

	params := &stripe.TransferParams{
		Amount:        stripe.Int64(t.AmountCents),
		Currency:      stripe.String(t.Currency),
		Destination:   stripe.String(t.Destination),
		TransferGroup: stripe.String("submission_" + strconv.FormatInt(t.SubmissionID, 10)),
	}
	params.Context = ctx
	params.AddMetadata("submission_id", strconv.FormatInt(t.SubmissionID, 10))
	params.AddMetadata("clipper_id", strconv.FormatInt(t.ClipperID, 10))

	tr, err := s.transfers.New(params)
	if err != nil {
		var serr *stripe.Error
		if errors.As(err, &serr) {
			s.logger.Error().Str("stripe_code", string(serr.Code)).Int64("submission_id", t.SubmissionID).Msg("Stripe rejected transfer")
		}
		return "", fmt.Errorf("create stripe transfer: %w", err)
	}

	s.logger.Info().Str("transfer_id", tr.ID).Int64("submission_id", t.SubmissionID).Int64("amount", t.AmountCents).Msg("Transfer created")
	return tr.ID, nil
}
