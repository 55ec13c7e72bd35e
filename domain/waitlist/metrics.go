package waitlist

import (
	"errors"

	apperrors "github.com/akeren/wallet-waitlist/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeCreated           = "created"
	outcomeDuplicateUsername = "duplicate_username"
	outcomeDuplicateWallet   = "duplicate_wallet"
	outcomeConflict          = "conflict"
	outcomeInvalid           = "invalid"
	outcomeError             = "error"
)

type signupMetrics struct {
	signups *prometheus.CounterVec
}

// newSignupMetrics returns nil when reg is nil; a nil *signupMetrics records nothing.
func newSignupMetrics(reg prometheus.Registerer) *signupMetrics {
	if reg == nil {
		return nil
	}

	m := &signupMetrics{
		signups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waitlist_signups_total",
				Help: "Waitlist signup attempts by outcome.",
			},
			[]string{"outcome"},
		),
	}

	reg.MustRegister(m.signups)
	return m
}

func (m *signupMetrics) observe(err error) {
	if m == nil {
		return
	}
	m.signups.WithLabelValues(signupOutcome(err)).Inc()
}

func signupOutcome(err error) string {
	switch {
	case err == nil:
		return outcomeCreated
	case errors.Is(err, ErrDuplicateUsername):
		return outcomeDuplicateUsername
	case errors.Is(err, ErrDuplicateWallet):
		return outcomeDuplicateWallet
	}

	switch apperrors.GetErrorType(err) {
	case apperrors.ErrorTypeConflict:
		return outcomeConflict
	case apperrors.ErrorTypeInvalidRequest:
		return outcomeInvalid
	default:
		return outcomeError
	}
}
