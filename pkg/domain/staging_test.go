package domain_test

import (
	"testing"

	"github.com/atol-canopy/canopy/pkg/domain"
)

func TestSubmissionStatus_CanTransit(t *testing.T) {
	statuses := []domain.SubmissionStatus{
		domain.StatusDraft, domain.StatusReady,
		domain.StatusSubmitted, domain.StatusRejected,
	}

	allowed := map[domain.SubmissionStatus][]domain.SubmissionStatus{
		domain.StatusDraft:     {domain.StatusReady, domain.StatusRejected},
		domain.StatusReady:     {domain.StatusSubmitted, domain.StatusRejected},
		domain.StatusSubmitted: {},
		domain.StatusRejected:  {},
	}

	for from, tos := range allowed {
		for _, to := range statuses {
			want := false
			for _, a := range tos {
				if a == to {
					want = true
				}
			}
			if got := from.CanTransit(to); got != want {
				t.Errorf("%s -> %s: got %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestSubmissionStatus_Terminal(t *testing.T) {
	for status, want := range map[domain.SubmissionStatus]bool{
		domain.StatusDraft:     false,
		domain.StatusReady:     false,
		domain.StatusSubmitted: true,
		domain.StatusRejected:  true,
	} {
		if got := status.Terminal(); got != want {
			t.Errorf("%s: Terminal() = %v, want %v", status, got, want)
		}
	}
}
