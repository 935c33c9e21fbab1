package entities

import "testing"

func TestQuoteStatus_CanTransitionTo(t *testing.T) {
	allowed := map[QuoteStatus][]QuoteStatus{
		QuoteStatusPending:         {QuoteStatusProcessed, QuoteStatusCancelled, QuoteStatusCustomerReplied},
		QuoteStatusProcessed:       {QuoteStatusCompleted, QuoteStatusCancelled, QuoteStatusCustomerReplied},
		QuoteStatusCustomerReplied: {QuoteStatusProcessed, QuoteStatusCompleted, QuoteStatusCancelled},
		QuoteStatusCompleted:       {},
		QuoteStatusCancelled:       {},
	}

	all := []QuoteStatus{
		QuoteStatusPending, QuoteStatusProcessed, QuoteStatusCompleted,
		QuoteStatusCancelled, QuoteStatusCustomerReplied,
	}

	for from, tos := range allowed {
		permitted := map[QuoteStatus]bool{}
		for _, to := range tos {
			permitted[to] = true
		}
		for _, to := range all {
			got := from.CanTransitionTo(to)
			if got != permitted[to] {
				t.Fatalf("CanTransitionTo(%s -> %s) = %t, want %t", from, to, got, permitted[to])
			}
		}
	}
}

func TestQuoteStatus_NoBackwardTransitions(t *testing.T) {
	if QuoteStatusProcessed.CanTransitionTo(QuoteStatusPending) {
		t.Fatalf("processed must not move back to pending")
	}
	if QuoteStatusCompleted.CanTransitionTo(QuoteStatusProcessed) {
		t.Fatalf("completed must not move back to processed")
	}
}

func TestQuoteStatus_TerminalStates(t *testing.T) {
	all := []QuoteStatus{
		QuoteStatusPending, QuoteStatusProcessed, QuoteStatusCompleted,
		QuoteStatusCancelled, QuoteStatusCustomerReplied,
	}
	for _, terminal := range []QuoteStatus{QuoteStatusCompleted, QuoteStatusCancelled} {
		if !terminal.IsTerminal() {
			t.Fatalf("expected %s to be terminal", terminal)
		}
		for _, to := range all {
			if terminal.CanTransitionTo(to) {
				t.Fatalf("terminal %s must reject transition to %s", terminal, to)
			}
		}
	}
	for _, s := range []QuoteStatus{QuoteStatusPending, QuoteStatusProcessed, QuoteStatusCustomerReplied} {
		if s.IsTerminal() {
			t.Fatalf("expected %s to be non-terminal", s)
		}
	}
}

func TestIsValidQuoteStatus(t *testing.T) {
	for _, s := range []QuoteStatus{
		QuoteStatusPending, QuoteStatusProcessed, QuoteStatusCompleted,
		QuoteStatusCancelled, QuoteStatusCustomerReplied,
	} {
		if !IsValidQuoteStatus(s) {
			t.Fatalf("expected %s to be valid", s)
		}
	}
	if IsValidQuoteStatus("approved") {
		t.Fatalf("unknown status accepted")
	}
	if IsValidQuoteStatus("") {
		t.Fatalf("empty status accepted")
	}
}
