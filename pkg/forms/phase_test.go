package forms

import (
	"context"
	"errors"
	"testing"
)

func TestApplyTransition_AllTableRows(t *testing.T) {
	ctx := context.Background()

	for _, tr := range Transitions {
		dst, err := applyTransition(ctx, tr.Src, tr.Event)
		if err != nil {
			t.Errorf("applyTransition(%q, %q) unexpected error: %v", tr.Src, tr.Event, err)
			continue
		}
		if dst != tr.Dst {
			t.Errorf("applyTransition(%q, %q) = %q, want %q", tr.Src, tr.Event, dst, tr.Dst)
		}
	}
}

func TestApplyTransition_Illegal(t *testing.T) {
	ctx := context.Background()

	// Processing is unreachable without a passing validation.
	_, err := applyTransition(ctx, PhaseIdle, EventAccept)
	var trErr *TransitionError
	if !errors.As(err, &trErr) {
		t.Fatalf("expected TransitionError, got %v", err)
	}
	if trErr.Current != PhaseIdle || trErr.Event != EventAccept {
		t.Errorf("unexpected error detail: %+v", trErr)
	}

	// Delivery events are meaningless outside Processing.
	if _, err := applyTransition(ctx, PhaseSucceeded, EventDelivered); err == nil {
		t.Error("delivered from succeeded should be rejected")
	}
}
