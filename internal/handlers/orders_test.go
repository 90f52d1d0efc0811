package handlers

import (
	"testing"

	"backend/internal/models"
)

func TestValidStatusTransitionForward(t *testing.T) {
	allowed := [][2]string{
		{models.OrderStatusPending, models.OrderStatusConfirmed},
		{models.OrderStatusConfirmed, models.OrderStatusProcessing},
		{models.OrderStatusProcessing, models.OrderStatusShipped},
		{models.OrderStatusShipped, models.OrderStatusDelivered},
		// Jumps forward are fine, small shops skip steps.
		{models.OrderStatusPending, models.OrderStatusShipped},
		{models.OrderStatusConfirmed, models.OrderStatusDelivered},
	}
	for _, pair := range allowed {
		if err := validStatusTransition(pair[0], pair[1]); err != nil {
			t.Fatalf("%s -> %s should be allowed, got %v", pair[0], pair[1], err)
		}
	}
}

func TestValidStatusTransitionBackwardRejected(t *testing.T) {
	rejected := [][2]string{
		{models.OrderStatusConfirmed, models.OrderStatusPending},
		{models.OrderStatusDelivered, models.OrderStatusShipped},
		{models.OrderStatusShipped, models.OrderStatusShipped},
	}
	for _, pair := range rejected {
		if err := validStatusTransition(pair[0], pair[1]); err == nil {
			t.Fatalf("%s -> %s should be rejected", pair[0], pair[1])
		}
	}
}

func TestValidStatusTransitionCancellation(t *testing.T) {
	cancellable := []string{
		models.OrderStatusPending,
		models.OrderStatusConfirmed,
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
	}
	for _, from := range cancellable {
		if err := validStatusTransition(from, models.OrderStatusCancelled); err != nil {
			t.Fatalf("%s -> cancelled should be allowed, got %v", from, err)
		}
	}

	if err := validStatusTransition(models.OrderStatusDelivered, models.OrderStatusCancelled); err == nil {
		t.Fatal("delivered orders must not be cancellable")
	}
}

func TestValidStatusTransitionCancelledIsTerminal(t *testing.T) {
	err := validStatusTransition(models.OrderStatusCancelled, models.OrderStatusCancelled)
	if err != errAlreadyCancelled {
		t.Fatalf("cancelling twice should report already cancelled, got %v", err)
	}

	if err := validStatusTransition(models.OrderStatusCancelled, models.OrderStatusConfirmed); err == nil {
		t.Fatal("cancelled orders must not move to another status")
	}
}

func TestValidStatusTransitionUnknownStatus(t *testing.T) {
	if err := validStatusTransition(models.OrderStatusPending, "refunded"); err == nil {
		t.Fatal("unknown target status should be rejected")
	}
	if err := validStatusTransition("weird", models.OrderStatusShipped); err == nil {
		t.Fatal("unknown source status should be rejected")
	}
}
