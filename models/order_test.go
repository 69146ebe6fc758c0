package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayurmart/ayurmart-api/models"
)

func TestParseOrderStatus(t *testing.T) {
	for _, s := range []string{"pending", "processing", "completed", "cancelled"} {
		got, err := models.ParseOrderStatus(s)
		assert.NoError(t, err, s)
		assert.EqualValues(t, s, got)
	}

	// Case is normalized.
	got, err := models.ParseOrderStatus("PROCESSING")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, got)

	for _, s := range []string{"shipped", "done", ""} {
		_, err := models.ParseOrderStatus(s)
		assert.Error(t, err, s)
	}
}

func TestParsePaymentStatus(t *testing.T) {
	for _, s := range []string{"unpaid", "paid", "refunded"} {
		got, err := models.ParsePaymentStatus(s)
		assert.NoError(t, err, s)
		assert.EqualValues(t, s, got)
	}
	for _, s := range []string{"pending", "failed", ""} {
		_, err := models.ParsePaymentStatus(s)
		assert.Error(t, err, s)
	}
}

func TestParseReceiptDecision(t *testing.T) {
	for _, s := range []string{"APPROVED", "approved", "REJECTED"} {
		_, err := models.ParseReceiptDecision(s)
		assert.NoError(t, err, s)
	}
	// PENDING is the initial state, never a valid decision.
	for _, s := range []string{"PENDING", "MAYBE", ""} {
		_, err := models.ParseReceiptDecision(s)
		assert.Error(t, err, s)
	}
}

func TestParseAppointmentDecision(t *testing.T) {
	for _, s := range []string{"APPROVED", "REJECTED", "rejected"} {
		_, err := models.ParseAppointmentDecision(s)
		assert.NoError(t, err, s)
	}
	// Cancellation goes through the patient endpoint, not a doctor decision.
	for _, s := range []string{"PENDING", "CANCELLED", "POSTPONED", ""} {
		_, err := models.ParseAppointmentDecision(s)
		assert.Error(t, err, s)
	}
}

func TestParseTicketStatus(t *testing.T) {
	for _, s := range []string{"new", "in_progress", "resolved"} {
		got, err := models.ParseTicketStatus(s)
		assert.NoError(t, err, s)
		assert.EqualValues(t, s, got)
	}
	for _, s := range []string{"closed", "open", ""} {
		_, err := models.ParseTicketStatus(s)
		assert.Error(t, err, s)
	}
}

func TestCartSubtotal(t *testing.T) {
	cart := models.Cart{Items: []models.CartItem{
		{PriceAtAdd: 450, Quantity: 2},
		{PriceAtAdd: 300, Quantity: 1},
	}}
	assert.InDelta(t, 1200, cart.Subtotal(), 0.001)

	empty := models.Cart{}
	assert.Zero(t, empty.Subtotal())
}
