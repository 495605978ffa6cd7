package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/workshop-studio/internal/service"
)

func TestEnrollmentEmailCarriesCancelLink(t *testing.T) {
	r := Renderer{BaseURL: "https://studio.example.com"}
	subject, body, err := r.EnrollmentConfirmed(service.EnrollmentNotification{
		CustomerName:  "Maya",
		CustomerEmail: "maya@example.com",
		WorkshopName:  "Wheel Throwing Basics",
		PriceCents:    4500,
		CancelToken:   "tok-123",
	})
	require.NoError(t, err)
	assert.Contains(t, subject, "Wheel Throwing Basics")
	assert.Contains(t, body, "https://studio.example.com/enrollments/cancel/tok-123")
	assert.Contains(t, body, "$45.00")
}

func TestResetEmailCarriesToken(t *testing.T) {
	r := Renderer{BaseURL: "https://studio.example.com"}
	_, body, err := r.PasswordReset(service.PasswordResetNotification{
		CustomerName: "Rin", CustomerEmail: "rin@example.com", ResetToken: "reset-9",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "/reset-password/reset-9")
}
