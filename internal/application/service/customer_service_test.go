package service

import (
	"context"
	"testing"
	"time"

	"github.com/kasirpro/pos-api/internal/domain/checkout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCustomerAsMember(t *testing.T) {
	svc := NewCustomerService(newFakeCustomerRepo())

	customer, err := svc.CreateCustomer(context.Background(), &CreateCustomerInput{
		Name:     "Budi",
		AsMember: true,
	})
	require.NoError(t, err)

	require.NotNil(t, customer.JoinedAt)
	assert.WithinDuration(t, time.Now(), *customer.JoinedAt, time.Minute)
	require.NotNil(t, customer.MemberCode)
	assert.NotEmpty(t, *customer.MemberCode)
	assert.Equal(t, checkout.TierRegular, customer.Tier)
	assert.True(t, customer.Active)
}

func TestCreateCustomerWalkIn(t *testing.T) {
	svc := NewCustomerService(newFakeCustomerRepo())

	customer, err := svc.CreateCustomer(context.Background(), &CreateCustomerInput{Name: "Tamu"})
	require.NoError(t, err)

	require.NotNil(t, customer.JoinedAt)
	assert.Nil(t, customer.MemberCode)
	assert.False(t, customer.IsMember())
}
