package service

import (
	"testing"

	"github.com/ikkim/franchise-portal/internal/app/model"
	"github.com/ikkim/franchise-portal/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgentService_Create(t *testing.T) {
	fx := setupServiceFixture(t)
	svc := NewAgentService(fx.agentRepo, fx.accountRepo)

	agent, err := svc.Create(CreateAgentInput{
		Name:     " Priya Sharma ",
		Email:    "Priya@Example.com",
		Phone:    "9876543210",
		Region:   "Karnataka",
		Password: "agentpass123",
	})
	require.NoError(t, err)
	assert.Equal(t, "Priya Sharma", agent.Name)
	assert.Equal(t, "priya@example.com", agent.Email)
	assert.True(t, agent.Active)

	account, err := fx.accountRepo.FindByID(agent.AccountID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAgent, account.Role)
	assert.True(t, util.VerifyPassword(account.PasswordHash, "agentpass123"))

	found, err := svc.GetByAccountID(account.ID)
	require.NoError(t, err)
	assert.Equal(t, agent.ID, found.ID)
}

func TestAgentService_Create_Errors(t *testing.T) {
	fx := setupServiceFixture(t)
	svc := NewAgentService(fx.agentRepo, fx.accountRepo)

	_, err := svc.Create(CreateAgentInput{Name: "A", Email: "a@example.com", Password: "agentpass123"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   CreateAgentInput
		wantErr error
	}{
		{"duplicate email", CreateAgentInput{Name: "B", Email: "A@example.com", Password: "agentpass123"}, ErrAgentExists},
		{"weak password", CreateAgentInput{Name: "C", Email: "c@example.com", Password: "short"}, util.ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAgentService_ListAndDelete(t *testing.T) {
	fx := setupServiceFixture(t)
	svc := NewAgentService(fx.agentRepo, fx.accountRepo)

	first, err := svc.Create(CreateAgentInput{Name: "Bala", Email: "bala@example.com", Password: "agentpass123"})
	require.NoError(t, err)
	_, err = svc.Create(CreateAgentInput{Name: "Anil", Email: "anil@example.com", Password: "agentpass123"})
	require.NoError(t, err)

	agents, err := svc.List(false)
	require.NoError(t, err)
	require.Len(t, agents, 2)
	assert.Equal(t, "Anil", agents[0].Name)

	require.NoError(t, svc.Delete(first.ID))
	assert.ErrorIs(t, svc.Delete(first.ID), ErrAgentNotFound)

	agents, err = svc.List(true)
	require.NoError(t, err)
	assert.Len(t, agents, 1)

	_, err = fx.accountRepo.FindByEmail("bala@example.com")
	assert.Error(t, err, "the agent's login is removed with it")

	again, err := svc.Create(CreateAgentInput{Name: "Bala", Email: "bala@example.com", Password: "agentpass123"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, again.ID)

	_, err = svc.GetByAccountID(first.AccountID)
	assert.ErrorIs(t, err, ErrAgentNotFound)
}
