package controller

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/franchise-portal/internal/app/model"
	"github.com/ikkim/franchise-portal/internal/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProposalController_CreateAndList(t *testing.T) {
	fx := setupControllerTest(t)
	agent := fx.createAgent(t, "agent@example.com")

	w := fx.do(http.MethodPost, "/api/agent/proposals", gin.H{
		"fullName":         "Ravi Kumar",
		"email":            "ravi@example.com",
		"mobileNumber":     "9876543210",
		"franchisePinCode": "560034",
	}, agent.AccountID)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	proposal := decode(t, w)["proposal"].(map[string]interface{})
	link := proposal["inviteLink"].(string)
	assert.Equal(t, "9876543210", proposal["mobileNumber"])
	assert.NotContains(t, proposal, "invite_link")
	assert.True(t, strings.HasPrefix(link, "https://apply.test/form?"))
	assert.Contains(t, link, "token="+proposal["token"].(string))
	assert.Contains(t, link, "franchisePinCode=560034")

	w = fx.do(http.MethodGet, "/api/agent/proposals", nil, agent.AccountID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["count"])

	w = fx.do(http.MethodPost, "/api/agent/proposals", gin.H{"fullName": "No Email"}, agent.AccountID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProposalController_RequiresAgentProfile(t *testing.T) {
	fx := setupControllerTest(t)
	admin := fx.createAdmin(t, "admin@example.com", "adminpass123")

	w := fx.do(http.MethodGet, "/api/agent/proposals", nil, admin.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "AGENT_NOT_FOUND", decode(t, w)["error"])

	w = fx.do(http.MethodGet, "/api/agent/applications", nil, admin.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProposalController_ValidateInvite(t *testing.T) {
	fx := setupControllerTest(t)
	agent := fx.createAgent(t, "agent@example.com")

	newProposal := func(token string, status model.ProposalStatus, expires time.Time) {
		require.NoError(t, fx.proposalRepo.Create(&model.Proposal{
			AgentID:   agent.ID,
			FullName:  "Ravi Kumar",
			Email:     "ravi@example.com",
			Token:     token,
			Status:    status,
			ExpiresAt: expires,
		}))
	}
	newProposal("open-token", model.ProposalOpen, time.Now().Add(time.Hour))
	newProposal("old-token", model.ProposalOpen, time.Now().Add(-time.Hour))
	newProposal("used-token", model.ProposalSubmitted, time.Now().Add(time.Hour))

	tests := []struct {
		token      string
		wantStatus int
		wantCode   string
	}{
		{"open-token", http.StatusOK, ""},
		{"old-token", http.StatusGone, "INVITE_EXPIRED"},
		{"used-token", http.StatusGone, "INVITE_USED"},
		{"nope", http.StatusNotFound, "INVITE_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			w := fx.do(http.MethodGet, "/api/invite/"+tt.token, nil, 0)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			body := decode(t, w)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["error"])
				return
			}
			assert.Equal(t, true, body["valid"])
			assert.Equal(t, "Field Agent", body["agentName"])
			assert.Equal(t, "ravi@example.com", body["email"])
			assert.Equal(t, "Ravi Kumar", body["fullName"])
		})
	}
}

func TestProposalController_AgentApplications(t *testing.T) {
	fx := setupControllerTest(t)
	agent := fx.createAgent(t, "agent@example.com")

	w := fx.do(http.MethodPost, "/api/agent/proposals", gin.H{"fullName": "Ravi Kumar", "email": "ravi@example.com"}, agent.AccountID)
	require.Equal(t, http.StatusCreated, w.Code)
	token := decode(t, w)["proposal"].(map[string]interface{})["token"].(string)

	invited := validValues("ravi@example.com")
	invited.Set(form.FieldInviteToken, token)
	require.Equal(t, http.StatusCreated, fx.submit(t, invited, nil).Code)
	require.Equal(t, http.StatusCreated, fx.submit(t, validValues("direct@example.com"), nil).Code)

	w = fx.do(http.MethodGet, "/api/agent/applications", nil, agent.AccountID)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 1, body["total"])
	app := body["applications"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "ravi@example.com", app["email"])

	// the invite is spent
	assert.Equal(t, http.StatusGone, fx.do(http.MethodGet, "/api/invite/"+token, nil, 0).Code)
}
