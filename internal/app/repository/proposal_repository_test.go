package repository

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ikkim/franchise-portal/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestProposalRepository_Lifecycle(t *testing.T) {
	testDB := setupRepositoryTest(t)
	repo := NewProposalRepository(testDB)
	agents := NewAgentRepository(testDB)

	agent, account := newAgent("agent@example.com")
	require.NoError(t, agents.CreateWithAccount(agent, account))

	now := time.Now()
	open := &model.Proposal{AgentID: agent.ID, FullName: "A", Email: "a@example.com", Token: "tok-open", Status: model.ProposalOpen, ExpiresAt: now.Add(time.Hour)}
	stale := &model.Proposal{AgentID: agent.ID, FullName: "B", Email: "b@example.com", Token: "tok-stale", Status: model.ProposalOpen, ExpiresAt: now.Add(-time.Hour)}
	used := &model.Proposal{AgentID: agent.ID, FullName: "C", Email: "c@example.com", Token: "tok-used", Status: model.ProposalOpen, ExpiresAt: now.Add(-time.Hour)}
	for _, p := range []*model.Proposal{open, stale, used} {
		require.NoError(t, repo.Create(p))
	}

	require.NoError(t, repo.MarkSubmitted(used.ID, 42))

	n, err := repo.ExpireBefore(now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	tests := []struct {
		token      string
		wantStatus model.ProposalStatus
	}{
		{"tok-open", model.ProposalOpen},
		{"tok-stale", model.ProposalExpired},
		{"tok-used", model.ProposalSubmitted},
	}
	for _, tt := range tests {
		p, err := repo.FindByToken(tt.token)
		require.NoError(t, err)
		assert.Equal(t, tt.wantStatus, p.Status, tt.token)
		require.NotNil(t, p.Agent)
		assert.Equal(t, agent.Name, p.Agent.Name)
	}

	submitted, err := repo.FindByToken("tok-used")
	require.NoError(t, err)
	require.NotNil(t, submitted.ApplicationID)
	assert.EqualValues(t, 42, *submitted.ApplicationID)

	list, err := repo.ListByAgent(agent.ID)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	_, err = repo.FindByToken("missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProposalRepository_ExpireBefore_DatabaseError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "proposals" SET "status"=`)).
		WillReturnError(errors.New("connection reset by peer"))

	n, err := NewProposalRepository(gdb).ExpireBefore(time.Now())
	assert.Error(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
