package service

import (
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/ikkim/franchise-portal/internal/app/model"
	"github.com/ikkim/franchise-portal/internal/app/repository"
	"github.com/ikkim/franchise-portal/internal/db"
	"github.com/ikkim/franchise-portal/internal/form"
	"github.com/ikkim/franchise-portal/internal/storage"
	"github.com/ikkim/franchise-portal/pkg/util"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	pngData = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)
	pdfData = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n%%EOF")
)

type publishedEvent struct {
	Type string
	Data interface{}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) Publish(eventType string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: eventType, Data: data})
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type serviceFixture struct {
	db           *gorm.DB
	appRepo      repository.ApplicationRepository
	agentRepo    repository.AgentRepository
	accountRepo  repository.AccountRepository
	proposalRepo repository.ProposalRepository
	store        *storage.MemoryStorage
	events       *fakePublisher
}

func setupServiceFixture(t *testing.T) *serviceFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return &serviceFixture{
		db:           testDB,
		appRepo:      repository.NewApplicationRepository(testDB),
		agentRepo:    repository.NewAgentRepository(testDB),
		accountRepo:  repository.NewAccountRepository(testDB),
		proposalRepo: repository.NewProposalRepository(testDB),
		store:        storage.NewMemoryStorage("http://files.test"),
		events:       &fakePublisher{},
	}
}

// validValues returns a submission that passes every validation rule.
func validValues(email string) url.Values {
	v := url.Values{}
	for _, f := range form.Fields {
		if !f.Required {
			continue
		}
		switch f.Kind {
		case form.KindBool:
			v.Set(f.Name, "false")
		case form.KindNumber:
			v.Set(f.Name, "10")
		default:
			v.Set(f.Name, "Sample")
		}
	}
	v.Set(form.FieldFullName, "Ravi Kumar")
	v.Set(form.FieldEmail, email)
	v.Set(form.FieldMobileNumber, "9876543210")
	v.Set(form.FieldPANNumber, "abcde1234f")
	v.Set(form.FieldAadharNumber, "123456789012")
	v.Set(form.FieldResidentialPinCode, "560001")
	v.Set(form.FieldFranchisePinCode, "560034")
	v.Set(form.FieldFranchiseCity, "Bengaluru")
	v.Set(form.FieldIFSCCode, "hdfc0001234")
	v.Set(form.FieldTotalSpace, "450.5")
	v.Set(form.FieldStaffCount, "3")
	for _, name := range []string{form.FieldAgreeTerms, form.FieldAgreePrivacy, form.FieldDeclarationAccepted, form.FieldConsentBackgroundCheck} {
		v.Set(name, "true")
	}
	return v
}

func createAgent(t *testing.T, fx *serviceFixture, email string) (*model.Agent, *model.Account) {
	hash, err := util.HashPassword("agentpass123")
	require.NoError(t, err)

	agent := &model.Agent{Name: "Field Agent", Email: email, Region: "Karnataka", Active: true}
	account := &model.Account{Email: email, PasswordHash: hash, Name: "Field Agent", Role: model.RoleAgent}
	require.NoError(t, fx.agentRepo.CreateWithAccount(agent, account))
	return agent, account
}

func createProposal(t *testing.T, fx *serviceFixture, agentID uint, token string, expiresAt time.Time) *model.Proposal {
	p := &model.Proposal{
		AgentID:   agentID,
		FullName:  "Ravi Kumar",
		Email:     "ravi@example.com",
		Token:     token,
		Status:    model.ProposalOpen,
		ExpiresAt: expiresAt,
	}
	require.NoError(t, fx.proposalRepo.Create(p))
	return p
}
