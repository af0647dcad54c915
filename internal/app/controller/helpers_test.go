package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/franchise-portal/internal/app/model"
	"github.com/ikkim/franchise-portal/internal/app/repository"
	"github.com/ikkim/franchise-portal/internal/app/service"
	"github.com/ikkim/franchise-portal/internal/db"
	"github.com/ikkim/franchise-portal/internal/form"
	"github.com/ikkim/franchise-portal/internal/middleware"
	"github.com/ikkim/franchise-portal/internal/storage"
	"github.com/ikkim/franchise-portal/pkg/pincode"
	"github.com/ikkim/franchise-portal/pkg/util"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

var pngData = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)

type nopPublisher struct{}

func (nopPublisher) Publish(string, interface{}) {}

type fakeLookup struct {
	places map[string]*pincode.Place
	err    error
}

func (f fakeLookup) Lookup(_ context.Context, code string) (*pincode.Place, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(code) != 6 {
		return nil, pincode.ErrInvalidCode
	}
	if p, ok := f.places[code]; ok {
		return p, nil
	}
	return nil, pincode.ErrNotFound
}

type controllerFixture struct {
	db           *gorm.DB
	store        *storage.MemoryStorage
	accountRepo  repository.AccountRepository
	agentRepo    repository.AgentRepository
	proposalRepo repository.ProposalRepository
	appService   service.ApplicationService
	authService  service.AuthService
	agentService service.AgentService
	propService  service.ProposalService
	router       *gin.Engine
}

// setupControllerTest wires every controller onto a bare engine. Protected
// routes trust the X-Test-Account header instead of a JWT.
func setupControllerTest(t *testing.T) *controllerFixture {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	fx := &controllerFixture{
		db:           testDB,
		store:        storage.NewMemoryStorage("http://files.test"),
		accountRepo:  repository.NewAccountRepository(testDB),
		agentRepo:    repository.NewAgentRepository(testDB),
		proposalRepo: repository.NewProposalRepository(testDB),
	}
	appRepo := repository.NewApplicationRepository(testDB)

	fx.appService = service.NewApplicationService(appRepo, fx.proposalRepo, fx.agentRepo, fx.store, nopPublisher{})
	fx.authService = service.NewAuthService(fx.accountRepo, nil, testSecret, 15*time.Minute, time.Hour)
	fx.agentService = service.NewAgentService(fx.agentRepo, fx.accountRepo)
	fx.propService = service.NewProposalService(fx.proposalRepo, fx.agentRepo, nopPublisher{}, "https://apply.test/form", 24*time.Hour)

	apps := NewApplicationController(fx.appService, 10<<20)
	auth := NewAuthController(fx.authService)
	agents := NewAgentController(fx.agentService)
	proposals := NewProposalController(fx.propService)
	pins := NewPincodeController(fakeLookup{places: map[string]*pincode.Place{
		"560034": {PinCode: "560034", City: "Bengaluru", District: "Bangalore", State: "Karnataka"},
	}})
	admin := NewAdminController(fx.appService, service.NewReportService(appRepo), nil, nil)

	r := gin.New()
	r.Use(middleware.LoggingMiddleware())
	r.POST("/api/auth/login", auth.Login)
	r.POST("/api/auth/refresh", auth.Refresh)
	r.POST("/api/createApplication", apps.CreateApplication)
	r.GET("/api/getApplication/email/:email", apps.GetApplicationByEmail)
	r.GET("/api/invite/:token", proposals.ValidateInvite)
	r.GET("/api/pincode/:code", pins.Lookup)

	protected := r.Group("/api", testAccount)
	protected.GET("/auth/me", auth.Me)
	protected.GET("/getApplication", apps.ListApplications)
	protected.GET("/application/:id", apps.GetApplication)
	protected.DELETE("/application/:id", apps.DeleteApplication)
	protected.GET("/application/:id/documents/:field", apps.DocumentURL)
	protected.POST("/application/approve", apps.Approve)
	protected.POST("/application/reject", apps.Reject)
	protected.POST("/application/agreement", apps.SendAgreement)
	protected.POST("/application/payment/verify", apps.VerifyPayment)
	protected.GET("/agents", agents.ListAgents)
	protected.POST("/agents", agents.CreateAgent)
	protected.DELETE("/agents/:id", agents.DeleteAgent)
	protected.POST("/agent/proposals", proposals.CreateProposal)
	protected.GET("/agent/proposals", proposals.ListProposals)
	protected.GET("/agent/applications", apps.ListAgentApplications)
	protected.GET("/admin/stats", admin.Stats)
	protected.GET("/admin/report", admin.ExportApplications)
	fx.router = r

	return fx
}

func testAccount(c *gin.Context) {
	if id, err := strconv.ParseUint(c.GetHeader("X-Test-Account"), 10, 32); err == nil && id > 0 {
		c.Set(middleware.UserIDKey, uint(id))
	}
	c.Next()
}

func (fx *controllerFixture) createAdmin(t *testing.T, email, password string) *model.Account {
	hash, err := util.HashPassword(password)
	require.NoError(t, err)
	account := &model.Account{Email: email, PasswordHash: hash, Name: "Admin", Role: model.RoleAdmin}
	require.NoError(t, fx.accountRepo.Create(account))
	return account
}

func (fx *controllerFixture) createAgent(t *testing.T, email string) *model.Agent {
	agent, err := fx.agentService.Create(service.CreateAgentInput{
		Name:     "Field Agent",
		Email:    email,
		Region:   "Karnataka",
		Password: "Agentpass123!",
	})
	require.NoError(t, err)
	return agent
}

// do sends a JSON (or empty) request, acting as accountID when non-zero.
func (fx *controllerFixture) do(method, path string, body interface{}, accountID uint) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accountID > 0 {
		req.Header.Set("X-Test-Account", strconv.FormatUint(uint64(accountID), 10))
	}
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)
	return w
}

// submit posts a multipart application built the same way the form does.
func (fx *controllerFixture) submit(t *testing.T, values url.Values, files map[form.Slot]form.File) *httptest.ResponseRecorder {
	staging := form.NewStaging()
	for slot, f := range files {
		require.NoError(t, staging.Stage(slot, f))
	}
	body, contentType, err := form.BuildPayload(form.DraftFromValues(values), staging)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/createApplication", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
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

func uintPath(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
