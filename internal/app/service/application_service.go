package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ikkim/franchise-portal/internal/app/model"
	"github.com/ikkim/franchise-portal/internal/app/repository"
	"github.com/ikkim/franchise-portal/internal/form"
	"github.com/ikkim/franchise-portal/internal/metrics"
	"github.com/ikkim/franchise-portal/internal/storage"
	"github.com/ikkim/franchise-portal/internal/websocket"
	"github.com/ikkim/franchise-portal/pkg/logger"
	"github.com/ikkim/franchise-portal/pkg/util"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	documentURLTTL       = 15 * time.Minute
	maxReferenceAttempts = 5
	uploadConcurrency    = 4
)

var (
	ErrApplicationExists       = errors.New("application already exists for this email")
	ErrApplicationNotFound     = errors.New("application not found")
	ErrInvalidApplication      = errors.New("application is invalid")
	ErrInvalidDocument         = errors.New("invalid document")
	ErrDocumentNotFound        = errors.New("document not found")
	ErrInvalidStatusTransition = errors.New("application status does not allow this change")
)

// ApplicationValidationError carries the per-field messages of a rejected
// application. It matches ErrInvalidApplication with errors.Is.
type ApplicationValidationError struct {
	Fields form.ValidationErrors
}

func (e *ApplicationValidationError) Error() string {
	return e.Fields.Summary()
}

func (e *ApplicationValidationError) Unwrap() error {
	return ErrInvalidApplication
}

// EventPublisher receives application events for the admin feed.
type EventPublisher interface {
	Publish(eventType string, data interface{})
}

// DocumentUpload is one file of a createApplication request.
type DocumentUpload struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// CreateApplicationInput is a decoded createApplication request.
type CreateApplicationInput struct {
	Values    url.Values
	Documents []DocumentUpload
}

type ApplicationService interface {
	Create(ctx context.Context, input CreateApplicationInput) (*model.Application, error)
	GetByID(id uint) (*model.Application, error)
	GetByEmail(email string) (*model.Application, error)
	List(filter model.ApplicationFilter) ([]model.Application, int64, error)
	ListForAgent(accountID uint, filter model.ApplicationFilter) ([]model.Application, int64, error)
	Approve(id, reviewerID uint, remarks string) (*model.Application, error)
	Reject(id, reviewerID uint, remarks string) (*model.Application, error)
	SendAgreement(id, reviewerID uint, remarks string) (*model.Application, error)
	VerifyPayment(id, reviewerID uint, paymentReference, remarks string) (*model.Application, error)
	Delete(id uint) error
	DocumentURL(ctx context.Context, id uint, field string, index int) (string, error)
	Stats(now time.Time) (*model.ApplicationStats, error)
}

type applicationService struct {
	appRepo      repository.ApplicationRepository
	proposalRepo repository.ProposalRepository
	agentRepo    repository.AgentRepository
	store        storage.DocumentStore
	events       EventPublisher
	now          func() time.Time
}

func NewApplicationService(
	appRepo repository.ApplicationRepository,
	proposalRepo repository.ProposalRepository,
	agentRepo repository.AgentRepository,
	store storage.DocumentStore,
	events EventPublisher,
) ApplicationService {
	return &applicationService{
		appRepo:      appRepo,
		proposalRepo: proposalRepo,
		agentRepo:    agentRepo,
		store:        store,
		events:       events,
		now:          time.Now,
	}
}

// statusSources lists the statuses each status may be set from.
var statusSources = map[model.ApplicationStatus][]model.ApplicationStatus{
	model.StatusApproved:   {model.StatusPending},
	model.StatusRejected:   {model.StatusPending},
	model.StatusAgreement:  {model.StatusApproved},
	model.StatusOneTimeFee: {model.StatusAgreement},
}

// wireSlots maps multipart document fields back to form slots.
var wireSlots = func() map[string]form.Slot {
	m := make(map[string]form.Slot, len(form.WireFields))
	for slot, field := range form.WireFields {
		m[field] = slot
	}
	return m
}()

func (s *applicationService) Create(ctx context.Context, input CreateApplicationInput) (*model.Application, error) {
	draft := form.DraftFromValues(input.Values)
	if errs, ok := form.Validate(draft); !ok {
		metrics.ApplicationsRejected.WithLabelValues("validation").Inc()
		logger.Warn("Application rejected by validation", map[string]interface{}{
			"fields": errs.Fields(),
		})
		return nil, &ApplicationValidationError{Fields: errs}
	}
	draft = form.Normalized(draft)
	email := strings.ToLower(draft.Get(form.FieldEmail))

	if _, err := s.appRepo.FindByEmail(email); err == nil {
		metrics.ApplicationsRejected.WithLabelValues("duplicate").Inc()
		logger.Warn("Application rejected: email already used", map[string]interface{}{
			"email": email,
		})
		return nil, ErrApplicationExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	contentTypes, err := checkDocuments(input.Documents)
	if err != nil {
		metrics.ApplicationsRejected.WithLabelValues("document").Inc()
		return nil, err
	}

	app, err := applicationFromDraft(draft)
	if err != nil {
		return nil, err
	}
	app.Email = email
	app.Status = model.StatusPending

	proposal := s.usableProposal(draft.Get(form.FieldInviteToken))
	if proposal != nil {
		app.AgentID = &proposal.AgentID
		app.ProposalID = &proposal.ID
	}

	ref, err := s.newReference()
	if err != nil {
		return nil, err
	}
	app.ReferenceNumber = ref

	if err := s.upload(ctx, app, input.Documents, contentTypes); err != nil {
		return nil, err
	}

	if err := s.appRepo.Create(app); err != nil {
		if isDuplicate(err) {
			metrics.ApplicationsRejected.WithLabelValues("duplicate").Inc()
			return nil, ErrApplicationExists
		}
		return nil, err
	}

	source := "direct"
	if proposal != nil {
		source = "invite"
		if err := s.proposalRepo.MarkSubmitted(proposal.ID, app.ID); err != nil {
			logger.Error("Failed to mark proposal submitted", err, map[string]interface{}{
				"proposal_id":    proposal.ID,
				"application_id": app.ID,
			})
		}
	}
	metrics.ApplicationsSubmitted.WithLabelValues(source).Inc()

	logger.Info("Application created", map[string]interface{}{
		"application_id":   app.ID,
		"reference_number": app.ReferenceNumber,
		"source":           source,
		"documents":        len(input.Documents),
	})
	s.publish(websocket.EventApplicationCreated, app)
	return app, nil
}

// usableProposal returns the open proposal behind token. An unknown, used or
// expired invite does not block the application; it is just not linked.
func (s *applicationService) usableProposal(token string) *model.Proposal {
	if token == "" {
		return nil
	}
	proposal, err := s.proposalRepo.FindByToken(token)
	if err != nil {
		logger.Warn("Application invite not found", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	if !proposal.Usable(s.now()) {
		logger.Warn("Application invite no longer usable", map[string]interface{}{
			"proposal_id": proposal.ID,
			"status":      proposal.Status,
		})
		return nil
	}
	return proposal
}

func (s *applicationService) newReference() (string, error) {
	for i := 0; i < maxReferenceAttempts; i++ {
		ref := util.GenerateReferenceNumber(form.ReferencePrefix)
		exists, err := s.appRepo.ReferenceExists(ref)
		if err != nil {
			return "", err
		}
		if !exists {
			return ref, nil
		}
	}
	return "", errors.New("failed to allocate a reference number")
}

// checkDocuments applies the staging constraints to uploaded files and
// returns the sniffed content type of each.
func checkDocuments(docs []DocumentUpload) ([]string, error) {
	seen := make(map[string]bool, len(docs))
	types := make([]string, len(docs))
	for i, doc := range docs {
		slot, ok := wireSlots[doc.Field]
		if !ok {
			return nil, fmt.Errorf("%w: unknown field %s", ErrInvalidDocument, doc.Field)
		}
		if slot != form.SlotOtherDocuments {
			if seen[doc.Field] {
				return nil, fmt.Errorf("%w: more than one file for %s", ErrInvalidDocument, doc.Field)
			}
			seen[doc.Field] = true
		}

		f := form.File{Name: doc.Filename, Data: doc.Data}
		if err := form.Check(slot, f); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDocument, doc.Field, err)
		}
		types[i] = f.MediaType()
	}
	return types, nil
}

func (s *applicationService) upload(ctx context.Context, app *model.Application, docs []DocumentUpload, contentTypes []string) error {
	if len(docs) == 0 {
		return nil
	}

	keys := make([]string, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)
	for i, doc := range docs {
		i, doc := i, doc
		keys[i] = storage.DocumentKey(app.ReferenceNumber, doc.Field, doc.Filename)
		g.Go(func() error {
			if err := s.store.Put(gctx, keys[i], contentTypes[i], doc.Data); err != nil {
				return err
			}
			metrics.DocumentsUploaded.WithLabelValues(doc.Field).Inc()
			metrics.DocumentUploadBytes.Observe(float64(len(doc.Data)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("Failed to store application documents", err, map[string]interface{}{
			"reference_number": app.ReferenceNumber,
		})
		return fmt.Errorf("failed to store documents: %w", err)
	}

	app.Documents = make(map[string]string)
	for i, doc := range docs {
		if doc.Field == form.WireOtherDocuments {
			app.OtherDocuments = append(app.OtherDocuments, keys[i])
			continue
		}
		app.Documents[doc.Field] = keys[i]
	}
	return nil
}

func (s *applicationService) GetByID(id uint) (*model.Application, error) {
	app, err := s.appRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

func (s *applicationService) GetByEmail(email string) (*model.Application, error) {
	app, err := s.appRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

func (s *applicationService) List(filter model.ApplicationFilter) ([]model.Application, int64, error) {
	return s.appRepo.List(filter)
}

func (s *applicationService) ListForAgent(accountID uint, filter model.ApplicationFilter) ([]model.Application, int64, error) {
	agent, err := s.agentRepo.FindByAccountID(accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrAgentNotFound
		}
		return nil, 0, err
	}
	filter.AgentID = &agent.ID
	return s.appRepo.List(filter)
}

func (s *applicationService) Approve(id, reviewerID uint, remarks string) (*model.Application, error) {
	return s.setStatus(id, model.StatusApproved, reviewerID, map[string]interface{}{"remarks": remarks})
}

func (s *applicationService) Reject(id, reviewerID uint, remarks string) (*model.Application, error) {
	return s.setStatus(id, model.StatusRejected, reviewerID, map[string]interface{}{"remarks": remarks})
}

func (s *applicationService) SendAgreement(id, reviewerID uint, remarks string) (*model.Application, error) {
	return s.setStatus(id, model.StatusAgreement, reviewerID, map[string]interface{}{"remarks": remarks})
}

func (s *applicationService) VerifyPayment(id, reviewerID uint, paymentReference, remarks string) (*model.Application, error) {
	return s.setStatus(id, model.StatusOneTimeFee, reviewerID, map[string]interface{}{
		"remarks":             remarks,
		"payment_reference":   strings.TrimSpace(paymentReference),
		"payment_verified_at": s.now(),
	})
}

func (s *applicationService) setStatus(id uint, to model.ApplicationStatus, reviewerID uint, updates map[string]interface{}) (*model.Application, error) {
	updates["status"] = to
	updates["reviewed_by"] = reviewerID

	app, err := s.appRepo.UpdateStatus(id, statusSources[to], updates)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrApplicationNotFound
		case errors.Is(err, repository.ErrStatusConflict):
			logger.Warn("Status change refused", map[string]interface{}{
				"application_id": id,
				"to":             to,
			})
			return nil, ErrInvalidStatusTransition
		}
		return nil, err
	}

	metrics.ApplicationStatusChanges.WithLabelValues(string(to)).Inc()
	logger.Info("Application status changed", map[string]interface{}{
		"application_id": id,
		"status":         to,
		"reviewed_by":    reviewerID,
	})
	s.publish(websocket.EventApplicationStatus, app)
	return app, nil
}

func (s *applicationService) Delete(id uint) error {
	if err := s.appRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrApplicationNotFound
		}
		return err
	}
	logger.Info("Application deleted", map[string]interface{}{
		"application_id": id,
	})
	if s.events != nil {
		s.events.Publish(websocket.EventApplicationDeleted, map[string]interface{}{"id": id})
	}
	return nil
}

// DocumentURL returns a short-lived download link. index selects the entry
// of otherDocuments and is ignored for other fields.
func (s *applicationService) DocumentURL(ctx context.Context, id uint, field string, index int) (string, error) {
	app, err := s.GetByID(id)
	if err != nil {
		return "", err
	}

	var key string
	if field == form.WireOtherDocuments {
		if index >= 0 && index < len(app.OtherDocuments) {
			key = app.OtherDocuments[index]
		}
	} else {
		key = app.Documents[field]
	}
	if key == "" {
		return "", ErrDocumentNotFound
	}

	return s.store.PresignGet(ctx, key, documentURLTTL)
}

// Stats counts applications; "today" starts at midnight of now's location.
func (s *applicationService) Stats(now time.Time) (*model.ApplicationStats, error) {
	y, m, d := now.Date()
	return s.appRepo.Stats(time.Date(y, m, d, 0, 0, 0, 0, now.Location()))
}

func (s *applicationService) publish(eventType string, app *model.Application) {
	if s.events == nil {
		return
	}
	s.events.Publish(eventType, map[string]interface{}{
		"id":              app.ID,
		"referenceNumber": app.ReferenceNumber,
		"fullName":        app.FullName,
		"email":           app.Email,
		"status":          app.Status,
		"agentId":         app.AgentID,
	})
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
