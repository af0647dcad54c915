package repository

import (
	"strings"
	"time"

	"github.com/ikkim/franchise-portal/internal/app/model"
	"github.com/ikkim/franchise-portal/pkg/logger"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ApplicationRepository interface {
	Create(app *model.Application) error
	FindByID(id uint) (*model.Application, error)
	FindByEmail(email string) (*model.Application, error)
	ReferenceExists(ref string) (bool, error)
	List(filter model.ApplicationFilter) ([]model.Application, int64, error)
	ListAll(filter model.ApplicationFilter) ([]model.Application, error)
	UpdateStatus(id uint, from []model.ApplicationStatus, updates map[string]interface{}) (*model.Application, error)
	Delete(id uint) error
	Stats(since time.Time) (*model.ApplicationStats, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(app *model.Application) error {
	logger.Debug("Creating application in database", map[string]interface{}{
		"email":            app.Email,
		"reference_number": app.ReferenceNumber,
	})

	if err := r.db.Create(app).Error; err != nil {
		logger.Error("Failed to create application in database", err, map[string]interface{}{
			"email": app.Email,
		})
		return err
	}

	logger.Debug("Application created in database", map[string]interface{}{
		"application_id": app.ID,
	})
	return nil
}

func (r *applicationRepository) FindByID(id uint) (*model.Application, error) {
	var app model.Application
	if err := r.db.Preload("Agent").First(&app, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find application by ID", err, map[string]interface{}{
				"application_id": id,
			})
		}
		return nil, err
	}
	return &app, nil
}

// FindByEmail matches case-insensitively; emails are stored lowercased.
func (r *applicationRepository) FindByEmail(email string) (*model.Application, error) {
	var app model.Application
	err := r.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&app).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find application by email", err, map[string]interface{}{
				"email": email,
			})
		}
		return nil, err
	}
	return &app, nil
}

// ReferenceExists also sees deleted applications; reference numbers are
// never reused.
func (r *applicationRepository) ReferenceExists(ref string) (bool, error) {
	var count int64
	err := r.db.Unscoped().Model(&model.Application{}).Where("reference_number = ?", ref).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *applicationRepository) filtered(filter model.ApplicationFilter) *gorm.DB {
	query := r.db.Model(&model.Application{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AgentID != nil {
		query = query.Where("agent_id = ?", *filter.AgentID)
	}
	if s := strings.ToLower(strings.TrimSpace(filter.Search)); s != "" {
		like := "%" + s + "%"
		query = query.Where(
			"LOWER(full_name) LIKE ? OR LOWER(email) LIKE ? OR mobile_number LIKE ? OR LOWER(reference_number) LIKE ?",
			like, like, like, like,
		)
	}
	return query
}

func (r *applicationRepository) List(filter model.ApplicationFilter) ([]model.Application, int64, error) {
	logger.Debug("Listing applications", map[string]interface{}{
		"status": filter.Status,
		"page":   filter.Page,
		"limit":  filter.Limit,
	})

	var total int64
	if err := r.filtered(filter).Count(&total).Error; err != nil {
		logger.Error("Failed to count applications", err)
		return nil, 0, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit)

	var apps []model.Application
	err := r.filtered(filter).
		Preload("Agent").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&apps).Error
	if err != nil {
		logger.Error("Failed to list applications", err)
		return nil, 0, err
	}
	return apps, total, nil
}

// ListAll returns every matching application, oldest first. Used by exports.
func (r *applicationRepository) ListAll(filter model.ApplicationFilter) ([]model.Application, error) {
	var apps []model.Application
	if err := r.filtered(filter).Preload("Agent").Order("created_at ASC").Find(&apps).Error; err != nil {
		logger.Error("Failed to list applications for export", err)
		return nil, err
	}
	return apps, nil
}

// UpdateStatus applies updates only while the application is in one of the
// from statuses. It returns gorm.ErrRecordNotFound when the application does
// not exist and ErrStatusConflict when it is in another status.
func (r *applicationRepository) UpdateStatus(id uint, from []model.ApplicationStatus, updates map[string]interface{}) (*model.Application, error) {
	var app model.Application
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&app, id).Error; err != nil {
			return err
		}
		res := tx.Model(&model.Application{}).
			Where("id = ? AND status IN ?", id, from).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStatusConflict
		}
		return tx.First(&app, id).Error
	})
	if err != nil {
		if err != gorm.ErrRecordNotFound && err != ErrStatusConflict {
			logger.Error("Failed to update application status", err, map[string]interface{}{
				"application_id": id,
			})
		}
		return nil, err
	}

	logger.Debug("Application status updated", map[string]interface{}{
		"application_id": id,
		"status":         app.Status,
	})
	return &app, nil
}

func (r *applicationRepository) Delete(id uint) error {
	res := r.db.Delete(&model.Application{}, id)
	if res.Error != nil {
		logger.Error("Failed to delete application", res.Error, map[string]interface{}{
			"application_id": id,
		})
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *applicationRepository) Stats(since time.Time) (*model.ApplicationStats, error) {
	stats := &model.ApplicationStats{ByStatus: map[model.ApplicationStatus]int64{}}

	var rows []struct {
		Status model.ApplicationStatus
		Count  int64
	}
	if err := r.db.Model(&model.Application{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		logger.Error("Failed to aggregate application stats", err)
		return nil, err
	}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
	}

	if err := r.db.Model(&model.Application{}).Where("created_at >= ?", since).Count(&stats.Today).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Agent{}).Where("active = ?", true).Count(&stats.Agents).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Proposal{}).Where("status = ?", model.ProposalOpen).Count(&stats.Open).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
