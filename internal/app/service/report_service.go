package service

import (
	"bytes"
	"fmt"

	"github.com/ikkim/franchise-portal/internal/app/model"
	"github.com/ikkim/franchise-portal/internal/app/repository"
	"github.com/ikkim/franchise-portal/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const (
	applicationsSheet = "Applications"
	summarySheet      = "Summary"
)

var reportHeaders = []string{
	"Reference", "Full name", "Email", "Mobile", "Franchise type",
	"Franchise city", "Franchise state", "Franchise PIN", "Investment capacity",
	"Status", "Agent", "Remarks", "Payment reference", "Submitted at",
}

type ReportService interface {
	// ApplicationsWorkbook renders matching applications as an XLSX file.
	ApplicationsWorkbook(filter model.ApplicationFilter) ([]byte, error)
}

type reportService struct {
	appRepo repository.ApplicationRepository
}

func NewReportService(appRepo repository.ApplicationRepository) ReportService {
	return &reportService{appRepo: appRepo}
}

func (s *reportService) ApplicationsWorkbook(filter model.ApplicationFilter) ([]byte, error) {
	apps, err := s.appRepo.ListAll(filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), applicationsSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F3864"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, h := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(applicationsSheet, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(reportHeaders))
	if err := f.SetCellStyle(applicationsSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}
	if err := f.SetColWidth(applicationsSheet, "A", lastCol, 18); err != nil {
		return nil, fmt.Errorf("set col width: %w", err)
	}

	counts := make(map[model.ApplicationStatus]int)
	for i, app := range apps {
		counts[app.Status]++
		agent := ""
		if app.Agent != nil {
			agent = app.Agent.Name
		}
		row := []interface{}{
			app.ReferenceNumber, app.FullName, app.Email, app.MobileNumber, app.FranchiseType,
			app.FranchiseCity, app.FranchiseState, app.FranchisePinCode, app.InvestmentCapacity,
			string(app.Status), agent, app.Remarks, app.PaymentReference,
			app.CreatedAt.Format("2006-01-02 15:04"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(applicationsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}
	summary := [][]interface{}{{"Status", "Count"}}
	for _, status := range []model.ApplicationStatus{
		model.StatusPending, model.StatusApproved, model.StatusRejected,
		model.StatusAgreement, model.StatusOneTimeFee,
	} {
		summary = append(summary, []interface{}{string(status), counts[status]})
	}
	summary = append(summary, []interface{}{"total", len(apps)})
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write summary: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	logger.Info("Application report generated", map[string]interface{}{
		"rows":   len(apps),
		"status": filter.Status,
	})
	return buf.Bytes(), nil
}
