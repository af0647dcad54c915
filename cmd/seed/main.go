package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ikkim/franchise-portal/config"
	"github.com/ikkim/franchise-portal/internal/app/repository"
	"github.com/ikkim/franchise-portal/internal/app/service"
	"github.com/ikkim/franchise-portal/internal/db"
	"github.com/xuri/excelize/v2"
)

// Imports field agents from a workbook whose first sheet has the columns
// Name, Email, Phone, Region, Password (header row first).
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	agentService := service.NewAgentService(
		repository.NewAgentRepository(db.GetDB()),
		repository.NewAccountRepository(db.GetDB()),
	)

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	agents, skipped, err := readAgentsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Agents to import: %d (skipped %d incomplete rows)\n", len(agents), skipped)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	created, existing, failed := 0, 0, 0
	for _, input := range agents {
		_, err := agentService.Create(input)
		switch {
		case err == nil:
			created++
		case errors.Is(err, service.ErrAgentExists):
			existing++
		default:
			failed++
			fmt.Printf("Failed to import %s: %v\n", input.Email, err)
		}
	}

	fmt.Println("Import completed!")
	fmt.Printf("Created: %d, already present: %d, failed: %d\n", created, existing, failed)
}

func readAgentsFromXLSX(filePath string) ([]service.CreateAgentInput, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	return parseAgentRows(rows[1:])
}

// parseAgentRows drops rows without a name, email or password and repeated
// emails.
func parseAgentRows(rows [][]string) ([]service.CreateAgentInput, int, error) {
	var agents []service.CreateAgentInput
	seen := make(map[string]bool)
	skipped := 0

	for _, row := range rows {
		cell := func(i int) string {
			if i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}

		input := service.CreateAgentInput{
			Name:     cell(0),
			Email:    strings.ToLower(cell(1)),
			Phone:    cell(2),
			Region:   cell(3),
			Password: cell(4),
		}
		if input.Name == "" || input.Email == "" || input.Password == "" || seen[input.Email] {
			skipped++
			continue
		}
		seen[input.Email] = true
		agents = append(agents, input)
	}

	return agents, skipped, nil
}
