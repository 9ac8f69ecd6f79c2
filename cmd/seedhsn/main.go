// Command seedhsn loads the HSN/SAC rate master from an Excel workbook into
// the hsn_codes table, replacing its previous contents.
//
// The sheet must have a header row followed by rows of
// code | description | GST rate. Rates may be plain numbers ("18"),
// percentages ("18%"), "Exempt", or free text naming several rates
// ("12%-18%"), in which case one entry per rate is loaded.
//
// Usage: seedhsn <file.xlsx> [sheet]
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"senstosales/internal/config"
	"senstosales/internal/domain"
	"senstosales/internal/repository/sqlstore"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: seedhsn <file.xlsx> [sheet]")
	}
	sheet := ""
	if len(os.Args) > 2 {
		sheet = os.Args[2]
	}

	f, err := excelize.OpenFile(os.Args[1])
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries, err := parseSheet(f, sheet)
	if err != nil {
		return fmt.Errorf("parse sheet: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("no HSN entries found")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	db, err := sqlstore.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := sqlstore.MigrateUp(db); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	if err := sqlstore.NewHSNRepo(db).ReplaceAll(context.Background(), entries); err != nil {
		return err
	}

	log.Printf("loaded %d HSN entries", len(entries))
	return nil
}

// parseSheet reads code, description and rate from columns A to C, skipping
// the header row. An empty sheet name selects the first sheet.
func parseSheet(f *excelize.File, sheet string) ([]domain.HSNCode, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	var entries []domain.HSNCode
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		code := strings.TrimSpace(cellVal(row, 0))
		if !isNumeric(code) {
			continue
		}
		description := strings.TrimSpace(cellVal(row, 1))
		for _, rate := range parseRate(cellVal(row, 2)) {
			entries = append(entries, domain.HSNCode{Code: code, Description: description, GSTRate: rate})
		}
	}
	return entries, nil
}

// ratePattern matches a number, optionally followed by "%".
var ratePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%?`)

// parseRate extracts GST rate(s) from a rate cell.
//
//	"18"                                    → [18]
//	"18%"                                   → [18]
//	"Exempt"                                → [0]
//	"12%-18%"                               → [12, 18]
//	"1% (without ITC) or 5% (without ITC)"  → [1, 5]
func parseRate(s string) []decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	lower := strings.ToLower(s)
	if lower == "exempt" || lower == "nil" {
		return []decimal.Decimal{decimal.Zero}
	}

	var rates []decimal.Decimal
	seen := make(map[string]bool)
	for _, m := range ratePattern.FindAllStringSubmatch(s, -1) {
		rate, err := decimal.NewFromString(m[1])
		if err != nil || seen[rate.String()] {
			continue
		}
		// Spreadsheets often store 18% as 0.18.
		if rate.LessThan(decimal.NewFromInt(1)) && !rate.IsZero() && !strings.Contains(s, "%") {
			rate = rate.Mul(decimal.NewFromInt(100))
		}
		seen[rate.String()] = true
		rates = append(rates, rate)
	}
	return rates
}

func cellVal(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
