package tenant

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	MessageLevelDanger  = "danger"
	MessageLevelWarning = "warning"
)

type ImportMessage struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

type ImportReport struct {
	Imported    int             `json:"imported"`
	SkippedRows int             `json:"skipped_rows"`
	Messages    []ImportMessage `json:"messages"`
}

// tenantColumns is the canonical header set, in export order. Matching is
// case-insensitive.
var tenantColumns = []string{
	"Name",
	"Email",
	"Phone",
	"Postcode",
	"HasPet",
	"InEET",
	"PassedCreditCheck",
	"OnBenefits",
	"Over35",
	"HasGuarantor",
}

// CheckImportHeader compares the CSV header row against the tenant columns
// and reports what a subsequent import would do with it. It is advisory
// only: one danger message per missing column, one warning per column whose
// data would be discarded.
func (s *Service) CheckImportHeader(r io.Reader) ([]ImportMessage, error) {
	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	present := make(map[string]struct{}, len(header))
	var messages []ImportMessage

	known := make(map[string]struct{}, len(tenantColumns))
	for _, col := range tenantColumns {
		known[strings.ToLower(col)] = struct{}{}
	}

	for _, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		if _, ok := known[name]; ok {
			present[name] = struct{}{}
			continue
		}
		messages = append(messages, ImportMessage{
			Level: MessageLevelWarning,
			Text:  fmt.Sprintf("column %q is not recognised and its data will be ignored", strings.TrimSpace(raw)),
		})
	}

	for _, col := range tenantColumns {
		if _, ok := present[strings.ToLower(col)]; !ok {
			messages = append(messages, ImportMessage{
				Level: MessageLevelDanger,
				Text:  fmt.Sprintf("required column %q is missing from the file", col),
			})
		}
	}

	return messages, nil
}

// Import replaces the whole tenant table with the file's rows inside a
// serializable transaction. The column mapping comes from the uploaded
// file's own header, not from any earlier check. A row without a name is
// skipped; an unparseable boolean cell leaves that field null and keeps the
// row. Distinct postcodes are geocoded after the transaction commits.
func (s *Service) Import(ctx context.Context, r io.Reader) (*ImportReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, raw := range header {
		columns[strings.ToLower(strings.TrimSpace(raw))] = i
	}

	report := &ImportReport{}
	var tenants []Tenant
	var postcodes []string

	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", line, err)
		}

		name := strings.TrimSpace(cell(row, columns, "name"))
		if name == "" {
			report.SkippedRows++
			report.Messages = append(report.Messages, ImportMessage{
				Level: MessageLevelWarning,
				Text:  fmt.Sprintf("row %d has no name and was skipped", line),
			})
			s.log.Warn("tenant import: skipped nameless row", "line", line)
			continue
		}

		record := Tenant{
			ID:    uuid.NewString(),
			Name:  name,
			Email: strings.TrimSpace(cell(row, columns, "email")),
			Phone: strings.TrimSpace(cell(row, columns, "phone")),
		}

		if raw := strings.TrimSpace(cell(row, columns, "postcode")); raw != "" {
			formatted := s.postcodes.Format(raw)
			if formatted != "" {
				record.Postcode = &formatted
				postcodes = append(postcodes, formatted)
			} else {
				report.Messages = append(report.Messages, ImportMessage{
					Level: MessageLevelWarning,
					Text:  fmt.Sprintf("row %d: postcode %q is not a valid UK postcode", line, raw),
				})
			}
		}

		for _, field := range []struct {
			column string
			dst    **bool
		}{
			{"haspet", &record.HasPet},
			{"ineet", &record.InEET},
			{"passedcreditcheck", &record.PassedCreditCheck},
			{"onbenefits", &record.OnBenefits},
			{"over35", &record.Over35},
			{"hasguarantor", &record.HasGuarantor},
		} {
			raw := strings.TrimSpace(cell(row, columns, field.column))
			if raw == "" {
				continue
			}
			value, ok := parseFlag(raw)
			if !ok {
				s.log.Warn("tenant import: unparseable boolean left null", "line", line, "column", field.column, "value", raw)
				continue
			}
			*field.dst = &value
		}

		tenants = append(tenants, record)
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.DeleteAll(ctx); err != nil {
			return err
		}
		if len(tenants) == 0 {
			return nil
		}
		return tx.CreateBatch(ctx, tenants)
	})
	if err != nil {
		return nil, err
	}
	report.Imported = len(tenants)

	// Geocoding happens outside the transaction: a provider failure must
	// not undo a committed import.
	if err := s.postcodes.EnsureCachedBulk(ctx, postcodes); err != nil {
		s.log.Warn("tenant import: postcode caching failed", "err", err)
	}

	return report, nil
}

func readHeader(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	return header, nil
}

func cell(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseFlag(raw string) (bool, bool) {
	switch strings.ToLower(raw) {
	case "yes", "y":
		return true, true
	case "no", "n":
		return false, true
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return value, true
}
