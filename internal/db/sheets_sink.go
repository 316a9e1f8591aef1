package db

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/sheets/v4"
)

const (
	valueInputRaw  = "RAW"
	insertDataRows = "INSERT_ROWS"
)

type SheetsSink struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
	dataRange     string
	headerRange   string
}

func NewSheetsSink(values *sheets.SpreadsheetsValuesService, spreadsheetID, dataRange, headerRange string) *SheetsSink {
	return &SheetsSink{
		values:        values,
		spreadsheetID: spreadsheetID,
		dataRange:     dataRange,
		headerRange:   headerRange,
	}
}

func (s *SheetsSink) ReadRows(ctx context.Context) ([][]string, error) {
	resp, err := s.values.Get(s.spreadsheetID, s.dataRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("[SheetsSink] failed to read %s: %w", s.dataRange, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}

	slog.Debug("[SheetsSink] Read rows", slog.Int("count", len(rows)))
	return rows, nil
}

func (s *SheetsSink) WriteHeader(ctx context.Context, header []string) error {
	body := &sheets.ValueRange{Values: toCells([][]string{header})}
	_, err := s.values.Update(s.spreadsheetID, s.headerRange, body).
		ValueInputOption(valueInputRaw).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("[SheetsSink] failed to write header to %s: %w", s.headerRange, err)
	}
	return nil
}

func (s *SheetsSink) AppendRows(ctx context.Context, rows [][]string) error {
	body := &sheets.ValueRange{Values: toCells(rows)}
	resp, err := s.values.Append(s.spreadsheetID, s.dataRange, body).
		ValueInputOption(valueInputRaw).
		InsertDataOption(insertDataRows).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("[SheetsSink] failed to append to %s: %w", s.dataRange, err)
	}

	if resp.Updates != nil {
		slog.Debug("[SheetsSink] Appended",
			slog.String("range", resp.Updates.UpdatedRange),
			slog.Int64("rows", resp.Updates.UpdatedRows))
	}
	return nil
}

func toCells(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		out[i] = cells
	}
	return out
}
