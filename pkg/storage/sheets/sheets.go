// Package sheets implements the RowStore on a Google Sheets worksheet.
// Column A is the date key; row 1 is the header.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	shared "github.com/fitglue/garmin-daily/pkg"
)

// Sheets creates worksheets with room to spare so appends never hit the
// grid boundary.
const (
	newSheetRows    = 2000
	minSheetColumns = 50
)

type Store struct {
	svc           *sheets.Service
	spreadsheetID string
	worksheet     string
	fieldCount    int
	sheetID       int64
	logger        *slog.Logger
}

// New builds a Store from service-account credentials. fieldCount fixes the
// width of every row read and write.
func New(ctx context.Context, credentialsJSON []byte, spreadsheetID, worksheet string, fieldCount int, logger *slog.Logger) (*Store, error) {
	jwt, err := google.JWTConfigFromJSON(credentialsJSON, shared.SpreadsheetScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Store{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		worksheet:     worksheet,
		fieldCount:    fieldCount,
		sheetID:       -1,
		logger:        logger,
	}, nil
}

// EnsureHeader creates the worksheet when missing and rewrites row 1
// whenever it differs from titles, resizing the grid to exactly the title
// count so stale columns do not linger past the schema.
func (s *Store) EnsureHeader(ctx context.Context, titles []string) error {
	if err := s.ensureWorksheet(ctx, len(titles)); err != nil {
		return err
	}

	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.rangeRef("1:1")).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header row: %w", err)
	}

	var existing []string
	if len(resp.Values) > 0 {
		for _, cell := range resp.Values[0] {
			existing = append(existing, fmt.Sprint(cell))
		}
	}
	if equalHeader(existing, titles) {
		return nil
	}

	s.logger.Info("rewriting header row",
		"worksheet", s.worksheet, "have", len(existing), "want", len(titles))

	if err := s.resizeColumns(ctx, len(titles)); err != nil {
		return err
	}

	row := make([]any, len(titles))
	for i, t := range titles {
		row[i] = t
	}
	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, s.rangeRef("1:1"), &sheets.ValueRange{
		Values: [][]any{row},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	return nil
}

func (s *Store) KeyColumn(ctx context.Context) ([]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.rangeRef("A:A")).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read key column: %w", err)
	}

	keys := make([]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		if len(row) == 0 {
			keys = append(keys, "")
			continue
		}
		keys = append(keys, fmt.Sprint(row[0]))
	}
	return keys, nil
}

func (s *Store) ReadRow(ctx context.Context, row int) ([]any, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.rowRange(row)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read row %d: %w", row, err)
	}

	values := make([]any, s.fieldCount)
	for i := range values {
		values[i] = ""
	}
	if len(resp.Values) > 0 {
		for i, cell := range resp.Values[0] {
			if i < len(values) {
				values[i] = cell
			}
		}
	}
	return values, nil
}

func (s *Store) UpdateRow(ctx context.Context, row int, values []any) error {
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, s.rowRange(row), &sheets.ValueRange{
		Values: [][]any{values},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update row %d: %w", row, err)
	}
	return nil
}

// AppendRow appends after the last data row and reports the landed row,
// parsed from the response's updatedRange (e.g. "Daily!A42:AY42" -> 42).
// When the range is missing or unparseable it falls back to counting the
// key column.
func (s *Store) AppendRow(ctx context.Context, values []any) (int, error) {
	resp, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, s.rangeRef("A1"), &sheets.ValueRange{
		Values: [][]any{values},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("append row: %w", err)
	}

	if resp.Updates != nil {
		if row := rowFromRange(resp.Updates.UpdatedRange); row > 0 {
			return row, nil
		}
	}

	keys, err := s.KeyColumn(ctx)
	if err != nil {
		return 0, fmt.Errorf("locate appended row: %w", err)
	}
	return len(keys), nil
}

// ensureWorksheet looks the worksheet up by title, creating it when absent,
// and caches its numeric sheet ID for grid updates.
func (s *Store) ensureWorksheet(ctx context.Context, columns int) error {
	if s.sheetID >= 0 {
		return nil
	}

	doc, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sh := range doc.Sheets {
		if sh.Properties != nil && sh.Properties.Title == s.worksheet {
			s.sheetID = sh.Properties.SheetId
			return nil
		}
	}

	if columns < minSheetColumns {
		columns = minSheetColumns
	}
	s.logger.Info("creating worksheet", "worksheet", s.worksheet, "columns", columns)

	resp, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: s.worksheet,
					GridProperties: &sheets.GridProperties{
						RowCount:    newSheetRows,
						ColumnCount: int64(columns),
					},
				},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("create worksheet %q: %w", s.worksheet, err)
	}
	if len(resp.Replies) > 0 && resp.Replies[0].AddSheet != nil && resp.Replies[0].AddSheet.Properties != nil {
		s.sheetID = resp.Replies[0].AddSheet.Properties.SheetId
	}
	return nil
}

func (s *Store) resizeColumns(ctx context.Context, columns int) error {
	_, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: s.sheetID,
					GridProperties: &sheets.GridProperties{
						ColumnCount: int64(columns),
					},
				},
				Fields: "gridProperties.columnCount",
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("resize to %d columns: %w", columns, err)
	}
	return nil
}

func (s *Store) rangeRef(cells string) string {
	return fmt.Sprintf("'%s'!%s", s.worksheet, cells)
}

func (s *Store) rowRange(row int) string {
	return s.rangeRef(fmt.Sprintf("A%d:%s%d", row, columnLetter(s.fieldCount), row))
}

func equalHeader(existing, titles []string) bool {
	if len(existing) != len(titles) {
		return false
	}
	for i := range titles {
		if existing[i] != titles[i] {
			return false
		}
	}
	return true
}

// columnLetter converts a 1-based column number to its A1 letter
// (1 -> "A", 27 -> "AA").
func columnLetter(n int) string {
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

// rowFromRange extracts the row number from an A1 range like
// "Daily!A42:AY42". Returns 0 when the range does not parse.
func rowFromRange(updatedRange string) int {
	parts := strings.Split(updatedRange, "!")
	if len(parts) != 2 {
		return 0
	}
	cell := parts[1]
	if idx := strings.Index(cell, ":"); idx > 0 {
		cell = cell[:idx]
	}
	digits := strings.TrimLeft(cell, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	row, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return row
}
