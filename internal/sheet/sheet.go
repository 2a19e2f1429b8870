package sheet

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Store defines the spreadsheet operations used by the sync pipeline and the
// one-shot jobs.
type Store interface {
	// Append adds rows after the current last row of tab, creating the tab
	// when absent.
	Append(ctx context.Context, tab string, rows [][]interface{}) error

	// Read returns every populated row of tab.
	Read(ctx context.Context, tab string) ([][]interface{}, error)

	// UpdateCell overwrites a single cell. Row and column are 1-based.
	UpdateCell(ctx context.Context, tab string, row, col int, value interface{}) error

	// Clear removes all values from tab, keeping the tab itself.
	Clear(ctx context.Context, tab string) error
}

type store struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewStore builds a Store against one spreadsheet using the provided
// authenticated HTTP client.
func NewStore(ctx context.Context, httpClient *http.Client, spreadsheetID string) (Store, error) {
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &store{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (s *store) Append(ctx context.Context, tab string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}

	if err := s.ensureTab(ctx, tab); err != nil {
		return err
	}

	vr := &sheets.ValueRange{Values: rows}
	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, quoteTab(tab), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append to sheet %q: %w", tab, err)
	}
	return nil
}

func (s *store) Read(ctx context.Context, tab string) ([][]interface{}, error) {
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, quoteTab(tab)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", tab, err)
	}
	return resp.Values, nil
}

func (s *store) UpdateCell(ctx context.Context, tab string, row, col int, value interface{}) error {
	rng := fmt.Sprintf("%s!%s%d", quoteTab(tab), columnLetter(col), row)
	vr := &sheets.ValueRange{Values: [][]interface{}{{value}}}
	_, err := s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update cell %s: %w", rng, err)
	}
	return nil
}

func (s *store) Clear(ctx context.Context, tab string) error {
	_, err := s.svc.Spreadsheets.Values.
		Clear(s.spreadsheetID, quoteTab(tab), &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("clear sheet %q: %w", tab, err)
	}
	return nil
}

// ensureTab creates the tab when the spreadsheet does not have it yet.
func (s *store) ensureTab(ctx context.Context, tab string) error {
	ss, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == tab {
			return nil
		}
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: tab},
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("create sheet %q: %w", tab, err)
	}
	return nil
}

// quoteTab wraps tab names in single quotes so labels with spaces form valid
// A1 ranges.
func quoteTab(tab string) string {
	return "'" + tab + "'"
}

// columnLetter converts a 1-based column index to its A1 letter form.
func columnLetter(col int) string {
	letters := ""
	for col > 0 {
		col--
		letters = string(rune('A'+col%26)) + letters
		col /= 26
	}
	return letters
}
