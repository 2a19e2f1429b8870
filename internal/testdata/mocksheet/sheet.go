package mocksheet

import (
	"context"

	"ads-activity-tracker/internal/sheet"

	"github.com/stretchr/testify/mock"
)

type Store struct {
	mock.Mock
}

var _ sheet.Store = &Store{}

func (m *Store) Append(ctx context.Context, tab string, rows [][]interface{}) error {
	return m.Called(ctx, tab, rows).Error(0)
}

func (m *Store) Read(ctx context.Context, tab string) ([][]interface{}, error) {
	args := m.Called(ctx, tab)
	var out [][]interface{}
	if v := args.Get(0); v != nil {
		out = v.([][]interface{})
	}
	return out, args.Error(1)
}

func (m *Store) UpdateCell(ctx context.Context, tab string, row, col int, value interface{}) error {
	return m.Called(ctx, tab, row, col, value).Error(0)
}

func (m *Store) Clear(ctx context.Context, tab string) error {
	return m.Called(ctx, tab).Error(0)
}
