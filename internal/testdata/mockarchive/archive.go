package mockarchive

import (
	"context"

	"ads-activity-tracker/internal/archive"
	"ads-activity-tracker/internal/model"

	"github.com/stretchr/testify/mock"
)

type Archive struct {
	mock.Mock
}

var _ archive.Archive = &Archive{}

func (m *Archive) SaveRows(ctx context.Context, account string, rows []model.ReportRow) error {
	return m.Called(ctx, account, rows).Error(0)
}
