package archive

import (
	"context"
	"errors"
	"testing"
	"time"

	"ads-activity-tracker/internal/model"
	"ads-activity-tracker/internal/testdata/mockclickhousebatch"
	"ads-activity-tracker/internal/testdata/mockclickhouseconnection"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ActivityArchiveTestSuite struct {
	suite.Suite

	archive   *activityArchive
	connMock  *mockclickhouseconnection.Connection
	batchMock *mockclickhousebatch.Batch
}

func TestActivityArchive(t *testing.T) {
	suite.Run(t, new(ActivityArchiveTestSuite))
}

func (s *ActivityArchiveTestSuite) SetupTest() {
	s.connMock = &mockclickhouseconnection.Connection{}
	s.batchMock = &mockclickhousebatch.Batch{}
	s.archive = &activityArchive{conn: s.connMock}
}

func (s *ActivityArchiveTestSuite) TearDownTest() {
	s.connMock.AssertExpectations(s.T())
	s.batchMock.AssertExpectations(s.T())
}

func sampleRow() model.ReportRow {
	return model.ReportRow{
		Time:       time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Event:      "Budget changed",
		Campaign:   "Spring Sale",
		AdSet:      "Set A",
		ObjectType: "AD GROUP",
		ObjectName: "Set A",
		Actor:      "Whitelisted User 1",
		Details:    "new_value: 200, old_value: 100",
	}
}

func (s *ActivityArchiveTestSuite) TestSaveRows_EmptySlice_NoOp() {
	ctx := context.Background()

	s.NoError(s.archive.SaveRows(ctx, "Account 1", nil))
	s.NoError(s.archive.SaveRows(ctx, "Account 1", []model.ReportRow{}))

	s.connMock.AssertNotCalled(s.T(), "PrepareBatch", mock.Anything, insertActivityQuery)
}

func (s *ActivityArchiveTestSuite) TestSaveRows_PrepareBatchError() {
	ctx := context.Background()
	expectedErr := errors.New("prepare batch error")

	s.connMock.On("PrepareBatch", mock.Anything, insertActivityQuery).
		Return(nil, expectedErr).Once()

	err := s.archive.SaveRows(ctx, "Account 1", []model.ReportRow{sampleRow()})

	s.ErrorIs(err, expectedErr)
	s.ErrorContains(err, "prepare batch")
	s.batchMock.AssertNotCalled(s.T(), "Append", mock.Anything)
	s.batchMock.AssertNotCalled(s.T(), "Send")
}

func (s *ActivityArchiveTestSuite) TestSaveRows_AppendError() {
	ctx := context.Background()
	row := sampleRow()
	expectedErr := errors.New("append error")

	s.connMock.On("PrepareBatch", mock.Anything, insertActivityQuery).
		Return(s.batchMock, nil).Once()
	s.batchMock.On("Append",
		"Account 1", row.Time, row.Event, row.Campaign, row.AdSet,
		row.ObjectType, row.ObjectName, row.Actor, row.Details,
	).Return(expectedErr).Once()

	err := s.archive.SaveRows(ctx, "Account 1", []model.ReportRow{row})

	s.ErrorIs(err, expectedErr)
	s.ErrorContains(err, "append batch")
	s.batchMock.AssertNotCalled(s.T(), "Send")
}

func (s *ActivityArchiveTestSuite) TestSaveRows_Success() {
	ctx := context.Background()
	row := sampleRow()

	s.connMock.On("PrepareBatch", mock.Anything, insertActivityQuery).
		Return(s.batchMock, nil).Once()
	s.batchMock.On("Append",
		"Account 1", row.Time, row.Event, row.Campaign, row.AdSet,
		row.ObjectType, row.ObjectName, row.Actor, row.Details,
	).Return(nil).Once()
	s.batchMock.On("Send").Return(nil).Once()

	s.NoError(s.archive.SaveRows(ctx, "Account 1", []model.ReportRow{row}))
}

func (s *ActivityArchiveTestSuite) TestNop() {
	s.NoError(Nop{}.SaveRows(context.Background(), "Account 1", []model.ReportRow{sampleRow()}))
}
