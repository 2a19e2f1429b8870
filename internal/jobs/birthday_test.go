package jobs

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"ads-activity-tracker/internal/testdata/mockmailer"
	"ads-activity-tracker/internal/testdata/mocksheet"
)

type BirthdayJobTestSuite struct {
	suite.Suite
	sheets *mocksheet.Store
	mail   *mockmailer.Sender
	job    *BirthdayJob
}

func TestBirthdayJobSuite(t *testing.T) {
	suite.Run(t, new(BirthdayJobTestSuite))
}

func (s *BirthdayJobTestSuite) SetupTest() {
	s.sheets = &mocksheet.Store{}
	s.mail = &mockmailer.Sender{}

	log := logrus.New()
	log.SetOutput(io.Discard)

	s.job = NewBirthdayJob(s.sheets, s.mail, log, "Birthdays")
	s.job.now = func() time.Time {
		return time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)
	}
}

func birthdaySheet() [][]interface{} {
	return [][]interface{}{
		{"First Name", "Email", "Birthday", "Status"},
		{"Alice", "alice@example.com", "1990-03-15", ""},
		{"Bob", "bob@example.com", "03/15/1991", "Sent"},
		{"Carol", "carol@example.com", "1988-07-01", ""},
		{"Dan", "dan@example.com", "1992-03-15", "Invalid Email"},
	}
}

func (s *BirthdayJobTestSuite) TestSendsOnlyToMatchingUnsent() {
	s.sheets.On("Read", mock.Anything, "Birthdays").Return(birthdaySheet(), nil)
	s.mail.On("Send", []string{"alice@example.com"}, "Happy Birthday, Alice!", mock.Anything).Return(nil)
	s.sheets.On("UpdateCell", mock.Anything, "Birthdays", 2, 4, "Sent").Return(nil)

	s.Require().NoError(s.job.Run(context.Background()))

	s.mail.AssertNumberOfCalls(s.T(), "Send", 1)
	s.sheets.AssertExpectations(s.T())
}

func (s *BirthdayJobTestSuite) TestSendFailureRecordedInStatus() {
	s.sheets.On("Read", mock.Anything, "Birthdays").Return(birthdaySheet(), nil)
	s.mail.On("Send", []string{"alice@example.com"}, mock.Anything, mock.Anything).
		Return(errors.New("smtp unavailable"))
	s.sheets.On("UpdateCell", mock.Anything, "Birthdays", 2, 4, "Failed: smtp unavailable").Return(nil)

	s.Require().NoError(s.job.Run(context.Background()))
	s.sheets.AssertExpectations(s.T())
}

func (s *BirthdayJobTestSuite) TestNewYearResetsStatuses() {
	s.job.now = func() time.Time {
		return time.Date(2026, time.January, 1, 8, 0, 0, 0, time.UTC)
	}

	s.sheets.On("Read", mock.Anything, "Birthdays").Return(birthdaySheet(), nil)
	for row := 2; row <= 5; row++ {
		s.sheets.On("UpdateCell", mock.Anything, "Birthdays", row, 4, "").Return(nil)
	}

	s.Require().NoError(s.job.Run(context.Background()))
	s.sheets.AssertExpectations(s.T())
}

func (s *BirthdayJobTestSuite) TestMissingColumnFails() {
	s.sheets.On("Read", mock.Anything, "Birthdays").Return([][]interface{}{
		{"First Name", "Email", "Status"},
		{"Alice", "alice@example.com", ""},
	}, nil)

	err := s.job.Run(context.Background())
	s.Require().Error(err)
	s.Contains(err.Error(), "Birthday")
}
