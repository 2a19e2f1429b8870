package mockmailer

import (
	"ads-activity-tracker/internal/mailer"

	"github.com/stretchr/testify/mock"
)

type Sender struct {
	mock.Mock
}

var _ mailer.Sender = &Sender{}

func (m *Sender) Send(to []string, subject, htmlBody string) error {
	return m.Called(to, subject, htmlBody).Error(0)
}
