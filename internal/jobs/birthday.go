package jobs

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/sirupsen/logrus"

	"ads-activity-tracker/internal/mailer"
	"ads-activity-tracker/internal/sheet"
)

// Birthday sheet statuses. "Invalid Email" is written by the bounce job and
// excludes the address from further sends.
const (
	statusSent         = "Sent"
	statusInvalidEmail = "Invalid Email"
)

var birthdayTemplate = template.Must(template.New("birthday").Parse(`<html>
  <body style="font-family: Arial, sans-serif; color: #333;">
    <div style="max-width: 600px; margin: auto; padding: 20px; border: 1px solid #e0e0e0; border-radius: 10px;">
      <h2 style="color: #2e6f95;">Happy Birthday, {{ .Name }}!</h2>
      <p>Dear {{ .Name }},</p>
      <p>On behalf of everyone at <strong>{{ .Team }}</strong>, we'd like to wish you a very Happy Birthday!</p>
      <p>We hope your day is filled with joy, laughter, and memorable moments.</p>
      <p>Here's to another year of success, happiness, and great opportunities.</p>
      <br>
      <p>Warm regards,</p>
      <p><strong>{{ .Team }} Team</strong></p>
    </div>
  </body>
</html>`))

// BirthdayJob sends one templated greeting per matching birthday and records
// the outcome in the Status column.
type BirthdayJob struct {
	sheets sheet.Store
	mail   mailer.Sender
	log    *logrus.Logger
	tab    string
	team   string
	now    func() time.Time
}

func NewBirthdayJob(sheets sheet.Store, mail mailer.Sender, log *logrus.Logger, tab string) *BirthdayJob {
	return &BirthdayJob{
		sheets: sheets,
		mail:   mail,
		log:    log,
		tab:    tab,
		team:   "JTech",
		now:    time.Now,
	}
}

func (j *BirthdayJob) Run(ctx context.Context) error {
	data, err := j.sheets.Read(ctx, j.tab)
	if err != nil {
		return err
	}
	if len(data) < 2 {
		return nil
	}

	cols := headerIndex(data[0])
	nameIdx, ok := cols["First Name"]
	if !ok {
		return fmt.Errorf("sheet %q has no First Name column", j.tab)
	}
	emailIdx, ok := cols["Email"]
	if !ok {
		return fmt.Errorf("sheet %q has no Email column", j.tab)
	}
	birthdayIdx, ok := cols["Birthday"]
	if !ok {
		return fmt.Errorf("sheet %q has no Birthday column", j.tab)
	}
	statusIdx, ok := cols["Status"]
	if !ok {
		return fmt.Errorf("sheet %q has no Status column", j.tab)
	}

	today := j.now()

	// Statuses reset on Jan 1 so last year's "Sent" marks do not suppress
	// this year's greetings.
	if today.Day() == 1 && today.Month() == time.January {
		for i := 1; i < len(data); i++ {
			if err := j.sheets.UpdateCell(ctx, j.tab, i+1, statusIdx+1, ""); err != nil {
				return err
			}
		}
		j.log.Info("status column reset for the new year")
	}

	for i := 1; i < len(data); i++ {
		row := data[i]
		birthdayRaw := cellString(row, birthdayIdx)
		status := cellString(row, statusIdx)

		if birthdayRaw == "" || status == statusSent || status == statusInvalidEmail {
			continue
		}

		birthday, err := parseSheetDate(birthdayRaw)
		if err != nil {
			continue
		}
		if birthday.Day() != today.Day() || birthday.Month() != today.Month() {
			continue
		}

		name := cellString(row, nameIdx)
		email := cellString(row, emailIdx)

		if err := j.sendGreeting(name, email); err != nil {
			j.log.WithFields(logrus.Fields{"name": name, "email": email}).
				WithError(err).Error("failed to send birthday email")
			if uerr := j.sheets.UpdateCell(ctx, j.tab, i+1, statusIdx+1, "Failed: "+err.Error()); uerr != nil {
				return uerr
			}
			continue
		}

		if err := j.sheets.UpdateCell(ctx, j.tab, i+1, statusIdx+1, statusSent); err != nil {
			return err
		}
		j.log.WithFields(logrus.Fields{"name": name, "email": email}).Info("birthday email sent")
	}

	return nil
}

func (j *BirthdayJob) sendGreeting(name, email string) error {
	var buf bytes.Buffer
	err := birthdayTemplate.Execute(&buf, struct {
		Name string
		Team string
	}{Name: name, Team: j.team})
	if err != nil {
		return fmt.Errorf("render greeting: %w", err)
	}

	subject := fmt.Sprintf("Happy Birthday, %s!", name)
	return j.mail.Send([]string{email}, subject, buf.String())
}
