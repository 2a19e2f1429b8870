package jobs

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/gmail/v1"

	"ads-activity-tracker/internal/sheet"
)

const bounceQuery = "from:(mailer-daemon OR postmaster) newer_than:1d"

var addressPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

// BounceJob scans the mailbox for recent delivery failure notices and marks
// the matching rows of the birthday sheet as Invalid Email so they are not
// mailed again.
type BounceJob struct {
	gmail  *gmail.Service
	sheets sheet.Store
	log    *logrus.Logger
	tab    string
}

func NewBounceJob(gmailSvc *gmail.Service, sheets sheet.Store, log *logrus.Logger, tab string) *BounceJob {
	return &BounceJob{
		gmail:  gmailSvc,
		sheets: sheets,
		log:    log,
		tab:    tab,
	}
}

func (j *BounceJob) Run(ctx context.Context) error {
	list, err := j.gmail.Users.Messages.List("me").Q(bounceQuery).Context(ctx).Do()
	if err != nil {
		return err
	}
	if len(list.Messages) == 0 {
		return nil
	}

	bounced := make(map[string]struct{})
	for _, ref := range list.Messages {
		msg, err := j.gmail.Users.Messages.Get("me", ref.Id).Format("full").Context(ctx).Do()
		if err != nil {
			j.log.WithField("message_id", ref.Id).WithError(err).Warn("failed to fetch bounce notice")
			continue
		}
		if addr := failedRecipient(msg); addr != "" {
			bounced[strings.ToLower(addr)] = struct{}{}
		}
	}
	if len(bounced) == 0 {
		return nil
	}

	return j.flagBounced(ctx, bounced)
}

// flagBounced marks every sheet row whose address bounced as Invalid Email.
func (j *BounceJob) flagBounced(ctx context.Context, bounced map[string]struct{}) error {
	data, err := j.sheets.Read(ctx, j.tab)
	if err != nil {
		return err
	}
	if len(data) < 2 {
		return nil
	}
	cols := headerIndex(data[0])
	emailIdx, ok := cols["Email"]
	if !ok {
		return fmt.Errorf("sheet %q has no Email column", j.tab)
	}
	statusIdx, ok := cols["Status"]
	if !ok {
		return fmt.Errorf("sheet %q has no Status column", j.tab)
	}

	for i := 1; i < len(data); i++ {
		email := strings.ToLower(cellString(data[i], emailIdx))
		if _, hit := bounced[email]; !hit {
			continue
		}
		if cellString(data[i], statusIdx) == statusInvalidEmail {
			continue
		}
		if err := j.sheets.UpdateCell(ctx, j.tab, i+1, statusIdx+1, statusInvalidEmail); err != nil {
			return err
		}
		j.log.WithField("email", email).Info("marked bounced address as invalid")
	}

	return nil
}

// failedRecipient extracts the bounced address from a delivery failure
// notice, preferring the X-Failed-Recipients header over the snippet text.
func failedRecipient(msg *gmail.Message) string {
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			if strings.EqualFold(h.Name, "X-Failed-Recipients") {
				if addr := addressPattern.FindString(h.Value); addr != "" {
					return addr
				}
			}
		}
	}
	for _, addr := range addressPattern.FindAllString(msg.Snippet, -1) {
		local := strings.ToLower(strings.SplitN(addr, "@", 2)[0])
		if local == "mailer-daemon" || local == "postmaster" {
			continue
		}
		return addr
	}
	return ""
}
