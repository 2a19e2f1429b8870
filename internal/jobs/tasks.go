package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"ads-activity-tracker/internal/mailer"
	"ads-activity-tracker/internal/sheet"
)

// Task statuses tracked on the sheet.
const (
	taskPending    = "Pending"
	taskInProgress = "In Progress"
	taskCompleted  = "Completed"
	taskOnHold     = "On Hold"
)

// TaskJob watches the task sheet for status transitions and overdue due
// dates. All notifications go to the one configured recipient; the Assigned
// To cell holds a display name, not an address. Overdue reminders go out at
// most once per calendar day, tracked via the Last Notified column.
type TaskJob struct {
	sheets    sheet.Store
	mail      mailer.Sender
	log       *logrus.Logger
	tab       string
	recipient string
	now       func() time.Time
}

func NewTaskJob(sheets sheet.Store, mail mailer.Sender, log *logrus.Logger, tab, recipient string) *TaskJob {
	return &TaskJob{
		sheets:    sheets,
		mail:      mail,
		log:       log,
		tab:       tab,
		recipient: recipient,
		now:       time.Now,
	}
}

func (j *TaskJob) Run(ctx context.Context) error {
	data, err := j.sheets.Read(ctx, j.tab)
	if err != nil {
		return err
	}
	if len(data) < 2 {
		return nil
	}

	cols := headerIndex(data[0])
	required := []string{"Task", "Assigned To", "Due Date", "Status", "Last Notified", "Priority", "Last Status"}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return fmt.Errorf("sheet %q has no %s column", j.tab, name)
		}
	}

	today := j.now()

	for i := 1; i < len(data); i++ {
		row := data[i]
		task := cellString(row, cols["Task"])
		if task == "" {
			continue
		}

		assignee := cellString(row, cols["Assigned To"])
		status := cellString(row, cols["Status"])
		lastStatus := cellString(row, cols["Last Status"])
		priority := cellString(row, cols["Priority"])

		if subject, body := transitionMessage(task, assignee, priority, lastStatus, status); subject != "" {
			if err := j.mail.Send([]string{j.recipient}, subject, body); err != nil {
				j.log.WithFields(logrus.Fields{"task": task, "assignee": assignee}).
					WithError(err).Error("failed to send task status email")
			} else {
				if err := j.sheets.UpdateCell(ctx, j.tab, i+1, cols["Last Status"]+1, status); err != nil {
					return err
				}
				j.log.WithFields(logrus.Fields{"task": task, "status": status}).Info("task status email sent")
			}
		} else if lastStatus != status {
			// Keep the tracker current even when the transition has no mail.
			if err := j.sheets.UpdateCell(ctx, j.tab, i+1, cols["Last Status"]+1, status); err != nil {
				return err
			}
		}

		if status == taskCompleted {
			continue
		}

		dueRaw := cellString(row, cols["Due Date"])
		if dueRaw == "" {
			continue
		}
		due, err := parseSheetDate(dueRaw)
		if err != nil {
			continue
		}
		if !due.Before(today.Truncate(24 * time.Hour)) {
			continue
		}

		lastNotifiedRaw := cellString(row, cols["Last Notified"])
		if lastNotifiedRaw != "" {
			if last, err := parseSheetDate(lastNotifiedRaw); err == nil && sameDay(last, today) {
				continue
			}
		}

		subject := fmt.Sprintf("Overdue Task Reminder: %s", task)
		body := taskBody(fmt.Sprintf(
			"The task %q assigned to %s was due on %s and is still marked %s.\nPlease update its status or follow up.",
			task, assignee, due.Format(notifyDateLayout), status,
		))
		if err := j.mail.Send([]string{j.recipient}, subject, body); err != nil {
			j.log.WithFields(logrus.Fields{"task": task, "assignee": assignee}).
				WithError(err).Error("failed to send overdue reminder")
			continue
		}
		if err := j.sheets.UpdateCell(ctx, j.tab, i+1, cols["Last Notified"]+1, today.Format(notifyDateLayout)); err != nil {
			return err
		}
		j.log.WithFields(logrus.Fields{"task": task, "due": dueRaw}).Info("overdue reminder sent")
	}

	return nil
}

// transitionMessage returns the subject and body for a status transition that
// warrants a notification, or "" when none applies.
func transitionMessage(task, assignee, priority, lastStatus, status string) (string, string) {
	if lastStatus == status {
		return "", ""
	}
	switch {
	case status == taskInProgress && lastStatus == taskPending:
		return fmt.Sprintf("Task Started: %s", task),
			taskBody(fmt.Sprintf("%s has started work on the task %q (priority %s).", assignee, task, priority))
	case status == taskCompleted && lastStatus == taskInProgress:
		return fmt.Sprintf("Task Completed: %s", task),
			taskBody(fmt.Sprintf("The task %q assigned to %s has been marked as completed.", task, assignee))
	case status == taskOnHold:
		return fmt.Sprintf("Task On Hold: %s", task),
			taskBody(fmt.Sprintf("The task %q assigned to %s has been put on hold.", task, assignee))
	}
	return "", ""
}

// taskBody wraps a plain-text message into the minimal HTML the sender
// expects, preserving line breaks.
func taskBody(text string) string {
	return "<p>" + strings.ReplaceAll(text, "\n", "<br>") + "</p>"
}
