package service

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"ads-activity-tracker/internal/archive"
	"ads-activity-tracker/internal/graph"
	"ads-activity-tracker/internal/mailer"
	"ads-activity-tracker/internal/model"
	"ads-activity-tracker/internal/sheet"
)

// AccountResult summarizes one account's sync.
type AccountResult struct {
	AccountID string `json:"account_id"`
	Label     string `json:"label"`
	Rows      int    `json:"rows"`
	Notified  int    `json:"notified"`
	Error     string `json:"error,omitempty"`
}

// SyncService runs the activity pipeline.
type SyncService interface {
	// SyncAll processes every configured account strictly sequentially. A
	// failing account is logged and recorded; the next account still runs.
	SyncAll(ctx context.Context) []AccountResult

	// SyncAccount fully processes one account: reference data, activities,
	// sheet write, archive, notification.
	SyncAccount(ctx context.Context, account model.Account) (AccountResult, error)
}

type syncService struct {
	api        graph.API
	sheets     sheet.Store
	mail       mailer.Sender
	archive    archive.Archive
	log        *logrus.Logger
	accounts   []model.Account
	window     time.Duration
	whitelist  []string
	recipients []string
	subject    string
	now        func() time.Time
}

// NewSyncService wires the pipeline. archive may be archive.Nop{} when no
// mirror is configured.
func NewSyncService(
	api graph.API,
	sheets sheet.Store,
	mail mailer.Sender,
	arch archive.Archive,
	log *logrus.Logger,
	accounts []model.Account,
	window time.Duration,
	whitelist []string,
	recipients []string,
	subject string,
) SyncService {
	return &syncService{
		api:        api,
		sheets:     sheets,
		mail:       mail,
		archive:    arch,
		log:        log,
		accounts:   accounts,
		window:     window,
		whitelist:  whitelist,
		recipients: recipients,
		subject:    subject,
		now:        time.Now,
	}
}

func (s *syncService) SyncAll(ctx context.Context) []AccountResult {
	results := make([]AccountResult, 0, len(s.accounts))
	for _, account := range s.accounts {
		res, err := s.SyncAccount(ctx, account)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"account": account.ID,
				"label":   account.Label,
			}).WithError(err).Error("account sync failed")
			res = AccountResult{AccountID: account.ID, Label: account.Label, Error: err.Error()}
		}
		results = append(results, res)
	}
	return results
}

func (s *syncService) SyncAccount(ctx context.Context, account model.Account) (AccountResult, error) {
	result := AccountResult{AccountID: account.ID, Label: account.Label}

	until := s.now()
	since := until.Add(-s.window)

	s.log.WithFields(logrus.Fields{
		"account": account.ID,
		"label":   account.Label,
		"since":   since.Unix(),
		"until":   until.Unix(),
	}).Info("fetching activities")

	ref, err := s.buildReferenceData(ctx, account.ID)
	if err != nil {
		return result, err
	}

	activities, err := s.api.ListActivities(ctx, account.ID, since, until)
	if err != nil {
		return result, err
	}

	rows, digest := s.buildRows(account, activities, ref)
	result.Rows = len(rows)
	result.Notified = len(digest)

	if len(rows) > 0 {
		values := make([][]interface{}, 0, len(rows))
		for _, row := range rows {
			values = append(values, row.Values())
		}
		if err := s.sheets.Append(ctx, account.Label, values); err != nil {
			return result, err
		}
	}

	// Archive failures must not abort the sheet path.
	if err := s.archive.SaveRows(ctx, account.Label, rows); err != nil {
		s.log.WithField("account", account.ID).WithError(err).Error("archive write failed")
	}

	if len(digest) > 0 {
		body, err := renderDigest(digest)
		if err != nil {
			return result, err
		}
		if err := s.mail.Send(s.recipients, s.subject, body); err != nil {
			return result, err
		}
	} else {
		s.log.WithField("label", account.Label).Info("no whitelist user changes found")
	}

	return result, nil
}

// buildReferenceData fetches campaigns, then ad sets, then ads, exhausting
// pagination for each. Any failure aborts the whole account sync.
func (s *syncService) buildReferenceData(ctx context.Context, accountID string) (*model.ReferenceData, error) {
	ref := model.NewReferenceData()

	campaigns, err := s.api.ListCampaigns(ctx, accountID)
	if err != nil {
		return nil, err
	}
	for _, camp := range campaigns {
		ref.Campaigns[camp.ID] = camp
	}

	adsets, err := s.api.ListAdSets(ctx, accountID)
	if err != nil {
		return nil, err
	}
	for _, adset := range adsets {
		ref.AdSets[adset.ID] = adset
	}

	ads, err := s.api.ListAds(ctx, accountID)
	if err != nil {
		return nil, err
	}
	for _, ad := range ads {
		ref.Ads[ad.ID] = ad
	}

	return ref, nil
}

func (s *syncService) buildRows(account model.Account, activities []model.ActivityEvent, ref *model.ReferenceData) ([]model.ReportRow, []model.NotificationRow) {
	var rows []model.ReportRow
	var digest []model.NotificationRow

	for _, act := range activities {
		// Platform-generated changes are noise.
		if strings.ToUpper(act.ActorName) == "META" {
			continue
		}

		objectID := extraObjectID(act.ExtraData)
		if objectID == "" {
			objectID = act.ObjectID
		}
		names := ref.Resolve(objectID)
		details := FlattenExtraData(act.ExtraData)
		eventTime := parseEventTime(act.EventTime)

		rows = append(rows, model.ReportRow{
			Time:       eventTime,
			Event:      act.TranslatedEventType,
			Campaign:   names.Campaign,
			AdSet:      names.AdSet,
			ObjectType: NormalizeObjectType(act.ObjectType),
			ObjectName: act.ObjectName,
			Actor:      act.ActorName,
			Details:    details,
		})

		if s.isWhitelisted(act.ActorName) {
			change := act.TranslatedEventType
			if change == "" {
				change = act.EventType
			}
			digest = append(digest, model.NotificationRow{
				Account:  account.Label,
				Campaign: names.Campaign,
				AdSet:    names.AdSet,
				Object:   act.ObjectName,
				Change:   change,
				Actor:    act.ActorName,
				Time:     eventTime,
				Info:     details,
			})
		}
	}

	return rows, digest
}

// isWhitelisted is an exact, case-sensitive match.
func (s *syncService) isWhitelisted(actor string) bool {
	for _, name := range s.whitelist {
		if name == actor {
			return true
		}
	}
	return false
}

// graphTimeLayout matches Graph API event_time values like
// "2025-03-01T10:00:00+0000".
const graphTimeLayout = "2006-01-02T15:04:05-0700"

func parseEventTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse(graphTimeLayout, raw); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	return time.Time{}
}
