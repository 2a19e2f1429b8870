package archive

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"

	"ads-activity-tracker/internal/model"
)

// Archive mirrors report rows into durable storage for later analysis. The
// spreadsheet stays the primary target; archive failures never abort a sync.
type Archive interface {
	SaveRows(ctx context.Context, account string, rows []model.ReportRow) error
}

type activityArchive struct {
	conn clickhouse.Conn
}

// NewActivityArchive creates an Archive backed by ClickHouse.
func NewActivityArchive(conn clickhouse.Conn) Archive {
	return &activityArchive{conn: conn}
}

const insertActivityQuery = `
	INSERT INTO activity_log (account, event_time, event_label, campaign, adset, object_type, object_name, actor, details)
`

func (a *activityArchive) SaveRows(ctx context.Context, account string, rows []model.ReportRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch, err := a.conn.PrepareBatch(ctx, insertActivityQuery)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, row := range rows {
		err := batch.Append(
			account,
			row.Time,
			row.Event,
			row.Campaign,
			row.AdSet,
			row.ObjectType,
			row.ObjectName,
			row.Actor,
			row.Details,
		)
		if err != nil {
			return fmt.Errorf("append batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// Nop is used when no ClickHouse endpoint is configured.
type Nop struct{}

func (Nop) SaveRows(context.Context, string, []model.ReportRow) error { return nil }
