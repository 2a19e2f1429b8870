package db

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// RunMigrations ensures required tables exist. This keeps the service
// self-contained without an external migration step.
func RunMigrations(ctx context.Context, conn clickhouse.Conn) error {
	err := conn.Exec(ctx, `
CREATE TABLE IF NOT EXISTS activity_log
(
	account      String,
	event_time   DateTime('UTC'),
	event_label  String,
	campaign     String,
	adset        String,
	object_type  String,
	object_name  String,
	actor        String,
	details      String,
	ingested_at  DateTime DEFAULT now()
)
ENGINE = MergeTree
PARTITION BY toYYYYMMDD(event_time)
ORDER BY (account, event_time)
SETTINGS index_granularity = 8192;
`)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
