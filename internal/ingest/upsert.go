package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"roster-tracker/internal/store"
)

// isoLayout renders epoch-millisecond timestamps as ISO-8601 UTC text with
// a trailing Z, keeping millisecond precision so the value round-trips.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// RowWriter is the slice of the store the upserter writes through.
type RowWriter interface {
	MaxRowIndex(ctx context.Context, table string) (int64, error)
	InsertRow(ctx context.Context, table string, row store.StoreRow) error
	WithIndexLock(ctx context.Context, fn func() error) error
}

// RowOutcome reports what happened to one row of an upsert batch.
type RowOutcome struct {
	Index   int64
	MatchID string
	PUUID   string
	Err     error
}

// Upserter assigns monotonic indices and writes flattened rows one at a
// time, tolerating per-row failure.
type Upserter struct {
	writer RowWriter
	table  string
	log    *zap.SugaredLogger
}

// NewUpserter creates an Upserter writing to table via writer.
func NewUpserter(writer RowWriter, table string, logger *zap.SugaredLogger) *Upserter {
	if table == "" {
		table = store.DefaultTable
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Upserter{writer: writer, table: table, log: logger}
}

// Upsert writes rows with indices continuing from the store's current
// maximum. The advisory index lock covers the read-max plus the whole batch
// so two concurrent runs cannot hand out colliding indices; the inserts
// themselves stay per-row best-effort, a failed row is logged and skipped
// while the rest of the batch proceeds.
func (u *Upserter) Upsert(ctx context.Context, rows []store.ParticipantRow) ([]RowOutcome, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	outcomes := make([]RowOutcome, 0, len(rows))
	err := u.writer.WithIndexLock(ctx, func() error {
		max, err := u.writer.MaxRowIndex(ctx, u.table)
		if err != nil {
			return err
		}

		inserted := 0
		for i, row := range rows {
			storeRow := store.StoreRow{
				ParticipantRow:  row,
				Index:           max + 1 + int64(i),
				GameCreationISO: epochMsToISO(row.GameCreation),
				GameStartISO:    epochMsToISO(row.GameStartTimestamp),
				GameEndISO:      epochMsToISO(row.GameEndTimestamp),
			}

			outcome := RowOutcome{
				Index:   storeRow.Index,
				MatchID: row.MatchID,
				PUUID:   row.PUUID,
			}
			if err := u.writer.InsertRow(ctx, u.table, storeRow); err != nil {
				outcome.Err = err
				u.log.Errorw("row insert failed, continuing",
					"index", storeRow.Index, "match", row.MatchID,
					"trace", fmt.Sprintf("%+v", err))
			} else {
				inserted++
			}
			outcomes = append(outcomes, outcome)
		}

		u.log.Infow("upsert complete",
			"table", u.table, "rows", len(rows), "inserted", inserted,
			"first_index", max+1, "last_index", max+int64(len(rows)))
		return nil
	})
	if err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

// epochMsToISO converts epoch milliseconds to ISO-8601 UTC text.
func epochMsToISO(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(isoLayout)
}

// isoToEpochMs is the inverse of epochMsToISO.
func isoToEpochMs(iso string) (int64, error) {
	t, err := time.Parse(isoLayout, iso)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}
