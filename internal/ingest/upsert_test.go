package ingest

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roster-tracker/internal/store"
)

type fakeWriter struct {
	maxIndex int64
	failOn   map[int64]error

	locked   bool
	inserted []store.StoreRow
}

func (f *fakeWriter) MaxRowIndex(ctx context.Context, table string) (int64, error) {
	if !f.locked {
		return 0, errors.New("max read outside index lock")
	}
	return f.maxIndex, nil
}

func (f *fakeWriter) InsertRow(ctx context.Context, table string, row store.StoreRow) error {
	if !f.locked {
		return errors.New("insert outside index lock")
	}
	if err := f.failOn[row.Index]; err != nil {
		return err
	}
	f.inserted = append(f.inserted, row)
	return nil
}

func (f *fakeWriter) WithIndexLock(ctx context.Context, fn func() error) error {
	f.locked = true
	defer func() { f.locked = false }()
	return fn()
}

func testRows(n int) []store.ParticipantRow {
	rows := make([]store.ParticipantRow, n)
	for i := range rows {
		rows[i] = store.ParticipantRow{
			MatchID:            "EUW1_1",
			PUUID:              "puuid",
			GameCreation:       1700000000000,
			GameStartTimestamp: 1700000060000,
			GameEndTimestamp:   1700001860000,
		}
	}
	return rows
}

func TestUpsert_IndicesContinueFromMax(t *testing.T) {
	writer := &fakeWriter{maxIndex: 7}
	up := NewUpserter(writer, "", nil)

	outcomes, err := up.Upsert(context.Background(), testRows(5))
	require.NoError(t, err)
	require.Len(t, outcomes, 5)

	// max=7, five rows: 8..12, every single one written
	require.Len(t, writer.inserted, 5)
	for i, row := range writer.inserted {
		assert.Equal(t, int64(8+i), row.Index)
	}
	assert.Equal(t, int64(12), outcomes[4].Index)
}

func TestUpsert_EmptyBatchTouchesNothing(t *testing.T) {
	writer := &fakeWriter{}
	up := NewUpserter(writer, "", nil)

	outcomes, err := up.Upsert(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, outcomes)
	assert.Empty(t, writer.inserted)
}

func TestUpsert_RowFailureDoesNotStopBatch(t *testing.T) {
	writer := &fakeWriter{
		maxIndex: 0,
		failOn:   map[int64]error{2: errors.New("duplicate key")},
	}
	up := NewUpserter(writer, "", nil)

	outcomes, err := up.Upsert(context.Background(), testRows(3))
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	assert.NoError(t, outcomes[0].Err)
	assert.Error(t, outcomes[1].Err)
	assert.NoError(t, outcomes[2].Err)

	// The failed index stays burned, later rows keep their slots
	require.Len(t, writer.inserted, 2)
	assert.Equal(t, int64(1), writer.inserted[0].Index)
	assert.Equal(t, int64(3), writer.inserted[1].Index)
}

func TestUpsert_RendersISOTimestamps(t *testing.T) {
	writer := &fakeWriter{}
	up := NewUpserter(writer, "", nil)

	_, err := up.Upsert(context.Background(), testRows(1))
	require.NoError(t, err)
	require.Len(t, writer.inserted, 1)

	row := writer.inserted[0]
	assert.Equal(t, "2023-11-14T22:13:20.000Z", row.GameCreationISO)

	// The text form round-trips back to the stored epoch value
	ms, err := isoToEpochMs(row.GameStartISO)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000060000), ms)
}

func TestUpsert_DefaultTableWhenUnset(t *testing.T) {
	up := NewUpserter(&fakeWriter{}, "", nil)
	assert.Equal(t, store.DefaultTable, up.table)
}
