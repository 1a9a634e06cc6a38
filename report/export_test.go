package report

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trueinspo/babytimer/internal/apperr"
	"github.com/trueinspo/babytimer/internal/models"
	"github.com/trueinspo/babytimer/internal/testutil"
)

type TestCase struct {
	Name       string
	GoldenFile string
	Snapshot   []byte
}

func (t TestCase) Output() (out []byte, name string) {
	return t.Snapshot, t.GoldenFile
}

func newRecord(
	t *testing.T,
	kind models.Kind,
	meta models.Metadata,
	start time.Time,
) *models.Record {
	t.Helper()

	rec, err := models.New(kind, meta, start)
	require.NoError(t, err)

	return rec
}

func TestExportCSV(t *testing.T) {
	day := testutil.Day

	feed := newRecord(t, models.KindBreastfeeding, models.Metadata{Side: models.SideRight}, day(8, 0))
	feedEnd := day(8, 20)
	feed.EndTime = &feedEnd

	nap := newRecord(t, models.KindSleep, models.Metadata{Location: "stroller"}, day(12, 0))
	napEnd := day(13, 0)
	nap.EndTime = &napEnd
	nap.TotalPausedMs = (10 * time.Minute).Milliseconds()

	feedings := []*models.Record{
		newRecord(t, models.KindBreastfeeding, models.Metadata{}, day(14, 50)),
		newRecord(t, models.KindFormula, models.Metadata{AmountML: 90, Notes: "after bath, fussy"}, day(13, 0)),
		newRecord(t, models.KindBottle, models.Metadata{AmountML: 120}, day(11, 0)),
		feed,
	}

	sleeps := []*models.Record{
		newRecord(t, models.KindSleep, models.Metadata{SleepType: models.SleepNight}, day(20, 0)),
		nap,
	}

	var buf bytes.Buffer

	require.NoError(t, ExportCSV(&buf, feedings, sleeps, "15:04"))

	testutil.CompareGoldenFile(t, TestCase{
		Name:       "export feedings and sleeps",
		GoldenFile: "export",
		Snapshot:   buf.Bytes(),
	})
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "baby-tracker-export-2024-05-01.csv", ExportFileName("2024-05-01"))
}

func TestMessage(t *testing.T) {
	sentinel := &apperr.Error{Message: "no timer is running"}

	assert.Equal(t, "no timer is running", Message(fmt.Errorf("stop: %w", sentinel)))
	assert.Equal(t, "plain", Message(errors.New("plain")))
}
