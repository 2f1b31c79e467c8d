package historical

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/stockdash/internal/domain"
)

func sampleHistory() domain.PriceHistory {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return domain.PriceHistory{
		{Date: day, Open: 179.551234, High: 180.53, Low: 177.38, Close: 179.66, Volume: 73488000},
		{Date: day.AddDate(0, 0, 3), Open: 176.15, High: 176.9, Low: 173.79, Close: 175.1, Volume: 81510100},
		{Date: day.AddDate(0, 0, 4), Open: 170.76, High: 172.04, Low: 169.62, Close: 170.12, Volume: 95132400},
	}
}

func TestBuildTable_ReverseChronological(t *testing.T) {
	table := BuildTable(sampleHistory())
	require.Len(t, table, 3)

	assert.Equal(t, "2024-03-05", table[0].Date)
	assert.Equal(t, "2024-03-04", table[1].Date)
	assert.Equal(t, "2024-03-01", table[2].Date)
}

func TestBuildTable_Rounding(t *testing.T) {
	table := BuildTable(sampleHistory())
	last := table[2]

	assert.Equal(t, 179.55, last.Open)
	assert.Equal(t, int64(73488000), last.Volume)
	assert.Equal(t, "73,488,000", last.VolumeDisplay)
}

func TestRow_CellsAndRecord(t *testing.T) {
	row := BuildTable(sampleHistory())[1]

	assert.Equal(t, []string{"2024-03-04", "176.15", "176.90", "173.79", "175.10", "81,510,100"}, row.Cells())
	assert.Equal(t, []string{"2024-03-04", "176.15", "176.90", "173.79", "175.10", "81510100"}, row.Record())
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.24, Round2(1.235))
	assert.Equal(t, -1.24, Round2(-1.235))
	assert.Equal(t, 10.0, Round2(9.999))
	assert.Equal(t, 2.68, Round2(2.675), "rounds the written decimal, not its binary value")
}

func TestTable_Limit(t *testing.T) {
	table := BuildTable(sampleHistory())
	assert.Len(t, table.Limit(2), 2)
	assert.Equal(t, "2024-03-05", table.Limit(1)[0].Date)
	assert.Len(t, table.Limit(0), 3)
	assert.Len(t, table.Limit(10), 3)
}

func TestBuildTable_Empty(t *testing.T) {
	assert.Empty(t, BuildTable(nil))
}
