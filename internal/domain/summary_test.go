package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Period
		wantErr bool
	}{
		{name: "Valid month", input: "2024-03", want: Period{Year: 2024, Month: 3}},
		{name: "December", input: "1999-12", want: Period{Year: 1999, Month: 12}},
		{name: "Month zero", input: "2024-00", wantErr: true},
		{name: "Month thirteen", input: "2024-13", wantErr: true},
		{name: "Single digit month", input: "2024-3", wantErr: true},
		{name: "Trailing garbage", input: "2024-03x", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePeriod(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPeriod)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestPeriod_Previous(t *testing.T) {
	assert.Equal(t, Period{Year: 2024, Month: 2}, Period{Year: 2024, Month: 3}.Previous())
	assert.Equal(t, Period{Year: 2023, Month: 12}, Period{Year: 2024, Month: 1}.Previous())
}

func TestPeriod_Bounds(t *testing.T) {
	start, end := Period{Year: 2024, Month: 2}.Bounds(time.UTC)

	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.February, 29, 23, 59, 59, 999999999, time.UTC), end)

	// nil location falls back to UTC
	nilStart, _ := Period{Year: 2024, Month: 2}.Bounds(nil)
	assert.Equal(t, start, nilStart)
}

func TestPeriodOf(t *testing.T) {
	assert.Equal(t, Period{Year: 2025, Month: 1}, PeriodOf(time.Date(2025, time.January, 31, 23, 0, 0, 0, time.UTC)))
}
