package model

import (
	"testing"
	"time"
)

func TestParseRFC3339(t *testing.T) {
	t.Parallel()

	madrid, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	tests := []struct {
		name         string
		value        string
		keepMidnight bool
		want         time.Time
		wantErr      bool
	}{
		{
			name:  "utc converted to local",
			value: "2024-06-12T10:00:00Z",
			want:  time.Date(2024, time.June, 12, 12, 0, 0, 0, madrid),
		},
		{
			name:         "utc midnight pinned to local date",
			value:        "2024-06-12T00:00:00.000Z",
			keepMidnight: true,
			want:         time.Date(2024, time.June, 12, 0, 0, 0, 0, madrid),
		},
		{
			name:  "utc midnight shifted without flag",
			value: "2024-06-12T00:00:00Z",
			want:  time.Date(2024, time.June, 12, 2, 0, 0, 0, madrid),
		},
		{
			name:  "naive datetime read as local",
			value: "2024-06-12T09:30:00",
			want:  time.Date(2024, time.June, 12, 9, 30, 0, 0, madrid),
		},
		{
			name:         "bare date",
			value:        "2024-06-12",
			keepMidnight: true,
			want:         time.Date(2024, time.June, 12, 0, 0, 0, 0, madrid),
		},
		{
			name:    "garbage",
			value:   "next tuesday",
			wantErr: true,
		},
		{
			name:    "empty",
			value:   "  ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseRFC3339(tt.value, madrid, tt.keepMidnight)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %t", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("parsed = %v, want %v", got, tt.want)
			}
		})
	}
}
