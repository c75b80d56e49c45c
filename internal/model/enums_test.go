package model

import (
	"errors"
	"strings"
	"testing"
)

func TestItemStatusFromAPI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    ItemStatus
		wantErr bool
	}{
		{"needsAction", StatusNeedsAction, false},
		{"confirmed", StatusConfirmed, false},
		{"tentative", StatusTentative, false},
		{"completed", StatusCompleted, false},
		{"cancelled", StatusCancelled, false},
		{"", StatusNone, false},
		{"done", StatusNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			got, err := ItemStatusFromAPI(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %t", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("status = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConversionErrorNamesValueAndAllowedSet(t *testing.T) {
	t.Parallel()

	_, err := ItemTypeFromAPI("reminder")
	var cerr *ConversionError
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want ConversionError", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, `"reminder"`) {
		t.Errorf("message %q does not name the offending value", msg)
	}
	if !strings.Contains(msg, "task") || !strings.Contains(msg, "event") {
		t.Errorf("message %q does not name the allowed set", msg)
	}
}

func TestDataSourceFromAPI(t *testing.T) {
	t.Parallel()

	if got, err := DataSourceFromAPI("todoist"); err != nil || got != SourceTodoist {
		t.Errorf("DataSourceFromAPI = %q, %v", got, err)
	}
	if _, err := DataSourceFromAPI("jira"); err == nil {
		t.Error("expected error for unknown source")
	}
}

func TestGroupsFixedOrder(t *testing.T) {
	t.Parallel()

	groups := Groups()
	if len(groups) != 12 {
		t.Fatalf("len = %d, want 12", len(groups))
	}
	if groups[0] != GroupDued || groups[1] != GroupOngoing || groups[11] != GroupFuture {
		t.Errorf("order wrong: %v", groups)
	}
	if GroupRestOfThisMonth.Label() != "REST OF THIS MONTH" {
		t.Errorf("label = %q", GroupRestOfThisMonth.Label())
	}
}
