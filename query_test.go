package bodsfeed

import (
	"net/url"
	"testing"
	"time"
)

func TestParseVehicleMonitoringQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected Criteria
		wantErr  bool
	}{
		{
			name:     "no parameters",
			query:    "",
			expected: Criteria{},
		},
		{
			name:     "all filters",
			query:    "LineRef=1&OperatorRef=MIDL&VehicleRef=MIDL_1000&MaximumNumberOfVehicles=5",
			expected: Criteria{LineRef: "1", OperatorRef: "MIDL", VehicleRef: "MIDL_1000", MaxVehicles: 5},
		},
		{
			name:     "whitespace trimmed",
			query:    "LineRef=%201%20",
			expected: Criteria{LineRef: "1"},
		},
		{
			name:     "zero max carried as no limit",
			query:    "MaximumNumberOfVehicles=0",
			expected: Criteria{MaxVehicles: 0},
		},
		{
			name:     "negative max carried as no limit",
			query:    "MaximumNumberOfVehicles=-1",
			expected: Criteria{MaxVehicles: -1},
		},
		{
			name:    "non-integer max rejected",
			query:   "MaximumNumberOfVehicles=abc",
			wantErr: true,
		},
		{
			name:    "fractional max rejected",
			query:   "MaximumNumberOfVehicles=1.5",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("bad test query: %v", err)
			}
			got, err := parseVehicleMonitoringQuery(params)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if _, ok := err.(*QueryError); !ok {
					t.Errorf("expected *QueryError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, got)
			}
		})
	}
}

func TestParseDeleteQuery(t *testing.T) {
	t.Run("filters carried", func(t *testing.T) {
		params := url.Values{}
		params.Set("vehicle_ref", "MIDL_1000")
		params.Set("operator_ref", "MIDL")
		params.Set("days_old", "7")
		f, err := parseDeleteQuery(params)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.VehicleRef != "MIDL_1000" || f.OperatorRef != "MIDL" || f.DaysOld != 7 {
			t.Errorf("unexpected filter %+v", f)
		}
	})

	t.Run("rfc3339 before timestamp", func(t *testing.T) {
		params := url.Values{}
		params.Set("before_timestamp", "2024-01-15T10:00:00Z")
		f, err := parseDeleteQuery(params)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
		if !f.Before.Equal(want) {
			t.Errorf("expected %v, got %v", want, f.Before)
		}
	})

	t.Run("siri-style before timestamp", func(t *testing.T) {
		params := url.Values{}
		params.Set("before_timestamp", "2024-01-15T10:00:00.000Z")
		f, err := parseDeleteQuery(params)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.Before.IsZero() {
			t.Error("before should be parsed")
		}
	})

	t.Run("bad timestamp rejected", func(t *testing.T) {
		params := url.Values{}
		params.Set("before_timestamp", "yesterday")
		if _, err := parseDeleteQuery(params); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("negative days_old rejected", func(t *testing.T) {
		params := url.Values{}
		params.Set("days_old", "-1")
		if _, err := parseDeleteQuery(params); err == nil {
			t.Fatal("expected error")
		}
	})
}
