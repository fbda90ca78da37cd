package bodsfeed

import (
	"strings"
	"testing"
	"time"
)

func validRecord() VehiclePositionRecord {
	r := VehiclePositionRecord{
		VehicleRef:        "MIDL_1000",
		LineRef:           "1",
		PublishedLineName: "1",
		DirectionRef:      DirectionOutbound,
		OperatorRef:       "MIDL",
		OriginRef:         "430003002",
		OriginName:        "City Centre",
		DestinationRef:    "430008001",
		DestinationName:   "Solihull Interchange",
		Longitude:         -1.8945,
		Latitude:          52.4786,
		Bearing:           45.0,
		VehicleJourneyRef: "JOURNEY_1000_20240115",
	}
	return r.Stamp(time.Date(2024, 1, 15, 10, 30, 10, 0, time.UTC))
}

func TestRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*VehiclePositionRecord)
		wantErr bool
	}{
		{
			name:    "complete record",
			mutate:  func(r *VehiclePositionRecord) {},
			wantErr: false,
		},
		{
			name:    "missing vehicle ref",
			mutate:  func(r *VehiclePositionRecord) { r.VehicleRef = "" },
			wantErr: true,
		},
		{
			name:    "missing line ref",
			mutate:  func(r *VehiclePositionRecord) { r.LineRef = "" },
			wantErr: true,
		},
		{
			name:    "invalid direction",
			mutate:  func(r *VehiclePositionRecord) { r.DirectionRef = "NORTH" },
			wantErr: true,
		},
		{
			name:    "longitude out of range",
			mutate:  func(r *VehiclePositionRecord) { r.Longitude = 181.0 },
			wantErr: true,
		},
		{
			name:    "latitude out of range",
			mutate:  func(r *VehiclePositionRecord) { r.Latitude = -90.5 },
			wantErr: true,
		},
		{
			name:    "bearing 360 rejected",
			mutate:  func(r *VehiclePositionRecord) { r.Bearing = 360.0 },
			wantErr: true,
		},
		{
			name:    "bearing zero accepted",
			mutate:  func(r *VehiclePositionRecord) { r.Bearing = 0 },
			wantErr: false,
		},
		{
			name: "negative velocity rejected",
			mutate: func(r *VehiclePositionRecord) {
				v := -1.0
				r.Velocity = &v
			},
			wantErr: true,
		},
		{
			name:    "unknown occupancy rejected",
			mutate:  func(r *VehiclePositionRecord) { r.Occupancy = "packed" },
			wantErr: true,
		},
		{
			name:    "occupancy absent accepted",
			mutate:  func(r *VehiclePositionRecord) { r.Occupancy = "" },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecord()
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestRecordValidateErrorNamesVehicle(t *testing.T) {
	r := validRecord()
	r.LineRef = ""
	err := r.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "MIDL_1000") {
		t.Errorf("error should identify the vehicle, got: %v", err)
	}
}

func TestRecordStamp(t *testing.T) {
	recordedAt := time.Date(2024, 1, 15, 10, 30, 10, 0, time.UTC)
	r := VehiclePositionRecord{}.Stamp(recordedAt)

	if !r.RecordedAtTime.Equal(recordedAt) {
		t.Errorf("expected RecordedAtTime %v, got %v", recordedAt, r.RecordedAtTime)
	}
	want := recordedAt.Add(30 * time.Second)
	if !r.ValidUntilTime.Equal(want) {
		t.Errorf("expected ValidUntilTime %v, got %v", want, r.ValidUntilTime)
	}
}

func TestRecordStampConvertsToUTC(t *testing.T) {
	local := time.Date(2024, 1, 15, 11, 30, 10, 0, time.FixedZone("CET", 3600))
	r := VehiclePositionRecord{}.Stamp(local)

	if r.RecordedAtTime.Location() != time.UTC {
		t.Errorf("expected UTC location, got %v", r.RecordedAtTime.Location())
	}
	if r.RecordedAtTime.Hour() != 10 {
		t.Errorf("expected hour 10 after conversion, got %d", r.RecordedAtTime.Hour())
	}
}

func TestItemIdentifier(t *testing.T) {
	tests := []struct {
		name       string
		operator   string
		line       string
		recordedAt time.Time
		expected   string
	}{
		{
			name:       "midland line one",
			operator:   "MIDL",
			line:       "1",
			recordedAt: time.Date(2024, 1, 15, 10, 30, 10, 0, time.UTC),
			expected:   "MIDL_1_1705314610",
		},
		{
			name:       "epoch",
			operator:   "OP",
			line:       "X1",
			recordedAt: time.Unix(0, 0).UTC(),
			expected:   "OP_X1_0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := VehiclePositionRecord{
				OperatorRef: tt.operator,
				LineRef:     tt.line,
			}.Stamp(tt.recordedAt)
			if got := r.ItemIdentifier(); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}
