package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func TestIncidentStatus_IsValid(t *testing.T) {
	assert.True(t, IncidentStatusOpen.IsValid())
	assert.True(t, IncidentStatusClosed.IsValid())
	assert.False(t, IncidentStatus("resolved").IsValid())
	assert.False(t, IncidentStatus("").IsValid())
}

func TestIncident_DurationInDays(t *testing.T) {
	start := mustTime(t, "2024-01-15T10:00:00Z")
	now := mustTime(t, "2024-01-20T10:00:00Z")

	tests := []struct {
		name  string
		start *time.Time
		end   *time.Time
		zero  bool
		want  int
	}{
		{
			name: "partial day rounds up",
			end:  ptr(mustTime(t, "2024-01-15T12:30:00Z")),
			want: 1,
		},
		{
			name: "exact days",
			end:  ptr(mustTime(t, "2024-01-17T10:00:00Z")),
			want: 2,
		},
		{
			name: "same instant",
			end:  ptr(start),
			want: 0,
		},
		{
			name: "end before start uses absolute difference",
			end:  ptr(mustTime(t, "2024-01-14T09:00:00Z")),
			want: 2,
		},
		{
			name: "end before start with sub-second offset",
			end:  ptr(mustTime(t, "2024-01-13T10:00:00.5Z")),
			want: 2,
		},
		{
			name:  "range longer than time.Duration can hold",
			start: ptr(mustTime(t, "1000-01-01T00:00:00Z")),
			end:   ptr(mustTime(t, "2024-01-01T00:00:00Z")),
			want:  374008,
		},
		{
			name:  "long range with a partial day",
			start: ptr(mustTime(t, "1000-01-01T00:00:00Z")),
			end:   ptr(mustTime(t, "2024-01-01T00:00:00.000000001Z")),
			want:  374009,
		},
		{
			name: "open incident measured until now",
			want: 5,
		},
		{
			name: "missing start date",
			zero: true,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			incident := &Incident{IncidentStartDate: start, IncidentEndDate: tt.end}
			if tt.start != nil {
				incident.IncidentStartDate = *tt.start
			}
			if tt.zero {
				incident.IncidentStartDate = time.Time{}
			}
			assert.Equal(t, tt.want, incident.DurationInDays(now))
		})
	}
}

func TestIncident_Normalize(t *testing.T) {
	incident := &Incident{
		Type:        "  Network Outage ",
		Description: "\tswitch failure in rack 4\n",
		Remarks:     "  ",
	}

	incident.Normalize()

	assert.Equal(t, "Network Outage", incident.Type)
	assert.Equal(t, "switch failure in rack 4", incident.Description)
	assert.Empty(t, incident.Remarks)
}

func TestIncidentView_JSON(t *testing.T) {
	start := mustTime(t, "2024-01-15T10:00:00Z")
	incident := &Incident{
		ID:                "b3c1d1f4-5b2c-4b84-9a57-0b1d2f3e4a5b",
		Type:              "Network Outage",
		IncidentStartDate: start,
		Description:       "Major network outage",
		Status:            IncidentStatusOpen,
		CreatedAt:         start,
		UpdatedAt:         start,
	}

	data, err := json.Marshal(NewIncidentView(incident, start.Add(36*time.Hour)))
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))

	assert.Equal(t, "Network Outage", body["type"])
	assert.Equal(t, "open", body["status"])
	assert.Equal(t, float64(2), body["durationInDays"])
	assert.NotContains(t, body, "incidentEndDate")
}

func ptr[T any](v T) *T {
	return &v
}
