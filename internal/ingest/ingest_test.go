package ingest_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/roadscan/internal/domain"
	"github.com/pkordes/roadscan/internal/ingest"
)

func TestParse_CSV(t *testing.T) {
	body := "KM,Type,Severity,Latitude,Longitude,Timestamp,Confidence,Length,Description\n" +
		"0.5,cracks,HIGH,28.6139,77.2090,00:05:23,95%,15,Longitudinal crack detected\n" +
		"1.2,Rutting,Medium,28.6149,77.2100,00:07:45,0.87,8,\"Wheel path, rutting\"\n"

	got, err := ingest.Parse("survey.csv", strings.NewReader(body))

	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, domain.TypeCracks, first.Type)
	assert.Equal(t, domain.SeverityHigh, first.Severity)
	assert.InDelta(t, 28.6139, first.Lat(), 1e-9)
	assert.InDelta(t, 77.2090, first.Lng(), 1e-9)
	assert.Equal(t, domain.VideoOffset(5*time.Minute+23*time.Second), first.Timestamp)
	assert.InDelta(t, 0.95, first.Confidence, 1e-9)
	assert.Equal(t, 15.0, first.LengthM)
	assert.Equal(t, 0.5, first.KM)

	assert.Equal(t, "Wheel path, rutting", got[1].Description)
	assert.Zero(t, got[1].ID)
}

func TestParse_JSON(t *testing.T) {
	body := `[
		{"type":"Roughness","severity":"Low","lat":28.6159,"lng":77.2110,"timestamp":"00:09:12","km":2.1,"confidence":0.92,"length_m":12,"description":"Minor surface irregularity"},
		{"type":"Cracks","severity":"High","lat":28.6169,"lon":77.2120,"timestamp":"00:11:30","confidence":"89%"}
	]`

	got, err := ingest.Parse("survey.JSON", strings.NewReader(body))

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.TypeRoughness, got[0].Type)
	assert.Equal(t, 2.1, got[0].KM)
	assert.InDelta(t, 77.2120, got[1].Lng(), 1e-9)
	assert.InDelta(t, 0.89, got[1].Confidence, 1e-9)
}

func TestParse_HeaderOnlyIsEmpty(t *testing.T) {
	got, err := ingest.Parse("survey.csv", strings.NewReader("type,severity,lat,lng,timestamp\n"))

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		body     string
		contains string
	}{
		{"empty csv", "a.csv", "", "empty report"},
		{"missing columns", "a.csv", "type,severity\nCracks,High\n", "missing columns: lat, lng, timestamp"},
		{"unknown type", "a.csv", "type,severity,lat,lng,timestamp\nPotholes,High,1,2,00:00:01\n", "record 1"},
		{"bad timestamp", "a.csv", "type,severity,lat,lng,timestamp\nCracks,High,1,2,5:23\n", "HH:MM:SS"},
		{"bad number", "a.csv", "type,severity,lat,lng,timestamp\nCracks,High,north,2,00:00:01\n", `lat: "north" is not a number`},
		{"out of range", "a.csv", "type,severity,lat,lng,timestamp\nCracks,High,95,2,00:00:01\n", "latitude"},
		{"NaN km", "a.csv", "type,severity,lat,lng,timestamp,km\nCracks,High,28.6,77.2,00:00:10,NaN\n", "km must be a finite number"},
		{"NaN position", "a.csv", "type,severity,lat,lng,timestamp\nCracks,High,NaN,NaN,00:00:10\n", "latitude must be a finite number"},
		{"Inf km", "a.csv", "type,severity,lat,lng,timestamp,km\nCracks,High,28.6,77.2,00:00:10,+Inf\n", "km must be a finite number"},
		{"NaN confidence", "a.csv", "type,severity,lat,lng,timestamp,confidence\nCracks,High,28.6,77.2,00:00:10,NaN\n", "confidence must be a finite number"},
		{"blank required", "a.json", `[{"type":"Cracks","severity":"High","lat":1,"lng":2}]`, "timestamp is required"},
		{"malformed json", "a.json", `{"type":`, "decode"},
		{"unsupported", "a.xlsx", "", "unsupported format"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ingest.Parse(tc.fileName, strings.NewReader(tc.body))

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrIngest)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}

func TestParse_InvalidRecordWrapsValidation(t *testing.T) {
	_, err := ingest.Parse("a.csv", strings.NewReader("type,severity,lat,lng,timestamp\nCracks,Extreme,1,2,00:00:01\n"))

	assert.ErrorIs(t, err, domain.ErrIngest)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
