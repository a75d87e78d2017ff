package domain_test

import (
	"net/url"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/roadscan/internal/domain"
)

func record(id int64, typ domain.DistressType, sev domain.Severity) domain.DistressRecord {
	return domain.DistressRecord{
		ID:       id,
		Type:     typ,
		Severity: sev,
		Location: orb.Point{77.2090, 28.6139},
	}
}

func ids(records []domain.DistressRecord) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func sampleRecords() []domain.DistressRecord {
	return []domain.DistressRecord{
		record(1, domain.TypeCracks, domain.SeverityHigh),
		record(2, domain.TypeRutting, domain.SeverityMedium),
		record(3, domain.TypeRoughness, domain.SeverityLow),
		record(4, domain.TypeCracks, domain.SeverityHigh),
		record(5, domain.TypeRutting, domain.SeverityMedium),
	}
}

func TestFilterDistresses_HidesToggledOffType(t *testing.T) {
	records := []domain.DistressRecord{
		record(1, domain.TypeCracks, domain.SeverityHigh),
		record(2, domain.TypeRutting, domain.SeverityMedium),
	}

	got := domain.FilterDistresses(records, domain.Toggles{"cracks": false})

	assert.Equal(t, []int64{2}, ids(got))
}

func TestFilterDistresses_AllTogglesOn(t *testing.T) {
	got := domain.FilterDistresses(sampleRecords(), domain.DefaultToggles())

	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(got))
}

func TestFilterDistresses_TypeAndSeverityBothRequired(t *testing.T) {
	toggles := domain.DefaultToggles().Set("rutting", false).Set("high", false)

	got := domain.FilterDistresses(sampleRecords(), toggles)

	assert.Equal(t, []int64{3}, ids(got))
}

// TestFilterDistresses_MatchesPredicateForEveryConfiguration walks all 64
// on/off combinations of the six known toggles and checks the result is
// exactly the records whose type and severity toggles are both on.
func TestFilterDistresses_MatchesPredicateForEveryConfiguration(t *testing.T) {
	keys := []string{"cracks", "rutting", "roughness", "high", "medium", "low"}
	records := sampleRecords()

	for mask := 0; mask < 1<<len(keys); mask++ {
		toggles := domain.Toggles{}
		for i, k := range keys {
			toggles[k] = mask&(1<<i) != 0
		}

		var want []int64
		for _, r := range records {
			if toggles[r.Type.Key()] && toggles[r.Severity.Key()] {
				want = append(want, r.ID)
			}
		}

		got := ids(domain.FilterDistresses(records, toggles))
		if want == nil {
			want = []int64{}
		}
		require.Equal(t, want, got, "toggles %v", toggles)
	}
}

func TestFilterDistresses_Idempotent(t *testing.T) {
	toggles := domain.Toggles{"medium": false, "roughness": false}

	once := domain.FilterDistresses(sampleRecords(), toggles)
	twice := domain.FilterDistresses(once, toggles)

	assert.Equal(t, once, twice)
}

func TestFilterDistresses_MissingKeysAreShown(t *testing.T) {
	got := domain.FilterDistresses(sampleRecords(), domain.Toggles{})

	assert.Len(t, got, 5)
}

func TestFilterDistresses_UnknownStringsAreShown(t *testing.T) {
	records := []domain.DistressRecord{
		record(1, domain.DistressType("Potholes"), domain.Severity("Critical")),
		record(2, domain.TypeCracks, domain.SeverityHigh),
	}
	toggles := domain.DefaultToggles()
	for k := range toggles {
		toggles[k] = false
	}

	got := domain.FilterDistresses(records, toggles)

	assert.Equal(t, []int64{1}, ids(got))
}

func TestFilterDistresses_DoesNotModifyInput(t *testing.T) {
	records := sampleRecords()

	_ = domain.FilterDistresses(records, domain.Toggles{"cracks": false})

	assert.Equal(t, sampleRecords(), records)
}

func TestToggles_SetCopies(t *testing.T) {
	before := domain.DefaultToggles()

	after := before.Set("Cracks", false)

	assert.True(t, before["cracks"])
	assert.False(t, after["cracks"])
}

func TestParseToggles(t *testing.T) {
	q := url.Values{"cracks": {"false"}, "low": {"0"}, "ignored": {"nonsense"}}

	got, err := domain.ParseToggles(q.Get)

	require.NoError(t, err)
	assert.False(t, got["cracks"])
	assert.False(t, got["low"])
	assert.True(t, got["rutting"])
	assert.NotContains(t, got, "ignored")
}

func TestParseToggles_InvalidBool(t *testing.T) {
	q := url.Values{"high": {"maybe"}}

	_, err := domain.ParseToggles(q.Get)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCountBySeverity(t *testing.T) {
	got := domain.CountBySeverity(sampleRecords())

	assert.Equal(t, domain.SeverityCounts{High: 2, Medium: 2, Low: 1}, got)
}
