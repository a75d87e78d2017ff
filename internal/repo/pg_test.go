package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/roadscan/internal/domain"
	"github.com/pkordes/roadscan/internal/repo"
	"github.com/pkordes/roadscan/testutil"
)

func distressFixture() domain.DistressRecord {
	return domain.DistressRecord{
		Type:        domain.TypeCracks,
		Severity:    domain.SeverityHigh,
		Location:    orb.Point{77.2090, 28.6139},
		Timestamp:   domain.VideoOffset(5*time.Minute + 23*time.Second),
		Description: "Longitudinal crack detected",
		KM:          0.5,
		Confidence:  0.95,
		LengthM:     15,
	}
}

func TestPgDistressRepo_CreateAndGet(t *testing.T) {
	r := repo.NewDistressRepo(testutil.NewTx(t))
	ctx := context.Background()

	created, err := r.Create(ctx, distressFixture())
	require.NoError(t, err)
	assert.NotZero(t, created.ID, "ID should be assigned by the database")

	got, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, "00:05:23", got.Timestamp.String())
	assert.InDelta(t, 28.6139, got.Lat(), 1e-9)
}

func TestPgDistressRepo_GetByID_NotFound(t *testing.T) {
	r := repo.NewDistressRepo(testutil.NewTx(t))

	_, err := r.GetByID(context.Background(), -1)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPgDistressRepo_CreateBatch_ListOrderedByKM(t *testing.T) {
	r := repo.NewDistressRepo(testutil.NewTx(t))
	ctx := context.Background()

	far := distressFixture()
	far.KM = 900
	near := distressFixture()
	near.KM = 800

	created, err := r.CreateBatch(ctx, []domain.DistressRecord{far, near})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Less(t, created[0].ID, created[1].ID)

	all, err := r.List(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(all), 2)
	assert.Equal(t, created[1].ID, all[len(all)-2].ID)
	assert.Equal(t, created[0].ID, all[len(all)-1].ID)
}

func TestPgDistressRepo_CreateBatch_RejectsInvalidRow(t *testing.T) {
	r := repo.NewDistressRepo(testutil.NewTx(t))

	bad := distressFixture()
	bad.Type = "Potholes" // violates the CHECK constraint

	_, err := r.CreateBatch(context.Background(), []domain.DistressRecord{distressFixture(), bad})

	assert.Error(t, err)
}

func TestPgNoteRepo_CreateAndList(t *testing.T) {
	r := repo.NewNoteRepo(testutil.NewTx(t))
	ctx := context.Background()

	n := domain.InspectorNote{
		Title:     "Drainage blocked",
		Content:   "Culvert inlet silted up.",
		Location:  "NH-1, KM 30.1",
		Inspector: "Inspector D. Rao",
		Priority:  domain.PriorityHigh,
		Tags:      []string{"Drainage"},
		CreatedAt: time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC),
	}

	created, err := r.Create(ctx, n)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, []string{"Drainage"}, created.Tags)

	all, err := r.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, all)
	assert.Equal(t, created.ID, all[0].ID, "newest note comes first")
}

func TestPgNoteRepo_GetByID_NotFound(t *testing.T) {
	r := repo.NewNoteRepo(testutil.NewTx(t))

	_, err := r.GetByID(context.Background(), -1)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
