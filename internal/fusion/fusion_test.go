package fusion

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/aicred/internal/level"
	"github.com/abhisek/aicred/internal/proficiency"
)

var (
	day1 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	day2 = time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC)
)

func ps(group string, score float64) proficiency.Score {
	return proficiency.Score{SubjectGroup: group, Score: score, Level: level.ForPoints(score)}
}

func TestCalculate_ScenarioA(t *testing.T) {
	scores := []proficiency.Score{ps("Science", 120), ps("Finance", 150)}

	kfs, snap := Calculate(scores, nil, day1)

	assert.True(t, kfs.IsEligible)
	assert.Equal(t, 270.0, kfs.Total)
	assert.Equal(t, level.Undergraduate, kfs.Level)
	require.NotNil(t, kfs.Major)
	assert.Equal(t, Subject{Subject: "Finance", Points: 150, Level: level.Undergraduate}, *kfs.Major)
	require.NotNil(t, kfs.MinorA)
	assert.Equal(t, "Science", kfs.MinorA.Subject)
	assert.Equal(t, 120.0, kfs.MinorA.Points)
	assert.Nil(t, kfs.MinorB)
	assert.Nil(t, kfs.DailyProgress)

	require.NotNil(t, snap)
	assert.Equal(t, Snapshot{Total: 270, UpdatedAt: day1}, *snap)
}

func TestCalculate_ScenarioB(t *testing.T) {
	kfs, snap := Calculate([]proficiency.Score{ps("Medicine", 500)}, nil, day1)

	assert.False(t, kfs.IsEligible)
	assert.Zero(t, kfs.Total)
	assert.Equal(t, level.MiddleSchool, kfs.Level)
	assert.Nil(t, kfs.Major)
	assert.Nil(t, snap)
}

func TestCalculate_Ineligible(t *testing.T) {
	tests := []struct {
		name   string
		scores []proficiency.Score
	}{
		{"empty", nil},
		{"one eligible", []proficiency.Score{ps("A", 100), ps("B", 99.99)}},
		{"none eligible", []proficiency.Score{ps("A", 50), ps("B", 80), ps("C", -10)}},
	}

	prev := &Snapshot{Total: 300, UpdatedAt: day1}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kfs, snap := Calculate(tt.scores, prev, day2)
			assert.Equal(t, Score{Level: level.MiddleSchool}, kfs)
			assert.Nil(t, snap)
		})
	}
}

func TestCalculate_TopThreeOnly(t *testing.T) {
	scores := []proficiency.Score{
		ps("A", 100), ps("B", 400), ps("C", 250), ps("D", 320), ps("E", 40),
	}

	kfs, _ := Calculate(scores, nil, day1)

	assert.Equal(t, "B", kfs.Major.Subject)
	assert.Equal(t, "D", kfs.MinorA.Subject)
	assert.Equal(t, "C", kfs.MinorB.Subject)
	assert.Equal(t, 970.0, kfs.Total)
	assert.Equal(t, level.PhD, kfs.Level)
}

func TestCalculate_TiesKeepInputOrder(t *testing.T) {
	kfs, _ := Calculate([]proficiency.Score{ps("X", 150), ps("Y", 150), ps("Z", 150)}, nil, day1)
	assert.Equal(t, "X", kfs.Major.Subject)
	assert.Equal(t, "Y", kfs.MinorA.Subject)
	assert.Equal(t, "Z", kfs.MinorB.Subject)
}

func TestCalculate_LevelUsesFusionThresholds(t *testing.T) {
	tests := []struct {
		scores []float64
		want   level.Level
	}{
		{[]float64{100, 100}, level.HighSchool},
		{[]float64{100, 100, 100}, level.Undergraduate},
		{[]float64{200, 200}, level.Undergraduate},
		{[]float64{250, 200}, level.Masters},
		{[]float64{300, 300}, level.Masters},
		{[]float64{300, 301}, level.PhD},
	}

	for _, tt := range tests {
		var scores []proficiency.Score
		for i, s := range tt.scores {
			scores = append(scores, ps(string(rune('A'+i)), s))
		}
		kfs, _ := Calculate(scores, nil, day1)
		assert.Equal(t, tt.want, kfs.Level, "scores %v", tt.scores)
	}
}

func TestCalculate_OrderInvariant(t *testing.T) {
	base := []proficiency.Score{
		ps("A", 120), ps("B", 480), ps("C", 99), ps("D", 310), ps("E", 150), ps("F", 205),
	}
	want, _ := Calculate(base, nil, day1)

	r := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		shuffled := append([]proficiency.Score(nil), base...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got, _ := Calculate(shuffled, nil, day1)
		assert.Equal(t, want, got)
	}
}

func TestCalculate_DailyProgress(t *testing.T) {
	scores := []proficiency.Score{ps("A", 200), ps("B", 150)}

	t.Run("no snapshot", func(t *testing.T) {
		kfs, _ := Calculate(scores, nil, day2)
		assert.Nil(t, kfs.DailyProgress)
	})

	t.Run("same day", func(t *testing.T) {
		prev := &Snapshot{Total: 100, UpdatedAt: day2.Add(-8 * time.Hour)}
		kfs, snap := Calculate(scores, prev, day2)
		assert.Nil(t, kfs.DailyProgress)
		assert.Equal(t, Snapshot{Total: 350, UpdatedAt: day2}, *snap)
	})

	t.Run("earlier day", func(t *testing.T) {
		prev := &Snapshot{Total: 270, UpdatedAt: day1}
		kfs, _ := Calculate(scores, prev, day2)
		require.NotNil(t, kfs.DailyProgress)
		assert.Equal(t, DailyProgress{Previous: 270, Current: 350, Change: 80}, *kfs.DailyProgress)
	})

	t.Run("negative change", func(t *testing.T) {
		prev := &Snapshot{Total: 400, UpdatedAt: day1}
		kfs, _ := Calculate(scores, prev, day2)
		assert.Equal(t, -50.0, kfs.DailyProgress.Change)
	})
}

func TestCalculate_DayBoundaryUsesNowLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 20:00 UTC on May 1 is already May 2 in UTC+10.
	prev := &Snapshot{Total: 220, UpdatedAt: time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)}
	now := time.Date(2024, 5, 2, 9, 0, 0, 0, loc)

	kfs, _ := Calculate([]proficiency.Score{ps("A", 120), ps("B", 130)}, prev, now)
	assert.Nil(t, kfs.DailyProgress)
}

func TestService_Compute(t *testing.T) {
	ctx := context.Background()
	store := &MemorySnapshotStore{}
	now := day1
	svc := NewService(store, func() time.Time { return now })

	scores := []proficiency.Score{ps("Science", 120), ps("Finance", 150)}

	kfs, err := svc.Compute(ctx, scores)
	require.NoError(t, err)
	assert.Nil(t, kfs.DailyProgress)

	snap, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 270.0, snap.Total)

	// A later call on the same day overwrites the baseline.
	now = day1.Add(3 * time.Hour)
	scores = append(scores, ps("Medicine", 110))
	kfs, err = svc.Compute(ctx, scores)
	require.NoError(t, err)
	assert.Nil(t, kfs.DailyProgress)
	snap, _ = store.Get(ctx)
	assert.Equal(t, 380.0, snap.Total)
	assert.Equal(t, now, snap.UpdatedAt)

	now = day2
	kfs, err = svc.Compute(ctx, scores)
	require.NoError(t, err)
	require.NotNil(t, kfs.DailyProgress)
	assert.Equal(t, 380.0, kfs.DailyProgress.Previous)
	assert.Zero(t, kfs.DailyProgress.Change)
}

func TestService_IneligibleLeavesSnapshot(t *testing.T) {
	ctx := context.Background()
	store := &MemorySnapshotStore{}
	require.NoError(t, store.Set(ctx, Snapshot{Total: 270, UpdatedAt: day1}))

	svc := NewService(store, func() time.Time { return day2 })
	kfs, err := svc.Compute(ctx, []proficiency.Score{ps("A", 500)})
	require.NoError(t, err)
	assert.False(t, kfs.IsEligible)

	snap, _ := store.Get(ctx)
	assert.Equal(t, Snapshot{Total: 270, UpdatedAt: day1}, *snap)
}

type failingStore struct{ getErr, setErr error }

func (f failingStore) Get(context.Context) (*Snapshot, error) { return nil, f.getErr }
func (f failingStore) Set(context.Context, Snapshot) error    { return f.setErr }

func TestService_StoreErrors(t *testing.T) {
	boom := errors.New("boom")
	scores := []proficiency.Score{ps("A", 120), ps("B", 130)}

	_, err := NewService(failingStore{getErr: boom}, nil).Compute(context.Background(), scores)
	assert.ErrorIs(t, err, boom)

	kfs, err := NewService(failingStore{setErr: boom}, nil).Compute(context.Background(), scores)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 250.0, kfs.Total)
}

func TestService_Seed(t *testing.T) {
	ctx := context.Background()
	store := &MemorySnapshotStore{}
	now := day1
	svc := NewService(store, func() time.Time { return now })
	scores := []proficiency.Score{ps("Science", 120), ps("Finance", 150)}

	_, seeded, err := svc.Seed(ctx, scores)
	require.NoError(t, err)
	assert.True(t, seeded)

	// Same day: the existing snapshot stays.
	now = day1.Add(10 * time.Hour)
	kfs, seeded, err := svc.Seed(ctx, append(scores, ps("Medicine", 110)))
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Equal(t, 380.0, kfs.Total)
	snap, _ := store.Get(ctx)
	assert.Equal(t, Snapshot{Total: 270, UpdatedAt: day1}, *snap)

	now = day2
	_, seeded, err = svc.Seed(ctx, scores)
	require.NoError(t, err)
	assert.True(t, seeded)
	snap, _ = store.Get(ctx)
	assert.Equal(t, day2, snap.UpdatedAt)

	_, seeded, err = NewService(failingStore{getErr: errors.New("boom")}, nil).Seed(ctx, scores)
	assert.Error(t, err)
	assert.False(t, seeded)
}
