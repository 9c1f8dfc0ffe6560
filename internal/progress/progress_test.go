package progress

import (
	"math"
	"math/rand"
	"testing"

	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/stretchr/testify/assert"
)

var allMetrics = []domain.MetricType{
	domain.MetricNumber, domain.MetricPercentage, domain.MetricCurrency, domain.MetricCustom,
}

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name                  string
		actual, start, target float64
		metric                domain.MetricType
		want                  float64
	}{
		{"halfway number", 50, 0, 100, domain.MetricNumber, 50},
		{"offset start", 15, 10, 20, domain.MetricCurrency, 50},
		{"percentage same formula", 30, 20, 60, domain.MetricPercentage, 25},
		{"beyond target", 150, 0, 100, domain.MetricCustom, 150},
		{"zero span reached", 5, 5, 5, domain.MetricNumber, 100},
		{"zero span not reached", 4, 5, 5, domain.MetricNumber, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeProgress(tt.actual, tt.start, tt.target, tt.metric)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

// TestComputeProgress_Endpoints checks that start maps to 0 and target to 100
// for every metric type and any start < target.
func TestComputeProgress_Endpoints(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 200; trial++ {
		start := rng.Float64()*1000 - 500
		target := start + rng.Float64()*1000 + 0.001
		for _, m := range allMetrics {
			assert.InDelta(t, 0, ComputeProgress(start, start, target, m), 1e-9, "trial %d metric %s", trial, m)
			assert.InDelta(t, 100, ComputeProgress(target, start, target, m), 1e-9, "trial %d metric %s", trial, m)
		}
	}
}

func TestClampEdit_RejectsDecrease(t *testing.T) {
	for _, m := range allMetrics {
		got, ok := ClampEdit(m, 40, 50, 0, 100)
		assert.False(t, ok, m)
		assert.Equal(t, 50.0, got, m)
	}
}

func TestClampEdit_PercentageBounds(t *testing.T) {
	got, ok := ClampEdit(domain.MetricPercentage, 9999, 0, 0, 100)
	assert.True(t, ok)
	assert.Equal(t, 100.0, got)

	got, ok = ClampEdit(domain.MetricPercentage, 75, 20, 0, 100)
	assert.True(t, ok)
	assert.Equal(t, 75.0, got)
}

func TestClampEdit_RejectsNonFinite(t *testing.T) {
	tests := []struct {
		name     string
		proposed float64
	}{
		{"NaN", math.NaN()},
		{"+Inf", math.Inf(1)},
		{"-Inf", math.Inf(-1)},
	}
	for _, tc := range tests {
		for _, m := range allMetrics {
			got, ok := ClampEdit(m, tc.proposed, 40, 0, 100)
			assert.False(t, ok, "%s %s", tc.name, m)
			assert.Equal(t, 40.0, got, "%s %s", tc.name, m)
		}
	}
}

func TestDraft_NonFiniteKeepsFloor(t *testing.T) {
	d := NewDraft(testOKR())

	held, ok, err := d.Set(1, math.NaN())
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 40.0, held)

	held, ok, err = d.Set(1, 10)
	assert.NoError(t, err)
	assert.False(t, ok, "the server value is still the floor")
	assert.Equal(t, 40.0, held)

	_, ok, _ = d.Set(0, math.Inf(1))
	assert.False(t, ok)
	e, _ := d.Entry(0)
	assert.Equal(t, 10.0, e.NewProgress)
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue("value", " 12.5 ")
	assert.NoError(t, err)
	assert.Equal(t, 12.5, v)

	for _, raw := range []string{"NaN", "inf", "-Inf", "+Infinity", "1e999", "abc", ""} {
		_, err := ParseValue("value", raw)
		var verr *ValidationError
		if assert.ErrorAs(t, err, &verr, raw) {
			assert.Equal(t, "value", verr.Field)
		}
	}
}

func TestClampEdit_NonPercentageUnbounded(t *testing.T) {
	got, ok := ClampEdit(domain.MetricNumber, 9999, 0, 0, 100)
	assert.True(t, ok)
	assert.Equal(t, 9999.0, got)
}

// TestClampEdit_PercentageAlwaysInBounds property-tests that percentage
// output stays within [start, target] for any accepted proposal.
func TestClampEdit_PercentageAlwaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 500; trial++ {
		start := float64(rng.Intn(50))
		target := start + float64(rng.Intn(200)+1)
		current := start + rng.Float64()*(target-start)
		proposed := rng.Float64()*20000 - 10000

		got, ok := ClampEdit(domain.MetricPercentage, proposed, current, start, target)
		assert.GreaterOrEqual(t, got, start, "trial %d", trial)
		assert.LessOrEqual(t, got, target, "trial %d", trial)
		if proposed < current {
			assert.False(t, ok, "trial %d", trial)
			assert.Equal(t, current, got, "trial %d", trial)
		}
	}
}

func testOKR() *domain.Objective {
	return &domain.Objective{
		ID:        "okr-1",
		Objective: "Ship",
		KeyResults: []domain.KeyResult{
			{Title: "Tasks", MetricType: domain.MetricNumber, StartValue: 0, TargetValue: 100, ActualValue: 10, Progress: 10, Unit: "tasks"},
			{Title: "Coverage", MetricType: domain.MetricPercentage, StartValue: 0, TargetValue: 100, ActualValue: 40, Progress: 40},
		},
	}
}

// TestDraft_MonotonicSequence property-tests that the accepted actual value
// never decreases across any sequence of edits.
func TestDraft_MonotonicSequence(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	for trial := 0; trial < 100; trial++ {
		d := NewDraft(testOKR())
		prev := []float64{10, 40}
		for step := 0; step < 30; step++ {
			i := rng.Intn(2)
			proposed := rng.Float64()*300 - 100
			held, ok, err := d.Set(i, proposed)
			assert.NoError(t, err)
			assert.GreaterOrEqual(t, held, prev[i], "trial %d step %d", trial, step)
			if !ok {
				assert.Equal(t, prev[i], held, "trial %d step %d: rejected edit must be a no-op", trial, step)
			}
			prev[i] = held
		}
	}
}

func TestDraft_SetRecomputesProgress(t *testing.T) {
	d := NewDraft(testOKR())

	held, ok, err := d.Set(0, 50)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 50.0, held)

	e, err := d.Entry(0)
	assert.NoError(t, err)
	assert.Equal(t, 50.0, e.NewProgress)
	assert.True(t, e.Changed())

	held, ok, _ = d.Set(1, 500)
	assert.True(t, ok)
	assert.Equal(t, 100.0, held)
}

func TestDraft_ResetRestoresServerValue(t *testing.T) {
	d := NewDraft(testOKR())
	_, _, _ = d.Set(0, 80)
	assert.NoError(t, d.Reset(0))

	e, _ := d.Entry(0)
	assert.Equal(t, 10.0, e.NewActual)
	assert.Equal(t, 10.0, e.NewProgress)
	assert.False(t, e.Changed())
}

func TestDraft_IndexOutOfRange(t *testing.T) {
	d := NewDraft(testOKR())
	_, _, err := d.Set(5, 1)
	assert.ErrorIs(t, err, ErrKeyResultIndex)
	assert.ErrorIs(t, d.Reset(-1), ErrKeyResultIndex)
}

func TestDraft_ValidateRequiresComment(t *testing.T) {
	d := NewDraft(testOKR())

	for _, c := range []string{"", "   ", "\n\t"} {
		d.SetComment(c)
		err := d.Validate()
		var verr *ValidationError
		if assert.ErrorAs(t, err, &verr) {
			assert.Equal(t, "comment", verr.Field)
		}
	}

	d.SetComment("  weekly sync  ")
	assert.NoError(t, d.Validate())
}

func TestDraft_RequestCarriesEveryKeyResult(t *testing.T) {
	d := NewDraft(testOKR())
	_, _, _ = d.Set(0, 50)
	d.SetComment("  halfway  ")

	req := d.Request()
	assert.Equal(t, "okr-1", req.OKRID)
	assert.Equal(t, "halfway", req.Comment)
	assert.Equal(t, []domain.CheckInValue{
		{Index: 0, NewActualValue: 50, NewProgress: 50},
		{Index: 1, NewActualValue: 40, NewProgress: 40},
	}, req.Updates)
}
