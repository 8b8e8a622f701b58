package minkowski

import (
	"math"
	"math/rand"
	"testing"
)

func newTestModel(t *testing.T, dimension, nwords int, seed int64) (*Model, []Vector) {
	t.Helper()
	args := DefaultArgs()
	args.Dimension = dimension
	rng := rand.New(rand.NewSource(seed))
	vectors := make([]Vector, nwords)
	for i := range vectors {
		vectors[i] = NewVector(dimension)
		RandomHyperboloidPoint(vectors[i], rng, 0.5)
	}
	return NewModel(vectors, args), vectors
}

func TestSigmoidTable(t *testing.T) {
	model, _ := newTestModel(t, 3, 1, 1)
	tests := []struct {
		x    float64
		want float64
	}{
		{-100, 0},
		{-8.001, 0},
		{0, 0.5},
		{8.001, 1},
		{100, 1},
	}
	for _, tc := range tests {
		if got := model.sigmoid(tc.x); math.Abs(got-tc.want) > 0.01 {
			t.Errorf("sigmoid(%v) = %v, want about %v", tc.x, got, tc.want)
		}
	}
	if model.sigmoid(-1) >= model.sigmoid(1) {
		t.Error("sigmoid is not increasing")
	}
}

func TestUpdateClipsStepSize(t *testing.T) {
	model, _ := newTestModel(t, 3, 1, 1)
	point := Vector{0, 0, 1}
	before := point.Clone()
	rng := rand.New(rand.NewSource(2))
	tangent := randomUnitTangentAt(rng, point)
	tangent.Scale(10) // well beyond the clip

	model.Update(point, tangent)
	if dist := Distance(before, point); math.Abs(dist-model.args.MaxStepSize) > 1e-5 {
		t.Errorf("clipped step travelled %v, want %v", dist, model.args.MaxStepSize)
	}
}

func TestUpdateIgnoresTinyStep(t *testing.T) {
	model, _ := newTestModel(t, 3, 1, 1)
	point := Vector{0, 0, 1}
	before := point.Clone()
	rng := rand.New(rand.NewSource(2))
	tangent := randomUnitTangentAt(rng, point)
	tangent.Scale(1e-12)

	model.Update(point, tangent)
	for i := range point {
		if point[i] != before[i] {
			t.Fatalf("point moved on a step below the minimum: %v -> %v", before, point)
		}
	}
}

func TestLogBilinearNegativeSamplingAttractsPositive(t *testing.T) {
	model, vectors := newTestModel(t, 5, 2, 3)
	before := Distance(vectors[0], vectors[1])
	model.LogBilinearNegativeSampling(0, []int32{1}, 0.05)
	after := Distance(vectors[0], vectors[1])
	if after >= before {
		t.Errorf("positive pair distance went from %v to %v, want a decrease", before, after)
	}
	for i, v := range vectors {
		if mdp := MinkowskiDot(v, v); math.Abs(mdp+1) > testEpsilon {
			t.Errorf("vector %d left the hyperboloid: <v, v> = %v", i, mdp)
		}
	}
}

func TestBinaryLogisticRepelsNegative(t *testing.T) {
	model, vectors := newTestModel(t, 5, 2, 4)
	before := Distance(vectors[0], vectors[1])
	// a negative example moves the target away; the source is untouched
	// until the accumulated gradient is applied
	model.BinaryLogistic(vectors[0], 1, false, 0.05)
	after := Distance(vectors[0], vectors[1])
	if after <= before {
		t.Errorf("negative pair distance went from %v to %v, want an increase", before, after)
	}
}

func TestGetPerformance(t *testing.T) {
	model, _ := newTestModel(t, 5, 2, 5)
	model.LogBilinearNegativeSampling(0, []int32{1}, 0.05)
	if perf := model.GetPerformance(); perf <= 0 {
		t.Errorf("performance after an example = %v, want > 0", perf)
	}
	if perf := model.GetPerformance(); perf != 0 {
		t.Errorf("performance after reset = %v, want 0", perf)
	}
}
