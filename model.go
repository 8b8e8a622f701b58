package minkowski

import (
	"math"
)

const (
	sigmoidTableSize = 512
	maxSigmoid       = 8.0

	// Tangent vectors shorter than this are not worth a geodesic step.
	minStepSize = 1e-10

	// The Minkowski dot of two hyperboloid points is <= -1, so the
	// logistic score is shifted to re-center it.
	scoreShift = 3.0
)

// Model computes the skip-gram negative-sampling objective on the
// hyperboloid and applies the Riemannian gradient steps.  Each worker owns
// one Model; the vector table is shared, the scratch vectors and the
// performance accumulators are worker-local.
type Model struct {
	vectors []Vector
	args    *Args

	accGradSource Vector
	gradOutput    Vector

	performance float64
	nexamples   int64

	tSigmoid []float64
}

// NewModel returns a model operating on the shared vector table.
func NewModel(vectors []Vector, args *Args) *Model {
	m := &Model{
		vectors:       vectors,
		args:          args,
		accGradSource: NewVector(args.Dimension),
		gradOutput:    NewVector(args.Dimension),
		performance:   0,
		nexamples:     1,
	}
	m.precomputeSigmoid()
	return m
}

func (m *Model) precomputeSigmoid() {
	m.tSigmoid = make([]float64, sigmoidTableSize+1)
	for i := range m.tSigmoid {
		x := float64(i)*2*maxSigmoid/sigmoidTableSize - maxSigmoid
		m.tSigmoid[i] = 1.0 / (1.0 + math.Exp(-x))
	}
}

func (m *Model) sigmoid(x float64) float64 {
	if x < -maxSigmoid {
		return 0
	}
	if x > maxSigmoid {
		return 1
	}
	i := int((x + maxSigmoid) * sigmoidTableSize / maxSigmoid / 2)
	return m.tSigmoid[i]
}

// BinaryLogistic performs one binary-logistic step for the given source
// point and target id.  The gradient at the source is accumulated (without
// projection) into the scratch vector; the target is updated immediately.
// Returns the negative log-likelihood of the example.
// Pre: the caller holds the locks of both the source and the target.
func (m *Model) BinaryLogistic(source Vector, target int32, label bool, lr float64) float64 {
	score := m.sigmoid(MinkowskiDot(source, m.vectors[target]) + scoreShift)
	delta := -score
	if label {
		delta = 1 - score
	}

	// accumulate the unprojected gradient for the source word vector
	m.accGradSource.AddScaled(m.vectors[target], delta)

	// update the target word vector
	copy(m.gradOutput, source)
	m.gradOutput.Scale(lr * delta)
	m.gradOutput.ProjectOntoTangentSpace(m.vectors[target])
	m.Update(m.vectors[target], m.gradOutput)

	if label {
		return -math.Log(score + 1e-8)
	}
	return -math.Log(1.0 - score + 1e-8)
}

// Update moves the hyperboloid point, in place, along the geodesic in the
// direction of its tangent vector, travelling the Minkowski length of the
// tangent but at most MaxStepSize.
func (m *Model) Update(point, tangent Vector) {
	stepSize := math.Sqrt(MinkowskiDot(tangent, tangent))
	if stepSize < minStepSize {
		return
	}
	tangent.Scale(1.0 / stepSize)
	if stepSize > m.args.MaxStepSize {
		stepSize = m.args.MaxStepSize
	}
	point.GeodesicUpdate(tangent, stepSize)
}

// LogBilinearNegativeSampling performs one skip-gram example: samples[0] is
// the positive context, the rest are negatives.  The targets are updated
// one by one; the source step is applied once, from the accumulated
// gradient projected onto the tangent space at the source.
// Pre: the caller holds the locks of the source and of every sample.
func (m *Model) LogBilinearNegativeSampling(source int32, samples []int32, lr float64) {
	m.accGradSource.Zero()
	for n, target := range samples {
		m.performance += m.BinaryLogistic(m.vectors[source], target, n == 0, lr)
	}
	m.nexamples++

	m.accGradSource.Scale(lr)
	m.accGradSource.ProjectOntoTangentSpace(m.vectors[source])
	m.Update(m.vectors[source], m.accGradSource)
}

// GetPerformance returns the loss accumulated since the last call divided by
// one more than the number of examples seen since then (the example counter
// restarts at 1), and resets the accumulators (so this function is not
// idempotent).
func (m *Model) GetPerformance() float64 {
	avg := m.performance / float64(m.nexamples)
	m.performance = 0
	m.nexamples = 1
	return avg
}
