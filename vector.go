package minkowski

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Tolerance on the Minkowski self-product of a hyperboloid point before it
// is projected back onto the hyperboloid.
const mdpErrorTolerance = 1e-15

// Vector is a vector in Minkowski ambient space, where the last coordinate
// is considered to be time-like.  Depending on context it represents either
// a point on the upper sheet of the hyperboloid {v : <v, v> = -1, v[d-1] > 0}
// or a tangent vector at such a point.
type Vector []float64

// NewVector returns a zero vector of the given ambient dimension.
func NewVector(dimension int) Vector {
	return make(Vector, dimension)
}

// Zero sets all entries to zero.
func (v Vector) Zero() {
	for i := range v {
		v[i] = 0
	}
}

// Scale multiplies all entries by a, in place.
func (v Vector) Scale(a float64) {
	floats.Scale(a, v)
}

// Add adds w to this vector, in place.
func (v Vector) Add(w Vector) {
	floats.Add(v, w)
}

// AddScaled adds s * w to this vector, in place.
func (v Vector) AddScaled(w Vector, s float64) {
	floats.AddScaled(v, s, w)
}

// Clone returns a copy of this vector.
func (v Vector) Clone() Vector {
	w := make(Vector, len(v))
	copy(w, v)
	return w
}

// MinkowskiDot returns the Minkowski inner product of v and w, where the
// last coordinate is interpreted as being time-like.
func MinkowskiDot(v, w Vector) float64 {
	n := len(v)
	return floats.Dot(v[:n-1], w[:n-1]) - v[n-1]*w[n-1]
}

// Distance returns the geodesic distance between two points on the
// hyperboloid.  Both arguments must lie on the hyperboloid, so that the
// argument of acosh is >= 1.
func Distance(p, q Vector) float64 {
	return math.Acosh(-MinkowskiDot(p, q))
}

// ProjectOntoTangentSpace projects this vector, in place, onto the tangent
// space of the hyperboloid at the given point.
func (v Vector) ProjectOntoTangentSpace(point Vector) {
	v.AddScaled(point, MinkowskiDot(point, v))
}

// EnsureOnHyperboloid projects this time-like point back onto the
// hyperboloid, if it has drifted off.  Used to ensure numerical stability.
// Panics if the vector is space-like, since no such projection exists.
func (v Vector) EnsureOnHyperboloid() {
	mdp := MinkowskiDot(v, v)
	if math.Abs(mdp+1) > mdpErrorTolerance {
		if mdp >= 0 {
			panic("minkowski: space-like vector cannot be projected onto the hyperboloid")
		}
		v.Scale(1.0 / math.Sqrt(-mdp))
	}
}

// GeodesicUpdate replaces this point, in place, with the point obtained by
// following the geodesic in the direction of tangentUnitVec for distance
// stepSize.  This is the exponential map at the point.
// Pre: tangentUnitVec is a unit tangent vector at this point; stepSize > 0.
func (v Vector) GeodesicUpdate(tangentUnitVec Vector, stepSize float64) {
	v.Scale(math.Cosh(stepSize))
	v.AddScaled(tangentUnitVec, math.Sinh(stepSize))
	v.EnsureOnHyperboloid()
}

// ToBallPoint replaces this hyperboloid point, in place, with its projection
// onto the Poincare ball.  The ball lives in the first dimension-1
// coordinates; the last coordinate becomes zero.
func (v Vector) ToBallPoint() {
	n := len(v)
	denom := v[n-1] + 1
	v[n-1] = 0
	v.Scale(1 / denom)
}

// ToHyperboloidPoint replaces this Poincare ball point, in place, with the
// hyperboloid point whose ball projection it is.
func (v Vector) ToHyperboloidPoint() {
	n := len(v)
	normSqd := MinkowskiDot(v, v)
	v.Scale(2 / (1 - normSqd))
	v[n-1] = (1 + normSqd) / (1 - normSqd)
}

// ToBallTangent replaces this vector, interpreted as a hyperboloid tangent
// vector at the given point, with the corresponding Poincare ball tangent.
func (v Vector) ToBallTangent(hyperboloidPoint Vector) {
	n := len(v)
	denom := hyperboloidPoint[n-1] + 1
	for i := 0; i < n-1; i++ {
		v[i] = (v[i] - hyperboloidPoint[i]*v[n-1]/denom) / denom
	}
	v[n-1] = 0
}

// RandomHyperboloidPoint sets v to a random point on the hyperboloid,
// distributed circularly around the basepoint (0, ..., 0, 1), with the
// hyperbolic distance from the basepoint given by the Euclidean norm of a
// sample from N(0, stdDev^2) over the first dimension-1 coordinates.
func RandomHyperboloidPoint(v Vector, rng *rand.Rand, stdDev float64) {
	n := len(v)
	tangent := NewVector(n)
	tangentNorm := 0.0
	for j := 0; j < n-1; j++ {
		tangent[j] = rng.NormFloat64() * stdDev
		tangentNorm += tangent[j] * tangent[j]
	}
	tangent[n-1] = 0
	tangentNorm = math.Sqrt(tangentNorm)
	tangent.Scale(1 / tangentNorm)
	v.Zero()
	v[n-1] = 1
	v.GeodesicUpdate(tangent, tangentNorm)
}
