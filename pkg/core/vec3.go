package core

import "math"

// Vec2 represents a 2D point, used for random sample pairs
type Vec2 struct {
	X, Y float64
}

// NewVec2 creates a new Vec2
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float64
}

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns the sum of two vectors
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Subtract returns the difference of two vectors
func (v Vec3) Subtract(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Multiply returns the vector scaled by a scalar
func (v Vec3) Multiply(scalar float64) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// Length returns the magnitude of the vector
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// LengthSquared returns the squared magnitude of the vector
func (v Vec3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Dot returns the dot product of two vectors
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// AbsDot returns the absolute value of the dot product
func (v Vec3) AbsDot(other Vec3) float64 {
	return math.Abs(v.Dot(other))
}

// Normalize returns a unit vector in the same direction
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return Vec3{0, 0, 0}
	}
	return Vec3{v.X / length, v.Y / length, v.Z / length}
}

// Cross returns the cross product of two vectors
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Negate returns the negative of the vector
func (v Vec3) Negate() Vec3 {
	return Vec3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// Local shading frame conventions: the z axis is the shading normal, so the
// cosine of a direction's polar angle is just its z component.

// CosTheta returns the cosine of the angle between v and the frame normal
func CosTheta(v Vec3) float64 {
	return v.Z
}

// Cos2Theta returns the squared cosine of the polar angle
func Cos2Theta(v Vec3) float64 {
	return v.Z * v.Z
}

// AbsCosTheta returns the absolute cosine of the polar angle
func AbsCosTheta(v Vec3) float64 {
	return math.Abs(v.Z)
}

// Sin2Theta returns the squared sine of the polar angle
func Sin2Theta(v Vec3) float64 {
	return math.Max(0, 1-Cos2Theta(v))
}

// SinTheta returns the sine of the polar angle
func SinTheta(v Vec3) float64 {
	return math.Sqrt(Sin2Theta(v))
}

// Tan2Theta returns the squared tangent of the polar angle
func Tan2Theta(v Vec3) float64 {
	return Sin2Theta(v) / Cos2Theta(v)
}

// TanTheta returns the tangent of the polar angle
func TanTheta(v Vec3) float64 {
	return SinTheta(v) / CosTheta(v)
}

// CosPhi returns the cosine of the azimuthal angle
func CosPhi(v Vec3) float64 {
	sinTheta := SinTheta(v)
	if sinTheta == 0 {
		return 1
	}
	return Clamp(v.X/sinTheta, -1, 1)
}

// SinPhi returns the sine of the azimuthal angle
func SinPhi(v Vec3) float64 {
	sinTheta := SinTheta(v)
	if sinTheta == 0 {
		return 0
	}
	return Clamp(v.Y/sinTheta, -1, 1)
}

// CosDPhi returns the cosine of the azimuthal angle between two directions
func CosDPhi(wa, wb Vec3) float64 {
	waXY := wa.X*wa.X + wa.Y*wa.Y
	wbXY := wb.X*wb.X + wb.Y*wb.Y
	if waXY == 0 || wbXY == 0 {
		return 1
	}
	return Clamp((wa.X*wb.X+wa.Y*wb.Y)/math.Sqrt(waXY*wbXY), -1, 1)
}

// SameHemisphere reports whether two directions lie in the same local hemisphere
func SameHemisphere(wa, wb Vec3) bool {
	return wa.Z*wb.Z > 0
}

// Reflect returns the reflection of w about the normal n
func Reflect(w, n Vec3) Vec3 {
	return w.Negate().Add(n.Multiply(2 * w.Dot(n)))
}

// Refract computes the refracted direction for w about normal n with relative
// index of refraction eta. Returns false on total internal reflection.
func Refract(w, n Vec3, eta float64) (Vec3, bool) {
	cosThetaI := n.Dot(w)
	sin2ThetaI := math.Max(0, 1-cosThetaI*cosThetaI)
	sin2ThetaT := sin2ThetaI / (eta * eta)
	if sin2ThetaT >= 1 {
		return Vec3{}, false // Total internal reflection
	}
	cosThetaT := math.Sqrt(1 - sin2ThetaT)
	wt := w.Negate().Multiply(1 / eta).Add(n.Multiply(cosThetaI/eta - cosThetaT))
	return wt, true
}

// FaceForward flips n so that it lies in the same hemisphere as v
func FaceForward(n, v Vec3) Vec3 {
	if n.Dot(v) < 0 {
		return n.Negate()
	}
	return n
}

// SafeSqrt returns sqrt(x), clamping small negative inputs to zero
func SafeSqrt(x float64) float64 {
	return math.Sqrt(math.Max(0, x))
}

// SafeASin returns asin(x) with the argument clamped to [-1, 1]
func SafeASin(x float64) float64 {
	return math.Asin(Clamp(x, -1, 1))
}

// Clamp restricts x to the range [lo, hi]
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Sqr returns x squared
func Sqr(x float64) float64 {
	return x * x
}

// Lerp linearly interpolates between a and b by t
func Lerp(t, a, b float64) float64 {
	return (1-t)*a + t*b
}
