package physics

import "math"

// Vec2 is a 2D column vector.
type Vec2 struct {
	X, Y float64
}

func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{v.X + w.X, v.Y + w.Y}
}

func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{v.X - w.X, v.Y - w.Y}
}

func (v Vec2) Mul(s float64) Vec2 {
	return Vec2{s * v.X, s * v.Y}
}

func (v Vec2) Neg() Vec2 {
	return Vec2{-v.X, -v.Y}
}

func (v Vec2) Dot(w Vec2) float64 {
	return v.X*w.X + v.Y*w.Y
}

// Cross is the 2D cross product, a scalar.
func (v Vec2) Cross(w Vec2) float64 {
	return v.X*w.Y - v.Y*w.X
}

func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vec2) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns the unit vector and the original length. Vectors
// shorter than epsilon are returned unchanged with length zero.
func (v Vec2) Normalize() (Vec2, float64) {
	length := v.Length()
	if length < epsilon {
		return v, 0.0
	}
	inv := 1.0 / length
	return Vec2{inv * v.X, inv * v.Y}, length
}

// CrossSV computes s x v for scalar s, yielding a vector.
func CrossSV(s float64, v Vec2) Vec2 {
	return Vec2{-s * v.Y, s * v.X}
}

// CrossVS computes v x s for scalar s, yielding a vector.
func CrossVS(v Vec2, s float64) Vec2 {
	return Vec2{s * v.Y, -s * v.X}
}

func Clamp(a, low, high float64) float64 {
	return math.Max(low, math.Min(a, high))
}

// Vec3 is a 3D column vector, used by the block solvers.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

func Vec3Dot(a, b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func Vec3Cross(a, b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Mat22 is a 2x2 matrix stored in column-major order.
type Mat22 struct {
	Ex, Ey Vec2
}

func (m Mat22) MulVec(v Vec2) Vec2 {
	return Vec2{m.Ex.X*v.X + m.Ey.X*v.Y, m.Ex.Y*v.X + m.Ey.Y*v.Y}
}

func (m Mat22) Inverse() Mat22 {
	a, b, c, d := m.Ex.X, m.Ey.X, m.Ex.Y, m.Ey.Y
	det := a*d - b*c
	if det != 0.0 {
		det = 1.0 / det
	}
	return Mat22{
		Ex: Vec2{det * d, -det * c},
		Ey: Vec2{-det * b, det * a},
	}
}

// Solve solves m * x = b. A singular matrix yields the zero vector.
func (m Mat22) Solve(b Vec2) Vec2 {
	a11, a12, a21, a22 := m.Ex.X, m.Ey.X, m.Ex.Y, m.Ey.Y
	det := a11*a22 - a12*a21
	if det != 0.0 {
		det = 1.0 / det
	}
	return Vec2{det * (a22*b.X - a12*b.Y), det * (a11*b.Y - a21*b.X)}
}

// Mat33 is a 3x3 matrix stored in column-major order.
type Mat33 struct {
	Ex, Ey, Ez Vec3
}

// Solve33 solves m * x = b. A singular matrix yields the zero vector.
func (m Mat33) Solve33(b Vec3) Vec3 {
	det := Vec3Dot(m.Ex, Vec3Cross(m.Ey, m.Ez))
	if det != 0.0 {
		det = 1.0 / det
	}
	return Vec3{
		det * Vec3Dot(b, Vec3Cross(m.Ey, m.Ez)),
		det * Vec3Dot(m.Ex, Vec3Cross(b, m.Ez)),
		det * Vec3Dot(m.Ex, Vec3Cross(m.Ey, b)),
	}
}

// Solve22 solves the upper-left 2x2 block of m against b, ignoring the
// third row and column.
func (m Mat33) Solve22(b Vec2) Vec2 {
	a11, a12, a21, a22 := m.Ex.X, m.Ey.X, m.Ex.Y, m.Ey.Y
	det := a11*a22 - a12*a21
	if det != 0.0 {
		det = 1.0 / det
	}
	return Vec2{det * (a22*b.X - a12*b.Y), det * (a11*b.Y - a21*b.X)}
}

// Rot is a rotation expressed as sine and cosine of an angle.
type Rot struct {
	S, C float64
}

func RotFromAngle(angle float64) Rot {
	return Rot{S: math.Sin(angle), C: math.Cos(angle)}
}

func (q *Rot) Set(angle float64) {
	q.S = math.Sin(angle)
	q.C = math.Cos(angle)
}

func (q Rot) Angle() float64 {
	return math.Atan2(q.S, q.C)
}

// XAxis returns the rotated x axis.
func (q Rot) XAxis() Vec2 {
	return Vec2{q.C, q.S}
}

// YAxis returns the rotated y axis.
func (q Rot) YAxis() Vec2 {
	return Vec2{-q.S, q.C}
}

// Rotate applies the rotation to a vector.
func (q Rot) Rotate(v Vec2) Vec2 {
	return Vec2{q.C*v.X - q.S*v.Y, q.S*v.X + q.C*v.Y}
}

// InvRotate applies the inverse rotation to a vector.
func (q Rot) InvRotate(v Vec2) Vec2 {
	return Vec2{q.C*v.X + q.S*v.Y, -q.S*v.X + q.C*v.Y}
}

// Transform is a rigid frame: a translation and a rotation.
type Transform struct {
	P Vec2
	Q Rot
}

// Apply maps a local point into the parent frame.
func (t Transform) Apply(v Vec2) Vec2 {
	return Vec2{
		t.Q.C*v.X - t.Q.S*v.Y + t.P.X,
		t.Q.S*v.X + t.Q.C*v.Y + t.P.Y,
	}
}

// ApplyInverse maps a parent-frame point into the local frame.
func (t Transform) ApplyInverse(v Vec2) Vec2 {
	px := v.X - t.P.X
	py := v.Y - t.P.Y
	return Vec2{t.Q.C*px + t.Q.S*py, -t.Q.S*px + t.Q.C*py}
}

// Sweep interpolates a body's center of mass and angle across a step.
// The local center is the center of mass in body coordinates.
type Sweep struct {
	LocalCenter Vec2
	C0, C       Vec2
	A0, A       float64

	// Alpha0 is the normalized step fraction of the 0-state.
	Alpha0 float64
}

// GetTransform computes the interpolated body frame at fraction beta.
func (s Sweep) GetTransform(beta float64) Transform {
	var xf Transform
	xf.P = s.C0.Mul(1.0 - beta).Add(s.C.Mul(beta))
	xf.Q.Set((1.0-beta)*s.A0 + beta*s.A)
	xf.P = xf.P.Sub(xf.Q.Rotate(s.LocalCenter))
	return xf
}

// Advance moves the 0-state forward to fraction alpha.
func (s *Sweep) Advance(alpha float64) {
	assert(s.Alpha0 < 1.0)
	beta := (alpha - s.Alpha0) / (1.0 - s.Alpha0)
	s.C0 = s.C0.Add(s.C.Sub(s.C0).Mul(beta))
	s.A0 += beta * (s.A - s.A0)
	s.Alpha0 = alpha
}

// Normalize wraps the angles into [-2*pi, 2*pi].
func (s *Sweep) Normalize() {
	twoPi := 2.0 * Pi
	d := twoPi * math.Floor(s.A0/twoPi)
	s.A0 -= d
	s.A -= d
}
