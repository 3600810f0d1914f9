// Calculate some geometries, lengths and angles, and a few numbers that
// describe a whole set of coordinates.

package geom

import (
	"math"

	"github.com/andrew-torda/cifatom/pdb/cmmn"
)

const (
	mindist  = 2.6
	mindist2 = mindist * mindist
	maxdist  = 4.1 // max dist for c_alpha to c_alpha
	maxdist2 = maxdist * maxdist
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrTooBig   = Error("too big")
	ErrTooSmall = Error("too small")
	ErrAngle    = Error("broken angle")
	ErrEmpty    = Error("no coordinates")
)

// xyzhelper makes the code below a bit more compact. Returns distance
// squared in one dimension or an error if it is bigger than our limit.
func xyzhelper(r1, r2 float64) (float64, error) {
	r := r1 - r2
	r = r * r
	if r >= maxdist2 {
		return r, ErrTooBig
	}
	return r, nil
}

// CaDist gets the distance between two points, but if it is bigger
// than a C alpha - C alpha distance could be or too small, it returns
// an error. A too big error means the chain is broken.
func CaDist(x1, x2 cmmn.Xyz) (float64, error) {
	var xd, yd, zd float64
	var err error
	if xd, err = xyzhelper(x1.X, x2.X); err != nil {
		return xd, err
	}
	if yd, err = xyzhelper(x1.Y, x2.Y); err != nil {
		return yd, err
	}
	if zd, err = xyzhelper(x1.Z, x2.Z); err != nil {
		return zd, err
	}
	r := xd + yd + zd
	if r >= maxdist2 {
		return r, ErrTooBig
	}
	if r <= mindist2 {
		return r, ErrTooSmall
	}
	return math.Sqrt(r), nil
}

// Dist is the plain distance between two points.
func Dist(x1, x2 cmmn.Xyz) float64 { return xyzLen(xyzDiff(x1, x2)) }

// xyzDiff gets the difference of two vectors
func xyzDiff(start, end cmmn.Xyz) (diff cmmn.Xyz) {
	diff.X = end.X - start.X
	diff.Y = end.Y - start.Y
	diff.Z = end.Z - start.Z
	return diff
}

// Angle takes three points and returns the angle at b, in radians.
func Angle(a, b, c cmmn.Xyz) (float64, error) {
	x1 := xyzDiff(b, a)
	x2 := xyzDiff(b, c)
	cosalpha := sclrProd(x1, x2) / (xyzLen(x1) * xyzLen(x2))
	if cosalpha > 1 && cosalpha < 1.01 { // numerical noise
		return 0.0, nil
	}
	if cosalpha < -1 && cosalpha > -1.01 {
		return math.Pi, nil
	}
	if cosalpha < -1 || cosalpha > 1 || math.IsNaN(cosalpha) {
		return math.NaN(), ErrAngle
	}
	return math.Acos(cosalpha), nil
}

// vecProd returns the vector product of two vectors
func vecProd(u, v cmmn.Xyz) (res cmmn.Xyz) {
	res.X = u.Y*v.Z - u.Z*v.Y
	res.Y = u.Z*v.X - u.X*v.Z
	res.Z = u.X*v.Y - u.Y*v.X
	return res
}

// sclrProd returns the dot / scalar product of two vectors
func sclrProd(u, v cmmn.Xyz) float64 { return u.X*v.X + u.Y*v.Y + u.Z*v.Z }

// xyzLen2 gives us the length squared
func xyzLen2(v cmmn.Xyz) float64 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }

// xyzLen returns the vector length
func xyzLen(v cmmn.Xyz) float64 { return math.Sqrt(xyzLen2(v)) }

func scale(s float64, v cmmn.Xyz) cmmn.Xyz { return cmmn.Xyz{X: s * v.X, Y: s * v.Y, Z: s * v.Z} }

// Dihedral takes four points and returns the dihedral angle in radians.
// The sign follows the IUPAC convention.
func Dihedral(ii, jj, kk, ll cmmn.Xyz) float64 {
	rij := xyzDiff(ii, jj)
	rkj := xyzDiff(kk, jj)
	rkl := xyzDiff(kk, ll)
	rim := xyzDiff(rij, scale(sclrProd(rij, rkj)/xyzLen2(rkj), rkj))
	rln := xyzDiff(scale(sclrProd(rkl, rkj)/xyzLen2(rkj), rkj), rkl)

	tcos := sclrProd(rim, rln) / (xyzLen(rim) * xyzLen(rln))
	var tau float64
	switch {
	case tcos > 1: // Numerical errors can catch us. If so, no need
		tau = 0 //    to call acos()
	case tcos < -1:
		tau = math.Pi
	default:
		tau = math.Acos(tcos)
	}
	if sclrProd(rij, vecProd(rkj, rkl)) >= 0 {
		return tau
	}
	return -tau
}

// Centroid is the unweighted mean position.
func Centroid(xyz cmmn.XyzSl) (cmmn.Xyz, error) {
	if len(xyz) == 0 {
		return cmmn.Xyz{}, ErrEmpty
	}
	var c cmmn.Xyz
	for _, x := range xyz {
		c.X += x.X
		c.Y += x.Y
		c.Z += x.Z
	}
	return scale(1/float64(len(xyz)), c), nil
}

// Bounds returns the corners of the smallest axis aligned box holding
// every point.
func Bounds(xyz cmmn.XyzSl) (lo, hi cmmn.Xyz, err error) {
	if len(xyz) == 0 {
		return lo, hi, ErrEmpty
	}
	lo, hi = xyz[0], xyz[0]
	for _, x := range xyz[1:] {
		lo.X, hi.X = math.Min(lo.X, x.X), math.Max(hi.X, x.X)
		lo.Y, hi.Y = math.Min(lo.Y, x.Y), math.Max(hi.Y, x.Y)
		lo.Z, hi.Z = math.Min(lo.Z, x.Z), math.Max(hi.Z, x.Z)
	}
	return lo, hi, nil
}

// RadiusOfGyration is the root mean square distance from the centroid,
// all atoms weighted the same.
func RadiusOfGyration(xyz cmmn.XyzSl) (float64, error) {
	c, err := Centroid(xyz)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, x := range xyz {
		sum += xyzLen2(xyzDiff(c, x))
	}
	return math.Sqrt(sum / float64(len(xyz))), nil
}

// ChainBreaks counts consecutive C alpha pairs that are too far apart to
// be bonded neighbours.
func ChainBreaks(ca cmmn.XyzSl) int {
	n := 0
	for i := 1; i < len(ca); i++ {
		if _, err := CaDist(ca[i-1], ca[i]); err == ErrTooBig {
			n++
		}
	}
	return n
}
