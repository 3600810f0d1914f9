package geom_test

import (
	"math"
	"testing"

	. "github.com/andrew-torda/cifatom/pdb/cmmn"
	. "github.com/andrew-torda/cifatom/pdb/geom"
)

var disttests = []struct {
	name string
	x1   Xyz
	x2   Xyz
	e    error
}{
	{"3.8 ", Xyz{X: 3.80, Y: 0.00, Z: 0}, Xyz{X: 0, Y: 0, Z: 0}, nil},
	{"onex", Xyz{X: 0.00, Y: 0.00, Z: 0}, Xyz{X: 1, Y: 0, Z: 0}, ErrTooSmall},
	{"333 ", Xyz{X: 3.00, Y: 3.00, Z: 3}, Xyz{X: 1, Y: 0, Z: 0}, ErrTooBig},
	{"1.95", Xyz{X: 1.95, Y: 1.95, Z: 3}, Xyz{X: 0, Y: 0, Z: 0}, nil},
	{"5.0 ", Xyz{X: 5.00, Y: 5.00, Z: 5}, Xyz{X: 1, Y: 0, Z: 0}, ErrTooBig},
}

// permuteXyz rotates x, y and z for tests whose answers should not change
// when we move the axes around.
func permuteXyz(x Xyz) Xyz {
	x.X, x.Y, x.Z = x.Y, x.Z, x.X
	return x
}

func TestCaDist(t *testing.T) {
	for _, test := range disttests {
		x1, x2 := test.x1, test.x2
		dist1, e1 := CaDist(x1, x2)
		dist2, e2 := CaDist(x2, x1)
		x1, x2 = permuteXyz(x1), permuteXyz(x2)
		dist3, e3 := CaDist(x1, x2)
		x1, x2 = permuteXyz(x1), permuteXyz(x2)
		dist4, e4 := CaDist(x1, x2)
		if e1 == nil && (notApproxEqual(dist1, dist2) || notApproxEqual(dist1, dist3) || notApproxEqual(dist1, dist4)) {
			t.Errorf("test %s. Did not get the same results, %f %f %f %f",
				test.name, dist1, dist2, dist3, dist4)
		}
		if e1 != e2 || e1 != e3 || e1 != e4 {
			t.Errorf("test %s, did not get the same error state", test.name)
		}
		if e1 != test.e {
			t.Errorf("test %s got error %v wanted %v", test.name, e1, test.e)
		}
		if e1 == nil && notApproxEqual(dist1, Dist(test.x1, test.x2)) {
			t.Errorf("test %s CaDist %f and Dist %f differ", test.name, dist1, Dist(test.x1, test.x2))
		}
	}
}

// notApproxEqual returns true if x and y are not approximately equal.
func notApproxEqual(x, y float64) bool {
	diff := math.Abs(x - y)
	return math.IsNaN(diff) || diff > 0.00001
}

var angletests = []struct {
	x1, x2, x3 Xyz
	res        float64
}{
	{Xyz{X: +1, Y: 0, Z: 0}, Xyz{X: 0, Y: 0, Z: 0}, Xyz{X: 0.9999, Y: 0, Z: 0}, 0},
	{Xyz{X: -0, Y: 1, Z: 0}, Xyz{X: 0, Y: 0, Z: 0}, Xyz{X: 1.0000, Y: 0, Z: 0}, math.Pi / 2},
	{Xyz{X: -1, Y: 0, Z: 0}, Xyz{X: 0, Y: 0, Z: 0}, Xyz{X: 1.0000, Y: 0, Z: 0}, math.Pi},
	{Xyz{X: +0, Y: 1, Z: 0}, Xyz{X: 0, Y: 0, Z: 0}, Xyz{X: 0.1000, Y: 0, Z: 0}, math.Pi / 2},
	{Xyz{X: +0, Y: 1, Z: 0}, Xyz{X: 0, Y: 0, Z: 0}, Xyz{X: 9.9000, Y: 0, Z: 0}, math.Pi / 2},
	{Xyz{X: -1, Y: 0, Z: 0}, Xyz{X: 0, Y: 0, Z: 0}, Xyz{X: 1.0000, Y: 1, Z: 0}, math.Pi * 3 / 4},
	{Xyz{X: -1, Y: 0, Z: 0}, Xyz{X: 0, Y: 0, Z: 0}, Xyz{X: 9.9, Y: 9.9, Z: 0}, math.Pi * 3 / 4},
}

func TestAngle(t *testing.T) {
	for _, test := range angletests {
		x1, x2, x3 := test.x1, test.x2, test.x3
		for i := 0; i < 3; i++ {
			a, err := Angle(x1, x2, x3)
			if err != nil {
				t.Errorf("%v error with %v %v %v", err, x1, x2, x3)
			} else if notApproxEqual(a, test.res) {
				t.Errorf("Angle got %f wanted %f, %v, %v, %v", a, test.res, x1, x2, x3)
			}
			x1, x2, x3 = permuteXyz(x1), permuteXyz(x2), permuteXyz(x3)
		}
	}
	if _, err := Angle(Xyz{}, Xyz{}, Xyz{X: 1, Y: 0, Z: 0}); err != ErrAngle {
		t.Error("zero length arm should be a broken angle, got", err)
	}
}

var dhdrltests = []struct {
	x1, x2, x3, x4 Xyz
	res            float64
}{
	{Xyz{X: 0, Y: 1, Z: 0}, Xyz{X: 1, Y: 0, Z: 0}, Xyz{X: 2, Y: 0, Z: 0}, Xyz{X: 3, Y: 1, Z: 0}, 0},
	{Xyz{X: 0, Y: 1, Z: 0}, Xyz{X: 1, Y: 0, Z: 0}, Xyz{X: 2, Y: 0, Z: 0}, Xyz{X: 3, Y: 1, Z: 1e-5}, 0},
	{Xyz{X: 0, Y: 1, Z: 0}, Xyz{X: 1, Y: 0, Z: 0}, Xyz{X: 2, Y: 0, Z: 0}, Xyz{X: 3, Y: -1, Z: 0}, math.Pi},
	{Xyz{X: 0, Y: 1, Z: 0}, Xyz{X: 1, Y: 0, Z: 0}, Xyz{X: 2, Y: 0, Z: 0}, Xyz{X: 3, Y: 0, Z: 1}, -math.Pi / 2},
	{Xyz{X: 0, Y: 1, Z: 0}, Xyz{X: 1, Y: 0, Z: 0}, Xyz{X: 2, Y: 0, Z: 0}, Xyz{X: 3, Y: 0, Z: -1}, math.Pi / 2},
	{Xyz{X: 0, Y: 1, Z: 0}, Xyz{X: 1, Y: 0, Z: 0}, Xyz{X: 2, Y: 0, Z: 0}, Xyz{X: 3, Y: 1, Z: -1}, math.Pi / 4},
	{Xyz{X: 0, Y: 1, Z: 0}, Xyz{X: 1, Y: 0, Z: 0}, Xyz{X: 2, Y: 0, Z: 0}, Xyz{X: 3, Y: -1, Z: -1}, math.Pi * (3.0 / 4.0)},
}

func TestDihedral(t *testing.T) {
	for _, test := range dhdrltests {
		x1, x2, x3, x4 := test.x1, test.x2, test.x3, test.x4
		const emsg = "error with %v %v %v %v wanted: %.3g got: %.3g"
		for i := 0; i < 3; i++ {
			if a := Dihedral(x1, x2, x3, x4); notApproxEqual(a, test.res) {
				t.Errorf(emsg, x1, x2, x3, x4, test.res, a)
			}
			// reversed order gives the same angle
			if a := Dihedral(x4, x3, x2, x1); notApproxEqual(a, test.res) {
				t.Errorf("reversed "+emsg, x4, x3, x2, x1, test.res, a)
			}
			x1, x2, x3, x4 = permuteXyz(x1), permuteXyz(x2), permuteXyz(x3), permuteXyz(x4)
		}
	}
}

func TestWholeSet(t *testing.T) {
	xyz := XyzSl{{X: -1, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: -2, Z: 4}, {X: 0, Y: 2, Z: 0}}
	c, err := Centroid(xyz)
	if err != nil || c != (Xyz{X: 0, Y: 0, Z: 1}) {
		t.Error("centroid got", c, err)
	}
	lo, hi, err := Bounds(xyz)
	if err != nil || lo != (Xyz{X: -1, Y: -2, Z: 0}) || hi != (Xyz{X: 1, Y: 2, Z: 4}) {
		t.Error("bounds got", lo, hi, err)
	}
	// squared distances from (0,0,1): 2, 2, 13, 5
	rg, err := RadiusOfGyration(xyz)
	if err != nil || notApproxEqual(rg, math.Sqrt(22.0/4)) {
		t.Error("rg got", rg, err)
	}
	if _, err := Centroid(nil); err != ErrEmpty {
		t.Error("empty centroid should fail")
	}
	if _, _, err := Bounds(nil); err != ErrEmpty {
		t.Error("empty bounds should fail")
	}
	if _, err := RadiusOfGyration(XyzSl{}); err != ErrEmpty {
		t.Error("empty rg should fail")
	}
}

func TestChainBreaks(t *testing.T) {
	ca := XyzSl{{X: 0, Y: 0, Z: 0}, {X: 3.8, Y: 0, Z: 0}, {X: 7.6, Y: 0, Z: 0}, {X: 20, Y: 0, Z: 0}, {X: 23.8, Y: 0, Z: 0}}
	if n := ChainBreaks(ca); n != 1 {
		t.Error("wanted one break, got", n)
	}
	if n := ChainBreaks(ca[:1]); n != 0 {
		t.Error("one atom has no breaks, got", n)
	}
}
