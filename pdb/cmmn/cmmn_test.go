package cmmn_test

import (
	"encoding/json"
	"testing"

	. "github.com/andrew-torda/cifatom/pdb/cmmn"
)

func TestGroupOf(t *testing.T) {
	for _, tst := range []struct {
		in   string
		want Group
		ok   bool
	}{
		{"ATOM", GroupAtom, true},
		{"HETATM", GroupHetatm, true},
		{"atom", GroupNone, false},
		{"ANISOU", GroupNone, false},
		{"ATO", GroupNone, false},
		{"", GroupNone, false},
	} {
		g, ok := GroupOf([]byte(tst.in))
		if g != tst.want || ok != tst.ok {
			t.Errorf("GroupOf(%q) got %v %v wanted %v %v", tst.in, g, ok, tst.want, tst.ok)
		}
	}
}

func TestOpt(t *testing.T) {
	var o Opt[int]
	if _, ok := o.Get(); ok {
		t.Error("zero Opt should be absent")
	}
	if o.Or(BrokenResNum) != BrokenResNum {
		t.Error("Or did not give default")
	}
	o = Some(12)
	if v, ok := o.Get(); !ok || v != 12 {
		t.Error("Some(12) got", v, ok)
	}
	a := Atom{LabelSeqID: None[int]()}
	if a.SeqNum() != BrokenResNum {
		t.Error("absent seq id should give BrokenResNum, got", a.SeqNum())
	}
}

func TestOptJSON(t *testing.T) {
	type rec struct {
		Occ Opt[float64]
		Alt Opt[string]
		G   Group
	}
	b, err := json.Marshal(rec{Occ: Some(0.5), G: GroupHetatm})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"Occ":0.5,"Alt":null,"G":"HETATM"}`
	if string(b) != want {
		t.Errorf("got %s wanted %s", b, want)
	}
}

func TestGetChains(t *testing.T) {
	mk := func(mdl int, chn string) Atom { return Atom{ModelNum: mdl, AuthAsymID: chn} }
	atoms := []Atom{mk(1, "A"), mk(1, "A"), mk(1, "B"), mk(2, "A"), mk(2, "A"), mk(2, "B")}
	chns := GetChains(atoms)
	if len(chns) != 4 {
		t.Fatalf("wanted 4 chains, got %d", len(chns))
	}
	names := chns.ChainNames()
	for i, want := range []string{"A", "B", "A", "B"} {
		if names[i] != want {
			t.Errorf("chain %d got %s wanted %s", i, names[i], want)
		}
	}
	if n := len(chns[0].Atoms); n != 2 {
		t.Error("first chain should have 2 atoms, got", n)
	}
	if chns.NModel() != 2 {
		t.Error("wanted 2 models, got", chns.NModel())
	}
	if len(GetChains(nil)) != 0 {
		t.Error("no atoms should give no chains")
	}
}
