// Package pdb/cmmn has common definitions for atoms, coordinates and
// chains. The mmcif reader fills these in and everything above it
// (pdb, geom, the command line tools) only sees these types.
package cmmn

import (
	"encoding/json"
)

// Does our data come from a plain file or a compressed one ?
const (
	FileSrc byte = iota
	GzipSrc
)

// BrokenResNum is what you get from SeqNum() when the file had a dot or
// question mark for the residue number.
const BrokenResNum int = -9999

// Xyz is one position. Coordinates in mmcif files have three decimal
// places, but we keep float64 so x == Cartn_x exactly.
type Xyz struct{ X, Y, Z float64 }
type XyzSl []Xyz // xyz's are coordinates

// Group is the first column of an atom_site row.
type Group uint8

const (
	GroupNone Group = iota // zero value, never in a decoded atom
	GroupAtom
	GroupHetatm
)

// String gives the keyword as it is written in the file.
func (g Group) String() string {
	switch g {
	case GroupAtom:
		return "ATOM"
	case GroupHetatm:
		return "HETATM"
	}
	return "?"
}

// MarshalJSON writes the keyword, not the number.
func (g Group) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.String())
}

// GroupOf says which record type a token is. There are only two
// and the comparison is case sensitive, like the PDB writes them.
func GroupOf(b []byte) (Group, bool) {
	switch string(b) { // no allocation for this conversion
	case "ATOM":
		return GroupAtom, true
	case "HETATM":
		return GroupHetatm, true
	}
	return GroupNone, false
}

// Opt is a value from the file that might be missing. In mmcif a
// question mark means missing and a dot means not applicable. Both
// give us an Opt with Ok false.
type Opt[T any] struct {
	Val T
	Ok  bool
}

// Some wraps a value that was present.
func Some[T any](v T) Opt[T] { return Opt[T]{Val: v, Ok: true} }

// None is the absent value.
func None[T any]() Opt[T] { return Opt[T]{} }

// Get returns the value and whether it was there.
func (o Opt[T]) Get() (T, bool) { return o.Val, o.Ok }

// Or returns the value if present, otherwise dflt.
func (o Opt[T]) Or(dflt T) T {
	if o.Ok {
		return o.Val
	}
	return dflt
}

// MarshalJSON writes null for an absent value.
func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.Ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.Val)
}

// Atom is one decoded row of the atom_site table. Field names follow
// the mmcif column names.
type Atom struct {
	Group         Group
	ID            int    // 1, 2, 3.. in the order we read them
	SourceID      string // atom_site.id as written in the file
	TypeSymbol    string
	LabelAtomID   string
	LabelAltID    Opt[string]
	LabelCompID   string
	LabelAsymID   string
	LabelEntityID int
	LabelSeqID    Opt[int]
	InsCode       Opt[string]
	CartnX        float64
	CartnY        float64
	CartnZ        float64
	Occupancy     Opt[float64]
	BIsoOrEquiv   Opt[float64]
	FormalCharge  Opt[string]
	AuthSeqID     Opt[int]
	AuthCompID    string
	AuthAsymID    string
	AuthAtomID    string
	ModelNum      int
	X, Y, Z       float64 // copies of Cartn_x, Cartn_y, Cartn_z
	Line          int     // line in the source file
}

// Xyz returns the position of an atom.
func (a *Atom) Xyz() Xyz { return Xyz{a.CartnX, a.CartnY, a.CartnZ} }

// SeqNum returns label_seq_id or BrokenResNum if the file did not have one.
func (a *Atom) SeqNum() int { return a.LabelSeqID.Or(BrokenResNum) }

// A Chain is the atoms of one model and one author chain, in file
// order. Atoms points into the slice it was made from.
type Chain struct {
	ChainID string // Name, like "A" or "B"
	MdlNum  int    // Model number
	Atoms   []Atom
}

// This is obviously just a slice of chains, but we have to define a type
// if we want to define a method on it
type ChnSl []Chain

// ChainNames returns a slice with the names of the chains.
func (chns ChnSl) ChainNames() (ret []string) {
	ret = make([]string, len(chns))
	for i, k := range chns {
		ret[i] = k.ChainID
	}
	return
}

// NModel counts the distinct model numbers.
func (chns ChnSl) NModel() int {
	seen := make(map[int]bool)
	for _, c := range chns {
		seen[c.MdlNum] = true
	}
	return len(seen)
}

// GetChains splits atoms into runs of the same model and author chain.
// mmcif files keep a chain together within a model, so a new Chain
// starts whenever either of them changes. If a file interleaves
// chains, you get more than one Chain with the same name.
func GetChains(atoms []Atom) ChnSl {
	ret := make(ChnSl, 0, 2)
	start := 0
	for i := 1; i <= len(atoms); i++ {
		if i < len(atoms) &&
			atoms[i].ModelNum == atoms[start].ModelNum &&
			atoms[i].AuthAsymID == atoms[start].AuthAsymID {
			continue
		}
		ret = append(ret, Chain{
			ChainID: atoms[start].AuthAsymID,
			MdlNum:  atoms[start].ModelNum,
			Atoms:   atoms[start:i:i],
		})
		start = i
	}
	return ret
}
