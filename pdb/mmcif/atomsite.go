// This file is for finding the atom_site columns we need and for
// decoding the values in one row.
package mmcif

import (
	"bytes"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/andrew-torda/cifatom/pdb/cmmn"
)

type cifCol struct {
	cifName string // name in mmcif file, like label_asym_id
	n       int    // column. Starts with the most likely place to find it
}

// acn is the set of atom_site columns we need. The initial values are
// the order the protein data bank writes them.
type acn struct {
	groupPDB,
	id,
	typeSymbol,
	labelAtomID,
	labelAltID,
	labelCompID,
	labelAsymID,
	labelEntityID,
	labelSeqID,
	pdbxPDBInsCode,
	cartnX,
	cartnY,
	cartnZ,
	occupancy,
	bIsoOrEquiv,
	pdbxFormalCharge,
	authSeqID,
	authCompID,
	authAsymID,
	authAtomID,
	pdbxPDBModelNum cifCol
}

func newAcn() *acn {
	return &acn{
		groupPDB:         cifCol{"group_PDB", 0},
		id:               cifCol{"id", 1},
		typeSymbol:       cifCol{"type_symbol", 2},
		labelAtomID:      cifCol{"label_atom_id", 3},
		labelAltID:       cifCol{"label_alt_id", 4},
		labelCompID:      cifCol{"label_comp_id", 5},
		labelAsymID:      cifCol{"label_asym_id", 6},
		labelEntityID:    cifCol{"label_entity_id", 7},
		labelSeqID:       cifCol{"label_seq_id", 8},
		pdbxPDBInsCode:   cifCol{"pdbx_PDB_ins_code", 9},
		cartnX:           cifCol{"Cartn_x", 10},
		cartnY:           cifCol{"Cartn_y", 11},
		cartnZ:           cifCol{"Cartn_z", 12},
		occupancy:        cifCol{"occupancy", 13},
		bIsoOrEquiv:      cifCol{"B_iso_or_equiv", 14},
		pdbxFormalCharge: cifCol{"pdbx_formal_charge", 15},
		authSeqID:        cifCol{"auth_seq_id", 16},
		authCompID:       cifCol{"auth_comp_id", 17},
		authAsymID:       cifCol{"auth_asym_id", 18},
		authAtomID:       cifCol{"auth_atom_id", 19},
		pdbxPDBModelNum:  cifCol{"pdbx_PDB_model_num", 20},
	}
}

// all lists the columns in their default order.
func (a *acn) all() []*cifCol {
	return []*cifCol{
		&a.groupPDB, &a.id, &a.typeSymbol, &a.labelAtomID, &a.labelAltID,
		&a.labelCompID, &a.labelAsymID, &a.labelEntityID, &a.labelSeqID,
		&a.pdbxPDBInsCode, &a.cartnX, &a.cartnY, &a.cartnZ, &a.occupancy,
		&a.bIsoOrEquiv, &a.pdbxFormalCharge, &a.authSeqID, &a.authCompID,
		&a.authAsymID, &a.authAtomID, &a.pdbxPDBModelNum,
	}
}

// RequiredColumns returns the atom_site column names a file must have.
func RequiredColumns() []string {
	cols := newAcn().all()
	ret := make([]string, len(cols))
	for i, cf := range cols {
		ret[i] = cf.cifName
	}
	return ret
}

// headerName takes a line like "_atom_site.Cartn_x" and returns "Cartn_x".
// The scanner has already checked the prefix.
func headerName(line bSlice) string {
	name := firstField(line)
	return string(name[len(atomSitePfx):])
}

// checkName says whether the header at the column's default place is the
// one we want. Mmcif names are case insensitive.
func checkName(headers []string, cf *cifCol) bool {
	return cf.n < len(headers) && strings.EqualFold(headers[cf.n], cf.cifName)
}

// dfltHeaders checks if the column names are the likely, default ones from the
// protein data bank. Usually they are, so we do not have to search for
// each label in the table.
func dfltHeaders(acn *acn, headers []string) bool {
	for _, cf := range acn.all() {
		if !checkName(headers, cf) {
			return false
		}
	}
	return true
}

// getColPos is called if the default cif column names were not correct.
// If there are two columns with the same name, the first wins.
func (cf *cifCol) getColPos(headers []string) bool {
	for i, h := range headers {
		if strings.EqualFold(h, cf.cifName) {
			cf.n = i
			return true
		}
	}
	return false
}

// errMissingCols is the cause inside a schema ParseError.
type errMissingCols []string

func (e errMissingCols) Error() string {
	return "missing atom_site columns: " + strings.Join(e, ", ")
}

// resolveCols finds every column we need in headers. If some are not
// there, the error names all of them, not only the first.
func resolveCols(headers []string) (*acn, error) {
	acn := newAcn()
	if dfltHeaders(acn, headers) {
		return acn, nil
	}
	var missing errMissingCols
	for _, cf := range acn.all() {
		if !cf.getColPos(headers) {
			missing = append(missing, cf.cifName)
		}
	}
	if len(missing) != 0 {
		return nil, missing
	}
	return acn, nil
}

// isDotOrQ returns true if the token is a dot or question mark
func isDotOrQ(s bSlice) bool {
	return len(s) == 1 && (s[0] == '.' || s[0] == '?')
}

var (
	errEmpty      = errors.New("empty value")
	errAbsent     = errors.New("value is missing")
	errNotFinit   = errors.New("not a finite number")
	errNotDecimal = errors.New("not a decimal number")
)

// trimSU removes a standard uncertainty, so 1.234(5) becomes 1.234.
// Only digits may sit inside the brackets. Anything else is left alone
// and the number parser will refuse it.
func trimSU(s bSlice) bSlice {
	if len(s) < 3 || s[len(s)-1] != ')' {
		return s
	}
	i := bytes.IndexByte(s, '(')
	if i < 1 || i == len(s)-2 {
		return s
	}
	for _, c := range s[i+1 : len(s)-1] {
		if c < '0' || c > '9' {
			return s
		}
	}
	return s[:i]
}

// isDecimal says if s only has characters that can be in a decimal
// number. strconv would also take hex, underscores, inf and nan.
func isDecimal(s bSlice) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c == '.', c == '+', c == '-', c == 'e', c == 'E':
		default:
			return false
		}
	}
	return true
}

// decoder pulls typed values out of one split row. Checking every
// conversion is tedious, so the decoder flags the first error and
// subsequent calls are no-ops. Check err once at the end.
type decoder struct {
	cmpnt []bSlice
	col   string // column that broke
	err   error  // first error
}

func (d *decoder) fail(cf *cifCol, err error) {
	if d.err == nil {
		d.col, d.err = cf.cifName, err
	}
}

// str is for text columns. A dot or question mark gives "".
func (d *decoder) str(cf *cifCol) string {
	s := d.cmpnt[cf.n]
	if isDotOrQ(s) {
		return ""
	}
	return string(s)
}

func (d *decoder) optStr(cf *cifCol) cmmn.Opt[string] {
	s := d.cmpnt[cf.n]
	if isDotOrQ(s) {
		return cmmn.None[string]()
	}
	return cmmn.Some(string(s))
}

func (d *decoder) parseInt(cf *cifCol, s bSlice) int {
	if d.err != nil {
		return 0
	}
	if len(s) == 0 {
		d.fail(cf, errEmpty)
		return 0
	}
	i, err := strconv.Atoi(string(s))
	if err != nil {
		d.fail(cf, err)
		return 0
	}
	return i
}

// reqInt is for integer columns that must have a value.
func (d *decoder) reqInt(cf *cifCol) int {
	s := d.cmpnt[cf.n]
	if isDotOrQ(s) {
		d.fail(cf, errAbsent)
		return 0
	}
	return d.parseInt(cf, s)
}

func (d *decoder) optInt(cf *cifCol) cmmn.Opt[int] {
	s := d.cmpnt[cf.n]
	if isDotOrQ(s) {
		return cmmn.None[int]()
	}
	return cmmn.Some(d.parseInt(cf, s))
}

func (d *decoder) parseFloat(cf *cifCol, s bSlice) float64 {
	if d.err != nil {
		return 0
	}
	s = trimSU(s)
	if len(s) == 0 {
		d.fail(cf, errEmpty)
		return 0
	}
	if !isDecimal(s) {
		d.fail(cf, errNotDecimal)
		return 0
	}
	x, err := strconv.ParseFloat(string(s), 64)
	if err != nil {
		d.fail(cf, err)
		return 0
	}
	if math.IsInf(x, 0) || math.IsNaN(x) {
		d.fail(cf, errNotFinit)
		return 0
	}
	return x
}

// coord is for Cartn_x, y and z. They must be there.
func (d *decoder) coord(cf *cifCol) float64 {
	s := d.cmpnt[cf.n]
	if isDotOrQ(s) {
		d.fail(cf, errAbsent)
		return 0
	}
	return d.parseFloat(cf, s)
}

func (d *decoder) optFloat(cf *cifCol) cmmn.Opt[float64] {
	s := d.cmpnt[cf.n]
	if isDotOrQ(s) {
		return cmmn.None[float64]()
	}
	return cmmn.Some(d.parseFloat(cf, s))
}

// getxyz gets the x, y and z coordinates from a row.
func (d *decoder) getxyz(acn *acn) cmmn.Xyz {
	return cmmn.Xyz{X: d.coord(&acn.cartnX), Y: d.coord(&acn.cartnY), Z: d.coord(&acn.cartnZ)}
}

// atom fills out everything but ID and Line, which the caller knows.
func (d *decoder) atom(acn *acn, g cmmn.Group, a *cmmn.Atom) {
	a.Group = g
	d.reqInt(&acn.id) // we number atoms ourselves, but it must be a number
	a.SourceID = string(d.cmpnt[acn.id.n])
	a.TypeSymbol = d.str(&acn.typeSymbol)
	a.LabelAtomID = d.str(&acn.labelAtomID)
	a.LabelAltID = d.optStr(&acn.labelAltID)
	a.LabelCompID = d.str(&acn.labelCompID)
	a.LabelAsymID = d.str(&acn.labelAsymID)
	a.LabelEntityID = d.reqInt(&acn.labelEntityID)
	a.LabelSeqID = d.optInt(&acn.labelSeqID)
	a.InsCode = d.optStr(&acn.pdbxPDBInsCode)
	xyz := d.getxyz(acn)
	a.CartnX, a.CartnY, a.CartnZ = xyz.X, xyz.Y, xyz.Z
	a.X, a.Y, a.Z = xyz.X, xyz.Y, xyz.Z
	a.Occupancy = d.optFloat(&acn.occupancy)
	a.BIsoOrEquiv = d.optFloat(&acn.bIsoOrEquiv)
	a.FormalCharge = d.optStr(&acn.pdbxFormalCharge)
	a.AuthSeqID = d.optInt(&acn.authSeqID)
	a.AuthCompID = d.str(&acn.authCompID)
	a.AuthAsymID = d.str(&acn.authAsymID)
	a.AuthAtomID = d.str(&acn.authAtomID)
	a.ModelNum = d.reqInt(&acn.pdbxPDBModelNum)
}
