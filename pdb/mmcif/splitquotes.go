// Splitting atom_site rows into tokens. Most rows have no quotes and go
// through fields(), which is fast and does not allocate. Rows with a
// quote character go through the small state machine in splitCifLine.

/* from https://www.iucr.org/resources/cif/spec/version1.1/cifsyntax
'              delimits non-simple data values
"              delimits non-simple data values
; at beginning of line of text delimits non-simple data values
*/

package mmcif

import (
	"bytes"
	"errors"
)

type bSlice = []byte

const (
	squote = '\''
	dquote = '"'
)

var errUntermQuote = errors.New("unterminated quote")

// fields breaks s into white space separated words and puts them in
// scrtch, which it returns, resliced. It never allocates. If there are
// more words than len(scrtch), it stops when scrtch is full. Callers
// give it one more slot than they expect, so a full scrtch means too
// many words.
//BenchmarkLibFields-4   	 1000000	      2585 ns/op using library call
//BenchmarkFields-4     	 3000000	       443 ns/op version below
func fields(s bSlice, scrtch []bSlice) []bSlice {
	var i, istart, iwrd int

	for i = 0; i < len(s); i++ { // leading spaces
		if !iswhite(s[i]) {
			break
		}
	}
	if i == len(s) || len(scrtch) == 0 {
		return scrtch[:0]
	}
	istart = i
	for {
		for { //                   in a word
			if iswhite(s[i]) {
				scrtch[iwrd] = s[istart:i]
				iwrd++
				if iwrd == len(scrtch) {
					return scrtch[:iwrd]
				}
				break
			}
			i++
			if i == len(s) {
				scrtch[iwrd] = s[istart:i]
				return scrtch[:iwrd+1]
			}
		}
		for i++; ; i++ { //        in spaces
			if i == len(s) {
				return scrtch[:iwrd]
			}
			if !iswhite(s[i]) {
				break
			}
		}
		istart = i
	}
}

// firstField is the first word of s. Count only needs this.
func firstField(s bSlice) bSlice {
	i := 0
	for ; i < len(s) && iswhite(s[i]); i++ {
	}
	j := i
	for ; j < len(s) && !iswhite(s[j]); j++ {
	}
	return s[i:j]
}

// iswhite only works for ascii spaces
var asciiSpace = [256]bool{
	'\t': true, '\n': true, '\v': true, '\f': true, '\r': true, ' ': true,
}

// iswhite returns true if a byte is on the list of white space characters.
func iswhite(b byte) bool {
	return asciiSpace[b] // Seems to be inlined, so it costs nothing.
}

// isquote not only checks if we have a quote character, but also
// stores its type so we can look for the matching closing quote.
func isquote(b byte, qtype *byte) bool {
	if b == squote || b == dquote {
		*qtype = b
		return true
	}
	return false
}

type sInfo struct { // Holds the state of the state functions
	err     error
	ret     []bSlice // what we will really return
	byteIn  bSlice
	nxtIndx int
	qtype   byte // type of quote
}
type sfn func(i int, c byte, s *sInfo) sfn // state function

func sfnInQuote(i int, c byte, sInfo *sInfo) sfn { // in a quoted region
	if c == sInfo.qtype {
		return sfnExitQuote
	}
	if c == '\n' { // we only see this at the very end
		sInfo.err = errUntermQuote
		return sfnWhite
	}
	return sfnInQuote
}

// A quote followed by white space ends a quoted token. A quote followed by
// anything else is part of the token, like O5'' in 'O5'' '.
func sfnExitQuote(i int, c byte, sInfo *sInfo) sfn {
	if iswhite(c) {
		sInfo.ret = append(sInfo.ret, sInfo.byteIn[sInfo.nxtIndx:i-1])
		return sfnWhite
	}
	return sfnInQuote
}

func sfnInText(i int, c byte, sInfo *sInfo) sfn {
	if iswhite(c) {
		sInfo.ret = append(sInfo.ret, sInfo.byteIn[sInfo.nxtIndx:i])
		return sfnWhite
	}
	return sfnInText
}

func sfnWhite(i int, c byte, sInfo *sInfo) sfn { // in white space
	switch {
	case iswhite(c):
		return sfnWhite
	case isquote(c, &sInfo.qtype):
		sInfo.nxtIndx = i + 1
		return sfnInQuote
	default:
		sInfo.nxtIndx = i
		return sfnInText
	}
}

// splitCifLine splits byteIn at white space, but keeps quoted regions
// together and removes the quotes. Words are appended to retIn[:0].
// A quote only opens a token at the start of a word, so O5' stays O5'.
func splitCifLine(byteIn bSlice, retIn []bSlice) ([]bSlice, error) {
	if len(byteIn) < 1 {
		return retIn[:0], nil
	}
	var sInfo = sInfo{ret: retIn[:0], byteIn: byteIn}

	state := sfnWhite
	for i, c := range byteIn {
		state = state(i, c, &sInfo)
	}
	state(len(byteIn), '\n', &sInfo) // end with newline, catches unterminated quotes
	if sInfo.err != nil {            // Just check at end, to avoid if statements within loop
		return nil, sInfo.err
	}
	return sInfo.ret, nil
}

// splitRow picks the fast splitter unless there is a quote on the line.
func splitRow(line bSlice, scrtch []bSlice) ([]bSlice, error) {
	if bytes.IndexByte(line, squote) < 0 && bytes.IndexByte(line, dquote) < 0 {
		return fields(line, scrtch), nil
	}
	return splitCifLine(line, scrtch)
}
