// Package mmcif reads the atom_site table from an mmcif file.
//
// Reading mmcif files is interesting because they are so big, but we
// only want one table from them. We do not tokenise the whole file.
// Mmcif has features that make it simpler.
// 1. The first character on the line is decisive. A data item starts
// with "_", a loop with loop_, a comment with # and a text field with ;
// in the first column.
// 2. The protein data bank always writes the atom_site columns in the
// same order, so we check that first and only search for columns if
// the order is different.
//
// Overall structure
// A small set of state functions walks through the file. Until we see
// a loop_ whose first header is _atom_site.something, lines are thrown
// away. Text fields are skipped as a unit, since they can contain lines
// that look like anything. Then we collect the headers, find our
// columns and read rows until a comment, loop_, data item or new data
// block. Only the first atom_site table is read.
//
// There are three ways to read the table. Parse decodes every column we
// know about. Positions only decodes Cartn_x, y and z. Count only looks
// at group_PDB. All three read the same rows, so for a good file
// Count gives len(Parse) and Positions gives the coordinates from Parse.
//
// Notes about the mmcif format...
// A question mark, ?, means a missing value.
// A dot, ., means not appropriate or deliberately left out.
// Numbers may carry a standard uncertainty in brackets, like 1.234(5).
// We drop it.
// Values may be quoted with ' or ", if they contain spaces. A quote
// only ends a value if it is followed by white space, so 'O5'' is O5'.
package mmcif
