package pdb

// Export some internal functions for testing

const (
	Old_fmt   = oldFmt
	Mmcif_fmt = mmcifFmt
	Unk_fmt   = unkFmt
)

var OldOrMmcif = oldOrMmcif
