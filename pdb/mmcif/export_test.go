package mmcif

// Export some internal functions for testing

var (
	SplitCifLine = splitCifLine
	Fields       = fields
	FirstField   = firstField
	TrimSU       = trimSU
)

type BSlice = bSlice

// ResolveCols returns the column each required name was found in.
func ResolveCols(headers []string) (map[string]int, error) {
	acn, err := resolveCols(headers)
	if err != nil {
		return nil, err
	}
	ret := make(map[string]int)
	for _, cf := range acn.all() {
		ret[cf.cifName] = cf.n
	}
	return ret, nil
}
