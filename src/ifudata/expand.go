package ifudata

import "math"

// BinIndex maps |bin id| to the row of that bin in the compressed result
// arrays. It is computed once per table and shared by all expansions.
type BinIndex map[int]int

// NewBinIndex builds the lookup from the table's unique bin ids. Row order
// follows ubins, which matches the row order of the compressed results.
func NewBinIndex(ubins []int) BinIndex {
	idx := make(BinIndex, len(ubins))
	for row, id := range ubins {
		idx[id] = row
	}
	return idx
}

// Expand converts a compressed per-bin array to the per-sample long form:
// sample i receives compressed[idx[|binIDs[i]|]]. Samples whose bin id has
// no compressed row get NaN rather than an error; upstream data gaps must
// not abort plotting.
func (idx BinIndex) Expand(compressed []float64, binIDs []int) []float64 {
	long := make([]float64, len(binIDs))
	for i, id := range binIDs {
		if id < 0 {
			id = -id
		}
		row, ok := idx[id]
		if !ok || row >= len(compressed) {
			long[i] = math.NaN()
			continue
		}
		long[i] = compressed[row]
	}
	return long
}

// ExpandMatrix expands every line column of a bin-by-line matrix at once,
// returning per-line long arrays indexed [line][sample].
func (idx BinIndex) ExpandMatrix(m [][]float64, binIDs []int, nlines int) [][]float64 {
	out := make([][]float64, nlines)
	for l := 0; l < nlines; l++ {
		out[l] = idx.Expand(Column(m, l), binIDs)
	}
	return out
}
