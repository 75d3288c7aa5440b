package compliance

// BlockPeriodIndex maps block i of blockCount onto floor(i*numPeriods/blockCount).
// The mapping is monotonic in i and spreads blocks evenly without weights.
func BlockPeriodIndex(i, blockCount, numPeriods int) int {
	if blockCount <= 0 || numPeriods <= 0 || i < 0 {
		return 0
	}
	idx := i * numPeriods / blockCount
	if idx >= numPeriods {
		idx = numPeriods - 1
	}
	return idx
}

// DistributeBlocks returns the period index of every block, in block order.
func DistributeBlocks(blockCount, numPeriods int) []int {
	out := make([]int, blockCount)
	for i := range out {
		out[i] = BlockPeriodIndex(i, blockCount, numPeriods)
	}
	return out
}
