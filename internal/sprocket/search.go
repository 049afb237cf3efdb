package sprocket

// firstAbove scans profile forward over [from, to) and returns the first
// index whose value exceeds thresh. The range is clipped to the profile.
func firstAbove(profile []float64, from, to int, thresh float64) (int, bool) {
	if from < 0 {
		from = 0
	}
	if to > len(profile) {
		to = len(profile)
	}
	for i := from; i < to; i++ {
		if profile[i] > thresh {
			return i, true
		}
	}
	return 0, false
}

// lastAbove scans profile backward from `from` (inclusive) down to `to`
// (exclusive) and returns the first index whose value exceeds thresh. A start
// past the end of the profile begins at the last sample.
func lastAbove(profile []float64, from, to int, thresh float64) (int, bool) {
	if from >= len(profile) {
		from = len(profile) - 1
	}
	if to < -1 {
		to = -1
	}
	for i := from; i > to; i-- {
		if profile[i] > thresh {
			return i, true
		}
	}
	return 0, false
}

// orDefault returns idx when ok is set and def otherwise.
func orDefault(idx int, ok bool, def int) int {
	if ok {
		return idx
	}
	return def
}
