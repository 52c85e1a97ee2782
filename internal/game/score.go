package game

// Score implements the two-pass scoring algorithm for a guess against the
// target. Both arguments must be WordLength lowercase ASCII letters.
//
// Pass 1:
//   - Mark exact matches and consume those target positions.
//
// Pass 2:
//   - For each remaining guess letter, left to right, claim the first
//     unconsumed target position holding the same letter (Present), or
//     mark Absent when none is left.
//
// Earlier guess positions win ties, and each target letter satisfies at most
// one guess position.
func Score(guess, target string) [WordLength]Mark {
	var res [WordLength]Mark
	var consumed [WordLength]bool

	for i := 0; i < WordLength; i++ {
		if guess[i] == target[i] {
			res[i] = MarkExact
			consumed[i] = true
		}
	}

	for i := 0; i < WordLength; i++ {
		if res[i] == MarkExact {
			continue
		}
		res[i] = MarkAbsent
		for j := 0; j < WordLength; j++ {
			if !consumed[j] && target[j] == guess[i] {
				res[i] = MarkPresent
				consumed[j] = true
				break
			}
		}
	}
	return res
}

// allExact returns true if all marks are MarkExact.
func allExact(m [WordLength]Mark) bool {
	for _, x := range m {
		if x != MarkExact {
			return false
		}
	}
	return true
}
