package domain

import "sort"

// ComboType labels a detected meld.
type ComboType int

const (
	ComboTrio ComboType = iota + 1
	ComboEscala
)

func (t ComboType) String() string {
	switch t {
	case ComboTrio:
		return "trio"
	case ComboEscala:
		return "escala"
	}
	return "unknown"
}

// DetectedCombo is a meld found inside a scanned sequence. StartIndex and
// EndIndex are inclusive positions in the original sequence.
type DetectedCombo struct {
	Type       ComboType `json:"type"`
	StartIndex int       `json:"start_index"`
	EndIndex   int       `json:"end_index"`
}

const (
	minEscalaLen = 4
	minTrioLen   = 3
)

// DetectCombos partitions a sequence into non-overlapping melds, keeping the
// longest valid match at each unconsumed start position. Escalas are claimed
// before trios: a run is harder to reconstitute once a set absorbs its cards.
// Output is sorted by start index and deterministic for identical input.
func DetectCombos(seq []Card) []DetectedCombo {
	consumed := make([]bool, len(seq))

	combos := scanPass(seq, consumed, minEscalaLen, IsValidEscala, ComboEscala)
	combos = append(combos, scanPass(seq, consumed, minTrioLen, IsValidTrio, ComboTrio)...)

	sort.Slice(combos, func(i, j int) bool {
		return combos[i].StartIndex < combos[j].StartIndex
	})
	return combos
}

// scanPass probes growing windows from each unconsumed start position. A
// window that breaks validity cannot become valid again by extending, so the
// probe stops at the first invalid length past the last valid one.
func scanPass(seq []Card, consumed []bool, minLen int, valid func([]Card) bool, typ ComboType) []DetectedCombo {
	var out []DetectedCombo

	for start := 0; start < len(seq); start++ {
		if consumed[start] {
			continue
		}

		best := 0
		for n := minLen; start+n <= len(seq); n++ {
			if consumed[start+n-1] {
				break
			}
			if !valid(seq[start : start+n]) {
				break
			}
			best = n
		}
		if best == 0 {
			continue
		}

		for i := start; i < start+best; i++ {
			consumed[i] = true
		}
		out = append(out, DetectedCombo{Type: typ, StartIndex: start, EndIndex: start + best - 1})
	}

	return out
}

// IsBajadaComplete reports whether the detected combos satisfy a round's
// meld requirements. Types never substitute for each other: an extra escala
// does not compensate for a missing trio.
func IsBajadaComplete(combos []DetectedCombo, requiredTrios, requiredEscalas int) bool {
	trios, escalas := 0, 0
	for _, c := range combos {
		switch c.Type {
		case ComboTrio:
			trios++
		case ComboEscala:
			escalas++
		}
	}
	return trios >= requiredTrios && escalas >= requiredEscalas
}
