package model

import (
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// IsValidSplit reports whether both parties end up with the same multiset of gem types when the blocks delimited by cuts are handed out alternately, starting with party 0.
// Cuts may come in any order but must be distinct indices in [0, len(sequence)-2]
func IsValidSplit(sequence []int, cuts CutSet) bool {
	sortedCuts := slices.Sorted(slices.Values(cuts))
	for i, cut := range sortedCuts {
		if cut < 0 || cut > len(sequence)-2 || (i > 0 && sortedCuts[i-1] == cut) {
			return false
		}
	}

	parties := Parties(sequence, sortedCuts)
	return slices.Equal(parties[0], parties[1])
}

// Parties returns the sorted multiset of gem types held by each party. Cuts must be sorted and within range
func Parties(sequence []int, cuts CutSet) [2][]int {
	parties := [2][]int{{}, {}}
	party, lastCut := 0, 0
	for _, cut := range cuts {
		parties[party] = append(parties[party], sequence[lastCut:cut+1]...)
		party = 1 - party
		lastCut = cut + 1
	}
	parties[party] = append(parties[party], sequence[lastCut:]...)

	slices.Sort(parties[0])
	slices.Sort(parties[1])
	return parties
}

// Render prints the necklace with a "|" after every cut index. Gems are separated by spaces whenever a type needs more than one digit
func Render(sequence []int, cuts CutSet) string {
	wide := lo.SomeBy(sequence, func(gem int) bool { return gem > 9 })

	var builder strings.Builder
	for i, gem := range sequence {
		if wide && i > 0 && !slices.Contains(cuts, i-1) {
			builder.WriteByte(' ')
		}
		builder.WriteString(strconv.Itoa(gem))
		if slices.Contains(cuts, i) {
			builder.WriteByte('|')
		}
	}
	return builder.String()
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
