package board

import (
	"strconv"
	"strings"

	"workload-board/domain"
)

// scoreKey captures exactly the inputs of the score formula: person ids and
// levels, task estimations in order, and the weight table revision. Two
// states with equal keys have equal scores.
func scoreKey(people []domain.Person, weightsRev uint64) string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(weightsRev, 10))
	for _, p := range people {
		b.WriteByte('|')
		b.WriteString(strconv.Quote(p.ID))
		b.WriteByte('@')
		b.WriteString(strconv.Itoa(int(p.Level)))
		b.WriteByte(':')
		for i, t := range p.Tasks {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(string(t.Estimation))
		}
	}
	return b.String()
}
