package sat

import (
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// cnfCollector receives the clauses produced by a circuit's Tseitin translation, one literal at a time and each clause terminated by z.LitNull
type cnfCollector struct {
	sat    SAT
	clause []int64
}

func (collector *cnfCollector) Add(literal z.Lit) {
	if literal == z.LitNull {
		collector.sat.Clauses = append(collector.sat.Clauses, collector.clause)
		collector.clause = nil
		return
	}

	dimacs := int64(literal.Dimacs())
	collector.clause = append(collector.clause, dimacs)
	if variable := uint64(max(dimacs, -dimacs)); variable > collector.sat.Variables {
		collector.sat.Variables = variable
	}
}

// FromCircuit translates the circuit into CNF and appends a unit clause for every assertion, so that a solution of the returned instance satisfies all of them
func FromCircuit(circuit *logic.C, assertions ...z.Lit) SAT {
	collector := &cnfCollector{}
	circuit.ToCnf(collector)

	for _, assertion := range assertions {
		collector.Add(assertion)
		collector.Add(z.LitNull)
	}

	return collector.sat
}
