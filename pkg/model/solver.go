package model

// Solver splits a necklace between two parties. Implementations validate the instance first and never mutate it
type Solver interface {
	Solve(instance Instance) (CutSet, error)
}
