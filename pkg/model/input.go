package model

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// RawInstance mirrors the JSON input. The necklace may come either as an array of gem types (Sequence) or as a string of single-digit gem types (Necklace)
type RawInstance struct {
	Types    int
	Counts   []int
	Sequence []int
	Necklace string
}

type Instance struct {
	Types    int   `json:"types"`
	Counts   []int `json:"counts"`   // Counts[t] is the number of gems of type t, always positive and even
	Sequence []int `json:"sequence"` // Gem types in necklace order, never mutated by the solvers
}

// CutSet holds strictly increasing indices into the sequence. A cut at i separates the gems at i and i+1
type CutSet []int

func NewInstance(types int, counts []int, sequence []int) (Instance, error) {
	instance := Instance{
		Types:    types,
		Counts:   slices.Clone(counts),
		Sequence: slices.Clone(sequence),
	}
	if err := instance.Validate(); err != nil {
		return Instance{}, err
	}
	return instance, nil
}

func (instance Instance) Validate() error {
	if instance.Types < 2 {
		return fmt.Errorf("%w: at least 2 gem types are required, got %d", ErrMalformedInstance, instance.Types)
	} else if len(instance.Counts) != instance.Types {
		return fmt.Errorf("%w: expected %d counts, got %d", ErrMalformedInstance, instance.Types, len(instance.Counts))
	}

	for gemType, count := range instance.Counts {
		if count <= 0 || count%2 != 0 {
			return fmt.Errorf("%w: count of gem type %d must be a positive even number, got %d", ErrMalformedInstance, gemType, count)
		}
	}

	if total := lo.Sum(instance.Counts); total != len(instance.Sequence) {
		return fmt.Errorf("%w: counts add up to %d gems but the sequence holds %d", ErrMalformedInstance, total, len(instance.Sequence))
	}

	occurrences := make([]int, instance.Types)
	for position, gem := range instance.Sequence {
		if gem < 0 || gem >= instance.Types {
			return fmt.Errorf("%w: gem %d at position %d is not a valid gem type", ErrMalformedInstance, gem, position)
		}
		occurrences[gem]++
	}

	for gemType, count := range instance.Counts {
		if occurrences[gemType] != count {
			return fmt.Errorf("%w: gem type %d occurs %d times but its count is %d", ErrMalformedInstance, gemType, occurrences[gemType], count)
		}
	}
	return nil
}

func InstanceFromJson(file string) (Instance, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Instance{}, err
	}

	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return Instance{}, err
	}

	var rawInstance RawInstance
	if err := mapstructure.Decode(inputJson, &rawInstance); err != nil {
		return Instance{}, fmt.Errorf("%w: %v", ErrMalformedInstance, err)
	}
	return ProcessRawInstance(rawInstance)
}

func ProcessRawInstance(rawInstance RawInstance) (Instance, error) {
	sequence := rawInstance.Sequence
	if len(sequence) == 0 && rawInstance.Necklace != "" {
		sequence = make([]int, 0, len(rawInstance.Necklace))
		for position, gem := range rawInstance.Necklace {
			if gem < '0' || gem > '9' {
				return Instance{}, fmt.Errorf("%w: necklace holds %q at position %d, only digits are allowed", ErrMalformedInstance, gem, position)
			}
			sequence = append(sequence, int(gem-'0'))
		}
	}

	// The number of types defaults to the number of counts
	types := rawInstance.Types
	if types == 0 {
		types = len(rawInstance.Counts)
	}

	return NewInstance(types, rawInstance.Counts, sequence)
}
