package main

import (
	"sort"

	"github.com/maruel/natural"
)

// SortStrategy defines the interface for sequence ordering strategies.
type SortStrategy interface {
	// Sort returns a new sorted slice without modifying the original
	Sort(refs []ImageRef) []ImageRef
	// Name returns the human-readable name of the strategy
	Name() string
	// ID returns the numeric identifier for config storage
	ID() int
}

// LexicographicSortStrategy orders refs by plain byte-wise name comparison.
// This is the default so that directory resolution order equals
// lexicographic filename order.
type LexicographicSortStrategy struct{}

func (s *LexicographicSortStrategy) Sort(refs []ImageRef) []ImageRef {
	if len(refs) == 0 {
		return []ImageRef{}
	}

	result := make([]ImageRef, len(refs))
	copy(result, refs)

	sort.Slice(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})

	return result
}

func (s *LexicographicSortStrategy) Name() string {
	return "Lexicographic"
}

func (s *LexicographicSortStrategy) ID() int {
	return SortLexicographic
}

// NaturalSortStrategy implements natural sorting using maruel/natural, so
// file2 orders before file10.
type NaturalSortStrategy struct{}

func (s *NaturalSortStrategy) Sort(refs []ImageRef) []ImageRef {
	if len(refs) == 0 {
		return []ImageRef{}
	}

	result := make([]ImageRef, len(refs))
	copy(result, refs)

	sort.Slice(result, func(i, j int) bool {
		return natural.Less(result[i].Path, result[j].Path)
	})

	return result
}

func (s *NaturalSortStrategy) Name() string {
	return "Natural"
}

func (s *NaturalSortStrategy) ID() int {
	return SortNatural
}

// EntryOrderSortStrategy preserves the original listing order.
type EntryOrderSortStrategy struct{}

func (s *EntryOrderSortStrategy) Sort(refs []ImageRef) []ImageRef {
	if len(refs) == 0 {
		return []ImageRef{}
	}

	result := make([]ImageRef, len(refs))
	copy(result, refs)

	return result
}

func (s *EntryOrderSortStrategy) Name() string {
	return "Entry Order"
}

func (s *EntryOrderSortStrategy) ID() int {
	return SortEntryOrder
}

// GetSortStrategy returns the strategy for the given sort method ID.
func GetSortStrategy(sortMethod int) SortStrategy {
	switch sortMethod {
	case SortLexicographic:
		return &LexicographicSortStrategy{}
	case SortNatural:
		return &NaturalSortStrategy{}
	case SortEntryOrder:
		return &EntryOrderSortStrategy{}
	default:
		return &LexicographicSortStrategy{}
	}
}

// GetAllSortStrategies returns all available sort strategies.
func GetAllSortStrategies() []SortStrategy {
	return []SortStrategy{
		&LexicographicSortStrategy{},
		&NaturalSortStrategy{},
		&EntryOrderSortStrategy{},
	}
}
