package iview

import (
	"sort"

	"github.com/maruel/natural"
)

// Sort method constants
const (
	SortByName     = 0 // Byte-wise ordering on the display name (default)
	SortNatural    = 1 // Natural sort order (e.g., file1, file2, file10)
	SortEntryOrder = 2 // Maintain original enumeration order (no sort)
)

// SortStrategy defines the interface for different collection orderings.
type SortStrategy interface {
	// Sort returns a new sorted slice without modifying the original.
	// Sorting is stable: ties keep the enumeration order.
	Sort(entries Collection) Collection
	// Name returns the human-readable name of the strategy
	Name() string
	// ID returns the numeric identifier for config storage
	ID() int
}

// ByNameSortStrategy orders entries by display name, byte-wise. This is a
// locale-invariant comparison, so the ordering is identical on every system.
type ByNameSortStrategy struct{}

func (s *ByNameSortStrategy) Sort(entries Collection) Collection {
	result := make(Collection, len(entries))
	copy(result, entries)

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

func (s *ByNameSortStrategy) Name() string {
	return "Name"
}

func (s *ByNameSortStrategy) ID() int {
	return SortByName
}

// NaturalSortStrategy implements natural sorting using maruel/natural
type NaturalSortStrategy struct{}

func (s *NaturalSortStrategy) Sort(entries Collection) Collection {
	result := make(Collection, len(entries))
	copy(result, entries)

	sort.SliceStable(result, func(i, j int) bool {
		return natural.Less(result[i].Name, result[j].Name)
	})

	return result
}

func (s *NaturalSortStrategy) Name() string {
	return "Natural"
}

func (s *NaturalSortStrategy) ID() int {
	return SortNatural
}

// EntryOrderSortStrategy preserves the original enumeration order
type EntryOrderSortStrategy struct{}

func (s *EntryOrderSortStrategy) Sort(entries Collection) Collection {
	result := make(Collection, len(entries))
	copy(result, entries)

	return result
}

func (s *EntryOrderSortStrategy) Name() string {
	return "Entry Order"
}

func (s *EntryOrderSortStrategy) ID() int {
	return SortEntryOrder
}

// GetSortStrategy returns the appropriate strategy based on the sort method ID
func GetSortStrategy(sortMethod int) SortStrategy {
	switch sortMethod {
	case SortByName:
		return &ByNameSortStrategy{}
	case SortNatural:
		return &NaturalSortStrategy{}
	case SortEntryOrder:
		return &EntryOrderSortStrategy{}
	default:
		return &ByNameSortStrategy{} // Default fallback
	}
}

// GetAllSortStrategies returns all available sort strategies
func GetAllSortStrategies() []SortStrategy {
	return []SortStrategy{
		&ByNameSortStrategy{},
		&NaturalSortStrategy{},
		&EntryOrderSortStrategy{},
	}
}
