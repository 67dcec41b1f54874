package allocator

import "sort"

// Item is a study item that needs DurationMinutes of slot capacity.
type Item struct {
	ID       string `json:"id"`
	Duration int    `json:"duration_minutes"`
}

// Assignment records the slot an item was placed into.
type Assignment struct {
	ItemID    string `json:"item_id"`
	SlotIndex int    `json:"slot_index"`
}

// Result is the outcome of a best-fit allocation.
type Result struct {
	Assignments []Assignment `json:"assignments"`
	Unplaced    []string     `json:"unplaced"`
	Slots       []Slot       `json:"slots"`
}

// BestFit assigns items in input order, each to the slot with the smallest remaining capacity
// that still fits it. Items that fit no slot, or have a negative duration, are reported as unplaced.
func BestFit(slots []Slot, items []Item) Result {
	h := NewSlotHeap(slots)
	result := Result{
		Assignments: make([]Assignment, 0, len(items)),
		Unplaced:    []string{},
	}

	for _, item := range items {
		if item.Duration < 0 {
			result.Unplaced = append(result.Unplaced, item.ID)
			continue
		}

		var skipped []Slot
		placed := false
		for h.Len() > 0 {
			slot, _ := h.Pop()
			if slot.Capacity < item.Duration {
				skipped = append(skipped, slot)
				continue
			}
			slot.Capacity -= item.Duration
			h.Push(slot)
			result.Assignments = append(result.Assignments, Assignment{ItemID: item.ID, SlotIndex: slot.Index})
			placed = true
			break
		}
		for _, slot := range skipped {
			h.Push(slot)
		}
		if !placed {
			result.Unplaced = append(result.Unplaced, item.ID)
		}
	}

	result.Slots = h.Slots()
	return result
}

func sortByIndex(slots []Slot) {
	sort.Slice(slots, func(i, j int) bool { return slots[i].Index < slots[j].Index })
}
