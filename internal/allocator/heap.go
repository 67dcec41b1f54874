// Package allocator places sized study items into capacity-bearing slots.
package allocator

import "container/heap"

// Slot is a capacity-bearing slot identified by its original index.
type Slot struct {
	Index    int `json:"index"`
	Capacity int `json:"capacity_minutes"`
}

type slotEntry struct {
	slot Slot
	pos  int
}

// slotQueue implements heap.Interface ordered by remaining capacity, then by original index.
type slotQueue []*slotEntry

func (q slotQueue) Len() int { return len(q) }

func (q slotQueue) Less(i, j int) bool {
	if q[i].slot.Capacity == q[j].slot.Capacity {
		return q[i].slot.Index < q[j].slot.Index
	}
	return q[i].slot.Capacity < q[j].slot.Capacity
}

func (q slotQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].pos = i
	q[j].pos = j
}

func (q *slotQueue) Push(x any) {
	entry := x.(*slotEntry)
	entry.pos = len(*q)
	*q = append(*q, entry)
}

func (q *slotQueue) Pop() any {
	old := *q
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	entry.pos = -1
	*q = old[:n-1]
	return entry
}

// SlotHeap is a min-heap of slots keyed by remaining capacity that also tracks each slot's
// position so it can be updated or removed by its original index.
// It is not safe for concurrent use.
type SlotHeap struct {
	queue slotQueue
	index map[int]*slotEntry
}

// NewSlotHeap heapifies slots in O(n). A later slot with a duplicate index replaces the earlier one.
func NewSlotHeap(slots []Slot) *SlotHeap {
	h := &SlotHeap{
		queue: make(slotQueue, 0, len(slots)),
		index: make(map[int]*slotEntry, len(slots)),
	}
	for _, s := range slots {
		if existing, ok := h.index[s.Index]; ok {
			existing.slot = s
			continue
		}
		entry := &slotEntry{slot: s, pos: len(h.queue)}
		h.queue = append(h.queue, entry)
		h.index[s.Index] = entry
	}
	heap.Init(&h.queue)
	return h
}

// Len returns the number of slots in the heap.
func (h *SlotHeap) Len() int { return h.queue.Len() }

// Push inserts a slot, or updates its capacity if the index is already present.
func (h *SlotHeap) Push(s Slot) {
	if _, ok := h.index[s.Index]; ok {
		h.Update(s.Index, s.Capacity)
		return
	}
	entry := &slotEntry{slot: s}
	heap.Push(&h.queue, entry)
	h.index[s.Index] = entry
}

// Peek returns the slot with the smallest remaining capacity without removing it.
func (h *SlotHeap) Peek() (Slot, bool) {
	if h.queue.Len() == 0 {
		return Slot{}, false
	}
	return h.queue[0].slot, true
}

// Pop removes and returns the slot with the smallest remaining capacity.
func (h *SlotHeap) Pop() (Slot, bool) {
	if h.queue.Len() == 0 {
		return Slot{}, false
	}
	entry := heap.Pop(&h.queue).(*slotEntry)
	delete(h.index, entry.slot.Index)
	return entry.slot, true
}

// Update sets the remaining capacity of the slot with the given original index.
func (h *SlotHeap) Update(index, capacity int) bool {
	entry, ok := h.index[index]
	if !ok {
		return false
	}
	entry.slot.Capacity = capacity
	heap.Fix(&h.queue, entry.pos)
	return true
}

// Remove deletes the slot with the given original index.
func (h *SlotHeap) Remove(index int) (Slot, bool) {
	entry, ok := h.index[index]
	if !ok {
		return Slot{}, false
	}
	heap.Remove(&h.queue, entry.pos)
	delete(h.index, index)
	return entry.slot, true
}

// Slots returns the current slots ordered by original index.
func (h *SlotHeap) Slots() []Slot {
	out := make([]Slot, 0, len(h.queue))
	for _, entry := range h.queue {
		out = append(out, entry.slot)
	}
	sortByIndex(out)
	return out
}
