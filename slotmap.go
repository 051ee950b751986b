package lemonade

import (
	"errors"
	"fmt"
)

// ErrInvalidID is returned when an ID does not refer to a live entry.
var ErrInvalidID = errors.New("lemonade: invalid id")

// ID is an opaque, stable handle to a registry entry (texture, sprite,
// widget). The zero value, NoID, never refers to anything.
//
// An ID packs the entry index and a generation. Once the entry is released
// the generation moves on, so a stale ID stays invalid even after the entry
// is recycled.
type ID uint64

// NoID is the invalid ID.
const NoID ID = 0

func makeID(index, gen uint32) ID {
	return ID(uint64(gen)<<32 | uint64(index))
}

func (id ID) index() uint32      { return uint32(id) }
func (id ID) generation() uint32 { return uint32(id >> 32) }

// String renders the ID for debugging purposes.
func (id ID) String() string {
	if id == NoID {
		return "ID(none)"
	}
	return fmt.Sprintf("ID(%d:%d)", id.index(), id.generation())
}

// noFree terminates the free list.
const noFree = ^uint32(0)

// slotEntry is one row of the indirection table. For a live entry slot is
// the dense position of its value; for a released entry slot is the index of
// the next free entry.
type slotEntry struct {
	slot uint32
	gen  uint32
	live bool
}

// SlotMap is a dense array of values addressed through stable IDs.
//
// Values live contiguously in [0, Len()). Their positions (slots) change on
// Remove, Swap and Move, so callers must resolve an ID to a slot again after
// any mutation. Capacity is fixed at construction; inserting past it panics.
type SlotMap[T any] struct {
	name     string
	capacity int

	entries  []slotEntry
	ids      []ID // slot -> ID
	values   []T
	freeHead uint32
}

// NewSlotMap creates an empty slot map holding at most capacity values.
// The name is used in panic messages.
func NewSlotMap[T any](name string, capacity int) *SlotMap[T] {
	if capacity <= 0 {
		panic(fmt.Sprintf("lemonade: %s capacity must be positive, got %d", name, capacity))
	}
	initial := min(capacity, 256)
	return &SlotMap[T]{
		name:     name,
		capacity: capacity,
		entries:  make([]slotEntry, 0, initial),
		ids:      make([]ID, 0, initial),
		values:   make([]T, 0, initial),
		freeHead: noFree,
	}
}

// Insert appends v and returns its new ID and slot.
// Panics when the map is full.
func (m *SlotMap[T]) Insert(v T) (ID, int) {
	if len(m.values) >= m.capacity {
		panic(fmt.Sprintf("lemonade: %s limit is exceeding the maximum of %d", m.name, m.capacity))
	}

	var idx uint32
	if m.freeHead != noFree {
		idx = m.freeHead
		m.freeHead = m.entries[idx].slot
	} else {
		idx = uint32(len(m.entries))
		m.entries = append(m.entries, slotEntry{})
	}

	e := &m.entries[idx]
	e.gen++
	if e.gen == 0 {
		e.gen = 1 // generation 0 is reserved so NoID never resolves
	}
	e.live = true

	slot := len(m.values)
	e.slot = uint32(slot)
	id := makeID(idx, e.gen)
	m.ids = append(m.ids, id)
	m.values = append(m.values, v)
	return id, slot
}

// Index resolves id to its current slot.
func (m *SlotMap[T]) Index(id ID) (int, error) {
	idx := id.index()
	if int(idx) >= len(m.entries) {
		return 0, fmt.Errorf("%s %v: %w", m.name, id, ErrInvalidID)
	}
	e := m.entries[idx]
	if !e.live || e.gen != id.generation() {
		return 0, fmt.Errorf("%s %v: %w", m.name, id, ErrInvalidID)
	}
	return int(e.slot), nil
}

// Has reports whether id refers to a live value.
func (m *SlotMap[T]) Has(id ID) bool {
	_, err := m.Index(id)
	return err == nil
}

// Get returns a pointer to the value for id. The pointer is only valid until
// the next mutation of the map.
func (m *SlotMap[T]) Get(id ID) (*T, error) {
	slot, err := m.Index(id)
	if err != nil {
		return nil, err
	}
	return &m.values[slot], nil
}

// Remove releases id. The last value is moved into the freed slot.
func (m *SlotMap[T]) Remove(id ID) error {
	slot, err := m.Index(id)
	if err != nil {
		return err
	}

	last := len(m.values) - 1
	if slot != last {
		m.values[slot] = m.values[last]
		m.ids[slot] = m.ids[last]
		m.entries[m.ids[slot].index()].slot = uint32(slot)
	}
	var zero T
	m.values[last] = zero
	m.values = m.values[:last]
	m.ids = m.ids[:last]

	m.release(id.index())
	return nil
}

func (m *SlotMap[T]) release(idx uint32) {
	e := &m.entries[idx]
	e.live = false
	e.slot = m.freeHead
	m.freeHead = idx
}

// Swap exchanges the values at slots i and j, keeping their IDs attached.
func (m *SlotMap[T]) Swap(i, j int) {
	if i == j {
		return
	}
	m.values[i], m.values[j] = m.values[j], m.values[i]
	m.ids[i], m.ids[j] = m.ids[j], m.ids[i]
	m.entries[m.ids[i].index()].slot = uint32(i)
	m.entries[m.ids[j].index()].slot = uint32(j)
}

// Move relocates the value at slot from to slot to, shifting the values in
// between by one position. The relative order of all other values is kept.
func (m *SlotMap[T]) Move(from, to int) {
	if from == to {
		return
	}
	v, id := m.values[from], m.ids[from]
	lo, hi := from, to
	if from < to {
		copy(m.values[from:to], m.values[from+1:to+1])
		copy(m.ids[from:to], m.ids[from+1:to+1])
	} else {
		copy(m.values[to+1:from+1], m.values[to:from])
		copy(m.ids[to+1:from+1], m.ids[to:from])
		lo, hi = to, from
	}
	m.values[to] = v
	m.ids[to] = id
	for s := lo; s <= hi; s++ {
		m.entries[m.ids[s].index()].slot = uint32(s)
	}
}

// At returns a pointer to the value at slot. Valid until the next mutation.
func (m *SlotMap[T]) At(slot int) *T {
	return &m.values[slot]
}

// IDAt returns the ID of the value at slot.
func (m *SlotMap[T]) IDAt(slot int) ID {
	return m.ids[slot]
}

// Len returns the number of live values.
func (m *SlotMap[T]) Len() int {
	return len(m.values)
}

// Cap returns the fixed capacity.
func (m *SlotMap[T]) Cap() int {
	return m.capacity
}

// Values returns the dense value slice. The returned slice MUST NOT be
// resized by the caller.
func (m *SlotMap[T]) Values() []T {
	return m.values
}

// Clear releases every value. Previously issued IDs stay invalid.
func (m *SlotMap[T]) Clear() {
	for _, id := range m.ids {
		m.release(id.index())
	}
	clear(m.values)
	m.values = m.values[:0]
	m.ids = m.ids[:0]
}
