package lemonade

import (
	"errors"
	"testing"
)

func TestSlotMapInsertResolve(t *testing.T) {
	m := NewSlotMap[string]("test", 8)
	a, sa := m.Insert("a")
	b, sb := m.Insert("b")
	if sa != 0 || sb != 1 {
		t.Fatalf("slots = %d,%d, want 0,1", sa, sb)
	}
	if a == NoID || b == NoID || a == b {
		t.Fatalf("ids = %v,%v", a, b)
	}
	v, err := m.Get(b)
	if err != nil || *v != "b" {
		t.Errorf("Get(b) = %v, %v", v, err)
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
}

func TestSlotMapNoIDInvalid(t *testing.T) {
	m := NewSlotMap[int]("test", 4)
	m.Insert(1)
	if _, err := m.Index(NoID); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Index(NoID) err = %v, want ErrInvalidID", err)
	}
}

func TestSlotMapRemoveCompacts(t *testing.T) {
	m := NewSlotMap[string]("test", 8)
	a, _ := m.Insert("a")
	b, _ := m.Insert("b")
	c, _ := m.Insert("c")

	if err := m.Remove(a); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.Len())
	}
	if m.Has(a) {
		t.Error("removed id still resolves")
	}
	// c was moved into slot 0.
	if s, _ := m.Index(c); s != 0 {
		t.Errorf("slot of c = %d, want 0", s)
	}
	if v, _ := m.Get(b); *v != "b" {
		t.Errorf("b = %q", *v)
	}
	if err := m.Remove(a); !errors.Is(err, ErrInvalidID) {
		t.Errorf("double remove err = %v", err)
	}
}

func TestSlotMapStaleIDAfterReuse(t *testing.T) {
	m := NewSlotMap[int]("test", 2)
	a, _ := m.Insert(1)
	_ = m.Remove(a)
	b, _ := m.Insert(2)
	if a.index() != b.index() {
		t.Fatalf("entry not recycled: %v vs %v", a, b)
	}
	if m.Has(a) {
		t.Error("stale id resolves after reuse")
	}
	if v, _ := m.Get(b); *v != 2 {
		t.Errorf("Get(b) = %d", *v)
	}
}

func TestSlotMapCapacityPanics(t *testing.T) {
	m := NewSlotMap[int]("thing", 1)
	m.Insert(1)
	defer func() {
		if recover() == nil {
			t.Error("expected panic past capacity")
		}
	}()
	m.Insert(2)
}

func TestSlotMapSwapAndMove(t *testing.T) {
	m := NewSlotMap[string]("test", 8)
	var ids []ID
	for _, s := range []string{"a", "b", "c", "d"} {
		id, _ := m.Insert(s)
		ids = append(ids, id)
	}

	m.Swap(0, 3)
	if got := order(m); got != "dbca" {
		t.Fatalf("after swap = %s", got)
	}
	m.Move(0, 2) // d to slot 2
	if got := order(m); got != "bcda" {
		t.Fatalf("after move forward = %s", got)
	}
	m.Move(3, 0) // a to front
	if got := order(m); got != "abcd" {
		t.Fatalf("after move back = %s", got)
	}
	for i, id := range ids {
		if s, err := m.Index(id); err != nil || s != i {
			t.Errorf("Index(%v) = %d, %v, want %d", id, s, err, i)
		}
	}
}

func TestSlotMapClear(t *testing.T) {
	m := NewSlotMap[int]("test", 4)
	a, _ := m.Insert(1)
	b, _ := m.Insert(2)
	m.Clear()
	if m.Len() != 0 || m.Has(a) || m.Has(b) {
		t.Fatal("Clear left live entries")
	}
	c, _ := m.Insert(3)
	if c == a || c == b {
		t.Errorf("new id %v equals a cleared id", c)
	}
}

func TestSlotMapRandomLifecycle(t *testing.T) {
	m := NewSlotMap[int]("test", 64)
	live := map[ID]int{}
	var dead []ID
	for i := 0; i < 500; i++ {
		if i%3 != 2 && len(live) < 64 {
			id, _ := m.Insert(i)
			live[id] = i
			continue
		}
		for id := range live {
			_ = m.Remove(id)
			delete(live, id)
			dead = append(dead, id)
			break
		}
	}
	for id, want := range live {
		v, err := m.Get(id)
		if err != nil || *v != want {
			t.Fatalf("Get(%v) = %v, %v, want %d", id, v, err, want)
		}
	}
	for _, id := range dead {
		if m.Has(id) {
			t.Fatalf("released id %v resolves", id)
		}
	}
	if m.Len() != len(live) {
		t.Errorf("Len = %d, want %d", m.Len(), len(live))
	}
}

func order(m *SlotMap[string]) string {
	var s string
	for _, v := range m.Values() {
		s += v
	}
	return s
}
