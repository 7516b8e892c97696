package action

import "testing"

func TestDictNewAssignsSequentialIDs(t *testing.T) {
	d := NewDict()
	a := d.New("push", "1:1", nil, NoCondID)
	b := d.New("pop", "2:1", nil, NoCondID)
	if a.ID != 0 || b.ID != 1 {
		t.Fatalf("expected sequential ids 0,1, got %d,%d", a.ID, b.ID)
	}
	if len(d.All()) != 2 {
		t.Fatalf("expected 2 interned actions, got %d", len(d.All()))
	}
}

func TestActionRefCountingAndDead(t *testing.T) {
	a := &Action{}
	if !a.Dead() {
		t.Fatal("a fresh action must start dead")
	}
	a.AddRef(RefTrans)
	a.AddRef(RefCond)
	if a.Dead() {
		t.Fatal("expected a to be alive after two refs")
	}
	if got := a.TotalRefs(); got != 2 {
		t.Fatalf("TotalRefs() = %d, want 2", got)
	}
	a.RemoveRef(RefTrans)
	a.RemoveRef(RefCond)
	if !a.Dead() {
		t.Fatal("expected a to be dead after removing both refs")
	}
	a.RemoveRef(RefTrans) // must not go negative
	if a.TransRefs != 0 {
		t.Fatalf("TransRefs went negative: %d", a.TransRefs)
	}
}

func TestDictDeadActions(t *testing.T) {
	d := NewDict()
	live := d.New("live", "1:1", nil, NoCondID)
	dead := d.New("dead", "2:1", nil, NoCondID)
	live.AddRef(RefTrans)
	deadList := d.DeadActions()
	if len(deadList) != 1 || deadList[0] != dead {
		t.Fatalf("expected exactly [dead], got %v", deadList)
	}
}

func TestTableSetActionAndUnion(t *testing.T) {
	a := &Action{ID: 1}
	b := &Action{ID: 2}
	t1 := NewTable()
	if !t1.SetAction(0, a) {
		t.Fatal("expected first SetAction at ordering 0 to succeed")
	}
	if t1.SetAction(0, b) {
		t.Fatal("expected SetAction at an occupied ordering to fail")
	}
	t2 := NewTable()
	t2.SetAction(1, b)
	t1.SetActions(t2)
	if t1.Len() != 2 {
		t.Fatalf("expected 2 entries after union, got %d", t1.Len())
	}
	if !t1.HasAction(a) || !t1.HasAction(b) {
		t.Fatal("expected both actions present after union")
	}
}

func TestTableEqualAndClone(t *testing.T) {
	a := &Action{ID: 1}
	t1 := NewTable()
	t1.SetAction(0, a)
	clone := t1.Clone()
	if !t1.Equal(clone) {
		t.Fatal("expected a table to equal its clone")
	}
	clone.SetAction(1, &Action{ID: 2})
	if t1.Equal(clone) {
		t.Fatal("expected tables to differ after mutating the clone")
	}
}

func TestTableSortedOrdersByOrdering(t *testing.T) {
	a, b, c := &Action{ID: 1}, &Action{ID: 2}, &Action{ID: 3}
	tbl := NewTable()
	tbl.SetAction(5, c)
	tbl.SetAction(1, a)
	tbl.SetAction(3, b)
	sorted := tbl.Sorted()
	want := []Ordering{1, 3, 5}
	for i, p := range sorted {
		if p.Ordering != want[i] {
			t.Fatalf("Sorted()[%d].Ordering = %d, want %d", i, p.Ordering, want[i])
		}
	}
}
