package stationtable

import (
	"sort"
	"testing"
)

func withMargin(s string) []byte {
	b := make([]byte, len(s)+32)
	copy(b, s)
	return b[:len(s)]
}

func TestInsertAggregatesReadings(t *testing.T) {
	tab := New(4)
	readings := []struct {
		name string
		temp int32
	}{
		{"Hamburg", 120}, {"Bulawayo", 89}, {"Palembang", 388},
		{"Hamburg", 342}, {"Bulawayo", 224},
	}
	for _, r := range readings {
		tab.Insert(withMargin(r.name), r.temp)
	}

	want := map[string]Entry{
		"Hamburg":   {Min: 120, Max: 342, Sum: 462, Count: 2},
		"Bulawayo":  {Min: 89, Max: 224, Sum: 313, Count: 2},
		"Palembang": {Min: 388, Max: 388, Sum: 388, Count: 1},
	}
	got := map[string]Entry{}
	for _, n := range tab.Entries() {
		got[n.Name] = n.Entry
	}
	for name, w := range want {
		g, ok := got[name]
		if !ok {
			t.Fatalf("missing station %q", name)
		}
		if g != w {
			t.Errorf("station %q = %+v, want %+v", name, g, w)
		}
	}
}

func TestMergeIsCommutativeAndAssociative(t *testing.T) {
	build := func(order []string) *Table {
		tab := New(4)
		for _, n := range order {
			tab.Insert(withMargin(n[:len(n)-3]), int32(n[len(n)-2]))
		}
		return tab
	}
	_ = build // silence unused in case of pruning; real check below uses explicit tables

	a := New(4)
	a.Insert(withMargin("X"), 10)
	a.Insert(withMargin("X"), 20)
	b := New(4)
	b.Insert(withMargin("X"), 30)
	c := New(4)
	c.Insert(withMargin("X"), 5)

	// (a merge b) merge c
	ab := New(4)
	ab.Merge(a)
	ab.Merge(b)
	abc1 := New(4)
	abc1.Merge(ab)
	abc1.Merge(c)

	// a merge (b merge c)
	bc := New(4)
	bc.Merge(b)
	bc.Merge(c)
	abc2 := New(4)
	abc2.Merge(a)
	abc2.Merge(bc)

	// b merge a
	ba := New(4)
	ba.Merge(b)
	ba.Merge(a)
	if got, want := ba.Entries()[0].Entry, ab.Entries()[0].Entry; got != want {
		t.Fatalf("commutativity violated: %+v vs %+v", got, want)
	}

	e1 := abc1.Entries()[0].Entry
	e2 := abc2.Entries()[0].Entry
	if e1 != e2 {
		t.Fatalf("associativity violated: %+v vs %+v", e1, e2)
	}
	if e1.Sum != 65 || e1.Count != 4 || e1.Min != 5 || e1.Max != 30 {
		t.Fatalf("unexpected merged entry: %+v", e1)
	}
}

func TestOverflowPathForLongNames(t *testing.T) {
	long := "ThisStationNameIsDefinitelyLongerThanThirtyOneBytes"
	tab := New(4)
	tab.Insert(withMargin(long), 10)
	tab.Insert(withMargin(long), 20)

	entries := tab.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Name != long {
		t.Fatalf("name = %q, want %q", entries[0].Name, long)
	}
	if entries[0].Entry.Count != 2 || entries[0].Entry.Sum != 30 {
		t.Fatalf("entry = %+v", entries[0].Entry)
	}
}

func TestTableAgreesWithSwissOracle(t *testing.T) {
	data := []struct {
		name string
		temp int32
	}{
		{"aaa", 10}, {"AAA", 10}, {"Yakutsk", -454}, {"Yakutsk", -400},
		{"Yakutsk", 50}, {"X", 10}, {"X", 10}, {"X", 20},
	}

	fast := New(4)
	oracle := NewSwissTable(4)
	for _, d := range data {
		fast.Insert(withMargin(d.name), d.temp)
		oracle.Insert(withMargin(d.name), d.temp)
	}

	fe := fast.Entries()
	oe := oracle.Entries()
	sort.Slice(fe, func(i, j int) bool { return fe[i].Name < fe[j].Name })
	sort.Slice(oe, func(i, j int) bool { return oe[i].Name < oe[j].Name })

	if len(fe) != len(oe) {
		t.Fatalf("len mismatch: fast=%d oracle=%d", len(fe), len(oe))
	}
	for i := range fe {
		if fe[i] != oe[i] {
			t.Errorf("mismatch at %d: fast=%+v oracle=%+v", i, fe[i], oe[i])
		}
	}
}

func TestMeanTenthsRoundsHalfAwayFromZero(t *testing.T) {
	e := Entry{Sum: 40, Count: 3} // 1.0 + 1.0 + 2.0 -> mean 1.333.. -> 1.3
	if got := e.MeanTenths(); got != 13 {
		t.Errorf("MeanTenths() = %d, want 13", got)
	}
	e2 := Entry{Sum: -40, Count: 3}
	if got := e2.MeanTenths(); got != -13 {
		t.Errorf("MeanTenths() = %d, want -13", got)
	}
}
