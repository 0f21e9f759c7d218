package stationtable

import "github.com/dolthub/swiss"

// SwissTable is the simpler alternative aggregation backend: a general
// purpose swiss map keyed by the station name string, with no SIMD
// equality path and no >31-byte special case. It exists for two reasons
// (see SPEC_FULL.md): as a correctness oracle to differential-test Table
// against, and as a documented slower-but-simpler choice for callers who
// don't need the open-addressing table's throughput.
type SwissTable struct {
	m *swiss.Map[string, *Entry]
}

// NewSwissTable allocates a swiss-map-backed table sized for sizeHint
// distinct stations.
func NewSwissTable(sizeHint int) *SwissTable {
	if sizeHint < 1 {
		sizeHint = 1
	}
	return &SwissTable{m: swiss.NewMap[string, *Entry](uint32(sizeHint))}
}

// Insert folds one reading for name into the table.
func (t *SwissTable) Insert(name []byte, temp int32) {
	key := string(name)
	e, ok := t.m.Get(key)
	if !ok {
		e = &Entry{}
		t.m.Put(key, e)
	}
	e.Update(temp)
}

// Merge folds every station in o into t.
func (t *SwissTable) Merge(o *SwissTable) {
	o.m.Iter(func(name string, oe *Entry) bool {
		e, ok := t.m.Get(name)
		if !ok {
			cp := *oe
			t.m.Put(name, &cp)
		} else {
			e.Merge(oe)
		}
		return false
	})
}

// Entries returns every station currently in the table.
func (t *SwissTable) Entries() []Named {
	out := make([]Named, 0, t.m.Count())
	t.m.Iter(func(name string, e *Entry) bool {
		out = append(out, Named{Name: name, Entry: *e})
		return false
	})
	return out
}

// Len returns the number of distinct stations seen so far.
func (t *SwissTable) Len() int {
	return int(t.m.Count())
}
