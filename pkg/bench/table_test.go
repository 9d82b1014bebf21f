package bench

import (
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rowbench-dev/rowbench/pkg/dom"
	"github.com/rowbench-dev/rowbench/pkg/reactive"
)

type tableFixture struct {
	doc   *dom.Document
	scope *reactive.Scope
	sink  *dom.CountingSink
	table *Table
}

func newTableFixture(t *testing.T) *tableFixture {
	t.Helper()
	f := &tableFixture{
		doc:   dom.NewDocument(),
		scope: reactive.NewScope(nil),
		sink:  &dom.CountingSink{},
	}
	f.table = NewTable(f.doc, f.scope, 42)
	f.doc.SetSink(f.sink)
	t.Cleanup(f.scope.Dispose)
	return f
}

// bodyRowIDs reads the rendered row IDs from the first cell of each tr.
func (f *tableFixture) bodyRowIDs(t *testing.T) []int {
	t.Helper()
	out := make([]int, 0, f.table.Body().Len())
	for _, tr := range f.table.Body().Children() {
		idText := tr.Child(0).FirstChild()
		id, err := strconv.Atoi(idText.Text())
		if err != nil {
			t.Fatalf("bad id cell %q: %v", idText.Text(), err)
		}
		out = append(out, id)
	}
	return out
}

// rowIDs extracts the IDs of the state's row slice.
func rowIDs(rows []*Row) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

// labelOf reads the rendered label text for the tr at index i.
func labelOf(tr *dom.Node) string {
	return tr.Child(1).FirstChild().FirstChild().Text()
}

func TestCreateRendersRows(t *testing.T) {
	f := newTableFixture(t)
	f.table.Create(100)

	if got := f.table.Body().Len(); got != 100 {
		t.Fatalf("rendered rows = %d, want 100", got)
	}
	if diff := cmp.Diff(rowIDs(f.table.Rows()), f.bodyRowIDs(t)); diff != "" {
		t.Errorf("rendered order mismatch (-state +dom):\n%s", diff)
	}
	for _, tr := range f.table.Body().Children() {
		label := labelOf(tr)
		if len(strings.Fields(label)) != 3 {
			t.Fatalf("label %q is not three words", label)
		}
	}
}

func TestCreateReplacesExistingRows(t *testing.T) {
	f := newTableFixture(t)
	f.table.Create(10)
	firstIDs := rowIDs(f.table.Rows())

	f.table.Create(10)
	secondIDs := rowIDs(f.table.Rows())

	for i, id := range secondIDs {
		if id == firstIDs[i] {
			t.Fatalf("row IDs reused across create: %d", id)
		}
	}
	if diff := cmp.Diff(secondIDs, f.bodyRowIDs(t)); diff != "" {
		t.Errorf("rendered order mismatch (-state +dom):\n%s", diff)
	}
}

func TestAppendKeepsExistingNodes(t *testing.T) {
	f := newTableFixture(t)
	f.table.Create(10)
	firstNode := f.table.Body().Child(0)

	f.sink.Reset()
	f.table.Append(5)

	if got := f.table.Body().Len(); got != 15 {
		t.Fatalf("rendered rows = %d, want 15", got)
	}
	if f.table.Body().Child(0) != firstNode {
		t.Error("append recreated an existing row node")
	}
	if got := f.sink.Count(dom.OpMove); got != 0 {
		t.Errorf("moves = %d, want 0 for append", got)
	}
}

func TestUpdateEveryTenth(t *testing.T) {
	f := newTableFixture(t)
	f.table.Create(100)

	before := make([]string, 100)
	for i, tr := range f.table.Body().Children() {
		before[i] = labelOf(tr)
	}

	f.sink.Reset()
	f.table.UpdateEveryTenth()

	for i, tr := range f.table.Body().Children() {
		label := labelOf(tr)
		if i%10 == 0 {
			if label != before[i]+" !!!" {
				t.Errorf("row %d label = %q, want %q", i, label, before[i]+" !!!")
			}
		} else if label != before[i] {
			t.Errorf("row %d label changed: %q -> %q", i, before[i], label)
		}
	}
	if got := f.sink.Count(dom.OpSetText); got != 10 {
		t.Errorf("SetText ops = %d, want 10", got)
	}
	// Content updates bypass the reconciler entirely.
	if got := f.sink.Total(); got != 10 {
		t.Errorf("total ops = %d, want 10 (no structural mutations)", got)
	}
}

func TestClearEmptiesTable(t *testing.T) {
	f := newTableFixture(t)
	f.table.Create(1000)

	f.sink.Reset()
	f.table.Clear()

	if got := f.table.Body().Len(); got != 0 {
		t.Fatalf("rendered rows = %d, want 0", got)
	}
	if got := f.sink.Count(dom.OpClear); got != 1 {
		t.Errorf("bulk clears = %d, want 1", got)
	}
	if got := f.sink.Count(dom.OpRemove); got != 0 {
		t.Errorf("per-row removes = %d, want 0", got)
	}
}

func TestSwap(t *testing.T) {
	f := newTableFixture(t)
	f.table.Create(1000)
	idsBefore := rowIDs(f.table.Rows())
	nodeAt1 := f.table.Body().Child(1)
	nodeAt998 := f.table.Body().Child(998)

	f.sink.Reset()
	f.table.Swap()

	idsAfter := f.bodyRowIDs(t)
	if idsAfter[1] != idsBefore[998] || idsAfter[998] != idsBefore[1] {
		t.Error("swap did not exchange rows 2 and 999")
	}
	if f.table.Body().Child(1) != nodeAt998 || f.table.Body().Child(998) != nodeAt1 {
		t.Error("swap recreated nodes instead of moving them")
	}
	if got := f.sink.Count(dom.OpMove); got != 2 {
		t.Errorf("moves = %d, want 2", got)
	}
}

func TestSwapOnSmallTableIsNoop(t *testing.T) {
	f := newTableFixture(t)
	f.table.Create(10)
	before := rowIDs(f.table.Rows())

	f.table.Swap()
	if diff := cmp.Diff(before, f.bodyRowIDs(t)); diff != "" {
		t.Errorf("small-table swap changed order:\n%s", diff)
	}
}

func TestSelect(t *testing.T) {
	f := newTableFixture(t)
	f.table.Create(10)
	rows := f.table.Rows()

	f.table.Select(rows[3].ID)
	if cls, ok := f.table.Body().Child(3).Attr("class"); !ok || cls != "danger" {
		t.Errorf("selected row class = %q/%v, want danger", cls, ok)
	}

	f.sink.Reset()
	f.table.Select(rows[7].ID)
	if _, ok := f.table.Body().Child(3).Attr("class"); ok {
		t.Error("previous selection not cleared")
	}
	if cls, _ := f.table.Body().Child(7).Attr("class"); cls != "danger" {
		t.Error("new selection not applied")
	}
	// Selector fan-out: exactly one SetAttr and one RemoveAttr.
	if got := f.sink.Total(); got != 2 {
		t.Errorf("total ops = %d, want 2 for reselect", got)
	}
}

func TestRemove(t *testing.T) {
	f := newTableFixture(t)
	f.table.Create(10)
	rows := f.table.Rows()
	victim := rows[4].ID

	f.sink.Reset()
	f.table.Remove(victim)

	if got := f.table.Body().Len(); got != 9 {
		t.Fatalf("rendered rows = %d, want 9", got)
	}
	for _, id := range f.bodyRowIDs(t) {
		if id == victim {
			t.Fatalf("removed row %d still rendered", victim)
		}
	}
	if got := f.sink.Count(dom.OpRemove); got != 1 {
		t.Errorf("removes = %d, want 1", got)
	}
	if got := f.sink.Count(dom.OpMove); got != 0 {
		t.Errorf("moves = %d, want 0 for removal", got)
	}
}

func TestRemoveSelectedClearsSelection(t *testing.T) {
	f := newTableFixture(t)
	f.table.Create(10)
	rows := f.table.Rows()

	f.table.Select(rows[2].ID)
	f.table.Remove(rows[2].ID)

	if got := f.table.SelectedID(); got != 0 {
		t.Errorf("SelectedID = %d, want 0 after removing the selected row", got)
	}
}

func TestDeadRowsStopReacting(t *testing.T) {
	f := newTableFixture(t)
	f.table.Create(10)
	old := f.table.Rows()[0]

	f.table.Clear()
	f.sink.Reset()

	// A label write to a removed row must not touch the DOM.
	old.Label.Set("stale")
	f.scope.Flush()
	if got := f.sink.Total(); got != 0 {
		t.Errorf("ops = %d, want 0 for a dead row's label write", got)
	}
}

func TestLabelSequenceIsDeterministic(t *testing.T) {
	docA := dom.NewDocument()
	scopeA := reactive.NewScope(nil)
	defer scopeA.Dispose()
	a := NewTable(docA, scopeA, 7)
	a.Create(20)

	docB := dom.NewDocument()
	scopeB := reactive.NewScope(nil)
	defer scopeB.Dispose()
	b := NewTable(docB, scopeB, 7)
	b.Create(20)

	for i := range a.Rows() {
		la, lb := a.Rows()[i].Label.Peek(), b.Rows()[i].Label.Peek()
		if la != lb {
			t.Fatalf("row %d labels differ for same seed: %q vs %q", i, la, lb)
		}
	}
}
