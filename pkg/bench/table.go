package bench

import (
	"strconv"

	"github.com/rowbench-dev/rowbench/pkg/dom"
	"github.com/rowbench-dev/rowbench/pkg/keyed"
	"github.com/rowbench-dev/rowbench/pkg/reactive"
)

// Row is one table entry. ID is the row's key and never changes; Label is
// the only mutable field and has its own fine-grained update path.
type Row struct {
	ID    int
	Label *reactive.Signal[string]
}

// Table owns the row state and the rendered tree. The reconciler keeps
// tbody in sync with the rows signal; each row node carries two private
// effects, one updating its label text and one toggling its selected
// class, so content changes never pass through the reconciler.
type Table struct {
	doc   *dom.Document
	scope *reactive.Scope

	root  *dom.Node
	tbody *dom.Node

	rows     *reactive.Signal[[]*Row]
	selected *reactive.Signal[int]

	rec       *keyed.Reconciler[*Row]
	rowScopes map[int]*reactive.Scope

	nextID int
	labels *labelGen
}

// NewTable builds the table skeleton under doc and mounts the reconciler
// in scope. The seed fixes the label sequence.
func NewTable(doc *dom.Document, scope *reactive.Scope, seed int64) *Table {
	t := &Table{
		doc:       doc,
		scope:     scope,
		rows:      reactive.NewSignal[[]*Row](nil),
		selected:  reactive.NewSignal(0),
		rowScopes: make(map[int]*reactive.Scope),
		nextID:    1,
		labels:    newLabelGen(seed),
	}

	t.root = doc.CreateElement("table")
	t.root.SetAttr("class", "table table-hover table-striped test-data")
	t.tbody = doc.CreateElement("tbody")
	t.root.AppendChild(t.tbody)

	scope.Run(func() {
		t.rec = keyed.Bind(t.tbody, t.rows, rowKey, t.renderRow, nil)
	})
	return t
}

func rowKey(r *Row) string { return strconv.Itoa(r.ID) }

// renderRow builds the node for one row and wires its subscriptions in a
// per-row scope, disposed when the row goes away.
func (t *Table) renderRow(r *Row) (*dom.Node, error) {
	tr := t.doc.CreateElement("tr")

	idCell := t.doc.CreateElement("td")
	idCell.SetAttr("class", "col-md-1")
	idCell.AppendChild(t.doc.CreateText(strconv.Itoa(r.ID)))
	tr.AppendChild(idCell)

	labelCell := t.doc.CreateElement("td")
	labelCell.SetAttr("class", "col-md-4")
	labelLink := t.doc.CreateElement("a")
	labelLink.SetAttr("data-action", "select")
	labelLink.SetAttr("data-id", strconv.Itoa(r.ID))
	labelText := t.doc.CreateText("")
	labelLink.AppendChild(labelText)
	labelCell.AppendChild(labelLink)
	tr.AppendChild(labelCell)

	removeCell := t.doc.CreateElement("td")
	removeCell.SetAttr("class", "col-md-1")
	removeLink := t.doc.CreateElement("a")
	removeLink.SetAttr("data-action", "remove")
	removeLink.SetAttr("data-id", strconv.Itoa(r.ID))
	removeCell.AppendChild(removeLink)
	tr.AppendChild(removeCell)

	spacer := t.doc.CreateElement("td")
	spacer.SetAttr("class", "col-md-6")
	tr.AppendChild(spacer)

	sc := reactive.NewScope(t.scope)
	t.rowScopes[r.ID] = sc
	sc.Run(func() {
		reactive.NewEffect(func() reactive.Cleanup {
			labelText.SetText(r.Label.Get())
			return nil
		})

		isSelected := reactive.NewMemo(func() bool {
			return t.selected.Get() == r.ID
		})
		reactive.NewEffect(func() reactive.Cleanup {
			if isSelected.Get() {
				tr.SetAttr("class", "danger")
			} else {
				tr.RemoveAttr("class")
			}
			return nil
		})
	})

	return tr, nil
}

// Root returns the table element.
func (t *Table) Root() *dom.Node { return t.root }

// Body returns the tbody container the reconciler owns.
func (t *Table) Body() *dom.Node { return t.tbody }

// Rows returns the current row slice without subscribing.
func (t *Table) Rows() []*Row { return t.rows.Peek() }

// SelectedID returns the selected row ID, 0 when none.
func (t *Table) SelectedID() int { return t.selected.Peek() }

func (t *Table) buildRows(n int) []*Row {
	rows := make([]*Row, n)
	for i := range rows {
		rows[i] = &Row{
			ID:    t.nextID,
			Label: reactive.NewSignal(t.labels.next()),
		}
		t.nextID++
	}
	return rows
}

func (t *Table) dropRowScope(id int) {
	if sc, ok := t.rowScopes[id]; ok {
		sc.Dispose()
		delete(t.rowScopes, id)
	}
}

func (t *Table) dropAllRowScopes() {
	for id, sc := range t.rowScopes {
		sc.Dispose()
		delete(t.rowScopes, id)
	}
}

// apply runs one logical update: mutations batched, then one flush.
func (t *Table) apply(fn func()) {
	reactive.Batch(fn)
	t.scope.Flush()
}

// Create replaces all rows with n freshly labelled ones.
func (t *Table) Create(n int) {
	t.apply(func() {
		t.dropAllRowScopes()
		t.selected.Set(0)
		t.rows.Set(t.buildRows(n))
	})
}

// Append adds n rows after the existing ones.
func (t *Table) Append(n int) {
	t.apply(func() {
		fresh := t.buildRows(n)
		t.rows.Update(func(rows []*Row) []*Row {
			return append(rows, fresh...)
		})
	})
}

// UpdateEveryTenth appends " !!!" to the label of every tenth row. Only
// the affected labels' effects run; the reconciler sees no change.
func (t *Table) UpdateEveryTenth() {
	t.apply(func() {
		rows := t.rows.Peek()
		for i := 0; i < len(rows); i += 10 {
			rows[i].Label.Update(func(l string) string { return l + " !!!" })
		}
	})
}

// Clear removes all rows.
func (t *Table) Clear() {
	t.apply(func() {
		t.dropAllRowScopes()
		t.selected.Set(0)
		t.rows.Set(nil)
	})
}

// Swap exchanges rows 2 and 999, the canonical swap step. A table with
// fewer than 999 rows is left unchanged.
func (t *Table) Swap() {
	t.apply(func() {
		t.rows.Update(func(rows []*Row) []*Row {
			if len(rows) <= 998 {
				return rows
			}
			next := make([]*Row, len(rows))
			copy(next, rows)
			next[1], next[998] = next[998], next[1]
			return next
		})
	})
}

// Select marks the row with the given ID as selected.
func (t *Table) Select(id int) {
	t.apply(func() {
		t.selected.Set(id)
	})
}

// Remove deletes the row with the given ID.
func (t *Table) Remove(id int) {
	t.apply(func() {
		t.dropRowScope(id)
		if t.selected.Peek() == id {
			t.selected.Set(0)
		}
		t.rows.Update(func(rows []*Row) []*Row {
			next := make([]*Row, 0, len(rows))
			for _, r := range rows {
				if r.ID != id {
					next = append(next, r)
				}
			}
			return next
		})
	})
}
