package keyed

import (
	"strconv"
	"testing"

	"github.com/rowbench-dev/rowbench/pkg/dom"
)

func benchReconciler(doc *dom.Document, parent *dom.Node) *Reconciler[item] {
	return New(parent, itemKey, func(it item) (*dom.Node, error) {
		n := doc.CreateElement("tr")
		n.SetAttr("data-key", strconv.Itoa(it.id))
		return n, nil
	})
}

func BenchmarkApplyCreate1000(b *testing.B) {
	items := seq(1, 1000)
	for i := 0; i < b.N; i++ {
		doc := dom.NewDocument()
		parent := doc.CreateElement("tbody")
		r := benchReconciler(doc, parent)
		if err := r.Apply(items); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkApplyClear1000(b *testing.B) {
	items := seq(1, 1000)
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		doc := dom.NewDocument()
		parent := doc.CreateElement("tbody")
		r := benchReconciler(doc, parent)
		if err := r.Apply(items); err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		if err := r.Apply(nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkApplySwap1000(b *testing.B) {
	items := seq(0, 999)
	swapped := seq(0, 999)
	swapped[1], swapped[998] = swapped[998], swapped[1]

	doc := dom.NewDocument()
	parent := doc.CreateElement("tbody")
	r := benchReconciler(doc, parent)
	if err := r.Apply(items); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if i%2 == 0 {
			if err := r.Apply(swapped); err != nil {
				b.Fatal(err)
			}
		} else {
			if err := r.Apply(items); err != nil {
				b.Fatal(err)
			}
		}
	}
}

func BenchmarkApplyNoop1000(b *testing.B) {
	items := seq(1, 1000)
	doc := dom.NewDocument()
	parent := doc.CreateElement("tbody")
	r := benchReconciler(doc, parent)
	if err := r.Apply(items); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := r.Apply(items); err != nil {
			b.Fatal(err)
		}
	}
}
