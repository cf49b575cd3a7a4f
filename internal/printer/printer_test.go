package printer

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/kjhall/minilisp/internal/heap"
	"github.com/kjhall/minilisp/internal/reader"
)

func TestDisplayAtoms(t *testing.T) {
	h := heap.New(0)
	cases := []string{"42", "-3.5", "#t", "#f", "x", `"hi"`}
	for _, src := range cases {
		vs, err := reader.ReadAll(src, h)
		if err != nil {
			t.Fatalf("ReadAll(%q): %v", src, err)
		}
		snaps.MatchSnapshot(t, src+"_display", Display(h, vs[0]))
	}
}

func TestWriteQuotesStrings(t *testing.T) {
	h := heap.New(0)
	vs, _ := reader.ReadAll(`"hi\nthere"`, h)
	got := Write(h, vs[0])
	want := `"hi\nthere"`
	if got != want {
		t.Fatalf("Write = %q, want %q", got, want)
	}
}

func TestDisplayDoesNotQuoteStrings(t *testing.T) {
	h := heap.New(0)
	vs, _ := reader.ReadAll(`"hi"`, h)
	if got := Display(h, vs[0]); got != "hi" {
		t.Fatalf("Display = %q, want %q", got, "hi")
	}
}

func TestDisplayProperList(t *testing.T) {
	h := heap.New(0)
	vs, _ := reader.ReadAll("(1 2 3)", h)
	if got := Display(h, vs[0]); got != "(1 2 3)" {
		t.Fatalf("Display = %q, want %q", got, "(1 2 3)")
	}
}

func TestDisplayDottedPair(t *testing.T) {
	h := heap.New(0)
	vs, _ := reader.ReadAll("(1 . 2)", h)
	if got := Display(h, vs[0]); got != "(1 . 2)" {
		t.Fatalf("Display = %q, want %q", got, "(1 . 2)")
	}
}

func TestDisplayNil(t *testing.T) {
	h := heap.New(0)
	vs, _ := reader.ReadAll("()", h)
	if got := Display(h, vs[0]); got != "()" {
		t.Fatalf("Display = %q, want %q", got, "()")
	}
}

func TestDisplayNestedList(t *testing.T) {
	h := heap.New(0)
	vs, _ := reader.ReadAll("(1 (2 3) 4)", h)
	if got := Display(h, vs[0]); got != "(1 (2 3) 4)" {
		t.Fatalf("Display = %q, want %q", got, "(1 (2 3) 4)")
	}
}

func TestFormatNumberDropsTrailingZero(t *testing.T) {
	if got := formatNumber(3); got != "3" {
		t.Fatalf("formatNumber(3) = %q, want %q", got, "3")
	}
	if got := formatNumber(3.5); got != "3.5" {
		t.Fatalf("formatNumber(3.5) = %q, want %q", got, "3.5")
	}
}
