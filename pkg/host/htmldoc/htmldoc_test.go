package htmldoc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/masonry/pkg/geometry"
	"github.com/matzehuels/masonry/pkg/masonry"
)

const page = `<!DOCTYPE html>
<html>
<head><meta name="viewport" content="width=1000, initial-scale=1"></head>
<body>
  <div id="grid" style="left: 0; top: 0; width: 756px; height: 900px">
    <article id="a" class="card" style="width: 240px; height: 100px">A</article>
    text between
    <article id="b" class="card" style="width:240px;height:150px;color:red">B</article>
    <article class="card" data-width="240" data-height="80">C</article>
    <aside id="d" class="card" style="width: 240px; height: 120px; top: 5px">D</aside>
  </div>
</body>
</html>`

func parse(t *testing.T, src string, opts ...Option) *Document {
	t.Helper()
	d, err := Parse(strings.NewReader(src), opts...)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return d
}

func ids(els []masonry.Element) []string {
	out := make([]string, len(els))
	for i, el := range els {
		out[i] = el.ID()
	}
	return out
}

func TestQueryAll(t *testing.T) {
	d := parse(t, page)

	tests := []struct {
		name     string
		selector string
		want     []string
	}{
		{"CSSClass", ".card", []string{"a", "b", "node-1", "d"}},
		{"CSSChild", "#grid > article", []string{"a", "b", "node-1"}},
		{"CSSID", "#b", []string{"b"}},
		{"XPath", "//article[@class='card']", []string{"a", "b", "node-1"}},
		{"XPathGrouped", "(//aside)[1]", []string{"d"}},
		{"NoMatch", ".missing", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.QueryAll(tt.selector)
			if err != nil {
				t.Fatalf("QueryAll(%q): %v", tt.selector, err)
			}
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("QueryAll(%q) mismatch (-want +got):\n%s", tt.selector, diff)
			}
		})
	}
}

func TestQueryAllStableIdentity(t *testing.T) {
	d := parse(t, page)
	first, _ := d.QueryAll("article:not([id])")
	second, _ := d.QueryAll("//article[not(@id)]")
	if len(first) != 1 || len(second) != 1 || first[0] != second[0] {
		t.Errorf("same node wrapped twice: %v vs %v", ids(first), ids(second))
	}
}

func TestQueryAllInvalid(t *testing.T) {
	d := parse(t, page)
	for _, sel := range []string{"div[", "//div[", "(//"} {
		if _, err := d.QueryAll(sel); err == nil {
			t.Errorf("QueryAll(%q) expected error", sel)
		}
	}
}

func TestChildren(t *testing.T) {
	d := parse(t, page)
	grid, _ := d.QueryAll("#grid")

	got, err := d.Children(grid[0])
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "node-1", "d"}, ids(got)); diff != "" {
		t.Errorf("Children mismatch (-want +got):\n%s", diff)
	}
}

func TestGeometry(t *testing.T) {
	d := parse(t, page)
	els, _ := d.QueryAll(".card")

	want := []geometry.Rectangle{
		geometry.NewRectangle(0, 0, 240, 100),
		geometry.NewRectangle(0, 0, 240, 150),
		geometry.NewRectangle(0, 0, 240, 80),
		geometry.NewRectangle(0, 5, 240, 120),
	}
	for i, el := range els {
		got, err := d.Geometry(el)
		if err != nil {
			t.Fatalf("Geometry(%s): %v", el.ID(), err)
		}
		if got != want[i] {
			t.Errorf("Geometry(%s) = %v, want %v", el.ID(), got, want[i])
		}
	}
}

func TestViewport(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		opts  []Option
		width float64
	}{
		{"Meta", page, nil, 1000},
		{"Default", "<div></div>", nil, DefaultViewportWidth},
		{"OptionWins", page, []Option{WithViewport(640, 480)}, 640},
		{"BadMeta", `<meta name="viewport" content="width=device-width">`, nil, DefaultViewportWidth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vp, err := parse(t, tt.src, tt.opts...).Viewport()
			if err != nil {
				t.Fatal(err)
			}
			if vp.Width() != tt.width {
				t.Errorf("viewport width = %g, want %g", vp.Width(), tt.width)
			}
		})
	}
}

func TestSetPositionRewritesStyle(t *testing.T) {
	d := parse(t, page)
	b, _ := d.QueryAll("#b")

	if err := d.SetPosition(b[0], 252.5, 0); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	got, _ := d.Geometry(b[0])
	if got != geometry.NewRectangle(252.5, 0, 240, 150) {
		t.Errorf("geometry after SetPosition = %v", got)
	}

	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := `style="width: 240px; height: 150px; color: red; position: absolute; left: 252.5px; top: 0px"`
	if !strings.Contains(buf.String(), want) {
		t.Errorf("rendered html missing %s:\n%s", want, buf.String())
	}
}

func TestLayoutDocument(t *testing.T) {
	d := parse(t, page)
	e, err := masonry.New(d, masonry.Container("#grid"), masonry.WithColumnWidthOf("#a"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Layout(); err != nil {
		t.Fatalf("Layout: %v", err)
	}

	var got []geometry.Rectangle
	for _, el := range mustQuery(t, d, ".card") {
		r, _ := d.Geometry(el)
		got = append(got, r)
	}
	want := []geometry.Rectangle{
		geometry.NewRectangle(0, 0, 240, 100),
		geometry.NewRectangle(252, 0, 240, 150),
		geometry.NewRectangle(504, 0, 240, 80),
		geometry.NewRectangle(0, 112, 240, 120),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}
}

func mustQuery(t *testing.T, d *Document, sel string) []masonry.Element {
	t.Helper()
	els, err := d.QueryAll(sel)
	if err != nil {
		t.Fatal(err)
	}
	return els
}

func TestForeignElement(t *testing.T) {
	d1, d2 := parse(t, page), parse(t, page)
	a := mustQuery(t, d2, "#a")[0]
	if _, err := d1.Geometry(a); err == nil {
		t.Error("Geometry accepted element from another document")
	}
}
