package styles

import (
	"bytes"
	"strings"
	"testing"

	merrors "github.com/matzehuels/masonry/pkg/errors"
)

func TestSimpleRenderDefs(t *testing.T) {
	var buf bytes.Buffer
	Simple{}.RenderDefs(&buf)
	if buf.Len() != 0 {
		t.Errorf("RenderDefs() wrote %d bytes, want 0", buf.Len())
	}
}

func TestRenderBlock(t *testing.T) {
	tests := []struct {
		name     string
		style    Style
		block    Block
		contains []string
		excludes []string
	}{
		{
			name:  "simple",
			style: Simple{},
			block: Block{ID: "card-1", Index: 3, X: 252, Y: 112, W: 240, H: 100},
			contains: []string{
				`id="block-card-1"`,
				`data-index="3"`,
				`x="252.00"`,
				`y="112.00"`,
				`width="240.00"`,
				`fill="white"`,
			},
		},
		{
			name:     "simple escapes id",
			style:    Simple{},
			block:    Block{ID: "a<b>", W: 10, H: 10},
			contains: []string{`id="block-a&lt;b&gt;"`},
		},
		{
			name:     "outline tints by column",
			style:    Outline{},
			block:    Block{ID: "x", Column: 1, W: 10, H: 10},
			contains: []string{`stroke="#f28e2b"`, `stroke-dasharray`},
			excludes: []string{`class="wrapped"`, `class="stacked"`},
		},
		{
			name:     "outline marks wrap and stack",
			style:    Outline{},
			block:    Block{ID: "x", Column: 9, W: 10, H: 10, Wrapped: true, Stacked: true},
			contains: []string{`class="wrapped"`, `class="stacked"`, `stroke="#f28e2b"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.style.RenderBlock(&buf, tt.block)
			out := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("RenderBlock() output missing %q\nGot: %s", want, out)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(out, bad) {
					t.Errorf("RenderBlock() output contains %q\nGot: %s", bad, out)
				}
			}
		})
	}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	Simple{}.RenderText(&buf, Block{ID: "a", W: 100, H: 40})
	if buf.Len() != 0 {
		t.Errorf("simple style drew an empty label: %s", buf.String())
	}

	buf.Reset()
	Outline{}.RenderText(&buf, Block{ID: "a", Index: 4, W: 100, H: 40, CX: 50, CY: 20})
	if !strings.Contains(buf.String(), ">#4</text>") {
		t.Errorf("outline style did not fall back to the index: %s", buf.String())
	}

	buf.Reset()
	Simple{}.RenderText(&buf, Block{ID: "a", Label: "Tom & Jerry", W: 200, H: 40})
	if !strings.Contains(buf.String(), "Tom &amp; Jerry") {
		t.Errorf("label not escaped: %s", buf.String())
	}
}

func TestRenderGuide(t *testing.T) {
	for _, s := range []Style{Simple{}, Outline{}} {
		var buf bytes.Buffer
		s.RenderGuide(&buf, Guide{X: 252, Y1: 0, Y2: 300, Width: 240})
		if !strings.Contains(buf.String(), `class="guide"`) || !strings.Contains(buf.String(), "252.00") {
			t.Errorf("%T guide = %s", s, buf.String())
		}
	}
}

func TestFontSize(t *testing.T) {
	tests := []struct {
		name  string
		block Block
		want  float64
	}{
		{"tiny block clamps to min", Block{Label: "a", W: 5, H: 5}, fontSizeMin},
		{"large block clamps to max", Block{Label: "ab", W: 400, H: 200}, fontSizeMax},
		{"height bound", Block{Label: "a", W: 400, H: 20}, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FontSize(tt.block); got != tt.want {
				t.Errorf("FontSize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTruncateLabel(t *testing.T) {
	short := Block{Label: "ok", W: 240, H: 100}
	if got := TruncateLabel(short); got != "ok" {
		t.Errorf("TruncateLabel(short) = %q", got)
	}

	long := Block{Label: strings.Repeat("x", 200), W: 60, H: 30}
	got := TruncateLabel(long)
	if !strings.HasSuffix(got, "..") || len(got) >= 200 {
		t.Errorf("TruncateLabel(long) = %q", got)
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name string
		want Style
	}{
		{"", Simple{}},
		{"simple", Simple{}},
		{"outline", Outline{}},
	}
	for _, tt := range tests {
		got, err := ByName(tt.name)
		if err != nil || got != tt.want {
			t.Errorf("ByName(%q) = %T, %v", tt.name, got, err)
		}
	}

	if _, err := ByName("handdrawn"); !merrors.Is(err, merrors.ErrCodeInvalidStyle) {
		t.Errorf("ByName(handdrawn) error = %v", err)
	}
	if Valid("nope") || !Valid("outline") {
		t.Error("Valid disagrees with ByName")
	}
}
