package geometry

import "testing"

func TestRectangleEdges(t *testing.T) {
	r := NewRectangle(10, 20, 240, 100)

	if r.Left() != 10 {
		t.Errorf("Left() = %v, want 10", r.Left())
	}
	if r.Right() != 250 {
		t.Errorf("Right() = %v, want 250", r.Right())
	}
	if r.Top() != 20 {
		t.Errorf("Top() = %v, want 20", r.Top())
	}
	if r.Bottom() != 120 {
		t.Errorf("Bottom() = %v, want 120", r.Bottom())
	}
	if r.Width() != 240 || r.Height() != 100 {
		t.Errorf("size = %vx%v, want 240x100", r.Width(), r.Height())
	}
}

func TestNewRectangleClampsNegativeSize(t *testing.T) {
	r := NewRectangle(0, 0, -5, -1)
	if r.Width() != 0 || r.Height() != 0 {
		t.Errorf("size = %vx%v, want 0x0", r.Width(), r.Height())
	}
}

func TestRectangleMoveTo(t *testing.T) {
	r := NewRectangle(1, 2, 30, 40).MoveTo(100, 200)
	want := NewRectangle(100, 200, 30, 40)
	if r != want {
		t.Errorf("MoveTo() = %v, want %v", r, want)
	}
}

func TestRectangleUnion(t *testing.T) {
	a := NewRectangle(0, 0, 10, 10)
	b := NewRectangle(20, 5, 10, 30)
	got := a.Union(b)
	want := NewRectangle(0, 0, 30, 35)
	if got != want {
		t.Errorf("Union() = %v, want %v", got, want)
	}
}

func TestOverlaps(t *testing.T) {
	base := NewRectangle(0, 0, 240, 100)

	tests := []struct {
		name  string
		other Rectangle
		want  bool
	}{
		{"identical", base, true},
		{"contained", NewRectangle(10, 10, 20, 20), true},
		{"partial", NewRectangle(200, 50, 100, 100), true},
		{"touching right edge", NewRectangle(240, 0, 240, 100), true},
		{"touching bottom edge", NewRectangle(0, 100, 240, 100), true},
		{"touching corner", NewRectangle(240, 100, 10, 10), true},
		{"column gap apart", NewRectangle(252, 0, 240, 100), false},
		{"row gap apart", NewRectangle(0, 112, 240, 100), false},
		{"zero size on edge", NewRectangle(240, 100, 0, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := RectShape(base), RectShape(tt.other)
			if got := Overlaps(a, b); got != tt.want {
				t.Errorf("Overlaps(a, b) = %v, want %v", got, tt.want)
			}
			if got := b.Overlaps(a); got != tt.want {
				t.Errorf("Overlaps(b, a) = %v, want %v (must be symmetric)", got, tt.want)
			}
		})
	}
}

func TestShapeMoveTo(t *testing.T) {
	s := RectShape(NewRectangle(0, 0, 50, 60)).MoveTo(5, 6)
	if s.Kind() != KindRectangle {
		t.Errorf("Kind() = %v, want %v", s.Kind(), KindRectangle)
	}
	if got := s.Bounds(); got != NewRectangle(5, 6, 50, 60) {
		t.Errorf("Bounds() = %v", got)
	}
}

func TestKindString(t *testing.T) {
	if KindRectangle.String() != "rectangle" {
		t.Errorf("String() = %q", KindRectangle.String())
	}
	if Kind(9).String() != "Kind(9)" {
		t.Errorf("String() = %q", Kind(9).String())
	}
}
