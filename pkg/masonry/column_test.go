package masonry

import (
	"testing"

	"github.com/matzehuels/masonry/pkg/geometry"
)

func TestColumnTrackerLastInColumn(t *testing.T) {
	reg := registryOf(t,
		geometry.NewRectangle(0, 0, 240, 100),
		geometry.NewRectangle(252, 0, 240, 100),
		geometry.NewRectangle(0, 112, 240, 100),
		geometry.NewRectangle(0, 0, 240, 100),
	)
	for i := range 3 {
		reg.At(i).Positioned = true
	}
	tr := columnTracker{registry: reg, rowGap: 12}

	tests := []struct {
		name  string
		i     int
		x     float64
		want  int
		found bool
	}{
		{"LatestShadowsEarlier", 3, 0, 2, true},
		{"OtherColumn", 3, 252, 1, true},
		{"OnlyScansBeforeIndex", 2, 0, 0, true},
		{"EmptyColumn", 3, 504, 0, false},
		{"ExactMatchOnly", 3, 0.5, 0, false},
		{"FirstBrick", 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tr.lastInColumn(tt.i, tt.x)
			if ok != tt.found || (ok && got != tt.want) {
				t.Errorf("lastInColumn(%d, %g) = %d, %v; want %d, %v", tt.i, tt.x, got, ok, tt.want, tt.found)
			}
		})
	}
}

func TestColumnTrackerSkipsUnpositioned(t *testing.T) {
	reg := registryOf(t,
		geometry.NewRectangle(0, 0, 240, 100),
		geometry.NewRectangle(0, 0, 240, 100),
	)
	tr := columnTracker{registry: reg, rowGap: 12}
	if _, ok := tr.lastInColumn(1, 0); ok {
		t.Error("matched a brick that was never placed")
	}
}

func TestColumnTrackerOffset(t *testing.T) {
	tests := []struct {
		name        string
		match       geometry.Rectangle
		brick       geometry.Rectangle
		x           float64
		wantY       float64
		wantStacked bool
	}{
		{
			name:        "EmptyColumnStartsAtTop",
			match:       geometry.NewRectangle(0, 0, 240, 100),
			brick:       geometry.NewRectangle(0, 0, 240, 50),
			x:           252,
			wantY:       20,
			wantStacked: false,
		},
		{
			name:        "StacksBelowMatch",
			match:       geometry.NewRectangle(0, 0, 240, 100),
			brick:       geometry.NewRectangle(0, 0, 240, 50),
			x:           0,
			wantY:       112,
			wantStacked: true,
		},
		{
			name:        "ZeroSizeBrickStillTouches",
			match:       geometry.NewRectangle(0, 30, 240, 100),
			brick:       geometry.NewRectangle(0, 0, 0, 0),
			x:           0,
			wantY:       142,
			wantStacked: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := registryOf(t, tt.match, tt.brick)
			reg.At(0).Positioned = true
			tr := columnTracker{registry: reg, rowGap: 12}

			y, stacked := tr.offset(1, tt.x, 20)
			if y != tt.wantY || stacked != tt.wantStacked {
				t.Errorf("offset = %g, %v; want %g, %v", y, stacked, tt.wantY, tt.wantStacked)
			}
		})
	}
}
