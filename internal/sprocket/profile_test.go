package sprocket

import (
	"testing"

	"github.com/ironsheep/sprocket-tools-mcp/internal/imaging"
)

func TestReflect101(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{0, 5, 0},
		{4, 5, 4},
		{-1, 5, 1},
		{-2, 5, 2},
		{5, 5, 3},
		{6, 5, 2},
		{-7, 5, 1},
		{3, 1, 0},
		{-1, 2, 1},
		{2, 2, 0},
	}

	for _, tt := range tests {
		if got := reflect101(tt.i, tt.n); got != tt.want {
			t.Errorf("reflect101(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}

func TestEdgeProfile_Uniform(t *testing.T) {
	f := imaging.NewFrame(40, 10, 3)
	f.Fill(0, 0, 10, 40, 128)

	for _, axis := range []Axis{Vertical, Horizontal} {
		p := EdgeProfile(f, axis)
		for i, v := range p {
			if v != 0 {
				t.Fatalf("axis %d: profile[%d] = %g, want 0", axis, i, v)
			}
		}
	}
}

func TestEdgeProfile_Lengths(t *testing.T) {
	f := imaging.NewFrame(30, 12, 1)
	if got := len(EdgeProfile(f, Vertical)); got != 30 {
		t.Errorf("vertical profile length = %d, want 30", got)
	}
	if got := len(EdgeProfile(f, Horizontal)); got != 12 {
		t.Errorf("horizontal profile length = %d, want 12", got)
	}
}

func TestEdgeProfile_VerticalStep(t *testing.T) {
	// Bright band on rows [10,20). The derivative straddles each step, so
	// rows 9,10 and 19,20 respond with 4*255 in every column.
	f := imaging.NewFrame(30, 8, 1)
	f.Fill(0, 10, 8, 20, 255)

	p := EdgeProfile(f, Vertical)
	for y, v := range p {
		want := 0.0
		if y == 9 || y == 10 || y == 19 || y == 20 {
			want = 1020
		}
		if v != want {
			t.Errorf("profile[%d] = %g, want %g", y, v, want)
		}
	}
}

func TestEdgeProfile_HorizontalStep(t *testing.T) {
	f := imaging.NewFrame(6, 20, 3)
	f.Fill(0, 0, 5, 6, 255)

	p := EdgeProfile(f, Horizontal)
	for x, v := range p {
		want := 0.0
		if x == 4 || x == 5 {
			want = 1020
		}
		if v != want {
			t.Errorf("profile[%d] = %g, want %g", x, v, want)
		}
	}
}

func TestEdgeProfile_SubFrame(t *testing.T) {
	// A view must see only its own columns.
	f := imaging.NewFrame(20, 20, 1)
	f.Fill(10, 5, 20, 15, 255)

	left := EdgeProfile(f.Sub(0, 0, 10, 20), Vertical)
	for y, v := range left {
		if v != 0 {
			t.Fatalf("left half profile[%d] = %g, want 0", y, v)
		}
	}

	right := EdgeProfile(f.Sub(10, 0, 20, 20), Vertical)
	if right[4] != 1020 || right[5] != 1020 {
		t.Errorf("right half step response = %g,%g, want 1020", right[4], right[5])
	}
}
