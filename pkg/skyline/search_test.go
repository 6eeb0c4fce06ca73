package skyline

import "testing"

func TestFindTallerColumn(t *testing.T) {
	h := MustNew([]int{2, 5, 1, 2, 3, 4, 7, 7, 6}, 9)

	tests := []struct {
		name      string
		from      int
		reference int
		dir       Direction
		want      int
	}{
		{"nearest left", 2, 1, Left, 1},
		{"nearest right", 2, 1, Right, 3},
		{"nearest not tallest", 3, 2, Right, 4},
		{"skips equal heights", 3, 2, Left, 1},
		{"excludes from column", 6, 6, Right, 7},
		{"equal is not taller", 6, 7, Right, NotFound},
		{"left edge", 0, 0, Left, NotFound},
		{"right edge", 8, 0, Right, NotFound},
		{"no taller wall left", 1, 5, Left, NotFound},
		{"far right", 1, 5, Right, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindTallerColumn(h, tt.from, tt.reference, tt.dir)
			if got != tt.want {
				t.Errorf("FindTallerColumn(from=%d, ref=%d, %s) = %d, want %d", tt.from, tt.reference, tt.dir, got, tt.want)
			}
		})
	}
}

func TestFindTallerColumnSingleColumn(t *testing.T) {
	h := MustNew([]int{4}, 9)
	for _, dir := range []Direction{Left, Right} {
		if got := FindTallerColumn(h, 0, 0, dir); got != NotFound {
			t.Errorf("FindTallerColumn(%s) = %d, want NotFound", dir, got)
		}
	}
}

func TestDirectionString(t *testing.T) {
	if Left.String() != "left" || Right.String() != "right" {
		t.Errorf("Direction strings = %q, %q", Left, Right)
	}
}
