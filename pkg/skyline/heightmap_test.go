package skyline

import (
	"testing"

	"github.com/matzehuels/watertower/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		heights   []int
		maxHeight int
		wantErr   bool
	}{
		{"default configuration", []int{2, 5, 1, 2, 3, 4, 7, 7, 6}, 9, false},
		{"single column", []int{3}, 9, false},
		{"zero heights", []int{0, 0, 0}, 1, false},
		{"at ceiling", []int{9, 9}, 9, false},

		{"empty", []int{}, 9, true},
		{"nil", nil, 9, true},
		{"negative", []int{1, -1, 2}, 9, true},
		{"above ceiling", []int{1, 10}, 9, true},
		{"zero ceiling", []int{0}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := New(tt.heights, tt.maxHeight)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%v, %d) error = %v, wantErr %v", tt.heights, tt.maxHeight, err, tt.wantErr)
			}
			if tt.wantErr {
				if h != nil {
					t.Error("New returned a heightmap alongside an error")
				}
				if !errors.Is(err, errors.ErrCodeInvalidConfiguration) {
					t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfiguration)
				}
				return
			}
			if h.Width() != len(tt.heights) {
				t.Errorf("Width() = %d, want %d", h.Width(), len(tt.heights))
			}
			for i, want := range tt.heights {
				if got := h.HeightAt(i); got != want {
					t.Errorf("HeightAt(%d) = %d, want %d", i, got, want)
				}
			}
		})
	}
}

func TestNewCopiesInput(t *testing.T) {
	in := []int{1, 2, 3}
	h := MustNew(in, 5)
	in[0] = 5

	if h.HeightAt(0) != 1 {
		t.Errorf("HeightAt(0) = %d after caller mutation, want 1", h.HeightAt(0))
	}

	out := h.Heights()
	out[1] = 0
	if h.HeightAt(1) != 2 {
		t.Errorf("HeightAt(1) = %d after Heights() mutation, want 2", h.HeightAt(1))
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNew should panic on invalid input")
		}
	}()
	MustNew(nil, 9)
}

func TestBounds(t *testing.T) {
	tests := []struct {
		heights        []int
		lowest, highest int
	}{
		{[]int{2, 5, 1, 2, 3, 4, 7, 7, 6}, 1, 7},
		{[]int{3, 3, 3}, 3, 3},
		{[]int{0}, 0, 0},
		{[]int{9, 0}, 0, 9},
	}

	for _, tt := range tests {
		lo, hi := MustNew(tt.heights, 9).Bounds()
		if lo != tt.lowest || hi != tt.highest {
			t.Errorf("Bounds(%v) = (%d, %d), want (%d, %d)", tt.heights, lo, hi, tt.lowest, tt.highest)
		}
	}
}

func TestEqual(t *testing.T) {
	a := MustNew([]int{1, 2, 3}, 9)
	b := MustNew([]int{1, 2, 3}, 9)
	c := MustNew([]int{1, 2, 3}, 8)
	d := MustNew([]int{1, 2, 4}, 9)

	if !a.Equal(b) {
		t.Error("identical heightmaps should be equal")
	}
	if a.Equal(c) {
		t.Error("different ceilings should not be equal")
	}
	if a.Equal(d) {
		t.Error("different heights should not be equal")
	}
	if a.Equal(nil) {
		t.Error("heightmap should not equal nil")
	}
}

func TestString(t *testing.T) {
	h := MustNew([]int{2, 5, 1}, 9)
	if got, want := h.String(), "2 | 5 | 1"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
