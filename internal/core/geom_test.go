package core

import "testing"

func TestRectInset(t *testing.T) {
	r := NewRect(0, 0, 10, 6).Inset(1)
	if r != NewRect(1, 1, 8, 4) {
		t.Errorf("Inset(1) = %+v", r)
	}

	if r := NewRect(0, 0, 1, 1).Inset(2); r.W != 0 || r.H != 0 {
		t.Errorf("Inset should not produce negative size, got %+v", r)
	}
}

func TestCenterIn(t *testing.T) {
	tests := []struct {
		name     string
		outer    Rect
		w, h     int
		expected Rect
	}{
		{"fits evenly", NewRect(0, 0, 20, 10), 10, 4, NewRect(5, 3, 10, 4)},
		{"offset outer", NewRect(2, 1, 10, 10), 4, 4, NewRect(5, 4, 4, 4)},
		{"too large", NewRect(0, 0, 5, 5), 10, 10, NewRect(0, 0, 10, 10)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CenterIn(tc.outer, tc.w, tc.h); got != tc.expected {
				t.Errorf("CenterIn() = %+v, expected %+v", got, tc.expected)
			}
		})
	}
}
