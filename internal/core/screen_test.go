package core

import (
	"strings"
	"testing"
)

// rows renders s as a slice of row strings for compact comparisons.
func rows(s *Screen) []string {
	return strings.Split(s.String(), "\n")
}

func TestNewScreenIsBlank(t *testing.T) {
	s := NewScreen(6, 3)
	if s.Width() != 6 || s.Height() != 3 {
		t.Fatalf("size = %dx%d, want 6x3", s.Width(), s.Height())
	}
	if got := s.String(); got != "      \n      \n      " {
		t.Errorf("String() = %q", got)
	}
}

func TestScreenClipping(t *testing.T) {
	tests := []struct {
		name string
		draw func(s *Screen)
		want []string
	}{
		{"set inside", func(s *Screen) { s.Set(1, 1, 'X') }, []string{"    ", " X  ", "    "}},
		{"set outside", func(s *Screen) {
			s.Set(-1, 0, 'X')
			s.Set(4, 0, 'X')
			s.Set(0, -1, 'X')
			s.Set(0, 3, 'X')
		}, []string{"    ", "    ", "    "}},
		{"text clipped right", func(s *Screen) { s.DrawText(2, 0, "Hello") }, []string{"  He", "    ", "    "}},
		{"text clipped left", func(s *Screen) { s.DrawText(-2, 2, "Hello") }, []string{"    ", "    ", "llo "}},
		{"centered", func(s *Screen) { s.DrawTextCentered(1, "Hi") }, []string{"    ", " Hi ", "    "}},
		{"rect", func(s *Screen) { s.DrawRect(NewRect(1, 0, 2, 2), '#') }, []string{" ## ", " ## ", "    "}},
		{"rect partly outside", func(s *Screen) { s.DrawRect(NewRect(3, 2, 5, 5), '#') }, []string{"    ", "    ", "   #"}},
		{"fill", func(s *Screen) { s.Fill('.') }, []string{"....", "....", "...."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScreen(4, 3)
			tt.draw(s)
			got := rows(s)
			for y := range tt.want {
				if got[y] != tt.want[y] {
					t.Errorf("row %d = %q, want %q", y, got[y], tt.want[y])
				}
			}
		})
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(7, 5)
	s.DrawBox(NewRect(1, 1, 5, 3))

	want := []string{
		"       ",
		" ┌───┐ ",
		" │   │ ",
		" └───┘ ",
		"       ",
	}
	for y, row := range rows(s) {
		if row != want[y] {
			t.Errorf("row %d = %q, want %q", y, row, want[y])
		}
	}
}

func TestScreenColors(t *testing.T) {
	s := NewScreen(10, 3)
	s.SetColor(2, 1, '█', ColorRed)
	s.DrawTextColor(0, 0, "♥♥", ColorBrightRed)

	if c := s.GetCell(2, 1); c.Rune != '█' || c.Color != ColorRed {
		t.Errorf("GetCell(2, 1) = %+v, want red block", c)
	}
	if c := s.GetCell(1, 0); c.Rune != '♥' || c.Color != ColorBrightRed {
		t.Errorf("GetCell(1, 0) = %+v, want one rune per cell", c)
	}
	if s.Get(2, 0) != ' ' {
		t.Errorf("DrawTextColor wrote past its text: %q", s.Row(0))
	}
	if c := s.GetCell(-1, 0); c != blank {
		t.Errorf("GetCell outside = %+v, want blank", c)
	}

	s.Clear()
	if s.GetCell(2, 1) != blank {
		t.Error("Clear should reset colors")
	}
}

func TestScreenResizeKeepsTopLeft(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		want []string
	}{
		{"shrink", 3, 2, []string{"Hel", "   "}},
		{"grow", 7, 4, []string{"Hello  ", "       ", "World  ", "       "}},
		{"same", 5, 3, []string{"Hello", "     ", "World"}},
		{"empty", 0, 0, []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScreen(5, 3)
			s.DrawText(0, 0, "Hello")
			s.DrawText(0, 2, "World")
			s.Resize(tt.w, tt.h)

			if s.Width() != tt.w || s.Height() != tt.h {
				t.Fatalf("size = %dx%d, want %dx%d", s.Width(), s.Height(), tt.w, tt.h)
			}
			got := rows(s)
			if len(got) != len(tt.want) {
				t.Fatalf("rows = %q, want %q", got, tt.want)
			}
			for y := range tt.want {
				if got[y] != tt.want[y] {
					t.Errorf("row %d = %q, want %q", y, got[y], tt.want[y])
				}
			}
		})
	}
}

func TestScreenRowOutside(t *testing.T) {
	s := NewScreen(4, 2)
	for _, y := range []int{-1, 2} {
		if got := s.Row(y); got != "    " {
			t.Errorf("Row(%d) = %q, want spaces", y, got)
		}
	}
}
