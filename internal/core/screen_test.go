package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Fatalf("New screen should be blank, got %q at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.Set(5, 5, 'X')
	if s.Get(5, 5) != 'X' {
		t.Errorf("Get(5, 5) = %q, expected 'X'", s.Get(5, 5))
	}

	s.SetColored(1, 1, '2', ColorYellow)
	if c := s.GetCell(1, 1); c.Rune != '2' || c.Color != ColorYellow {
		t.Errorf("GetCell(1, 1) = %+v, expected yellow '2'", c)
	}

	// Out of bounds writes are dropped
	s.Set(-1, 0, 'A')
	s.Set(100, 0, 'A')
	s.Set(0, -1, 'A')
	s.Set(0, 100, 'A')

	if s.Get(-1, 0) != ' ' || s.Get(100, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
	if c := s.GetCell(0, 100); c.Color != ColorDefault {
		t.Errorf("Out of bounds GetCell color = %v, expected default", c.Color)
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(4, 2)
	s.SetColored(0, 0, 'X', ColorRed)
	s.Clear()

	if c := s.GetCell(0, 0); c.Rune != ' ' || c.Color != ColorDefault {
		t.Errorf("after Clear() cell = %+v, expected blank", c)
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(12, 3)

	s.DrawText(1, 0, "Score")
	if got := s.Row(0); got != " Score      " {
		t.Errorf("Row(0) = %q", got)
	}

	// Clipped at the right edge
	s.DrawText(9, 1, "2048")
	if got := s.Row(1); got != "         204" {
		t.Errorf("Row(1) = %q", got)
	}

	s.DrawTextCentered(2, "ab")
	if got := s.Row(2); got != "     ab     " {
		t.Errorf("Row(2) = %q", got)
	}

	if got := s.Row(5); got != strings.Repeat(" ", 12) {
		t.Errorf("Row(5) out of range = %q", got)
	}
}

func TestScreenDrawTextColoredMultibyte(t *testing.T) {
	s := NewScreen(5, 1)
	s.DrawTextColored(0, 0, "·2·", ColorBrightRed)

	if s.Get(1, 0) != '2' || s.Get(2, 0) != '·' {
		t.Errorf("runes misplaced: %q", s.Row(0))
	}
	if s.GetCell(2, 0).Color != ColorBrightRed {
		t.Error("color not applied")
	}
}

func TestScreenBoxes(t *testing.T) {
	s := NewScreen(6, 4)
	s.FillRect(Rect{X: 0, Y: 0, W: 6, H: 4}, '.')
	s.DrawBox(Rect{X: 1, Y: 0, W: 4, H: 3})

	want := strings.Join([]string{
		".┌──┐.",
		".│..│.",
		".└──┘.",
		"......",
	}, "\n")
	if got := s.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(4, 4)
	s.Set(0, 0, 'X')
	s.Resize(2, 3)

	if s.Width() != 2 || s.Height() != 3 {
		t.Errorf("size = %dx%d, expected 2x3", s.Width(), s.Height())
	}
	if s.Get(0, 0) != ' ' {
		t.Error("Resize() should clear the buffer")
	}

	s.Resize(-1, 5)
	if s.Width() != 0 || s.String() != "\n\n\n\n" {
		t.Errorf("negative width should clamp to 0, got %q", s.String())
	}
}

func TestRectCentered(t *testing.T) {
	r := Rect{X: 10, Y: 4, W: 20, H: 10}
	got := r.Centered(6, 2)
	want := Rect{X: 17, Y: 8, W: 6, H: 2}
	if got != want {
		t.Errorf("Centered() = %+v, want %+v", got, want)
	}
	if got.Right() != 23 || got.Bottom() != 10 {
		t.Errorf("Right/Bottom = %d/%d", got.Right(), got.Bottom())
	}
}
