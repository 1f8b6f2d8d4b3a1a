package assets

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"crystal-mem/internal/crystal"
)

// Sprite is a small piece of colored character art.
type Sprite struct {
	Name  string
	Color string
	Art   []string
}

// Glyph is the first visible rune of the art, used when the sprite has to
// be drawn smaller than its art.
func (s Sprite) Glyph() rune {
	for _, line := range s.Art {
		for _, r := range line {
			if r != ' ' {
				return r
			}
		}
	}
	return '█'
}

func (s Sprite) Width() int {
	w := 0
	for _, line := range s.Art {
		if n := utf8.RuneCountInString(line); n > w {
			w = n
		}
	}
	return w
}

func (s Sprite) Height() int {
	return len(s.Art)
}

// Set holds every sprite the game needs to start.
type Set struct {
	Crystals   map[crystal.Type]Sprite
	Plate      Sprite
	Minis      map[crystal.Type]Sprite
	Bars       map[crystal.Type]Sprite
	Background Sprite
}

// Mini returns the progress-row sprite for t.
func (s *Set) Mini(t crystal.Type) (Sprite, error) {
	if s == nil {
		return Sprite{}, fmt.Errorf("%w: mini %s", ErrMissingSprite, t)
	}
	sp, ok := s.Minis[t]
	if !ok {
		return Sprite{}, fmt.Errorf("%w: mini %s", ErrMissingSprite, t)
	}
	return sp, nil
}

// A sheet is a list of blocks separated by lines of three or more dashes.
// Each block starts with header lines (NAME:, COLOR:) followed by the art.
var separatorRe = regexp.MustCompile(`(?m)^-{3,}[ \t]*$`)

func parseSheet(content string) ([]Sprite, error) {
	var sprites []Sprite
	for i, part := range separatorRe.Split(content, -1) {
		if strings.TrimSpace(part) == "" {
			continue
		}

		var sp Sprite
		lines := strings.Split(part, "\n")
		for len(lines) > 0 {
			line := strings.TrimSpace(lines[0])
			if line == "" && sp.Name == "" {
				lines = lines[1:]
				continue
			}
			if name, ok := strings.CutPrefix(line, "NAME:"); ok {
				sp.Name = strings.TrimSpace(name)
			} else if color, ok := strings.CutPrefix(line, "COLOR:"); ok {
				sp.Color = strings.TrimSpace(color)
			} else {
				break
			}
			lines = lines[1:]
		}
		if sp.Name == "" {
			return nil, fmt.Errorf("block %d has no NAME header", i+1)
		}

		sp.Art = trimArt(lines)
		sprites = append(sprites, sp)
	}
	return sprites, nil
}

// trimArt drops trailing whitespace and blank leading/trailing lines while
// keeping the indentation that shapes the art.
func trimArt(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, strings.TrimRight(l, " \t\r"))
	}
	for len(out) > 0 && out[0] == "" {
		out = out[1:]
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

// byCrystal indexes sprites by crystal type and requires one per type.
// Blocks whose name is not a crystal, such as the plate, are skipped.
func byCrystal(sprites []Sprite) (map[crystal.Type]Sprite, error) {
	out := make(map[crystal.Type]Sprite, crystal.Count)
	for _, sp := range sprites {
		t, err := crystal.Parse(sp.Name)
		if err != nil {
			continue
		}
		if _, dup := out[t]; !dup {
			out[t] = sp
		}
	}

	for _, t := range crystal.All() {
		if _, ok := out[t]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingSprite, t)
		}
	}
	return out, nil
}

func byName(sprites []Sprite, name string) (Sprite, error) {
	for _, sp := range sprites {
		if sp.Name == name {
			return sp, nil
		}
	}
	return Sprite{}, fmt.Errorf("%w: %s", ErrMissingSprite, name)
}
