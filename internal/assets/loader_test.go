package assets

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"testing"
	"testing/fstest"

	"crystal-mem/internal/crystal"
)

// countingFS records how often each file is opened.
type countingFS struct {
	fs    fs.FS
	mu    sync.Mutex
	opens map[string]int
}

func newCountingFS(fsys fs.FS) *countingFS {
	return &countingFS{fs: fsys, opens: map[string]int{}}
}

func (c *countingFS) Open(name string) (fs.File, error) {
	c.mu.Lock()
	c.opens[name]++
	c.mu.Unlock()
	return c.fs.Open(name)
}

func (c *countingFS) count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opens[name]
}

func TestLoader_Embedded(t *testing.T) {
	l := NewLoader(Embedded())

	set, err := l.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	for _, c := range crystal.All() {
		if set.Crystals[c].Name != c.String() {
			t.Errorf("Missing crystal sprite for %v", c)
		}
		if _, err := set.Mini(c); err != nil {
			t.Errorf("Missing mini sprite for %v: %v", c, err)
		}
		if set.Bars[c].Color == "" {
			t.Errorf("Bar sprite for %v has no color", c)
		}
	}
	if set.Plate.Name != "plate" || set.Plate.Height() == 0 {
		t.Errorf("Unexpected plate sprite: %+v", set.Plate)
	}
	if set.Background.Glyph() != '·' {
		t.Errorf("Unexpected background glyph %q", set.Background.Glyph())
	}
}

func TestLoader_Memoized(t *testing.T) {
	fsys := newCountingFS(Embedded())
	l := NewLoader(fsys)
	ctx := context.Background()

	first, err := l.LoadCrystals(ctx)
	if err != nil {
		t.Fatalf("LoadCrystals failed: %v", err)
	}
	if _, err := l.LoadPlate(ctx); err != nil {
		t.Fatalf("LoadPlate failed: %v", err)
	}
	second, _ := l.LoadCrystals(ctx)
	if _, err := l.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	l.LoadBackground(ctx)

	if fsys.count("crystals.txt") != 1 {
		t.Errorf("crystals.txt opened %d times, expected 1", fsys.count("crystals.txt"))
	}
	if fsys.count("background.txt") != 1 {
		t.Errorf("background.txt opened %d times, expected 1", fsys.count("background.txt"))
	}
	if first[crystal.Red].Color != second[crystal.Red].Color {
		t.Error("Repeat loads should return the same sprites")
	}
}

func TestLoader_MissingFile(t *testing.T) {
	fsys := fstest.MapFS{
		"crystals.txt":   {Data: sheetFor(crystal.All(), true)},
		"minis.txt":      {Data: sheetFor(crystal.All(), false)},
		"background.txt": {Data: []byte("NAME: background\n.")},
	}
	l := NewLoader(fsys)

	set, err := l.LoadAll(context.Background())
	if err == nil {
		t.Fatal("Expected an error when bars.txt is missing")
	}
	if set != nil {
		t.Error("No partial set should be returned on failure")
	}

	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("Expected *LoadError, got %T", err)
	}
	if le.Kind != KindBars || le.Path != "bars.txt" {
		t.Errorf("Unexpected error details: %+v", le)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Error should wrap fs.ErrNotExist: %v", err)
	}
}

func TestLoader_MissingSprite(t *testing.T) {
	fsys := fstest.MapFS{
		"minis.txt": {Data: sheetFor(crystal.All()[:4], false)},
	}
	l := NewLoader(fsys)

	_, err := l.LoadMiniCrystals(context.Background())
	if !errors.Is(err, ErrMissingSprite) {
		t.Fatalf("Expected ErrMissingSprite, got %v", err)
	}

	// A failed load is not cached.
	fsys["minis.txt"] = &fstest.MapFile{Data: sheetFor(crystal.All(), false)}
	if _, err := l.LoadMiniCrystals(context.Background()); err != nil {
		t.Errorf("Retry after fixing the sheet failed: %v", err)
	}
}

func TestByCrystal_SkipsUnknownNames(t *testing.T) {
	sprites := []Sprite{{Name: "plate", Art: []string{"?"}}}
	for _, ct := range crystal.All() {
		sprites = append(sprites, Sprite{Name: ct.String(), Art: []string{ct.String()}})
	}
	sprites = append(sprites, Sprite{Name: "purple", Art: []string{"late"}})

	byType, err := byCrystal(sprites)
	if err != nil {
		t.Fatalf("byCrystal failed: %v", err)
	}
	if len(byType) != crystal.Count {
		t.Errorf("Expected %d sprites, got %d", crystal.Count, len(byType))
	}
	for ct, sp := range byType {
		if sp.Name != ct.String() || sp.Art[0] != ct.String() {
			t.Errorf("Sprite for %s is %+v", ct, sp)
		}
	}
}

func TestLoader_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(Embedded()).LoadBackground(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestParseSheet(t *testing.T) {
	content := `NAME: purple
COLOR: #fff
  /\
  \/   
---

NAME: green

 x
-----
`
	sprites, err := parseSheet(content)
	if err != nil {
		t.Fatalf("parseSheet failed: %v", err)
	}
	if len(sprites) != 2 {
		t.Fatalf("Expected 2 sprites, got %d", len(sprites))
	}

	if sprites[0].Name != "purple" || sprites[0].Color != "#fff" {
		t.Errorf("Unexpected headers: %+v", sprites[0])
	}
	if len(sprites[0].Art) != 2 || sprites[0].Art[0] != `  /\` || sprites[0].Art[1] != `  \/` {
		t.Errorf("Art not preserved: %q", sprites[0].Art)
	}
	if sprites[0].Width() != 4 || sprites[0].Glyph() != '/' {
		t.Errorf("Unexpected width %d or glyph %q", sprites[0].Width(), sprites[0].Glyph())
	}

	if sprites[1].Name != "green" || len(sprites[1].Art) != 1 || sprites[1].Art[0] != " x" {
		t.Errorf("Unexpected second sprite: %+v", sprites[1])
	}
}

func TestParseSheet_MissingName(t *testing.T) {
	if _, err := parseSheet("COLOR: #fff\nart"); err == nil {
		t.Error("Expected error for a block without NAME")
	}
}

func TestLoadError_Message(t *testing.T) {
	err := &LoadError{Kind: KindMinis, Path: "minis.txt", Err: ErrMissingSprite}
	expected := "assets: load minis (path=minis.txt): missing sprite"
	if err.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, err.Error())
	}
}

func sheetFor(types []crystal.Type, withPlate bool) []byte {
	var out string
	for _, c := range types {
		out += "NAME: " + c.String() + "\nCOLOR: #123456\n*\n---\n"
	}
	if withPlate {
		out += "NAME: plate\n#\n"
	}
	return []byte(out)
}
