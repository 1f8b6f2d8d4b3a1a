package assets

import (
	"context"
	"io/fs"
	"sync"

	"crystal-mem/internal/crystal"

	"golang.org/x/sync/errgroup"
)

const (
	crystalsPath   = "crystals.txt"
	minisPath      = "minis.txt"
	barsPath       = "bars.txt"
	backgroundPath = "background.txt"
	plateName      = "plate"
)

// memo caches the first successful result of a load. Failed loads are not
// cached, so a later call tries again.
type memo[T any] struct {
	mu   sync.Mutex
	done bool
	val  T
}

func (m *memo[T]) get(load func() (T, error)) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.done {
		return m.val, nil
	}
	v, err := load()
	if err != nil {
		var zero T
		return zero, err
	}
	m.val, m.done = v, true
	return v, nil
}

type crystalSheet struct {
	byType map[crystal.Type]Sprite
	plate  Sprite
}

// Loader reads sprite sheets from a file system. Every load is memoized:
// repeat calls return the already-resolved value without reading again.
type Loader struct {
	fsys fs.FS

	crystals   memo[crystalSheet]
	minis      memo[map[crystal.Type]Sprite]
	bars       memo[map[crystal.Type]Sprite]
	background memo[Sprite]
}

func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

func (l *Loader) readSheet(ctx context.Context, kind Kind, path string) ([]Sprite, error) {
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Kind: kind, Path: path, Err: err}
	}
	data, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		return nil, &LoadError{Kind: kind, Path: path, Err: err}
	}
	sprites, err := parseSheet(string(data))
	if err != nil {
		return nil, &LoadError{Kind: kind, Path: path, Err: err}
	}
	return sprites, nil
}

func (l *Loader) loadCrystalSheet(ctx context.Context) (crystalSheet, error) {
	return l.crystals.get(func() (crystalSheet, error) {
		sprites, err := l.readSheet(ctx, KindCrystals, crystalsPath)
		if err != nil {
			return crystalSheet{}, err
		}
		byType, err := byCrystal(sprites)
		if err != nil {
			return crystalSheet{}, &LoadError{Kind: KindCrystals, Path: crystalsPath, Err: err}
		}
		plate, err := byName(sprites, plateName)
		if err != nil {
			return crystalSheet{}, &LoadError{Kind: KindCrystals, Path: crystalsPath, Err: err}
		}
		return crystalSheet{byType: byType, plate: plate}, nil
	})
}

// LoadCrystals returns the full-size crystal sprites shown on revealed tiles.
func (l *Loader) LoadCrystals(ctx context.Context) (map[crystal.Type]Sprite, error) {
	sheet, err := l.loadCrystalSheet(ctx)
	if err != nil {
		return nil, err
	}
	return sheet.byType, nil
}

// LoadPlate returns the cover sprite drawn over hidden tiles. It lives in
// the crystal sheet and shares its cache.
func (l *Loader) LoadPlate(ctx context.Context) (Sprite, error) {
	sheet, err := l.loadCrystalSheet(ctx)
	if err != nil {
		return Sprite{}, err
	}
	return sheet.plate, nil
}

func (l *Loader) loadTyped(ctx context.Context, m *memo[map[crystal.Type]Sprite], kind Kind, path string) (map[crystal.Type]Sprite, error) {
	return m.get(func() (map[crystal.Type]Sprite, error) {
		sprites, err := l.readSheet(ctx, kind, path)
		if err != nil {
			return nil, err
		}
		out, err := byCrystal(sprites)
		if err != nil {
			return nil, &LoadError{Kind: kind, Path: path, Err: err}
		}
		return out, nil
	})
}

func (l *Loader) LoadMiniCrystals(ctx context.Context) (map[crystal.Type]Sprite, error) {
	return l.loadTyped(ctx, &l.minis, KindMinis, minisPath)
}

func (l *Loader) LoadProgressBars(ctx context.Context) (map[crystal.Type]Sprite, error) {
	return l.loadTyped(ctx, &l.bars, KindBars, barsPath)
}

func (l *Loader) LoadBackground(ctx context.Context) (Sprite, error) {
	return l.background.get(func() (Sprite, error) {
		sprites, err := l.readSheet(ctx, KindBackground, backgroundPath)
		if err != nil {
			return Sprite{}, err
		}
		if len(sprites) == 0 {
			return Sprite{}, &LoadError{Kind: KindBackground, Path: backgroundPath, Err: ErrMissingSprite}
		}
		return sprites[0], nil
	})
}

// LoadAll loads every sprite group concurrently. Either the whole set is
// returned or the first error; a partial set is never handed out.
func (l *Loader) LoadAll(ctx context.Context) (*Set, error) {
	set := &Set{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sheet, err := l.loadCrystalSheet(ctx)
		if err != nil {
			return err
		}
		set.Crystals, set.Plate = sheet.byType, sheet.plate
		return nil
	})
	g.Go(func() error {
		minis, err := l.LoadMiniCrystals(ctx)
		set.Minis = minis
		return err
	})
	g.Go(func() error {
		bars, err := l.LoadProgressBars(ctx)
		set.Bars = bars
		return err
	})
	g.Go(func() error {
		bg, err := l.LoadBackground(ctx)
		set.Background = bg
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return set, nil
}
