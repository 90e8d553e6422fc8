// Package snapshot сравнивает скриншоты с эталонами.
//
// Раскладка каталога:
//
//	<dir>/baseline/<name>.png  эталон
//	<dir>/current/<name>.png   последний снимок, не совпавший с эталоном
//	<dir>/diff/<name>.png      подсвеченные отличия
package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/orisano/pixelmatch"

	"bddBrowser/internal/artifacts"
)

var ErrMismatch = errors.New("снимок не совпадает с эталоном")

type Comparer struct {
	Dir           string
	Threshold     float64
	MaxDiffPixels int
	Update        bool
}

type Result struct {
	Name         string
	BaselinePath string
	CurrentPath  string
	DiffPath     string
	DiffPixels   int
	Created      bool
	Updated      bool
}

func (c *Comparer) paths(name string) (baseline, current, diff string) {
	file := sanitizeName(name) + ".png"
	return filepath.Join(c.Dir, "baseline", file),
		filepath.Join(c.Dir, "current", file),
		filepath.Join(c.Dir, "diff", file)
}

// Compare сравнивает PNG с эталоном name. Если эталона нет или включено
// обновление, снимок становится эталоном. Несовпадение возвращает ошибку,
// обернутую в ErrMismatch, вместе с заполненным Result.
func (c *Comparer) Compare(name string, shot []byte) (*Result, error) {
	baselinePath, currentPath, diffPath := c.paths(name)
	res := &Result{Name: name, BaselinePath: baselinePath}

	_, err := os.Stat(baselinePath)
	missing := errors.Is(err, os.ErrNotExist)
	if err != nil && !missing {
		return nil, fmt.Errorf("ошибка чтения эталона %s: %w", baselinePath, err)
	}

	if missing || c.Update {
		if _, err := png.Decode(bytes.NewReader(shot)); err != nil {
			return nil, fmt.Errorf("снимок %q не является PNG: %w", name, err)
		}
		if err := writeFile(baselinePath, shot); err != nil {
			return nil, err
		}
		removeStale(currentPath, diffPath)
		res.Created = missing
		res.Updated = !missing
		return res, nil
	}

	baselineData, err := os.ReadFile(baselinePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения эталона %s: %w", baselinePath, err)
	}
	baseline, err := png.Decode(bytes.NewReader(baselineData))
	if err != nil {
		return nil, fmt.Errorf("эталон %s поврежден: %w", baselinePath, err)
	}
	current, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, fmt.Errorf("снимок %q не является PNG: %w", name, err)
	}

	if !baseline.Bounds().Size().Eq(current.Bounds().Size()) {
		if err := writeFile(currentPath, shot); err != nil {
			return nil, err
		}
		res.CurrentPath = currentPath
		return res, fmt.Errorf("%w: %q размер %v, эталон %v (снимок: %s)",
			ErrMismatch, name, current.Bounds().Size(), baseline.Bounds().Size(), currentPath)
	}

	var diffImage image.Image
	diffPixels, err := pixelmatch.MatchPixel(baseline, current,
		pixelmatch.Threshold(c.Threshold),
		pixelmatch.WriteTo(&diffImage),
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка сравнения снимка %q: %w", name, err)
	}
	res.DiffPixels = diffPixels

	if diffPixels <= c.MaxDiffPixels {
		removeStale(currentPath, diffPath)
		return res, nil
	}

	if err := writeFile(currentPath, shot); err != nil {
		return nil, err
	}
	res.CurrentPath = currentPath

	if diffImage != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, diffImage); err != nil {
			return nil, fmt.Errorf("ошибка кодирования диффа %q: %w", name, err)
		}
		if err := writeFile(diffPath, buf.Bytes()); err != nil {
			return nil, err
		}
		res.DiffPath = diffPath
	}

	return res, fmt.Errorf("%w: %q отличается на %d пикс. (допустимо %d), дифф: %s",
		ErrMismatch, name, diffPixels, c.MaxDiffPixels, diffPath)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("не удалось создать каталог для %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("не удалось записать %s: %w", path, err)
	}
	return nil
}

func removeStale(paths ...string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}

// sanitizeName оставляет в имени снимка только безопасные для пути символы.
// Слэши допускаются, чтобы снимки можно было группировать по подкаталогам.
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, ".png")

	parts := strings.Split(filepath.ToSlash(name), "/")
	clean := parts[:0]
	for _, part := range parts {
		part = strings.Map(func(r rune) rune {
			switch {
			case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_', r == '.':
				return r
			case r == ' ':
				return '-'
			default:
				return -1
			}
		}, part)
		if part == "" || part == "." || part == ".." {
			continue
		}
		clean = append(clean, part)
	}
	if len(clean) == 0 {
		if name == "" {
			return "snapshot"
		}
		return "snapshot-" + artifacts.Fingerprint(name)
	}
	return filepath.Join(clean...)
}
