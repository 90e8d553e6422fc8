// Package artifacts раскладывает скриншоты, видео, трассировки и сессии
// по каталогам прогона.
package artifacts

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

type Mode int

const (
	Off Mode = iota
	Always
	OnFailure
)

func (m Mode) String() string {
	switch m {
	case Always:
		return "on"
	case OnFailure:
		return "failure"
	default:
		return "off"
	}
}

// ParseMode разбирает значение ENABLE_SCREENSHOTS / ENABLE_VIDEOS / ENABLE_TRACE.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "off", "false", "0", "no":
		return Off, nil
	case "on", "true", "1", "yes", "always":
		return Always, nil
	case "failure", "on-failure", "retain-on-failure", "only-on-failure":
		return OnFailure, nil
	default:
		return Off, fmt.Errorf("неизвестный режим артефактов: %q", value)
	}
}

func (m Mode) Enabled() bool {
	return m != Off
}

// Keep сообщает, нужно ли сохранить артефакт сценария с данным исходом.
func (m Mode) Keep(failed bool) bool {
	switch m {
	case Always:
		return true
	case OnFailure:
		return failed
	default:
		return false
	}
}

type Kind string

const (
	Screenshots Kind = "screenshots"
	Videos      Kind = "videos"
	Traces      Kind = "traces"
	Sessions    Kind = "sessions"
)

type Store struct {
	Root string
	now  func() time.Time
}

func NewStore(root string) *Store {
	return &Store{Root: root, now: time.Now}
}

// Dir возвращает каталог для вида артефактов, создавая его при необходимости.
func (s *Store) Dir(kind Kind) (string, error) {
	dir := filepath.Join(s.Root, string(kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("не удалось создать каталог %s: %w", dir, err)
	}
	return dir, nil
}

// Path строит путь <root>/<kind>/<slug>-<время>.<ext>.
func (s *Store) Path(kind Kind, name, ext string) (string, error) {
	dir, err := s.Dir(kind)
	if err != nil {
		return "", err
	}
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	stamp := now().Format("20060102-150405.000")
	file := fmt.Sprintf("%s-%s.%s", Slug(name), stamp, strings.TrimPrefix(ext, "."))
	return filepath.Join(dir, file), nil
}

// Slug приводит имя сценария к безопасному имени файла. Буквы любого
// алфавита сохраняются, поэтому разные кириллические имена не совпадают.
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug != "" {
		return slug
	}
	if strings.TrimSpace(name) == "" {
		return "scenario"
	}
	return "scenario-" + Fingerprint(name)
}

// Fingerprint - короткий хеш имени для случаев, когда от имени
// не осталось допустимых символов.
func Fingerprint(name string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return fmt.Sprintf("%08x", h.Sum32())
}

// Discard удаляет артефакт, если путь задан. Отсутствие файла не ошибка.
func Discard(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
