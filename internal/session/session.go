// Package session сохраняет состояние браузерного контекста (cookies,
// localStorage) в JSON-файлы, чтобы сценарии могли начинать с входа в систему.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/playwright-community/playwright-go"

	"bddBrowser/internal/artifacts"
)

// StateSaver реализуется playwright.BrowserContext.
type StateSaver interface {
	StorageState(path ...string) (*playwright.StorageState, error)
}

type Store struct {
	Dir string
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) Path(name string) string {
	return filepath.Join(s.Dir, artifacts.Slug(name)+".json")
}

func (s *Store) Exists(name string) bool {
	info, err := os.Stat(s.Path(name))
	return err == nil && !info.IsDir()
}

// Save записывает состояние контекста под именем name и возвращает путь к файлу.
func (s *Store) Save(bc StateSaver, name string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("не удалось создать каталог сессий %s: %w", s.Dir, err)
	}
	path := s.Path(name)
	if _, err := bc.StorageState(path); err != nil {
		return "", fmt.Errorf("не удалось сохранить сессию %q: %w", name, err)
	}
	return path, nil
}

// Load читает сохраненную сессию. Консоль показывает по ней состав сессии.
func (s *Store) Load(name string) (*playwright.StorageState, error) {
	path := s.Path(name)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("сессия %q не найдена (%s)", name, path)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения сессии %q: %w", name, err)
	}

	var state playwright.StorageState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("сессия %q повреждена: %w", name, err)
	}
	return &state, nil
}

func (s *Store) Delete(name string) error {
	err := os.Remove(s.Path(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("не удалось удалить сессию %q: %w", name, err)
	}
	return nil
}

func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}
