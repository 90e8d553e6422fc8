// Package fixtures загружает JSON-файлы с именованными значениями
// (селекторы, тексты, атрибуты), на которые шаги ссылаются по ключу.
package fixtures

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

type Set struct {
	raw []byte
}

// Empty возвращает пустой набор фикстур.
func Empty() *Set {
	return &Set{raw: []byte(`{}`)}
}

// Load читает фикстуры из файла или каталога. Файл - это JSON-объект,
// ключи которого доступны напрямую. В каталоге каждый *.json доступен
// под именем файла: login.json с ключом submit -> "login.submit".
// Отсутствующий путь дает пустой набор.
func Load(path string) (*Set, error) {
	if path == "" {
		return Empty(), nil
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Empty(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения фикстур %s: %w", path, err)
	}

	if !info.IsDir() {
		data, err := readObject(path)
		if err != nil {
			return nil, err
		}
		return &Set{raw: data}, nil
	}

	files, err := filepath.Glob(filepath.Join(path, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	merged := []byte(`{}`)
	for _, file := range files {
		data, err := readObject(file)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		merged, err = sjson.SetRawBytes(merged, escapePath(name), data)
		if err != nil {
			return nil, fmt.Errorf("ошибка слияния фикстуры %s: %w", file, err)
		}
	}

	return &Set{raw: merged}, nil
}

func readObject(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения фикстуры %s: %w", path, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("фикстура %s содержит невалидный JSON", path)
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, fmt.Errorf("фикстура %s должна быть JSON-объектом", path)
	}
	return data, nil
}

func escapePath(name string) string {
	replacer := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)
	return replacer.Replace(name)
}

// Ключом фикстуры считаются только слова, разделенные точками,
// чтобы литералы вроде "#id > a" или "Save*" не попадали в gjson-запросы.
var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+(\.[A-Za-z0-9_-]+)*$`)

// Lookup возвращает значение по ключу. Нестроковые значения возвращаются
// в текстовом виде (числа, булевы), объекты и массивы - как JSON.
func (s *Set) Lookup(key string) (string, bool) {
	if s == nil || len(s.raw) == 0 || !keyPattern.MatchString(key) {
		return "", false
	}
	res := gjson.GetBytes(s.raw, key)
	if !res.Exists() {
		return "", false
	}
	return res.String(), true
}

func (s *Set) MustLookup(key string) (string, error) {
	v, ok := s.Lookup(key)
	if !ok {
		return "", fmt.Errorf("фикстура %q не найдена", key)
	}
	return v, nil
}
