package reference

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Seeder применяет seed к хранилищу; catalog.Reference удовлетворяет интерфейсу.
type Seeder interface {
	Seed(ctx context.Context, types, categories []string) error
}

// Load читает все *.yaml / *.yml из dir. Имя справочника, из поля name или из имени файла.
func Load(dir string) (Seed, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Seed{}, err
	}
	var seed Seed
	for _, e := range entries {
		if e.IsDir() || !(strings.HasSuffix(e.Name(), ".yaml") || strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return Seed{}, err
		}
		var d Directory
		if err := yaml.Unmarshal(data, &d); err != nil {
			return Seed{}, fmt.Errorf("%s: %w", path, err)
		}
		name := strings.TrimSpace(d.Name)
		if name == "" {
			name = strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		}
		items, err := names(d.Items)
		if err != nil {
			return Seed{}, fmt.Errorf("%s: %w", path, err)
		}
		switch name {
		case DirTypes:
			seed.Types = merge(seed.Types, items)
		case DirCategories:
			seed.Categories = merge(seed.Categories, items)
		default:
			return Seed{}, fmt.Errorf("%s: unknown directory %q", path, name)
		}
	}
	return seed, nil
}

// Apply загружает dir и применяет его одной транзакцией.
func Apply(ctx context.Context, s Seeder, dir string) (Seed, error) {
	seed, err := Load(dir)
	if err != nil {
		return Seed{}, err
	}
	if err := s.Seed(ctx, seed.Types, seed.Categories); err != nil {
		return Seed{}, err
	}
	return seed, nil
}

// names сортирует элементы по order (стабильно) и проверяет пустые имена.
func names(items []Item) ([]string, error) {
	sorted := append([]Item(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })
	out := make([]string, 0, len(sorted))
	for i, it := range sorted {
		n := strings.TrimSpace(it.Name)
		if n == "" {
			return nil, fmt.Errorf("items[%d]: empty name", i)
		}
		out = append(out, n)
	}
	return out, nil
}

func merge(dst, src []string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, s := range dst {
		seen[s] = struct{}{}
	}
	for _, s := range src {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		dst = append(dst, s)
	}
	return dst
}
