package reference

// Directory: один YAML-справочник: types или categories.
type Directory struct {
	Name  string `yaml:"name"`
	Items []Item `yaml:"items"`
}

type Item struct {
	Name  string `yaml:"name"`
	Order int    `yaml:"order,omitempty"`
}

// Seed: начальные данные каталога, собранные из всех файлов папки.
type Seed struct {
	Types      []string
	Categories []string
}

// Известные имена справочников.
const (
	DirTypes      = "types"
	DirCategories = "categories"
)
