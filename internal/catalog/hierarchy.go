package catalog

import "strings"

// Общие справочники, на которые ссылаются обе иерархии.
const (
	TypesTable      = "catalog.types"
	CategoriesTable = "services.service_categories"
)

// Hierarchy описывает одну трёхуровневую иерархию Root → Mid → Leaf:
// где лежат таблицы, как называются FK-колонки и какие колонки есть только у сервисов.
// Store и Engine работают с любой иерархией только через этот дескриптор.
type Hierarchy struct {
	Name   string // "component" | "service"
	Schema string

	RootTable string
	MidTable  string
	LeafTable string

	MidParent  string // FK mid → root
	MidName    string // колонка с именем mid ("name" у функций, "uri" у точек сервиса)
	LeafParent string // FK leaf → mid

	ServiceRoot  bool // у root есть uri, category_id, logo, api_source
	LeafRequired bool // у leaf есть колонка required

	// Имена в HTTP-маршрутах и JSON.
	RootPath      string
	MidPath       string
	LeafPath      string
	RootLabel     string
	MidCollection string
}

var Components = Hierarchy{
	Name:          "component",
	Schema:        "components",
	RootTable:     "components.components",
	MidTable:      "components.component_function",
	LeafTable:     "components.component_function_parameter",
	MidParent:     "component_id",
	MidName:       "name",
	LeafParent:    "function_id",
	RootPath:      "components",
	MidPath:       "functions",
	LeafPath:      "parameters",
	RootLabel:     "component",
	MidCollection: "functions",
}

var Services = Hierarchy{
	Name:          "service",
	Schema:        "services",
	RootTable:     "services.service",
	MidTable:      "services.service_points",
	LeafTable:     "services.service_parameters",
	MidParent:     "service_id",
	MidName:       "uri",
	LeafParent:    "service_point_id",
	ServiceRoot:   true,
	LeafRequired:  true,
	RootPath:      "services",
	MidPath:       "service-points",
	LeafPath:      "service-parameters",
	RootLabel:     "service",
	MidCollection: "service_points",
}

// Hierarchies: все иерархии каталога в порядке регистрации маршрутов.
func Hierarchies() []Hierarchy {
	return []Hierarchy{Components, Services}
}

// Lookup ищет иерархию по имени или по пути маршрута, без учёта регистра.
func Lookup(name string) (Hierarchy, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return Hierarchy{}, false
	}
	for _, h := range Hierarchies() {
		if n == h.Name || n == h.RootPath {
			return h, true
		}
	}
	return Hierarchy{}, false
}

func (h Hierarchy) rootColumns() []string {
	cols := []string{"id", "name", "description"}
	if h.ServiceRoot {
		cols = append(cols, "uri", "category_id", "logo", "api_source")
	}
	return cols
}

func (h Hierarchy) midColumns() []string {
	return []string{"id", h.MidParent, h.MidName, "description"}
}

func (h Hierarchy) leafColumns() []string {
	cols := []string{
		"id", h.LeafParent, "name", "description", "type_id",
		"position_in_signature", "is_multiple_values", "is_return_value",
		"default_value", "path",
	}
	if h.LeafRequired {
		cols = append(cols, "required")
	}
	return cols
}
