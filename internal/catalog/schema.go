package catalog

import (
	"fmt"
	"strings"
)

// DDL возвращает карту ключ -> SQL для pg.ApplyDDL. Ключи задают порядок:
// сначала схемы, затем справочники, затем таблицы иерархий (root, mid, leaf).
// FK объявлены on delete restrict: удаление в неправильном порядке отклоняет сама БД.
func DDL(hs ...Hierarchy) map[string]string {
	out := make(map[string]string, len(hs)+2)

	// --- 000: схемы ---
	var schemas strings.Builder
	seen := map[string]struct{}{}
	for _, s := range append([]string{schemaOf(TypesTable), schemaOf(CategoriesTable)}, schemasOf(hs)...) {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		fmt.Fprintf(&schemas, "create schema if not exists %s;\n", s)
	}
	out["000_schemas"] = schemas.String()

	// --- 100: общие справочники ---
	var ref strings.Builder
	fmt.Fprintf(&ref, "create table if not exists %s (\n  id bigserial primary key,\n  name text not null\n);\n", TypesTable)
	fmt.Fprintf(&ref, "create unique index if not exists types_name_uq on %s(name);\n", TypesTable)
	fmt.Fprintf(&ref, "create table if not exists %s (\n  id bigserial primary key,\n  name text not null\n);\n", CategoriesTable)
	fmt.Fprintf(&ref, "create unique index if not exists service_categories_name_uq on %s(name);\n", CategoriesTable)
	out["100_reference"] = ref.String()

	// --- 200: иерархии ---
	for _, h := range hs {
		out["200_"+h.Name] = hierarchyDDL(h)
	}
	return out
}

func hierarchyDDL(h Hierarchy) string {
	var sb strings.Builder

	rootCols := []string{
		"id bigserial primary key",
		"name text not null",
		"description text",
	}
	if h.ServiceRoot {
		rootCols = append(rootCols,
			"uri text",
			fmt.Sprintf("category_id bigint references %s(id) on delete set null", CategoriesTable),
			"logo text",
			"api_source text not null default 'manual'",
		)
	}
	fmt.Fprintf(&sb, "create table if not exists %s (\n  %s\n);\n", h.RootTable, strings.Join(rootCols, ",\n  "))
	// уникальность имени держит БД, а не проверка в приложении
	fmt.Fprintf(&sb, "create unique index if not exists %s_name_uq on %s(name);\n", h.Name, h.RootTable)

	midCols := []string{
		"id bigserial primary key",
		fmt.Sprintf("%s bigint not null references %s(id) on delete restrict", h.MidParent, h.RootTable),
		fmt.Sprintf("%s text not null", h.MidName),
		"description text",
	}
	fmt.Fprintf(&sb, "create table if not exists %s (\n  %s\n);\n", h.MidTable, strings.Join(midCols, ",\n  "))
	fmt.Fprintf(&sb, "create index if not exists %s_mid_parent_idx on %s(%s);\n", h.Name, h.MidTable, h.MidParent)

	leafCols := []string{
		"id bigserial primary key",
		fmt.Sprintf("%s bigint not null references %s(id) on delete restrict", h.LeafParent, h.MidTable),
		"name text not null",
		"description text",
		fmt.Sprintf("type_id bigint not null references %s(id) on delete restrict", TypesTable),
		"position_in_signature integer",
		"is_multiple_values boolean not null default false",
		"is_return_value boolean not null default false",
		"default_value text",
		"path text",
	}
	if h.LeafRequired {
		leafCols = append(leafCols, "required boolean not null default false")
	}
	fmt.Fprintf(&sb, "create table if not exists %s (\n  %s\n);\n", h.LeafTable, strings.Join(leafCols, ",\n  "))
	fmt.Fprintf(&sb, "create index if not exists %s_leaf_parent_idx on %s(%s);\n", h.Name, h.LeafTable, h.LeafParent)

	return sb.String()
}

func schemasOf(hs []Hierarchy) []string {
	out := make([]string, 0, len(hs))
	for _, h := range hs {
		out = append(out, h.Schema)
	}
	return out
}

func schemaOf(table string) string {
	if i := strings.IndexByte(table, '.'); i > 0 {
		return table[:i]
	}
	return "public"
}
