package catalog

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDDL_KeysOrderSchemasFirst(t *testing.T) {
	ddl := DDL(Hierarchies()...)
	keys := make([]string, 0, len(ddl))
	for k := range ddl {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{"000_schemas", "100_reference", "200_component", "200_service"}, keys)

	schemas := ddl["000_schemas"]
	assert.Equal(t, 1, strings.Count(schemas, "create schema if not exists services;"))
	assert.Contains(t, schemas, "create schema if not exists catalog;")
	assert.Contains(t, schemas, "create schema if not exists components;")
}

func TestDDL_RestrictForeignKeys(t *testing.T) {
	ddl := DDL(Components, Services)

	comp := ddl["200_component"]
	assert.Contains(t, comp, "component_id bigint not null references components.components(id) on delete restrict")
	assert.Contains(t, comp, "function_id bigint not null references components.component_function(id) on delete restrict")
	assert.Contains(t, comp, "type_id bigint not null references catalog.types(id) on delete restrict")
	assert.Contains(t, comp, "create unique index if not exists component_name_uq on components.components(name);")
	assert.NotContains(t, comp, "required boolean")
	assert.NotContains(t, comp, "category_id")

	svc := ddl["200_service"]
	assert.Contains(t, svc, "uri text not null")
	assert.Contains(t, svc, "category_id bigint references services.service_categories(id) on delete set null")
	assert.Contains(t, svc, "api_source text not null default 'manual'")
	assert.Contains(t, svc, "required boolean not null default false")
}

func TestLookup(t *testing.T) {
	h, ok := Lookup(" Services ")
	require.True(t, ok)
	assert.Equal(t, "service", h.Name)

	h, ok = Lookup("component")
	require.True(t, ok)
	assert.Equal(t, "components.components", h.RootTable)

	_, ok = Lookup("auth")
	assert.False(t, ok)
	_, ok = Lookup("")
	assert.False(t, ok)
}

func TestHierarchyColumns(t *testing.T) {
	assert.Equal(t, []string{"id", "service_id", "uri", "description"}, Services.midColumns())
	assert.Equal(t, "required", Services.leafColumns()[len(Services.leafColumns())-1])
	assert.Len(t, Components.rootColumns(), 3)
	assert.Len(t, Services.rootColumns(), 7)
}
