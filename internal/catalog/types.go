package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"collection/internal/pg"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// TypeCatalog: отображение имя типа <-> id. Без состояния: каждый вызов идёт в переданный DBTX.
type TypeCatalog struct{}

// TypeIndex: снимок каталога типов по id.
type TypeIndex map[int64]string

// Name возвращает имя типа; при ok=false ссылка висит.
func (ix TypeIndex) Name(id int64) (string, bool) {
	n, ok := ix[id]
	return n, ok
}

// ResolveID: точное совпадение имени.
func (TypeCatalog) ResolveID(ctx context.Context, q pg.DBTX, name string) (int64, error) {
	query, args, err := psql.Select("id").From(TypesTable).Where(sq.Eq{"name": name}).ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, typeNotFound("types.resolve_id", name)
		}
		return 0, err
	}
	return id, nil
}

// ResolveMany резолвит все различные имена одним запросом.
// Если хоть одно имя неизвестно, TypeNotFound с первым (в порядке сортировки) неизвестным.
func (TypeCatalog) ResolveMany(ctx context.Context, q pg.DBTX, names []string) (map[string]int64, error) {
	out := make(map[string]int64, len(names))
	if len(names) == 0 {
		return out, nil
	}
	uniq := distinct(names)
	query, args, err := psql.Select("id", "name").From(TypesTable).Where(sq.Eq{"name": uniq}).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[name] = id
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, n := range uniq {
		if _, ok := out[n]; !ok {
			return nil, typeNotFound("types.resolve_many", n)
		}
	}
	return out, nil
}

// ResolveName: обратное отображение.
func (TypeCatalog) ResolveName(ctx context.Context, q pg.DBTX, id int64) (string, error) {
	query, args, err := psql.Select("name").From(TypesTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return "", err
	}
	var name string
	if err := q.QueryRowContext(ctx, query, args...).Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", NewError(KindTypeNotFound, "types.resolve_name", fmt.Sprintf("type id %d not found", id), err)
		}
		return "", err
	}
	return name, nil
}

// List: все типы по возрастанию id.
func (TypeCatalog) List(ctx context.Context, q pg.DBTX) ([]TypeEntry, error) {
	query, args, err := psql.Select("id", "name").From(TypesTable).OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []TypeEntry{}
	for rows.Next() {
		var t TypeEntry
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Index: снимок всего каталога одним запросом.
func (c TypeCatalog) Index(ctx context.Context, q pg.DBTX) (TypeIndex, error) {
	list, err := c.List(ctx, q)
	if err != nil {
		return nil, err
	}
	ix := make(TypeIndex, len(list))
	for _, t := range list {
		ix[t.ID] = t.Name
	}
	return ix, nil
}

// Ensure идемпотентно добавляет тип и возвращает его запись.
func (c TypeCatalog) Ensure(ctx context.Context, q pg.DBTX, name string) (TypeEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return TypeEntry{}, NewError(KindValidation, "types.ensure", "type name is required", nil)
	}
	query, args, err := psql.Insert(TypesTable).Columns("name").Values(name).
		Suffix("ON CONFLICT (name) DO NOTHING").ToSql()
	if err != nil {
		return TypeEntry{}, err
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return TypeEntry{}, err
	}
	id, err := c.ResolveID(ctx, q, name)
	if err != nil {
		return TypeEntry{}, err
	}
	return TypeEntry{ID: id, Name: name}, nil
}

func typeNotFound(op, name string) error {
	return NewError(KindTypeNotFound, op, fmt.Sprintf("unknown type '%s'", name), nil)
}

func distinct(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
