package catalog

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"collection/internal/pg"
)

// Categories: справочник категорий сервисов.
type Categories struct{}

func (Categories) List(ctx context.Context, q pg.DBTX) ([]Category, error) {
	query, args, err := psql.Select("id", "name").From(CategoriesTable).OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Ensure идемпотентно добавляет категорию.
func (Categories) Ensure(ctx context.Context, q pg.DBTX, name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, NewError(KindValidation, "categories.ensure", "category name is required", nil)
	}
	query, args, err := psql.Insert(CategoriesTable).Columns("name").Values(name).
		Suffix("ON CONFLICT (name) DO NOTHING").ToSql()
	if err != nil {
		return Category{}, err
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return Category{}, err
	}
	sel, args, err := psql.Select("id").From(CategoriesTable).Where(sq.Eq{"name": name}).ToSql()
	if err != nil {
		return Category{}, err
	}
	c := Category{Name: name}
	if err := q.QueryRowContext(ctx, sel, args...).Scan(&c.ID); err != nil {
		return Category{}, err
	}
	return c, nil
}
