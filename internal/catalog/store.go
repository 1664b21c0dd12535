package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"collection/internal/pg"
)

// Store: CRUD над одной иерархией. Запросы строит squirrel, выполняет переданный DBTX
// (пул или транзакция), поэтому Store не знает о границах транзакций.
type Store struct {
	h Hierarchy
}

func NewStore(h Hierarchy) Store { return Store{h: h} }

type rowScanner interface {
	Scan(dest ...any) error
}

// ===== Root =====

func (s Store) rootValues(in RootInput) ([]string, []any) {
	cols := []string{"name", "description"}
	vals := []any{in.Name, in.Description}
	if s.h.ServiceRoot {
		cols = append(cols, "uri", "category_id", "logo")
		vals = append(vals, in.URI, in.CategoryID, in.Logo)
	}
	return cols, vals
}

func (s Store) scanRoot(sc rowScanner) (Root, error) {
	var r Root
	dest := []any{&r.ID, &r.Name, &r.Description}
	if s.h.ServiceRoot {
		dest = append(dest, &r.URI, &r.CategoryID, &r.Logo, &r.APISource)
	}
	err := sc.Scan(dest...)
	return r, err
}

func (s Store) CreateRoot(ctx context.Context, q pg.DBTX, in RootInput) (int64, error) {
	cols, vals := s.rootValues(in)
	query, args, err := psql.Insert(s.h.RootTable).Columns(cols...).Values(vals...).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (s Store) GetRoot(ctx context.Context, q pg.DBTX, id int64) (Root, error) {
	return s.getRootWhere(ctx, q, sq.Eq{"id": id}, fmt.Sprintf("%s %d not found", s.h.Name, id))
}

func (s Store) GetRootByName(ctx context.Context, q pg.DBTX, name string) (Root, error) {
	return s.getRootWhere(ctx, q, sq.Eq{"name": name}, fmt.Sprintf("%s '%s' not found", s.h.Name, name))
}

func (s Store) getRootWhere(ctx context.Context, q pg.DBTX, where sq.Eq, missing string) (Root, error) {
	query, args, err := psql.Select(s.h.rootColumns()...).From(s.h.RootTable).Where(where).ToSql()
	if err != nil {
		return Root{}, err
	}
	r, err := s.scanRoot(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Root{}, notFound(s.h.Name+".get", "%s", missing)
	}
	return r, err
}

func (s Store) ListRoots(ctx context.Context, q pg.DBTX) ([]Root, error) {
	query, args, err := psql.Select(s.h.rootColumns()...).From(s.h.RootTable).OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Root{}
	for rows.Next() {
		r, err := s.scanRoot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpdateRoot перезаписывает поля; logo трогается только если передан новый ключ.
func (s Store) UpdateRoot(ctx context.Context, q pg.DBTX, id int64, in RootInput) error {
	b := psql.Update(s.h.RootTable).
		Set("name", in.Name).
		Set("description", in.Description)
	if s.h.ServiceRoot {
		b = b.Set("uri", in.URI).Set("category_id", in.CategoryID)
		if in.Logo != nil {
			b = b.Set("logo", in.Logo)
		}
	}
	query, args, err := b.Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	return s.execOne(ctx, q, query, args, fmt.Sprintf("%s %d not found", s.h.Name, id))
}

// DeleteRoot удаляет leaf → mid → root. Порядок обязателен: FK объявлены restrict.
func (s Store) DeleteRoot(ctx context.Context, q pg.DBTX, id int64) error {
	leafQ, leafArgs, err := psql.Delete(s.h.LeafTable).
		Where(fmt.Sprintf("%s IN (SELECT id FROM %s WHERE %s = ?)", s.h.LeafParent, s.h.MidTable, s.h.MidParent), id).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := q.ExecContext(ctx, leafQ, leafArgs...); err != nil {
		return fmt.Errorf("delete leaves of %s %d: %w", s.h.Name, id, err)
	}

	midQ, midArgs, err := psql.Delete(s.h.MidTable).Where(sq.Eq{s.h.MidParent: id}).ToSql()
	if err != nil {
		return err
	}
	if _, err := q.ExecContext(ctx, midQ, midArgs...); err != nil {
		return fmt.Errorf("delete mids of %s %d: %w", s.h.Name, id, err)
	}

	rootQ, rootArgs, err := psql.Delete(s.h.RootTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	return s.execOne(ctx, q, rootQ, rootArgs, fmt.Sprintf("%s %d not found", s.h.Name, id))
}

// ===== Mid =====

func (s Store) scanMid(sc rowScanner) (Mid, error) {
	var m Mid
	err := sc.Scan(&m.ID, &m.RootID, &m.Name, &m.Description)
	return m, err
}

func (s Store) ListMids(ctx context.Context, q pg.DBTX, rootID int64) ([]Mid, error) {
	query, args, err := psql.Select(s.h.midColumns()...).From(s.h.MidTable).
		Where(sq.Eq{s.h.MidParent: rootID}).OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Mid{}
	for rows.Next() {
		m, err := s.scanMid(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s Store) GetMid(ctx context.Context, q pg.DBTX, id int64) (Mid, error) {
	query, args, err := psql.Select(s.h.midColumns()...).From(s.h.MidTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return Mid{}, err
	}
	m, err := s.scanMid(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Mid{}, notFound(s.h.Name+".get_mid", "%s %d not found", s.h.MidPath, id)
	}
	return m, err
}

func (s Store) CreateMid(ctx context.Context, q pg.DBTX, rootID int64, name string, description *string) (int64, error) {
	query, args, err := psql.Insert(s.h.MidTable).
		Columns(s.h.MidParent, s.h.MidName, "description").
		Values(rootID, name, description).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (s Store) UpdateMid(ctx context.Context, q pg.DBTX, id int64, name string, description *string) error {
	query, args, err := psql.Update(s.h.MidTable).
		Set(s.h.MidName, name).
		Set("description", description).
		Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	return s.execOne(ctx, q, query, args, fmt.Sprintf("%s %d not found", s.h.MidPath, id))
}

// DeleteMid удаляет leaf → mid.
func (s Store) DeleteMid(ctx context.Context, q pg.DBTX, id int64) error {
	leafQ, leafArgs, err := psql.Delete(s.h.LeafTable).Where(sq.Eq{s.h.LeafParent: id}).ToSql()
	if err != nil {
		return err
	}
	if _, err := q.ExecContext(ctx, leafQ, leafArgs...); err != nil {
		return fmt.Errorf("delete leaves of %s %d: %w", s.h.MidPath, id, err)
	}
	midQ, midArgs, err := psql.Delete(s.h.MidTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	return s.execOne(ctx, q, midQ, midArgs, fmt.Sprintf("%s %d not found", s.h.MidPath, id))
}

// ===== Leaf =====

func (s Store) scanLeaf(sc rowScanner) (Leaf, error) {
	var l Leaf
	dest := []any{
		&l.ID, &l.MidID, &l.Name, &l.Description, &l.TypeID,
		&l.PositionInSignature, &l.IsMultipleValues, &l.IsReturnValue,
		&l.DefaultValue, &l.Path,
	}
	if s.h.LeafRequired {
		var req bool
		dest = append(dest, &req)
		if err := sc.Scan(dest...); err != nil {
			return Leaf{}, err
		}
		l.Required = &req
		return l, nil
	}
	err := sc.Scan(dest...)
	return l, err
}

func (s Store) queryLeaves(ctx context.Context, q pg.DBTX, b sq.SelectBuilder) ([]Leaf, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Leaf{}
	for rows.Next() {
		l, err := s.scanLeaf(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s Store) ListLeaves(ctx context.Context, q pg.DBTX, midID int64) ([]Leaf, error) {
	return s.queryLeaves(ctx, q, psql.Select(s.h.leafColumns()...).From(s.h.LeafTable).
		Where(sq.Eq{s.h.LeafParent: midID}).OrderBy("id"))
}

// ListLeavesOfRoot: все leaf всех mid одного root одним запросом.
func (s Store) ListLeavesOfRoot(ctx context.Context, q pg.DBTX, rootID int64) ([]Leaf, error) {
	return s.queryLeaves(ctx, q, psql.Select(s.h.leafColumns()...).From(s.h.LeafTable).
		Where(fmt.Sprintf("%s IN (SELECT id FROM %s WHERE %s = ?)", s.h.LeafParent, s.h.MidTable, s.h.MidParent), rootID).
		OrderBy(s.h.LeafParent, "id"))
}

// UpsertLeaf обновляет строку в пределах (id, mid) при ID != 0, иначе вставляет. Возвращает id строки.
func (s Store) UpsertLeaf(ctx context.Context, q pg.DBTX, l Leaf) (int64, error) {
	if l.ID != 0 {
		b := psql.Update(s.h.LeafTable).
			Set("name", l.Name).
			Set("description", l.Description).
			Set("type_id", l.TypeID).
			Set("position_in_signature", l.PositionInSignature).
			Set("is_multiple_values", l.IsMultipleValues).
			Set("is_return_value", l.IsReturnValue).
			Set("default_value", l.DefaultValue).
			Set("path", l.Path)
		if s.h.LeafRequired {
			b = b.Set("required", l.Required != nil && *l.Required)
		}
		query, args, err := b.Where(sq.Eq{"id": l.ID, s.h.LeafParent: l.MidID}).ToSql()
		if err != nil {
			return 0, err
		}
		if err := s.execOne(ctx, q, query, args,
			fmt.Sprintf("%s %d not found in %s %d", s.h.LeafPath, l.ID, s.h.MidPath, l.MidID)); err != nil {
			return 0, err
		}
		return l.ID, nil
	}

	cols := []string{
		s.h.LeafParent, "name", "description", "type_id", "position_in_signature",
		"is_multiple_values", "is_return_value", "default_value", "path",
	}
	vals := []any{
		l.MidID, l.Name, l.Description, l.TypeID, l.PositionInSignature,
		l.IsMultipleValues, l.IsReturnValue, l.DefaultValue, l.Path,
	}
	if s.h.LeafRequired {
		cols = append(cols, "required")
		vals = append(vals, l.Required != nil && *l.Required)
	}
	query, args, err := psql.Insert(s.h.LeafTable).Columns(cols...).Values(vals...).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// DeleteLeaf возвращает id удалённой строки.
func (s Store) DeleteLeaf(ctx context.Context, q pg.DBTX, id int64) (int64, error) {
	return s.deleteLeafWhere(ctx, q, sq.Eq{"id": id}, fmt.Sprintf("%s %d not found", s.h.LeafPath, id))
}

func (s Store) DeleteLeafOfMid(ctx context.Context, q pg.DBTX, midID, id int64) (int64, error) {
	return s.deleteLeafWhere(ctx, q, sq.Eq{"id": id, s.h.LeafParent: midID},
		fmt.Sprintf("%s %d not found in %s %d", s.h.LeafPath, id, s.h.MidPath, midID))
}

func (s Store) deleteLeafWhere(ctx context.Context, q pg.DBTX, where sq.Eq, missing string) (int64, error) {
	query, args, err := psql.Delete(s.h.LeafTable).Where(where).Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, notFound(s.h.Name+".delete_leaf", "%s", missing)
		}
		return 0, err
	}
	return id, nil
}

// execOne выполняет запрос и требует, чтобы он затронул хотя бы одну строку.
func (s Store) execOne(ctx context.Context, q pg.DBTX, query string, args []any, missing string) error {
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(s.h.Name, "%s", missing)
	}
	return nil
}
