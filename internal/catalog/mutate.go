package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateRoot создаёт root без mid. Дубликат имени отклоняет уникальный индекс (Conflict).
func (e *Engine) CreateRoot(ctx context.Context, in RootInput) (Root, error) {
	in = trimRoot(in)
	if err := validateInput(e.h.Name+".create", in); err != nil {
		return Root{}, e.reject("create", err)
	}
	var out Root
	err := e.write(ctx, "create", func(tx *sql.Tx) error {
		id, err := e.store.CreateRoot(ctx, tx, in)
		if err != nil {
			return err
		}
		out, err = e.store.GetRoot(ctx, tx, id)
		return err
	})
	return out, err
}

func (e *Engine) UpdateRoot(ctx context.Context, id int64, in RootInput) (Root, error) {
	in = trimRoot(in)
	if err := validateInput(e.h.Name+".update", in); err != nil {
		return Root{}, e.reject("update", err)
	}
	var out Root
	err := e.write(ctx, "update", func(tx *sql.Tx) error {
		if err := e.store.UpdateRoot(ctx, tx, id, in); err != nil {
			return err
		}
		var err error
		out, err = e.store.GetRoot(ctx, tx, id)
		return err
	})
	return out, err
}

// AddMidWithLeaves добавляет mid с полным набором параметров одной транзакцией.
// Все имена типов резолвятся до первой вставки.
func (e *Engine) AddMidWithLeaves(ctx context.Context, rootID int64, in MidInput) (MidAggregate, error) {
	in = trimMid(in)
	if err := validateInput(e.h.Name+".add_mid", in); err != nil {
		return MidAggregate{}, e.reject("add_mid", err)
	}
	for i, p := range in.Parameters {
		if p.ID != nil {
			return MidAggregate{}, e.reject("add_mid", NewError(KindValidation, e.h.Name+".add_mid",
				fmt.Sprintf("parameters[%d]: id must not be set on a new %s", i, e.h.MidPath), nil))
		}
	}

	var out MidAggregate
	err := e.write(ctx, "add_mid", func(tx *sql.Tx) error {
		if _, err := e.store.GetRoot(ctx, tx, rootID); err != nil {
			return err
		}
		typeIDs, err := e.types.ResolveMany(ctx, tx, typeNames(in.Parameters))
		if err != nil {
			return err
		}
		midID, err := e.store.CreateMid(ctx, tx, rootID, in.Name, in.Description)
		if err != nil {
			return err
		}
		if err := e.upsertLeaves(ctx, tx, midID, in.Parameters, typeIDs); err != nil {
			return err
		}
		out, err = e.loadMid(ctx, tx, midID)
		return err
	})
	return out, err
}

// ReplaceMidLeaves обновляет mid и применяет upsert к каждому переданному параметру:
// с id, update, без id, insert. Не переданные параметры остаются как есть.
func (e *Engine) ReplaceMidLeaves(ctx context.Context, midID int64, in MidInput) (MidAggregate, error) {
	in = trimMid(in)
	if err := validateInput(e.h.Name+".replace_mid", in); err != nil {
		return MidAggregate{}, e.reject("replace_mid", err)
	}
	var out MidAggregate
	err := e.write(ctx, "replace_mid", func(tx *sql.Tx) error {
		typeIDs, err := e.types.ResolveMany(ctx, tx, typeNames(in.Parameters))
		if err != nil {
			return err
		}
		if err := e.store.UpdateMid(ctx, tx, midID, in.Name, in.Description); err != nil {
			return err
		}
		if err := e.upsertLeaves(ctx, tx, midID, in.Parameters, typeIDs); err != nil {
			return err
		}
		out, err = e.loadMid(ctx, tx, midID)
		return err
	})
	return out, err
}

// DeleteRootCascade возвращает удалённый root: у сервиса в нём ключ логотипа для очистки blob store.
func (e *Engine) DeleteRootCascade(ctx context.Context, rootID int64) (Root, error) {
	var out Root
	err := e.write(ctx, "delete", func(tx *sql.Tx) error {
		var err error
		if out, err = e.store.GetRoot(ctx, tx, rootID); err != nil {
			return err
		}
		return e.store.DeleteRoot(ctx, tx, rootID)
	})
	return out, err
}

func (e *Engine) DeleteMidCascade(ctx context.Context, midID int64) error {
	return e.write(ctx, "delete_mid", func(tx *sql.Tx) error {
		return e.store.DeleteMid(ctx, tx, midID)
	})
}

func (e *Engine) DeleteLeaf(ctx context.Context, leafID int64) (int64, error) {
	var id int64
	err := e.write(ctx, "delete_leaf", func(tx *sql.Tx) error {
		var err error
		id, err = e.store.DeleteLeaf(ctx, tx, leafID)
		return err
	})
	return id, err
}

// DeleteLeafOfMid удаляет параметр, только если он принадлежит указанному mid.
func (e *Engine) DeleteLeafOfMid(ctx context.Context, midID, leafID int64) (int64, error) {
	var id int64
	err := e.write(ctx, "delete_leaf", func(tx *sql.Tx) error {
		var err error
		id, err = e.store.DeleteLeafOfMid(ctx, tx, midID, leafID)
		return err
	})
	return id, err
}

func (e *Engine) upsertLeaves(ctx context.Context, tx *sql.Tx, midID int64, params []LeafInput, typeIDs map[string]int64) error {
	for i, p := range params {
		leaf := p.toLeaf(midID, typeIDs[p.Type])
		if _, err := e.store.UpsertLeaf(ctx, tx, leaf); err != nil {
			return fmt.Errorf("parameters[%d]: %w", i, err)
		}
	}
	return nil
}

func typeNames(params []LeafInput) []string {
	out := make([]string, 0, len(params))
	for _, p := range params {
		out = append(out, p.Type)
	}
	return out
}
