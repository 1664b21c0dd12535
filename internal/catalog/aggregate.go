package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"collection/internal/pg"
)

// GetFullAggregate собирает Root{Mid[]{Leaf[]}} в одном снимке. Наружу уходят только имена типов.
func (e *Engine) GetFullAggregate(ctx context.Context, rootID int64) (RootAggregate, error) {
	var out RootAggregate
	err := e.read(ctx, "get_aggregate", func(tx *sql.Tx) error {
		root, err := e.store.GetRoot(ctx, tx, rootID)
		if err != nil {
			return err
		}
		out, err = e.assemble(ctx, tx, root)
		return err
	})
	return out, err
}

// GetFullAggregateByName: то же, но root адресуется по имени.
func (e *Engine) GetFullAggregateByName(ctx context.Context, name string) (RootAggregate, error) {
	var out RootAggregate
	err := e.read(ctx, "get_aggregate_by_name", func(tx *sql.Tx) error {
		root, err := e.store.GetRootByName(ctx, tx, name)
		if err != nil {
			return err
		}
		out, err = e.assemble(ctx, tx, root)
		return err
	})
	return out, err
}

// GetRoot: только сам root, без mid.
func (e *Engine) GetRoot(ctx context.Context, rootID int64) (Root, error) {
	var out Root
	err := e.read(ctx, "get", func(tx *sql.Tx) error {
		var err error
		out, err = e.store.GetRoot(ctx, tx, rootID)
		return err
	})
	return out, err
}

// ListRootsFlat: все root без вложенных данных.
func (e *Engine) ListRootsFlat(ctx context.Context) ([]Root, error) {
	var out []Root
	err := e.read(ctx, "list_roots", func(tx *sql.Tx) error {
		var err error
		out, err = e.store.ListRoots(ctx, tx)
		return err
	})
	return out, err
}

// ListMidAggregates: все mid одного root с параметрами.
func (e *Engine) ListMidAggregates(ctx context.Context, rootID int64) ([]MidAggregate, error) {
	var out []MidAggregate
	err := e.read(ctx, "list_mids", func(tx *sql.Tx) error {
		root, err := e.store.GetRoot(ctx, tx, rootID)
		if err != nil {
			return err
		}
		agg, err := e.assemble(ctx, tx, root)
		if err != nil {
			return err
		}
		out = agg.Mids
		return nil
	})
	return out, err
}

func (e *Engine) GetMidAggregate(ctx context.Context, midID int64) (MidAggregate, error) {
	var out MidAggregate
	err := e.read(ctx, "get_mid", func(tx *sql.Tx) error {
		var err error
		out, err = e.loadMid(ctx, tx, midID)
		return err
	})
	return out, err
}

func (e *Engine) assemble(ctx context.Context, q pg.DBTX, root Root) (RootAggregate, error) {
	mids, err := e.store.ListMids(ctx, q, root.ID)
	if err != nil {
		return RootAggregate{}, err
	}
	leaves, err := e.store.ListLeavesOfRoot(ctx, q, root.ID)
	if err != nil {
		return RootAggregate{}, err
	}
	ix, err := e.types.Index(ctx, q)
	if err != nil {
		return RootAggregate{}, err
	}
	if err := e.nameTypes(leaves, ix); err != nil {
		return RootAggregate{}, err
	}

	byMid := make(map[int64][]Leaf, len(mids))
	for _, l := range leaves {
		byMid[l.MidID] = append(byMid[l.MidID], l)
	}
	out := RootAggregate{Root: root, Mids: make([]MidAggregate, 0, len(mids))}
	for _, m := range mids {
		params := byMid[m.ID]
		if params == nil {
			params = []Leaf{}
		}
		out.Mids = append(out.Mids, MidAggregate{Mid: m, Parameters: params})
	}
	return out, nil
}

// loadMid перечитывает mid и его параметры. Используется и после записи.
func (e *Engine) loadMid(ctx context.Context, q pg.DBTX, midID int64) (MidAggregate, error) {
	m, err := e.store.GetMid(ctx, q, midID)
	if err != nil {
		return MidAggregate{}, err
	}
	leaves, err := e.store.ListLeaves(ctx, q, midID)
	if err != nil {
		return MidAggregate{}, err
	}
	ix, err := e.types.Index(ctx, q)
	if err != nil {
		return MidAggregate{}, err
	}
	if err := e.nameTypes(leaves, ix); err != nil {
		return MidAggregate{}, err
	}
	return MidAggregate{Mid: m, Parameters: leaves}, nil
}

// nameTypes подставляет имена типов. Висящий type_id означает порчу данных, а не ошибку клиента.
func (e *Engine) nameTypes(leaves []Leaf, ix TypeIndex) error {
	for i := range leaves {
		name, ok := ix.Name(leaves[i].TypeID)
		if !ok {
			return NewError(KindDataIntegrity, e.h.Name+".resolve_type",
				fmt.Sprintf("%s %d references missing type id %d", e.h.LeafPath, leaves[i].ID, leaves[i].TypeID), nil)
		}
		leaves[i].Type = name
	}
	return nil
}
