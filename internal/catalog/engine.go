package catalog

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"collection/internal/logger"
	"collection/internal/pg"
)

// Hooks получает итог каждой операции движка: scope, иерархия или "reference",
// outcome: "ok" либо Kind ошибки.
type Hooks interface {
	ObserveOperation(scope, op, outcome string, d time.Duration)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, string, time.Duration) {}

// Deps: зависимости движка. DB это пул, общий для всех запросов.
type Deps struct {
	DB    *sql.DB
	Log   *logger.Logger
	Hooks Hooks
}

// runner оборачивает каждую операцию в транзакцию и после неё пишет хук и лог.
type runner struct {
	db    *sql.DB
	log   *logger.Logger
	hooks Hooks
	scope string
}

func newRunner(d Deps, scope string) runner {
	r := runner{db: d.DB, log: d.Log, hooks: d.Hooks, scope: scope}
	if r.log == nil {
		r.log = logger.Nop()
	}
	if r.hooks == nil {
		r.hooks = noopHooks{}
	}
	return r
}

// write: одна транзакция на операцию. Неклассифицированный сбой внутри записи
// считается обрывом транзакции: откат уже выполнен pg.InTx.
func (r runner) write(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	start := time.Now()
	err := pg.InTx(ctx, r.db, nil, fn)
	err = MapError(r.scope+"."+op, err)
	var e *Error
	if errors.As(err, &e) && e.Kind == KindInternal {
		err = NewError(KindTransaction, e.Op, e.Message, e.Err)
	}
	r.finish(op, start, err)
	return err
}

// read: снимок repeatable read только на чтение.
func (r runner) read(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	start := time.Now()
	err := MapError(r.scope+"."+op, pg.InTx(ctx, r.db, pg.ReadOnly, fn))
	r.finish(op, start, err)
	return err
}

func (r runner) finish(op string, start time.Time, err error) {
	d := time.Since(start)
	outcome := "ok"
	if err != nil {
		outcome = string(KindOf(err))
	}
	r.hooks.ObserveOperation(r.scope, op, outcome, d)

	switch KindOf(err) {
	case "":
		r.log.Debug("catalog op", "scope", r.scope, "op", op, "duration", d)
	case KindNotFound, KindConflict, KindTypeNotFound, KindValidation:
		r.log.Info("catalog op rejected", "scope", r.scope, "op", op, "kind", outcome, "error", err.Error())
	default:
		r.log.Error("catalog op failed", "scope", r.scope, "op", op, "kind", outcome, "error", err.Error())
	}
}

// reject учитывает операцию, отклонённую до открытия транзакции.
func (r runner) reject(op string, err error) error {
	r.finish(op, time.Now(), err)
	return err
}

// Engine: чтение и запись агрегатов одной иерархии.
type Engine struct {
	runner
	h     Hierarchy
	store Store
	types TypeCatalog
}

func NewEngine(d Deps, h Hierarchy) *Engine {
	return &Engine{
		runner: newRunner(d, h.Name),
		h:      h,
		store:  NewStore(h),
	}
}

func (e *Engine) Hierarchy() Hierarchy { return e.h }

// Reference: операции над общими справочниками (типы, категории).
type Reference struct {
	runner
	types      TypeCatalog
	categories Categories
}

func NewReference(d Deps) *Reference {
	return &Reference{runner: newRunner(d, "reference")}
}

func (r *Reference) ListTypes(ctx context.Context) ([]TypeEntry, error) {
	var out []TypeEntry
	err := r.read(ctx, "list_types", func(tx *sql.Tx) error {
		var err error
		out, err = r.types.List(ctx, tx)
		return err
	})
	return out, err
}

// AddType идемпотентен: повторное имя возвращает существующую запись.
func (r *Reference) AddType(ctx context.Context, name string) (TypeEntry, error) {
	var out TypeEntry
	err := r.write(ctx, "add_type", func(tx *sql.Tx) error {
		var err error
		out, err = r.types.Ensure(ctx, tx, name)
		return err
	})
	return out, err
}

func (r *Reference) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	err := r.read(ctx, "list_categories", func(tx *sql.Tx) error {
		var err error
		out, err = r.categories.List(ctx, tx)
		return err
	})
	return out, err
}

// Seed применяет набор типов и категорий одной транзакцией.
func (r *Reference) Seed(ctx context.Context, types, categories []string) error {
	return r.write(ctx, "seed", func(tx *sql.Tx) error {
		for _, t := range types {
			if _, err := r.types.Ensure(ctx, tx, t); err != nil {
				return err
			}
		}
		for _, c := range categories {
			if _, err := r.categories.Ensure(ctx, tx, c); err != nil {
				return err
			}
		}
		return nil
	})
}
