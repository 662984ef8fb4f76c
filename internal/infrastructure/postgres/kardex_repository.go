package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/Inventario-kardex/internal/domain"
	"github.com/jhoicas/Inventario-kardex/internal/domain/entity"
	"github.com/jhoicas/Inventario-kardex/internal/domain/repository"
)

var _ repository.KardexRepository = (*KardexRepo)(nil)

const kardexTable = "kardex"

var kardexColumns = []string{
	"id", "type_movement", "product_id", "quantity", "unit_price", "total_price", "movement_date", "created_at",
}

// KardexRepo implementación del puerto KardexRepository sobre PostgreSQL.
type KardexRepo struct {
	q Querier
}

// NewKardexRepository construye el adaptador de persistencia del kardex.
func NewKardexRepository(q Querier) *KardexRepo {
	return &KardexRepo{q: q}
}

func (r *KardexRepo) Create(ctx context.Context, k *entity.KardexEntry) error {
	ins := psql.Insert(kardexTable).Columns(kardexColumns...).Values(
		k.ID, k.TypeMovement, k.ProductID, k.Quantity, k.UnitPrice, k.TotalPrice, k.MovementDate, k.CreatedAt,
	)
	_, err := exec(ctx, r.q, ins, "insert kardex")
	return err
}

func (r *KardexRepo) GetByID(ctx context.Context, id string) (*entity.KardexEntry, error) {
	sql, args, err := psql.Select(kardexColumns...).From(kardexTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("get kardex: build: %w", err)
	}
	var k entity.KardexEntry
	if err := pgxscan.Get(ctx, r.q, &k, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get kardex: %w", err)
	}
	return &k, nil
}

func (r *KardexRepo) Update(ctx context.Context, k *entity.KardexEntry) error {
	upd := psql.Update(kardexTable).SetMap(map[string]any{
		"type_movement": k.TypeMovement,
		"product_id":    k.ProductID,
		"quantity":      k.Quantity,
		"unit_price":    k.UnitPrice,
		"total_price":   k.TotalPrice,
		"movement_date": k.MovementDate,
	}).Where(squirrel.Eq{"id": k.ID})
	n, err := exec(ctx, r.q, upd, "update kardex")
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound(domain.ResourceKardex, k.ID)
	}
	return nil
}

func (r *KardexRepo) Delete(ctx context.Context, id string) error {
	_, err := exec(ctx, r.q, psql.Delete(kardexTable).Where(squirrel.Eq{"id": id}), "delete kardex")
	return err
}

// List más recientes primero.
func (r *KardexRepo) List(ctx context.Context, limit, offset int) ([]*entity.KardexEntry, error) {
	q := psql.Select(kardexColumns...).From(kardexTable).
		OrderBy("movement_date DESC", "created_at DESC", "id DESC").
		Limit(uint64(limit)).Offset(uint64(offset))
	return r.selectEntries(ctx, q, "list kardex")
}

func (r *KardexRepo) Find(ctx context.Context, f repository.KardexFilter) ([]*entity.KardexEntry, error) {
	return r.selectEntries(ctx, findKardexQuery(f), "find kardex")
}

func (r *KardexRepo) TopSoldProducts(ctx context.Context, from, to time.Time, limit int) ([]repository.ProductSales, error) {
	sql, args, err := topSoldQuery(from, to, limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("top sold: build: %w", err)
	}
	var out []repository.ProductSales
	if err := pgxscan.Select(ctx, r.q, &out, sql, args...); err != nil {
		return nil, fmt.Errorf("top sold: %w", err)
	}
	return out, nil
}

func (r *KardexRepo) selectEntries(ctx context.Context, q squirrel.SelectBuilder, op string) ([]*entity.KardexEntry, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build: %w", op, err)
	}
	var list []*entity.KardexEntry
	if err := pgxscan.Select(ctx, r.q, &list, sql, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

func findKardexQuery(f repository.KardexFilter) squirrel.SelectBuilder {
	q := psql.Select(kardexColumns...).From(kardexTable)
	if f.From != nil {
		q = q.Where(squirrel.GtOrEq{"movement_date": *f.From})
	}
	if f.To != nil {
		q = q.Where(squirrel.LtOrEq{"movement_date": *f.To})
	}
	if f.Type != "" {
		q = q.Where(squirrel.Eq{"type_movement": f.Type})
	}
	if f.ProductID != "" {
		q = q.Where(squirrel.Eq{"product_id": f.ProductID})
	}
	return q.OrderBy("movement_date ASC", "created_at ASC", "id ASC")
}

func topSoldQuery(from, to time.Time, limit int) squirrel.SelectBuilder {
	q := psql.Select("product_id", "SUM(quantity) AS quantity").
		From(kardexTable).
		Where(squirrel.Eq{"type_movement": entity.MovementOutcome}).
		Where(squirrel.GtOrEq{"movement_date": from}).
		Where(squirrel.LtOrEq{"movement_date": to}).
		GroupBy("product_id").
		OrderBy("quantity DESC", "product_id ASC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return q
}
