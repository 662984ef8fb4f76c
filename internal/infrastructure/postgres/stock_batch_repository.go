package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/Inventario-kardex/internal/domain"
	"github.com/jhoicas/Inventario-kardex/internal/domain/entity"
	"github.com/jhoicas/Inventario-kardex/internal/domain/repository"
)

var _ repository.StockBatchRepository = (*StockBatchRepo)(nil)

const stockBatchTable = "stock_batch"

var stockBatchColumns = []string{
	"id", "product_id", "quantity", "purchase_unit_cost", "total_purchase_cost",
	"provider_id", "purchase_date", "expiry_date", "created_at", "updated_at",
}

// Orden de consumo: vencimiento más próximo primero, sin vencimiento al final.
var consumptionOrder = []string{"expiry_date ASC NULLS LAST", "purchase_date ASC", "created_at ASC", "id ASC"}

// StockBatchRepo implementación del puerto StockBatchRepository sobre PostgreSQL (usable con pool o tx).
type StockBatchRepo struct {
	q Querier
}

// NewStockBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockBatchRepository(q Querier) *StockBatchRepo {
	return &StockBatchRepo{q: q}
}

func (r *StockBatchRepo) Create(ctx context.Context, b *entity.StockBatch) error {
	ins := psql.Insert(stockBatchTable).Columns(stockBatchColumns...).Values(
		b.ID, b.ProductID, b.Quantity, b.PurchaseUnitCost, b.TotalPurchaseCost,
		b.ProviderID, b.PurchaseDate, b.ExpiryDate, b.CreatedAt, b.UpdatedAt,
	)
	_, err := exec(ctx, r.q, ins, "insert stock batch")
	return err
}

func (r *StockBatchRepo) GetByID(ctx context.Context, id string) (*entity.StockBatch, error) {
	sql, args, err := psql.Select(stockBatchColumns...).From(stockBatchTable).
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("get stock batch: build: %w", err)
	}
	var b entity.StockBatch
	if err := pgxscan.Get(ctx, r.q, &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock batch: %w", err)
	}
	return &b, nil
}

func (r *StockBatchRepo) Update(ctx context.Context, b *entity.StockBatch) error {
	upd := psql.Update(stockBatchTable).SetMap(map[string]any{
		"product_id":          b.ProductID,
		"quantity":            b.Quantity,
		"purchase_unit_cost":  b.PurchaseUnitCost,
		"total_purchase_cost": b.TotalPurchaseCost,
		"provider_id":         b.ProviderID,
		"purchase_date":       b.PurchaseDate,
		"expiry_date":         b.ExpiryDate,
		"updated_at":          b.UpdatedAt,
	}).Where(squirrel.Eq{"id": b.ID})
	n, err := exec(ctx, r.q, upd, "update stock batch")
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound(domain.ResourceStock, b.ID)
	}
	return nil
}

func (r *StockBatchRepo) Delete(ctx context.Context, id string) error {
	_, err := exec(ctx, r.q, psql.Delete(stockBatchTable).Where(squirrel.Eq{"id": id}), "delete stock batch")
	return err
}

func (r *StockBatchRepo) List(ctx context.Context, limit, offset int) ([]*entity.StockBatch, error) {
	q := psql.Select(stockBatchColumns...).From(stockBatchTable).
		OrderBy("created_at ASC", "id ASC").
		Limit(uint64(limit)).Offset(uint64(offset))
	return r.selectBatches(ctx, q, "list stock batches")
}

func (r *StockBatchRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockBatch, error) {
	return r.selectBatches(ctx, listByProductQuery(productID, false), "list stock by product")
}

func (r *StockBatchRepo) ListByProductForUpdate(ctx context.Context, productID string) ([]*entity.StockBatch, error) {
	return r.selectBatches(ctx, listByProductQuery(productID, true), "lock stock by product")
}

func (r *StockBatchRepo) SumByProduct(ctx context.Context) ([]repository.ProductStockTotal, error) {
	sql, args, err := sumByProductQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("sum stock: build: %w", err)
	}
	var out []repository.ProductStockTotal
	if err := pgxscan.Select(ctx, r.q, &out, sql, args...); err != nil {
		return nil, fmt.Errorf("sum stock: %w", err)
	}
	return out, nil
}

func (r *StockBatchRepo) selectBatches(ctx context.Context, q squirrel.SelectBuilder, op string) ([]*entity.StockBatch, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build: %w", op, err)
	}
	var list []*entity.StockBatch
	if err := pgxscan.Select(ctx, r.q, &list, sql, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

func listByProductQuery(productID string, forUpdate bool) squirrel.SelectBuilder {
	q := psql.Select(stockBatchColumns...).From(stockBatchTable).
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy(consumptionOrder...)
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	return q
}

func sumByProductQuery() squirrel.SelectBuilder {
	return psql.Select("product_id", "COALESCE(SUM(quantity), 0) AS quantity").
		From(stockBatchTable).
		GroupBy("product_id").
		OrderBy("product_id ASC")
}
