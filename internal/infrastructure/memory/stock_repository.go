package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Inventario-kardex/internal/domain"
	"github.com/jhoicas/Inventario-kardex/internal/domain/entity"
	"github.com/jhoicas/Inventario-kardex/internal/domain/repository"
)

var _ repository.StockBatchRepository = (*StockRepo)(nil)

// StockRepo lotes en memoria. Devuelve siempre copias: modificar un lote leído no altera
// el almacén hasta llamar Update.
type StockRepo struct {
	s    *Store
	inTx bool
}

func (r *StockRepo) Create(_ context.Context, batch *entity.StockBatch) error {
	defer r.s.lockWrite(r.inTx)()
	if _, ok := r.s.batches[batch.ID]; ok {
		return fmt.Errorf("create stock batch: id duplicado %s", batch.ID)
	}
	r.s.batches[batch.ID] = batchRecord{batch: copyBatch(*batch), seq: r.s.nextSeq()}
	return nil
}

func (r *StockRepo) GetByID(_ context.Context, id string) (*entity.StockBatch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.batches[id]
	if !ok {
		return nil, nil
	}
	b := copyBatch(rec.batch)
	return &b, nil
}

func (r *StockRepo) Update(_ context.Context, batch *entity.StockBatch) error {
	defer r.s.lockWrite(r.inTx)()
	rec, ok := r.s.batches[batch.ID]
	if !ok {
		return domain.NotFound(domain.ResourceStock, batch.ID)
	}
	rec.batch = copyBatch(*batch)
	r.s.batches[batch.ID] = rec
	return nil
}

func (r *StockRepo) Delete(_ context.Context, id string) error {
	defer r.s.lockWrite(r.inTx)()
	delete(r.s.batches, id)
	return nil
}

func (r *StockRepo) List(_ context.Context, limit, offset int) ([]*entity.StockBatch, error) {
	recs := r.records(func(batchRecord) bool { return true })
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })
	return page(toBatches(recs), limit, offset), nil
}

func (r *StockRepo) ListByProduct(_ context.Context, productID string) ([]*entity.StockBatch, error) {
	recs := r.records(func(rec batchRecord) bool { return rec.batch.ProductID == productID })
	sort.Slice(recs, func(i, j int) bool { return consumptionLess(recs[i], recs[j]) })
	return toBatches(recs), nil
}

// ListByProductForUpdate no bloquea: el TxRunner en memoria ya serializa las transacciones.
func (r *StockRepo) ListByProductForUpdate(ctx context.Context, productID string) ([]*entity.StockBatch, error) {
	return r.ListByProduct(ctx, productID)
}

func (r *StockRepo) SumByProduct(_ context.Context) ([]repository.ProductStockTotal, error) {
	r.s.mu.RLock()
	totals := make(map[string]int)
	for _, rec := range r.s.batches {
		totals[rec.batch.ProductID] += rec.batch.Quantity
	}
	r.s.mu.RUnlock()

	out := make([]repository.ProductStockTotal, 0, len(totals))
	for id, q := range totals {
		out = append(out, repository.ProductStockTotal{ProductID: id, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (r *StockRepo) records(keep func(batchRecord) bool) []batchRecord {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []batchRecord
	for _, rec := range r.s.batches {
		if keep(rec) {
			rec.batch = copyBatch(rec.batch)
			out = append(out, rec)
		}
	}
	return out
}

// consumptionLess: vencimiento ascendente con los lotes sin vencimiento al final,
// luego fecha de compra y orden de inserción.
func consumptionLess(a, b batchRecord) bool {
	ea, eb := a.batch.ExpiryDate, b.batch.ExpiryDate
	switch {
	case ea != nil && eb == nil:
		return true
	case ea == nil && eb != nil:
		return false
	case ea != nil && eb != nil && !ea.Equal(*eb):
		return ea.Before(*eb)
	}
	if !a.batch.PurchaseDate.Equal(b.batch.PurchaseDate) {
		return a.batch.PurchaseDate.Before(b.batch.PurchaseDate)
	}
	return a.seq < b.seq
}

func toBatches(recs []batchRecord) []*entity.StockBatch {
	out := make([]*entity.StockBatch, len(recs))
	for i := range recs {
		b := recs[i].batch
		out[i] = &b
	}
	return out
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
