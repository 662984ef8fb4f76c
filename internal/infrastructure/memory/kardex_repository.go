package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Inventario-kardex/internal/domain"
	"github.com/jhoicas/Inventario-kardex/internal/domain/entity"
	"github.com/jhoicas/Inventario-kardex/internal/domain/repository"
)

var _ repository.KardexRepository = (*KardexRepo)(nil)

// KardexRepo movimientos del kardex en memoria.
type KardexRepo struct {
	s    *Store
	inTx bool
}

func (r *KardexRepo) Create(_ context.Context, entry *entity.KardexEntry) error {
	defer r.s.lockWrite(r.inTx)()
	if _, ok := r.s.entries[entry.ID]; ok {
		return fmt.Errorf("create kardex: id duplicado %s", entry.ID)
	}
	r.s.entries[entry.ID] = kardexRecord{entry: *entry, seq: r.s.nextSeq()}
	return nil
}

func (r *KardexRepo) GetByID(_ context.Context, id string) (*entity.KardexEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.entries[id]
	if !ok {
		return nil, nil
	}
	e := rec.entry
	return &e, nil
}

func (r *KardexRepo) Update(_ context.Context, entry *entity.KardexEntry) error {
	defer r.s.lockWrite(r.inTx)()
	rec, ok := r.s.entries[entry.ID]
	if !ok {
		return domain.NotFound(domain.ResourceKardex, entry.ID)
	}
	rec.entry = *entry
	r.s.entries[entry.ID] = rec
	return nil
}

func (r *KardexRepo) Delete(_ context.Context, id string) error {
	defer r.s.lockWrite(r.inTx)()
	delete(r.s.entries, id)
	return nil
}

// List más recientes primero.
func (r *KardexRepo) List(_ context.Context, limit, offset int) ([]*entity.KardexEntry, error) {
	recs := r.records(func(kardexRecord) bool { return true })
	sort.Slice(recs, func(i, j int) bool { return chronoLess(recs[j], recs[i]) })
	return page(toEntries(recs), limit, offset), nil
}

// Find en orden cronológico (fecha de movimiento, creación).
func (r *KardexRepo) Find(_ context.Context, f repository.KardexFilter) ([]*entity.KardexEntry, error) {
	recs := r.records(func(rec kardexRecord) bool { return matches(rec.entry, f) })
	sort.Slice(recs, func(i, j int) bool { return chronoLess(recs[i], recs[j]) })
	return toEntries(recs), nil
}

func (r *KardexRepo) TopSoldProducts(_ context.Context, from, to time.Time, limit int) ([]repository.ProductSales, error) {
	f := repository.KardexFilter{From: &from, To: &to, Type: entity.MovementOutcome}
	sums := make(map[string]int)
	for _, rec := range r.records(func(rec kardexRecord) bool { return matches(rec.entry, f) }) {
		sums[rec.entry.ProductID] += rec.entry.Quantity
	}
	out := make([]repository.ProductSales, 0, len(sums))
	for id, q := range sums {
		out = append(out, repository.ProductSales{ProductID: id, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].ProductID < out[j].ProductID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *KardexRepo) records(keep func(kardexRecord) bool) []kardexRecord {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []kardexRecord
	for _, rec := range r.s.entries {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func matches(e entity.KardexEntry, f repository.KardexFilter) bool {
	if f.From != nil && e.MovementDate.Before(*f.From) {
		return false
	}
	if f.To != nil && e.MovementDate.After(*f.To) {
		return false
	}
	if f.Type != "" && e.TypeMovement != f.Type {
		return false
	}
	if f.ProductID != "" && e.ProductID != f.ProductID {
		return false
	}
	return true
}

func chronoLess(a, b kardexRecord) bool {
	if !a.entry.MovementDate.Equal(b.entry.MovementDate) {
		return a.entry.MovementDate.Before(b.entry.MovementDate)
	}
	if !a.entry.CreatedAt.Equal(b.entry.CreatedAt) {
		return a.entry.CreatedAt.Before(b.entry.CreatedAt)
	}
	return a.seq < b.seq
}

func toEntries(recs []kardexRecord) []*entity.KardexEntry {
	out := make([]*entity.KardexEntry, len(recs))
	for i := range recs {
		e := recs[i].entry
		out[i] = &e
	}
	return out
}
