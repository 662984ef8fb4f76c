// Package memory implementa los puertos de persistencia en memoria. Se usa en tests y con
// STORAGE_DRIVER=memory para ejecutar el servicio sin PostgreSQL.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Inventario-kardex/internal/application/inventory"
	"github.com/jhoicas/Inventario-kardex/internal/domain/entity"
	"github.com/jhoicas/Inventario-kardex/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

type batchRecord struct {
	batch entity.StockBatch
	seq   int64
}

type kardexRecord struct {
	entry entity.KardexEntry
	seq   int64
}

// Store estado compartido por los repositorios en memoria.
type Store struct {
	mu      sync.RWMutex
	txMu    sync.Mutex
	seq     int64
	batches map[string]batchRecord
	entries map[string]kardexRecord
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		batches: make(map[string]batchRecord),
		entries: make(map[string]kardexRecord),
	}
}

// StockRepository repositorio de lotes sobre el almacén.
func (s *Store) StockRepository() *StockRepo { return &StockRepo{s: s} }

// KardexRepository repositorio de kardex sobre el almacén.
func (s *Store) KardexRepository() *KardexRepo { return &KardexRepo{s: s} }

// lockWrite toma el estado para escribir. Fuera de una transacción espera a que termine la
// que esté en curso, para que un restore no pise la escritura.
func (s *Store) lockWrite(inTx bool) func() {
	if !inTx {
		s.txMu.Lock()
	}
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		if !inTx {
			s.txMu.Unlock()
		}
	}
}

// TxRunner runner transaccional sobre el almacén.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

type snapshot struct {
	batches map[string]batchRecord
	entries map[string]kardexRecord
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{
		batches: make(map[string]batchRecord, len(s.batches)),
		entries: make(map[string]kardexRecord, len(s.entries)),
	}
	for k, v := range s.batches {
		v.batch = copyBatch(v.batch)
		snap.batches[k] = v
	}
	for k, v := range s.entries {
		snap.entries[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = snap.batches
	s.entries = snap.entries
}

// TxRunner serializa las transacciones y restaura el estado previo si fn falla.
type TxRunner struct {
	s *Store
}

// Run ejecuta fn con los repositorios del almacén; ante error deshace todos los cambios.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockBatchRepository,
	kardexRepo repository.KardexRepository,
) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	snap := r.s.snapshot()
	if err := fn(&StockRepo{s: r.s, inTx: true}, &KardexRepo{s: r.s, inTx: true}); err != nil {
		r.s.restore(snap)
		return err
	}
	if err := ctx.Err(); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

func copyBatch(b entity.StockBatch) entity.StockBatch {
	if b.ExpiryDate != nil {
		e := *b.ExpiryDate
		b.ExpiryDate = &e
	}
	return b
}
