package inventory

import (
	"fmt"
	"time"

	"github.com/jhoicas/Inventario-kardex/internal/domain/entity"
)

// DateOf devuelve la fecha calendario de t como medianoche UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsExpired: un lote vence cuando su fecha de vencimiento es anterior a hoy.
// Sin fecha de vencimiento nunca vence; el día de vencimiento todavía es válido.
func IsExpired(b *entity.StockBatch, today time.Time) bool {
	if b.ExpiryDate == nil {
		return false
	}
	return DateOf(*b.ExpiryDate).Before(DateOf(today))
}

// PartitionByExpiry suma las cantidades vigentes y vencidas de los lotes.
func PartitionByExpiry(batches []*entity.StockBatch, today time.Time) (valid, expired int) {
	for _, b := range batches {
		if IsExpired(b, today) {
			expired += b.Quantity
		} else {
			valid += b.Quantity
		}
	}
	return valid, expired
}

// ExpiryPolicy días mínimos de vida útil exigidos a un lote al ingresar.
type ExpiryPolicy struct {
	MinDays int
}

// DefaultExpiryPolicy exige al menos 3 días de vida útil.
func DefaultExpiryPolicy() ExpiryPolicy { return ExpiryPolicy{MinDays: 3} }

// MinExpiry fecha mínima de vencimiento aceptada hoy.
func (p ExpiryPolicy) MinExpiry(today time.Time) time.Time {
	return DateOf(today).AddDate(0, 0, p.MinDays)
}

// CheckMinimum valida solo la vida útil mínima (sin fecha de compra).
func (p ExpiryPolicy) CheckMinimum(expiry *time.Time, today time.Time) error {
	if expiry == nil {
		return nil
	}
	if minDate := p.MinExpiry(today); DateOf(*expiry).Before(minDate) {
		return fmt.Errorf("la fecha de vencimiento %s debe ser igual o posterior a %s",
			expiry.Format(time.DateOnly), minDate.Format(time.DateOnly))
	}
	return nil
}

// Validate: con vencimiento presente exige compra <= vencimiento y vencimiento >= hoy + MinDays.
func (p ExpiryPolicy) Validate(purchaseDate time.Time, expiry *time.Time, today time.Time) error {
	if expiry == nil {
		return nil
	}
	if DateOf(purchaseDate).After(DateOf(*expiry)) {
		return fmt.Errorf("la fecha de compra %s no puede ser posterior al vencimiento %s",
			purchaseDate.Format(time.DateOnly), expiry.Format(time.DateOnly))
	}
	return p.CheckMinimum(expiry, today)
}
