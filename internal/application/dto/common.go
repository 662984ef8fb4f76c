package dto

import (
	"fmt"
	"strings"
	"time"
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Error       string `json:"error"`       // texto del status HTTP
	UserMessage string `json:"userMessage"` // mensaje para el usuario
	Status      int    `json:"status"`
	Code        string `json:"code"`
}

// Date fecha calendario serializada como "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate construye una Date normalizada a medianoche UTC.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// NewDatePtr igual que NewDate; nil se conserva.
func NewDatePtr(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	d := NewDate(*t)
	return &d
}

// IsSet indica si la fecha vino informada. "" y null cuentan como ausentes.
func (d *Date) IsSet() bool {
	return d != nil && !d.IsZero()
}

// TimePtr devuelve la fecha como *time.Time (nil si no está informada).
func (d *Date) TimePtr() *time.Time {
	if !d.IsSet() {
		return nil
	}
	t := d.Time
	return &t
}

// ParseDate interpreta "YYYY-MM-DD".
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha inválida %q (formato YYYY-MM-DD)", s)
	}
	return t, nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	// Se aceptan también timestamps completos; solo interesa la fecha.
	if len(s) > len(time.DateOnly) {
		s = s[:len(time.DateOnly)]
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
