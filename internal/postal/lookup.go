// Package postal resolves Brazilian postal codes (CEP) into addresses.
package postal

import (
	"context"
	"errors"
	"strings"

	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
)

var (
	ErrInvalidCode = errors.New("postal code must have 8 digits")
	ErrNotFound    = errors.New("postal code not found")
	ErrUnavailable = errors.New("postal code lookup unavailable")
)

type Lookuper interface {
	Lookup(ctx context.Context, code string) (domain.Address, error)
}

// NormalizeCode strips everything but the ASCII digits 0-9 and requires
// exactly eight of them.
func NormalizeCode(code string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, code)
	if len(digits) != 8 {
		return "", ErrInvalidCode
	}
	return digits, nil
}

// Message is the inline text shown next to the postal code field.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCode):
		return "CEP deve ter 8 dígitos"
	case errors.Is(err, ErrNotFound):
		return "CEP não encontrado"
	}
	return "Erro ao buscar CEP"
}
