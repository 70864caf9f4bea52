package service

import (
	"errors"

	"github.com/alexconectado/pdv-caixa/internal/money"
)

// Domain errors. Handlers map these to HTTP statuses with errors.Is; every one
// of them is recoverable — the client gets a form-level message, never a 5xx.
var (
	ErrInvalidCredentials   = errors.New("usuário ou senha inválidos")
	ErrDuplicateOpenSession = errors.New("já existe um caixa aberto para esta data")
	ErrNoOpenSession        = errors.New("não há caixa aberto")
	ErrInvalidPaymentMethod = errors.New("forma de pagamento inválida")
	ErrNotFound             = errors.New("registro não encontrado")
	ErrAlreadyCancelled     = errors.New("esta venda já foi cancelada")
	ErrInvalidPassword      = errors.New("senha inválida")
	ErrUsernameTaken        = errors.New("nome de usuário já existe")

	// ErrInvalidAmount is shared with the parsing layer so that callers can
	// match a single sentinel regardless of where the value was rejected.
	ErrInvalidAmount = money.ErrInvalidAmount
)
