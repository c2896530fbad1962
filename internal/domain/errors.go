package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Tipos de erro do pipeline. Todos são fatais, exceto a proteção de divisão,
// que é tratada localmente pelo cálculo de KPIs e nunca vira erro.
var (
	ErrFileNotFound      = errors.New("input file not found")
	ErrParse             = errors.New("malformed input")
	ErrSchemaValidation  = errors.New("required column missing")
	ErrConnectivity      = errors.New("sink unreachable")
	ErrSchemaMismatch    = errors.New("target relation incompatible")
	ErrConfiguration     = errors.New("invalid configuration")
	ErrInvalidIdentifier = errors.New("invalid sql identifier")
)

// ETLError é um erro com contexto adicional sobre a etapa do pipeline
type ETLError struct {
	Kind    error  // Tipo do erro (um dos Err* acima)
	Op      string // Etapa onde ocorreu (read, load, swap...)
	Details string // Detalhes adicionais
	Err     error  // Causa original
}

func (e *ETLError) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Details != "" {
		b.WriteString(": ")
		b.WriteString(e.Details)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap permite errors.Is tanto pelo tipo quanto pela causa
func (e *ETLError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func NewETLError(kind error, op string, err error, details string) *ETLError {
	return &ETLError{
		Kind:    kind,
		Op:      op,
		Details: details,
		Err:     err,
	}
}

func NewETLErrorf(kind error, op string, err error, format string, args ...any) *ETLError {
	return NewETLError(kind, op, err, fmt.Sprintf(format, args...))
}

// KindOf retorna o tipo do erro para logs e códigos de saída
func KindOf(err error) error {
	for _, kind := range []error{
		ErrFileNotFound,
		ErrParse,
		ErrSchemaValidation,
		ErrConnectivity,
		ErrSchemaMismatch,
		ErrConfiguration,
		ErrInvalidIdentifier,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
