package apiErrors

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/campaign-kpi-etl/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// Erros de validação (2000-2999)
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de dados inválido

	// Erros de roteamento e limite (4000-4999)
	ErrRouteNotFound    = "REQ_001" // Rota inexistente
	ErrMethodNotAllowed = "REQ_002" // Método não aceito pela rota
	ErrTooManyRequests  = "REQ_003" // Requisição repetida antes do intervalo mínimo

	// Erros do ETL (3000-3999)
	ErrSyncRunning  = "ETL_001" // Já existe uma execução em andamento
	ErrSyncDisabled = "ETL_002" // Agendador desabilitado
	ErrSchema       = "ETL_003" // Tabela ou view incompatível

	// Erros do servidor (5000-5999)
	ErrInternalServer    = "SRV_001" // Erro interno do servidor
	ErrDatabaseOperation = "SRV_002" // Erro de operação de banco de dados
	ErrCommunication     = "SRV_004" // Erro de comunicação
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrInvalidRequest:      http.StatusBadRequest,
	ErrMissingRequiredData: http.StatusBadRequest,
	ErrInvalidFormat:       http.StatusBadRequest,
	ErrRouteNotFound:       http.StatusNotFound,
	ErrMethodNotAllowed:    http.StatusMethodNotAllowed,
	ErrTooManyRequests:     http.StatusTooManyRequests,
	ErrSyncRunning:         http.StatusConflict,
	ErrSyncDisabled:        http.StatusServiceUnavailable,
	ErrSchema:              http.StatusInternalServerError,
	ErrInternalServer:      http.StatusInternalServerError,
	ErrDatabaseOperation:   http.StatusInternalServerError,
	ErrCommunication:       http.StatusServiceUnavailable,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`              // Código de erro para o cliente
	Message string `json:"message,omitempty"` // Mensagem descritiva (opcional)
	Details any    `json:"details,omitempty"` // Detalhes adicionais (opcional)
}

// StatusOf retorna o status HTTP de um código; códigos desconhecidos viram 500
func StatusOf(code string) int {
	status, exists := httpStatusMap[code]
	if !exists {
		return http.StatusInternalServerError
	}
	return status
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusOf(code))
	_ = json.NewEncoder(w).Encode(apiErr)
}

// FromError escolhe o código a partir do tipo do erro do pipeline
func FromError(err error) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "Erro desconhecido",
		}
	}

	code := ErrDatabaseOperation
	switch {
	case errors.Is(err, domain.ErrConnectivity):
		code = ErrCommunication
	case errors.Is(err, domain.ErrSchemaMismatch), errors.Is(err, domain.ErrInvalidIdentifier):
		code = ErrSchema
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}

// WriteFromError escreve a resposta de erro correspondente a err
func WriteFromError(w http.ResponseWriter, err error) {
	apiErr := FromError(err)
	WriteError(w, apiErr.Code, apiErr.Message, nil)
}
