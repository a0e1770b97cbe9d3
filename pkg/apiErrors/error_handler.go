package apiErrors

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// Erros de autenticação
	ErrInvalidToken          = "AUTH_001" // Token ausente ou inválido
	ErrExpiredToken          = "AUTH_002" // Token expirado
	ErrInsufficientPrivilege = "AUTH_003" // Papel sem acesso ao recurso
	ErrAuthDisabled          = "AUTH_004" // AUTH_SECRET não configurado

	// Erros de validação
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de dados inválido

	// Erros do pipeline
	ErrPipelineRunning  = "PIPE_001" // Execução já em andamento
	ErrNotMaterialized  = "PIPE_002" // Tabela derivada ainda não existe
	ErrResourceNotFound = "PIPE_003" // Registro não encontrado
	ErrNoModelData      = "PIPE_004" // Sem dados para o modelo de preço

	// Erros do servidor
	ErrInternalServer    = "SRV_001" // Erro interno do servidor
	ErrDatabaseOperation = "SRV_002" // Erro de operação de banco de dados
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrExpiredToken:          http.StatusUnauthorized,
	ErrInsufficientPrivilege: http.StatusForbidden,
	ErrAuthDisabled:          http.StatusUnauthorized,
	ErrInvalidRequest:        http.StatusBadRequest,
	ErrMissingRequiredData:   http.StatusBadRequest,
	ErrInvalidFormat:         http.StatusBadRequest,
	ErrPipelineRunning:       http.StatusConflict,
	ErrNotMaterialized:       http.StatusNotFound,
	ErrResourceNotFound:      http.StatusNotFound,
	ErrNoModelData:           http.StatusUnprocessableEntity,
	ErrInternalServer:        http.StatusInternalServerError,
	ErrDatabaseOperation:     http.StatusInternalServerError,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`              // Código de erro para o cliente
	Message string `json:"message,omitempty"` // Mensagem descritiva (opcional)
	Details any    `json:"details,omitempty"` // Detalhes adicionais (opcional)
}

// StatusFor devolve o status HTTP de um código; códigos desconhecidos viram 500
func StatusFor(code string) int {
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
	w.WriteHeader(StatusFor(code))
	_ = json.NewEncoder(w).Encode(apiErr)
}
