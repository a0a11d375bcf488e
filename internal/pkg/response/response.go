// Package response escreve o envelope JSON {success, message, data, category} usado por toda a API.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	"hkinventory/internal/domain"
	apperror "hkinventory/internal/errors"
	"hkinventory/internal/pkg/logger"
)

// JSON escreve um envelope de sucesso.
func JSON(w http.ResponseWriter, log logger.Logger, status int, message string, data interface{}) {
	write(w, log, status, domain.Result{Success: true, Message: message, Data: data})
}

// Error traduz o erro com MapToHTTPStatus e escreve o envelope de falha.
// Erros 5xx são registrados com o erro original; os demais só em debug.
func Error(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		log.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		log.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{
			"path":   r.URL.Path,
			"method": r.Method,
		})
	}

	write(w, log, status, domain.Result{Success: false, Message: message, Category: category})
}

// Decode lê o corpo JSON em dst. Campos desconhecidos são rejeitados.
func Decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperror.NewValidationError("Payload inválido. Verifique o formato JSON.")
	}
	return nil
}

func write(w http.ResponseWriter, log logger.Logger, status int, body domain.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("Falha ao codificar JSON de resposta", err)
	}
}
