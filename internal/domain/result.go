package domain

// Result é o envelope devolvido por todas as rotas da API.
// Message é exibida ao usuário final sem alterações.
// @Description Envelope padrão de resposta.
type Result struct {
	Success  bool        `json:"success" example:"false"`
	Message  string      `json:"message" example:"Estoque insuficiente."`
	Category string      `json:"category,omitempty" example:"INSUFFICIENT_STOCK"`
	Data     interface{} `json:"data,omitempty"`
}

// ImportRowResult é o desfecho de uma linha de importação em lote.
type ImportRowResult struct {
	Row     int    `json:"row"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// ImportResult resume uma importação linha a linha: linhas bem-sucedidas
// permanecem gravadas mesmo que linhas posteriores falhem.
type ImportResult struct {
	SuccessCount int               `json:"success_count"`
	ErrorCount   int               `json:"error_count"`
	Rows         []ImportRowResult `json:"rows"`
}

// Add registra o desfecho de uma linha (1-based).
func (r *ImportResult) Add(row int, id string, err error, okMsg string) {
	if err != nil {
		r.ErrorCount++
		r.Rows = append(r.Rows, ImportRowResult{Row: row, Success: false, Message: err.Error()})
		return
	}
	r.SuccessCount++
	r.Rows = append(r.Rows, ImportRowResult{Row: row, Success: true, Message: okMsg, ID: id})
}
