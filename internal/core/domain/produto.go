package domain

import "time"

// ProdutoStatus is the review state of a classified product.
type ProdutoStatus string

const (
	ProdutoPendente  ProdutoStatus = "pendente"
	ProdutoAprovado  ProdutoStatus = "aprovado"
	ProdutoReprovado ProdutoStatus = "reprovado"
)

// Produto is a product row as served by the backend, including the suggested
// NCM/CEST classification. Classification itself happens server-side; the
// console only displays and forwards it.
type Produto struct {
	ID           int           `json:"id"`
	Codigo       string        `json:"codigo_produto,omitempty"`
	Descricao    string        `json:"descricao_produto"`
	GTIN         string        `json:"codigo_barra,omitempty"`
	NCM          string        `json:"ncm_sugerido,omitempty"`
	CEST         string        `json:"cest_sugerido,omitempty"`
	Confidence   float64       `json:"confianca,omitempty"`
	Status       ProdutoStatus `json:"status"`
	ClassifiedAt *time.Time    `json:"classificado_em,omitempty"`
}

// DashboardStats is the canonical dashboard payload shape.
type DashboardStats struct {
	TotalProdutos int        `json:"total_produtos"`
	Pendentes     int        `json:"pendentes"`
	Aprovados     int        `json:"aprovados"`
	Reprovados    int        `json:"reprovados"`
	Accuracy      float64    `json:"precisao"`
	LastSync      *time.Time `json:"ultima_sincronizacao,omitempty"`
}

// BasePadraoItem is one validated entry of the golden reference table.
type BasePadraoItem struct {
	ID         int        `json:"id"`
	Descricao  string     `json:"descricao_produto"`
	GTIN       string     `json:"codigo_barra,omitempty"`
	NCM        string     `json:"ncm"`
	CEST       string     `json:"cest,omitempty"`
	Fonte      string     `json:"fonte,omitempty"`
	ReviewedBy string     `json:"revisado_por,omitempty"`
	UpdatedAt  *time.Time `json:"atualizado_em,omitempty"`
}

// ProcessoStatus reports the progress of a server-side batch run.
type ProcessoStatus struct {
	SessionID string `json:"session_id"`
	Phase     string `json:"fase"`
	Total     int    `json:"total"`
	Processed int    `json:"processados"`
	Errors    int    `json:"erros"`
	Done      bool   `json:"concluido"`
}
