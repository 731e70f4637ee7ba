package domain

import "time"

// Empresa is a tenant boundary: a company with its own product base and
// per-user permission set. Wire field names follow the backend contract.
type Empresa struct {
	ID        int            `json:"id"`
	Name      string         `json:"nome"`
	LegalName string         `json:"razao_social,omitempty"`
	CNPJ      string         `json:"cnpj"`
	Email     string         `json:"email,omitempty"`
	Phone     string         `json:"telefone,omitempty"`
	Address   string         `json:"endereco,omitempty"`
	Active    bool           `json:"ativa"`
	Settings  map[string]any `json:"configuracoes,omitempty"`
}

// EmpresaStats summarises an empresa's classification workload.
type EmpresaStats struct {
	TotalProdutos int        `json:"total_produtos"`
	Classificados int        `json:"classificados"`
	Pendentes     int        `json:"pendentes"`
	Usuarios      int        `json:"usuarios"`
	LastSync      *time.Time `json:"ultima_sincronizacao,omitempty"`
}

// EmpresaUser is a user's role and permission set within one empresa.
type EmpresaUser struct {
	UserID      int         `json:"user_id"`
	Username    string      `json:"username,omitempty"`
	Role        string      `json:"papel"`
	Permissions Permissions `json:"permissoes,omitempty"`
}
