package ports

import (
	"context"

	"github.com/auditax/console/internal/core/domain"
)

// ProdutoFilter narrows a product listing. Zero values mean "no filter".
type ProdutoFilter struct {
	Status   string
	Search   string
	Page     int
	PageSize int
}

// ProdutoAPI is the backend product surface. Classification is a remote
// operation; the client only requests it.
type ProdutoAPI interface {
	List(ctx context.Context, f ProdutoFilter) ([]domain.Produto, error)
	Classify(ctx context.Context, id int) (*domain.Produto, error)
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
}

// BasePadraoInput is the write payload for golden-set entries.
type BasePadraoInput struct {
	Descricao string `json:"descricao_produto" validate:"required"`
	GTIN      string `json:"codigo_barra,omitempty"`
	NCM       string `json:"ncm" validate:"required"`
	CEST      string `json:"cest,omitempty"`
	Fonte     string `json:"fonte,omitempty"`
}

// BasePadraoAPI manages the curated golden reference table.
type BasePadraoAPI interface {
	List(ctx context.Context, search string) ([]domain.BasePadraoItem, error)
	Create(ctx context.Context, in BasePadraoInput) (*domain.BasePadraoItem, error)
	Update(ctx context.Context, id int, in BasePadraoInput) (*domain.BasePadraoItem, error)
	Delete(ctx context.Context, id int) error
}

// ProcessoAPI drives server-side batch runs and reports their progress.
type ProcessoAPI interface {
	Sincronizar(ctx context.Context) (sessionID string, err error)
	ClassificarLote(ctx context.Context, produtoIDs []int) (sessionID string, err error)
	Status(ctx context.Context, sessionID string) (*domain.ProcessoStatus, error)
}
