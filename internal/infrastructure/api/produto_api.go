package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/auditax/console/internal/core/domain"
	"github.com/auditax/console/internal/core/ports"
)

// ProdutoAPI implements ports.ProdutoAPI over the access layer. The listing
// and dashboard reads are idempotent and flow through the client cache.
type ProdutoAPI struct {
	client *Client
}

func NewProdutoAPI(client *Client) *ProdutoAPI {
	return &ProdutoAPI{client: client}
}

func (p *ProdutoAPI) List(ctx context.Context, f ports.ProdutoFilter) ([]domain.Produto, error) {
	query := url.Values{}
	if f.Status != "" {
		query.Set("status", f.Status)
	}
	if f.Search != "" {
		query.Set("search", f.Search)
	}
	if f.Page > 0 {
		query.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(f.PageSize))
	}

	key := "produtos?" + query.Encode()
	return Cached(ctx, p.client.Cache(), key, true, func(ctx context.Context) ([]domain.Produto, error) {
		var resp struct {
			Success  bool             `json:"success"`
			Produtos []domain.Produto `json:"produtos"`
		}
		if err := p.client.Get(ctx, "/produtos", &resp, WithQuery(query)); err != nil {
			return nil, err
		}
		return resp.Produtos, nil
	})
}

// Classify asks the backend to (re)classify one product. Never cached, and
// listing entries for products go stale afterwards, so the cache is cleared.
func (p *ProdutoAPI) Classify(ctx context.Context, id int) (*domain.Produto, error) {
	var resp struct {
		Success bool            `json:"success"`
		Produto *domain.Produto `json:"produto"`
	}
	if err := p.client.Post(ctx, fmt.Sprintf("/produtos/%d/classificar", id), nil, &resp); err != nil {
		return nil, err
	}
	p.client.Cache().Clear()
	return resp.Produto, nil
}

func (p *ProdutoAPI) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	return Cached(ctx, p.client.Cache(), "dashboard/stats", true, func(ctx context.Context) (*domain.DashboardStats, error) {
		var resp struct {
			Success bool                   `json:"success"`
			Stats   *domain.DashboardStats `json:"stats"`
		}
		if err := p.client.Get(ctx, "/dashboard/stats", &resp); err != nil {
			return nil, err
		}
		return resp.Stats, nil
	})
}
