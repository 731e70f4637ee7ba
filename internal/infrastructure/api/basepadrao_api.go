package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/auditax/console/internal/core/domain"
	"github.com/auditax/console/internal/core/ports"
)

// BasePadraoAPI implements ports.BasePadraoAPI over the access layer.
type BasePadraoAPI struct {
	client *Client
}

func NewBasePadraoAPI(client *Client) *BasePadraoAPI {
	return &BasePadraoAPI{client: client}
}

type basePadraoItemResponse struct {
	Success bool                   `json:"success"`
	Item    *domain.BasePadraoItem `json:"item"`
}

func (b *BasePadraoAPI) List(ctx context.Context, search string) ([]domain.BasePadraoItem, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	var resp struct {
		Success bool                    `json:"success"`
		Items   []domain.BasePadraoItem `json:"items"`
	}
	if err := b.client.Get(ctx, "/base-padrao", &resp, WithQuery(query)); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (b *BasePadraoAPI) Create(ctx context.Context, in ports.BasePadraoInput) (*domain.BasePadraoItem, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}
	var resp basePadraoItemResponse
	if err := b.client.Post(ctx, "/base-padrao", in, &resp); err != nil {
		return nil, err
	}
	return resp.Item, nil
}

func (b *BasePadraoAPI) Update(ctx context.Context, id int, in ports.BasePadraoInput) (*domain.BasePadraoItem, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}
	var resp basePadraoItemResponse
	if err := b.client.Put(ctx, fmt.Sprintf("/base-padrao/%d", id), in, &resp); err != nil {
		return nil, err
	}
	return resp.Item, nil
}

func (b *BasePadraoAPI) Delete(ctx context.Context, id int) error {
	return b.client.Del(ctx, fmt.Sprintf("/base-padrao/%d", id), nil)
}
