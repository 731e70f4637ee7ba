package api

import (
	"context"
	"net/url"

	"github.com/auditax/console/internal/core/domain"
)

// ProcessoAPI implements ports.ProcessoAPI over the access layer.
type ProcessoAPI struct {
	client *Client
}

func NewProcessoAPI(client *Client) *ProcessoAPI {
	return &ProcessoAPI{client: client}
}

type processoStartResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
}

func (p *ProcessoAPI) Sincronizar(ctx context.Context) (string, error) {
	var resp processoStartResponse
	if err := p.client.Post(ctx, "/processo/sincronizar", nil, &resp); err != nil {
		return "", err
	}
	return resp.SessionID, nil
}

func (p *ProcessoAPI) ClassificarLote(ctx context.Context, produtoIDs []int) (string, error) {
	body := struct {
		ProdutoIDs []int `json:"produto_ids,omitempty"`
	}{ProdutoIDs: produtoIDs}

	var resp processoStartResponse
	if err := p.client.Post(ctx, "/processo/classificar-lote", body, &resp); err != nil {
		return "", err
	}
	return resp.SessionID, nil
}

func (p *ProcessoAPI) Status(ctx context.Context, sessionID string) (*domain.ProcessoStatus, error) {
	var resp struct {
		Success bool                   `json:"success"`
		Status  *domain.ProcessoStatus `json:"status"`
	}
	if err := p.client.Get(ctx, "/processo/status/"+url.PathEscape(sessionID), &resp); err != nil {
		return nil, err
	}
	return resp.Status, nil
}
