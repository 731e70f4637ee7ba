package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/auditax/console/internal/core/domain"
	"github.com/auditax/console/internal/core/ports"
)

// EmpresaAPI implements ports.EmpresaAPI over the access layer.
type EmpresaAPI struct {
	client *Client
}

func NewEmpresaAPI(client *Client) *EmpresaAPI {
	return &EmpresaAPI{client: client}
}

type empresaListResponse struct {
	Success  bool             `json:"success"`
	Empresas []domain.Empresa `json:"empresas"`
}

type empresaResponse struct {
	Success bool            `json:"success"`
	Empresa *domain.Empresa `json:"empresa"`
}

func (e *EmpresaAPI) List(ctx context.Context) ([]domain.Empresa, error) {
	var resp empresaListResponse
	if err := e.client.Get(ctx, "/empresas", &resp); err != nil {
		return nil, err
	}
	return resp.Empresas, nil
}

func (e *EmpresaAPI) Get(ctx context.Context, id int) (*domain.Empresa, error) {
	var resp empresaResponse
	if err := e.client.Get(ctx, fmt.Sprintf("/empresas/%d", id), &resp); err != nil {
		return nil, err
	}
	return resp.Empresa, nil
}

func (e *EmpresaAPI) Create(ctx context.Context, in ports.CreateEmpresaInput) (*domain.Empresa, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}
	var resp empresaResponse
	if err := e.client.Post(ctx, "/empresas", in, &resp); err != nil {
		return nil, err
	}
	return resp.Empresa, nil
}

func (e *EmpresaAPI) Update(ctx context.Context, id int, in ports.UpdateEmpresaInput) (*domain.Empresa, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}
	var resp empresaResponse
	if err := e.client.Put(ctx, fmt.Sprintf("/empresas/%d", id), in, &resp); err != nil {
		return nil, err
	}
	return resp.Empresa, nil
}

func (e *EmpresaAPI) Delete(ctx context.Context, id int) error {
	return e.client.Del(ctx, fmt.Sprintf("/empresas/%d", id), nil)
}

func (e *EmpresaAPI) UserPermissions(ctx context.Context, id int) (domain.Permissions, error) {
	var resp struct {
		Success     bool               `json:"success"`
		Permissions domain.Permissions `json:"permissions"`
	}
	if err := e.client.Get(ctx, fmt.Sprintf("/empresas/%d/permissions", id), &resp); err != nil {
		return nil, err
	}
	return resp.Permissions, nil
}

func (e *EmpresaAPI) Stats(ctx context.Context, id int) (*domain.EmpresaStats, error) {
	var resp struct {
		Success bool                 `json:"success"`
		Stats   *domain.EmpresaStats `json:"stats"`
	}
	if err := e.client.Get(ctx, fmt.Sprintf("/empresas/%d/stats", id), &resp); err != nil {
		return nil, err
	}
	return resp.Stats, nil
}

func (e *EmpresaAPI) Sync(ctx context.Context, id int) error {
	return e.client.Post(ctx, fmt.Sprintf("/empresas/%d/sync", id), nil, nil)
}

// Backup downloads the empresa's data dump as an opaque blob.
func (e *EmpresaAPI) Backup(ctx context.Context, id int) ([]byte, error) {
	var raw []byte
	if err := e.client.Post(ctx, fmt.Sprintf("/empresas/%d/backup", id), nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Import streams a data file to the backend as a multipart form upload.
func (e *EmpresaAPI) Import(ctx context.Context, id int, filename string, data io.Reader) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return unknownError(err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return unknownError(err)
	}
	if err := writer.Close(); err != nil {
		return unknownError(err)
	}

	return e.client.Post(ctx, fmt.Sprintf("/empresas/%d/import", id), &buf, nil,
		WithHeader("Content-Type", writer.FormDataContentType()))
}

func (e *EmpresaAPI) Settings(ctx context.Context, id int) (map[string]any, error) {
	var resp struct {
		Success       bool           `json:"success"`
		Configuracoes map[string]any `json:"configuracoes"`
	}
	if err := e.client.Get(ctx, fmt.Sprintf("/empresas/%d/configuracoes", id), &resp); err != nil {
		return nil, err
	}
	return resp.Configuracoes, nil
}

func (e *EmpresaAPI) UpdateSettings(ctx context.Context, id int, settings map[string]any) error {
	return e.client.Put(ctx, fmt.Sprintf("/empresas/%d/configuracoes", id), settings, nil)
}

func (e *EmpresaAPI) Users(ctx context.Context, id int) ([]domain.EmpresaUser, error) {
	var resp struct {
		Success  bool                 `json:"success"`
		Usuarios []domain.EmpresaUser `json:"usuarios"`
	}
	if err := e.client.Get(ctx, fmt.Sprintf("/empresas/%d/usuarios", id), &resp); err != nil {
		return nil, err
	}
	return resp.Usuarios, nil
}

func (e *EmpresaAPI) AddUser(ctx context.Context, id int, in ports.AddEmpresaUserInput) error {
	if err := checkInput(in); err != nil {
		return err
	}
	return e.client.Post(ctx, fmt.Sprintf("/empresas/%d/usuarios", id), in, nil)
}

func (e *EmpresaAPI) UpdateUserPermissions(ctx context.Context, id, userID int, perms domain.Permissions) error {
	body := struct {
		Permissoes domain.Permissions `json:"permissoes"`
	}{Permissoes: perms}
	return e.client.Put(ctx, fmt.Sprintf("/empresas/%d/usuarios/%d", id, userID), body, nil)
}

func (e *EmpresaAPI) RemoveUser(ctx context.Context, id, userID int) error {
	return e.client.Del(ctx, fmt.Sprintf("/empresas/%d/usuarios/%d", id, userID), nil)
}
