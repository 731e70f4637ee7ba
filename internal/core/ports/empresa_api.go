package ports

import (
	"context"
	"io"

	"github.com/auditax/console/internal/core/domain"
)

// CreateEmpresaInput carries the fields accepted when registering an empresa.
type CreateEmpresaInput struct {
	Name      string         `json:"nome" validate:"required"`
	LegalName string         `json:"razao_social,omitempty"`
	CNPJ      string         `json:"cnpj" validate:"required,len=14,numeric"`
	Email     string         `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string         `json:"telefone,omitempty"`
	Address   string         `json:"endereco,omitempty"`
	Settings  map[string]any `json:"configuracoes,omitempty"`
}

// UpdateEmpresaInput extends the create payload with the active flag.
type UpdateEmpresaInput struct {
	CreateEmpresaInput
	Active bool `json:"ativa"`
}

// AddEmpresaUserInput attaches an existing user to an empresa.
type AddEmpresaUserInput struct {
	UserID      int                `json:"user_id" validate:"required"`
	Role        string             `json:"papel" validate:"required"`
	Permissions domain.Permissions `json:"permissoes,omitempty"`
}

// EmpresaAPI is the backend tenant-management surface.
type EmpresaAPI interface {
	List(ctx context.Context) ([]domain.Empresa, error)
	Get(ctx context.Context, id int) (*domain.Empresa, error)
	Create(ctx context.Context, in CreateEmpresaInput) (*domain.Empresa, error)
	Update(ctx context.Context, id int, in UpdateEmpresaInput) (*domain.Empresa, error)
	Delete(ctx context.Context, id int) error

	// UserPermissions returns the caller's permission set scoped to one
	// empresa; refreshed after every selection.
	UserPermissions(ctx context.Context, id int) (domain.Permissions, error)

	Stats(ctx context.Context, id int) (*domain.EmpresaStats, error)
	Sync(ctx context.Context, id int) error
	Backup(ctx context.Context, id int) ([]byte, error)
	Import(ctx context.Context, id int, filename string, data io.Reader) error

	Settings(ctx context.Context, id int) (map[string]any, error)
	UpdateSettings(ctx context.Context, id int, settings map[string]any) error

	Users(ctx context.Context, id int) ([]domain.EmpresaUser, error)
	AddUser(ctx context.Context, id int, in AddEmpresaUserInput) error
	UpdateUserPermissions(ctx context.Context, id, userID int, perms domain.Permissions) error
	RemoveUser(ctx context.Context, id, userID int) error
}
