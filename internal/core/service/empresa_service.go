package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/auditax/console/internal/core/domain"
	"github.com/auditax/console/internal/core/ports"
)

// EmpresaContext tracks which empresa the authenticated user is operating
// against. It owns the empresa list, the active selection and the
// selected_empresa persisted key; identity is read from the session store.
type EmpresaContext struct {
	api     ports.EmpresaAPI
	session *SessionStore
	store   ports.Storage
	log     zerolog.Logger

	mu       sync.Mutex
	empresas []domain.Empresa
	selected *domain.Empresa
	loading  bool
	lastErr  string
}

// NewEmpresaContext wires the context to the session store: any transition
// to unauthenticated drops the list and selection so no state from a
// previous identity survives.
func NewEmpresaContext(api ports.EmpresaAPI, session *SessionStore, store ports.Storage, log zerolog.Logger) *EmpresaContext {
	ec := &EmpresaContext{api: api, session: session, store: store, log: log}
	session.OnTransition(func(state domain.SessionState) {
		if state == domain.SessionUnauthenticated {
			ec.reset()
		}
	})
	return ec
}

// LoadEmpresas fetches the empresas visible to the current user. A result
// arriving after the session changed (logout, re-login) is discarded: the
// epoch captured before the flight no longer matches.
func (ec *EmpresaContext) LoadEmpresas(ctx context.Context) domain.OpResult {
	if !ec.session.IsAuthenticated() {
		return domain.Fail("not authenticated", "NOT_AUTHENTICATED")
	}
	epoch := ec.session.Epoch()

	ec.mu.Lock()
	ec.loading = true
	ec.mu.Unlock()

	list, err := ec.api.List(ctx)

	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.loading = false

	if !ec.session.IsAuthenticated() || ec.session.Epoch() != epoch {
		ec.log.Debug().Msg("empresa list arrived after session change, discarding")
		return domain.Fail("session changed while loading empresas", "STALE_RESULT")
	}
	if err != nil {
		result := resultFromErr(err, "failed to load empresas")
		ec.lastErr = result.Message
		return result
	}

	ec.empresas = list
	ec.lastErr = ""
	return domain.Ok("empresas loaded")
}

// SelectEmpresa activates a tenant. Access is checked against the user's
// membership list held by the session store, not the server. Reselecting the
// current empresa is a silent no-op. On acceptance the selection is
// persisted and the tenant-scoped permissions are refreshed; a refresh
// failure is logged but does not undo the selection.
func (ec *EmpresaContext) SelectEmpresa(ctx context.Context, empresa domain.Empresa) domain.OpResult {
	user := ec.session.CurrentUser()
	if !user.CanAccessEmpresa(empresa.ID) {
		return domain.Fail("you do not have access to this empresa", "EMPRESA_ACCESS_DENIED")
	}

	ec.mu.Lock()
	if ec.selected != nil && ec.selected.ID == empresa.ID {
		ec.mu.Unlock()
		return domain.Ok("empresa already selected")
	}
	ec.mu.Unlock()

	if result := ec.persistSelection(ctx, empresa); !result.Success {
		return result
	}

	ec.mu.Lock()
	selected := empresa
	ec.selected = &selected
	ec.mu.Unlock()

	ec.refreshPermissions(ctx, empresa.ID)
	ec.log.Info().Int("empresa_id", empresa.ID).Str("nome", empresa.Name).Msg("empresa selected")
	return domain.Ok(fmt.Sprintf("empresa %s selected", empresa.Name))
}

// RestoreSelection rehydrates the persisted selection at startup without
// re-validating access; a later request will fail naturally if access was
// revoked. Corrupt payloads are deleted.
func (ec *EmpresaContext) RestoreSelection(ctx context.Context) {
	raw, err := ec.store.Get(ctx, ports.KeySelectedEmpresa)
	if err != nil {
		return
	}
	var empresa domain.Empresa
	if err := json.Unmarshal([]byte(raw), &empresa); err != nil {
		ec.log.Warn().Err(err).Msg("persisted empresa selection is corrupt, discarding")
		_ = ec.store.Delete(ctx, ports.KeySelectedEmpresa)
		return
	}

	ec.mu.Lock()
	ec.selected = &empresa
	ec.mu.Unlock()
}

// Create registers a new empresa and appends it to the local list on
// success.
func (ec *EmpresaContext) Create(ctx context.Context, in ports.CreateEmpresaInput) (*domain.Empresa, domain.OpResult) {
	created, err := ec.api.Create(ctx, in)
	if err != nil {
		return nil, resultFromErr(err, "failed to create empresa")
	}
	if created != nil {
		ec.mu.Lock()
		ec.empresas = append(ec.empresas, *created)
		ec.mu.Unlock()
	}
	return created, domain.Ok("empresa created")
}

// Update rewrites an empresa and mirrors the change into the local list and,
// when it is the active one, the selection.
func (ec *EmpresaContext) Update(ctx context.Context, id int, in ports.UpdateEmpresaInput) (*domain.Empresa, domain.OpResult) {
	updated, err := ec.api.Update(ctx, id, in)
	if err != nil {
		return nil, resultFromErr(err, "failed to update empresa")
	}
	if updated == nil {
		return nil, domain.Fail("update response missing empresa", "INVALID_RESPONSE")
	}

	ec.mu.Lock()
	for i := range ec.empresas {
		if ec.empresas[i].ID == updated.ID {
			ec.empresas[i] = *updated
			break
		}
	}
	refreshSelection := ec.selected != nil && ec.selected.ID == updated.ID
	if refreshSelection {
		selected := *updated
		ec.selected = &selected
	}
	ec.mu.Unlock()

	if refreshSelection {
		if result := ec.persistSelection(ctx, *updated); !result.Success {
			ec.log.Warn().Str("message", result.Message).Msg("failed to persist refreshed selection")
		}
	}
	return updated, domain.Ok("empresa updated")
}

// Delete removes an empresa; when it was the active one the selection is
// cleared as well.
func (ec *EmpresaContext) Delete(ctx context.Context, id int) domain.OpResult {
	if err := ec.api.Delete(ctx, id); err != nil {
		return resultFromErr(err, "failed to delete empresa")
	}

	ec.mu.Lock()
	kept := ec.empresas[:0]
	for _, e := range ec.empresas {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	ec.empresas = kept
	clearSelection := ec.selected != nil && ec.selected.ID == id
	ec.mu.Unlock()

	if clearSelection {
		ec.ClearSelection(ctx)
	}
	return domain.Ok("empresa deleted")
}

// ClearSelection drops the active selection from memory and storage.
func (ec *EmpresaContext) ClearSelection(ctx context.Context) {
	if err := ec.store.Delete(ctx, ports.KeySelectedEmpresa); err != nil {
		ec.log.Warn().Err(err).Msg("failed to clear persisted empresa selection")
	}
	ec.mu.Lock()
	ec.selected = nil
	ec.mu.Unlock()
}

// Empresas returns a copy of the loaded list.
func (ec *EmpresaContext) Empresas() []domain.Empresa {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return append([]domain.Empresa{}, ec.empresas...)
}

// Selected returns a copy of the active empresa, or nil.
func (ec *EmpresaContext) Selected() *domain.Empresa {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	if ec.selected == nil {
		return nil
	}
	copy := *ec.selected
	return &copy
}

func (ec *EmpresaContext) IsLoading() bool {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.loading
}

// LastError returns the message of the most recent load failure, or "".
func (ec *EmpresaContext) LastError() string {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.lastErr
}

func (ec *EmpresaContext) persistSelection(ctx context.Context, empresa domain.Empresa) domain.OpResult {
	raw, err := json.Marshal(empresa)
	if err != nil {
		return domain.Fail("failed to encode empresa selection", "UNKNOWN_ERROR")
	}
	if err := ec.store.Set(ctx, ports.KeySelectedEmpresa, string(raw)); err != nil {
		return resultFromErr(err, "failed to persist empresa selection")
	}
	return domain.Ok("")
}

func (ec *EmpresaContext) refreshPermissions(ctx context.Context, id int) {
	perms, err := ec.api.UserPermissions(ctx, id)
	if err != nil {
		ec.log.Warn().Err(err).Int("empresa_id", id).Msg("failed to refresh empresa permissions")
		return
	}
	ec.session.UpdatePermissions(ctx, perms)
}

// reset drops all tenant state; invoked when the session ends.
func (ec *EmpresaContext) reset() {
	ec.mu.Lock()
	ec.empresas = nil
	ec.selected = nil
	ec.loading = false
	ec.lastErr = ""
	ec.mu.Unlock()
}
