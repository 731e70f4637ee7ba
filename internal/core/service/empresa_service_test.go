package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"

	"github.com/auditax/console/internal/core/domain"
	"github.com/auditax/console/internal/core/ports"
)

type stubEmpresaAPI struct {
	listFn   func(ctx context.Context) ([]domain.Empresa, error)
	createFn func(in ports.CreateEmpresaInput) (*domain.Empresa, error)
	updateFn func(id int, in ports.UpdateEmpresaInput) (*domain.Empresa, error)
	deleteFn func(id int) error

	permsFn    func(id int) (domain.Permissions, error)
	permsCalls []int
}

func (a *stubEmpresaAPI) List(ctx context.Context) ([]domain.Empresa, error) {
	if a.listFn == nil {
		return nil, nil
	}
	return a.listFn(ctx)
}

func (a *stubEmpresaAPI) Get(_ context.Context, id int) (*domain.Empresa, error) {
	return &domain.Empresa{ID: id}, nil
}

func (a *stubEmpresaAPI) Create(_ context.Context, in ports.CreateEmpresaInput) (*domain.Empresa, error) {
	if a.createFn == nil {
		return nil, errors.New("create not stubbed")
	}
	return a.createFn(in)
}

func (a *stubEmpresaAPI) Update(_ context.Context, id int, in ports.UpdateEmpresaInput) (*domain.Empresa, error) {
	if a.updateFn == nil {
		return nil, errors.New("update not stubbed")
	}
	return a.updateFn(id, in)
}

func (a *stubEmpresaAPI) Delete(_ context.Context, id int) error {
	if a.deleteFn == nil {
		return nil
	}
	return a.deleteFn(id)
}

func (a *stubEmpresaAPI) UserPermissions(_ context.Context, id int) (domain.Permissions, error) {
	a.permsCalls = append(a.permsCalls, id)
	if a.permsFn == nil {
		return domain.Permissions{}, nil
	}
	return a.permsFn(id)
}

func (a *stubEmpresaAPI) Stats(context.Context, int) (*domain.EmpresaStats, error) { return nil, nil }

func (a *stubEmpresaAPI) Sync(context.Context, int) error { return nil }

func (a *stubEmpresaAPI) Backup(context.Context, int) ([]byte, error) { return nil, nil }

func (a *stubEmpresaAPI) Import(context.Context, int, string, io.Reader) error { return nil }

func (a *stubEmpresaAPI) Settings(context.Context, int) (map[string]any, error) { return nil, nil }

func (a *stubEmpresaAPI) UpdateSettings(context.Context, int, map[string]any) error { return nil }

func (a *stubEmpresaAPI) Users(context.Context, int) ([]domain.EmpresaUser, error) { return nil, nil }

func (a *stubEmpresaAPI) AddUser(context.Context, int, ports.AddEmpresaUserInput) error { return nil }

func (a *stubEmpresaAPI) UpdateUserPermissions(context.Context, int, int, domain.Permissions) error {
	return nil
}

func (a *stubEmpresaAPI) RemoveUser(context.Context, int, int) error { return nil }

// authedFixture returns a session signed in as testUser (member of empresa 1,
// inactive member of empresa 2) plus an EmpresaContext over the given API stub.
func authedFixture(t *testing.T, api *stubEmpresaAPI) (*SessionStore, *EmpresaContext, *stubStorage) {
	t.Helper()
	store := newStubStorage()
	auth := &stubAuthAPI{loginFn: successfulLogin("T1")}
	sess := NewSessionStore(auth, store, zerolog.Nop())
	ec := NewEmpresaContext(api, sess, store, zerolog.Nop())

	result := sess.Login(context.Background(), domain.Credentials{Username: "admin", Password: "admin123"})
	if !result.Success {
		t.Fatalf("fixture login failed: %+v", result)
	}
	return sess, ec, store
}

func TestEmpresaContext_SelectDeniedWithoutMembership(t *testing.T) {
	api := &stubEmpresaAPI{}
	_, ec, store := authedFixture(t, api)

	result := ec.SelectEmpresa(context.Background(), domain.Empresa{ID: 3, Name: "Other"})
	if result.Success || result.Code != "EMPRESA_ACCESS_DENIED" {
		t.Fatalf("expected access denial, got %+v", result)
	}
	if ec.Selected() != nil {
		t.Fatalf("expected selection unchanged after denial")
	}
	if _, ok := store.values[ports.KeySelectedEmpresa]; ok {
		t.Fatalf("expected nothing persisted after denial")
	}
}

func TestEmpresaContext_SelectDeniedForInactiveMembership(t *testing.T) {
	api := &stubEmpresaAPI{}
	_, ec, _ := authedFixture(t, api)

	result := ec.SelectEmpresa(context.Background(), domain.Empresa{ID: 2, Name: "Dormant"})
	if result.Success || result.Code != "EMPRESA_ACCESS_DENIED" {
		t.Fatalf("expected inactive membership to be denied, got %+v", result)
	}
}

func TestEmpresaContext_SelectPersistsAndRefreshesPermissions(t *testing.T) {
	api := &stubEmpresaAPI{
		permsFn: func(id int) (domain.Permissions, error) {
			return domain.Permissions{"classificar": true}, nil
		},
	}
	sess, ec, store := authedFixture(t, api)

	result := ec.SelectEmpresa(context.Background(), domain.Empresa{ID: 1, Name: "Acme"})
	if !result.Success {
		t.Fatalf("expected selection to succeed, got %+v", result)
	}

	selected := ec.Selected()
	if selected == nil || selected.ID != 1 {
		t.Fatalf("expected empresa 1 selected, got %+v", selected)
	}

	var persisted domain.Empresa
	if err := json.Unmarshal([]byte(store.values[ports.KeySelectedEmpresa]), &persisted); err != nil {
		t.Fatalf("persisted selection does not parse: %v", err)
	}
	if persisted.ID != 1 || persisted.Name != "Acme" {
		t.Fatalf("unexpected persisted selection: %+v", persisted)
	}

	if len(api.permsCalls) != 1 || api.permsCalls[0] != 1 {
		t.Fatalf("expected one permission refresh for empresa 1, got %v", api.permsCalls)
	}
	if !sess.HasPermission("classificar") {
		t.Fatalf("expected refreshed tenant permissions on the session")
	}
}

func TestEmpresaContext_ReselectIsNoOp(t *testing.T) {
	api := &stubEmpresaAPI{}
	_, ec, _ := authedFixture(t, api)

	ec.SelectEmpresa(context.Background(), domain.Empresa{ID: 1, Name: "Acme"})
	result := ec.SelectEmpresa(context.Background(), domain.Empresa{ID: 1, Name: "Acme"})

	if !result.Success {
		t.Fatalf("expected reselect to succeed, got %+v", result)
	}
	if len(api.permsCalls) != 1 {
		t.Fatalf("expected no second permission refresh on reselect, got %v", api.permsCalls)
	}
}

func TestEmpresaContext_PermissionRefreshFailureDoesNotUndoSelection(t *testing.T) {
	api := &stubEmpresaAPI{
		permsFn: func(int) (domain.Permissions, error) {
			return nil, errors.New("permissions endpoint down")
		},
	}
	_, ec, _ := authedFixture(t, api)

	result := ec.SelectEmpresa(context.Background(), domain.Empresa{ID: 1, Name: "Acme"})
	if !result.Success {
		t.Fatalf("expected selection to survive a refresh failure, got %+v", result)
	}
	if selected := ec.Selected(); selected == nil || selected.ID != 1 {
		t.Fatalf("expected selection kept, got %+v", selected)
	}
}

func TestEmpresaContext_LoadRequiresAuthentication(t *testing.T) {
	store := newStubStorage()
	sess := NewSessionStore(&stubAuthAPI{}, store, zerolog.Nop())
	ec := NewEmpresaContext(&stubEmpresaAPI{}, sess, store, zerolog.Nop())

	result := ec.LoadEmpresas(context.Background())
	if result.Success || result.Code != "NOT_AUTHENTICATED" {
		t.Fatalf("expected NOT_AUTHENTICATED, got %+v", result)
	}
}

func TestEmpresaContext_LoadDiscardedAfterLogout(t *testing.T) {
	var sess *SessionStore
	api := &stubEmpresaAPI{
		listFn: func(ctx context.Context) ([]domain.Empresa, error) {
			// the session ends while the list round-trip is in flight
			sess.Logout(ctx)
			return []domain.Empresa{{ID: 1, Name: "Acme"}}, nil
		},
	}
	s, ec, _ := authedFixture(t, api)
	sess = s

	result := ec.LoadEmpresas(context.Background())
	if result.Success || result.Code != "STALE_RESULT" {
		t.Fatalf("expected stale result to be discarded, got %+v", result)
	}
	if got := ec.Empresas(); len(got) != 0 {
		t.Fatalf("expected no empresas after discarded load, got %v", got)
	}
}

func TestEmpresaContext_LoadFailureKeepsPreviousList(t *testing.T) {
	calls := 0
	api := &stubEmpresaAPI{
		listFn: func(context.Context) ([]domain.Empresa, error) {
			calls++
			if calls == 1 {
				return []domain.Empresa{{ID: 1, Name: "Acme"}}, nil
			}
			return nil, &facingErr{msg: "internal server error", code: "HTTP_500"}
		},
	}
	_, ec, _ := authedFixture(t, api)

	if result := ec.LoadEmpresas(context.Background()); !result.Success {
		t.Fatalf("expected first load to succeed, got %+v", result)
	}
	result := ec.LoadEmpresas(context.Background())
	if result.Success || result.Code != "HTTP_500" {
		t.Fatalf("expected folded backend error, got %+v", result)
	}
	if got := ec.Empresas(); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("expected previous list kept on failure, got %v", got)
	}
	if ec.LastError() != "internal server error" {
		t.Fatalf("expected last error recorded, got %q", ec.LastError())
	}
}

func TestEmpresaContext_RestoreSelection(t *testing.T) {
	api := &stubEmpresaAPI{}
	_, ec, store := authedFixture(t, api)
	store.values[ports.KeySelectedEmpresa] = `{"id":1,"nome":"Acme","cnpj":"12345678000199","ativa":true}`

	ec.RestoreSelection(context.Background())

	selected := ec.Selected()
	if selected == nil || selected.ID != 1 || selected.Name != "Acme" {
		t.Fatalf("expected restored selection, got %+v", selected)
	}
}

func TestEmpresaContext_RestoreSelectionDropsCorruptPayload(t *testing.T) {
	api := &stubEmpresaAPI{}
	_, ec, store := authedFixture(t, api)
	store.values[ports.KeySelectedEmpresa] = "{broken"

	ec.RestoreSelection(context.Background())

	if ec.Selected() != nil {
		t.Fatalf("expected no selection from corrupt payload")
	}
	if _, ok := store.values[ports.KeySelectedEmpresa]; ok {
		t.Fatalf("expected corrupt payload to be deleted from storage")
	}
}

func TestEmpresaContext_CreateAppendsToList(t *testing.T) {
	api := &stubEmpresaAPI{
		createFn: func(in ports.CreateEmpresaInput) (*domain.Empresa, error) {
			return &domain.Empresa{ID: 9, Name: in.Name, CNPJ: in.CNPJ, Active: true}, nil
		},
	}
	_, ec, _ := authedFixture(t, api)

	created, result := ec.Create(context.Background(), ports.CreateEmpresaInput{Name: "Nova", CNPJ: "12345678000199"})
	if !result.Success || created == nil || created.ID != 9 {
		t.Fatalf("expected created empresa, got %+v %+v", created, result)
	}
	if got := ec.Empresas(); len(got) != 1 || got[0].ID != 9 {
		t.Fatalf("expected new empresa in the local list, got %v", got)
	}
}

func TestEmpresaContext_UpdateRefreshesActiveSelection(t *testing.T) {
	api := &stubEmpresaAPI{
		updateFn: func(id int, in ports.UpdateEmpresaInput) (*domain.Empresa, error) {
			return &domain.Empresa{ID: id, Name: in.Name, Active: in.Active}, nil
		},
	}
	_, ec, store := authedFixture(t, api)
	ec.SelectEmpresa(context.Background(), domain.Empresa{ID: 1, Name: "Acme"})

	updated, result := ec.Update(context.Background(), 1, ports.UpdateEmpresaInput{
		CreateEmpresaInput: ports.CreateEmpresaInput{Name: "Acme Renamed", CNPJ: "12345678000199"},
		Active:             true,
	})
	if !result.Success || updated == nil {
		t.Fatalf("expected update to succeed, got %+v %+v", updated, result)
	}

	if selected := ec.Selected(); selected == nil || selected.Name != "Acme Renamed" {
		t.Fatalf("expected selection refreshed, got %+v", selected)
	}
	var persisted domain.Empresa
	if err := json.Unmarshal([]byte(store.values[ports.KeySelectedEmpresa]), &persisted); err != nil {
		t.Fatalf("persisted selection does not parse: %v", err)
	}
	if persisted.Name != "Acme Renamed" {
		t.Fatalf("expected persisted selection refreshed, got %+v", persisted)
	}
}

func TestEmpresaContext_DeleteActiveSelectionClearsIt(t *testing.T) {
	api := &stubEmpresaAPI{
		listFn: func(context.Context) ([]domain.Empresa, error) {
			return []domain.Empresa{{ID: 1, Name: "Acme"}, {ID: 5, Name: "Beta"}}, nil
		},
	}
	_, ec, store := authedFixture(t, api)
	ec.LoadEmpresas(context.Background())
	ec.SelectEmpresa(context.Background(), domain.Empresa{ID: 1, Name: "Acme"})

	result := ec.Delete(context.Background(), 1)
	if !result.Success {
		t.Fatalf("expected delete to succeed, got %+v", result)
	}
	if ec.Selected() != nil {
		t.Fatalf("expected selection cleared when its empresa is deleted")
	}
	if _, ok := store.values[ports.KeySelectedEmpresa]; ok {
		t.Fatalf("expected persisted selection cleared")
	}
	if got := ec.Empresas(); len(got) != 1 || got[0].ID != 5 {
		t.Fatalf("expected empresa pruned from the list, got %v", got)
	}
}

func TestEmpresaContext_ResetOnLogout(t *testing.T) {
	api := &stubEmpresaAPI{
		listFn: func(context.Context) ([]domain.Empresa, error) {
			return []domain.Empresa{{ID: 1, Name: "Acme"}}, nil
		},
	}
	sess, ec, _ := authedFixture(t, api)
	ec.LoadEmpresas(context.Background())
	ec.SelectEmpresa(context.Background(), domain.Empresa{ID: 1, Name: "Acme"})

	sess.Logout(context.Background())

	if ec.Selected() != nil {
		t.Fatalf("expected selection dropped on logout")
	}
	if got := ec.Empresas(); len(got) != 0 {
		t.Fatalf("expected empresa list dropped on logout, got %v", got)
	}
}
