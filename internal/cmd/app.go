package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/auditax/console/internal/core/ports"
	"github.com/auditax/console/internal/core/service"
	"github.com/auditax/console/internal/infrastructure/api"
	"github.com/auditax/console/internal/infrastructure/storage"
	"github.com/auditax/console/internal/pkg/config"
	"github.com/auditax/console/pkg/logger"
)

// App holds the wired application graph. Built once per invocation by the
// persistent pre-run hook and shared by every command.
type App struct {
	Config   *config.Config
	Log      zerolog.Logger
	Store    ports.Storage
	Client   *api.Client
	Nav      *cliNavigator
	Sessions *service.SessionStore
	Empresas *service.EmpresaContext

	Auth       ports.AuthAPI
	EmpresaAPI ports.EmpresaAPI
	Produtos   ports.ProdutoAPI
	BasePadrao ports.BasePadraoAPI
	Processo   ports.ProcessoAPI
}

var app *App

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		built, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		app = built
		return nil
	}
}

func buildApp(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.LogJSON,
	})

	store, err := buildStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Log: log, Store: store}
	a.Nav = &cliNavigator{path: "/console", out: os.Stderr}

	client, err := api.NewClient(api.Config{
		BaseURL:   cfg.APIBaseURL,
		Timeout:   cfg.Timeout,
		Storage:   store,
		Navigator: a.Nav,
		Logger:    log,
		CacheTTL:  cfg.CacheTTL,
		CacheSize: cfg.CacheSize,
		OnAuthReject: func() {
			if a.Sessions != nil {
				a.Sessions.InvalidateLocal()
			}
		},
	})
	if err != nil {
		return nil, err
	}
	a.Client = client

	a.Auth = api.NewAuthAPI(client)
	a.EmpresaAPI = api.NewEmpresaAPI(client)
	a.Produtos = api.NewProdutoAPI(client)
	a.BasePadrao = api.NewBasePadraoAPI(client)
	a.Processo = api.NewProcessoAPI(client)

	a.Sessions = service.NewSessionStore(a.Auth, store, log)
	a.Empresas = service.NewEmpresaContext(a.EmpresaAPI, a.Sessions, store, log)

	return a, nil
}

func buildStorage(ctx context.Context, cfg *config.Config) (ports.Storage, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return storage.NewMemory(), nil
	case "redis":
		client, err := storage.Connect(ctx, storage.RedisConfig{
			Addr: cfg.Storage.Redis.Addr,
			DB:   cfg.Storage.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return storage.NewRedisStore(client, cfg.Storage.Redis.Prefix), nil
	case "file":
		var sealer *storage.Sealer
		if cfg.Storage.SealingKey != "" {
			s, err := storage.NewSealer(cfg.Storage.SealingKey)
			if err != nil {
				return nil, err
			}
			sealer = s
		}
		return storage.NewFileStore(cfg.Storage.Path, sealer)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// requireSession restores the persisted session and fails the command when
// nobody is signed in.
func requireSession(ctx context.Context) error {
	app.Sessions.Restore(ctx)
	if !app.Sessions.IsAuthenticated() {
		return fmt.Errorf("not signed in - run 'auditax login'")
	}
	app.Empresas.RestoreSelection(ctx)
	return nil
}

// printJSON renders command output on stdout.
func printJSON(v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(raw))
	return nil
}

// cliNavigator is the CLI's stand-in for the browser view boundary. A forced
// navigation to the login path prints a hint instead of redirecting.
type cliNavigator struct {
	path string
	out  *os.File
}

func (n *cliNavigator) CurrentPath() string { return n.path }

func (n *cliNavigator) Navigate(path string) {
	n.path = path
	if path == ports.LoginPath {
		fmt.Fprintln(n.out, "session expired - run 'auditax login' to sign in again")
	}
}
