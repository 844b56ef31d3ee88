package main

import (
	"context"
	"fmt"
	"os"

	"github.com/adiwicaksana/filmtrack/internal/auth"
	"github.com/adiwicaksana/filmtrack/internal/config"
	"github.com/adiwicaksana/filmtrack/internal/controllers"
	"github.com/adiwicaksana/filmtrack/internal/models"
	"github.com/adiwicaksana/filmtrack/internal/services/localstore"
	"github.com/adiwicaksana/filmtrack/internal/services/sheets"
	"github.com/adiwicaksana/filmtrack/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the pieces every command needs.
type app struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// backend is what both the sheet client and the local store provide.
type backend interface {
	controllers.Backend
	controllers.AuthBackend
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "filmtrack",
		Short:         "Track films and series in a spreadsheet-backed watch list",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			a.cfg = cfg
			a.logger = utils.NewLogger(os.Stderr, cfg.LogLevel)
			return nil
		},
	}

	root.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newListCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newStatsCmd(a),
		newWatchCmd(a),
	)
	return root
}

// openBackend picks the sheet API or the local bolt store depending on
// configuration. The returned closer is a no-op for the HTTP client.
func (a *app) openBackend() (backend, func(), error) {
	if a.cfg.LocalMode {
		store, err := localstore.Open(a.cfg.DatabaseFile, a.logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}

	client, err := sheets.NewClient(a.cfg, a.logger)
	if err != nil {
		return nil, nil, err
	}
	return client, func() {}, nil
}

func (a *app) credStore() (auth.Store, error) {
	return auth.NewFileStore(a.cfg.CredentialsFile)
}

// openSession builds an authenticated session: saved credentials, backend,
// store and controller, with the collection already loaded. The cleanup
// function waits for background work and releases the backend.
func (a *app) openSession(ctx context.Context) (*controllers.CollectionController, func(), error) {
	credStore, err := a.credStore()
	if err != nil {
		return nil, nil, err
	}
	creds, err := credStore.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read saved credentials: %w", err)
	}
	if creds == nil {
		return nil, nil, fmt.Errorf("not logged in, run `filmtrack login` first")
	}

	be, closeBackend, err := a.openBackend()
	if err != nil {
		return nil, nil, err
	}

	ctrl := controllers.NewCollectionController(models.NewStore(), be, *creds, a.logger)
	cleanup := func() {
		ctrl.Close()
		closeBackend()
	}

	if err := ctrl.Load(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	return ctrl, cleanup, nil
}
