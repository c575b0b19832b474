package cmd

import (
	"errors"

	"github.com/Taycanstar/glancenote/internal"
)

// app bundles what a command needs to talk to the backend
type app struct {
	cfg    *internal.Config
	client *internal.Client
	bridge internal.PersistenceBridge
	store  *internal.SessionStore
	closer func() error
}

// newApp loads the configuration, applies flag overrides and restores
// the session from storage
func newApp() (*app, error) {
	cfg, err := internal.LoadConfig(dataDir)
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	internal.LogDebug("Using backend %s and data dir %s", cfg.BaseURL, cfg.DataDir)

	a := &app{cfg: cfg}
	a.client = internal.NewClient(cfg.BaseURL,
		internal.WithTimeout(cfg.RequestTimeout),
		internal.WithUserAgent("glancenote-cli/"+version),
		internal.WithTokenSource(func() string {
			if a.store == nil {
				return ""
			}
			return a.store.Token()
		}),
	)

	if ephemeral {
		a.bridge = internal.NewMemoryBridge()
	} else {
		if err := cfg.EnsureDataDir(); err != nil {
			return nil, &internal.StorageError{Path: cfg.DataDir, Op: "open", Err: err}
		}
		bridge, err := internal.OpenSQLiteBridge(cfg.StoragePath())
		if err != nil {
			return nil, err
		}
		a.bridge = bridge
		a.closer = bridge.Close
	}

	a.store = internal.NewSessionStore(a.bridge, a.client)
	return a, nil
}

// Close releases the session storage
func (a *app) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer()
}

// errLoginRequired is shown when a command needs a signed-in user
var errLoginRequired = errors.New("please log in first: run 'glancenote login'")

// userError carries the message shown to the user while keeping the
// underlying error for errors.Is/As
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }

func (e *userError) Unwrap() error { return e.err }

// asUserError replaces err's text with its user-facing message
func asUserError(err error, fallback string) error {
	if err == nil {
		return nil
	}
	return &userError{msg: internal.UserMessage(err, fallback), err: err}
}
