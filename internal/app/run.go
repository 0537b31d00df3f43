package app

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/specialistvlad/viewparams/internal/bridge"
	"github.com/specialistvlad/viewparams/internal/ctxlog"
)

// Run navigates to the configured start location and prints the resulting
// state. In serve mode it then keeps the HTTP API and the bridge running
// until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "location", a.config.Location)

	st, err := a.Navigate(a.config.Location)
	if err != nil {
		return fmt.Errorf("failed to navigate to %q: %w", a.config.Location, err)
	}
	a.printState(st)

	if !a.config.Serve {
		a.logger.Debug("App.Run method finished.")
		return nil
	}

	if a.config.HTTPPort > 0 {
		a.startServer(a.config.HTTPPort)
	}
	if a.config.BridgeURL != "" {
		t, err := bridge.Dial(ctx, bridge.DialOptions{
			URL:                a.config.BridgeURL,
			Namespace:          a.config.BridgeNamespace,
			InsecureSkipVerify: a.config.BridgeInsecure,
		})
		if err != nil {
			return errors.Join(fmt.Errorf("failed to start bridge: %w", err), a.closeServer())
		}
		a.attachBridge(ctx, t)
	}

	a.logger.Info("Serving; waiting for shutdown.")
	<-ctx.Done()

	return a.shutdown()
}

// attachBridge connects t to the navigator and pushes the current location.
func (a *App) attachBridge(ctx context.Context, t bridge.Transport) {
	a.mu.Lock()
	a.bridge = bridge.New(ctx, t, a.nav, &a.mu)
	a.mu.Unlock()
	a.bridge.Sync()
}

func (a *App) shutdown() error {
	var errs []error
	if a.bridge != nil {
		errs = append(errs, a.bridge.Close())
	}
	errs = append(errs, a.closeServer())
	a.logger.Debug("App.Run method finished.")
	return errors.Join(errs...)
}

func (a *App) printState(st State) {
	fmt.Fprintf(a.outW, "view: %s\n", st.View)
	fmt.Fprintf(a.outW, "location: %s\n", st.Location)

	keys := make([]string, 0, len(st.Params))
	for k := range st.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(a.outW, "      %s = %q\n", k, st.Params[k])
	}
	if st.Summary != "" {
		fmt.Fprintf(a.outW, "state: %s\n", st.Summary)
	}
}
