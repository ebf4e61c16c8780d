// Command megamart-cli is a terminal storefront for the MegaMart API. It
// keeps the session and cart in a local state file between invocations.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ViacheslavGIT/MegaMart/internal/client"
	"github.com/ViacheslavGIT/MegaMart/internal/storefront"
)

var errSignedOut = errors.New("not signed in, run login first")

type app struct {
	api   *client.Client
	state *storefront.State
	out   io.Writer
}

func (a *app) requireSession() error {
	if a.state.Session() == nil {
		return errSignedOut
	}
	return nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "megamart", "state.json")
}

func newRootCmd(v *viper.Viper, out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "megamart-cli",
		Short:         "Browse the MegaMart catalog, manage a cart and place orders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			state, err := storefront.Load(v.GetString("state"))
			if err != nil {
				return err
			}
			a.state = state
			a.api = client.New(v.GetString("api"))
			if s := state.Session(); s != nil {
				a.api.SetToken(s.Token)
			}
			return nil
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.String("api", "http://localhost:5000", "API base URL")
	flags.String("state", defaultStatePath(), "path of the local state file")
	_ = v.BindPFlag("api", flags.Lookup("api"))
	_ = v.BindPFlag("state", flags.Lookup("state"))
	v.SetEnvPrefix("megamart")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.AddCommand(
		registerCmd(a),
		loginCmd(a),
		logoutCmd(a),
		productsCmd(a),
		randomCmd(a),
		cartCmd(a),
		checkoutCmd(a),
		favoritesCmd(a),
		ordersCmd(a),
		chatCmd(a),
	)
	return root
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	root := newRootCmd(viper.New(), os.Stdout)
	if err := root.ExecuteContext(context.Background()); err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			fmt.Fprintln(os.Stderr, "error:", apiErr.Message)
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
