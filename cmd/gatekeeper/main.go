// Command gatekeeper is a demo CLI for the Gatekeeper client SDK: it
// signs users up, logs them in and out, and inspects the current
// session, persisting the user token between invocations.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/onehilltech/gatekeeper-go/gatekeeper"
	"github.com/onehilltech/gatekeeper-go/internal/env"
	"github.com/onehilltech/gatekeeper-go/session"
	"github.com/onehilltech/gatekeeper-go/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gatekeeper: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		tokenFile  string
		sqliteDSN  string
		verbose    bool
	)

	root := &cobra.Command{
		Use:           "gatekeeper",
		Short:         "Client for a Gatekeeper authentication service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", env.GetEnv("GATEKEEPER_CONFIG", ""), "YAML config file (base_uri, client_id, client_secret)")
	root.PersistentFlags().StringVar(&tokenFile, "token-file", defaultTokenFile(), "file the user token is persisted in")
	root.PersistentFlags().StringVar(&sqliteDSN, "sqlite", env.GetEnv("GATEKEEPER_SQLITE", ""), "persist the user token in a SQLite database instead of a file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests to stderr")

	newSession := func(cmd *cobra.Command) (*session.Client, func(), error) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return nil, nil, err
		}

		ts, cleanup, err := openStore(tokenFile, sqliteDSN)
		if err != nil {
			return nil, nil, err
		}

		log := zerolog.Nop()
		if verbose {
			log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
				With().Timestamp().Logger()
		}

		s, err := session.New(cmd.Context(), cfg, ts, session.WithLogger(log))
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		return s, cleanup, nil
	}

	signupCmd := &cobra.Command{
		Use:   "signup <username> <email>",
		Short: "Create an account (prompts for the password via GATEKEEPER_PASSWORD)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			password := os.Getenv("GATEKEEPER_PASSWORD")
			if password == "" {
				return fmt.Errorf("set GATEKEEPER_PASSWORD")
			}

			created, err := s.Gatekeeper().CreateAccount(cmd.Context(), args[0], password, args[1])
			if err != nil {
				return err
			}
			if !created {
				return fmt.Errorf("account %q was not created", args[0])
			}
			fmt.Printf("account %q created\n", args[0])
			return nil
		},
	}

	loginCmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Sign in and persist the user token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			password := os.Getenv("GATEKEEPER_PASSWORD")
			if password == "" {
				return fmt.Errorf("set GATEKEEPER_PASSWORD")
			}

			ut, err := s.SignIn(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			fmt.Printf("signed in as %q (refreshable: %t)\n", ut.Username, ut.CanRefresh())
			return nil
		},
	}

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Revoke the user token and clear the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ok, err := s.Logout(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("the service declined the logout; the session is still active")
			}
			fmt.Println("logged out")
			return nil
		},
	}

	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the account of the current user",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			account, err := s.GetMyAccount(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(account)
		},
	}

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the profile of the current user's account",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			profile, err := s.GetAccountProfile(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(profile)
		},
	}

	refreshCmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the persisted user token",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ut, err := s.RefreshToken(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("token refreshed for %q\n", ut.Username)
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether a user is signed in",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			displayBanner()
			if !s.IsLoggedIn() {
				fmt.Println("logged out")
				return nil
			}
			fmt.Printf("logged in as %q\n", s.UserToken().Username)
			return nil
		},
	}

	root.AddCommand(signupCmd, loginCmd, logoutCmd, whoamiCmd, profileCmd, refreshCmd, statusCmd)
	return root.Execute()
}

func loadConfig(path string) (gatekeeper.Config, error) {
	if path != "" {
		return gatekeeper.LoadConfig(path)
	}
	return gatekeeper.ConfigFromEnv(), nil
}

// openStore picks the token store backend: SQLite when a DSN is given,
// otherwise the token file.
func openStore(tokenFile, sqliteDSN string) (store.TokenStore, func(), error) {
	if sqliteDSN != "" {
		s, err := store.NewSQLiteStore(sqliteDSN)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	}

	fs, err := store.NewFileStore(tokenFile)
	if err != nil {
		return nil, nil, err
	}
	return fs, func() {}, nil
}

func defaultTokenFile() string {
	if override := env.GetEnv("GATEKEEPER_TOKEN_FILE", ""); override != "" {
		return override
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gatekeeper-token.json"
	}
	return filepath.Join(home, ".gatekeeper", "token.json")
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func displayBanner() {
	myFigure := figure.NewFigure("Gatekeeper", "cybermedium", true)
	myFigure.Print()
	fmt.Println(strings.Repeat("-", 40))
}
