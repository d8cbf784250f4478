/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	apiTimeout     time.Duration
	apiURL         string
	bind           string
	categories     int
	clues          int
	port           int
	prefix         string
	profile        bool
	sessionTimeout time.Duration
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool
}

// validateSource checks the settings shared by the server and the board command.
func (c *Config) validateSource() error {
	if c.categories < 1 {
		return fmt.Errorf("invalid category count (must be at least 1): %d", c.categories)
	}
	if c.clues < 1 {
		return fmt.Errorf("invalid clue count (must be at least 1): %d", c.clues)
	}
	if c.apiTimeout <= 0 {
		return fmt.Errorf("invalid api timeout (must be positive): %s", c.apiTimeout)
	}

	u, err := url.Parse(c.apiURL)
	if err != nil {
		return fmt.Errorf("invalid api url %q: %w", c.apiURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("invalid api url (must be absolute): %q", c.apiURL)
	}

	return nil
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	return c.validateSource()
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("JEOPARDY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "jeopardy",
		Short:         "A trivia board game, served to your browser.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	pfs := cmd.PersistentFlags()
	pfs.DurationVar(&cfg.apiTimeout, "api-timeout", 10*time.Second, "timeout for each request to the clue api (env: JEOPARDY_API_TIMEOUT)")
	pfs.StringVar(&cfg.apiURL, "api-url", "http://jservice.io", "base url of the jservice-compatible clue api (env: JEOPARDY_API_URL)")
	pfs.IntVar(&cfg.categories, "categories", 6, "categories per game (env: JEOPARDY_CATEGORIES)")
	pfs.IntVar(&cfg.clues, "clues", 5, "clues per category (env: JEOPARDY_CLUES)")
	pfs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: JEOPARDY_VERBOSE)")

	fs := cmd.Flags()
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: JEOPARDY_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: JEOPARDY_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: JEOPARDY_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: JEOPARDY_PROFILE)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle game sessions are ended (env: JEOPARDY_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: JEOPARDY_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: JEOPARDY_TLS_KEY)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: JEOPARDY_VERSION)")

	bindEnv(v, pfs)
	bindEnv(v, fs)

	cmd.AddCommand(newBoardCmd(cfg))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("jeopardy v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
