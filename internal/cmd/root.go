package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TWRT/taskflow-client/internal/auth"
	"github.com/TWRT/taskflow-client/internal/client"
	"github.com/TWRT/taskflow-client/internal/client/rest"
	"github.com/TWRT/taskflow-client/internal/config"
	"github.com/TWRT/taskflow-client/internal/logging"
	"github.com/TWRT/taskflow-client/internal/screen"
)

// app is what every subcommand needs, built once the config is loaded.
type app struct {
	cfg    *config.Config
	log    *logrus.Entry
	api    client.API
	tokens client.TokenProvider
}

type cli struct {
	v   *viper.Viper
	app *app
}

// NewRootCmd builds the command tree with its own configuration state.
func NewRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   "taskflow",
		Short: "Work with taskflow tasks, projects and invites",
		Long: `taskflow talks to the task API: list and edit tasks and projects,
send and answer project invites, or run a local dev server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.config/taskflow/config.yaml)")
	flags.String("base-url", "", "task API base URL")
	flags.String("token", "", "bearer token")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	_ = c.v.BindPFlag("config", flags.Lookup("config"))
	_ = c.v.BindPFlag("api.base_url", flags.Lookup("base-url"))
	_ = c.v.BindPFlag("auth.token", flags.Lookup("token"))
	_ = c.v.BindPFlag("logging.level", flags.Lookup("log-level"))

	root.AddCommand(
		c.tasksCmd(),
		c.taskCmd(),
		c.projectsCmd(),
		c.projectCmd(),
		c.invitesCmd(),
		c.serverCmd(),
	)
	return root
}

func (c *cli) setup(stderr io.Writer) error {
	config.SetDefaults(c.v)
	config.BindEnv(c.v)

	if cfgFile := c.v.GetString("config"); cfgFile != "" {
		c.v.SetConfigFile(cfgFile)
		if err := c.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		c.v.SetConfigName("config")
		c.v.SetConfigType("yaml")
		c.v.AddConfigPath(config.Dir())
		c.v.AddConfigPath(".")
		var notFound viper.ConfigFileNotFoundError
		if err := c.v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	cfg, err := config.Load(c.v)
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: stderr,
	})
	if err != nil {
		return err
	}
	log := logrus.NewEntry(logger)

	c.app = &app{
		cfg: cfg,
		log: log,
		api: rest.NewClient(cfg.API.BaseURL,
			rest.WithTimeout(cfg.API.Timeout),
			rest.WithLogger(log),
		),
		tokens: auth.NewExpiryGuard(auth.NewStatic(cfg.Auth.Token), cfg.Auth.ExpirySkew, log),
	}
	return nil
}

// userError carries the message a screen shows for a failure. The cause
// is kept for errors.Is and the debug log.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }

func (e *userError) Unwrap() error { return e.err }

// screenError reports err with the screen's message, or lists field errors
// for a validation failure.
func screenError(w io.Writer, msg string, err error) error {
	var verr *screen.ValidationError
	if errors.As(err, &verr) {
		for _, line := range fieldLines(verr.Fields) {
			fmt.Fprintln(w, line)
		}
		return &userError{msg: "validation failed", err: err}
	}
	if msg == "" {
		msg = err.Error()
	}
	return &userError{msg: msg, err: err}
}

// Main runs the CLI and returns the process exit code.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

