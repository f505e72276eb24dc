package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/ficap/dhwebapi/auth"
	"github.com/ficap/dhwebapi/config"
	"github.com/ficap/dhwebapi/hub"
	"github.com/ficap/dhwebapi/log"
	"github.com/iancoleman/strcase"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Environment variables prefixed with "DHWEBAPI_" can override settings e.g. "DHWEBAPI_TOKEN"
const envVarPrefix = "dhwebapi"

const (
	exitOK = iota
	exitUsage
	exitAuthentication
	exitAPI
)

type app struct {
	settings  *viper.Viper
	cfgFile   string
	logger    log.Logger
	prompter  auth.Prompter
	newLogger func(debug bool) (log.Logger, error)
	ctx       context.Context
}

func newApp() *app {
	return &app{
		settings: viper.New(),
		prompter: auth.SurveyPrompter{},
		newLogger: func(debug bool) (log.Logger, error) {
			return log.NewLogger(debug)
		},
		ctx: context.Background(),
	}
}

// Execute runs the command line tool and exits with a code matching the kind of failure
func Execute() {
	a := newApp()
	root := newRootCommand(a)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitOK)
}

func exitCode(err error) int {
	var (
		authErr *hub.AuthenticationError
		apiErr  *hub.APIError
	)
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &authErr), errors.Is(err, auth.ErrNoCredentials):
		return exitAuthentication
	case errors.As(err, &apiErr):
		return exitAPI
	default:
		return exitUsage
	}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "dhwebapi",
		Short: "Manage repository metadata through the hub.docker.com web API",
		Long: `dhwebapi talks to the undocumented API used by the hub.docker.com frontend.
It can read repository information and update full and short descriptions.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Errors past this point are not usage errors
			cmd.SilenceUsage = true
			return a.initialize()
		},
	}
	root.SilenceErrors = true

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file")
	flags.StringP("username", "u", "", "use this username for identification during communication with hub.docker.com")
	flags.StringP("password", "p", "", "use this password for identification during communication with hub.docker.com, "+
		"THIS IS NOT RECOMMENDED BECAUSE PASSWORD MAY BE SHOWN IN COMMANDS LOG")
	flags.StringP("token", "t", "", "use this token as identification during communication with hub.docker.com")
	flags.String("tokenfile", "", "use the token in this file for authentication")
	flags.String("base-url", config.DefaultBaseURL, "address of the web API")
	flags.String("api-version", config.DefaultAPIVersion, "version segment of the web API")
	flags.Duration("timeout", config.DefaultTimeout, "timeout of a single request")
	flags.Bool("debug", false, "enable debug logging, including every request sent")

	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Name != "config" {
			flag.Usage = fmt.Sprintf("%s (env %s)", flag.Usage, envVarName(flag.Name))
			_ = a.settings.BindPFlag(flag.Name, flags.Lookup(flag.Name))
		}
	})

	a.settings.SetEnvPrefix(envVarPrefix)
	a.settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.settings.AutomaticEnv()

	root.AddCommand(
		newUpdateFullDescriptionCommand(a),
		newUpdateDescriptionCommand(a),
		newGetTokenCommand(a),
		newGetRepoInfoCommand(a),
	)
	return root
}

func envVarName(flagName string) string {
	return strcase.ToScreamingSnake(envVarPrefix + "-" + flagName)
}

func (a *app) initialize() error {
	if a.cfgFile != "" {
		a.settings.SetConfigFile(a.cfgFile)
		if err := a.settings.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file %s: %w", a.cfgFile, err)
		}
	}

	logger, err := a.newLogger(a.settings.GetBool("debug"))
	if err != nil {
		return fmt.Errorf("unable to initialize logger: %w", err)
	}
	a.logger = logger

	if a.cfgFile != "" {
		logger.Debug("using config file",
			"file", a.settings.ConfigFileUsed())
	}
	return nil
}

func (a *app) clientConfig() *config.ClientConfig {
	return config.NewClientConfigWithLogger(a.logger).
		WithBaseURL(a.settings.GetString("base-url")).
		WithAPIVersion(a.settings.GetString("api-version")).
		WithTimeout(a.settings.GetDuration("timeout")).
		WithRequestLogging(a.settings.GetBool("debug"))
}

func (a *app) authOptions() auth.Options {
	return auth.Options{
		Username:  a.settings.GetString("username"),
		Password:  a.settings.GetString("password"),
		Token:     a.settings.GetString("token"),
		TokenFile: a.settings.GetString("tokenfile"),
	}
}

// loggedInClient returns a client that holds a token, logging in when no token was supplied.
func (a *app) loggedInClient() (*hub.Client, error) {
	creds, err := auth.Resolve(a.authOptions(), a.prompter)
	if err != nil {
		return nil, err
	}
	return hub.NewClient(a.ctx, a.clientConfig(), creds.Username, creds.Password, creds.Token)
}

// optionalClient authenticates only with what was given on the command line and never prompts.
func (a *app) optionalClient() (*hub.Client, error) {
	opts := a.authOptions()
	if opts.Token == "" && opts.TokenFile == "" && (opts.Username == "" || opts.Password == "") {
		return hub.NewClient(a.ctx, a.clientConfig(), "", "", "")
	}

	creds, err := auth.Resolve(opts, nil)
	if err != nil {
		return nil, err
	}
	return hub.NewClient(a.ctx, a.clientConfig(), creds.Username, creds.Password, creds.Token)
}

func readContent(cmd *cobra.Command) (string, error) {
	path, err := cmd.Flags().GetString("file")
	if err != nil {
		return "", err
	}

	var reader io.Reader = cmd.InOrStdin()
	if path != "" && path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("unable to open input file: %w", err)
		}
		defer file.Close()
		reader = file
	}

	content, err := ioutil.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("unable to read input: %w", err)
	}
	return string(content), nil
}
