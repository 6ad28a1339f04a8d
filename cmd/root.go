// Package cmd provides the command-line interface for the dump file publisher.
//
// This package implements a cobra-based CLI with commands for:
//   - serve: Start the webhook service
//   - export: Write and publish a dump file once
//   - run-task: Execute a single dump file creation task
//   - version: Display version and build information
//
// The CLI supports configuration via:
//   - Command-line flags
//   - Configuration files (YAML format)
//   - Environment variables, including the names used by existing deployments
//     (GRAPH_TO_DUMP, FILE_BASENAME, EXPORT_TTL_BATCH_SIZE, ...)
//
// Configuration File Locations:
//   - Specified via --config flag
//   - $HOME/.dump-publisher.yaml (default)
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"evalgo.org/dumppublisher/internal/config"
	"evalgo.org/dumppublisher/internal/logging"
)

var (
	// cfgFile holds the path to the configuration file
	cfgFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "dump-publisher",
		Short: "Delta producer dump file publisher",
		Long: `Exports a graph of the triplestore to a versioned Turtle dump file and
publishes it as a DCAT dataset.

Every dump file becomes a new dataset version with a distribution pointing at
the file. The new version is linked to the previous one with prov:wasRevisionOf
and the previous version is deprecated.

Use "dump-publisher serve" to start the webhook service.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			bindFlags(cmd.Flags())
			return nil
		},
	}
)

// Execute executes the root command and returns any error that occurs.
// This is the main entry point for the CLI application.
func Execute() error {
	return rootCmd.Execute()
}

// init initializes the command-line interface.
// It sets up configuration initialization and command flags.
func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dump-publisher.yaml)")
	flags.String(config.KeyLogLevel, "info", "log level (debug, info, warn, error)")
	flags.String(config.KeyLogFormat, "text", "log format (text or json)")
	flags.String(config.KeySPARQLEndpoint, config.DefaultSPARQL, "SPARQL endpoint for queries")
	flags.String(config.KeyUpdateEndpoint, "", "SPARQL endpoint for updates (defaults to the query endpoint)")
	flags.Bool(config.KeyDebug, false, "log every SPARQL request and response")
	flags.Bool(config.KeySudo, true, "send the mu-auth-sudo header")
	flags.String(config.KeyGraphToDump, "", "graph exported to the dump file")
	flags.String(config.KeyFileBaseName, "", "base name of the dump files")
	flags.String(config.KeyDatasetSubject, "", "dct:subject of the published dataset")
	flags.String(config.KeyShareDir, config.DefaultShareDir, "root of the shared volume")
	flags.String(config.KeyRelativePath, config.DefaultRelativePath, "directory below the share dir receiving dumps")
	flags.Int(config.KeyBatchSize, config.DefaultBatchSize, "subjects fetched per page")
	flags.String(config.KeyPublicationEndpoint, "", "SPARQL endpoint the graph is read from (defaults to the query endpoint)")

	config.SetDefaults(viper.GetViper())
}

// initConfig reads in config file and environment variables if set.
// This function is called during cobra initialization before command execution.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".dump-publisher" (without extension)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".dump-publisher")
	}

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		logrus.WithField("file", viper.ConfigFileUsed()).Info("using config file")
	}
}

// bindFlags binds every flag in fs to the viper key of the same name. It runs
// for the executing command only, so commands may share flag names.
func bindFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		_ = viper.BindPFlag(f.Name, f)
	})
}

// loadConfig builds the configuration and the logger for a command.
func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Service.LogLevel, cfg.Service.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
