// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/computelabs/create-computelabs-app/internal/cmd/templates"
	"github.com/computelabs/create-computelabs-app/internal/cmdtypes"
	"github.com/computelabs/create-computelabs-app/internal/cmdutil"
	"github.com/computelabs/create-computelabs-app/internal/config"
	"github.com/computelabs/create-computelabs-app/internal/output"
)

// NewRootCmd creates the root command. The root command itself creates a
// project; validate, templates and version are subcommands.
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultEnv())
}

func newRootCmd(env *cmdEnv) *cobra.Command {
	var (
		configFlag     string
		templatesFlag  string
		verboseFlag    bool
		timestampsFlag bool
	)
	cfg := &cmdtypes.GlobalConfig{}
	flags := &cmdutil.CreateFlags{}

	rootCmd := &cobra.Command{
		Use:   "create-computelabs-app <project-name>",
		Short: "Create a new Compute Labs web application",
		Long: `Create a new Compute Labs web application from the built-in templates.

Project types:
  standard  Next.js, Redux Toolkit, next-intl and Tailwind CSS
  ai        Standard plus OpenAI, Anthropic, Gemini and Ollama integrations
  web3      Standard plus Solana wallet adapter and a token swap page
  ai-web3   AI and Web3 combined

Examples:
  # Answer the questions interactively
  create-computelabs-app my-app

  # Create an AI project without prompts
  create-computelabs-app my-app --type ai --providers openai,anthropic --yes

  # Recreate an existing directory
  create-computelabs-app my-app --type web3 --network devnet --force --yes`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			return initializeGlobals(c, cfg, globalFlags{
				config:     configFlag,
				templates:  templatesFlag,
				verbose:    verboseFlag,
				timestamps: timestampsFlag,
				author:     flags.Author,
				typ:        flags.Type,
				noGit:      flags.NoGit,
			})
		},
		RunE: func(c *cobra.Command, args []string) error {
			return runCreate(c, args, cfg, flags, env)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (env: CCA_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&templatesFlag, "templates", "", "Template repository directory (env: CCA_TEMPLATES_DIR, default: embedded)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output")
	flags.AddTo(rootCmd)

	rootCmd.AddCommand(NewValidateCmd(cfg))
	rootCmd.AddCommand(templates.NewTemplatesCmd(cfg))
	rootCmd.AddCommand(NewVersionCmd(env.detectNode))

	return rootCmd
}

type globalFlags struct {
	config     string
	templates  string
	verbose    bool
	timestamps bool
	author     string
	typ        string
	noGit      bool
}

// initializeGlobals loads configuration and sets up logging.
func initializeGlobals(cmd *cobra.Command, cfg *cmdtypes.GlobalConfig, flags globalFlags) error {
	configPath := config.ResolveConfigPath(config.ResolveConfigPathOptions{FlagValue: flags.config})

	loader := config.NewLoader()
	loaded, err := loader.LoadWithDefaults(configPath.Value)
	if err != nil {
		output.Warn("ignoring configuration file", "path", configPath.Value, "error", err)
		loaded = config.DefaultConfig()
	}

	resolved := config.ResolveAll(config.ResolveAllOptions{
		ConfigFlag:       flags.config,
		TemplatesDirFlag: flags.templates,
		AuthorFlag:       flags.author,
		TypeFlag:         flags.typ,
		NoGitFlag:        flags.noGit,
		Config:           loaded,
	})

	cfg.Config = loaded
	cfg.Resolved = resolved
	cfg.Verbose = flags.verbose

	// Resolve timestamps: flag (if explicitly set) > config > default (nil = true)
	logCfg := output.LogConfig{Verbose: flags.verbose}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(flags.timestamps)
	} else if loaded.Log.Timestamps != nil {
		logCfg.Timestamps = loaded.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	if flags.verbose {
		config.LogResolvedValues(resolved.Values())
		output.Debug("initializing CLI",
			"git", resolved.GitInit,
			"initialCommit", resolved.GitInitialCommit,
		)
	}

	return nil
}
