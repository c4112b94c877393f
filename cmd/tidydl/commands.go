package tidydl

import (
	"fmt"

	"github.com/arthur-debert/tidydl/internal/version"
	"github.com/arthur-debert/tidydl/pkg/config"
	"github.com/arthur-debert/tidydl/pkg/errors"
	"github.com/arthur-debert/tidydl/pkg/filesystem"
	"github.com/arthur-debert/tidydl/pkg/logging"
	"github.com/arthur-debert/tidydl/pkg/organizer"
	"github.com/arthur-debert/tidydl/pkg/output"
	"github.com/arthur-debert/tidydl/pkg/paths"
	"github.com/arthur-debert/tidydl/pkg/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// rootOptions holds the global flag values shared by every command
type rootOptions struct {
	verbosity  int
	dryRun     bool
	configFile string
	format     string
	strict     bool
	conflict   string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "tidydl",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		Args:    cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganize(cmd, opts, "")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.SetVersionTemplate(MsgVersionTemplate + fmt.Sprintf(MsgVersionDetails, version.Commit, version.Date))

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.BoolVar(&opts.dryRun, "dry-run", false, MsgFlagDryRun)
	flags.StringVar(&opts.configFile, "config", "", MsgFlagConfig)
	flags.StringVar(&opts.format, "format", "auto", MsgFlagFormat)
	flags.BoolVar(&opts.strict, "strict", false, MsgFlagStrict)
	flags.StringVar(&opts.conflict, "conflict", "", MsgFlagConflict)

	_ = rootCmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{"auto", "term", "text", "json"}, cobra.ShellCompDirectiveNoFileComp))
	_ = rootCmd.RegisterFlagCompletionFunc("conflict", cobra.FixedCompletions(
		[]string{"skip", "suffix"}, cobra.ShellCompDirectiveNoFileComp))

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newClassifyCmd(opts))
	rootCmd.AddCommand(newRulesCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newCompletionCmd())

	initTopics(rootCmd)

	return rootCmd
}

// loadConfig loads the layered configuration with flag overrides applied
func loadConfig(opts *rootOptions, source string) (*config.Config, error) {
	overrides := map[string]interface{}{}
	if source != "" {
		overrides["source"] = source
	}
	if opts.conflict != "" {
		overrides["conflict"] = opts.conflict
	}

	cfg, err := config.Load(config.LoadOptions{File: opts.configFile, Overrides: overrides})
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Debug().Str("config_file", cfg.File).Msg("Configuration ready")
	return cfg, nil
}

// newRenderer creates a renderer on the command's stdout for --format
func newRenderer(cmd *cobra.Command, opts *rootOptions) (*output.Renderer, error) {
	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return nil, err
	}
	return output.NewRenderer(cmd.OutOrStdout(), format)
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "run [dir]",
		Short:   MsgRunShort,
		Long:    MsgRunLong,
		Example: MsgRunExample,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := ""
			if len(args) == 1 {
				source = args[0]
			}
			return runOrganize(cmd, opts, source)
		},
	}
}

// runOrganize organizes source, or the configured source when empty
func runOrganize(cmd *cobra.Command, opts *rootOptions, source string) error {
	renderer, err := newRenderer(cmd, opts)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts, source)
	if err != nil {
		return err
	}
	rs, err := cfg.RuleSet()
	if err != nil {
		return err
	}
	policy, err := cfg.ConflictPolicy()
	if err != nil {
		return err
	}
	p, err := cfg.SourceDir()
	if err != nil {
		return err
	}

	if p.UsedDefault() && renderer.Format() != output.FormatJSON {
		fmt.Fprintf(cmd.ErrOrStderr(), MsgUsingDefaultSource, p.SourceRoot())
	}

	log.Info().
		Str("source", p.SourceRoot()).
		Bool("dry_run", opts.dryRun).
		Str("conflict", string(policy)).
		Msg("Organizing source directory")

	var renderErr error
	summary, err := organizer.Organize(organizer.Options{
		Root:     p.SourceRoot(),
		Rules:    rs,
		FS:       filesystem.NewOS(),
		Conflict: policy,
		DryRun:   opts.dryRun,
		OnOutcome: func(o types.Outcome) {
			if err := renderer.Outcome(o); err != nil && renderErr == nil {
				renderErr = err
			}
		},
	})
	if err != nil {
		return err
	}
	if renderErr != nil {
		return renderErr
	}

	if summary.Total() == 0 && renderer.Format() != output.FormatJSON {
		return renderer.Message(fmt.Sprintf(MsgNothingToDo, summary.Root))
	}
	if err := renderer.Summary(summary); err != nil {
		return err
	}

	if opts.strict && summary.HasFailures() {
		return errors.Newf(errors.ErrFileMove, MsgErrFilesFailed, summary.Failed).
			WithDetail("run_id", summary.RunID)
	}
	return nil
}

func newClassifyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "classify <name>...",
		Short:   MsgClassifyShort,
		Long:    MsgClassifyLong,
		Example: MsgClassifyExample,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := newRenderer(cmd, opts)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(opts, "")
			if err != nil {
				return err
			}
			rs, err := cfg.RuleSet()
			if err != nil {
				return err
			}

			items := make([]output.Classification, 0, len(args))
			for _, name := range args {
				file := types.NewFile(name, 0)
				if pattern, ok := rs.Ignored(file.Name); ok {
					items = append(items, output.Classification{File: file.Name, Rule: "ignore:" + pattern, Ignored: true})
					continue
				}
				match := rs.Explain(file)
				items = append(items, output.Classification{File: file.Name, Label: match.Label, Rule: match.String()})
			}
			return renderer.Classifications(items)
		},
	}
}

func newRulesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rules",
		Short:   MsgRulesShort,
		Long:    MsgRulesLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := newRenderer(cmd, opts)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(opts, "")
			if err != nil {
				return err
			}
			rs, err := cfg.RuleSet()
			if err != nil {
				return err
			}
			return renderer.Rules(rs)
		},
	}
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	var (
		write    bool
		defaults bool
	)

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if defaults {
				_, err := fmt.Fprint(cmd.OutOrStdout(), config.DefaultsContent())
				return err
			}

			cfg, err := loadConfig(opts, "")
			if err != nil {
				return err
			}

			if write {
				path := paths.ConfigFileCandidates()[0]
				if err := config.Save(filesystem.NewOS(), path, cfg); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten+"\n", path)
				return err
			}

			format, err := output.ParseFormat(opts.format)
			if err != nil {
				return err
			}
			if format == output.FormatJSON {
				renderer, err := output.NewRenderer(cmd.OutOrStdout(), format)
				if err != nil {
					return err
				}
				return renderer.JSON(cfg)
			}

			data, err := cfg.EncodeTOML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, MsgFlagWrite)
	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	cmd.MarkFlagsMutuallyExclusive("write", "defaults")

	return cmd
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
