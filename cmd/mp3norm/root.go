package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/handiism/mp3norm/internal/config"
	"github.com/handiism/mp3norm/internal/cover"
	"github.com/handiism/mp3norm/internal/extract"
	"github.com/handiism/mp3norm/internal/lookup"
	"github.com/handiism/mp3norm/internal/model"
	"github.com/handiism/mp3norm/internal/normalize"
)

// fromSettings is the value a bare -e or -c takes. It selects the
// pattern or resolution from the settings file.
const fromSettings = "config"

type rootFlags struct {
	extract    string
	album      bool
	cover      string
	force      bool
	verbose    bool
	driver     string
	showDriver bool
	provider   string
	configPath string
	summary    bool
}

func newRootCommand() *cobra.Command {
	var flags rootFlags

	rootCmd := &cobra.Command{
		Use:   "mp3norm [flags] [input]",
		Short: "Fill in MP3 artist, title, album and cover art",
		Long: `mp3norm completes the ID3 tags of MP3 files using the tags already
present, the file name, an album search and a cover search.

input is a directory (its .mp3 files, not recursive) or a single file and
defaults to the current directory.

Optional flag values must be attached with '=', for example
--extract='(?P<title>.*)\.mp3' or -c=1000.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "."
			if len(args) > 0 {
				input = args[0]
			}
			return runNormalize(cmd, &flags, input)
		},
	}

	f := rootCmd.Flags()
	f.StringVarP(&flags.extract, "extract", "e", "",
		fmt.Sprintf("Extract tags from the file name; a bare -e uses the configured pattern (default %s)", extract.DefaultPattern))
	f.Lookup("extract").NoOptDefVal = fromSettings
	f.BoolVarP(&flags.album, "album", "a", false, "Look up the album name")
	f.StringVarP(&flags.cover, "cover", "c", "",
		fmt.Sprintf("Fetch cover art; a bare -c uses the configured resolution (default %d)", cover.DefaultResolution))
	f.Lookup("cover").NoOptDefVal = fromSettings
	f.BoolVarP(&flags.force, "force", "f", false, "Re-derive and rewrite tags even when they look complete")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "Show debug output")
	f.StringVarP(&flags.driver, "driver", "d", "", "geckodriver executable or WebDriver URL")
	f.BoolVarP(&flags.showDriver, "show-driver", "s", false, "Show the browser window")
	f.StringVar(&flags.provider, "provider", "", fmt.Sprintf("Album lookup provider (%s, %s)", lookup.ProviderWebDriver, lookup.ProviderMusicBrainz))
	f.BoolVar(&flags.summary, "summary", false, "Print a table of outcomes at the end")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", config.DefaultPath(), "Configuration file path")

	rootCmd.AddCommand(newConfigCommand(&flags))

	return rootCmd
}

func runNormalize(cmd *cobra.Command, flags *rootFlags, input string) error {
	setupLogging(cmd.ErrOrStderr(), flags.verbose)

	settings, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	opts, err := applyFlags(cmd, flags, settings)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	manager := normalize.NewManager(settings, opts, func(event normalize.ProgressEvent) {
		if event.Level == normalize.LevelVerbose && !flags.verbose {
			return
		}
		fmt.Fprintln(out, event.Message)
	})

	log.Debug().
		Str("input", input).
		Bool("extract", opts.Extract).
		Bool("album", opts.Album).
		Bool("cover", opts.Cover).
		Bool("force", opts.Force).
		Msg("Starting run")

	result, err := manager.Run(cmd.Context(), []string{input})
	if result != nil {
		printReport(out, result, flags.summary)
	}
	return err
}

// applyFlags copies the flags the user set onto settings and returns the
// run options. An explicit value always wins over the settings file, even
// when it equals the built-in default.
func applyFlags(cmd *cobra.Command, flags *rootFlags, settings *config.Settings) (normalize.Options, error) {
	f := cmd.Flags()

	opts := normalize.Options{
		Modes: config.Modes{
			Extract: f.Changed("extract"),
			Album:   flags.album,
			Cover:   f.Changed("cover"),
		},
		Force:   flags.force,
		Verbose: flags.verbose,
	}

	if opts.Extract && flags.extract != fromSettings {
		settings.ExtractPattern = flags.extract
	}
	if opts.Cover && flags.cover != fromSettings {
		resolution, err := strconv.Atoi(flags.cover)
		if err != nil {
			return opts, config.Errorf("invalid cover resolution %q", flags.cover)
		}
		settings.CoverResolution = resolution
	}

	if f.Changed("driver") {
		settings.Driver = flags.driver
	}
	if f.Changed("show-driver") {
		settings.ShowDriver = flags.showDriver
	}
	if f.Changed("provider") {
		settings.AlbumProvider = flags.provider
	}

	return opts, nil
}

func setupLogging(w io.Writer, verbose bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
}

func printReport(w io.Writer, result *model.RunResult, summary bool) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Done: %d updated, %d skipped, %d invalid filename, %d failed\n",
		result.Count(model.StatusUpdated),
		result.Count(model.StatusSkipped),
		result.Count(model.StatusInvalidFilename),
		result.Count(model.StatusLoadFailed)+result.Count(model.StatusSaveFailed))

	if summary && len(result.Outcomes) > 0 {
		fmt.Fprintln(w, renderSummary(result))
	}
}
