package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/handiism/jw-media-downloader/internal/batch"
	"github.com/handiism/jw-media-downloader/internal/config"
	"github.com/handiism/jw-media-downloader/internal/logging"
	"github.com/handiism/jw-media-downloader/internal/model"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var version = "dev"

type cliFlags struct {
	configPath string

	target    string
	localeKey string
	pub       string
	structure string

	includeAudioDescriptions bool
	force                    bool
	useEnglishNames          bool
	mp3Player                bool

	parallelDownloads int
	maxRetries        int
	retryDelay        int
	requestTimeout    int

	coverArt bool
	tag      bool
	playlist string

	verbose   bool
	logFormat string
}

type runFunc func(cmd *cobra.Command, settings *config.Settings) error

func newRootCmd(run runFunc) *cobra.Command {
	f := &cliFlags{}
	defaults := config.DefaultSettings()

	cmd := &cobra.Command{
		Use:   "jwmd",
		Short: "Download audio publications from jw.org",
		Long: `jwmd - JW media downloader

Downloads the MP3 files of jw.org publications for one or more languages,
skipping files that are already present.

Examples:
  jwmd -t ~/Music/jw -l E                   # Original Songs in English
  jwmd -t ~/Music/jw -l E,X -p sjjm,osg     # two publications, two languages
  jwmd -t ~/Music/jw -l E -p w:202505;202506 --mp3-player`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd, f)
			if err != nil {
				return err
			}
			return run(cmd, settings)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "", "Path to config file (default "+config.DefaultPath()+")")
	flags.StringVarP(&f.target, "target", "t", "", "Target output dir to save downloaded files (required)")
	flags.StringVarP(&f.localeKey, "localeKey", "l", "", "Comma-separated language key(s) as used on jw.org, e.g. E,X (required)")
	flags.StringVarP(&f.pub, "pub", "p", defaults.Pubs, "Comma-separated publications; use pub:YYYYMM[;YYYYMM] for magazines")
	flags.StringVar(&f.structure, "structure", defaults.Structure, "Directory structure: nested or flat")
	flags.BoolVar(&f.includeAudioDescriptions, "include-audio-descriptions", false, "Include files with audio descriptions")
	flags.BoolVar(&f.force, "force", false, "Re-download files even if they exist")
	flags.BoolVar(&f.useEnglishNames, "use-english-names", false, "Use English names for publication directories and files")
	flags.BoolVar(&f.mp3Player, "mp3-player", false, "Equivalent to --structure=flat --use-english-names")
	flags.IntVar(&f.parallelDownloads, "parallel-downloads", defaults.ParallelDownloads, "Number of parallel downloads (1 for sequential)")
	flags.IntVar(&f.maxRetries, "max-retries", defaults.MaxRetries, "Maximum number of attempts per file")
	flags.IntVar(&f.retryDelay, "retry-delay", defaults.RetryDelay, "Base delay in seconds between attempts")
	flags.IntVar(&f.requestTimeout, "request-timeout", defaults.RequestTimeout, "Timeout in seconds of a single download attempt")
	flags.BoolVar(&f.coverArt, "cover-art", false, "Save the publication artwork as cover.jpg")
	flags.BoolVar(&f.tag, "tag", false, "Write ID3 tags into downloaded files")
	flags.StringVar(&f.playlist, "playlist", "", "Write a playlist per publication: m3u, pls, wpl or zpl")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&f.logFormat, "log-format", defaults.LogFormat, "Log format: text or json")

	cmd.Version = version
	cmd.SetVersionTemplate("jwmd {{.Version}}\n")

	return cmd
}

// loadSettings reads the config file and overlays the flags set on the
// command line.
func loadSettings(cmd *cobra.Command, f *cliFlags) (*config.Settings, error) {
	path := f.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	settings, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("target", func() { settings.Target = f.target })
	set("localeKey", func() { settings.Locales = []string{f.localeKey} })
	set("pub", func() { settings.Pubs = f.pub })
	set("structure", func() { settings.Structure = f.structure })
	set("include-audio-descriptions", func() { settings.IncludeAudioDescriptions = f.includeAudioDescriptions })
	set("force", func() { settings.Force = f.force })
	set("use-english-names", func() { settings.UseEnglishNames = f.useEnglishNames })
	set("parallel-downloads", func() { settings.ParallelDownloads = f.parallelDownloads })
	set("max-retries", func() { settings.MaxRetries = f.maxRetries })
	set("retry-delay", func() { settings.RetryDelay = f.retryDelay })
	set("request-timeout", func() { settings.RequestTimeout = f.requestTimeout })
	set("cover-art", func() { settings.CoverArt = f.coverArt })
	set("tag", func() { settings.TagFiles = f.tag })
	set("playlist", func() { settings.PlaylistFormat = f.playlist })
	set("verbose", func() { settings.Verbose = f.verbose })
	set("log-format", func() { settings.LogFormat = f.logFormat })

	if f.mp3Player {
		settings.Structure = string(model.StructureFlat)
		settings.UseEnglishNames = true
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func runBatch(cmd *cobra.Command, settings *config.Settings) error {
	req, err := batch.NewRequest(settings)
	if err != nil {
		return err
	}

	logger := logging.WithRun(logging.New(settings.Verbose, settings.LogFormat, cmd.ErrOrStderr()))
	logger.Infof("JW media downloader %s starting...", version)
	logger.WithFields(logrus.Fields{
		"target":  req.Target,
		"locales": strings.Join(req.LocaleKeys, ","),
		"pubs":    settings.Pubs,
	}).Debug("Resolved settings")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	userAgent := fmt.Sprintf("jw-media-downloader/%s", version)
	runner := batch.NewHTTPRunner(req.Options.RequestTimeout, userAgent, logging.Sink(logger))

	if _, err := runner.Run(ctx, req); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Download cancelled by user.")
			return nil
		}
		return err
	}
	return nil
}
