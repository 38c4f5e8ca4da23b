// Package main provides the socialdash CLI entry point.
package main

import (
	"os"
	"runtime/debug"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/socialdash/internal/config"
	"github.com/gauthierbraillon/socialdash/internal/facebook"
	"github.com/gauthierbraillon/socialdash/internal/graph"
	"github.com/gauthierbraillon/socialdash/internal/ingest"
	"github.com/gauthierbraillon/socialdash/internal/instagram"
	"github.com/gauthierbraillon/socialdash/internal/logging"
	"github.com/gauthierbraillon/socialdash/internal/metrics"
	"github.com/gauthierbraillon/socialdash/internal/sample"
	"github.com/gauthierbraillon/socialdash/internal/social"
	"github.com/gauthierbraillon/socialdash/internal/youtube"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveVersion prefers the ldflags version and falls back to the module
// version recorded by go install.
func resolveVersion(v string, info *debug.BuildInfo) string {
	if v != "dev" {
		return v
	}
	if info == nil || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}

// app carries the state shared by every subcommand.
type app struct {
	cfg     config.Config
	logger  *logrus.Logger
	metrics *metrics.Collector

	samplePlatforms []string
}

// newRootCmd creates the root command for the socialdash CLI.
func newRootCmd() *cobra.Command {
	a := &app{}
	info, _ := debug.ReadBuildInfo()

	rootCmd := &cobra.Command{
		Use:   "socialdash",
		Short: "Aggregate public YouTube, Facebook and Instagram content",
		Long: "Socialdash fetches recent public content from YouTube channels, Facebook pages\n" +
			"and Instagram business accounts, normalizes it into one table and reports\n" +
			"engagement KPIs, top posts, posting activity and platform distribution.",
		Version:      resolveVersion(version, info),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	rootCmd.SetVersionTemplate("socialdash version {{.Version}}\n")
	rootCmd.PersistentFlags().StringSliceVar(&a.samplePlatforms, "sample", nil,
		"Read these platforms from sample fixtures instead of the live APIs (youtube, facebook, instagram or all)")

	rootCmd.AddCommand(newFetchCmd(a))
	rootCmd.AddCommand(newReportCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}

// setup loads configuration and builds the logger. Logs go to stderr so
// command output on stdout stays machine readable.
func (a *app) setup(cmd *cobra.Command) error {
	config.LoadEnv(logging.Discard())

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	forced, err := config.ParsePlatforms(a.samplePlatforms)
	if err != nil {
		return err
	}
	cfg.UseSampleFor(forced...)

	a.cfg = cfg
	a.logger = logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	a.metrics = metrics.New()
	return nil
}

// newPipeline wires the live adapters and the sample loader.
func (a *app) newPipeline() *ingest.Pipeline {
	graphOpts := []graph.Option{
		graph.WithBaseURL(a.cfg.GraphAPIURL),
		graph.WithTimeout(a.cfg.HTTPTimeout),
		graph.WithLogger(a.logger),
		graph.WithMetrics(a.metrics),
	}

	return ingest.NewPipeline(
		ingest.WithAdapter(social.PlatformYouTube, youtube.NewClient(
			youtube.WithBaseURL(a.cfg.YouTubeAPIURL),
			youtube.WithTimeout(a.cfg.HTTPTimeout),
			youtube.WithLogger(a.logger),
			youtube.WithMetrics(a.metrics),
		)),
		ingest.WithAdapter(social.PlatformFacebook, facebook.NewAdapter(graphOpts...)),
		ingest.WithAdapter(social.PlatformInstagram, instagram.NewAdapter(graphOpts...)),
		ingest.WithSampleLoader(sample.NewLoader(a.cfg.SampleDir)),
		ingest.WithLogger(a.logger),
		ingest.WithMetrics(a.metrics),
	)
}
