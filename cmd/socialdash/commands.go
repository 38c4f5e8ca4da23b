package main

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/socialdash/internal/aggregator"
	"github.com/gauthierbraillon/socialdash/internal/dashboard"
	"github.com/gauthierbraillon/socialdash/internal/display"
	"github.com/gauthierbraillon/socialdash/internal/ingest"
	"github.com/gauthierbraillon/socialdash/internal/sample"
	"github.com/gauthierbraillon/socialdash/internal/social"
)

// newFetchCmd creates the fetch subcommand.
func newFetchCmd(a *app) *cobra.Command {
	var saveDir string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch recent content and summarize what was retrieved",
		Long: "Fetch recent content from every configured platform and print how many\n" +
			"records each one returned. Use --save-sample to store them as fixtures.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sources := a.cfg.Sources()
			snap, err := a.newPipeline().Run(cmd.Context(), sources)
			if err != nil {
				return fmt.Errorf("fetch failed: %w", err)
			}

			if saveDir != "" {
				if err := saveSamples(cmd, saveDir, sources, snap); err != nil {
					return err
				}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(snap.Records)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s\n", snap.RunID)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, p := range social.Platforms {
				fmt.Fprintf(w, "%s\t%d records\n", p, len(recordsOf(snap, p)))
			}
			fmt.Fprintf(w, "total\t%d records\n", len(snap.Records))
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&saveDir, "save-sample", "", "Write the fetched records as sample fixtures into this directory")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the fetched records as JSON")

	return cmd
}

// newReportCmd creates the report subcommand.
func newReportCmd(a *app) *cobra.Command {
	var bucketName, from, to, metricsFile string
	var platforms []string
	var topN, postLimit int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print KPIs, top posts, activity and platform distribution",
		Long:  "Ingest every configured platform and print the dashboard as a terminal report.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket, err := aggregator.ParseBucket(bucketName)
			if err != nil {
				return err
			}
			filter, err := dashboard.ParseFilter(platforms, from, to)
			if err != nil {
				return err
			}

			snap, err := a.newPipeline().Run(cmd.Context(), a.cfg.Sources())
			if err != nil {
				return fmt.Errorf("report failed: %w", err)
			}
			table := filter.Apply(snap.Table)

			posts := table.NewestFirst()
			if postLimit >= 0 && len(posts) > postLimit {
				posts = posts[:postLimit]
			}
			report := display.Report{
				KPIs:         aggregator.ComputeKPIs(table),
				Top:          aggregator.TopByEngagement(table, topN),
				Bucket:       bucket,
				Timeline:     aggregator.PostsOverTime(table, bucket),
				Distribution: aggregator.PlatformDistribution(table),
				Posts:        posts,
			}
			fmt.Fprint(cmd.OutOrStdout(), display.NewTerminalFormatter().FormatReport(report))

			if metricsFile != "" {
				if err := a.metrics.WriteTextfile(metricsFile); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&bucketName, "bucket", "b", "day", "Time bucket for posts over time (hour, day, week, month)")
	cmd.Flags().IntVarP(&topN, "top", "n", dashboard.DefaultTopN, "Number of posts to rank by engagement")
	cmd.Flags().IntVarP(&postLimit, "limit", "l", 20, "Maximum number of posts to list (-1 for all)")
	cmd.Flags().StringSliceVarP(&platforms, "platform", "p", nil, "Only include these platforms")
	cmd.Flags().StringVar(&from, "from", "", "Only include posts published on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Only include posts published up to the end of this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write ingestion metrics in Prometheus text format to this file")

	return cmd
}

// newServeCmd creates the serve subcommand.
func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard JSON API",
		Long:  "Ingest once, then serve KPIs, rankings and timelines over HTTP until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := dashboard.NewServer(a.newPipeline(), a.cfg.Sources(),
				dashboard.WithLogger(a.logger),
				dashboard.WithMetrics(a.metrics),
			)
			if _, err := srv.Refresh(ctx); err != nil {
				a.logger.WithError(err).Warn("Initial ingestion failed, starting with an empty snapshot")
			}
			return srv.Serve(ctx, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from SOCIALDASH_ADDR or :8080)")

	return cmd
}

// newConfigCmd creates the config subcommand.
func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long:  "Show the configuration socialdash resolved from the environment and .env files.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Sample directory:\t%s\n", a.cfg.SampleDir)
			fmt.Fprintf(w, "HTTP timeout:\t%s\n", a.cfg.HTTPTimeout)
			fmt.Fprintf(w, "YouTube API:\t%s\n", a.cfg.YouTubeAPIURL)
			fmt.Fprintf(w, "Graph API:\t%s\n", a.cfg.GraphAPIURL)
			fmt.Fprintf(w, "Listen address:\t%s\n", a.cfg.Addr)
			for _, p := range social.Platforms {
				pc := a.cfg.Platforms[p]
				source := "live"
				if pc.UseSample {
					source = "sample"
				}
				fmt.Fprintf(w, "%s:\tsource=%s identifiers=%s credential=%s limit=%d\n",
					p, source, strings.Join(pc.Identifiers, ","), mask(pc.Credential), pc.Limit)
			}
			return w.Flush()
		},
	}

	return cmd
}

// saveSamples writes a fixture for every ingested platform that returned
// records. Existing fixtures of other platforms are left untouched.
func saveSamples(cmd *cobra.Command, dir string, sources ingest.Sources, snap ingest.Snapshot) error {
	saved := 0
	for _, p := range social.Platforms {
		if _, ok := sources[p]; !ok {
			continue
		}
		records := recordsOf(snap, p)
		if len(records) == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Skipping %s sample: no records fetched\n", p)
			continue
		}
		if err := sample.Save(dir, p, records); err != nil {
			return err
		}
		saved++
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Samples saved to: %s (%d platforms)\n", dir, saved)
	return nil
}

func recordsOf(snap ingest.Snapshot, p social.Platform) []social.Record {
	out := make([]social.Record, 0)
	for _, r := range snap.Records {
		if r.Platform == p {
			out = append(out, r)
		}
	}
	return out
}

// mask hides all but the last four characters of a credential.
func mask(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
