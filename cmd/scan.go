package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/bugbounty-agent/pkg/adk"
	"github.com/user/bugbounty-agent/pkg/config"
	"github.com/user/bugbounty-agent/pkg/engine"
	"github.com/user/bugbounty-agent/pkg/history"
	"github.com/user/bugbounty-agent/pkg/storage"
	"github.com/user/bugbounty-agent/pkg/workflow"
	"github.com/user/bugbounty-agent/pkg/wrappers"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var (
	scanOutput      string
	scanToolOutputs []string
	scanTools       []string
	scanNoAI        bool
	scanTimeout     time.Duration
	scanUpload      bool
	scanRecord      bool
	scanWorkflow    bool
	scanJSON        bool
	scanFailOnBlock bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [path or git url]",
	Short: "Scan a repository and write a risk report",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := "."
		if len(args) == 1 {
			target = args[0]
		}
		fileCfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		return runScan(cmd.Context(), fileCfg.WithEnv(), target, cmd.OutOrStdout())
	},
}

func runScan(ctx context.Context, cfg *config.Config, target string, out io.Writer) error {
	logger := newLogger()
	defer logger.Sync()
	log := logger.Named("scan")

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	timeout := cfg.Scan.ScanTimeout
	if scanTimeout > 0 {
		timeout = scanTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	captured, err := parseToolOutputs(scanToolOutputs)
	if err != nil {
		return err
	}

	if scanWorkflow || cfg.Workflow.Host != "" {
		triggerWorkflow(ctx, cfg, target, log)
	}

	root, cleanup, err := acquireRepo(ctx, target)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", target, err)
	}
	defer cleanup()

	var ai adk.LLMProvider
	if !scanNoAI {
		ai = connectProvider(ctx, cfg, log)
		if closer, ok := ai.(interface{ Close() }); ok {
			defer closer.Close()
		}
	}

	templates := engine.DefaultTemplates()
	if cfg.Scan.TemplatesDir != "" {
		if err := templates.LoadDir(cfg.Scan.TemplatesDir); err != nil {
			log.Warn("could not load exploit templates", zap.String("dir", cfg.Scan.TemplatesDir), zap.Error(err))
		}
	}

	opts := wrappers.Options{Enabled: cfg.Scan.Tools, Captured: captured}
	if len(scanTools) > 0 {
		opts.Enabled = scanTools
	}
	if ai != nil && cfg.Scan.Explore {
		opts.Explorer = &wrappers.Explorer{AI: ai, Timeout: cfg.Scan.AITimeout}
	}
	tools, err := wrappers.Tools(opts)
	if err != nil {
		return err
	}

	pipeline := &engine.Pipeline{
		Tools:       tools,
		ToolTimeout: cfg.Scan.ToolTimeout,
		Concurrency: cfg.Scan.Concurrency,
		Logger:      logger,
		Synthesizer: &engine.Synthesizer{Templates: templates, Timeout: cfg.Scan.AITimeout},
	}
	if ai != nil && cfg.Scan.AIExploits {
		pipeline.Synthesizer.AI = ai
	}
	if ai != nil && cfg.Scan.Prioritize {
		pipeline.Prioritizer = &engine.Prioritizer{AI: ai, Timeout: cfg.Scan.AITimeout}
	}

	report, err := pipeline.Run(ctx, target, root)
	if errors.Is(err, engine.ErrNothingToReport) {
		return fmt.Errorf("scan produced no results: none of the analyzers could run (install semgrep, bandit, eslint, gitleaks or gosec, or pass --tool-output)")
	}
	if err != nil {
		return err
	}

	location, err := persist(ctx, cfg, report, log)
	if err != nil {
		return err
	}
	if scanRecord {
		record(ctx, cfg, report, location, log)
	}

	if scanJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printSummary(out, report, location, isTerminal(out))
	}

	if scanFailOnBlock && report.Analysis.Decision.Action == engine.ActionBlock {
		return fmt.Errorf("deployment blocked: %s", report.Analysis.Decision.Reasoning)
	}
	return nil
}

func connectProvider(ctx context.Context, cfg *config.Config, log *zap.Logger) adk.LLMProvider {
	name := cfg.SelectedProvider
	p, err := adk.NewProvider(ctx, name, cfg.GetAPIKey(name), cfg.GetHost(name), cfg.SelectedModel)
	if err != nil {
		log.Warn("AI provider not configured, continuing without AI", zap.String("provider", name), zap.Error(err))
		return nil
	}
	if !adk.Probe(ctx, p) {
		log.Warn("AI provider unreachable, continuing without AI", zap.String("provider", name))
		if closer, ok := p.(interface{ Close() }); ok {
			closer.Close()
		}
		return nil
	}
	log.Info("AI provider connected", zap.String("provider", name), zap.String("model", cfg.SelectedModel))
	return p
}

func triggerWorkflow(ctx context.Context, cfg *config.Config, target string, log *zap.Logger) {
	k := workflow.NewKestra(cfg.Workflow.Host, cfg.Workflow.Namespace, cfg.Workflow.FlowID)
	in := workflow.Inputs{TargetPath: target}
	if isRemote(target) {
		in.RepoURL = target
	}
	id, err := k.Trigger(ctx, in)
	if err != nil {
		log.Warn("workflow not triggered, running standalone", zap.Error(err))
		return
	}
	log.Info("workflow triggered", zap.String("execution", id))
}

func persist(ctx context.Context, cfg *config.Config, report *engine.Report, log *zap.Logger) (string, error) {
	path := cfg.Storage.ReportPath
	if scanOutput != "" {
		path = scanOutput
	}
	sinks := storage.Multi{&storage.FileSink{Path: path}}

	if scanUpload {
		s3cfg := cfg.Storage.S3
		s3, err := storage.NewS3Sink(s3cfg.Endpoint, s3cfg.AccessKey, s3cfg.SecretKey, s3cfg.UseSSL, s3cfg.Bucket)
		if err != nil {
			return "", fmt.Errorf("cannot upload report: %w", err)
		}
		sinks = append(sinks, s3)
	}

	location, err := sinks.Store(ctx, report)
	if err != nil {
		return "", err
	}
	log.Info("report saved", zap.String("location", location))
	return location, nil
}

func record(ctx context.Context, cfg *config.Config, report *engine.Report, location string, log *zap.Logger) {
	if cfg.History.DatabaseURL == "" {
		log.Warn("no history database configured, set DATABASE_URL")
		return
	}
	store, err := history.Open(ctx, cfg.History.DatabaseURL)
	if err != nil {
		log.Warn("history unavailable", zap.Error(err))
		return
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		log.Warn("history schema", zap.Error(err))
		return
	}
	if err := store.Record(ctx, history.EntryFromReport(report, location)); err != nil {
		log.Warn("history not recorded", zap.Error(err))
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func init() {
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "Report path (default from config: scan-report.json)")
	scanCmd.Flags().StringArrayVar(&scanToolOutputs, "tool-output", nil, "Use pre-captured tool output, as name=path (repeatable)")
	scanCmd.Flags().StringSliceVar(&scanTools, "tools", nil, "Tools to run (default: all)")
	scanCmd.Flags().BoolVar(&scanNoAI, "no-ai", false, "Disable AI exploration, prioritization and exploit generation")
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 0, "Overall scan timeout (default from config)")
	scanCmd.Flags().BoolVar(&scanUpload, "upload", false, "Upload the report to S3-compatible storage")
	scanCmd.Flags().BoolVar(&scanRecord, "record", false, "Record the scan in the history database")
	scanCmd.Flags().BoolVar(&scanWorkflow, "trigger-workflow", false, "Trigger the Kestra scan workflow")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Print the full report as JSON")
	scanCmd.Flags().BoolVar(&scanFailOnBlock, "fail-on-block", false, "Exit non-zero when the decision is BLOCK_DEPLOYMENT")
	rootCmd.AddCommand(scanCmd)
}
