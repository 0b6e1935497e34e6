package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/hitcall/hitcall/packages/postman/config"
	"github.com/hitcall/hitcall/packages/postman/coverage"
	"github.com/hitcall/hitcall/packages/postman/dispatch"
	"github.com/hitcall/hitcall/packages/postman/exec"
	"github.com/hitcall/hitcall/packages/postman/hook"
	"github.com/hitcall/hitcall/packages/postman/loader"
	"github.com/hitcall/hitcall/packages/postman/metrics"
	"github.com/hitcall/hitcall/packages/postman/notify"
	"github.com/hitcall/hitcall/packages/postman/output"
	"github.com/hitcall/hitcall/packages/postman/resolve"
)

var (
	environmentFileFlag string
	globalFileFlag      string
	schemaFileFlag      string
	baseDirFlag         string
	timeoutFlag         string
	rateFlag            float64
	concurrencyFlag     int
	parallelFlag        bool
	bailFlag            bool
	insecureFlag        bool
	noColorFlag         bool
	verboseFlag         bool
	outputFlag          string
	outputFileFlag      string
	notifySlackFlag     string
	metricsFileFlag     string
	openAPISpecFlag     string
	coverageFileFlag    string
	watchFlag           bool
	strictHooksFlag     bool
)

// watchDebounceDelay coalesces a burst of filesystem events (e.g. an
// editor's save-via-rename) into one re-run.
const watchDebounceDelay = 300 * time.Millisecond

var runCmd = &cobra.Command{
	Use:   "run <collection.json>",
	Short: "Run a Postman-style collection",
	Long: `Run loads a collection file, resolves its hierarchical auth and
variables, and executes every request it contains.

Examples:
  hitcall run api.postman_collection.json
  hitcall run api.json --environment staging.json --parallel
  hitcall run api.json --bail --output junit --output-file report.xml`,
	Args: cobra.ExactArgs(1),
	RunE: runCommand,
}

func init() {
	runCmd.Flags().StringVar(&environmentFileFlag, "environment", "", "path to a JSON file of environment variables")
	runCmd.Flags().StringVar(&globalFileFlag, "global", "", "path to a JSON file of global variables")
	runCmd.Flags().StringVar(&schemaFileFlag, "schema", "", "path to a JSON schema to validate the collection against")
	runCmd.Flags().StringVar(&baseDirFlag, "base-dir", "", "base directory for relative file references in request bodies (defaults to the collection's directory)")
	runCmd.Flags().StringVar(&timeoutFlag, "timeout", "", "per-request timeout, e.g. 30s (overrides config)")
	runCmd.Flags().Float64Var(&rateFlag, "rate", 0, "maximum requests per second, 0 disables rate limiting")
	runCmd.Flags().IntVar(&concurrencyFlag, "concurrency", 0, "max in-flight requests in --parallel mode, 0 means unbounded")
	runCmd.Flags().BoolVar(&parallelFlag, "parallel", false, "run sibling requests concurrently instead of in declaration order")
	runCmd.Flags().BoolVar(&bailFlag, "bail", false, "stop after the first failed request")
	runCmd.Flags().BoolVar(&insecureFlag, "insecure", false, "skip TLS certificate verification")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", false, "disable colored console output")
	runCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "print response status and error detail for every request")
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", "console", "result format: console, json, junit, tap")
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", "", "write formatted output to this file instead of stdout")
	runCmd.Flags().StringVar(&notifySlackFlag, "notify-slack", "", "Slack incoming webhook URL to post the run summary to")
	runCmd.Flags().StringVar(&metricsFileFlag, "metrics-file", "", "write Prometheus-format run metrics to this file")
	runCmd.Flags().StringVar(&openAPISpecFlag, "openapi-spec", "", "path to an OpenAPI document to report endpoint coverage against")
	runCmd.Flags().StringVar(&coverageFileFlag, "coverage-file", "", "write the JSON coverage report to this file (requires --openapi-spec)")
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "re-run the collection whenever its file changes")
	runCmd.Flags().BoolVar(&strictHooksFlag, "strict-hooks", false, "fail a request when its pre-request/test hook returns an error (default: recorded as a diagnostic)")
}

func loadVariableFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	vars := map[string]string{}
	if err := json.Unmarshal(data, &vars); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return vars, nil
}

func runCommand(cmd *cobra.Command, args []string) error {
	if !watchFlag {
		return runOnce(cmd, args[0])
	}
	return watchAndRun(cmd, args[0])
}

// watchAndRun re-runs runOnce whenever collectionPath changes on disk,
// debouncing bursts of events the way editors emit them on save.
func watchAndRun(cmd *cobra.Command, collectionPath string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(collectionPath)); err != nil {
		return fmt.Errorf("watching %s: %w", collectionPath, err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	if err := runOnce(cmd, collectionPath); err != nil {
		fmt.Fprintf(cmd.OutOrStderr(), "run failed: %v\n", err)
	}

	var debounce *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(collectionPath) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounceDelay, func() {
				fmt.Fprintf(cmd.OutOrStderr(), "\n%s changed, re-running...\n", collectionPath)
				if err := runOnce(cmd, collectionPath); err != nil {
					fmt.Fprintf(cmd.OutOrStderr(), "run failed: %v\n", err)
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.OutOrStderr(), "watch error: %v\n", err)
		case <-sigCh:
			return nil
		}
	}
}

func runOnce(cmd *cobra.Command, collectionPath string) error {
	fileCfg, err := config.FindAndLoad(filepath.Dir(collectionPath))
	if err != nil {
		fmt.Fprintf(cmd.OutOrStderr(), "config: %v\n", err)
		os.Exit(ExitConfigError)
		return nil
	}
	cfg := config.DefaultConfig().Merge(fileCfg)

	if cmd.Flags().Changed("parallel") {
		cfg.Parallel = config.BoolPtr(parallelFlag)
	}
	if cmd.Flags().Changed("bail") {
		cfg.Bail = config.BoolPtr(bailFlag)
	}
	if cmd.Flags().Changed("insecure") {
		cfg.InsecureSkipTLS = config.BoolPtr(insecureFlag)
	}
	if cmd.Flags().Changed("no-color") {
		cfg.NoColor = config.BoolPtr(noColorFlag)
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = config.BoolPtr(verboseFlag)
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = concurrencyFlag
	}
	if cmd.Flags().Changed("rate") {
		cfg.RateLimit = rateFlag
	}

	timeout := cfg.Timeout()
	if timeoutFlag != "" {
		d, err := time.ParseDuration(timeoutFlag)
		if err != nil {
			return fmt.Errorf("invalid --timeout %q: %w", timeoutFlag, err)
		}
		timeout = d
	}

	var schemaJSON []byte
	if schemaFileFlag != "" {
		schemaJSON, err = os.ReadFile(schemaFileFlag)
		if err != nil {
			return fmt.Errorf("reading schema: %w", err)
		}
	}

	data, err := os.ReadFile(collectionPath)
	if err != nil {
		return fmt.Errorf("reading collection: %w", err)
	}
	collection, err := loader.Load(data, loader.Options{SchemaJSON: schemaJSON})
	if err != nil {
		os.Exit(ExitLoadError)
		return nil
	}

	environment, err := loadVariableFile(environmentFileFlag)
	if err != nil {
		os.Exit(ExitConfigError)
		return nil
	}
	global, err := loadVariableFile(globalFileFlag)
	if err != nil {
		os.Exit(ExitConfigError)
		return nil
	}

	baseDir := baseDirFlag
	if baseDir == "" {
		baseDir = filepath.Dir(collectionPath)
	}

	dispatchOpts := []dispatch.Option{
		dispatch.WithTimeout(timeout),
		dispatch.WithFollowRedirects(cfg.GetFollowRedirects()),
		dispatch.WithInsecureSkipVerify(cfg.GetInsecureSkipTLS()),
	}
	if cfg.MaxRedirects > 0 {
		dispatchOpts = append(dispatchOpts, dispatch.WithMaxRedirects(cfg.MaxRedirects))
	}
	if cfg.RateLimit > 0 {
		dispatchOpts = append(dispatchOpts, dispatch.WithRateLimit(cfg.RateLimit))
	}
	dispatcher := dispatch.New(dispatchOpts...)

	executor := exec.New(dispatcher, hook.Hooks{}, exec.Options{
		Parallel:    cfg.GetParallel(),
		Concurrency: cfg.Concurrency,
		StopOnError: cfg.GetBail(),
		Policy:      resolve.PolicyLenient,
		BaseDir:     baseDir,
		Builtins:    resolve.NewBuiltinRegistry(),
		StrictHooks: strictHooksFlag,
	})

	execCtx := exec.RootContext(collection, global, environment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Fprintln(cmd.OutOrStderr(), "\nreceived interrupt, stopping gracefully...")
		cancel()
	}()

	result := executor.ExecuteCollection(ctx, collection, execCtx)

	if metricsFileFlag != "" {
		if err := writeMetricsFile(metricsFileFlag, result); err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "warning: failed to write metrics: %v\n", err)
		}
	}
	if notifySlackFlag != "" {
		if err := notify.NewSlackNotifier(notifySlackFlag).Notify(result); err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "warning: slack notification failed: %v\n", err)
		}
	}
	if openAPISpecFlag != "" {
		if err := reportCoverage(cmd, openAPISpecFlag, coverageFileFlag, result); err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "warning: coverage report failed: %v\n", err)
		}
	}

	formatted, err := formatResult(outputFlag, collection.Info.Name, result, cfg)
	if err != nil {
		return fmt.Errorf("formatting result: %w", err)
	}

	if outputFileFlag != "" {
		if err := os.WriteFile(outputFileFlag, formatted, 0o644); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
	} else {
		cmd.OutOrStdout().Write(formatted)
	}

	if result.Failed > 0 && !watchFlag {
		os.Exit(ExitTestFailure)
	}
	return nil
}

func reportCoverage(cmd *cobra.Command, specPath, outFile string, result *exec.CollectionExecutionResult) error {
	analyzer := coverage.NewAnalyzer()
	if err := analyzer.LoadOpenAPI(specPath); err != nil {
		return err
	}
	report := analyzer.Analyze(result)

	if outFile == "" {
		fmt.Fprint(cmd.OutOrStdout(), report.FormatConsole())
		return nil
	}
	data, err := report.FormatJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(outFile, data, 0o644)
}

func writeMetricsFile(path string, result *exec.CollectionExecutionResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return metrics.WritePrometheus(f, metrics.Aggregate(result))
}

func formatResult(format, suiteName string, result *exec.CollectionExecutionResult, cfg *config.Config) ([]byte, error) {
	switch format {
	case "json":
		return output.FormatJSON(result)
	case "junit":
		return output.FormatJUnit(suiteName, result)
	case "tap":
		buf := &bytes.Buffer{}
		output.NewTAPFormatter(output.TAPWithWriter(buf)).FormatResult(result)
		return buf.Bytes(), nil
	default:
		buf := &bytes.Buffer{}
		output.NewConsoleFormatter(
			output.WithWriter(buf),
			output.WithVerbose(cfg.GetVerbose()),
			output.WithNoColor(cfg.GetNoColor()),
		).FormatResult(result)
		return buf.Bytes(), nil
	}
}
