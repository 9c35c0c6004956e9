// Package main is the CLI entry point for focusmon.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eliteGoblin/focusd/focus_mon/internal/domain"
	"github.com/eliteGoblin/focusd/focus_mon/internal/infra"
	"github.com/eliteGoblin/focusd/focus_mon/internal/match"
	"github.com/eliteGoblin/focusd/focus_mon/internal/monitor"
	"github.com/eliteGoblin/focusd/focus_mon/internal/usecase"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

const (
	envAssessAPIKey   = "FOCUSMON_ASSESS_API_KEY"
	envAssessEndpoint = "FOCUSMON_ASSESS_ENDPOINT"
	envAssessModel    = "FOCUSMON_ASSESS_MODEL"

	defaultDataDir     = "~/.focusmon"
	defaultAliasesPath = "~/.focusmon/aliases.yaml"

	minIntervalSecs = 10
	maxIntervalSecs = 600
)

// exitCode is set by subcommands that finish cleanly but must exit non-zero.
var exitCode int

func main() {
	// .env is optional; real environment variables win over file values.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	os.Exit(exitCode)
}

var rootCmd = &cobra.Command{
	Use:   "focusmon",
	Short: "Focus monitor - checks whether you're working on what you said",
	Long: `focusmon periodically looks at the foreground application and decides
whether it matches the task you declared. Blocked applications always
count as distraction; an allow list restricts what counts as focused.

Application names are matched fuzzily, so "chrome" finds "Google Chrome"
and "code" finds "Visual Studio Code".`,
	Version: Version,
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Monitor focus until interrupted",
	Long: `Starts periodic focus checks in the foreground. Every interval the
foreground application is compared against your task, allow list and
block list; distractions are logged and optionally raised as desktop
notifications. Press Ctrl+C to stop and print a session summary.`,
	RunE: runStart,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a single focus check now",
	Long: `Runs one focus check immediately and prints the verdict. With --ocr the
screen is captured and its text extracted; with --assess the assessment
service weighs in on top of the list-based verdict.`,
	RunE: runCheck,
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <name>",
	Short: "Find running applications resembling a name",
	Long: `Matches a partial or misspelled application name against everything
currently running, using the same fuzzy matching the monitor uses but
with a permissive threshold. Useful for building allow and block lists.`,
	Args: cobra.ExactArgs(1),
	RunE: runSuggest,
}

var psCmd = &cobra.Command{
	Use:   "ps",
	Short: "List running processes by memory use",
	RunE:  runPs,
}

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage assessment service credentials",
	Long: `Stores credentials for the assessment service in an encrypted local
database under ` + defaultDataDir + `. The encryption key lives next to
it with 0600 permissions.`,
}

var secretSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a credential",
	Args:  cobra.ExactArgs(2),
	RunE:  runSecretSet,
}

var secretListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored credential keys",
	Long:  `Prints the keys of stored credentials. Values are never printed.`,
	RunE:  runSecretList,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Prints version, commit, and build time. Use --json for machine-readable output.`,
	Run:   runVersion,
}

var (
	taskDescription string
	intervalSecs    int
	allowedApps     []string
	blockedApps     []string
	aliasesPath     string
	enableOCR       bool
	enableAssess    bool
	enableNotify    bool
	psLimit         int
	jsonOutput      bool
)

func init() {
	startCmd.Flags().StringVarP(&taskDescription, "task", "t", "", "What you are working on")
	startCmd.Flags().IntVarP(&intervalSecs, "interval", "i", 60, "Seconds between checks (10-600)")
	startCmd.Flags().StringSliceVar(&allowedApps, "allow", nil, "Applications allowed during the session")
	startCmd.Flags().StringSliceVar(&blockedApps, "block", nil, "Applications that always count as distraction")
	startCmd.Flags().StringVar(&aliasesPath, "aliases", defaultAliasesPath, "YAML file with extra application aliases")
	startCmd.Flags().BoolVar(&enableOCR, "ocr", false, "Capture screen text for assessment")
	startCmd.Flags().BoolVar(&enableAssess, "assess", false, "Ask the assessment service to refine verdicts")
	startCmd.Flags().BoolVar(&enableNotify, "notify", true, "Desktop notification on distraction")

	checkCmd.Flags().StringVarP(&taskDescription, "task", "t", "", "What you are working on")
	checkCmd.Flags().StringSliceVar(&allowedApps, "allow", nil, "Applications allowed during the session")
	checkCmd.Flags().StringSliceVar(&blockedApps, "block", nil, "Applications that always count as distraction")
	checkCmd.Flags().StringVar(&aliasesPath, "aliases", defaultAliasesPath, "YAML file with extra application aliases")
	checkCmd.Flags().BoolVar(&enableOCR, "ocr", false, "Capture screen text for assessment")
	checkCmd.Flags().BoolVar(&enableAssess, "assess", false, "Ask the assessment service to refine the verdict")

	suggestCmd.Flags().StringVar(&aliasesPath, "aliases", defaultAliasesPath, "YAML file with extra application aliases")

	psCmd.Flags().IntVar(&psLimit, "limit", 20, "Maximum number of processes to list (0 for all)")

	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	secretCmd.AddCommand(secretSetCmd)
	secretCmd.AddCommand(secretListCmd)

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(psCmd)
	rootCmd.AddCommand(secretCmd)
	rootCmd.AddCommand(versionCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	if intervalSecs < minIntervalSecs || intervalSecs > maxIntervalSecs {
		return fmt.Errorf("interval must be between %d and %d seconds", minIntervalSecs, maxIntervalSecs)
	}

	logger := createLogger()
	defer func() { _ = logger.Sync() }()

	checker, provider, cleanup, err := buildChecker(logger)
	if err != nil {
		return err
	}
	defer cleanup()

	resultLog := monitor.NewResultLog(0)
	scheduler := monitor.NewScheduler(checker, provider, resultLog, logger)
	if enableNotify {
		scheduler = scheduler.WithNotifier(infra.NewDesktopNotifier())
	}

	cfg := domain.MonitorConfig{
		TaskDescription: taskDescription,
		Interval:        time.Duration(intervalSecs) * time.Second,
		AllowedApps:     allowedApps,
		BlockedApps:     blockedApps,
	}
	if err := scheduler.Start(cfg); err != nil {
		return err
	}

	fmt.Println("\n=== focusmon Started ===")
	fmt.Printf("Task: %s\n", taskDescription)
	fmt.Printf("Interval: %ds\n", intervalSecs)
	if len(allowedApps) > 0 {
		fmt.Printf("Allowed: %s\n", strings.Join(allowedApps, ", "))
	}
	if len(blockedApps) > 0 {
		fmt.Printf("Blocked: %s\n", strings.Join(blockedApps, ", "))
	}
	fmt.Println("\nPress Ctrl+C to stop.")
	fmt.Println("========================")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	scheduler.Stop()
	printSummary(resultLog.Stats())
	return nil
}

func printSummary(stats domain.Statistics) {
	fmt.Println("\n=== Session Summary ===")
	fmt.Printf("Checks: %d\n", stats.TotalChecks)
	fmt.Printf("Focused: %d\n", stats.FocusedChecks)
	fmt.Printf("Distracted: %d\n", stats.DistractedChecks)
	if stats.TotalChecks > 0 {
		rate := float64(stats.FocusedChecks) / float64(stats.TotalChecks) * 100
		fmt.Printf("Focus rate: %.0f%%\n", rate)
	}
	fmt.Println("=======================")
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger, _ := zap.NewDevelopment()
	defer func() { _ = logger.Sync() }()

	checker, _, cleanup, err := buildChecker(logger)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := domain.MonitorConfig{
		TaskDescription: taskDescription,
		AllowedApps:     allowedApps,
		BlockedApps:     blockedApps,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	record, err := checker.RunCheck(ctx, cfg)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	fmt.Println("\n=== Focus Check ===")
	if record.ActiveApp != "" {
		fmt.Printf("Active app: %s\n", record.ActiveApp)
	} else {
		fmt.Println("Active app: none")
	}
	if record.Focused {
		fmt.Println("Verdict: FOCUSED")
	} else {
		fmt.Println("Verdict: DISTRACTED")
		exitCode = 1
	}
	fmt.Printf("Reason: %s\n", record.Reason)
	if record.ScreenText != "" {
		fmt.Printf("Screen text: %d characters extracted\n", len(record.ScreenText))
	}
	fmt.Println("===================")
	return nil
}

func runSuggest(cmd *cobra.Command, args []string) error {
	table, err := infra.LoadAliasTable(aliasesPath)
	if err != nil {
		return err
	}
	resolver := match.NewResolver(match.NewScorer(table))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	procs, err := infra.NewSystemAppProvider().RunningProcesses(ctx)
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	matches := resolver.AllMatches(args[0], uniqueProcessNames(procs), match.SuggestThreshold)
	if len(matches) == 0 {
		fmt.Printf("No running application resembles %q.\n", args[0])
		return nil
	}

	fmt.Printf("\nApplications matching %q:\n", args[0])
	for _, m := range matches {
		fmt.Printf("  %-32s %.2f\n", m.Candidate, m.Score)
	}
	return nil
}

// uniqueProcessNames keeps first occurrences, preserving the memory
// ordering the provider returns.
func uniqueProcessNames(procs []domain.ProcessInfo) []string {
	seen := make(map[string]struct{}, len(procs))
	var names []string
	for _, p := range procs {
		if _, ok := seen[p.Name]; ok {
			continue
		}
		seen[p.Name] = struct{}{}
		names = append(names, p.Name)
	}
	return names
}

func runPs(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	procs, err := infra.NewSystemAppProvider().RunningProcesses(ctx)
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	if psLimit > 0 && len(procs) > psLimit {
		procs = procs[:psLimit]
	}

	fmt.Printf("%-8s %-12s %s\n", "PID", "MEMORY", "NAME")
	for _, p := range procs {
		fmt.Printf("%-8d %-12s %s\n", p.PID, formatBytes(p.MemoryBytes), p.Name)
	}
	return nil
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

func runSecretSet(cmd *cobra.Command, args []string) error {
	store, err := openSecretStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SetSecret(args[0], args[1]); err != nil {
		return fmt.Errorf("store secret: %w", err)
	}
	fmt.Printf("Stored %q.\n", args[0])
	return nil
}

func runSecretList(cmd *cobra.Command, args []string) error {
	store, err := openSecretStore()
	if err != nil {
		return err
	}
	defer store.Close()

	secrets, err := store.GetAllSecrets()
	if err != nil {
		return err
	}
	if len(secrets) == 0 {
		fmt.Println("No secrets stored.")
		return nil
	}

	keys := make([]string, 0, len(secrets))
	for k := range secrets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Println(k)
	}
	return nil
}

func runVersion(cmd *cobra.Command, args []string) {
	if jsonOutput {
		fmt.Printf(`{"version":"%s","commit":"%s","build_time":"%s"}`+"\n",
			Version, Commit, BuildTime)
	} else {
		fmt.Printf("focusmon %s (commit: %s, built: %s)\n",
			Version, Commit, BuildTime)
	}
}

// buildChecker assembles the check pipeline shared by start and check.
// The returned cleanup closes the secret store when one was opened.
func buildChecker(logger *zap.Logger) (*usecase.Checker, *infra.SystemAppProvider, func(), error) {
	table, err := infra.LoadAliasTable(aliasesPath)
	if err != nil {
		return nil, nil, nil, err
	}

	provider := infra.NewSystemAppProvider()
	evaluator := usecase.NewEvaluator(match.NewResolver(match.NewScorer(table)), logger)
	checker := usecase.NewChecker(provider, evaluator, logger)

	cleanup := func() {}
	if enableOCR {
		checker = checker.WithScreenText(infra.NewOCRScreenTextProvider(os.TempDir(), logger))
	}
	if enableAssess {
		augmenter, closeFn, err := newAugmenter(logger)
		if err != nil {
			return nil, nil, nil, err
		}
		cleanup = closeFn
		checker = checker.WithAugmenter(augmenter)
	}
	return checker, provider, cleanup, nil
}

// newAugmenter resolves assessment credentials from the environment
// first, then the encrypted secret store.
func newAugmenter(logger *zap.Logger) (domain.DecisionAugmenter, func(), error) {
	apiKey := os.Getenv(envAssessAPIKey)
	endpoint := os.Getenv(envAssessEndpoint)
	model := os.Getenv(envAssessModel)

	closeFn := func() {}
	if apiKey == "" || endpoint == "" || model == "" {
		store, err := openSecretStore()
		if err != nil {
			return nil, closeFn, fmt.Errorf("open secret store: %w", err)
		}
		closeFn = func() { store.Close() }

		if apiKey == "" {
			if v, err := store.GetSecret(infra.SecretAssessAPIKey); err == nil {
				apiKey = v
			}
		}
		if endpoint == "" {
			if v, err := store.GetSecret(infra.SecretAssessEndpoint); err == nil {
				endpoint = v
			}
		}
		if model == "" {
			if v, err := store.GetSecret(infra.SecretAssessModel); err == nil {
				model = v
			}
		}
	}

	if apiKey == "" {
		closeFn()
		return nil, func() {}, fmt.Errorf(
			"no assessment API key: set %s or run 'focusmon secret set %s <key>'",
			envAssessAPIKey, infra.SecretAssessAPIKey)
	}
	return infra.NewHTTPAugmenter(endpoint, apiKey, model, logger), closeFn, nil
}

func openSecretStore() (*infra.EncryptedSecretStore, error) {
	dataDir := infra.ExpandHome(defaultDataDir)
	key, err := infra.EnsureKey(infra.NewFileKeyProvider(dataDir))
	if err != nil {
		return nil, fmt.Errorf("prepare encryption key: %w", err)
	}
	return infra.NewEncryptedSecretStore(dataDir, key)
}

func createLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"/var/tmp/focusmon.log"}
	config.ErrorOutputPaths = []string{"/var/tmp/focusmon.error.log"}
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		// Fallback to stderr if file logging fails
		logger, _ = zap.NewProduction()
	}
	return logger
}
