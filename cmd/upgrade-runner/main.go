package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redhat/upgrade-checks/test/checks"
	"github.com/redhat/upgrade-checks/test/framework"
	"github.com/redhat/upgrade-checks/test/framework/kube"
	"github.com/redhat/upgrade-checks/test/framework/profile"
)

func main() {
	var (
		profileFlag  = flag.String("profile", "", "Profile to run (loads all profiles if empty)")
		profilesDir  = flag.String("profiles-dir", "profiles", "Directory containing profile YAML files")
		namespace    = flag.String("namespace", "", "Namespace the platform runs in (defaults to upgrade-<profile>)")
		validateOnly = flag.Bool("validate-only", false, "Reuse existing platform state: initialize and validate without upgrading")
		dryRun       = flag.Bool("dry-run", false, "Print what would be executed without running")
		skipCleanup  = flag.Bool("skip-cleanup", false, "Skip namespace cleanup after runs (useful for debugging)")
	)
	flag.Parse()

	// Load profiles
	var profiles []*profile.Profile
	var err error

	if *profileFlag != "" {
		var p *profile.Profile
		p, err = profile.LoadByName(*profilesDir, *profileFlag)
		if p != nil {
			profiles = []*profile.Profile{p}
		}
	} else {
		profiles, err = profile.LoadAll(*profilesDir)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading profiles: %v\n", err)
		os.Exit(1)
	}

	if len(profiles) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no profiles found in %s\n", *profilesDir)
		os.Exit(1)
	}

	fmt.Printf("Loaded %d profile(s):\n", len(profiles))
	for _, p := range profiles {
		fmt.Printf("  - %s: %s\n", p.Name, p.Description)
	}
	fmt.Println()

	if *dryRun {
		fmt.Println("Dry run mode - would execute the following:")
		for _, p := range profiles {
			printProfileSummary(p)
		}
		return
	}

	// Setup context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nReceived interrupt signal, stopping...")
		cancel()
		// Second interrupt force-exits
		<-sigCh
		fmt.Println("\nForce exit requested, terminating immediately...")
		os.Exit(130) // 128 + SIGINT(2)
	}()

	// Run profiles sequentially
	results := make(map[string]*RunResult)
	for _, p := range profiles {
		select {
		case <-ctx.Done():
			fmt.Println("Aborted by user")
			printSummary(results)
			os.Exit(1)
		default:
		}

		result := runProfile(ctx, p, *namespace, *validateOnly, *skipCleanup)
		results[p.Name] = result

		if result.Error != nil {
			fmt.Printf("Profile %s failed: %v\n", p.Name, result.Error)
		}
	}

	printSummary(results)

	for _, r := range results {
		if r.Error != nil {
			os.Exit(1)
		}
	}
}

// RunResult holds the result of running a profile
type RunResult struct {
	Profile  string
	Success  bool
	Duration time.Duration
	Error    error
}

func runProfile(ctx context.Context, p *profile.Profile, namespace string, validateOnly, skipCleanup bool) *RunResult {
	startTime := time.Now()
	result := &RunResult{Profile: p.Name}

	if namespace == "" {
		namespace = fmt.Sprintf("upgrade-%s", p.Name)
	}
	fmt.Printf("\n========================================\n")
	fmt.Printf("Running profile: %s\n", p.Name)
	fmt.Printf("Namespace: %s\n", namespace)
	fmt.Printf("Base version: %s\n", p.BaseVersion)
	fmt.Printf("Upgrade path: %v\n", p.UpgradePath)
	fmt.Printf("========================================\n\n")

	cluster, err := kube.New(namespace)
	if err != nil {
		result.Error = fmt.Errorf("failed to connect to cluster: %w", err)
		result.Duration = time.Since(startTime)
		return result
	}

	if err := cluster.EnsureNamespace(ctx); err != nil {
		result.Error = err
		result.Duration = time.Since(startTime)
		return result
	}
	if !skipCleanup && !validateOnly {
		defer func() {
			fmt.Printf("\nCleaning up namespace %s...\n", namespace)
			if cleanupErr := cluster.Cleanup(ctx); cleanupErr != nil {
				fmt.Printf("Warning: cleanup failed: %v\n", cleanupErr)
			}
		}()
	}

	env, err := cluster.Environment(p)
	if err != nil {
		result.Error = err
		result.Duration = time.Since(startTime)
		return result
	}
	defer env.Close()

	base := p.Base()
	opts := []framework.Option{framework.WithLogger(cluster.Logger())}
	if validateOnly {
		opts = append(opts, framework.ValidateOnly())
	}

	scenario, err := framework.NewScenario(p.Name, base, p.Steps(), env, checks.All(base), opts...)
	if err != nil {
		result.Error = fmt.Errorf("failed to build scenario: %w", err)
		result.Duration = time.Since(startTime)
		return result
	}

	if err := scenario.Run(ctx); err != nil {
		result.Error = err
		result.Duration = time.Since(startTime)
		reportFailures(err)
		return result
	}

	result.Success = true
	result.Duration = time.Since(startTime)
	return result
}

// reportFailures prints each collected check failure on its own line.
func reportFailures(err error) {
	var ce *framework.ConsistencyError
	if errors.As(err, &ce) {
		fmt.Println("\nFailing checks:")
	}
	type unwrapper interface{ Unwrap() []error }
	if joined, ok := err.(unwrapper); ok {
		for _, e := range joined.Unwrap() {
			fmt.Printf("  - %v\n", e)
		}
		return
	}
	fmt.Printf("  - %v\n", err)
}

func printProfileSummary(p *profile.Profile) {
	fmt.Printf("\nProfile: %s\n", p.Name)
	fmt.Printf("  Deployment:   %s\n", p.Platform.Deployment)
	fmt.Printf("  Image:        %s\n", p.Platform.Image)
	fmt.Printf("  Base version: %s\n", p.BaseVersion)
	fmt.Printf("  Upgrade path: %v (%d steps)\n", p.UpgradePath, p.Steps())
	fmt.Printf("  Checks:       %d\n", len(checks.All(p.Base())))
}

func printSummary(results map[string]*RunResult) {
	fmt.Printf("\n========================================\n")
	fmt.Printf("Summary\n")
	fmt.Printf("========================================\n")
	for name, r := range results {
		status := "PASS"
		if !r.Success {
			status = "FAIL"
		}
		fmt.Printf("  %-20s %s (%s)\n", name, status, r.Duration.Round(time.Second))
	}
}
