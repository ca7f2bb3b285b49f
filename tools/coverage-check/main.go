// Command coverage-check enforces per-component statement coverage on a Go cover
// profile.
//
//	go test -coverprofile=coverage.out ./...
//	go run ./tools/coverage-check coverage.out [--strict]
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
)

const modulePath = "github.com/termfx/gold"

// ComponentThresholds defines coverage requirements per component
type ComponentThresholds map[string]float64

// DefaultThresholds apply to local runs.
var DefaultThresholds = ComponentThresholds{
	"core":     85.0,
	"rules":    85.0, // rules, imports, resolver, matcher, oracle, parser
	"linter":   80.0,
	"config":   80.0,
	"database": 70.0, // db and models
	"cli":      55.0,
	"tools":    0.0,
}

// StrictThresholds apply in CI.
var StrictThresholds = ComponentThresholds{
	"core":     90.0,
	"rules":    90.0,
	"linter":   85.0,
	"config":   85.0,
	"database": 75.0,
	"cli":      65.0,
	"tools":    0.0,
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("coverage-check", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	strict := fs.Bool("strict", false, "use the CI thresholds")
	minOverall := fs.Float64("min", 0, "minimum overall coverage (default 80, 85 with --strict)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: coverage-check <coverage.out> [--strict] [--min N]")
		return 2
	}

	thresholds := DefaultThresholds
	overallMin := 80.0
	if *strict {
		thresholds = StrictThresholds
		overallMin = 85.0
	}
	if *minOverall > 0 {
		overallMin = *minOverall
	}

	packages, err := parseCoverageFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "reading coverage file: %v\n", err)
		return 1
	}

	failures := report(stdout, packages, thresholds, overallMin)
	if failures > 0 {
		fmt.Fprintf(stdout, "\ncoverage check failed: %d threshold(s) not met\n", failures)
		return 1
	}
	return 0
}

// report prints one line per component and returns the number of unmet thresholds.
func report(w io.Writer, packages []PackageCoverage, thresholds ComponentThresholds, overallMin float64) int {
	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()

	components := calculateComponentCoverage(packages)
	names := make([]string, 0, len(thresholds))
	for name := range thresholds {
		names = append(names, name)
	}
	sort.Strings(names)

	failures := 0
	for _, name := range names {
		actual, measured := components[name]
		if !measured {
			continue
		}
		status := ok("ok  ")
		if actual < thresholds[name] {
			status = bad("FAIL")
			failures++
		}
		fmt.Fprintf(w, "%s %-10s %5.1f%% (target %.1f%%)\n", status, name, actual, thresholds[name])
	}

	overall := calculateOverallCoverage(packages)
	status := ok("ok  ")
	if overall < overallMin {
		status = bad("FAIL")
		failures++
	}
	fmt.Fprintf(w, "%s %-10s %5.1f%% (target %.1f%%)\n", status, "overall", overall, overallMin)

	return failures
}

// PackageCoverage counts statements of one package.
type PackageCoverage struct {
	Package    string
	Statements int
	Covered    int
}

// Coverage returns the covered share of statements in percent.
func (p PackageCoverage) Coverage() float64 {
	if p.Statements == 0 {
		return 0
	}
	return float64(p.Covered) / float64(p.Statements) * 100.0
}

// parseCoverageFile reads a cover profile. Each block line is
// "<file>:<start>,<end> <statements> <count>"; malformed lines are skipped.
func parseCoverageFile(filename string) ([]PackageCoverage, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	packageMap := make(map[string]*PackageCoverage)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "mode:") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) != 3 {
			continue
		}

		colon := strings.LastIndex(parts[0], ":")
		if colon <= 0 {
			continue
		}
		path := parts[0][:colon]
		slash := strings.LastIndex(path, "/")
		if slash <= 0 {
			continue
		}
		packageName := path[:slash]

		statements, err := strconv.Atoi(parts[1])
		if err != nil {
			continue
		}
		count, err := strconv.Atoi(parts[2])
		if err != nil {
			continue
		}

		pkg, exists := packageMap[packageName]
		if !exists {
			pkg = &PackageCoverage{Package: packageName}
			packageMap[packageName] = pkg
		}
		pkg.Statements += statements
		if count > 0 {
			pkg.Covered += statements
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	packages := make([]PackageCoverage, 0, len(packageMap))
	for _, pkg := range packageMap {
		packages = append(packages, *pkg)
	}
	sort.Slice(packages, func(i, j int) bool { return packages[i].Package < packages[j].Package })
	return packages, nil
}

// component maps a package import path to the component it is measured under.
func component(pkg string) string {
	rel := strings.TrimPrefix(strings.TrimPrefix(pkg, modulePath), "/")

	switch {
	case rel == "core":
		return "core"
	case rel == "internal/linter":
		return "linter"
	case rel == "internal/config":
		return "config"
	case rel == "db" || rel == "models":
		return "database"
	case strings.HasPrefix(rel, "cmd/"):
		return "cli"
	case strings.HasPrefix(rel, "tools/"):
		return "tools"
	case strings.HasPrefix(rel, "internal/"):
		return "rules"
	default:
		return "other"
	}
}

func calculateComponentCoverage(packages []PackageCoverage) map[string]float64 {
	totals := make(map[string]*PackageCoverage)
	for _, pkg := range packages {
		name := component(pkg.Package)
		total, ok := totals[name]
		if !ok {
			total = &PackageCoverage{Package: name}
			totals[name] = total
		}
		total.Statements += pkg.Statements
		total.Covered += pkg.Covered
	}

	components := make(map[string]float64, len(totals))
	for name, total := range totals {
		components[name] = total.Coverage()
	}
	return components
}

func calculateOverallCoverage(packages []PackageCoverage) float64 {
	var total PackageCoverage
	for _, pkg := range packages {
		total.Statements += pkg.Statements
		total.Covered += pkg.Covered
	}
	return total.Coverage()
}
