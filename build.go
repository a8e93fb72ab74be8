//go:build ignore

// build.go - Campaign Pulse Build System
// Usage: go run build.go [-target=TARGET]
// Targets: all, web, report, clean, test

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"time"
)

const (
	version = "1.0.0"
	module  = "campaignpulse"
)

var (
	rootDir string
	distDir string

	// Executable names (key = source dir name under cmd/, value = output name)
	executables = map[string]string{
		"web":    "campaign-pulse",
		"report": "campaign-report",
	}

	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

func init() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(fmt.Sprintf("Failed to get current directory: %v", err))
	}
	rootDir = cwd
	distDir = filepath.Join(rootDir, "dist")

	if _, err := os.Stat(filepath.Join(rootDir, "go.mod")); os.IsNotExist(err) {
		panic(fmt.Sprintf("go.mod not found in %s; run the build from the repository root", rootDir))
	}
}

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	printHeader()
	startTime := time.Now()

	var err error
	switch *target {
	case "all":
		err = buildAll(*verbose)
	case "web", "report":
		err = buildExecutable(*target, *verbose)
	case "clean":
		err = clean(*verbose)
	case "test":
		err = runTests(*verbose)
	default:
		showHelp()
		os.Exit(1)
	}
	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printHeader() {
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println(colorCyan + "   Campaign Pulse v" + version + " - Build System   " + colorReset)
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

func printWarning(msg string) {
	fmt.Printf("%s[WARNING]%s %s\n", colorYellow, colorReset, msg)
}

// Build all executables in a stable order
func buildAll(verbose bool) error {
	printInfo("Building all components...")

	names := make([]string, 0, len(executables))
	for name := range executables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := buildExecutable(name, verbose); err != nil {
			return err
		}
	}

	if err := copyConfigFiles(verbose); err != nil {
		printWarning(fmt.Sprintf("Config files not copied: %v", err))
	}

	printSuccess("All components built successfully!")
	return nil
}

// Build a single executable into dist/
func buildExecutable(name string, verbose bool) error {
	exeName, ok := executables[name]
	if !ok {
		return fmt.Errorf("unknown executable: %s", name)
	}
	if runtime.GOOS == "windows" {
		exeName += ".exe"
	}

	printInfo(fmt.Sprintf("Building %s...", name))

	if err := os.MkdirAll(distDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", distDir, err)
	}

	ldflags := fmt.Sprintf("-s -w -X %s/pkg/contracts.BuildTime=%s",
		module, time.Now().UTC().Format(time.RFC3339))

	args := []string{"build"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "-ldflags", ldflags, "-o", filepath.Join(distDir, exeName), "./cmd/"+name)

	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to build %s: %w", name, err)
	}

	printSuccess(fmt.Sprintf("Built %s", exeName))
	return nil
}

// Copy the sample configuration next to the binaries
func copyConfigFiles(verbose bool) error {
	src := filepath.Join(rootDir, "config.example.yaml")
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	dst := filepath.Join(distDir, "config.yaml")
	if verbose {
		printInfo(fmt.Sprintf("Copying %s to %s", src, dst))
	}
	return os.WriteFile(dst, data, 0644)
}

func clean(verbose bool) error {
	printInfo("Cleaning build artifacts...")
	if verbose {
		printInfo(fmt.Sprintf("Removing %s", distDir))
	}
	return os.RemoveAll(distDir)
}

func runTests(verbose bool) error {
	printInfo("Running tests...")

	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("tests failed: %w", err)
	}
	return nil
}

func showHelp() {
	fmt.Println("Usage: go run build.go -target=<target> [-v]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  all     Build the web server and the report CLI")
	fmt.Println("  web     Build the web server")
	fmt.Println("  report  Build the report CLI")
	fmt.Println("  clean   Remove dist/")
	fmt.Println("  test    Run all tests with the race detector")
}
