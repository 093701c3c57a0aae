//go:build ignore

// build.go - Transformer Dashboard build script
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: all, web, processor, test, clean

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const module = "github.com/tomtap1997/dashbord-tr"

// executables maps a cmd/ directory to its output name.
var executables = map[string]string{
	"web":       "transformer-dashboard",
	"processor": "transformer-processor",
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorCyan   = "\033[36m"
	distDirName = "dist"
)

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	start := time.Now()
	distDir := filepath.Join(".", distDirName)

	switch *target {
	case "all":
		for name := range executables {
			buildExecutable(name, distDir, *verbose)
		}
	case "web", "processor":
		buildExecutable(*target, distDir, *verbose)
	case "test":
		runTests(*verbose)
	case "clean":
		if err := os.RemoveAll(distDir); err != nil {
			printError(fmt.Sprintf("Failed to clean %s: %v", distDir, err))
			os.Exit(1)
		}
		printSuccess("Build artifacts cleaned")
	default:
		printError(fmt.Sprintf("Unknown target: %s", *target))
		showHelp()
		os.Exit(1)
	}

	printInfo(fmt.Sprintf("Done in %s", time.Since(start).Round(time.Millisecond)))
}

// buildExecutable compiles ./cmd/<name> with the build time and commit
// stamped into the contracts package.
func buildExecutable(name, distDir string, verbose bool) {
	exeName := executables[name]
	if runtime.GOOS == "windows" {
		exeName += ".exe"
	}
	outputPath := filepath.Join(distDir, exeName)

	ldflags := strings.Join([]string{
		"-s", "-w",
		fmt.Sprintf("-X %s/pkg/contracts.BuildTime=%s", module, time.Now().UTC().Format(time.RFC3339)),
		fmt.Sprintf("-X %s/pkg/contracts.GitCommit=%s", module, gitCommit()),
	}, " ")

	args := []string{"build", "-ldflags", ldflags, "-o", outputPath, "./cmd/" + name}
	if verbose {
		args = append([]string{"build", "-v"}, args[1:]...)
	}

	printInfo(fmt.Sprintf("Building %s...", name))
	if err := run(verbose, "go", args...); err != nil {
		printError(fmt.Sprintf("Failed to build %s: %v", name, err))
		os.Exit(1)
	}

	if info, err := os.Stat(outputPath); err == nil {
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", exeName, float64(info.Size())/1024/1024))
	}
}

func runTests(verbose bool) {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	if err := run(true, "go", args...); err != nil {
		printError(fmt.Sprintf("Go tests failed: %v", err))
		os.Exit(1)
	}
	printSuccess("All tests passed")
}

// gitCommit returns the short HEAD hash, or "unknown" outside a checkout.
func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

func run(stream bool, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if stream {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	return cmd.Run()
}

func printInfo(msg string)    { fmt.Printf("%s[INFO]%s %s\n", colorCyan, colorReset, msg) }
func printSuccess(msg string) { fmt.Printf("%s[OK]%s %s\n", colorGreen, colorReset, msg) }
func printError(msg string)   { fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg) }

func showHelp() {
	fmt.Println("Usage: go run build.go -target=TARGET [-v]")
	fmt.Println("  all        build web and processor into ./dist")
	fmt.Println("  web        build the dashboard server")
	fmt.Println("  processor  build the batch extraction CLI")
	fmt.Println("  test       run go test -race ./...")
	fmt.Println("  clean      remove ./dist")
}
