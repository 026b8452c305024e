package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/smartptr/handle"
	"github.com/wippyai/smartptr/ledger"
	"github.com/wippyai/smartptr/scenario"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	passStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func main() {
	var (
		filter      = flag.String("run", "", "Run only scenarios whose name contains this substring")
		list        = flag.Bool("list", false, "List scenarios and exit")
		verbose     = flag.Bool("v", false, "Log handle lifecycle events to stderr")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer log.Sync()
		handle.SetLogger(log.Named("handle"))
		ledger.SetLogger(log.Named("ledger"))
		scenario.SetLogger(log.Named("scenario"))
	}

	if *list {
		listScenarios(os.Stdout)
		return
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: -i requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if failed := run(os.Stdout, *filter); failed > 0 {
		os.Exit(1)
	}
}

func listScenarios(w io.Writer) {
	for _, s := range scenario.All() {
		fmt.Fprintf(w, "%-18s %s\n", s.Name, dimStyle.Render(s.Description))
	}
}

// run executes the matching scenarios and returns how many failed.
func run(w io.Writer, filter string) int {
	fmt.Fprintln(w, headerStyle.Render("Handle contract"))
	fmt.Fprintf(w, "Size of handle: %d bytes\n\n", scenario.HandleSize())

	results := scenario.RunAll(filter)
	if len(results) == 0 {
		fmt.Fprintf(w, "No scenarios match %q.\n", filter)
		return 0
	}

	for _, r := range results {
		line := scenario.FormatResult(r)
		if r.Passed() {
			fmt.Fprintln(w, passStyle.Render(line))
		} else {
			fmt.Fprintln(w, failStyle.Render(line))
		}
	}

	passed, failed := scenario.Summary(results)
	fmt.Fprintf(w, "\n%d passed, %d failed\n", passed, failed)
	return failed
}
