package main

import (
	"fmt"
	"io"
	"os"

	mcpserver "github.com/gnana997/uidocgen/pkg/mcp"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	command, rest := args[0], args[1:]
	switch command {
	case "parse":
		return runParse(rest, stdout, stderr)
	case "inspect":
		return runInspect(rest, stdout, stderr)
	case "watch":
		return runWatch(rest, stdout, stderr)
	case "serve":
		return runServe(rest, stderr)
	case "version":
		fmt.Fprintf(stdout, "uidocgen %s\n", mcpserver.Version)
	case "help", "-h", "--help":
		printUsage(stdout)
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n", command)
		printUsage(stderr)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: uidocgen <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  parse      Document files, directories or globs as JSON")
	fmt.Fprintln(w, "  inspect    Print a readable summary of component docs")
	fmt.Fprintln(w, "  watch      Document a directory and re-document files on change")
	fmt.Fprintln(w, "  serve      Start MCP server on stdio")
	fmt.Fprintln(w, "  version    Print version")
	fmt.Fprintln(w, "  help       Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'uidocgen <command> -h' for command flags.")
}
