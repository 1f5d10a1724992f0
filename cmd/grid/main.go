// Package main provides the grid demo CLI.
//
// Usage:
//
//	grid render [flags] file      Render a CSV or JSON file as a table
//	grid demo [name]              List or render a built-in example
//	grid browse [flags] target    Browse a file or example interactively
//	grid help                     Show help
//
// Examples:
//
//	grid render -sort age:descend users.csv
//	grid render -filter role=Admin,Editor -size 5 -page 2 users.json
//	grid demo pagination
//	grid browse expandable
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

const usage = `grid - headless data grid demo

Usage:
  grid <command> [options] [args...]

Commands:
  render      Render a CSV or JSON file as a text table
  demo        List the built-in examples or render one
  browse      Browse a file or example in the terminal
  version     Print version information
  help        Show this help message

Render options:
  -sort col[:ascend|descend]   Sort by a column
  -filter col=v1,v2            Keep rows whose col is v1 or v2 (repeatable)
  -page n                      Page to show
  -size n                      Rows per page
  -all                         Disable pagination
  -select k1,k2                Select rows by key
  -pin col:start|end           Pin a column (repeatable)
  -key field                   Field holding the row key
  -width n                     Maximum line width (default: terminal width)
  -log file                    Append a debug log to file

Examples:
  grid render users.csv                     Render the first page
  grid render -sort age:descend users.csv   Oldest first
  grid render -filter role=Admin users.json Only admins
  grid demo                                 List examples
  grid demo selection                       Render the selection example
  grid browse -group role users.csv         Browse, enter shows same-role rows
  grid browse expandable                    Browse an example

Set GRID_DEBUG=path (or pass -log) to write a debug log.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "render":
		if err := runRender(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "demo":
		if err := runDemo(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "browse":
		if err := runBrowse(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("grid version %s\n", version)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", command)
		fmt.Print(usage)
		os.Exit(1)
	}
}
