package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Serve  *ServeCommand
	Add    *AddCommand
	List   *ListCommand
	Show   *ShowCommand
	Delete *DeleteCommand
	Seed   *SeedCommand
	Status *StatusCommand
	Purge  *PurgeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "wordsmith"
	parser.LongDescription = "Catalog texts and analyze their word counts, sentences and word-length distribution."

	cmds := &commands{
		Serve:  &ServeCommand{globals: &globals, version: version},
		Add:    &AddCommand{globals: &globals, version: version},
		List:   &ListCommand{globals: &globals, version: version},
		Show:   &ShowCommand{globals: &globals, version: version},
		Delete: &DeleteCommand{globals: &globals, version: version},
		Seed:   &SeedCommand{globals: &globals, version: version},
		Status: &StatusCommand{globals: &globals, version: version},
		Purge:  &PurgeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("serve", "Start the web server", "Serve the catalog, detail pages and histogram images over HTTP.", cmds.Serve)
	parser.AddCommand("add", "Add a text", "Add a text from --body, --body-file or --from-url.", cmds.Add)
	parser.AddCommand("list", "List texts", "List texts, newest first, filtered by category, tag or query.", cmds.List)
	parser.AddCommand("show", "Show a text and its analysis", "Print a text's metadata and analysis; optionally write the histogram PNG.", cmds.Show)
	parser.AddCommand("delete", "Delete a text", "Delete a single text by ID.", cmds.Delete)
	parser.AddCommand("seed", "Load sample texts", "Load the bundled sample texts, skipping titles that already exist.", cmds.Seed)
	parser.AddCommand("status", "Show catalog statistics", "Show catalog statistics, database size and configuration summary.", cmds.Status)
	parser.AddCommand("purge", "Delete ALL texts and tags", "Delete ALL texts and tags. Destructive operation with safety prompt.", cmds.Purge)

	return parser, &globals, cmds
}

// Run is the main entry point for the wordsmith CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// go-flags requires a subcommand, but --version is valid without one.
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("wordsmith %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
