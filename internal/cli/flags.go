package cli

import (
	"database/sql"
	"io"
	"net/http"
)

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// ServeCommand starts the web server.
type ServeCommand struct {
	Host     string `long:"host" description:"Override listen host"`
	Port     int    `long:"port" description:"Override listen port"`
	LogLevel string `long:"log-level" description:"Override log level (debug, info, warn, error)"`

	globals *GlobalFlags
	version string
}

// AddCommand stores a new text from inline text, a file or a web page.
type AddCommand struct {
	Title    string   `long:"title" description:"Text title (defaults to the page title with --from-url)"`
	Category string   `long:"category" description:"Category name (required)"`
	Tags     []string `long:"tag" description:"Tag name (repeatable)"`
	Body     string   `long:"body" description:"Inline body text"`
	BodyFile string   `long:"body-file" description:"Path to file containing the body ('-' for stdin)"`
	FromURL  string   `long:"from-url" description:"Import the readable article of a web page"`

	globals *GlobalFlags
	version string
	client  *http.Client // injectable for testing; nil means a default client
	in      io.Reader    // stdin for --body-file -
}

// ListCommand lists catalog texts with optional filters.
type ListCommand struct {
	Category string `long:"category" description:"Filter by exact category name"`
	Tag      string `long:"tag" description:"Filter by tag"`
	Query    string `long:"query" short:"q" description:"Substring match on title or body"`
	Limit    int    `long:"limit" description:"Maximum results" default:"20"`
	Offset   int    `long:"offset" description:"Skip first N results" default:"0"`

	globals *GlobalFlags
	version string
}

// ShowCommand prints a text with its analysis.
type ShowCommand struct {
	ID    int64  `long:"id" description:"Text ID (required)"`
	Chart string `long:"chart" description:"Write the word-length histogram PNG to this file"`
	Body  bool   `long:"body" description:"Also print the full body"`

	globals *GlobalFlags
	version string
}

// DeleteCommand removes one text.
type DeleteCommand struct {
	ID    int64 `long:"id" description:"Text ID (required)"`
	Force bool  `long:"force" description:"Skip confirmation prompt"`

	globals *GlobalFlags
	version string
	in      io.Reader
}

// SeedCommand loads the bundled sample catalog.
type SeedCommand struct {
	globals *GlobalFlags
	version string
}

// StatusCommand shows catalog statistics and a config summary.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// PurgeCommand deletes every text and tag with safety confirmation.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
	db      *sql.DB // injectable for testing; nil means open the configured DB
	in      io.Reader
}
