package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tordrt/dbmeta"
	"github.com/tordrt/dbmeta/internal/config"
	"github.com/tordrt/dbmeta/internal/formatter"
	"github.com/tordrt/dbmeta/internal/logging"
)

// cli carries the flag values and the state shared by the subcommands
type cli struct {
	configPath       string
	dbURL            string
	schemaName       string
	format           string
	outputFile       string
	logLevel         string
	seqURL           string
	invertedFulltext bool

	cfg     config.Config
	logger  *slog.Logger
	cleanup func()
}

func (c *cli) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dbmeta",
		Short: "Inspect index and storage engine metadata",
		Long: `dbmeta reads index metadata from MySQL, PostgreSQL or SQLite and storage engine
metadata from MySQL. It lists indexes by kind, reports duplicate indexes and
describes the storage engines of the server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "YAML config file")
	flags.StringVar(&c.dbURL, "url", "", "Database URL (postgres://, mysql:// or sqlite://)")
	flags.StringVarP(&c.schemaName, "schema", "s", "", "Schema name (default: public for PostgreSQL, database of the URL for MySQL)")
	flags.StringVarP(&c.format, "format", "f", "text", "Output format: text or markdown")
	flags.StringVarP(&c.outputFile, "output", "o", "", "Output file (default: stdout)")
	flags.StringVar(&c.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	flags.StringVar(&c.seqURL, "seq-url", "", "Seq server URL to ship logs to")
	flags.BoolVar(&c.invertedFulltext, "inverted-fulltext", false, "Select FULLTEXT indexes when FULLTEXT is left out of --kinds and drop them when it is listed")

	rootCmd.AddCommand(
		newIndexesCmd(c),
		newDuplicatesCmd(c),
		newReportCmd(c),
		newEnginesCmd(c),
		newEngineCmd(c),
		newDiskUsageCmd(c),
	)
	return rootCmd
}

// setup loads the config file, applies flag overrides and builds the logger
func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.URL = c.dbURL
	}
	if flags.Changed("schema") {
		cfg.Schema = c.schemaName
	}
	if flags.Changed("format") {
		cfg.Format = c.format
	}
	if flags.Changed("output") {
		cfg.Output = c.outputFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = c.logLevel
	}
	if flags.Changed("seq-url") {
		cfg.SeqURL = c.seqURL
	}
	if flags.Changed("inverted-fulltext") {
		cfg.InvertedFulltext = c.invertedFulltext
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	c.logger, c.cleanup = logging.SetupLogger(cmd.ErrOrStderr(), level, cfg.SeqURL)
	c.cfg = cfg
	return nil
}

// execute runs the command tree and flushes the logger whether or not the command failed
func (c *cli) execute(rootCmd *cobra.Command) error {
	cmd, err := rootCmd.ExecuteC()
	if err != nil && c.logger != nil {
		c.logger.Error("command failed", "command", cmd.CommandPath(), "error", err)
	}
	c.close()
	return err
}

func (c *cli) close() {
	if c.cleanup != nil {
		c.cleanup()
		c.cleanup = nil
	}
}

func (c *cli) open(ctx context.Context) (*dbmeta.Session, error) {
	if c.cfg.URL == "" {
		return nil, fmt.Errorf("--url must be specified (or url in the config file)")
	}
	session, err := dbmeta.Open(ctx, c.cfg.URL, &dbmeta.Options{
		SchemaName:             c.cfg.Schema,
		InvertedFulltextFilter: c.cfg.InvertedFulltext,
		Logger:                 c.logger,
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (c *cli) closeSession(session *dbmeta.Session) {
	if err := session.Close(); err != nil {
		c.logger.Warn("failed to close database connection", "error", err)
	}
}

// output opens the writer for single-file output
func (c *cli) output(cmd *cobra.Command) (io.Writer, func(), error) {
	if c.cfg.Output == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(c.cfg.Output)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			c.logger.Warn("failed to close output file", "error", err)
		}
	}, nil
}

// formatter returns the formatter writing to the selected output
func (c *cli) formatter(cmd *cobra.Command) (formatter.Formatter, func(), error) {
	w, done, err := c.output(cmd)
	if err != nil {
		return nil, nil, err
	}
	f, err := formatter.New(c.cfg.Format, w)
	if err != nil {
		done()
		return nil, nil, err
	}
	return f, done, nil
}

func parseTableList(tablesStr string) []string {
	if tablesStr == "" {
		return nil
	}
	tableList := strings.Split(tablesStr, ",")
	for i, t := range tableList {
		tableList[i] = strings.TrimSpace(t)
	}
	return tableList
}

func main() {
	c := &cli{}
	if err := c.execute(c.rootCmd()); err != nil {
		os.Exit(1)
	}
}
