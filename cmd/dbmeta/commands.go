package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tordrt/dbmeta"
	"github.com/tordrt/dbmeta/internal/index"
)

func newIndexesCmd(c *cli) *cobra.Command {
	var tables, exclude, kinds string

	cmd := &cobra.Command{
		Use:   "indexes",
		Short: "List the indexes of tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mask, err := index.ParseMask(kinds)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			session, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer c.closeSession(session)

			tableList, err := session.Tables(ctx, parseTableList(tables), parseTableList(exclude))
			if err != nil {
				return err
			}
			reports, err := session.Report(ctx, tableList, mask)
			if err != nil {
				return err
			}

			f, done, err := c.formatter(cmd)
			if err != nil {
				return err
			}
			defer done()
			if err := f.FormatIndexes(reports); err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&tables, "table", "t", "", "Tables (comma-separated, default: all tables)")
	cmd.Flags().StringVarP(&exclude, "exclude", "e", "", "Tables to leave out (comma-separated)")
	cmd.Flags().StringVarP(&kinds, "kinds", "k", "", "Index kinds: primary, unique, index, spatial, fulltext (comma-separated, default: all)")
	return cmd
}

func newDuplicatesCmd(c *cli) *cobra.Command {
	var tables, exclude string

	cmd := &cobra.Command{
		Use:   "duplicates",
		Short: "Report indexes that seem to be equal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			session, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer c.closeSession(session)

			tableList, err := session.Tables(ctx, parseTableList(tables), parseTableList(exclude))
			if err != nil {
				return err
			}
			reports, err := session.Report(ctx, tableList, index.MaskAll)
			if err != nil {
				return err
			}

			f, done, err := c.formatter(cmd)
			if err != nil {
				return err
			}
			defer done()
			if err := f.FormatDuplicates(reports); err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&tables, "table", "t", "", "Tables (comma-separated, default: all tables)")
	cmd.Flags().StringVarP(&exclude, "exclude", "e", "", "Tables to leave out (comma-separated)")
	return cmd
}

func newReportCmd(c *cli) *cobra.Command {
	var tables, exclude, outputDir string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write an overview plus one index file per table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("output-dir") {
				c.cfg.OutputDir = outputDir
			}
			if c.cfg.OutputDir == "" {
				return fmt.Errorf("--output-dir must be specified")
			}
			if c.cfg.Output != "" {
				return fmt.Errorf("cannot use both --output-dir and --output flags")
			}

			ctx := cmd.Context()
			session, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer c.closeSession(session)

			tableList, err := session.Tables(ctx, parseTableList(tables), parseTableList(exclude))
			if err != nil {
				return err
			}
			reports, err := session.Report(ctx, tableList, index.MaskAll)
			if err != nil {
				return err
			}

			err = dbmeta.WriteReport(reports, &dbmeta.OutputOptions{OutputDir: c.cfg.OutputDir, Format: c.cfg.Format})
			if err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d tables to %s\n", len(reports), c.cfg.OutputDir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&tables, "table", "t", "", "Tables (comma-separated, default: all tables)")
	cmd.Flags().StringVarP(&exclude, "exclude", "e", "", "Tables to leave out (comma-separated)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Output directory")
	return cmd
}

func newEnginesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "List the storage engines available for new tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			session, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer c.closeSession(session)

			engines, err := session.AvailableEngines(ctx)
			if err != nil {
				return err
			}
			f, done, err := c.formatter(cmd)
			if err != nil {
				return err
			}
			defer done()
			return f.FormatEngines(engines)
		},
	}
}

func newEngineCmd(c *cli) *cobra.Command {
	var page string

	cmd := &cobra.Command{
		Use:   "engine NAME",
		Short: "Describe a storage engine and its variables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			session, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer c.closeSession(session)

			f, done, err := c.formatter(cmd)
			if err != nil {
				return err
			}
			defer done()

			if page != "" {
				e, err := session.Engine(ctx, args[0])
				if err != nil {
					return err
				}
				p, err := e.Page(ctx, page)
				if err != nil {
					return err
				}
				return f.FormatPage(p)
			}

			report, err := session.EngineReport(ctx, args[0])
			if err != nil {
				return err
			}
			return f.FormatEngine(report)
		},
	}
	cmd.Flags().StringVarP(&page, "page", "p", "", "Info page to show (e.g. Bufferpool, Status)")
	return cmd
}

func newDiskUsageCmd(c *cli) *cobra.Command {
	var table string

	cmd := &cobra.Command{
		Use:   "disk-usage",
		Short: "Show the data and index bytes of a Mroonga table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			session, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer c.closeSession(session)

			usage, err := session.DiskUsage(ctx, table)
			if err != nil {
				return err
			}
			f, done, err := c.formatter(cmd)
			if err != nil {
				return err
			}
			defer done()
			return f.FormatDiskUsage(usage)
		},
	}
	cmd.Flags().StringVarP(&table, "table", "t", "", "Table name")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}
