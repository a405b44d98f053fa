// Command wsl is a thin CLI over the wsl module's core packages: it reads
// and validates WSL files, reformats them, and can materialize one into a
// live MySQL database. No datatype or schema logic lives here.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wsl-format/wsl/integrity"
	"github.com/wsl-format/wsl/mysqlexport"
	"github.com/wsl-format/wsl/report"
	"github.com/wsl-format/wsl/wsldb"
	"github.com/wsl-format/wsl/wslconfig"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cfg is the config file loaded by the root command's --config flag, if
// any; nil when no --config was given. Subcommands consult it only for
// flags the caller did not explicitly set.
var cfg *wslconfig.Config

func newRootCmd() *cobra.Command {
	var configPath string
	rootCmd := &cobra.Command{
		Use:   "wsl",
		Short: "Read, validate, and reformat WSL database files",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return nil
			}
			loaded, err := wslconfig.LoadFile(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config %q: %w", configPath, err)
			}
			cfg = loaded
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a wslconfig TOML file of CLI defaults")

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newFormatCmd())
	rootCmd.AddCommand(newExportMySQLCmd())
	return rootCmd
}

func readDatabase(path string) (*wsldb.Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer f.Close()

	src := wsldb.NewScannerLineSource(f)
	db, err := wsldb.Read(src, wsldb.ReadOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	if scanErr := src.Err(); scanErr != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, scanErr)
	}
	return db, nil
}

func newCheckCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Read a WSL file and report integrity violations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := readDatabase(args[0])
			if err != nil {
				return err
			}

			violations := integrity.Check(db.Schema, db.Tables)
			formatter, err := report.NewFormatter(format)
			if err != nil {
				return err
			}
			out, err := formatter.Format(violations)
			if err != nil {
				return fmt.Errorf("failed to format report: %w", err)
			}
			fmt.Print(out)
			if len(violations) > 0 {
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "report format: human or json")
	return cmd
}

func newFormatCmd() *cobra.Command {
	var inlineSchema bool
	var outFile string
	cmd := &cobra.Command{
		Use:   "format <file>",
		Short: "Read a WSL file and write it back out in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg != nil && !cmd.Flags().Changed("inline-schema") {
				inlineSchema = cfg.InlineSchema
			}

			db, err := readDatabase(args[0])
			if err != nil {
				return err
			}

			out, err := db.Write(wsldb.WriteOptions{InlineSchema: inlineSchema})
			if err != nil {
				return fmt.Errorf("failed to format %q: %w", args[0], err)
			}
			if outFile == "" {
				_, err = os.Stdout.Write(out)
				return err
			}
			if err := os.WriteFile(outFile, out, 0644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&inlineSchema, "inline-schema", false, "prepend the schema as a %-prefixed header")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (defaults to stdout)")
	return cmd
}

func newExportMySQLCmd() *cobra.Command {
	var dsn string
	var tablePrefix string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "export-mysql <file>",
		Short: "Materialize a WSL database into a MySQL server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg != nil {
				if !cmd.Flags().Changed("dsn") {
					dsn = cfg.MySQLExport.DSN
				}
				if !cmd.Flags().Changed("table-prefix") {
					tablePrefix = cfg.MySQLExport.TablePrefix
				}
				if !cmd.Flags().Changed("dry-run") {
					dryRun = cfg.MySQLExport.DryRun
				}
			}

			db, err := readDatabase(args[0])
			if err != nil {
				return err
			}

			exporter := mysqlexport.NewExporter(mysqlexport.Options{
				DSN:         dsn,
				TablePrefix: tablePrefix,
				DryRun:      dryRun,
				Out:         os.Stdout,
			})
			ctx := context.Background()
			if err := exporter.Connect(ctx); err != nil {
				return err
			}
			defer exporter.Close()

			if err := exporter.Export(ctx, db); err != nil {
				return fmt.Errorf("failed to export %q: %w", args[0], err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", "", "MySQL DSN, e.g. user:pass@tcp(127.0.0.1:3306)/dbname")
	cmd.Flags().StringVar(&tablePrefix, "table-prefix", "", "prefix applied to every generated table name")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print generated DDL/DML instead of executing it")
	return cmd
}
