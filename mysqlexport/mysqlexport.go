// Package mysqlexport materializes a parsed WSL *wsldb.Database into a live
// MySQL database: one table per relation, one column per domain, KEY
// constraints as UNIQUE KEY, REFERENCE constraints as FOREIGN KEY.
package mysqlexport

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"github.com/wsl-format/wsl/datatype"
	"github.com/wsl-format/wsl/schema"
	"github.com/wsl-format/wsl/wsldb"
)

// Options configures an Exporter.
type Options struct {
	DSN         string
	TablePrefix string
	DryRun      bool
	Out         io.Writer
}

// Exporter connects to a MySQL server and applies the DDL/DML generated
// from a wsldb.Database. In DryRun mode it never opens a connection; it
// only writes the generated statements to Out.
type Exporter struct {
	db      *sql.DB
	options Options
	out     io.Writer
}

// NewExporter returns an Exporter configured with options.
func NewExporter(options Options) *Exporter {
	out := options.Out
	if out == nil {
		out = io.Discard
	}
	return &Exporter{options: options, out: out}
}

func (e *Exporter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(e.out, format, args...)
}

// Connect opens and pings a MySQL connection. It is a no-op in DryRun mode.
func (e *Exporter) Connect(ctx context.Context) error {
	if e.options.DryRun {
		return nil
	}
	db, err := sql.Open("mysql", e.options.DSN)
	if err != nil {
		return fmt.Errorf("mysqlexport: open database connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return fmt.Errorf("mysqlexport: ping database: %w; additionally failed to close connection: %w", err, closeErr)
		}
		return fmt.Errorf("mysqlexport: ping database: %w", err)
	}
	e.db = db
	return nil
}

// Close closes the underlying connection, if one was opened.
func (e *Exporter) Close() error {
	if e.db != nil {
		return e.db.Close()
	}
	return nil
}

// Export generates the full DDL (CREATE TABLE per relation, in schema
// declaration order) and DML (INSERT per row) for db and either executes
// it against the connected MySQL server, or (DryRun) writes it to Out.
func (e *Exporter) Export(ctx context.Context, db *wsldb.Database) error {
	statements, err := e.GenerateDDL(db.Schema)
	if err != nil {
		return err
	}
	statements = append(statements, e.GenerateInserts(db)...)

	if e.options.DryRun {
		e.printf("-- %d statement(s)\n", len(statements))
		for _, stmt := range statements {
			e.printf("%s\n", stmt)
		}
		return nil
	}

	for _, stmt := range statements {
		if _, err := e.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("mysqlexport: exec failed: %w\n  statement: %s", err, stmt)
		}
	}
	return nil
}

func (e *Exporter) tableName(relation string) string {
	return e.options.TablePrefix + relation
}

// GenerateDDL builds one CREATE TABLE statement per relation (in
// RelationOrder for determinism), followed by one ALTER TABLE ... ADD
// CONSTRAINT per REFERENCE (so forward references between tables never
// need statement reordering).
func (e *Exporter) GenerateDDL(sch *schema.Schema) ([]string, error) {
	var stmts []string

	uniqueByTable := map[string][]schema.KeyConstraint{}
	for _, name := range sch.KeyOrder {
		kc := sch.TupleOfKey[name]
		uniqueByTable[kc.Table] = append(uniqueByTable[kc.Table], kc)
	}

	for _, relation := range sch.RelationOrder {
		domains := sch.DomainsOfRelation[relation]
		dts := sch.DatatypesOfRelation[relation]

		var cols []string
		for i, domain := range domains {
			colDDL, err := columnDDL(domain, dts[i])
			if err != nil {
				return nil, fmt.Errorf("mysqlexport: table %q: %w", relation, err)
			}
			cols = append(cols, fmt.Sprintf("  `%s` %s NOT NULL", columnName(domain, i), colDDL))
		}
		for _, kc := range uniqueByTable[relation] {
			cols = append(cols, fmt.Sprintf("  UNIQUE KEY (%s)", quoteColumns(domains, kc.Columns)))
		}

		stmt := fmt.Sprintf("CREATE TABLE `%s` (\n%s\n);", e.tableName(relation), strings.Join(cols, ",\n"))
		stmts = append(stmts, stmt)
	}

	for _, name := range sch.ReferenceOrder {
		rc := sch.TupleOfReference[name]
		localDomains := sch.DomainsOfRelation[rc.LocalTable]
		foreignDomains := sch.DomainsOfRelation[rc.ForeignTable]
		stmt := fmt.Sprintf(
			"ALTER TABLE `%s` ADD FOREIGN KEY (%s) REFERENCES `%s` (%s);",
			e.tableName(rc.LocalTable), quoteColumns(localDomains, rc.LocalColumns),
			e.tableName(rc.ForeignTable), quoteColumns(foreignDomains, rc.ForeignColumns),
		)
		stmts = append(stmts, stmt)
	}

	return stmts, nil
}

// GenerateInserts builds one INSERT statement per row, relations in
// RelationOrder and rows in their existing Tables slice order.
func (e *Exporter) GenerateInserts(db *wsldb.Database) []string {
	var stmts []string
	for _, relation := range db.Schema.RelationOrder {
		domains := db.Schema.DomainsOfRelation[relation]
		dts := db.Schema.DatatypesOfRelation[relation]
		for _, row := range db.Tables[relation] {
			values := make([]string, len(row))
			for i, v := range row {
				values[i] = sqlLiteral(v, dts[i])
			}
			stmt := fmt.Sprintf("INSERT INTO `%s` (%s) VALUES (%s);",
				e.tableName(relation), quoteColumns(domains, allIndices(len(domains))), strings.Join(values, ", "))
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func columnName(domain string, ordinal int) string {
	return fmt.Sprintf("%s_%d", strings.ToLower(domain), ordinal)
}

func quoteColumns(domains []string, columns []int) string {
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = "`" + columnName(domains[col], col) + "`"
	}
	return strings.Join(names, ", ")
}

// columnDDL maps a domain's resolved datatype onto a MySQL column type.
func columnDDL(domain string, dt datatype.Datatype) (string, error) {
	name, ok := datatype.BuiltinName(dt)
	if !ok {
		return "", fmt.Errorf("domain %q: no MySQL column mapping for extension datatype", domain)
	}
	switch name {
	case "Atom":
		return "VARCHAR(255)", nil
	case "String":
		return "TEXT", nil
	case "Integer":
		return "BIGINT UNSIGNED", nil
	case "IPv4":
		return "VARCHAR(15)", nil
	case "Enum":
		variants, _ := datatype.EnumVariants(dt)
		quoted := make([]string, len(variants))
		for i, v := range variants {
			quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
		}
		return fmt.Sprintf("ENUM(%s)", strings.Join(quoted, ", ")), nil
	default:
		return "", fmt.Errorf("domain %q: unrecognized built-in datatype %q", domain, name)
	}
}

// sqlLiteral renders value as a MySQL literal using dt to recover its
// textual form, falling back to quoting %v on an encode failure (which
// should not happen for a row that already round-tripped through the
// tuple codec).
func sqlLiteral(value any, dt datatype.Datatype) string {
	tok, err := dt.Encode(value)
	if err != nil {
		return fmt.Sprintf("'%v'", value)
	}
	return "'" + strings.ReplaceAll(string(tok), "'", "''") + "'"
}
