package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/doms3/chatty/internal"
	"github.com/spf13/cobra"
)

var (
	inspectSampleRows int
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [database-path]",
	Short: "Inspect the usage ledger database",
	Long: `Inspect the schema and content of the usage ledger (or another SQLite
database given as argument). The database is opened read-only.

This command provides:
  • Tables with their columns and types
  • Row counts
  • The most recent rows of each table`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := paths.UsageDB
		if len(args) > 0 {
			dbPath = args[0]
		}
		return inspectDatabase(cmd.OutOrStdout(), dbPath)
	},
}

func inspectDatabase(out io.Writer, dbPath string) error {
	db, err := internal.OpenDatabaseReadOnly(dbPath)
	if err != nil {
		return &internal.LedgerError{Op: "open", Err: err}
	}
	defer func() { _ = db.Close() }()

	tables, err := getTables(db)
	if err != nil {
		return fmt.Errorf("failed to get tables: %w", err)
	}

	fmt.Fprintln(out, headerStyle.Render("Database: "+dbPath))
	if len(tables) == 0 {
		fmt.Fprintln(out, warningStyle.Render("⚠️  No tables found in database"))
		return nil
	}
	fmt.Fprintf(out, "Found %d table(s)\n\n", len(tables))

	for _, tableName := range tables {
		if err := inspectTable(out, db, tableName); err != nil {
			fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("⚠️  Error inspecting table %s: %v", tableName, err)))
		}
		fmt.Fprintln(out)
	}
	return nil
}

func getTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// quoteIdent quotes a table or column name for use in a statement
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func inspectTable(out io.Writer, db *sql.DB, tableName string) error {
	fmt.Fprintln(out, sectionStyle.Render("Table: "+tableName))

	var rowCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + quoteIdent(tableName)).Scan(&rowCount); err != nil {
		return fmt.Errorf("failed to get row count: %w", err)
	}
	fmt.Fprintf(out, "Rows: %s\n", countStyle.Render(fmt.Sprint(rowCount)))

	columns, err := getTableSchema(db, tableName)
	if err != nil {
		return fmt.Errorf("failed to get schema: %w", err)
	}

	fmt.Fprintln(out, "Schema:")
	for _, col := range columns {
		pk := ""
		if col.PrimaryKey {
			pk = " [PRIMARY KEY]"
		}
		notNull := ""
		if col.NotNull {
			notNull = " NOT NULL"
		}
		fmt.Fprintf(out, "  • %s: %s%s%s\n", col.Name, col.Type, notNull, pk)
	}

	if rowCount > 0 && inspectSampleRows > 0 {
		return showSampleData(out, db, tableName, columns, inspectSampleRows)
	}
	return nil
}

// ColumnInfo describes one column of a table
type ColumnInfo struct {
	Name       string
	Type       string
	NotNull    bool
	PrimaryKey bool
}

func getTableSchema(db *sql.DB, tableName string) ([]ColumnInfo, error) {
	rows, err := db.Query("PRAGMA table_info(" + quoteIdent(tableName) + ")")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var columns []ColumnInfo
	for rows.Next() {
		var col ColumnInfo
		var cid, notNull, pk int
		var defaultValue sql.NullString
		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &defaultValue, &pk); err != nil {
			return nil, err
		}
		col.NotNull = notNull == 1
		col.PrimaryKey = pk == 1
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// showSampleData prints the last rows of a table by rowid, newest first
func showSampleData(out io.Writer, db *sql.DB, tableName string, columns []ColumnInfo, limit int) error {
	if len(columns) == 0 {
		return nil
	}

	colNames := make([]string, len(columns))
	for i, col := range columns {
		colNames[i] = quoteIdent(col.Name)
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid DESC LIMIT %d", strings.Join(colNames, ", "), quoteIdent(tableName), limit)
	rows, err := db.Query(query)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	fmt.Fprintf(out, "Latest rows (up to %d):\n", limit)
	rowNum := 0
	for rows.Next() {
		rowNum++
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return err
		}

		fmt.Fprintf(out, "  Row %d:\n", rowNum)
		for i, col := range columns {
			fmt.Fprintf(out, "    %s: %s\n", col.Name, formatValue(values[i]))
		}
	}
	return rows.Err()
}

func formatValue(val interface{}) string {
	if val == nil {
		return "<NULL>"
	}
	var s string
	if b, ok := val.([]byte); ok {
		s = string(b)
	} else {
		s = fmt.Sprintf("%v", val)
	}
	// Truncate long values
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	// Show first line only for multi-line values
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + "..."
	}
	return s
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().IntVar(&inspectSampleRows, "sample", 3, "Number of recent rows to show per table")
}
