package cmd

import (
	"fmt"
	"os"
	"strings"

	"label-ingest/core/config"
	"label-ingest/core/database"
	"label-ingest/feature/label/spl"

	"github.com/beevik/etree"
	"github.com/spf13/cobra"
)

var (
	showTables  bool
	showColumns bool
)

// Tables materialized by an ingestion run, in dependency order.
var repositoryTables = []string{
	"documents",
	"sections",
	"section_hierarchies",
	"products",
	"packaging_levels",
	"product_characteristics",
}

// inspectCmd prints the section tree of a label document and, on request,
// summarizes the repository tables.
var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Inspect a label document or the repository",
	Long: `Inspect prints the section tree of an SPL document without ingesting it,
which is useful to preview what an ingestion run would materialize.

With --tables it connects to the configured database and prints per-table
row counts; --columns additionally prints each table's schema.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&showTables, "tables", false, "Print row counts for the repository tables")
	inspectCmd.Flags().BoolVar(&showColumns, "columns", false, "Print column definitions for each table (implies --tables)")

	RootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	if showColumns {
		showTables = true
	}
	if len(args) == 0 && !showTables {
		return fmt.Errorf("nothing to inspect; pass a file or use --tables")
	}

	if len(args) == 1 {
		if err := inspectDocument(args[0]); err != nil {
			return err
		}
	}

	if showTables {
		if err := inspectTables(); err != nil {
			return err
		}
	}
	return nil
}

func inspectDocument(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	root, err := spl.Parse(f)
	if err != nil {
		return err
	}

	fmt.Printf("Document: %s\n", attrOf(root.SelectElement("id"), "root"))
	if title := spl.Text(root.SelectElement("title")); title != nil {
		fmt.Printf("Title:    %s\n", *title)
	}
	fmt.Println()

	body := root.SelectElement("component")
	if body != nil {
		body = body.SelectElement("structuredBody")
	}
	if body == nil {
		fmt.Println("No structured body.")
		return nil
	}

	for _, component := range body.SelectElements("component") {
		if section := component.SelectElement("section"); section != nil {
			printSection(section, 0)
		}
	}
	return nil
}

func printSection(section *etree.Element, depth int) {
	indent := strings.Repeat("  ", depth)

	guid := attrOf(section.SelectElement("id"), "root")
	code := attrOf(section.SelectElement("code"), "code")
	title := "(untitled)"
	if t := spl.Text(section.SelectElement("title")); t != nil {
		title = *t
	}
	fmt.Printf("%s- [%s] %s  (%s)\n", indent, code, title, guid)

	for _, component := range section.SelectElements("component") {
		if child := component.SelectElement("section"); child != nil {
			printSection(child, depth+1)
		}
	}
}

func inspectTables() error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	fmt.Println("Repository tables:")
	for _, table := range repositoryTables {
		count, err := database.GetTableRowCount(db, table)
		if err != nil {
			return err
		}
		fmt.Printf("  %-25s %d rows\n", table, count)

		if showColumns {
			columns, err := database.GetTableColumns(db, table)
			if err != nil {
				return err
			}
			for _, col := range columns {
				fmt.Printf("    %-30s %s\n", col.Field, col.Type)
			}
		}
	}
	return nil
}

func attrOf(el *etree.Element, name string) string {
	if v := spl.Attr(el, name); v != nil {
		return *v
	}
	return "(none)"
}
