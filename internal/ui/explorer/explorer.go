package explorer

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/isabella232/cloud-spanner-emulator/internal/dump"
	"github.com/isabella232/cloud-spanner-emulator/internal/schema/catalog"
)

// Run opens the interactive browser over a schema snapshot: tables on the
// left, columns and object details on the right. The snapshot is immutable,
// so everything renders synchronously.
func Run(databaseName string, schema *catalog.Schema) error {
	tables := schema.Tables()

	app := tview.NewApplication()
	list := tview.NewList().ShowSecondaryText(false)
	columnsView := tview.NewTable().SetFixed(1, 0).SetSelectable(true, false)
	meta := tview.NewTextView().SetDynamicColors(true)
	pages := tview.NewPages()

	render := func(index int) {
		if index < 0 || index >= len(tables) {
			return
		}
		renderTable(tables[index], columnsView, meta)
	}

	if len(tables) == 0 {
		list.AddItem("No tables defined", "", 0, nil)
		meta.SetText(fmt.Sprintf("Database %s has an empty schema.", databaseName))
	} else {
		for _, table := range tables {
			list.AddItem(table.Name(), "", 0, nil)
		}
		list.SetChangedFunc(func(index int, main, secondary string, shortcut rune) {
			render(index)
		})
		list.SetCurrentItem(0)
		render(0)
		meta.SetText("[::b]Select a table to inspect.[-:-:-]\nPress 'd' for DDL, 'q' to exit.")
	}

	layout := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list.SetBorder(true).SetTitle("Tables"), 30, 1, true).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(columnsView.SetBorder(true).SetTitle("Columns"), 0, 3, false).
			AddItem(meta.SetBorder(true).SetTitle("Details"), 9, 1, false),
			0, 3, false)

	pages.AddPage("main", layout, true, true)

	app.SetRoot(pages, true).
		SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
			if event.Key() == tcell.KeyRune {
				switch event.Rune() {
				case 'q', 'Q':
					app.Stop()
					return nil
				case 'd', 'D':
					if index := list.GetCurrentItem(); index >= 0 && index < len(tables) {
						showDDLModal(app, pages, dump.TableDDL(tables[index]))
					}
					return nil
				}
			}
			return event
		})

	return app.Run()
}

func renderTable(table *catalog.Table, columnsView *tview.Table, meta *tview.TextView) {
	columnsView.Clear()
	headers := []string{"Column", "Type", "Nullable", "Source"}
	for col, header := range headers {
		columnsView.SetCell(0, col, newHeaderCell(header))
	}
	for row, column := range table.Columns() {
		source := ""
		if column.SourceColumn() != nil {
			source = column.SourceColumn().Name()
		}
		cells := []string{
			column.Name(),
			column.Type().String(),
			fmt.Sprintf("%t", column.Nullable()),
			source,
		}
		for col, text := range cells {
			columnsView.SetCell(row+1, col, tview.NewTableCell(text))
		}
	}

	var details strings.Builder
	fmt.Fprintf(&details, "[::b]%s[-:-:-]\n", table.Name())
	fmt.Fprintf(&details, "Primary key: %s\n", keyColumnNames(table.PrimaryKey()))
	if parent := table.Parent(); parent != nil {
		fmt.Fprintf(&details, "Interleaved in %s ON DELETE %s\n", parent.Name(), table.OnDelete())
	}
	for _, index := range table.Indexes() {
		fmt.Fprintf(&details, "Index %s (%s)\n", index.Name(), keyColumnNames(index.KeyColumns()))
	}
	for _, fk := range table.ForeignKeys() {
		fmt.Fprintf(&details, "Foreign key %s -> %s\n", fk.Name(), fk.ReferencedTable().Name())
	}
	meta.SetText(details.String())
}

func keyColumnNames(keys []*catalog.KeyColumn) string {
	if len(keys) == 0 {
		return "(none)"
	}
	names := make([]string, len(keys))
	for pos, key := range keys {
		names[pos] = key.Column().Name()
		if key.Descending() {
			names[pos] += " DESC"
		}
	}
	return strings.Join(names, ", ")
}

func showDDLModal(app *tview.Application, pages *tview.Pages, ddlText string) {
	view := tview.NewTextView().SetText(ddlText + ";")
	view.SetBorder(true).SetTitle("DDL (press Esc to close)")
	view.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			pages.RemovePage("ddl")
			app.SetFocus(pages)
		}
		return event
	})
	pages.AddPage("ddl", newModal(view, 90, 20), true, true)
	app.SetFocus(view)
}
