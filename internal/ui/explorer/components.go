package explorer

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

func newModal(content tview.Primitive, width, height int) tview.Primitive {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 10
	}

	grid := tview.NewGrid().
		SetRows(0, height, 0).
		SetColumns(0, width, 0).
		AddItem(content, 1, 1, 1, 1, 0, 0, true)

	return grid
}

func newHeaderCell(text string) *tview.TableCell {
	return tview.NewTableCell(text).
		SetAttributes(tcell.AttrBold).
		SetSelectable(false)
}
