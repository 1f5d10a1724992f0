// Package textview renders a grid.TableView as fixed-width text.
//
// Column widths are measured in terminal cells with go-runewidth, so wide
// (CJK) and combining characters line up. Build returns a Layout that
// records where every row and column landed; the interactive browser uses
// it to place its cursor. Render and String produce plain text for
// non-interactive output.
package textview
