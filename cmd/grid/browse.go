package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	grid "github.com/grindlemire/go-grid"
	"github.com/grindlemire/go-grid/internal/debug"
	"github.com/grindlemire/go-grid/internal/textview"
)

// loadDelay simulates a slow backend for child loads.
const loadDelay = 400 * time.Millisecond

const browseHelp = "↑↓ row  ←→ column  s sort  f filter  c clear  space select  a all  enter expand  n/p page  +/- size  q quit"

func runBrowse(args []string) error {
	fs := flag.NewFlagSet("browse", flag.ExitOnError)
	var opts renderOptions
	opts.register(fs)
	group := fs.String("group", "", "Expanding a row shows the other rows with the same `field` value")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("browse: expected a file or an example name")
	}
	target := fs.Arg(0)
	closeLog, err := opts.openLog()
	if err != nil {
		return err
	}
	defer closeLog()

	loop, err := grid.NewLoop()
	if err != nil {
		return err
	}
	defer loop.Stop()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	if e, ok := findExample(target); ok {
		cols := e.columns()
		tableOpts := e.tableOptions(loop, relatedLoader(demoUsers(), grid.KeyField[user]("ID"), "Role", loadDelay))
		return browse(screen, loop, cols, tableOpts)
	}

	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("%q is neither a file nor an example", target)
	}
	ds, err := loadFile(target)
	if err != nil {
		return err
	}
	cols, tableOpts, err := opts.table(ds)
	if err != nil {
		return err
	}
	if opts.selects == "" {
		tableOpts = append(tableOpts, grid.WithSelection(grid.SelectionConfig[record]{}))
	}
	if *group != "" {
		if !ds.hasField(*group) {
			return fmt.Errorf("group field %q not in data", *group)
		}
		rk := grid.DefaultRowKey[record]()
		if opts.key != "" {
			rk = grid.KeyField[record](opts.key)
		}
		tableOpts = append(tableOpts,
			grid.WithDispatcher[record](loop),
			grid.WithExpansion(grid.ExpansionConfig[record]{
				LoadChildren: relatedLoader(ds.records, rk, *group, loadDelay),
			}),
		)
	}
	return browse(screen, loop, cols, tableOpts)
}

// browse runs an interactive table on screen until the user quits. Every
// table mutation and every draw happens on the loop goroutine.
func browse[T any](screen tcell.Screen, loop *grid.Loop, cols []grid.Column[T], opts []grid.Option[T]) error {
	tbl, err := grid.New(cols, opts...)
	if err != nil {
		return err
	}
	defer tbl.Close()

	b := newBrowser(screen, tbl, loop.Stop)
	events := make(chan tcell.Event, 64)
	go func() {
		defer close(events)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()
	grid.Watch(loop, events, b.handle)
	loop.QueueUpdate(b.draw)
	return loop.Run(context.Background())
}

// relatedLoader returns a child loader listing the other records whose
// field equals the expanded record's.
func relatedLoader[T any](records []T, rk grid.RowKey[T], field string, delay time.Duration) func(context.Context, grid.Key, T) ([]T, error) {
	return func(ctx context.Context, k grid.Key, rec T) ([]T, error) {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		want, _ := grid.FieldValue(rec, field)
		var out []T
		for i, other := range records {
			if rk.Resolve(other, i) == k {
				continue
			}
			if v, _ := grid.FieldValue(other, field); grid.CompareValues(v, want) == 0 {
				out = append(out, other)
			}
		}
		debug.Log("browse: %d records share %s=%v with row %q", len(out), field, want, k)
		return out, nil
	}
}

// browser is the interactive view over one table.
type browser[T any] struct {
	screen tcell.Screen
	table  *grid.Table[T]
	view   grid.TableView[T]
	layout textview.Layout

	// row indexes view.Rows; column indexes layout.Spans.
	row    int
	column int
	offset int

	message string
	quit    func()
}

func newBrowser[T any](screen tcell.Screen, tbl *grid.Table[T], quit func()) *browser[T] {
	b := &browser[T]{screen: screen, table: tbl, view: tbl.View(), quit: quit}
	tbl.OnView(func(v grid.TableView[T]) {
		b.view = v
		b.draw()
	})
	return b
}

func (b *browser[T]) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		b.key(ev.Key(), ev.Rune())
	case *tcell.EventResize:
		b.screen.Sync()
		b.draw()
	}
}

// key applies one key press. Table errors are shown on the status line.
func (b *browser[T]) key(k tcell.Key, r rune) {
	b.message = ""
	var err error
	switch k {
	case tcell.KeyUp:
		b.row--
	case tcell.KeyDown:
		b.row++
	case tcell.KeyLeft:
		b.column--
	case tcell.KeyRight:
		b.column++
	case tcell.KeyPgDn:
		err = b.table.NextPage()
	case tcell.KeyPgUp:
		err = b.table.PrevPage()
	case tcell.KeyEnter:
		err = b.onRow(b.table.ToggleExpand)
	case tcell.KeyEscape, tcell.KeyCtrlC:
		b.quit()
		return
	case tcell.KeyRune:
		err = b.rune(r)
	}
	if err != nil {
		b.message = err.Error()
		debug.Log("browse: key %v %q: %v", k, r, err)
	}
	b.draw()
}

func (b *browser[T]) rune(r rune) error {
	switch r {
	case 'q':
		b.quit()
		return nil
	case 'j':
		b.row++
	case 'k':
		b.row--
	case ' ':
		return b.onRow(b.table.ToggleSelect)
	case 'a':
		return b.table.ToggleSelectAll()
	case 's':
		if key, ok := b.columnKey(); ok {
			return b.table.ToggleSort(key)
		}
	case 'f':
		return b.filterCursor()
	case 'c':
		return b.table.ClearFilters()
	case 'n':
		return b.table.NextPage()
	case 'p':
		return b.table.PrevPage()
	case '+':
		return b.table.SetPageSize(b.view.Pager.PageSize + 5)
	case '-':
		return b.table.SetPageSize(max(b.view.Pager.PageSize-5, 1))
	}
	return nil
}

func (b *browser[T]) onRow(fn func(grid.Key) error) error {
	row, ok := b.current()
	if !ok {
		return nil
	}
	return fn(row.Key)
}

// filterCursor narrows the cursor column to the value under the cursor.
func (b *browser[T]) filterCursor() error {
	row, ok := b.current()
	if !ok {
		return nil
	}
	key, ok := b.columnKey()
	if !ok {
		return nil
	}
	return b.table.SetFilter(key, b.table.Columns().ValueOf(key, row.Record))
}

func (b *browser[T]) current() (grid.ViewRow[T], bool) {
	if b.row < 0 || b.row >= len(b.view.Rows) {
		return grid.ViewRow[T]{}, false
	}
	return b.view.Rows[b.row], true
}

func (b *browser[T]) columnKey() (string, bool) {
	if b.column < 0 || b.column >= len(b.layout.Spans) {
		return "", false
	}
	return b.layout.Spans[b.column].Key, true
}

// clamp keeps the cursor on a visible row and column.
func (b *browser[T]) clamp() {
	b.row = max(0, min(b.row, len(b.view.Rows)-1))
	b.column = max(0, min(b.column, len(b.layout.Spans)-1))
}

var (
	styleHeader = tcell.StyleDefault.Bold(true)
	styleCursor = tcell.StyleDefault.Reverse(true)
	styleColumn = tcell.StyleDefault.Bold(true).Underline(true)
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleError  = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

func (b *browser[T]) draw() {
	w, h := b.screen.Size()
	b.layout = textview.Build(b.view, textview.Options{MaxWidth: w})
	b.clamp()
	b.screen.Clear()

	drawText(b.screen, 0, 0, w, b.layout.Header, styleHeader)
	if len(b.layout.Spans) > 0 {
		s := b.layout.Spans[b.column]
		drawText(b.screen, s.Start, 0, min(s.Start+s.Width, w), cellsFrom(b.layout.Header, s.Start, s.Width), styleColumn)
	}
	drawText(b.screen, 0, 1, w, b.layout.Rule, styleDim)

	body := max(h-4, 1)
	cursorLine := 0
	if row, ok := b.current(); ok {
		cursorLine, _ = b.layout.RowLine(row.Key)
	}
	if cursorLine < b.offset {
		b.offset = cursorLine
	}
	if cursorLine >= b.offset+body {
		b.offset = cursorLine - body + 1
	}
	b.offset = max(0, min(b.offset, len(b.layout.Lines)-1))

	for i := 0; i < body && b.offset+i < len(b.layout.Lines); i++ {
		ln := b.layout.Lines[b.offset+i]
		style := tcell.StyleDefault
		switch {
		case ln.Kind == textview.LineRow && b.offset+i == cursorLine:
			style = styleCursor
		case ln.Kind == textview.LineDetail, ln.Kind == textview.LineEmpty:
			style = styleDim
		}
		drawText(b.screen, 0, 2+i, w, ln.Text, style)
	}

	drawText(b.screen, 0, h-2, w, b.layout.Footer, styleHeader)
	if b.message != "" {
		drawText(b.screen, 0, h-1, w, b.message, styleError)
	} else {
		drawText(b.screen, 0, h-1, w, browseHelp, styleDim)
	}
	b.screen.Show()
}

// drawText paints s from x until limit. Zero-width runes combine with the
// preceding cell.
func drawText(s tcell.Screen, x, y, limit int, text string, style tcell.Style) {
	type cell struct {
		x    int
		main rune
		comb []rune
	}
	var cur *cell
	flush := func() {
		if cur != nil {
			s.SetContent(cur.x, y, cur.main, cur.comb, style)
		}
	}
	for _, r := range text {
		rw := textview.StringWidth(string(r))
		if rw == 0 && cur != nil {
			cur.comb = append(cur.comb, r)
			continue
		}
		if x+rw > limit {
			break
		}
		flush()
		cur = &cell{x: x, main: r}
		x += rw
	}
	flush()
}

// cellsFrom returns the part of line covering width cells from start.
func cellsFrom(line string, start, width int) string {
	pos := 0
	var out []rune
	for _, r := range line {
		rw := textview.StringWidth(string(r))
		if pos >= start && pos+rw <= start+width {
			out = append(out, r)
		}
		pos += rw
		if pos >= start+width {
			break
		}
	}
	return string(out)
}
