package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	grid "github.com/grindlemire/go-grid"
	"github.com/grindlemire/go-grid/internal/debug"
	"github.com/grindlemire/go-grid/internal/textview"
)

// listFlag collects a repeatable string flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, " ") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// renderOptions are the table settings shared by render and browse.
type renderOptions struct {
	sort    string
	filters listFlag
	pins    listFlag
	page    int
	size    int
	all     bool
	selects string
	key     string
	width   int
	logPath string
}

func (o *renderOptions) register(fs *flag.FlagSet) {
	fs.StringVar(&o.sort, "sort", "", "Sort by `col[:ascend|descend]`")
	fs.Var(&o.filters, "filter", "Filter `col=v1,v2` (repeatable)")
	fs.Var(&o.pins, "pin", "Pin a column `col:start|end` (repeatable)")
	fs.IntVar(&o.page, "page", 1, "Page to show")
	fs.IntVar(&o.size, "size", grid.DefaultPageSize, "Rows per page")
	fs.BoolVar(&o.all, "all", false, "Disable pagination")
	fs.StringVar(&o.selects, "select", "", "Select rows by key `k1,k2`")
	fs.StringVar(&o.key, "key", "", "Field holding the row key")
	fs.StringVar(&o.logPath, "log", "", "Append a debug log to `file`")
}

// openLog starts the debug log when -log was given. The log, whether
// opened here or through GRID_DEBUG, is closed by the returned func.
func (o renderOptions) openLog() (func(), error) {
	if o.logPath != "" {
		if err := debug.Init(o.logPath); err != nil {
			return nil, err
		}
	}
	return func() { _ = debug.Close() }, nil
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	var opts renderOptions
	opts.register(fs)
	fs.IntVar(&opts.width, "width", -1, "Maximum line width, 0 for unbounded (default: terminal width)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("render: expected exactly one file")
	}
	closeLog, err := opts.openLog()
	if err != nil {
		return err
	}
	defer closeLog()

	ds, err := loadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	if opts.width < 0 {
		opts.width = terminalWidth(os.Stdout)
	}
	return render(os.Stdout, os.Stderr, ds, opts)
}

// render prints one page of ds to w. Warnings go to errw.
func render(w, errw io.Writer, ds dataset, opts renderOptions) error {
	cols, tableOpts, err := opts.table(ds)
	if err != nil {
		return err
	}
	tableOpts = append(tableOpts, grid.WithWarningHandler[record](func(wn grid.Warning) {
		fmt.Fprintf(errw, "warning: %s\n", wn.Message)
	}))

	tbl, err := grid.New(cols, tableOpts...)
	if err != nil {
		return err
	}
	defer tbl.Close()
	return textview.Render(w, tbl.View(), textview.Options{MaxWidth: opts.width})
}

// table turns the options into columns and table options for ds.
func (o renderOptions) table(ds dataset) ([]grid.Column[record], []grid.Option[record], error) {
	cols := ds.columns()
	for _, p := range o.pins {
		name, side, _ := strings.Cut(p, ":")
		i := columnIndex(cols, name)
		if i < 0 {
			return nil, nil, fmt.Errorf("pin %q: %w", name, grid.ErrUnknownColumn)
		}
		switch side {
		case "", "start":
			cols[i].Pin = grid.PinStart
		case "end":
			cols[i].Pin = grid.PinEnd
		default:
			return nil, nil, fmt.Errorf("pin %q: side must be start or end, got %q", name, side)
		}
	}

	opts := []grid.Option[record]{grid.WithData(ds.records)}
	if o.key != "" {
		if !ds.hasField(o.key) {
			return nil, nil, fmt.Errorf("key field %q not in data", o.key)
		}
		opts = append(opts, grid.WithRowKey(grid.KeyField[record](o.key)))
	}

	if o.sort != "" {
		name, order, _ := strings.Cut(o.sort, ":")
		if order == "" {
			order = "ascend"
		}
		so, err := grid.ParseSortOrder(order)
		if err != nil {
			return nil, nil, fmt.Errorf("sort: %w", err)
		}
		opts = append(opts, grid.WithDefaultSort[record](grid.SortState{ColumnKey: name, Order: so}))
	}

	if len(o.filters) > 0 {
		fs, err := parseFilters(o.filters)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, grid.WithDefaultFilters[record](fs))
	}

	if o.all {
		opts = append(opts, grid.WithoutPagination[record]())
	} else {
		opts = append(opts, grid.WithPagination[record](grid.PaginationConfig{
			PageSize: o.size,
			Current:  o.page,
		}))
	}

	if o.selects != "" {
		opts = append(opts,
			grid.WithSelection(grid.SelectionConfig[record]{}),
			grid.WithDefaultSelection[record](splitList(o.selects)),
		)
	}
	return cols, opts, nil
}

// parseFilters reads col=v1,v2 flags. Repeating a column adds values.
func parseFilters(flags []string) (grid.FilterState, error) {
	fs := grid.FilterState{}
	for _, f := range flags {
		name, values, ok := strings.Cut(f, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("filter %q: want col=v1,v2", f)
		}
		for _, v := range splitList(values) {
			fs[name] = append(fs[name], parseCell(v))
		}
	}
	return fs, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func columnIndex[T any](cols []grid.Column[T], key string) int {
	for i, c := range cols {
		if c.Key == key {
			return i
		}
	}
	return -1
}
