package textview

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	grid "github.com/grindlemire/go-grid"
)

// DefaultMaxColumnWidth caps a column that has no explicit Width.
const DefaultMaxColumnWidth = 40

const (
	minColumnWidth = 3
	ellipsis       = "…"
	gap            = "  "
	pinDivider     = " | "
)

// cells measures strings in terminal cells. East Asian ambiguous runes are
// narrow so output does not depend on the locale of the machine.
var cells = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// StringWidth returns the display width of s in terminal cells.
func StringWidth(s string) int {
	return cells.StringWidth(s)
}

// Options controls rendering.
type Options struct {
	// MaxWidth bounds every line in terminal cells. Zero means unbounded.
	MaxWidth int
	// MaxColumnWidth caps a column without an explicit Width. Zero means
	// DefaultMaxColumnWidth.
	MaxColumnWidth int
	// HideFooter drops the pager line.
	HideFooter bool
}

// LineKind says what a layout line shows.
type LineKind int

const (
	LineRow LineKind = iota
	LineChild
	LineDetail
	LineEmpty
)

// Line is one rendered body line.
type Line struct {
	Kind LineKind
	// Key is the row the line belongs to. Child and detail lines carry the
	// key of their parent row.
	Key  grid.Key
	Text string
}

// Span is the horizontal position of one column, in cells.
type Span struct {
	Key   string
	Start int
	Width int
}

// Layout is a view resolved to text.
type Layout struct {
	Header string
	Rule   string
	Lines  []Line
	Footer string
	// Spans locates each visible column in paint order.
	Spans []Span
	// Width is the display width of the header.
	Width int
}

// String joins the layout into newline-terminated text.
func (l Layout) String() string {
	var b strings.Builder
	b.WriteString(l.Header)
	b.WriteByte('\n')
	b.WriteString(l.Rule)
	b.WriteByte('\n')
	for _, ln := range l.Lines {
		b.WriteString(ln.Text)
		b.WriteByte('\n')
	}
	if l.Footer != "" {
		b.WriteString(l.Footer)
		b.WriteByte('\n')
	}
	return b.String()
}

// RowLine returns the index in Lines of the row line for k.
func (l Layout) RowLine(k grid.Key) (int, bool) {
	for i, ln := range l.Lines {
		if ln.Kind == LineRow && ln.Key == k {
			return i, true
		}
	}
	return 0, false
}

// Render writes the text form of v to w.
func Render[T any](w io.Writer, v grid.TableView[T], opts Options) error {
	_, err := io.WriteString(w, Build(v, opts).String())
	return err
}

// String returns the text form of v.
func String[T any](v grid.TableView[T], opts Options) string {
	return Build(v, opts).String()
}

// column is one visible column with its resolved width.
type column[T any] struct {
	col      *grid.Column[T]
	title    string
	width    int
	minWidth int
	// divider is printed before the column.
	divider string
}

// Build lays v out as text.
func Build[T any](v grid.TableView[T], opts Options) Layout {
	maxCol := opts.MaxColumnWidth
	if maxCol <= 0 {
		maxCol = DefaultMaxColumnWidth
	}

	cols := visibleColumns(v)
	body := bodyRecords(v)
	for i := range cols {
		c := &cols[i]
		c.title = headerTitle(v, c.col)
		if c.col.Width > 0 {
			c.width, c.minWidth = c.col.Width, c.col.Width
			continue
		}
		w := StringWidth(c.title)
		for _, r := range body {
			w = max(w, StringWidth(CellText(c.col, r.record, r.index)))
		}
		c.width = clamp(w, minColumnWidth, maxCol)
		c.minWidth = minColumnWidth
	}

	prefix := prefixWidth(v)
	if opts.MaxWidth > 0 {
		shrink(cols, opts.MaxWidth-prefix-dividerWidth(cols))
	}

	l := Layout{}
	var hb strings.Builder
	hb.WriteString(headerPrefix(v))
	pos := prefix
	for _, c := range cols {
		hb.WriteString(c.divider)
		pos += StringWidth(c.divider)
		l.Spans = append(l.Spans, Span{Key: c.col.Key, Start: pos, Width: c.width})
		hb.WriteString(fit(c.title, c.width, c.col.Align, true))
		pos += c.width
	}
	l.Width = pos
	l.Header = finish(hb.String(), opts.MaxWidth)
	l.Rule = finish(strings.Repeat("-", l.Width), opts.MaxWidth)

	if len(v.Rows) == 0 {
		l.Lines = append(l.Lines, Line{Kind: LineEmpty, Text: finish(fit(v.EmptyText, l.Width, grid.AlignCenter, false), opts.MaxWidth)})
	}
	for _, r := range v.Rows {
		l.Lines = append(l.Lines, Line{
			Kind: LineRow,
			Key:  r.Key,
			Text: finish(rowPrefix(v, r)+cellsText(cols, r.Record, r.Index), opts.MaxWidth),
		})
		if r.Expanded {
			for _, ln := range expandedLines(v, r, cols, prefix) {
				ln.Text = finish(ln.Text, opts.MaxWidth)
				l.Lines = append(l.Lines, ln)
			}
		}
	}

	if !opts.HideFooter {
		l.Footer = finish(footer(v), opts.MaxWidth)
	}
	return l
}

func visibleColumns[T any](v grid.TableView[T]) []column[T] {
	g := v.Columns
	out := make([]column[T], 0, g.Len())
	add := func(list []*grid.Column[T], firstDivider string) {
		for i, c := range list {
			d := gap
			if i == 0 {
				d = firstDivider
			}
			out = append(out, column[T]{col: c, divider: d})
		}
	}
	add(g.PinnedStart, "")
	scrollDivider := ""
	if len(g.PinnedStart) > 0 {
		scrollDivider = pinDivider
	}
	add(g.Scrollable, scrollDivider)
	endDivider := ""
	if len(g.PinnedStart)+len(g.Scrollable) > 0 {
		endDivider = pinDivider
	}
	add(g.PinnedEnd, endDivider)
	return out
}

type bodyRecord[T any] struct {
	record T
	index  int
}

// bodyRecords returns every record drawn in the body: visible rows and
// loaded children of expanded rows.
func bodyRecords[T any](v grid.TableView[T]) []bodyRecord[T] {
	var out []bodyRecord[T]
	for _, r := range v.Rows {
		out = append(out, bodyRecord[T]{record: r.Record, index: r.Index})
		if r.Expanded {
			for i, c := range r.Children {
				out = append(out, bodyRecord[T]{record: c, index: i})
			}
		}
	}
	return out
}

func headerTitle[T any](v grid.TableView[T], c *grid.Column[T]) string {
	title := c.Title
	if title == "" {
		title = c.Key
	}
	if v.Sort.Active() && v.Sort.ColumnKey == c.Key {
		if v.Sort.Order == grid.SortAscend {
			title += " ▲"
		} else {
			title += " ▼"
		}
	}
	if v.Filters.Active(c.Key) {
		title += " *"
	}
	return title
}

// CellText returns the display text of column c for record. A Render
// result is used when it is a string.
func CellText[T any](c *grid.Column[T], record T, index int) string {
	value := c.CellValue(record)
	if c.Render != nil {
		if s, ok := c.Render(value, record, index).(string); ok {
			return flatten(s)
		}
	}
	return flatten(FormatValue(value))
}

// FormatValue formats an accessed cell value.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(time.DateOnly)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		if x {
			return "yes"
		}
		return "no"
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func flatten(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\t", " ").Replace(s)
}

func prefixWidth[T any](v grid.TableView[T]) int {
	w := 0
	if v.Selection.Enabled {
		w += 4
	}
	if v.Expansion.Enabled {
		w += 2
	}
	return w
}

func headerPrefix[T any](v grid.TableView[T]) string {
	var b strings.Builder
	if v.Selection.Enabled {
		switch {
		case v.Selection.Mode == grid.SelectRadio:
			b.WriteString("    ")
		case v.Selection.AllSelected:
			b.WriteString("[x] ")
		case v.Selection.Indeterminate:
			b.WriteString("[-] ")
		default:
			b.WriteString("[ ] ")
		}
	}
	if v.Expansion.Enabled {
		b.WriteString("  ")
	}
	return b.String()
}

func rowPrefix[T any](v grid.TableView[T], r grid.ViewRow[T]) string {
	var b strings.Builder
	if v.Selection.Enabled {
		b.WriteString(selectionMarker(v.Selection.Mode, r))
		b.WriteByte(' ')
	}
	if v.Expansion.Enabled {
		b.WriteString(expansionMarker(r))
		b.WriteByte(' ')
	}
	return b.String()
}

func selectionMarker[T any](mode grid.SelectionMode, r grid.ViewRow[T]) string {
	open, shut := "[", "]"
	if mode == grid.SelectRadio {
		open, shut = "(", ")"
	}
	mark := " "
	switch {
	case r.Selected && mode == grid.SelectRadio:
		mark = "*"
	case r.Selected:
		mark = "x"
	case r.Disabled:
		mark = "-"
	}
	return open + mark + shut
}

func expansionMarker[T any](r grid.ViewRow[T]) string {
	switch {
	case !r.Expandable:
		return " "
	case r.Status == grid.LoadLoading:
		return "~"
	case r.Status == grid.LoadError:
		return "!"
	case r.Expanded:
		return "-"
	default:
		return "+"
	}
}

func cellsText[T any](cols []column[T], record T, index int) string {
	var b strings.Builder
	for _, c := range cols {
		b.WriteString(c.divider)
		b.WriteString(fit(CellText(c.col, record, index), c.width, c.col.Align, c.col.Ellipsis))
	}
	return b.String()
}

// expandedLines draws the content under an expanded row: load state,
// custom RowRender output and loaded children.
func expandedLines[T any](v grid.TableView[T], r grid.ViewRow[T], cols []column[T], prefix int) []Line {
	indent := strings.Repeat(" ", prefix)
	detail := func(text string) Line {
		return Line{Kind: LineDetail, Key: r.Key, Text: indent + "  " + text}
	}

	var out []Line
	switch r.Status {
	case grid.LoadLoading:
		return append(out, detail("loading…"))
	case grid.LoadError:
		return append(out, detail("error: "+flatten(fmt.Sprint(r.LoadErr))))
	}

	if render := v.Expansion.RowRender; render != nil {
		if s, ok := render(r.Record, r.Index, true).(string); ok {
			for _, part := range strings.Split(s, "\n") {
				out = append(out, detail(part))
			}
		}
	}

	childIndent := indent
	if prefix >= 2 {
		childIndent = strings.Repeat(" ", prefix-2) + "└ "
	}
	for i, c := range r.Children {
		out = append(out, Line{Kind: LineChild, Key: r.Key, Text: childIndent + cellsText(cols, c, i)})
	}
	if r.Status == grid.LoadLoaded && len(r.Children) == 0 {
		out = append(out, detail("(no children)"))
	}
	return out
}

func footer[T any](v grid.TableView[T]) string {
	var parts []string
	if v.Loading {
		parts = append(parts, "loading…")
	}
	if v.Pager.Enabled {
		parts = append(parts, fmt.Sprintf("Page %d/%d", v.Page, v.TotalPages))
		if window := pageButtons(v.Pager); window != "" {
			parts = append(parts, window)
		}
		if v.Pager.TotalText != "" {
			parts = append(parts, v.Pager.TotalText)
		}
		parts = append(parts, fmt.Sprintf("%d/page", v.Pager.PageSize))
	} else {
		parts = append(parts, rowCount(v.TotalRecords))
	}
	if v.Selection.Enabled && len(v.Selection.Keys) > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", len(v.Selection.Keys)))
	}
	return strings.Join(parts, "  ")
}

func rowCount(n int) string {
	if n == 1 {
		return "1 row"
	}
	return strconv.Itoa(n) + " rows"
}

func pageButtons(p grid.PagerView) string {
	if len(p.Window) < 2 {
		return ""
	}
	buttons := make([]string, len(p.Window))
	for i, n := range p.Window {
		if n == p.Page {
			buttons[i] = "[" + strconv.Itoa(n) + "]"
		} else {
			buttons[i] = strconv.Itoa(n)
		}
	}
	return strings.Join(buttons, " ")
}

// fit truncates s to w cells and pads it according to align.
func fit(s string, w int, align grid.Align, tail bool) string {
	if w <= 0 {
		return ""
	}
	if StringWidth(s) > w {
		t := ""
		if tail {
			t = ellipsis
		}
		s = cells.Truncate(s, w, t)
	}
	pad := w - StringWidth(s)
	switch align {
	case grid.AlignRight:
		return strings.Repeat(" ", pad) + s
	case grid.AlignCenter:
		left := pad / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
	default:
		return s + strings.Repeat(" ", pad)
	}
}

// finish trims trailing blanks and enforces the line width limit.
func finish(s string, maxWidth int) string {
	s = strings.TrimRight(s, " ")
	if maxWidth > 0 && StringWidth(s) > maxWidth {
		s = cells.Truncate(s, maxWidth, "")
	}
	return s
}

func dividerWidth[T any](cols []column[T]) int {
	w := 0
	for _, c := range cols {
		w += StringWidth(c.divider)
	}
	return w
}

// shrink narrows the widest column above its minimum, one cell at a time,
// until the columns fit budget or none can shrink further.
func shrink[T any](cols []column[T], budget int) {
	total := 0
	for _, c := range cols {
		total += c.width
	}
	for total > budget {
		idx := -1
		for i, c := range cols {
			if c.width > c.minWidth && (idx == -1 || c.width > cols[idx].width) {
				idx = i
			}
		}
		if idx == -1 {
			return
		}
		cols[idx].width--
		total--
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
