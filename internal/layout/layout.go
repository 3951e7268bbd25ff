package layout

// Rows the list and search screens spend on chrome around the item rows:
// title, key help, two blank lines, pending input, status line, footer and
// one spare line for the terminal's cursor row.
const ReservedListRows = 8

// Rows the story screen spends above and below the scrolling comment body.
const ReservedStoryRows = 9

const (
	minWrapWidth  = 20
	maxWrapWidth  = 100
	wrapMargin    = 5
	defaultRows   = 24
	defaultColumn = 80
)

// Calculator derives how much content fits on screen. Ceiling caps the page
// size; zero or less means no cap.
type Calculator struct {
	Ceiling int
}

// PageSize is min(Ceiling, max(1, rows-reserved)). It never grows when rows
// shrink and never returns less than one.
func (c Calculator) PageSize(rows, cols, reserved int) int {
	_ = cols
	if rows <= 0 {
		rows = defaultRows
	}
	size := rows - reserved
	if size < 1 {
		size = 1
	}
	if c.Ceiling > 0 && size > c.Ceiling {
		size = c.Ceiling
	}
	return size
}

// WrapWidth is the text column width for a terminal cols wide.
func WrapWidth(cols int) int {
	if cols <= 0 {
		cols = defaultColumn
	}
	width := cols - wrapMargin
	if width > maxWrapWidth {
		width = maxWrapWidth
	}
	if width < minWrapWidth {
		width = minWrapWidth
	}
	return width
}

// IndentedWrapWidth narrows WrapWidth for text nested indent columns deep.
func IndentedWrapWidth(cols, indent int) int {
	width := WrapWidth(cols) - indent
	if width < minWrapWidth {
		width = minWrapWidth
	}
	return width
}

// BodyRows is how many lines of scrolling body fit on the story screen.
func BodyRows(rows int) int {
	if rows <= 0 {
		rows = defaultRows
	}
	body := rows - ReservedStoryRows
	if body < 3 {
		body = 3
	}
	return body
}

// Window clamps a scroll offset so that [start, end) shows at most height
// of total lines.
func Window(total, offset, height int) (int, int) {
	if total <= 0 {
		return 0, 0
	}
	if height <= 0 || total <= height {
		return 0, total
	}
	maxStart := total - height
	if offset > maxStart {
		offset = maxStart
	}
	if offset < 0 {
		offset = 0
	}
	return offset, offset + height
}
