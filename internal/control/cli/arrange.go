package cli

import (
	"github.com/ja-he/workbench/internal/presentation"
	"github.com/ja-he/workbench/internal/util"
)

// StackInfo is what arranging needs to know about a stack.
type StackInfo struct {
	ID      string
	Editors bool
	State   presentation.State
}

// leftColumnWidth is the share of the width, in percent, given to the stacks
// declared before the editor stack.
const leftColumnWidth = 25

// Arrange distributes the screen area of the given width and height among
// the stacks.
//
// A maximized stack takes all of it. Otherwise the stacks declared before
// the editor stack form a left column, the editor stack and those after it a
// right column. A minimized stack keeps a single row for its tabs, and the
// editor stack gets twice the height of other stacks.
// Stacks that are not shown get an empty rectangle.
func Arrange(stacks []StackInfo, w, h int) map[string]util.Rect {
	result := map[string]util.Rect{}
	for _, s := range stacks {
		result[s.ID] = util.Rect{}
	}
	for _, s := range stacks {
		if s.State == presentation.Maximized {
			result[s.ID] = util.Rect{X: 0, Y: 0, W: w, H: h}
			return result
		}
	}

	split := 0
	for i, s := range stacks {
		if s.Editors {
			split = i
			break
		}
	}
	left, right := stacks[:split], stacks[split:]

	x := 0
	if len(left) > 0 {
		leftW := w * leftColumnWidth / 100
		arrangeColumn(result, left, util.Rect{X: 0, Y: 0, W: leftW, H: h})
		x = leftW
	}
	arrangeColumn(result, right, util.Rect{X: x, Y: 0, W: w - x, H: h})
	return result
}

func arrangeColumn(result map[string]util.Rect, stacks []StackInfo, column util.Rect) {
	remaining := column.H
	weights := 0
	for _, s := range stacks {
		if s.State == presentation.Minimized {
			remaining--
		} else {
			weights += weight(s)
		}
	}

	y := column.Y
	lastRestored := -1
	for i, s := range stacks {
		if s.State != presentation.Minimized {
			lastRestored = i
		}
	}
	given := 0
	for i, s := range stacks {
		height := 1
		if s.State != presentation.Minimized {
			height = remaining * weight(s) / weights
			if i == lastRestored {
				height = remaining - given
			}
			given += height
		}
		if y+height > column.Y+column.H {
			height = column.Y + column.H - y
		}
		if height > 0 {
			result[s.ID] = util.Rect{X: column.X, Y: y, W: column.W, H: height}
		}
		y += height
	}
}

func weight(s StackInfo) int {
	if s.Editors {
		return 2
	}
	return 1
}
