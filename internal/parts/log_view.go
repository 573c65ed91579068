package parts

import (
	"sort"

	"github.com/ja-he/workbench/internal/part"
	"github.com/ja-he/workbench/internal/potatolog"
	"github.com/ja-he/workbench/internal/styling"
	"github.com/ja-he/workbench/internal/ui"
	"github.com/ja-he/workbench/internal/util"
)

// LogView shows the log, with the most recent log entries at the top.
type LogView struct {
	part.Base

	logReader potatolog.LogReader
}

// NewLogView returns a view of the given log.
func NewLogView(logReader potatolog.LogReader) *LogView {
	return &LogView{logReader: logReader}
}

func (v *LogView) Name() string { return "" }

// Draw draws one line per entry, followed by one line per extra field of the
// entry, until the view is full.
func (v *LogView) Draw(r ui.ConstrainedRenderer, stylesheet *styling.Stylesheet) {
	x, y, w, h := r.Dimensions()
	r.DrawBox(x, y, w, h, stylesheet.LogDefault)

	const levelLen = len(" error ")
	indent := x + levelLen + 1

	entries := v.logReader.Get()
	row := 0
	for i := len(entries) - 1; i >= 0 && row < h; i-- {
		entry := entries[i]
		level := potatolog.Field(entry, "level")
		r.DrawText(x, y+row, levelLen, 1, levelStyle(stylesheet, level), util.PadCenter(level, levelLen))

		col := indent
		message := potatolog.Field(entry, "message")
		r.DrawText(col, y+row, w, 1, stylesheet.LogDefault, message)
		col += len(message) + 1
		r.DrawText(col, y+row, w, 1, stylesheet.LogEntryTime, potatolog.Field(entry, "time"))
		row++

		keys := make([]string, 0, len(entry))
		for k := range entry {
			if k != "message" && k != "time" && k != "level" && k != "caller" {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			if row >= h {
				break
			}
			r.DrawText(indent, y+row, w, 1, stylesheet.LogEntryTime, k)
			r.DrawText(indent+len(k)+2, y+row, w, 1, stylesheet.LogDefault, potatolog.Field(entry, k))
			row++
		}
	}
}

func levelStyle(stylesheet *styling.Stylesheet, level string) styling.DrawStyling {
	switch level {
	case "error":
		return stylesheet.LogEntryTypeError
	case "warn":
		return stylesheet.LogEntryTypeWarn
	case "info":
		return stylesheet.LogEntryTypeInfo
	case "debug":
		return stylesheet.LogEntryTypeDebug
	case "trace":
		return stylesheet.LogEntryTypeTrace
	}
	return stylesheet.LogDefault
}
