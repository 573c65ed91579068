package styling

import (
	"github.com/ja-he/workbench/internal/config"
)

// Stylesheet represents all styles used by the workbench for rendering.
type Stylesheet struct {
	Normal DrawStyling
	Border DrawStyling

	TabActive   DrawStyling
	TabInactive DrawStyling

	Status    DrawStyling
	ErrorPart DrawStyling
	Editor    DrawStyling

	LogDefault        DrawStyling
	LogEntryTypeError DrawStyling
	LogEntryTypeWarn  DrawStyling
	LogEntryTypeInfo  DrawStyling
	LogEntryTypeDebug DrawStyling
	LogEntryTypeTrace DrawStyling
	LogEntryTime      DrawStyling
}

// NewStylesheetFromConfig constructs a new stylesheet from a given config
// stylesheet.
func NewStylesheetFromConfig(config config.Stylesheet) *Stylesheet {
	return &Stylesheet{
		Normal:            StyleFromConfig(config.Normal),
		Border:            StyleFromConfig(config.Border),
		TabActive:         StyleFromConfig(config.TabActive),
		TabInactive:       StyleFromConfig(config.TabInactive),
		Status:            StyleFromConfig(config.Status),
		ErrorPart:         StyleFromConfig(config.ErrorPart),
		Editor:            StyleFromConfig(config.Editor),
		LogDefault:        StyleFromConfig(config.LogDefault),
		LogEntryTypeError: StyleFromConfig(config.LogEntryTypeError),
		LogEntryTypeWarn:  StyleFromConfig(config.LogEntryTypeWarn),
		LogEntryTypeInfo:  StyleFromConfig(config.LogEntryTypeInfo),
		LogEntryTypeDebug: StyleFromConfig(config.LogEntryTypeDebug),
		LogEntryTypeTrace: StyleFromConfig(config.LogEntryTypeTrace),
		LogEntryTime:      StyleFromConfig(config.LogEntryTime),
	}
}

// DefaultStylesheet returns the stylesheet of the default dark configuration.
func DefaultStylesheet() *Stylesheet {
	return NewStylesheetFromConfig(config.Default(config.Dark).Stylesheet)
}
