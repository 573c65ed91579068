package config

// Ids of the built-in parts declared by the default configuration.
const (
	LogViewID      = "workbench.views.log"
	KeysViewID     = "workbench.views.keys"
	NotesViewID    = "workbench.views.notes"
	TextEditorID   = "workbench.editors.text"
	EditorStackID  = "editors"
	DefaultSession = "session.xml"
)

// Default returns the default configuration for the given colorscheme type
// (light or dark).
func Default(colorschemeType ColorschemeType) Config {
	return Config{
		Stylesheet: defaultStylesheet(colorschemeType),
		Views: []PartDescriptor{
			{ID: LogViewID, Label: "Log", Class: "log"},
			{ID: KeysViewID, Label: "Keys", Class: "keys"},
			{ID: NotesViewID, Label: "Notes", Class: "text", AllowMultiple: true,
				Properties: map[string]string{"text": "Notes are kept with the session."}},
		},
		Editors: []PartDescriptor{
			{ID: TextEditorID, Label: "Text", Class: "text-editor"},
		},
		Layout: Layout{
			Stacks: []Stack{
				{ID: "side", Views: []string{KeysViewID, NotesViewID}, SupportedStates: []string{"minimized", "maximized"}},
				{ID: EditorStackID, Editors: true, SupportedStates: []string{"restored", "maximized"}},
				{ID: "bottom", Views: []string{LogViewID}, SupportedStates: []string{"minimized", "maximized"}},
			},
			Active: KeysViewID,
		},
		Session: Session{
			Provider: "file",
			Path:     DefaultSession,
			History:  10,
		},
		Keys: map[string]string{
			"<c-n>":  "next-part",
			"<c-p>":  "previous-part",
			"<tab>":  "next-tab",
			"<c-w>":  "close-part",
			"<c-x>m": "maximize-stack",
			"<c-x>n": "minimize-stack",
			"<c-x>r": "restore-stack",
			"<c-x>e": "open-editor",
			"<c-x>v": "open-notes",
			"<c-x>s": "save-session",
			"<c-q>":  "quit",
		},
	}
}

func defaultStylesheet(colorschemeType ColorschemeType) Stylesheet {
	if colorschemeType == Light {
		return Stylesheet{
			Normal:            Styling{Fg: "#000000", Bg: "#ffffff", Style: &FontStyle{}},
			Border:            Styling{Fg: "#808080", Bg: "#ffffff", Style: &FontStyle{}},
			TabActive:         Styling{Fg: "#000000", Bg: "#ccebff", Style: &FontStyle{Bold: true}},
			TabInactive:       Styling{Fg: "#404040", Bg: "#f0f0f0", Style: &FontStyle{}},
			Status:            Styling{Fg: "#000000", Bg: "#f0f0f0", Style: &FontStyle{}},
			ErrorPart:         Styling{Fg: "#882222", Bg: "#ffaaaa", Style: &FontStyle{}},
			Editor:            Styling{Fg: "#000000", Bg: "#f8f8f8", Style: &FontStyle{}},
			LogDefault:        Styling{Fg: "#000000", Bg: "#ffffff", Style: &FontStyle{}},
			LogEntryTypeError: Styling{Fg: "#882222", Bg: "#ffaaaa", Style: &FontStyle{Bold: true}},
			LogEntryTypeWarn:  Styling{Fg: "#cc8f00", Bg: "#fff0cc", Style: &FontStyle{Bold: true}},
			LogEntryTypeInfo:  Styling{Fg: "#3a751a", Bg: "#c2edab", Style: &FontStyle{Bold: true}},
			LogEntryTypeDebug: Styling{Fg: "#0065a3", Bg: "#ccebff", Style: &FontStyle{Bold: true}},
			LogEntryTypeTrace: Styling{Fg: "#a3008b", Bg: "#ffccf7", Style: &FontStyle{Bold: true}},
			LogEntryTime:      Styling{Fg: "#808080", Bg: "#ffffff", Style: &FontStyle{}},
		}
	}
	return Stylesheet{
		Normal:            Styling{Fg: "#ffffff", Bg: "#000000", Style: &FontStyle{}},
		Border:            Styling{Fg: "#808080", Bg: "#000000", Style: &FontStyle{}},
		TabActive:         Styling{Fg: "#ffffff", Bg: "#0065a3", Style: &FontStyle{Bold: true}},
		TabInactive:       Styling{Fg: "#c0c0c0", Bg: "#202020", Style: &FontStyle{}},
		Status:            Styling{Fg: "#f0f0f0", Bg: "#202020", Style: &FontStyle{}},
		ErrorPart:         Styling{Fg: "#ffaaaa", Bg: "#882222", Style: &FontStyle{}},
		Editor:            Styling{Fg: "#ffffff", Bg: "#101010", Style: &FontStyle{}},
		LogDefault:        Styling{Fg: "#ffffff", Bg: "#000000", Style: &FontStyle{}},
		LogEntryTypeError: Styling{Fg: "#ffaaaa", Bg: "#882222", Style: &FontStyle{Bold: true}},
		LogEntryTypeWarn:  Styling{Fg: "#fff0cc", Bg: "#cc8f00", Style: &FontStyle{Bold: true}},
		LogEntryTypeInfo:  Styling{Fg: "#c2edab", Bg: "#3a751a", Style: &FontStyle{Bold: true}},
		LogEntryTypeDebug: Styling{Fg: "#ccebff", Bg: "#0065a3", Style: &FontStyle{Bold: true}},
		LogEntryTypeTrace: Styling{Fg: "#ffccf7", Bg: "#a3008b", Style: &FontStyle{Bold: true}},
		LogEntryTime:      Styling{Fg: "#808080", Bg: "#000000", Style: &FontStyle{}},
	}
}
