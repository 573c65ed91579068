// Package config reads the workbench configuration from YAML.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config is the configuration data as present in a config file at
// '${WORKBENCH_HOME}/config.yaml'.
type Config struct {
	Stylesheet Stylesheet        `yaml:"stylesheet"`
	Views      []PartDescriptor  `yaml:"views"`
	Editors    []PartDescriptor  `yaml:"editors"`
	Layout     Layout            `yaml:"layout"`
	Session    Session           `yaml:"session"`
	Keys       map[string]string `yaml:"keys"`
}

// PartDescriptor declares a view or editor.
// Class names the built-in implementation that is instantiated for it.
type PartDescriptor struct {
	ID            string            `yaml:"id"`
	Label         string            `yaml:"label"`
	Class         string            `yaml:"class"`
	AllowMultiple bool              `yaml:"allow-multiple,omitempty"`
	Properties    map[string]string `yaml:"properties,omitempty"`
}

// Layout is the default layout, used when no session can be restored.
type Layout struct {
	Stacks []Stack `yaml:"stacks"`
	Active string  `yaml:"active,omitempty"`
}

// Stack declares a stack of parts.
//
// A stack with Editors set is the editor area, which receives opened editors
// instead of declared views.
type Stack struct {
	ID              string   `yaml:"id"`
	Views           []string `yaml:"views,omitempty"`
	Editors         bool     `yaml:"editors,omitempty"`
	State           string   `yaml:"state,omitempty"`
	SupportedStates []string `yaml:"supported-states,omitempty"`
}

// Session configures where the session state is saved.
// Provider is one of 'file' and 'sqlite'; a relative Path is resolved
// against the workbench home directory.
type Session struct {
	Provider string `yaml:"provider"`
	Path     string `yaml:"path"`
	History  int    `yaml:"history,omitempty"`
}

// A Stylesheet is the stylesheet contents defined in a config file.
type Stylesheet struct {
	Normal            Styling `yaml:"normal"`
	Border            Styling `yaml:"border"`
	TabActive         Styling `yaml:"tab-active"`
	TabInactive       Styling `yaml:"tab-inactive"`
	Status            Styling `yaml:"status"`
	ErrorPart         Styling `yaml:"error-part"`
	Editor            Styling `yaml:"editor"`
	LogDefault        Styling `yaml:"log-default"`
	LogEntryTypeError Styling `yaml:"log-entry-type-error"`
	LogEntryTypeWarn  Styling `yaml:"log-entry-type-warn"`
	LogEntryTypeInfo  Styling `yaml:"log-entry-type-info"`
	LogEntryTypeDebug Styling `yaml:"log-entry-type-debug"`
	LogEntryTypeTrace Styling `yaml:"log-entry-type-trace"`
	LogEntryTime      Styling `yaml:"log-entry-time"`
}

// A Styling is a styling as defined in a config file.
// It must contain fore- and background colors and can optionally specify font
// style (bold, italic, underlined).
type Styling struct {
	Fg    string     `yaml:"fg"`
	Bg    string     `yaml:"bg"`
	Style *FontStyle `yaml:"style"`
}

// A FontStyle can be any combination of bold, italic, and underlined.
type FontStyle struct {
	Bold       bool `yaml:"bold,omitempty"`
	Italic     bool `yaml:"italic,omitempty"`
	Underlined bool `yaml:"underlined,omitempty"`
}

// ParseConfigAugmentDefaults parses the configuration specified in
// YAML-formatted data and uses it to augment the default configuration for
// the given theme.
func ParseConfigAugmentDefaults(defaultTheme ColorschemeType, yamlData []byte) (Config, error) {
	defaultConfig := Default(defaultTheme)

	parsedConfig := Config{}
	err := yaml.Unmarshal(yamlData, &parsedConfig)
	if err != nil {
		return defaultConfig, fmt.Errorf("error unmarshaling yaml (%w)", err)
	}

	result := defaultConfig.augmentWith(parsedConfig)

	if err := result.Validate(); err != nil {
		return defaultConfig, err
	}
	return result, nil
}

// Validate checks the declarations for duplicate or malformed ids and for
// stacks referring to undeclared views.
func (c Config) Validate() error {
	seen := map[string]bool{}
	views := map[string]bool{}
	for _, d := range append(append([]PartDescriptor{}, c.Views...), c.Editors...) {
		switch {
		case d.ID == "":
			return fmt.Errorf("part declaration without id (label '%s')", d.Label)
		case containsSeparator(d.ID):
			return fmt.Errorf("part id '%s' must not contain ':'", d.ID)
		case seen[d.ID]:
			return fmt.Errorf("duplicate part id '%s'", d.ID)
		}
		seen[d.ID] = true
	}
	for _, d := range c.Views {
		views[d.ID] = true
	}

	stacks := map[string]bool{}
	for _, s := range c.Layout.Stacks {
		if s.ID == "" || stacks[s.ID] {
			return fmt.Errorf("stack id '%s' is empty or duplicate", s.ID)
		}
		stacks[s.ID] = true
		for _, v := range s.Views {
			if !views[primaryOf(v)] {
				return fmt.Errorf("stack '%s' refers to undeclared view '%s'", s.ID, v)
			}
		}
	}
	return nil
}

func containsSeparator(id string) bool {
	for _, r := range id {
		if r == ':' {
			return true
		}
	}
	return false
}

func primaryOf(key string) string {
	for i, r := range key {
		if r == ':' {
			return key[:i]
		}
	}
	return key
}

func (base Config) augmentWith(augment Config) Config {
	result := base

	result.Stylesheet = base.Stylesheet.augmentWith(augment.Stylesheet)
	result.Views = mergeDescriptors(base.Views, augment.Views)
	result.Editors = mergeDescriptors(base.Editors, augment.Editors)

	if len(augment.Layout.Stacks) > 0 {
		result.Layout = augment.Layout
	} else if augment.Layout.Active != "" {
		result.Layout.Active = augment.Layout.Active
	}

	if augment.Session.Provider != "" {
		result.Session.Provider = augment.Session.Provider
	}
	if augment.Session.Path != "" {
		result.Session.Path = augment.Session.Path
	}
	if augment.Session.History != 0 {
		result.Session.History = augment.Session.History
	}

	result.Keys = map[string]string{}
	for k, v := range base.Keys {
		result.Keys[k] = v
	}
	for k, v := range augment.Keys {
		if v == "" {
			delete(result.Keys, k)
		} else {
			result.Keys[k] = v
		}
	}

	return result
}

// mergeDescriptors overrides declarations of base by id with those of augment
// and appends new ones, keeping declaration order.
func mergeDescriptors(base, augment []PartDescriptor) []PartDescriptor {
	result := append([]PartDescriptor{}, base...)
	for _, a := range augment {
		replaced := false
		for i := range result {
			if result[i].ID == a.ID {
				result[i] = a
				replaced = true
				break
			}
		}
		if !replaced {
			result = append(result, a)
		}
	}
	return result
}

func (base Stylesheet) augmentWith(augment Stylesheet) Stylesheet {
	result := base

	result.Normal.overwriteIfDefined(augment.Normal)
	result.Border.overwriteIfDefined(augment.Border)
	result.TabActive.overwriteIfDefined(augment.TabActive)
	result.TabInactive.overwriteIfDefined(augment.TabInactive)
	result.Status.overwriteIfDefined(augment.Status)
	result.ErrorPart.overwriteIfDefined(augment.ErrorPart)
	result.Editor.overwriteIfDefined(augment.Editor)
	result.LogDefault.overwriteIfDefined(augment.LogDefault)
	result.LogEntryTypeError.overwriteIfDefined(augment.LogEntryTypeError)
	result.LogEntryTypeWarn.overwriteIfDefined(augment.LogEntryTypeWarn)
	result.LogEntryTypeInfo.overwriteIfDefined(augment.LogEntryTypeInfo)
	result.LogEntryTypeDebug.overwriteIfDefined(augment.LogEntryTypeDebug)
	result.LogEntryTypeTrace.overwriteIfDefined(augment.LogEntryTypeTrace)
	result.LogEntryTime.overwriteIfDefined(augment.LogEntryTime)

	return result
}

func (s *Styling) overwriteIfDefined(augment Styling) {
	if augment.Fg != "" && augment.Bg != "" {
		s.Fg = augment.Fg
		s.Bg = augment.Bg
	}
	if augment.Style != nil {
		if s.Style == nil {
			s.Style = &FontStyle{}
		}
		*s.Style = *augment.Style
	}
}

// A ColorschemeType can either be light or dark.
type ColorschemeType = int

const (
	_ ColorschemeType = iota
	Dark
	Light
)
