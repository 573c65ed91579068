package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ja-he/workbench/internal/potatolog"
	"github.com/ja-he/workbench/internal/storage/providers"
	"github.com/ja-he/workbench/internal/tui"
)

// RunCommand is the `run` command line command, starting the interactive
// workbench.
type RunCommand struct {
	Theme         string `short:"t" long:"theme" choice:"light" choice:"dark" description:"Select a 'dark' or a 'light' default theme (note: only sets defaults, which are individually overridden by settings in config.yaml"`
	Activate      string `short:"a" long:"activate" description:"Activate the part with this key instead of the one active when the session was saved" value-name:"<key>"`
	LogOutputFile string `short:"l" long:"log-output-file" description:"specify a log output file (otherwise logs are only shown in the log view)"`
	LogPretty     bool   `short:"p" long:"log-pretty" description:"prettify logs to file"`

	Args struct {
		Files []string `positional-arg-name:"<file>" description:"files to open in text editors"`
	} `positional-args:"true"`
}

// Execute executes the run command.
// (This gets called by `go-flags` when `run` is provided on the command line)
func (command *RunCommand) Execute(args []string) error {
	// set up stderr logger until TUI set up
	stderrLogger := log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// create TUI logger, feeding the log view
	logs := potatolog.NewMemoryLogReaderWriter(1000)
	var logWriter io.Writer = logs
	if command.LogOutputFile != "" {
		var fileLogger io.Writer
		file, err := os.OpenFile(command.LogOutputFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("could not open file '%s' for logging (%w)", command.LogOutputFile, err)
		}
		defer file.Close()
		if command.LogPretty {
			fileLogger = zerolog.ConsoleWriter{Out: file}
		} else {
			fileLogger = file
		}
		logWriter = zerolog.MultiLevelWriter(fileLogger, logs)
	}
	tuiLogger := zerolog.New(logWriter).With().Timestamp().Caller().Logger()

	// until the screen is up, log to both
	setupLogger := zerolog.New(zerolog.MultiLevelWriter(stderrLogger, tuiLogger)).With().Timestamp().Logger()

	home := workbenchHome()
	configData := loadConfig(home, themeFromFlag(command.Theme), setupLogger)

	store, err := providers.FromConfig(configData.Session, home, setupLogger)
	if err != nil {
		return fmt.Errorf("could not open session store (%w)", err)
	}

	screen, err := tui.NewTerminalScreenHandler()
	if err != nil {
		store.Close()
		return err
	}

	controller, err := NewController(configData, home, store, screen, logs, tuiLogger)
	if err != nil {
		screen.Fini()
		store.Close()
		return err
	}
	if err := controller.Restore(command.Activate, command.Args.Files); err != nil {
		screen.Fini()
		store.Close()
		return err
	}

	log.Logger = tuiLogger
	controller.Run()
	return nil
}
