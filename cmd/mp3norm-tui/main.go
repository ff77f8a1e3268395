package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"

	"github.com/handiism/mp3norm/internal/config"
	"github.com/handiism/mp3norm/internal/tui"
)

func main() {
	var (
		configFlag = flag.String("config", config.DefaultPath(), "Configuration file path")
		driverFlag = flag.StringP("driver", "d", "", "geckodriver executable or WebDriver URL")
		logFlag    = flag.String("log", "", "Write debug logs to this file")
	)
	flag.Parse()

	// The screen belongs to Bubble Tea; logs only go to a file.
	zerolog.SetGlobalLevel(zerolog.Disabled)
	if *logFlag != "" {
		f, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: f, NoColor: true, TimeFormat: time.RFC3339})
	}

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *driverFlag != "" {
		settings.Driver = *driverFlag
	}

	if err := tui.Run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
