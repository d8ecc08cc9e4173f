// Package main provides the ledgervox console harness: a line-based stand-in
// for the speech engine wired to the real capture, extraction, resolution,
// and task machinery, with an in-memory store. Each input line is one
// recognized fragment; "." simulates a natural pause, "stop" finalizes the
// utterance and sends it through the pipeline.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ledgervox/ledgervox/pkg/capture"
	appconfig "github.com/ledgervox/ledgervox/pkg/config"
	"github.com/ledgervox/ledgervox/pkg/extract"
	"github.com/ledgervox/ledgervox/pkg/pipeline"
	"github.com/ledgervox/ledgervox/pkg/store"
	"github.com/ledgervox/ledgervox/pkg/task"
	"github.com/ledgervox/ledgervox/pkg/types"
)

const version = "0.1.0"

// Config holds the application configuration
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Provider    string
	ConfigPath  string
	Seed        bool
	ShowVersion bool
}

func main() {
	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("ledgervox v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	if err := run(ctx, config); err != nil {
		cancel()
		log.Fatalf("Application error: %v", err)
	}
}

func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.APIKey, "api-key", "", "API key (or set OPENAI_API_KEY / ANTHROPIC_API_KEY)")
	flag.StringVar(&config.BaseURL, "base-url", "", "API base URL for OpenAI-compatible backends")
	flag.StringVar(&config.Model, "model", "", "Extraction model to use")
	flag.StringVar(&config.Provider, "provider", "", "Model backend: openai or anthropic")
	flag.StringVar(&config.ConfigPath, "config", "", "Config file path (default: ~/.ledgervox/config.json)")
	flag.BoolVar(&config.Seed, "seed", false, "Seed the in-memory store with sample vendors and locations")
	flag.BoolVar(&config.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "ledgervox - voice-driven inventory intake (console harness)\n\n")
		fmt.Fprintf(os.Stderr, "Usage: ledgervox [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nSession commands:\n")
		fmt.Fprintf(os.Stderr, "  task <equipment|maintenance|vendor|location>   start a record\n")
		fmt.Fprintf(os.Stderr, "  <text>                                         one recognized fragment\n")
		fmt.Fprintf(os.Stderr, "  .                                              natural pause (engine restarts)\n")
		fmt.Fprintf(os.Stderr, "  stop                                           finalize the utterance\n")
		fmt.Fprintf(os.Stderr, "  fields                                         print collected fields\n")
		fmt.Fprintf(os.Stderr, "  save / cancel / quit\n")
	}

	flag.Parse()
	return config
}

func run(ctx context.Context, config *Config) error {
	if err := appconfig.Initialize(config.ConfigPath); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	provider, err := appconfig.BuildProvider(config.Provider, config.Model, config.BaseURL, config.APIKey)
	if err != nil {
		return err
	}

	mem := store.NewMemory()
	if config.Seed {
		seed(ctx, mem)
	}

	engine := newConsoleEngine()
	controller := capture.NewController(engine,
		capture.WithMaxConsecutiveErrors(appconfig.GetCapture().GetMaxConsecutiveErrors()))

	extractor := extract.NewExtractor(provider,
		extract.WithConfidenceThreshold(appconfig.GetExtraction().GetConfidenceThreshold()))

	pipe := pipeline.New(extractor, mem,
		pipeline.WithCapture(controller),
		pipeline.WithResolverConfig(appconfig.GetResolver().ResolveConfig()))

	go printExtractEvents(pipe.Events())
	go pipe.Run(ctx, printCaptureEvent)

	fmt.Printf("ledgervox v%s (model: %s)\n", version, provider.GetModel())
	fmt.Println("Type 'task equipment' to begin, 'quit' to exit.")

	repl(ctx, pipe, controller, engine)

	pipe.Teardown()
	return nil
}

// repl reads operator input and drives the pipeline. Capture events are
// consumed by pipeline.Run, which prints them through its observer.
func repl(ctx context.Context, pipe *pipeline.Pipeline, controller *capture.Controller, engine *consoleEngine) {
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case line, ok := <-lines:
			if !ok {
				return
			}
			if quit := handleLine(ctx, line, pipe, controller, engine); quit {
				return
			}
		}
	}
}

func handleLine(ctx context.Context, line string, pipe *pipeline.Pipeline, controller *capture.Controller, engine *consoleEngine) bool {
	trimmed := strings.TrimSpace(line)

	switch {
	case trimmed == "":
		return false

	case trimmed == "quit" || trimmed == "exit":
		return true

	case strings.HasPrefix(trimmed, "task "):
		kind := task.Kind(keyword(strings.TrimPrefix(trimmed, "task ")))
		if _, err := pipe.BeginTask(kind); err != nil {
			fmt.Printf("  ! %v\n", err)
			return false
		}
		if err := controller.StartCapture(ctx); err != nil {
			fmt.Printf("  ! %v\n", err)
		}

	case trimmed == ".":
		engine.Pause()

	case trimmed == "stop":
		controller.StopCapture()

	case trimmed == "fields":
		fields := pipe.Fields()
		if fields == nil {
			fmt.Println("  (no active task)")
			return false
		}
		for k, v := range fields {
			fmt.Printf("  %s: %s\n", k, v)
		}
		if t := pipe.ActiveTask(); t != nil {
			fmt.Printf("  state: %s, missing: %v\n", t.State(), t.MissingRequiredFields())
		}

	case trimmed == "save":
		id, err := pipe.Confirm(ctx)
		if err != nil {
			fmt.Printf("  ! %v\n", err)
			return false
		}
		fmt.Printf("  saved: %s\n", id)

	case trimmed == "cancel":
		pipe.CancelTask()
		fmt.Println("  cancelled")

	default:
		if controller.Listening() {
			engine.Speak(trimmed)
		} else {
			fmt.Println("  (not listening; start a task first)")
		}
	}

	return false
}

// keyword maps the short console names onto the task kind tags.
func keyword(s string) string {
	switch strings.TrimSpace(s) {
	case "equipment":
		return string(task.KindEquipment)
	case "maintenance":
		return string(task.KindMaintenance)
	case "vendor":
		return string(task.KindVendor)
	case "location":
		return string(task.KindLocation)
	default:
		return strings.TrimSpace(s)
	}
}

func printCaptureEvent(ev *types.CaptureEvent) {
	switch ev.Type {
	case types.CaptureListening:
		fmt.Println("  [listening]")
	case types.CapturePartial:
		fmt.Printf("  [partial] %s\n", ev.Transcript)
	case types.CaptureResult:
		fmt.Printf("  [utterance] %s\n", ev.Transcript)
	case types.CaptureError:
		fmt.Printf("  [capture error] %v\n", ev.Err)
	case types.CaptureIdle:
		fmt.Println("  [idle]")
	}
}

func printExtractEvents(events <-chan *types.ExtractEvent) {
	for ev := range events {
		switch ev.Type {
		case types.ExtractProcessing:
			fmt.Println("  [extracting...]")
		case types.ExtractExtracted:
			if ev.LowConfidence {
				fmt.Printf("  [low confidence %.2f]\n", ev.Confidence)
			}
			fmt.Printf("  >> %s\n", ev.Reply)
			if len(ev.Missing) > 0 {
				fmt.Printf("  [missing: %s]\n", strings.Join(ev.Missing, ", "))
			}
		case types.ExtractFailed:
			fmt.Printf("  [extraction error] %v\n", ev.Err)
		}
	}
}

// seed loads a few records so entity resolution has something to match.
func seed(ctx context.Context, mem *store.Memory) {
	vendors := []types.Vendor{
		{Name: "Medika Srl", Phone: "02 4567 8900"},
		{Name: "Medika Service"},
		{Name: "Elettro Impianti Srl"},
		{Name: "Siemens Healthcare"},
	}
	for _, v := range vendors {
		if _, err := mem.InsertVendor(ctx, v); err != nil {
			log.Printf("seed vendor %q: %v", v.Name, err)
		}
	}

	locations := []types.Location{
		{Name: "Radiology", Floor: "2"},
		{Name: "Central Lab", Floor: "1"},
		{Name: "Sterilization Unit", Floor: "0"},
	}
	for _, l := range locations {
		if _, err := mem.InsertLocation(ctx, l); err != nil {
			log.Printf("seed location %q: %v", l.Name, err)
		}
	}

	fmt.Println("seeded 4 vendors, 3 locations")
}
