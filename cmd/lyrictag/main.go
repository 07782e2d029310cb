package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"lyrictag/internal/config"
	"lyrictag/internal/logger"
	"lyrictag/internal/match"
	"lyrictag/internal/pipeline"
	"lyrictag/internal/progress"
	"lyrictag/internal/shutdown"
	"lyrictag/internal/tags"
)

func main() {
	cfg, opts, configPath, err := parseArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}

	sh := shutdown.New()
	sh.Listen()
	defer sh.Shutdown()

	log := logger.New(cfg.Verbose)
	defer log.Close()

	if !cfg.Verbose {
		logDir := config.GetDefaultLogPath()
		if err := os.MkdirAll(logDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] Failed to create log directory: %v\n", err)
		} else {
			logFile := filepath.Join(logDir, fmt.Sprintf("lyrictag_%s.log", time.Now().Format("2006-01-02_15-04-05")))
			if err := log.SetFileLog(logFile); err != nil {
				fmt.Fprintf(os.Stderr, "[WARN] Failed to setup file logging: %v\n", err)
			} else {
				log.Debug("Logging to file: %s", logFile)
			}
		}
	}

	if cfg.Verbose && configPath != "" {
		log.Debug("Loaded configuration from: %s", configPath)
	}

	if err := cfg.Validate(); err != nil {
		log.Error("Configuration error: %v", err)
		os.Exit(1)
	}

	info, err := os.Stat(opts.target)
	if err != nil {
		log.Error("Cannot access %s: %v", opts.target, err)
		os.Exit(1)
	}

	if info.IsDir() {
		err = runBatch(sh, cfg, log, opts.target)
	} else {
		err = runSingle(sh.Context(), cfg, log, opts)
	}
	if err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

// runSingle matches one file, prints the ranked candidates and applies the
// requested selection, if any.
func runSingle(ctx context.Context, cfg config.Config, log *logger.Logger, opts options) error {
	src := pipeline.BuildSources(cfg, log)
	ref, ranked, err := pipeline.MatchFile(ctx, cfg, log, src, opts.target)
	if err != nil {
		return err
	}

	if len(ranked) == 0 {
		log.Info("No candidates found for %s", opts.target)
		return nil
	}

	printReference(opts.target, ref)
	printRanked(ranked)

	sel, ok, err := buildSelection(cfg, opts, ranked)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := pipeline.Apply(cfg, log, opts.target, ref, ranked, sel); err != nil {
		return err
	}
	if !cfg.DryRun {
		log.Info("=== Tags written to %s ===", opts.target)
	}
	return nil
}

// buildSelection turns the CLI flags into a field selection. The second
// return value is false when the invocation only asked for a listing.
func buildSelection(cfg config.Config, opts options, ranked match.RankedList) (match.FieldSelection, bool, error) {
	switch {
	case opts.apply >= 0:
		sel, err := match.TakeAvailable(ranked, opts.apply)
		return sel, err == nil, err

	case len(opts.takes) > 0:
		sel := match.KeepAll()
		for _, take := range opts.takes {
			choice := match.TakeFrom(take.index)
			switch take.field {
			case "title":
				sel.Title = choice
			case "artist":
				sel.Artist = choice
			case "album":
				sel.Album = choice
			case "duration":
				sel.Duration = choice
			case "lyrics":
				sel.Lyrics = choice
			}
		}
		return sel, true, nil

	case opts.auto:
		if ranked[0].Confidence < cfg.ConfidenceThreshold {
			fmt.Printf("\nBest confidence %.2f is below threshold %.2f, nothing applied.\n",
				ranked[0].Confidence, cfg.ConfidenceThreshold)
			return match.FieldSelection{}, false, nil
		}
		sel, err := match.TakeAvailable(ranked, 0)
		return sel, err == nil, err

	default:
		fmt.Println("\nUse --apply <n>, --take field=<n> or --auto to write tags.")
		return match.FieldSelection{}, false, nil
	}
}

func printReference(path string, ref match.TrackReference) {
	fmt.Printf("File: %s\n", path)
	fmt.Printf("  title=%q artist=%q album=%q", ref.Title, ref.Artist, ref.Album)
	if ref.Duration > 0 {
		fmt.Printf(" duration=%s", ref.Duration.Round(time.Second))
	}
	if lyrics, err := tags.ReadLyrics(path); err == nil && lyrics != "" {
		fmt.Print(" lyrics=present")
	}
	fmt.Println()
}

func printRanked(ranked match.RankedList) {
	fmt.Printf("\n%-3s %-6s %-30s %-22s %-20s %-8s %s\n",
		"#", "conf", "title", "artist", "album", "dur", "source")
	for i, sc := range ranked {
		dur := "-"
		if sc.DurationKnown {
			dur = sc.Candidate.Song.Duration.Round(time.Second).String()
		}
		source := sc.Candidate.Source
		if sc.HasLyrics {
			source += " +lyrics"
		}
		fmt.Printf("%-3d %-6.2f %-30s %-22s %-20s %-8s %s\n",
			i, sc.Confidence,
			truncate(sc.Candidate.Song.Title, 30),
			truncate(sc.Candidate.Song.Artist, 22),
			truncate(sc.Candidate.Song.Album, 20),
			dur, source)
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// runBatch matches every audio file under dir with the worker pool.
func runBatch(sh *shutdown.Handler, cfg config.Config, log *logger.Logger, dir string) error {
	var bar *progress.Bar
	hooks := pipeline.Hooks{
		OnFilesFound: func(total int) {
			if !cfg.Verbose && !cfg.DryRun {
				bar = progress.New(total)
				log.SetProgressBar(true)
			}
		},
		OnProgress: func() {
			if bar != nil {
				bar.Increment()
			}
		},
	}

	err := pipeline.Run(sh.Context(), cfg, log, dir, hooks)

	if bar != nil {
		bar.Finish()
		log.SetProgressBar(false)
	}

	if err != nil {
		return err
	}

	log.Info("=== Matching completed successfully ===")
	return nil
}
