// Package pipeline wires sources, the match engine, and tag I/O into the
// operations the CLI and web server run.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"lyrictag/internal/config"
	"lyrictag/internal/logger"
	"lyrictag/internal/match"
	"lyrictag/internal/source/deezer"
	"lyrictag/internal/source/itunes"
	"lyrictag/internal/source/lrclib"
	"lyrictag/internal/source/musicbrainz"
	"lyrictag/internal/tags"
	"lyrictag/pkg/utils"
)

// Hooks let the caller drive UI elements (progress bar) without coupling
// the pipeline to them.
type Hooks struct {
	OnFilesFound func(total int)
	OnProgress   func()
}

// BuildSources constructs the configured candidate sources, in config order.
func BuildSources(cfg config.Config, log *logger.Logger) *match.MultiSource {
	var sources []match.Source
	for _, name := range cfg.Sources {
		switch name {
		case "lrclib":
			sources = append(sources, lrclib.New())
		case "deezer":
			sources = append(sources, deezer.New())
		case "itunes":
			sources = append(sources, itunes.New())
		case "musicbrainz":
			sources = append(sources, musicbrainz.New())
		default:
			// Validate() rejects unknown names before we get here.
			log.Warn("skipping unknown source %q", name)
		}
	}
	return match.NewMultiSource(sources, log)
}

// MatchFile runs one full matching session for a file: read the reference,
// search the given source, score every candidate, rank. The source is
// injected so one instance (and its rate limiting) serves a whole batch.
// The returned list is ready for display or merging.
func MatchFile(ctx context.Context, cfg config.Config, log *logger.Logger, src match.Source, path string) (match.TrackReference, match.RankedList, error) {
	ref, err := tags.ReadTrack(path)
	if err != nil {
		return match.TrackReference{}, nil, err
	}

	query := match.CleanQuery(ref.Title, ref.Artist, ref.Album)
	if query.Title == "" {
		return ref, nil, fmt.Errorf("no usable title in %s, cannot search", path)
	}
	log.Debug("  Query: title=%q artist=%q album=%q", query.Title, query.Artist, query.Album)

	candidates, err := src.Search(ctx, query)
	if err != nil {
		return ref, nil, fmt.Errorf("candidate search failed: %w", err)
	}
	log.Debug("  %d candidates", len(candidates))

	scorer := match.NewScorer(cfg.Weights)
	scored := make([]match.ScoredCandidate, 0, len(candidates))
	for i := range candidates {
		sc, err := scorer.Score(&candidates[i], ref)
		if err != nil {
			return ref, nil, fmt.Errorf("scoring failed: %w", err)
		}
		scored = append(scored, sc)
	}

	ranked, err := match.Rank(scored)
	if err != nil {
		return ref, nil, fmt.Errorf("ranking failed: %w", err)
	}
	return ref, ranked, nil
}

// Apply merges the selection and writes the result back to the file,
// backing the file up first when configured.
func Apply(cfg config.Config, log *logger.Logger, path string, ref match.TrackReference, ranked match.RankedList, sel match.FieldSelection) error {
	state, err := match.Merge(ref, sel, ranked)
	if err != nil {
		return err
	}

	if cfg.DryRun {
		log.Info("dry-run: would write title=%q artist=%q album=%q lyrics=%v to %s",
			state.Song.Title, state.Song.Artist, state.Song.Album, state.Lyrics != nil, path)
		return nil
	}

	if cfg.Backup {
		bak, err := utils.BackupFile(path)
		if err != nil {
			return err
		}
		log.Debug("  Backed up to %s", bak)
	}

	return tags.WriteMerged(path, state)
}

// Run executes the batch pipeline over a directory: match every audio file
// in a bounded worker pool and auto-apply the top candidate wherever its
// confidence clears the configured threshold.
func Run(ctx context.Context, cfg config.Config, log *logger.Logger, dir string, hooks Hooks) error {
	files, err := utils.FindAudioFiles(dir)
	if err != nil {
		return fmt.Errorf("failed to find audio files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no audio files found in %s", dir)
	}

	if hooks.OnFilesFound != nil {
		hooks.OnFilesFound(len(files))
	}

	log.Info("=== Matching %d files (%d parallel) ===", len(files), cfg.ParallelJobs)

	// One source set for the whole batch, so per-source rate limits hold
	// across workers.
	multi := BuildSources(cfg, log)

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, cfg.ParallelJobs)
	var mu sync.Mutex
	var failed, skipped, applied int

	for i, path := range files {
		select {
		case <-ctx.Done():
			log.Warn("Matching cancelled, waiting for active workers...")
			wg.Wait()
			return fmt.Errorf("matching cancelled")
		default:
		}

		wg.Add(1)
		go func(idx int, p string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			outcome := processFile(ctx, cfg, log, multi, idx, len(files), p)

			mu.Lock()
			switch outcome {
			case outcomeApplied:
				applied++
			case outcomeSkipped:
				skipped++
			case outcomeFailed:
				failed++
			}
			mu.Unlock()

			if hooks.OnProgress != nil {
				hooks.OnProgress()
			}
		}(i, path)
	}

	wg.Wait()

	log.Info("Matching completed: %d applied, %d below threshold, %d failed", applied, skipped, failed)

	if failed == len(files) {
		return fmt.Errorf("all %d files failed to match", len(files))
	}
	return nil
}

type outcome int

const (
	outcomeApplied outcome = iota
	outcomeSkipped
	outcomeFailed
)

// processFile matches a single file and applies the top candidate when its
// confidence clears the threshold.
func processFile(ctx context.Context, cfg config.Config, log *logger.Logger, src match.Source, idx, total int, path string) outcome {
	log.Info("[%d/%d] Matching: %s", idx+1, total, path)

	ref, ranked, err := MatchFile(ctx, cfg, log, src, path)
	if err != nil {
		log.Error("[%d/%d] %s: %v", idx+1, total, path, err)
		return outcomeFailed
	}
	if len(ranked) == 0 {
		log.Warn("[%d/%d] %s: no candidates found", idx+1, total, path)
		return outcomeFailed
	}

	best := ranked[0]
	if best.Confidence < cfg.ConfidenceThreshold {
		log.Info("[%d/%d] %s: best confidence %.2f below threshold %.2f, skipping",
			idx+1, total, path, best.Confidence, cfg.ConfidenceThreshold)
		return outcomeSkipped
	}

	sel, err := match.TakeAvailable(ranked, 0)
	if err != nil {
		log.Error("[%d/%d] %s: %v", idx+1, total, path, err)
		return outcomeFailed
	}
	if err := Apply(cfg, log, path, ref, ranked, sel); err != nil {
		log.Error("[%d/%d] %s: apply failed: %v", idx+1, total, path, err)
		return outcomeFailed
	}

	log.Info("[%d/%d] %s: applied %q by %q (%.2f, %s)",
		idx+1, total, path, best.Candidate.Song.Title, best.Candidate.Song.Artist,
		best.Confidence, best.Candidate.Source)
	return outcomeApplied
}
