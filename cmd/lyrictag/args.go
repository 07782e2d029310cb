package main

import (
	"fmt"
	"os"
	"strings"

	"lyrictag/internal/config"
)

// options are one-shot CLI settings that do not belong in the config file.
type options struct {
	target string      // audio file or directory to match
	auto   bool        // apply the top candidate without asking
	apply  int         // candidate index to apply in full, -1 means none
	takes  []fieldTake // per-field picks: --take field=index
}

type fieldTake struct {
	field string
	index int
}

var takeFields = map[string]bool{
	"title":    true,
	"artist":   true,
	"album":    true,
	"duration": true,
	"lyrics":   true,
}

// parseArgs parses command-line arguments and loads configuration.
// Priority: CLI flags > config file > defaults
func parseArgs() (config.Config, options, string, error) {
	args := os.Args[1:]
	opts := options{apply: -1}

	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			printUsage()
			os.Exit(0)
		}
		if arg == "--init-config" {
			return config.Config{}, opts, "", initConfigFile()
		}
	}

	var configPath string
	var cfg config.Config
	var err error

	for i := 0; i < len(args); i++ {
		if args[i] == "--config" || args[i] == "-c" {
			if i+1 >= len(args) {
				return config.Config{}, opts, "", fmt.Errorf("--config requires a path argument")
			}
			configPath = args[i+1]
			break
		}
	}

	cfg, err = config.LoadConfigFile(configPath)
	if err != nil {
		return config.Config{}, opts, "", fmt.Errorf("failed to load config: %w", err)
	}
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "--verbose", "-v":
			cfg.Verbose = true

		case "--dry-run", "-n":
			cfg.DryRun = true

		case "--auto", "-a":
			opts.auto = true

		case "--backup", "-b":
			cfg.Backup = true

		case "--parallel", "-p":
			if i+1 >= len(args) {
				return config.Config{}, opts, "", fmt.Errorf("--parallel requires a number argument")
			}
			i++
			var jobs int
			if _, err := fmt.Sscanf(args[i], "%d", &jobs); err != nil {
				return config.Config{}, opts, "", fmt.Errorf("invalid parallel jobs value: %s", args[i])
			}
			cfg.ParallelJobs = jobs

		case "--threshold", "-t":
			if i+1 >= len(args) {
				return config.Config{}, opts, "", fmt.Errorf("--threshold requires a number argument")
			}
			i++
			var threshold float64
			if _, err := fmt.Sscanf(args[i], "%f", &threshold); err != nil {
				return config.Config{}, opts, "", fmt.Errorf("invalid threshold value: %s", args[i])
			}
			cfg.ConfidenceThreshold = threshold

		case "--sources", "-s":
			if i+1 >= len(args) {
				return config.Config{}, opts, "", fmt.Errorf("--sources requires a comma-separated list")
			}
			i++
			cfg.Sources = strings.Split(args[i], ",")

		case "--apply":
			if i+1 >= len(args) {
				return config.Config{}, opts, "", fmt.Errorf("--apply requires a candidate index")
			}
			i++
			var idx int
			if _, err := fmt.Sscanf(args[i], "%d", &idx); err != nil || idx < 0 {
				return config.Config{}, opts, "", fmt.Errorf("invalid candidate index: %s", args[i])
			}
			opts.apply = idx

		case "--take":
			if i+1 >= len(args) {
				return config.Config{}, opts, "", fmt.Errorf("--take requires field=index")
			}
			i++
			take, err := parseTake(args[i])
			if err != nil {
				return config.Config{}, opts, "", err
			}
			opts.takes = append(opts.takes, take)

		case "--config", "-c":
			i++

		default:
			if len(arg) > 0 && arg[0] == '-' {
				return config.Config{}, opts, "", fmt.Errorf("unknown flag: %s", arg)
			}
			opts.target = config.ExpandHome(arg)
		}
	}

	if opts.target == "" {
		return config.Config{}, opts, "", fmt.Errorf("an audio file or directory is required")
	}

	return cfg, opts, configPath, nil
}

func parseTake(spec string) (fieldTake, error) {
	field, value, ok := strings.Cut(spec, "=")
	if !ok {
		return fieldTake{}, fmt.Errorf("invalid --take %q, expected field=index", spec)
	}
	field = strings.ToLower(strings.TrimSpace(field))
	if !takeFields[field] {
		return fieldTake{}, fmt.Errorf("unknown field %q, expected title, artist, album, duration or lyrics", field)
	}
	var idx int
	if _, err := fmt.Sscanf(value, "%d", &idx); err != nil || idx < 0 {
		return fieldTake{}, fmt.Errorf("invalid candidate index in --take %q", spec)
	}
	return fieldTake{field: field, index: idx}, nil
}

// initConfigFile creates a new config file with default values
func initConfigFile() error {
	path := config.GetDefaultConfigPath()

	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config file already exists at: %s\n", path)
		fmt.Println("Delete it first if you want to recreate it.")
		os.Exit(0)
	}

	cfg := config.DefaultConfig()

	if err := config.SaveConfigFile(cfg, path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	fmt.Printf("Created default config file at: %s\n", path)
	fmt.Println("\nYou can now edit this file to customize your settings.")
	fmt.Println("Available options:")
	fmt.Println("  parallel_jobs: 1-10 (number of parallel matches)")
	fmt.Println("  sources: lrclib, deezer, itunes, musicbrainz")
	fmt.Println("  confidence_threshold: 0.0-1.0 (minimum confidence to auto-apply)")
	fmt.Println("  backup: true/false (write a .bak copy before tagging)")
	fmt.Println("  verbose: true/false (enable detailed logging)")
	fmt.Println("  dry_run: true/false (preview mode)")

	os.Exit(0)
	return nil
}

// printUsage displays the help message
func printUsage() {
	fmt.Println("lyrictag - Match local audio files against online sources and tag them")
	fmt.Println()
	fmt.Println("Usage: lyrictag [options] <file-or-directory>")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -v, --verbose              Show detailed output")
	fmt.Println("  -n, --dry-run              Preview what would be written (no tag changes)")
	fmt.Println("  -a, --auto                 Apply the top candidate when confidence clears the threshold")
	fmt.Println("  -b, --backup               Write a .bak copy of each file before tagging")
	fmt.Println("  -p, --parallel <n>         Number of parallel matches in directory mode (1-10, default: 4)")
	fmt.Println("  -t, --threshold <f>        Minimum confidence for --auto (0.0-1.0, default: 0.7)")
	fmt.Println("  -s, --sources <list>       Comma-separated sources (default: lrclib,deezer)")
	fmt.Println("      --apply <n>            Apply candidate #n from the ranked list in full")
	fmt.Println("      --take field=n         Take one field from candidate #n (repeatable)")
	fmt.Println("                             Fields: title, artist, album, duration, lyrics")
	fmt.Println("  -c, --config <path>        Path to config file")
	fmt.Println("  -h, --help                 Show this help message")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println("  --init-config              Create a default config file")
	fmt.Println()
	fmt.Println("Config file locations (checked in order):")
	fmt.Println("  ./lyrictag.yaml")
	fmt.Println("  ~/.config/lyrictag/config.yaml")
	fmt.Println("  ~/.lyrictag.yaml")
	fmt.Println()
	fmt.Println("Logging:")
	fmt.Println("  Normal mode: Progress bar shown in directory mode, detailed logs saved to:")
	fmt.Println("    ~/.local/share/lyrictag/logs/")
	fmt.Println("  Verbose mode: All output to stdout, no progress bar, no file logging")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # List ranked candidates for one file")
	fmt.Println("  lyrictag song.mp3")
	fmt.Println()
	fmt.Println("  # Apply the best candidate in full")
	fmt.Println("  lyrictag --apply 0 song.mp3")
	fmt.Println()
	fmt.Println("  # Keep the file's tags but take lyrics from candidate #1")
	fmt.Println("  lyrictag --take lyrics=1 song.mp3")
	fmt.Println()
	fmt.Println("  # Tag a whole library, auto-applying confident matches")
	fmt.Println("  lyrictag --auto --backup ~/Music")
	fmt.Println()
	fmt.Println("  # Preview a library run without touching any file")
	fmt.Println("  lyrictag --auto --dry-run ~/Music")
}
