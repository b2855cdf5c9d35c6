package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tjun/sortdebug/internal/comparison"
	"github.com/tjun/sortdebug/internal/config"
	"github.com/tjun/sortdebug/internal/ctyvalue"
	"github.com/tjun/sortdebug/internal/parser"
	"github.com/tjun/sortdebug/internal/render"
	"github.com/tjun/sortdebug/internal/sorter"
	"github.com/tjun/sortdebug/internal/value"
)

const stdinPath = "<stdin>"

// InputSource represents a single source of content (file or stdin)
type InputSource struct {
	Path    string // File path or "<stdin>"
	Content []byte
}

// flags defines the CLI flags for the sortdebug command.
var flags = []cli.Flag{
	&cli.BoolFlag{
		Name:    "recursive",
		Aliases: []string{"r"},
		Usage:   "Walk directories recursively and process every file with a configured extension",
	},
	&cli.BoolFlag{
		Name:    "in-place",
		Aliases: []string{"i"},
		Usage:   "Overwrite debug-text files in place instead of printing to stdout",
	},
	&cli.BoolFlag{
		Name:    "check",
		Aliases: []string{"dry-run"},
		Usage:   "Exit with non-zero status if any input is not normalized",
	},
	&cli.BoolFlag{
		Name:  "diff",
		Usage: "Normalize exactly two inputs and print a line diff of them",
	},
	&cli.BoolFlag{
		Name:  "sort-lists",
		Value: true,
		Usage: "Sort lists (`[...]`) as well as maps and sets",
	},
	&cli.BoolFlag{
		Name:  "sort-tuples",
		Value: true,
		Usage: "Sort tuples (`(...)`) as well as maps and sets",
	},
	&cli.BoolFlag{
		Name:  "color",
		Usage: "Color the --diff report",
	},
	&cli.StringFlag{
		Name:  "config",
		Usage: "Path to the HCL config file (default: ./" + config.DefaultFilename + " if present)",
	},
	&cli.BoolFlag{
		Name:  "init",
		Usage: "Write a config file with the default settings and exit",
	},
}

// GetFlags returns the flags for the sortdebug command.
func GetFlags() []cli.Flag {
	return flags
}

// NewCommand returns the sortdebug command.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:      "sortdebug",
		Usage:     "Sort maps, sets and lists in structural-debug output so it diffs cleanly",
		ArgsUsage: "[paths...]",
		Flags:     GetFlags(),
		Action:    SortAction,
	}
}

// SortAction defines the core action for the sortdebug command.
func SortAction(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()

	// Check if any positional argument looks like a flag
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			return cli.Exit(fmt.Sprintf("Error: Flag '%s' found after file arguments. Please place flags before file arguments.", arg), 1)
		}
	}

	if cmd.Bool("init") {
		return writeConfig(cmd.String("config"))
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	sources, err := processInputs(args, cmd.Bool("recursive"), settings.Extensions)
	if err != nil {
		return fmt.Errorf("failed to process inputs: %w", err)
	}

	if cmd.Bool("diff") {
		return diffSources(sources, settings)
	}

	if len(sources) == 0 {
		if len(args) > 0 {
			log.Println("No input files found.")
		} else if !isInputFromPipe() {
			log.Println("No input files specified and no data piped from stdin.")
		}
		return nil
	}

	hasErrors := false
	changedInCheck := false

	inPlace := cmd.Bool("in-place")
	check := cmd.Bool("check")

	for _, source := range sources {
		log.Printf("Processing: %s", source.Path)
		result, err := normalizeSource(source, settings.Sort)
		if err != nil {
			log.Printf("Error normalizing %s: %v", source.Path, err)
			hasErrors = true
			continue
		}

		if check {
			if result.changed {
				changedInCheck = true
				log.Printf("File %s is not normalized.", source.Path)
			}
		} else if inPlace {
			if !result.textInput || source.Path == stdinPath {
				log.Printf("Warning: cannot write %s in place. Writing to stdout instead.", source.Path)
				if _, err := os.Stdout.Write(result.output); err != nil {
					log.Printf("Error writing to stdout for %s: %v", source.Path, err)
					hasErrors = true
				}
			} else if result.changed {
				if err := os.WriteFile(source.Path, result.output, 0644); err != nil {
					log.Printf("Error writing file %s: %v", source.Path, err)
					hasErrors = true
				} else {
					log.Printf("Normalized %s", source.Path)
				}
			} else {
				log.Printf("No changes for %s", source.Path)
			}
		} else {
			if _, err := os.Stdout.Write(result.output); err != nil {
				log.Printf("Error writing to stdout for %s: %v", source.Path, err)
				hasErrors = true
			}
		}
	}

	if hasErrors {
		return cli.Exit("Encountered errors during processing.", 2)
	}

	if check && changedInCheck {
		return cli.Exit("Some inputs are not normalized.", 1)
	}

	return nil
}

// loadSettings resolves the config file, then lets explicitly set flags
// override it.
func loadSettings(cmd *cli.Command) (config.Settings, error) {
	path := cmd.String("config")
	optional := false
	if path == "" {
		path = config.DefaultFilename
		optional = true
	}
	file, err := config.Load(path, optional)
	if err != nil {
		return config.Settings{}, err
	}

	settings := file.Apply(config.Default())
	if cmd.IsSet("sort-lists") {
		settings.Sort.SortLists = cmd.Bool("sort-lists")
	}
	if cmd.IsSet("sort-tuples") {
		settings.Sort.SortTuples = cmd.Bool("sort-tuples")
	}
	if cmd.IsSet("color") {
		settings.Color = cmd.Bool("color")
	}
	return settings, nil
}

func writeConfig(path string) error {
	if path == "" {
		path = config.DefaultFilename
	}
	if _, err := os.Stat(path); err == nil {
		return cli.Exit(fmt.Sprintf("Error: %s already exists.", path), 1)
	}
	if err := os.WriteFile(path, config.Render(config.Default()), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	log.Printf("Wrote %s", path)
	return nil
}

func diffSources(sources []InputSource, settings config.Settings) error {
	if len(sources) != 2 {
		return cli.Exit(fmt.Sprintf("Error: --diff needs exactly two inputs, got %d.", len(sources)), 2)
	}

	var outputs [2]string
	for i, source := range sources {
		result, err := normalizeSource(source, settings.Sort)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error normalizing %s: %v", source.Path, err), 2)
		}
		outputs[i] = strings.TrimSuffix(string(result.output), "\n")
	}

	c := comparison.New(outputs[0], outputs[1], comparison.Options{Color: settings.Color})
	if c.Equal() {
		log.Printf("%s and %s are equal after sorting.", sources[0].Path, sources[1].Path)
		return nil
	}
	if _, err := fmt.Fprintln(os.Stdout, c.String()); err != nil {
		return fmt.Errorf("failed to write diff: %w", err)
	}
	return cli.Exit("Inputs differ.", 1)
}

type normalized struct {
	output    []byte // pretty rendering with a trailing newline
	changed   bool   // output differs from the input, or the input was not sorted
	textInput bool   // the input was structural-debug text
}

// normalizeSource parses a source according to its extension, sorts it
// and renders it.
func normalizeSource(source InputSource, options sorter.SortOptions) (normalized, error) {
	var tree value.Value
	textInput := false

	switch strings.ToLower(filepath.Ext(source.Path)) {
	case ".json":
		v, err := parser.ParseJSON(source.Content)
		if err != nil {
			return normalized{}, fmt.Errorf("failed to decode JSON: %w", err)
		}
		tree = ctyvalue.ToValue(v)
	case ".hcl":
		v, diags := parser.ParseHCL(source.Content, source.Path)
		if diags.HasErrors() {
			return normalized{}, diags
		}
		tree = ctyvalue.ToValue(v)
	default:
		v, err := parser.Parse(string(source.Content))
		if err != nil {
			return normalized{}, err
		}
		tree = v
		textInput = true
	}

	wasSorted := sorter.IsSorted(tree, options)
	output := []byte(render.Pretty(sorter.Sort(tree, options)) + "\n")

	changed := !wasSorted
	if textInput {
		changed = !bytes.Equal(source.Content, output)
	}
	return normalized{output: output, changed: changed, textInput: textInput}, nil
}

// processInputs determines the target sources based on arguments and flags.
// Files named explicitly are always read; directories walked with recursive
// only contribute files whose extension is in extensions.
func processInputs(args []string, recursive bool, extensions []string) ([]InputSource, error) {
	var sources []InputSource

	if len(args) == 0 && isInputFromPipe() {
		log.Println("Reading from stdin...")
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
		if len(content) > 0 {
			sources = append(sources, InputSource{Path: stdinPath, Content: content})
		}
		return sources, nil
	}

	var filePaths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			log.Printf("Warning: could not stat %q: %v", arg, err)
			continue
		}

		if !info.IsDir() {
			filePaths = append(filePaths, arg)
			continue
		}
		if !recursive {
			log.Printf("Warning: skipping directory %q (use -r to process recursively)", arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				log.Printf("Warning: error accessing path %q: %v", path, err)
				return nil
			}
			if !d.IsDir() && hasExtension(d.Name(), extensions) {
				filePaths = append(filePaths, path)
			}
			return nil
		})
		if err != nil {
			log.Printf("Warning: error walking directory %q: %v", arg, err)
		}
	}

	seen := make(map[string]bool)
	for _, path := range filePaths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			log.Printf("Warning: could not get absolute path for %q: %v", path, err)
			absPath = path
		}
		if seen[absPath] {
			continue
		}
		seen[absPath] = true

		content, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				log.Printf("Warning: permission denied reading %q", path)
			} else {
				log.Printf("Warning: failed to read file %q: %v", path, err)
			}
			continue
		}
		if len(content) == 0 {
			log.Printf("Warning: skipping empty file %q", path)
			continue
		}
		sources = append(sources, InputSource{Path: path, Content: content})
	}

	return sources, nil
}

func hasExtension(name string, extensions []string) bool {
	return slices.Contains(extensions, strings.ToLower(filepath.Ext(name)))
}

// isInputFromPipe checks if the program is receiving input from a pipe.
var isInputFromPipe = func() bool {
	fileInfo, _ := os.Stdin.Stat()
	return fileInfo != nil && (fileInfo.Mode()&os.ModeCharDevice) == 0
}
