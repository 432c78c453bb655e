package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/KarpelesLab/binpatch"
)

const usage = `bpatch - binary differential patch tool

Usage:
  bpatch create <original> <edited> <patchfile> [flags]   Create a patch from original to edited
  bpatch apply <original> <patchfile> [<output>]          Apply a patch to original
  bpatch help                                              Show this help message

Aliases: create/c, apply/patch/a

Flags (all of form --name=value):
  --memory=y|n      Create: slurp inputs into RAM (default n); apply always reads inputs into RAM
  --chsize=N        Differ chunk size (default 2048)
  --lensize=N       Differ probe size (default 512)
  --crccmp=y|n      Short-circuit identical files via CRC before diffing (default n)
  --includea=y|n    Directory create/apply: include additions (default y)
  --includer=y|n    Directory create/apply: include removals (default y)
  --included=y|n    Directory create/apply: include changed files (default y)

Examples:
  bpatch create old.bin new.bin patch.bpatch
  bpatch apply old.bin patch.bpatch new.bin
  bpatch create olddir newdir patch.bpatch
  bpatch apply olddir patch.bpatch
`

type flags struct {
	memory    string
	chsize    int
	lensize   int
	crccmp    bool
	includeA  bool
	includeR  bool
	includeD  bool
}

func parseFlags(args []string) (flags, []string) {
	f := flags{includeA: true, includeR: true, includeD: true}
	var rest []string
	for _, a := range args {
		if !strings.HasPrefix(a, "--") {
			rest = append(rest, a)
			continue
		}
		name, value, _ := strings.Cut(strings.TrimPrefix(a, "--"), "=")
		switch name {
		case "memory":
			f.memory = value
		case "chsize":
			f.chsize, _ = strconv.Atoi(value)
		case "lensize":
			f.lensize, _ = strconv.Atoi(value)
		case "crccmp":
			f.crccmp = value == "y"
		case "includea":
			f.includeA = value != "n"
		case "includer":
			f.includeR = value != "n"
		case "included":
			f.includeD = value != "n"
		}
	}
	return f, rest
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	f, rest := parseFlags(os.Args[2:])

	switch cmd {
	case "create", "c":
		if len(rest) < 3 {
			fmt.Println("Error: Missing original, edited, or patchfile argument")
			fmt.Println(usage)
			os.Exit(1)
		}
		if err := runCreate(rest[0], rest[1], rest[2], f); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(exitCodeFor(err))
		}

	case "apply", "patch", "a":
		if len(rest) < 2 {
			fmt.Println("Error: Missing original or patchfile argument")
			fmt.Println(usage)
			os.Exit(1)
		}
		output := ""
		if len(rest) > 2 {
			output = rest[2]
		}
		code, err := runApply(rest[0], rest[1], output, f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(exitCodeFor(err))
		}
		os.Exit(code)

	case "help":
		fmt.Println(usage)

	default:
		fmt.Printf("Error: Unknown command '%s'\n", cmd)
		fmt.Println(usage)
		os.Exit(1)
	}
}

func exitCodeFor(err error) int {
	switch err {
	case binpatch.ErrBadMagic:
		return 3
	case binpatch.ErrCRCMismatch:
		return 4
	case binpatch.ErrTargetMissing, binpatch.ErrNoTarget:
		return 2
	default:
		return 1
	}
}

func createOpts(f flags) []binpatch.CreateOption {
	var opts []binpatch.CreateOption
	if f.chsize > 0 {
		opts = append(opts, binpatch.WithChunkSize(f.chsize))
	}
	if f.lensize > 0 {
		opts = append(opts, binpatch.WithProbeSize(f.lensize))
	}
	opts = append(opts, binpatch.WithMemory(f.memory == "y"))
	opts = append(opts, binpatch.WithCRCShortCircuit(f.crccmp))
	opts = append(opts, binpatch.WithCreateIncludeAdds(f.includeA))
	opts = append(opts, binpatch.WithCreateIncludeDeletes(f.includeR))
	opts = append(opts, binpatch.WithCreateIncludeDiffs(f.includeD))
	return opts
}

func runCreate(originalPath, editedPath, patchPath string, f flags) error {
	origInfo, err := os.Stat(originalPath)
	if err != nil {
		return binpatch.ErrNoTarget
	}

	if origInfo.IsDir() {
		data, err := binpatch.CreateDirPatch(originalPath, editedPath, createOpts(f)...)
		if err != nil {
			return err
		}
		return os.WriteFile(patchPath, data, 0o644)
	}

	data, err := binpatch.CreateFilePatchPaths(originalPath, editedPath, createOpts(f)...)
	if err != nil {
		return err
	}
	if data == nil {
		fmt.Println("files are identical, no patch produced")
		return nil
	}
	return os.WriteFile(patchPath, data, 0o644)
}

func runApply(originalPath, patchPath, output string, f flags) (int, error) {
	origInfo, err := os.Stat(originalPath)
	if err != nil {
		return 1, binpatch.ErrTargetMissing
	}

	patch, err := os.ReadFile(patchPath)
	if err != nil {
		return 1, err
	}

	if origInfo.IsDir() {
		opts := []binpatch.ApplyOption{
			binpatch.WithIncludeAdds(f.includeA),
			binpatch.WithIncludeDeletes(f.includeR),
			binpatch.WithIncludeDiffs(f.includeD),
		}
		failures, err := binpatch.ApplyDirPatch(originalPath, patch, opts...)
		if err != nil {
			return 1, err
		}
		return failures, nil
	}

	original, err := os.ReadFile(originalPath)
	if err != nil {
		return 1, binpatch.ErrTargetMissing
	}

	result, err := binpatch.ApplyFilePatch(original, patch)
	if err != nil {
		return 1, err
	}

	if output == "" {
		output = originalPath
	}
	if err := os.WriteFile(output, result, 0o644); err != nil {
		return 1, err
	}
	return 0, nil
}
