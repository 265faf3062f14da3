// Package main implements a CHIP-8 ROM disassembler.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"chip8emu/internal/config"
	"chip8emu/internal/disasm"

	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

type optionFlags struct {
	input  string
	output string

	quiet bool
	debug bool
}

func main() {
	options := readArguments()
	logger := config.CreateLogger(options.debug, options.quiet)

	if !options.quiet {
		printBanner()
	}

	if err := disasmFile(logger, options); err != nil {
		logger.Error("Disassembling failed", log.Err(err))
		os.Exit(1)
	}
}

func readArguments() optionFlags {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	options := optionFlags{}

	flags.StringVar(&options.output, "o", "", "name of the output file, printed on console if no name given")
	flags.BoolVar(&options.quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&options.debug, "debug", false, "enable debug logging")

	err := flags.Parse(os.Args[1:])
	args := flags.Args()

	if err != nil || len(args) != 1 {
		printBanner()
		fmt.Printf("usage: chip8disasm [options] <ROM file>\n\n")
		flags.PrintDefaults()
		os.Exit(1)
	}
	options.input = args[0]

	return options
}

func printBanner() {
	fmt.Println("[--------------------------------------]")
	fmt.Println("[ chip8disasm - CHIP-8 ROM disassembler ]")
	fmt.Printf("[--------------------------------------]\n\n")
	fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
}

func disasmFile(logger *log.Logger, options optionFlags) error {
	start := time.Now()

	rom, err := os.ReadFile(options.input)
	if err != nil {
		return fmt.Errorf("reading file '%s': %w", options.input, err)
	}

	var w io.Writer = os.Stdout
	if options.output != "" {
		file, err := os.Create(options.output)
		if err != nil {
			return fmt.Errorf("creating file '%s': %w", options.output, err)
		}
		defer func() {
			_ = file.Close()
		}()
		w = file
	}

	count, err := disasm.Listing(w, rom)
	if err != nil {
		return err
	}

	logger.Info(fmt.Sprintf("Finished with %d instructions in %s", count, time.Since(start)),
		log.String("file", options.input))
	return nil
}
