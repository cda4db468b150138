/*
 * lc3vm - Main process.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/lc3vm/config"
	"github.com/rcornwell/lc3vm/emu/console"
	"github.com/rcornwell/lc3vm/emu/cpu"
	"github.com/rcornwell/lc3vm/emu/loader"
	"github.com/rcornwell/lc3vm/emu/memory"
	logger "github.com/rcornwell/lc3vm/util/logger"
)

var Logger *slog.Logger

func main() {
	optConfig := getopt.StringLong("config", 'c', "", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		file, _ = os.Create(*optLogFile)
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	Logger = slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel, AddSource: false}, false))
	slog.SetDefault(Logger)

	settings := config.Default()
	if *optConfig != "" {
		loaded, err := config.Load(*optConfig)
		if err != nil {
			Logger.Error("loading configuration", "file", *optConfig, "error", err)
			os.Exit(2)
		}
		settings = loaded
	}
	programLevel.Set(settings.LogLevel)
	if file == nil && settings.LogFile != "" {
		file, _ = os.Create(settings.LogFile)
		Logger = slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel, AddSource: false}, false))
		slog.SetDefault(Logger)
	}

	images := getopt.Args()
	if len(images) < 1 {
		fmt.Fprintln(os.Stderr, "usage: lc3vm [-c|--config FILE] [-l|--log FILE] <image-file> [<image-file> ...]")
		os.Exit(2)
	}

	mem, term := buildMachine()

	for _, path := range images {
		if err := loadImage(path, mem); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load image: %s\n", path)
			os.Exit(1)
		}
	}

	restore, err := term.EnterRawMode()
	if err != nil {
		Logger.Warn("entering raw terminal mode", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	term.InstallInterruptHandler(func() {
		restore()
		cancel()
	})

	vm := cpu.New(mem, term)
	vm.Reset(settings.ResetVector)

	code := run(vm, ctx)
	restore()
	os.Exit(code)
}

// buildMachine wires memory to the host terminal's non-blocking key
// poll, per the memory-mapped keyboard register contract.
func buildMachine() (*memory.Memory, *console.Terminal) {
	term := console.NewTerminal()
	mem := memory.New(term.KeyPoll, term.KeyRead)
	return mem, term
}

func loadImage(path string, mem *memory.Memory) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, _, err = loader.Load(f, mem)
	return err
}

// run executes the VM to completion and maps its terminal error to the
// external process exit code.
func run(vm *cpu.CPU, ctx context.Context) int {
	err := vm.Run(ctx)
	switch {
	case errors.Is(err, cpu.ErrHalted):
		return 0
	case errors.Is(err, cpu.ErrInterrupted):
		return -2
	case errors.Is(err, cpu.ErrReservedOpcode):
		Logger.Error("execution aborted", "error", err)
		return 1
	default:
		Logger.Error("execution aborted", "error", err)
		return 1
	}
}
