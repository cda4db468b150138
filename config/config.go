/*
 * lc3vm - Configuration file parser
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

// Package config parses the VM's optional settings file: a handful of
// key=value lines controlling logging and the reset vector. None of
// this changes instruction semantics; it exists so the log
// destination/level and the reset PC are not hardcoded into main.go.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// DefaultResetVector is the PC value the CPU resets to, matching the
// LC-3 reference loader convention of placing programs at 0x3000.
const DefaultResetVector uint16 = 0x3000

// Settings holds the VM's tunable, non-semantic options.
type Settings struct {
	LogFile     string
	LogLevel    slog.Level
	ResetVector uint16
}

// Default returns the settings in effect when no config file is given.
func Default() Settings {
	return Settings{
		LogLevel:    slog.LevelInfo,
		ResetVector: DefaultResetVector,
	}
}

var levelNames = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Load reads a line-oriented key=value settings file. A missing file
// is not an error: Default() is returned unchanged. '#' starts a
// comment that runs to end of line; blank lines are skipped.
func Load(path string) (Settings, error) {
	settings := Default()
	if path == "" {
		return settings, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, err
	}
	defer file.Close()

	if err := settings.parse(file); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func (s *Settings) parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("config: line %d: expected key=value, got %q", lineNumber, line)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		if err := s.apply(key, value); err != nil {
			return fmt.Errorf("config: line %d: %w", lineNumber, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return nil
}

func (s *Settings) apply(key, value string) error {
	switch key {
	case "logfile":
		s.LogFile = value
	case "loglevel":
		level, ok := levelNames[strings.ToLower(value)]
		if !ok {
			return fmt.Errorf("unknown loglevel %q", value)
		}
		s.LogLevel = level
	case "resetvector":
		v, err := strconv.ParseUint(strings.TrimPrefix(value, "0x"), 16, 16)
		if err != nil {
			return fmt.Errorf("invalid resetvector %q: %w", value, err)
		}
		s.ResetVector = uint16(v)
	default:
		return errors.New("unknown option " + key)
	}
	return nil
}
