// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"cogentcore.org/playground/base/errors"
	"cogentcore.org/playground/base/fsx"
	"cogentcore.org/playground/base/iox/tomlx"
	"cogentcore.org/playground/base/iox/yamlx"
)

// Config sets the given config object from its `default:` tags and
// then from the given config file, or the first of [Options.DefaultFiles]
// found on [Options.IncludePaths] if file is empty. A missing default
// file is not an error.
func Config(opts *Options, cfg any, file string) error {
	var errs []error
	errs = append(errs, SetFromDefaults(cfg))
	if file == "" {
		for _, df := range opts.DefaultFiles {
			if len(fsx.FindFilesOnPaths(opts.IncludePaths, df)) > 0 {
				file = df
				break
			}
		}
		if file == "" {
			return errors.Join(errs...)
		}
	}
	errs = append(errs, openWithIncludes(opts, cfg, file))
	return errors.Join(errs...)
}

// Open reads the given config object from the given file, choosing
// TOML or YAML encoding based on the file extension.
func Open(cfg any, file string) error {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return yamlx.Open(cfg, file)
	case ".toml", "":
		return tomlx.Open(cfg, file)
	}
	return fmt.Errorf("cli.Open: unsupported config file type %q", file)
}

func openFiles(cfg any, files ...string) error {
	var errs []error
	for _, fn := range files {
		errs = append(errs, Open(cfg, fn))
	}
	return errors.Join(errs...)
}

// openWithIncludes reads the config struct from the given config file
// using the given options, looking on [Options.IncludePaths] for the file.
// It opens any Includes specified in the given config file in the natural
// include order so that includers overwrite included settings.
// Is equivalent to Open if there are no Includes. It returns an error if
// any of the include files cannot be found on [Options.IncludePaths].
func openWithIncludes(opts *Options, cfg any, file string) error {
	files := fsx.FindFilesOnPaths(opts.IncludePaths, file)
	if len(files) == 0 {
		return fmt.Errorf("OpenWithIncludes: no files found for %q", file)
	}
	err := openFiles(cfg, files...)
	if err != nil {
		return err
	}
	incfg, ok := cfg.(includer)
	if !ok {
		return err
	}
	incs, err := includeStack(opts, incfg)
	ni := len(incs)
	if ni == 0 {
		return err
	}
	for i := ni - 1; i >= 0; i-- {
		inc := incs[i]
		err = openFiles(cfg, fsx.FindFilesOnPaths(opts.IncludePaths, inc)...)
		if err != nil {
			slog.Error(err.Error())
		}
	}
	// reopen original
	err = openFiles(cfg, files...)
	if err != nil {
		return err
	}
	*incfg.IncludesPtr() = incs
	return err
}

// includeStack returns the stack of include files in the natural
// order in which they are encountered (nil if none).
// Files should then be read in reverse order of the slice.
// Returns an error if any of the include files cannot be found on IncludePath.
// Does not alter cfg.
func includeStack(opts *Options, cfg includer) ([]string, error) {
	clone := slices.Clone(*cfg.IncludesPtr())
	var stack []string
	var errs []error
	for len(clone) > 0 {
		inc := clone[0]
		clone = clone[1:]
		if slices.Contains(stack, inc) {
			continue
		}
		files := fsx.FindFilesOnPaths(opts.IncludePaths, inc)
		if len(files) == 0 {
			errs = append(errs, fmt.Errorf("include file %q not found on paths %v", inc, opts.IncludePaths))
			continue
		}
		stack = append(stack, inc)
		next := &includesOnly{}
		if err := openFiles(next, files...); err != nil {
			errs = append(errs, err)
			continue
		}
		clone = append(clone, next.Includes...)
	}
	return stack, errors.Join(errs...)
}

// includesOnly reads just the Includes of a config file.
type includesOnly struct {
	Includes []string `yaml:"includes"`
}
