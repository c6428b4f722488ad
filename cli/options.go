// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli loads configuration objects from `default:` struct tags
// and from TOML or YAML config files, with support for including other
// config files.
package cli

// Options contains the options passed to [Config] and [Open].
type Options struct {

	// AppName is the name of the app, used in messages.
	AppName string

	// IncludePaths is the ordered list of paths in which
	// config files and their includes are searched for.
	IncludePaths []string

	// DefaultFiles are the config files opened when no
	// file is specified, if they exist on IncludePaths.
	DefaultFiles []string
}

// DefaultOptions returns default options for the given app name,
// searching for config files in the current directory.
func DefaultOptions(appName string) *Options {
	return &Options{
		AppName:      appName,
		IncludePaths: []string{"."},
		DefaultFiles: []string{"config.toml", "config.yaml"},
	}
}

// includer facilitates processing include files in config objects.
type includer interface {

	// IncludesPtr returns a pointer to the "Includes []string"
	// field containing file(s) to include before processing
	// the current config file.
	IncludesPtr() *[]string
}
