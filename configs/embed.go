// Package configs provides embedded configuration templates for wordseq.
//
// The user template is written by `wordseq config init` to
// ~/.config/wordseq/config.yaml. See internal/config Load() for how it is
// layered with the project file (.wordseq.yaml) and WORDSEQ_* variables.
package configs

import _ "embed"

// UserConfigTemplate is the template for user/machine-level configuration.
//
//go:embed user-config.example.yaml
var UserConfigTemplate string
