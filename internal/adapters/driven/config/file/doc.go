// Package file provides file-based implementations of the ConfigStore
// and PromptStore driven ports. Configuration lives in a TOML file and
// prompts in user-editable text files, both under ~/.lectern/ by
// default.
package file
