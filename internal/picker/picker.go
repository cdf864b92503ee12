// Package picker shows file and folder selection dialogs.
//
// A Picker call blocks the calling goroutine until the user chooses a path or
// dismisses the dialog. There is no timeout besides the context: the wait is
// tied to user action. Pickers hold no lock, so overlapping calls each show
// their own dialog; serializing them is the caller's business.
package picker

import (
	"context"
	"strings"
)

// Selection is the outcome of one dialog.
type Selection struct {
	// Path is the absolute path chosen by the user. Empty when Picked is false.
	Path string

	// Picked is false when the user cancelled.
	Picked bool
}

// Cancelled is the Selection returned when the dialog is dismissed.
var Cancelled = Selection{}

// Chose returns a Selection for path.
func Chose(path string) Selection {
	return Selection{Path: path, Picked: true}
}

// Filter restricts a file dialog to a set of extensions.
type Filter struct {
	// Name is shown in the dialog's file type selector.
	Name string

	// Extensions are matched case-insensitively, without the leading dot.
	Extensions []string
}

// JSONFilter limits a file dialog to JSON documents.
var JSONFilter = Filter{Name: "JSON", Extensions: []string{"json"}}

// Patterns returns shell-style glob patterns for the filter.
func (f Filter) Patterns() []string {
	out := make([]string, 0, len(f.Extensions))
	for _, ext := range f.Extensions {
		out = append(out, "*."+strings.TrimPrefix(ext, "."))
	}
	return out
}

// Suffixes returns dotted suffixes for the filter.
func (f Filter) Suffixes() []string {
	out := make([]string, 0, len(f.Extensions))
	for _, ext := range f.Extensions {
		out = append(out, "."+strings.TrimPrefix(ext, "."))
	}
	return out
}

// Picker shows file and folder dialogs.
type Picker interface {
	// PickFile asks the user for an existing file, optionally filtered.
	PickFile(ctx context.Context, filters ...Filter) (Selection, error)

	// PickFolder asks the user for an existing directory.
	PickFolder(ctx context.Context) (Selection, error)
}

// Fixed answers every call with the same selection. It backs the CLI's
// --path flag, where the path is known before the flow starts.
type Fixed struct {
	Selection Selection
}

// PickFile returns the preset selection.
func (p Fixed) PickFile(ctx context.Context, _ ...Filter) (Selection, error) {
	if err := ctx.Err(); err != nil {
		return Cancelled, err
	}
	return p.Selection, nil
}

// PickFolder returns the preset selection.
func (p Fixed) PickFolder(ctx context.Context) (Selection, error) {
	if err := ctx.Err(); err != nil {
		return Cancelled, err
	}
	return p.Selection, nil
}

// Func adapts plain functions to Picker. A nil function cancels.
type Func struct {
	File   func(ctx context.Context, filters []Filter) (Selection, error)
	Folder func(ctx context.Context) (Selection, error)
}

// PickFile calls p.File.
func (p Func) PickFile(ctx context.Context, filters ...Filter) (Selection, error) {
	if p.File == nil {
		return Cancelled, nil
	}
	return p.File(ctx, filters)
}

// PickFolder calls p.Folder.
func (p Func) PickFolder(ctx context.Context) (Selection, error) {
	if p.Folder == nil {
		return Cancelled, nil
	}
	return p.Folder(ctx)
}
