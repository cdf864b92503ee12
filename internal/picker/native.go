package picker

import (
	"context"
	"errors"

	"github.com/ncruces/zenity"
)

// Native shows the operating system's own file dialogs.
type Native struct {
	// Title overrides the dialog title when set.
	Title string

	// StartDir is the directory the dialog opens in.
	StartDir string
}

// PickFile shows a native open-file dialog.
func (n Native) PickFile(ctx context.Context, filters ...Filter) (Selection, error) {
	opts := n.options(ctx, "Open File")
	if len(filters) > 0 {
		ff := make(zenity.FileFilters, 0, len(filters))
		for _, f := range filters {
			ff = append(ff, zenity.FileFilter{Name: f.Name, Patterns: f.Patterns(), CaseFold: true})
		}
		opts = append(opts, ff)
	}
	return n.run(opts)
}

// PickFolder shows a native choose-folder dialog.
func (n Native) PickFolder(ctx context.Context) (Selection, error) {
	opts := append(n.options(ctx, "Open Workspace"), zenity.Directory())
	return n.run(opts)
}

func (n Native) options(ctx context.Context, title string) []zenity.Option {
	if n.Title != "" {
		title = n.Title
	}
	opts := []zenity.Option{zenity.Context(ctx), zenity.Title(title)}
	if n.StartDir != "" {
		opts = append(opts, zenity.Filename(n.StartDir))
	}
	return opts
}

func (n Native) run(opts []zenity.Option) (Selection, error) {
	path, err := zenity.SelectFile(opts...)
	if errors.Is(err, zenity.ErrCanceled) {
		return Cancelled, nil
	}
	if err != nil {
		return Cancelled, err
	}
	if path == "" {
		return Cancelled, nil
	}
	return Chose(path), nil
}
