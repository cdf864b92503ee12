package dialog

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Kind selects the message template for a failure.
type Kind string

const (
	// KindFolderMissing: args (folder path, error).
	KindFolderMissing Kind = "folder_missing"
	// KindFileMissing: args (file path, error).
	KindFileMissing Kind = "file_missing"
	// KindReadFailed: args (file path, error).
	KindReadFailed Kind = "read_failed"
	// KindWorkspaceEmitFailed: args (folder path, error).
	KindWorkspaceEmitFailed Kind = "workspace_emit_failed"
	// KindFileEmitFailed: args (file path, error).
	KindFileEmitFailed Kind = "file_emit_failed"
	// KindSignalEmitFailed: args (menu label, error).
	KindSignalEmitFailed Kind = "signal_emit_failed"
)

var templates = map[language.Tag]map[Kind]string{
	language.English: {
		KindFolderMissing:       "Directory %s does not exist: %v",
		KindFileMissing:         "File %s does not exist: %v",
		KindReadFailed:          "Failed to read %s: %v",
		KindWorkspaceEmitFailed: "Failed to load workspace '%s': %v",
		KindFileEmitFailed:      "Failed to load file '%s': %v",
		KindSignalEmitFailed:    "Failed to send '%s' to the editor: %v",
	},
	language.Japanese: {
		KindFolderMissing:       "%sにディレクトリが存在しません：%v",
		KindFileMissing:         "%sにファイルが存在しません：%v",
		KindReadFailed:          "%sの読み込みに失敗：%v",
		KindWorkspaceEmitFailed: "ワークスペース'%s'のロードに失敗：%v",
		KindFileEmitFailed:      "ファイル'%s'のロードに失敗：%v",
		KindSignalEmitFailed:    "'%s'の送信に失敗：%v",
	},
}

// Locales lists the supported message languages.
func Locales() []string {
	return []string{language.English.String(), language.Japanese.String()}
}

// Catalog renders failure messages in one language.
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
}

// NewCatalog builds a catalog for locale, e.g. "en" or "ja-JP". Unsupported
// languages fall back to English; malformed tags are an error.
func NewCatalog(locale string) (*Catalog, error) {
	requested := language.English
	if locale != "" {
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
		}
		requested = tag
	}

	// English first: the matcher falls back to the first supported tag
	supported := []language.Tag{language.English, language.Japanese}
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for _, tag := range supported {
		for kind, tmpl := range templates[tag] {
			if err := b.SetString(tag, string(kind), tmpl); err != nil {
				return nil, fmt.Errorf("failed to register %s message %s: %w", tag, kind, err)
			}
		}
	}

	matched, _, _ := language.NewMatcher(supported).Match(requested)
	base, _ := matched.Base()
	tag := language.Make(base.String())

	return &Catalog{tag: tag, printer: message.NewPrinter(tag, message.Catalog(b))}, nil
}

// MustCatalog is NewCatalog for known-good locales.
func MustCatalog(locale string) *Catalog {
	c, err := NewCatalog(locale)
	if err != nil {
		panic(err)
	}
	return c
}

// Language returns the language messages are rendered in.
func (c *Catalog) Language() language.Tag {
	return c.tag
}

// Format renders the template for kind with args.
func (c *Catalog) Format(kind Kind, args ...any) string {
	return c.printer.Sprintf(string(kind), args...)
}
