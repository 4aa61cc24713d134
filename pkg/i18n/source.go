package i18n

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"strings"
)

// LoadFS reads every YAML and JSON file of fsys.
//
// Files at the root hold several languages ({"en": {...}, "cy": {...}}).
// Files inside a directory named after a language (en/default.json) hold the
// keys of that language only. Keys of files for the same language are merged
// at the top level in lexical file order.
func LoadFS(ctx context.Context, fsys fs.FS) (map[string]map[string]any, error) {
	out := make(map[string]map[string]any)

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return errors.Join(ErrLoadingCancelled, err)
		}
		if d.IsDir() {
			return nil
		}
		parser := ParserFor(p)
		if parser == nil {
			return nil
		}

		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return errors.Join(ErrFailedToReadFile, err)
		}
		data, err := parser.Parse(content)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}

		dir := path.Dir(p)
		if dir == "." {
			langs, err := splitLanguages(p, data)
			if err != nil {
				return err
			}
			for lang, keys := range langs {
				merge(out, lang, keys)
			}
			return nil
		}
		lang, _, _ := strings.Cut(dir, "/")
		merge(out, lang, data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func merge(out map[string]map[string]any, lang string, keys map[string]any) {
	lang = strings.ToLower(lang)
	if out[lang] == nil {
		out[lang] = make(map[string]any, len(keys))
	}
	maps.Copy(out[lang], keys)
}
