package i18n

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dmitrymomot/bootstrap/pkg/logger"
)

// Loader loads translations in the background and publishes them once.
// Ready is closed after the first load attempt, whether it failed or not;
// until then Translator returns nil and Translate returns keys unchanged.
type Loader struct {
	dir         string
	fsys        fs.FS
	defaultLang string
	log         *slog.Logger

	ready     chan struct{}
	startOnce sync.Once
	readyOnce sync.Once

	mu         sync.RWMutex
	translator *Translator
	matcher    *Matcher
	err        error

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type LoaderOption func(*Loader)

// WithFS loads from fsys instead of the directory. Watching is unavailable.
func WithFS(fsys fs.FS) LoaderOption {
	return func(l *Loader) { l.fsys = fsys }
}

func WithLoaderLogger(log *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

func WithLoaderDefaultLanguage(lang string) LoaderOption {
	return func(l *Loader) {
		if lang != "" {
			l.defaultLang = lang
		}
	}
}

// NewLoader creates a loader for the translations directory dir.
// A missing directory yields an empty translator, not an error.
func NewLoader(dir string, opts ...LoaderOption) *Loader {
	l := &Loader{
		dir:         dir,
		defaultLang: DefaultLanguage,
		log:         logger.Noop(),
		ready:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.matcher = NewMatcher(nil, l.defaultLang)
	return l
}

// Start begins loading in the background. Later calls are no-ops.
func (l *Loader) Start(ctx context.Context) {
	l.startOnce.Do(func() {
		ctx, l.cancel = context.WithCancel(ctx)
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			if err := l.Reload(ctx); err != nil {
				l.log.ErrorContext(ctx, "failed to load translations", logger.Error(err), logger.Component("i18n"))
			}
		}()
	})
}

// Ready is closed once the first load attempt finished.
func (l *Loader) Ready() <-chan struct{} { return l.ready }

// Wait blocks until translations are loaded, ctx is done or timeout elapses.
// A non-positive timeout waits for ctx only.
func (l *Loader) Wait(ctx context.Context, timeout time.Duration) (*Translator, error) {
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}
	select {
	case <-l.ready:
		l.mu.RLock()
		defer l.mu.RUnlock()
		return l.translator, l.err
	case <-expired:
		return nil, ErrNotReady
	case <-ctx.Done():
		return nil, errors.Join(ErrNotReady, ctx.Err())
	}
}

// Translator returns the loaded translator or nil before readiness.
func (l *Loader) Translator() *Translator {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.translator
}

// Translate translates key in the request language once translations are
// available and returns key otherwise.
func (l *Loader) Translate(ctx context.Context, key string, args ...string) string {
	if t := l.Translator(); t != nil {
		return t.Tc(ctx, key, args...)
	}
	return sprintf(key, args)
}

// Reload reads the translations again and swaps them in atomically. On
// failure the previous translations stay in place.
func (l *Loader) Reload(ctx context.Context) error {
	translations, err := l.load(ctx)

	l.mu.Lock()
	if err == nil {
		l.translator = NewTranslator(translations, WithDefaultLanguage(l.defaultLang), WithLogger(l.log))
		l.matcher = NewMatcher(l.translator.SupportedLanguages(), l.defaultLang)
	} else if l.translator == nil {
		l.translator = NewTranslator(nil, WithDefaultLanguage(l.defaultLang), WithLogger(l.log))
	}
	l.err = err
	l.mu.Unlock()

	l.readyOnce.Do(func() { close(l.ready) })

	if err == nil {
		l.log.DebugContext(ctx, "translations loaded",
			slog.Any("languages", l.Translator().SupportedLanguages()),
			logger.Component("i18n"),
		)
	}
	return err
}

func (l *Loader) load(ctx context.Context) (map[string]map[string]any, error) {
	fsys := l.fsys
	if fsys == nil {
		if _, err := os.Stat(l.dir); errors.Is(err, fs.ErrNotExist) {
			l.log.WarnContext(ctx, "translations directory not found", slog.String("dir", l.dir), logger.Component("i18n"))
			return map[string]map[string]any{}, nil
		}
		fsys = os.DirFS(l.dir)
	}
	return LoadFS(ctx, fsys)
}

// Language returns the request language extractor for the loaded languages.
func (l *Loader) Language(r *http.Request) string {
	l.mu.RLock()
	m := l.matcher
	l.mu.RUnlock()
	return m.Extractor()(r)
}

// Watch reloads translations whenever a file in the directory changes.
// It returns when ctx is done or the loader is closed.
func (l *Loader) Watch(ctx context.Context) error {
	if l.fsys != nil {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Join(ErrWatch, err)
	}
	err = filepath.WalkDir(l.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
	if err != nil {
		_ = w.Close()
		return errors.Join(ErrWatch, err)
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer w.Close()

		const debounce = 100 * time.Millisecond
		var pending <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Create) {
					if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
						_ = w.Add(ev.Name)
					}
				}
				if ParserFor(ev.Name) != nil {
					pending = time.After(debounce)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				l.log.WarnContext(ctx, "translations watcher error", logger.Error(err), logger.Component("i18n"))
			case <-pending:
				pending = nil
				if err := l.Reload(ctx); err != nil {
					l.log.ErrorContext(ctx, "failed to reload translations", logger.Error(err), logger.Component("i18n"))
				} else {
					l.log.InfoContext(ctx, "translations reloaded", logger.Component("i18n"))
				}
			}
		}
	}()
	return nil
}

// Close stops background loading and watching.
func (l *Loader) Close() error {
	if l.cancel != nil {
		l.cancel()
	}
	l.wg.Wait()
	return nil
}
