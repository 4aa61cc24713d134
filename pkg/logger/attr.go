package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Error returns an "error" attribute, or an empty Attr for nil errors.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups non-nil errors under "errors".
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

func Component(name string) slog.Attr { return slog.String("component", name) }

// Stage names an assembly stage.
func Stage(name string) slog.Attr { return slog.String("stage", name) }

func Duration(d time.Duration) slog.Attr { return slog.Duration("duration", d) }

func Status(code int) slog.Attr { return slog.Int("status", code) }

func Addr(addr string) slog.Attr { return slog.String("addr", addr) }
