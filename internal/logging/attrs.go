package logging

import (
	"log/slog"
	"slices"
	"time"
)

// scopedAttr is an attribute bound with WithAttrs, with the groups that were
// open at the time.
type scopedAttr struct {
	groups []string
	attr   slog.Attr
}

// scope tracks the WithAttrs/WithGroup state shared by the journal and
// buffer handlers.
type scope struct {
	attrs  []scopedAttr
	groups []string
}

func (s scope) withAttrs(attrs []slog.Attr) scope {
	next := scope{attrs: slices.Clip(s.attrs), groups: s.groups}
	for _, a := range attrs {
		next.attrs = append(next.attrs, scopedAttr{groups: s.groups, attr: a})
	}
	return next
}

func (s scope) withGroup(name string) scope {
	if name == "" {
		return s
	}
	return scope{attrs: s.attrs, groups: append(slices.Clip(s.groups), name)}
}

// each calls visit for every leaf attribute of r, bound ones first. path is
// the group names followed by the attribute key.
func (s scope) each(r slog.Record, visit func(path []string, v slog.Value)) {
	for _, sa := range s.attrs {
		walkAttr(sa.groups, sa.attr, visit)
	}
	r.Attrs(func(a slog.Attr) bool {
		walkAttr(s.groups, a, visit)
		return true
	})
}

func walkAttr(groups []string, a slog.Attr, visit func([]string, slog.Value)) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		inner := groups
		if a.Key != "" {
			inner = append(slices.Clip(groups), a.Key)
		}
		for _, ga := range v.Group() {
			walkAttr(inner, ga, visit)
		}
		return
	}
	if a.Key == "" {
		return
	}
	visit(append(slices.Clip(groups), a.Key), v)
}

// plainValue converts v to a JSON-friendly value.
func plainValue(v slog.Value) any {
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().Format(time.RFC3339Nano)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return v.Any()
	default:
		return v.Any()
	}
}

// levelName is the lowercase level name used in buffered entries.
func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warn"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}
