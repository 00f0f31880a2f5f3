// Package logfields holds the canonical slog attribute keys used across trainsite.
package logfields

import "log/slog"

const (
	KeyBuildID    = "build_id"
	KeyStep       = "step"
	KeyKind       = "kind"
	KeyPath       = "path"
	KeyTemplate   = "template"
	KeyCount      = "count"
	KeyLanguage   = "language"
	KeyTopic      = "topic"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Step(name string) slog.Attr      { return slog.String(KeyStep, name) }
func Kind(k string) slog.Attr         { return slog.String(KeyKind, k) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Template(t string) slog.Attr     { return slog.String(KeyTemplate, t) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Language(l string) slog.Attr     { return slog.String(KeyLanguage, l) }
func Topic(t string) slog.Attr        { return slog.String(KeyTopic, t) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
