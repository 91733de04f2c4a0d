package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Field helpers for common pipeline attributes
func Component(name string) Field {
	return String("component", name)
}

func File(name string) Field {
	return String("file", name)
}

func Stage(name string) Field {
	return String("stage", name)
}

func Vertices(n int) Field {
	return Int("vertices", n)
}

func Edges(n int) Field {
	return Int("edges", n)
}

func Segments(n int) Field {
	return Int("segments", n)
}

func Pass(n int) Field {
	return Int("pass", n)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

func Path(p string) Field {
	return String("path", p)
}
