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

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Component(name string) Field {
	return String("component", name)
}

// Flow field helpers

func SessionID(id string) Field {
	return String("session_id", id)
}

func NodeID(id string) Field {
	return String("node_id", id)
}

func EdgeID(id string) Field {
	return String("edge_id", id)
}

func Source(id string) Field {
	return String("source", id)
}

func Target(id string) Field {
	return String("target", id)
}

func Version(v uint64) Field {
	return Field{Key: "version", Value: v}
}

// maxPromptLen bounds prompt text in log lines.
const maxPromptLen = 80

// Prompt logs prompt text, truncated to keep log lines short.
func Prompt(text string) Field {
	r := []rune(text)
	if len(r) > maxPromptLen {
		text = string(r[:maxPromptLen]) + "..."
	}
	return String("prompt", text)
}

func Operation(op string) Field {
	return String("operation", op)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

func RequestID(id string) Field {
	return String("request_id", id)
}
