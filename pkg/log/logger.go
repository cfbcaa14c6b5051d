package log

import "time"

// Logger provides structured logging capabilities.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value interface{}
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Duration creates a duration field.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error field with key "error".
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

// Frames creates a "frames" field holding a frame count.
func Frames(n int) Field {
	return Field{Key: "frames", Value: n}
}

// Entries creates an "entries" field holding an entry count.
func Entries(n int) Field {
	return Field{Key: "entries", Value: n}
}

// Bytes creates a "bytes" field holding a payload size.
func Bytes(n int) Field {
	return Field{Key: "bytes", Value: n}
}

