package journal

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Logger is a cheap, copyable handle bound to a topic. All methods enqueue
// onto the pipeline and return without waiting for persistence.
//
// Logging against a terminated pipeline is unrecoverable: the process must
// not keep running under the assumption that its logs are being recorded, so
// Info, Warn, Error and State panic with an error wrapping ErrTerminated.
type Logger struct {
	pipeline *Pipeline
	topic    string
}

// Topic returns the topic the handle is bound to.
func (l *Logger) Topic() string {
	return l.topic
}

// WithTopic returns a handle bound to a different topic on the same pipeline.
func (l *Logger) WithTopic(topic string) *Logger {
	if topic == emptyString {
		topic = l.pipeline.cfg.DefaultTopic
	}
	return &Logger{pipeline: l.pipeline, topic: topic}
}

// Info enqueues an informational message.
func (l *Logger) Info(text string) {
	l.send(Information, text)
}

// Warn enqueues a warning message.
func (l *Logger) Warn(text string) {
	l.send(Warning, text)
}

// Error enqueues an error message.
func (l *Logger) Error(text string) {
	l.send(Error, text)
}

// State serializes value to a JSON snapshot and enqueues it under the given
// label. A value that cannot be serialized is an error naming its type; the
// message is not enqueued in that case.
func (l *Logger) State(label string, value any) error {
	snap, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("journal: unable to serialize state snapshot of %T: %w", value, err)
	}
	l.send(StateKind(string(snap)), label)
	return nil
}

func (l *Logger) send(kind Kind, text string) {
	msg := Message{
		Time:  Now(),
		Level: kind,
		Topic: l.topic,
		Text:  text,
	}
	if err := l.pipeline.enqueue(msg); err != nil {
		panic(fmt.Errorf("journal: unable to send log message: %w", err))
	}
}
