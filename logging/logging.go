package logging

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/bartossh/xtransfer/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Helper helps with writing logs to io.Writers.
// Helper implements logger.Logger interface.
// Each entry is a single JSON line written to every writer in order.
type Helper struct {
	mu        *sync.Mutex
	callOnErr func(error)
	component string
	writers   []io.Writer
}

// New creates new Helper.
func New(callOnErr func(error), writers ...io.Writer) Helper {
	return Helper{mu: &sync.Mutex{}, callOnErr: callOnErr, writers: writers}
}

// Named returns Helper sharing writers that tags every entry with the component name.
func (h Helper) Named(component string) Helper {
	h.component = component
	return h
}

// Debug writes debug log.
func (h Helper) Debug(msg string) {
	h.write("debug", msg)
}

// Info writes info log.
func (h Helper) Info(msg string) {
	h.write("info", msg)
}

// Warn writes warning log.
func (h Helper) Warn(msg string) {
	h.write("warn", msg)
}

// Error writes error log.
func (h Helper) Error(msg string) {
	h.write("error", msg)
}

// Fatal writes fatal log.
func (h Helper) Fatal(msg string) {
	h.write("fatal", msg)
}

func (h Helper) write(level, msg string) {
	l := logger.Log{
		ID:        primitive.NewObjectID().Hex(),
		CreatedAt: time.Now(),
		Level:     level,
		Component: h.component,
		Msg:       msg,
	}
	raw, err := json.Marshal(l)
	if err != nil {
		h.onErr(err)
		return
	}
	raw = append(raw, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, w := range h.writers {
		if _, err := w.Write(raw); err != nil {
			h.onErr(err)
		}
	}
}

func (h Helper) onErr(err error) {
	if h.callOnErr != nil {
		h.callOnErr(err)
	}
}
