package logging

import (
	"io"
	"slices"
	"sync"
)

// Switch is a Logger whose backend can be replaced while the program runs.
// Loggers derived with With keep following the replacement.
type Switch struct {
	st   *switchState
	args []any
}

type switchState struct {
	mu     sync.RWMutex
	l      Logger
	closer io.Closer
}

// NewSwitch wraps l. closer, if not nil, is closed when l is replaced or on
// Close.
func NewSwitch(l Logger, closer io.Closer) *Switch {
	return &Switch{st: &switchState{l: l, closer: closer}}
}

// Replace swaps the backend and closes the previous one.
func (s *Switch) Replace(l Logger, closer io.Closer) error {
	s.st.mu.Lock()
	old := s.st.closer
	s.st.l, s.st.closer = l, closer
	s.st.mu.Unlock()

	if old != nil {
		return old.Close()
	}
	return nil
}

// Close releases the current backend.
func (s *Switch) Close() error {
	s.st.mu.Lock()
	c := s.st.closer
	s.st.closer = nil
	s.st.mu.Unlock()

	if c != nil {
		return c.Close()
	}
	return nil
}

func (s *Switch) current() Logger {
	s.st.mu.RLock()
	l := s.st.l
	s.st.mu.RUnlock()

	if len(s.args) > 0 {
		return l.With(s.args...)
	}
	return l
}

func (s *Switch) Debug(msg string, args ...any) { s.current().Debug(msg, args...) }
func (s *Switch) Info(msg string, args ...any)  { s.current().Info(msg, args...) }
func (s *Switch) Warn(msg string, args ...any)  { s.current().Warn(msg, args...) }
func (s *Switch) Error(msg string, args ...any) { s.current().Error(msg, args...) }

func (s *Switch) With(args ...any) Logger {
	return &Switch{st: s.st, args: append(slices.Clone(s.args), args...)}
}
