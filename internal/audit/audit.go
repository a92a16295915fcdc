package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
)

var (
	globalWriter Writer = NopWriter{}
	globalMu     sync.RWMutex
	enabled      bool
)

// Init installs w as the process-wide audit writer. A nil writer disables
// audit logging.
func Init(w Writer) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if w == nil {
		globalWriter = NopWriter{}
		enabled = false
		return nil
	}
	globalWriter = w
	enabled = true
	return nil
}

// InitFile installs a FileWriter for path. An empty path disables audit
// logging.
func InitFile(path string) error {
	if path == "" {
		return Init(nil)
	}
	w, err := NewFileWriter(path)
	if err != nil {
		return err
	}
	return Init(w)
}

// Close closes the global audit writer and disables audit logging.
func Close() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	err := globalWriter.Close()
	globalWriter = NopWriter{}
	enabled = false
	return err
}

// Enabled returns whether audit logging is active.
func Enabled() bool {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return enabled
}

// Log writes an audit event to the global writer.
func Log(event *Event) error {
	globalMu.RLock()
	w := globalWriter
	globalMu.RUnlock()

	return w.Write(event)
}

// MustLog writes an audit event and wraps any failure so the caller can
// fail the parent operation.
func MustLog(event *Event) error {
	if err := Log(event); err != nil {
		return fmt.Errorf("audit log failed: %w", err)
	}
	return nil
}

// Digest returns the hash-prefixed SHA-256 of data, as recorded in Object.Digest.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return HashPrefix + hex.EncodeToString(sum[:])
}

func resultOf(success bool) Result {
	if success {
		return ResultSuccess
	}
	return ResultFailure
}

// LogVectorsLoaded logs a parsed input document.
func LogVectorsLoaded(path, digest string, ctx Context, success bool) error {
	event := NewEvent(EventVectorsLoaded, resultOf(success)).
		WithObject(Object{Type: "vectors", Path: path, Digest: digest}).
		WithContext(ctx)
	return MustLog(event)
}

// LogHeaderGenerated logs a header generation attempt.
func LogHeaderGenerated(output, digest string, ctx Context, success bool) error {
	event := NewEvent(EventHeaderGenerated, resultOf(success)).
		WithObject(Object{Type: "header", Path: output, Digest: digest}).
		WithContext(ctx)
	return MustLog(event)
}
