package file

import (
	"fmt"
	"os"
)

// Flushes pending lines and reopens the path, picking up a file moved away by log rotation
func (mod *OutModule) Reopen() (err error) {
	if mod == nil {
		return
	}

	mod.mu.Lock()
	defer mod.mu.Unlock()

	_, err = mod.flush()
	if err != nil {
		err = fmt.Errorf("failed to flush before reopen: %v", err)
		return
	}

	file, err := os.OpenFile(mod.filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
	if err != nil {
		err = fmt.Errorf("failed to reopen output file %q: %v", mod.filePath, err)
		return
	}

	old := mod.sink
	mod.sink = file
	if old != nil {
		_ = old.Close()
	}
	return
}

// Flushes remaining lines and closes the file
func (mod *OutModule) Shutdown() (err error) {
	if mod == nil {
		return
	}

	mod.mu.Lock()
	defer mod.mu.Unlock()

	_, err = mod.flush()
	if mod.sink != nil {
		closeErr := mod.sink.Close()
		if err == nil {
			err = closeErr
		}
		mod.sink = nil
	}
	return
}
