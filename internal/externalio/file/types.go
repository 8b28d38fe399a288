package file

import (
	"io"
	"sync"
)

// Appends decoded events as JSON lines
type OutModule struct {
	filePath    string
	mu          sync.Mutex // guards sink and batchBuffer across reopen
	sink        io.WriteCloser
	batchBuffer *[][]byte
}
