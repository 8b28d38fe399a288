package file

import (
	"context"
	"fmt"
	"sensorweb/internal/global"
	"sensorweb/internal/logctx"
	"sensorweb/pkg/message"
)

const batchSize int = 20

// Buffers one event as a JSON line, writing the batch once it fills
func (mod *OutModule) Write(ctx context.Context, msg message.NetworkMessage) (linesWritten int, err error) {
	if mod == nil {
		return
	}

	line, err := msg.MarshalJSON()
	if err != nil {
		return
	}
	line = append(line, '\n')

	mod.mu.Lock()
	defer mod.mu.Unlock()

	*mod.batchBuffer = append(*mod.batchBuffer, line)

	if len(*mod.batchBuffer) >= batchSize {
		logctx.LogEvent(ctx, global.VerbosityDebug, global.InfoLog,
			"flushing %d buffered events to %s\n", len(*mod.batchBuffer), mod.filePath)
		linesWritten, err = mod.flush()
		if err != nil {
			return
		}
	}
	return
}

// Writes every buffered line to the file in arrival order
func (mod *OutModule) FlushBuffer() (flushedCnt int, err error) {
	if mod == nil || mod.batchBuffer == nil {
		return
	}

	mod.mu.Lock()
	defer mod.mu.Unlock()
	flushedCnt, err = mod.flush()
	return
}

// Caller holds mu
func (mod *OutModule) flush() (flushedCnt int, err error) {
	if mod.sink == nil {
		if len(*mod.batchBuffer) > 0 {
			err = fmt.Errorf("output file %q is closed", mod.filePath)
		}
		return
	}

	for _, line := range *mod.batchBuffer {
		data := line
		for len(data) > 0 {
			var n int
			n, err = mod.sink.Write(data)
			if err != nil {
				// Keep what was not written for the next flush
				*mod.batchBuffer = (*mod.batchBuffer)[flushedCnt:]
				(*mod.batchBuffer)[0] = data
				return
			}
			data = data[n:]
		}
		flushedCnt++
	}

	*mod.batchBuffer = (*mod.batchBuffer)[:0]
	return
}

// Number of lines waiting for the next flush
func (mod *OutModule) Buffered() (count int) {
	if mod == nil || mod.batchBuffer == nil {
		return
	}
	mod.mu.Lock()
	count = len(*mod.batchBuffer)
	mod.mu.Unlock()
	return
}
