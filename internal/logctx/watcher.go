package logctx

import (
	"fmt"
	"io"
	"sensorweb/internal/global"
	"time"
)

const (
	dedupWindow      time.Duration = 5 * time.Second
	dedupMinRepeats  int           = 10
	suppressCooldown time.Duration = 1 * time.Minute
)

// Starts a go routine that reads events and writes formatted output to io.Writer.
// Stops when logger.Done is closed and the queue is empty.
func StartWatcher(logger *Logger, output io.Writer) {
	logger.wg.Add(1)

	go func() {
		defer logger.wg.Done()

		var dedup dedupState
		for {
			event, ok := logger.next()
			if !ok {
				return
			}

			now := time.Now()

			// Sensor nodes in a tight reboot loop produce the same line over and over
			if event.Message != "" && event.Message == dedup.lastMsg && now.Sub(event.Timestamp) <= dedupWindow {
				dedup.repeatCount++
				if dedup.repeatCount >= dedupMinRepeats && now.Sub(dedup.lastSuppressTime) >= suppressCooldown {
					fmt.Fprint(output, suppressionNotice(event, global.InfoLog, dedup.repeatCount))
					dedup.lastSuppressTime = now
					dedup.repeatCount = 0
				}
				continue
			}
			dedup.lastMsg = event.Message
			dedup.repeatCount = 1

			fmt.Fprint(output, event.Format())
		}
	}()
}

// Blocks until an event is queued. Returns false once Done is closed and nothing is left.
func (logger *Logger) next() (event Event, ok bool) {
	logger.mutex.Lock()
	defer logger.mutex.Unlock()

	for len(logger.queue) == 0 {
		select {
		case <-logger.Done:
			return
		default:
			logger.cond.Wait()
		}
	}

	event = logger.queue[0]
	logger.queue = logger.queue[1:]
	ok = true
	return
}
