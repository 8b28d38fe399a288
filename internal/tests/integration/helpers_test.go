package integration

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"sensorweb/internal/logctx"
	"sensorweb/internal/metrics"
	"strings"
	"time"
)

// Uses logger in context to search logger buffer for events matching filter (must match all 3 filters if filters are not empty)
func filterLogBuffer(ctx context.Context, searchText, searchTag, searchSeverity string) (matches []string) {
	logger := logctx.GetLogger(ctx)
	if logger == nil {
		return
	}

	bracketRe := regexp.MustCompile(`\[[^\]]*\]`)
	for _, line := range logger.GetFormattedLogLines() {
		// Filter by tag if searchTag is non-empty
		if searchTag != "" {
			foundTag := false
			for _, b := range bracketRe.FindAllString(line, -1) {
				if strings.Contains(b, searchTag) {
					foundTag = true
					break
				}
			}
			if !foundTag {
				continue
			}
		}

		// Filter by severity if searchSeverity is non-empty
		if searchSeverity != "" && !strings.Contains(line, "["+searchSeverity+"]") {
			continue
		}

		// Filter by text if searchText is non-empty
		if searchText != "" && !strings.Contains(line, searchText) {
			continue
		}

		matches = append(matches, line)
	}
	return
}

// Waits until the output file holds at least expected complete lines and has been quiet briefly
func waitForCompleteLines(f *os.File, expected int) (lines [][]byte, err error) {
	deadline := time.Now().Add(10 * time.Second)

	var (
		lastSize    int64 = -1
		stableSince time.Time
	)

	for {
		if time.Now().After(deadline) {
			err = fmt.Errorf("timeout waiting for %d complete lines", expected)
			return
		}

		var info os.FileInfo
		info, err = f.Stat()
		if err != nil {
			return
		}

		curSize := info.Size()
		if curSize != lastSize {
			lastSize = curSize
			stableSince = time.Now()
		}

		_, err = f.Seek(0, io.SeekStart)
		if err != nil {
			return
		}

		var data []byte
		data, err = io.ReadAll(f)
		if err != nil {
			return
		}

		// discard incomplete final line
		rawLines := bytes.Split(data, []byte("\n"))
		rawLines = rawLines[:len(rawLines)-1]

		if len(rawLines) >= expected && time.Since(stableSince) >= 150*time.Millisecond {
			lines = rawLines
			return
		}

		time.Sleep(5 * time.Millisecond)
	}
}

// Sums a counter across every stored slice
func sumCounter(registry *metrics.Registry, name string, namespace []string) (total uint64, err error) {
	for _, metric := range registry.Search(name, namespace, time.Time{}, time.Time{}) {
		cnt, ok := metric.Value.Raw.(uint64)
		if !ok {
			err = fmt.Errorf("expected metric %s value to be uint64, got %T", name, metric.Value.Raw)
			return
		}
		total += cnt
	}
	return
}
