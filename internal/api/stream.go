package api

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// dataPrefix marks meaningful lines in a streamed reply. Everything else
// (blank separators, comments) is ignored.
const dataPrefix = "data: "

const maxLineSize = 1024 * 1024

// consumeStream reads a line-oriented chunked body and dispatches events in
// arrival order. A single network read may carry zero, one, or many complete
// lines, and a line may be split across reads; the scanner carries the
// trailing partial line over to the next read. Lines with malformed JSON are
// dropped so a corrupted fragment cannot abort a long-running generation.
// Completion is arrival-driven: the stream ends when the body does.
func consumeStream(r io.Reader, onDelta func(string), onSummary func(*FileSummary)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}

		var event StreamEvent
		if err := json.Unmarshal([]byte(line[len(dataPrefix):]), &event); err != nil {
			continue
		}
		if event.Content != "" && onDelta != nil {
			onDelta(event.Content)
		}
		if event.FileSummary != nil && onSummary != nil {
			onSummary(event.FileSummary)
		}
	}
	return scanner.Err()
}
