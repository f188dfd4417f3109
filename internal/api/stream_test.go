package api

import (
	"io"
	"strings"
	"testing"
)

// chunkReader yields at most n bytes per Read so tests can control where
// transport boundaries fall.
type chunkReader struct {
	data []byte
	n    int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := r.n
	if n > len(r.data) {
		n = len(r.data)
	}
	if n > len(p) {
		n = len(p)
	}
	copy(p, r.data[:n])
	r.data = r.data[n:]
	return n, nil
}

func collect(t *testing.T, r io.Reader) (string, []*FileSummary) {
	t.Helper()
	var text strings.Builder
	var summaries []*FileSummary
	err := consumeStream(r,
		func(delta string) { text.WriteString(delta) },
		func(s *FileSummary) { summaries = append(summaries, s) },
	)
	if err != nil {
		t.Fatalf("consumeStream returned error: %v", err)
	}
	return text.String(), summaries
}

func TestConsumeStreamSingleRead(t *testing.T) {
	body := "data: {\"content\":\"ab\"}\ndata: {\"content\":\"cd\"}\n"
	text, _ := collect(t, strings.NewReader(body))
	if text != "abcd" {
		t.Fatalf("expected abcd, got %q", text)
	}
}

func TestConsumeStreamChunkingInvariance(t *testing.T) {
	body := "data: {\"content\":\"ab\"}\ndata: {\"content\":\"cd\"}\n"
	for _, size := range []int{1, 2, 3, 7, 16, len(body)} {
		text, _ := collect(t, &chunkReader{data: []byte(body), n: size})
		if text != "abcd" {
			t.Fatalf("chunk size %d: expected abcd, got %q", size, text)
		}
	}
}

func TestConsumeStreamPreservesArrivalOrder(t *testing.T) {
	var lines []string
	for _, word := range []string{"the", " quick", " brown", " fox", " jumps"} {
		lines = append(lines, "data: {\"content\":\""+word+"\"}")
	}
	body := strings.Join(lines, "\n") + "\n"
	text, _ := collect(t, &chunkReader{data: []byte(body), n: 5})
	if text != "the quick brown fox jumps" {
		t.Fatalf("deltas out of order: %q", text)
	}
}

func TestConsumeStreamIgnoresUnprefixedLines(t *testing.T) {
	body := strings.Join([]string{
		"event: ping",
		"",
		"data: {\"content\":\"ok\"}",
		": comment",
		"{\"content\":\"bare json without prefix\"}",
	}, "\n") + "\n"
	text, summaries := collect(t, strings.NewReader(body))
	if text != "ok" {
		t.Fatalf("expected only prefixed content, got %q", text)
	}
	if len(summaries) != 0 {
		t.Fatalf("unexpected summary events: %d", len(summaries))
	}
}

func TestConsumeStreamDropsMalformedJSON(t *testing.T) {
	body := strings.Join([]string{
		"data: {\"content\":\"a\"}",
		"data: {not json",
		"data: {\"content\":\"b\"}",
	}, "\n") + "\n"
	text, _ := collect(t, strings.NewReader(body))
	if text != "ab" {
		t.Fatalf("malformed line should be skipped, got %q", text)
	}
}

func TestConsumeStreamSummaryEvent(t *testing.T) {
	body := strings.Join([]string{
		"data: {\"content\":\"done\"}",
		"data: {\"content\":\"\",\"file_summary\":{\"client_name\":\"Acme\",\"client_region\":\"EMEA\"}}",
	}, "\n") + "\n"
	text, summaries := collect(t, strings.NewReader(body))
	if text != "done" {
		t.Fatalf("unexpected text %q", text)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary event, got %d", len(summaries))
	}
	if summaries[0].ClientName != "Acme" || summaries[0].ClientRegion != "EMEA" {
		t.Fatalf("summary fields lost: %+v", summaries[0])
	}
}

func TestConsumeStreamSplitMultiByteRune(t *testing.T) {
	body := "data: {\"content\":\"héllo • wörld\"}\n"
	for _, size := range []int{1, 2, 3} {
		text, _ := collect(t, &chunkReader{data: []byte(body), n: size})
		if text != "héllo • wörld" {
			t.Fatalf("chunk size %d mangled multi-byte text: %q", size, text)
		}
	}
}

func TestConsumeStreamNoTrailingNewline(t *testing.T) {
	// Arrival-driven completion: the final line may end with EOF instead
	// of a newline.
	body := "data: {\"content\":\"tail\"}"
	text, _ := collect(t, strings.NewReader(body))
	if text != "tail" {
		t.Fatalf("expected tail, got %q", text)
	}
}

func TestConsumeStreamNilCallbacks(t *testing.T) {
	body := "data: {\"content\":\"x\",\"file_summary\":{\"client_name\":\"A\"}}\n"
	if err := consumeStream(strings.NewReader(body), nil, nil); err != nil {
		t.Fatalf("nil callbacks should be tolerated: %v", err)
	}
}
