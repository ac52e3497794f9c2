package agent

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// SSE event payloads. The backend emits "chunk" events carrying partial
// text, then either a "done" event with the final response or an
// "error" event.
type sseChunk struct {
	Text string `json:"text"`
}

type sseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// readStream consumes a Server-Sent Events body until the stream
// settles. Each chunk's text is handed to onChunk synchronously in
// arrival order; the done event's payload becomes the final Response.
//
// A done event without content settles with the concatenated chunk
// text, so callers always receive the assembled message.
func readStream(body io.Reader, onChunk func(string)) (*Response, error) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		event     string
		data      strings.Builder
		assembled strings.Builder
	)

	flush := func() (*Response, bool, error) {
		defer func() {
			event = ""
			data.Reset()
		}()

		switch event {
		case "chunk":
			var chunk sseChunk
			if err := json.Unmarshal([]byte(data.String()), &chunk); err != nil {
				return nil, false, fmt.Errorf("malformed chunk event: %w", err)
			}
			assembled.WriteString(chunk.Text)
			if onChunk != nil {
				onChunk(chunk.Text)
			}
			return nil, false, nil

		case "done":
			var wire wireResponse
			if err := json.Unmarshal([]byte(data.String()), &wire); err != nil {
				return nil, false, fmt.Errorf("malformed done event: %w", err)
			}
			resp := wire.normalize()
			if resp.Content == "" {
				resp.Content = assembled.String()
			}
			return resp, true, nil

		case "error":
			var failure sseError
			if err := json.Unmarshal([]byte(data.String()), &failure); err != nil {
				return nil, false, fmt.Errorf("malformed error event: %w", err)
			}
			return nil, false, fmt.Errorf("%w: %s: %s", ErrStream, failure.Code, failure.Message)

		case "":
			return nil, false, nil

		default:
			// Unknown event types are skipped for forward compatibility.
			return nil, false, nil
		}
	}

	for scanner.Scan() {
		line := scanner.Text()

		// Blank line terminates one event.
		if line == "" {
			resp, settled, err := flush()
			if err != nil {
				return nil, err
			}
			if settled {
				return resp, nil
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("stream read failed: %w", err)
	}

	// Stream ended without a terminating blank line; flush what we have.
	if event != "" {
		resp, settled, err := flush()
		if err != nil {
			return nil, err
		}
		if settled {
			return resp, nil
		}
	}

	return nil, fmt.Errorf("%w: stream ended without a done event", ErrStream)
}
