package dispatcher

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/quantlens/quantlens/internal/models"
)

const (
	// maxLineSize caps a single request line. Price histories and statement
	// sets are small; anything past this is a malformed stream.
	maxLineSize = 4 * 1024 * 1024

	initialLineBuffer = 64 * 1024
)

// HandleRequest processes one line-delimited request and returns the
// serialized response. It never returns an empty slice: every failure mode
// maps to an error response with a stable code.
func (d *Dispatcher) HandleRequest(ctx context.Context, line []byte) []byte {
	var req models.ToolRequest
	if err := json.Unmarshal(line, &req); err != nil {
		return encodeResponse(models.NewErrorResponse("", "invalid JSON request", models.ErrCodeInvalidJSON))
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	result, err := d.safeCall(ctx, req.Name, req.Parameters)
	if err != nil {
		if errors.Is(err, ErrUnknownTool) {
			return encodeResponse(models.NewErrorResponse(req.ID, err.Error(), models.ErrCodeUnknownTool))
		}
		d.logger.Warn().Err(err).Str("tool", req.Name).Msg("tool call failed")
		return encodeResponse(models.NewErrorResponse(req.ID, err.Error(), models.ErrCodeProcessing))
	}

	data, err := json.Marshal(models.ToolResponse{ID: req.ID, Result: result})
	if err != nil {
		d.logger.Error().Err(err).Str("tool", req.Name).Msg("response marshal failed")
		return encodeResponse(models.NewErrorResponse(req.ID, "failed to encode response", models.ErrCodeInternal))
	}
	return data
}

// safeCall runs Call with panic recovery so one poisoned request cannot
// take down the serving loop.
func (d *Dispatcher) safeCall(ctx context.Context, name string, params map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().Str("tool", name).Msg(fmt.Sprintf("recovered from panic: %v", r))
			result = nil
			err = fmt.Errorf("internal error processing %s", name)
		}
	}()
	return d.Call(ctx, name, params)
}

// ServeLines reads newline-delimited JSON requests from r and writes one
// response line per request to w, in order. Blank lines are skipped. The
// loop ends on EOF, reader error, or context cancellation.
func (d *Dispatcher) ServeLines(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initialLineBuffer), maxLineSize)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		resp := d.HandleRequest(ctx, line)
		if _, err := w.Write(append(resp, '\n')); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}

	return scanner.Err()
}

// encodeResponse marshals a response built from static types, so failure
// is not a reachable state.
func encodeResponse(resp models.ToolResponse) []byte {
	data, err := json.Marshal(resp)
	if err != nil {
		return []byte(`{"error":{"message":"failed to encode response","code":"INTERNAL_ERROR"}}`)
	}
	return data
}
