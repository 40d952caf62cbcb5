package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jonathan/resume-variants/internal/types"
	"github.com/jonathan/resume-variants/internal/variants"
)

// Event names on the draft generation stream
const (
	eventProgress = "progress"
	eventComplete = "complete"
	eventError    = "error"
)

var errStreamingUnsupported = errors.New("response writer cannot stream")

// eventStream frames draft generation updates as text/event-stream messages.
// Each message is flushed as soon as it is written.
type eventStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// openEventStream commits the 200 status and stream headers
func openEventStream(w http.ResponseWriter) (*eventStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errStreamingUnsupported
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	return &eventStream{w: w, flusher: flusher}, nil
}

func (es *eventStream) send(name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	var frame bytes.Buffer
	frame.WriteString("event: " + name + "\n")
	frame.WriteString("data: ")
	frame.Write(data)
	frame.WriteString("\n\n")

	if _, err := es.w.Write(frame.Bytes()); err != nil {
		return err
	}
	es.flusher.Flush()
	return nil
}

func (es *eventStream) progress(ev variants.ProgressEvent) error {
	return es.send(eventProgress, ev)
}

// complete carries the stored draft
func (es *eventStream) complete(draft types.VariantDraft) error {
	return es.send(eventComplete, variants.ProgressEvent{
		Stage:       variants.StageComplete,
		Suggestions: len(draft.Suggestions),
		Draft:       &draft,
	})
}

// fail reports err in-band along with the status a plain request would get
func (es *eventStream) fail(err error) error {
	return es.send(eventError, map[string]any{
		"error":  err.Error(),
		"status": HTTPStatus(err),
	})
}
