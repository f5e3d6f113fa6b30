package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/xybyte/journalback/pkg/export"
	"github.com/xybyte/journalback/pkg/timespec"
)

// handleHealth reports gateway liveness and the configured source set.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]interface{}{
		"status": "healthy",
		"files":  len(s.config.Files),
	})
}

// entryQuery is one request's resolved filter and rendering.
type entryQuery struct {
	filter export.Filter
	mode   export.OutputMode
}

// parseEntryQuery resolves unit/since/until/lines/output query
// parameters. since and until accept the same expressions as the CLI.
func (s *Server) parseEntryQuery(r *http.Request) (*entryQuery, error) {
	q := r.URL.Query()
	eq := &entryQuery{mode: s.config.DefaultOutput}

	eq.filter.Unit = q.Get("unit")

	now := time.Now()
	if v := q.Get("since"); v != "" {
		t, err := timespec.Parse(v, now)
		if err != nil {
			return nil, fmt.Errorf("invalid since: %v", err)
		}
		eq.filter.Since = t
	}
	if v := q.Get("until"); v != "" {
		t, err := timespec.Parse(v, now)
		if err != nil {
			return nil, fmt.Errorf("invalid until: %v", err)
		}
		eq.filter.Until = t
	}
	if v := q.Get("lines"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid lines: %q", v)
		}
		eq.filter.Lines = n
	}
	if v := q.Get("output"); v != "" {
		mode, err := export.ParseOutputMode(v)
		if err != nil {
			return nil, fmt.Errorf("invalid output: %v", err)
		}
		eq.mode = mode
	}
	if !eq.mode.Implemented() {
		return nil, fmt.Errorf("output mode %q not implemented", eq.mode)
	}
	return eq, nil
}

// handleEntries streams rendered entries from the configured files as
// plain text, one line per accepted entry.
func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	eq, err := s.parseEntryQuery(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	flusher, _ := w.(http.Flusher)

	served := 0
	err = s.scan(eq, func(line string) error {
		if _, werr := fmt.Fprint(w, line); werr != nil {
			return werr
		}
		served++
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	})
	s.metrics.RecordEntriesServed(served)
	if err != nil {
		// headers are already sent; log and cut the stream
		s.logger.Warn("entry stream aborted", zap.Error(err))
	}
}

// handleEntriesWS streams rendered entries over a websocket, one text
// message per entry, then closes normally.
func (s *Server) handleEntriesWS(w http.ResponseWriter, r *http.Request) {
	eq, err := s.parseEntryQuery(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	s.metrics.wsConnectionsActive.Inc()
	defer s.metrics.wsConnectionsActive.Dec()

	served := 0
	err = s.scan(eq, func(line string) error {
		if werr := conn.WriteMessage(websocket.TextMessage, []byte(line)); werr != nil {
			return werr
		}
		served++
		return nil
	})
	s.metrics.RecordEntriesServed(served)
	if err != nil {
		s.logger.Warn("websocket stream aborted", zap.Error(err))
		return
	}
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// scan decodes every configured file in order, invoking emit with each
// accepted rendered entry until the line cap is reached. A file that
// fails to decode stops the scan; earlier files' output stands.
func (s *Server) scan(eq *entryQuery, emit func(line string) error) error {
	count := 0
	for _, path := range s.config.Files {
		reader, err := export.Open(path, &eq.filter)
		if err != nil {
			s.metrics.RecordDecodeFailure()
			return err
		}
		for reader.Next() {
			line, err := export.Render(reader.Entry(), eq.mode)
			if err != nil {
				reader.Close()
				return err
			}
			if err := emit(line); err != nil {
				reader.Close()
				return err
			}
			count++
			if eq.filter.Lines > 0 && count >= eq.filter.Lines {
				reader.Close()
				return nil
			}
		}
		err = reader.Err()
		reader.Close()
		if err != nil {
			s.metrics.RecordDecodeFailure()
			return err
		}
	}
	return nil
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  8192,
	WriteBufferSize: 8192,
	CheckOrigin: func(r *http.Request) bool {
		// same-host origins only; native clients send no Origin header
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return origin == "http://"+r.Host || origin == "https://"+r.Host
	},
}
