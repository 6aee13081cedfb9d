package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/verte-zerg/flowtype/internal/customtext"
	"github.com/verte-zerg/flowtype/internal/generator"
	"github.com/verte-zerg/flowtype/internal/model"
	"github.com/verte-zerg/flowtype/internal/practice"
	"github.com/verte-zerg/flowtype/internal/session"
)

// Message types exchanged on /ws/session.
const (
	MsgText    = "text"
	MsgSample  = "sample"
	MsgResult  = "result"
	MsgError   = "error"
	MsgInput   = "input"
	MsgFinish  = "finish"
	MsgRestart = "restart"
)

const (
	writeWait = 10 * time.Second

	// An input frame holds at most the reference text, each byte escaped as \u00XX at worst.
	escapedByteSize = 6
	frameOverhead   = 1024
)

// Message is a frame sent by the server.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// ClientMessage is a frame sent by the client. Data carries the whole input buffer for input frames.
type ClientMessage struct {
	Type string `json:"type"`
	Data string `json:"data,omitempty"`
}

// TextPayload announces the reference text of a new test.
type TextPayload struct {
	SessionID  string     `json:"session_id"`
	Mode       model.Mode `json:"mode"`
	Text       string     `json:"text"`
	TimeBudget int        `json:"time_budget,omitempty"`
	WordBudget int        `json:"word_budget,omitempty"`
}

// SamplePayload is the live state pushed on every sampler tick.
type SamplePayload struct {
	session.Snapshot
	ElapsedSeconds   float64 `json:"elapsed_seconds"`
	RemainingSeconds float64 `json:"remaining_seconds,omitempty"`
}

// ResultPayload carries a finished result. ID is empty when the result was not stored.
type ResultPayload struct {
	ID     string           `json:"id,omitempty"`
	Result model.TestResult `json:"result"`
}

type liveSession struct {
	id   string
	cfg  model.Config
	srv  *Server
	conn *websocket.Conn

	writeMu sync.Mutex

	mu      sync.Mutex
	plan    practice.Plan
	tracker *session.Tracker
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	cfg, err := sessionConfig(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnf("websocket upgrade failed: %v", err)
		return
	}
	ls := &liveSession{id: uuid.NewString(), cfg: cfg, srv: s, conn: conn}
	s.log.Infof("session %s opened (user=%q mode=%s)", ls.id, cfg.User, cfg.Mode)
	ls.run()
	s.log.Infof("session %s closed", ls.id)
}

func sessionConfig(q url.Values) (model.Config, error) {
	mode, err := parseMode(q.Get("mode"))
	if err != nil {
		return model.Config{}, err
	}
	seconds, err := optionalInt(q.Get("time"))
	if err != nil {
		return model.Config{}, errors.New("invalid time")
	}
	words, err := optionalInt(q.Get("words"))
	if err != nil {
		return model.Config{}, errors.New("invalid words")
	}
	if words > generator.MaxTargetCount {
		return model.Config{}, fmt.Errorf("words must be at most %d", generator.MaxTargetCount)
	}
	return practice.Normalize(model.Config{
		Mode:        mode,
		TimeSeconds: seconds,
		Words:       words,
		CustomText:  customtext.Normalize(q.Get("custom")),
		User:        q.Get("user"),
	}), nil
}

func (ls *liveSession) run() {
	ls.mu.Lock()
	ls.plan = ls.srv.plan(ls.cfg)
	opts := append([]session.Option(nil), ls.srv.trackerOpts...)
	opts = append(opts, session.WithOnSample(ls.onSample), session.WithOnFinish(ls.onFinish))
	ls.tracker = ls.plan.Tracker(opts...)
	plan := ls.plan
	ls.mu.Unlock()

	defer ls.close()
	ls.conn.SetReadLimit(readLimit(plan.Reference))
	if err := ls.sendText(plan); err != nil {
		return
	}
	for {
		var msg ClientMessage
		if err := ls.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ls.srv.log.Warnf("session %s read failed: %v", ls.id, err)
			}
			return
		}
		switch msg.Type {
		case MsgInput:
			ls.tracker.OnInput(msg.Data)
		case MsgFinish:
			ls.tracker.Finish()
		case MsgRestart:
			if err := ls.restart(); err != nil {
				return
			}
		default:
			if err := ls.send(Message{Type: MsgError, Data: "unknown message type " + msg.Type}); err != nil {
				return
			}
		}
	}
}

func (ls *liveSession) restart() error {
	ls.mu.Lock()
	ls.plan = ls.srv.plan(ls.cfg)
	ls.tracker.Reset(ls.plan.Reference)
	plan := ls.plan
	ls.mu.Unlock()
	ls.srv.log.Debugf("session %s restarted", ls.id)
	ls.conn.SetReadLimit(readLimit(plan.Reference))
	return ls.sendText(plan)
}

func readLimit(reference string) int64 {
	return int64(len(reference))*escapedByteSize + frameOverhead
}

func (ls *liveSession) sendText(plan practice.Plan) error {
	return ls.send(Message{Type: MsgText, Data: TextPayload{
		SessionID:  ls.id,
		Mode:       plan.Mode,
		Text:       plan.Reference,
		TimeBudget: plan.TimeBudget,
		WordBudget: plan.WordBudget,
	}})
}

func (ls *liveSession) onSample(snap session.Snapshot) {
	if err := ls.send(Message{Type: MsgSample, Data: SamplePayload{
		Snapshot:         snap,
		ElapsedSeconds:   snap.Elapsed.Seconds(),
		RemainingSeconds: snap.Remaining.Seconds(),
	}}); err != nil {
		ls.srv.log.Debugf("session %s sample dropped: %v", ls.id, err)
	}
}

// onFinish stores the result unless the test was reset in the meantime or nothing was typed.
func (ls *liveSession) onFinish(res model.TestResult) {
	ls.mu.Lock()
	plan := ls.plan
	startedAt, endedAt := ls.tracker.Span()
	ls.mu.Unlock()

	payload := ResultPayload{Result: res}
	if !startedAt.IsZero() && res.TotalChars > 0 {
		rec := plan.Record(ls.cfg.User, res, startedAt, endedAt)
		id, err := ls.srv.store.InsertResult(context.Background(), rec)
		if err != nil {
			ls.srv.log.Errorf("session %s failed to store result: %v", ls.id, err)
		} else {
			payload.ID = id
			ls.srv.log.Infof("session %s stored result %s: %d wpm", ls.id, id, res.WPM)
		}
	}
	if err := ls.send(Message{Type: MsgResult, Data: payload}); err != nil {
		ls.srv.log.Debugf("session %s result dropped: %v", ls.id, err)
	}
}

func (ls *liveSession) send(msg Message) error {
	ls.writeMu.Lock()
	defer ls.writeMu.Unlock()
	if err := ls.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return ls.conn.WriteJSON(msg)
}

// close stops the sampler without storing the abandoned test.
func (ls *liveSession) close() {
	ls.tracker.Reset("")
	if cerr := ls.conn.Close(); cerr != nil {
		// Best-effort close.
		_ = cerr
	}
}
