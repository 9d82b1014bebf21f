package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rowbench-dev/rowbench/pkg/bench"
	"github.com/rowbench-dev/rowbench/pkg/dom"
	"github.com/rowbench-dev/rowbench/pkg/protocol"
	"github.com/rowbench-dev/rowbench/pkg/reactive"
)

const (
	sessionReadTimeout  = 60 * time.Second
	sessionWriteTimeout = 10 * time.Second
)

// Session is one live connection: its own document, scope, and table.
// All table work happens on the read loop goroutine, so the session
// needs no locking of its own.
type Session struct {
	id      uint64
	conn    *websocket.Conn
	logger  *slog.Logger
	metrics *Metrics

	doc   *dom.Document
	scope *reactive.Scope
	table *bench.Table
	sink  *dom.RecordingSink

	tracer trace.Tracer
	seq    uint64
}

func newSession(id uint64, conn *websocket.Conn, logger *slog.Logger, metrics *Metrics, seed int64) *Session {
	s := &Session{
		id:      id,
		conn:    conn,
		logger:  logger.With("session", id),
		metrics: metrics,
		doc:     dom.NewDocument(),
		scope:   reactive.NewScope(nil),
		sink:    &dom.RecordingSink{},
		tracer:  otel.Tracer("rowbench/server"),
	}
	// The sink is installed before the table is built so the client
	// receives the skeleton nodes in the first patch batch.
	s.doc.SetSink(s.sink)
	s.table = bench.NewTable(s.doc, s.scope, seed)
	return s
}

// run services the connection until it closes. The initial patch batch
// carries the table skeleton.
func (s *Session) run() {
	defer s.close()

	// Parent ID 0 is the client's mount point; the skeleton batch ends
	// with the table element attached there.
	s.sink.Record(dom.Patch{Op: dom.OpInsert, ID: s.table.Root().ID(), ParentID: 0})
	if err := s.flushPatches(); err != nil {
		s.logger.Error("initial patch write failed", "error", err)
		return
	}

	for {
		s.conn.SetReadDeadline(time.Now().Add(sessionReadTimeout))
		msgType, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			s.logger.Error("frame decode error", "error", err)
			s.sendError(protocol.ErrCodeBadFrame, "malformed frame")
			continue
		}

		switch frame.Type {
		case protocol.FrameCommand:
			s.handleCommand(frame.Payload)
		case protocol.FramePing:
			s.writeFrame(protocol.NewFrame(protocol.FramePong, nil))
		default:
			s.logger.Warn("unexpected frame type", "type", frame.Type)
		}
	}
}

func (s *Session) handleCommand(payload []byte) {
	cmd, err := protocol.DecodeCommand(payload)
	if err != nil {
		s.metrics.CommandsTotal.WithLabelValues("unknown", "error").Inc()
		s.sendError(protocol.ErrCodeBadCommand, err.Error())
		return
	}

	_, span := s.tracer.Start(context.Background(), "session.command",
		trace.WithAttributes(
			attribute.String("command.op", cmd.Op.String()),
			attribute.Int64("session.id", int64(s.id)),
		))
	defer span.End()

	start := time.Now()
	if err := s.apply(cmd); err != nil {
		s.metrics.CommandsTotal.WithLabelValues(cmd.Op.String(), "error").Inc()
		s.sendError(protocol.ErrCodeBadCommand, err.Error())
		return
	}
	s.metrics.CommandDuration.WithLabelValues(cmd.Op.String()).Observe(time.Since(start).Seconds())

	if err := s.flushPatches(); err != nil {
		s.metrics.CommandsTotal.WithLabelValues(cmd.Op.String(), "error").Inc()
		s.logger.Error("patch write failed", "command", cmd.String(), "error", err)
		return
	}
	s.metrics.CommandsTotal.WithLabelValues(cmd.Op.String(), "ok").Inc()
}

func (s *Session) apply(cmd protocol.Command) error {
	switch cmd.Op {
	case protocol.CmdCreate:
		if cmd.Arg <= 0 || cmd.Arg > 100_000 {
			return fmt.Errorf("create: row count %d out of range", cmd.Arg)
		}
		s.table.Create(int(cmd.Arg))
	case protocol.CmdAppend:
		if cmd.Arg <= 0 || cmd.Arg > 100_000 {
			return fmt.Errorf("append: row count %d out of range", cmd.Arg)
		}
		s.table.Append(int(cmd.Arg))
	case protocol.CmdUpdateEvery:
		s.table.UpdateEveryTenth()
	case protocol.CmdClear:
		s.table.Clear()
	case protocol.CmdSwap:
		s.table.Swap()
	case protocol.CmdSelect:
		s.table.Select(int(cmd.Arg))
	case protocol.CmdRemove:
		s.table.Remove(int(cmd.Arg))
	default:
		return fmt.Errorf("unsupported command %s", cmd)
	}
	return nil
}

// flushPatches drains the sink and ships one sequenced batch. Empty
// batches are sent too: the client relies on one reply per command.
func (s *Session) flushPatches() error {
	s.seq++
	pf := &protocol.PatchesFrame{Seq: s.seq, Patches: s.sink.Patches}
	payload := protocol.EncodePatches(pf)
	s.sink.Reset()

	if err := s.writeFrame(protocol.NewFrame(protocol.FramePatches, payload)); err != nil {
		return err
	}
	s.metrics.PatchesSent.Add(float64(len(pf.Patches)))
	s.metrics.PatchBytes.Add(float64(len(payload)))
	return nil
}

func (s *Session) sendError(code uint16, msg string) {
	payload := protocol.EncodeError(&protocol.ErrorFrame{Code: code, Message: msg})
	if err := s.writeFrame(protocol.NewFrame(protocol.FrameError, payload)); err != nil {
		s.logger.Error("error frame write failed", "error", err)
	}
}

func (s *Session) writeFrame(f *protocol.Frame) error {
	s.conn.SetWriteDeadline(time.Now().Add(sessionWriteTimeout))
	return s.conn.WriteMessage(websocket.BinaryMessage, f.Encode())
}

func (s *Session) close() {
	s.scope.Dispose()
	reactive.CleanupGoroutineState()
	s.conn.Close()
	s.metrics.ActiveSessions.Dec()
	s.logger.Info("session closed")
}
