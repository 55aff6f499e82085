// Package server implements the request dispatcher (spec.md §4.G):
// a TCP accept loop that decodes a JSON envelope per request, routes
// it through the command parser and the engine façade, and writes
// back a tagged textual response.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"

	"github.com/rs/zerolog"

	"github.com/shardtable/shardtable/engine"
	"github.com/shardtable/shardtable/parser"
)

// envelope is the wire request shape: {"cmd": "...", "contents": "..."}.
type envelope struct {
	Cmd      string `json:"cmd"`
	Contents string `json:"contents"`
}

const (
	cmdQuery   = "Query"
	cmdTables  = "Tables"
	cmdColumns = "Columns"
)

// readBufferSize is the per-request read limit from spec.md §4.G.
const readBufferSize = 1024

// Server dispatches requests against a Database.
type Server struct {
	db     *engine.Database
	logger zerolog.Logger
}

// New constructs a Server bound to db, logging through logger.
func New(db *engine.Database, logger zerolog.Logger) *Server {
	return &Server{db: db, logger: logger}
}

// ListenAndServe accepts connections on addr until ctx is canceled or
// the listener fails. Each connection is served by its own goroutine;
// a dropped connection does not abort in-flight table operations it
// initiated (spec.md §5).
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	s.logger.Info().Str("addr", addr).Msg("listening")

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		go s.handleConn(conn)
	}
}

// handleConn implements the per-connection loop from spec.md §4.G:
// read up to 1024 bytes, decode an envelope, dispatch, write back the
// response. A zero-length read (client disconnect) or an internal
// error terminates the connection.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	buf := make([]byte, readBufferSize)

	for {
		n, err := conn.Read(buf)
		if n == 0 || errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			s.logger.Error().Err(err).Msg("connection read failed")
			return
		}

		var env envelope
		if err := json.Unmarshal(buf[:n], &env); err != nil {
			s.logger.Error().Err(err).Msg("envelope decode failed")
			return
		}

		reply, ok := s.dispatch(env)
		if !ok {
			return
		}
		if _, err := io.WriteString(conn, reply); err != nil {
			s.logger.Error().Err(err).Msg("connection write failed")
			return
		}
	}
}

// dispatch routes one envelope through the façade and renders its
// reply. The second return value is false only for an internal
// failure, signaling the caller to close the connection.
func (s *Server) dispatch(env envelope) (string, bool) {
	switch env.Cmd {
	case cmdTables:
		resp, err := s.db.ListTables()
		return s.render(resp, err)
	case cmdColumns:
		resp, err := s.db.DescribeTable(env.Contents)
		return s.render(resp, err)
	case cmdQuery:
		return s.dispatchQuery(env.Contents)
	default:
		s.logger.Error().Str("cmd", env.Cmd).Msg("unrecognized envelope command")
		return "", false
	}
}

func (s *Server) dispatchQuery(contents string) (string, bool) {
	lookup := func(name string) (engine.Schema, bool) { return s.db.Schema(name) }
	cmd, err := parser.Parse(contents, lookup)
	if err != nil {
		return s.render(engine.Response{}, err)
	}

	var resp engine.Response
	switch cmd.Kind {
	case parser.CreateTable:
		resp, err = s.db.CreateTable(cmd.TableName, cmd.Schema)
	case parser.CreateIndex:
		// accepted, no-op (spec.md §4.F / §9): neither index variant
		// in the original is wired into the dispatcher.
		resp, err = engine.Response{}, nil
	case parser.Insert:
		resp, err = s.db.Insert(cmd.TableName, cmd.Row)
	case parser.Select:
		resp, err = s.db.Select(cmd.TableName, cmd.ColPos, cmd.Comparison, cmd.Projection)
	case parser.Delete:
		resp, err = s.db.Delete(cmd.TableName, cmd.ColPos, cmd.Comparison)
	case parser.DropTable:
		resp, err = s.db.DropTable(cmd.TableName)
	}
	return s.render(resp, err)
}

func (s *Server) render(resp engine.Response, err error) (string, bool) {
	if err == nil {
		return formatResponse(resp), true
	}
	if tag, known := formatError(err); known {
		return tag, true
	}
	s.logger.Error().Err(err).Msg("internal error")
	return "", false
}
