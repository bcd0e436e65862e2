// Package service runs the keyward request pipeline: read a framed
// request, decode its body into a native operation, route it to the
// provider that serves it, and frame the result back. Every failure the
// pipeline can produce maps to exactly one wire status, and the response
// always echoes the session identifier of the request it answers.
package service

import (
	"context"
	"errors"
	"io"
	"net"

	"go.uber.org/zap"

	"keyward.io/keyward/operations"
	"keyward.io/keyward/provider"
	"keyward.io/keyward/wire"
)

type Service struct {
	registry *provider.Registry
	conv     operations.Convert
	log      *zap.Logger
}

func New(registry *provider.Registry, conv operations.Convert, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{registry: registry, conv: conv, log: log}
}

// coreOpcodes are served by the core provider no matter which provider
// the request header names.
func isCoreOpcode(op wire.Opcode) bool {
	switch op {
	case wire.OpPing, wire.OpListProviders, wire.OpListOpcodes:
		return true
	}
	return false
}

func (s *Service) responseHeader(req *wire.Request, status wire.Status) wire.Header {
	return wire.Header{
		VersionMaj:  wire.VersionMajor,
		VersionMin:  wire.VersionMinor,
		Provider:    req.Header.Provider,
		Session:     req.Header.Session,
		ContentType: s.conv.BodyType(),
		Opcode:      req.Header.Opcode,
		Status:      status,
	}
}

func (s *Service) fail(req *wire.Request, err error) *wire.Response {
	status := wire.StatusOf(err)
	if status == wire.StatusInternalError {
		s.log.Error("request failed internally",
			zap.Uint64("session", req.Header.Session),
			zap.Stringer("opcode", req.Header.Opcode),
			zap.Error(err))
	} else {
		s.log.Debug("request rejected",
			zap.Uint64("session", req.Header.Session),
			zap.Stringer("opcode", req.Header.Opcode),
			zap.Stringer("status", status))
	}
	return &wire.Response{Header: s.responseHeader(req, status)}
}

// HandleRequest executes one request end to end. It never returns an
// error: every failure becomes a response carrying the corresponding
// status with an empty body.
func (s *Service) HandleRequest(ctx context.Context, req *wire.Request) *wire.Response {
	if req.Header.ContentType != s.conv.BodyType() {
		return s.fail(req, wire.NewError(wire.StatusContentTypeNotSupported,
			"service: unsupported content type"))
	}

	op, err := s.conv.BodyToOperation(req.Body, req.Header.Opcode)
	if err != nil {
		return s.fail(req, err)
	}

	target := req.Header.Provider
	if isCoreOpcode(req.Header.Opcode) {
		target = wire.ProviderCore
	}
	prov, err := s.registry.Lookup(target)
	if err != nil {
		return s.fail(req, err)
	}

	res, err := prov.Execute(ctx, op)
	if err != nil {
		return s.fail(req, err)
	}
	body, err := s.conv.ResultToBody(res)
	if err != nil {
		return s.fail(req, err)
	}

	s.log.Debug("request served",
		zap.Uint64("session", req.Header.Session),
		zap.Stringer("opcode", req.Header.Opcode),
		zap.Stringer("provider", target))
	return &wire.Response{
		Header: s.responseHeader(req, wire.StatusSuccess),
		Body:   body,
	}
}

// ServeConn answers framed requests on conn until the stream ends or
// desynchronizes. A header that fails validation still gets an error
// response when enough of it decoded to address one, but the connection
// closes afterwards: after a framing error the stream position is
// unknown.
func (s *Service) ServeConn(ctx context.Context, conn net.Conn) {
	for {
		if ctx.Err() != nil {
			return
		}
		h, bodyLen, err := wire.ReadHeader(conn)
		if err != nil {
			s.replyFramingError(conn, h, err)
			return
		}
		body, err := wire.ReadBody(conn, bodyLen)
		if err != nil {
			s.replyFramingError(conn, h, err)
			return
		}

		req := &wire.Request{Header: h, Body: body}
		resp := s.HandleRequest(ctx, req)
		if err := resp.Write(conn); err != nil {
			s.log.Debug("response write failed", zap.Error(err))
			return
		}
	}
}

func (s *Service) replyFramingError(conn net.Conn, h wire.Header, err error) {
	var werr *wire.Error
	if !errors.As(err, &werr) {
		// Stream failure, not a protocol violation. EOF between requests
		// is the normal end of a connection.
		if !errors.Is(err, io.EOF) {
			s.log.Debug("connection read failed", zap.Error(err))
		}
		return
	}
	resp := &wire.Response{Header: wire.Header{
		VersionMaj:  wire.VersionMajor,
		VersionMin:  wire.VersionMinor,
		Session:     h.Session,
		ContentType: s.conv.BodyType(),
		Opcode:      h.Opcode,
		Status:      werr.Status,
	}}
	if writeErr := resp.Write(conn); writeErr != nil {
		s.log.Debug("error response write failed", zap.Error(writeErr))
	}
}

// Serve accepts connections until ctx is canceled or the listener fails.
func (s *Service) Serve(ctx context.Context, lis net.Listener) error {
	go func() {
		<-ctx.Done()
		_ = lis.Close()
	}()
	for {
		conn, err := lis.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		s.log.Info("connection accepted", zap.String("remote", conn.RemoteAddr().String()))
		go func() {
			defer conn.Close()
			s.ServeConn(ctx, conn)
		}()
	}
}
