package trace

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log"
	"net"
	"sync"
	"time"

	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/model"
	"github.com/quic-go/quic-go"
)

var ErrNotListening = errors.New("trace: server not listening")

func quicConfig() *quic.Config {
	return &quic.Config{
		MaxIdleTimeout:       30 * time.Second,
		HandshakeIdleTimeout: 10 * time.Second,
	}
}

// Server answers trace requests with the recorder's events. Every request
// arrives on its own QUIC stream and the reply ends when the stream closes.
type Server struct {
	addr     string
	recorder *Recorder
	logger   *log.Logger

	mu       sync.Mutex
	listener *quic.Listener
}

func NewServer(addr string, recorder *Recorder, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{
		addr:     addr,
		recorder: recorder,
		logger:   logger,
	}
}

// Listen binds the server's address.
func (s *Server) Listen() error {
	tlsConf, err := generateTLSConfig()
	if err != nil {
		return err
	}
	listener, err := quic.ListenAddr(s.addr, tlsConf, quicConfig())
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.logger.Println("[TRACE] server listening on", listener.Addr())
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections until ctx is cancelled, then closes the
// listener.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener == nil {
		return ErrNotListening
	}
	defer listener.Close()

	for {
		connection, err := listener.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go s.onConnectionAccepted(ctx, connection)
	}
}

func (s *Server) ListenAndServe(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

func (s *Server) onConnectionAccepted(ctx context.Context, connection quic.Connection) {
	for {
		stream, err := connection.AcceptStream(ctx)
		if err != nil {
			if connection.Context().Err() == nil && ctx.Err() == nil {
				s.logger.Println("[TRACE] accept stream:", err)
			}
			return
		}
		go s.handleStream(stream)
	}
}

func (s *Server) handleStream(stream quic.Stream) {
	defer stream.Close()

	req, err := model.ReadTraceRequest(bufio.NewReader(stream))
	if err != nil {
		s.logger.Println("[TRACE] invalid request:", err)
		return
	}

	events := s.recorder.Snapshot(req.Limit)
	w := bufio.NewWriter(stream)
	for i := range events {
		if err := events[i].Write(w); err != nil {
			s.logger.Println("[TRACE] write:", err)
			return
		}
	}
	if err := w.Flush(); err != nil {
		s.logger.Println("[TRACE] write:", err)
		return
	}
	s.logger.Printf("[TRACE] request %s: sent %d events", req.ID, len(events))
}
