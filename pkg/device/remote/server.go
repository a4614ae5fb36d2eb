package remote

import (
	"context"
	"net"
	"net/http"
	"net/rpc"
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"tinygo.org/x/drivers"

	"tftlcd/pkg/proto"
)

// NewServer returns an RPC server exposing dev as "Service".
func NewServer(dev proto.Control, logger *zap.Logger) (*rpc.Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	server := rpc.NewServer()
	if err := server.Register(&Service{dev: dev, logger: logger}); err != nil {
		return nil, err
	}
	return server, nil
}

// Proxy serves dev over HTTP on srv for the lifetime of the application.
func Proxy(dev proto.Control, srv *http.Server, lifecycle fx.Lifecycle, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	server, err := NewServer(dev, logger)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle(rpc.DefaultRPCPath, server)
	srv.Handler = mux

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.With(zap.String("addr", ln.Addr().String())).Info("serving display")
			go func() {
				if err := srv.Serve(ln); err != http.ErrServerClosed {
					logger.With(zap.Error(err)).Fatal("serve failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return nil
}

type Service struct {
	mu     sync.Mutex
	dev    proto.Control
	logger *zap.Logger
}

func (s *Service) Init(_ int, resp *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.dev.Init(); err != nil {
		return err
	}
	s.state(resp)
	return nil
}

func (s *Service) State(_ int, resp *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state(resp)
	return nil
}

func (s *Service) SetRotation(rotation drivers.Rotation, resp *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.dev.SetRotation(rotation); err != nil {
		return err
	}
	s.state(resp)
	return nil
}

func (s *Service) Scroll(dy int, resp *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.dev.Scroll(dy); err != nil {
		return err
	}
	s.state(resp)
	return nil
}

func (s *Service) Blit(req *BlitRequest, resp *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.With(zap.Int("x", req.X), zap.Int("y", req.Y), zap.Int("w", req.W), zap.Int("h", req.H)).Debug("remote blit")
	if err := s.dev.Blit(req.Buf, req.X, req.Y, req.W, req.H); err != nil {
		return err
	}
	s.state(resp)
	return nil
}

func (s *Service) state(resp *State) {
	resp.Width, resp.Height = s.dev.Size()
	resp.Scroll = s.dev.ScrollOffset()
}
