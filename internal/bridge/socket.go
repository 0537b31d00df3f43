package bridge

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/specialistvlad/viewparams/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const (
	// EventFragment is emitted by the remote side when its fragment changes.
	EventFragment = "fragment"
	// EventLocation is emitted to the remote side with a new location.
	EventLocation = "location"
)

// DialTimeout bounds how long Dial waits for the connection.
const DialTimeout = 15 * time.Second

// DialOptions configure a socket.io connection.
type DialOptions struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
}

// SocketTransport is a Transport over a socket.io connection.
type SocketTransport struct {
	logger *slog.Logger
	io     *socket.Socket
}

// Dial connects to a socket.io server and waits for the connection.
func Dial(ctx context.Context, o DialOptions) (*SocketTransport, error) {
	logger := ctxlog.FromContext(ctx).With("component", "bridge", "url", o.URL)
	logger.Debug("Dialing socket.io server.")

	parsedURL, err := url.Parse(o.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("bridge URL %q needs a scheme and a host", o.URL)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if o.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(o.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Bridge connected.", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &SocketTransport{logger: logger, io: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection")
	case <-time.After(DialTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", DialTimeout)
	}
}

// OnFragment implements Transport. Non-string payloads are dropped.
func (s *SocketTransport) OnFragment(fn func(fragment string)) {
	s.io.On(types.EventName(EventFragment), func(data ...any) {
		if len(data) == 0 {
			return
		}
		frag, ok := data[0].(string)
		if !ok {
			s.logger.Warn("Ignoring non-string fragment.", "payload", fmt.Sprintf("%T", data[0]))
			return
		}
		fn(frag)
	})
}

// PushLocation implements Transport.
func (s *SocketTransport) PushLocation(loc string) error {
	if !s.io.Connected() {
		return fmt.Errorf("socket.io client is not connected")
	}
	return s.io.Emit(EventLocation, loc)
}

// Close implements Transport.
func (s *SocketTransport) Close() error {
	s.logger.Info("Closing bridge connection.", "sid", s.io.Id())
	s.io.Disconnect()
	return nil
}
