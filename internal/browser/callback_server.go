package browser

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/TrackerSync/internal/logging"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrPortInUse is returned when the redirect URI's port is already bound.
	ErrPortInUse = errors.New("callback port is already in use")
	// ErrNotLoopback is returned for redirect URIs a local server cannot receive.
	ErrNotLoopback = errors.New("redirect uri is not a loopback http address")
	// ErrCallbackTimeout is returned when no redirect arrives in time.
	ErrCallbackTimeout = errors.New("timeout waiting for OAuth callback")
)

// CallbackResult holds the redirect received by the callback server.
type CallbackResult struct {
	// URL is the redirect URI with the received query string appended.
	URL              string
	Code             string
	Error            string
	ErrorDescription string
}

// CallbackServer receives the OAuth redirect on a loopback address.
type CallbackServer struct {
	base      *url.URL
	port      int
	addr      net.Addr
	sessionID string

	server     *http.Server
	resultChan chan *CallbackResult
	errorChan  chan error
	mu         sync.Mutex
	running    bool
}

// NewCallbackServer prepares a server for the given redirect URI. Only plain http
// URIs on localhost, 127.0.0.1 or ::1 are accepted.
func NewCallbackServer(redirectURI, sessionID string) (*CallbackServer, error) {
	base, err := url.Parse(strings.TrimSpace(redirectURI))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotLoopback, err)
	}
	if base.Scheme != "http" || !isLoopbackHost(base.Hostname()) {
		return nil, fmt.Errorf("%w: %s", ErrNotLoopback, redirectURI)
	}
	port := 80
	if p := base.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid port %q", ErrNotLoopback, p)
		}
	}
	if base.Path == "" {
		base.Path = "/"
	}
	base.RawQuery = ""
	base.Fragment = ""

	return &CallbackServer{
		base:       base,
		port:       port,
		sessionID:  sessionID,
		resultChan: make(chan *CallbackResult, 1),
		errorChan:  make(chan error, 1),
	}, nil
}

func isLoopbackHost(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// Port returns the port the server listens on.
func (s *CallbackServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// Start binds the callback port and serves in the background.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server is already running")
	}

	listener, err := net.Listen("tcp", net.JoinHostPort(s.base.Hostname(), strconv.Itoa(s.port)))
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) || strings.Contains(err.Error(), "address already in use") {
			return fmt.Errorf("%w: port %d: %v", ErrPortInUse, s.port, err)
		}
		return fmt.Errorf("callback server failed to listen: %w", err)
	}
	s.addr = listener.Addr()
	if addr, ok := s.addr.(*net.TCPAddr); ok && addr.Port != s.port {
		s.port = addr.Port
		s.base.Host = net.JoinHostPort(s.base.Hostname(), strconv.Itoa(addr.Port))
	}

	engine := gin.New()
	engine.Use(logging.WithSession(s.sessionID), logging.GinLogrusLogger(), logging.GinLogrusRecovery())
	engine.GET(s.base.Path, s.handleCallback)

	s.server = &http.Server{
		Handler:      engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	s.running = true

	server := s.server
	go func() {
		if errServe := server.Serve(listener); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			select {
			case s.errorChan <- fmt.Errorf("callback server failed: %w", errServe):
			default:
			}
		}
	}()

	log.Debugf("OAuth callback server listening on port %d", s.port)
	return nil
}

// Stop gracefully stops the callback server.
func (s *CallbackServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.server == nil {
		return nil
	}

	log.Debug("Stopping OAuth callback server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := s.server.Shutdown(shutdownCtx)
	s.running = false
	s.server = nil
	return err
}

// WaitForCallback blocks until a redirect arrives, the server fails, ctx is done
// or the timeout elapses.
func (s *CallbackServer) WaitForCallback(ctx context.Context, timeout time.Duration) (*CallbackResult, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-s.resultChan:
		return result, nil
	case err := <-s.errorChan:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, ErrCallbackTimeout
	}
}

func (s *CallbackServer) handleCallback(c *gin.Context) {
	query := c.Request.URL.Query()
	result := &CallbackResult{
		URL:              s.redirectURL(c.Request.URL.RawQuery),
		Code:             strings.TrimSpace(query.Get("code")),
		Error:            strings.TrimSpace(query.Get("error")),
		ErrorDescription: strings.TrimSpace(query.Get("error_description")),
	}
	s.sendResult(result)

	switch {
	case result.Error != "":
		message := result.Error
		if result.ErrorDescription != "" {
			message = result.ErrorDescription
		}
		c.Data(http.StatusBadRequest, "text/html; charset=utf-8", []byte(fmt.Sprintf(failureHTML, html.EscapeString(message))))
	case result.Code == "":
		c.Data(http.StatusBadRequest, "text/html; charset=utf-8", []byte(fmt.Sprintf(failureHTML, "No authorization code received")))
	default:
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(successHTML))
	}
}

func (s *CallbackServer) redirectURL(rawQuery string) string {
	u := *s.base
	u.RawQuery = rawQuery
	return u.String()
}

func (s *CallbackServer) sendResult(result *CallbackResult) {
	select {
	case s.resultChan <- result:
		log.Debug("OAuth result sent to channel")
	default:
		log.Warn("OAuth result channel is full, result dropped")
	}
}

const successHTML = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Login complete</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 4em;">
<h1>Login complete</h1>
<p>You can close this window and return to the terminal.</p>
</body>
</html>`

const failureHTML = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Login failed</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 4em;">
<h1>Login failed</h1>
<p>%s</p>
</body>
</html>`
