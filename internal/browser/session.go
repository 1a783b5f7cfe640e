package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/router-for-me/TrackerSync/internal/logging"
	"github.com/router-for-me/TrackerSync/internal/misc"
	"github.com/router-for-me/TrackerSync/internal/util"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultSessionTimeout bounds how long a login waits for the redirect.
	DefaultSessionTimeout = 5 * time.Minute
	// DefaultManualPromptDelay is how long the loopback server waits before also
	// offering to read a pasted redirect URL.
	DefaultManualPromptDelay = 15 * time.Second
)

// LoopbackSession runs an interactive authorization session in the system browser and
// receives the redirect on a local callback server. When the redirect URI cannot be
// served locally, or the browser runs elsewhere, the user may paste the redirect URL.
type LoopbackSession struct {
	// NoBrowser prints the authorization URL instead of opening a browser.
	NoBrowser bool
	// Prompt reads a line of user input. Nil disables the manual paste fallback.
	Prompt func(prompt string) (string, error)
	// Timeout bounds the whole session. Zero means DefaultSessionTimeout.
	Timeout time.Duration
	// ManualPromptDelay delays the paste prompt while the loopback server waits.
	ManualPromptDelay time.Duration

	open      func(string) error
	available func() bool
	copyText  func(string) bool
}

// NewLoopbackSession returns a session that uses the system browser and clipboard.
func NewLoopbackSession(noBrowser bool, prompt func(string) (string, error)) *LoopbackSession {
	return &LoopbackSession{
		NoBrowser:         noBrowser,
		Prompt:            prompt,
		Timeout:           DefaultSessionTimeout,
		ManualPromptDelay: DefaultManualPromptDelay,
		open:              OpenURL,
		available:         IsAvailable,
		copyText:          CopyToClipboard,
	}
}

// OpenAuthSession shows authURL to the user and waits for the redirect to redirectURI.
// Cancellation of ctx or a denied authorization yields ResultCancel and a timeout yields
// ResultDismiss; neither is reported as an error.
func (s *LoopbackSession) OpenAuthSession(ctx context.Context, authURL, redirectURI string) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	entry := logging.FromContext(ctx)

	server, err := NewCallbackServer(redirectURI, logging.GetSessionID(ctx))
	if err != nil {
		if s.Prompt == nil {
			return nil, err
		}
		entry.Debugf("callback server unavailable, using manual redirect entry: %v", err)
		server = nil
	}

	var callbackCh chan *CallbackResult
	var callbackErrCh chan error
	port := 0
	if server != nil {
		if err = server.Start(); err != nil {
			return nil, err
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if errStop := server.Stop(stopCtx); errStop != nil {
				entry.Warnf("oauth callback server stop error: %v", errStop)
			}
		}()
		port = server.Port()

		callbackCh = make(chan *CallbackResult, 1)
		callbackErrCh = make(chan error, 1)
		waitCtx, cancelWait := context.WithCancel(ctx)
		defer cancelWait()
		go func() {
			result, errWait := server.WaitForCallback(waitCtx, s.timeout())
			if errWait != nil {
				callbackErrCh <- errWait
				return
			}
			callbackCh <- result
		}()
	}

	s.present(authURL, port)

	timer := time.NewTimer(s.timeout())
	defer timer.Stop()

	var manualPromptC <-chan time.Time
	if s.Prompt != nil {
		delay := s.ManualPromptDelay
		if server == nil {
			delay = 0
		}
		manualPromptTimer := time.NewTimer(delay)
		defer manualPromptTimer.Stop()
		manualPromptC = manualPromptTimer.C
	}

	// The prompt blocks on user input, so it runs outside the select loop.
	var promptCh chan promptReply
	startPrompt := func() {
		promptCh = make(chan promptReply, 1)
		go func(ch chan<- promptReply) {
			input, errPrompt := s.Prompt("Paste the redirect URL from your browser (or press Enter to keep waiting): ")
			ch <- promptReply{input: input, err: errPrompt}
		}(promptCh)
	}

	for {
		select {
		case <-ctx.Done():
			entry.Debug("authorization session cancelled")
			return &Result{Type: ResultCancel}, nil
		case <-timer.C:
			entry.Warn("timed out waiting for authorization redirect")
			return &Result{Type: ResultDismiss}, nil
		case callback := <-callbackCh:
			return resultFromRedirect(callback.URL, callback.Error, callback.ErrorDescription), nil
		case errWait := <-callbackErrCh:
			switch {
			case errors.Is(errWait, ErrCallbackTimeout):
				return &Result{Type: ResultDismiss}, nil
			case ctx.Err() != nil:
				return &Result{Type: ResultCancel}, nil
			default:
				return nil, errWait
			}
		case <-manualPromptC:
			manualPromptC = nil
			startPrompt()
		case reply := <-promptCh:
			promptCh = nil
			if reply.err != nil {
				return nil, reply.err
			}
			parsed, errParse := misc.ParseOAuthCallback(reply.input)
			if errParse != nil {
				entry.Warnf("ignoring pasted redirect: %v", errParse)
			}
			if parsed == nil {
				if server == nil {
					startPrompt()
				}
				continue
			}
			return resultFromRedirect(strings.TrimSpace(reply.input), parsed.Error, parsed.ErrorDescription), nil
		}
	}
}

type promptReply struct {
	input string
	err   error
}

func (s *LoopbackSession) timeout() time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return DefaultSessionTimeout
}

func (s *LoopbackSession) present(authURL string, port int) {
	if !s.NoBrowser && s.available != nil && s.available() {
		fmt.Println("Opening browser to continue authorization")
		err := s.open(authURL)
		if err == nil {
			fmt.Println("Waiting for the authorization redirect...")
			return
		}
		log.Warnf("Failed to open browser automatically: %v", err)
	}

	util.PrintSSHTunnelInstructions(port)
	fmt.Printf("Visit the following URL to continue authentication:\n%s\n", authURL)
	if s.copyText != nil && s.copyText(authURL) {
		fmt.Println("The URL has been copied to your clipboard.")
	}
	fmt.Println("Waiting for the authorization redirect...")
}

func resultFromRedirect(redirectURL, oauthError, description string) *Result {
	switch {
	case oauthError == "access_denied":
		return &Result{Type: ResultCancel, Error: oauthError, ErrorDescription: description}
	case oauthError != "":
		return &Result{Type: ResultDismiss, Error: oauthError, ErrorDescription: description}
	default:
		return &Result{Type: ResultSuccess, URL: redirectURL}
	}
}
