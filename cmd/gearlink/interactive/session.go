// Package interactive provides the interactive command-line session for
// talking to an accessory.
package interactive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"github.com/gearlink/gearlink-go/pkg/accessory"
	"github.com/gearlink/gearlink-go/pkg/connection"
	"github.com/gearlink/gearlink-go/pkg/eventbus"
)

// Client is the part of accessory.Client the session drives.
type Client interface {
	Bus() *eventbus.Bus
	Connect() bool
	Close()
	SendMessage(channel int, id string, payload any) error
	State() connection.State
	IsConnected() bool
	ConnectionID() string
	PeerID() string
}

var _ Client = (*accessory.Client)(nil)

// Config configures a Session.
type Config struct {
	// Channel is the initial channel for outgoing messages.
	Channel int

	// DefaultMessageID is used by "data".
	DefaultMessageID string

	// Watch lists message identifiers printed on arrival.
	Watch []string

	// OnClose is called after a user-requested close.
	OnClose func(peer string)
}

// Session handles interactive mode for the gearlink host.
type Session struct {
	client Client
	config Config
	out    io.Writer

	mu      sync.Mutex
	channel int
	watched map[string]eventbus.SubscriptionID
	subs    []eventbus.SubscriptionID
}

// New creates a session writing to out. Run replaces out with the readline
// writer.
func New(client Client, config Config, out io.Writer) *Session {
	if out == nil {
		out = io.Discard
	}
	s := &Session{
		client:  client,
		config:  config,
		out:     out,
		channel: config.Channel,
		watched: make(map[string]eventbus.SubscriptionID),
	}

	bus := client.Bus()
	for _, topic := range []string{
		accessory.TopicConnectSuccess,
		accessory.TopicConnectError,
		accessory.TopicPeerAgentError,
		accessory.TopicServiceConnectSuccess,
		accessory.TopicServiceConnectError,
		accessory.TopicSocketStatus,
		accessory.TopicDeviceAttached,
		accessory.TopicDeviceDetached,
		accessory.TopicDecodeError,
	} {
		s.subs = append(s.subs, bus.Subscribe(topic, s.printNotification))
	}
	for _, id := range config.Watch {
		s.watch(id)
	}
	return s
}

// Stop unsubscribes from the client's bus.
func (s *Session) Stop() {
	s.mu.Lock()
	subs := s.subs
	for _, id := range s.watched {
		subs = append(subs, id)
	}
	s.subs = nil
	s.watched = make(map[string]eventbus.SubscriptionID)
	s.mu.Unlock()

	bus := s.client.Bus()
	for _, id := range subs {
		bus.Unsubscribe(id)
	}
}

// Run starts the interactive command loop.
func (s *Session) Run(ctx context.Context, cancel context.CancelFunc) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "gearlink> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	s.mu.Lock()
	s.out = rl.Stdout()
	s.mu.Unlock()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(rl.Stdout(), "Exiting...")
			cancel()
			return nil
		}

		if s.Exec(line) {
			cancel()
			return nil
		}
	}
}

// Exec runs one command line and reports whether the session should end.
func (s *Session) Exec(line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	cmd, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "help", "?":
		s.printHelp()
	case "connect", "c":
		s.cmdConnect()
	case "send", "s":
		s.cmdSend(rest)
	case "data", "d":
		s.cmdData(rest)
	case "channel", "ch":
		s.cmdChannel(rest)
	case "watch", "w":
		s.cmdWatch(rest)
	case "close":
		s.cmdClose()
	case "status", "st":
		s.cmdStatus()
	case "quit", "exit", "q":
		s.printf("Exiting...\n")
		return true
	default:
		s.printf("Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (s *Session) printHelp() {
	s.printf(`
Gearlink Commands:
  Connection:
    connect              - Discover an accessory and open a link
    close                - Close the link
    status               - Show connection status

  Messaging:
    send <id> [json]     - Send a message with the given identifier
    data [json]          - Send a message with the default identifier
    channel [n]          - Show or set the outgoing channel
    watch [id]           - Print received messages with this identifier

  General:
    help                 - Show this help
    quit                 - Exit
`)
}

func (s *Session) cmdConnect() {
	if !s.client.Connect() {
		s.printf("Connect refused (state: %s)\n", s.client.State())
		return
	}
	s.printf("Connecting...\n")
}

func (s *Session) cmdSend(rest string) {
	id, body, _ := strings.Cut(rest, " ")
	if id == "" {
		s.printf("Usage: send <id> [json]\n")
		return
	}
	s.send(id, strings.TrimSpace(body))
}

func (s *Session) cmdData(rest string) {
	s.send(s.config.DefaultMessageID, rest)
}

func (s *Session) send(id, body string) {
	payload, err := parsePayload(body)
	if err != nil {
		s.printf("Invalid JSON payload: %v\n", err)
		return
	}

	ch := s.currentChannel()
	if err := s.client.SendMessage(ch, id, payload); err != nil {
		s.printf("Send failed: %v\n", err)
		return
	}
	s.printf("Sent %s on channel %d\n", id, ch)
}

func (s *Session) cmdChannel(rest string) {
	if rest == "" {
		s.printf("Channel: %d\n", s.currentChannel())
		return
	}
	ch, err := strconv.Atoi(rest)
	if err != nil || ch < 0 {
		s.printf("Invalid channel: %s\n", rest)
		return
	}
	s.mu.Lock()
	s.channel = ch
	s.mu.Unlock()
	s.printf("Channel: %d\n", ch)
}

func (s *Session) cmdWatch(rest string) {
	if rest == "" {
		s.mu.Lock()
		ids := make([]string, 0, len(s.watched))
		for id := range s.watched {
			ids = append(ids, id)
		}
		s.mu.Unlock()
		sort.Strings(ids)
		s.printf("Watching: %s\n", strings.Join(ids, ", "))
		return
	}
	s.watch(rest)
	s.printf("Watching %s\n", rest)
}

func (s *Session) cmdClose() {
	if !s.client.IsConnected() {
		s.printf("Not connected\n")
		return
	}
	peer := s.client.PeerID()
	s.client.Close()
	s.printf("Closed link to %s\n", peer)
	if s.config.OnClose != nil {
		s.config.OnClose(peer)
	}
}

func (s *Session) cmdStatus() {
	s.printf("State:      %s\n", s.client.State())
	s.printf("Connection: %s\n", s.client.ConnectionID())
	if peer := s.client.PeerID(); peer != "" {
		s.printf("Peer:       %s\n", peer)
	}
	s.printf("Channel:    %d\n", s.currentChannel())
}

func (s *Session) watch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.watched[id]; ok {
		return
	}
	s.watched[id] = s.client.Bus().Subscribe(id, s.printNotification)
}

func (s *Session) printNotification(topic string, payload any) {
	switch p := payload.(type) {
	case accessory.Status:
		if p.Status {
			s.printf("[%s] ok %s\n", topic, p.Data)
		} else {
			s.printf("[%s] failed: %s\n", topic, p.Data)
		}
	case accessory.SocketStatus:
		s.printf("[%s] %s: %s\n", topic, p.Status, p.Data)
	case accessory.PeerAgentError:
		s.printf("[%s] %s\n", topic, p.ErrorCode)
	case accessory.DeviceEvent:
		s.printf("[%s] %s\n", topic, p.Type)
	case accessory.DecodeError:
		s.printf("[%s] channel %d: %v\n", topic, p.Channel, p.Err)
	case accessory.Received:
		s.printf("[%s] ch=%d %s\n", topic, p.Channel, string(p.Message.Payload))
	default:
		s.printf("[%s] %v\n", topic, payload)
	}
}

func (s *Session) currentChannel() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channel
}

func (s *Session) printf(format string, args ...any) {
	s.mu.Lock()
	out := s.out
	s.mu.Unlock()
	fmt.Fprintf(out, format, args...)
}

// parsePayload turns an optional JSON argument into a payload.
func parsePayload(body string) (any, error) {
	if body == "" {
		return nil, nil
	}
	if !json.Valid([]byte(body)) {
		var v any
		return nil, json.Unmarshal([]byte(body), &v)
	}
	return json.RawMessage(body), nil
}
