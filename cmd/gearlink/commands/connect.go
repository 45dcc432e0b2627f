package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gearlink/gearlink-go/cmd/gearlink/interactive"
	"github.com/gearlink/gearlink-go/pkg/accessory"
	"github.com/gearlink/gearlink-go/pkg/config"
	"github.com/gearlink/gearlink-go/pkg/history"
	"github.com/gearlink/gearlink-go/pkg/lan"
	"github.com/gearlink/gearlink-go/pkg/wire"
)

var connectWatch []string

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect to an accessory and exchange messages interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runConnect(ctx, cfg, slog.Default())
	},
}

func init() {
	connectCmd.Flags().StringSliceVar(&connectWatch, "watch", []string{"pong", "echo"}, "message identifiers to print on arrival")
}

// host bundles the pieces of a running host.
type host struct {
	platform *lan.Platform
	client   *accessory.Client
	recorder *history.Recorder
	store    *history.Store
	closers  []func()
}

// newHost builds the platform, client and optional history recorder from c.
func newHost(c config.Config, logger *slog.Logger) (*host, error) {
	h := &host{}

	codec, err := wire.CodecByName(c.Client.Codec)
	if err != nil {
		return nil, err
	}

	protoLog, closeProto, err := protocolLogger(c.Log, logger)
	if err != nil {
		return nil, err
	}
	h.closers = append(h.closers, closeProto)

	conn := c.ConnConfig()
	conn.Logger = logger
	conn.ProtocolLogger = protoLog

	pc := lan.DefaultConfig()
	pc.Profiles = c.Client.Profiles
	pc.Name = c.Client.Name
	pc.BrowseTimeout = c.Discovery.BrowseTimeout
	pc.Interface = c.Discovery.Interface
	pc.DialTimeout = c.Client.DialTimeout
	pc.Conn = conn
	pc.Logger = logger
	platform, err := lan.New(pc)
	if err != nil {
		h.close()
		return nil, fmt.Errorf("create platform: %w", err)
	}
	h.platform = platform

	cc := accessory.DefaultClientConfig()
	cc.Codec = codec
	cc.DefaultMessageID = c.Client.DefaultMessageID
	cc.Logger = logger
	cc.ProtocolLogger = protoLog
	client, err := accessory.NewClient(platform, cc)
	if err != nil {
		h.close()
		return nil, fmt.Errorf("create client: %w", err)
	}
	h.client = client

	if c.History.Enabled {
		store, err := history.Open(c.History.Path)
		if err != nil {
			h.close()
			return nil, fmt.Errorf("open history: %w", err)
		}
		h.store = store
		h.recorder = history.NewRecorder(store, client, c.Client.Profiles[0], logger)
		h.recorder.Start()
	}

	return h, nil
}

// closed records a user-requested close when history is enabled.
func (h *host) closed(peer string) {
	if h.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.recorder.Closed(ctx, peer); err != nil {
		slog.Warn("history: record close failed", "error", err)
	}
}

func (h *host) close() {
	if h.recorder != nil {
		h.recorder.Stop()
	}
	if h.client != nil {
		h.client.Shutdown()
	}
	if h.platform != nil {
		_ = h.platform.Close()
	}
	if h.store != nil {
		_ = h.store.Close()
	}
	for i := len(h.closers) - 1; i >= 0; i-- {
		h.closers[i]()
	}
}

func runConnect(ctx context.Context, c config.Config, logger *slog.Logger) error {
	h, err := newHost(c, logger)
	if err != nil {
		return err
	}
	defer h.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	session := interactive.New(h.client, interactive.Config{
		Channel:          c.Client.Channel,
		DefaultMessageID: c.Client.DefaultMessageID,
		Watch:            connectWatch,
		OnClose:          h.closed,
	}, nil)
	defer session.Stop()

	return session.Run(ctx, cancel)
}
