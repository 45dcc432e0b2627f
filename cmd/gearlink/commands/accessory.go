package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gearlink/gearlink-go/pkg/config"
	"github.com/gearlink/gearlink-go/pkg/discovery"
	"github.com/gearlink/gearlink-go/pkg/transport"
	"github.com/gearlink/gearlink-go/pkg/wire"
)

var accessoryCmd = &cobra.Command{
	Use:   "accessory",
	Short: "Run a simulated accessory",
	Long: `Advertises an accessory over mDNS and accepts links from hosts.
A "ping" message is answered with "pong" on the same channel. Any other
message is echoed back under the "echo" identifier.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runAccessory(ctx, cfg, slog.Default())
	},
}

// Responder answers messages received by the simulated accessory.
type Responder struct {
	Name  string
	Codec wire.Codec
}

// Respond returns the frame to send back for a received frame. ok is false
// when nothing should be sent.
func (r Responder) Respond(data string) (reply string, ok bool, err error) {
	msg, err := r.Codec.Decode(data)
	if err != nil {
		return "", false, err
	}

	if msg.ID == "ping" {
		reply, err = r.Codec.Encode("pong", map[string]string{"from": r.Name})
	} else {
		reply, err = r.Codec.Encode("echo", msg.Payload)
	}
	if err != nil {
		return "", false, err
	}
	return reply, true, nil
}

// serve attaches the responder to an accepted link.
func (r Responder) serve(conn *transport.Conn, logger *slog.Logger) {
	logger = logger.With("conn", conn.ConnID(), "peer", conn.PeerName())
	logger.Info("host connected", "remote", conn.RemoteAddr())

	conn.SetSocketStatusListener(func(err error) {
		logger.Info("host disconnected", "cause", err)
	})
	conn.SetDataReceiveListener(func(channel int, data string) {
		reply, ok, err := r.Respond(data)
		if err != nil {
			logger.Warn("undecodable message", "channel", channel, "error", err)
			return
		}
		if !ok {
			return
		}
		if err := conn.SendData(channel, reply); err != nil {
			logger.Warn("reply failed", "channel", channel, "error", err)
		}
	})
}

func runAccessory(ctx context.Context, c config.Config, logger *slog.Logger) error {
	codec, err := wire.CodecByName(c.Client.Codec)
	if err != nil {
		return err
	}

	protoLog, closeProto, err := protocolLogger(c.Log, logger)
	if err != nil {
		return err
	}
	defer closeProto()

	conn := c.ConnConfig()
	conn.Logger = logger
	conn.ProtocolLogger = protoLog

	responder := Responder{Name: c.Accessory.Name, Codec: codec}
	srv, err := transport.NewServer(transport.ServerConfig{
		Address:   c.Accessory.Address,
		Profile:   c.Accessory.Profile,
		Name:      c.Accessory.Name,
		Conn:      conn,
		OnConnect: func(tc *transport.Conn) { responder.serve(tc, logger) },
		OnError: func(err error) {
			logger.Warn("link rejected", "error", err)
		},
	})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	advertiser, err := discovery.NewMDNSAdvertiser(discovery.AdvertiserConfig{
		Interface: c.Discovery.Interface,
		TTL:       c.Discovery.TTL,
	})
	if err != nil {
		return fmt.Errorf("create advertiser: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(ctx); err != nil {
			return err
		}
		logger.Info("accessory listening", "addr", srv.Addr(), "profile", c.Accessory.Profile)

		info := &discovery.AccessoryInfo{
			Profile:    c.Accessory.Profile,
			Name:       c.Accessory.Name,
			DeviceType: c.Accessory.DeviceType,
			ID:         c.Accessory.ID,
			Port:       uint16(srv.Port()),
		}
		if err := advertiser.Advertise(ctx, info); err != nil {
			_ = srv.Stop()
			return fmt.Errorf("advertise: %w", err)
		}
		logger.Info("advertising", "instance", info.Instance(), "service", discovery.ServiceType)
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		advertiser.StopAll()
		return srv.Stop()
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	logger.Info("accessory stopped")
	return err
}
