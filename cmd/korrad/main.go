// Command korrad runs the coordinator daemon: the admin HTTP API, the
// binary wire listener, and the background liveness sweep.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Geekthedev/korra/config"
	"github.com/Geekthedev/korra/coordinator"
	"github.com/Geekthedev/korra/httpapi"
	"github.com/Geekthedev/korra/obslog"
	"github.com/Geekthedev/korra/transport"
)

var log = obslog.For("korrad")

func main() {
	configPath := flag.String("config", "", "path to an optional korrad.toml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		obslog.Fatal("korrad", "failed to load configuration", err)
	}
	obslog.Configure(cfg.LogLevel)

	log.Info().Int("admin_port", cfg.AdminPort).Str("wire_addr", cfg.WireAddr).Msg("starting korrad")

	coord, err := coordinator.New(coordinator.Config{
		WorkerPoolSize:    cfg.WorkerPoolSize,
		HeartbeatInterval: cfg.HeartbeatInterval,
		NodeTimeout:       cfg.NodeTimeout,
		SnapshotBaseDir:   cfg.SnapshotDir,
		AuditDSN:          cfg.AuditDSN,
	})
	if err != nil {
		obslog.Fatal("korrad", "failed to build coordinator", err)
	}

	ctx, cancelSweep := context.WithCancel(context.Background())
	coord.Start(ctx)

	adminServer := httpapi.NewServer(coord)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.AdminPort)
		if err := adminServer.Start(addr); err != nil && err != http.ErrServerClosed {
			obslog.Fatal("korrad", "admin server failed", err)
		}
	}()

	wireListener, err := net.Listen("tcp", cfg.WireAddr)
	if err != nil {
		obslog.Fatal("korrad", "failed to bind wire listener", err)
	}
	go serveWire(wireListener, coord)

	log.Info().Msg("korrad ready")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down korrad")
	cancelSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("admin server did not shut down cleanly")
	}
	wireListener.Close()
	coord.Stop()

	log.Info().Msg("korrad stopped")
}

func serveWire(ln net.Listener, coord *coordinator.Coordinator) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		go handleWireConn(conn, coord)
	}
}

func handleWireConn(conn net.Conn, coord *coordinator.Coordinator) {
	defer conn.Close()
	for {
		frame, err := transport.ReadFrame(conn)
		if err != nil {
			return
		}
		switch frame.Header.MessageType {
		case transport.MessageHeartbeat:
			// payload is the raw node id
			coord.Nodes.Heartbeat(string(frame.Payload))
		default:
			log.Warn().Uint8("msg_type", uint8(frame.Header.MessageType)).Msg("unhandled wire message type")
		}
	}
}
