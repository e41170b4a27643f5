// Command albatross-poold runs a standalone fork-proof pool with an HTTP
// debug/inspection surface: a small daemon useful for exercising and
// observing the pool outside of a full consensus node, since this
// module does not implement networking transport or chain persistence
// itself.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/albatross-engine/albatross/achain/achaintest"
	"github.com/albatross-engine/albatross/acrypto"
	"github.com/albatross-engine/albatross/acrypto/ablsminsig"
	"github.com/albatross-engine/albatross/aforkpool"
	"github.com/albatross-engine/albatross/aforkpool/aforkpoolmetrics"
	"github.com/albatross-engine/albatross/apolicy"
	"github.com/albatross-engine/albatross/avalidator"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var httpAddr string

	cmd := &cobra.Command{
		Use:   "albatross-poold",
		Short: "Run the Albatross fork-proof pool with a debug HTTP surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), httpAddr)
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http-addr", "localhost:8099", "address to serve the debug HTTP surface on")

	return cmd
}

func run(ctx context.Context, httpAddr string) error {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	chain, validators, err := seedDemoChain()
	if err != nil {
		return fmt.Errorf("seeding demo chain state: %w", err)
	}

	reg := prometheus.NewRegistry()
	metrics := aforkpoolmetrics.New(reg)

	pool := aforkpool.New(chain, metrics)

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", httpAddr, err)
	}

	srv := &http.Server{
		Handler: newRouter(log, pool, validators, reg),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	log.Info("Starting albatross-poold", "http_addr", httpAddr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down", "cause", context.Cause(ctx))
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}

// seedDemoChain builds an in-memory chain double with a single
// demo validator owning every slot, since this daemon has no real chain
// backend to connect to.
func seedDemoChain() (*achaintest.State, avalidator.Slots, error) {
	signer, err := ablsminsig.NewSigner([]byte("albatross-poold-demo-seed-key-00"))
	if err != nil {
		return nil, avalidator.Slots{}, err
	}

	var pub acrypto.PubKey = signer.PubKey()

	validators, err := avalidator.NewSlots([]avalidator.SlotBand{
		{PublicKey: pub, SlotCount: apolicy.SLOTS},
	})
	if err != nil {
		return nil, avalidator.Slots{}, err
	}

	chain := achaintest.New()
	chain.SetHead(0)
	chain.SetEpochSlots(0, achaintest.EpochSlots{
		0: {PublicKey: pub, SlotNumber: 0},
	})

	return chain, validators, nil
}
