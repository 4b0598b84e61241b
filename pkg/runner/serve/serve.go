package serve

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"tableflip.dev/rowcount/pkg/api"
	"tableflip.dev/rowcount/pkg/store"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = "127.0.0.1:8787"

// Serve exposes a store over the HTTP storage API so that other rowcount
// processes can use it through the remote backend.
type Serve struct {
	Addr  string
	Token string

	KV          store.KV
	Log         *slog.Logger
	OnListening func(net.Addr)
}

func (n *Serve) Do(ctx context.Context) error {
	if n.KV == nil {
		return errors.New("can not serve, no store")
	}
	log := n.Log
	if log == nil {
		log = slog.Default()
	}
	addr := n.Addr
	if addr == "" {
		addr = DefaultAddr
	}

	srv := &http.Server{
		Handler:           api.NewRouter(n.KV, n.Token, log),
		ReadHeaderTimeout: 10 * time.Second,
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	if n.OnListening != nil {
		n.OnListening(ln.Addr())
	}
	log.Info("storage api listening", "addr", ln.Addr().String(), "auth", n.Token != "")

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	err = srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
