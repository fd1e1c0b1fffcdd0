package credentials

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/harvester/internal/apperr"
)

// CallbackListener receives the authorization redirect on a short-lived
// local HTTP server. It serves exactly one successful grant.
type CallbackListener struct {
	Addr    string
	Path    string
	Timeout time.Duration
	Logger  *slog.Logger

	// OnListen, if set, is called with the bound address once the
	// listener is accepting connections.
	OnListen func(addr string)
}

// Authorize implements Authorizer.
func (l *CallbackListener) Authorize(ctx context.Context, _ string, state string) (Grant, error) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	path := l.Path
	if path == "" {
		path = "/callback"
	}
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	ln, err := net.Listen("tcp", l.Addr)
	if err != nil {
		return Grant{}, fmt.Errorf("credentials: callback listen: %w", err)
	}

	grants := make(chan Grant, 1)
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get(path, callbackHandler(state, grants))
	srv := &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second}

	if l.OnListen != nil {
		l.OnListen(ln.Addr().String())
	}
	logger.Info("credentials: callback listener started", slog.String("address", ln.Addr().String()))

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("credentials: callback server: %w", err)
		}
		return nil
	})

	var grant Grant
	g.Go(func() error {
		defer func() {
			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			_ = srv.Shutdown(shutdownCtx)
		}()
		select {
		case grant = <-grants:
			return nil
		case <-gCtx.Done():
			if errors.Is(gCtx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("credentials: callback: %w", apperr.ErrAuthTimeout)
			}
			return gCtx.Err()
		}
	})

	if err := g.Wait(); err != nil {
		return Grant{}, err
	}
	return grant, nil
}

func callbackHandler(state string, grants chan<- Grant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if e := q.Get("error"); e != "" {
			plain(w, http.StatusBadRequest, fmt.Sprintf("OAuth error: %s %s", e, q.Get("error_description")))
			return
		}
		code, realm, got := q.Get("code"), q.Get("realmId"), q.Get("state")
		if code == "" || realm == "" || got == "" {
			plain(w, http.StatusBadRequest, "Missing required query parameters.")
			return
		}
		if got != state {
			plain(w, http.StatusBadRequest, "Invalid or missing state parameter.")
			return
		}
		plain(w, http.StatusOK, "You can close this tab.")
		select {
		case grants <- Grant{Code: code, RealmID: realm}:
		default:
		}
	}
}

func plain(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
