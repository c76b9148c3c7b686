package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"golang.org/x/sync/errgroup"
)

// How long servers get to finish pending requests once they are stopped.
const shutdownTimeout = 5 * time.Second

// ListenAndServe runs the given servers until ctx is done or one of them
// fails. All of them are then shut down. The first server failure is
// returned.
func ListenAndServe(ctx context.Context, servers ...*http.Server) error {
	group, groupCtx := errgroup.WithContext(ctx)

	for _, s := range servers {
		group.Go(func() error {
			return serve(s)
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		shutdown(servers)
		return nil
	})

	return group.Wait()
}

func serve(s *http.Server) error {
	logs.WithTag("addr", s.Addr).Info("starting server")

	err := s.ListenAndServe()
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		logs.WithTag("addr", s.Addr).Info("server stopped")
		return nil
	}

	return errors.New("server failed").
		WithTag("addr", s.Addr).
		Wrap(err)
}

func shutdown(servers []*http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, s := range servers {
		if err := s.Shutdown(ctx); err != nil {
			logs.Warn(errors.New("shutting down the server failed").
				WithTag("addr", s.Addr).
				Wrap(err))
		}
	}
}

// MetricsPathFormatter returns empty string on HTTP 301, 400, 404 or 405
// statusCode. Debug paths are grouped under a single label.
func MetricsPathFormatter(statusCode int, path string) string {
	switch statusCode {
	case http.StatusMovedPermanently,
		http.StatusBadRequest,
		http.StatusNotFound,
		http.StatusMethodNotAllowed:
		return ""
	}

	if strings.HasPrefix(path, "/debug/") {
		return "/debug"
	}
	return path
}
