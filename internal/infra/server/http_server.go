package server

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/krishna-gitAcc/hospital-management-project/internal/infra/config"
)

// StartHTTPServer serves the router until ctx is cancelled, then drains with
// a bounded shutdown window. TLS is used when cert/key files are configured;
// behind the gateway the service normally listens in plain HTTP.
func StartHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddress))
		var err error
		if cfg.HTTPSCertFile != "" && cfg.HTTPSKeyFile != "" {
			err = srv.ListenAndServeTLS(cfg.HTTPSCertFile, cfg.HTTPSKeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server")
	case <-ctx.Done():
	}

	logger.Info("ctx cancelled, stopping http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "http server shutdown")
	}
	logger.Info("http server stopped")
	return <-errCh
}
