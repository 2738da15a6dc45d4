package httpapi

import (
	"context"
	"errors"
	"net/http"
)

func (s *implServer) Handler() http.Handler {
	return s.router
}

func (s *implServer) Start() error {
	ctx := context.Background()

	var err error
	if s.opts.TLSCertFile != "" && s.opts.TLSKeyFile != "" {
		s.logger.Info(ctx, "HTTPS listening on %s", s.opts.Addr)
		err = s.srv.ListenAndServeTLS(s.opts.TLSCertFile, s.opts.TLSKeyFile)
	} else {
		s.logger.Info(ctx, "HTTP listening on %s", s.opts.Addr)
		err = s.srv.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *implServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
