package gateway

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"golang.org/x/crypto/acme/autocert"
)

// certManager accepts the configured domain and its www. alias.
func (s *Server) certManager() *autocert.Manager {
	domain := s.cfg.Domain
	return &autocert.Manager{
		Prompt: autocert.AcceptTOS,
		Cache:  autocert.DirCache(s.cfg.CertDir),
		HostPolicy: func(ctx context.Context, host string) error {
			if host == domain || host == "www."+domain {
				return nil
			}
			if net.ParseIP(host) != nil {
				return errors.New("acme/autocert: ip addresses are not served")
			}
			return errors.New("acme/autocert: host not configured")
		},
	}
}

// serveTLS answers ACME challenges and redirects on :80 and serves the gateway on :443.
func (s *Server) serveTLS(ctx context.Context) error {
	mgr := s.certManager()
	domain := s.cfg.Domain

	redirect := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "https://"+domain+r.URL.RequestURI(), http.StatusMovedPermanently)
	})
	plain := &http.Server{
		Addr:              ":80",
		Handler:           mgr.HTTPHandler(redirect),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		s.logger.Info("acme challenge listener", "addr", plain.Addr)
		if err := serveUntilDone(ctx, plain, plain.ListenAndServe); err != nil {
			s.logger.Error("acme challenge listener stopped", "err", err)
		}
	}()

	secure := &http.Server{
		Addr:              ":443",
		Handler:           s.Handler(),
		TLSConfig:         mgr.TLSConfig(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("gateway listening", "addr", secure.Addr, "domain", domain)
	return serveUntilDone(ctx, secure, func() error { return secure.ListenAndServeTLS("", "") })
}
