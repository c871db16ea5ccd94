package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/micro/go-micro/v2/broker"
	"github.com/ofte-auth/ponto/internal/records"
	"github.com/ofte-auth/ponto/internal/service"
	"github.com/ofte-auth/ponto/internal/util"
	"github.com/ofte-auth/ponto/internal/view"
	log "github.com/sirupsen/logrus"
)

// Handler is a base http-handling object.
type Handler struct {
	name               string
	router             *chi.Mux
	server             *http.Server
	records            records.Client
	renderer           *view.Renderer
	images             *view.Assets
	broker             broker.Broker
	ipAddress          string
	httpPort           int
	tlsCertificateFile string
	tlsPrivateKeyFile  string
	options            map[string]string
}

// OptionRecords applies a records API client option.
func OptionRecords(records records.Client) func(*Handler) error {
	return func(handler *Handler) error {
		handler.records = records
		return nil
	}
}

// OptionRenderer applies the HTML view renderer option.
func OptionRenderer(renderer *view.Renderer) func(*Handler) error {
	return func(handler *Handler) error {
		handler.renderer = renderer
		return nil
	}
}

// OptionImages applies the static image directory option.
func OptionImages(images *view.Assets) func(*Handler) error {
	return func(handler *Handler) error {
		handler.images = images
		return nil
	}
}

// OptionMessageBroker applies a message broker option, audit entries are
// published through it.
func OptionMessageBroker(broker broker.Broker) func(*Handler) error {
	return func(handler *Handler) error {
		handler.broker = broker
		return nil
	}
}

// OptionIPAddress applies a IP address option.
func OptionIPAddress(ipAddress string) func(*Handler) error {
	return func(handler *Handler) error {
		handler.ipAddress = ipAddress
		return nil
	}
}

// OptionHTTPPort applies a TCP port option, used by the http handler.
func OptionHTTPPort(port int) func(*Handler) error {
	return func(handler *Handler) error {
		handler.httpPort = port
		return nil
	}
}

// OptionTLS applies TLS parameters, used by the http handler.
func OptionTLS(certFile, keyFile string) func(*Handler) error {
	return func(handler *Handler) error {
		if certFile == "" && keyFile == "" {
			return nil
		}
		handler.tlsCertificateFile = certFile
		handler.tlsPrivateKeyFile = keyFile
		return nil
	}
}

// OptionParams applies a name,value option, more than one can be added.
func OptionParams(key, value string) func(*Handler) error {
	return func(handler *Handler) error {
		if handler.options == nil {
			handler.options = make(map[string]string)
		}
		handler.options[key] = value
		return nil
	}
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(200)
	_, _ = w.Write([]byte("ok"))
}

// ServeHTTP dispatches to the router built by Init.
func (handler *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler.router.ServeHTTP(w, r)
}

// bind attaches the router to a server listening on the configured address.
func (handler *Handler) bind(router *chi.Mux) {
	handler.router = router
	handler.router.Get("/healthz", healthz)
	handler.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", handler.ipAddress, handler.httpPort),
		Handler: router,
	}
}

// Start commences http handling. It returns http.ErrServerClosed after Shutdown.
func (handler *Handler) Start() error {
	address := handler.server.Addr
	if handler.tlsCertificateFile == "" {
		log.WithFields(log.Fields{
			"service": handler.name,
			"address": address,
		}).Info("Starting http handler")
		return handler.server.ListenAndServe()
	}
	log.WithFields(log.Fields{
		"service": handler.name,
		"address": address,
	}).Info("Starting https handler")
	return handler.server.ListenAndServeTLS(handler.tlsCertificateFile, handler.tlsPrivateKeyFile)
}

// Shutdown gracefully stops the http server, waiting at most 5 seconds for
// requests in flight.
func (handler *Handler) Shutdown() error {
	if handler.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return handler.server.Shutdown(ctx)
}

// ClientContext is http middleware that adds a request's ip address and
// user agent to the context.
func ClientContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ipAddr := util.ClientIP(r)
		ctx := context.WithValue(r.Context(), service.ContextIPAddr, ipAddr)
		ctx = context.WithValue(ctx, service.ContextUserAgent, r.UserAgent())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
