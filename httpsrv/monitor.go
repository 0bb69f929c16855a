package httpsrv

import (
	"context"
	"net/http"
	_ "net/http/pprof" // pprof을 사용하기 위한 패키지
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"frameprep/log"
)

type MonitorArgs struct {
	Port int
}

// Monitor exposes /prometheus, /healthz and pprof while an extraction runs.
type Monitor struct {
	api  *echo.Echo
	port int
}

func NewMonitor(args MonitorArgs) *Monitor {
	api := echo.New()
	api.HideBanner = true
	api.HidePort = true
	m := &Monitor{
		api:  api,
		port: args.Port,
	}
	m.RegisterRoute()
	return m
}

func (m *Monitor) RegisterRoute() {
	m.api.GET("/prometheus", echo.WrapHandler(promhttp.Handler()))
	m.api.GET("/debug/pprof/*", echo.WrapHandler(http.DefaultServeMux))
	m.api.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
}

func (m *Monitor) Handler() http.Handler {
	return m.api
}

// Start serves in the background. Listen errors are logged, not returned.
func (m *Monitor) Start(ctx context.Context) {
	ctx = log.WithFields(ctx, logrus.Fields{
		"port": m.port,
	})
	go func() {
		log.Info(ctx, "monitor server started")
		err := m.api.Start("0.0.0.0:" + strconv.Itoa(m.port))
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf(ctx, "monitor server failed: %v", err)
		}
	}()
}

func (m *Monitor) Shutdown(ctx context.Context) error {
	return m.api.Shutdown(ctx)
}
