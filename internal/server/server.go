// Package server serves the portfolio page and the checkout proxy API.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio-terminal/internal/catalog"
	"github.com/Zachkp/portfolio-terminal/internal/config"
	"github.com/Zachkp/portfolio-terminal/internal/content"
	"github.com/Zachkp/portfolio-terminal/internal/polar"
	"github.com/Zachkp/portfolio-terminal/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// Provider is the commerce API the proxy forwards to.
type Provider interface {
	HasToken() bool
	CreateCheckout(ctx context.Context, p polar.CreateParams) (*polar.Checkout, error)
	GetCheckout(ctx context.Context, id string) (*polar.Checkout, error)
	CheckoutBySessionToken(ctx context.Context, token string) (*polar.Checkout, error)
}

// VisitLog stores hashed page views.
type VisitLog interface {
	RecordVisit(ctx context.Context, v store.Visit) error
	PruneVisits(ctx context.Context, before time.Time) (int64, error)
}

type Options struct {
	Config   *config.Config
	Provider Provider
	Profile  content.Profile
	Catalog  catalog.Catalog
	// Visits is optional; page views are not tracked without it.
	Visits VisitLog
}

type Server struct {
	cfg      *config.Config
	provider Provider
	profile  content.Profile
	catalog  catalog.Catalog
	visits   VisitLog
	siteURL  string
	hasher   *ipHasher
	limiter  *ipLimiter
	engine   *gin.Engine

	bg sync.WaitGroup
}

func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, errors.New("server: config is required")
	}
	if opts.Provider == nil {
		return nil, errors.New("server: provider is required")
	}

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		cfg:      opts.Config,
		provider: opts.Provider,
		profile:  opts.Profile,
		catalog:  opts.Catalog,
		visits:   opts.Visits,
		siteURL:  strings.TrimRight(opts.Config.SiteURL, "/"),
		hasher:   newIPHasher(),
		limiter:  newIPLimiter(opts.Config.RateLimit.PerSecond, opts.Config.RateLimit.Burst),
	}

	r := gin.Default()
	r.SetHTMLTemplate(tmpl)
	r.Use(requestID())
	s.routes(r)
	s.engine = r
	return s, nil
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/", s.trackVisits(), s.home)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/robots.txt", s.robots)
	r.GET("/sitemap.xml", s.sitemap)

	api := r.Group("/api", s.cors(), s.rateLimit())
	api.OPTIONS("/*path", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	api.POST("/checkout", s.createCheckout)
	api.GET("/checkout/status", s.checkoutStatus)
	api.GET("/checkout/session", s.checkoutSession)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on the configured port until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.visits != nil {
		s.bg.Add(1)
		go func() {
			defer s.bg.Done()
			s.pruneLoop(ctx)
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Listening on :%s (site %s)", s.cfg.Port, s.siteURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.bg.Wait()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.bg.Wait()
	return err
}

// Wait blocks until background visit writes have finished.
func (s *Server) Wait() {
	s.bg.Wait()
}

func (s *Server) home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"profile":  s.profile,
		"summary":  content.Summary,
		"about":    content.AboutMe,
		"products": s.catalog,
		"checkout": c.Query("checkout"),
		"apiURL":   s.cfg.APIURL,
	})
}
