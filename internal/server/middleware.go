package server

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/Zachkp/portfolio-terminal/internal/store"
)

const requestIDHeader = "X-Request-ID"

// requestID tags every request with an id, reusing the caller's when given.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// cors echoes the request origin, falling back to the site URL and then to
// a wildcard.
func (s *Server) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case origin != "":
		case s.siteURL != "":
			origin = s.siteURL
		default:
			origin = "*"
		}
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Vary", "Origin")
		c.Next()
	}
}

// ipLimiter hands out one token bucket per client address.
type ipLimiter struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	clients map[string]*client
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const (
	maxTrackedClients = 10000
	clientIdleTimeout = 10 * time.Minute
)

// newIPLimiter returns nil when perSecond is zero, which disables limiting.
func newIPLimiter(perSecond float64, burst int) *ipLimiter {
	if perSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &ipLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		clients: make(map[string]*client),
	}
}

func (l *ipLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cl, ok := l.clients[ip]
	if !ok {
		if len(l.clients) >= maxTrackedClients {
			l.evictLocked(now)
		}
		cl = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

func (l *ipLimiter) evictLocked(now time.Time) {
	for ip, cl := range l.clients {
		if now.Sub(cl.lastSeen) > clientIdleTimeout {
			delete(l.clients, ip)
		}
	}
}

func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter == nil || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		if !s.limiter.allow(c.ClientIP(), time.Now()) {
			log.Printf("rate limit: rejected %s %s from %s", c.Request.Method, c.Request.URL.Path, s.hasher.hash(c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please slow down."})
			return
		}
		c.Next()
	}
}

// trackVisits records a hashed page view in the background. Requests that
// send Do Not Track are skipped.
func (s *Server) trackVisits() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.visits == nil || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		v := store.Visit{
			HashedIP:  s.hasher.hash(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      c.Request.URL.Path,
			Timestamp: time.Now(),
		}
		s.bg.Add(1)
		go func() {
			defer s.bg.Done()
			if err := s.visits.RecordVisit(context.Background(), v); err != nil {
				log.Printf("Error recording visitor: %v", err)
			}
		}()
		c.Next()
	}
}

// pruneLoop removes visits older than the retention window at start-up and
// then once a day.
func (s *Server) pruneLoop(ctx context.Context) {
	retention := s.cfg.Visits.Retention.Duration
	if retention <= 0 {
		return
	}

	prune := func() {
		n, err := s.visits.PruneVisits(ctx, time.Now().Add(-retention))
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("Error cleaning up old visitor data: %v", err)
			}
			return
		}
		if n > 0 {
			log.Printf("Privacy cleanup: removed %d visitor records older than %s", n, retention)
		}
	}

	prune()
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			prune()
		}
	}
}
