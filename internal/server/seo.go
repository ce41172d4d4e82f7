package server

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) robots(c *gin.Context) {
	body := fmt.Sprintf(`# Allow all crawlers
User-agent: *
Allow: /

# Sitemap
Sitemap: %[1]s/sitemap.xml

# Host
Host: %[1]s
`, s.siteURL)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod"`
	ChangeFreq string  `xml:"changefreq"`
	Priority   float64 `xml:"priority"`
}

func (s *Server) sitemap(c *gin.Context) {
	set := urlSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{{
			Loc:        s.siteURL + "/",
			LastMod:    time.Now().UTC().Format(time.RFC3339),
			ChangeFreq: "weekly",
			Priority:   1.0,
		}},
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), out...))
}
