// Package sitemap renders the public sitemap, stores it in blob storage, and
// serves the latest artifact.
package sitemap

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/JaimeStill/slopjournal/internal/documents"
)

// Artifact metadata.
const (
	Name       = "latest"
	StorageKey = "sitemaps/latest.xml"
	Namespace  = "http://www.sitemaps.org/schemas/sitemap/0.9"
)

// StaticRoutes are the site pages listed ahead of papers.
var StaticRoutes = []string{
	"/",
	"/submit",
	"/papers",
	"/about",
	"/faq",
	"/mission",
	"/content-policy",
	"/licensing",
	"/privacy",
	"/sustainability",
	"/editor-messages",
}

// Artifact describes a stored sitemap.
type Artifact struct {
	Name          string    `json:"name"`
	StorageKey    string    `json:"storage_key"`
	GeneratedAt   time.Time `json:"generated_at"`
	Hash          string    `json:"hash"`
	EntryCount    int       `json:"entry_count"`
	ContentLength int64     `json:"content_length"`
}

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []entry  `xml:"url"`
}

type entry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Build renders the sitemap for siteURL listing the static routes and one
// entry per paper. The caller supplies only accepted, non-blocked papers.
func Build(siteURL string, papers []documents.Summary) ([]byte, int, error) {
	base := strings.TrimRight(siteURL, "/")

	set := urlset{
		Xmlns: Namespace,
		URLs:  make([]entry, 0, len(StaticRoutes)+len(papers)),
	}
	for _, route := range StaticRoutes {
		set.URLs = append(set.URLs, entry{Loc: base + route})
	}
	for _, p := range papers {
		set.URLs = append(set.URLs, entry{
			Loc:     base + "/papers/" + p.ID.String(),
			LastMod: p.SubmittedAt.UTC().Format(time.DateOnly),
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, 0, fmt.Errorf("encode sitemap: %w", err)
	}
	buf.WriteByte('\n')

	return buf.Bytes(), len(set.URLs), nil
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
