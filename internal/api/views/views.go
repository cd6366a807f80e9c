// Package views holds the server-rendered HTML page.
package views

import (
	"bytes"
	"embed"
	"encoding/base64"
	"html/template"

	"github.com/summarizetube/summarizetube-backend/internal/conversation"
	"github.com/summarizetube/summarizetube-backend/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var page = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Page is the data rendered by the index template.
type Page struct {
	Link      string
	Error     string
	Summary   *models.VideoSummary
	History   []conversation.Turn
	InputSlot int
}

// WordCloudURI returns the word cloud as a data URI for an img tag.
func (p Page) WordCloudURI() template.URL {
	if p.Summary == nil || len(p.Summary.WordCloudPNG) == 0 {
		return ""
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(p.Summary.WordCloudPNG))
}

// Render executes the index template.
func Render(p Page) ([]byte, error) {
	var buf bytes.Buffer
	if err := page.Execute(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
