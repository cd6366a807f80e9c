package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Innertube ANDROID client identity. The /player endpoint answers this
// client with caption tracks that can be fetched server-side.
const (
	playerPath       = "/youtubei/v1/player"
	androidVersion   = "20.10.38"
	androidUserAgent = "com.google.android.youtube/" + androidVersion + " (Linux; U; Android 11) gzip"

	maxTimedTextBytes = 2 << 20
)

type playerRequest struct {
	VideoID        string        `json:"videoId"`
	Context        playerContext `json:"context"`
	RacyCheckOk    bool          `json:"racyCheckOk"`
	ContentCheckOk bool          `json:"contentCheckOk"`
}

type playerContext struct {
	Client playerClient `json:"client"`
}

type playerClient struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	AndroidSdkVersion int    `json:"androidSdkVersion,omitempty"`
	Hl                string `json:"hl,omitempty"`
	Gl                string `json:"gl,omitempty"`
}

type playerResponse struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

type timedText struct {
	Lines []timedLine `xml:"text"`
}

type timedLine struct {
	Start    string `xml:"start,attr"`
	Duration string `xml:"dur,attr"`
	Text     string `xml:",chardata"`
}

// YouTubeClient fetches transcripts from YouTube captions.
type YouTubeClient struct {
	baseURL       string
	languages     []string
	httpClient    *http.Client
	logger        *logrus.Logger
	maxTrackBytes int64
}

// YouTubeOption customizes a YouTubeClient.
type YouTubeOption func(*YouTubeClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) YouTubeOption {
	return func(c *YouTubeClient) {
		c.httpClient = client
	}
}

// WithLanguages sets the preferred caption languages, most preferred first.
func WithLanguages(langs ...string) YouTubeOption {
	return func(c *YouTubeClient) {
		if len(langs) > 0 {
			c.languages = langs
		}
	}
}

// NewYouTubeClient creates a client talking to baseURL (normally
// https://www.youtube.com).
func NewYouTubeClient(baseURL string, timeout time.Duration, logger *logrus.Logger, opts ...YouTubeOption) *YouTubeClient {
	c := &YouTubeClient{
		baseURL:       strings.TrimRight(baseURL, "/"),
		languages:     []string{"en"},
		httpClient:    &http.Client{Timeout: timeout},
		logger:        logger,
		maxTrackBytes: maxTimedTextBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch implements Fetcher.
func (c *YouTubeClient) Fetch(ctx context.Context, videoID string) (*Transcript, error) {
	start := time.Now()
	log := c.logger.WithField("video_id", videoID)

	track, err := c.captionTrack(ctx, videoID)
	if err != nil {
		log.WithError(err).Warn("caption lookup failed")
		return nil, err
	}

	fragments, err := c.timedText(ctx, track.BaseURL)
	if err != nil {
		log.WithError(err).Warn("timedtext fetch failed")
		return nil, err
	}
	if len(fragments) == 0 {
		return nil, fmt.Errorf("%w: empty caption track for %s", ErrUnavailable, videoID)
	}

	log.WithFields(logrus.Fields{
		"language":    track.LanguageCode,
		"fragments":   len(fragments),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("transcript fetched")

	return New(videoID, track.LanguageCode, fragments), nil
}

func (c *YouTubeClient) captionTrack(ctx context.Context, videoID string) (captionTrack, error) {
	body, err := json.Marshal(playerRequest{
		VideoID: videoID,
		Context: playerContext{
			Client: playerClient{
				ClientName:        "ANDROID",
				ClientVersion:     androidVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return captionTrack{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+playerPath+"?prettyPrint=false", bytes.NewReader(body))
	if err != nil {
		return captionTrack{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", androidUserAgent)
	req.Header.Set("X-Youtube-Client-Name", "3")
	req.Header.Set("X-Youtube-Client-Version", androidVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return captionTrack{}, fmt.Errorf("youtube player: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return captionTrack{}, fmt.Errorf("youtube player: unexpected status %d", resp.StatusCode)
	}

	var player playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&player); err != nil {
		return captionTrack{}, fmt.Errorf("decode player response: %w", err)
	}

	if ps := player.PlayabilityStatus; ps != nil && ps.Status != "" && ps.Status != "OK" {
		reason := ps.Reason
		if reason == "" {
			reason = ps.Status
		}
		return captionTrack{}, fmt.Errorf("%w: %s", ErrUnavailable, reason)
	}
	if player.Captions == nil {
		return captionTrack{}, fmt.Errorf("%w: no captions for %s", ErrUnavailable, videoID)
	}

	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return captionTrack{}, fmt.Errorf("%w: no caption tracks for %s", ErrUnavailable, videoID)
	}

	track, ok := pickTrack(tracks, c.languages)
	if !ok {
		return captionTrack{}, fmt.Errorf("%w: every caption track requires a browser token", ErrUnavailable)
	}
	return track, nil
}

func (c *YouTubeClient) timedText(ctx context.Context, trackURL string) ([]Fragment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", androidUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch timedtext: unexpected status %d", resp.StatusCode)
	}

	// One extra byte tells a track at the limit from a larger one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxTrackBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read timedtext: %w", err)
	}
	if int64(len(body)) > c.maxTrackBytes {
		return nil, fmt.Errorf("read timedtext: track exceeds %d bytes", c.maxTrackBytes)
	}

	return parseTimedText(body)
}

// parseTimedText converts timedtext XML into fragments, keeping service order.
func parseTimedText(body []byte) ([]Fragment, error) {
	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}

	fragments := make([]Fragment, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		// Caption text arrives double-escaped (&amp;#39;), so one more pass
		// is needed after the XML decoder.
		text := strings.TrimSpace(html.UnescapeString(line.Text))
		if text == "" {
			continue
		}
		start, _ := strconv.ParseFloat(line.Start, 64)
		dur, _ := strconv.ParseFloat(line.Duration, 64)
		fragments = append(fragments, Fragment{
			Text:     text,
			Start:    start,
			Duration: dur,
		})
	}
	return fragments, nil
}

// needsPoToken reports whether a caption track URL only works in a browser.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickTrack prefers manual tracks in the requested languages, then
// auto-generated ones, then any English track, then the first usable one.
func pickTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return captionTrack{}, false
	}

	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	for _, t := range usable {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return usable[0], true
}
