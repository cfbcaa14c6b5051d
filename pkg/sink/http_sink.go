package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/bft-labs/houlog/pkg/encode"
	"github.com/bft-labs/houlog/pkg/log"
)

const recordingEndpoint = "/v1/session/recording"

// HTTPSink pushes recordings to a live-session bridge with a multipart POST.
// The form carries the document in field "document" and the geometry payload
// as file "geometry".
type HTTPSink struct {
	baseURL string
	client  HTTPClient
	logger  log.Logger
}

// NewHTTPSink creates a sink for the bridge at baseURL.
func NewHTTPSink(baseURL string, client HTTPClient, logger log.Logger) *HTTPSink {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	return &HTTPSink{
		baseURL: baseURL,
		client:  client,
		logger:  logger,
	}
}

// URL returns the endpoint recordings are posted to.
func (s *HTTPSink) URL() string {
	return s.baseURL + recordingEndpoint
}

// Send posts the recording to the bridge.
func (s *HTTPSink) Send(ctx context.Context, doc encode.Document, geo Geometry, meta Metadata) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	docPart, err := writer.CreateFormField("document")
	if err != nil {
		return fmt.Errorf("create document field: %w", err)
	}
	if _, err := docPart.Write(doc); err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	geoJSON, err := json.Marshal(geo)
	if err != nil {
		return fmt.Errorf("marshal geometry: %w", err)
	}
	geoPart, err := writer.CreateFormFile("geometry", "geometry.json")
	if err != nil {
		return fmt.Errorf("create geometry field: %w", err)
	}
	if _, err := geoPart.Write(geoJSON); err != nil {
		return fmt.Errorf("write geometry: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize multipart: %w", err)
	}

	size := body.Len()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL(), &body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Houlog-Session-Id", meta.SessionID)
	req.Header.Set("X-Houlog-Node-Path", meta.NodePath)
	req.Header.Set("X-Houlog-Node-Name", meta.NodeName)
	req.Header.Set("X-Houlog-Format-Version", encode.FormatVersion)
	if meta.HostInstall != "" {
		req.Header.Set("X-Houlog-Host-Install", meta.HostInstall)
	}
	req.Header.Set("X-Agent-Hostname", meta.Hostname)
	req.Header.Set("X-Agent-OSArch", meta.OSArch)

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("send request: %w", err)
		}
		return fmt.Errorf("%w: %v", ErrSessionUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusBadGateway {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: bridge returned %d: %s", ErrSessionUnavailable, resp.StatusCode, string(respBody))
	}
	if resp.StatusCode/100 != 2 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("bridge returned %d: %s", resp.StatusCode, string(respBody))
	}

	s.logger.Debug("recording pushed",
		log.String("url", s.URL()),
		log.Bytes(size),
		log.Int("points", geo.PointCount),
	)
	return nil
}
