package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"pump-sdk-go/pkg/pump"
)

// TokenMetadata is the off-chain metadata uploaded before a token launch.
// The returned URI goes into the create instruction.
type TokenMetadata struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ShowName    bool   `json:"showName"`
	CreatedOn   string `json:"createdOn"`
	Twitter     string `json:"twitter"`
	Telegram    string `json:"telegram"`
	Website     string `json:"website"`
}

// uploadResponse is the endpoint's reply shape
type uploadResponse struct {
	Metadata    TokenMetadata `json:"metadata"`
	MetadataURI string        `json:"metadataUri"`
}

// Uploader posts token metadata and the token image to the pump.fun IPFS
// endpoint and returns the content-addressed metadata URI
type Uploader struct {
	endpoint string
	client   *http.Client
	logger   *logrus.Logger
}

// Config contains uploader configuration
type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// NewUploader creates a metadata uploader
func NewUploader(cfg Config, logger *logrus.Logger) *Uploader {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &Uploader{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}
}

// Upload sends the metadata and image as a multipart form and returns the
// metadata URI. Any failure is an external service error carrying the
// status and body so the caller can decide on retry.
func (u *Uploader) Upload(ctx context.Context, meta TokenMetadata, image []byte, imageName string) (string, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	fields := map[string]string{
		"name":        meta.Name,
		"symbol":      meta.Symbol,
		"description": meta.Description,
		"twitter":     meta.Twitter,
		"telegram":    meta.Telegram,
		"website":     meta.Website,
		"showName":    fmt.Sprintf("%t", meta.ShowName),
	}
	for key, value := range fields {
		if err := form.WriteField(key, value); err != nil {
			return "", fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}

	if len(image) > 0 {
		part, err := form.CreateFormFile("file", imageName)
		if err != nil {
			return "", fmt.Errorf("failed to create image part: %w", err)
		}
		if _, err := part.Write(image); err != nil {
			return "", fmt.Errorf("failed to write image: %w", err)
		}
	}

	if err := form.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", &pump.ExternalServiceError{Service: "metadata upload", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &pump.ExternalServiceError{Service: "metadata upload", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &pump.ExternalServiceError{
			Service:    "metadata upload",
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	var parsed uploadResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &pump.ExternalServiceError{Service: "metadata upload", Err: fmt.Errorf("invalid response: %w", err)}
	}
	if parsed.MetadataURI == "" {
		return "", &pump.ExternalServiceError{Service: "metadata upload", Err: fmt.Errorf("response missing metadataUri")}
	}

	u.logger.WithFields(logrus.Fields{
		"symbol": meta.Symbol,
		"uri":    parsed.MetadataURI,
	}).Info("Metadata uploaded")

	return parsed.MetadataURI, nil
}
