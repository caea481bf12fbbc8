package services

import (
	"fmt"
	"strings"

	"github.com/desertthunder/fithub/internal/shared"
)

// Resolution is the output resolution of a generated video.
type Resolution string

const (
	Resolution720p  Resolution = "720p"
	Resolution1080p Resolution = "1080p"
)

// AspectRatio is the frame shape of a generated video.
type AspectRatio string

const (
	AspectLandscape AspectRatio = "16:9"
	AspectPortrait  AspectRatio = "9:16"
)

// ParseResolution accepts 720p or 1080p.
func ParseResolution(s string) (Resolution, error) {
	switch r := Resolution(strings.ToLower(strings.TrimSpace(s))); r {
	case Resolution720p, Resolution1080p:
		return r, nil
	default:
		return "", fmt.Errorf("%w: resolution must be 720p or 1080p, got %q", shared.ErrInvalidArgument, s)
	}
}

// ParseAspectRatio accepts 16:9 or 9:16.
func ParseAspectRatio(s string) (AspectRatio, error) {
	switch a := AspectRatio(strings.TrimSpace(s)); a {
	case AspectLandscape, AspectPortrait:
		return a, nil
	default:
		return "", fmt.Errorf("%w: aspect ratio must be 16:9 or 9:16, got %q", shared.ErrInvalidArgument, s)
	}
}

// Toggle returns the other resolution.
func (r Resolution) Toggle() Resolution {
	if r == Resolution1080p {
		return Resolution720p
	}
	return Resolution1080p
}

// Toggle returns the other aspect ratio.
func (a AspectRatio) Toggle() AspectRatio {
	if a == AspectPortrait {
		return AspectLandscape
	}
	return AspectPortrait
}

// VideoRequest describes one video to generate.
type VideoRequest struct {
	Prompt      string
	Resolution  Resolution
	AspectRatio AspectRatio
}

// Validate rejects empty prompts and values outside the fixed enums.
func (r VideoRequest) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return fmt.Errorf("%w: prompt", shared.ErrMissingArgument)
	}
	if _, err := ParseResolution(string(r.Resolution)); err != nil {
		return err
	}
	if _, err := ParseAspectRatio(string(r.AspectRatio)); err != nil {
		return err
	}
	return nil
}

// OperationError is the status a failed operation carries.
type OperationError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("operation failed (%d): %s", e.Code, e.Message)
}

// VideoOperation is a long-running video job.
type VideoOperation struct {
	Name     string          `json:"name"`
	Done     bool            `json:"done"`
	Error    *OperationError `json:"error,omitempty"`
	Response *VideoResponse  `json:"response,omitempty"`
}

// VideoResponse is the payload of a completed operation.
type VideoResponse struct {
	GenerateVideoResponse GenerateVideoResponse `json:"generateVideoResponse"`
}

// GenerateVideoResponse lists the generated samples.
type GenerateVideoResponse struct {
	GeneratedSamples []GeneratedSample `json:"generatedSamples"`
}

// GeneratedSample is one generated video.
type GeneratedSample struct {
	Video GeneratedVideo `json:"video"`
}

// GeneratedVideo locates a generated video file.
type GeneratedVideo struct {
	URI string `json:"uri"`
}

// AssetURI returns the first generated video's location, or "" when there is none.
func (o *VideoOperation) AssetURI() string {
	if o == nil || o.Response == nil {
		return ""
	}
	samples := o.Response.GenerateVideoResponse.GeneratedSamples
	if len(samples) == 0 {
		return ""
	}
	return samples[0].Video.URI
}
