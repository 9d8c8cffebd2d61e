package adapter

import "context"

// ImageStore persists uploaded receipt images.
type ImageStore interface {
	// Save stores the image and returns the public URL path it is served under.
	Save(ctx context.Context, data []byte, mediaType string) (string, error)

	// Delete removes a stored image by its URL path. Missing files are not an error.
	Delete(ctx context.Context, url string) error
}
