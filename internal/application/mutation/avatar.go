package mutation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/invoicedash/backend/internal/domain/partner"
	"go.uber.org/zap"
)

// AvatarField is the form field carrying an uploaded customer image
const AvatarField = "image"

// MaxAvatarBytes bounds uploaded customer images
const MaxAvatarBytes = 2 << 20

// InvalidAvatarMessage is shown next to the image field when an upload is rejected
const InvalidAvatarMessage = "Image must be a PNG, JPEG, WebP or GIF of at most 2MB."

// ErrInvalidAvatar marks an upload rejected before anything was stored
var ErrInvalidAvatar = errors.New("invalid avatar")

// ObjectStorage stores uploaded files
type ObjectStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	DeleteObject(ctx context.Context, storageKey string) error
	PublicURL(storageKey string) string
}

var avatarTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// CustomerAvatar uploads the image submitted with a new customer and points
// the customer at it. The upload is deleted again when the write fails.
// Updates never change the image.
func CustomerAvatar(storage ObjectStorage, logger *zap.Logger) AttachFunc[*partner.Customer] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, action Action, customer *partner.Customer, form Form) (RollbackFunc, error) {
		if action != ActionCreate || storage == nil {
			return nil, nil
		}
		fh, ok := form.File(AvatarField)
		if !ok {
			return nil, nil
		}
		if fh.Size > MaxAvatarBytes {
			return nil, fmt.Errorf("%w: %d bytes", ErrInvalidAvatar, fh.Size)
		}

		contentType := fh.Header.Get("Content-Type")
		ext, allowed := avatarTypes[contentType]
		if !allowed {
			return nil, fmt.Errorf("%w: unsupported type %q", ErrInvalidAvatar, contentType)
		}

		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open avatar: %w", err)
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, MaxAvatarBytes+1))
		if err != nil {
			return nil, fmt.Errorf("failed to read avatar: %w", err)
		}

		key := path.Join("customers", customer.ID.String()+strings.ToLower(ext))
		if err := storage.Upload(ctx, key, data, contentType); err != nil {
			return nil, fmt.Errorf("failed to upload avatar: %w", err)
		}
		customer.SetImage(storage.PublicURL(key))

		return func(ctx context.Context) {
			if err := storage.DeleteObject(ctx, key); err != nil {
				logger.Warn("Failed to remove orphaned avatar", zap.String("key", key), zap.Error(err))
			}
		}, nil
	}
}
