package media

import (
	"context"
	"io"
)

// Uploader lưu ảnh lên kho media và trả về URL công khai
type Uploader interface {
	UploadImage(ctx context.Context, src io.Reader, folder, publicID string) (string, error)
}
