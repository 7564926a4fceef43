package service

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sudip2708/poustovnik-english/internal/models"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// ProfilePictureSize is the bounding box profile pictures are resized into.
	ProfilePictureSize = 125
	// MaxPictureUploadBytes caps the accepted upload size.
	MaxPictureUploadBytes = 5 * 1024 * 1024

	pictureJPEGQuality = 82
)

// PictureStore saves uploaded profile pictures on disk, resized to fit the
// profile picture bounding box. File names are random so uploads never
// collide and never leak the original name.
type PictureStore struct {
	dir string
}

// NewPictureStore returns a store rooted at dir, creating it if needed.
func NewPictureStore(dir string) (*PictureStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create picture dir: %w", err)
	}
	return &PictureStore{dir: dir}, nil
}

// Dir returns the directory pictures are stored in.
func (s *PictureStore) Dir() string {
	return s.dir
}

// Save validates, resizes and persists an uploaded picture. It returns the
// generated file name to store on the user row.
func (s *PictureStore) Save(content []byte, originalName string) (string, error) {
	if len(content) == 0 {
		return "", models.NewValidationError("No file uploaded")
	}
	if len(content) > MaxPictureUploadBytes {
		return "", models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", MaxPictureUploadBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(content)
	if !isAllowedPictureMIME(detectedType) {
		return "", models.NewValidationError("Invalid image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return "", models.NewValidationError("Invalid image file")
	}

	resized := resizeToFit(decoded, ProfilePictureSize, ProfilePictureSize)

	name, err := randomPictureName(pictureExt(originalName, format))
	if err != nil {
		return "", models.NewInternalError(err)
	}

	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	defer f.Close()

	if err := encodePicture(f, resized, filepath.Ext(name)); err != nil {
		os.Remove(path)
		return "", models.NewInternalError(err)
	}
	return name, nil
}

// Remove deletes a previously saved picture. The bundled placeholder is
// never removed. Failures are logged and swallowed so a stale file on disk
// cannot fail an account update.
func (s *PictureStore) Remove(name string) {
	if name == "" || name == models.DefaultProfilePicture {
		return
	}
	// Reject anything that could escape the picture directory.
	if name != filepath.Base(name) {
		return
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove old profile picture", "file", name, "error", err)
	}
}

func isAllowedPictureMIME(mimeType string) bool {
	switch mimeType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

// randomPictureName builds an unguessable file name from 8 random bytes.
func randomPictureName(ext string) (string, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf[:]) + ext, nil
}

// pictureExt keeps the uploader's extension when it matches a supported
// format, falling back to the decoded format otherwise. WebP and GIF inputs
// re-encode to PNG since output is always a static image.
func pictureExt(originalName, format string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	switch ext {
	case ".jpg", ".jpeg", ".png":
		return ext
	}
	switch format {
	case "jpeg":
		return ".jpg"
	default:
		return ".png"
	}
}

func encodePicture(f *os.File, img image.Image, ext string) error {
	switch ext {
	case ".jpg", ".jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: pictureJPEGQuality})
	case ".gif":
		return gif.Encode(f, img, nil)
	default:
		return png.Encode(f, img)
	}
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}
