package helper

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	uploadDir    = "uploads"
	maxImageSide = 1024
	webpQuality  = 80
)

var unsafeFilenameRe = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

// SaveImageWebp decodes an uploaded logo/photo, fits it inside
// maxImageSide×maxImageSide, re-encodes as webp and stores it under
// uploads/<folder>/. Returns the public URL path.
func SaveImageWebp(folder string, fileHeader *multipart.FileHeader) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	img, _, err := image.Decode(src)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxImageSide || bounds.Dy() > maxImageSide {
		img = imaging.Fit(img, maxImageSide, maxImageSide, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: webpQuality}); err != nil {
		return "", fmt.Errorf("encode webp: %w", err)
	}

	name := generateUniqueFilename(fileHeader.Filename)
	dir := filepath.Join(uploadDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	dst := filepath.Join(dir, name)
	if err := os.WriteFile(dst, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}

	return "/" + filepath.ToSlash(dst), nil
}

// RemoveUpload deletes a previously stored upload by its URL path. Missing
// files are not an error.
func RemoveUpload(urlPath string) error {
	if urlPath == "" {
		return nil
	}
	p := filepath.Clean(urlPath)
	p = filepath.FromSlash(p)
	if len(p) > 0 && p[0] == filepath.Separator {
		p = p[1:]
	}
	if !isUnderUploadDir(p) {
		return fmt.Errorf("refusing to delete outside %s: %s", uploadDir, urlPath)
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func isUnderUploadDir(p string) bool {
	rel, err := filepath.Rel(uploadDir, p)
	return err == nil && rel != ".." && !filepath.IsAbs(rel) && rel != "." &&
		!(len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator))
}

func generateUniqueFilename(original string) string {
	safe := unsafeFilenameRe.ReplaceAllString(original, "_")
	ext := filepath.Ext(safe)
	base := safe[:len(safe)-len(ext)]
	return fmt.Sprintf("%s-%s-%s.webp", time.Now().Format("20060102"), uuid.New().String(), base)
}
