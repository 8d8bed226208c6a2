package iview

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/barasher/go-exiftool"
	"github.com/spf13/afero"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeProbe reads dimensions from the image header via the registered
// stdlib and x/image decoders. It never decodes pixel data.
type DecodeProbe struct {
	fs afero.Fs
}

// NewDecodeProbe creates the default metadata probe over fs.
func NewDecodeProbe(fs afero.Fs) *DecodeProbe {
	return &DecodeProbe{fs: fs}
}

func (p *DecodeProbe) Dimensions(path string) (int, int, error) {
	f, err := p.fs.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: open %s: %v", ErrProbeFailed, path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: decode %s: %v", ErrProbeFailed, path, err)
	}
	return cfg.Width, cfg.Height, nil
}

// ExifProbe reads dimensions and camera metadata through an exiftool
// subprocess. It is heavier than DecodeProbe but understands far more
// formats and fields. The caller owns Close.
type ExifProbe struct {
	et *exiftool.Exiftool
}

// CameraInfo carries the optional camera fields the info panel can show.
type CameraInfo struct {
	Make      string
	Model     string
	ISO       int64
	Aperture  float64
	Speed     string
	FocalL    string
	Width     int64
	Height    int64
	Available bool
}

// NewExifProbe starts an exiftool instance. Fails if the binary is not
// installed; hosts should fall back to DecodeProbe.
func NewExifProbe() (*ExifProbe, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("start exiftool: %w", err)
	}
	return &ExifProbe{et: et}, nil
}

// Close shuts the exiftool subprocess down.
func (p *ExifProbe) Close() error {
	return p.et.Close()
}

func (p *ExifProbe) Dimensions(path string) (int, int, error) {
	fis := p.et.ExtractMetadata(path)
	fi := fis[0]
	if fi.Err != nil {
		return 0, 0, fmt.Errorf("%w: extract %s: %v", ErrProbeFailed, path, fi.Err)
	}

	w, err := fi.GetInt("ImageWidth")
	if err != nil {
		return 0, 0, fmt.Errorf("%w: get ImageWidth for %s: %v", ErrProbeFailed, path, err)
	}
	h, err := fi.GetInt("ImageHeight")
	if err != nil {
		return 0, 0, fmt.Errorf("%w: get ImageHeight for %s: %v", ErrProbeFailed, path, err)
	}
	return int(w), int(h), nil
}

// Describe extracts the camera fields for path. Fields exiftool cannot read
// stay at their zero values; only a failed extraction is an error.
func (p *ExifProbe) Describe(path string) (CameraInfo, error) {
	fis := p.et.ExtractMetadata(path)
	fi := fis[0]
	if fi.Err != nil {
		return CameraInfo{}, fmt.Errorf("%w: extract %s: %v", ErrProbeFailed, path, fi.Err)
	}

	info := CameraInfo{Available: true}
	var err error

	if info.Make, err = fi.GetString("Make"); err != nil {
		logger.Debugf("no make for %s: %v", path, err)
	}
	if info.Model, err = fi.GetString("Model"); err != nil {
		logger.Debugf("no model for %s: %v", path, err)
	}
	if info.ISO, err = fi.GetInt("ISO"); err != nil {
		logger.Debugf("no ISO for %s: %v", path, err)
	}
	if info.Aperture, err = fi.GetFloat("ApertureValue"); err != nil {
		logger.Debugf("no aperture for %s: %v", path, err)
	}
	if info.Speed, err = fi.GetString("ShutterSpeed"); err != nil {
		logger.Debugf("no shutter speed for %s: %v", path, err)
	}
	if info.FocalL, err = fi.GetString("FocalLength"); err != nil {
		logger.Debugf("no focal length for %s: %v", path, err)
	}
	info.Width, _ = fi.GetInt("ImageWidth")
	info.Height, _ = fi.GetInt("ImageHeight")

	return info, nil
}
