package source

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/xfmoulet/qoi"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Extensions lists the image files NewImageSource picks up from a directory.
var Extensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tif", ".tiff", ".qoi"}

// IsImage reports whether name has one of Extensions.
func IsImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

type ImageSource struct {
	paths []string
	names []string
}

// NewImageSource accepts a single image file or a directory; directory
// entries are sorted by name.
func NewImageSource(path string) (*ImageSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var paths []string
	if fi.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() && IsImage(entry.Name()) {
				paths = append(paths, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(paths)
	} else {
		paths = []string{path}
	}

	return &ImageSource{paths: paths, names: uniqueNames(paths)}, nil
}

// uniqueNames derives an output name per path. A stem already taken,
// compared case-insensitively, gets a _2, _3... suffix in path order.
func uniqueNames(paths []string) []string {
	names := make([]string, len(paths))
	taken := make(map[string]bool, len(paths))
	for i, p := range paths {
		stem := baseName(p)
		name := stem
		for n := 2; taken[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s_%d", stem, n)
		}
		taken[strings.ToLower(name)] = true
		names[i] = name
	}
	return names
}

func (s *ImageSource) Count() int {
	return len(s.paths)
}

func (s *ImageSource) Name(index int) string {
	return s.names[index]
}

func (s *ImageSource) Size(index int) (int64, error) {
	fi, err := os.Stat(s.paths[index])
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

func (s *ImageSource) Load(index int) (image.Image, error) {
	f, err := os.Open(s.paths[index])
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (s *ImageSource) Close() error {
	return nil
}
