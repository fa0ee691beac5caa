package service

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ivlev/quadview/internal/metrics"
	"github.com/ivlev/quadview/internal/quadtree"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 10), uint8(y * 10), 0, 255})
		}
	}
	return img
}

func serviceTree() *quadtree.Node {
	root := quadtree.NewRoot("rgb(0,0,0)")
	root.Subdivide([4]string{"rgb(10,20,30)", "rgb(1,1,1)", "rgb(2,2,2)", "rgb(3,3,3)"})
	return root
}

func TestCompress(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != CompressPath || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		compressed, _ := EncodeDataURL(testImage(8, 4))
		json.NewEncoder(w).Encode(Response{
			CompressedImage: compressed,
			QuadTree:        serviceTree(),
			Stats: metrics.Stats{
				OriginalSize:     96,
				CompressedSize:   4,
				ProcessingTime:   0.01,
				LeafCount:        4,
				CompressionRatio: 95.8,
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", 5*time.Second)
	res, err := c.Compress(context.Background(), testImage(8, 4), 25)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	if got.Threshold != 25 {
		t.Errorf("threshold sent = %d", got.Threshold)
	}
	if !strings.HasPrefix(got.ImageData, "data:image/png;base64,") {
		t.Errorf("imageData prefix = %.30q", got.ImageData)
	}
	if res.Stats.LeafCount != 4 || res.Stats.CompressionRatio != 95.8 {
		t.Errorf("stats not passed through: %+v", res.Stats)
	}
	if b := res.Compressed.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Errorf("compressed bounds = %v", b)
	}
	if res.Tree.Child(quadtree.TopLeft).Color != "rgb(10,20,30)" {
		t.Errorf("tree not decoded: %+v", res.Tree.Child(quadtree.TopLeft))
	}
}

func TestCompressServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"No image provided"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Compress(context.Background(), testImage(2, 2), DefaultThreshold)
	if err == nil || !strings.Contains(err.Error(), "No image provided") || !strings.Contains(err.Error(), "400") {
		t.Errorf("err = %v", err)
	}
}

func TestCompressRejectsMalformedTree(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tree := serviceTree()
		tree.Children[quadtree.BottomRight] = nil
		compressed, _ := EncodeDataURL(testImage(2, 2))
		json.NewEncoder(w).Encode(Response{CompressedImage: compressed, QuadTree: tree})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Compress(context.Background(), testImage(2, 2), DefaultThreshold)
	if !errors.Is(err, ErrInvalidTree) || !errors.Is(err, quadtree.ErrMalformed) {
		t.Errorf("err = %v, want ErrInvalidTree wrapping ErrMalformed", err)
	}
}

func TestCompressCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewClient(srv.URL, time.Second).Compress(ctx, testImage(2, 2), DefaultThreshold); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestCheckTreeColors(t *testing.T) {
	tree := serviceTree()
	tree.Child(quadtree.TopRight).Color = "bogus"
	if err := CheckTree(tree); !errors.Is(err, ErrInvalidTree) {
		t.Errorf("CheckTree = %v", err)
	}
	if err := CheckTree(serviceTree()); err != nil {
		t.Errorf("CheckTree(valid) = %v", err)
	}
}

func TestDataURL(t *testing.T) {
	src := testImage(3, 5)
	s, err := EncodeDataURL(src)
	if err != nil {
		t.Fatal(err)
	}
	img, err := DecodeDataURL(s)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != src.Bounds() {
		t.Errorf("bounds %v, want %v", img.Bounds(), src.Bounds())
	}

	bare := strings.TrimPrefix(s, "data:image/png;base64,")
	if _, err := DecodeDataURL(bare); err != nil {
		t.Errorf("bare payload: %v", err)
	}
	if _, err := DecodeDataURL("data:image/png,abc"); !errors.Is(err, ErrDataURL) {
		t.Errorf("non-base64 data URL: %v", err)
	}
}
