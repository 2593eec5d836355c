package dataset

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/ioutil"
	"os"
	"path/filepath"

	"go-ml.dev/pkg/zorros"
	"go-ml.dev/pkg/zorros/zlog"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"
)

// Categories are the two class subdirectories of a dataset root.
// The negative class is scanned first, so all label-0 samples
// precede label-1 samples in the loaded dataset.
var Categories = [2]string{"no", "yes"}

/*
Load scans the two class subdirectories of root and decodes every file
into a Sample. Unreadable or undecodable files are skipped with a
diagnostic, loading never aborts on a single bad file. Within a class
samples keep the filesystem listing order.
*/
func Load(root string) (Dataset, error) {
	return load(root, 1)
}

/*
LoadParallel is Load with up to workers concurrent decoders.
Output ordering and per-file error isolation are the same as Load.
*/
func LoadParallel(root string, workers int) (Dataset, error) {
	if workers < 1 {
		workers = 1
	}
	return load(root, workers)
}

func load(root string, workers int) (ds Dataset, err error) {
	for label, cat := range Categories {
		dir := filepath.Join(root, cat)
		fis, e := ioutil.ReadDir(dir)
		if e != nil {
			return nil, zorros.Wrapf(e, "failed to list category `%v`: %v", dir, e.Error())
		}
		files := []string{}
		for _, fi := range fis {
			if fi.IsDir() {
				continue
			}
			files = append(files, filepath.Join(dir, fi.Name()))
		}
		pixels := make([][]uint8, len(files))
		fails := make([]error, len(files))
		if workers > 1 {
			decodeAll(files, pixels, fails, workers)
		} else {
			for i, f := range files {
				pixels[i], fails[i] = decodeGray(f)
			}
		}
		for i := range files {
			if fails[i] != nil {
				zlog.Warningf("skipping %v: %v", files[i], fails[i].Error())
				continue
			}
			ds = append(ds, Sample{Pixels: pixels[i], Label: label})
		}
	}
	return
}

// decodeAll fills pixels/fails index for index, fanning files out to a
// fixed pool so the result keeps the listing order of files.
func decodeAll(files []string, pixels [][]uint8, fails []error, workers int) {
	g := errgroup.Group{}
	jobs := make(chan int)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := range jobs {
				pixels[i], fails[i] = decodeGray(files[i])
			}
			return nil
		})
	}
	for i := range files {
		jobs <- i
	}
	close(jobs)
	_ = g.Wait()
}

// decodeGray decodes one image file into a flat row-major vector of
// Width x Height grayscale intensities.
func decodeGray(path string) ([]uint8, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, xerrors.Errorf("decode %s: %w", path, err)
	}
	dst := image.NewGray(image.Rect(0, 0, Width, Height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	if dst.Stride == Width {
		return dst.Pix, nil
	}
	p := make([]uint8, Features)
	for y := 0; y < Height; y++ {
		copy(p[y*Width:(y+1)*Width], dst.Pix[y*dst.Stride:])
	}
	return p, nil
}
