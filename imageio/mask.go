package imageio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/voxometry/voxometry/voxel"
)

// MaskFromVolume binarizes an ROI volume: voxels strictly above the
// threshold are included. Label maps and probability maps both reduce this
// way; the conventional threshold is 0.
func MaskFromVolume(vol *voxel.Volume, threshold float64) *voxel.Mask {
	mask := voxel.NewMask(vol.Dims)
	for i, v := range vol.Data {
		mask.Data[i] = v > threshold
	}
	return mask
}

// ResampleNearest regrids a moving volume onto the reference dimensions with
// nearest-neighbor lookup in index space, carrying the reference spacing.
// Full orientation handling is not attempted here; inputs are assumed to
// share axes with the reference.
func ResampleNearest(moving, reference *voxel.Volume) *voxel.Volume {
	if moving.Dims == reference.Dims {
		out := &voxel.Volume{Dims: moving.Dims, Spacing: reference.Spacing, Data: make([]float64, len(moving.Data))}
		copy(out.Data, moving.Data)
		return out
	}

	out := voxel.NewVolume(reference.Dims, reference.Spacing)
	for z := 0; z < reference.Dims[0]; z++ {
		sz := nearestIndex(z, reference.Dims[0], moving.Dims[0])
		for y := 0; y < reference.Dims[1]; y++ {
			sy := nearestIndex(y, reference.Dims[1], moving.Dims[1])
			for x := 0; x < reference.Dims[2]; x++ {
				sx := nearestIndex(x, reference.Dims[2], moving.Dims[2])
				out.Set(z, y, x, moving.At(sz, sy, sx))
			}
		}
	}
	return out
}

func nearestIndex(dst, dstDim, srcDim int) int {
	if dstDim == srcDim {
		return dst
	}
	src := (dst*srcDim + srcDim/2) / dstDim
	if src >= srcDim {
		src = srcDim - 1
	}
	return src
}

// LoadTemporalSeries loads a dynamic acquisition stored as one DICOM series
// directory per time point (subdirectories in lexical order) and stacks them
// into a 4D series with the temporal axis first.
func LoadTemporalSeries(dir string) (*voxel.Series, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading temporal directory: %w", err)
	}

	var subdirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			subdirs = append(subdirs, filepath.Join(dir, entry.Name()))
		}
	}
	if len(subdirs) == 0 {
		return nil, fmt.Errorf("no time-point directories in %s", dir)
	}
	sort.Strings(subdirs)

	var dims [3]int
	var spacing voxel.Spacing
	var data []float64
	for t, sub := range subdirs {
		vol, err := LoadSeries(sub)
		if err != nil {
			return nil, fmt.Errorf("time point %d (%s): %w", t, sub, err)
		}
		if t == 0 {
			dims = vol.Dims
			spacing = vol.Spacing
			data = make([]float64, 0, len(subdirs)*len(vol.Data))
		} else if vol.Dims != dims {
			return nil, fmt.Errorf("time point %d dims %v differ from %v", t, vol.Dims, dims)
		}
		data = append(data, vol.Data...)
	}

	return voxel.NewSeries([4]int{len(subdirs), dims[0], dims[1], dims[2]}, 0, spacing, data)
}
