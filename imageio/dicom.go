// Package imageio loads volumetric images into the voxel data model. It is
// a thin adapter over the DICOM parser; the measurement engines never touch
// files themselves.
package imageio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/voxometry/voxometry/logging"
	"github.com/voxometry/voxometry/voxel"
)

// slice is one decoded DICOM slice awaiting stacking.
type slice struct {
	instance int
	rows     int
	cols     int
	data     []float64
}

// LoadSeries reads every DICOM file in a directory, orders the slices by
// InstanceNumber and stacks them into a single volume in (z, y, x) order.
func LoadSeries(dir string) (*voxel.Volume, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading series directory: %w", err)
	}

	var slices []slice
	spacing := voxel.UnitSpacing
	spacingFound := false

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())
		if !strings.HasSuffix(name, ".dcm") && !strings.HasSuffix(name, ".dicom") {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		ds, err := dicom.ParseFile(path, nil)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}

		fileSlices, err := extractSlices(&ds)
		if err != nil {
			return nil, fmt.Errorf("extracting pixels from %s: %w", path, err)
		}
		slices = append(slices, fileSlices...)

		if !spacingFound {
			if sp, ok := readSpacing(&ds); ok {
				spacing = sp
				spacingFound = true
			}
		}
	}

	if len(slices) == 0 {
		return nil, fmt.Errorf("no DICOM slices found in %s", dir)
	}
	if !spacingFound {
		logging.Warn("no spacing tags found, assuming 1mm isotropic", logging.Fields{"dir": dir})
	}

	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].instance < slices[j].instance
	})

	return stack(slices, spacing)
}

// LoadVolume reads a single (possibly multi-frame) DICOM file as a volume.
func LoadVolume(path string) (*voxel.Volume, error) {
	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	slices, err := extractSlices(&ds)
	if err != nil {
		return nil, fmt.Errorf("extracting pixels from %s: %w", path, err)
	}
	if len(slices) == 0 {
		return nil, fmt.Errorf("no image frames in %s", path)
	}

	spacing, ok := readSpacing(&ds)
	if !ok {
		spacing = voxel.UnitSpacing
		logging.Warn("no spacing tags found, assuming 1mm isotropic", logging.Fields{"path": path})
	}

	return stack(slices, spacing)
}

// extractSlices decodes the native frames of one dataset.
func extractSlices(ds *dicom.Dataset) ([]slice, error) {
	el, err := ds.FindElementByTag(tag.PixelData)
	if err != nil {
		return nil, fmt.Errorf("no pixel data: %w", err)
	}
	info := dicom.MustGetPixelDataInfo(el.Value)

	instance := 0
	if numEl, err := ds.FindElementByTag(tag.InstanceNumber); err == nil {
		values := dicom.MustGetStrings(numEl.Value)
		if len(values) > 0 {
			if n, err := strconv.Atoi(strings.TrimSpace(values[0])); err == nil {
				instance = n
			}
		}
	}

	slices := make([]slice, 0, len(info.Frames))
	for i := range info.Frames {
		native, err := info.Frames[i].GetNativeFrame()
		if err != nil {
			return nil, fmt.Errorf("frame %d is not native: %w", i, err)
		}
		data := make([]float64, len(native.Data))
		for p, samples := range native.Data {
			data[p] = float64(samples[0])
		}
		slices = append(slices, slice{
			// Frames within one file keep file order after the instance sort.
			instance: instance,
			rows:     native.Rows,
			cols:     native.Cols,
			data:     data,
		})
	}
	return slices, nil
}

// readSpacing assembles (z, y, x) spacing from SliceThickness and
// PixelSpacing (row, column).
func readSpacing(ds *dicom.Dataset) (voxel.Spacing, bool) {
	spacing := voxel.UnitSpacing
	found := false

	if el, err := ds.FindElementByTag(tag.SliceThickness); err == nil {
		if v, ok := firstFloat(dicom.MustGetStrings(el.Value)); ok {
			spacing[0] = v
			found = true
		}
	}
	if el, err := ds.FindElementByTag(tag.PixelSpacing); err == nil {
		values := dicom.MustGetStrings(el.Value)
		if len(values) >= 2 {
			if row, ok := firstFloat(values[:1]); ok {
				spacing[1] = row
				found = true
			}
			if col, ok := firstFloat(values[1:]); ok {
				spacing[2] = col
			}
		}
	}
	if err := spacing.Validate(); err != nil {
		return voxel.UnitSpacing, false
	}
	return spacing, found
}

func firstFloat(values []string) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(values[0]), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// stack assembles ordered slices into one volume, validating uniform slice
// dimensions.
func stack(slices []slice, spacing voxel.Spacing) (*voxel.Volume, error) {
	rows, cols := slices[0].rows, slices[0].cols
	dims := [3]int{len(slices), rows, cols}
	vol := voxel.NewVolume(dims, spacing)
	for z, s := range slices {
		if s.rows != rows || s.cols != cols {
			return nil, fmt.Errorf("slice %d is %dx%d, expected %dx%d", z, s.rows, s.cols, rows, cols)
		}
		copy(vol.Data[z*rows*cols:(z+1)*rows*cols], s.data)
	}
	return vol, nil
}
