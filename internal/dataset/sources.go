package dataset

import (
	"path/filepath"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"hlsgraph/internal/metrics"
	"hlsgraph/internal/models"
	"hlsgraph/internal/sources/db"
	"hlsgraph/internal/sources/polybench"
	"hlsgraph/internal/sources/vast"
)

// LoaderFunc returns the design loader of an output configuration
type LoaderFunc func(id metrics.ConfigID) (models.DesignLoader, error)

var vastVersions = map[metrics.ConfigID]vast.Version{
	metrics.VAST18:       vast.V18,
	metrics.VAST20:       vast.V20,
	metrics.VAST21:       vast.V21,
	metrics.VASTCustom18: vast.V18,
	metrics.VASTCustom20: vast.V20,
	metrics.VASTCustom21: vast.V21,
}

// Loaders wires the standard input layout:
//
//	<inputs>/machsuite   DB4HLS sources, designs from the database
//	<inputs>/polybench   ML4ACCEL
//	<inputs>/powergear   POWERGEAR
//	<inputs>/vast        VAST, VAST_CUSTOM and GNNDSE
//
// conn may be nil when no DB4HLS kernels are generated.
func Loaders(inputs string, conn *gorm.DB) LoaderFunc {
	return func(id metrics.ConfigID) (models.DesignLoader, error) {
		vastBase := filepath.Join(inputs, "vast")
		switch id {
		case metrics.DB4HLS:
			if conn == nil {
				return nil, errors.New("DB4HLS designs need a database connection")
			}
			return db.NewLoader(conn, filepath.Join(inputs, "machsuite")), nil
		case metrics.ML4ACCEL:
			return polybench.NewLoader(filepath.Join(inputs, "polybench"), polybench.ML4ACCEL), nil
		case metrics.POWERGEAR:
			return polybench.NewLoader(filepath.Join(inputs, "powergear"), polybench.PowerGear), nil
		case metrics.VAST18, metrics.VAST20, metrics.VAST21:
			return vast.NewLoader(vastBase, vastVersions[id], vast.Standard), nil
		case metrics.VASTCustom18, metrics.VASTCustom20, metrics.VASTCustom21:
			return vast.NewLoader(vastBase, vastVersions[id], vast.Custom), nil
		case metrics.GNNDSE:
			return vast.NewLoader(vastBase, vast.V18, vast.GNNDSE), nil
		}
		return nil, errors.Errorf("no design loader for %s", id)
	}
}

// usesMerlin reports whether designs of id are Merlin design points rather
// than directive scripts
func usesMerlin(id metrics.ConfigID) bool {
	switch id {
	case metrics.DB4HLS, metrics.ML4ACCEL, metrics.POWERGEAR:
		return false
	}
	return true
}
