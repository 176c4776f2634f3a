// Package panel generates synthetic observation panels with a latent
// factor structure and estimates sample correlation matrices from them.
package panel

import (
	"errors"
	"fmt"

	"github.com/quantfolio/rmtclean/internal/linalg"
	"github.com/quantfolio/rmtclean/internal/randsrc"
)

// ErrInvalidShape reports panel dimensions too small to work with.
var ErrInvalidShape = errors.New("panel: invalid shape")

// Default factor structure of the synthetic panel.
const (
	DefaultNumFactors   = 3
	DefaultLoadingScale = 0.6
)

// Generate builds a periods×assets observation panel: i.i.d. standard
// normal idiosyncratic entries plus numFactors common components with
// normal loadings scaled by loadingScale.
//
// The generator stream is consumed in a fixed order — the idiosyncratic
// matrix first, then the factor matrix, then the loadings — so a shared
// seed reproduces the same panel everywhere.
func Generate(periods, assets, numFactors int, loadingScale float64, src *randsrc.Source) (*linalg.Matrix, error) {
	if periods < 2 {
		return nil, fmt.Errorf("%w: need at least 2 periods, got %d", ErrInvalidShape, periods)
	}
	if assets < 1 {
		return nil, fmt.Errorf("%w: need at least 1 asset, got %d", ErrInvalidShape, assets)
	}
	if numFactors < 0 {
		return nil, fmt.Errorf("%w: negative factor count %d", ErrInvalidShape, numFactors)
	}

	x := linalg.NewMatrix(periods, assets)
	for i := range x.Data {
		v, err := src.Normal()
		if err != nil {
			return nil, err
		}
		x.Data[i] = v
	}

	factors := linalg.NewMatrix(periods, numFactors)
	for i := range factors.Data {
		v, err := src.Normal()
		if err != nil {
			return nil, err
		}
		factors.Data[i] = v
	}

	loadings := linalg.NewMatrix(assets, numFactors)
	for i := range loadings.Data {
		v, err := src.Normal()
		if err != nil {
			return nil, err
		}
		loadings.Data[i] = v * loadingScale
	}

	for t := 0; t < periods; t++ {
		for j := 0; j < assets; j++ {
			var common float64
			for f := 0; f < numFactors; f++ {
				common += loadings.At(j, f) * factors.At(t, f)
			}
			x.Set(t, j, x.At(t, j)+common)
		}
	}

	return x, nil
}
