package stock

import (
	"math"

	"github.com/fekuna/omnipos-sale-service/internal/apperrors"
	"github.com/fekuna/omnipos-sale-service/internal/model"
)

// ContainersFor converts merged per-product demand (whole-unit servings
// plus milliliters drawn directly) into the number of whole containers
// to reserve. Rounding is always up: once any part of a container is
// drawn, the whole container is reserved.
func ContainersFor(p *model.Product, d model.Demand) (int, error) {
	if d.Servings < 0 {
		return 0, &apperrors.ValidationError{Field: "quantity", Reason: "must be non-negative"}
	}
	if d.VolumeML < 0 {
		return 0, &apperrors.ValidationError{Field: "allocation", Reason: "must be non-negative"}
	}

	if !p.IsFractioned {
		if d.VolumeML > 0 {
			return 0, &apperrors.ConfigurationError{
				ProductID: p.ID,
				Reason:    "volume allocation against a non-fractioned product",
			}
		}
		return d.Servings, nil
	}

	if p.ContainerVolume == nil || *p.ContainerVolume <= 0 {
		return 0, &apperrors.ConfigurationError{
			ProductID: p.ID,
			Reason:    "fractioned product has no container volume",
		}
	}

	volume := d.VolumeML
	if d.Servings > 0 {
		if p.ServingVolume == nil || *p.ServingVolume <= 0 {
			return 0, &apperrors.ConfigurationError{
				ProductID: p.ID,
				Reason:    "fractioned product has no serving volume",
			}
		}
		volume += float64(d.Servings) * *p.ServingVolume
	}

	if volume == 0 {
		return 0, nil
	}
	return int(math.Ceil(volume / *p.ContainerVolume)), nil
}
