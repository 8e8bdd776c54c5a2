package stock

import (
	"testing"

	"github.com/fekuna/omnipos-sale-service/internal/apperrors"
	"github.com/fekuna/omnipos-sale-service/internal/model"
	"github.com/stretchr/testify/require"
)

func fl(v float64) *float64 { return &v }

func TestContainersFor_WholeUnits(t *testing.T) {
	p := &model.Product{ID: "beer-bottle", IsFractioned: false}

	got, err := ContainersFor(p, model.Demand{Servings: 5})
	require.NoError(t, err)
	require.Equal(t, 5, got)
}

func TestContainersFor_FractionedRoundsUp(t *testing.T) {
	p := &model.Product{
		ID:              "gin",
		IsFractioned:    true,
		ContainerVolume: fl(1000),
		ServingVolume:   fl(50),
	}

	// 21 servings of 50ml = 1050ml -> 2 bottles of 1000ml.
	got, err := ContainersFor(p, model.Demand{Servings: 21})
	require.NoError(t, err)
	require.Equal(t, 2, got)
}

func TestContainersFor_FractionedExactFit(t *testing.T) {
	p := &model.Product{
		ID:              "vodka",
		IsFractioned:    true,
		ContainerVolume: fl(1000),
		ServingVolume:   fl(300),
	}

	// 4 servings of 300ml = 1200ml -> exactly 2 containers.
	got, err := ContainersFor(p, model.Demand{Servings: 4})
	require.NoError(t, err)
	require.Equal(t, 2, got)
}

func TestContainersFor_DirectVolume(t *testing.T) {
	p := &model.Product{
		ID:              "whisky",
		IsFractioned:    true,
		ContainerVolume: fl(1000),
	}

	got, err := ContainersFor(p, model.Demand{VolumeML: 500})
	require.NoError(t, err)
	require.Equal(t, 1, got)
}

func TestContainersFor_MergedServingsAndVolume(t *testing.T) {
	p := &model.Product{
		ID:              "rum",
		IsFractioned:    true,
		ContainerVolume: fl(1000),
		ServingVolume:   fl(300),
	}

	// 300ml + 500ml = 800ml -> 1 container. Converting the two parts
	// separately would have rounded each up and reserved 2.
	got, err := ContainersFor(p, model.Demand{Servings: 1, VolumeML: 500})
	require.NoError(t, err)
	require.Equal(t, 1, got)
}

func TestContainersFor_ZeroDemand(t *testing.T) {
	p := &model.Product{ID: "beer-bottle"}

	got, err := ContainersFor(p, model.Demand{})
	require.NoError(t, err)
	require.Equal(t, 0, got)
}

func TestContainersFor_NegativeServings(t *testing.T) {
	p := &model.Product{ID: "beer-bottle"}

	_, err := ContainersFor(p, model.Demand{Servings: -1})
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestContainersFor_FractionedWithoutContainerVolume(t *testing.T) {
	p := &model.Product{ID: "broken", IsFractioned: true, ServingVolume: fl(50)}

	_, err := ContainersFor(p, model.Demand{Servings: 1})
	var ce *apperrors.ConfigurationError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "broken", ce.ProductID)
}

func TestContainersFor_FractionedWithoutServingVolume(t *testing.T) {
	p := &model.Product{ID: "broken", IsFractioned: true, ContainerVolume: fl(1000)}

	_, err := ContainersFor(p, model.Demand{Servings: 1})
	var ce *apperrors.ConfigurationError
	require.ErrorAs(t, err, &ce)
}

func TestContainersFor_VolumeAgainstWholeUnitProduct(t *testing.T) {
	p := &model.Product{ID: "beer-bottle", IsFractioned: false}

	_, err := ContainersFor(p, model.Demand{VolumeML: 100})
	var ce *apperrors.ConfigurationError
	require.ErrorAs(t, err, &ce)
}
