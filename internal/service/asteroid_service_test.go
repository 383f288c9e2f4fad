package service

import (
	"sort"
	"testing"

	"celestia/internal/clients"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func neoObject(id, name, date, missKm, velocity string, diameterMax float64) clients.NeoObject {
	obj := clients.NeoObject{
		ID:   id,
		Name: name,
	}
	obj.EstimatedDiameter.Meters.Min = diameterMax / 2
	obj.EstimatedDiameter.Meters.Max = diameterMax

	approach := clients.CloseApproach{Date: date}
	approach.MissDistance.Kilometers = missKm
	approach.MissDistance.Astronomical = "0.05"
	approach.RelativeVelocity.KmPerHour = velocity
	obj.CloseApproachData = []clients.CloseApproach{approach}

	return obj
}

func TestMapNeoFeed_BuildsSyntheticID(t *testing.T) {
	feed := &clients.NeoFeed{
		NearEarthObjects: map[string][]clients.NeoObject{
			"2025-03-14": {neoObject("3542519", "(2010 PK9)", "2025-03-14", "4500000.5", "45000", 200)},
		},
	}

	approaches := MapNeoFeed(feed, nil)

	require.Len(t, approaches, 1)
	assert.Equal(t, "3542519_2025-03-14", approaches[0].ID)
	assert.Equal(t, "3542519", approaches[0].NeoID)
	assert.Equal(t, "(2010 PK9)", approaches[0].Name)
	assert.Equal(t, 4500000.5, approaches[0].MissDistanceKm)
	assert.Equal(t, 45000.0, approaches[0].VelocityKmh)
}

func TestMapNeoFeed_TakesOnlyFirstApproach(t *testing.T) {
	obj := neoObject("101", "Twice", "2025-03-14", "1000000", "20000", 50)
	second := clients.CloseApproach{Date: "2025-03-20"}
	second.MissDistance.Kilometers = "500"
	obj.CloseApproachData = append(obj.CloseApproachData, second)

	feed := &clients.NeoFeed{
		NearEarthObjects: map[string][]clients.NeoObject{"2025-03-14": {obj}},
	}

	approaches := MapNeoFeed(feed, nil)

	require.Len(t, approaches, 1)
	assert.Equal(t, "2025-03-14", approaches[0].ApproachDate)
	assert.Equal(t, 1000000.0, approaches[0].MissDistanceKm)
}

func TestMapNeoFeed_MalformedNumbersFallBackToZero(t *testing.T) {
	feed := &clients.NeoFeed{
		NearEarthObjects: map[string][]clients.NeoObject{
			"2025-03-14": {neoObject("102", "Broken", "2025-03-14", "N/A", "", 50)},
		},
	}

	approaches := MapNeoFeed(feed, nil)

	require.Len(t, approaches, 1)
	assert.Equal(t, 0.0, approaches[0].MissDistanceKm)
	assert.Equal(t, 0.0, approaches[0].VelocityKmh)
}

func TestMapNeoFeed_SkipsObjectsWithoutApproaches(t *testing.T) {
	empty := clients.NeoObject{ID: "103", Name: "NoData"}
	feed := &clients.NeoFeed{
		NearEarthObjects: map[string][]clients.NeoObject{
			"2025-03-14": {empty, neoObject("104", "Valid", "2025-03-14", "1000", "1000", 10)},
		},
	}

	approaches := MapNeoFeed(feed, nil)

	require.Len(t, approaches, 1)
	assert.Equal(t, "104_2025-03-14", approaches[0].ID)
}

func TestMapNeoFeed_DeduplicatesAcrossDates(t *testing.T) {
	obj := neoObject("105", "Dup", "2025-03-14", "1000", "1000", 10)
	feed := &clients.NeoFeed{
		NearEarthObjects: map[string][]clients.NeoObject{
			"2025-03-14": {obj},
			"2025-03-15": {obj},
		},
	}

	approaches := MapNeoFeed(feed, nil)

	assert.Len(t, approaches, 1)
}

func TestMapNeoFeed_RecomputesHazardLocally(t *testing.T) {
	// Фид помечает объект опасным, локальное правило — нет
	obj := neoObject("106", "Harmless", "2025-03-14", "50000000", "30000", 20)
	obj.IsPotentiallyHazardous = true

	feed := &clients.NeoFeed{
		NearEarthObjects: map[string][]clients.NeoObject{"2025-03-14": {obj}},
	}

	approaches := MapNeoFeed(feed, DefaultHazardRule)

	require.Len(t, approaches, 1)
	assert.False(t, approaches[0].IsHazardous)
}

func TestMapNeoFeed_CustomHazardRule(t *testing.T) {
	feed := &clients.NeoFeed{
		NearEarthObjects: map[string][]clients.NeoObject{
			"2025-03-14": {
				neoObject("107", "A", "2025-03-14", "100", "100", 1),
				neoObject("108", "B", "2025-03-14", "200", "100", 1),
			},
		},
	}

	alwaysHazardous := func(diameterMaxM, velocityKmh, missDistanceKm float64) bool { return true }
	approaches := MapNeoFeed(feed, alwaysHazardous)

	require.Len(t, approaches, 2)
	sort.Slice(approaches, func(i, j int) bool { return approaches[i].NeoID < approaches[j].NeoID })
	assert.True(t, approaches[0].IsHazardous)
	assert.True(t, approaches[1].IsHazardous)
}

func TestMapNeoFeed_NilFeed(t *testing.T) {
	assert.Nil(t, MapNeoFeed(nil, nil))
}

func TestDefaultHazardRule(t *testing.T) {
	cases := []struct {
		name      string
		diameter  float64
		velocity  float64
		missKm    float64
		hazardous bool
	}{
		{"large and close", 200, 30000, 5_000_000, true},
		{"large but far", 200, 30000, 20_000_000, false},
		{"small and close", 50, 30000, 500_000, false},
		{"fast and very close", 50, 100_000, 800_000, true},
		{"fast but not close enough", 50, 100_000, 2_000_000, false},
		{"boundary diameter", 140, 0, 7_500_000, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.hazardous, DefaultHazardRule(tc.diameter, tc.velocity, tc.missKm))
		})
	}
}
