package domain

import (
	"math/rand"
	"testing"

	"github.com/dwikikusuma/honey-storefront/internal/apperr"
	"github.com/dwikikusuma/honey-storefront/pkg/money"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const placeholder = "/img/placeholder.png"

func honey(t *testing.T) *Product {
	t.Helper()
	price, err := money.Parse("39.90")
	require.NoError(t, err)
	return &Product{ID: 7, Name: "Honey 500g", Price: price, Stock: 5}
}

func TestAddScenario(t *testing.T) {
	var c Cart
	p := honey(t)

	require.NoError(t, c.Add(p, 1, placeholder))
	item, ok := c.Find(7)
	require.True(t, ok)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, placeholder, item.Image)

	require.NoError(t, c.Add(p, 3, placeholder))
	item, _ = c.Find(7)
	assert.Equal(t, 4, item.Quantity)

	err := c.Add(p, 2, placeholder)
	assert.ErrorIs(t, err, apperr.ErrStock)
	item, _ = c.Find(7)
	assert.Equal(t, 4, item.Quantity)

	assert.Equal(t, 4, c.TotalItems())
	assert.Equal(t, money.Price(15960), c.Total())
	assert.InDelta(t, 159.60, c.TotalAmount(), 1e-9)
	assert.Equal(t, "159.60", c.TotalPrice())
}

func TestAddValidation(t *testing.T) {
	tests := []struct {
		name string
		p    *Product
		qty  int
		kind error
	}{
		{"nil product", nil, 1, apperr.ErrValidation},
		{"no id", &Product{Name: "x", Stock: 3}, 1, apperr.ErrValidation},
		{"zero quantity", &Product{ID: 1, Stock: 3}, 0, apperr.ErrValidation},
		{"negative quantity", &Product{ID: 1, Stock: 3}, -2, apperr.ErrValidation},
		{"sold out", &Product{ID: 1, Stock: 0}, 1, apperr.ErrValidation},
		{"negative price", &Product{ID: 1, Price: -3990, Stock: 3}, 2, apperr.ErrValidation},
		{"over stock on first add", &Product{ID: 1, Stock: 2}, 3, apperr.ErrStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Cart
			err := c.Add(tt.p, tt.qty, placeholder)
			assert.ErrorIs(t, err, tt.kind)
			assert.Empty(t, c.Items)
		})
	}
}

func TestAddUsesFirstImage(t *testing.T) {
	var c Cart
	require.NoError(t, c.Add(&Product{ID: 1, Stock: 1, Images: []string{"", "/img/a.jpg", "/img/b.jpg"}}, 1, placeholder))
	assert.Equal(t, "/img/a.jpg", c.Items[0].Image)
}

func TestSetQuantity(t *testing.T) {
	var c Cart
	require.NoError(t, c.Add(honey(t), 2, placeholder))

	assert.ErrorIs(t, c.SetQuantity(99, 2), apperr.ErrNotFound)
	assert.ErrorIs(t, c.SetQuantity(7, 0), apperr.ErrValidation)
	assert.ErrorIs(t, c.SetQuantity(7, 6), apperr.ErrStock)

	item, _ := c.Find(7)
	assert.Equal(t, 2, item.Quantity)

	require.NoError(t, c.SetQuantity(7, 5))
	item, _ = c.Find(7)
	assert.Equal(t, 5, item.Quantity)
}

func TestRemoveKeepsOrder(t *testing.T) {
	var c Cart
	for id := int64(1); id <= 4; id++ {
		require.NoError(t, c.Add(&Product{ID: id, Stock: 9}, 1, placeholder))
	}
	snap := c.Clone()

	assert.True(t, c.Remove(2))
	assert.False(t, c.Remove(2))

	var ids []int64
	for _, it := range c.Items {
		ids = append(ids, it.ProductID)
	}
	assert.Equal(t, []int64{1, 3, 4}, ids)
	assert.Len(t, snap.Items, 4)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	var c Cart
	require.NoError(t, c.Add(honey(t), 3, placeholder))
	require.NoError(t, c.Add(&Product{ID: 2, Name: "Comb", Price: money.Price(1250), Stock: 4, Images: []string{"/img/comb.jpg"}}, 4, placeholder))

	raw, err := Encode(c)
	require.NoError(t, err)

	got, err := Decode(raw)
	require.NoError(t, err)
	if diff := cmp.Diff(c.Items, got.Items); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeEmpty(t *testing.T) {
	raw, err := Encode(Cart{})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestDecode(t *testing.T) {
	t.Run("legacy string prices and missing stock", func(t *testing.T) {
		c, err := Decode([]byte(`[{"productId":7,"name":"Honey 500g","price":"39.90","image":"/img/placeholder.png","quantity":2}]`))
		require.NoError(t, err)
		require.Len(t, c.Items, 1)
		assert.Equal(t, money.Price(3990), c.Items[0].UnitPrice)
		assert.Equal(t, 2, c.Items[0].Stock)
		assert.Equal(t, "79.80", c.TotalPrice())
	})

	t.Run("invalid lines dropped", func(t *testing.T) {
		c, err := Decode([]byte(`[{"productId":0,"quantity":1},{"productId":3,"quantity":0},{"productId":4,"quantity":1,"stock":2},{"productId":4,"quantity":2,"stock":2}]`))
		require.NoError(t, err)
		require.Len(t, c.Items, 1)
		assert.Equal(t, int64(4), c.Items[0].ProductID)
		assert.Equal(t, 1, c.Items[0].Quantity)
	})

	t.Run("quantity over saved stock is lowered", func(t *testing.T) {
		c, err := Decode([]byte(`[{"productId":1,"price":"19.90","quantity":9,"stock":3}]`))
		require.NoError(t, err)
		require.Len(t, c.Items, 1)
		assert.Equal(t, 3, c.Items[0].Quantity)
		assert.Equal(t, 3, c.Items[0].Stock)
	})

	t.Run("negative price dropped", func(t *testing.T) {
		c, err := Decode([]byte(`[{"productId":1,"price":"-39.90","quantity":2,"stock":5},{"productId":2,"price":"32.90","quantity":1,"stock":5}]`))
		require.NoError(t, err)
		require.Len(t, c.Items, 1)
		assert.Equal(t, int64(2), c.Items[0].ProductID)
	})

	for _, raw := range []string{``, `{}`, `"cart"`, `null`, `[{"productId":"x"}]`, `[1,2]`, `[`, `[{"productId":1,"price":"1e30","quantity":1}]`} {
		t.Run("corrupt "+raw, func(t *testing.T) {
			_, err := Decode([]byte(raw))
			assert.ErrorIs(t, err, ErrCorruptCart)
		})
	}
}

// TestMutationInvariants drives random operation sequences and checks that
// every line stays within 1..stock and the totals match the lines.
func TestMutationInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	products := make([]*Product, 6)
	for i := range products {
		products[i] = &Product{ID: int64(i + 1), Price: money.Price(rng.Intn(5000) + 1), Stock: rng.Intn(6)}
	}

	var c Cart
	for step := 0; step < 2000; step++ {
		p := products[rng.Intn(len(products))]
		qty := rng.Intn(8) - 2
		before := c.Clone()

		var err error
		switch rng.Intn(3) {
		case 0:
			err = c.Add(p, qty, placeholder)
		case 1:
			err = c.SetQuantity(p.ID, qty)
		case 2:
			c.Remove(p.ID)
		}
		if err != nil {
			require.Equal(t, before, c, "failed operation mutated the cart at step %d", step)
		}

		var items int
		var amount money.Price
		for _, it := range c.Items {
			require.GreaterOrEqual(t, it.Quantity, 1)
			require.LessOrEqual(t, it.Quantity, it.Stock)
			items += it.Quantity
			amount += it.UnitPrice.Times(it.Quantity)
		}
		require.Equal(t, items, c.TotalItems())
		require.Equal(t, amount, c.Total())
	}
}
