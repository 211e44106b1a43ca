package discount

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/belanjaku/commerce-api/internal/catalog"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func productWith(price int64, d ...catalog.Discount) catalog.Product {
	return catalog.Product{ID: "p1", Name: "Kopi", PriceCents: price, Discounts: d}
}

func active(pct int64) catalog.Discount {
	return catalog.Discount{
		ID: "d1", Code: "PROMO", Percentage: pct,
		StartDate: now.Add(-time.Hour).Unix(),
		EndDate:   now.Add(time.Hour).Unix(),
	}
}

func TestApply_NoDiscount(t *testing.T) {
	lp, err := Apply(productWith(150), "", 3, now)
	require.NoError(t, err)
	require.Equal(t, int64(150), lp.UnitCents)
	require.Equal(t, int64(450), lp.TotalCents)
	require.Nil(t, lp.Discount)
}

func TestApply_TenPercent(t *testing.T) {
	// 100 * 2 dengan diskon 10% = 180
	lp, err := Apply(productWith(100, active(10)), "d1", 2, now)
	require.NoError(t, err)
	require.Equal(t, int64(90), lp.UnitCents)
	require.Equal(t, int64(180), lp.TotalCents)
	require.NotNil(t, lp.Discount)
	require.Equal(t, "d1", lp.Discount.ID)
}

func TestApply_RoundingHalfUp(t *testing.T) {
	// 10 * 25% off = 7.5 -> dibulatkan ke 8, total = unit * qty
	lp, err := Apply(productWith(10, active(25)), "d1", 3, now)
	require.NoError(t, err)
	require.Equal(t, int64(8), lp.UnitCents)
	require.Equal(t, int64(24), lp.TotalCents)

	// 999 * 15% off = 849.15 -> 849
	lp, err = Apply(productWith(999, active(15)), "d1", 1, now)
	require.NoError(t, err)
	require.Equal(t, int64(849), lp.UnitCents)
}

func TestApply_FullAndZeroPercent(t *testing.T) {
	lp, err := Apply(productWith(100, active(100)), "d1", 2, now)
	require.NoError(t, err)
	require.Equal(t, int64(0), lp.TotalCents)

	lp, err = Apply(productWith(100, active(0)), "d1", 2, now)
	require.NoError(t, err)
	require.Equal(t, int64(200), lp.TotalCents)
}

func TestApply_DiscountNotAssociated(t *testing.T) {
	_, err := Apply(productWith(100), "ghost", 1, now)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestApply_OutsideWindow(t *testing.T) {
	expired := active(10)
	expired.StartDate = now.Add(-48 * time.Hour).Unix()
	expired.EndDate = now.Add(-24 * time.Hour).Unix()
	_, err := Apply(productWith(100, expired), "d1", 1, now)
	require.ErrorIs(t, err, ErrNotFound)

	upcoming := active(10)
	upcoming.StartDate = now.Add(24 * time.Hour).Unix()
	upcoming.EndDate = now.Add(48 * time.Hour).Unix()
	_, err = Apply(productWith(100, upcoming), "d1", 1, now)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestApply_WindowBoundariesInclusive(t *testing.T) {
	d := active(10)
	d.StartDate = now.Unix()
	d.EndDate = now.Unix()
	lp, err := Apply(productWith(100, d), "d1", 1, now)
	require.NoError(t, err)
	require.Equal(t, int64(90), lp.TotalCents)
}

func TestApply_InvalidQty(t *testing.T) {
	_, err := Apply(productWith(100), "", 0, now)
	require.Error(t, err)
	_, err = Apply(productWith(100), "", -1, now)
	require.Error(t, err)
}
