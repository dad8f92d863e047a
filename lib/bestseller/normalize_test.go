package bestseller

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

var categories = []string{
	"국내도서>소설/시/희곡>한국소설",
	"국내도서>소설/시/희곡>라이트 노벨",
	"국내도서>만화>라이트 노벨>판타지",
	"국내도서>경제경영",
	"국내도서>소설/시/희곡>라이트노벨", // no space, kept
	"",
}

var stocks = []string{"", "", "품절", "절판", "예약판매"}

func randomRows(r *rand.Rand, n int) []BookItem {
	rows := make([]BookItem, n)
	for i := range rows {
		rows[i] = BookItem{
			Title:       Ptr(fmt.Sprintf("book %d", i)),
			ListRank:    Ptr(i + 1),
			StockStatus: stocks[r.Intn(len(stocks))],
		}
		if c := categories[r.Intn(len(categories))]; c != "" {
			rows[i].CategoryName = Ptr(c)
		}
	}
	return rows
}

func TestNormalize(t *testing.T) {
	rows := []BookItem{
		{Title: Ptr("a"), CategoryName: Ptr("Fiction>Korean"), StockStatus: ""},
		{Title: Ptr("b"), CategoryName: Ptr("국내도서>라이트 노벨"), StockStatus: ""},
		{Title: Ptr("c"), StockStatus: "품절"},
	}

	out := Normalize(rows)
	expected := []BookItem{
		{Title: Ptr("a"), CategoryName: Ptr("Fiction>Korean"), StockStatus: AvailableStock},
		{Title: Ptr("c"), StockStatus: "품절"},
	}
	require.Empty(t, cmp.Diff(expected, out))

	// input is left untouched
	require.Equal(t, "", rows[0].StockStatus)
	require.Len(t, rows, 3)
}

func TestNormalizeExclusionIsCaseSensitive(t *testing.T) {
	rows := []BookItem{
		{CategoryName: Ptr("Light Novel")},
		{CategoryName: Ptr("라이트 노벨")},
	}
	out := Normalize(rows)
	require.Len(t, out, 1)
	require.Equal(t, "Light Novel", *out[0].CategoryName)
}

func TestNormalizeEmpty(t *testing.T) {
	require.Empty(t, Normalize(nil))
	require.Empty(t, Normalize([]BookItem{}))
}

func TestNormalizeProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		rows := randomRows(r, r.Intn(30))

		once := Normalize(rows)
		twice := Normalize(once)
		require.Empty(t, cmp.Diff(once, twice, cmpopts.EquateEmpty()), "normalize is not idempotent")

		for _, row := range once {
			require.NotEqual(t, "", row.StockStatus)
			if row.CategoryName != nil {
				require.False(t, strings.Contains(*row.CategoryName, LightNovelMarker))
			}
		}

		kept := 0
		for _, row := range rows {
			if !IsLightNovel(row) {
				kept++
			}
		}
		require.Len(t, once, kept)
	}
}

func TestNormalizePreservesOrder(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	rows := randomRows(r, 50)

	out := Normalize(rows)
	last := 0
	for _, row := range out {
		rank := Value(row.ListRank)
		require.Greater(t, rank, last)
		last = rank
	}
}
