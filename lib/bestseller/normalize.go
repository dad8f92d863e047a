package bestseller

import "strings"

const (
	// LightNovelMarker is the category path segment of light novels, which are
	// dropped from every listing.
	LightNovelMarker = "라이트 노벨"
	// AvailableStock replaces an empty stock status.
	AvailableStock = "구매 가능"
)

// Normalize drops light novels and fills in empty stock statuses. It returns a
// new slice and is idempotent. It must only be applied to freshly fetched rows.
func Normalize(rows []BookItem) []BookItem {
	out := make([]BookItem, 0, len(rows))
	for _, row := range rows {
		if IsLightNovel(row) {
			continue
		}
		if row.StockStatus == "" {
			row.StockStatus = AvailableStock
		}
		out = append(out, row)
	}
	return out
}

func IsLightNovel(row BookItem) bool {
	return row.CategoryName != nil && strings.Contains(*row.CategoryName, LightNovelMarker)
}
