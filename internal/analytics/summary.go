package analytics

import "sort"

const (
	DefaultLowStockThreshold = 5
	DefaultTopN              = 5
)

// Utilization は消費率。total=0 でもゼロ除算にしない。
func Utilization(total, available int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(total-available) / float64(total)
}

// BuildSummary は取得済みの資産行からチャートペイロードを組み立てる。
// カウンタ類は呼び出し側で別途埋める。
func BuildSummary(rows []AssetStat, threshold, topN int) Summary {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	byType := map[string]int{}
	for _, r := range rows {
		byType[r.Type] += r.Total
	}
	pie := make([]PieSlice, 0, len(byType))
	for t, q := range byType {
		pie = append(pie, PieSlice{Type: t, Quantity: q})
	}
	sort.Slice(pie, func(i, j int) bool { return pie[i].Type < pie[j].Type })

	bars := make([]BarItem, 0, len(rows))
	lowStock := []LowStockItem{}
	for _, r := range rows {
		bars = append(bars, BarItem{
			AssetID:     r.AssetID,
			Name:        r.Name,
			Total:       r.Total,
			Available:   r.Available,
			Utilization: Utilization(r.Total, r.Available),
		})
		if r.Available < threshold {
			lowStock = append(lowStock, LowStockItem{AssetID: r.AssetID, Name: r.Name, Available: r.Available})
		}
	}
	sort.Slice(bars, func(i, j int) bool {
		if bars[i].Utilization != bars[j].Utilization {
			return bars[i].Utilization > bars[j].Utilization
		}
		return bars[i].Name < bars[j].Name
	})
	if len(bars) > topN {
		bars = bars[:topN]
	}
	sort.Slice(lowStock, func(i, j int) bool {
		if lowStock[i].Available != lowStock[j].Available {
			return lowStock[i].Available < lowStock[j].Available
		}
		return lowStock[i].Name < lowStock[j].Name
	})

	return Summary{Pie: pie, TopUtilized: bars, LowStock: lowStock}
}
