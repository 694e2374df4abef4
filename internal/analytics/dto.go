package analytics

// チャート用ペイロード。UI側は pie/bar をそのまま描画する。

type PieSlice struct {
	Type     string `json:"type"`
	Quantity int    `json:"quantity"` // タイプごとの total_quantity 合計
}

type BarItem struct {
	AssetID     int64   `json:"asset_id"`
	Name        string  `json:"name"`
	Total       int     `json:"total_quantity"`
	Available   int     `json:"available_quantity"`
	Utilization float64 `json:"utilization"` // (total-available)/total、total=0 は 0
}

type LowStockItem struct {
	AssetID   int64  `json:"asset_id"`
	Name      string `json:"name"`
	Available int    `json:"available_quantity"`
}

type Counters struct {
	Assets          int `json:"assets"`
	PendingRequests int `json:"pending_requests"`
	TotalRequests   int `json:"total_requests"`
	SeatsUsed       int `json:"seats_used"`
	EmployeeLimit   int `json:"employee_limit"`
}

type Summary struct {
	Pie         []PieSlice     `json:"pie"`
	TopUtilized []BarItem      `json:"top_utilized"`
	LowStock    []LowStockItem `json:"low_stock"`
	Counters    Counters       `json:"counters"`
}

// 集計の元になる資産1行
type AssetStat struct {
	AssetID   int64
	Name      string
	Type      string
	Total     int
	Available int
}
