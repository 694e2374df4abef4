package analytics

import "testing"

func TestUtilization(t *testing.T) {
	cases := []struct {
		total, available int
		want             float64
	}{
		{10, 10, 0},
		{10, 0, 1},
		{5, 3, 0.4},
		{0, 0, 0}, // ゼロ除算にしない
	}
	for _, c := range cases {
		if got := Utilization(c.total, c.available); got != c.want {
			t.Errorf("Utilization(%d, %d) = %f, want %f", c.total, c.available, got, c.want)
		}
	}
}

func TestBuildSummary_Pie(t *testing.T) {
	rows := []AssetStat{
		{AssetID: 1, Name: "Laptop", Type: "returnable", Total: 10, Available: 4},
		{AssetID: 2, Name: "Monitor", Type: "returnable", Total: 5, Available: 5},
		{AssetID: 3, Name: "T-Shirt", Type: "non_returnable", Total: 100, Available: 80},
	}
	s := BuildSummary(rows, 5, 5)

	if len(s.Pie) != 2 {
		t.Fatalf("pie slices = %d, want 2", len(s.Pie))
	}
	// タイプ名昇順
	if s.Pie[0].Type != "non_returnable" || s.Pie[0].Quantity != 100 {
		t.Errorf("pie[0] = %+v", s.Pie[0])
	}
	if s.Pie[1].Type != "returnable" || s.Pie[1].Quantity != 15 {
		t.Errorf("pie[1] = %+v", s.Pie[1])
	}
}

func TestBuildSummary_TopUtilized(t *testing.T) {
	rows := []AssetStat{
		{AssetID: 1, Name: "Laptop", Type: "returnable", Total: 10, Available: 4},   // 0.6
		{AssetID: 2, Name: "Monitor", Type: "returnable", Total: 5, Available: 5},   // 0.0
		{AssetID: 3, Name: "Keyboard", Type: "returnable", Total: 4, Available: 1},  // 0.75
		{AssetID: 4, Name: "Broken", Type: "non_returnable", Total: 0, Available: 0}, // 0.0 扱い
	}
	s := BuildSummary(rows, 5, 2)

	if len(s.TopUtilized) != 2 {
		t.Fatalf("top = %d, want 2", len(s.TopUtilized))
	}
	if s.TopUtilized[0].AssetID != 3 {
		t.Errorf("top[0] = %+v, want Keyboard", s.TopUtilized[0])
	}
	if s.TopUtilized[1].AssetID != 1 {
		t.Errorf("top[1] = %+v, want Laptop", s.TopUtilized[1])
	}
}

func TestBuildSummary_LowStock(t *testing.T) {
	rows := []AssetStat{
		{AssetID: 1, Name: "Laptop", Type: "returnable", Total: 10, Available: 2},
		{AssetID: 2, Name: "Monitor", Type: "returnable", Total: 5, Available: 5},
		{AssetID: 3, Name: "Mouse", Type: "returnable", Total: 10, Available: 0},
	}
	s := BuildSummary(rows, 3, 5)

	if len(s.LowStock) != 2 {
		t.Fatalf("low stock = %d, want 2", len(s.LowStock))
	}
	// 残数昇順
	if s.LowStock[0].AssetID != 3 || s.LowStock[1].AssetID != 1 {
		t.Errorf("low stock order = %+v", s.LowStock)
	}
}

func TestBuildSummary_DefaultsApplied(t *testing.T) {
	rows := []AssetStat{{AssetID: 1, Name: "Laptop", Type: "returnable", Total: 10, Available: 4}}
	s := BuildSummary(rows, 0, 0)
	if len(s.LowStock) != 1 {
		t.Errorf("default threshold should catch available=4, got %+v", s.LowStock)
	}
	if len(s.TopUtilized) != 1 {
		t.Errorf("top = %d, want 1", len(s.TopUtilized))
	}
}
