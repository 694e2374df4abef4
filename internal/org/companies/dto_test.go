package companies

import (
	"context"
	"errors"
	"testing"
)

func TestPackageByTier(t *testing.T) {
	for _, tier := range []string{"starter", "standard", "premium"} {
		p, ok := PackageByTier(tier)
		if !ok {
			t.Errorf("PackageByTier(%q): not found", tier)
			continue
		}
		if p.EmployeeLimit <= 0 || p.PriceUSD <= 0 {
			t.Errorf("PackageByTier(%q) = %+v", tier, p)
		}
	}
	if _, ok := PackageByTier("enterprise"); ok {
		t.Error("unknown tier should not resolve")
	}
}

func TestCatalogue_LimitsAscending(t *testing.T) {
	for i := 1; i < len(Catalogue); i++ {
		if Catalogue[i].EmployeeLimit <= Catalogue[i-1].EmployeeLimit {
			t.Errorf("catalogue out of order at %d: %+v", i, Catalogue)
		}
	}
}

func TestUpdatePackage_UnknownTier(t *testing.T) {
	svc := &Service{}
	_, err := svc.UpdatePackage(context.Background(), "hr@example.com", UpdatePackageRequest{Tier: "enterprise"})
	var api *APIError
	if !errors.As(err, &api) || api.Code != CodeInvalidArgument {
		t.Fatalf("err = %v, want INVALID_ARGUMENT", err)
	}
}

func TestToHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrInvalid("x"), 400},
		{ErrNotFound("x"), 404},
		{ErrConflict("x"), 409},
		{errors.New("plain"), 500},
	}
	for _, c := range cases {
		if got := toHTTPStatus(c.err); got != c.want {
			t.Errorf("toHTTPStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}
