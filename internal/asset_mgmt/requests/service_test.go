package requests

import (
	"context"
	"errors"
	"testing"

	"assetverse-backend/internal/asset_mgmt/assets"
	"assetverse-backend/internal/org/affiliations"
)

// 入力バリデーションはDBに触る前に落ちる
func TestCreate_InvalidAssetID(t *testing.T) {
	svc := &Service{}
	_, err := svc.Create(context.Background(), "emp@example.com", CreateRequestRequest{AssetID: 0})
	assertCode(t, err, ErrCodeInvalidArgument)
}

func TestDirectAssign_Validation(t *testing.T) {
	svc := &Service{}

	_, err := svc.DirectAssign(context.Background(), "hr@example.com", DirectAssignRequest{AssetID: 0, EmployeeEmail: "a@b.c"})
	assertCode(t, err, ErrCodeInvalidArgument)

	_, err = svc.DirectAssign(context.Background(), "hr@example.com", DirectAssignRequest{AssetID: 1, EmployeeEmail: "  "})
	assertCode(t, err, ErrCodeInvalidArgument)
}

// 単発取得のスコープ: HRは自社分、社員は自分が出したものだけ見える
func TestVisibleTo(t *testing.T) {
	r := &Request{RequesterEmail: "emp@example.com", CompanyID: 7}

	cases := []struct {
		name       string
		actorEmail string
		role       string
		companyID  int64
		want       bool
	}{
		{"own request", "emp@example.com", "employee", 0, true},
		{"someone else's request", "other@example.com", "employee", 0, false},
		{"hr of the same company", "hr@example.com", "hr", 7, true},
		{"hr of another company", "hr@rival.com", "hr", 8, false},
	}
	for _, c := range cases {
		if got := visibleTo(r, c.actorEmail, c.role, c.companyID); got != c.want {
			t.Errorf("%s: visibleTo = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestMapAssetErr(t *testing.T) {
	cases := []struct {
		in   error
		want string
	}{
		{assets.ErrOutOfStock("no units available"), ErrCodeOutOfStock},
		{assets.ErrNotFound("asset not found"), ErrCodeNotFound},
		{assets.ErrConflict("nothing to release"), ErrCodeConflict},
	}
	for _, c := range cases {
		assertCode(t, mapAssetErr(c.in), c.want)
	}

	// 在庫系以外のエラーは素通し
	plain := errors.New("boom")
	if got := mapAssetErr(plain); got != plain {
		t.Errorf("mapAssetErr(plain) = %v, want passthrough", got)
	}
}

func TestMapAffiliationErr(t *testing.T) {
	assertCode(t, mapAffiliationErr(affiliations.NewQuotaExceededError()), ErrCodeQuotaExceeded)

	plain := errors.New("boom")
	if got := mapAffiliationErr(plain); got != plain {
		t.Errorf("mapAffiliationErr(plain) = %v, want passthrough", got)
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var de *DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	if de.Code != code {
		t.Fatalf("code = %s, want %s", de.Code, code)
	}
}
