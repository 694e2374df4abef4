package assets

import (
	"context"
	"errors"
	"testing"
)

func TestCreate_Validation(t *testing.T) {
	svc := &Service{}
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateAssetRequest
	}{
		{"empty name", CreateAssetRequest{Name: "  ", Type: TypeReturnable, TotalQuantity: 1}},
		{"bad type", CreateAssetRequest{Name: "Laptop", Type: "lease", TotalQuantity: 1}},
		{"zero quantity", CreateAssetRequest{Name: "Laptop", Type: TypeReturnable, TotalQuantity: 0}},
	}
	for _, c := range cases {
		_, err := svc.Create(ctx, "hr@example.com", c.in)
		assertCode(t, c.name, err, CodeInvalidArgument)
	}
}

func TestUpdate_Validation(t *testing.T) {
	svc := &Service{}
	ctx := context.Background()

	bad := "lease"
	_, err := svc.Update(ctx, "hr@example.com", 1, UpdateAssetRequest{Type: &bad})
	assertCode(t, "bad type", err, CodeInvalidArgument)

	empty := " "
	_, err = svc.Update(ctx, "hr@example.com", 1, UpdateAssetRequest{Name: &empty})
	assertCode(t, "empty name", err, CodeInvalidArgument)

	zero := 0
	_, err = svc.Update(ctx, "hr@example.com", 1, UpdateAssetRequest{TotalQuantity: &zero})
	assertCode(t, "zero total", err, CodeInvalidArgument)
}

func TestValidType(t *testing.T) {
	if !ValidType(TypeReturnable) || !ValidType(TypeNonReturnable) {
		t.Error("known types should be valid")
	}
	if ValidType("") || ValidType("lease") {
		t.Error("unknown types should be invalid")
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
		{ErrOutOfStock("x"), 409},
		{ErrInternal("x"), 500},
		{errors.New("plain"), 500},
	}
	for _, c := range cases {
		if got := toHTTPStatus(c.err); got != c.want {
			t.Errorf("toHTTPStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestHandlerHelpers(t *testing.T) {
	if got := atoiDef("", 50); got != 50 {
		t.Errorf("atoiDef empty = %d", got)
	}
	if got := atoiDef("12", 50); got != 12 {
		t.Errorf("atoiDef 12 = %d", got)
	}
	if got := atoiDef("abc", 50); got != 50 {
		t.Errorf("atoiDef abc = %d", got)
	}

	if got := nextOffset(100, Page{Limit: 50, Offset: 0}); got != 50 {
		t.Errorf("nextOffset mid = %d", got)
	}
	if got := nextOffset(100, Page{Limit: 50, Offset: 50}); got != 0 {
		t.Errorf("nextOffset end = %d", got)
	}
}

func assertCode(t *testing.T, name string, err error, code Code) {
	t.Helper()
	var api *APIError
	if !errors.As(err, &api) {
		t.Fatalf("%s: expected APIError, got %v", name, err)
	}
	if api.Code != code {
		t.Fatalf("%s: code = %s, want %s", name, api.Code, code)
	}
}
