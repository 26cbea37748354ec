package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/mintalist/mintalist-backend/pkg/errors"
)

type profileRequest struct {
	Name       string  `json:"name" validate:"required,min=1"`
	BrandColor *string `json:"brandColor" validate:"omitempty,hexcolor6"`
	Slug       *string `json:"slug" validate:"omitempty,slug"`
	LogoURL    *string `json:"logoUrl" validate:"omitempty,urlorempty"`
}

func decode(t *testing.T, body string) (profileRequest, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var dest profileRequest
	err := DecodeJSONBody(req, &dest)
	return dest, err
}

func TestDecodeJSONBodyAcceptsValidPayload(t *testing.T) {
	dest, err := decode(t, `{"name":"Cafe","brandColor":"#10B981","slug":"cafe-nile","logoUrl":"https://cdn.test/logo.png","extra":true}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dest.Name != "Cafe" || *dest.BrandColor != "#10B981" {
		t.Fatalf("unexpected decode %+v", dest)
	}
}

func TestDecodeJSONBodyCustomTags(t *testing.T) {
	cases := map[string]string{
		`{"name":"Cafe","brandColor":"green"}`:       "brandColor",
		`{"name":"Cafe","slug":"Bad Slug!"}`:         "slug",
		`{"name":"Cafe","logoUrl":"ftp://x.test/a"}`: "logoUrl",
		`{"name":""}`: "name",
	}
	for body, field := range cases {
		_, err := decode(t, body)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation error, got %v", body, err)
		}
		details, ok := typed.Details().(map[string]string)
		if !ok || details[field] == "" {
			t.Fatalf("%s: expected detail for %s, got %v", body, field, typed.Details())
		}
	}
}

func TestDecodeJSONBodyEmptyAndMalformed(t *testing.T) {
	if _, err := decode(t, ``); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for empty body, got %v", err)
	}
	if _, err := decode(t, `{"name":`); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for malformed body, got %v", err)
	}
}

func TestIsURLOrEmpty(t *testing.T) {
	for value, want := range map[string]bool{
		"":                      true,
		"  ":                    true,
		"https://mintalist.com": true,
		"http://x.test/path":    true,
		"mintalist.com":         false,
		"javascript:alert(1)":   false,
	} {
		if got := IsURLOrEmpty(value); got != want {
			t.Fatalf("IsURLOrEmpty(%q) = %v, want %v", value, got, want)
		}
	}
}

func TestParsePagination(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=10&cursor=abc", nil)
	params, err := ParsePagination(req)
	if err != nil || params.Limit != 10 || params.Cursor != "abc" {
		t.Fatalf("unexpected params %+v err=%v", params, err)
	}
	req = httptest.NewRequest(http.MethodGet, "/?limit=0", nil)
	if _, err := ParsePagination(req); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected range error, got %v", err)
	}
}

func TestParseUUIDParam(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rc := chi.NewRouteContext()
	rc.URLParams.Add("id", "not-a-uuid")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
	if _, err := ParseUUIDParam(req, "id"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
