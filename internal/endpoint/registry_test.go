package endpoint

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"
)

func TestRegistryRegister(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		method   string
		template Template
		wantErr  error
	}{{
		name:     "lowercase method is accepted",
		key:      "getWidget",
		method:   "get",
		template: Segment("/api/widget", ""),
		wantErr:  nil,
	}, {
		name:     "mixed case method is accepted",
		key:      "createWidget",
		method:   "Post",
		template: StaticPath("/api/widget"),
		wantErr:  nil,
	}, {
		name:     "unsupported method",
		key:      "patchWidget",
		method:   "PATCH",
		template: StaticPath("/api/widget"),
		wantErr:  ErrUnsupportedMethod,
	}, {
		name:     "empty key",
		key:      "",
		method:   "GET",
		template: StaticPath("/"),
		wantErr:  ErrInvalidDescriptor,
	}, {
		name:     "nil template",
		key:      "nothing",
		method:   "GET",
		template: nil,
		wantErr:  ErrInvalidDescriptor,
	}, {
		name:     "nil param path",
		key:      "nothing",
		method:   "GET",
		template: ParamPath(nil),
		wantErr:  ErrInvalidDescriptor,
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			err := reg.Register(tt.key, tt.method, tt.template)
			if !errors.Is(err, tt.wantErr) {
				t.Fatal("unexpected error", err)
			}
		})
	}
}

func TestRegistryDuplicateKey(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register("getWidget", "GET", StaticPath("/a")); err != nil {
		t.Fatal(err)
	}
	err := reg.Register("getWidget", "POST", StaticPath("/b"))
	if !errors.Is(err, ErrDuplicateEndpoint) {
		t.Fatal("not the error we expected", err)
	}
	desc, err := reg.Resolve("getWidget")
	if err != nil {
		t.Fatal(err)
	}
	if desc.Method != MethodGet || desc.Path("") != "/a" {
		t.Fatal("the first descriptor should not have been replaced")
	}
}

func TestRegistryMustRegisterPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()
	var reg Registry
	reg.MustRegister("x", "TRACE", StaticPath("/"))
}

func TestRegistryResolveUnknown(t *testing.T) {
	var reg Registry
	desc, err := reg.Resolve("nope")
	if !errors.Is(err, ErrUnknownEndpoint) {
		t.Fatal("not the error we expected", err)
	}
	if !strings.HasSuffix(err.Error(), "nope") {
		t.Fatal("the error should name the key", err)
	}
	if desc.Template != nil {
		t.Fatal("expected zero descriptor")
	}
}

func TestRegistryKeys(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("c", "GET", StaticPath("/c"))
	reg.MustRegister("a", "GET", StaticPath("/a"))
	reg.MustRegister("b", "DELETE", Segment("/b", ""))
	if diff := cmp.Diff([]string{"a", "b", "c"}, reg.Keys()); diff != "" {
		t.Fatal(diff)
	}
}

func TestDescriptorPath(t *testing.T) {
	tests := []struct {
		name     string
		template Template
		param    string
		want     string
	}{{
		name:     "static path ignores the param",
		template: StaticPath("/api/plans"),
		param:    "42",
		want:     "/api/plans",
	}, {
		name:     "param path with param",
		template: Segment("/api/widget", ""),
		param:    "42",
		want:     "/api/widget/42",
	}, {
		name:     "param path without param",
		template: Segment("/api/widget/", ""),
		param:    "",
		want:     "/api/widget",
	}, {
		name:     "param path with suffix",
		template: Segment("/api/technicians", "/photo"),
		param:    "abc123",
		want:     "/api/technicians/abc123/photo",
	}, {
		name:     "param is path escaped",
		template: Segment("/api/technicians", ""),
		param:    "a/b c",
		want:     "/api/technicians/a%2Fb%20c",
	}, {
		name: "custom param path",
		template: ParamPath(func(param string) string {
			return "/api/widget/" + param
		}),
		param: "x",
		want:  "/api/widget/x",
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := Descriptor{Method: MethodGet, Template: tt.template}
			if diff := cmp.Diff(tt.want, desc.Path(tt.param)); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestSegmentPropertyParamInParameterizedPosition(t *testing.T) {
	const prefix, suffix = "/api/widget/", "/detail"
	rapid.Check(t, func(t *rapid.T) {
		param := rapid.StringMatching(`[a-z0-9]{1,24}`).Draw(t, "param")
		path := Segment("/api/widget", "/detail").build(param)
		if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
			t.Fatalf("unexpected path %q", path)
		}
		middle := strings.TrimSuffix(strings.TrimPrefix(path, prefix), suffix)
		if middle != param {
			t.Fatalf("expected %q in the parameterized position of %q, got %q", param, path, middle)
		}
	})
}

func TestResolvedMethodsAreSupported(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.SampledFrom([]string{"get", "GET", "post", "Put", "delete", "DeLeTe"}).Draw(t, "method")
		reg := NewRegistry()
		reg.MustRegister("k", name, StaticPath("/"))
		desc, err := reg.Resolve("k")
		if err != nil {
			t.Fatal(err)
		}
		switch desc.Method {
		case MethodGet, MethodPost, MethodPut, MethodDelete:
		default:
			t.Fatalf("unexpected method %q", desc.Method)
		}
	})
}
