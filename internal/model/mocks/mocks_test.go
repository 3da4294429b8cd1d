package mocks

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLogger(t *testing.T) {
	var called atomic.Int64
	count := func(string) { called.Add(1) }
	countf := func(string, ...interface{}) { called.Add(1) }
	lo := &Logger{
		MockDebug:  count,
		MockDebugf: countf,
		MockInfo:   count,
		MockInfof:  countf,
		MockWarn:   count,
		MockWarnf:  countf,
	}
	lo.Debug("x")
	lo.Debugf("%s", "x")
	lo.Info("x")
	lo.Infof("%s", "x")
	lo.Warn("x")
	lo.Warnf("%s", "x")
	if called.Load() != 6 {
		t.Fatal("unexpected number of calls", called.Load())
	}
}

func TestHTTPClient(t *testing.T) {
	expected := errors.New("mocked error")
	clnt := &HTTPClient{
		MockDo: func(req *http.Request) (*http.Response, error) {
			return nil, expected
		},
	}
	resp, err := clnt.Do(&http.Request{})
	if !errors.Is(err, expected) {
		t.Fatal("not the error we expected", err)
	}
	if resp != nil {
		t.Fatal("expected nil response here")
	}
}

func TestKeyValueStore(t *testing.T) {
	expected := errors.New("mocked error")
	kvs := &KeyValueStore{
		MockGet: func(key string) ([]byte, error) {
			return []byte(key), nil
		},
		MockSet: func(key string, value []byte) error {
			return expected
		},
		MockDelete: func(key string) error {
			return expected
		},
	}
	value, err := kvs.Get("antani")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte("antani"), value); diff != "" {
		t.Fatal(diff)
	}
	if err := kvs.Set("antani", nil); !errors.Is(err, expected) {
		t.Fatal("not the error we expected", err)
	}
	if err := kvs.Delete("antani"); !errors.Is(err, expected) {
		t.Fatal("not the error we expected", err)
	}
}

func TestCredentialStore(t *testing.T) {
	expected := errors.New("mocked error")
	cs := &CredentialStore{
		MockGet: func(ctx context.Context) (string, bool, error) {
			return "tok", true, nil
		},
		MockSet: func(ctx context.Context, token string) error {
			return expected
		},
		MockRemove: func(ctx context.Context) error {
			return expected
		},
	}
	token, found, err := cs.Get(context.Background())
	if err != nil || !found || token != "tok" {
		t.Fatal("unexpected result", token, found, err)
	}
	if err := cs.Set(context.Background(), "x"); !errors.Is(err, expected) {
		t.Fatal("not the error we expected", err)
	}
	if err := cs.Remove(context.Background()); !errors.Is(err, expected) {
		t.Fatal("not the error we expected", err)
	}
}
