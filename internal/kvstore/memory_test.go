package kvstore

import (
	"errors"
	"testing"
)

func TestMemory(t *testing.T) {
	kvs := NewMemory()

	t.Run("Get on missing key", func(t *testing.T) {
		value, err := kvs.Get("antani")
		if !errors.Is(err, ErrNoSuchKey) {
			t.Fatal("not the error we expected", err)
		}
		if value != nil {
			t.Fatal("expected nil value")
		}
	})

	t.Run("Set then Get", func(t *testing.T) {
		input := []byte("mascetti")
		if err := kvs.Set("antani", input); err != nil {
			t.Fatal(err)
		}
		input[0] = 'M' // must not affect the stored copy
		value, err := kvs.Get("antani")
		if err != nil {
			t.Fatal(err)
		}
		if string(value) != "mascetti" {
			t.Fatal("unexpected value", string(value))
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := kvs.Delete("antani"); err != nil {
			t.Fatal(err)
		}
		if _, err := kvs.Get("antani"); !errors.Is(err, ErrNoSuchKey) {
			t.Fatal("not the error we expected", err)
		}
		if err := kvs.Delete("antani"); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("zero value is usable", func(t *testing.T) {
		var zero Memory
		if err := zero.Delete("x"); err != nil {
			t.Fatal(err)
		}
		if err := zero.Set("x", []byte("y")); err != nil {
			t.Fatal(err)
		}
	})
}
