package backend

import (
	"context"
	"errors"
	"testing"
)

func TestRegistry_Register(t *testing.T) {
	registry := NewRegistry()

	b := &mockBackend{kind: "local", name: "test", enabled: true}

	if err := registry.Register(b); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	err := registry.Register(b)
	if !errors.Is(err, ErrBackendExists) {
		t.Errorf("Register() duplicate error = %v, want ErrBackendExists", err)
	}

	if err := registry.Register(nil); err == nil {
		t.Error("Register(nil) should fail")
	}
	if err := registry.Register(&mockBackend{kind: "local"}); err == nil {
		t.Error("Register() should fail without a name")
	}
}

func TestRegistry_Get(t *testing.T) {
	registry := NewRegistry()

	b := &mockBackend{kind: "local", name: "test", enabled: true}
	_ = registry.Register(b)

	got, ok := registry.Get("test")
	if !ok {
		t.Fatal("Get() returned false")
	}
	if got.Name() != "test" {
		t.Errorf("Get().Name() = %q, want %q", got.Name(), "test")
	}

	if _, ok := registry.Get("nonexistent"); ok {
		t.Error("Get() should return false for nonexistent backend")
	}
}

func TestRegistry_Lookup(t *testing.T) {
	registry := NewRegistry()
	_ = registry.Register(&mockBackend{kind: "local", name: "on", enabled: true})
	_ = registry.Register(&mockBackend{kind: "local", name: "off", enabled: false})

	if _, err := registry.Lookup("on"); err != nil {
		t.Errorf("Lookup(on) error = %v", err)
	}
	if _, err := registry.Lookup("off"); !errors.Is(err, ErrBackendDisabled) {
		t.Errorf("Lookup(off) error = %v, want ErrBackendDisabled", err)
	}
	if _, err := registry.Lookup("missing"); !errors.Is(err, ErrBackendNotFound) {
		t.Errorf("Lookup(missing) error = %v, want ErrBackendNotFound", err)
	}
}

func TestRegistry_List(t *testing.T) {
	registry := NewRegistry()

	_ = registry.Register(&mockBackend{kind: "local", name: "c", enabled: true})
	_ = registry.Register(&mockBackend{kind: "remote", name: "a", enabled: true})
	_ = registry.Register(&mockBackend{kind: "remote", name: "b", enabled: false})

	all := registry.List()
	if len(all) != 3 {
		t.Fatalf("List() returned %d backends, want 3", len(all))
	}
	for i, want := range []string{"c", "a", "b"} {
		if all[i].Name() != want {
			t.Errorf("List()[%d] = %q, want %q (registration order)", i, all[i].Name(), want)
		}
	}

	enabled := registry.ListEnabled()
	if len(enabled) != 2 {
		t.Errorf("ListEnabled() returned %d backends, want 2", len(enabled))
	}

	names := registry.Names()
	if names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Errorf("Names() = %v, want sorted", names)
	}
}

func TestRegistry_ListByKind(t *testing.T) {
	registry := NewRegistry()

	_ = registry.Register(&mockBackend{kind: "local", name: "local1", enabled: true})
	_ = registry.Register(&mockBackend{kind: "local", name: "local2", enabled: true})
	_ = registry.Register(&mockBackend{kind: "remote", name: "remote1", enabled: true})

	locals := registry.ListByKind("local")
	if len(locals) != 2 {
		t.Errorf("ListByKind(local) returned %d backends, want 2", len(locals))
	}

	remotes := registry.ListByKind("remote")
	if len(remotes) != 1 {
		t.Errorf("ListByKind(remote) returned %d backends, want 1", len(remotes))
	}
}

func TestRegistry_Unregister(t *testing.T) {
	registry := NewRegistry()

	_ = registry.Register(&mockBackend{kind: "local", name: "a", enabled: true})
	_ = registry.Register(&mockBackend{kind: "local", name: "test", enabled: true})
	_ = registry.Register(&mockBackend{kind: "local", name: "z", enabled: true})

	registry.Unregister("test")

	if _, ok := registry.Get("test"); ok {
		t.Error("Get() should return false after Unregister()")
	}
	list := registry.List()
	if len(list) != 2 || list[0].Name() != "a" || list[1].Name() != "z" {
		t.Errorf("List() after Unregister = %v", registry.Names())
	}
}

func TestRegistry_Connect(t *testing.T) {
	registry := NewRegistry()

	boom := errors.New("tls handshake failed")
	good := &mockBackend{kind: "remote", name: "good", enabled: true}
	bad := &mockBackend{kind: "remote", name: "bad", enabled: true, connectErr: boom}
	off := &mockBackend{kind: "remote", name: "off", enabled: false}
	_ = registry.Register(good)
	_ = registry.Register(bad)
	_ = registry.Register(off)

	failed := registry.Connect(context.Background())
	if len(failed) != 1 {
		t.Fatalf("Connect() failures = %v, want only bad", failed)
	}
	if !errors.Is(failed["bad"], boom) {
		t.Errorf("Connect()[bad] = %v, want %v", failed["bad"], boom)
	}
	if good.closes.Load() != 1 {
		t.Errorf("good probe session closed %d times, want 1", good.closes.Load())
	}
	if off.connects.Load() != 0 {
		t.Error("disabled backend should not be probed")
	}
	if _, ok := registry.Get("bad"); !ok {
		t.Error("failed backend should stay registered")
	}
}
