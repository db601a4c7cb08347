package storage

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/skillgraph/pkg/errors"
	"github.com/matzehuels/skillgraph/pkg/present"
)

// testStore runs the behaviour every Store must share.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	doc := &Document{Source: "skill", Scene: present.Scene{Title: "skill", Radius: 300}}
	if err := s.Save(ctx, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if doc.ID == "" || doc.CreatedAt.IsZero() {
		t.Fatalf("Save should assign ID and CreatedAt: %+v", doc)
	}

	got, err := s.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Source != "skill" || got.Scene.Title != "skill" || got.Scene.Radius != 300 {
		t.Errorf("Get = %+v", got)
	}

	older := &Document{Source: "role", CreatedAt: doc.CreatedAt.Add(-time.Hour)}
	if err := s.Save(ctx, older); err != nil {
		t.Fatal(err)
	}
	list, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != doc.ID {
		t.Errorf("List order = %v", list)
	}
	if list, _ := s.List(ctx, 1); len(list) != 1 {
		t.Errorf("List(1) returned %d", len(list))
	}

	if err := s.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, doc.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get after Delete: %v", err)
	}
	if err := s.Delete(ctx, doc.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("second Delete: %v", err)
	}
	if err := s.Save(ctx, nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Save(nil): %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close(context.Background())
	testStore(t, s)
}

func TestMemoryStore_KeepsGivenID(t *testing.T) {
	s := NewMemoryStore()
	doc := &Document{ID: "fixed"}
	if err := s.Save(context.Background(), doc); err != nil {
		t.Fatal(err)
	}
	if doc.ID != "fixed" {
		t.Errorf("ID = %q", doc.ID)
	}
}

func TestNewMongoStore_InvalidURI(t *testing.T) {
	_, err := NewMongoStore(context.Background(), "not-a-uri", "")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}
