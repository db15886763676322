package authctx

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/nazonexus/identity/identity"
)

func TestSetGet(t *testing.T) {
	ident := identity.Identity{ID: uuid.New(), Username: "frank"}
	ctx := Set(context.Background(), ident)

	got, ok := Get(ctx)
	if !ok {
		t.Fatal("expected identity in context")
	}
	if got.ID != ident.ID || got.Username != "frank" {
		t.Errorf("got %+v, want %+v", got, ident)
	}
}

func TestGet_Empty(t *testing.T) {
	if _, ok := Get(context.Background()); ok {
		t.Error("expected no identity in an empty context")
	}
}

func TestMustGet_PanicsWithoutIdentity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustGet(context.Background())
}
