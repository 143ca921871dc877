package appctx

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestAttrs(t *testing.T) {
	ctx := context.Background()

	if attrs := Attrs(ctx); len(attrs) != 0 {
		t.Fatalf("empty context should have no attrs, got %v", attrs)
	}

	userID := uuid.New()
	ctx = WithConnID(WithUserID(ctx, userID), "c1")

	if got, ok := UserID(ctx); !ok || got != userID {
		t.Fatalf("expected user %s, got %s", userID, got)
	}

	attrs := Attrs(ctx)
	if len(attrs) != 2 || attrs[0].Value.String() != userID.String() || attrs[1].Value.String() != "c1" {
		t.Fatalf("unexpected attrs: %v", attrs)
	}
}
