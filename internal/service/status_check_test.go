package service

import (
	"context"
	"testing"
)

func TestStatusCheckService(t *testing.T) {
	ctx := context.Background()
	svc := NewStatusCheckService(newTestStore(t))

	created, err := svc.Create(ctx, "frontend")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" || created.ClientName != "frontend" {
		t.Errorf("unexpected status check %+v", created)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Errorf("expected the created check back, got %+v", list)
	}
}
