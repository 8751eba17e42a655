package tui

import (
	"testing"

	"github.com/mmcdole/shelf/internal/domain"
)

func TestDetailCacheHitSkipsNetwork(t *testing.T) {
	client := &fakeClient{products: []*domain.Product{product(4, "Fresh Title", "misc", "1")}}
	svc, _ := newTestService(t, client, product(4, "Cached Title", "misc", "1"))
	m := NewDetailModel(svc, quietLogger())

	m, cmd := m.Update(OpenDetailMsg{ID: 4})
	if !m.State.Loading || m.State.ProductID != 4 {
		t.Fatalf("state after open = %+v", m.State)
	}
	m = drain(m, cmd)

	if m.State.Loading || m.State.Error != "" {
		t.Fatalf("state did not settle: %+v", m.State)
	}
	if m.State.Product == nil || m.State.Product.Title != "Cached Title" {
		t.Fatalf("product = %+v, want the cached copy", m.State.Product)
	}
	if client.called("product") {
		t.Fatal("a cached product must not be fetched")
	}
}

func TestDetailRetryAfterFailure(t *testing.T) {
	client := &fakeClient{products: []*domain.Product{product(8, "Desk Lamp", "home", "25")}}
	svc, _ := newTestService(t, client)
	m := NewDetailModel(svc, quietLogger())

	client.setErr(domain.ErrOffline)
	m, cmd := m.Update(OpenDetailMsg{ID: 8})
	m = drain(m, cmd)
	if m.State.Product != nil || m.State.Error == "" || m.State.Loading {
		t.Fatalf("state after failure = %+v", m.State)
	}

	client.setErr(nil)
	m, cmd = m.Update(DetailRetryMsg{})
	if m.State.Error != "" || !m.State.Loading {
		t.Fatalf("retry should clear the error and load: %+v", m.State)
	}
	m = drain(m, cmd)
	if m.State.Product == nil || m.State.Product.Title != "Desk Lamp" || m.State.ProductID != 8 {
		t.Fatalf("state after retry = %+v", m.State)
	}
}

func TestDetailNotFound(t *testing.T) {
	svc, _ := newTestService(t, &fakeClient{})
	m := NewDetailModel(svc, quietLogger())

	m, cmd := m.Update(OpenDetailMsg{ID: 42})
	m = drain(m, cmd)
	if m.State.Error != domain.UserMessage(domain.ErrProductNotFound) {
		t.Fatalf("error = %q", m.State.Error)
	}
}

func TestDetailNewOpenCancelsPrevious(t *testing.T) {
	client := &fakeClient{}
	svc, _ := newTestService(t, client,
		product(1, "First", "misc", "1"),
		product(2, "Second", "misc", "2"),
	)
	m := NewDetailModel(svc, quietLogger())

	m, first := m.Update(OpenDetailMsg{ID: 1})
	m, second := m.Update(OpenDetailMsg{ID: 2})

	if msg := first(); msg != nil {
		m, _ = m.Update(msg)
	}
	if m.State.Product != nil {
		t.Fatalf("superseded load was applied: %+v", m.State.Product)
	}

	m = drain(m, second)
	if m.State.Product == nil || m.State.Product.Title != "Second" {
		t.Fatalf("product = %+v", m.State.Product)
	}
}

func TestDetailRefreshWithoutProductIsNoop(t *testing.T) {
	svc, _ := newTestService(t, &fakeClient{})
	m := NewDetailModel(svc, quietLogger())

	m, cmd := m.Update(DetailRefreshMsg{})
	if cmd != nil || m.State.Loading {
		t.Fatalf("refresh with nothing opened should do nothing: %+v", m.State)
	}
}
